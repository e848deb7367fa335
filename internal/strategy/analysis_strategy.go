package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anime-shed/spectral-inspector-go/internal/analyzer"
)

// AnalysisStrategy adjusts a base configuration for a kind of capture
type AnalysisStrategy interface {
	Configure(base analyzer.Config) analyzer.Config
	GetStrategyName() string
}

// StandardStrategy leaves the configuration as it is
type StandardStrategy struct{}

func (StandardStrategy) Configure(base analyzer.Config) analyzer.Config {
	return base
}

func (StandardStrategy) GetStrategyName() string {
	return "standard"
}

// SensitiveStrategy lowers the peak threshold for faint sources
type SensitiveStrategy struct {
	Threshold float64
}

// NewSensitiveStrategy creates a sensitive strategy with a threshold of 40
func NewSensitiveStrategy() AnalysisStrategy {
	return &SensitiveStrategy{Threshold: 40}
}

// Configure lowers the threshold but never raises it
func (s *SensitiveStrategy) Configure(base analyzer.Config) analyzer.Config {
	if s.Threshold < base.Thresholds.Peak {
		return base.WithThreshold(s.Threshold)
	}
	return base
}

func (s *SensitiveStrategy) GetStrategyName() string {
	return "sensitive"
}

// StrictStrategy keeps only strong peaks and narrows the match window
type StrictStrategy struct {
	Threshold   float64
	ToleranceNm float64
}

// NewStrictStrategy creates a strict strategy (threshold 85, tolerance 2 nm)
func NewStrictStrategy() AnalysisStrategy {
	return &StrictStrategy{Threshold: 85, ToleranceNm: 2}
}

func (s *StrictStrategy) Configure(base analyzer.Config) analyzer.Config {
	return base.WithThreshold(s.Threshold).WithTolerance(s.ToleranceNm)
}

func (s *StrictStrategy) GetStrategyName() string {
	return "strict"
}

// LegacyStrategy reproduces the first-match labelling of the reference table
type LegacyStrategy struct{}

func (LegacyStrategy) Configure(base analyzer.Config) analyzer.Config {
	return base.WithMatchPolicy(analyzer.MatchFirst)
}

func (LegacyStrategy) GetStrategyName() string { return "legacy" }

var registry = map[string]func() AnalysisStrategy{
	"standard":  func() AnalysisStrategy { return StandardStrategy{} },
	"sensitive": NewSensitiveStrategy,
	"strict":    NewStrictStrategy,
	"legacy":    func() AnalysisStrategy { return LegacyStrategy{} },
}

// Get returns the strategy registered under name; empty selects standard
func Get(name string) (AnalysisStrategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "standard"
	}
	ctor, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// Names lists the registered strategies alphabetically
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
