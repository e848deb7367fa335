package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anime-shed/spectral-inspector-go/internal/analyzer"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64

	Analysis AnalysisConfig
	Storage  StorageConfig
	Log      LogConfig
}

// AnalysisConfig carries the tunable parameters of the spectral pipeline
type AnalysisConfig struct {
	PeakThreshold      float64
	ToleranceNm        float64
	WavelengthMinNm    float64
	WavelengthMaxNm    float64
	MatchPolicy        analyzer.MatchPolicy
	ReferenceLinesFile string
	MaxWorkers         int

	// ReferenceLines is populated from ReferenceLinesFile when set
	ReferenceLines []analyzer.ReferenceLine
}

// StorageConfig selects and configures the blob store
type StorageConfig struct {
	Type           string // http, azure or local
	AzureAccount   string
	AzureKey       string
	AzureContainer string
	LocalDir       string
}

type LogConfig struct {
	Level  string
	Format string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AnalyzerConfig builds the analyzer configuration. The reference table
// falls back to the built-in lines when no file was configured.
func (c *Config) AnalyzerConfig() analyzer.Config {
	cfg := analyzer.DefaultConfig().
		WithThreshold(c.Analysis.PeakThreshold).
		WithTolerance(c.Analysis.ToleranceNm).
		WithWavelengthRange(c.Analysis.WavelengthMinNm, c.Analysis.WavelengthMaxNm).
		WithMatchPolicy(c.Analysis.MatchPolicy)
	if len(c.Analysis.ReferenceLines) > 0 {
		cfg = cfg.WithReferenceLines(c.Analysis.ReferenceLines)
	}
	cfg.MaxWorkers = c.Analysis.MaxWorkers
	return cfg
}

func LoadFromEnv() (*Config, error) {
	defaults := analyzer.DefaultConfig()

	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:    parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB

		Analysis: AnalysisConfig{
			PeakThreshold:      parseFloatOrDefault("PEAK_THRESHOLD", defaults.Thresholds.Peak),
			ToleranceNm:        parseFloatOrDefault("TOLERANCE_NM", defaults.ToleranceNm),
			WavelengthMinNm:    parseFloatOrDefault("WAVELENGTH_MIN_NM", defaults.WavelengthRange.MinNm),
			WavelengthMaxNm:    parseFloatOrDefault("WAVELENGTH_MAX_NM", defaults.WavelengthRange.MaxNm),
			ReferenceLinesFile: strings.TrimSpace(os.Getenv("REFERENCE_LINES_FILE")),
			MaxWorkers:         int(parseIntOrDefault("MAX_WORKERS", 0)),
		},

		Storage: StorageConfig{
			Type:           strings.ToLower(getEnvOrDefault("STORAGE_TYPE", "http")),
			AzureAccount:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
			AzureKey:       os.Getenv("AZURE_STORAGE_KEY"),
			AzureContainer: getEnvOrDefault("AZURE_CONTAINER", "observations"),
			LocalDir:       getEnvOrDefault("LOCAL_STORAGE_DIR", "./data"),
		},

		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	policy, err := analyzer.ParseMatchPolicy(os.Getenv("MATCH_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid MATCH_POLICY: %w", err)
	}
	cfg.Analysis.MatchPolicy = policy

	if cfg.Analysis.ReferenceLinesFile != "" {
		lines, err := LoadReferenceLines(cfg.Analysis.ReferenceLinesFile)
		if err != nil {
			return nil, err
		}
		cfg.Analysis.ReferenceLines = lines
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks server, storage and analysis settings
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 || c.AnalysisTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			c.RequestTimeout, c.ImageFetchTimeout, c.AnalysisTimeout)
	}
	if c.Analysis.MaxWorkers < 0 {
		return fmt.Errorf("MAX_WORKERS must be >= 0 (got %d)", c.Analysis.MaxWorkers)
	}

	switch c.Storage.Type {
	case "http":
	case "local":
		if strings.TrimSpace(c.Storage.LocalDir) == "" {
			return fmt.Errorf("LOCAL_STORAGE_DIR is required for local storage")
		}
	case "azure":
		if c.Storage.AzureAccount == "" || c.Storage.AzureKey == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY are required for azure storage")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE: %q", c.Storage.Type)
	}

	if err := c.AnalyzerConfig().Validate(); err != nil {
		return fmt.Errorf("invalid analysis settings: %w", err)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}
