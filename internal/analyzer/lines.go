package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/arbovm/levenshtein"
)

// UnknownElement labels a peak with no reference line inside the tolerance
const UnknownElement = "Unknown"

// DefaultToleranceNm is the half-width of the matching window
const DefaultToleranceNm = 5.0

// ReferenceLine is a known emission/absorption line
type ReferenceLine struct {
	Element      string  `yaml:"element" json:"element"`
	WavelengthNm float64 `yaml:"wavelength_nm" json:"wavelengthNm"`
}

// DefaultReferenceLines returns a fresh copy of the built-in table. Order
// decides between overlapping windows under MatchFirst (He 587.6 and Na-D
// 589.0 overlap) and breaks exact distance ties under MatchClosest.
func DefaultReferenceLines() []ReferenceLine {
	return []ReferenceLine{
		{Element: "H-alpha", WavelengthNm: 656.3},
		{Element: "H-beta", WavelengthNm: 486.1},
		{Element: "He", WavelengthNm: 587.6},
		{Element: "Na-D", WavelengthNm: 589.0},
		{Element: "O", WavelengthNm: 630.0},
		{Element: "Fe", WavelengthNm: 532.8},
		{Element: "Ca", WavelengthNm: 422.7},
	}
}

// MatchPolicy selects between reference lines that all fall in the window
type MatchPolicy string

const (
	// MatchClosest takes the nearest entry; ties go to the earlier entry
	MatchClosest MatchPolicy = "closest"
	// MatchFirst takes the first entry in table order. 589.0 nm resolves to
	// He rather than Na-D under this policy with the default table.
	MatchFirst MatchPolicy = "first"
)

// ParseMatchPolicy accepts "closest" or "first" (case-insensitive); empty
// selects MatchClosest
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch MatchPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchClosest:
		return MatchClosest, nil
	case MatchFirst:
		return MatchFirst, nil
	default:
		return "", fmt.Errorf("unknown match policy %q (want %q or %q)", s, MatchFirst, MatchClosest)
	}
}

// LineMatcher labels wavelengths against a reference table. It copies the
// table on construction and never mutates it, so one matcher can be shared
// by concurrent analyses.
type LineMatcher struct {
	lines     []ReferenceLine
	tolerance float64
	policy    MatchPolicy
}

// NewLineMatcher creates a matcher over a private copy of lines
func NewLineMatcher(lines []ReferenceLine, toleranceNm float64, policy MatchPolicy) *LineMatcher {
	table := make([]ReferenceLine, len(lines))
	copy(table, lines)
	if policy == "" {
		policy = MatchClosest
	}
	return &LineMatcher{lines: table, tolerance: toleranceNm, policy: policy}
}

// Identify returns the element whose reference wavelength lies strictly
// within the tolerance of wavelength, or UnknownElement
func (m *LineMatcher) Identify(wavelength float64) string {
	best := -1
	bestDist := math.Inf(1)

	for i, line := range m.lines {
		dist := math.Abs(wavelength - line.WavelengthNm)
		if dist >= m.tolerance {
			continue
		}
		if m.policy == MatchFirst {
			return line.Element
		}
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}

	if best < 0 {
		return UnknownElement
	}
	return m.lines[best].Element
}

// Lines returns a copy of the matcher's table
func (m *LineMatcher) Lines() []ReferenceLine {
	out := make([]ReferenceLine, len(m.lines))
	copy(out, m.lines)
	return out
}

// IdentifyElement is the first-match lookup over an arbitrary table, kept
// for callers that depend on table-order resolution
func IdentifyElement(wavelength float64, lines []ReferenceLine, toleranceNm float64) string {
	for _, line := range lines {
		if math.Abs(wavelength-line.WavelengthNm) < toleranceNm {
			return line.Element
		}
	}
	return UnknownElement
}

// maxLookupDistance bounds how many edits a fuzzy element lookup tolerates
const maxLookupDistance = 2

// LookupReferenceLine finds a table entry by element label. Exact matches
// ignore case; otherwise the entry with the smallest edit distance (at most
// two edits) is returned with exact=false so callers can suggest it.
func LookupReferenceLine(lines []ReferenceLine, name string) (line ReferenceLine, exact bool, ok bool) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return ReferenceLine{}, false, false
	}

	best := -1
	bestDist := maxLookupDistance + 1
	for i, l := range lines {
		label := strings.ToLower(l.Element)
		if label == query {
			return l, true, true
		}
		if d := levenshtein.Distance(label, query); d < bestDist {
			best, bestDist = i, d
		}
	}

	if best < 0 {
		return ReferenceLine{}, false, false
	}
	return lines[best], false, true
}
