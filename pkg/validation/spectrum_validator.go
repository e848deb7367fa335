package validation

import (
	"fmt"

	"github.com/anime-shed/spectral-inspector-go/internal/analyzer"
	"github.com/anime-shed/spectral-inspector-go/pkg/models"
)

// Severity levels for spectrum issues
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// SpectrumThresholds defines configurable limits for spectrum review
type SpectrumThresholds struct {
	// Minimum profile length with at least one interior sample
	MinWidth int

	// Above this many peaks the detector is likely reporting noise,
	// since it applies no minimum separation between maxima
	MaxPeaks int
}

// DefaultSpectrumThresholds returns the default spectrum thresholds
func DefaultSpectrumThresholds() SpectrumThresholds {
	return SpectrumThresholds{
		MinWidth: 3,
		MaxPeaks: 50,
	}
}

// SpectrumValidator reviews a finished analysis and reports issues a
// caller should know about before trusting the identified lines
type SpectrumValidator struct {
	thresholds SpectrumThresholds
}

// NewSpectrumValidator creates a spectrum validator with default thresholds
func NewSpectrumValidator() *SpectrumValidator {
	return &SpectrumValidator{
		thresholds: DefaultSpectrumThresholds(),
	}
}

// NewSpectrumValidatorWithThresholds creates a spectrum validator with custom thresholds
func NewSpectrumValidatorWithThresholds(thresholds SpectrumThresholds) *SpectrumValidator {
	return &SpectrumValidator{
		thresholds: thresholds,
	}
}

// SpectrumIssue represents a single review finding
type SpectrumIssue struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Severity    string  `json:"severity"`
	ActualValue float64 `json:"actual_value,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// Validate reviews the result. Failed results yield no issues: their Error
// field already carries the diagnostic.
func (sv *SpectrumValidator) Validate(result models.SpectralResult) []SpectrumIssue {
	var issues []SpectrumIssue

	if result.Failed() {
		return issues
	}

	if result.Quality == models.QualityDegenerate {
		issues = append(issues, SpectrumIssue{
			Type:     "flat_field",
			Message:  "Spectrum is flat. Check that the slit is illuminated and the exposure is not saturated.",
			Severity: SeverityError,
		})
	}

	width := len(result.SpectralProfile)
	if width < sv.thresholds.MinWidth {
		issues = append(issues, SpectrumIssue{
			Type:        "narrow_image",
			Message:     "Image is too narrow to contain interior peaks.",
			Severity:    SeverityWarning,
			ActualValue: float64(width),
			Threshold:   float64(sv.thresholds.MinWidth),
		})
	}

	if result.PeakCount == 0 {
		if result.Quality != models.QualityDegenerate {
			issues = append(issues, SpectrumIssue{
				Type:     "no_peaks",
				Message:  "No emission lines rose above the peak threshold.",
				Severity: SeverityInfo,
			})
		}
		return issues
	}

	if countUnknown(result.SpectralLines) == len(result.SpectralLines) {
		issues = append(issues, SpectrumIssue{
			Type:        "unidentified_lines",
			Message:     fmt.Sprintf("None of the %d detected lines matched a reference line.", len(result.SpectralLines)),
			Severity:    SeverityWarning,
			ActualValue: float64(len(result.SpectralLines)),
		})
	}

	if sv.thresholds.MaxPeaks > 0 && result.PeakCount > sv.thresholds.MaxPeaks {
		issues = append(issues, SpectrumIssue{
			Type:        "crowded_peaks",
			Message:     "Too many peaks detected. The spectrum is probably noisy; raise the threshold.",
			Severity:    SeverityWarning,
			ActualValue: float64(result.PeakCount),
			Threshold:   float64(sv.thresholds.MaxPeaks),
		})
	}

	return issues
}

func countUnknown(lines []models.SpectralLine) int {
	n := 0
	for _, l := range lines {
		if l.Element == analyzer.UnknownElement {
			n++
		}
	}
	return n
}

// Annotate appends the messages of non-error issues to the result's warnings.
// The flat_field issue is skipped because the analyzer already records it.
func (sv *SpectrumValidator) Annotate(result *models.SpectralResult) []SpectrumIssue {
	issues := sv.Validate(*result)
	for _, issue := range issues {
		if issue.Type == "flat_field" {
			continue
		}
		result.Warnings = append(result.Warnings, issue.Message)
	}
	return issues
}

// ConvertIssuesToMessages converts issues to plain messages
func (sv *SpectrumValidator) ConvertIssuesToMessages(issues []SpectrumIssue) []string {
	var messages []string
	for _, issue := range issues {
		messages = append(messages, issue.Message)
	}
	return messages
}

// HasCriticalIssues checks if there are any error severity issues
func (sv *SpectrumValidator) HasCriticalIssues(issues []SpectrumIssue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
