package validation

import (
	"testing"

	"github.com/anime-shed/spectral-inspector-go/pkg/models"
)

func issueTypes(issues []SpectrumIssue) map[string]SpectrumIssue {
	m := make(map[string]SpectrumIssue, len(issues))
	for _, issue := range issues {
		m[issue.Type] = issue
	}
	return m
}

func okResult(width int, lines ...models.SpectralLine) models.SpectralResult {
	return models.SpectralResult{
		SpectralProfile: make([]float64, width),
		Wavelengths:     make([]float64, width),
		SpectralLines:   lines,
		PeakCount:       len(lines),
		Quality:         models.QualityOK,
	}
}

func TestNewSpectrumValidator(t *testing.T) {
	validator := NewSpectrumValidator()
	if validator == nil {
		t.Fatal("Expected non-nil spectrum validator")
	}
	if validator.thresholds != DefaultSpectrumThresholds() {
		t.Errorf("Expected default thresholds, got %+v", validator.thresholds)
	}

	custom := NewSpectrumValidatorWithThresholds(SpectrumThresholds{MinWidth: 10, MaxPeaks: 2})
	if custom.thresholds.MaxPeaks != 2 {
		t.Errorf("Expected custom MaxPeaks 2, got %d", custom.thresholds.MaxPeaks)
	}
}

func TestValidate(t *testing.T) {
	validator := NewSpectrumValidatorWithThresholds(SpectrumThresholds{MinWidth: 3, MaxPeaks: 2})

	naD := models.SpectralLine{Index: 5, Wavelength: 589, Intensity: 100, Element: "Na-D"}
	unknown := models.SpectralLine{Index: 7, Wavelength: 566.67, Intensity: 100, Element: "Unknown"}

	degenerate := okResult(20)
	degenerate.Quality = models.QualityDegenerate

	failed := models.SpectralResult{Quality: models.QualityFailed, Error: "invalid_image: zero area"}

	tests := []struct {
		name     string
		result   models.SpectralResult
		expected []string
	}{
		{"identified line", okResult(10, naD), nil},
		{"no peaks", okResult(10), []string{"no_peaks"}},
		{"flat field", degenerate, []string{"flat_field"}},
		{"narrow image", okResult(2), []string{"narrow_image", "no_peaks"}},
		{"only unknown lines", okResult(10, unknown), []string{"unidentified_lines"}},
		{"mixed lines", okResult(10, unknown, naD), nil},
		{"crowded", okResult(10, naD, naD, unknown), []string{"crowded_peaks"}},
		{"failed result", failed, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := validator.Validate(tt.result)
			if len(issues) != len(tt.expected) {
				t.Fatalf("Expected %d issues %v, got %+v", len(tt.expected), tt.expected, issues)
			}
			got := issueTypes(issues)
			for _, typ := range tt.expected {
				if _, ok := got[typ]; !ok {
					t.Errorf("Expected issue %q, got %+v", typ, issues)
				}
			}
		})
	}
}

func TestValidate_Severities(t *testing.T) {
	validator := NewSpectrumValidator()

	degenerate := okResult(20)
	degenerate.Quality = models.QualityDegenerate

	issues := issueTypes(validator.Validate(degenerate))
	if issues["flat_field"].Severity != SeverityError {
		t.Errorf("Expected flat_field to be error severity, got %s", issues["flat_field"].Severity)
	}

	issues = issueTypes(validator.Validate(okResult(1)))
	narrow := issues["narrow_image"]
	if narrow.Severity != SeverityWarning || narrow.ActualValue != 1 || narrow.Threshold != 3 {
		t.Errorf("Unexpected narrow_image issue: %+v", narrow)
	}
	if issues["no_peaks"].Severity != SeverityInfo {
		t.Errorf("Expected no_peaks to be info severity, got %s", issues["no_peaks"].Severity)
	}
}

func TestAnnotate(t *testing.T) {
	validator := NewSpectrumValidator()

	result := okResult(10, models.SpectralLine{Index: 3, Wavelength: 450, Intensity: 90, Element: "Unknown"})
	result.Warnings = []string{"existing"}

	issues := validator.Annotate(&result)
	if len(issues) != 1 {
		t.Fatalf("Expected 1 issue, got %+v", issues)
	}
	if len(result.Warnings) != 2 || result.Warnings[0] != "existing" || result.Warnings[1] != issues[0].Message {
		t.Errorf("Unexpected warnings: %v", result.Warnings)
	}

	degenerate := okResult(20)
	degenerate.Quality = models.QualityDegenerate
	degenerate.Warnings = []string{"flat-field profile"}
	validator.Annotate(&degenerate)
	if len(degenerate.Warnings) != 1 {
		t.Errorf("Expected flat_field not to duplicate the analyzer warning, got %v", degenerate.Warnings)
	}
}

func TestConvertIssuesToMessages(t *testing.T) {
	validator := NewSpectrumValidator()

	issues := []SpectrumIssue{
		{Type: "a", Message: "first", Severity: SeverityWarning},
		{Type: "b", Message: "second", Severity: SeverityInfo},
	}

	messages := validator.ConvertIssuesToMessages(issues)
	if len(messages) != 2 || messages[0] != "first" || messages[1] != "second" {
		t.Errorf("Unexpected messages: %v", messages)
	}

	if validator.HasCriticalIssues(issues) {
		t.Error("Expected no critical issues")
	}
	issues = append(issues, SpectrumIssue{Type: "c", Severity: SeverityError})
	if !validator.HasCriticalIssues(issues) {
		t.Error("Expected critical issue to be detected")
	}
}
