package validation

import (
	"testing"

	apperrors "github.com/anime-shed/spectral-inspector-go/internal/errors"
)

func expectValidationMessage(t *testing.T, err error, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected validation error %q, got nil", message)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("Expected AppError, got: %T", err)
	}
	if appErr.Type != apperrors.ErrorTypeValidation {
		t.Errorf("Expected validation type, got %s", appErr.Type)
	}
	if message != "" && appErr.Message != message {
		t.Errorf("Expected %q error, got: %s", message, appErr.Message)
	}
}

func TestValidateImageURL(t *testing.T) {
	validator := NewSourceValidator()

	tests := []struct {
		name    string
		url     string
		message string
		valid   bool
	}{
		{"http", "http://example.com/spectrum.jpg", "", true},
		{"https with path", "https://cdn.example.com/obs/dev-1/a.png", "", true},
		{"ip host", "http://192.168.1.1/image.jpg", "", true},
		{"empty", "", "URL cannot be empty", false},
		{"blank", " \t\n", "URL cannot be empty", false},
		{"no scheme", "not-a-url", "URL scheme not allowed", false},
		{"ftp", "ftp://example.com/image.jpg", "URL scheme not allowed", false},
		{"file", "file://local/path/image.jpg", "URL scheme not allowed", false},
		{"no host", "http://", "URL must have a valid host", false},
		{"no host with path", "http:///path", "URL must have a valid host", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateImageURL(tt.url)
			if tt.valid {
				if err != nil {
					t.Errorf("Expected %q to pass validation, got: %v", tt.url, err)
				}
				return
			}
			expectValidationMessage(t, err, tt.message)
		})
	}
}

func TestValidateImageURL_RestrictedHosts(t *testing.T) {
	validator := NewSourceValidatorWithOptions([]string{"https"}, []string{"example.com", "trusted.com"})

	if err := validator.ValidateImageURL("https://example.com/a.jpg"); err != nil {
		t.Errorf("Expected allowed host to pass, got: %v", err)
	}
	if err := validator.ValidateImageURL("https://trusted.com:8443/a.jpg"); err != nil {
		t.Errorf("Expected allowed host with port to pass, got: %v", err)
	}
	expectValidationMessage(t, validator.ValidateImageURL("https://malicious.com/a.jpg"), "URL host not allowed")
	expectValidationMessage(t, validator.ValidateImageURL("http://example.com/a.jpg"), "URL scheme not allowed")
}

func TestValidateImageKey(t *testing.T) {
	validator := NewSourceValidator()

	valid := []string{
		"observations/dev-1/20240101_120000_spectrum.jpg",
		"raw.png",
	}
	for _, key := range valid {
		if err := validator.ValidateImageKey(key); err != nil {
			t.Errorf("Expected key %q to be valid, got: %v", key, err)
		}
	}

	invalid := []string{
		"",
		"/etc/passwd",
		"../secret.jpg",
		"..",
		"observations/../../x.jpg",
		"observations//a.jpg",
		`observations\a.jpg`,
	}
	for _, key := range invalid {
		expectValidationMessage(t, validator.ValidateImageKey(key), "")
	}
}

func TestValidateSources(t *testing.T) {
	validator := NewSourceValidator()

	tests := []struct {
		name                string
		data, key, imageURL string
		valid               bool
	}{
		{"inline data", "aGVsbG8=", "", "", true},
		{"blob key", "", "observations/a.jpg", "", true},
		{"url", "", "", "https://example.com/a.jpg", true},
		{"none", "", "", "", false},
		{"two sources", "aGVsbG8=", "", "https://example.com/a.jpg", false},
		{"bad key", "", "../a.jpg", "", false},
		{"bad url", "", "", "ftp://example.com/a.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateSources(tt.data, tt.key, tt.imageURL)
			if tt.valid && err != nil {
				t.Errorf("Expected valid sources, got: %v", err)
			}
			if !tt.valid {
				expectValidationMessage(t, err, "")
			}
		})
	}
}

func TestValidateDeviceID(t *testing.T) {
	validator := NewSourceValidator()

	if err := validator.ValidateDeviceID("spectro-01"); err != nil {
		t.Errorf("Expected valid device id, got: %v", err)
	}
	for _, id := range []string{"", "  ", "a/b", "a b", "..x"} {
		expectValidationMessage(t, validator.ValidateDeviceID(id), "")
	}
}
