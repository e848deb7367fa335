package validation

import (
	"net/url"
	"path"
	"strings"

	apperrors "github.com/anime-shed/spectral-inspector-go/internal/errors"
)

// SourceValidator checks where an image is to be read from
type SourceValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewSourceValidator creates a source validator accepting any http(s) host
func NewSourceValidator() *SourceValidator {
	return &SourceValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewSourceValidatorWithOptions creates a source validator with custom options
func NewSourceValidatorWithOptions(schemes []string, hosts []string) *SourceValidator {
	return &SourceValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// ValidateSources requires exactly one non-empty image source
func (v *SourceValidator) ValidateSources(imageData, imageKey, imageURL string) error {
	n := 0
	for _, s := range []string{imageData, imageKey, imageURL} {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	switch {
	case n == 0:
		return apperrors.NewValidationError("one of imageData, imageS3Key or imageUrl is required", nil)
	case n > 1:
		return apperrors.NewValidationError("only one image source may be given", nil)
	}

	if imageKey != "" {
		return v.ValidateImageKey(imageKey)
	}
	if imageURL != "" {
		return v.ValidateImageURL(imageURL)
	}
	return nil
}

// ValidateImageURL validates a URL an image will be fetched from
func (v *SourceValidator) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !contains(v.allowedSchemes, parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if len(v.allowedHosts) > 0 && !contains(v.allowedHosts, parsedURL.Hostname()) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	return nil
}

// ValidateImageKey validates a blob key. Keys are relative, slash separated
// and may not climb out of the container.
func (v *SourceValidator) ValidateImageKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return apperrors.NewValidationError("image key cannot be empty", nil)
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return apperrors.NewValidationError("image key must be a relative path", nil)
	}
	if path.Clean(key) != key || strings.HasPrefix(key, "../") || key == ".." {
		return apperrors.NewValidationError("image key is not canonical", nil).WithDetails("key %q", key)
	}
	return nil
}

// ValidateDeviceID rejects identifiers that cannot be used in a storage key
func (v *SourceValidator) ValidateDeviceID(deviceID string) error {
	if strings.TrimSpace(deviceID) == "" {
		return apperrors.NewValidationError("deviceId is required", nil)
	}
	if strings.ContainsAny(deviceID, `/\ `) || strings.Contains(deviceID, "..") {
		return apperrors.NewValidationError("deviceId contains invalid characters", nil)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
