package models

// ProcessRequest asks for a device capture to be analyzed and recorded.
// Exactly one of ImageData (base64), ImageKey (blob key) or ImageURL is used.
type ProcessRequest struct {
	DeviceID  string `json:"deviceId" binding:"required"`
	UserID    string `json:"userId,omitempty"`
	ImageData string `json:"imageData,omitempty"`
	ImageKey  string `json:"imageS3Key,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// AnalysisRequest asks for a one-off analysis without persistence.
// Zero-valued overrides keep the server defaults.
type AnalysisRequest struct {
	ImageData string `json:"imageData,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`

	// Preset names an analysis strategy applied before the overrides
	Preset string `json:"preset,omitempty"`

	Threshold     *float64 `json:"threshold,omitempty"`
	ToleranceNm   *float64 `json:"toleranceNm,omitempty"`
	WavelengthMin *float64 `json:"wavelengthMinNm,omitempty"`
	WavelengthMax *float64 `json:"wavelengthMaxNm,omitempty"`
	MatchPolicy   string   `json:"matchPolicy,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ObservationResponse is returned after a capture has been processed
type ObservationResponse struct {
	Success       bool           `json:"success"`
	ObservationID string         `json:"observationId"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	SpectralData  SpectralResult `json:"spectralData"`
}

// ReferenceLineResponse describes one entry of the reference line table
type ReferenceLineResponse struct {
	Element      string  `json:"element" yaml:"element"`
	WavelengthNm float64 `json:"wavelengthNm" yaml:"wavelengthNm"`
	// Exact is false when the element was found by approximate name
	Exact *bool `json:"exact,omitempty" yaml:"exact,omitempty"`
}
