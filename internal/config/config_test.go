package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anime-shed/spectral-inspector-go/internal/analyzer"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"HOST", "PORT", "PEAK_THRESHOLD", "TOLERANCE_NM", "MATCH_POLICY", "STORAGE_TYPE", "REFERENCE_LINES_FILE"} {
		t.Setenv(k, "")
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.ServerAddress() != "0.0.0.0:8080" {
		t.Errorf("Expected 0.0.0.0:8080, got %s", cfg.ServerAddress())
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected 30s request timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.Storage.Type != "http" {
		t.Errorf("Expected http storage, got %s", cfg.Storage.Type)
	}

	ac := cfg.AnalyzerConfig()
	def := analyzer.DefaultConfig()
	if ac.Thresholds.Peak != def.Thresholds.Peak || ac.ToleranceNm != def.ToleranceNm ||
		ac.WavelengthRange != def.WavelengthRange || ac.MatchPolicy != analyzer.MatchClosest {
		t.Errorf("Expected analyzer defaults, got %+v", ac)
	}
	if len(ac.ReferenceLines) != len(def.ReferenceLines) {
		t.Errorf("Expected built-in reference table, got %d lines", len(ac.ReferenceLines))
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PEAK_THRESHOLD", "55.5")
	t.Setenv("TOLERANCE_NM", "2")
	t.Setenv("WAVELENGTH_MIN_NM", "380")
	t.Setenv("WAVELENGTH_MAX_NM", "780")
	t.Setenv("MATCH_POLICY", "first")
	t.Setenv("MAX_WORKERS", "3")
	t.Setenv("STORAGE_TYPE", "local")
	t.Setenv("LOCAL_STORAGE_DIR", t.TempDir())

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ac := cfg.AnalyzerConfig()
	if ac.Thresholds.Peak != 55.5 || ac.ToleranceNm != 2 {
		t.Errorf("Unexpected threshold/tolerance: %+v", ac)
	}
	if ac.WavelengthRange.MinNm != 380 || ac.WavelengthRange.MaxNm != 780 {
		t.Errorf("Unexpected range: %+v", ac.WavelengthRange)
	}
	if ac.MatchPolicy != analyzer.MatchFirst || ac.MaxWorkers != 3 {
		t.Errorf("Unexpected policy/workers: %s/%d", ac.MatchPolicy, ac.MaxWorkers)
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad port", map[string]string{"PORT": "99999"}, "invalid PORT"},
		{"bad body size", map[string]string{"MAX_REQUEST_BODY_SIZE": "-1"}, "MAX_REQUEST_BODY_SIZE"},
		{"bad policy", map[string]string{"MATCH_POLICY": "nearest-ish"}, "MATCH_POLICY"},
		{"inverted range", map[string]string{"WAVELENGTH_MIN_NM": "700", "WAVELENGTH_MAX_NM": "400"}, "invalid analysis settings"},
		{"zero tolerance", map[string]string{"TOLERANCE_NM": "0"}, "invalid analysis settings"},
		{"bad storage", map[string]string{"STORAGE_TYPE": "s3"}, "invalid STORAGE_TYPE"},
		{"azure without credentials", map[string]string{"STORAGE_TYPE": "azure", "AZURE_STORAGE_ACCOUNT": "", "AZURE_STORAGE_KEY": ""}, "AZURE_STORAGE_ACCOUNT"},
		{"missing reference file", map[string]string{"REFERENCE_LINES_FILE": "/nonexistent/lines.yaml"}, "failed to read reference lines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFromEnv()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFromEnv_ReferenceLinesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.yaml")
	content := "lines:\n  - element: Hg\n    wavelength_nm: 546.1\n  - element: Ne\n    wavelength_nm: 640.2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REFERENCE_LINES_FILE", path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines := cfg.AnalyzerConfig().ReferenceLines
	if len(lines) != 2 || lines[0].Element != "Hg" || lines[1].WavelengthNm != 640.2 {
		t.Errorf("Unexpected reference lines: %+v", lines)
	}
}

func TestParseReferenceLines(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"valid", "lines:\n  - element: Na-D\n    wavelength_nm: 589.0\n", false},
		{"empty", "lines: []\n", true},
		{"missing element", "lines:\n  - wavelength_nm: 500\n", true},
		{"negative wavelength", "lines:\n  - element: X\n    wavelength_nm: -1\n", true},
		{"not yaml", "lines: [", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReferenceLines([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMarshalReferenceLines_RoundTrip(t *testing.T) {
	data, err := MarshalReferenceLines(analyzer.DefaultReferenceLines())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	lines, err := ParseReferenceLines(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	def := analyzer.DefaultReferenceLines()
	for i := range def {
		if lines[i] != def[i] {
			t.Errorf("line %d: expected %+v, got %+v", i, def[i], lines[i])
		}
	}
}
