package factory

import (
	"testing"
	"time"

	"github.com/anime-shed/spectral-inspector-go/internal/analyzer"
	"github.com/anime-shed/spectral-inspector-go/internal/config"
)

func TestCreateAnalyzer(t *testing.T) {
	f := NewComponentFactory()

	a, err := f.AnalyzerFactory.CreateAnalyzer(analyzer.DefaultConfig(), "strict")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer a.Close()
	if a.Config().Thresholds.Peak != 85 {
		t.Errorf("Expected strict preset threshold, got %f", a.Config().Thresholds.Peak)
	}

	if _, err := f.AnalyzerFactory.CreateAnalyzer(analyzer.DefaultConfig(), "turbo"); err == nil {
		t.Error("Expected error for unknown preset")
	}
	if _, err := f.AnalyzerFactory.CreateAnalyzer(analyzer.DefaultConfig().WithTolerance(0), ""); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestCreateBlobStorage(t *testing.T) {
	f := NewStorageFactory()

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantNil bool
		wantErr bool
	}{
		{"http has no blob store", config.StorageConfig{Type: "http"}, true, false},
		{"local", config.StorageConfig{Type: "local", LocalDir: t.TempDir()}, false, false},
		{"azure without credentials", config.StorageConfig{Type: "azure"}, true, true},
		{"unknown", config.StorageConfig{Type: "s3"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := f.CreateBlobStorage(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if (store == nil) != tt.wantNil {
				t.Errorf("wantNil=%v, got %v", tt.wantNil, store)
			}
		})
	}
}

func TestCreateFetcher(t *testing.T) {
	cfg := &config.Config{ImageFetchTimeout: time.Second, MaxRequestBodySize: 1024}
	if NewStorageFactory().CreateFetcher(cfg) == nil {
		t.Error("Expected fetcher")
	}
}
