package export

import (
	"path/filepath"
	"testing"

	"github.com/anime-shed/spectral-inspector-go/pkg/models"
)

func TestRecordsFromResult(t *testing.T) {
	result := models.SpectralResult{
		Quality: models.QualityOK,
		SpectralLines: []models.SpectralLine{
			{Index: 189, Wavelength: 589, Intensity: 100, Element: "Na-D"},
			{Index: 256, Wavelength: 656, Intensity: 97.5, Element: "H-alpha"},
		},
	}

	records := RecordsFromResult("lamp.png", result)
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	want := LineRecord{Source: "lamp.png", Index: 256, WavelengthNm: 656, Intensity: 97.5, Element: "H-alpha", Quality: "ok"}
	if records[1] != want {
		t.Errorf("Expected %+v, got %+v", want, records[1])
	}

	if got := RecordsFromResult("flat.png", models.SpectralResult{}); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", got)
	}
}

func TestWriteReadLinesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.parquet")

	var records []LineRecord
	for i := 0; i < 300; i++ {
		records = append(records, LineRecord{
			Source:       "batch.png",
			Index:        int64(i),
			WavelengthNm: 400 + float64(i),
			Intensity:    float64(i%100) + 0.25,
			Element:      "Unknown",
			Quality:      "ok",
		})
	}

	if err := WriteLinesFile(path, records); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := ReadLinesFile(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("Expected %d rows, got %d", len(records), len(got))
	}
	for _, i := range []int{0, 127, 128, 299} {
		if got[i] != records[i] {
			t.Errorf("row %d: expected %+v, got %+v", i, records[i], got[i])
		}
	}
}

func TestWriteLinesFile_BadPath(t *testing.T) {
	if err := WriteLinesFile(filepath.Join(t.TempDir(), "missing", "x.parquet"), nil); err == nil {
		t.Error("Expected error for unwritable path")
	}
}
