package export

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/anime-shed/spectral-inspector-go/pkg/models"
)

// LineRecord is one identified spectral line of one analyzed image
type LineRecord struct {
	Source       string  `parquet:"source"`
	Index        int64   `parquet:"index"`
	WavelengthNm float64 `parquet:"wavelength_nm"`
	Intensity    float64 `parquet:"intensity"`
	Element      string  `parquet:"element"`
	Quality      string  `parquet:"quality"`
}

// RecordsFromResult flattens a result's lines, tagging each with source
func RecordsFromResult(source string, result models.SpectralResult) []LineRecord {
	records := make([]LineRecord, 0, len(result.SpectralLines))
	for _, l := range result.SpectralLines {
		records = append(records, LineRecord{
			Source:       source,
			Index:        int64(l.Index),
			WavelengthNm: l.Wavelength,
			Intensity:    l.Intensity,
			Element:      l.Element,
			Quality:      string(result.Quality),
		})
	}
	return records
}

// WriteLines writes records as a single parquet file to w
func WriteLines(w io.Writer, records []LineRecord) error {
	writer := parquet.NewGenericWriter[LineRecord](w)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet: %w", err)
	}
	return nil
}

// WriteLinesFile writes records to a parquet file at path
func WriteLinesFile(path string, records []LineRecord) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	if err := WriteLines(file, records); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ReadLinesFile loads every record of a parquet file written by WriteLinesFile
func ReadLinesFile(path string) ([]LineRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[LineRecord](pf)
	defer reader.Close()

	records := make([]LineRecord, 0, pf.NumRows())
	rows := make([]LineRecord, 128)
	for {
		n, err := reader.Read(rows)
		records = append(records, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return records, nil
}
