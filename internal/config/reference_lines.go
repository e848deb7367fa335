package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/anime-shed/spectral-inspector-go/internal/analyzer"
)

// ReferenceTable is the on-disk layout of a reference-line file:
//
//	lines:
//	  - element: H-alpha
//	    wavelength_nm: 656.3
//
// Order is significant under the first-match policy.
type ReferenceTable struct {
	Lines []analyzer.ReferenceLine `yaml:"lines"`
}

// LoadReferenceLines reads a reference table from a YAML file
func LoadReferenceLines(path string) ([]analyzer.ReferenceLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference lines %s: %w", path, err)
	}
	lines, err := ParseReferenceLines(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}

// ParseReferenceLines decodes a YAML reference table
func ParseReferenceLines(data []byte) ([]analyzer.ReferenceLine, error) {
	var table ReferenceTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("invalid reference table: %w", err)
	}
	if len(table.Lines) == 0 {
		return nil, fmt.Errorf("reference table has no lines")
	}
	for i, l := range table.Lines {
		if l.Element == "" {
			return nil, fmt.Errorf("reference line %d has no element", i)
		}
		if l.WavelengthNm <= 0 {
			return nil, fmt.Errorf("reference line %s has non-positive wavelength", l.Element)
		}
	}
	return table.Lines, nil
}

// MarshalReferenceLines encodes a reference table in the file layout
func MarshalReferenceLines(lines []analyzer.ReferenceLine) ([]byte, error) {
	return yaml.Marshal(ReferenceTable{Lines: lines})
}
