package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/anime-shed/spectral-inspector-go/internal/analyzer"
	"github.com/anime-shed/spectral-inspector-go/internal/config"
	"github.com/anime-shed/spectral-inspector-go/internal/export"
	"github.com/anime-shed/spectral-inspector-go/internal/factory"
	"github.com/anime-shed/spectral-inspector-go/internal/logger"
	"github.com/anime-shed/spectral-inspector-go/internal/storage"
	"github.com/anime-shed/spectral-inspector-go/pkg/models"
	"github.com/anime-shed/spectral-inspector-go/pkg/validation"
)

type analyzeOptions struct {
	format      string
	parquetPath string
	threshold   float64
	tolerance   float64
	minNm       float64
	maxNm       float64
	policy      string
	preset      string
	linesFile   string
	workers     int
}

// fileResult is one entry of the analyze command output
type fileResult struct {
	File   string                `json:"file" yaml:"file"`
	Result models.SpectralResult `json:"result" yaml:"result"`
}

func newAnalyzeCmd() *cobra.Command {
	opts := analyzeOptions{}
	def := analyzer.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "analyze <image>...",
		Short: "Analyze local spectrograph images",
		Example: `  # Analyze one image, JSON to stdout
  spectral analyze lamp.jpg

  # Batch with a custom range and parquet export of every line
  spectral analyze --min-nm 380 --max-nm 780 --parquet lines.parquet captures/*.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(cmd, def)
			if err != nil {
				return err
			}

			a, err := factory.NewAnalyzerFactory().CreateAnalyzer(cfg, opts.preset)
			if err != nil {
				return err
			}
			defer a.Close()

			results, failed := analyzeFiles(a, args)

			if opts.parquetPath != "" {
				var records []export.LineRecord
				for _, r := range results {
					records = append(records, export.RecordsFromResult(r.File, r.Result)...)
				}
				if err := export.WriteLinesFile(opts.parquetPath, records); err != nil {
					return err
				}
				logger.WithField("rows", len(records)).WithField("path", opts.parquetPath).Info("Wrote parquet export")
			}

			if err := writeOutput(cmd.OutOrStdout(), opts.format, results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d images could not be analyzed", failed, len(args))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "json", "Output format: json or yaml")
	f.StringVar(&opts.parquetPath, "parquet", "", "Also write all detected lines to this parquet file")
	f.Float64VarP(&opts.threshold, "threshold", "t", def.Thresholds.Peak, "Peak threshold on the 0-100 normalized scale")
	f.Float64Var(&opts.tolerance, "tolerance", def.ToleranceNm, "Line matching tolerance in nm")
	f.Float64Var(&opts.minNm, "min-nm", def.WavelengthRange.MinNm, "Wavelength of the first column")
	f.Float64Var(&opts.maxNm, "max-nm", def.WavelengthRange.MaxNm, "Wavelength of the last column")
	f.StringVar(&opts.policy, "policy", string(def.MatchPolicy), "Line matching policy: closest or first")
	f.StringVar(&opts.preset, "preset", "", "Analysis preset: standard, sensitive, strict or legacy")
	f.StringVar(&opts.linesFile, "lines", "", "YAML reference-line table (default: built-in table)")
	f.IntVarP(&opts.workers, "workers", "w", 0, "Concurrent analyses (default: CPU count)")

	return cmd
}

// config applies explicitly set flags over base
func (o analyzeOptions) config(cmd *cobra.Command, base analyzer.Config) (analyzer.Config, error) {
	cfg := base
	f := cmd.Flags()

	if f.Changed("threshold") {
		cfg = cfg.WithThreshold(o.threshold)
	}
	if f.Changed("tolerance") {
		cfg = cfg.WithTolerance(o.tolerance)
	}
	if f.Changed("min-nm") || f.Changed("max-nm") {
		cfg = cfg.WithWavelengthRange(o.minNm, o.maxNm)
	}
	if f.Changed("policy") {
		policy, err := analyzer.ParseMatchPolicy(o.policy)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithMatchPolicy(policy)
	}
	if o.linesFile != "" {
		lines, err := config.LoadReferenceLines(o.linesFile)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithReferenceLines(lines)
	}
	cfg.MaxWorkers = o.workers

	if o.format != "json" && o.format != "yaml" {
		return cfg, fmt.Errorf("unsupported format %q (json or yaml)", o.format)
	}
	return cfg, nil
}

// analyzeFiles decodes every file and analyzes the decodable ones as a batch
func analyzeFiles(a analyzer.SpectralAnalyzer, files []string) ([]fileResult, int) {
	results := make([]fileResult, len(files))
	rasters := make([]analyzer.Raster, 0, len(files))
	slots := make([]int, 0, len(files))
	failed := 0

	for i, path := range files {
		results[i].File = filepath.Base(path)

		raster, err := loadRaster(path)
		if err != nil {
			logger.WithError(err).WithField("file", path).Error("Failed to load image")
			results[i].Result = models.SpectralResult{
				SpectralProfile: []float64{},
				Wavelengths:     []float64{},
				SpectralLines:   []models.SpectralLine{},
				Quality:         models.QualityFailed,
				Error:           err.Error(),
			}
			failed++
			continue
		}
		rasters = append(rasters, raster)
		slots = append(slots, i)
	}

	review := validation.NewSpectrumValidator()
	for j, br := range a.AnalyzeBatch(rasters) {
		res := br.Result
		if br.Err != nil || res.Failed() {
			failed++
		} else {
			review.Annotate(&res)
		}
		results[slots[j]].Result = res
	}
	return results, failed
}

func loadRaster(path string) (analyzer.Raster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analyzer.Raster{}, err
	}
	img, _, err := storage.DecodeImage(data)
	if err != nil {
		return analyzer.Raster{}, err
	}
	return analyzer.FromImage(img)
}

func writeOutput(w io.Writer, format string, v interface{}) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
