package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anime-shed/spectral-inspector-go/internal/analyzer"
	"github.com/anime-shed/spectral-inspector-go/internal/config"
	"github.com/anime-shed/spectral-inspector-go/pkg/models"
)

func newLinesCmd() *cobra.Command {
	var (
		lookup    string
		linesFile string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "lines",
		Short: "Print the reference-line table or look up one element",
		Example: `  # Print the built-in table as YAML (usable as a --lines file)
  spectral lines

  # Find an element by approximate name
  spectral lines --lookup "h alpha"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines := analyzer.DefaultReferenceLines()
			if linesFile != "" {
				var err error
				if lines, err = config.LoadReferenceLines(linesFile); err != nil {
					return err
				}
			}

			if lookup != "" {
				line, exact, ok := analyzer.LookupReferenceLine(lines, lookup)
				if !ok {
					return fmt.Errorf("no reference line named %q", lookup)
				}
				return writeOutput(cmd.OutOrStdout(), format, models.ReferenceLineResponse{
					Element:      line.Element,
					WavelengthNm: line.WavelengthNm,
					Exact:        &exact,
				})
			}

			if format == "json" {
				return writeOutput(cmd.OutOrStdout(), format, lines)
			}
			data, err := config.MarshalReferenceLines(lines)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&lookup, "lookup", "", "Element name to look up (typos tolerated)")
	cmd.Flags().StringVar(&linesFile, "lines", "", "YAML reference-line table (default: built-in table)")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")

	return cmd
}
