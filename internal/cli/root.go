package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/anime-shed/spectral-inspector-go/internal/logger"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spectral",
		Short: "Spectral image analysis: emission lines from spectrograph photos",
		Long: `Spectral reduces a spectrograph image to a 1-D intensity profile, maps
columns onto an assumed 400-700 nm range, detects emission peaks and labels
them against a table of reference lines.

Configuration is read from the environment; a .env file in the working
directory is loaded first when present.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			// keep stdout for command output
			logger.SetOutput(os.Stderr)
			logger.Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newLinesCmd())

	return cmd
}
