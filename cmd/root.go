package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pilesheet/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "pilesheet",
	Short: "Extract structured readings from pile load test field sheets",
	Long: `pilesheet turns scanned, handwritten pile load test field sheets into
validated structured data: project header metadata plus an ordered table of
time-stamped pressure and dial gauge readings, every value carrying the OCR
engine's confidence score.

Extraction is geometry driven: detections are clustered into table rows by
vertical position and mapped to columns by a per-template x-range calibration,
so recalibrating for a new sheet layout is a config change, not a code change.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("pilesheet executed")

		fmt.Println("pilesheet - pile load test field sheet extraction")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
