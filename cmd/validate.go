package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pilesheet/internal/logger"
	"pilesheet/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [report-file]",
	Short: "Cross-check a structured report against nominal physics",
	Long: `Validate a structured pile load test report (JSON) without modifying it.

For every pressurized reading the expected load is recomputed from the jack
ram area (load = pressure × area / 1000) and compared against the extracted
load with a 5% tolerance; mismatches usually mean a misread digit. Time moving
backwards between consecutive readings is flagged as a probable AM/PM or digit
swap. All findings are advisory.`,
	Example: `  # Print warnings for a report
  pilesheet validate report.json

  # Fail the pipeline when any warning is found
  pilesheet validate report.json --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("strict", false, "Exit nonzero when warnings are found")
	validateCmd.Flags().Bool("json", false, "Output warnings as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("validate")

	strict, _ := cmd.Flags().GetBool("strict")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	reportPath := args[0]

	data, err := os.ReadFile(reportPath)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", reportPath).
			Msg("Failed to read report file")
		return fmt.Errorf("failed to read report file: %w", err)
	}

	var report validate.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return fmt.Errorf("failed to parse report %s: %w", reportPath, err)
	}

	warnings := validate.NewValidator().Validate(&report)

	if jsonOutput {
		out, err := json.MarshalIndent(warnings, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		fmt.Println(string(out))
	} else if len(warnings) == 0 {
		fmt.Println("Report is internally consistent.")
	} else {
		for _, w := range warnings {
			fmt.Printf("row %d [%s]: %s\n", w.RowID, w.Kind, w.Message)
		}
	}

	if strict && len(warnings) > 0 {
		return fmt.Errorf("%d validation warning(s) found", len(warnings))
	}
	return nil
}
