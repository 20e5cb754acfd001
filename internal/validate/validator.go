package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"pilesheet/internal/logger"
)

const (
	// loadTolerance allows 5% for rounding differences and minor gauge error.
	loadTolerance = 0.05

	// minCheckableLoad skips the physics check for near-zero load steps,
	// where relative error is meaningless.
	minCheckableLoad = 1.0
)

// Validator performs the physics and chronology consistency checks.
type Validator struct {
	log zerolog.Logger
}

// NewValidator creates a report validator.
func NewValidator() *Validator {
	return &Validator{log: logger.WithComponent("validate")}
}

// Validate cross-checks every reading of the report and returns the advisory
// warnings. An empty slice means the report is internally consistent.
func (v *Validator) Validate(report *Report) []Warning {
	warnings := v.checkLoads(report)
	warnings = append(warnings, v.checkChronology(report)...)

	v.log.Info().
		Str("test_type", report.TestType).
		Float64("ram_area_cm2", report.Specs.JackRamAreaCM2).
		Int("readings", len(report.Readings)).
		Int("warnings", len(warnings)).
		Msg("Report validation completed")

	return warnings
}

// checkLoads verifies pressure × ram area ≈ load for every pressurized row.
// A mismatch beyond tolerance usually means a misread digit in either the
// pressure or the load column.
func (v *Validator) checkLoads(report *Report) []Warning {
	ramArea := report.Specs.JackRamAreaCM2
	var warnings []Warning

	for _, row := range report.Readings {
		if row.PressureKgCm2 <= 0 {
			continue
		}

		// Load (MT) = pressure (kg/cm²) × ram area (cm²) / 1000
		expected := row.PressureKgCm2 * ramArea / 1000

		if row.LoadAppliedMT <= minCheckableLoad {
			continue
		}
		if math.Abs(expected-row.LoadAppliedMT) <= loadTolerance*row.LoadAppliedMT {
			continue
		}

		msg := fmt.Sprintf("pressure %.2f kg/cm² × ram area %.2f cm² / 1000 = %.2f MT, but extracted load is %.2f MT",
			row.PressureKgCm2, ramArea, expected, row.LoadAppliedMT)
		v.log.Warn().
			Int("row_id", row.RowID).
			Float64("expected_mt", expected).
			Float64("extracted_mt", row.LoadAppliedMT).
			Msg("Load mismatch")
		warnings = append(warnings, Warning{RowID: row.RowID, Kind: KindLoadMismatch, Message: msg})
	}

	return warnings
}

// checkChronology flags time moving backwards between consecutive rows, a
// signal of an AM/PM confusion or a swapped digit. Rows whose time does not
// parse are skipped.
func (v *Validator) checkChronology(report *Report) []Warning {
	var warnings []Warning
	previous := -1

	for _, row := range report.Readings {
		minutes, ok := timeToMinutes(row.TimeRecorded)
		if !ok {
			continue
		}
		if previous >= 0 && minutes < previous {
			msg := fmt.Sprintf("time %s is earlier than the preceding reading", row.TimeRecorded)
			warnings = append(warnings, Warning{RowID: row.RowID, Kind: KindTimeReversal, Message: msg})
		}
		previous = minutes
	}

	return warnings
}

func timeToMinutes(s string) (int, bool) {
	parts := strings.SplitN(strings.ReplaceAll(s, ".", ":"), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, hourErr := strconv.Atoi(strings.TrimSpace(parts[0]))
	minutes, minuteErr := strconv.Atoi(strings.TrimSpace(parts[1]))
	if hourErr != nil || minuteErr != nil {
		return 0, false
	}
	return hours*60 + minutes, true
}
