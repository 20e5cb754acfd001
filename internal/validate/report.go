// Package validate cross-checks a fully structured pile load test report
// against nominal physics and flags probable recognition errors for human
// review. It never mutates the report and never fails extraction.
package validate

// DeflectionData stores the dial gauge readings for one pile.
type DeflectionData struct {
	Dial1MM   *float64 `json:"dial_1_mm,omitempty"`
	Dial2MM   *float64 `json:"dial_2_mm,omitempty"`
	Dial3MM   *float64 `json:"dial_3_mm,omitempty"`
	Dial4MM   *float64 `json:"dial_4_mm,omitempty"`
	AverageMM float64  `json:"average_mm"`
}

// ReadingRow is one structured row of a report: a time-stamped load step with
// the hand-read applied load and the measured deflections.
type ReadingRow struct {
	RowID         int     `json:"row_id"`
	Phase         string  `json:"phase"` // Loading, Holding, Unloading
	TimeRecorded  string  `json:"time_recorded"`
	PressureKgCm2 float64 `json:"pressure_gauge_reading_kg_cm2"`
	LoadAppliedMT float64 `json:"load_applied_mt"`

	TestPileDeflection DeflectionData `json:"test_pile_deflection"`

	// Reaction pile deflection is recorded for lateral tests only.
	ReactionPileDeflection *DeflectionData `json:"reaction_pile_deflection,omitempty"`

	Remarks string `json:"remarks,omitempty"`
}

// TechnicalSpecs carries the figures the physics check depends on. The jack
// ram area converts gauge pressure (kg/cm²) to applied load (MT).
type TechnicalSpecs struct {
	PileDiameterMM float64 `json:"pile_diameter_mm"`
	PileDepthM     float64 `json:"pile_depth_m"`
	JackRamAreaCM2 float64 `json:"jack_ram_area_cm2"`
	TestLoadMT     float64 `json:"test_load_mt"`
}

// Report is a fully structured pile load test report.
type Report struct {
	ProjectName string         `json:"project_name"`
	Location    string         `json:"location"`
	TestType    string         `json:"test_type"` // Vertical, Lateral, Pullout
	Specs       TechnicalSpecs `json:"technical_specs"`
	Readings    []ReadingRow   `json:"readings"`
}

// Warning kinds.
const (
	KindLoadMismatch = "load_mismatch"
	KindTimeReversal = "time_reversal"
)

// Warning is an advisory finding tied to one report row. Warnings never block
// extraction or modify data.
type Warning struct {
	RowID   int    `json:"row_id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
