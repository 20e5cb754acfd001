package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/spf13/viper"
)

// ColumnRange is a half-open horizontal band [XMin, XMax) assigned to one
// semantic table column.
type ColumnRange struct {
	XMin float64 `mapstructure:"x_min"`
	XMax float64 `mapstructure:"x_max"`
}

// Contains reports whether x falls inside the range.
func (r ColumnRange) Contains(x float64) bool {
	return x >= r.XMin && x < r.XMax
}

// SheetTemplate is the per-sheet-layout column calibration: which x band each
// table column occupies, in pixels at the OCR engine's working resolution.
// Column geometry differs between field sheet sources, so the template is
// data loaded from a file, not code.
type SheetTemplate struct {
	Name     string      `mapstructure:"name"`
	Date     ColumnRange `mapstructure:"date"`
	Time     ColumnRange `mapstructure:"time"`
	Pressure ColumnRange `mapstructure:"pressure"`
	// Load occupies an x band so adjacent gauge columns are not polluted,
	// but its value is never stored; load is recomputed from pressure.
	Load   ColumnRange `mapstructure:"load"`
	Gauge1 ColumnRange `mapstructure:"gauge1"`
	Gauge2 ColumnRange `mapstructure:"gauge2"`
	Gauge3 ColumnRange `mapstructure:"gauge3"`
	Gauge4 ColumnRange `mapstructure:"gauge4"`
	// RemarkMinX is the x at which free-text remarks begin.
	RemarkMinX float64 `mapstructure:"remark_min_x"`
}

// DefaultTemplate returns the calibrated layout for standard ZedGeo field
// sheets scanned at roughly 2000px width.
func DefaultTemplate() SheetTemplate {
	return SheetTemplate{
		Name:       "zedgeo-2000px",
		Date:       ColumnRange{0, 130},
		Time:       ColumnRange{130, 220},
		Pressure:   ColumnRange{220, 350},
		Load:       ColumnRange{350, 500},
		Gauge1:     ColumnRange{500, 640},
		Gauge2:     ColumnRange{640, 780},
		Gauge3:     ColumnRange{780, 920},
		Gauge4:     ColumnRange{920, 1060},
		RemarkMinX: 1060,
	}
}

// LoadTemplate reads a sheet template from a YAML/JSON/TOML calibration file.
func LoadTemplate(path string) (SheetTemplate, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return SheetTemplate{}, fmt.Errorf("failed to read sheet template %s: %w", path, err)
	}

	tmpl := DefaultTemplate()
	if err := v.Unmarshal(&tmpl); err != nil {
		return SheetTemplate{}, fmt.Errorf("failed to parse sheet template %s: %w", path, err)
	}

	if err := tmpl.Validate(); err != nil {
		return SheetTemplate{}, fmt.Errorf("invalid sheet template %s: %w", path, err)
	}
	return tmpl, nil
}

// namedRange pairs a column name with its range, for validation and mapping.
type namedRange struct {
	name string
	rng  ColumnRange
}

func (t SheetTemplate) ranges() []namedRange {
	return []namedRange{
		{"date", t.Date},
		{"time", t.Time},
		{"pressure", t.Pressure},
		{"load", t.Load},
		{"gauge1", t.Gauge1},
		{"gauge2", t.Gauge2},
		{"gauge3", t.Gauge3},
		{"gauge4", t.Gauge4},
	}
}

// Column returns the name of the column whose range contains x, or "remark"
// when x lies at or beyond RemarkMinX, or "" when x falls outside every band.
func (t SheetTemplate) Column(x float64) string {
	for _, nr := range t.ranges() {
		if nr.rng.Contains(x) {
			return nr.name
		}
	}
	if t.RemarkMinX > 0 && x >= t.RemarkMinX {
		return "remark"
	}
	return ""
}

// Validate checks that every range is well formed and that no two ranges
// overlap.
func (t SheetTemplate) Validate() error {
	ranges := t.ranges()
	for _, nr := range ranges {
		if nr.rng.XMax <= nr.rng.XMin {
			return fmt.Errorf("column %s: x_max (%v) must exceed x_min (%v)", nr.name, nr.rng.XMax, nr.rng.XMin)
		}
		if math.IsNaN(nr.rng.XMin) || math.IsNaN(nr.rng.XMax) {
			return fmt.Errorf("column %s: range is NaN", nr.name)
		}
	}

	sorted := make([]namedRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].rng.XMin < sorted[j].rng.XMin })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].rng.XMin < sorted[i-1].rng.XMax {
			return fmt.Errorf("columns %s and %s overlap", sorted[i-1].name, sorted[i].name)
		}
	}
	return nil
}
