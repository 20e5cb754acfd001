package models

// Reading is one time-stamped observation row from a field sheet: the recorded
// time, the hydraulic pressure gauge value and up to four dial gauge deflection
// readings, each with its own recognition confidence.
type Reading struct {
	Date     ScoredValue[string]  `json:"date"`
	Time     ScoredValue[string]  `json:"time"`
	Pressure ScoredValue[float64] `json:"pressure"`
	Gauge1   ScoredValue[float64] `json:"gauge1"`
	Gauge2   ScoredValue[float64] `json:"gauge2"`
	Gauge3   ScoredValue[float64] `json:"gauge3"`
	Gauge4   ScoredValue[float64] `json:"gauge4"`
	Remark   ScoredValue[string]  `json:"remark"`
}

// Gauges returns the four dial gauge values in order.
func (r Reading) Gauges() [4]ScoredValue[float64] {
	return [4]ScoredValue[float64]{r.Gauge1, r.Gauge2, r.Gauge3, r.Gauge4}
}

// HasData reports whether the reading satisfies the retention rule: a present
// time and at least one present gauge or pressure value. Rows that fail it are
// not data rows (titles, separators, footers) and are dropped silently.
func (r Reading) HasData() bool {
	if !r.Time.Present {
		return false
	}
	if r.Pressure.Present {
		return true
	}
	for _, g := range r.Gauges() {
		if g.Present {
			return true
		}
	}
	return false
}

// GaugeMeanConfidence is the mean recognition confidence across the four dial
// gauge fields, counting an absent gauge as 0. Used as the dedup tie-break.
func (r Reading) GaugeMeanConfidence() float64 {
	var sum float64
	for _, g := range r.Gauges() {
		if g.Present {
			sum += g.Confidence
		}
	}
	return sum / 4
}

// ProjectInfo is the header metadata block at the top of a field sheet.
type ProjectInfo struct {
	TestNo        ScoredValue[string] `json:"test_no"`
	Project       ScoredValue[string] `json:"project"`
	Location      ScoredValue[string] `json:"location"`
	Contractor    ScoredValue[string] `json:"contractor"`
	ClientName    ScoredValue[string] `json:"client_name"`
	PileDiameter  ScoredValue[string] `json:"pile_diameter"`
	DesignLoad    ScoredValue[string] `json:"design_load"`
	TestLoad      ScoredValue[string] `json:"test_load"`
	RamArea       ScoredValue[string] `json:"ram_area"`
	DateOfCasting ScoredValue[string] `json:"date_of_casting"`
	PileDepth     ScoredValue[string] `json:"pile_depth"`
	LCDialGauge   ScoredValue[string] `json:"lc_dial_gauge"`
	TestType      ScoredValue[string] `json:"test_type"`
	MixedDesign   ScoredValue[string] `json:"mixed_design"`
}

// Empty reports whether no header field was extracted. The first page of a
// submission with a non-empty ProjectInfo supplies the submission header.
func (p ProjectInfo) Empty() bool {
	fields := []ScoredValue[string]{
		p.TestNo, p.Project, p.Location, p.Contractor, p.ClientName,
		p.PileDiameter, p.DesignLoad, p.TestLoad, p.RamArea, p.DateOfCasting,
		p.PileDepth, p.LCDialGauge, p.TestType, p.MixedDesign,
	}
	for _, f := range fields {
		if f.Present {
			return false
		}
	}
	return true
}

// ExtractionResult is the structured output for a single page.
type ExtractionResult struct {
	ProjectInfo ProjectInfo `json:"project_info"`
	Readings    []Reading   `json:"readings"`
}

// SubmissionResult is the merged output for a whole multi-page submission.
type SubmissionResult struct {
	ProjectInfo   ProjectInfo `json:"project_info"`
	Readings      []Reading   `json:"readings"`
	PageCount     int         `json:"page_count"`
	TotalReadings int         `json:"total_readings"`
}
