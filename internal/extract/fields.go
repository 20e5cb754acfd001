package extract

import (
	"regexp"
	"strconv"
	"strings"

	"pilesheet/internal/config"
	"pilesheet/pkg/models"
)

var (
	// Loose date shape: DD/MM, DDMMYY and similar, matched on the raw text
	// and stored verbatim. No date object is constructed; downstream sort
	// parses the DD/MM prefix when it needs a key.
	datePattern = regexp.MustCompile(`^\d{2,6}/?\d{0,4}$`)

	// Time after character cleanup: 1-2 digit hour, "." or ":" separator,
	// 2 digit minute.
	timePattern = regexp.MustCompile(`^\d{1,2}[:.]\d{2}$`)

	letterPattern = regexp.MustCompile(`[A-Za-z]`)

	// Frequent recognition confusions in the time column: middle dot for
	// dot, exclamation mark and dash for colon.
	timeCleaner = strings.NewReplacer("·", ".", "!", ":", "-", ":")

	// Numeric columns: middle dot and dash both read as decimal point.
	numberCleaner = strings.NewReplacer("·", ".", "-", ".")
)

// NormalizeTime applies the character-substitution cleanup to a raw time cell
// and reports whether the result is an acceptable time. The separator is
// normalized to ":". Idempotent on already-normalized values.
func NormalizeTime(raw string) (string, bool) {
	cleaned := timeCleaner.Replace(strings.TrimSpace(raw))
	cleaned = letterPattern.ReplaceAllString(cleaned, "")
	if !timePattern.MatchString(cleaned) {
		return "", false
	}
	return strings.ReplaceAll(cleaned, ".", ":"), true
}

// ParseNumber applies the numeric cleanup to a raw cell and parses it as a
// float, accepting only values within [0, max].
func ParseNumber(raw string, max float64) (float64, bool) {
	cleaned := numberCleaner.Replace(strings.TrimSpace(raw))
	cleaned = strings.TrimSpace(letterPattern.ReplaceAllString(cleaned, ""))
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 || value > max {
		return 0, false
	}
	return value, true
}

// ParseRow maps each detection in a row to its column by x position and parses
// the cell text into the typed reading fields. The reported bool is the
// retention rule: rows without a time, or with neither gauges nor pressure,
// are not data rows and yield false.
func ParseRow(row Row, tmpl config.SheetTemplate, cfg *config.Config) (models.Reading, bool) {
	reading := models.Reading{}
	var remarks []string

	for _, det := range row {
		switch tmpl.Column(det.X) {
		case "date":
			if datePattern.MatchString(det.Text) {
				reading.Date = models.Some(det.Text, det.Confidence)
			}

		case "time":
			if value, ok := NormalizeTime(det.Text); ok {
				reading.Time = models.Some(value, det.Confidence)
			}

		case "pressure":
			if value, ok := ParseNumber(det.Text, cfg.PressureMax); ok {
				reading.Pressure = models.Some(value, det.Confidence)
			}

		case "load":
			// Recognized only so the band does not bleed into gauge1.
			// Load is recomputed from pressure by the validator; a
			// hand-read load column is less trustworthy than the dials.

		case "gauge1":
			if value, ok := ParseNumber(det.Text, cfg.GaugeMax); ok {
				reading.Gauge1 = models.Some(value, det.Confidence)
			}
		case "gauge2":
			if value, ok := ParseNumber(det.Text, cfg.GaugeMax); ok {
				reading.Gauge2 = models.Some(value, det.Confidence)
			}
		case "gauge3":
			if value, ok := ParseNumber(det.Text, cfg.GaugeMax); ok {
				reading.Gauge3 = models.Some(value, det.Confidence)
			}
		case "gauge4":
			if value, ok := ParseNumber(det.Text, cfg.GaugeMax); ok {
				reading.Gauge4 = models.Some(value, det.Confidence)
			}

		case "remark":
			remarks = append(remarks, det.Text)
		}
	}

	if len(remarks) > 0 {
		// Remarks are free text, never numerically validated.
		reading.Remark = models.Some(strings.Join(remarks, " "), 1.0)
	}

	return reading, reading.HasData()
}
