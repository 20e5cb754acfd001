package extract

import (
	"regexp"
	"strings"

	"pilesheet/internal/ocr"
	"pilesheet/pkg/models"
)

// defaultHeaderConfidence is used when no header detection matches the
// extracted value.
const defaultHeaderConfidence = 0.8

// headerPatterns maps each metadata field to an ordered list of patterns.
// Handwritten labels vary ("TEST NO" vs. a bare "P. n/n" notation), so
// alternates are tried in priority order; the first hit is final.
type headerField struct {
	set      func(*models.ProjectInfo, models.ScoredValue[string])
	patterns []*regexp.Regexp
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile("(?i)"+p))
	}
	return out
}

var headerFields = []headerField{
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.TestNo = v },
		compileAll(`TEST\s*NO[:.\-]?\s*(.+)`, `P\.\s*\d+\s*/\s*\d+`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.Project = v },
		compileAll(`PROJECT[:.\-]?\s*(.+)`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.Location = v },
		compileAll(`LOCATION[:.\-]?\s*(.+)`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.Contractor = v },
		compileAll(`CONTRACTOR[:.\-]?\s*(.+)`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.ClientName = v },
		compileAll(`CLIENT[S']?\s*NAME[:.\-]?\s*(.+)`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.PileDiameter = v },
		compileAll(`PILE\s*DIAMETER[:.\-]?\s*(.+)`, `(\d+)\s*mm`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.DesignLoad = v },
		compileAll(`DESIGN\s*LOAD[:.\-]?\s*(.+)`, `(\d+)\s*MT`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.TestLoad = v },
		compileAll(`TEST\s*LOAD[:.\-]?\s*(.+)`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.RamArea = v },
		compileAll(`RAM\s*AREA[:.\-]?\s*(.+)`, `(\d+)\s*cm`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.DateOfCasting = v },
		compileAll(`DATE\s*OF\s*CASTING[:.\-]?\s*(.+)`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.PileDepth = v },
		compileAll(`PILE\s*DEPTH[:.\-]?\s*(.+)`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.LCDialGauge = v },
		compileAll(`L\.?C\.?\s*OF\s*DIAL\s*GAUGE[:.\-]?\s*(.+)`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.TestType = v },
		compileAll(`TYPE\s*OF\s*TEST[:.\-]?\s*(.+)`, `(RVPLT|IVPLT|PULLOUT|LATERAL)`)},
	{func(p *models.ProjectInfo, v models.ScoredValue[string]) { p.MixedDesign = v },
		compileAll(`MIXED\s*DESIGN[:.\-]?\s*(.+)`, `(M\s*-?\s*\d+)`)},
}

// ExtractHeader scans the header band (detections with y below headerMaxY,
// already in geometric order) for labeled project metadata. The band's text is
// space-joined into one string and each field's patterns are tried in order;
// the captured group of the first match, or the whole match when the pattern
// has no group, becomes the field value.
//
// Confidence: the first header detection whose own text is a case-insensitive
// substring of the matched value lends its score; otherwise 0.8. Fields with
// no matching pattern stay absent.
func ExtractHeader(detections []ocr.TextDetection, headerMaxY float64) models.ProjectInfo {
	var headerDets []ocr.TextDetection
	for _, det := range detections {
		if det.Y < headerMaxY {
			headerDets = append(headerDets, det)
		}
	}

	texts := make([]string, 0, len(headerDets))
	for _, det := range headerDets {
		texts = append(texts, det.Text)
	}
	headerText := strings.Join(texts, " ")

	var info models.ProjectInfo
	for _, field := range headerFields {
		for _, pattern := range field.patterns {
			match := pattern.FindStringSubmatch(headerText)
			if match == nil {
				continue
			}
			value := match[0]
			if len(match) > 1 && match[1] != "" {
				value = match[1]
			}
			value = strings.TrimSpace(value)
			field.set(&info, models.Some(value, headerConfidence(value, headerDets)))
			break
		}
	}
	return info
}

func headerConfidence(value string, headerDets []ocr.TextDetection) float64 {
	lower := strings.ToLower(value)
	for _, det := range headerDets {
		if strings.Contains(lower, strings.ToLower(det.Text)) {
			return det.Confidence
		}
	}
	return defaultHeaderConfidence
}
