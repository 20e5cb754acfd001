package extract

import (
	"github.com/rs/zerolog"

	"pilesheet/internal/config"
	"pilesheet/internal/logger"
	"pilesheet/internal/ocr"
	"pilesheet/pkg/models"
)

// Extractor runs the per-page pipeline: header pass over the header band and
// row clustering plus field parsing over the table band. Pure and stateless;
// one instance is shared by all pages of all submissions.
type Extractor struct {
	cfg  *config.Config
	tmpl config.SheetTemplate
	log  zerolog.Logger
}

// NewExtractor creates an extractor for one sheet template.
func NewExtractor(cfg *config.Config, tmpl config.SheetTemplate) *Extractor {
	return &Extractor{
		cfg:  cfg,
		tmpl: tmpl,
		log:  logger.WithComponent("extract"),
	}
}

// ExtractPage converts one page's normalized detections into the structured
// page result. Readings come out in top-to-bottom document order.
func (e *Extractor) ExtractPage(detections []ocr.TextDetection) models.ExtractionResult {
	info := ExtractHeader(detections, e.cfg.HeaderMaxY)

	var tableDets []ocr.TextDetection
	for _, det := range detections {
		if det.Y > e.cfg.TableMinY {
			tableDets = append(tableDets, det)
		}
	}

	rows := ClusterRows(tableDets, e.cfg.RowYThreshold)

	readings := make([]models.Reading, 0, len(rows))
	for _, row := range rows {
		if reading, ok := ParseRow(row, e.tmpl, e.cfg); ok {
			readings = append(readings, reading)
		}
	}

	e.log.Debug().
		Int("detections", len(detections)).
		Int("table_rows", len(rows)).
		Int("readings", len(readings)).
		Bool("header_found", !info.Empty()).
		Msg("Page extracted")

	return models.ExtractionResult{ProjectInfo: info, Readings: readings}
}
