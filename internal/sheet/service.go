// Package sheet is the submission-level service behind whatever transport the
// caller puts in front of it: N page images in, one merged structured result
// out. It owns the process-wide OCR engine instance.
package sheet

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"pilesheet/internal/config"
	"pilesheet/internal/extract"
	"pilesheet/internal/logger"
	"pilesheet/internal/merge"
	"pilesheet/internal/ocr"
	"pilesheet/pkg/models"
)

// Page is one uploaded field sheet page: a decoded raster image plus the
// metadata needed for error reporting and type checking.
type Page struct {
	Name        string
	ContentType string
	Data        []byte
}

// EngineFactory builds the OCR engine on first use. Engine construction can be
// expensive (model loading, client handshakes), so it is deferred until a page
// actually needs it.
type EngineFactory func(ctx context.Context) (ocr.Engine, error)

// Service processes whole submissions. Stateless between calls except for the
// lazily initialized engine, which is created at most once and shared by all
// concurrent submissions. The engine's thread-safety is not assumed: all
// DetectText calls are serialized through a mutex.
type Service struct {
	factory   EngineFactory
	extractor *extract.Extractor
	policy    merge.Policy
	log       zerolog.Logger

	engineOnce sync.Once
	engine     ocr.Engine
	engineErr  error
	engineMu   sync.Mutex
}

// NewService creates a submission service.
func NewService(factory EngineFactory, cfg *config.Config, tmpl config.SheetTemplate) (*Service, error) {
	policy, err := merge.ParsePolicy(cfg.Ordering)
	if err != nil {
		return nil, err
	}
	return &Service{
		factory:   factory,
		extractor: extract.NewExtractor(cfg, tmpl),
		policy:    policy,
		log:       logger.WithComponent("sheet"),
	}, nil
}

// ProcessPages extracts and merges all pages of one submission.
//
// Input errors (empty submission, unsupported file type) are rejected before
// any engine work. A page that fails detection or normalization fails the
// whole submission with a PageError naming the file.
func (s *Service) ProcessPages(ctx context.Context, pages []Page) (*models.SubmissionResult, error) {
	if len(pages) == 0 {
		return nil, ErrEmptySubmission
	}
	for _, page := range pages {
		if !strings.HasPrefix(page.ContentType, "image/") {
			return nil, &PageError{Page: page.Name, Err: ErrUnsupportedFileType}
		}
	}

	engine, err := s.getEngine(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]models.ExtractionResult, 0, len(pages))
	for _, page := range pages {
		detections, err := s.detect(ctx, engine, page.Data)
		if err != nil {
			return nil, &PageError{Page: page.Name, Err: err}
		}

		result := s.extractor.ExtractPage(ocr.Normalize(detections))
		pageLog := logger.WithPage(page.Name)
		pageLog.Debug().
			Int("readings", len(result.Readings)).
			Msg("Page processed")
		results = append(results, result)
	}

	info, readings := merge.Pages(results, s.policy)

	s.log.Info().
		Int("page_count", len(pages)).
		Int("total_readings", len(readings)).
		Str("ordering", string(s.policy)).
		Msg("Submission processed")

	return &models.SubmissionResult{
		ProjectInfo:   info,
		Readings:      readings,
		PageCount:     len(pages),
		TotalReadings: len(readings),
	}, nil
}

// getEngine builds the engine on first use. The construction error is sticky:
// a process whose engine failed to initialize fails every submission the same
// way rather than retrying.
func (s *Service) getEngine(ctx context.Context) (ocr.Engine, error) {
	s.engineOnce.Do(func() {
		s.engine, s.engineErr = s.factory(ctx)
	})
	return s.engine, s.engineErr
}

// detect serializes engine access; the underlying engine is not guaranteed to
// be safe for concurrent inference.
func (s *Service) detect(ctx context.Context, engine ocr.Engine, image []byte) ([]ocr.RawDetection, error) {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return engine.DetectText(ctx, image)
}
