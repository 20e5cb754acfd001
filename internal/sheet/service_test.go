package sheet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilesheet/internal/config"
	"pilesheet/internal/ocr"
)

// fakeEngine returns canned detections keyed by the image bytes.
type fakeEngine struct {
	detections map[string][]ocr.RawDetection
	calls      int
	err        error
}

func (f *fakeEngine) DetectText(_ context.Context, image []byte) ([]ocr.RawDetection, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.detections[string(image)], nil
}

func raw(text string, conf, x, y float64) ocr.RawDetection {
	return ocr.RawDetection{
		Text:       text,
		Confidence: conf,
		Polygon: ocr.Polygon{
			{X: x - 10, Y: y - 5}, {X: x + 10, Y: y - 5},
			{X: x + 10, Y: y + 5}, {X: x - 10, Y: y + 5},
		},
	}
}

func testService(t *testing.T, engine ocr.Engine) (*Service, *int) {
	t.Helper()
	constructions := 0
	factory := func(context.Context) (ocr.Engine, error) {
		constructions++
		return engine, nil
	}
	cfg := &config.Config{
		RowYThreshold: 25,
		HeaderMaxY:    300,
		TableMinY:     200,
		PressureMax:   300,
		GaugeMax:      50,
		Ordering:      "document",
	}
	svc, err := NewService(factory, cfg, config.DefaultTemplate())
	require.NoError(t, err)
	return svc, &constructions
}

func TestProcessPagesMergesAndDeduplicates(t *testing.T) {
	engine := &fakeEngine{detections: map[string][]ocr.RawDetection{
		// Page 1: header plus one reading, gauge read at low confidence.
		"page1": {
			raw("PROJECT:", 0.95, 100, 80),
			raw("RIVERSIDE", 0.95, 220, 81),
			raw("9:21", 0.9, 160, 400),
			raw("40", 0.9, 266, 401),
			raw("0.35", 0.5, 535, 402),
		},
		// Page 2: the same reading rescanned with a cleaner gauge.
		"page2": {
			raw("9:21", 0.9, 160, 400),
			raw("40", 0.9, 266, 401),
			raw("0.35", 0.95, 535, 402),
		},
	}}
	svc, constructions := testService(t, engine)

	pages := []Page{
		{Name: "p1.jpg", ContentType: "image/jpeg", Data: []byte("page1")},
		{Name: "p2.jpg", ContentType: "image/jpeg", Data: []byte("page2")},
	}
	result, err := svc.ProcessPages(context.Background(), pages)
	require.NoError(t, err)

	assert.Equal(t, 2, result.PageCount)
	assert.Equal(t, 1, result.TotalReadings)
	require.Len(t, result.Readings, 1)
	assert.Equal(t, "9:21", result.Readings[0].Time.Value)
	assert.Equal(t, 0.95, result.Readings[0].Gauge1.Confidence, "higher-confidence rescan wins")
	assert.Equal(t, "RIVERSIDE", result.ProjectInfo.Project.Value)

	assert.Equal(t, 1, *constructions, "engine is built once")
	assert.Equal(t, 2, engine.calls, "one detection call per page")
}

func TestProcessPagesEmptySubmission(t *testing.T) {
	svc, constructions := testService(t, &fakeEngine{})

	_, err := svc.ProcessPages(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptySubmission)
	assert.Equal(t, 0, *constructions, "rejected before engine init")
}

func TestProcessPagesUnsupportedFileType(t *testing.T) {
	svc, constructions := testService(t, &fakeEngine{})

	pages := []Page{
		{Name: "p1.jpg", ContentType: "image/jpeg", Data: []byte("page1")},
		{Name: "notes.pdf", ContentType: "application/pdf", Data: []byte("x")},
	}
	_, err := svc.ProcessPages(context.Background(), pages)

	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	var pageErr *PageError
	require.ErrorAs(t, err, &pageErr)
	assert.Equal(t, "notes.pdf", pageErr.Page)
	assert.Equal(t, 0, *constructions)
}

func TestProcessPagesDetectionFailureNamesPage(t *testing.T) {
	engine := &fakeEngine{err: errors.New("inference crashed")}
	svc, _ := testService(t, engine)

	pages := []Page{{Name: "p1.png", ContentType: "image/png", Data: []byte("page1")}}
	_, err := svc.ProcessPages(context.Background(), pages)

	var pageErr *PageError
	require.ErrorAs(t, err, &pageErr)
	assert.Equal(t, "p1.png", pageErr.Page)
}

func TestGetEngineErrorIsSticky(t *testing.T) {
	attempts := 0
	factory := func(context.Context) (ocr.Engine, error) {
		attempts++
		return nil, errors.New("no credentials")
	}
	cfg := &config.Config{Ordering: "document"}
	svc, err := NewService(factory, cfg, config.DefaultTemplate())
	require.NoError(t, err)

	pages := []Page{{Name: "p1.jpg", ContentType: "image/jpeg", Data: []byte("x")}}
	_, err1 := svc.ProcessPages(context.Background(), pages)
	_, err2 := svc.ProcessPages(context.Background(), pages)

	assert.Error(t, err1)
	assert.Error(t, err2)
	assert.Equal(t, 1, attempts, "factory is never retried")
}
