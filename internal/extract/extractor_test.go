package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pilesheet/internal/config"
	"pilesheet/internal/ocr"
)

func TestExtractPage(t *testing.T) {
	ex := NewExtractor(testConfig(), config.DefaultTemplate())

	dets := []ocr.TextDetection{
		// Header band.
		det("PROJECT:", 100, 80),
		det("RIVERSIDE", 220, 81),
		// Table band: two data rows and one noise row.
		det("9:21", 160, 400),
		det("40", 266, 402),
		det("0.35", 535, 401),
		det("9.36", 161, 450),
		det("60", 265, 452),
		det("0.52", 534, 449),
		det("scribble", 405, 520),
	}

	result := ex.ExtractPage(dets)

	assert.Equal(t, "RIVERSIDE", result.ProjectInfo.Project.Value)

	require.Len(t, result.Readings, 2)
	assert.Equal(t, "9:21", result.Readings[0].Time.Value)
	assert.Equal(t, 40.0, result.Readings[0].Pressure.Value)
	assert.Equal(t, "9:36", result.Readings[1].Time.Value, "dot separator normalized")
	assert.Equal(t, 0.52, result.Readings[1].Gauge1.Value)
}

func TestExtractPageHeaderTextNeverBecomesReadings(t *testing.T) {
	ex := NewExtractor(testConfig(), config.DefaultTemplate())

	// Header-band numbers that would parse as pressure if they leaked into
	// the table pass.
	dets := []ocr.TextDetection{
		det("8:00", 160, 100),
		det("40", 266, 101),
	}

	result := ex.ExtractPage(dets)
	assert.Empty(t, result.Readings)
}

func TestExtractPageEmptyInput(t *testing.T) {
	ex := NewExtractor(testConfig(), config.DefaultTemplate())

	result := ex.ExtractPage(nil)
	assert.True(t, result.ProjectInfo.Empty())
	assert.Empty(t, result.Readings)
}
