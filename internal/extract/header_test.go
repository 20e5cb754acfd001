package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pilesheet/internal/ocr"
)

func TestExtractHeaderLabeledField(t *testing.T) {
	dets := []ocr.TextDetection{
		det("TEST", 100, 50),
		det("LOAD:", 180, 52),
		det("8.75", 260, 51),
		det("MT", 320, 50),
	}

	info := ExtractHeader(dets, 300)

	assert.True(t, info.TestLoad.Present)
	assert.Equal(t, "8.75 MT", info.TestLoad.Value)
	assert.Equal(t, 0.9, info.TestLoad.Confidence, "lent by the 8.75 detection")

	assert.False(t, info.Contractor.Present)
	assert.False(t, info.RamArea.Present)
}

func TestExtractHeaderFallbackPatterns(t *testing.T) {
	dets := []ocr.TextDetection{
		det("P. 140/7", 100, 60),
		det("RVPLT", 400, 62),
		det("600", 700, 61),
		det("mm", 760, 60),
	}

	info := ExtractHeader(dets, 300)

	// No capture group: the whole match is the value.
	assert.Equal(t, "P. 140/7", info.TestNo.Value)
	assert.Equal(t, "RVPLT", info.TestType.Value)
	assert.Equal(t, "600", info.PileDiameter.Value)
}

func TestExtractHeaderDefaultConfidence(t *testing.T) {
	// Label and value in one detection: the detection's text is not a
	// substring of the extracted value, so confidence falls back.
	dets := []ocr.TextDetection{
		det("CONTRACTOR: ZEDGEO LTD", 100, 80),
	}

	info := ExtractHeader(dets, 300)

	assert.Equal(t, "ZEDGEO LTD", info.Contractor.Value)
	assert.Equal(t, defaultHeaderConfidence, info.Contractor.Confidence)
}

func TestExtractHeaderIgnoresTableBand(t *testing.T) {
	dets := []ocr.TextDetection{
		det("PROJECT:", 100, 350),
		det("BELOW", 220, 351),
	}

	info := ExtractHeader(dets, 300)
	assert.True(t, info.Empty())
}

func TestExtractHeaderFirstPatternWins(t *testing.T) {
	dets := []ocr.TextDetection{
		det("TEST", 100, 40),
		det("NO:", 160, 41),
		det("TP-4", 220, 40),
		det("P. 9/9", 500, 42),
	}

	info := ExtractHeader(dets, 300)
	assert.Equal(t, "TP-4 P. 9/9", info.TestNo.Value, "labeled pattern captures to end of band")
}
