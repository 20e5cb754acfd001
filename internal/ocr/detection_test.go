package ocr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonUnmarshalNested(t *testing.T) {
	var p Polygon
	require.NoError(t, json.Unmarshal([]byte(`[[10,20],[30,20],[30,40],[10,40]]`), &p))
	require.Len(t, p, 4)
	assert.Equal(t, Point{X: 10, Y: 20}, p[0])
	assert.Equal(t, Point{X: 20, Y: 30}, p.Centroid())
}

func TestPolygonUnmarshalFlat(t *testing.T) {
	var p Polygon
	require.NoError(t, json.Unmarshal([]byte(`[10,20,30,20,30,40,10,40]`), &p))
	require.Len(t, p, 4)
	assert.Equal(t, Point{X: 20, Y: 30}, p.Centroid())
}

func TestPolygonUnmarshalOddFlatFails(t *testing.T) {
	var p Polygon
	assert.Error(t, json.Unmarshal([]byte(`[10,20,30]`), &p))
}

func TestCentroidShortPolygonDefaultsToOrigin(t *testing.T) {
	p := Polygon{{X: 5, Y: 5}, {X: 7, Y: 7}}
	assert.Equal(t, Point{}, p.Centroid())
}

func rect(x, y float64) Polygon {
	return Polygon{
		{X: x - 5, Y: y - 5}, {X: x + 5, Y: y - 5},
		{X: x + 5, Y: y + 5}, {X: x - 5, Y: y + 5},
	}
}

func TestNormalizeDropsEmptyTextKeepsShortPolygons(t *testing.T) {
	raw := []RawDetection{
		{Text: "  ", Confidence: 0.9, Polygon: rect(10, 10)},
		{Text: "9:21", Confidence: 0.9, Polygon: rect(160, 400)},
		{Text: "stub", Confidence: 0.5, Polygon: Polygon{{X: 1, Y: 1}}},
	}

	dets := Normalize(raw)
	require.Len(t, dets, 2)

	// Short polygon defaults to (0,0) and sorts first.
	assert.Equal(t, "stub", dets[0].Text)
	assert.Equal(t, 0.0, dets[0].X)
	assert.Equal(t, 0.0, dets[0].Y)

	assert.Equal(t, "9:21", dets[1].Text)
	assert.Equal(t, 160.0, dets[1].X)
	assert.Equal(t, 400.0, dets[1].Y)
}

func TestNormalizeSortsByYThenX(t *testing.T) {
	raw := []RawDetection{
		{Text: "c", Confidence: 1, Polygon: rect(300, 100)},
		{Text: "a", Confidence: 1, Polygon: rect(100, 100)},
		{Text: "b", Confidence: 1, Polygon: rect(200, 50)},
	}

	dets := Normalize(raw)
	require.Len(t, dets, 3)
	assert.Equal(t, "b", dets[0].Text)
	assert.Equal(t, "a", dets[1].Text)
	assert.Equal(t, "c", dets[2].Text)
}

func TestNormalizeClampsConfidence(t *testing.T) {
	dets := Normalize([]RawDetection{
		{Text: "x", Confidence: 1.4, Polygon: rect(10, 10)},
		{Text: "y", Confidence: -0.2, Polygon: rect(20, 10)},
	})
	require.Len(t, dets, 2)
	assert.Equal(t, 1.0, dets[0].Confidence)
	assert.Equal(t, 0.0, dets[1].Confidence)
}
