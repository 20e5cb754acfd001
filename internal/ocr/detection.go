// Package ocr defines the boundary with external OCR engines and normalizes
// their heterogeneous output into a uniform detection shape.
//
// An engine yields, per page image, a list of recognized text spans with a
// confidence score and a bounding polygon. Engines differ in how they encode
// polygons (nested point pairs vs. flat coordinate lists) and in coordinate
// conventions; everything downstream of Normalize sees one shape only.
package ocr

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Point is a single polygon vertex in pixel coordinates at the engine's
// working resolution.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is a bounding polygon, normally 4 points.
type Polygon []Point

// UnmarshalJSON accepts both polygon encodings seen in engine output:
// nested point pairs [[x1,y1],[x2,y2],...] and flat coordinate lists
// [x1,y1,x2,y2,...].
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var nested [][]float64
	if err := json.Unmarshal(data, &nested); err == nil {
		pts := make(Polygon, 0, len(nested))
		for _, pair := range nested {
			if len(pair) < 2 {
				return fmt.Errorf("polygon point has %d coordinates, want 2", len(pair))
			}
			pts = append(pts, Point{X: pair[0], Y: pair[1]})
		}
		*p = pts
		return nil
	}

	var flat []float64
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("polygon is neither nested points nor flat coordinates: %w", err)
	}
	if len(flat)%2 != 0 {
		return fmt.Errorf("flat polygon has odd coordinate count %d", len(flat))
	}
	pts := make(Polygon, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		pts = append(pts, Point{X: flat[i], Y: flat[i+1]})
	}
	*p = pts
	return nil
}

// Centroid returns the arithmetic center of the polygon. Polygons with fewer
// than 4 points default to (0,0); the detection is still kept and callers may
// reject it later by position.
func (p Polygon) Centroid() Point {
	if len(p) < 4 {
		return Point{}
	}
	var c Point
	for _, pt := range p {
		c.X += pt.X
		c.Y += pt.Y
	}
	c.X /= float64(len(p))
	c.Y /= float64(len(p))
	return c
}

// RawDetection is one recognized text span as produced by an engine adapter.
type RawDetection struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Polygon    Polygon `json:"polygon"`
}

// TextDetection is the normalized detection consumed by the extraction
// pipeline. X and Y are the polygon centroid. Immutable and scoped to one page.
type TextDetection struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Polygon    Polygon `json:"polygon"`
}

// Normalize converts raw engine output into the uniform detection sequence:
// detections with empty trimmed text are discarded, confidences are clamped
// into [0,1], centroids are computed and the result is sorted top-to-bottom,
// then left-to-right.
func Normalize(raw []RawDetection) []TextDetection {
	out := make([]TextDetection, 0, len(raw))
	for _, r := range raw {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		conf := r.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}
		c := r.Polygon.Centroid()
		out = append(out, TextDetection{
			Text:       text,
			Confidence: conf,
			X:          c.X,
			Y:          c.Y,
			Polygon:    r.Polygon,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
