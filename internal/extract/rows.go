// Package extract turns normalized OCR detections from one field sheet page
// into structured project metadata and table readings.
package extract

import (
	"math"
	"sort"

	"pilesheet/internal/ocr"
)

// Row is a horizontal cluster of detections presumed to belong to one table
// record, sorted left to right. Rows are transient; they exist only during
// extraction.
type Row []ocr.TextDetection

// ClusterRows groups detections into rows using vertical proximity. The input
// must be sorted by (y, x), as Normalize produces it.
//
// The sweep is greedy and single pass: a detection joins the current row when
// its y is within yThreshold of the row's first member, otherwise the row is
// closed and a new one starts. The reference y is never recomputed to a running
// average, so a long row with gradual y-drift can exceed the threshold relative
// to its first member even though adjacent members are within it. Accepted
// approximation: table rows are short bands and handwriting skew is bounded.
func ClusterRows(detections []ocr.TextDetection, yThreshold float64) []Row {
	if len(detections) == 0 {
		return nil
	}

	var rows []Row
	current := Row{detections[0]}
	referenceY := detections[0].Y

	for _, det := range detections[1:] {
		if math.Abs(det.Y-referenceY) <= yThreshold {
			current = append(current, det)
			continue
		}
		rows = append(rows, sortedByX(current))
		current = Row{det}
		referenceY = det.Y
	}
	rows = append(rows, sortedByX(current))

	return rows
}

func sortedByX(row Row) Row {
	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
	return row
}

// MeanY is the average centroid y of the row's members, used for document
// ordering.
func (r Row) MeanY() float64 {
	if len(r) == 0 {
		return 0
	}
	var sum float64
	for _, det := range r {
		sum += det.Y
	}
	return sum / float64(len(r))
}
