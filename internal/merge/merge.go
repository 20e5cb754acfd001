// Package merge combines per-page extraction results for one submission into
// a single ordered, deduplicated reading list.
package merge

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"pilesheet/pkg/models"
)

// Policy selects the reading order for a merged submission.
type Policy string

const (
	// OrderByDocument preserves per-page top-to-bottom geometric order,
	// pages concatenated in upload order. Robust against digit misreads in
	// the time column (a 7 read as 2 would otherwise teleport the row).
	OrderByDocument Policy = "document"

	// OrderByTime sorts readings by (date bucket, hour, minute) parsed from
	// their own date/time fields. More semantically correct when
	// recognition is reliable.
	OrderByTime Policy = "time"
)

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case OrderByDocument, OrderByTime:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown ordering policy %q", s)
	}
}

// Pages merges the extraction results of all pages of one submission.
//
// The first page yielding a non-empty ProjectInfo supplies the submission
// header; header fields are never merged across pages. Reading lists are
// concatenated, ordered per the policy, then deduplicated.
func Pages(pages []models.ExtractionResult, policy Policy) (models.ProjectInfo, []models.Reading) {
	var info models.ProjectInfo
	var readings []models.Reading

	for _, page := range pages {
		if info.Empty() && !page.ProjectInfo.Empty() {
			info = page.ProjectInfo
		}
		readings = append(readings, page.Readings...)
	}

	if policy == OrderByTime {
		sort.SliceStable(readings, func(i, j int) bool {
			return timeSortKey(readings[i]) < timeSortKey(readings[j])
		})
	}

	return info, Deduplicate(readings)
}

// timeSortKey builds a comparable key (dateBucket, hour, minute) packed into
// one int. The date bucket is day*100 + month from a DD/MM... prefix, 0 when
// missing or unparseable; a missing time sorts as 0:00.
func timeSortKey(r models.Reading) int {
	bucket := 0
	if r.Date.Present {
		parts := strings.Split(r.Date.Value, "/")
		if len(parts) >= 2 {
			day, dayErr := strconv.Atoi(parts[0])
			month, monthErr := strconv.Atoi(parts[1])
			if dayErr == nil && monthErr == nil {
				bucket = day*100 + month
			}
		}
	}

	hour, minute := 0, 0
	if r.Time.Present {
		parts := strings.SplitN(strings.ReplaceAll(r.Time.Value, ".", ":"), ":", 2)
		if h, err := strconv.Atoi(parts[0]); err == nil {
			hour = h
		}
		if len(parts) > 1 {
			if m, err := strconv.Atoi(parts[1]); err == nil {
				minute = m
			}
		}
	}

	return bucket*10000 + hour*100 + minute
}

// Deduplicate removes near-duplicate readings, as produced by overlapping
// scans at page boundaries. The key is (time value, pressure value), with
// empty string / 0 standing in for absent fields. The first reading seen under
// a key keeps its slot; a later reading with the same key replaces it in place
// only when its gauge-confidence mean is strictly higher.
func Deduplicate(readings []models.Reading) []models.Reading {
	kept := make([]models.Reading, 0, len(readings))
	slots := make(map[string]int, len(readings))

	for _, r := range readings {
		key := dedupKey(r)
		slot, seen := slots[key]
		if !seen {
			slots[key] = len(kept)
			kept = append(kept, r)
			continue
		}
		if r.GaugeMeanConfidence() > kept[slot].GaugeMeanConfidence() {
			kept[slot] = r
		}
	}

	return kept
}

func dedupKey(r models.Reading) string {
	timeKey := ""
	if r.Time.Present {
		timeKey = r.Time.Value
	}
	pressureKey := 0.0
	if r.Pressure.Present {
		pressureKey = r.Pressure.Value
	}
	return fmt.Sprintf("%s_%g", timeKey, pressureKey)
}
