package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Taby01/SmartUrine-Dash/internal/domain"
)

// Date range keys accepted by history and export filters.
const (
	RangeLastMonth   = "lastmonth"
	RangeLast3Months = "last3months"
	RangeThisYear    = "thisyear"
	RangeAll         = "all"
)

// NormalizeRangeKey canonicalizes a user-supplied range label. Labels are
// matched case-insensitively with spaces stripped, so "Last Month" and
// "lastmonth" are the same key. "alltime" is an accepted alias for "all".
// An empty key defaults to "all".
func NormalizeRangeKey(key string) (string, error) {
	k := strings.ToLower(strings.ReplaceAll(key, " ", ""))
	switch k {
	case "":
		return RangeAll, nil
	case RangeLastMonth, RangeLast3Months, RangeThisYear, RangeAll:
		return k, nil
	case "alltime":
		return RangeAll, nil
	default:
		return "", domain.NewValidationError("range", fmt.Sprintf("unknown date range %q", key))
	}
}

// RangeStart returns the inclusive start of the window ending at now. The
// second return is false for the unbounded "all" range.
func RangeStart(key string, now time.Time) (time.Time, bool, error) {
	k, err := NormalizeRangeKey(key)
	if err != nil {
		return time.Time{}, false, err
	}
	switch k {
	case RangeLastMonth:
		return now.AddDate(0, -1, 0), true, nil
	case RangeLast3Months:
		return now.AddDate(0, -3, 0), true, nil
	case RangeThisYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true, nil
	default:
		return time.Time{}, false, nil
	}
}

// Latest returns the most recent result in the timeline. The second return
// is false for a patient with no results yet.
func Latest(results []domain.TestResult) (domain.TestResult, bool) {
	if len(results) == 0 {
		return domain.TestResult{}, false
	}
	latest := results[0]
	for _, r := range results[1:] {
		if !r.Date.Before(latest.Date) {
			latest = r
		}
	}
	return latest, true
}

// FilterByRange returns the results dated on or after the window start,
// preserving order. The "all" range returns every result.
func FilterByRange(results []domain.TestResult, key string, now time.Time) ([]domain.TestResult, error) {
	start, bounded, err := RangeStart(key, now)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TestResult, 0, len(results))
	for _, r := range results {
		if bounded && r.Date.Before(start) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// FilterByBiomarkers projects each result down to the selected biomarkers.
// Results with none of the selected readings are dropped. An empty selection
// returns the full panel unchanged.
func FilterByBiomarkers(results []domain.TestResult, selected []domain.Biomarker) []domain.TestResult {
	if len(selected) == 0 {
		return results
	}
	out := make([]domain.TestResult, 0, len(results))
	for _, r := range results {
		values := make(map[domain.Biomarker]domain.Value, len(selected))
		for _, b := range selected {
			if v, ok := r.Values[b]; ok {
				values[b] = v
			}
		}
		if len(values) == 0 {
			continue
		}
		out = append(out, domain.TestResult{Date: r.Date, Values: values})
	}
	return out
}
