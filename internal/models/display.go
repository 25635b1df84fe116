package models

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultDisplayLanguage is used for name collation when no locale is given.
var DefaultDisplayLanguage = language.English

// SortMonitorsForDisplay returns a new slice ordered for the monitor list:
// failing monitors before healthy ones, and by name within each group using
// locale-aware comparison for tag. The input is left untouched.
func SortMonitorsForDisplay(monitors []Monitor, tag language.Tag) []Monitor {
	sorted := slices.Clone(monitors)
	// A Collator is not safe for concurrent use, so each sort gets its own.
	coll := collate.New(tag)

	slices.SortStableFunc(sorted, func(a, b Monitor) int {
		if af, bf := a.IsFailing(), b.IsFailing(); af != bf {
			if af {
				return -1
			}
			return 1
		}
		return coll.CompareString(a.Name, b.Name)
	})
	return sorted
}

// SortAnomaliesByPrecedence returns a new slice with ongoing anomalies first,
// then the rest, each group ordered by start time, most recent first.
func SortAnomaliesByPrecedence(anomalies []Anomaly) []Anomaly {
	sorted := slices.Clone(anomalies)
	slices.SortStableFunc(sorted, func(a, b Anomaly) int {
		if ao, bo := a.IsOngoing(), b.IsOngoing(); ao != bo {
			if ao {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.StartedAt.UnixNano(), a.StartedAt.UnixNano())
	})
	return sorted
}

// ActiveAnomaly returns the anomaly that takes display precedence, or nil.
func ActiveAnomaly(anomalies []Anomaly) *Anomaly {
	if len(anomalies) == 0 {
		return nil
	}
	sorted := SortAnomaliesByPrecedence(anomalies)
	return &sorted[0]
}
