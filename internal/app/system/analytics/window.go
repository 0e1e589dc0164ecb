// Package analytics derives organization dashboards from a point-in-time
// snapshot of entity collections.
//
// The pipeline is:
//
//	Snapshot → Window (per collection, by cutoff) → Aggregate → Metrics
//	Metrics  → BuildCharts → ChartData
//	Metrics + ChartData → BuildDocument → WriteJSON / WriteCSV
//
// Every stage is a pure function of its inputs. Nothing here talks to the
// database; see store/queries/analyticsdata for the fetch side.
package analytics

import "time"

// Range names a dashboard time window.
type Range string

const (
	Range24h      Range = "24h"
	Range7Days    Range = "7days"
	Range14Days   Range = "14days"
	Range1Month   Range = "1month"
	Range3Months  Range = "3months"
	Range6Months  Range = "6months"
	Range12Months Range = "12months"
)

// DefaultRange is used whenever a range key is missing or unknown.
const DefaultRange = Range12Months

// Ranges returns every valid range, narrowest first.
func Ranges() []Range {
	return []Range{Range24h, Range7Days, Range14Days, Range1Month, Range3Months, Range6Months, Range12Months}
}

// ParseRange returns the Range for s, or DefaultRange if s is not a known key.
func ParseRange(s string) Range {
	r := Range(s)
	if r.Valid() {
		return r
	}
	return DefaultRange
}

// Valid reports whether r is one of the seven known keys.
func (r Range) Valid() bool {
	switch r {
	case Range24h, Range7Days, Range14Days, Range1Month, Range3Months, Range6Months, Range12Months:
		return true
	}
	return false
}

// Label is the French display label used by the dashboard and CSV report.
func (r Range) Label() string {
	switch r {
	case Range24h:
		return "Dernières 24 heures"
	case Range7Days:
		return "7 derniers jours"
	case Range14Days:
		return "14 derniers jours"
	case Range1Month:
		return "Dernier mois"
	case Range3Months:
		return "3 derniers mois"
	case Range6Months:
		return "6 derniers mois"
	}
	return "12 derniers mois"
}

// Cutoff returns the start of the window r ending at now.
//
// Day ranges subtract whole days. Month ranges decrement the month and keep
// the day-of-month (calendar arithmetic, not 30-day blocks); Go normalizes
// overflowing dates, so 31 March minus one month is 3 March.
// Unknown keys behave like Range12Months.
func Cutoff(r Range, now time.Time) time.Time {
	switch r {
	case Range24h:
		return now.AddDate(0, 0, -1)
	case Range7Days:
		return now.AddDate(0, 0, -7)
	case Range14Days:
		return now.AddDate(0, 0, -14)
	case Range1Month:
		return now.AddDate(0, -1, 0)
	case Range3Months:
		return now.AddDate(0, -3, 0)
	case Range6Months:
		return now.AddDate(0, -6, 0)
	}
	return now.AddDate(0, -12, 0)
}

// Window returns the rows whose stamp is valid and not before cutoff.
// The result is a new slice; rows is never modified. Window is idempotent.
func Window[T any](rows []T, cutoff time.Time, stamp func(T) Stamp) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		s := stamp(row)
		if s.Valid && !s.At.Before(cutoff) {
			out = append(out, row)
		}
	}
	return out
}
