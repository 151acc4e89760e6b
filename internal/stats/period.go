// Package stats turns a flat list of leads into the dashboard snapshot:
// period variation, ranked hierarchy lists, gap-filled time series,
// categorical breakdowns and the funnel flow graph. Everything here is
// pure computation over in-memory slices; fetching is the repository's
// job.
package stats

import "time"

// PreviousPeriod derives the window immediately preceding [from, to]:
// same real duration, ending one millisecond before from. The two
// windows are contiguous with no overlap and no gap.
func PreviousPeriod(from, to time.Time) (time.Time, time.Time) {
	duration := to.Sub(from)
	prevTo := from.Add(-time.Millisecond)
	prevFrom := prevTo.Add(-duration)
	return prevFrom, prevTo
}
