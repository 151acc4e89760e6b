package model

import "time"

// DefaultRangeDays is the date window assumed when a filter carries no
// explicit range.
const DefaultRangeDays = 30

// LeadFilter is the immutable query scope for listings and dashboards.
//
// ClientID nil means "all clients". A zero ClientID is a valid, distinct
// identifier and must never be folded into the nil case; all checks on
// it are explicit nil checks, never zero-value checks.
type LeadFilter struct {
	ClientID       *int64
	From           time.Time
	To             time.Time
	Source         *string
	Campaign       *string
	AdSet          *string
	Ad             *string
	Keyword        *string
	Search         string
	ExcludeOrganic bool
}

// WithDefaults returns a copy with the date range filled in when unset:
// last 30 days ending at now.
func (f LeadFilter) WithDefaults(now time.Time) LeadFilter {
	if f.To.IsZero() {
		f.To = now.UTC()
	} else {
		f.To = f.To.UTC()
	}
	if f.From.IsZero() {
		f.From = f.To.AddDate(0, 0, -DefaultRangeDays)
	} else {
		f.From = f.From.UTC()
	}
	return f
}
