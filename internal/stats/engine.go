package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"lead-insights-service/internal/model"
)

// BreakdownMode selects which client-side dimension the snapshot
// reports; deployments configure one or the other.
type BreakdownMode string

const (
	BreakdownDevice  BreakdownMode = "device"
	BreakdownBrowser BreakdownMode = "browser"
)

// Options tunes snapshot computation.
type Options struct {
	// Breakdown picks device or browser counts (device when unset).
	Breakdown BreakdownMode
	// IncludeUndefined adds a PlaceholderLabel bucket for records with
	// a missing key to the ranked hierarchy lists. Off by default: the
	// lists then cover only records that carry the respective field.
	IncludeUndefined bool
	// LocationLimit caps the location breakdown (default 10).
	LocationLimit int
}

const defaultLocationLimit = 10

const dayFormat = "2006-01-02"

// IsOrganic reports whether a source marks a lead as organic rather
// than tracked. Matches the English and Portuguese spellings as
// case-insensitive substrings.
func IsOrganic(source string) bool {
	s := strings.ToLower(source)
	return strings.Contains(s, "organic") || strings.Contains(s, "orgânico")
}

// Compute derives the full dashboard snapshot from the current and
// previous period record sets. It is deterministic: identical inputs
// produce identical snapshots, with no clock reads.
func Compute(current, previous []model.Lead, from, to time.Time, opts Options) model.DashboardStats {
	snapshot := model.EmptyDashboardStats()
	snapshot.TotalLeads = len(current)
	snapshot.Variation = computeVariation(len(current), len(previous))

	dates := newCounter()
	locations := newCounter()
	devices := newCounter()
	browsers := newCounter()
	campaigns := newCounter()
	adSets := newCounter()
	ads := newCounter()

	for _, lead := range current {
		if lead.Source != "" {
			if IsOrganic(lead.Source) {
				snapshot.OrganicLeads++
			} else {
				snapshot.TrackedLeads++
			}
		}
		if !lead.CreatedAt.IsZero() {
			dates.add(lead.CreatedAt.Format(dayFormat))
		}
		locations.add(lead.Location.Label())
		devices.add(orUnknown(lead.Device))
		browsers.add(lead.Browser.Name())
		countKey(campaigns, lead.Campaign, opts.IncludeUndefined)
		countKey(adSets, lead.AdSet, opts.IncludeUndefined)
		countKey(ads, lead.Ad, opts.IncludeUndefined)
	}

	if dates.size() > 0 {
		snapshot.AveragePerDay = int(math.Round(float64(len(current)) / float64(dates.size())))
	}

	snapshot.LeadsByDate = timeSeries(dates, from, to)

	limit := opts.LocationLimit
	if limit <= 0 {
		limit = defaultLocationLimit
	}
	snapshot.LeadsByLocation = locations.sorted(limit)
	if opts.Breakdown == BreakdownBrowser {
		snapshot.LeadsByBrowser = browsers.sorted(0)
	} else {
		snapshot.LeadsByDevice = devices.sorted(0)
	}

	snapshot.TopCampaigns = ranked(campaigns, len(current))
	snapshot.TopAdSets = ranked(adSets, len(current))
	snapshot.TopAds = ranked(ads, len(current))

	snapshot.Flow = BuildFlowGraph(current)
	return snapshot
}

func computeVariation(currentCount, previousCount int) model.Variation {
	v := model.Variation{
		Value: abs(currentCount - previousCount),
		Trend: model.TrendNeutral,
	}
	switch {
	case previousCount > 0:
		change := float64(currentCount-previousCount) / float64(previousCount) * 100
		if change > 0 {
			v.Trend = model.TrendUp
		} else if change < 0 {
			v.Trend = model.TrendDown
		}
		v.Percentage = round2(math.Abs(change))
	case currentCount > 0:
		v.Percentage = 100
		v.Trend = model.TrendUp
	}
	return v
}

// timeSeries emits one point per calendar day from from to to
// inclusive, zero-filling days without leads. The result is
// chronological with no duplicates regardless of input sparsity.
func timeSeries(dates *counter, from, to time.Time) []model.DatePoint {
	var points []model.DatePoint
	day := truncateDay(from)
	last := truncateDay(to)
	for !day.After(last) {
		key := day.Format(dayFormat)
		points = append(points, model.DatePoint{Date: key, Count: dates.get(key)})
		day = day.AddDate(0, 0, 1)
	}
	if points == nil {
		points = []model.DatePoint{}
	}
	return points
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ranked turns a grouped counter into a top list. Percentages are
// shares of the full current-period total, so entries excluded from
// grouping still count toward the denominator. They are kept unrounded
// so the shares sum to at most 100; rounding is a display concern.
func ranked(c *counter, total int) []model.TopItem {
	entries := c.entries()
	items := make([]model.TopItem, len(entries))
	for i, e := range entries {
		percentage := 0.0
		if total > 0 {
			percentage = float64(e.Count) / float64(total) * 100
		}
		items[i] = model.TopItem{Name: e.Name, Count: e.Count, Percentage: percentage}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Count > items[j].Count })
	return items
}

func countKey(c *counter, key *string, includeUndefined bool) {
	if key == nil || *key == "" {
		if includeUndefined {
			c.add(PlaceholderLabel)
		}
		return
	}
	c.add(*key)
}

// counter groups by key while remembering first-seen order, which keeps
// sorts stable and the whole computation deterministic.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) get(key string) int { return c.counts[key] }

func (c *counter) size() int { return len(c.order) }

type entry struct {
	Name  string
	Count int
}

func (c *counter) entries() []entry {
	out := make([]entry, len(c.order))
	for i, key := range c.order {
		out[i] = entry{Name: key, Count: c.counts[key]}
	}
	return out
}

// sorted returns the breakdown sorted descending by count, capped at
// limit when limit > 0.
func (c *counter) sorted(limit int) []model.CountItem {
	entries := c.entries()
	items := make([]model.CountItem, len(entries))
	for i, e := range entries {
		items[i] = model.CountItem{Name: e.Name, Count: e.Count}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Count > items[j].Count })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func orUnknown(s string) string {
	if s == "" {
		return model.UnknownLabel
	}
	return s
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
