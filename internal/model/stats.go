package model

// Trend is the direction of the period-over-period variation.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Variation compares the current period against the immediately
// preceding one. Value and Percentage are absolute; the sign lives in
// Trend.
type Variation struct {
	Value      int     `json:"value"`
	Percentage float64 `json:"percentage"`
	Trend      Trend   `json:"trend"`
}

// TopItem is one entry of a ranked hierarchy list.
type TopItem struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DatePoint is one day of the leads time series.
type DatePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CountItem is one entry of a categorical breakdown.
type CountItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FlowNode is a deduplicated stage value of the funnel flow graph.
type FlowNode struct {
	Name string `json:"name"`
}

// FlowLink is a weighted directed edge between two flow nodes,
// referenced by index into the node list.
type FlowLink struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Value  int `json:"value"`
}

// FlowGraph is the Sankey data source derived from the four-level
// source → campaign → ad-set → ad hierarchy.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
}

// DashboardStats is the fully derived statistics snapshot, recomputed
// wholesale on every filter change.
type DashboardStats struct {
	TotalLeads      int         `json:"total_leads"`
	TrackedLeads    int         `json:"tracked_leads"`
	OrganicLeads    int         `json:"organic_leads"`
	AveragePerDay   int         `json:"average_per_day"`
	Variation       Variation   `json:"variation"`
	TopCampaigns    []TopItem   `json:"top_campaigns"`
	TopAdSets       []TopItem   `json:"top_ad_sets"`
	TopAds          []TopItem   `json:"top_ads"`
	LeadsByDate     []DatePoint `json:"leads_by_date"`
	LeadsByLocation []CountItem `json:"leads_by_location"`
	LeadsByDevice   []CountItem `json:"leads_by_device,omitempty"`
	LeadsByBrowser  []CountItem `json:"leads_by_browser,omitempty"`
	Flow            FlowGraph   `json:"flow"`
}

// EmptyDashboardStats is the all-zero snapshot served when a fetch
// fails. Slices are empty, not nil, so clients always see arrays.
func EmptyDashboardStats() DashboardStats {
	return DashboardStats{
		Variation:       Variation{Trend: TrendNeutral},
		TopCampaigns:    []TopItem{},
		TopAdSets:       []TopItem{},
		TopAds:          []TopItem{},
		LeadsByDate:     []DatePoint{},
		LeadsByLocation: []CountItem{},
		Flow:            FlowGraph{Nodes: []FlowNode{}, Links: []FlowLink{}},
	}
}

// DashboardResponse wraps the snapshot with query metadata.
type DashboardResponse struct {
	Meta  DashboardMeta  `json:"meta"`
	Stats DashboardStats `json:"stats"`
}

// DashboardMeta describes the window the snapshot covers. Notice carries
// a transient, user-facing message when the underlying fetch failed.
type DashboardMeta struct {
	Period Period `json:"period"`
	Notice string `json:"notice,omitempty"`
}

// Period is a closed date interval in RFC 3339.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
