package model

// MaxRecentDays bounds the recency window a caller may ask for.
const MaxRecentDays = 3650

// Stats is the aggregate view over the item collection.
type Stats struct {
	TotalItems    int            `json:"total_items"`
	LostItems     int            `json:"lost_items"`
	FoundItems    int            `json:"found_items"`
	ActiveItems   int            `json:"active_items"`
	ResolvedItems int            `json:"resolved_items"`
	ByType        map[string]int `json:"by_type"`
	ByStatus      map[string]int `json:"by_status"`
	ByCity        map[string]int `json:"by_city"`
	RecentItems   int            `json:"recent_items"`
	RecentDays    int            `json:"recent_days"`
	TotalUsers    int            `json:"total_users"`
	TotalReports  int            `json:"total_reports"`
	MostRecent    *Item          `json:"most_recent"`
}
