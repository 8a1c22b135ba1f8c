package models

// DashboardStats is the landing page summary
type DashboardStats struct {
	UserCount      int64          `json:"user_count"`
	ActiveSearches []EventSummary `json:"active_searches"`
}
