package audit

// RecentActivityRequest represents a recent-activity request.
type RecentActivityRequest struct {
	Limit int `json:"limit"`
}

// RecentActivityResponse represents a recent-activity response.
type RecentActivityResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}
