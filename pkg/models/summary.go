package models

// MonthlySummary is the converted spend for one month.
type MonthlySummary struct {
	Month    string  `json:"month"`
	TotalTWD float64 `json:"total_twd"`
}

// Summary is the body of GET /summary. Monthly is kept in the order the
// service returns it.
type Summary struct {
	Monthly      []MonthlySummary `json:"monthly"`
	TotalAllTime float64          `json:"total_all_time"`

	// Optional diagnostics reported by newer service versions.
	ProcessedCount *int `json:"processed_count,omitempty"`
	DBTotalCount   *int `json:"db_total_count,omitempty"`
}

// DeleteResult is the body of a successful DELETE /invoices.
type DeleteResult struct {
	Message string `json:"message,omitempty"`
}
