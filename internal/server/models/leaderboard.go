package models

import "time"

// LeaderboardEntry is one ranked user in a city. The same shape serves both
// the ledger-derived ranking and the maintained projection table.
type LeaderboardEntry struct {
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	City        string    `json:"city"`
	TotalCarbon float64   `json:"totalCarbon"`
}

// SeriesPoint is a single day of a per-user time series.
type SeriesPoint struct {
	Date  time.Time
	Value float64
}
