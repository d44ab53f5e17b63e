// Package models defines server-side data models persisted in the database.
package models

import "time"

// Transportation is one travel leg of a day. Mode is recorded but does not
// change the emission factor.
type Transportation struct {
	Mode     string  `json:"mode"`
	Distance float64 `json:"distance"`
	Time     float64 `json:"time"`
}

// Wastage is one waste measurement in kilograms.
type Wastage struct {
	WetWaste float64 `json:"wetWaste"`
	DryWaste float64 `json:"dryWaste"`
}

// CarbonRecord is an immutable ledger entry: the raw inputs of one submission
// plus the footprint computed when it was written.
type CarbonRecord struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Name            string           `json:"name"`
	City            string           `json:"city"`
	Date            time.Time        `json:"date"`
	Transportations []Transportation `json:"transportations"`
	Wastages        []Wastage        `json:"wastages"`
	PrevWatts       float64          `json:"prevWatts"`
	TodayWatts      float64          `json:"todayWatts"`
	CarbonFootprint float64          `json:"carbonFootprint"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// Submission is the input of a calculate-and-submit call.
type Submission struct {
	UserID          string
	Name            string
	City            string
	Date            time.Time
	Transportations []Transportation
	Wastages        []Wastage
	PrevWatts       float64
	TodayWatts      float64
}
