package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/carbontrack/internal/common"
	"github.com/dmitrijs2005/carbontrack/internal/server/models"
)

// Numeric fields are pointers so that an absent value fails the required
// check instead of decoding as zero.
type submitRequest struct {
	UserID          string               `json:"userId"`
	Name            string               `json:"name"`
	City            string               `json:"city"`
	Date            string               `json:"date"`
	Transportations []transportationBody `json:"transportations" binding:"dive"`
	Wastages        []wastageBody        `json:"wastages" binding:"dive"`
	PrevWatts       *float64             `json:"prevWatts" binding:"required"`
	TodayWatts      *float64             `json:"todayWatts" binding:"required"`
}

type transportationBody struct {
	Mode     string   `json:"mode" binding:"required"`
	Distance *float64 `json:"distance" binding:"required"`
	Time     *float64 `json:"time" binding:"required"`
}

type wastageBody struct {
	WetWaste *float64 `json:"wetWaste" binding:"required"`
	DryWaste *float64 `json:"dryWaste" binding:"required"`
}

type submitResponse struct {
	Message             string  `json:"message"`
	TotalCarbonEmission float64 `json:"totalCarbonEmission"`
}

type leaderboardResponse struct {
	UserID      string  `json:"userId"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	City        string  `json:"city"`
	TotalCarbon float64 `json:"totalCarbon"`
}

type recordResponse struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"userId"`
	Name            string                  `json:"name"`
	City            string                  `json:"city"`
	Date            string                  `json:"date"`
	Transportations []models.Transportation `json:"transportations"`
	Wastages        []models.Wastage        `json:"wastages"`
	PrevWatts       float64                 `json:"prevWatts"`
	TodayWatts      float64                 `json:"todayWatts"`
	CarbonFootprint float64                 `json:"carbonFootprint"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: date is required", common.ErrValidation)
	}
	if t, err := time.Parse(common.DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: date %q is neither YYYY-MM-DD nor RFC 3339", common.ErrValidation, s)
}

func (r *submitRequest) toSubmission() (*models.Submission, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return nil, err
	}
	legs := make([]models.Transportation, 0, len(r.Transportations))
	for _, t := range r.Transportations {
		legs = append(legs, models.Transportation{Mode: t.Mode, Distance: *t.Distance, Time: *t.Time})
	}
	wastes := make([]models.Wastage, 0, len(r.Wastages))
	for _, w := range r.Wastages {
		wastes = append(wastes, models.Wastage{WetWaste: *w.WetWaste, DryWaste: *w.DryWaste})
	}
	return &models.Submission{
		UserID:          r.UserID,
		Name:            r.Name,
		City:            r.City,
		Date:            date,
		Transportations: legs,
		Wastages:        wastes,
		PrevWatts:       *r.PrevWatts,
		TodayWatts:      *r.TodayWatts,
	}, nil
}

func seriesToResponse(key string, points []models.SeriesPoint) []map[string]any {
	out := make([]map[string]any, 0, len(points))
	for _, p := range points {
		out = append(out, map[string]any{
			"date": p.Date.Format(common.DateLayout),
			key:    p.Value,
		})
	}
	return out
}

func leaderboardToResponse(entries []*models.LeaderboardEntry) []leaderboardResponse {
	out := make([]leaderboardResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardResponse{
			UserID:      e.UserID,
			Name:        e.Name,
			Date:        e.Date.Format(common.DateLayout),
			City:        e.City,
			TotalCarbon: e.TotalCarbon,
		})
	}
	return out
}

func recordsToResponse(recs []*models.CarbonRecord) []recordResponse {
	out := make([]recordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordResponse{
			ID:              r.ID,
			UserID:          r.UserID,
			Name:            r.Name,
			City:            r.City,
			Date:            r.Date.Format(common.DateLayout),
			Transportations: r.Transportations,
			Wastages:        r.Wastages,
			PrevWatts:       r.PrevWatts,
			TodayWatts:      r.TodayWatts,
			CarbonFootprint: r.CarbonFootprint,
			CreatedAt:       r.CreatedAt,
		})
	}
	return out
}
