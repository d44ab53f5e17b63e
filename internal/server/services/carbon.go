// Package services contains server-side business logic. This file implements
// CarbonService: calculate-and-submit, per-user time series and city rankings.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/carbontrack/internal/cache"
	"github.com/dmitrijs2005/carbontrack/internal/common"
	"github.com/dmitrijs2005/carbontrack/internal/dbx"
	"github.com/dmitrijs2005/carbontrack/internal/emission"
	"github.com/dmitrijs2005/carbontrack/internal/logging"
	"github.com/dmitrijs2005/carbontrack/internal/server/models"
	"github.com/dmitrijs2005/carbontrack/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// CarbonService owns the CarbonRecord ledger and the leaderboard projection.
type CarbonService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	rankings    *cache.Memory
	logger      logging.Logger
	newID       func() string
}

// NewCarbonService constructs a CarbonService. rankings may be nil, in which
// case every LeaderBoard call reads the ledger.
func NewCarbonService(db *sql.DB, m repomanager.RepositoryManager, rankings *cache.Memory, logger logging.Logger) *CarbonService {
	return &CarbonService{
		db:          db,
		repomanager: m,
		rankings:    rankings,
		logger:      logger.With("module", "carbon_service"),
		newID:       func() string { return uuid.NewString() },
	}
}

// CalculateAndSubmit computes the footprint of sub, appends it to the ledger
// and upserts the user's leaderboard row in the same transaction. The
// projection row is left alone when sub is older than what it already holds.
func (s *CarbonService) CalculateAndSubmit(ctx context.Context, sub *models.Submission) (*models.CarbonRecord, error) {
	if err := ValidateSubmission(sub); err != nil {
		return nil, err
	}

	date := TruncateToDate(sub.Date)
	total := emission.Footprint(emission.Input{
		Transportations: sub.Transportations,
		Wastages:        sub.Wastages,
		PrevWatts:       sub.PrevWatts,
		TodayWatts:      sub.TodayWatts,
	})

	record := &models.CarbonRecord{
		ID:              s.newID(),
		UserID:          sub.UserID,
		Name:            sub.Name,
		City:            sub.City,
		Date:            date,
		Transportations: sub.Transportations,
		Wastages:        sub.Wastages,
		PrevWatts:       sub.PrevWatts,
		TodayWatts:      sub.TodayWatts,
		CarbonFootprint: total,
	}

	projected, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (bool, error) {
		if err := s.repomanager.Records(tx).Create(ctx, record); err != nil {
			return false, fmt.Errorf("error creating carbon record: %w", err)
		}
		ok, err := s.repomanager.Leaderboard(tx).Upsert(ctx, &models.LeaderboardEntry{
			UserID:      record.UserID,
			Name:        record.Name,
			Date:        record.Date,
			City:        record.City,
			TotalCarbon: record.CarbonFootprint,
		})
		if err != nil {
			return false, fmt.Errorf("error updating leaderboard: %w", err)
		}
		return ok, nil
	})
	if err != nil {
		return nil, err
	}

	if s.rankings != nil {
		s.rankings.Delete(record.City)
	}

	s.logger.Info(ctx, "carbon record stored",
		"record_id", record.ID, "user_id", record.UserID, "city", record.City,
		"date", record.Date.Format(common.DateLayout), "total", total, "projection_updated", projected)

	return record, nil
}

// Dashboard returns the stored footprint of every submission of userID.
func (s *CarbonService) Dashboard(ctx context.Context, userID string) ([]models.SeriesPoint, error) {
	return s.series(ctx, userID, func(r *models.CarbonRecord) float64 {
		return r.CarbonFootprint
	})
}

// Electricity re-derives the electricity contribution of every submission.
func (s *CarbonService) Electricity(ctx context.Context, userID string) ([]models.SeriesPoint, error) {
	return s.series(ctx, userID, func(r *models.CarbonRecord) float64 {
		return breakdown(r).Electricity
	})
}

// Wastage re-derives the waste contribution of every submission.
func (s *CarbonService) Wastage(ctx context.Context, userID string) ([]models.SeriesPoint, error) {
	return s.series(ctx, userID, func(r *models.CarbonRecord) float64 {
		return breakdown(r).Wastage
	})
}

// Transportation re-derives the transport contribution of every submission.
func (s *CarbonService) Transportation(ctx context.Context, userID string) ([]models.SeriesPoint, error) {
	return s.series(ctx, userID, func(r *models.CarbonRecord) float64 {
		return breakdown(r).Transport
	})
}

// LeaderBoard ranks the users of city by the footprint of their latest-dated
// submission, highest first. The result is shared with the ranking cache and
// must not be modified by callers.
func (s *CarbonService) LeaderBoard(ctx context.Context, city string) ([]*models.LeaderboardEntry, error) {
	load := func(ctx context.Context) (any, error) {
		entries, err := s.repomanager.Records(s.db).LatestPerUser(ctx, city)
		if err != nil {
			return nil, fmt.Errorf("error ranking city %q: %w", city, err)
		}
		return entries, nil
	}

	if s.rankings == nil {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return v.([]*models.LeaderboardEntry), nil
	}

	v, err := s.rankings.GetOrSet(ctx, city, load)
	if err != nil {
		return nil, err
	}
	return v.([]*models.LeaderboardEntry), nil
}

// Projection returns the maintained leaderboard rows of city.
func (s *CarbonService) Projection(ctx context.Context, city string) ([]*models.LeaderboardEntry, error) {
	entries, err := s.repomanager.Leaderboard(s.db).ListByCity(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("error reading leaderboard of %q: %w", city, err)
	}
	return entries, nil
}

// AllRecords returns the whole ledger.
func (s *CarbonService) AllRecords(ctx context.Context) ([]*models.CarbonRecord, error) {
	recs, err := s.repomanager.Records(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing carbon records: %w", err)
	}
	return recs, nil
}

func (s *CarbonService) series(ctx context.Context, userID string, value func(*models.CarbonRecord) float64) ([]models.SeriesPoint, error) {
	recs, err := s.repomanager.Records(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing records of user %q: %w", userID, err)
	}

	points := make([]models.SeriesPoint, 0, len(recs))
	for _, r := range recs {
		points = append(points, models.SeriesPoint{Date: r.Date, Value: value(r)})
	}
	return points, nil
}

// breakdown re-derives the per-category contributions of a stored record.
func breakdown(r *models.CarbonRecord) emission.Breakdown {
	return emission.Calculate(emission.FromRecord(r))
}

// TruncateToDate drops the clock part of t, keeping its UTC calendar date.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateSubmission rejects submissions the calculator must never see:
// missing identity fields, a zero date, a leg without a mode and negative or
// non-finite numbers.
// A meter reading lower than the previous one is allowed.
func ValidateSubmission(sub *models.Submission) error {
	if sub == nil {
		return fmt.Errorf("%w: empty submission", common.ErrValidation)
	}
	if strings.TrimSpace(sub.UserID) == "" {
		return fmt.Errorf("%w: userId is required", common.ErrValidation)
	}
	if strings.TrimSpace(sub.Name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if strings.TrimSpace(sub.City) == "" {
		return fmt.Errorf("%w: city is required", common.ErrValidation)
	}
	if sub.Date.IsZero() {
		return fmt.Errorf("%w: date is required", common.ErrValidation)
	}
	for i, t := range sub.Transportations {
		if strings.TrimSpace(t.Mode) == "" {
			return fmt.Errorf("%w: transportations[%d].mode is required", common.ErrValidation, i)
		}
		if err := checkAmount(fmt.Sprintf("transportations[%d].distance", i), t.Distance); err != nil {
			return err
		}
		if err := checkAmount(fmt.Sprintf("transportations[%d].time", i), t.Time); err != nil {
			return err
		}
	}
	for i, w := range sub.Wastages {
		if err := checkAmount(fmt.Sprintf("wastages[%d].wetWaste", i), w.WetWaste); err != nil {
			return err
		}
		if err := checkAmount(fmt.Sprintf("wastages[%d].dryWaste", i), w.DryWaste); err != nil {
			return err
		}
	}
	if err := checkAmount("prevWatts", sub.PrevWatts); err != nil {
		return err
	}
	return checkAmount("todayWatts", sub.TodayWatts)
}

func checkAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", common.ErrValidation, field)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative", common.ErrValidation, field)
	}
	return nil
}
