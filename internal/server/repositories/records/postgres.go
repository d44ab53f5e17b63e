// Package records provides the PostgreSQL-backed CarbonRecord ledger.
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/carbontrack/internal/dbx"
	"github.com/dmitrijs2005/carbontrack/internal/server/models"
)

// PostgresRepository implements the ledger over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends a record. There is no uniqueness on (user_id, date): every
// call inserts a new row. CreatedAt is filled from the database clock.
func (r *PostgresRepository) Create(ctx context.Context, record *models.CarbonRecord) error {
	legs, err := json.Marshal(nonNilLegs(record.Transportations))
	if err != nil {
		return fmt.Errorf("encode transportations: %w", err)
	}
	wastes, err := json.Marshal(nonNilWastes(record.Wastages))
	if err != nil {
		return fmt.Errorf("encode wastages: %w", err)
	}

	query := `
		INSERT INTO carbon_records (id, user_id, name, city, date, transportations, wastages,
			prev_watts, today_watts, carbon_footprint)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	err = r.db.QueryRowContext(ctx, query,
		record.ID, record.UserID, record.Name, record.City, record.Date, string(legs), string(wastes),
		record.PrevWatts, record.TodayWatts, record.CarbonFootprint,
	).Scan(&record.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const selectRecordColumns = `SELECT id, user_id, name, city, date, transportations, wastages,
		prev_watts, today_watts, carbon_footprint, created_at
		FROM carbon_records`

// ListByUser returns every record of userID, oldest date first. Records with
// the same date keep insertion order.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.CarbonRecord, error) {
	query := selectRecordColumns + `
		WHERE user_id = $1
		ORDER BY date ASC, created_at ASC
	`
	return r.list(ctx, query, userID)
}

// ListAll returns the whole ledger ordered by date.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.CarbonRecord, error) {
	query := selectRecordColumns + `
		ORDER BY date ASC, created_at ASC
	`
	return r.list(ctx, query)
}

// LatestPerUser picks, for each user with records in city, the record with
// the latest date (latest insert on a tie) and ranks them by footprint,
// highest first.
func (r *PostgresRepository) LatestPerUser(ctx context.Context, city string) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT user_id, name, date, city, carbon_footprint FROM (
			SELECT DISTINCT ON (user_id) user_id, name, date, city, carbon_footprint
			FROM carbon_records
			WHERE city = $1
			ORDER BY user_id, date DESC, created_at DESC
		) latest
		ORDER BY carbon_footprint DESC, user_id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.LeaderboardEntry, 0)
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Date, &e.City, &e.TotalCarbon); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.CarbonRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.CarbonRecord, 0)
	for rows.Next() {
		var (
			item   models.CarbonRecord
			legs   []byte
			wastes []byte
		)
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Name, &item.City, &item.Date, &legs, &wastes,
			&item.PrevWatts, &item.TodayWatts, &item.CarbonFootprint, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(legs, &item.Transportations); err != nil {
			return nil, fmt.Errorf("decode transportations of %s: %w", item.ID, err)
		}
		if err := json.Unmarshal(wastes, &item.Wastages); err != nil {
			return nil, fmt.Errorf("decode wastages of %s: %w", item.ID, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func nonNilLegs(v []models.Transportation) []models.Transportation {
	if v == nil {
		return []models.Transportation{}
	}
	return v
}

func nonNilWastes(v []models.Wastage) []models.Wastage {
	if v == nil {
		return []models.Wastage{}
	}
	return v
}
