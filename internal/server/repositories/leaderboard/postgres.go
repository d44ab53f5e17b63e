// Package leaderboard provides the PostgreSQL-backed leaderboard projection:
// one row per (user, city) mirroring that user's latest-dated submission.
package leaderboard

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/carbontrack/internal/dbx"
	"github.com/dmitrijs2005/carbontrack/internal/server/models"
)

// PostgresRepository implements the projection over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts or overwrites the row for (entry.UserID, entry.City). An
// existing row is only overwritten when entry.Date is not older than the
// stored date. It reports whether the row was written.
func (r *PostgresRepository) Upsert(ctx context.Context, entry *models.LeaderboardEntry) (bool, error) {
	query := `
		INSERT INTO leaderboard (user_id, city, name, date, total_carbon, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (user_id, city)
		DO UPDATE SET
			name = EXCLUDED.name,
			date = EXCLUDED.date,
			total_carbon = EXCLUDED.total_carbon,
			updated_at = EXCLUDED.updated_at
			WHERE leaderboard.date <= EXCLUDED.date
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.UserID, entry.City, entry.Name, entry.Date, entry.TotalCarbon)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// ListByCity returns the projection rows of a city, highest total first.
func (r *PostgresRepository) ListByCity(ctx context.Context, city string) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT user_id, name, date, city, total_carbon FROM leaderboard
		WHERE city = $1
		ORDER BY total_carbon DESC, user_id ASC
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
