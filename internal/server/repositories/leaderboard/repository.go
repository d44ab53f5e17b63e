package leaderboard

import (
	"context"

	"github.com/dmitrijs2005/carbontrack/internal/server/models"
)

// Repository maintains the per-(user, city) leaderboard projection.
type Repository interface {
	Upsert(ctx context.Context, entry *models.LeaderboardEntry) (bool, error)
	ListByCity(ctx context.Context, city string) ([]*models.LeaderboardEntry, error)
}
