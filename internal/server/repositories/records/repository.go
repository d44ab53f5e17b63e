package records

import (
	"context"

	"github.com/dmitrijs2005/carbontrack/internal/server/models"
)

// Repository is the append-only CarbonRecord ledger.
type Repository interface {
	Create(ctx context.Context, record *models.CarbonRecord) error
	ListByUser(ctx context.Context, userID string) ([]*models.CarbonRecord, error)
	ListAll(ctx context.Context) ([]*models.CarbonRecord, error)
	LatestPerUser(ctx context.Context, city string) ([]*models.LeaderboardEntry, error)
}
