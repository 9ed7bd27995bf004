package testutil

import (
	"context"

	"github.com/rafflehub/backend/internal/entity"
)

// MockSaleActivityRepository stands in for the ScyllaDB backed repository,
// which cannot run against the sqlite test database.
type MockSaleActivityRepository struct {
	CreateFunc    func(ctx context.Context, data *entity.SaleEvent) error
	GetRecentFunc func(ctx context.Context, competitionID string, limit int) ([]entity.SaleEvent, error)
}

func (r *MockSaleActivityRepository) Create(ctx context.Context, data *entity.SaleEvent) error {
	if r.CreateFunc != nil {
		return r.CreateFunc(ctx, data)
	}

	return nil
}

func (r *MockSaleActivityRepository) GetRecent(
	ctx context.Context, competitionID string, limit int,
) ([]entity.SaleEvent, error) {
	if r.GetRecentFunc != nil {
		return r.GetRecentFunc(ctx, competitionID, limit)
	}

	return nil, nil
}
