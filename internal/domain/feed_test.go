package domain

import (
	"context"
	"testing"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestFeedDomain(saleActivityRepo repository.SaleActivityRepository) FeedDomain {
	competitionRepo := repository.NewCompetitionRepository(
		&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})

	return NewFeedDomain(
		competitionRepo,
		saleActivityRepo,
		repository.NewUserRepository(),
		&testutil.MockRedisClient{},
		nil,
	)
}

func Test_feedDomain_GetRecentSales(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	now := time.Now()
	saleActivityRepo := &testutil.MockSaleActivityRepository{
		GetRecentFunc: func(ctx context.Context, competitionID string, limit int) ([]entity.SaleEvent, error) {
			require.Equal(t, testutil.Competition1.ID, competitionID)
			require.Equal(t, 10, limit)
			return []entity.SaleEvent{
				{
					CompetitionID: competitionID,
					UserID:        testutil.User2.ID,
					Quantity:      3,
					FirstNumber:   1,
					CreatedAt:     now,
				},
				{
					CompetitionID: competitionID,
					UserID:        "gone-user",
					Quantity:      1,
					FirstNumber:   4,
					CreatedAt:     now,
				},
			}, nil
		},
	}

	feedDomain := newTestFeedDomain(saleActivityRepo)

	resp, err := feedDomain.GetRecentSales(ctx, &model.GetRecentSalesRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.NoError(t, err)
	require.Len(t, resp.Sales, 2)
	require.Equal(t, testutil.User2.ID, resp.Sales[0].User.ID)
	require.Equal(t, testutil.User2.Name, resp.Sales[0].User.Name)
	require.Equal(t, 3, resp.Sales[0].Quantity)
	require.Equal(t, 1, resp.Sales[0].FirstNumber)

	// A sale of a deleted buyer keeps an empty user.
	require.Empty(t, resp.Sales[1].User.ID)
	require.Equal(t, 4, resp.Sales[1].FirstNumber)
}

func Test_feedDomain_GetRecentSales_validation(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	feedDomain := newTestFeedDomain(&testutil.MockSaleActivityRepository{})

	_, err := feedDomain.GetRecentSales(ctx, &model.GetRecentSalesRequest{
		CompetitionHandle: "not_a_competition",
	})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.NotFound, "Not found competition"), err)

	_, err = feedDomain.GetRecentSales(ctx, &model.GetRecentSalesRequest{
		CompetitionHandle: testutil.Competition1.Handle,
		Limit:             -1,
	})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.BadRequest, "Limit must be positive"), err)
}
