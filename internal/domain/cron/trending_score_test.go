package cron

import (
	"context"
	"testing"
	"time"

	"github.com/rafflehub/backend/internal/common"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/dateutil"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func Test_TrendingScoreCronJob_Do(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	competitionRepo := repository.NewCompetitionRepository(
		&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})
	ticketRepo := repository.NewTicketRepository()

	yesterday := dateutil.BeginningOfDay(time.Now()).Add(-12 * time.Hour)
	for i := 1; i <= 3; i++ {
		require.NoError(t, ticketRepo.Create(ctx, &entity.Ticket{
			SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
			CompetitionID: testutil.Competition1.ID,
			OrderID:       "order1",
			UserID:        testutil.User2.ID,
			Number:        i,
			Status:        entity.TicketSold,
			CreatedAt:     yesterday,
		}))
	}

	// Sold today, outside of yesterday's scoring window.
	require.NoError(t, ticketRepo.Create(ctx, &entity.Ticket{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		CompetitionID: testutil.Competition1.ID,
		OrderID:       "order1",
		UserID:        testutil.User2.ID,
		Number:        4,
		Status:        entity.TicketSold,
		CreatedAt:     time.Now(),
	}))

	var deleted bool
	scores := map[string]float64{}
	redisClient := &testutil.MockRedisClient{
		DelFunc: func(ctx context.Context, key ...string) error {
			require.Equal(t, []string{common.RedisKeyTrendingCompetitions}, key)
			deleted = true
			return nil
		},
		ZAddFunc: func(ctx context.Context, key string, z redis.Z) error {
			require.Equal(t, common.RedisKeyTrendingCompetitions, key)
			scores[z.Member.(string)] = z.Score
			return nil
		},
	}

	job := NewTrendingScoreCronJob(competitionRepo, ticketRepo, redisClient, time.Hour)
	job.Do(ctx)

	require.True(t, deleted)
	require.Equal(t, float64(3), scores[testutil.Competition1.ID])
	require.Equal(t, float64(0), scores[testutil.Competition2.ID])

	competition, err := competitionRepo.GetByID(ctx, testutil.Competition1.ID)
	require.NoError(t, err)
	require.Equal(t, 3, competition.TrendingScore)
}
