package statistic

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// newMemoryRedis returns a mock redis client whose sorted-set commands
// operate on an in-memory map, so the warm-from-database path can be
// exercised end to end.
func newMemoryRedis() (*testutil.MockRedisClient, map[string]map[string]float64) {
	store := map[string]map[string]float64{}
	sortedDesc := func(key string) []redis.Z {
		var zs []redis.Z
		for member, score := range store[key] {
			zs = append(zs, redis.Z{Member: member, Score: score})
		}
		sort.Slice(zs, func(i, j int) bool {
			if zs[i].Score != zs[j].Score {
				return zs[i].Score > zs[j].Score
			}
			return zs[i].Member.(string) < zs[j].Member.(string)
		})
		return zs
	}

	client := &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			_, ok := store[key]
			return ok, nil
		},
		ZAddFunc: func(ctx context.Context, key string, z redis.Z) error {
			if store[key] == nil {
				store[key] = map[string]float64{}
			}
			store[key][z.Member.(string)] = z.Score
			return nil
		},
		ZIncrByFunc: func(ctx context.Context, key string, incr float64, member string) error {
			if store[key] == nil {
				store[key] = map[string]float64{}
			}
			store[key][member] += incr
			return nil
		},
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			zs := sortedDesc(key)
			if offset >= len(zs) {
				return nil, nil
			}

			zs = zs[offset:]
			if limit < len(zs) {
				zs = zs[:limit]
			}
			return zs, nil
		},
		ZRevRankFunc: func(ctx context.Context, key string, member string) (uint64, error) {
			for i, z := range sortedDesc(key) {
				if z.Member.(string) == member {
					return uint64(i), nil
				}
			}
			return 0, errors.New("member not found")
		},
	}

	return client, store
}

func createOrder(
	t *testing.T, ctx context.Context,
	userID string, quantity int, totalPrice float64, status entity.OrderStatus,
) {
	err := repository.NewOrderRepository().Create(ctx, &entity.Order{
		Base:          entity.Base{ID: uuid.NewString()},
		UserID:        userID,
		CompetitionID: testutil.Competition1.ID,
		Quantity:      quantity,
		TicketNumbers: []int{},
		TotalPrice:    totalPrice,
		Status:        status,
	})
	require.NoError(t, err)
}

func Test_leaderboard_GetLeaderBoard(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	createOrder(t, ctx, testutil.User2.ID, 3, 7.5, entity.OrderCompleted)
	createOrder(t, ctx, testutil.User2.ID, 2, 5, entity.OrderCompleted)
	createOrder(t, ctx, testutil.User3.ID, 4, 10, entity.OrderCompleted)
	// Refunded orders must not count towards the leaderboard.
	createOrder(t, ctx, testutil.User3.ID, 9, 22.5, entity.OrderRefunded)

	redisClient, store := newMemoryRedis()
	lb := New(repository.NewOrderRepository(), redisClient)

	period, err := ToPeriod("week")
	require.NoError(t, err)

	// The cache is cold, so this call loads the board from database.
	result, err := lb.GetLeaderBoard(ctx, testutil.Competition1.ID, "tickets", period, 0, 10)
	require.NoError(t, err)
	require.Len(t, result, 2)
	require.Equal(t, testutil.User2.ID, result[0].User.ID)
	require.Equal(t, float64(5), result[0].Value)
	require.Equal(t, uint64(1), result[0].CurrentRank)
	require.Equal(t, testutil.User3.ID, result[1].User.ID)
	require.Equal(t, float64(4), result[1].Value)
	require.Equal(t, uint64(2), result[1].CurrentRank)

	// Warming the board fills both the tickets and spent keys.
	result, err = lb.GetLeaderBoard(ctx, testutil.Competition1.ID, "spent", period, 0, 10)
	require.NoError(t, err)
	require.Len(t, result, 2)
	require.Equal(t, testutil.User2.ID, result[0].User.ID)
	require.Equal(t, 12.5, result[0].Value)
	require.Len(t, store, 2)

	// Offset continues the ranking where the previous page stopped.
	result, err = lb.GetLeaderBoard(ctx, testutil.Competition1.ID, "tickets", period, 1, 10)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, testutil.User3.ID, result[0].User.ID)
	require.Equal(t, uint64(2), result[0].CurrentRank)

	_, err = lb.GetLeaderBoard(ctx, testutil.Competition1.ID, "luck", period, 0, 10)
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid ordered by field"), err)
}

func Test_leaderboard_GetRank(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	createOrder(t, ctx, testutil.User2.ID, 5, 12.5, entity.OrderCompleted)
	createOrder(t, ctx, testutil.User3.ID, 4, 10, entity.OrderCompleted)

	redisClient, _ := newMemoryRedis()
	lb := New(repository.NewOrderRepository(), redisClient)

	period, err := ToPeriod("week")
	require.NoError(t, err)

	rank, err := lb.GetRank(ctx, testutil.User3.ID, testutil.Competition1.ID, "tickets", period)
	require.NoError(t, err)
	require.Equal(t, uint64(2), rank)

	// A user without any order has no rank.
	rank, err = lb.GetRank(ctx, testutil.User1.ID, testutil.Competition1.ID, "tickets", period)
	require.NoError(t, err)
	require.Equal(t, uint64(0), rank)
}

func Test_leaderboard_ChangeBuyerLeaderboard(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	createOrder(t, ctx, testutil.User2.ID, 5, 12.5, entity.OrderCompleted)
	createOrder(t, ctx, testutil.User3.ID, 4, 10, entity.OrderCompleted)

	redisClient, store := newMemoryRedis()
	lb := New(repository.NewOrderRepository(), redisClient)

	// While the cache is cold, no key is created by an incremental update.
	err := lb.ChangeBuyerLeaderboard(
		ctx, 10, 25, time.Now(), testutil.User3.ID, testutil.Competition1.ID)
	require.NoError(t, err)
	require.Empty(t, store)

	period, err := ToPeriod("week")
	require.NoError(t, err)

	_, err = lb.GetLeaderBoard(ctx, testutil.Competition1.ID, "tickets", period, 0, 10)
	require.NoError(t, err)

	// Once warmed, a new purchase moves the buyer up the board.
	err = lb.ChangeBuyerLeaderboard(
		ctx, 10, 25, time.Now(), testutil.User3.ID, testutil.Competition1.ID)
	require.NoError(t, err)

	result, err := lb.GetLeaderBoard(ctx, testutil.Competition1.ID, "tickets", period, 0, 10)
	require.NoError(t, err)
	require.Len(t, result, 2)
	require.Equal(t, testutil.User3.ID, result[0].User.ID)
	require.Equal(t, float64(14), result[0].Value)
}
