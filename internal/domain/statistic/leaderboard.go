package statistic

import (
	"context"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/rafflehub/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

type Leaderboard interface {
	GetLeaderBoard(
		ctx context.Context,
		competitionID, orderedBy string,
		period entity.LeaderBoardPeriodType,
		offset, limit int,
	) ([]model.BuyerStatistic, error)

	GetRank(
		ctx context.Context,
		userID, competitionID, orderedBy string,
		period entity.LeaderBoardPeriodType,
	) (uint64, error)

	ChangeBuyerLeaderboard(
		ctx context.Context,
		quantity int64,
		spent float64,
		boughtAt time.Time,
		userID, competitionID string,
	) error
}

type leaderboard struct {
	orderRepo   repository.OrderRepository
	redisClient xredis.Client
}

func New(
	orderRepo repository.OrderRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{orderRepo: orderRepo, redisClient: redisClient}
}

func (l *leaderboard) GetLeaderBoard(
	ctx context.Context,
	competitionID string,
	orderedBy string,
	period entity.LeaderBoardPeriodType,
	offset, limit int,
) ([]model.BuyerStatistic, error) {
	key, err := redisKeyLeaderBoard(orderedBy, competitionID, period)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid ordered by field: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid ordered by field")
	}

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return nil, errorx.Unknown
	}

	// If the key didn't exist in redis, load it from database.
	if !ok {
		if err := l.loadLeaderboardFromDB(ctx, competitionID, period); err != nil {
			return nil, err
		}
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	leaderboard := []model.BuyerStatistic{}
	for i, z := range results {
		leaderboard = append(leaderboard, model.BuyerStatistic{
			User:        model.ShortUser{ID: z.Member.(string)},
			Value:       z.Score,
			CurrentRank: uint64(offset + i + 1),
		})
	}

	return leaderboard, nil
}

func (l *leaderboard) GetRank(
	ctx context.Context,
	userID string,
	competitionID string,
	orderedBy string,
	period entity.LeaderBoardPeriodType,
) (uint64, error) {
	key, err := redisKeyLeaderBoard(orderedBy, competitionID, period)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid ordered by field: %v", err)
		return 0, errorx.New(errorx.BadRequest, "Invalid ordered by field")
	}

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return 0, errorx.Unknown
	}

	// If the key didn't exist in redis, load it from database.
	if !ok {
		if err := l.loadLeaderboardFromDB(ctx, competitionID, period); err != nil {
			return 0, err
		}
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		return 0, nil
	}

	return rank + 1, nil
}

func (l *leaderboard) ChangeBuyerLeaderboard(
	ctx context.Context,
	quantity int64,
	spent float64,
	boughtAt time.Time,
	userID, competitionID string,
) error {
	weekPeriod, err := ToPeriodWithTime("week", boughtAt)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid period: %v", err)
		return errorx.Unknown
	}

	err = l.changeLeaderboard(ctx, float64(quantity), userID, competitionID, "tickets", weekPeriod)
	if err != nil {
		return err
	}

	err = l.changeLeaderboard(ctx, spent, userID, competitionID, "spent", weekPeriod)
	if err != nil {
		return err
	}

	monthPeriod, err := ToPeriodWithTime("month", boughtAt)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid period: %v", err)
		return errorx.Unknown
	}

	err = l.changeLeaderboard(ctx, float64(quantity), userID, competitionID, "tickets", monthPeriod)
	if err != nil {
		return err
	}

	err = l.changeLeaderboard(ctx, spent, userID, competitionID, "spent", monthPeriod)
	if err != nil {
		return err
	}

	return nil
}

func (l *leaderboard) changeLeaderboard(
	ctx context.Context,
	value float64,
	userID, competitionID string,
	orderedBy string,
	period entity.LeaderBoardPeriodType,
) error {
	key, err := redisKeyLeaderBoard(orderedBy, competitionID, period)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid ordered by field: %v", err)
		return errorx.New(errorx.BadRequest, "Invalid ordered by field")
	}

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	// If the key didn't exist in redis, no need to update.
	if !ok {
		return nil
	}

	if err := l.redisClient.ZIncrBy(ctx, key, value, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
	}

	return nil
}

func (l *leaderboard) loadLeaderboardFromDB(
	ctx context.Context, competitionID string, period entity.LeaderBoardPeriodType,
) error {
	buyers, err := l.orderRepo.Statistic(
		ctx,
		repository.StatisticOrderFilter{
			CompetitionID: competitionID,
			Start:         period.Start(),
			End:           period.End(),
		},
	)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load statistic from database: %v", err)
		return errorx.Unknown
	}

	ticketKey := redisKeyTicketLeaderBoard(competitionID, period)
	spentKey := redisKeySpentLeaderBoard(competitionID, period)
	for _, b := range buyers {
		err := l.redisClient.ZAdd(ctx, ticketKey, redis.Z{Member: b.UserID, Score: float64(b.Tickets)})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
			return errorx.Unknown
		}

		err = l.redisClient.ZAdd(ctx, spentKey, redis.Z{Member: b.UserID, Score: b.Spent})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}
