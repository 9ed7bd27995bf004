package domain

import (
	"context"
	"errors"

	"github.com/pkg/math"
	"github.com/rafflehub/backend/internal/domain/statistic"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type StatisticDomain interface {
	GetLeaderBoard(context.Context, *model.GetLeaderBoardRequest) (*model.GetLeaderBoardResponse, error)
	GetMyRank(context.Context, *model.GetMyRankRequest) (*model.GetMyRankResponse, error)
}

type statisticDomain struct {
	competitionRepo repository.CompetitionRepository
	userRepo        repository.UserRepository
	leaderboard     statistic.Leaderboard
}

func NewStatisticDomain(
	competitionRepo repository.CompetitionRepository,
	userRepo repository.UserRepository,
	leaderboard statistic.Leaderboard,
) StatisticDomain {
	return &statisticDomain{
		competitionRepo: competitionRepo,
		userRepo:        userRepo,
		leaderboard:     leaderboard,
	}
}

func (d *statisticDomain) GetLeaderBoard(
	ctx context.Context, req *model.GetLeaderBoardRequest,
) (*model.GetLeaderBoardResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	req.Limit = math.MinInt(req.Limit, apiCfg.MaxLimit)

	period, err := statistic.ToPeriod(orDefault(req.Period, "week"))
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period %s", req.Period)
	}

	competition, err := d.competitionRepo.GetByHandle(ctx, req.CompetitionHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	leaderboard, err := d.leaderboard.GetLeaderBoard(
		ctx, competition.ID, orDefault(req.OrderedBy, "tickets"), period, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	userIDs := []string{}
	for _, b := range leaderboard {
		userIDs = append(userIDs, b.User.ID)
	}

	if len(userIDs) > 0 {
		users, err := d.userRepo.GetByIDs(ctx, userIDs)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get users of leaderboard: %v", err)
			return nil, errorx.Unknown
		}

		userSet := map[string]model.ShortUser{}
		for i := range users {
			userSet[users[i].ID] = model.ConvertShortUser(&users[i])
		}

		for i := range leaderboard {
			if user, ok := userSet[leaderboard[i].User.ID]; ok {
				leaderboard[i].User = user
			}
		}
	}

	return &model.GetLeaderBoardResponse{LeaderBoard: leaderboard}, nil
}

func (d *statisticDomain) GetMyRank(
	ctx context.Context, req *model.GetMyRankRequest,
) (*model.GetMyRankResponse, error) {
	period, err := statistic.ToPeriod(orDefault(req.Period, "week"))
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid period: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid period %s", req.Period)
	}

	competition, err := d.competitionRepo.GetByHandle(ctx, req.CompetitionHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	rank, err := d.leaderboard.GetRank(
		ctx, xcontext.RequestUserID(ctx), competition.ID,
		orDefault(req.OrderedBy, "tickets"), period)
	if err != nil {
		return nil, err
	}

	return &model.GetMyRankResponse{Rank: rank}, nil
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}

	return value
}
