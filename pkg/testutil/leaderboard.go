package testutil

import (
	"context"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
)

type MockLeaderboard struct {
	GetLeaderBoardFunc func(
		ctx context.Context,
		competitionID, orderedBy string,
		period entity.LeaderBoardPeriodType,
		offset, limit int,
	) ([]model.BuyerStatistic, error)

	GetRankFunc func(
		ctx context.Context,
		userID, competitionID, orderedBy string,
		period entity.LeaderBoardPeriodType,
	) (uint64, error)

	ChangeBuyerLeaderboardFunc func(
		ctx context.Context,
		quantity int64,
		spent float64,
		boughtAt time.Time,
		userID, competitionID string,
	) error
}

func (m *MockLeaderboard) GetLeaderBoard(
	ctx context.Context,
	competitionID, orderedBy string,
	period entity.LeaderBoardPeriodType,
	offset, limit int,
) ([]model.BuyerStatistic, error) {
	if m.GetLeaderBoardFunc != nil {
		return m.GetLeaderBoardFunc(ctx, competitionID, orderedBy, period, offset, limit)
	}

	return nil, nil
}

func (m *MockLeaderboard) GetRank(
	ctx context.Context,
	userID, competitionID, orderedBy string,
	period entity.LeaderBoardPeriodType,
) (uint64, error) {
	if m.GetRankFunc != nil {
		return m.GetRankFunc(ctx, userID, competitionID, orderedBy, period)
	}

	return 0, nil
}

func (m *MockLeaderboard) ChangeBuyerLeaderboard(
	ctx context.Context,
	quantity int64,
	spent float64,
	boughtAt time.Time,
	userID, competitionID string,
) error {
	if m.ChangeBuyerLeaderboardFunc != nil {
		return m.ChangeBuyerLeaderboardFunc(ctx, quantity, spent, boughtAt, userID, competitionID)
	}

	return nil
}
