package domain

import (
	"context"
	"testing"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestStatisticDomain(leaderboard *testutil.MockLeaderboard) StatisticDomain {
	competitionRepo := repository.NewCompetitionRepository(
		&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})

	return NewStatisticDomain(competitionRepo, repository.NewUserRepository(), leaderboard)
}

func Test_statisticDomain_GetLeaderBoard(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	leaderboard := &testutil.MockLeaderboard{
		GetLeaderBoardFunc: func(
			ctx context.Context,
			competitionID, orderedBy string,
			period entity.LeaderBoardPeriodType,
			offset, limit int,
		) ([]model.BuyerStatistic, error) {
			require.Equal(t, testutil.Competition1.ID, competitionID)
			require.Equal(t, "tickets", orderedBy)
			require.Equal(t, 10, limit)
			return []model.BuyerStatistic{
				{User: model.ShortUser{ID: testutil.User2.ID}, Value: 5, CurrentRank: 1},
				{User: model.ShortUser{ID: testutil.User3.ID}, Value: 4, CurrentRank: 2},
			}, nil
		},
	}

	statisticDomain := newTestStatisticDomain(leaderboard)

	// Buyers on the board are resolved to full short users.
	resp, err := statisticDomain.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.NoError(t, err)
	require.Len(t, resp.LeaderBoard, 2)
	require.Equal(t, testutil.User2.Name, resp.LeaderBoard[0].User.Name)
	require.Equal(t, float64(5), resp.LeaderBoard[0].Value)
	require.Equal(t, testutil.User3.Name, resp.LeaderBoard[1].User.Name)
	require.Equal(t, uint64(2), resp.LeaderBoard[1].CurrentRank)

	_, err = statisticDomain.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{
		CompetitionHandle: testutil.Competition1.Handle,
		Period:            "year",
	})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid period year"), err)

	_, err = statisticDomain.GetLeaderBoard(ctx, &model.GetLeaderBoardRequest{
		CompetitionHandle: "not_a_competition",
	})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.NotFound, "Not found competition"), err)
}

func Test_statisticDomain_GetMyRank(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	leaderboard := &testutil.MockLeaderboard{
		GetRankFunc: func(
			ctx context.Context,
			userID, competitionID, orderedBy string,
			period entity.LeaderBoardPeriodType,
		) (uint64, error) {
			require.Equal(t, testutil.User2.ID, userID)
			require.Equal(t, testutil.Competition1.ID, competitionID)
			require.Equal(t, "spent", orderedBy)
			return 3, nil
		},
	}

	statisticDomain := newTestStatisticDomain(leaderboard)

	resp, err := statisticDomain.GetMyRank(ctx, &model.GetMyRankRequest{
		CompetitionHandle: testutil.Competition1.Handle,
		OrderedBy:         "spent",
	})
	require.NoError(t, err)
	require.Equal(t, uint64(3), resp.Rank)
}
