package domain

import (
	"context"
	"testing"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/rafflehub/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

func newTestWinnerDomain() WinnerDomain {
	competitionRepo := repository.NewCompetitionRepository(
		&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})

	return NewWinnerDomain(
		repository.NewWinnerRepository(),
		repository.NewPrizeRepository(),
		repository.NewTicketRepository(),
		competitionRepo,
		repository.NewUserRepository(),
		&testutil.MockPublisher{},
		nil,
	)
}

// endCompetitionWithSales sells every number of Competition1 to User2 and
// User3 and ends it, ready for a draw.
func endCompetitionWithSales(t *testing.T, ctx context.Context) {
	t.Helper()

	ticketRepo := repository.NewTicketRepository()
	competitionRepo := repository.NewCompetitionRepository(
		&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})

	tickets := []*entity.Ticket{}
	for i := 1; i <= testutil.Competition1.NumberOfEntries; i++ {
		userID := testutil.User2.ID
		if i%2 == 0 {
			userID = testutil.User3.ID
		}

		tickets = append(tickets, &entity.Ticket{
			SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
			CompetitionID: testutil.Competition1.ID,
			OrderID:       "order1",
			UserID:        userID,
			Number:        i,
			Status:        entity.TicketSold,
		})
	}
	require.NoError(t, ticketRepo.Create(ctx, tickets...))

	err := competitionRepo.UpdateStatus(ctx, testutil.Competition1.ID, entity.CompetitionEnded)
	require.NoError(t, err)
}

func Test_winnerDomain_Draw(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestWinnerDomain()

	endCompetitionWithSales(t, ctx)

	resp, err := domain.Draw(ctx, &model.DrawWinnersRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.NoError(t, err)

	// Prize1 has one reward unit, Prize2 has two.
	require.Len(t, resp.Winners, 3)

	numbers := map[int]bool{}
	for _, w := range resp.Winners {
		require.False(t, numbers[w.TicketNumber], "ticket %d won twice", w.TicketNumber)
		numbers[w.TicketNumber] = true
	}

	// The draw seed digest is stored for audit and blocks a second draw.
	var competition entity.Competition
	tx := xcontext.DB(ctx).Take(&competition, "id=?", testutil.Competition1.ID)
	require.NoError(t, tx.Error)
	require.NotEmpty(t, competition.DrawSeedDigest)

	_, err = domain.Draw(ctx, &model.DrawWinnersRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Winners were already drawn"), err)

	got, err := domain.GetList(ctx, &model.GetWinnersRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.NoError(t, err)
	require.Len(t, got.Winners, 3)
}

func Test_winnerDomain_Draw_notEnded(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestWinnerDomain()

	_, err := domain.Draw(ctx, &model.DrawWinnersRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.Equal(t, errorx.New(errorx.Unavailable, "Competition has not ended yet"), err)
}

func Test_winnerDomain_Draw_permissionDenied(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestWinnerDomain()

	_, err := domain.Draw(ctx, &model.DrawWinnersRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)
}

func Test_winnerDomain_GetList_beforeDraw(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestWinnerDomain()

	_, err := domain.GetList(ctx, &model.GetWinnersRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.Equal(t, errorx.New(errorx.NotDrawn, "Winners have not been drawn yet"), err)
}

func Test_winnerDomain_Claim(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestWinnerDomain()

	endCompetitionWithSales(t, ctx)

	resp, err := domain.Draw(ctx, &model.DrawWinnersRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Winners)

	winner := resp.Winners[0]
	winnerCtx := xcontext.WithRequestUserID(ctx, winner.User.ID)

	// Only the winning user can claim.
	var otherID string
	if winner.User.ID == testutil.User2.ID {
		otherID = testutil.User3.ID
	} else {
		otherID = testutil.User2.ID
	}

	otherCtx := xcontext.WithRequestUserID(ctx, otherID)
	_, err = domain.Claim(otherCtx, &model.ClaimRewardRequest{WinnerID: winner.ID})
	require.Equal(t, errorx.New(errorx.NotAWinner, "You are not the winner of this prize"), err)

	_, err = domain.Claim(winnerCtx, &model.ClaimRewardRequest{WinnerID: winner.ID})
	require.NoError(t, err)

	// Claiming twice is refused by the guarded update.
	_, err = domain.Claim(winnerCtx, &model.ClaimRewardRequest{WinnerID: winner.ID})
	require.Equal(t, errorx.New(errorx.Unavailable, "Reward already claimed"), err)

	winnings, err := domain.GetMyWinnings(winnerCtx, &model.GetMyWinningsRequest{})
	require.NoError(t, err)
	for _, w := range winnings.Winners {
		require.NotEqual(t, winner.ID, w.ID)
	}
}
