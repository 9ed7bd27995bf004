package domain

import (
	"testing"
	"time"

	"github.com/rafflehub/backend/internal/domain/reward"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func newTestCompetitionDomain() CompetitionDomain {
	competitionRepo := repository.NewCompetitionRepository(
		&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})

	return NewCompetitionDomain(
		competitionRepo,
		repository.NewCategoryRepository(),
		repository.NewQuestionRepository(),
		repository.NewPrizeRepository(),
		repository.NewCompetitionImageRepository(),
		repository.NewTicketRepository(),
		repository.NewOrderRepository(),
		&testutil.MockSaleActivityRepository{},
		repository.NewUserRepository(),
		reward.NewFactory(),
		&testutil.MockRedisClient{},
	)
}

func sampleCreateRequest() *model.CreateCompetitionRequest {
	return &model.CreateCompetitionRequest{
		CategoryID:      testutil.Category1.ID,
		Title:           "Win a Classic Car",
		Description:     "<p>A fully restored classic.</p>",
		NumberOfEntries: 100,
		TicketPrice:     5,
		MaxPerUser:      10,
		EndDate:         time.Now().Add(72 * time.Hour),
		Questions: []struct {
			Text    string   `json:"text"`
			Options []string `json:"options"`
			Answer  string   `json:"answer"`
		}{
			{Text: "How many wheels does a car have?", Options: []string{"3", "4"}, Answer: "4"},
		},
		Prizes: []struct {
			Title            string        `json:"title"`
			Description      string        `json:"description"`
			Position         int           `json:"position"`
			Rewards          []model.Reward `json:"rewards"`
			AvailableRewards int           `json:"available_rewards"`
		}{
			{
				Title:    "The Car",
				Position: 1,
				Rewards: []model.Reward{
					{Type: "physical", Data: map[string]any{"name": "The classic car"}},
				},
				AvailableRewards: 1,
			},
		},
	}
}

func Test_competitionDomain_Create(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestCompetitionDomain()

	resp, err := domain.Create(ctx, sampleCreateRequest())
	require.NoError(t, err)
	require.Equal(t, "win_a_classic_car", resp.Competition.Handle)
	require.Equal(t, string(entity.CompetitionDraft), resp.Competition.Status)
	require.Len(t, resp.Competition.Questions, 1)
	require.Len(t, resp.Competition.Prizes, 1)

	// The available pool is seeded with every number at creation time.
	got, err := domain.Get(ctx, &model.GetCompetitionRequest{
		CompetitionHandle: resp.Competition.Handle,
	})
	require.NoError(t, err)
	require.Equal(t, 100, got.Competition.NumberOfEntries)
	require.Equal(t, int64(0), got.Competition.SoldCount)

	// A second competition with the same title gets a suffixed handle.
	again, err := domain.Create(ctx, sampleCreateRequest())
	require.NoError(t, err)
	require.NotEqual(t, resp.Competition.Handle, again.Competition.Handle)
	require.Contains(t, again.Competition.Handle, "win_a_classic_car_")
}

func Test_competitionDomain_Create_validation(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestCompetitionDomain()

	req := sampleCreateRequest()
	_, err := domain.Create(testutil.MockContextWithUserID(testutil.User2.ID), req)
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)

	req = sampleCreateRequest()
	req.NumberOfEntries = 0
	_, err = domain.Create(ctx, req)
	require.Equal(t, errorx.New(errorx.BadRequest, "Number of entries must be a positive"), err)

	req = sampleCreateRequest()
	req.EndDate = time.Time{}
	_, err = domain.Create(ctx, req)
	require.Equal(t, errorx.New(errorx.BadRequest, "Not found end date"), err)

	req = sampleCreateRequest()
	req.EndDate = time.Now().Add(-time.Hour)
	_, err = domain.Create(ctx, req)
	require.Equal(t, errorx.New(errorx.BadRequest, "End date must be after start date"), err)

	req = sampleCreateRequest()
	req.Questions = nil
	_, err = domain.Create(ctx, req)
	require.Equal(t, errorx.New(errorx.BadRequest, "Require at least one skill question"), err)

	req = sampleCreateRequest()
	req.Questions[0].Answer = "5"
	_, err = domain.Create(ctx, req)
	require.Equal(t, errorx.New(errorx.BadRequest, "Answer must be one of the options"), err)

	req = sampleCreateRequest()
	req.CategoryID = "not-a-category"
	_, err = domain.Create(ctx, req)
	require.Equal(t, errorx.New(errorx.NotFound, "Invalid category"), err)
}

func Test_competitionDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestCompetitionDomain()

	resp, err := domain.GetList(ctx, &model.GetListCompetitionRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Competitions, 2)

	resp, err = domain.GetList(ctx, &model.GetListCompetitionRequest{
		Status: string(entity.CompetitionStarted),
	})
	require.NoError(t, err)
	require.Len(t, resp.Competitions, 1)
	require.Equal(t, testutil.Competition1.Handle, resp.Competitions[0].Handle)

	_, err = domain.GetList(ctx, &model.GetListCompetitionRequest{Status: "sleeping"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid status"), err)

	_, err = domain.GetList(ctx, &model.GetListCompetitionRequest{Limit: 9999})
	require.Equal(t, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (50)"), err)
}

func Test_competitionDomain_Start(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestCompetitionDomain()

	_, err := domain.Start(ctx, &model.StartCompetitionRequest{
		CompetitionHandle: testutil.Competition2.Handle,
	})
	require.NoError(t, err)

	got, err := domain.Get(ctx, &model.GetCompetitionRequest{
		CompetitionHandle: testutil.Competition2.Handle,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.CompetitionStarted), got.Competition.Status)

	// A competition only starts from the draft status.
	_, err = domain.Start(ctx, &model.StartCompetitionRequest{
		CompetitionHandle: testutil.Competition2.Handle,
	})
	require.Equal(t, errorx.New(errorx.Unavailable, "Can only start a draft competition"), err)
}

func Test_competitionDomain_UpdateByID(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestCompetitionDomain()

	_, err := domain.UpdateByID(ctx, &model.UpdateCompetitionByIDRequest{
		ID:          testutil.Competition1.ID,
		Title:       "Dream Car Giveaway II",
		TicketPrice: 3,
	})
	require.NoError(t, err)

	got, err := domain.Get(ctx, &model.GetCompetitionRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.NoError(t, err)
	require.Equal(t, "Dream Car Giveaway II", got.Competition.Title)
	require.Equal(t, float64(3), got.Competition.TicketPrice)
}

func Test_competitionDomain_Cancel_refundsOrders(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestCompetitionDomain()

	orderRepo := repository.NewOrderRepository()
	ticketRepo := repository.NewTicketRepository()

	err := orderRepo.Create(ctx, &entity.Order{
		Base:          entity.Base{ID: "order1"},
		UserID:        testutil.User2.ID,
		CompetitionID: testutil.Competition1.ID,
		Quantity:      2,
		TicketNumbers: []int{1, 2},
		TotalPrice:    5,
		Status:        entity.OrderCompleted,
	})
	require.NoError(t, err)

	err = ticketRepo.Create(ctx,
		&entity.Ticket{
			SnowFlakeBase: entity.SnowFlakeBase{ID: 1},
			CompetitionID: testutil.Competition1.ID,
			OrderID:       "order1",
			UserID:        testutil.User2.ID,
			Number:        1,
			Status:        entity.TicketSold,
		},
		&entity.Ticket{
			SnowFlakeBase: entity.SnowFlakeBase{ID: 2},
			CompetitionID: testutil.Competition1.ID,
			OrderID:       "order1",
			UserID:        testutil.User2.ID,
			Number:        2,
			Status:        entity.TicketSold,
		},
	)
	require.NoError(t, err)

	_, err = domain.Cancel(ctx, &model.CancelCompetitionRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.NoError(t, err)

	got, err := domain.Get(ctx, &model.GetCompetitionRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.CompetitionCancelled), got.Competition.Status)

	// Every completed order is refunded and its tickets voided.
	order, err := orderRepo.GetByID(ctx, "order1")
	require.NoError(t, err)
	require.Equal(t, entity.OrderRefunded, order.Status)

	sold, err := ticketRepo.CountSoldByCompetitionID(ctx, testutil.Competition1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), sold)

	// A cancelled competition cannot be cancelled again.
	_, err = domain.Cancel(ctx, &model.CancelCompetitionRequest{
		CompetitionHandle: testutil.Competition1.Handle,
	})
	require.Equal(t, errorx.New(errorx.Unavailable, "Competition already finished"), err)
}
