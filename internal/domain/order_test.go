package domain

import (
	"context"
	"testing"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/pubsub"
	"github.com/rafflehub/backend/pkg/testutil"
	"github.com/rafflehub/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

func newTestOrderDomain(publisher pubsub.Publisher) OrderDomain {
	if publisher == nil {
		publisher = &testutil.MockPublisher{}
	}

	competitionRepo := repository.NewCompetitionRepository(
		&testutil.MockSearchCaller{}, &testutil.MockRedisClient{})
	orderRepo := repository.NewOrderRepository()

	return NewOrderDomain(
		orderRepo,
		repository.NewTicketRepository(),
		competitionRepo,
		repository.NewQuestionRepository(),
		repository.NewUserRepository(),
		&testutil.MockLeaderboard{},
		publisher,
		&testutil.MockRedisClient{},
		nil,
	)
}

func Test_orderDomain_Buy(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)

	published := []string{}
	domain := newTestOrderDomain(&testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			published = append(published, topic)
			return nil
		},
	})

	resp, err := domain.Buy(ctx, &model.BuyTicketsRequest{
		CompetitionHandle: testutil.Competition1.Handle,
		Quantity:          3,
		QuestionID:        testutil.Question1.ID,
		Answer:            "london",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.OrderID)
	require.Equal(t, []int{1, 2, 3}, resp.TicketNumbers)
	require.Equal(t, 3*testutil.Competition1.TicketPrice, resp.TotalPrice)
	require.Equal(t, []string{model.OrderCreatedTopic}, published)

	// The pools moved and one sold ticket record exists per number.
	var competition entity.Competition
	tx := xcontext.DB(ctx).Take(&competition, "id=?", testutil.Competition1.ID)
	require.NoError(t, tx.Error)
	require.Equal(t, entity.Array[int]{4, 5, 6, 7, 8, 9, 10}, competition.AvailableTickets)
	require.Equal(t, entity.Array[int]{1, 2, 3}, competition.SoldTickets)

	ticketRepo := repository.NewTicketRepository()
	soldCount, err := ticketRepo.CountSoldByCompetitionID(ctx, testutil.Competition1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), soldCount)

	got, err := domain.Get(ctx, &model.GetOrderRequest{ID: resp.OrderID})
	require.NoError(t, err)
	require.Equal(t, string(entity.OrderCompleted), got.Order.Status)
	require.Equal(t, []int{1, 2, 3}, got.Order.TicketNumbers)
}

func Test_orderDomain_Buy_wrongAnswer(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestOrderDomain(nil)

	_, err := domain.Buy(ctx, &model.BuyTicketsRequest{
		CompetitionHandle: testutil.Competition1.Handle,
		Quantity:          1,
		QuestionID:        testutil.Question1.ID,
		Answer:            "Paris",
	})
	require.Equal(t, errorx.New(errorx.WrongAnswer, "Wrong answer"), err)

	// A wrong answer never touches the pools.
	var competition entity.Competition
	tx := xcontext.DB(ctx).Take(&competition, "id=?", testutil.Competition1.ID)
	require.NoError(t, tx.Error)
	require.Len(t, competition.AvailableTickets, 10)
	require.Empty(t, competition.SoldTickets)
}

func Test_orderDomain_Buy_quantityLimits(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestOrderDomain(nil)

	_, err := domain.Buy(ctx, &model.BuyTicketsRequest{
		CompetitionHandle: testutil.Competition1.Handle,
		Quantity:          0,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Quantity must be a positive number"), err)

	maxPerOrder := xcontext.Configs(ctx).Competition.MaxTicketsPerOrder
	_, err = domain.Buy(ctx, &model.BuyTicketsRequest{
		CompetitionHandle: testutil.Competition1.Handle,
		Quantity:          maxPerOrder + 1,
	})
	require.Equal(t, errorx.New(errorx.BadRequest,
		"Exceed the maximum of tickets per order (%d)", maxPerOrder), err)

	// Competition1 allows five tickets per user, the sixth is refused.
	resp, err := domain.Buy(ctx, &model.BuyTicketsRequest{
		CompetitionHandle: testutil.Competition1.Handle,
		Quantity:          5,
		QuestionID:        testutil.Question1.ID,
		Answer:            "London",
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 4, 5}, resp.TicketNumbers)

	_, err = domain.Buy(ctx, &model.BuyTicketsRequest{
		CompetitionHandle: testutil.Competition1.Handle,
		Quantity:          1,
		QuestionID:        testutil.Question1.ID,
		Answer:            "London",
	})
	require.Equal(t, errorx.New(errorx.TicketLimit,
		"Exceed the maximum of tickets per user (%d)", testutil.Competition1.MaxPerUser), err)
}

func Test_orderDomain_Buy_notStarted(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestOrderDomain(nil)

	_, err := domain.Buy(ctx, &model.BuyTicketsRequest{
		CompetitionHandle: testutil.Competition2.Handle,
		Quantity:          1,
	})
	require.Equal(t, errorx.New(errorx.Unavailable, "Competition is not open for entries"), err)
}

func Test_orderDomain_Buy_soldOut(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestOrderDomain(nil)

	competition, err := testutil.SampleCompetition(ctx, &entity.Competition{
		NumberOfEntries:  2,
		AvailableTickets: entity.Array[int]{1, 2},
		MaxPerUser:       10,
	})
	require.NoError(t, err)

	questionRepo := repository.NewQuestionRepository()
	question := &entity.Question{
		Base:          entity.Base{ID: "soldout-question"},
		CompetitionID: competition.ID,
		Text:          "2+2?",
		Options:       entity.Array[string]{"3", "4"},
		Answer:        "4",
	}
	require.NoError(t, questionRepo.Create(ctx, question))

	_, err = domain.Buy(ctx, &model.BuyTicketsRequest{
		CompetitionHandle: competition.Handle,
		Quantity:          3,
		QuestionID:        question.ID,
		Answer:            "4",
	})
	require.Equal(t, errorx.New(errorx.SoldOut, "Not enough tickets left"), err)
}

func Test_orderDomain_GetMyList(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixtureDb(ctx)
	domain := newTestOrderDomain(nil)

	for i := 0; i < 3; i++ {
		_, err := domain.Buy(ctx, &model.BuyTicketsRequest{
			CompetitionHandle: testutil.Competition1.Handle,
			Quantity:          1,
			QuestionID:        testutil.Question1.ID,
			Answer:            "London",
		})
		require.NoError(t, err)
	}

	resp, err := domain.GetMyList(ctx, &model.GetMyOrdersRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 3)

	paged, err := domain.GetMyList(ctx, &model.GetMyOrdersRequest{Offset: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, paged.Orders, 1)

	// Another user sees none of them.
	other := xcontext.WithRequestUserID(ctx, testutil.User3.ID)
	resp, err = domain.GetMyList(other, &model.GetMyOrdersRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Orders)
}
