package domain

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/math"
	"github.com/rafflehub/backend/internal/common"
	"github.com/rafflehub/backend/internal/domain/statistic"
	"github.com/rafflehub/backend/internal/domain/ticketpool"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/pubsub"
	"github.com/rafflehub/backend/pkg/ws"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/rafflehub/backend/pkg/xredis"
	"gorm.io/gorm"
)

type OrderDomain interface {
	Buy(context.Context, *model.BuyTicketsRequest) (*model.BuyTicketsResponse, error)
	Get(context.Context, *model.GetOrderRequest) (*model.GetOrderResponse, error)
	GetMyList(context.Context, *model.GetMyOrdersRequest) (*model.GetMyOrdersResponse, error)
}

type orderDomain struct {
	orderRepo       repository.OrderRepository
	ticketRepo      repository.TicketRepository
	competitionRepo repository.CompetitionRepository
	questionRepo    repository.QuestionRepository
	userRepo        repository.UserRepository
	allocator       *ticketpool.Allocator
	leaderboard     statistic.Leaderboard
	publisher       pubsub.Publisher
	redisClient     xredis.Client
	hub             *ws.Hub
}

func NewOrderDomain(
	orderRepo repository.OrderRepository,
	ticketRepo repository.TicketRepository,
	competitionRepo repository.CompetitionRepository,
	questionRepo repository.QuestionRepository,
	userRepo repository.UserRepository,
	leaderboard statistic.Leaderboard,
	publisher pubsub.Publisher,
	redisClient xredis.Client,
	hub *ws.Hub,
) OrderDomain {
	return &orderDomain{
		orderRepo:       orderRepo,
		ticketRepo:      ticketRepo,
		competitionRepo: competitionRepo,
		questionRepo:    questionRepo,
		userRepo:        userRepo,
		allocator:       ticketpool.NewAllocator(competitionRepo, ticketRepo),
		leaderboard:     leaderboard,
		publisher:       publisher,
		redisClient:     redisClient,
		hub:             hub,
	}
}

func (d *orderDomain) Buy(
	ctx context.Context, req *model.BuyTicketsRequest,
) (*model.BuyTicketsResponse, error) {
	if req.Quantity <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Quantity must be a positive number")
	}

	competitionCfg := xcontext.Configs(ctx).Competition
	if req.Quantity > competitionCfg.MaxTicketsPerOrder {
		return nil, errorx.New(errorx.BadRequest,
			"Exceed the maximum of tickets per order (%d)", competitionCfg.MaxTicketsPerOrder)
	}

	competition, err := d.competitionRepo.GetByHandle(ctx, req.CompetitionHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	if competition.Status != entity.CompetitionStarted {
		return nil, errorx.New(errorx.Unavailable, "Competition is not open for entries")
	}

	if !ticketpool.IsActive(competition, now) {
		return nil, errorx.New(errorx.CompetitionEnd, "Competition has ended")
	}

	userID := xcontext.RequestUserID(ctx)
	boughtTickets, err := d.orderRepo.CountTicketsByUserAndCompetition(ctx, userID, competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count tickets of user: %v", err)
		return nil, errorx.Unknown
	}

	if int(boughtTickets)+req.Quantity > competition.MaxPerUser {
		return nil, errorx.New(errorx.TicketLimit,
			"Exceed the maximum of tickets per user (%d)", competition.MaxPerUser)
	}

	question, err := d.questionRepo.GetByID(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found question")
		}

		xcontext.Logger(ctx).Errorf("Cannot get question: %v", err)
		return nil, errorx.Unknown
	}

	if question.CompetitionID != competition.ID {
		return nil, errorx.New(errorx.BadRequest, "Question belongs to another competition")
	}

	// The answer gate must pass before any ticket number is touched.
	if !strings.EqualFold(strings.TrimSpace(req.Answer), question.Answer) {
		return nil, errorx.New(errorx.WrongAnswer, "Wrong answer")
	}

	order := &entity.Order{
		Base:          entity.Base{ID: uuid.NewString()},
		UserID:        userID,
		CompetitionID: competition.ID,
		QuestionID:    sql.NullString{Valid: true, String: question.ID},
		Quantity:      req.Quantity,
		TotalPrice:    float64(req.Quantity) * competition.TicketPrice,
		Status:        entity.OrderCompleted,
	}

	// The order and its ticket records are written in the allocation
	// transaction. Either the numbers leave the pool and the sale exists, or
	// neither happens.
	numbers, err := d.allocator.Assign(ctx, competition.ID, req.Quantity,
		func(ctx context.Context, numbers []int) error {
			order.TicketNumbers = numbers
			if err := d.orderRepo.Create(ctx, order); err != nil {
				return err
			}

			tickets := []*entity.Ticket{}
			for _, number := range numbers {
				tickets = append(tickets, &entity.Ticket{
					SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
					CompetitionID: competition.ID,
					OrderID:       order.ID,
					UserID:        userID,
					Number:        number,
					Status:        entity.TicketSold,
					CreatedAt:     now,
				})
			}

			return d.ticketRepo.Create(ctx, tickets...)
		})
	if err != nil {
		if errors.Is(err, ticketpool.ErrInsufficientTickets) {
			return nil, errorx.New(errorx.SoldOut, "Not enough tickets left")
		}

		xcontext.Logger(ctx).Errorf("Cannot sell tickets: %v", err)
		return nil, errorx.Unknown
	}

	d.afterBought(ctx, order, competition)

	return &model.BuyTicketsResponse{
		OrderID:       order.ID,
		TicketNumbers: numbers,
		TotalPrice:    order.TotalPrice,
	}, nil
}

// afterBought runs the side effects of a completed order. All of them are
// best effort, a failure never takes the sale down with it.
func (d *orderDomain) afterBought(
	ctx context.Context, order *entity.Order, competition *entity.Competition,
) {
	common.PromCounters[common.TicketSoldTotal].
		WithLabelValues(competition.ID).Add(float64(order.Quantity))

	firstNumber := 0
	if len(order.TicketNumbers) > 0 {
		firstNumber = order.TicketNumbers[0]
	}

	b, err := json.Marshal(model.OrderCreatedEvent{
		OrderID:       order.ID,
		CompetitionID: competition.ID,
		UserID:        order.UserID,
		Quantity:      order.Quantity,
		FirstNumber:   firstNumber,
		CreatedAt:     order.CreatedAt,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot marshal order created event: %v", err)
	} else {
		err = d.publisher.Publish(ctx, model.OrderCreatedTopic,
			&pubsub.Pack{Key: []byte(order.ID), Msg: b})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot publish order created event: %v", err)
		}
	}

	err = d.leaderboard.ChangeBuyerLeaderboard(
		ctx, int64(order.Quantity), order.TotalPrice, order.CreatedAt, order.UserID, competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot change buyer leaderboard: %v", err)
	}

	err = d.redisClient.ZIncrBy(
		ctx, common.RedisKeyTrendingCompetitions, float64(order.Quantity), competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot bump trending of competition: %v", err)
	}

	d.broadcastSale(ctx, order, competition)
}

func (d *orderDomain) broadcastSale(
	ctx context.Context, order *entity.Order, competition *entity.Competition,
) {
	if d.hub == nil {
		return
	}

	user, err := d.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get buyer for sale broadcast: %v", err)
		return
	}

	firstNumber := 0
	if len(order.TicketNumbers) > 0 {
		firstNumber = order.TicketNumbers[0]
	}

	sale := model.ConvertSaleEvent(&entity.SaleEvent{
		CompetitionID: competition.ID,
		UserID:        order.UserID,
		Quantity:      order.Quantity,
		FirstNumber:   firstNumber,
		CreatedAt:     order.CreatedAt,
	}, user)

	b, err := json.Marshal(model.FeedEvent{Type: model.SaleFeedEvent, Sale: &sale})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot marshal sale feed event: %v", err)
		return
	}

	compressed, err := ws.Compress(b)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot compress sale feed event: %v", err)
		return
	}

	d.hub.BroadCastByChannel(competition.Handle, compressed)
}

func (d *orderDomain) Get(
	ctx context.Context, req *model.GetOrderRequest,
) (*model.GetOrderResponse, error) {
	order, err := d.orderRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found order")
		}

		xcontext.Logger(ctx).Errorf("Cannot get order: %v", err)
		return nil, errorx.Unknown
	}

	if order.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	user, err := d.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	competition, err := d.competitionRepo.GetByID(ctx, order.CompetitionID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetOrderResponse{
		Order: model.ConvertOrder(order, user, model.ConvertCompetition(competition, nil, 0)),
	}, nil
}

func (d *orderDomain) GetMyList(
	ctx context.Context, req *model.GetMyOrdersRequest,
) (*model.GetMyOrdersResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	req.Limit = math.MinInt(req.Limit, apiCfg.MaxLimit)

	userID := xcontext.RequestUserID(ctx)
	orders, err := d.orderRepo.GetByUserID(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get orders: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	orderList := []model.Order{}
	for i := range orders {
		competition, err := d.competitionRepo.GetByID(ctx, orders[i].CompetitionID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get competition of order %s: %v", orders[i].ID, err)
			return nil, errorx.Unknown
		}

		orderList = append(orderList, model.ConvertOrder(
			&orders[i], user, model.ConvertCompetition(competition, nil, 0)))
	}

	return &model.GetMyOrdersResponse{Orders: orderList}, nil
}
