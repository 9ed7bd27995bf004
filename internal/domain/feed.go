package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pkg/math"
	"github.com/rafflehub/backend/internal/common"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/ws"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/rafflehub/backend/pkg/xredis"
	"gorm.io/gorm"
)

type FeedDomain interface {
	ServeFeed(ctx context.Context, req *model.ServeFeedRequest) error
	GetRecentSales(context.Context, *model.GetRecentSalesRequest) (*model.GetRecentSalesResponse, error)
}

type feedDomain struct {
	competitionRepo  repository.CompetitionRepository
	saleActivityRepo repository.SaleActivityRepository
	userRepo         repository.UserRepository
	redisClient      xredis.Client
	hub              *ws.Hub
}

func NewFeedDomain(
	competitionRepo repository.CompetitionRepository,
	saleActivityRepo repository.SaleActivityRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
	hub *ws.Hub,
) FeedDomain {
	return &feedDomain{
		competitionRepo:  competitionRepo,
		saleActivityRepo: saleActivityRepo,
		userRepo:         userRepo,
		redisClient:      redisClient,
		hub:              hub,
	}
}

// ServeFeed joins the connection to the live feed channel of a competition
// and keeps it there until the peer goes away.
func (d *feedDomain) ServeFeed(ctx context.Context, req *model.ServeFeedRequest) error {
	competition, err := d.competitionRepo.GetByHandle(ctx, req.CompetitionHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return errorx.Unknown
	}

	client := xcontext.WSClient(ctx)
	if client == nil {
		xcontext.Logger(ctx).Errorf("No websocket client in context")
		return errorx.Unknown
	}

	d.hub.Join(client, competition.Handle)
	defer d.hub.Leave(client)

	viewerKey := common.RedisKeyCompetitionViewers(competition.ID)
	viewerID := uuid.NewString()
	if err := d.redisClient.SAdd(ctx, viewerKey, viewerID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot count in feed viewer: %v", err)
	}

	defer func() {
		if err := d.redisClient.SRem(ctx, viewerKey, viewerID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot count out feed viewer: %v", err)
		}
	}()

	for range client.R {
	}

	return nil
}

func (d *feedDomain) GetRecentSales(
	ctx context.Context, req *model.GetRecentSalesRequest,
) (*model.GetRecentSalesResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	req.Limit = math.MinInt(req.Limit, apiCfg.MaxLimit)

	competition, err := d.competitionRepo.GetByHandle(ctx, req.CompetitionHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	events, err := d.saleActivityRepo.GetRecent(ctx, competition.ID, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get recent sales: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetRecentSalesResponse{
		Sales: convertSaleEvents(ctx, d.userRepo, events),
	}, nil
}

// convertSaleEvents attaches the buyer of each sale event. Events of unknown
// buyers keep an empty user rather than dropping the sale.
func convertSaleEvents(
	ctx context.Context, userRepo repository.UserRepository, events []entity.SaleEvent,
) []model.SaleEvent {
	if len(events) == 0 {
		return nil
	}

	userIDs := []string{}
	for _, e := range events {
		userIDs = append(userIDs, e.UserID)
	}

	users, err := userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get users of sale events: %v", err)
		users = nil
	}

	userSet := map[string]*entity.User{}
	for i := range users {
		userSet[users[i].ID] = &users[i]
	}

	sales := []model.SaleEvent{}
	for i := range events {
		sales = append(sales, model.ConvertSaleEvent(&events[i], userSet[events[i].UserID]))
	}

	return sales
}
