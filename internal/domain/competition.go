package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/rafflehub/backend/internal/common"
	"github.com/rafflehub/backend/internal/domain/reward"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/crypto"
	"github.com/rafflehub/backend/pkg/enum"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/xcontext"
	"github.com/rafflehub/backend/pkg/xredis"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type CompetitionDomain interface {
	Create(context.Context, *model.CreateCompetitionRequest) (*model.CreateCompetitionResponse, error)
	Get(context.Context, *model.GetCompetitionRequest) (*model.GetCompetitionResponse, error)
	GetList(context.Context, *model.GetListCompetitionRequest) (*model.GetListCompetitionResponse, error)
	UpdateByID(context.Context, *model.UpdateCompetitionByIDRequest) (*model.UpdateCompetitionByIDResponse, error)
	Start(context.Context, *model.StartCompetitionRequest) (*model.StartCompetitionResponse, error)
	Cancel(context.Context, *model.CancelCompetitionRequest) (*model.CancelCompetitionResponse, error)
	DeleteByID(context.Context, *model.DeleteCompetitionRequest) (*model.DeleteCompetitionResponse, error)
}

type competitionDomain struct {
	competitionRepo      repository.CompetitionRepository
	categoryRepo         repository.CategoryRepository
	questionRepo         repository.QuestionRepository
	prizeRepo            repository.PrizeRepository
	competitionImageRepo repository.CompetitionImageRepository
	ticketRepo           repository.TicketRepository
	orderRepo            repository.OrderRepository
	saleActivityRepo     repository.SaleActivityRepository
	userRepo             repository.UserRepository
	roleVerifier         *common.GlobalRoleVerifier
	rewardFactory        reward.Factory
	redisClient          xredis.Client
}

func NewCompetitionDomain(
	competitionRepo repository.CompetitionRepository,
	categoryRepo repository.CategoryRepository,
	questionRepo repository.QuestionRepository,
	prizeRepo repository.PrizeRepository,
	competitionImageRepo repository.CompetitionImageRepository,
	ticketRepo repository.TicketRepository,
	orderRepo repository.OrderRepository,
	saleActivityRepo repository.SaleActivityRepository,
	userRepo repository.UserRepository,
	rewardFactory reward.Factory,
	redisClient xredis.Client,
) CompetitionDomain {
	return &competitionDomain{
		competitionRepo:      competitionRepo,
		categoryRepo:         categoryRepo,
		questionRepo:         questionRepo,
		prizeRepo:            prizeRepo,
		competitionImageRepo: competitionImageRepo,
		ticketRepo:           ticketRepo,
		orderRepo:            orderRepo,
		saleActivityRepo:     saleActivityRepo,
		userRepo:             userRepo,
		roleVerifier:         common.NewGlobalRoleVerifier(userRepo),
		rewardFactory:        rewardFactory,
		redisClient:          redisClient,
	}
}

func (d *competitionDomain) Create(
	ctx context.Context, req *model.CreateCompetitionRequest,
) (*model.CreateCompetitionResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if err := checkCompetitionTitle(req.Title); err != nil {
		return nil, err
	}

	if req.NumberOfEntries <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Number of entries must be a positive")
	}

	if req.TicketPrice < 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a negative ticket price")
	}

	if req.MaxPerUser < 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a negative tickets limit")
	}

	// No per-user limit means a single user could buy out the competition.
	if req.MaxPerUser == 0 {
		req.MaxPerUser = req.NumberOfEntries
	}

	now := time.Now()
	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = now
	}

	if req.EndDate.IsZero() {
		return nil, errorx.New(errorx.BadRequest, "Not found end date")
	}

	if !req.EndDate.After(startDate) {
		return nil, errorx.New(errorx.BadRequest, "End date must be after start date")
	}

	if !req.EndDate.After(now) {
		return nil, errorx.New(errorx.BadRequest, "End date must be in the future")
	}

	categoryID := sql.NullString{Valid: false}
	var category *entity.Category
	if req.CategoryID != "" {
		var err error
		category, err = d.categoryRepo.GetByID(ctx, req.CategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Invalid category")
			}

			xcontext.Logger(ctx).Errorf("Cannot get category: %v", err)
			return nil, errorx.Unknown
		}

		categoryID = sql.NullString{Valid: true, String: req.CategoryID}
	}

	competitionCfg := xcontext.Configs(ctx).Competition
	if len(req.Questions) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Require at least one skill question")
	}

	for _, q := range req.Questions {
		if q.Text == "" {
			return nil, errorx.New(errorx.BadRequest, "Not allow an empty question")
		}

		if len(q.Options) < 2 {
			return nil, errorx.New(errorx.BadRequest, "Require at least two options")
		}

		if len(q.Options) > competitionCfg.QuestionMaxOptions {
			return nil, errorx.New(errorx.BadRequest,
				"Exceed the maximum of options (%d)", competitionCfg.QuestionMaxOptions)
		}

		if !slices.Contains(q.Options, q.Answer) {
			return nil, errorx.New(errorx.BadRequest, "Answer must be one of the options")
		}
	}

	handle, err := d.generateUniqueHandle(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	availableTickets := make(entity.Array[int], 0, req.NumberOfEntries)
	for i := 1; i <= req.NumberOfEntries; i++ {
		availableTickets = append(availableTickets, i)
	}

	competition := &entity.Competition{
		Base:             entity.Base{ID: uuid.NewString()},
		CreatedBy:        xcontext.RequestUserID(ctx),
		CategoryID:       categoryID,
		Handle:           handle,
		Title:            req.Title,
		Description:      []byte(req.Description),
		ImageURL:         req.ImageURL,
		NumberOfEntries:  req.NumberOfEntries,
		AvailableTickets: availableTickets,
		SoldTickets:      entity.Array[int]{},
		TicketPrice:      req.TicketPrice,
		MaxPerUser:       req.MaxPerUser,
		StartDate:        startDate,
		EndDate:          req.EndDate,
		Status:           entity.CompetitionDraft,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.competitionRepo.Create(ctx, competition); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create competition: %v", err)
		return nil, errorx.Unknown
	}

	questions := []model.Question{}
	for _, q := range req.Questions {
		question := &entity.Question{
			Base:          entity.Base{ID: uuid.NewString()},
			CompetitionID: competition.ID,
			Text:          q.Text,
			Options:       q.Options,
			Answer:        q.Answer,
		}

		if err := d.questionRepo.Create(ctx, question); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create question: %v", err)
			return nil, errorx.Unknown
		}

		questions = append(questions, model.ConvertQuestion(question))
	}

	prizes := []model.Prize{}
	for _, p := range req.Prizes {
		if p.Position <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Prize position must be a positive")
		}

		if p.AvailableRewards <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Available rewards must be a positive")
		}

		rewards := []entity.Reward{}
		for _, r := range p.Rewards {
			rType, err := enum.ToEnum[entity.RewardType](r.Type)
			if err != nil {
				xcontext.Logger(ctx).Debugf("Invalid reward type: %v", err)
				continue
			}

			parsed, err := d.rewardFactory.NewReward(ctx, rType, r.Data, true)
			if err != nil {
				return nil, err
			}

			rewards = append(rewards, entity.Reward{Type: rType, Data: structs.Map(parsed)})
		}

		prize := &entity.Prize{
			Base:             entity.Base{ID: uuid.NewString()},
			CompetitionID:    competition.ID,
			Title:            p.Title,
			Description:      p.Description,
			Position:         p.Position,
			Rewards:          rewards,
			AvailableRewards: p.AvailableRewards,
		}

		if err := d.prizeRepo.Create(ctx, prize); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create prize: %v", err)
			return nil, errorx.Unknown
		}

		prizes = append(prizes, model.ConvertPrize(prize))
	}

	xcontext.WithCommitDBTransaction(ctx)

	result := model.ConvertCompetition(competition, category, 0)
	result.Questions = questions
	result.Prizes = prizes
	return &model.CreateCompetitionResponse{Competition: result}, nil
}

// generateUniqueHandle derives a url friendly handle from the title,
// retrying with a random suffix until it does not collide.
func (d *competitionDomain) generateUniqueHandle(ctx context.Context, title string) (string, error) {
	originHandle := generateCompetitionHandle(title)
	handle := originHandle
	power := 2
	for {
		if checkCompetitionHandle(ctx, handle) == nil {
			_, err := d.competitionRepo.GetByHandle(ctx, handle)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			} else if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get competition by handle: %v", err)
				return "", errorx.Unknown
			}
		}

		suffix := crypto.RandIntn(int(math.Pow10(power)))
		handle = fmt.Sprintf("%s_%s", originHandle, strconv.Itoa(suffix))
		power++
	}

	return handle, nil
}

func (d *competitionDomain) Get(
	ctx context.Context, req *model.GetCompetitionRequest,
) (*model.GetCompetitionResponse, error) {
	competition, err := d.competitionRepo.GetByHandle(ctx, req.CompetitionHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.populateCompetition(ctx, competition)
	if err != nil {
		return nil, err
	}

	return &model.GetCompetitionResponse{Competition: result}, nil
}

// populateCompetition dresses a competition with its category, images,
// questions, prizes, sold count, and the recent sales ticker.
func (d *competitionDomain) populateCompetition(
	ctx context.Context, competition *entity.Competition,
) (model.Competition, error) {
	var category *entity.Category
	if competition.CategoryID.Valid {
		var err error
		category, err = d.categoryRepo.GetByID(ctx, competition.CategoryID.String)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get category: %v", err)
			return model.Competition{}, errorx.Unknown
		}
	}

	soldCount, err := d.ticketRepo.CountSoldByCompetitionID(ctx, competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count sold tickets: %v", err)
		return model.Competition{}, errorx.Unknown
	}

	result := model.ConvertCompetition(competition, category, soldCount)

	images, err := d.competitionImageRepo.GetByCompetitionID(ctx, competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get competition images: %v", err)
		return model.Competition{}, errorx.Unknown
	}

	for i := range images {
		result.Images = append(result.Images, model.ConvertCompetitionImage(&images[i]))
	}

	questions, err := d.questionRepo.GetByCompetitionID(ctx, competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get questions: %v", err)
		return model.Competition{}, errorx.Unknown
	}

	for i := range questions {
		result.Questions = append(result.Questions, model.ConvertQuestion(&questions[i]))
	}

	prizes, err := d.prizeRepo.GetByCompetitionID(ctx, competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prizes: %v", err)
		return model.Competition{}, errorx.Unknown
	}

	for i := range prizes {
		result.Prizes = append(result.Prizes, model.ConvertPrize(&prizes[i]))
	}

	viewers, err := d.redisClient.SCard(ctx, common.RedisKeyCompetitionViewers(competition.ID))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot count feed viewers: %v", err)
	} else {
		result.Viewers = viewers
	}

	// The sales ticker is eventually consistent and never blocks the page.
	events, err := d.saleActivityRepo.GetRecent(ctx, competition.ID, 10)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get recent sales: %v", err)
		return result, nil
	}

	result.RecentSales = convertSaleEvents(ctx, d.userRepo, events)
	return result, nil
}

func (d *competitionDomain) GetList(
	ctx context.Context, req *model.GetListCompetitionRequest,
) (*model.GetListCompetitionResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	var status entity.CompetitionStatus
	if req.Status != "" {
		var err error
		status, err = enum.ToEnum[entity.CompetitionStatus](req.Status)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid competition status: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid status")
		}
	}

	result, err := d.competitionRepo.GetList(ctx, repository.GetListCompetitionFilter{
		Q:          req.Q,
		CategoryID: req.CategoryID,
		Status:     status,
		ByTrending: req.ByTrending,
		Offset:     req.Offset,
		Limit:      req.Limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get competition list: %v", err)
		return nil, errorx.Unknown
	}

	competitions := []model.Competition{}
	for i := range result {
		var category *entity.Category
		if result[i].CategoryID.Valid {
			category, err = d.categoryRepo.GetByID(ctx, result[i].CategoryID.String)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get category of competition %s: %v", result[i].ID, err)
				return nil, errorx.Unknown
			}
		}

		soldCount, err := d.ticketRepo.CountSoldByCompetitionID(ctx, result[i].ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count sold tickets of competition %s: %v", result[i].ID, err)
			return nil, errorx.Unknown
		}

		competitions = append(competitions, model.ConvertCompetition(&result[i], category, soldCount))
	}

	return &model.GetListCompetitionResponse{Competitions: competitions}, nil
}

func (d *competitionDomain) UpdateByID(
	ctx context.Context, req *model.UpdateCompetitionByIDRequest,
) (*model.UpdateCompetitionByIDResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	competition, err := d.competitionRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	if req.Title != "" {
		if err := checkCompetitionTitle(req.Title); err != nil {
			return nil, err
		}
	}

	if req.TicketPrice < 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a negative ticket price")
	}

	if req.MaxPerUser < 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a negative tickets limit")
	}

	startDate := competition.StartDate
	if !req.StartDate.IsZero() {
		startDate = req.StartDate
	}

	endDate := competition.EndDate
	if !req.EndDate.IsZero() {
		endDate = req.EndDate
	}

	if !endDate.After(startDate) {
		return nil, errorx.New(errorx.BadRequest, "End date must be after start date")
	}

	categoryID := sql.NullString{Valid: false}
	if req.CategoryID != "" {
		if _, err := d.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Invalid category")
			}

			xcontext.Logger(ctx).Errorf("Cannot get category: %v", err)
			return nil, errorx.Unknown
		}

		categoryID = sql.NullString{Valid: true, String: req.CategoryID}
	}

	err = d.competitionRepo.UpdateByID(ctx, competition.ID, entity.Competition{
		CategoryID:  categoryID,
		Title:       req.Title,
		Description: []byte(req.Description),
		ImageURL:    req.ImageURL,
		TicketPrice: req.TicketPrice,
		MaxPerUser:  req.MaxPerUser,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update competition: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateCompetitionByIDResponse{}, nil
}

func (d *competitionDomain) Start(
	ctx context.Context, req *model.StartCompetitionRequest,
) (*model.StartCompetitionResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	competition, err := d.competitionRepo.GetByHandle(ctx, req.CompetitionHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	if competition.Status != entity.CompetitionDraft {
		return nil, errorx.New(errorx.Unavailable, "Can only start a draft competition")
	}

	if !competition.EndDate.After(time.Now()) {
		return nil, errorx.New(errorx.Unavailable, "Competition already passed its end date")
	}

	if err := d.competitionRepo.UpdateStatus(ctx, competition.ID, entity.CompetitionStarted); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot start competition: %v", err)
		return nil, errorx.Unknown
	}

	return &model.StartCompetitionResponse{}, nil
}

func (d *competitionDomain) Cancel(
	ctx context.Context, req *model.CancelCompetitionRequest,
) (*model.CancelCompetitionResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	competition, err := d.competitionRepo.GetByHandle(ctx, req.CompetitionHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	if competition.Status != entity.CompetitionDraft && competition.Status != entity.CompetitionStarted {
		return nil, errorx.New(errorx.Unavailable, "Competition already finished")
	}

	// Cancelling refunds every completed order and voids its tickets in the
	// same transaction as the status change.
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.competitionRepo.UpdateStatus(ctx, competition.ID, entity.CompetitionCancelled); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel competition: %v", err)
		return nil, errorx.Unknown
	}

	orders, err := d.orderRepo.GetByCompetitionID(ctx, competition.ID, entity.OrderCompleted)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get orders of competition: %v", err)
		return nil, errorx.Unknown
	}

	for i := range orders {
		if err := d.orderRepo.UpdateStatus(ctx, orders[i].ID, entity.OrderRefunded); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot refund order %s: %v", orders[i].ID, err)
			return nil, errorx.Unknown
		}

		if err := d.ticketRepo.VoidByOrderID(ctx, orders[i].ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot void tickets of order %s: %v", orders[i].ID, err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.CancelCompetitionResponse{}, nil
}

func (d *competitionDomain) DeleteByID(
	ctx context.Context, req *model.DeleteCompetitionRequest,
) (*model.DeleteCompetitionResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if _, err := d.competitionRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.competitionRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete competition: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteCompetitionResponse{}, nil
}
