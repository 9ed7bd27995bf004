package domain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rafflehub/backend/internal/common"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/crypto"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/pubsub"
	"github.com/rafflehub/backend/pkg/ws"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type WinnerDomain interface {
	Draw(context.Context, *model.DrawWinnersRequest) (*model.DrawWinnersResponse, error)
	GetList(context.Context, *model.GetWinnersRequest) (*model.GetWinnersResponse, error)
	GetMyWinnings(context.Context, *model.GetMyWinningsRequest) (*model.GetMyWinningsResponse, error)
	Claim(context.Context, *model.ClaimRewardRequest) (*model.ClaimRewardResponse, error)
}

type winnerDomain struct {
	winnerRepo      repository.WinnerRepository
	prizeRepo       repository.PrizeRepository
	ticketRepo      repository.TicketRepository
	competitionRepo repository.CompetitionRepository
	userRepo        repository.UserRepository
	roleVerifier    *common.GlobalRoleVerifier
	publisher       pubsub.Publisher
	hub             *ws.Hub
}

func NewWinnerDomain(
	winnerRepo repository.WinnerRepository,
	prizeRepo repository.PrizeRepository,
	ticketRepo repository.TicketRepository,
	competitionRepo repository.CompetitionRepository,
	userRepo repository.UserRepository,
	publisher pubsub.Publisher,
	hub *ws.Hub,
) WinnerDomain {
	return &winnerDomain{
		winnerRepo:      winnerRepo,
		prizeRepo:       prizeRepo,
		ticketRepo:      ticketRepo,
		competitionRepo: competitionRepo,
		userRepo:        userRepo,
		roleVerifier:    common.NewGlobalRoleVerifier(userRepo),
		publisher:       publisher,
		hub:             hub,
	}
}

func (d *winnerDomain) Draw(
	ctx context.Context, req *model.DrawWinnersRequest,
) (*model.DrawWinnersResponse, error) {
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

	if competition.Status != entity.CompetitionEnded {
		return nil, errorx.New(errorx.Unavailable, "Competition has not ended yet")
	}

	if competition.DrawSeedDigest != "" {
		return nil, errorx.New(errorx.AlreadyExists, "Winners were already drawn")
	}

	prizes, err := d.prizeRepo.GetByCompetitionID(ctx, competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prizes: %v", err)
		return nil, errorx.Unknown
	}

	tickets, err := d.ticketRepo.GetByCompetitionID(ctx, competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get sold tickets: %v", err)
		return nil, errorx.Unknown
	}

	if len(tickets) == 0 {
		return nil, errorx.New(errorx.Unavailable, "No tickets were sold")
	}

	candidates := make([]entity.Ticket, len(tickets))
	copy(candidates, tickets)

	seed, err := crypto.GenerateRandomBytes(32)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate draw seed: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// The guarded update also fences concurrent draws of the same
	// competition.
	err = d.competitionRepo.UpdateDrawSeedDigest(ctx, competition.ID, crypto.SHA3(seed))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "Winners were already drawn")
		}

		xcontext.Logger(ctx).Errorf("Cannot store draw seed digest: %v", err)
		return nil, errorx.Unknown
	}

	winners := []entity.Winner{}
	for _, prize := range prizes {
		units := prize.AvailableRewards - prize.WonRewards
		for unit := 0; unit < units; unit++ {
			// Every ticket can win at most once across all prizes.
			if len(candidates) == 0 {
				break
			}

			pick := crypto.RandIntn(len(candidates))
			ticket := candidates[pick]
			candidates[pick] = candidates[len(candidates)-1]
			candidates = candidates[:len(candidates)-1]

			if err := d.prizeRepo.CheckAndWinPrize(ctx, prize.ID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					break
				}

				xcontext.Logger(ctx).Errorf("Cannot count won reward: %v", err)
				return nil, errorx.Unknown
			}

			winner := entity.Winner{
				Base:          entity.Base{ID: uuid.NewString()},
				CompetitionID: competition.ID,
				PrizeID:       prize.ID,
				TicketID:      ticket.ID,
				UserID:        ticket.UserID,
			}

			if err := d.winnerRepo.Create(ctx, &winner); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot create winner: %v", err)
				return nil, errorx.Unknown
			}

			winners = append(winners, winner)
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	results, err := d.convertWinners(ctx, competition, winners, prizes, tickets)
	if err != nil {
		return nil, err
	}

	d.afterDrawn(ctx, competition, results, winners)

	return &model.DrawWinnersResponse{Winners: results}, nil
}

// afterDrawn announces the draw result. Best effort only.
func (d *winnerDomain) afterDrawn(
	ctx context.Context,
	competition *entity.Competition,
	results []model.Winner,
	winners []entity.Winner,
) {
	if d.hub != nil {
		b, err := json.Marshal(model.FeedEvent{Type: model.WinnersFeedEvent, Winners: results})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot marshal winners feed event: %v", err)
		} else if compressed, err := ws.Compress(b); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot compress winners feed event: %v", err)
		} else {
			d.hub.BroadCastByChannel(competition.Handle, compressed)
		}
	}

	winnerIDs := []string{}
	for _, w := range winners {
		winnerIDs = append(winnerIDs, w.ID)
	}

	b, err := json.Marshal(model.WinnersDrawnEvent{
		CompetitionID: competition.ID,
		WinnerIDs:     winnerIDs,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot marshal winners drawn event: %v", err)
		return
	}

	err = d.publisher.Publish(ctx, model.WinnersDrawnTopic,
		&pubsub.Pack{Key: []byte(competition.ID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish winners drawn event: %v", err)
	}
}

func (d *winnerDomain) convertWinners(
	ctx context.Context,
	competition *entity.Competition,
	winners []entity.Winner,
	prizes []entity.Prize,
	tickets []entity.Ticket,
) ([]model.Winner, error) {
	prizeSet := map[string]*entity.Prize{}
	for i := range prizes {
		prizeSet[prizes[i].ID] = &prizes[i]
	}

	ticketSet := map[int64]*entity.Ticket{}
	for i := range tickets {
		ticketSet[tickets[i].ID] = &tickets[i]
	}

	userIDs := []string{}
	for _, w := range winners {
		userIDs = append(userIDs, w.UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get winning users: %v", err)
		return nil, errorx.Unknown
	}

	userSet := map[string]*entity.User{}
	for i := range users {
		userSet[users[i].ID] = &users[i]
	}

	competitionModel := model.ConvertCompetition(competition, nil, 0)
	results := []model.Winner{}
	for i := range winners {
		ticketNumber := 0
		if t, ok := ticketSet[winners[i].TicketID]; ok {
			ticketNumber = t.Number
		}

		results = append(results, model.ConvertWinner(
			&winners[i],
			prizeSet[winners[i].PrizeID],
			userSet[winners[i].UserID],
			ticketNumber,
			competitionModel,
		))
	}

	return results, nil
}

func (d *winnerDomain) GetList(
	ctx context.Context, req *model.GetWinnersRequest,
) (*model.GetWinnersResponse, error) {
	competition, err := d.competitionRepo.GetByHandle(ctx, req.CompetitionHandle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	if competition.DrawSeedDigest == "" {
		return nil, errorx.New(errorx.NotDrawn, "Winners have not been drawn yet")
	}

	winners, err := d.winnerRepo.GetByCompetitionID(ctx, competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get winners: %v", err)
		return nil, errorx.Unknown
	}

	prizes, err := d.prizeRepo.GetByCompetitionID(ctx, competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prizes: %v", err)
		return nil, errorx.Unknown
	}

	tickets, err := d.ticketRepo.GetByCompetitionID(ctx, competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tickets: %v", err)
		return nil, errorx.Unknown
	}

	results, err := d.convertWinners(ctx, competition, winners, prizes, tickets)
	if err != nil {
		return nil, err
	}

	return &model.GetWinnersResponse{Winners: results}, nil
}

func (d *winnerDomain) GetMyWinnings(
	ctx context.Context, req *model.GetMyWinningsRequest,
) (*model.GetMyWinningsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	winners, err := d.winnerRepo.GetNotClaimedByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get winnings: %v", err)
		return nil, errorx.Unknown
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	results := []model.Winner{}
	for i := range winners {
		prize, err := d.prizeRepo.GetByID(ctx, winners[i].PrizeID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get prize of winner %s: %v", winners[i].ID, err)
			return nil, errorx.Unknown
		}

		competition, err := d.competitionRepo.GetByID(ctx, winners[i].CompetitionID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get competition of winner %s: %v", winners[i].ID, err)
			return nil, errorx.Unknown
		}

		ticketNumber := 0
		if ticket, err := d.ticketRepo.GetByID(ctx, winners[i].TicketID); err == nil {
			ticketNumber = ticket.Number
		}

		results = append(results, model.ConvertWinner(
			&winners[i], prize, user, ticketNumber,
			model.ConvertCompetition(competition, nil, 0),
		))
	}

	return &model.GetMyWinningsResponse{Winners: results}, nil
}

func (d *winnerDomain) Claim(
	ctx context.Context, req *model.ClaimRewardRequest,
) (*model.ClaimRewardResponse, error) {
	winner, err := d.winnerRepo.GetByID(ctx, req.WinnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found winner")
		}

		xcontext.Logger(ctx).Errorf("Cannot get winner: %v", err)
		return nil, errorx.Unknown
	}

	if winner.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.NotAWinner, "You are not the winner of this prize")
	}

	if winner.IsClaimed {
		return nil, errorx.New(errorx.Unavailable, "Reward already claimed")
	}

	if err := d.winnerRepo.ClaimReward(ctx, winner.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Reward already claimed")
		}

		xcontext.Logger(ctx).Errorf("Cannot claim reward: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClaimRewardResponse{}, nil
}
