package repository

import (
	"context"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
)

type StatisticTicketFilter struct {
	CompetitionID string
	Start         time.Time
	End           time.Time
}

type TicketRepository interface {
	Create(ctx context.Context, tickets ...*entity.Ticket) error
	CountSoldByCompetitionID(ctx context.Context, competitionID string) (int64, error)
	Count(ctx context.Context, filter StatisticTicketFilter) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Ticket, error)
	GetByCompetitionID(ctx context.Context, competitionID string) ([]entity.Ticket, error)
	VoidByOrderID(ctx context.Context, orderID string) error
}

type ticketRepository struct{}

func NewTicketRepository() *ticketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Create(ctx context.Context, tickets ...*entity.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(tickets).Error
}

// CountSoldByCompetitionID counts the sold records of a competition. This
// count decides the remaining capacity, not the length of the sold list
// kept on the competition row.
func (r *ticketRepository) CountSoldByCompetitionID(
	ctx context.Context, competitionID string,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("competition_id=? AND status=?", competitionID, entity.TicketSold).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *ticketRepository) Count(ctx context.Context, filter StatisticTicketFilter) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("status=?", entity.TicketSold)

	if filter.CompetitionID != "" {
		tx.Where("competition_id=?", filter.CompetitionID)
	}

	if !filter.Start.IsZero() {
		tx.Where("created_at >= ?", filter.Start)
	}

	if !filter.End.IsZero() {
		tx.Where("created_at < ?", filter.End)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*entity.Ticket, error) {
	var result entity.Ticket
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByCompetitionID returns the sold tickets of a competition in number
// order.
func (r *ticketRepository) GetByCompetitionID(
	ctx context.Context, competitionID string,
) ([]entity.Ticket, error) {
	var result []entity.Ticket
	err := xcontext.DB(ctx).
		Where("competition_id=? AND status=?", competitionID, entity.TicketSold).
		Order("number ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// VoidByOrderID marks every ticket of an order void. Void tickets drop out of
// the sold count and of the winner draw.
func (r *ticketRepository) VoidByOrderID(ctx context.Context, orderID string) error {
	return xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("order_id=?", orderID).
		Update("status", entity.TicketVoid).Error
}
