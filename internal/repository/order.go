package repository

import (
	"context"
	"time"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type StatisticOrderFilter struct {
	CompetitionID string
	Start         time.Time
	End           time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, e *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Order, error)
	GetByCompetitionID(ctx context.Context, competitionID string, status entity.OrderStatus) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
	CountTicketsByUserAndCompetition(ctx context.Context, userID, competitionID string) (int64, error)
	Statistic(ctx context.Context, filter StatisticOrderFilter) ([]entity.BuyerStatistic, error)
}

type orderRepository struct{}

func NewOrderRepository() *orderRepository {
	return &orderRepository{}
}

func (r *orderRepository) Create(ctx context.Context, e *entity.Order) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var result entity.Order
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *orderRepository) GetByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Order, error) {
	var result []entity.Order
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *orderRepository) GetByCompetitionID(
	ctx context.Context, competitionID string, status entity.OrderStatus,
) ([]entity.Order, error) {
	var result []entity.Order
	err := xcontext.DB(ctx).
		Where("competition_id=? AND status=?", competitionID, status).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Order{}).
		Where("id=?", id).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CountTicketsByUserAndCompetition sums the quantity of completed orders a
// user placed on one competition. Used to enforce the per-user ticket limit.
func (r *orderRepository) CountTicketsByUserAndCompetition(
	ctx context.Context, userID, competitionID string,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Order{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("user_id=? AND competition_id=? AND status=?",
			userID, competitionID, entity.OrderCompleted).
		Scan(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *orderRepository) Statistic(
	ctx context.Context, filter StatisticOrderFilter,
) ([]entity.BuyerStatistic, error) {
	tx := xcontext.DB(ctx).Model(&entity.Order{}).
		Select("user_id, SUM(quantity) as tickets, SUM(total_price) as spent").
		Where("status=?", entity.OrderCompleted).
		Group("user_id")

	if filter.CompetitionID != "" {
		tx.Where("competition_id=?", filter.CompetitionID)
	}

	if !filter.Start.IsZero() {
		tx.Where("created_at >= ?", filter.Start)
	}

	if !filter.End.IsZero() {
		tx.Where("created_at < ?", filter.End)
	}

	var result []entity.BuyerStatistic
	if err := tx.Scan(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
