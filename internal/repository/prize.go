package repository

import (
	"context"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PrizeRepository interface {
	Create(ctx context.Context, e *entity.Prize) error
	GetByID(ctx context.Context, id string) (*entity.Prize, error)
	GetByCompetitionID(ctx context.Context, competitionID string) ([]entity.Prize, error)
	CheckAndWinPrize(ctx context.Context, prizeID string) error
}

type prizeRepository struct{}

func NewPrizeRepository() *prizeRepository {
	return &prizeRepository{}
}

func (r *prizeRepository) Create(ctx context.Context, e *entity.Prize) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *prizeRepository) GetByID(ctx context.Context, id string) (*entity.Prize, error) {
	var result entity.Prize
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *prizeRepository) GetByCompetitionID(
	ctx context.Context, competitionID string,
) ([]entity.Prize, error) {
	var result []entity.Prize
	err := xcontext.DB(ctx).
		Where("competition_id=?", competitionID).
		Order("position ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CheckAndWinPrize counts one more won reward of the prize. It fails with
// gorm.ErrRecordNotFound when every reward has already been won.
func (r *prizeRepository) CheckAndWinPrize(ctx context.Context, prizeID string) error {
	tx := xcontext.DB(ctx).Model(&entity.Prize{}).
		Where("id=? AND won_rewards < available_rewards", prizeID).
		Update("won_rewards", gorm.Expr("won_rewards+?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
