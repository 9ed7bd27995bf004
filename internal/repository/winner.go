package repository

import (
	"context"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type WinnerRepository interface {
	Create(ctx context.Context, e *entity.Winner) error
	GetByID(ctx context.Context, id string) (*entity.Winner, error)
	GetByCompetitionID(ctx context.Context, competitionID string) ([]entity.Winner, error)
	GetNotClaimedByUserID(ctx context.Context, userID string) ([]entity.Winner, error)
	ClaimReward(ctx context.Context, winnerID string) error
}

type winnerRepository struct{}

func NewWinnerRepository() *winnerRepository {
	return &winnerRepository{}
}

func (r *winnerRepository) Create(ctx context.Context, e *entity.Winner) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *winnerRepository) GetByID(ctx context.Context, id string) (*entity.Winner, error) {
	var result entity.Winner
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *winnerRepository) GetByCompetitionID(
	ctx context.Context, competitionID string,
) ([]entity.Winner, error) {
	var result []entity.Winner
	err := xcontext.DB(ctx).Find(&result, "competition_id=?", competitionID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *winnerRepository) GetNotClaimedByUserID(
	ctx context.Context, userID string,
) ([]entity.Winner, error) {
	var result []entity.Winner
	err := xcontext.DB(ctx).Find(&result, "user_id=? AND is_claimed=?", userID, false).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *winnerRepository) ClaimReward(ctx context.Context, winnerID string) error {
	tx := xcontext.DB(ctx).Model(&entity.Winner{}).
		Where("id=? AND is_claimed=?", winnerID, false).
		Update("is_claimed", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
