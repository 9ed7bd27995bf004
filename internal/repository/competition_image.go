package repository

import (
	"context"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
)

type CompetitionImageRepository interface {
	Create(ctx context.Context, e *entity.CompetitionImage) error
	GetByCompetitionID(ctx context.Context, competitionID string) ([]entity.CompetitionImage, error)
	DeleteByID(ctx context.Context, id string) error
}

type competitionImageRepository struct{}

func NewCompetitionImageRepository() *competitionImageRepository {
	return &competitionImageRepository{}
}

func (r *competitionImageRepository) Create(ctx context.Context, e *entity.CompetitionImage) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *competitionImageRepository) GetByCompetitionID(
	ctx context.Context, competitionID string,
) ([]entity.CompetitionImage, error) {
	var result []entity.CompetitionImage
	err := xcontext.DB(ctx).
		Where("competition_id=?", competitionID).
		Order("position ASC, width DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *competitionImageRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.CompetitionImage{}, "id=?", id).Error
}
