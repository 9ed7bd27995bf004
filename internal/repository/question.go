package repository

import (
	"context"
	"fmt"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
)

type QuestionRepository interface {
	Create(ctx context.Context, e *entity.Question) error
	GetByID(ctx context.Context, id string) (*entity.Question, error)
	GetByCompetitionID(ctx context.Context, competitionID string) ([]entity.Question, error)
	UpdateByID(ctx context.Context, id string, data *entity.Question) error
}

type questionRepository struct{}

func NewQuestionRepository() *questionRepository {
	return &questionRepository{}
}

func (r *questionRepository) Create(ctx context.Context, e *entity.Question) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*entity.Question, error) {
	var result entity.Question
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questionRepository) GetByCompetitionID(
	ctx context.Context, competitionID string,
) ([]entity.Question, error) {
	var result []entity.Question
	err := xcontext.DB(ctx).Find(&result, "competition_id=?", competitionID).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questionRepository) UpdateByID(ctx context.Context, id string, data *entity.Question) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Question{}).
		Where("id=?", id).
		Updates(data)
	if err := tx.Error; err != nil {
		return err
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("row affected is empty")
	}

	return nil
}
