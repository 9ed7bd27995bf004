package repository

import (
	"context"
	"fmt"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
)

type CategoryRepository interface {
	Create(ctx context.Context, e *entity.Category) error
	GetList(ctx context.Context) ([]entity.Category, error)
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	UpdateByID(ctx context.Context, id string, data *entity.Category) error
	DeleteByID(ctx context.Context, id string) error
}

type categoryRepository struct{}

func NewCategoryRepository() *categoryRepository {
	return &categoryRepository{}
}

func (r *categoryRepository) Create(ctx context.Context, e *entity.Category) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *categoryRepository) GetList(ctx context.Context) ([]entity.Category, error) {
	var result []entity.Category
	if err := xcontext.DB(ctx).Order("name ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var result entity.Category
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var result entity.Category
	if err := xcontext.DB(ctx).Take(&result, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *categoryRepository) UpdateByID(ctx context.Context, id string, data *entity.Category) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Category{}).
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

func (r *categoryRepository) DeleteByID(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Delete(&entity.Category{}, "id=?", id).Error
}
