package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rafflehub/backend/internal/common"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CategoryDomain interface {
	Create(context.Context, *model.CreateCategoryRequest) (*model.CreateCategoryResponse, error)
	GetList(context.Context, *model.GetListCategoryRequest) (*model.GetListCategoryResponse, error)
	UpdateByID(context.Context, *model.UpdateCategoryByIDRequest) (*model.UpdateCategoryByIDResponse, error)
	DeleteByID(context.Context, *model.DeleteCategoryByIDRequest) (*model.DeleteCategoryByIDResponse, error)
}

type categoryDomain struct {
	categoryRepo repository.CategoryRepository
	roleVerifier *common.GlobalRoleVerifier
}

func NewCategoryDomain(
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
) CategoryDomain {
	return &categoryDomain{
		categoryRepo: categoryRepo,
		roleVerifier: common.NewGlobalRoleVerifier(userRepo),
	}
}

func (d *categoryDomain) Create(
	ctx context.Context, req *model.CreateCategoryRequest,
) (*model.CreateCategoryResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty category name")
	}

	_, err := d.categoryRepo.GetByName(ctx, req.Name)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get category by name: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.AlreadyExists, "Duplicated category name")
	}

	category := &entity.Category{
		Base:      entity.Base{ID: uuid.NewString()},
		Name:      req.Name,
		CreatedBy: xcontext.RequestUserID(ctx),
	}

	if err := d.categoryRepo.Create(ctx, category); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create category: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCategoryResponse{
		Category: model.ConvertCategory(category),
	}, nil
}

func (d *categoryDomain) GetList(
	ctx context.Context, req *model.GetListCategoryRequest,
) (*model.GetListCategoryResponse, error) {
	categories, err := d.categoryRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get category list: %v", err)
		return nil, errorx.Unknown
	}

	categoryList := []model.Category{}
	for _, c := range categories {
		c := c
		categoryList = append(categoryList, model.ConvertCategory(&c))
	}

	return &model.GetListCategoryResponse{Categories: categoryList}, nil
}

func (d *categoryDomain) UpdateByID(
	ctx context.Context, req *model.UpdateCategoryByIDRequest,
) (*model.UpdateCategoryByIDResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if _, err := d.categoryRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found category")
		}

		xcontext.Logger(ctx).Errorf("Cannot get category: %v", err)
		return nil, errorx.Unknown
	}

	err := d.categoryRepo.UpdateByID(ctx, req.ID, &entity.Category{Name: req.Name})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update category: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateCategoryByIDResponse{}, nil
}

func (d *categoryDomain) DeleteByID(
	ctx context.Context, req *model.DeleteCategoryByIDRequest,
) (*model.DeleteCategoryByIDResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if _, err := d.categoryRepo.GetByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found category")
		}

		xcontext.Logger(ctx).Errorf("Cannot get category: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.categoryRepo.DeleteByID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete category: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteCategoryByIDResponse{}, nil
}
