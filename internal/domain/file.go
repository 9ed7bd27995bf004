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
	"github.com/rafflehub/backend/pkg/storage"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type FileDomain interface {
	UploadCompetitionImage(context.Context, *model.UploadCompetitionImageRequest) (*model.UploadCompetitionImageResponse, error)
}

type fileDomain struct {
	competitionRepo      repository.CompetitionRepository
	competitionImageRepo repository.CompetitionImageRepository
	roleVerifier         *common.GlobalRoleVerifier
	storage              storage.Storage
}

func NewFileDomain(
	competitionRepo repository.CompetitionRepository,
	competitionImageRepo repository.CompetitionImageRepository,
	userRepo repository.UserRepository,
	storage storage.Storage,
) FileDomain {
	return &fileDomain{
		competitionRepo:      competitionRepo,
		competitionImageRepo: competitionImageRepo,
		roleVerifier:         common.NewGlobalRoleVerifier(userRepo),
		storage:              storage,
	}
}

func (d *fileDomain) UploadCompetitionImage(
	ctx context.Context, req *model.UploadCompetitionImageRequest,
) (*model.UploadCompetitionImageResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	uploaded, err := common.ProcessImage(ctx, d.storage, "image")
	if err != nil {
		return nil, err
	}

	handle := xcontext.HTTPRequest(ctx).PostFormValue("competition_handle")
	competition, err := d.competitionRepo.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	existing, err := d.competitionImageRepo.GetByCompetitionID(ctx, competition.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get competition images: %v", err)
		return nil, errorx.Unknown
	}

	// Every size of one upload shares a gallery position.
	position := 0
	for _, image := range existing {
		if image.Position >= position {
			position = image.Position + 1
		}
	}

	images := []model.CompetitionImage{}
	for i, resp := range uploaded {
		image := &entity.CompetitionImage{
			Base:          entity.Base{ID: uuid.NewString()},
			CompetitionID: competition.ID,
			Url:           resp.Url,
			Width:         common.CompetitionImageSizes[i].W,
			Position:      position,
		}

		if err := d.competitionImageRepo.Create(ctx, image); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create competition image: %v", err)
			return nil, errorx.Unknown
		}

		images = append(images, model.ConvertCompetitionImage(image))
	}

	if competition.ImageURL == "" && len(uploaded) > 0 {
		updated := entity.Competition{ImageURL: uploaded[0].Url}
		if err := d.competitionRepo.UpdateByID(ctx, competition.ID, updated); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update competition image url: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.UploadCompetitionImageResponse{Images: images}, nil
}
