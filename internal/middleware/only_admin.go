package middleware

import (
	"context"

	"github.com/rafflehub/backend/internal/common"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/router"
	"github.com/rafflehub/backend/pkg/xcontext"
)

type OnlyAdmin struct {
	roleVerifier *common.GlobalRoleVerifier
}

func NewOnlyAdmin(userRepo repository.UserRepository) *OnlyAdmin {
	return &OnlyAdmin{roleVerifier: common.NewGlobalRoleVerifier(userRepo)}
}

func (a *OnlyAdmin) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if err := a.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
			xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		return nil, nil
	}
}
