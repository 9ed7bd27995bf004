package migration

import (
	"context"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
)

// migrate0002 ships the recorded draw seed, draws before this version did
// not keep one.
func migrate0002(ctx context.Context) error {
	return xcontext.DB(ctx).Migrator().AddColumn(&entity.Competition{}, "draw_seed_digest")
}
