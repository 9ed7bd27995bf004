package migration

import (
	"context"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/xcontext"
)

func migrate0001(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()

	if err := migrator.AddColumn(&entity.Competition{}, "trending_score"); err != nil {
		return err
	}

	return migrator.AddColumn(&entity.Prize{}, "won_rewards")
}
