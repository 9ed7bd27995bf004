package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rafflehub/backend/config"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/authenticator"
	"github.com/rafflehub/backend/pkg/logger"
	"github.com/rafflehub/backend/pkg/session"
	"github.com/rafflehub/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// Every pooled connection of an in-memory sqlite gets its own database,
	// keep a single one so concurrent queries see the same tables.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	snowflakeNode, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		ApiServer: config.APIServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 10,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
			RefreshToken: config.TokenConfigs{
				Name:       "refresh_token",
				Expiration: time.Minute,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
			Name:   "cart",
		},
		File: config.FileConfigs{
			MaxSize: 2 * 1024 * 1024,
		},
		Competition: config.CompetitionConfigs{
			MaxTicketsPerOrder: 20,
			QuestionMaxOptions: 10,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.ERROR))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSessionStore(ctx, session.NewCookieStore(cfg.Session.Name, []byte(cfg.Session.Secret)))
	ctx = xcontext.WithSnowFlake(ctx, snowflakeNode)
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
