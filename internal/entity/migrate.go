package entity

import (
	"context"

	"github.com/rafflehub/backend/pkg/xcontext"
)

// Migration records the schema version the database is currently at.
type Migration struct {
	Version string `gorm:"primarykey"`
}

// MigrateTable creates or alters every SQL table to the latest definition.
func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Category{},
		&Competition{},
		&CompetitionImage{},
		&Question{},
		&Prize{},
		&Order{},
		&Ticket{},
		&Winner{},
		&Migration{},
	)
}
