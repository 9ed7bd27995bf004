package migration

import (
	"time"

	"gorm.io/gorm"
)

// Create a new version of Base if the entity.Base has changed. Old migrators
// must keep referring to the shape the schema had at their version.
// NOTE: DO NOT DELETE THIS STRUCT.
type Base0 struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
