package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Base struct {
	ID        string         `redis:"id" gorm:"primarykey"`
	CreatedAt time.Time      `redis:"created_at"`
	UpdatedAt time.Time      `redis:"updated_at"`
	DeletedAt gorm.DeletedAt `redis:"deleted_at" gorm:"index"`
}

// SnowFlakeBase is used for entities whose creation time is encoded in
// the snowflake id, so there is no need for a separated created_at.
type SnowFlakeBase struct {
	ID        int64 `gorm:"primaryKey"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Array is a generic slice stored as a JSON column.
type Array[T any] []T

func (a *Array[T]) Scan(value any) error {
	switch t := value.(type) {
	case string:
		return json.Unmarshal([]byte(t), a)
	case []byte:
		return json.Unmarshal(t, a)
	default:
		return fmt.Errorf("cannot scan invalid data type %T", value)
	}
}

func (a Array[T]) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Map is a free-form object stored as a JSON column.
type Map map[string]any

func (m *Map) Scan(value any) error {
	switch t := value.(type) {
	case string:
		return json.Unmarshal([]byte(t), m)
	case []byte:
		return json.Unmarshal(t, m)
	default:
		return fmt.Errorf("cannot scan invalid data type %T", value)
	}
}

func (m Map) Value() (driver.Value, error) {
	return json.Marshal(m)
}
