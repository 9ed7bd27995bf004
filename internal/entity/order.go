package entity

import (
	"database/sql"

	"github.com/rafflehub/backend/pkg/enum"
)

type OrderStatus string

var (
	OrderCompleted = enum.New(OrderStatus("completed"))
	OrderRefunded  = enum.New(OrderStatus("refunded"))
)

type Order struct {
	Base
	UserID string `gorm:"not null"`
	User   User   `gorm:"foreignKey:UserID"`

	CompetitionID string      `gorm:"not null"`
	Competition   Competition `gorm:"foreignKey:CompetitionID"`

	// The skill question the buyer answered for this order.
	QuestionID sql.NullString
	Question   Question `gorm:"foreignKey:QuestionID"`

	Quantity      int
	TicketNumbers Array[int]
	TotalPrice    float64
	Status        OrderStatus
}
