package entity

import (
	"time"

	"github.com/rafflehub/backend/pkg/enum"
)

type TicketStatus string

var (
	TicketSold = enum.New(TicketStatus("sold"))
	TicketVoid = enum.New(TicketStatus("void"))
)

// Ticket is one sold ticket number of a competition. These rows are the
// sold records counted when checking remaining capacity, independently of
// the SoldTickets list on the competition itself.
type Ticket struct {
	SnowFlakeBase
	CompetitionID string      `gorm:"not null;index"`
	Competition   Competition `gorm:"foreignKey:CompetitionID"`

	OrderID string `gorm:"not null"`
	Order   Order  `gorm:"foreignKey:OrderID"`

	UserID string `gorm:"not null"`
	User   User   `gorm:"foreignKey:UserID"`

	Number    int
	Status    TicketStatus
	CreatedAt time.Time
}
