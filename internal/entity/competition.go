package entity

import (
	"database/sql"
	"time"

	"github.com/rafflehub/backend/pkg/enum"
)

type CompetitionStatus string

var (
	CompetitionDraft     = enum.New(CompetitionStatus("draft"))
	CompetitionStarted   = enum.New(CompetitionStatus("started"))
	CompetitionEnded     = enum.New(CompetitionStatus("ended"))
	CompetitionCancelled = enum.New(CompetitionStatus("cancelled"))
)

type Competition struct {
	Base
	CreatedBy     string `gorm:"not null"`
	CreatedByUser User   `gorm:"foreignKey:CreatedBy"`
	CategoryID    sql.NullString
	Category      Category `gorm:"foreignKey:CategoryID"`

	Handle      string `gorm:"unique"`
	Title       string
	Description []byte `gorm:"type:longtext"`
	ImageURL    string

	// The ticket pools. AvailableTickets is filled with [1..NumberOfEntries]
	// when the competition is created, then only ever shrinks; SoldTickets
	// only ever grows, in sale order. Sold tickets are also recorded as
	// Ticket rows, which are the authority when counting remaining capacity.
	NumberOfEntries  int
	AvailableTickets Array[int]
	SoldTickets      Array[int]

	TicketPrice float64
	MaxPerUser  int

	StartDate time.Time
	EndDate   time.Time
	Status    CompetitionStatus

	// DrawSeedDigest is the sha3 digest of the random seed used to draw
	// winners. Empty until the draw happens.
	DrawSeedDigest string

	TrendingScore int
}

type CompetitionImage struct {
	Base
	CompetitionID string      `gorm:"not null"`
	Competition   Competition `gorm:"foreignKey:CompetitionID"`

	Url      string
	Width    int
	Position int
}
