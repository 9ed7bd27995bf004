package entity

import "github.com/rafflehub/backend/pkg/enum"

type RewardType string

var (
	CashReward     = enum.New(RewardType("cash"))
	CreditReward   = enum.New(RewardType("credit"))
	PhysicalReward = enum.New(RewardType("physical"))
)

type Reward struct {
	Type RewardType `json:"type"`
	Data Map        `json:"data"`
}

type Prize struct {
	Base
	CompetitionID string      `gorm:"not null"`
	Competition   Competition `gorm:"foreignKey:CompetitionID"`

	Title       string
	Description string

	// Position 1 is the first prize.
	Position int

	Rewards Array[Reward]

	AvailableRewards int
	WonRewards       int
}
