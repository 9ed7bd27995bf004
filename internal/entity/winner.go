package entity

type Winner struct {
	Base
	CompetitionID string      `gorm:"not null"`
	Competition   Competition `gorm:"foreignKey:CompetitionID"`

	PrizeID string `gorm:"not null"`
	Prize   Prize  `gorm:"foreignKey:PrizeID"`

	TicketID int64  `gorm:"not null"`
	Ticket   Ticket `gorm:"foreignKey:TicketID"`

	UserID string `gorm:"not null"`
	User   User   `gorm:"foreignKey:UserID"`

	IsClaimed bool
}
