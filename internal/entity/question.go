package entity

// Question is the skill question of a competition. A buyer must answer
// one of these correctly before any ticket is allocated.
type Question struct {
	Base
	CompetitionID string      `gorm:"not null"`
	Competition   Competition `gorm:"foreignKey:CompetitionID"`

	Text    string
	Options Array[string]
	Answer  string
}
