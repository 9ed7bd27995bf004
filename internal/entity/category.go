package entity

type Category struct {
	Base
	Name          string `gorm:"unique"`
	CreatedBy     string `gorm:"not null"`
	CreatedByUser User   `gorm:"foreignKey:CreatedBy"`
}
