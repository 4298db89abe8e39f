package models

// Service ids are only unique within a salon; the same id can carry a
// different price or duration elsewhere.
type Service struct {
	ID       string `gorm:"type:varchar(64);primaryKey" json:"id"`
	SalonID  string `gorm:"type:varchar(64);primaryKey" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Category string `gorm:"default:'General'" json:"category"`
	Price    int64  `gorm:"not null" json:"price"`
	Duration int    `gorm:"not null;check:duration > 0" json:"duration"` // in minutes
}
