package models

type Stylist struct {
	ID        string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	SalonID   string     `gorm:"type:varchar(64);index;not null" json:"-"`
	Name      string     `gorm:"not null" json:"name"`
	Specialty string     `json:"specialty"`
	ImageURL  string     `json:"imageUrl"`
	Bio       string     `gorm:"type:text" json:"bio"`
	Portfolio StringList `gorm:"type:jsonb;default:'[]'" json:"portfolio"`
}
