package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is append-only; it is never updated or deleted.
type Review struct {
	ID            string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	SalonID       string    `gorm:"type:varchar(64);index;not null" json:"-"`
	AppointmentID string    `gorm:"type:varchar(64);uniqueIndex" json:"appointmentId,omitempty"`
	Author        string    `gorm:"not null" json:"author"`
	Rating        int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment       string    `gorm:"type:text" json:"comment"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return
}
