// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReminderSent   = "sent"
	ReminderFailed = "failed"
)

type ReminderLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalonID       string    `gorm:"type:varchar(64);index;not null" json:"salonId"`
	AppointmentID string    `gorm:"type:varchar(64);index;not null" json:"appointmentId"`
	Phone         string    `gorm:"type:varchar(20)" json:"phone"`
	Message       string    `gorm:"type:text" json:"message"`
	Status        string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage  string    `gorm:"type:text" json:"errorMessage,omitempty"`
	MessageSID    string    `gorm:"type:varchar(64)" json:"messageSid,omitempty"`
	SentAt        time.Time `json:"sentAt"`
	CreatedAt     time.Time `json:"-"`
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
