package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

type AppointmentStatus string

const (
	StatusUpcoming  AppointmentStatus = "Upcoming"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// CanTransitionTo reports whether the status may move to next.
// Completed and Cancelled are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	return s == StatusUpcoming && (next == StatusCompleted || next == StatusCancelled)
}

// Appointment keeps a snapshot of the salon, stylist and service names taken
// at booking time, so later catalog edits don't rewrite history.
type Appointment struct {
	ID            string            `gorm:"type:varchar(64);primaryKey" json:"id"`
	SalonID       string            `gorm:"type:varchar(64);index:idx_appointments_salon_date;not null" json:"salonId"`
	SalonName     string            `gorm:"not null" json:"salonName"`
	StylistID     string            `gorm:"type:varchar(64)" json:"stylistId,omitempty"`
	StylistName   string            `json:"stylistName,omitempty"`
	ServiceNames  StringList        `gorm:"type:jsonb;not null" json:"services"`
	Date          string            `gorm:"type:varchar(10);index:idx_appointments_salon_date;not null" json:"date"`
	Time          string            `gorm:"type:varchar(5);not null" json:"time"`
	Status        AppointmentStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	Cost          int64             `gorm:"not null" json:"cost"`
	Duration      int               `gorm:"not null" json:"duration"` // in minutes
	CustomerPhone string            `json:"customerPhone,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return
}

// StartsAt resolves the appointment's date and time in loc.
func (a Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" 15:04", a.Date+" "+a.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	return t, nil
}

// EndsAt is StartsAt plus the booked duration.
func (a Appointment) EndsAt(loc *time.Location) (time.Time, error) {
	start, err := a.StartsAt(loc)
	if err != nil {
		return time.Time{}, err
	}
	return start.Add(time.Duration(a.Duration) * time.Minute), nil
}

// Clone copies the appointment including its service name slice.
func (a Appointment) Clone() Appointment {
	a.ServiceNames = append(StringList(nil), a.ServiceNames...)
	return a
}
