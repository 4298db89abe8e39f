// Package store persists appointments, the salon catalog and reminder logs.
package store

import (
	"context"
	"errors"

	"github.com/cheikhabdou2024/Dakar-cut/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrConflict          = errors.New("conflicting record")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// AppointmentStore is append-only apart from status transitions.
type AppointmentStore interface {
	// ListBySalonAndDate returns every appointment for the salon on date,
	// cancelled ones included.
	ListBySalonAndDate(ctx context.Context, salonID, date string) ([]models.Appointment, error)
	ListBySalon(ctx context.Context, salonID string) ([]models.Appointment, error)
	ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error)
	Get(ctx context.Context, id string) (models.Appointment, error)
	Append(ctx context.Context, appt *models.Appointment) error
	// UpdateStatus moves id from one status to another and fails with
	// ErrInvalidTransition if the stored status is not from.
	UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (models.Appointment, error)
}

type CatalogStore interface {
	ListSalons(ctx context.Context) ([]models.Salon, error)
	GetSalon(ctx context.Context, id string) (models.Salon, error)
	AppendReview(ctx context.Context, review *models.Review) error
}

type ReminderLogStore interface {
	Record(ctx context.Context, log *models.ReminderLog) error
	// Sent reports whether a reminder already went out for the appointment.
	Sent(ctx context.Context, appointmentID string) (bool, error)
}
