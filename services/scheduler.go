package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cheikhabdou2024/Dakar-cut/events"
	"github.com/cheikhabdou2024/Dakar-cut/models"
	"github.com/cheikhabdou2024/Dakar-cut/store"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CompleteElapsed marks upcoming appointments whose end time has passed as
// Completed, which is what makes them reviewable.
func (s *BookingService) CompleteElapsed(ctx context.Context, now time.Time, loc *time.Location) (int, error) {
	if loc == nil {
		loc = time.UTC
	}
	upcoming, err := s.appointments.ListByStatus(ctx, models.StatusUpcoming)
	if err != nil {
		return 0, &StorageError{Op: "list upcoming appointments", Err: err}
	}

	completed := 0
	for _, appt := range upcoming {
		end, err := appt.EndsAt(loc)
		if err != nil || end.After(now) {
			continue
		}
		_, err = s.appointments.UpdateStatus(ctx, appt.ID, models.StatusUpcoming, models.StatusCompleted)
		if errors.Is(err, store.ErrInvalidTransition) {
			// Cancelled or completed since the listing.
			continue
		}
		if err != nil {
			return completed, &StorageError{Op: "complete appointment", Err: err}
		}
		appt.Status = models.StatusCompleted
		s.metrics.ObserveTransition(string(models.StatusCompleted), "sweep")
		s.publish(ctx, events.TypeAppointmentCompleted, appt)
		completed++
	}
	return completed, nil
}

type SchedulerConfig struct {
	ReminderSpec   string
	CompletionSpec string
	Location       *time.Location
}

// Scheduler runs the reminder and completion jobs on cron schedules.
type Scheduler struct {
	cron      *cron.Cron
	bookings  *BookingService
	reminders *ReminderService
	loc       *time.Location
	logger    *zap.Logger
}

func NewScheduler(cfg SchedulerConfig, bookings *BookingService, reminders *ReminderService, logger *zap.Logger) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(cfg.Location)),
		bookings:  bookings,
		reminders: reminders,
		loc:       cfg.Location,
		logger:    logger,
	}

	if reminders != nil && cfg.ReminderSpec != "" {
		if _, err := s.cron.AddFunc(cfg.ReminderSpec, s.runReminders); err != nil {
			return nil, fmt.Errorf("reminder schedule %q: %w", cfg.ReminderSpec, err)
		}
	}
	if bookings != nil && cfg.CompletionSpec != "" {
		if _, err := s.cron.AddFunc(cfg.CompletionSpec, s.runCompletion); err != nil {
			return nil, fmt.Errorf("completion schedule %q: %w", cfg.CompletionSpec, err)
		}
	}
	return s, nil
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := s.reminders.SendDailyReminders(ctx, time.Now()); err != nil {
		s.logger.Error("reminder job failed", zap.Error(err))
	}
}

func (s *Scheduler) runCompletion() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := s.bookings.CompleteElapsed(ctx, time.Now(), s.loc)
	if err != nil {
		s.logger.Error("completion sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("completion sweep", zap.Int("completed", n))
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
