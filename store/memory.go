package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cheikhabdou2024/Dakar-cut/models"
	"github.com/google/uuid"
)

// MemoryStore keeps everything in process. Returned values are copies.
type MemoryStore struct {
	mu           sync.RWMutex
	salons       map[string]models.Salon
	salonOrder   []string
	appointments map[string]models.Appointment
	apptOrder    []string
	reminders    []models.ReminderLog
	now          func() time.Time
}

func NewMemoryStore(catalog []models.Salon) *MemoryStore {
	s := &MemoryStore{
		salons:       make(map[string]models.Salon, len(catalog)),
		appointments: make(map[string]models.Appointment),
		now:          time.Now,
	}
	for _, salon := range catalog {
		s.salons[salon.ID] = salon.Clone()
		s.salonOrder = append(s.salonOrder, salon.ID)
	}
	return s
}

func (s *MemoryStore) ListSalons(ctx context.Context) ([]models.Salon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Salon, 0, len(s.salonOrder))
	for _, id := range s.salonOrder {
		out = append(out, s.salons[id].Clone())
	}
	return out, nil
}

func (s *MemoryStore) GetSalon(ctx context.Context, id string) (models.Salon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	salon, ok := s.salons[id]
	if !ok {
		return models.Salon{}, ErrNotFound
	}
	return salon.Clone(), nil
}

func (s *MemoryStore) AppendReview(ctx context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	salon, ok := s.salons[review.SalonID]
	if !ok {
		return ErrNotFound
	}
	for _, r := range salon.Reviews {
		if review.AppointmentID != "" && r.AppointmentID == review.AppointmentID {
			return ErrConflict
		}
	}
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = s.now()
	}
	salon = salon.Clone()
	salon.Reviews = append(salon.Reviews, *review)
	s.salons[salon.ID] = salon
	return nil
}

func (s *MemoryStore) collect(keep func(models.Appointment) bool) []models.Appointment {
	out := make([]models.Appointment, 0)
	for _, id := range s.apptOrder {
		appt := s.appointments[id]
		if keep(appt) {
			out = append(out, appt.Clone())
		}
	}
	return out
}

func (s *MemoryStore) ListBySalonAndDate(ctx context.Context, salonID, date string) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.collect(func(a models.Appointment) bool {
		return a.SalonID == salonID && a.Date == date
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (s *MemoryStore) ListBySalon(ctx context.Context, salonID string) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(a models.Appointment) bool { return a.SalonID == salonID }), nil
}

func (s *MemoryStore) ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(a models.Appointment) bool { return a.Status == status }), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.appointments[id]
	if !ok {
		return models.Appointment{}, ErrNotFound
	}
	return appt.Clone(), nil
}

func (s *MemoryStore) Append(ctx context.Context, appt *models.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if _, exists := s.appointments[appt.ID]; exists {
		return ErrConflict
	}
	now := s.now()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	s.appointments[appt.ID] = appt.Clone()
	s.apptOrder = append(s.apptOrder, appt.ID)
	return nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok {
		return models.Appointment{}, ErrNotFound
	}
	if appt.Status != from || !from.CanTransitionTo(to) {
		return models.Appointment{}, ErrInvalidTransition
	}
	appt.Status = to
	appt.UpdatedAt = s.now()
	s.appointments[id] = appt
	return appt.Clone(), nil
}

func (s *MemoryStore) Record(ctx context.Context, log *models.ReminderLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.CreatedAt = s.now()
	s.reminders = append(s.reminders, *log)
	return nil
}

func (s *MemoryStore) Sent(ctx context.Context, appointmentID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reminders {
		if r.AppointmentID == appointmentID && r.Status == models.ReminderSent {
			return true, nil
		}
	}
	return false, nil
}

// ReminderLogs returns every recorded reminder attempt.
func (s *MemoryStore) ReminderLogs() []models.ReminderLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.ReminderLog(nil), s.reminders...)
}
