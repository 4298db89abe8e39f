package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cheikhabdou2024/Dakar-cut/availability"
	"github.com/cheikhabdou2024/Dakar-cut/events"
	"github.com/cheikhabdou2024/Dakar-cut/metrics"
	"github.com/cheikhabdou2024/Dakar-cut/models"
	"github.com/cheikhabdou2024/Dakar-cut/store"
	"github.com/cheikhabdou2024/Dakar-cut/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/cheikhabdou2024/Dakar-cut/services")

type BookingService struct {
	appointments store.AppointmentStore
	catalog      store.CatalogStore
	hours        availability.OperatingHours
	locker       Locker
	publisher    events.Publisher
	metrics      *metrics.BookingMetrics
	logger       *zap.Logger
	loc          *time.Location
	now          func() time.Time
}

func NewBookingService(appointments store.AppointmentStore, catalog store.CatalogStore, hours availability.OperatingHours, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		appointments: appointments,
		catalog:      catalog,
		hours:        hours,
		locker:       NewLocalLocker(),
		publisher:    events.NewLogPublisher(logger),
		logger:       logger,
		loc:          time.UTC,
		now:          time.Now,
	}
}

// WithClock sets the salon time zone and the clock used to decide which
// dates are already past.
func (s *BookingService) WithClock(loc *time.Location, now func() time.Time) *BookingService {
	if loc != nil {
		s.loc = loc
	}
	if now != nil {
		s.now = now
	}
	return s
}

func (s *BookingService) WithLocker(l Locker) *BookingService {
	s.locker = l
	return s
}

func (s *BookingService) WithPublisher(p events.Publisher) *BookingService {
	s.publisher = p
	return s
}

func (s *BookingService) WithMetrics(m *metrics.BookingMetrics) *BookingService {
	s.metrics = m
	return s
}

// Hours returns the operating hours availability is computed against.
func (s *BookingService) Hours() availability.OperatingHours {
	return s.hours
}

// AvailabilityQuery is one recompute request. Selected is the time the
// caller currently holds, if any.
type AvailabilityQuery struct {
	SalonID    string
	Date       string
	ServiceIDs []string
	Stylist    string
	Selected   string
	Trigger    availability.Trigger
}

type AvailabilityView struct {
	SalonID          string `json:"salonId"`
	Date             string `json:"date"`
	Stylist          string `json:"stylist"`
	RequiredDuration int    `json:"requiredDuration"`
	TotalCost        int64  `json:"totalCost"`
	availability.Result
}

type quote struct {
	services []models.Service
	names    []string
	duration int
	cost     int64
}

// quoteServices treats ids as a set: repeats count once and the quote
// follows the salon's catalog order.
func quoteServices(salon models.Salon, ids []string) (quote, error) {
	if len(ids) == 0 {
		return quote{}, invalid(CodeNoServices, "select at least one service")
	}
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := salon.FindService(id); !ok {
			return quote{}, invalid(CodeUnknownService, "service %s is not offered by %s", id, salon.Name)
		}
		selected[id] = true
	}
	var q quote
	for _, svc := range salon.Services {
		if !selected[svc.ID] {
			continue
		}
		q.services = append(q.services, svc)
		q.names = append(q.names, svc.Name)
		q.duration += svc.Duration
		q.cost += svc.Price
	}
	return q, nil
}

func normalizeStylist(stylist string) string {
	stylist = strings.TrimSpace(stylist)
	if stylist == "" {
		return availability.AnyStylist
	}
	return stylist
}

func validateDate(date string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return invalid(CodeInvalidDate, "select a valid date (YYYY-MM-DD)")
	}
	return nil
}

// validateBookingDate also rejects days before today in the salon's time zone.
func (s *BookingService) validateBookingDate(date string) error {
	if err := validateDate(date); err != nil {
		return err
	}
	today := s.now().In(s.loc).Format(models.DateLayout)
	if date < today {
		return invalid(CodeInvalidDate, "%s is in the past, select today or a later date", date)
	}
	return nil
}

func (s *BookingService) checkHours() error {
	if err := s.hours.Validate(); err != nil {
		s.logger.Error("operating hours are invalid, nothing is bookable", zap.Error(err))
		return fmt.Errorf("operating hours: %w", err)
	}
	return nil
}

// toBooked converts stored appointments. Malformed ones block the whole day
// in the engine, so they are reported here.
func (s *BookingService) toBooked(appts []models.Appointment) []availability.Booked {
	out := make([]availability.Booked, 0, len(appts))
	for _, a := range appts {
		b := availability.Booked{
			Start:     a.Time,
			Duration:  a.Duration,
			StylistID: a.StylistID,
			Cancelled: a.Status == models.StatusCancelled,
		}
		if !b.Cancelled && b.Malformed() {
			s.logger.Warn("malformed appointment blocks the whole day",
				zap.String("appointment_id", a.ID),
				zap.String("salon_id", a.SalonID),
				zap.String("date", a.Date),
				zap.String("time", a.Time),
				zap.Int("duration", a.Duration),
			)
		}
		out = append(out, b)
	}
	return out
}

func (s *BookingService) loadSalon(ctx context.Context, salonID string) (models.Salon, error) {
	salon, err := s.catalog.GetSalon(ctx, salonID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Salon{}, invalid(CodeUnknownSalon, "salon %s does not exist", salonID)
	}
	if err != nil {
		return models.Salon{}, &StorageError{Op: "load salon", Err: err}
	}
	return salon, nil
}

func checkStylist(salon models.Salon, stylist string) (models.Stylist, error) {
	if stylist == availability.AnyStylist {
		return models.Stylist{}, nil
	}
	st, ok := salon.FindStylist(stylist)
	if !ok {
		return models.Stylist{}, invalid(CodeUnknownStylist, "stylist %s does not work at %s", stylist, salon.Name)
	}
	return st, nil
}

// AvailableSlots recomputes the bookable start times from the current store
// contents and reconciles the caller's selection against them.
func (s *BookingService) AvailableSlots(ctx context.Context, q AvailabilityQuery) (AvailabilityView, error) {
	ctx, span := tracer.Start(ctx, "booking.available_slots", trace.WithAttributes(
		attribute.String("salon.id", q.SalonID),
		attribute.String("booking.date", q.Date),
	))
	defer span.End()

	if q.Trigger == "" {
		q.Trigger = availability.TriggerOpen
	}
	if err := s.checkHours(); err != nil {
		return AvailabilityView{}, err
	}
	if err := s.validateBookingDate(q.Date); err != nil {
		return AvailabilityView{}, err
	}
	salon, err := s.loadSalon(ctx, q.SalonID)
	if err != nil {
		return AvailabilityView{}, err
	}
	stylist := normalizeStylist(q.Stylist)
	if _, err := checkStylist(salon, stylist); err != nil {
		return AvailabilityView{}, err
	}

	view := AvailabilityView{SalonID: salon.ID, Date: q.Date, Stylist: stylist}
	if len(q.ServiceIDs) == 0 {
		// Nothing selected yet: no duration, so nothing is bookable.
		view.Result = availability.Recompute(s.hours, nil, availability.Selection{Date: q.Date, Stylist: stylist, Time: q.Selected}, q.Trigger)
		s.metrics.ObserveAvailability(string(q.Trigger), view.Cleared, 0)
		return view, nil
	}
	quoted, err := quoteServices(salon, q.ServiceIDs)
	if err != nil {
		return AvailabilityView{}, err
	}

	existing, err := s.appointments.ListBySalonAndDate(ctx, salon.ID, q.Date)
	if err != nil {
		span.RecordError(err)
		return AvailabilityView{}, &StorageError{Op: "list appointments", Err: err}
	}

	sel := availability.Selection{Date: q.Date, Duration: quoted.duration, Stylist: stylist, Time: q.Selected}
	view.Result = availability.Recompute(s.hours, s.toBooked(existing), sel, q.Trigger)
	view.RequiredDuration = quoted.duration
	view.TotalCost = quoted.cost

	span.SetAttributes(attribute.Int("availability.slots", len(view.Slots)), attribute.Bool("availability.cleared", view.Cleared))
	s.metrics.ObserveAvailability(string(q.Trigger), view.Cleared, len(view.Slots))
	return view, nil
}

type ConfirmRequest struct {
	SalonID       string
	ServiceIDs    []string
	StylistID     string
	Date          string
	Time          string
	CustomerPhone string
}

// Confirm re-validates the requested time and appends the appointment.
// Reading, validating and appending happen under the salon/date lock.
func (s *BookingService) Confirm(ctx context.Context, req ConfirmRequest) (*models.Appointment, error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "booking.confirm", trace.WithAttributes(
		attribute.String("salon.id", req.SalonID),
		attribute.String("booking.date", req.Date),
		attribute.String("booking.time", req.Time),
		attribute.String("booking.stylist", req.StylistID),
	))
	defer span.End()

	appt, err := s.confirm(ctx, req)
	outcome := confirmOutcome(err)
	s.metrics.ObserveConfirm(outcome, time.Since(started).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		s.logger.Info("booking rejected",
			zap.String("salon_id", req.SalonID),
			zap.String("date", req.Date),
			zap.String("time", req.Time),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.String("appointment.id", appt.ID))
	s.logger.Info("appointment booked",
		zap.String("appointment_id", appt.ID),
		zap.String("salon_id", appt.SalonID),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time),
		zap.Int("duration", appt.Duration),
	)
	s.publish(ctx, events.TypeAppointmentBooked, *appt)
	return appt, nil
}

func confirmOutcome(err error) string {
	var storageErr *StorageError
	switch {
	case err == nil:
		return "booked"
	case errors.Is(err, ErrStaleSelection):
		return "stale"
	case errors.As(err, &storageErr):
		return "storage_error"
	default:
		return "invalid"
	}
}

func (s *BookingService) confirm(ctx context.Context, req ConfirmRequest) (*models.Appointment, error) {
	if len(req.ServiceIDs) == 0 {
		return nil, invalid(CodeNoServices, "select at least one service")
	}
	if strings.TrimSpace(req.StylistID) == "" {
		return nil, invalid(CodeUnknownStylist, "select a stylist or choose any")
	}
	if err := s.validateBookingDate(req.Date); err != nil {
		return nil, err
	}
	if _, err := availability.ParseClock(req.Time); err != nil {
		return nil, invalid(CodeInvalidTime, "select a time")
	}
	if phone := strings.TrimSpace(req.CustomerPhone); phone != "" && !utils.ValidatePhone(phone) {
		return nil, invalid(CodeInvalidPhone, "phone number must be in international format")
	}

	if err := s.checkHours(); err != nil {
		return nil, err
	}
	salon, err := s.loadSalon(ctx, req.SalonID)
	if err != nil {
		return nil, err
	}
	quoted, err := quoteServices(salon, req.ServiceIDs)
	if err != nil {
		return nil, err
	}
	stylistFilter := normalizeStylist(req.StylistID)
	stylist, err := checkStylist(salon, stylistFilter)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, BookingLockKey(salon.ID, req.Date))
	if err != nil {
		return nil, &StorageError{Op: "acquire booking lock", Err: err}
	}
	defer unlock()

	existing, err := s.appointments.ListBySalonAndDate(ctx, salon.ID, req.Date)
	if err != nil {
		return nil, &StorageError{Op: "list appointments", Err: err}
	}
	slots := availability.ComputeAvailableSlots(s.hours, s.toBooked(existing), availability.Query{
		Duration: quoted.duration,
		Stylist:  stylistFilter,
	})
	if !contains(slots, req.Time) {
		return nil, &ValidationError{
			Code:    CodeSlotUnavailable,
			Message: fmt.Sprintf("%s is no longer available, select another time", req.Time),
			Slots:   slots,
		}
	}

	appt := &models.Appointment{
		SalonID:       salon.ID,
		SalonName:     salon.Name,
		StylistID:     stylist.ID,
		StylistName:   stylist.Name,
		ServiceNames:  models.StringList(quoted.names),
		Date:          req.Date,
		Time:          req.Time,
		Status:        models.StatusUpcoming,
		Cost:          quoted.cost,
		Duration:      quoted.duration,
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
	}
	if err := s.appointments.Append(ctx, appt); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, &ValidationError{
				Code:    CodeSlotUnavailable,
				Message: fmt.Sprintf("%s is no longer available, select another time", req.Time),
				Slots:   slots,
			}
		}
		return nil, &StorageError{Op: "append appointment", Err: err}
	}
	return appt, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func (s *BookingService) publish(ctx context.Context, eventType string, appt models.Appointment) {
	if s.publisher == nil {
		return
	}
	evt, err := events.New(eventType, appt.SalonID, appt.ID, appt)
	if err == nil {
		err = s.publisher.Publish(ctx, evt)
	}
	if err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("appointment_id", appt.ID),
			zap.Error(err),
		)
	}
}

func (s *BookingService) Get(ctx context.Context, id string) (models.Appointment, error) {
	appt, err := s.appointments.Get(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return models.Appointment{}, &StorageError{Op: "get appointment", Err: err}
	}
	return appt, err
}

// ListForSalon returns a salon's appointments, limited to date when set.
func (s *BookingService) ListForSalon(ctx context.Context, salonID, date string) ([]models.Appointment, error) {
	var (
		appts []models.Appointment
		err   error
	)
	if date != "" {
		if err := validateDate(date); err != nil {
			return nil, err
		}
		appts, err = s.appointments.ListBySalonAndDate(ctx, salonID, date)
	} else {
		appts, err = s.appointments.ListBySalon(ctx, salonID)
	}
	if err != nil {
		return nil, &StorageError{Op: "list appointments", Err: err}
	}
	return appts, nil
}

func (s *BookingService) Cancel(ctx context.Context, id string) (models.Appointment, error) {
	return s.transition(ctx, id, models.StatusCancelled, "api")
}

func (s *BookingService) Complete(ctx context.Context, id string) (models.Appointment, error) {
	return s.transition(ctx, id, models.StatusCompleted, "api")
}

func (s *BookingService) transition(ctx context.Context, id string, to models.AppointmentStatus, source string) (models.Appointment, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return models.Appointment{}, err
	}
	if !current.Status.CanTransitionTo(to) {
		return models.Appointment{}, invalid(CodeInvalidStatus, "cannot move a %s appointment to %s", current.Status, to)
	}

	updated, err := s.appointments.UpdateStatus(ctx, id, current.Status, to)
	switch {
	case errors.Is(err, store.ErrInvalidTransition):
		return models.Appointment{}, invalid(CodeInvalidStatus, "appointment %s changed status concurrently", id)
	case errors.Is(err, store.ErrNotFound):
		return models.Appointment{}, err
	case err != nil:
		return models.Appointment{}, &StorageError{Op: "update appointment status", Err: err}
	}

	s.metrics.ObserveTransition(string(to), source)
	eventType := events.TypeAppointmentCompleted
	if to == models.StatusCancelled {
		eventType = events.TypeAppointmentCancelled
	}
	s.publish(ctx, eventType, updated)
	return updated, nil
}
