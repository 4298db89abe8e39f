package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cheikhabdou2024/Dakar-cut/availability"
	"github.com/cheikhabdou2024/Dakar-cut/events"
	"github.com/cheikhabdou2024/Dakar-cut/metrics"
	"github.com/cheikhabdou2024/Dakar-cut/models"
	"github.com/cheikhabdou2024/Dakar-cut/seed"
	"github.com/cheikhabdou2024/Dakar-cut/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDate = "2026-10-20"

var fixtureNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// flakyStore injects failures in front of a MemoryStore.
type flakyStore struct {
	*store.MemoryStore
	appendErr error
	listErr   error
}

func (f *flakyStore) Append(ctx context.Context, appt *models.Appointment) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	return f.MemoryStore.Append(ctx, appt)
}

func (f *flakyStore) ListBySalonAndDate(ctx context.Context, salonID, date string) ([]models.Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.MemoryStore.ListBySalonAndDate(ctx, salonID, date)
}

func newBookingFixture(t *testing.T) (*BookingService, *flakyStore, *recordingPublisher) {
	t.Helper()
	mem := store.NewMemoryStore(seed.Catalog())
	fs := &flakyStore{MemoryStore: mem}
	pub := &recordingPublisher{}
	svc := NewBookingService(fs, mem, availability.DefaultOperatingHours(), zap.NewNop()).
		WithPublisher(pub).
		WithMetrics(metrics.NewBookingMetrics(prometheus.NewRegistry())).
		WithClock(time.UTC, fixedClock(fixtureNow))
	return svc, fs, pub
}

func TestConfirmBuildsSnapshot(t *testing.T) {
	svc, fs, pub := newBookingFixture(t)
	ctx := context.Background()

	appt, err := svc.Confirm(ctx, ConfirmRequest{
		SalonID:       "1",
		ServiceIDs:    []string{"s1", "s2"},
		StylistID:     "st1",
		Date:          testDate,
		Time:          "09:00",
		CustomerPhone: "+221 77 123 45 67",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, "Elegance Coiffure", appt.SalonName)
	assert.Equal(t, "st1", appt.StylistID)
	assert.Equal(t, "Aminata", appt.StylistName)
	assert.Equal(t, models.StringList{"Men's Haircut", "Women's Cut & Style"}, appt.ServiceNames)
	assert.Equal(t, int64(20000), appt.Cost)
	assert.Equal(t, 120, appt.Duration)
	assert.Equal(t, models.StatusUpcoming, appt.Status)

	stored, err := fs.Get(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.Duration, stored.Duration)
	assert.Equal(t, []string{events.TypeAppointmentBooked}, pub.types())
}

func TestConfirmAnyStylistLeavesStylistEmpty(t *testing.T) {
	svc, _, _ := newBookingFixture(t)

	appt, err := svc.Confirm(context.Background(), ConfirmRequest{
		SalonID: "2", ServiceIDs: []string{"s4"}, StylistID: availability.AnyStylist, Date: testDate, Time: "14:00",
	})
	require.NoError(t, err)
	assert.Empty(t, appt.StylistID)
	assert.Empty(t, appt.StylistName)
	assert.Equal(t, 60, appt.Duration)
}

func TestConfirmValidation(t *testing.T) {
	tests := []struct {
		name string
		req  ConfirmRequest
		code string
	}{
		{
			name: "no services",
			req:  ConfirmRequest{SalonID: "1", StylistID: "any", Date: testDate, Time: "09:00"},
			code: CodeNoServices,
		},
		{
			name: "no stylist choice",
			req:  ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, Date: testDate, Time: "09:00"},
			code: CodeUnknownStylist,
		},
		{
			name: "stylist from another salon",
			req:  ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "st3", Date: testDate, Time: "09:00"},
			code: CodeUnknownStylist,
		},
		{
			name: "service from another salon",
			req:  ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s4"}, StylistID: "any", Date: testDate, Time: "09:00"},
			code: CodeUnknownService,
		},
		{
			name: "missing date",
			req:  ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Time: "09:00"},
			code: CodeInvalidDate,
		},
		{
			name: "missing time",
			req:  ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate},
			code: CodeInvalidTime,
		},
		{
			name: "bad phone",
			req:  ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate, Time: "09:00", CustomerPhone: "call me"},
			code: CodeInvalidPhone,
		},
		{
			name: "unknown salon",
			req:  ConfirmRequest{SalonID: "99", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate, Time: "09:00"},
			code: CodeUnknownSalon,
		},
		{
			name: "time not in schedule",
			req:  ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate, Time: "12:30"},
			code: CodeSlotUnavailable,
		},
		{
			name: "runs into lunch",
			req:  ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s2"}, StylistID: "any", Date: testDate, Time: "11:00"},
			code: CodeSlotUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fs, pub := newBookingFixture(t)

			appt, err := svc.Confirm(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, appt)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.code, vErr.Code)

			all, _ := fs.ListBySalon(context.Background(), tt.req.SalonID)
			assert.Empty(t, all)
			assert.Empty(t, pub.types())
		})
	}
}

func TestConfirmRejectsStaleSlot(t *testing.T) {
	svc, fs, _ := newBookingFixture(t)
	ctx := context.Background()

	view, err := svc.AvailableSlots(ctx, AvailabilityQuery{SalonID: "1", Date: testDate, ServiceIDs: []string{"s1"}, Stylist: "any", Selected: "10:00"})
	require.NoError(t, err)
	require.Equal(t, "10:00", view.Selected)

	// Someone else books 10:00 before this caller confirms.
	_, err = svc.Confirm(ctx, ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s2"}, StylistID: "any", Date: testDate, Time: "10:00"})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate, Time: "10:00"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStaleSelection))
	assert.True(t, IsValidation(err))

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NotContains(t, vErr.Slots, "10:00")
	assert.Contains(t, vErr.Slots, "11:30")

	all, _ := fs.ListBySalonAndDate(ctx, "1", testDate)
	assert.Len(t, all, 1)
}

func TestConfirmStorageFailureLeavesNoTrace(t *testing.T) {
	svc, fs, pub := newBookingFixture(t)
	fs.appendErr = errors.New("disk full")

	appt, err := svc.Confirm(context.Background(), ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate, Time: "09:00"})
	require.Error(t, err)
	assert.Nil(t, appt)

	var sErr *StorageError
	require.ErrorAs(t, err, &sErr)
	assert.True(t, sErr.Retryable())
	assert.False(t, IsValidation(err))

	all, _ := fs.ListBySalon(context.Background(), "1")
	assert.Empty(t, all)
	assert.Empty(t, pub.types())

	// A retry after the store recovers succeeds.
	fs.appendErr = nil
	_, err = svc.Confirm(context.Background(), ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate, Time: "09:00"})
	assert.NoError(t, err)
}

func TestConfirmStoreConflictIsValidation(t *testing.T) {
	svc, fs, _ := newBookingFixture(t)
	fs.appendErr = store.ErrConflict

	_, err := svc.Confirm(context.Background(), ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate, Time: "09:00"})
	assert.ErrorIs(t, err, ErrStaleSelection)
}

func TestConfirmConcurrentSingleWinner(t *testing.T) {
	svc, fs, _ := newBookingFixture(t)
	ctx := context.Background()

	const callers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wins    int
		rejects int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Confirm(ctx, ConfirmRequest{SalonID: "4", ServiceIDs: []string{"s7"}, StylistID: "any", Date: testDate, Time: "14:00"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if errors.Is(err, ErrStaleSelection) {
				rejects++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, callers-1, rejects)
	all, _ := fs.ListBySalonAndDate(ctx, "4", testDate)
	assert.Len(t, all, 1)
}

func TestAvailableSlotsStylistIsolation(t *testing.T) {
	svc, _, _ := newBookingFixture(t)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "st1", Date: testDate, Time: "09:00"})
	require.NoError(t, err)

	other, err := svc.AvailableSlots(ctx, AvailabilityQuery{SalonID: "1", Date: testDate, ServiceIDs: []string{"s1"}, Stylist: "st2"})
	require.NoError(t, err)
	assert.Contains(t, other.Slots, "09:00")

	same, err := svc.AvailableSlots(ctx, AvailabilityQuery{SalonID: "1", Date: testDate, ServiceIDs: []string{"s1"}, Stylist: "st1"})
	require.NoError(t, err)
	assert.NotContains(t, same.Slots, "09:00")

	anyone, err := svc.AvailableSlots(ctx, AvailabilityQuery{SalonID: "1", Date: testDate, ServiceIDs: []string{"s1"}})
	require.NoError(t, err)
	assert.Equal(t, availability.AnyStylist, anyone.Stylist)
	assert.NotContains(t, anyone.Slots, "09:00")
}

func TestAvailableSlotsClearsSelectionWhenServicesGrow(t *testing.T) {
	svc, _, _ := newBookingFixture(t)
	ctx := context.Background()

	view, err := svc.AvailableSlots(ctx, AvailabilityQuery{SalonID: "1", Date: testDate, ServiceIDs: []string{"s1"}, Selected: "11:30"})
	require.NoError(t, err)
	assert.Equal(t, "11:30", view.Selected)
	assert.Equal(t, 30, view.RequiredDuration)
	assert.Equal(t, int64(5000), view.TotalCost)

	view, err = svc.AvailableSlots(ctx, AvailabilityQuery{
		SalonID: "1", Date: testDate, ServiceIDs: []string{"s1", "s2"}, Selected: "11:30", Trigger: availability.TriggerServices,
	})
	require.NoError(t, err)
	assert.True(t, view.Cleared)
	assert.Empty(t, view.Selected)
	assert.ErrorIs(t, view.Err(), ErrStaleSelection)
	assert.Equal(t, 120, view.RequiredDuration)
}

func TestAvailableSlotsWithoutServices(t *testing.T) {
	svc, _, _ := newBookingFixture(t)

	view, err := svc.AvailableSlots(context.Background(), AvailabilityQuery{SalonID: "1", Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, view.Slots)
	assert.Equal(t, availability.TriggerOpen, view.Trigger)
}

func TestAvailableSlotsStorageError(t *testing.T) {
	svc, fs, _ := newBookingFixture(t)
	fs.listErr = errors.New("timeout")

	_, err := svc.AvailableSlots(context.Background(), AvailabilityQuery{SalonID: "1", Date: testDate, ServiceIDs: []string{"s1"}})
	var sErr *StorageError
	assert.ErrorAs(t, err, &sErr)
}

func TestCancelFreesSlot(t *testing.T) {
	svc, _, pub := newBookingFixture(t)
	ctx := context.Background()

	appt, err := svc.Confirm(ctx, ConfirmRequest{SalonID: "2", ServiceIDs: []string{"s4"}, StylistID: "st3", Date: testDate, Time: "10:00"})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	view, err := svc.AvailableSlots(ctx, AvailabilityQuery{SalonID: "2", Date: testDate, ServiceIDs: []string{"s4"}, Stylist: "st3"})
	require.NoError(t, err)
	assert.Contains(t, view.Slots, "10:00")

	_, err = svc.Cancel(ctx, appt.ID)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, CodeInvalidStatus, vErr.Code)

	_, err = svc.Complete(ctx, appt.ID)
	assert.True(t, IsValidation(err))

	_, err = svc.Cancel(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Equal(t, []string{events.TypeAppointmentBooked, events.TypeAppointmentCancelled}, pub.types())
}

func TestPublishFailureDoesNotFailBooking(t *testing.T) {
	svc, _, pub := newBookingFixture(t)
	pub.err = errors.New("broker unavailable")

	_, err := svc.Confirm(context.Background(), ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate, Time: "09:00"})
	assert.NoError(t, err)
}

func TestCompleteElapsed(t *testing.T) {
	svc, fs, _ := newBookingFixture(t)
	ctx := context.Background()

	past, err := svc.Confirm(ctx, ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: "2026-10-15", Time: "09:00"})
	require.NoError(t, err)
	future, err := svc.Confirm(ctx, ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate, Time: "09:00"})
	require.NoError(t, err)

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	n, err := svc.CompleteElapsed(ctx, now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := fs.Get(ctx, past.ID)
	assert.Equal(t, models.StatusCompleted, got.Status)
	got, _ = fs.Get(ctx, future.ID)
	assert.Equal(t, models.StatusUpcoming, got.Status)
}

func TestListForSalon(t *testing.T) {
	svc, _, _ := newBookingFixture(t)
	ctx := context.Background()

	for _, tm := range []string{"09:00", "14:00"} {
		_, err := svc.Confirm(ctx, ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate, Time: tm})
		require.NoError(t, err)
	}
	_, err := svc.Confirm(ctx, ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: "2026-10-21", Time: "09:00"})
	require.NoError(t, err)

	day, err := svc.ListForSalon(ctx, "1", testDate)
	require.NoError(t, err)
	assert.Len(t, day, 2)

	all, err := svc.ListForSalon(ctx, "1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListForSalon(ctx, "1", "tomorrow")
	assert.True(t, IsValidation(err))
}

func TestConfirmRejectsPastDates(t *testing.T) {
	svc, fs, _ := newBookingFixture(t)
	ctx := context.Background()

	for _, date := range []string{"2001-01-01", "2026-10-13"} {
		_, err := svc.Confirm(ctx, ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: date, Time: "09:00"})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, date)
		assert.Equal(t, CodeInvalidDate, vErr.Code)

		_, err = svc.AvailableSlots(ctx, AvailabilityQuery{SalonID: "1", Date: date, ServiceIDs: []string{"s1"}})
		assert.True(t, IsValidation(err), date)
	}
	all, _ := fs.ListBySalon(ctx, "1")
	assert.Empty(t, all)

	// Today is still bookable.
	_, err := svc.Confirm(ctx, ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: "2026-10-14", Time: "16:00"})
	require.NoError(t, err)

	// Nothing past-dated exists, so the sweep has nothing to complete and no
	// review can be attached to an appointment that never happened.
	n, err := svc.CompleteElapsed(ctx, fixtureNow, time.UTC)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConfirmPastDateUsesSalonTimeZone(t *testing.T) {
	mem := store.NewMemoryStore(seed.Catalog())
	// 23:30 UTC on the 14th is already the 15th in UTC+1.
	loc := time.FixedZone("UTC+1", 3600)
	svc := NewBookingService(mem, mem, availability.DefaultOperatingHours(), nil).
		WithClock(loc, fixedClock(time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC)))

	_, err := svc.Confirm(context.Background(), ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: "2026-10-14", Time: "16:00"})
	assert.True(t, IsValidation(err))

	_, err = svc.Confirm(context.Background(), ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: "2026-10-15", Time: "16:00"})
	assert.NoError(t, err)
}

func TestConfirmCollapsesRepeatedServices(t *testing.T) {
	svc, _, _ := newBookingFixture(t)

	appt, err := svc.Confirm(context.Background(), ConfirmRequest{
		SalonID: "1", ServiceIDs: []string{"s1", "s1", "s1"}, StylistID: "any", Date: testDate, Time: "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"Men's Haircut"}, appt.ServiceNames)
	assert.Equal(t, int64(5000), appt.Cost)
	assert.Equal(t, 30, appt.Duration)

	// Names follow catalog order whatever order the ids came in.
	appt, err = svc.Confirm(context.Background(), ConfirmRequest{
		SalonID: "1", ServiceIDs: []string{"s2", "s1", "s2"}, StylistID: "any", Date: testDate, Time: "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"Men's Haircut", "Women's Cut & Style"}, appt.ServiceNames)
	assert.Equal(t, int64(20000), appt.Cost)
	assert.Equal(t, 120, appt.Duration)

	view, err := svc.AvailableSlots(context.Background(), AvailabilityQuery{SalonID: "1", Date: "2026-10-21", ServiceIDs: []string{"s1", "s1"}})
	require.NoError(t, err)
	assert.Equal(t, 30, view.RequiredDuration)
	assert.Equal(t, int64(5000), view.TotalCost)
}

func TestMalformedStoredAppointmentBlocksDay(t *testing.T) {
	svc, fs, _ := newBookingFixture(t)
	ctx := context.Background()
	require.NoError(t, fs.MemoryStore.Append(ctx, &models.Appointment{
		SalonID: "1", Date: testDate, Time: "9h00", Status: models.StatusUpcoming, Duration: 30,
	}))

	view, err := svc.AvailableSlots(ctx, AvailabilityQuery{SalonID: "1", Date: testDate, ServiceIDs: []string{"s1"}})
	require.NoError(t, err)
	assert.Empty(t, view.Slots)

	_, err = svc.Confirm(ctx, ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate, Time: "09:00"})
	assert.ErrorIs(t, err, ErrStaleSelection)
}

func TestInvalidHoursAreReported(t *testing.T) {
	mem := store.NewMemoryStore(seed.Catalog())
	bad := availability.OperatingHours{Slots: []string{"09:00"}, LunchStart: "14:00", LunchEnd: "12:00", Closing: "17:00"}
	svc := NewBookingService(mem, mem, bad, nil).WithClock(time.UTC, fixedClock(fixtureNow))

	_, err := svc.AvailableSlots(context.Background(), AvailabilityQuery{SalonID: "1", Date: testDate, ServiceIDs: []string{"s1"}})
	require.Error(t, err)
	assert.False(t, IsValidation(err))

	_, err = svc.Confirm(context.Background(), ConfirmRequest{SalonID: "1", ServiceIDs: []string{"s1"}, StylistID: "any", Date: testDate, Time: "09:00"})
	require.Error(t, err)
	all, _ := mem.ListBySalon(context.Background(), "1")
	assert.Empty(t, all)
}
