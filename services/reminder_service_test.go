package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cheikhabdou2024/Dakar-cut/availability"
	"github.com/cheikhabdou2024/Dakar-cut/models"
	"github.com/cheikhabdou2024/Dakar-cut/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, to, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, to+"|"+body)
	return "SM123", nil
}

func TestSendDailyReminders(t *testing.T) {
	mem := store.NewMemoryStore(nil)
	ctx := context.Background()
	add := func(date, phone string, status models.AppointmentStatus) {
		require.NoError(t, mem.Append(ctx, &models.Appointment{
			SalonID: "1", SalonName: "Elegance Coiffure", StylistName: "Aminata",
			ServiceNames: models.StringList{"Men's Haircut"},
			Date:         date, Time: "10:00", Status: status, Duration: 30, CustomerPhone: phone,
		}))
	}
	add("2026-10-17", "+221 77 123 45 67", models.StatusUpcoming)
	add("2026-10-17", "", models.StatusUpcoming)
	add("2026-10-17", "not a phone", models.StatusUpcoming)
	add("2026-10-18", "+221771234568", models.StatusUpcoming)
	add("2026-10-17", "+221771234569", models.StatusCompleted)

	sender := &fakeSender{}
	svc := NewReminderService(mem, mem, sender, time.UTC, zap.NewNop())
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	n, err := svc.SendDailyReminders(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "+221771234567|")
	assert.Contains(t, sender.sent[0], "Elegance Coiffure")
	assert.Contains(t, sender.sent[0], "with Aminata")

	// Running again does not resend.
	n, err = svc.SendDailyReminders(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, mem.ReminderLogs(), 1)
	assert.Equal(t, "SM123", mem.ReminderLogs()[0].MessageSID)
}

func TestSendDailyRemindersRecordsFailures(t *testing.T) {
	mem := store.NewMemoryStore(nil)
	ctx := context.Background()
	require.NoError(t, mem.Append(ctx, &models.Appointment{
		SalonID: "1", Date: "2026-10-17", Time: "09:00", Status: models.StatusUpcoming, Duration: 30, CustomerPhone: "+221771234567",
	}))

	sender := &fakeSender{err: errors.New("twilio down")}
	svc := NewReminderService(mem, mem, sender, nil, nil)

	n, err := svc.SendDailyReminders(ctx, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)

	logs := mem.ReminderLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, models.ReminderFailed, logs[0].Status)
	assert.Equal(t, "twilio down", logs[0].ErrorMessage)

	// A failed attempt is retried on the next run.
	sender.err = nil
	n, err = svc.SendDailyReminders(ctx, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewScheduler(t *testing.T) {
	mem := store.NewMemoryStore(nil)
	bookings := NewBookingService(mem, mem, availability.DefaultOperatingHours(), nil)
	reminders := NewReminderService(mem, mem, &fakeSender{}, nil, nil)

	s, err := NewScheduler(SchedulerConfig{ReminderSpec: "0 9 * * *", CompletionSpec: "*/15 * * * *"}, bookings, reminders, nil)
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	_, err = NewScheduler(SchedulerConfig{ReminderSpec: "every day"}, bookings, reminders, nil)
	assert.Error(t, err)

	s, err = NewScheduler(SchedulerConfig{CompletionSpec: "@hourly"}, bookings, nil, nil)
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)
}
