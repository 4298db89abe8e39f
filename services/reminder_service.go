// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cheikhabdou2024/Dakar-cut/metrics"
	"github.com/cheikhabdou2024/Dakar-cut/models"
	"github.com/cheikhabdou2024/Dakar-cut/store"
	"github.com/cheikhabdou2024/Dakar-cut/utils"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// MessageSender delivers a text message and returns the provider message id.
type MessageSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// TwilioSender sends over SMS, or WhatsApp when a WhatsApp number is configured.
type TwilioSender struct {
	client       *twilio.RestClient
	from         string
	whatsAppFrom string
}

func NewTwilioSender(accountSid, authToken, from, whatsAppFrom string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from:         from,
		whatsAppFrom: whatsAppFrom,
	}
}

func (t *TwilioSender) Send(ctx context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	if t.whatsAppFrom != "" && strings.HasPrefix(to, "+") {
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + t.whatsAppFrom)
	} else {
		params.SetTo(to)
		params.SetFrom(t.from)
	}

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// LogSender writes reminders to the log instead of sending them.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

func (l *LogSender) Send(ctx context.Context, to, body string) (string, error) {
	l.logger.Info("reminder not sent, twilio disabled", zap.String("to", to), zap.String("body", body))
	return "", nil
}

type ReminderService struct {
	appointments store.AppointmentStore
	logs         store.ReminderLogStore
	sender       MessageSender
	loc          *time.Location
	metrics      *metrics.BookingMetrics
	logger       *zap.Logger
}

func NewReminderService(appointments store.AppointmentStore, logs store.ReminderLogStore, sender MessageSender, loc *time.Location, logger *zap.Logger) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		appointments: appointments,
		logs:         logs,
		sender:       sender,
		loc:          loc,
		logger:       logger,
	}
}

func (s *ReminderService) WithMetrics(m *metrics.BookingMetrics) *ReminderService {
	s.metrics = m
	return s
}

func reminderMessage(appt models.Appointment) string {
	with := ""
	if appt.StylistName != "" {
		with = " with " + appt.StylistName
	}
	return fmt.Sprintf("Reminder: your appointment at %s is tomorrow (%s) at %s%s for %s.",
		appt.SalonName, appt.Date, appt.Time, with, strings.Join(appt.ServiceNames, ", "))
}

// SendDailyReminders messages every upcoming appointment that starts on the
// calendar day after now. Appointments already reminded are skipped.
func (s *ReminderService) SendDailyReminders(ctx context.Context, now time.Time) (int, error) {
	s.logger.Info("Starting daily reminder processing...")

	upcoming, err := s.appointments.ListByStatus(ctx, models.StatusUpcoming)
	if err != nil {
		return 0, &StorageError{Op: "list upcoming appointments", Err: err}
	}

	now = now.In(s.loc)
	sent := 0
	for _, appt := range upcoming {
		start, err := appt.StartsAt(s.loc)
		if err != nil || utils.DaysBetween(now, start) != 1 {
			continue
		}
		if appt.CustomerPhone == "" || !utils.ValidatePhone(appt.CustomerPhone) {
			continue
		}
		already, err := s.logs.Sent(ctx, appt.ID)
		if err != nil {
			s.logger.Warn("failed to check reminder log", zap.String("appointment_id", appt.ID), zap.Error(err))
			continue
		}
		if already {
			continue
		}
		if s.remind(ctx, appt, now) {
			sent++
		}
	}

	s.logger.Info("Daily reminder processing completed", zap.Int("sent", sent))
	return sent, nil
}

func (s *ReminderService) remind(ctx context.Context, appt models.Appointment, now time.Time) bool {
	phone := utils.NormalizePhone(appt.CustomerPhone)
	message := reminderMessage(appt)

	entry := models.ReminderLog{
		SalonID:       appt.SalonID,
		AppointmentID: appt.ID,
		Phone:         phone,
		Message:       message,
		Status:        models.ReminderSent,
		SentAt:        now,
	}
	sid, err := s.sender.Send(ctx, phone, message)
	if err != nil {
		s.logger.Warn("Failed to send reminder", zap.String("appointment_id", appt.ID), zap.Error(err))
		entry.Status = models.ReminderFailed
		entry.ErrorMessage = err.Error()
	} else {
		entry.MessageSID = sid
		s.logger.Info("Reminder sent", zap.String("appointment_id", appt.ID), zap.String("sid", sid))
	}
	s.metrics.ObserveReminder(entry.Status)

	if err := s.logs.Record(ctx, &entry); err != nil {
		s.logger.Error("Failed to log reminder", zap.String("appointment_id", appt.ID), zap.Error(err))
	}
	return entry.Status == models.ReminderSent
}
