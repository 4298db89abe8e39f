package services

import (
	"context"
	"errors"
	"strings"

	"github.com/cheikhabdou2024/Dakar-cut/events"
	"github.com/cheikhabdou2024/Dakar-cut/metrics"
	"github.com/cheikhabdou2024/Dakar-cut/models"
	"github.com/cheikhabdou2024/Dakar-cut/store"
	"go.uber.org/zap"
)

const DefaultGuestAuthor = "Utilisateur Invité"

// ReviewService attaches reviews to completed appointments. There are no
// accounts, so the author is whatever identity the caller injects.
type ReviewService struct {
	appointments store.AppointmentStore
	catalog      store.CatalogStore
	guestAuthor  string
	publisher    events.Publisher
	metrics      *metrics.BookingMetrics
	logger       *zap.Logger
}

func NewReviewService(appointments store.AppointmentStore, catalog store.CatalogStore, guestAuthor string, logger *zap.Logger) *ReviewService {
	if strings.TrimSpace(guestAuthor) == "" {
		guestAuthor = DefaultGuestAuthor
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		appointments: appointments,
		catalog:      catalog,
		guestAuthor:  guestAuthor,
		logger:       logger,
	}
}

func (s *ReviewService) WithPublisher(p events.Publisher) *ReviewService {
	s.publisher = p
	return s
}

func (s *ReviewService) WithMetrics(m *metrics.BookingMetrics) *ReviewService {
	s.metrics = m
	return s
}

type ReviewRequest struct {
	AppointmentID string
	Rating        int
	Comment       string
	// Author overrides the guest identity when the caller knows who is posting.
	Author string
}

func (s *ReviewService) Submit(ctx context.Context, req ReviewRequest) (*models.Review, error) {
	review, err := s.submit(ctx, req)
	outcome := "accepted"
	if err != nil {
		outcome = "rejected"
	}
	s.metrics.ObserveReview(outcome)
	return review, err
}

func (s *ReviewService) submit(ctx context.Context, req ReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, invalid(CodeInvalidRating, "select a rating between 1 and 5")
	}

	appt, err := s.appointments.Get(ctx, req.AppointmentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &StorageError{Op: "get appointment", Err: err}
	}
	if appt.Status != models.StatusCompleted {
		return nil, invalid(CodeNotCompleted, "only completed appointments can be reviewed")
	}

	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = s.guestAuthor
	}
	review := &models.Review{
		SalonID:       appt.SalonID,
		AppointmentID: appt.ID,
		Author:        author,
		Rating:        req.Rating,
		Comment:       strings.TrimSpace(req.Comment),
	}
	if err := s.catalog.AppendReview(ctx, review); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, invalid(CodeAlreadyReviewed, "this appointment has already been reviewed")
		case errors.Is(err, store.ErrNotFound):
			return nil, invalid(CodeUnknownSalon, "salon %s does not exist", appt.SalonID)
		default:
			return nil, &StorageError{Op: "append review", Err: err}
		}
	}

	s.logger.Info("review submitted",
		zap.String("salon_id", review.SalonID),
		zap.String("appointment_id", review.AppointmentID),
		zap.Int("rating", review.Rating),
	)
	if s.publisher != nil {
		if evt, err := events.New(events.TypeReviewSubmitted, review.SalonID, review.AppointmentID, review); err == nil {
			if err := s.publisher.Publish(ctx, evt); err != nil {
				s.logger.Warn("failed to publish review event", zap.Error(err))
			}
		}
	}
	return review, nil
}
