package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/cheikhabdou2024/Dakar-cut/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the PostgreSQL-backed implementation of every store interface.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the tables this store owns.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&models.Salon{},
		&models.Service{},
		&models.Stylist{},
		&models.Review{},
		&models.Appointment{},
		&models.ReminderLog{},
	)
}

// SeedCatalog inserts salons that don't exist yet; existing rows are left alone.
func (s *GormStore) SeedCatalog(ctx context.Context, catalog []models.Salon) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range catalog {
			salon := catalog[i]
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&salon).Error; err != nil {
				return fmt.Errorf("seed salon %s: %w", salon.ID, err)
			}
			if len(salon.Services) > 0 {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&salon.Services).Error; err != nil {
					return fmt.Errorf("seed services for %s: %w", salon.ID, err)
				}
			}
			if len(salon.Stylists) > 0 {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&salon.Stylists).Error; err != nil {
					return fmt.Errorf("seed stylists for %s: %w", salon.ID, err)
				}
			}
			if len(salon.Reviews) > 0 {
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&salon.Reviews).Error; err != nil {
					return fmt.Errorf("seed reviews for %s: %w", salon.ID, err)
				}
			}
		}
		return nil
	})
}

// IsConflict reports unique or exclusion constraint violations.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case IsConflict(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}

func (s *GormStore) ListSalons(ctx context.Context) ([]models.Salon, error) {
	var salons []models.Salon
	err := s.db.WithContext(ctx).
		Preload("Services").Preload("Stylists").Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("id ASC").
		Find(&salons).Error
	return salons, translate(err)
}

func (s *GormStore) GetSalon(ctx context.Context, id string) (models.Salon, error) {
	var salon models.Salon
	err := s.db.WithContext(ctx).
		Preload("Services").Preload("Stylists").Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&salon, "id = ?", id).Error
	return salon, translate(err)
}

func (s *GormStore) AppendReview(ctx context.Context, review *models.Review) error {
	return translate(s.db.WithContext(ctx).Create(review).Error)
}

func (s *GormStore) ListBySalonAndDate(ctx context.Context, salonID, date string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Where("salon_id = ? AND date = ?", salonID, date).
		Order("time ASC").
		Find(&appts).Error
	return appts, translate(err)
}

func (s *GormStore) ListBySalon(ctx context.Context, salonID string) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Order("date ASC, time ASC").
		Find(&appts).Error
	return appts, translate(err)
}

func (s *GormStore) ListByStatus(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("date ASC, time ASC").
		Find(&appts).Error
	return appts, translate(err)
}

func (s *GormStore) Get(ctx context.Context, id string) (models.Appointment, error) {
	var appt models.Appointment
	err := s.db.WithContext(ctx).First(&appt, "id = ?", id).Error
	return appt, translate(err)
}

func (s *GormStore) Append(ctx context.Context, appt *models.Appointment) error {
	return translate(s.db.WithContext(ctx).Create(appt).Error)
}

func (s *GormStore) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (models.Appointment, error) {
	if !from.CanTransitionTo(to) {
		return models.Appointment{}, ErrInvalidTransition
	}

	var updated models.Appointment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Appointment{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrInvalidTransition
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidTransition) {
		return models.Appointment{}, err
	}
	return updated, translate(err)
}

func (s *GormStore) Record(ctx context.Context, log *models.ReminderLog) error {
	return translate(s.db.WithContext(ctx).Create(log).Error)
}

func (s *GormStore) Sent(ctx context.Context, appointmentID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ReminderLog{}).
		Where("appointment_id = ? AND status = ?", appointmentID, models.ReminderSent).
		Count(&count).Error
	return count > 0, translate(err)
}

// Ping checks the underlying connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
