package services

import (
	"errors"
	"fmt"

	"github.com/cheikhabdou2024/Dakar-cut/availability"
)

// Validation error codes.
const (
	CodeNoServices      = "no_services"
	CodeUnknownService  = "unknown_service"
	CodeUnknownStylist  = "unknown_stylist"
	CodeInvalidDate     = "invalid_date"
	CodeInvalidTime     = "invalid_time"
	CodeSlotUnavailable = "slot_unavailable"
	CodeInvalidRating   = "invalid_rating"
	CodeNotCompleted    = "appointment_not_completed"
	CodeAlreadyReviewed = "already_reviewed"
	CodeInvalidStatus   = "invalid_status_transition"
	CodeInvalidPhone    = "invalid_phone"
	CodeUnknownSalon    = "unknown_salon"
)

// ValidationError is a caller error. Retrying the same request won't help.
type ValidationError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Slots   []string `json:"slots,omitempty"` // fresh availability for slot_unavailable
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrStaleSelection && e.Code == CodeSlotUnavailable
}

func invalid(code, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// StorageError wraps a store failure. Nothing was written; the caller may retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: storage unavailable: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Retryable() bool { return true }

// ErrStaleSelection matches a ValidationError raised because the selected
// time stopped being bookable before confirmation.
var ErrStaleSelection = availability.ErrStaleSelection

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
