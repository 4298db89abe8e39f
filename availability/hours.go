// availability/hours.go
package availability

import (
	"errors"
	"fmt"
)

// OperatingHours is the fixed daily schedule a salon books against.
type OperatingHours struct {
	Slots      []string `json:"slots" mapstructure:"slots"`
	LunchStart string   `json:"lunchStart" mapstructure:"lunch_start"`
	LunchEnd   string   `json:"lunchEnd" mapstructure:"lunch_end"`
	Closing    string   `json:"closing" mapstructure:"closing"`

	slotMinutes []int
	lunchStart  int
	lunchEnd    int
	closing     int
}

var defaultSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00",
}

// DefaultOperatingHours returns the standard salon day: morning and afternoon
// half-hour slots, lunch from 12:00 to 14:00 and closing at 17:00.
func DefaultOperatingHours() OperatingHours {
	hours, err := ParseOperatingHours(defaultSlots, "12:00", "14:00", "17:00")
	if err != nil {
		panic(err)
	}
	return hours
}

// ParseOperatingHours validates the schedule and pre-computes its minute values.
func ParseOperatingHours(slots []string, lunchStart, lunchEnd, closing string) (OperatingHours, error) {
	if len(slots) == 0 {
		return OperatingHours{}, errors.New("operating hours need at least one slot")
	}

	hours := OperatingHours{
		Slots:       append([]string(nil), slots...),
		LunchStart:  lunchStart,
		LunchEnd:    lunchEnd,
		Closing:     closing,
		slotMinutes: make([]int, 0, len(slots)),
	}

	var err error
	if hours.lunchStart, err = ParseClock(lunchStart); err != nil {
		return OperatingHours{}, fmt.Errorf("lunch start: %w", err)
	}
	if hours.lunchEnd, err = ParseClock(lunchEnd); err != nil {
		return OperatingHours{}, fmt.Errorf("lunch end: %w", err)
	}
	if hours.lunchStart >= hours.lunchEnd {
		return OperatingHours{}, fmt.Errorf("lunch start %s must be before lunch end %s", lunchStart, lunchEnd)
	}
	if hours.closing, err = ParseClock(closing); err != nil {
		return OperatingHours{}, fmt.Errorf("closing: %w", err)
	}

	previous := -1
	for _, slot := range slots {
		minutes, err := ParseClock(slot)
		if err != nil {
			return OperatingHours{}, fmt.Errorf("slot: %w", err)
		}
		if minutes <= previous {
			return OperatingHours{}, fmt.Errorf("slots must be strictly increasing, got %s after %s", slot, FormatClock(previous))
		}
		if minutes >= hours.closing {
			return OperatingHours{}, fmt.Errorf("slot %s starts at or after closing %s", slot, closing)
		}
		hours.slotMinutes = append(hours.slotMinutes, minutes)
		previous = minutes
	}

	return hours, nil
}

// Opening is the first slot of the day in minutes since midnight, or -1 when
// the hours are invalid.
func (h OperatingHours) Opening() int {
	h, err := h.ensureParsed()
	if err != nil {
		return -1
	}
	return h.slotMinutes[0]
}

// IsZero reports whether no field was set. The zero value means the default day.
func (h OperatingHours) IsZero() bool {
	return len(h.Slots) == 0 && h.LunchStart == "" && h.LunchEnd == "" && h.Closing == ""
}

// Validate reports why the hours can't be booked against, if they can't.
func (h OperatingHours) Validate() error {
	_, err := h.ensureParsed()
	return err
}

// ensureParsed fills the minute cache for values built as struct literals
// (for example by the config loader).
func (h OperatingHours) ensureParsed() (OperatingHours, error) {
	if h.IsZero() {
		return DefaultOperatingHours(), nil
	}
	if len(h.slotMinutes) == len(h.Slots) && len(h.Slots) > 0 {
		return h, nil
	}
	return ParseOperatingHours(h.Slots, h.LunchStart, h.LunchEnd, h.Closing)
}
