// availability/selection.go
package availability

import "errors"

// ErrStaleSelection is reported when a previously chosen time stops being
// bookable after the date, stylist, services or appointment list changed.
var ErrStaleSelection = errors.New("selected time is no longer available")

// Trigger names the change that caused a recompute.
type Trigger string

const (
	TriggerOpen         Trigger = "open"
	TriggerDate         Trigger = "date"
	TriggerStylist      Trigger = "stylist"
	TriggerServices     Trigger = "services"
	TriggerAppointments Trigger = "appointments"
)

// ParseTrigger maps a request value to a Trigger, defaulting to TriggerOpen.
func ParseTrigger(value string) Trigger {
	switch t := Trigger(value); t {
	case TriggerDate, TriggerStylist, TriggerServices, TriggerAppointments:
		return t
	default:
		return TriggerOpen
	}
}

// Selection is the caller-held booking state between recomputes.
type Selection struct {
	Date     string
	Duration int
	Stylist  string
	Time     string
}

// Result is the outcome of a recompute.
type Result struct {
	Trigger  Trigger  `json:"trigger"`
	Slots    []string `json:"slots"`
	Selected string   `json:"selected,omitempty"`
	Cleared  bool     `json:"cleared"`
}

// Err returns ErrStaleSelection when the recompute dropped the selection.
func (r Result) Err() error {
	if r.Cleared {
		return ErrStaleSelection
	}
	return nil
}

// Recompute rebuilds the bookable slots from scratch for sel and keeps the
// selected time only if it is still one of them.
func Recompute(hours OperatingHours, existing []Booked, sel Selection, trigger Trigger) Result {
	slots := ComputeAvailableSlots(hours, existing, Query{Duration: sel.Duration, Stylist: sel.Stylist})
	result := Result{Trigger: trigger, Slots: slots}
	if sel.Time == "" {
		return result
	}

	for _, s := range slots {
		if s == sel.Time {
			result.Selected = sel.Time
			return result
		}
	}
	result.Cleared = true
	return result
}
