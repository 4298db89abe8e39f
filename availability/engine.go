// availability/engine.go
package availability

// AnyStylist lets the salon pick whoever is free. Bookings made this way
// occupy the salon's shared capacity.
const AnyStylist = "any"

// Booked is the engine's view of an existing appointment.
type Booked struct {
	Start     string
	Duration  int
	StylistID string
	Cancelled bool
}

// Query describes the candidate booking.
type Query struct {
	Duration int
	Stylist  string
}

func (q Query) specificStylist() bool {
	return q.Stylist != "" && q.Stylist != AnyStylist
}

type interval struct {
	start, end int
}

// wholeDay blocks every slot. A booking whose start or duration can't be
// read is treated this way so it can never be double-booked.
var wholeDay = interval{start: 0, end: 24 * 60}

// Malformed reports whether the booking's start or duration is unreadable.
func (b Booked) Malformed() bool {
	_, err := ParseClock(b.Start)
	return err != nil || b.Duration <= 0
}

// relevant drops cancelled bookings and applies the stylist filter. A query
// for a specific stylist only sees that stylist's bookings; an "any" query
// sees every booking of the day.
func relevant(existing []Booked, q Query) []interval {
	out := make([]interval, 0, len(existing))
	for _, b := range existing {
		if b.Cancelled {
			continue
		}
		if q.specificStylist() && b.StylistID != q.Stylist {
			continue
		}
		start, err := ParseClock(b.Start)
		if err != nil || b.Duration <= 0 {
			out = append(out, wholeDay)
			continue
		}
		out = append(out, interval{start: start, end: start + b.Duration})
	}
	return out
}

// ComputeAvailableSlots returns, in schedule order, the slots where a booking
// of q.Duration minutes fits without touching another booking, the lunch
// closure or the closing boundary. Invalid hours offer nothing; call
// Validate to find out why.
func ComputeAvailableSlots(hours OperatingHours, existing []Booked, q Query) []string {
	hours, err := hours.ensureParsed()
	if err != nil || q.Duration <= 0 {
		return []string{}
	}

	busy := relevant(existing, q)
	available := make([]string, 0, len(hours.Slots))
	for i, start := range hours.slotMinutes {
		if fits(hours, busy, start, start+q.Duration) {
			available = append(available, hours.Slots[i])
		}
	}
	return available
}

// IsAvailable reports whether slot is one of the bookable start times for q.
func IsAvailable(hours OperatingHours, existing []Booked, q Query, slot string) bool {
	for _, s := range ComputeAvailableSlots(hours, existing, q) {
		if s == slot {
			return true
		}
	}
	return false
}

func fits(hours OperatingHours, busy []interval, start, end int) bool {
	if end > hours.closing {
		return false
	}
	if Overlaps(start, end, hours.lunchStart, hours.lunchEnd) {
		return false
	}
	for _, b := range busy {
		if Overlaps(start, end, b.start, b.end) {
			return false
		}
	}
	return true
}
