// Package metrics exposes Prometheus collectors for the booking flows.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics is nil-safe: a nil receiver records nothing.
type BookingMetrics struct {
	availabilityTotal *prometheus.CounterVec
	slotsReturned     prometheus.Histogram
	bookingsTotal     *prometheus.CounterVec
	confirmLatency    prometheus.Histogram
	transitionsTotal  *prometheus.CounterVec
	remindersTotal    *prometheus.CounterVec
	reviewsTotal      *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dakarcut",
			Subsystem: "availability",
			Name:      "queries_total",
			Help:      "Availability recomputations by trigger",
		}, []string{"trigger", "cleared"}),
		slotsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dakarcut",
			Subsystem: "availability",
			Name:      "slots_returned",
			Help:      "Number of bookable slots returned per query",
			Buckets:   prometheus.LinearBuckets(0, 2, 8),
		}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dakarcut",
			Subsystem: "booking",
			Name:      "confirm_total",
			Help:      "Booking confirmations by outcome",
		}, []string{"outcome"}),
		confirmLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dakarcut",
			Subsystem: "booking",
			Name:      "confirm_latency_seconds",
			Help:      "Latency of booking confirmation including lock wait",
			Buckets:   prometheus.DefBuckets,
		}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dakarcut",
			Subsystem: "booking",
			Name:      "status_transitions_total",
			Help:      "Appointment status transitions",
		}, []string{"status", "source"}),
		remindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dakarcut",
			Subsystem: "reminders",
			Name:      "sent_total",
			Help:      "Appointment reminders by status",
		}, []string{"status"}),
		reviewsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dakarcut",
			Subsystem: "reviews",
			Name:      "submitted_total",
			Help:      "Review submissions by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.availabilityTotal,
		m.slotsReturned,
		m.bookingsTotal,
		m.confirmLatency,
		m.transitionsTotal,
		m.remindersTotal,
		m.reviewsTotal,
	)
	return m
}

func (m *BookingMetrics) ObserveAvailability(trigger string, cleared bool, slots int) {
	if m == nil {
		return
	}
	label := "false"
	if cleared {
		label = "true"
	}
	m.availabilityTotal.WithLabelValues(trigger, label).Inc()
	m.slotsReturned.Observe(float64(slots))
}

// ObserveConfirm records a confirmation outcome: booked, invalid, stale or storage_error.
func (m *BookingMetrics) ObserveConfirm(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
	m.confirmLatency.Observe(seconds)
}

func (m *BookingMetrics) ObserveTransition(status, source string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(status, source).Inc()
}

func (m *BookingMetrics) ObserveReminder(status string) {
	if m == nil {
		return
	}
	m.remindersTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveReview(outcome string) {
	if m == nil {
		return
	}
	m.reviewsTotal.WithLabelValues(outcome).Inc()
}
