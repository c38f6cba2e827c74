// Tracks scheduler-wide counters as Prometheus collectors.

package sim

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "qnet"

// Metrics holds the scheduler's Prometheus collectors. A nil *Metrics is
// valid and records nothing, so tests and library callers can skip it.
type Metrics struct {
	Scheduled      *prometheus.CounterVec
	Executed       prometheus.Counter
	Failed         *prometheus.CounterVec
	Contention     prometheus.Counter
	ShareConflicts prometheus.Counter
	ReservedLinks  prometheus.Gauge
	Timeslot       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// Panics if registration fails (duplicate registration is a programming error).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Scheduled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "scheduled_total",
			Help:      "Requests placed into a timeslot, by placement kind (shared or next-free).",
		}, []string{"placement"}),
		Executed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "executed_total",
			Help:      "Requests executed successfully at dispatch.",
		}),
		Failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "failed_total",
			Help:      "Requests recorded as failed, by reason.",
		}, []string{"reason"}),
		Contention: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "contention_advances_total",
			Help:      "Clock advances caused by a head-of-queue request that could not be placed.",
		}),
		ShareConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "scheduler",
			Name:      "share_conflicts_total",
			Help:      "Attempts to share the current timeslot rejected by an overlapping route.",
		}),
		ReservedLinks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "reservations",
			Name:      "links",
			Help:      "Links currently holding a reservation.",
		}),
		Timeslot: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "network",
			Name:      "timeslot",
			Help:      "Current network timeslot as seen by the scheduler.",
		}),
	}
	reg.MustRegister(m.Scheduled, m.Executed, m.Failed, m.Contention, m.ShareConflicts, m.ReservedLinks, m.Timeslot)
	return m
}

func (m *Metrics) recordScheduled(shared bool) {
	if m == nil {
		return
	}
	placement := "next-free"
	if shared {
		placement = "shared"
	}
	m.Scheduled.WithLabelValues(placement).Inc()
}

func (m *Metrics) recordExecuted() {
	if m == nil {
		return
	}
	m.Executed.Inc()
}

func (m *Metrics) recordFailed(reason string) {
	if m == nil {
		return
	}
	m.Failed.WithLabelValues(reason).Inc()
}

func (m *Metrics) recordContention() {
	if m == nil {
		return
	}
	m.Contention.Inc()
}

func (m *Metrics) recordShareConflict() {
	if m == nil {
		return
	}
	m.ShareConflicts.Inc()
}

func (m *Metrics) observe(reservedLinks int, timeslot int64) {
	if m == nil {
		return
	}
	m.ReservedLinks.Set(float64(reservedLinks))
	m.Timeslot.Set(float64(timeslot))
}
