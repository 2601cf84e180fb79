// Package metrics defines the Prometheus collectors exported by the server.
// A nil *Metrics is valid and records nothing, so services can be built
// without a registry in tests.
package metrics

import (
	"strconv"
	"time"

	"github.com/aawaaz/hostel-server/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hostel"

// Metrics holds the server's collectors
type Metrics struct {
	complaintsFiled     prometheus.Counter
	assignments         prometheus.Counter
	transitions         *prometheus.CounterVec
	complaintsByStatus  *prometheus.GaugeVec
	announcementsPosted prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		complaintsFiled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaints_filed_total",
			Help:      "Complaints filed by students.",
		}),
		assignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaint_assignments_total",
			Help:      "Complaints assigned to maintenance staff.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaint_status_transitions_total",
			Help:      "Complaint status changes by target status.",
		}, []string{"status"}),
		complaintsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "complaints",
			Help:      "Current number of complaints by status.",
		}, []string{"status"}),
		announcementsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "announcements_posted_total",
			Help:      "Announcements posted by the warden.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.complaintsFiled,
		m.assignments,
		m.transitions,
		m.complaintsByStatus,
		m.announcementsPosted,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// ComplaintFiled counts a new complaint
func (m *Metrics) ComplaintFiled() {
	if m == nil {
		return
	}
	m.complaintsFiled.Inc()
}

// ComplaintAssigned counts an assignment
func (m *Metrics) ComplaintAssigned() {
	if m == nil {
		return
	}
	m.assignments.Inc()
}

// StatusChanged counts a transition into status
func (m *Metrics) StatusChanged(status models.Status) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status.String()).Inc()
}

// ObserveStatusSummary sets the per-status gauges
func (m *Metrics) ObserveStatusSummary(s models.StatusSummary) {
	if m == nil {
		return
	}
	m.complaintsByStatus.WithLabelValues(models.StatusPending.String()).Set(float64(s.Pending))
	m.complaintsByStatus.WithLabelValues(models.StatusInProgress.String()).Set(float64(s.InProgress))
	m.complaintsByStatus.WithLabelValues(models.StatusResolved.String()).Set(float64(s.Resolved))
}

// AnnouncementPosted counts a new announcement
func (m *Metrics) AnnouncementPosted() {
	if m == nil {
		return
	}
	m.announcementsPosted.Inc()
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
