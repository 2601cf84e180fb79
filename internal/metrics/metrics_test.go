package metrics

import (
	"testing"
	"time"

	"github.com/aawaaz/hostel-server/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ComplaintFiled()
		m.ComplaintAssigned()
		m.StatusChanged(models.StatusResolved)
		m.ObserveStatusSummary(models.StatusSummary{Pending: 1})
		m.AnnouncementPosted()
		m.ObserveRequest("GET", "/x", 200, time.Millisecond)
	})
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ComplaintFiled()
	m.ComplaintFiled()
	m.ComplaintAssigned()
	m.StatusChanged(models.StatusResolved)
	m.AnnouncementPosted()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.complaintsFiled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assignments))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("Resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.announcementsPosted))
}

func TestObserveStatusSummary(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveStatusSummary(models.StatusSummary{Pending: 2, InProgress: 1, Resolved: 4, Total: 7})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.complaintsByStatus.WithLabelValues("Pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.complaintsByStatus.WithLabelValues("In Progress")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.complaintsByStatus.WithLabelValues("Resolved")))
}

func TestObserveRequestUnmatchedRoute(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}
