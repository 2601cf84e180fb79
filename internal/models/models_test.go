package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected Status
	}{
		{"Pending", StatusPending},
		{"In Progress", StatusInProgress},
		{"InProgress", StatusInProgress},
		{" Resolved ", StatusResolved},
		{"resolved", ""}, // case-sensitive
		{"Closed", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseStatus(tt.input))
		})
	}
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusInProgress.IsValid())
	assert.True(t, StatusResolved.IsValid())
	assert.False(t, Status("Closed").IsValid())
	assert.False(t, Status("").IsValid())
	assert.Equal(t, "In Progress", StatusInProgress.String())
}

func TestComplaintCloneDetachesPointers(t *testing.T) {
	staff := "staff1"
	resolved := time.Date(2024, 7, 19, 16, 45, 0, 0, time.UTC)
	c := Complaint{ID: 3, AssignedTo: &staff, ResolvedOn: &resolved, Status: StatusResolved}

	clone := c.Clone()
	*clone.AssignedTo = "staff2"
	*clone.ResolvedOn = resolved.Add(time.Hour)

	assert.Equal(t, "staff1", c.Assignee())
	assert.Equal(t, resolved, *c.ResolvedOn)
	assert.Equal(t, "staff2", clone.Assignee())
}

func TestComplaintAssigneeUnassigned(t *testing.T) {
	assert.Equal(t, "", Complaint{}.Assignee())
}
