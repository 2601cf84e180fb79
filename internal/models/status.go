package models

import "strings"

// Status is the lifecycle state of a complaint.
type Status string

const (
	// StatusPending is the initial state of every complaint.
	StatusPending Status = "Pending"

	// StatusInProgress means a staff member has been assigned.
	StatusInProgress Status = "In Progress"

	// StatusResolved is terminal for status updates.
	StatusResolved Status = "Resolved"
)

// IsValid checks if a status is one of the known lifecycle states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning empty for invalid values.
// "InProgress" is accepted as an alias of "In Progress".
func ParseStatus(s string) Status {
	switch strings.TrimSpace(s) {
	case "Pending":
		return StatusPending
	case "In Progress", "InProgress":
		return StatusInProgress
	case "Resolved":
		return StatusResolved
	}
	return ""
}
