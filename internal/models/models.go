// Package models defines the data structures shared by the complaint
// registry, the announcement log and the HTTP handlers.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Complaint is a maintenance request filed by a student for a hostel room.
// AssignedTo is nil until a warden hands the complaint to a staff member;
// ResolvedOn is set exactly when Status is StatusResolved.
type Complaint struct {
	ID          int        `json:"id"`
	TicketID    string     `json:"ticket_id"`
	Room        string     `json:"room"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	AssignedTo  *string    `json:"assigned_to"`
	FiledOn     time.Time  `json:"filed_on"`
	ResolvedOn  *time.Time `json:"resolved_on,omitempty"`
	StudentID   string     `json:"student_id"`
}

// Clone returns a copy that shares no pointers with c.
func (c Complaint) Clone() Complaint {
	out := c
	if c.AssignedTo != nil {
		assignee := *c.AssignedTo
		out.AssignedTo = &assignee
	}
	if c.ResolvedOn != nil {
		resolved := *c.ResolvedOn
		out.ResolvedOn = &resolved
	}
	return out
}

// Assignee returns the assigned staff id, or "" when unassigned.
func (c Complaint) Assignee() string {
	if c.AssignedTo == nil {
		return ""
	}
	return *c.AssignedTo
}

// ComplaintSubmission is the request body for filing a new complaint.
// The filing student comes from the session token, not the body.
type ComplaintSubmission struct {
	Room        string `json:"room" validate:"required,max=32"`
	Category    string `json:"category" validate:"required,max=64"`
	Description string `json:"description" validate:"required,max=2000"`
}

// AssignmentRequest is the request body for handing a complaint to staff
type AssignmentRequest struct {
	StaffID string `json:"staff_id" validate:"required"`
}

// StatusUpdate is the request body for advancing a task's status
type StatusUpdate struct {
	Status string `json:"status" validate:"required"`
}

// Announcement is a hostel-wide notice posted by the warden.
type Announcement struct {
	ID       int       `json:"id"`
	Message  string    `json:"message"`
	PostedOn time.Time `json:"posted_on"`
}

// AnnouncementSubmission is the request body for posting an announcement
type AnnouncementSubmission struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// Staff is a maintenance staff member from the static directory.
// Specialties lists the complaint categories the member handles.
type Staff struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Specialties []string `json:"specialties,omitempty"`
}

// Activity types recorded in the complaint activity log
const (
	ActivityFiled         = "filed"
	ActivityAssigned      = "assigned"
	ActivityStatusChanged = "status_changed"
)

// ActivityLog is one entry in the append-only complaint history.
// Hash is the ledger leaf for this entry and LedgerIndex its leaf position.
type ActivityLog struct {
	ID                uuid.UUID `json:"id"`
	ComplaintID       int       `json:"complaint_id"`
	TicketID          string    `json:"ticket_id"`
	ActivityType      string    `json:"activity_type"`
	ActionDescription string    `json:"action_description"`
	Actor             string    `json:"actor"`
	Hash              string    `json:"hash"`
	LedgerIndex       int       `json:"ledger_index"`
	CreatedAt         time.Time `json:"created_at"`
}

// ActivityLogEntry is the input for recording an activity
type ActivityLogEntry struct {
	ComplaintID       int
	TicketID          string
	ActivityType      string
	ActionDescription string
	Actor             string
}

// MerkleProof contains the Merkle proof for a specific ledger entry
type MerkleProof struct {
	LeafHash string      `json:"leaf_hash"`
	Root     string      `json:"root"`
	Proof    []ProofStep `json:"proof"`
	Index    int         `json:"index"`
	Verified bool        `json:"verified"`
}

// ProofStep is a single step in a Merkle proof path
type ProofStep struct {
	Hash     string `json:"hash"`
	Position string `json:"position"` // "left" | "right"
}

// CategoryDistribution for the warden's category breakdown
type CategoryDistribution struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// StatusSummary counts complaints per lifecycle status
type StatusSummary struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Total      int `json:"total"`
}

// SessionRequest selects a role for the dashboard. There are no credentials:
// it mirrors the demo's role picker.
type SessionRequest struct {
	Role string `json:"role" validate:"required,oneof=student warden maintenance"`
	ID   string `json:"id" validate:"max=64"`
}

// SessionResponse carries the signed role token
type SessionResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HealthStatus represents the server health check response
type HealthStatus struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime,omitempty"`
	RateLimiter string `json:"rate_limiter,omitempty"`
	LedgerRoot  string `json:"ledger_root,omitempty"`
}
