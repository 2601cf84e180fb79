// Package services contains business logic layers.
// Services are called by handlers and own the in-memory hostel state.
package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aawaaz/hostel-server/internal/metrics"
	"github.com/aawaaz/hostel-server/internal/models"
	"go.uber.org/zap"
)

// wardenActor is recorded for assignments, which only the warden performs
const wardenActor = "warden"

// ComplaintRegistry owns the complaint list and enforces the
// Pending -> In Progress -> Resolved lifecycle.
type ComplaintRegistry struct {
	mu         sync.RWMutex
	complaints []models.Complaint
	index      map[int]int    // complaint id -> position
	tickets    map[string]int // ticket id -> complaint id
	lastID     int

	staff            *StaffDirectory
	activity         *ActivityLogService
	metrics          *metrics.Metrics
	clock            func() time.Time
	ticketSource     TicketSource
	ticketAttempts   int
	enforceSpecialty bool
	logger           *zap.SugaredLogger
}

// RegistryOption configures a ComplaintRegistry.
type RegistryOption func(*ComplaintRegistry)

// WithClock sets the time source used for filedOn and resolvedOn.
func WithClock(clock func() time.Time) RegistryOption {
	return func(r *ComplaintRegistry) {
		r.clock = clock
	}
}

// WithTicketSource sets the ticket number generator.
func WithTicketSource(src TicketSource) RegistryOption {
	return func(r *ComplaintRegistry) {
		r.ticketSource = src
	}
}

// WithTicketAttempts bounds how many candidates are drawn per new ticket.
func WithTicketAttempts(n int) RegistryOption {
	return func(r *ComplaintRegistry) {
		if n > 0 {
			r.ticketAttempts = n
		}
	}
}

// WithActivityLog records filing, assignment and status events.
func WithActivityLog(log *ActivityLogService) RegistryOption {
	return func(r *ComplaintRegistry) {
		r.activity = log
	}
}

// WithMetrics exports registry counters.
func WithMetrics(m *metrics.Metrics) RegistryOption {
	return func(r *ComplaintRegistry) {
		r.metrics = m
	}
}

// WithSpecialtyEnforcement rejects assignments to staff whose specialties
// do not include the complaint category.
func WithSpecialtyEnforcement(enabled bool) RegistryOption {
	return func(r *ComplaintRegistry) {
		r.enforceSpecialty = enabled
	}
}

// NewComplaintRegistry creates an empty registry backed by the staff directory
func NewComplaintRegistry(staff *StaffDirectory, logger *zap.SugaredLogger, opts ...RegistryOption) *ComplaintRegistry {
	r := &ComplaintRegistry{
		complaints:     make([]models.Complaint, 0),
		index:          make(map[int]int),
		tickets:        make(map[string]int),
		staff:          staff,
		clock:          time.Now,
		ticketSource:   RandomTicketNumber,
		ticketAttempts: defaultTicketAttempts,
		logger:         logger,
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Restore loads existing complaints, typically seed data. Every record must
// satisfy the complaint invariants; nothing is loaded if one does not.
func (r *ComplaintRegistry) Restore(complaints []models.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := make(map[int]int, len(r.index)+len(complaints))
	tickets := make(map[string]int, len(r.tickets)+len(complaints))
	for id, pos := range r.index {
		index[id] = pos
	}
	for t, id := range r.tickets {
		tickets[t] = id
	}

	restored := make([]models.Complaint, 0, len(complaints))
	lastID := r.lastID
	for _, c := range complaints {
		if err := r.validateRecord(c); err != nil {
			return fmt.Errorf("restore complaint %d: %w", c.ID, err)
		}
		if _, dup := index[c.ID]; dup {
			return fmt.Errorf("restore complaint %d: duplicate id", c.ID)
		}
		if _, dup := tickets[c.TicketID]; dup {
			return fmt.Errorf("restore complaint %d: duplicate ticket %s", c.ID, c.TicketID)
		}
		index[c.ID] = len(r.complaints) + len(restored)
		tickets[c.TicketID] = c.ID
		restored = append(restored, c.Clone())
		lastID = max(lastID, c.ID)
	}

	r.complaints = append(r.complaints, restored...)
	r.index = index
	r.tickets = tickets
	r.lastID = lastID
	r.observeLocked()

	r.logger.Infow("Complaints restored", "count", len(restored), "last_id", lastID)
	return nil
}

func (r *ComplaintRegistry) validateRecord(c models.Complaint) error {
	switch {
	case c.ID <= 0:
		return fmt.Errorf("id must be positive")
	case !IsTicketID(c.TicketID):
		return fmt.Errorf("malformed ticket %q", c.TicketID)
	case !c.Status.IsValid():
		return fmt.Errorf("%w: %q", ErrInvalidStatus, c.Status)
	case (c.ResolvedOn != nil) != (c.Status == models.StatusResolved):
		return fmt.Errorf("resolved timestamp must be present exactly when resolved")
	case c.Status != models.StatusPending && c.AssignedTo == nil:
		return fmt.Errorf("%w: status %s", ErrNotAssigned, c.Status)
	case c.ResolvedOn != nil && c.ResolvedOn.Before(c.FiledOn):
		return fmt.Errorf("resolved before filed")
	}
	if c.AssignedTo != nil {
		if _, ok := r.staff.Lookup(*c.AssignedTo); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownStaff, *c.AssignedTo)
		}
	}
	return nil
}

// Create files a new complaint in Pending status with a fresh ticket
func (r *ComplaintRegistry) Create(room, category, description, studentID string) (models.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ticket, err := r.nextTicketLocked()
	if err != nil {
		return models.Complaint{}, err
	}

	r.lastID++
	c := models.Complaint{
		ID:          r.lastID,
		TicketID:    ticket,
		Room:        room,
		Category:    category,
		Description: description,
		Status:      models.StatusPending,
		FiledOn:     r.clock(),
		StudentID:   studentID,
	}
	r.index[c.ID] = len(r.complaints)
	r.tickets[ticket] = c.ID
	r.complaints = append(r.complaints, c)

	r.recordLocked(c, models.ActivityFiled,
		fmt.Sprintf("%s complaint filed for room %s", category, room), studentID)
	r.metrics.ComplaintFiled()
	r.observeLocked()

	r.logger.Infow("Complaint filed",
		"id", c.ID,
		"ticket", c.TicketID,
		"category", c.Category,
		"student", studentID,
	)

	return c.Clone(), nil
}

func (r *ComplaintRegistry) nextTicketLocked() (string, error) {
	for attempt := 0; attempt < r.ticketAttempts; attempt++ {
		n, err := r.ticketSource()
		if err != nil {
			return "", err
		}
		if n < ticketMin || n > ticketMax {
			return "", fmt.Errorf("ticket number %d out of range", n)
		}
		ticket := FormatTicket(n)
		if _, taken := r.tickets[ticket]; !taken {
			return ticket, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrTicketSpaceExhausted, r.ticketAttempts)
}

// Assign hands a complaint to a staff member and moves it to In Progress.
// The current status is not checked, so a resolved complaint is reopened.
func (r *ComplaintRegistry) Assign(complaintID int, staffID string) (models.Complaint, error) {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return models.Complaint{}, ErrStaffRequired
	}
	if _, ok := r.staff.Lookup(staffID); !ok {
		return models.Complaint{}, fmt.Errorf("%w: %q", ErrUnknownStaff, staffID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[complaintID]
	if !ok {
		return models.Complaint{}, fmt.Errorf("%w: id %d", ErrComplaintNotFound, complaintID)
	}
	c := &r.complaints[pos]

	if r.enforceSpecialty && !r.staff.Handles(staffID, c.Category) {
		return models.Complaint{}, fmt.Errorf("%w: %s cannot take %s", ErrSpecialtyMismatch, staffID, c.Category)
	}

	previous := c.Status
	assignee := staffID
	c.AssignedTo = &assignee
	c.Status = models.StatusInProgress
	c.ResolvedOn = nil

	r.recordLocked(*c, models.ActivityAssigned,
		fmt.Sprintf("Assigned to %s", r.staff.Name(staffID)), wardenActor)
	r.metrics.ComplaintAssigned()
	if previous != c.Status {
		r.metrics.StatusChanged(c.Status)
	}
	r.observeLocked()

	r.logger.Infow("Complaint assigned",
		"id", c.ID,
		"ticket", c.TicketID,
		"staff", staffID,
		"previous_status", previous,
	)

	return c.Clone(), nil
}

// UpdateStatus moves a complaint to status. Resolving stamps resolvedOn
// once; a resolved complaint only leaves that state through Assign.
func (r *ComplaintRegistry) UpdateStatus(complaintID int, status models.Status) (models.Complaint, error) {
	return r.updateStatus(complaintID, "", status)
}

// UpdateStatusAs is UpdateStatus on behalf of staffID, who must be the
// current assignee when the update is applied.
func (r *ComplaintRegistry) UpdateStatusAs(complaintID int, staffID string, status models.Status) (models.Complaint, error) {
	if staffID == "" {
		return models.Complaint{}, ErrStaffRequired
	}
	return r.updateStatus(complaintID, staffID, status)
}

func (r *ComplaintRegistry) updateStatus(complaintID int, staffID string, status models.Status) (models.Complaint, error) {
	if !status.IsValid() {
		return models.Complaint{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[complaintID]
	if !ok {
		return models.Complaint{}, fmt.Errorf("%w: id %d", ErrComplaintNotFound, complaintID)
	}
	c := &r.complaints[pos]

	if staffID != "" && c.Assignee() != staffID {
		return models.Complaint{}, fmt.Errorf("%w: %s on id %d", ErrNotAssignee, staffID, complaintID)
	}
	if err := checkTransition(*c, status); err != nil {
		return models.Complaint{}, err
	}
	if c.Status == status {
		return c.Clone(), nil
	}

	previous := c.Status
	c.Status = status
	if status == models.StatusResolved {
		now := r.clock()
		c.ResolvedOn = &now
	}

	actor := c.Assignee()
	if actor == "" {
		actor = wardenActor
	}
	r.recordLocked(*c, models.ActivityStatusChanged,
		fmt.Sprintf("Status changed from %s to %s", previous, status), actor)
	r.metrics.StatusChanged(status)
	r.observeLocked()

	r.logger.Infow("Complaint status updated",
		"id", c.ID,
		"ticket", c.TicketID,
		"from", previous,
		"to", status,
	)

	return c.Clone(), nil
}

func checkTransition(c models.Complaint, to models.Status) error {
	if c.Status == models.StatusResolved && to != models.StatusResolved {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.Status, to)
	}
	if to != models.StatusPending && c.AssignedTo == nil {
		return fmt.Errorf("%w: cannot move to %s", ErrNotAssigned, to)
	}
	return nil
}

// Get returns a complaint by id
func (r *ComplaintRegistry) Get(id int) (models.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[id]
	if !ok {
		return models.Complaint{}, fmt.Errorf("%w: id %d", ErrComplaintNotFound, id)
	}
	return r.complaints[pos].Clone(), nil
}

// FindByTicket looks up a complaint by its ticket id
func (r *ComplaintRegistry) FindByTicket(ticketID string) (models.Complaint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.tickets[strings.ToUpper(strings.TrimSpace(ticketID))]
	if !ok {
		return models.Complaint{}, fmt.Errorf("%w: ticket %s", ErrComplaintNotFound, ticketID)
	}
	return r.complaints[r.index[id]].Clone(), nil
}

// ListForStudent returns a student's complaints, most recently filed first
func (r *ComplaintRegistry) ListForStudent(studentID string) []models.Complaint {
	return r.list(func(c models.Complaint) bool { return c.StudentID == studentID }, newestFirst)
}

// ListAll returns every complaint, most recently filed first
func (r *ComplaintRegistry) ListAll() []models.Complaint {
	return r.list(func(models.Complaint) bool { return true }, newestFirst)
}

// ListForStaff returns a staff member's open tasks with Pending ones first.
// Within each group tasks keep filing order.
func (r *ComplaintRegistry) ListForStaff(staffID string) []models.Complaint {
	return r.list(func(c models.Complaint) bool {
		return c.Assignee() == staffID && c.Status != models.StatusResolved
	}, pendingFirst)
}

func (r *ComplaintRegistry) list(keep func(models.Complaint) bool, order func(a, b models.Complaint) int) []models.Complaint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Complaint, 0)
	for _, c := range r.complaints {
		if keep(c) {
			out = append(out, c.Clone())
		}
	}
	slices.SortStableFunc(out, order)
	return out
}

func newestFirst(a, b models.Complaint) int {
	if c := b.FiledOn.Compare(a.FiledOn); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func pendingFirst(a, b models.Complaint) int {
	rank := func(c models.Complaint) int {
		if c.Status == models.StatusPending {
			return 0
		}
		return 1
	}
	return cmp.Compare(rank(a), rank(b))
}

// StaffName resolves a staff id to its display name
func (r *ComplaintRegistry) StaffName(staffID string) string {
	return r.staff.Name(staffID)
}

// Staff enumerates the directory for the assignment selector
func (r *ComplaintRegistry) Staff() []models.Staff {
	return r.staff.List()
}

// Count returns the total number of complaints
func (r *ComplaintRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.complaints)
}

// CategoryDistribution counts complaints per category, largest first
func (r *ComplaintRegistry) CategoryDistribution() []models.CategoryDistribution {
	r.mu.RLock()
	counts := make(map[string]int)
	for _, c := range r.complaints {
		counts[c.Category]++
	}
	r.mu.RUnlock()

	cats := make([]models.CategoryDistribution, 0, len(counts))
	for category, n := range counts {
		cats = append(cats, models.CategoryDistribution{Category: category, Count: n})
	}
	slices.SortFunc(cats, func(a, b models.CategoryDistribution) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return cats
}

// StatusSummary counts complaints per status
func (r *ComplaintRegistry) StatusSummary() models.StatusSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summaryLocked()
}

func (r *ComplaintRegistry) summaryLocked() models.StatusSummary {
	var s models.StatusSummary
	for _, c := range r.complaints {
		switch c.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusResolved:
			s.Resolved++
		}
	}
	s.Total = len(r.complaints)
	return s
}

func (r *ComplaintRegistry) observeLocked() {
	if r.metrics != nil {
		r.metrics.ObserveStatusSummary(r.summaryLocked())
	}
}

// recordLocked appends to the activity log. A logging failure does not undo
// the mutation; it is reported and the operation stands.
func (r *ComplaintRegistry) recordLocked(c models.Complaint, activityType, description, actor string) {
	if r.activity == nil {
		return
	}
	_, err := r.activity.Log(&models.ActivityLogEntry{
		ComplaintID:       c.ID,
		TicketID:          c.TicketID,
		ActivityType:      activityType,
		ActionDescription: description,
		Actor:             actor,
	})
	if err != nil {
		r.logger.Errorw("Failed to log activity", "complaint_id", c.ID, "error", err)
	}
}
