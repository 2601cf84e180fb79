package services

import "errors"

// Errors returned by the registry, the announcement log and the directory.
// A call that returns one of these has not changed any state.
var (
	ErrComplaintNotFound    = errors.New("complaint not found")
	ErrStaffRequired        = errors.New("staff id is required")
	ErrUnknownStaff         = errors.New("unknown staff member")
	ErrSpecialtyMismatch    = errors.New("staff member does not handle this category")
	ErrInvalidStatus        = errors.New("invalid complaint status")
	ErrInvalidTransition    = errors.New("status transition not allowed")
	ErrNotAssigned          = errors.New("complaint has no assignee")
	ErrNotAssignee          = errors.New("complaint is not assigned to this staff member")
	ErrEmptyMessage         = errors.New("announcement message is empty")
	ErrTicketSpaceExhausted = errors.New("no free ticket number")
)
