package services

import (
	"fmt"
	"strings"

	"github.com/aawaaz/hostel-server/internal/models"
)

// UnknownStaffName is shown for staff ids missing from the directory
const UnknownStaffName = "Unknown"

// StaffDirectory is the static staff reference data. It is read-only
// after construction and safe for concurrent use.
type StaffDirectory struct {
	members []models.Staff
	byID    map[string]int
}

// NewStaffDirectory builds a directory, rejecting empty or duplicate ids
func NewStaffDirectory(members []models.Staff) (*StaffDirectory, error) {
	d := &StaffDirectory{
		members: make([]models.Staff, 0, len(members)),
		byID:    make(map[string]int, len(members)),
	}

	for _, m := range members {
		if strings.TrimSpace(m.ID) == "" {
			return nil, fmt.Errorf("staff member %q has no id", m.Name)
		}
		if _, dup := d.byID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate staff id %q", m.ID)
		}
		d.byID[m.ID] = len(d.members)
		d.members = append(d.members, cloneStaff(m))
	}

	return d, nil
}

// Lookup resolves a staff id
func (d *StaffDirectory) Lookup(id string) (models.Staff, bool) {
	i, ok := d.byID[id]
	if !ok {
		return models.Staff{}, false
	}
	return cloneStaff(d.members[i]), true
}

// Name returns the display name for id, or UnknownStaffName
func (d *StaffDirectory) Name(id string) string {
	if s, ok := d.Lookup(id); ok {
		return s.Name
	}
	return UnknownStaffName
}

// List returns every member in directory order
func (d *StaffDirectory) List() []models.Staff {
	out := make([]models.Staff, 0, len(d.members))
	for _, m := range d.members {
		out = append(out, cloneStaff(m))
	}
	return out
}

// Handles reports whether staff member id works on category.
// Members without listed specialties handle every category.
func (d *StaffDirectory) Handles(id, category string) bool {
	i, ok := d.byID[id]
	if !ok {
		return false
	}
	specialties := d.members[i].Specialties
	if len(specialties) == 0 {
		return true
	}
	for _, s := range specialties {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(category)) {
			return true
		}
	}
	return false
}

func cloneStaff(s models.Staff) models.Staff {
	if s.Specialties != nil {
		s.Specialties = append([]string(nil), s.Specialties...)
	}
	return s
}
