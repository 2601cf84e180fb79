// Package seed loads the records the server starts with. The default
// document is embedded; a file can replace it at startup.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aawaaz/hostel-server/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

// Document is the seed file layout
type Document struct {
	Staff         []StaffRecord        `yaml:"staff"`
	Complaints    []ComplaintRecord    `yaml:"complaints"`
	Announcements []AnnouncementRecord `yaml:"announcements"`
}

// StaffRecord is one directory entry
type StaffRecord struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Specialties []string `yaml:"specialties"`
}

// ComplaintRecord is a complaint with RFC 3339 timestamps
type ComplaintRecord struct {
	ID          int    `yaml:"id"`
	TicketID    string `yaml:"ticket_id"`
	Room        string `yaml:"room"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	AssignedTo  string `yaml:"assigned_to"`
	FiledOn     string `yaml:"filed_on"`
	ResolvedOn  string `yaml:"resolved_on"`
	StudentID   string `yaml:"student_id"`
}

// AnnouncementRecord is posted PostedAgo before process start
type AnnouncementRecord struct {
	ID        int    `yaml:"id"`
	Message   string `yaml:"message"`
	PostedAgo string `yaml:"posted_ago"`
}

// Default parses the embedded seed document
func Default() (*Document, error) {
	return Parse(defaultDocument)
}

// Load reads the seed document at path, or the embedded one when path is empty
func Load(path string) (*Document, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document, rejecting unknown fields. An empty
// document yields no records.
func Parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed document: %w", err)
	}
	return &doc, nil
}

// StaffMembers converts the staff records
func (d *Document) StaffMembers() []models.Staff {
	members := make([]models.Staff, 0, len(d.Staff))
	for _, s := range d.Staff {
		members = append(members, models.Staff{
			ID:          s.ID,
			Name:        s.Name,
			Specialties: s.Specialties,
		})
	}
	return members
}

// ComplaintList converts the complaint records
func (d *Document) ComplaintList() ([]models.Complaint, error) {
	complaints := make([]models.Complaint, 0, len(d.Complaints))
	for _, r := range d.Complaints {
		status := models.ParseStatus(r.Status)
		if status == "" {
			return nil, fmt.Errorf("complaint %d: unknown status %q", r.ID, r.Status)
		}

		filedOn, err := time.Parse(time.RFC3339, r.FiledOn)
		if err != nil {
			return nil, fmt.Errorf("complaint %d: filed_on: %w", r.ID, err)
		}

		c := models.Complaint{
			ID:          r.ID,
			TicketID:    r.TicketID,
			Room:        r.Room,
			Category:    r.Category,
			Description: r.Description,
			Status:      status,
			FiledOn:     filedOn,
			StudentID:   r.StudentID,
		}
		if r.AssignedTo != "" {
			assignee := r.AssignedTo
			c.AssignedTo = &assignee
		}
		if r.ResolvedOn != "" {
			resolvedOn, err := time.Parse(time.RFC3339, r.ResolvedOn)
			if err != nil {
				return nil, fmt.Errorf("complaint %d: resolved_on: %w", r.ID, err)
			}
			c.ResolvedOn = &resolvedOn
		}
		complaints = append(complaints, c)
	}
	return complaints, nil
}

// AnnouncementList converts the announcement records relative to now
func (d *Document) AnnouncementList(now time.Time) ([]models.Announcement, error) {
	announcements := make([]models.Announcement, 0, len(d.Announcements))
	for _, r := range d.Announcements {
		ago := time.Duration(0)
		if r.PostedAgo != "" {
			var err error
			ago, err = time.ParseDuration(r.PostedAgo)
			if err != nil {
				return nil, fmt.Errorf("announcement %d: posted_ago: %w", r.ID, err)
			}
		}
		announcements = append(announcements, models.Announcement{
			ID:       r.ID,
			Message:  r.Message,
			PostedOn: now.Add(-ago),
		})
	}
	return announcements, nil
}
