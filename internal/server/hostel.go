package server

import (
	"fmt"
	"time"

	"github.com/aawaaz/hostel-server/internal/metrics"
	"github.com/aawaaz/hostel-server/internal/seed"
	"github.com/aawaaz/hostel-server/internal/services"
	"go.uber.org/zap"
)

// Hostel groups the stores that make up the server state
type Hostel struct {
	Staff         *services.StaffDirectory
	Registry      *services.ComplaintRegistry
	Announcements *services.AnnouncementLog
	Activity      *services.ActivityLogService
	Ledger        *services.MerkleService
}

// NewHostel builds the stores and loads doc into them. Both stores stamp
// records with clock, and announcement seeds are placed relative to its
// first reading.
func NewHostel(doc *seed.Document, clock func() time.Time, m *metrics.Metrics, logger *zap.SugaredLogger, opts ...services.RegistryOption) (*Hostel, error) {
	staff, err := services.NewStaffDirectory(doc.StaffMembers())
	if err != nil {
		return nil, fmt.Errorf("staff directory: %w", err)
	}

	ledger := services.NewMerkleService(logger)
	activity := services.NewActivityLogService(ledger, logger)

	opts = append([]services.RegistryOption{
		services.WithClock(clock),
		services.WithActivityLog(activity),
		services.WithMetrics(m),
	}, opts...)
	registry := services.NewComplaintRegistry(staff, logger, opts...)

	complaints, err := doc.ComplaintList()
	if err != nil {
		return nil, fmt.Errorf("seed complaints: %w", err)
	}
	if err := registry.Restore(complaints); err != nil {
		return nil, err
	}

	announcements := services.NewAnnouncementLog(m, logger, services.WithAnnouncementClock(clock))
	seeded, err := doc.AnnouncementList(clock())
	if err != nil {
		return nil, fmt.Errorf("seed announcements: %w", err)
	}
	if err := announcements.Restore(seeded); err != nil {
		return nil, err
	}

	return &Hostel{
		Staff:         staff,
		Registry:      registry,
		Announcements: announcements,
		Activity:      activity,
		Ledger:        ledger,
	}, nil
}
