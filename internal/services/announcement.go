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

// AnnouncementLog owns the hostel announcements. Posted announcements are
// never edited or removed.
type AnnouncementLog struct {
	mu            sync.RWMutex
	announcements []models.Announcement
	lastID        int
	clock         func() time.Time
	metrics       *metrics.Metrics
	logger        *zap.SugaredLogger
}

// AnnouncementOption configures an AnnouncementLog.
type AnnouncementOption func(*AnnouncementLog)

// WithAnnouncementClock sets the time source used for postedOn.
func WithAnnouncementClock(clock func() time.Time) AnnouncementOption {
	return func(l *AnnouncementLog) {
		l.clock = clock
	}
}

// NewAnnouncementLog creates an empty announcement log.
// m may be nil.
func NewAnnouncementLog(m *metrics.Metrics, logger *zap.SugaredLogger, opts ...AnnouncementOption) *AnnouncementLog {
	l := &AnnouncementLog{
		announcements: make([]models.Announcement, 0),
		clock:         time.Now,
		metrics:       m,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Restore loads existing announcements, typically seed data
func (l *AnnouncementLog) Restore(announcements []models.Announcement) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[int]bool, len(l.announcements)+len(announcements))
	for _, a := range l.announcements {
		seen[a.ID] = true
	}

	lastID := l.lastID
	for _, a := range announcements {
		if a.ID <= 0 {
			return fmt.Errorf("restore announcement %d: id must be positive", a.ID)
		}
		if seen[a.ID] {
			return fmt.Errorf("restore announcement %d: duplicate id", a.ID)
		}
		if strings.TrimSpace(a.Message) == "" {
			return fmt.Errorf("restore announcement %d: %w", a.ID, ErrEmptyMessage)
		}
		seen[a.ID] = true
		lastID = max(lastID, a.ID)
	}

	l.announcements = append(l.announcements, announcements...)
	l.lastID = lastID
	return nil
}

// Post appends a new announcement stamped with the current time
func (l *AnnouncementLog) Post(message string) (models.Announcement, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.Announcement{}, ErrEmptyMessage
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastID++
	a := models.Announcement{
		ID:       l.lastID,
		Message:  message,
		PostedOn: l.clock(),
	}
	l.announcements = append(l.announcements, a)
	l.metrics.AnnouncementPosted()

	l.logger.Infow("Announcement posted", "id", a.ID, "length", len(message))
	return a, nil
}

// ListRecent returns all announcements, most recent first
func (l *AnnouncementLog) ListRecent() []models.Announcement {
	l.mu.RLock()
	out := slices.Clone(l.announcements)
	l.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b models.Announcement) int {
		if c := b.PostedOn.Compare(a.PostedOn); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}
