package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/aawaaz/hostel-server/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerSealer receives the full list of entry hashes after every append
type LedgerSealer interface {
	BuildFromHashes(hashes []string)
}

// ActivityLogService keeps the append-only complaint history
type ActivityLogService struct {
	mu      sync.RWMutex
	entries []models.ActivityLog
	sealer  LedgerSealer
	clock   func() time.Time
	logger  *zap.SugaredLogger
}

// NewActivityLogService creates a new activity log service.
// sealer may be nil when no integrity ledger is kept.
func NewActivityLogService(sealer LedgerSealer, logger *zap.SugaredLogger) *ActivityLogService {
	return &ActivityLogService{
		sealer: sealer,
		clock:  time.Now,
		logger: logger,
	}
}

// Log records a complaint activity
func (s *ActivityLogService) Log(entry *models.ActivityLogEntry) (models.ActivityLog, error) {
	if entry.ActivityType == "" {
		return models.ActivityLog{}, fmt.Errorf("activity type is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log := models.ActivityLog{
		ID:                uuid.New(),
		ComplaintID:       entry.ComplaintID,
		TicketID:          entry.TicketID,
		ActivityType:      entry.ActivityType,
		ActionDescription: entry.ActionDescription,
		Actor:             entry.Actor,
		LedgerIndex:       len(s.entries),
		CreatedAt:         s.clock(),
	}
	log.Hash = hashActivity(log)
	s.entries = append(s.entries, log)

	if s.sealer != nil {
		s.sealer.BuildFromHashes(s.hashesLocked())
	}

	s.logger.Infow("Activity logged",
		"complaint_id", log.ComplaintID,
		"ticket", log.TicketID,
		"type", log.ActivityType,
		"actor", log.Actor,
	)

	return log, nil
}

// FetchByComplaint returns the history of one complaint, newest first
func (s *ActivityLogService) FetchByComplaint(complaintID int, limit int) []models.ActivityLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]models.ActivityLog, 0)
	for i := len(s.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(logs) == limit {
			break
		}
		if s.entries[i].ComplaintID == complaintID {
			logs = append(logs, s.entries[i])
		}
	}
	return logs
}

// FetchRecent returns recent activity across all complaints, newest first
func (s *ActivityLogService) FetchRecent(limit int) []models.ActivityLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]models.ActivityLog, 0)
	for i := len(s.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(logs) == limit {
			break
		}
		logs = append(logs, s.entries[i])
	}
	return logs
}

// Hashes returns the entry hashes in append order
func (s *ActivityLogService) Hashes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hashesLocked()
}

func (s *ActivityLogService) hashesLocked() []string {
	hashes := make([]string, len(s.entries))
	for i, e := range s.entries {
		hashes[i] = e.Hash
	}
	return hashes
}

// hashActivity digests every field of the entry except the hash itself
func hashActivity(l models.ActivityLog) string {
	canonical := fmt.Sprintf("%s|%d|%s|%s|%s|%s|%d|%s",
		l.ID, l.ComplaintID, l.TicketID, l.ActivityType,
		l.ActionDescription, l.Actor, l.LedgerIndex,
		l.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
