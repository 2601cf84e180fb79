package services_test

import (
	"testing"
	"time"

	"github.com/aawaaz/hostel-server/internal/models"
	"github.com/aawaaz/hostel-server/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAnnouncementLog() *services.AnnouncementLog {
	return services.NewAnnouncementLog(nil, zap.NewNop().Sugar(), services.WithAnnouncementClock(stepClock()))
}

func TestPost_AssignsSequentialIDs(t *testing.T) {
	l := newAnnouncementLog()

	first, err := l.Post("Water supply will be interrupted tomorrow.")
	require.NoError(t, err)
	second, err := l.Post("Sports day next Saturday.")
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.True(t, second.PostedOn.After(first.PostedOn))
}

func TestPost_RejectsBlankMessage(t *testing.T) {
	l := newAnnouncementLog()

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := l.Post(msg)
		assert.ErrorIs(t, err, services.ErrEmptyMessage)
	}
	assert.Empty(t, l.ListRecent())
}

func TestPost_TrimsMessage(t *testing.T) {
	l := newAnnouncementLog()

	a, err := l.Post("  Mess closed on Sunday.  ")

	require.NoError(t, err)
	assert.Equal(t, "Mess closed on Sunday.", a.Message)
}

func TestListRecent_NewestFirst(t *testing.T) {
	l := newAnnouncementLog()
	require.NoError(t, l.Restore([]models.Announcement{
		{ID: 1, Message: "older", PostedOn: base.Add(-48 * time.Hour)},
		{ID: 2, Message: "recent", PostedOn: base},
	}))

	posted, err := l.Post("newest")
	require.NoError(t, err)

	got := l.ListRecent()
	require.Len(t, got, 3)
	assert.Equal(t, posted.ID, got[0].ID)
	assert.Equal(t, 3, posted.ID, "ids continue after restored records")
	assert.Equal(t, "recent", got[1].Message)
	assert.Equal(t, "older", got[2].Message)
}

func TestListRecent_SameTimestampNewestIDFirst(t *testing.T) {
	l := services.NewAnnouncementLog(nil, zap.NewNop().Sugar(),
		services.WithAnnouncementClock(func() time.Time { return base }))

	_, _ = l.Post("a")
	b, _ := l.Post("b")

	assert.Equal(t, b.ID, l.ListRecent()[0].ID)
}

func TestListRecent_Empty(t *testing.T) {
	got := newAnnouncementLog().ListRecent()

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAnnouncementRestore_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		records []models.Announcement
	}{
		{"zero id", []models.Announcement{{ID: 0, Message: "x"}}},
		{"duplicate id", []models.Announcement{{ID: 1, Message: "x"}, {ID: 1, Message: "y"}}},
		{"empty message", []models.Announcement{{ID: 1, Message: " "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newAnnouncementLog()
			assert.Error(t, l.Restore(tt.records))
			assert.Empty(t, l.ListRecent())
		})
	}
}
