package outreach

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchivePendingVoidsFutureSteps(t *testing.T) {
	gdb := newTestDB(t)
	s := newTestScheduler(t)
	repo := &Repo{DB: gdb}

	tasks, err := s.Schedule(context.Background(), gdb, testInfo, ModeAuto, time.Now())
	require.NoError(t, err)

	// steps 1 and 2 already went out
	require.NoError(t, repo.MarkSent(tasks[0].ID))
	require.NoError(t, repo.MarkSent(tasks[1].ID))

	n, err := ArchivePending(gdb, testInfo.JobID, testInfo.JobNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	got, err := repo.ByJob(testInfo.JobID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, got[0].Status)
	assert.Equal(t, StatusSent, got[1].Status)
	for _, task := range got[2:] {
		assert.Equal(t, StatusArchived, task.Status)
	}

	var entries []FollowUpLogEntry
	require.NoError(t, gdb.Where("action = ?", ActionTaskArchived).Find(&entries).Error)
	require.Len(t, entries, 1)
}

func TestArchivePendingIsIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	s := newTestScheduler(t)

	_, err := s.Schedule(context.Background(), gdb, testInfo, ModeAuto, time.Now())
	require.NoError(t, err)

	n, err := ArchivePending(gdb, testInfo.JobID, testInfo.JobNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	n, err = ArchivePending(gdb, testInfo.JobID, testInfo.JobNumber)
	require.NoError(t, err)
	assert.Zero(t, n)

	// no second audit row for the no-op call
	var entries []FollowUpLogEntry
	require.NoError(t, gdb.Where("action = ?", ActionTaskArchived).Find(&entries).Error)
	assert.Len(t, entries, 1)
}

func TestArchivedTasksAreNeverDue(t *testing.T) {
	gdb := newTestDB(t)
	s := newTestScheduler(t)
	repo := &Repo{DB: gdb}

	_, err := s.Schedule(context.Background(), gdb, testInfo, ModeAuto, time.Now())
	require.NoError(t, err)
	_, err = ArchivePending(gdb, testInfo.JobID, testInfo.JobNumber)
	require.NoError(t, err)

	due, err := repo.DuePending(time.Now().Add(24 * time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)
}
