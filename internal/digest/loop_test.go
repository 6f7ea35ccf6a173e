package digest

import (
	"context"
	"testing"
	"time"

	"glasscrm/internal/crm"
	"glasscrm/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Full cycle with both loops sharing one RunState: digest at 09:00, nags at
// 09:05 and 09:10, owner reply before 09:15 stands the reminder down, and
// the next digest opens a fresh thread.
func TestDigestAndReminderCycle(t *testing.T) {
	gdb := newTestDB(t)
	email := &gateway.FakeEmail{}
	state := &RunState{}
	agg := &Aggregator{DB: gdb, Email: email, State: state, To: "owner@example.com", Hours: testHours}
	rem := &Reminder{DB: gdb, Email: email, State: state, To: "owner@example.com", Hours: testHours, FailureBudget: 3}
	ctx := context.Background()

	seedActivity(t, gdb)

	require.NoError(t, agg.Tick(ctx, inHours)) // 09:00
	require.Equal(t, 1, email.SentCount())
	handle := email.LastHandle()

	require.NoError(t, rem.Tick(ctx, inHours.Add(5*time.Minute)))  // 09:05
	require.NoError(t, rem.Tick(ctx, inHours.Add(10*time.Minute))) // 09:10
	assert.Equal(t, 2, email.ReplyCount())

	email.InjectReply(handle) // owner answers between 09:10 and 09:15

	require.NoError(t, rem.Tick(ctx, inHours.Add(15*time.Minute))) // 09:15: detects, stops
	require.NoError(t, rem.Tick(ctx, inHours.Add(20*time.Minute))) // 09:20: idle
	assert.Equal(t, 2, email.ReplyCount())
	assert.False(t, state.Snapshot().Awaiting)

	// fresh activity; next digest tick opens a new thread
	require.NoError(t, gdb.Create(&crm.Lead{Name: "Afternoon Lead", Phone: "+1888"}).Error)
	state.LastDigestAt = inHours.Add(-24 * time.Hour) // keep fixture rows in scope
	require.NoError(t, agg.Tick(ctx, inHours.Add(40*time.Minute)))
	require.Equal(t, 2, email.SentCount())
	assert.NotEqual(t, handle, email.LastHandle())
	assert.True(t, state.Snapshot().Awaiting)
}
