package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"glasscrm/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReminder(t *testing.T) (*Reminder, *gateway.FakeEmail, *RunState) {
	t.Helper()
	email := &gateway.FakeEmail{}
	state := &RunState{}
	rem := &Reminder{
		DB:            newTestDB(t),
		Email:         email,
		State:         state,
		To:            "owner@example.com",
		Hours:         testHours,
		FailureBudget: 3,
	}
	return rem, email, state
}

// openThread simulates a digest having gone out: a real thread exists on
// the fake gateway and the shared state is awaiting a reply on it.
func openThread(t *testing.T, email *gateway.FakeEmail, state *RunState, at time.Time) gateway.ThreadHandle {
	t.Helper()
	handle, err := email.Send(context.Background(), "owner@example.com", "Shop digest", "<p>digest</p>")
	require.NoError(t, err)
	state.ThreadHandle = handle
	state.LastDigestAt = at
	state.Awaiting = true
	return handle
}

func TestReminderIdleWithoutOpenThread(t *testing.T) {
	rem, email, _ := newTestReminder(t)

	require.NoError(t, rem.Tick(context.Background(), inHours))
	assert.Zero(t, email.ReplyCount())
}

func TestReminderNagsUntilReply(t *testing.T) {
	rem, email, state := newTestReminder(t)
	handle := openThread(t, email, state, inHours)

	require.NoError(t, rem.Tick(context.Background(), inHours.Add(5*time.Minute)))
	require.NoError(t, rem.Tick(context.Background(), inHours.Add(10*time.Minute)))
	assert.Equal(t, 2, email.ReplyCount())
	assert.Contains(t, email.Replies[0].Subject, "Reminder")

	// reply lands between 09:10 and 09:15
	email.InjectReply(handle)

	require.NoError(t, rem.Tick(context.Background(), inHours.Add(15*time.Minute)))
	assert.Equal(t, 2, email.ReplyCount(), "reply must stop the nagging")
	assert.False(t, state.Snapshot().Awaiting)

	require.NoError(t, rem.Tick(context.Background(), inHours.Add(20*time.Minute)))
	assert.Equal(t, 2, email.ReplyCount(), "no reminder after standing down")
}

func TestReminderOwnRepliesDontCountAsAnswers(t *testing.T) {
	rem, email, state := newTestReminder(t)
	openThread(t, email, state, inHours)

	for i := 1; i <= 3; i++ {
		require.NoError(t, rem.Tick(context.Background(), inHours.Add(time.Duration(5*i)*time.Minute)))
	}
	// three outbound reminders in the thread, still awaiting
	assert.Equal(t, 3, email.ReplyCount())
	assert.True(t, state.Snapshot().Awaiting)
}

func TestReminderSuppressedOutsideBusinessHours(t *testing.T) {
	rem, email, state := newTestReminder(t)
	openThread(t, email, state, inHours)

	require.NoError(t, rem.Tick(context.Background(), time.Date(2026, 3, 4, 21, 0, 0, 0, time.UTC)))
	assert.Zero(t, email.ReplyCount())
	assert.True(t, state.Snapshot().Awaiting, "window suppression is not a stop")
}

func TestReminderAuthFailureBudgetTripsBreaker(t *testing.T) {
	rem, email, state := newTestReminder(t)
	openThread(t, email, state, inHours)
	email.ThreadErr = &gateway.AuthError{Op: "email thread", Err: errors.New("relay returned 401")}

	for i := 1; i <= 2; i++ {
		require.NoError(t, rem.Tick(context.Background(), inHours.Add(time.Duration(5*i)*time.Minute)))
		assert.True(t, state.Snapshot().Awaiting, "budget not yet exhausted after %d failures", i)
	}

	require.NoError(t, rem.Tick(context.Background(), inHours.Add(15*time.Minute)))
	got := state.Snapshot()
	assert.False(t, got.Awaiting, "third consecutive auth failure trips the breaker")
	assert.Zero(t, got.AuthFailures)

	// even with the credential fixed, the loop stays down until a new digest
	email.ThreadErr = nil
	require.NoError(t, rem.Tick(context.Background(), inHours.Add(20*time.Minute)))
	assert.Zero(t, email.ReplyCount())
}

func TestReminderNonAuthErrorsDontCount(t *testing.T) {
	rem, email, state := newTestReminder(t)
	openThread(t, email, state, inHours)
	email.ThreadErr = errors.New("relay timeout")

	for i := 1; i <= 5; i++ {
		require.NoError(t, rem.Tick(context.Background(), inHours.Add(time.Duration(5*i)*time.Minute)))
	}
	got := state.Snapshot()
	assert.True(t, got.Awaiting, "transient errors must not trip the breaker")
	assert.Zero(t, got.AuthFailures)
}

func TestReminderSuccessResetsFailureStreak(t *testing.T) {
	rem, email, state := newTestReminder(t)
	openThread(t, email, state, inHours)

	email.ThreadErr = &gateway.AuthError{Op: "email thread", Err: errors.New("relay returned 401")}
	require.NoError(t, rem.Tick(context.Background(), inHours.Add(5*time.Minute)))
	require.NoError(t, rem.Tick(context.Background(), inHours.Add(10*time.Minute)))
	assert.Equal(t, 2, state.Snapshot().AuthFailures)

	email.ThreadErr = nil
	require.NoError(t, rem.Tick(context.Background(), inHours.Add(15*time.Minute)))
	got := state.Snapshot()
	assert.Zero(t, got.AuthFailures, "a successful send clears the streak")
	assert.True(t, got.Awaiting)
	assert.Equal(t, 1, email.ReplyCount())
}
