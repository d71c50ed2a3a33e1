/* session_test.go
 * Contains unit tests for the registration session state machine
 * Authors: Zachary Bower
 */

package session

import (
	"testing"
	"time"

	"teamreg-bot/tournament/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 6, 1, 14, 30, 0, 0, time.Local)

func TestOpen_FromIdle(t *testing.T) {
	s := New()

	err := s.Open("guild", "channel", testTime)

	require.NoError(t, err)
	assert.Equal(t, PhaseOpen, s.Phase())
	assert.True(t, s.Active())
	require.NotNil(t, s.OpenedAt())
	assert.Equal(t, testTime, *s.OpenedAt())

	guildID, channelID := s.ActiveChannel()
	assert.Equal(t, "guild", guildID)
	assert.Equal(t, "channel", channelID)
}

func TestOpen_WhileOpen(t *testing.T) {
	s := New()
	require.NoError(t, s.Open("guild", "channel", testTime))

	err := s.Open("guild", "other", testTime)

	assert.ErrorIs(t, err, shared.ErrAlreadyActive)
}

func TestOpen_FromClosed(t *testing.T) {
	s := New()
	require.NoError(t, s.Open("guild", "channel", testTime))
	s.Close()
	require.Equal(t, PhaseClosed, s.Phase())

	err := s.Open("guild", "channel", testTime.Add(time.Hour))

	require.NoError(t, err)
	assert.Equal(t, PhaseOpen, s.Phase())
}

func TestClose_OnlyFromOpen(t *testing.T) {
	s := New()

	s.Close()

	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestRestore_RewindsFailedOpen(t *testing.T) {
	s := New()
	require.NoError(t, s.Open("guild", "channel", testTime))
	s.Close()
	prevPhase := s.Phase()
	prevOpenedAt := s.OpenedAt()

	require.NoError(t, s.Open("guild", "channel", testTime.Add(time.Hour)))
	s.Restore(prevPhase, prevOpenedAt)

	assert.Equal(t, PhaseClosed, s.Phase())
	assert.Equal(t, prevOpenedAt, s.OpenedAt())
}

func TestSetSchedule_RangeValidation(t *testing.T) {
	s := New()

	assert.ErrorIs(t, s.SetSchedule(24, 0, "guild", "channel"), shared.ErrInvalidHour)
	assert.ErrorIs(t, s.SetSchedule(-1, 0, "guild", "channel"), shared.ErrInvalidHour)
	assert.ErrorIs(t, s.SetSchedule(12, 60, "guild", "channel"), shared.ErrInvalidMinute)
	assert.ErrorIs(t, s.SetSchedule(12, -1, "guild", "channel"), shared.ErrInvalidMinute)
	assert.Nil(t, s.Schedule())

	require.NoError(t, s.SetSchedule(14, 30, "guild", "channel"))
	require.NotNil(t, s.Schedule())
	assert.Equal(t, 14, s.Schedule().Hour)
	assert.Equal(t, 30, s.Schedule().Minute)
}

func TestDueForScheduledOpen(t *testing.T) {
	s := New()
	require.NoError(t, s.SetSchedule(14, 30, "guild", "channel"))

	_, due := s.DueForScheduledOpen(time.Date(2025, 6, 1, 14, 29, 0, 0, time.Local))
	assert.False(t, due)

	sched, due := s.DueForScheduledOpen(time.Date(2025, 6, 1, 14, 30, 59, 0, time.Local))
	require.True(t, due)
	assert.Equal(t, "channel", sched.ChannelID)
}

func TestDueForScheduledOpen_GuardedByOpenPhase(t *testing.T) {
	s := New()
	require.NoError(t, s.SetSchedule(14, 30, "guild", "channel"))
	require.NoError(t, s.Open("guild", "channel", testTime))

	// Once the window opened, the same minute must not re-fire
	_, due := s.DueForScheduledOpen(testTime)
	assert.False(t, due)
}

func TestDueForScheduledOpen_Disabled(t *testing.T) {
	s := New()
	require.NoError(t, s.SetSchedule(14, 30, "guild", "channel"))
	s.DisableSchedule()

	_, due := s.DueForScheduledOpen(testTime)
	assert.False(t, due)
}

func TestDueForExpiry(t *testing.T) {
	s := New()
	require.NoError(t, s.Open("guild", "channel", testTime))

	assert.False(t, s.DueForExpiry(testTime.Add(shared.ExpiryDuration-time.Minute)))
	assert.True(t, s.DueForExpiry(testTime.Add(shared.ExpiryDuration)))
	assert.True(t, s.DueForExpiry(testTime.Add(shared.ExpiryDuration+time.Hour)))
}

func TestExpiryFired_LeavesPhaseUntouched(t *testing.T) {
	s := New()
	require.NoError(t, s.Open("guild", "channel", testTime))

	s.ExpiryFired()

	assert.Nil(t, s.OpenedAt())
	assert.Equal(t, PhaseOpen, s.Phase())
	assert.False(t, s.DueForExpiry(testTime.Add(24*time.Hour)))
}

func TestReset_KeepsSchedule(t *testing.T) {
	s := New()
	require.NoError(t, s.SetSchedule(14, 30, "guild", "channel"))
	require.NoError(t, s.Open("guild", "channel", testTime))

	s.Reset()

	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Nil(t, s.OpenedAt())
	assert.NotNil(t, s.Schedule())
}
