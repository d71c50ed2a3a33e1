/* session.go
 * Contains the registration session state machine: Idle -> Open -> Closed,
 * the daily scheduled-open target and the 8 hour role expiry bookkeeping.
 * The session is a pure state object; platform side effects and locking live
 * in the coordinating tournament service
 * Authors: Zachary Bower
 */

package session

import (
	"time"

	"teamreg-bot/tournament/shared"
)

// Phase is the registration window state. Idle and Closed are behaviorally
// identical for validation; Closed just records that a window ran and ended.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseOpen
	PhaseClosed
)

// String returns the phase name for logs and status output
func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseClosed:
		return "closed"
	default:
		return "idle"
	}
}

// Schedule is a daily wall-clock open target
type Schedule struct {
	Hour      int
	Minute    int
	GuildID   string
	ChannelID string
}

// Session is the process-wide registration window. At most one exists.
type Session struct {
	phase     Phase
	guildID   string
	channelID string
	openedAt  *time.Time
	schedule  *Schedule
}

// New returns a session in the Idle phase
func New() *Session {
	return &Session{}
}

// Phase returns the current phase
func (s *Session) Phase() Phase {
	return s.phase
}

// Active reports whether registrations are currently accepted
func (s *Session) Active() bool {
	return s.phase == PhaseOpen
}

// ActiveChannel returns the guild and channel serving the current window
func (s *Session) ActiveChannel() (guildID, channelID string) {
	return s.guildID, s.channelID
}

// OpenedAt returns when the current window opened, or nil if the expiry has
// fired or no window has opened
func (s *Session) OpenedAt() *time.Time {
	return s.openedAt
}

// Open transitions Idle/Closed -> Open and starts the expiry clock.
// Preconditions: receives the guild and channel the window serves and the current time
// Postconditions: session is Open with openedAt set, or ErrAlreadyActive if a window is already open
func (s *Session) Open(guildID, channelID string, now time.Time) error {
	if s.phase == PhaseOpen {
		return shared.ErrAlreadyActive
	}
	s.phase = PhaseOpen
	s.guildID = guildID
	s.channelID = channelID
	s.openedAt = &now
	return nil
}

// Close transitions Open -> Closed. Triggered on fullness or by an admin.
func (s *Session) Close() {
	if s.phase == PhaseOpen {
		s.phase = PhaseClosed
	}
}

// Restore rewinds the phase machine after a failed open, e.g. when the
// platform refuses to create the shared role
func (s *Session) Restore(phase Phase, openedAt *time.Time) {
	s.phase = phase
	s.openedAt = openedAt
}

// Reset returns the session to Idle. The schedule survives a reset.
func (s *Session) Reset() {
	s.phase = PhaseIdle
	s.guildID = ""
	s.channelID = ""
	s.openedAt = nil
}

// SetSchedule stores the daily open target after range-validating it.
// Preconditions: receives a 24-hour wall clock target and the guild/channel the scheduled window should serve
// Postconditions: schedule is stored, or ErrInvalidHour / ErrInvalidMinute for out of range input
func (s *Session) SetSchedule(hour, minute int, guildID, channelID string) error {
	if hour < 0 || hour > 23 {
		return shared.ErrInvalidHour
	}
	if minute < 0 || minute > 59 {
		return shared.ErrInvalidMinute
	}
	s.schedule = &Schedule{Hour: hour, Minute: minute, GuildID: guildID, ChannelID: channelID}
	return nil
}

// Schedule returns the daily open target, or nil if none is set
func (s *Session) Schedule() *Schedule {
	return s.schedule
}

// DisableSchedule clears the daily open target before the next tick
func (s *Session) DisableSchedule() {
	s.schedule = nil
}

// DueForScheduledOpen reports whether the minute tick should auto-open.
// De-duplication within the target minute relies on the tick cadence plus the
// Open-state guard: once the window opens the check stops matching.
func (s *Session) DueForScheduledOpen(now time.Time) (Schedule, bool) {
	if s.schedule == nil || s.phase == PhaseOpen {
		return Schedule{}, false
	}
	if now.Hour() != s.schedule.Hour || now.Minute() != s.schedule.Minute {
		return Schedule{}, false
	}
	return *s.schedule, true
}

// DueForExpiry reports whether 8 hours have passed since the window opened
func (s *Session) DueForExpiry(now time.Time) bool {
	return s.openedAt != nil && now.Sub(*s.openedAt) >= shared.ExpiryDuration
}

// ExpiryFired clears the expiry clock. Phase is left untouched: the expiry
// only lapses role grants, it does not end the window or clear the registry.
func (s *Session) ExpiryFired() {
	s.openedAt = nil
}
