/* tournament.go
 * Contains the coordinating tournament service. It owns the registry, session
 * and grant planner behind a single mutex: discordgo dispatches events on
 * separate goroutines and the minute ticker runs beside them, so every
 * validate-then-mutate sequence runs as one critical section
 * Authors: Zachary Bower
 */

package tournament

import (
	"sync"
	"time"

	"teamreg-bot/tournament/grants"
	"teamreg-bot/tournament/pairing"
	"teamreg-bot/tournament/parser"
	"teamreg-bot/tournament/registry"
	"teamreg-bot/tournament/session"
	"teamreg-bot/tournament/shared"

	"go.uber.org/zap"
)

// Tournament is the single coordinating service instance for one logical
// tournament. All state is in memory and reset on process restart.
type Tournament struct {
	mu       sync.Mutex
	registry *registry.Registry
	session  *session.Session
	planner  *grants.Planner
	platform grants.Platform
	log      *zap.Logger
	now      func() time.Time
}

// New creates a tournament service applying grants through the given platform
func New(platform grants.Platform, log *zap.Logger) *Tournament {
	return &Tournament{
		registry: registry.New(),
		session:  session.New(),
		planner:  grants.NewPlanner(platform, log),
		platform: platform,
		log:      log,
		now:      time.Now,
	}
}

// RegistrationResult describes a successful team registration
type RegistrationResult struct {
	Team       registry.Team
	TeamNumber int
	TotalUsers int
	// Full is set when this registration filled the last slots and closed the window
	Full bool
}

// PairingResult describes a completed pairing run
type PairingResult struct {
	TotalUsers  int
	TotalTeams  int
	TotalGroups int
	Created     []grants.GrantedGroup
	Cleanup     grants.BulkOutcome
}

// ClearReport summarises a full reset
type ClearReport struct {
	Teams           int
	Users           int
	ChannelsDeleted int
	RolesDeleted    int
}

// StatusReport is a snapshot of the registration state
type StatusReport struct {
	Active     bool
	Teams      int
	TotalUsers int
	Remaining  int
	CanPair    bool
	Schedule   *session.Schedule
	// ExpiryHoursLeft is the time until role grants lapse, nil when no
	// expiry clock is running
	ExpiryHoursLeft *float64
}

// TickEventKind identifies what a scheduler tick did
type TickEventKind int

const (
	TickAutoOpened TickEventKind = iota
	TickAutoOpenFailed
	TickRolesExpired
)

// TickEvent is emitted by Tick for the caller to announce
type TickEvent struct {
	Kind      TickEventKind
	GuildID   string
	ChannelID string
	Err       error
}

// SetScheduledOpen stores the daily auto-open target.
// Preconditions: receives a 24-hour wall clock target and the guild/channel the window should serve
// Postconditions: the schedule is stored, or a range error is returned
func (t *Tournament) SetScheduledOpen(guildID, channelID string, hour, minute int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.session.SetSchedule(hour, minute, guildID, channelID); err != nil {
		return err
	}
	t.log.Info("scheduled daily registration open",
		zap.Int("hour", hour), zap.Int("minute", minute), zap.String("channel", channelID))
	return nil
}

// DisableScheduledOpen clears the daily auto-open target before the next tick
func (t *Tournament) DisableScheduledOpen() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.session.DisableSchedule()
	t.log.Info("disabled scheduled registration open")
}

// Open starts a registration window in the given channel. The manual command
// and the scheduler share this transition.
// Preconditions: receives the guild and channel the window serves
// Postconditions: window is open with a cleared registry and the shared role ensured, or ErrAlreadyActive, or the platform error with the phase rolled back
func (t *Tournament) Open(guildID, channelID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.openLocked(guildID, channelID, t.now())
}

func (t *Tournament) openLocked(guildID, channelID string, now time.Time) error {
	prevPhase := t.session.Phase()
	prevOpenedAt := t.session.OpenedAt()

	if err := t.session.Open(guildID, channelID, now); err != nil {
		return err
	}
	t.registry.Clear()

	if err := t.planner.EnsureRegisteredRole(guildID); err != nil {
		t.session.Restore(prevPhase, prevOpenedAt)
		return err
	}

	t.log.Info("registration opened", zap.String("channel", channelID))
	return nil
}

// HandleCandidateMessage treats a chat message as a registration attempt.
// Messages outside the active window or channel, and messages that do not
// mention exactly four distinct users, are silently ignored (nil, nil).
// Preconditions: receives the message origin, raw content, and the mentioned users in message order
// Postconditions: the team is registered and the shared role granted, or a validation error is returned with the registry unchanged
func (t *Tournament) HandleCandidateMessage(guildID, channelID, content string, mentions []shared.Participant) (*RegistrationResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.session.Active() {
		return nil, nil
	}
	if activeGuild, activeChannel := t.session.ActiveChannel(); guildID != activeGuild || channelID != activeChannel {
		return nil, nil
	}

	candidate, ok := parser.Parse(content, mentions, t.registry.Len())
	if !ok {
		return nil, nil
	}

	res, err := t.registry.Add(candidate.Name, candidate.Members, func(id string) bool {
		return t.platform.IsMember(guildID, id)
	})
	if err != nil {
		return nil, err
	}

	// Best-effort: a failed role grant does not undo the registration
	t.planner.GrantRegistered(guildID, res.Team.Members)

	result := &RegistrationResult{
		Team:       res.Team,
		TeamNumber: res.TeamNumber,
		TotalUsers: res.TotalUsers,
	}
	if res.TotalUsers >= shared.MaxUsers {
		t.session.Close()
		result.Full = true
	}

	t.log.Info("team registered",
		zap.String("team", res.Team.Name),
		zap.Int("total_users", res.TotalUsers),
		zap.Bool("full", result.Full))
	return result, nil
}

// RunPairing partitions the registry into groups of two consecutive teams and
// applies the derived role/channel grants. Previous group artifacts are torn
// down first so re-pairing never leaves stale access.
// Preconditions: none beyond the pairing preconditions; runs independently of the session phase
// Postconditions: returns the created groups and cleanup summary, or a precondition/platform error
func (t *Tournament) RunPairing(guildID string) (*PairingResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	users := t.registry.TotalUsers()
	teams := t.registry.Len()
	if err := pairing.Validate(users, teams); err != nil {
		return nil, err
	}

	groups := pairing.Build(t.registry.Teams())
	created, cleanup, err := t.planner.ApplyGroups(guildID, groups)
	if err != nil {
		return nil, err
	}

	t.log.Info("teams paired",
		zap.Int("teams", teams), zap.Int("groups", len(groups)),
		zap.Int("cleanup_failures", cleanup.FailedCount()))
	return &PairingResult{
		TotalUsers:  users,
		TotalTeams:  teams,
		TotalGroups: len(groups),
		Created:     created,
		Cleanup:     cleanup,
	}, nil
}

// ListTeams returns the registered teams in registration order
func (t *Tournament) ListTeams() []registry.Team {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.registry.Teams()
}

// TeamNames returns the registered team names in registration order
func (t *Tournament) TeamNames() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.registry.Names()
}

// FindTeam returns the team with the given name (case insensitive)
func (t *Tournament) FindTeam(name string) (registry.Team, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.registry.FindByName(name)
}

// Status returns a snapshot of the registration state
func (t *Tournament) Status() StatusReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	users := t.registry.TotalUsers()
	report := StatusReport{
		Active:     t.session.Active(),
		Teams:      t.registry.Len(),
		TotalUsers: users,
		Remaining:  shared.MaxUsers - users,
		CanPair:    users >= shared.MinUsers,
		Schedule:   t.session.Schedule(),
	}
	if openedAt := t.session.OpenedAt(); openedAt != nil {
		hours := (shared.ExpiryDuration - t.now().Sub(*openedAt)).Hours()
		report.ExpiryHoursLeft = &hours
	}
	return report
}

// ClearAll revokes every grant, deletes group channels and roles, clears the
// registry and returns the session to Idle. Platform teardown is best-effort.
func (t *Tournament) ClearAll(guildID string) ClearReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	teams := t.registry.Len()
	users := t.registry.TotalUsers()

	outcome := t.planner.ClearAll(guildID)
	t.registry.Clear()
	t.session.Reset()

	t.log.Info("cleared all registrations",
		zap.Int("teams", teams), zap.Int("users", users),
		zap.Int("channels_deleted", outcome.ChannelsDeleted),
		zap.Int("roles_deleted", outcome.RolesDeleted),
		zap.Int("failures", outcome.Outcome.FailedCount()))
	return ClearReport{
		Teams:           teams,
		Users:           users,
		ChannelsDeleted: outcome.ChannelsDeleted,
		RolesDeleted:    outcome.RolesDeleted,
	}
}

// Tick runs the minute-granularity background checks: the scheduled auto-open
// and the 8 hour role expiry. It returns events for the caller to announce.
// The expiry clears role grants only; phase and registry are left untouched.
func (t *Tournament) Tick(now time.Time) []TickEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	var events []TickEvent

	if sched, due := t.session.DueForScheduledOpen(now); due {
		event := TickEvent{Kind: TickAutoOpened, GuildID: sched.GuildID, ChannelID: sched.ChannelID}
		if err := t.openLocked(sched.GuildID, sched.ChannelID, now); err != nil {
			event.Kind = TickAutoOpenFailed
			event.Err = err
			t.log.Warn("scheduled registration open failed", zap.Error(err))
		}
		events = append(events, event)
	}

	if t.session.DueForExpiry(now) {
		guildID, channelID := t.session.ActiveChannel()
		outcome := t.planner.RevokeAllRoles(guildID)
		t.session.ExpiryFired()
		t.log.Info("role grants expired",
			zap.Int("revoked", outcome.Succeeded),
			zap.Int("failures", outcome.FailedCount()))
		events = append(events, TickEvent{Kind: TickRolesExpired, GuildID: guildID, ChannelID: channelID})
	}

	return events
}
