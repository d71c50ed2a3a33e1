/* registry.go
 * Contains the team registry: the ordered list of registered teams and the
 * validate-and-add logic that enforces membership, uniqueness and capacity
 * invariants. The registry is not internally locked; the coordinating
 * tournament service owns the critical section
 * Authors: Zachary Bower
 */

package registry

import (
	"strings"

	"teamreg-bot/tournament/shared"
)

// Team is a registered team: a name plus exactly UsersPerTeam members in the
// order they were mentioned. Teams are immutable once registered.
type Team struct {
	Name    string
	Members []shared.Participant
}

// Registry holds registered teams in registration order. Order is significant:
// the pairing engine pairs consecutive teams.
type Registry struct {
	teams []Team
}

// AddResult describes a successful registration
type AddResult struct {
	Team       Team
	TeamNumber int
	TotalUsers int
}

// New returns an empty registry
func New() *Registry {
	return &Registry{}
}

// Add validates a candidate team against the registry and appends it on
// success. Validation order matters: an already-registered mention rejects the
// attempt immediately, unknown members are collected across the whole attempt,
// and capacity is checked last.
// Preconditions: receives the team name, the candidate members, and a membership check resolved by the platform
// Postconditions: returns the add result, or one of AlreadyRegisteredError, UnknownParticipantError, CapacityExceededError with the registry unchanged
func (r *Registry) Add(name string, members []shared.Participant, isMember func(id string) bool) (AddResult, error) {
	registered := r.memberIDs()

	var unknown []string
	for _, m := range members {
		if !isMember(m.ID) {
			unknown = append(unknown, m.Username)
			continue
		}
		if registered[m.ID] {
			return AddResult{}, &shared.AlreadyRegisteredError{Participant: m}
		}
	}
	if len(unknown) > 0 {
		return AddResult{}, &shared.UnknownParticipantError{Usernames: unknown}
	}

	current := r.TotalUsers()
	attempted := current + len(members)
	if attempted > shared.MaxUsers {
		return AddResult{}, &shared.CapacityExceededError{Current: current, Attempted: attempted}
	}

	team := Team{Name: name, Members: append([]shared.Participant(nil), members...)}
	r.teams = append(r.teams, team)

	return AddResult{
		Team:       team,
		TeamNumber: len(r.teams),
		TotalUsers: attempted,
	}, nil
}

// Teams returns a copy of the registered teams in registration order
func (r *Registry) Teams() []Team {
	return append([]Team(nil), r.teams...)
}

// FindByName returns the team with an exact name match (case insensitive)
func (r *Registry) FindByName(name string) (Team, bool) {
	for _, t := range r.teams {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Team{}, false
}

// Names returns the registered team names in registration order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.teams))
	for _, t := range r.teams {
		names = append(names, t.Name)
	}
	return names
}

// Len returns the number of registered teams
func (r *Registry) Len() int {
	return len(r.teams)
}

// TotalUsers returns the number of participants across all registered teams
func (r *Registry) TotalUsers() int {
	total := 0
	for _, t := range r.teams {
		total += len(t.Members)
	}
	return total
}

// AllMembers returns every registered participant in registration order
func (r *Registry) AllMembers() []shared.Participant {
	var members []shared.Participant
	for _, t := range r.teams {
		members = append(members, t.Members...)
	}
	return members
}

// Clear removes every registered team
func (r *Registry) Clear() {
	r.teams = nil
}

// memberIDs returns the set of participant ids currently registered
func (r *Registry) memberIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, t := range r.teams {
		for _, m := range t.Members {
			ids[m.ID] = true
		}
	}
	return ids
}
