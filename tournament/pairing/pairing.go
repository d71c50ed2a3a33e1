/* pairing.go
 * Contains the pairing engine: partitions registered teams into groups of two
 * in registration order. Groups are derived state, fully recomputed each run
 * Authors: Zachary Bower
 */

package pairing

import (
	"teamreg-bot/tournament/registry"
	"teamreg-bot/tournament/shared"
)

// Group is a 1-based pairing of two consecutive teams. TeamB is nil for the
// unpaired trailing team of an odd-sized registry.
type Group struct {
	Index int
	TeamA registry.Team
	TeamB *registry.Team
}

// Paired reports whether the group holds two teams. Unpaired trailing groups
// receive no role or channel.
func (g Group) Paired() bool {
	return g.TeamB != nil
}

// Members returns the participants of both teams in team order
func (g Group) Members() []shared.Participant {
	members := append([]shared.Participant(nil), g.TeamA.Members...)
	if g.TeamB != nil {
		members = append(members, g.TeamB.Members...)
	}
	return members
}

// Validate checks the pairing preconditions.
// Preconditions: receives the registered user and team counts
// Postconditions: returns nil, or InsufficientTeamsError / TooManyUsersError with the current counts
func Validate(totalUsers, teamCount int) error {
	if totalUsers < shared.MinUsers || teamCount < 2 {
		return &shared.InsufficientTeamsError{Users: totalUsers, Teams: teamCount}
	}
	if totalUsers > shared.MaxUsers {
		return &shared.TooManyUsersError{Users: totalUsers}
	}
	return nil
}

// Build partitions teams into consecutive pairs in registration order:
// group 1 = (team 1, team 2), group 2 = (team 3, team 4), and so on. An odd
// team count leaves the final group unpaired.
func Build(teams []registry.Team) []Group {
	var groups []Group
	for i := 0; i < len(teams); i += 2 {
		group := Group{Index: len(groups) + 1, TeamA: teams[i]}
		if i+1 < len(teams) {
			second := teams[i+1]
			group.TeamB = &second
		}
		groups = append(groups, group)
	}
	return groups
}
