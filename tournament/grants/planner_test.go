/* planner_test.go
 * Contains unit tests for the access grant planner using the mock platform
 * Authors: Zachary Bower
 */

package grants

import (
	"errors"
	"fmt"
	"testing"

	"teamreg-bot/tournament/pairing"
	"teamreg-bot/tournament/registry"
	"teamreg-bot/tournament/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const guild = "guild"

func testTeams(n int) []registry.Team {
	var out []registry.Team
	for i := 0; i < n; i++ {
		var members []shared.Participant
		for j := 0; j < shared.UsersPerTeam; j++ {
			id := fmt.Sprintf("u%d", i*shared.UsersPerTeam+j)
			members = append(members, shared.Participant{ID: id, Username: id})
		}
		out = append(out, registry.Team{Name: fmt.Sprintf("T%d", i+1), Members: members})
	}
	return out
}

func newTestPlanner() (*Planner, *MockPlatform) {
	platform := NewMockPlatform()
	return NewPlanner(platform, zap.NewNop()), platform
}

func TestEnsureRegisteredRole_CreatesThenReuses(t *testing.T) {
	planner, platform := newTestPlanner()

	require.NoError(t, planner.EnsureRegisteredRole(guild))
	first := *planner.RegisteredRole()

	require.NoError(t, planner.EnsureRegisteredRole(guild))

	assert.Equal(t, first.ID, planner.RegisteredRole().ID, "ensure must reuse the existing role")
	_, ok := platform.RoleByName(shared.RegisteredRoleName)
	assert.True(t, ok)
}

func TestEnsureRegisteredRole_PermissionDenied(t *testing.T) {
	planner, platform := newTestPlanner()
	platform.EnsureRoleErr = fmt.Errorf("%w: missing Manage Roles", shared.ErrPermissionDenied)

	err := planner.EnsureRegisteredRole(guild)

	assert.ErrorIs(t, err, shared.ErrPermissionDenied)
	assert.Nil(t, planner.RegisteredRole())
}

func TestGrantRegistered(t *testing.T) {
	planner, platform := newTestPlanner()
	require.NoError(t, planner.EnsureRegisteredRole(guild))
	team := testTeams(1)[0]

	outcome := planner.GrantRegistered(guild, team.Members)

	assert.Equal(t, 4, outcome.Succeeded)
	assert.Zero(t, outcome.FailedCount())
	assert.ElementsMatch(t, []string{"u0", "u1", "u2", "u3"}, platform.HoldersOf(shared.RegisteredRoleName))
}

func TestGrantRegistered_BestEffort(t *testing.T) {
	planner, platform := newTestPlanner()
	require.NoError(t, planner.EnsureRegisteredRole(guild))
	platform.AddRoleErr = errors.New("boom")

	outcome := planner.GrantRegistered(guild, testTeams(1)[0].Members)

	assert.Equal(t, 0, outcome.Succeeded)
	assert.Equal(t, 4, outcome.FailedCount())
}

func TestApplyGroups_CreatesRolesAndChannels(t *testing.T) {
	planner, platform := newTestPlanner()
	groups := pairing.Build(testTeams(4))

	created, cleanup, err := planner.ApplyGroups(guild, groups)

	require.NoError(t, err)
	assert.Zero(t, cleanup.FailedCount())
	require.Len(t, created, 2)
	assert.Equal(t, "Grp1", created[0].Role.Name)
	assert.Equal(t, "group-1", created[0].Channel.Name)
	assert.Equal(t, "Grp2", created[1].Role.Name)
	assert.Equal(t, "group-2", created[1].Channel.Name)

	_, ok := platform.ChannelByName(shared.GroupCategoryName)
	assert.True(t, ok, "category must be created")
	assert.ElementsMatch(t,
		[]string{"u0", "u1", "u2", "u3", "u4", "u5", "u6", "u7"},
		platform.HoldersOf("Grp1"))
}

func TestApplyGroups_SkipsUnpairedTrailingTeam(t *testing.T) {
	planner, platform := newTestPlanner()
	groups := pairing.Build(testTeams(5))

	created, _, err := planner.ApplyGroups(guild, groups)

	require.NoError(t, err)
	require.Len(t, created, 2, "the unpaired trailing team receives no artifacts")
	_, ok := platform.RoleByName("Grp3")
	assert.False(t, ok)
	_, ok = platform.ChannelByName("group-3")
	assert.False(t, ok)
}

func TestApplyGroups_CleansUpPreviousGrouping(t *testing.T) {
	planner, platform := newTestPlanner()

	firstGroups := pairing.Build(testTeams(2))
	_, _, err := planner.ApplyGroups(guild, firstGroups)
	require.NoError(t, err)
	firstRole, ok := platform.RoleByName("Grp1")
	require.True(t, ok)

	// Re-pair with a different set of teams
	newTeams := testTeams(4)[2:]
	_, cleanup, err := planner.ApplyGroups(guild, pairing.Build(newTeams))
	require.NoError(t, err)

	assert.Zero(t, cleanup.FailedCount())
	newRole, ok := platform.RoleByName("Grp1")
	require.True(t, ok)
	assert.NotEqual(t, firstRole.ID, newRole.ID, "the previous role must be deleted, not reused")
	assert.ElementsMatch(t,
		[]string{"u8", "u9", "u10", "u11", "u12", "u13", "u14", "u15"},
		platform.HoldersOf("Grp1"),
		"no holder of the prior grouping may survive a re-pair")
}

func TestApplyGroups_RoleCreationFailureAborts(t *testing.T) {
	planner, platform := newTestPlanner()
	platform.EnsureRoleErr = fmt.Errorf("%w: missing Manage Roles", shared.ErrPermissionDenied)

	created, _, err := planner.ApplyGroups(guild, pairing.Build(testTeams(2)))

	assert.ErrorIs(t, err, shared.ErrPermissionDenied)
	assert.Empty(t, created)
}

func TestCleanupGroups_BestEffort(t *testing.T) {
	planner, platform := newTestPlanner()
	_, _, err := planner.ApplyGroups(guild, pairing.Build(testTeams(2)))
	require.NoError(t, err)

	// One member's revoke fails; cleanup must still visit everything else
	platform.RemoveRoleFailFor = map[string]error{"u2": errors.New("boom")}
	outcome := planner.CleanupGroups(guild)

	assert.Equal(t, 1, outcome.FailedCount())
	// 7 revokes + 1 role delete + 1 channel delete
	assert.Equal(t, 9, outcome.Succeeded)
	_, ok := platform.RoleByName("Grp1")
	assert.False(t, ok, "role deletion must proceed past a failed revoke")
	_, ok = platform.ChannelByName("group-1")
	assert.False(t, ok)
}

func TestRevokeAllRoles_KeepsArtifacts(t *testing.T) {
	planner, platform := newTestPlanner()
	require.NoError(t, planner.EnsureRegisteredRole(guild))
	teams := testTeams(2)
	planner.GrantRegistered(guild, teams[0].Members)
	planner.GrantRegistered(guild, teams[1].Members)
	_, _, err := planner.ApplyGroups(guild, pairing.Build(teams))
	require.NoError(t, err)

	outcome := planner.RevokeAllRoles(guild)

	assert.Zero(t, outcome.FailedCount())
	assert.Empty(t, platform.HoldersOf(shared.RegisteredRoleName))
	assert.Empty(t, platform.HoldersOf("Grp1"))
	// Expiry lapses grants only; roles and channels stay
	_, ok := platform.RoleByName(shared.RegisteredRoleName)
	assert.True(t, ok)
	_, ok = platform.RoleByName("Grp1")
	assert.True(t, ok)
	_, ok = platform.ChannelByName("group-1")
	assert.True(t, ok)
}

func TestClearAll(t *testing.T) {
	planner, platform := newTestPlanner()
	require.NoError(t, planner.EnsureRegisteredRole(guild))
	teams := testTeams(2)
	planner.GrantRegistered(guild, teams[0].Members)
	planner.GrantRegistered(guild, teams[1].Members)
	_, _, err := planner.ApplyGroups(guild, pairing.Build(teams))
	require.NoError(t, err)

	outcome := planner.ClearAll(guild)

	assert.Equal(t, 1, outcome.ChannelsDeleted)
	assert.Equal(t, 1, outcome.RolesDeleted)
	assert.Empty(t, platform.HoldersOf(shared.RegisteredRoleName))
	_, ok := platform.RoleByName("Grp1")
	assert.False(t, ok)
	_, ok = platform.ChannelByName("group-1")
	assert.False(t, ok)
	// The shared role survives for the next window
	_, ok = platform.RoleByName(shared.RegisteredRoleName)
	assert.True(t, ok)
}
