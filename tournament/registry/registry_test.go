/* registry_test.go
 * Contains unit tests for the team registry validation and invariants
 * Authors: Zachary Bower
 */

package registry

import (
	"fmt"
	"testing"

	"teamreg-bot/tournament/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func team(start int) []shared.Participant {
	var members []shared.Participant
	for i := start; i < start+shared.UsersPerTeam; i++ {
		members = append(members, shared.Participant{ID: fmt.Sprintf("u%d", i), Username: fmt.Sprintf("user%d", i)})
	}
	return members
}

func allMembers(id string) bool {
	return true
}

func TestAdd_Success(t *testing.T) {
	r := New()

	res, err := r.Add("Alpha", team(0), allMembers)

	require.NoError(t, err)
	assert.Equal(t, "Alpha", res.Team.Name)
	assert.Equal(t, 1, res.TeamNumber)
	assert.Equal(t, 4, res.TotalUsers)
	assert.Equal(t, 1, r.Len())
}

func TestAdd_PreservesRegistrationOrder(t *testing.T) {
	r := New()

	_, err := r.Add("Alpha", team(0), allMembers)
	require.NoError(t, err)
	_, err = r.Add("Bravo", team(4), allMembers)
	require.NoError(t, err)
	_, err = r.Add("Charlie", team(8), allMembers)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, r.Names())
	assert.Equal(t, 12, r.TotalUsers())
}

func TestAdd_AlreadyRegistered(t *testing.T) {
	r := New()
	_, err := r.Add("Alpha", team(0), allMembers)
	require.NoError(t, err)

	// u0 is already in Alpha
	members := team(4)
	members[2] = shared.Participant{ID: "u0", Username: "user0"}
	_, err = r.Add("Bravo", members, allMembers)

	var alreadyRegistered *shared.AlreadyRegisteredError
	require.ErrorAs(t, err, &alreadyRegistered)
	assert.Equal(t, "u0", alreadyRegistered.Participant.ID)
	assert.Equal(t, 1, r.Len(), "registry must be unchanged after a rejected attempt")
}

func TestAdd_UnknownParticipants(t *testing.T) {
	r := New()
	known := map[string]bool{"u0": true, "u1": true}

	_, err := r.Add("Alpha", team(0), func(id string) bool { return known[id] })

	var unknown *shared.UnknownParticipantError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"user2", "user3"}, unknown.Usernames)
	assert.Equal(t, 0, r.Len())
}

func TestAdd_AlreadyRegisteredShortCircuitsUnknownAggregation(t *testing.T) {
	r := New()
	_, err := r.Add("Alpha", team(0), allMembers)
	require.NoError(t, err)

	// First member of the attempt is unknown, second is already registered:
	// the already-registered failure wins
	members := team(4)
	members[1] = shared.Participant{ID: "u0", Username: "user0"}
	isMember := func(id string) bool { return id != "u4" }

	_, err = r.Add("Bravo", members, isMember)

	var alreadyRegistered *shared.AlreadyRegisteredError
	require.ErrorAs(t, err, &alreadyRegistered)
	assert.Equal(t, "u0", alreadyRegistered.Participant.ID)
}

func TestAdd_CapacityExceeded(t *testing.T) {
	r := New()
	for i := 0; i < shared.MaxUsers/shared.UsersPerTeam; i++ {
		_, err := r.Add(fmt.Sprintf("Team %d", i+1), team(i*4), allMembers)
		require.NoError(t, err)
	}
	require.Equal(t, shared.MaxUsers, r.TotalUsers())

	_, err := r.Add("Overflow", team(100), allMembers)

	var capacity *shared.CapacityExceededError
	require.ErrorAs(t, err, &capacity)
	assert.Equal(t, shared.MaxUsers, capacity.Current)
	assert.Equal(t, shared.MaxUsers+shared.UsersPerTeam, capacity.Attempted)
	assert.Equal(t, 12, r.Len())
}

func TestAdd_FillsToExactCapacity(t *testing.T) {
	r := New()
	for i := 0; i < 11; i++ {
		_, err := r.Add(fmt.Sprintf("Team %d", i+1), team(i*4), allMembers)
		require.NoError(t, err)
	}

	res, err := r.Add("Team 12", team(44), allMembers)

	require.NoError(t, err)
	assert.Equal(t, shared.MaxUsers, res.TotalUsers)
}

func TestFindByName_CaseInsensitive(t *testing.T) {
	r := New()
	_, err := r.Add("Alpha Squad", team(0), allMembers)
	require.NoError(t, err)

	found, ok := r.FindByName("alpha squad")

	require.True(t, ok)
	assert.Equal(t, "Alpha Squad", found.Name)

	_, ok = r.FindByName("Bravo")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	r := New()
	_, err := r.Add("Alpha", team(0), allMembers)
	require.NoError(t, err)

	r.Clear()

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.TotalUsers())
	assert.Empty(t, r.AllMembers())
}
