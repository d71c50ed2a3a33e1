/* mock_platform.go
 * Contains mock implementation of Platform for testing
 * Authors: Zachary Bower
 */

package grants

import "fmt"

// MockPlatform implements Platform for testing purposes. It keeps roles,
// memberships and channels in memory and supports per-operation error
// injection.
type MockPlatform struct {
	// Members is the set of user ids considered guild members
	Members map[string]bool

	// Roles maps role id to role; RoleHolders maps role id to user ids
	Roles       map[string]Role
	RoleHolders map[string]map[string]bool
	Channels    map[string]Channel

	// Errors to return from specific operations; nil means success
	EnsureRoleErr    error
	AddRoleErr       error
	RemoveRoleErr    error
	DeleteRoleErr    error
	EnsureCategErr   error
	CreateChannelErr error
	DeleteChannelErr error

	// RemoveRoleFailFor makes RemoveRole fail only for the listed user ids
	RemoveRoleFailFor map[string]error

	nextID int
}

// NewMockPlatform creates a MockPlatform with no members
func NewMockPlatform() *MockPlatform {
	return &MockPlatform{
		Members:     make(map[string]bool),
		Roles:       make(map[string]Role),
		RoleHolders: make(map[string]map[string]bool),
		Channels:    make(map[string]Channel),
	}
}

// AddMember marks user ids as guild members
func (m *MockPlatform) AddMember(userIDs ...string) {
	for _, id := range userIDs {
		m.Members[id] = true
	}
}

// IsMember implements Platform.IsMember
func (m *MockPlatform) IsMember(guildID, userID string) bool {
	return m.Members[userID]
}

// EnsureRole implements Platform.EnsureRole with lookup-or-create by name
func (m *MockPlatform) EnsureRole(guildID, name string, color int, mentionable bool) (Role, error) {
	if m.EnsureRoleErr != nil {
		return Role{}, m.EnsureRoleErr
	}
	for _, r := range m.Roles {
		if r.Name == name {
			return r, nil
		}
	}
	role := Role{ID: m.newID("role"), Name: name}
	m.Roles[role.ID] = role
	m.RoleHolders[role.ID] = make(map[string]bool)
	return role, nil
}

// AddRole implements Platform.AddRole
func (m *MockPlatform) AddRole(guildID, userID, roleID string) error {
	if m.AddRoleErr != nil {
		return m.AddRoleErr
	}
	if m.RoleHolders[roleID] == nil {
		m.RoleHolders[roleID] = make(map[string]bool)
	}
	m.RoleHolders[roleID][userID] = true
	return nil
}

// RemoveRole implements Platform.RemoveRole
func (m *MockPlatform) RemoveRole(guildID, userID, roleID string) error {
	if err, ok := m.RemoveRoleFailFor[userID]; ok {
		return err
	}
	if m.RemoveRoleErr != nil {
		return m.RemoveRoleErr
	}
	if holders, ok := m.RoleHolders[roleID]; ok {
		delete(holders, userID)
	}
	return nil
}

// DeleteRole implements Platform.DeleteRole
func (m *MockPlatform) DeleteRole(guildID, roleID string) error {
	if m.DeleteRoleErr != nil {
		return m.DeleteRoleErr
	}
	delete(m.Roles, roleID)
	delete(m.RoleHolders, roleID)
	return nil
}

// EnsureCategory implements Platform.EnsureCategory with lookup-or-create by name
func (m *MockPlatform) EnsureCategory(guildID, name string) (Channel, error) {
	if m.EnsureCategErr != nil {
		return Channel{}, m.EnsureCategErr
	}
	for _, c := range m.Channels {
		if c.Name == name {
			return c, nil
		}
	}
	categ := Channel{ID: m.newID("categ"), Name: name}
	m.Channels[categ.ID] = categ
	return categ, nil
}

// CreateGroupChannel implements Platform.CreateGroupChannel
func (m *MockPlatform) CreateGroupChannel(guildID, name, categoryID, roleID string) (Channel, error) {
	if m.CreateChannelErr != nil {
		return Channel{}, m.CreateChannelErr
	}
	channel := Channel{ID: m.newID("chan"), Name: name}
	m.Channels[channel.ID] = channel
	return channel, nil
}

// DeleteChannel implements Platform.DeleteChannel
func (m *MockPlatform) DeleteChannel(channelID string) error {
	if m.DeleteChannelErr != nil {
		return m.DeleteChannelErr
	}
	delete(m.Channels, channelID)
	return nil
}

// RoleByName returns the role with the given name, if it exists
func (m *MockPlatform) RoleByName(name string) (Role, bool) {
	for _, r := range m.Roles {
		if r.Name == name {
			return r, true
		}
	}
	return Role{}, false
}

// HoldersOf returns the user ids currently holding the named role
func (m *MockPlatform) HoldersOf(name string) []string {
	role, ok := m.RoleByName(name)
	if !ok {
		return nil
	}
	var ids []string
	for id := range m.RoleHolders[role.ID] {
		ids = append(ids, id)
	}
	return ids
}

// ChannelByName returns the channel with the given name, if it exists
func (m *MockPlatform) ChannelByName(name string) (Channel, bool) {
	for _, c := range m.Channels {
		if c.Name == name {
			return c, true
		}
	}
	return Channel{}, false
}

// Ensure MockPlatform implements Platform
var _ Platform = (*MockPlatform)(nil)

func (m *MockPlatform) newID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s_%d", prefix, m.nextID)
}
