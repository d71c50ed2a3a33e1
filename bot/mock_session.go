/* mock_session.go
 * Contains mock implementation of DiscordSession for testing
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// MockDiscordSession implements DiscordSession for testing purposes
type MockDiscordSession struct {
	// SentMessages stores all messages sent during tests
	SentMessages []MockMessage
	// SentEmbeds stores all embeds sent during tests
	SentEmbeds []MockEmbed
	// ErrorToReturn allows tests to simulate send errors
	ErrorToReturn error

	// AdminUsers holds user ids with administrator permission
	AdminUsers map[string]bool
	// GuildMembers holds user ids that resolve as guild members
	GuildMembers map[string]bool

	// Guild state for the platform adapter methods
	Roles    []*discordgo.Role
	Channels []*discordgo.Channel

	// Errors to return from specific guild operations
	RoleCreateErr    error
	RoleDeleteErr    error
	RoleAddErr       error
	RoleRemoveErr    error
	ChannelCreateErr error
	ChannelDeleteErr error

	nextID int
}

// MockMessage represents a message sent to a channel
type MockMessage struct {
	ChannelID string
	Content   string
}

// MockEmbed represents an embed sent to a channel
type MockEmbed struct {
	ChannelID string
	Embed     *discordgo.MessageEmbed
}

// NewMockDiscordSession creates a new MockDiscordSession for testing
func NewMockDiscordSession() *MockDiscordSession {
	return &MockDiscordSession{
		SentMessages: make([]MockMessage, 0),
		AdminUsers:   make(map[string]bool),
		GuildMembers: make(map[string]bool),
	}
}

// ChannelMessageSend implements DiscordSession.ChannelMessageSend
func (m *MockDiscordSession) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}

	m.SentMessages = append(m.SentMessages, MockMessage{
		ChannelID: channelID,
		Content:   content,
	})

	return &discordgo.Message{
		ID:        "mock_message_id",
		ChannelID: channelID,
		Content:   content,
	}, nil
}

// ChannelMessageSendEmbed implements DiscordSession.ChannelMessageSendEmbed
func (m *MockDiscordSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}

	m.SentEmbeds = append(m.SentEmbeds, MockEmbed{
		ChannelID: channelID,
		Embed:     embed,
	})

	return &discordgo.Message{
		ID:        "mock_message_id",
		ChannelID: channelID,
	}, nil
}

// UserChannelPermissions implements DiscordSession.UserChannelPermissions
func (m *MockDiscordSession) UserChannelPermissions(userID string, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error) {
	if m.AdminUsers[userID] {
		return discordgo.PermissionAdministrator, nil
	}
	return 0, nil
}

// GuildMember implements DiscordSession.GuildMember
func (m *MockDiscordSession) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	if !m.GuildMembers[userID] {
		return nil, fmt.Errorf("unknown member %s", userID)
	}
	return &discordgo.Member{User: &discordgo.User{ID: userID}}, nil
}

// GuildRoles implements DiscordSession.GuildRoles
func (m *MockDiscordSession) GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	return m.Roles, nil
}

// GuildRoleCreate implements DiscordSession.GuildRoleCreate
func (m *MockDiscordSession) GuildRoleCreate(guildID string, data *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error) {
	if m.RoleCreateErr != nil {
		return nil, m.RoleCreateErr
	}
	role := &discordgo.Role{ID: m.newID("role"), Name: data.Name}
	m.Roles = append(m.Roles, role)
	return role, nil
}

// GuildRoleDelete implements DiscordSession.GuildRoleDelete
func (m *MockDiscordSession) GuildRoleDelete(guildID, roleID string, options ...discordgo.RequestOption) error {
	if m.RoleDeleteErr != nil {
		return m.RoleDeleteErr
	}
	for i, role := range m.Roles {
		if role.ID == roleID {
			m.Roles = append(m.Roles[:i], m.Roles[i+1:]...)
			break
		}
	}
	return nil
}

// GuildMemberRoleAdd implements DiscordSession.GuildMemberRoleAdd
func (m *MockDiscordSession) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	return m.RoleAddErr
}

// GuildMemberRoleRemove implements DiscordSession.GuildMemberRoleRemove
func (m *MockDiscordSession) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	return m.RoleRemoveErr
}

// GuildChannels implements DiscordSession.GuildChannels
func (m *MockDiscordSession) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	return m.Channels, nil
}

// GuildChannelCreateComplex implements DiscordSession.GuildChannelCreateComplex
func (m *MockDiscordSession) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if m.ChannelCreateErr != nil {
		return nil, m.ChannelCreateErr
	}
	channel := &discordgo.Channel{
		ID:                   m.newID("channel"),
		Name:                 data.Name,
		Type:                 data.Type,
		ParentID:             data.ParentID,
		PermissionOverwrites: data.PermissionOverwrites,
	}
	m.Channels = append(m.Channels, channel)
	return channel, nil
}

// ChannelDelete implements DiscordSession.ChannelDelete
func (m *MockDiscordSession) ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if m.ChannelDeleteErr != nil {
		return nil, m.ChannelDeleteErr
	}
	for i, channel := range m.Channels {
		if channel.ID == channelID {
			m.Channels = append(m.Channels[:i], m.Channels[i+1:]...)
			return channel, nil
		}
	}
	return nil, fmt.Errorf("unknown channel %s", channelID)
}

// GetLastMessage returns the last message sent, or empty MockMessage if none
func (m *MockDiscordSession) GetLastMessage() MockMessage {
	if len(m.SentMessages) == 0 {
		return MockMessage{}
	}
	return m.SentMessages[len(m.SentMessages)-1]
}

// GetLastEmbed returns the last embed sent, or empty MockEmbed if none
func (m *MockDiscordSession) GetLastEmbed() MockEmbed {
	if len(m.SentEmbeds) == 0 {
		return MockEmbed{}
	}
	return m.SentEmbeds[len(m.SentEmbeds)-1]
}

// ClearMessages clears all stored messages and embeds
func (m *MockDiscordSession) ClearMessages() {
	m.SentMessages = nil
	m.SentEmbeds = nil
}

// Ensure MockDiscordSession implements DiscordSession
var _ DiscordSession = (*MockDiscordSession)(nil)

func (m *MockDiscordSession) newID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s_%d", prefix, m.nextID)
}
