/* platform.go
 * Contains the Discord implementation of the grants.Platform interface. Bulk
 * role and channel operations are throttled with a rate limiter to stay under
 * the Discord REST limits when granting to a full roster
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"teamreg-bot/tournament/grants"
	"teamreg-bot/tournament/shared"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DiscordPlatform implements grants.Platform over a Discord session
type DiscordPlatform struct {
	session   DiscordSession
	botUserID string
	limiter   *rate.Limiter
	log       *zap.Logger
}

// NewDiscordPlatform creates a platform adapter for the given session.
// botUserID is the bot's own user id, used to grant itself channel access.
func NewDiscordPlatform(session DiscordSession, botUserID string, log *zap.Logger) *DiscordPlatform {
	return &DiscordPlatform{
		session:   session,
		botUserID: botUserID,
		// 48 users x several role grants per pairing run; 4 requests a
		// second keeps a full run well under the global REST limit
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 5),
		log:     log,
	}
}

// Ensure DiscordPlatform implements grants.Platform
var _ grants.Platform = (*DiscordPlatform)(nil)

// IsMember implements grants.Platform.IsMember
func (p *DiscordPlatform) IsMember(guildID, userID string) bool {
	p.wait()
	member, err := p.session.GuildMember(guildID, userID)
	return err == nil && member != nil
}

// EnsureRole implements grants.Platform.EnsureRole with lookup-or-create by name
func (p *DiscordPlatform) EnsureRole(guildID, name string, color int, mentionable bool) (grants.Role, error) {
	p.wait()
	roles, err := p.session.GuildRoles(guildID)
	if err != nil {
		return grants.Role{}, wrapPlatformErr(err)
	}
	for _, role := range roles {
		if role.Name == name {
			return grants.Role{ID: role.ID, Name: role.Name}, nil
		}
	}

	p.wait()
	created, err := p.session.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        name,
		Color:       &color,
		Mentionable: &mentionable,
	})
	if err != nil {
		return grants.Role{}, wrapPlatformErr(err)
	}
	return grants.Role{ID: created.ID, Name: created.Name}, nil
}

// AddRole implements grants.Platform.AddRole
func (p *DiscordPlatform) AddRole(guildID, userID, roleID string) error {
	p.wait()
	return wrapPlatformErr(p.session.GuildMemberRoleAdd(guildID, userID, roleID))
}

// RemoveRole implements grants.Platform.RemoveRole
func (p *DiscordPlatform) RemoveRole(guildID, userID, roleID string) error {
	p.wait()
	return wrapPlatformErr(p.session.GuildMemberRoleRemove(guildID, userID, roleID))
}

// DeleteRole implements grants.Platform.DeleteRole
func (p *DiscordPlatform) DeleteRole(guildID, roleID string) error {
	p.wait()
	return wrapPlatformErr(p.session.GuildRoleDelete(guildID, roleID))
}

// EnsureCategory implements grants.Platform.EnsureCategory with lookup-or-create by name
func (p *DiscordPlatform) EnsureCategory(guildID, name string) (grants.Channel, error) {
	p.wait()
	channels, err := p.session.GuildChannels(guildID)
	if err != nil {
		return grants.Channel{}, wrapPlatformErr(err)
	}
	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildCategory && channel.Name == name {
			return grants.Channel{ID: channel.ID, Name: channel.Name}, nil
		}
	}

	p.wait()
	created, err := p.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return grants.Channel{}, wrapPlatformErr(err)
	}
	return grants.Channel{ID: created.ID, Name: created.Name}, nil
}

// CreateGroupChannel implements grants.Platform.CreateGroupChannel. The
// channel is hidden from @everyone and visible to the group role, roles with
// administrator permission, and the bot itself.
func (p *DiscordPlatform) CreateGroupChannel(guildID, name, categoryID, roleID string) (grants.Channel, error) {
	overwrites, err := p.groupOverwrites(guildID, roleID)
	if err != nil {
		return grants.Channel{}, err
	}

	p.wait()
	created, err := p.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             categoryID,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return grants.Channel{}, wrapPlatformErr(err)
	}
	return grants.Channel{ID: created.ID, Name: created.Name}, nil
}

// DeleteChannel implements grants.Platform.DeleteChannel
func (p *DiscordPlatform) DeleteChannel(channelID string) error {
	p.wait()
	_, err := p.session.ChannelDelete(channelID)
	return wrapPlatformErr(err)
}

// groupOverwrites builds the permission overwrites for a private group
// channel. The @everyone role shares its id with the guild.
func (p *DiscordPlatform) groupOverwrites(guildID, roleID string) ([]*discordgo.PermissionOverwrite, error) {
	memberPerms := int64(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory)
	managePerms := memberPerms | int64(discordgo.PermissionManageMessages)

	overwrites := []*discordgo.PermissionOverwrite{
		{ID: guildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: int64(discordgo.PermissionViewChannel)},
		{ID: roleID, Type: discordgo.PermissionOverwriteTypeRole, Allow: memberPerms},
		{ID: p.botUserID, Type: discordgo.PermissionOverwriteTypeMember, Allow: managePerms},
	}

	p.wait()
	roles, err := p.session.GuildRoles(guildID)
	if err != nil {
		return nil, wrapPlatformErr(err)
	}
	for _, role := range roles {
		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			overwrites = append(overwrites, &discordgo.PermissionOverwrite{
				ID:    role.ID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: managePerms,
			})
		}
	}
	return overwrites, nil
}

func (p *DiscordPlatform) wait() {
	if err := p.limiter.Wait(context.Background()); err != nil {
		p.log.Warn("rate limiter wait failed", zap.Error(err))
	}
}

// wrapPlatformErr maps a Discord 403 onto the permission-denied error the
// core matches on; other errors pass through unchanged
func wrapPlatformErr(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %v", shared.ErrPermissionDenied, err)
	}
	return err
}
