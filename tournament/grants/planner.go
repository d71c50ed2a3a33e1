/* planner.go
 * Contains the access grant planner. It derives the role/channel grants that
 * reflect registry and pairing state, applies them through the Platform
 * interface and tracks what it granted so cleanup-before-recompute and the
 * 8 hour expiry can revoke exactly what was handed out. The platform itself
 * is the durable store; the planner's lists are rebuilt from scratch on
 * process restart
 * Authors: Zachary Bower
 */

package grants

import (
	"fmt"

	"teamreg-bot/tournament/pairing"
	"teamreg-bot/tournament/shared"

	"go.uber.org/zap"
)

// GrantedGroup is a group together with the artifacts created for it
type GrantedGroup struct {
	Group   pairing.Group
	Role    Role
	Channel Channel
}

// ClearOutcome summarises a full reset of granted artifacts
type ClearOutcome struct {
	ChannelsDeleted int
	RolesDeleted    int
	Outcome         BulkOutcome
}

type grantedGroup struct {
	role    Role
	channel Channel
	holders []shared.Participant
}

// Planner derives and applies access grants
type Planner struct {
	platform Platform
	log      *zap.Logger

	registered        *Role
	registeredHolders []shared.Participant
	groups            []grantedGroup
}

// NewPlanner returns a planner applying grants through the given platform
func NewPlanner(platform Platform, log *zap.Logger) *Planner {
	return &Planner{platform: platform, log: log}
}

// RegisteredRole returns the shared role descriptor, or nil before the first open
func (p *Planner) RegisteredRole() *Role {
	return p.registered
}

// EnsureRegisteredRole looks up or creates the shared "Registered" role.
// Preconditions: receives the guild to serve
// Postconditions: the role exists and is tracked, or the platform error is returned (a permission refusal aborts the open)
func (p *Planner) EnsureRegisteredRole(guildID string) error {
	role, err := p.platform.EnsureRole(guildID, shared.RegisteredRoleName, RoleColorGreen, true)
	if err != nil {
		return fmt.Errorf("ensuring %s role: %w", shared.RegisteredRoleName, err)
	}
	p.registered = &role
	return nil
}

// GrantRegistered grants the shared role to newly registered members,
// best-effort per member
func (p *Planner) GrantRegistered(guildID string, members []shared.Participant) BulkOutcome {
	var outcome BulkOutcome
	if p.registered == nil {
		return outcome
	}
	for _, m := range members {
		err := p.platform.AddRole(guildID, m.ID, p.registered.ID)
		outcome.Observe(m.Username, err)
		if err != nil {
			p.log.Warn("failed to grant registered role",
				zap.String("user", m.Username), zap.Error(err))
			continue
		}
		p.registeredHolders = append(p.registeredHolders, m)
	}
	return outcome
}

// ApplyGroups replaces the previous grouping's artifacts with the new set.
// Previously granted group roles and channels are revoked and deleted first,
// best-effort, so stale access never accumulates across re-pairing runs.
// Unpaired trailing groups receive no role or channel.
// Preconditions: receives the guild and the freshly computed groups
// Postconditions: returns the created artifacts and the cleanup summary; a failed create aborts and returns the error
func (p *Planner) ApplyGroups(guildID string, groups []pairing.Group) ([]GrantedGroup, BulkOutcome, error) {
	cleanup := p.CleanupGroups(guildID)

	category, err := p.platform.EnsureCategory(guildID, shared.GroupCategoryName)
	if err != nil {
		return nil, cleanup, fmt.Errorf("ensuring category: %w", err)
	}

	var created []GrantedGroup
	for _, group := range groups {
		if !group.Paired() {
			continue
		}

		role, err := p.platform.EnsureRole(guildID, shared.GroupRoleName(group.Index), RoleColorBlue, true)
		if err != nil {
			return created, cleanup, fmt.Errorf("creating role for group %d: %w", group.Index, err)
		}

		members := group.Members()
		for _, m := range members {
			if err := p.platform.AddRole(guildID, m.ID, role.ID); err != nil {
				return created, cleanup, fmt.Errorf("assigning %s to %s: %w", role.Name, m.Username, err)
			}
		}

		channel, err := p.platform.CreateGroupChannel(guildID, shared.GroupChannelName(group.Index), category.ID, role.ID)
		if err != nil {
			return created, cleanup, fmt.Errorf("creating channel for group %d: %w", group.Index, err)
		}

		p.groups = append(p.groups, grantedGroup{role: role, channel: channel, holders: members})
		created = append(created, GrantedGroup{Group: group, Role: role, Channel: channel})
	}
	return created, cleanup, nil
}

// CleanupGroups revokes and deletes every tracked group role and channel,
// best-effort per item, and forgets them
func (p *Planner) CleanupGroups(guildID string) BulkOutcome {
	var outcome BulkOutcome
	for _, g := range p.groups {
		for _, m := range g.holders {
			err := p.platform.RemoveRole(guildID, m.ID, g.role.ID)
			outcome.Observe(fmt.Sprintf("%s from %s", g.role.Name, m.Username), err)
			if err != nil {
				p.log.Warn("failed to revoke group role",
					zap.String("role", g.role.Name), zap.String("user", m.Username), zap.Error(err))
			}
		}
		outcome.Observe(g.role.Name, p.deleteRole(guildID, g.role))
		outcome.Observe(g.channel.Name, p.deleteChannel(g.channel))
	}
	p.groups = nil
	return outcome
}

// RevokeAllRoles removes the shared role and every group role from their
// holders, best-effort. Roles and channels themselves are left in place; this
// is the 8 hour expiry path, which lapses grants without tearing down
// artifacts or bookkeeping.
func (p *Planner) RevokeAllRoles(guildID string) BulkOutcome {
	var outcome BulkOutcome
	if p.registered != nil {
		for _, m := range p.registeredHolders {
			err := p.platform.RemoveRole(guildID, m.ID, p.registered.ID)
			outcome.Observe(fmt.Sprintf("%s from %s", p.registered.Name, m.Username), err)
			if err != nil {
				p.log.Warn("failed to revoke registered role",
					zap.String("user", m.Username), zap.Error(err))
			}
		}
		p.registeredHolders = nil
	}
	for i, g := range p.groups {
		for _, m := range g.holders {
			err := p.platform.RemoveRole(guildID, m.ID, g.role.ID)
			outcome.Observe(fmt.Sprintf("%s from %s", g.role.Name, m.Username), err)
			if err != nil {
				p.log.Warn("failed to revoke group role",
					zap.String("role", g.role.Name), zap.String("user", m.Username), zap.Error(err))
			}
		}
		p.groups[i].holders = nil
	}
	return outcome
}

// ClearAll revokes the shared role, deletes every tracked group channel and
// role, and forgets everything. Best-effort per item; the Registered role
// itself is kept for the next window.
func (p *Planner) ClearAll(guildID string) ClearOutcome {
	var result ClearOutcome

	if p.registered != nil {
		for _, m := range p.registeredHolders {
			err := p.platform.RemoveRole(guildID, m.ID, p.registered.ID)
			result.Outcome.Observe(fmt.Sprintf("%s from %s", p.registered.Name, m.Username), err)
			if err != nil {
				p.log.Warn("failed to revoke registered role",
					zap.String("user", m.Username), zap.Error(err))
			}
		}
		p.registeredHolders = nil
	}

	for _, g := range p.groups {
		if err := p.deleteChannel(g.channel); err != nil {
			result.Outcome.Observe(g.channel.Name, err)
		} else {
			result.Outcome.Succeeded++
			result.ChannelsDeleted++
		}
	}

	for _, g := range p.groups {
		for _, m := range g.holders {
			err := p.platform.RemoveRole(guildID, m.ID, g.role.ID)
			result.Outcome.Observe(fmt.Sprintf("%s from %s", g.role.Name, m.Username), err)
		}
		if err := p.deleteRole(guildID, g.role); err != nil {
			result.Outcome.Observe(g.role.Name, err)
		} else {
			result.Outcome.Succeeded++
			result.RolesDeleted++
		}
	}
	p.groups = nil

	return result
}

func (p *Planner) deleteRole(guildID string, role Role) error {
	if err := p.platform.DeleteRole(guildID, role.ID); err != nil {
		p.log.Warn("failed to delete role", zap.String("role", role.Name), zap.Error(err))
		return err
	}
	return nil
}

func (p *Planner) deleteChannel(channel Channel) error {
	if err := p.platform.DeleteChannel(channel.ID); err != nil {
		p.log.Warn("failed to delete channel", zap.String("channel", channel.Name), zap.Error(err))
		return err
	}
	return nil
}
