/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface.
 * Admin commands manipulate the registration window and pairing; every other
 * message in the active channel is treated as a candidate team registration
 * Authors: Zachary Bower
 */

package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"teamreg-bot/tournament"
	"teamreg-bot/tournament/shared"

	"github.com/bwmarrin/discordgo"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"
)

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages or other bots
	if message.Author.ID == botUserID || message.Author.Bot {
		return
	}

	// Route to appropriate handler
	switch {
	case startsWith(message.Content, "!set_registration_time"):
		b.setRegistrationTimeHandler(session, message)

	case startsWith(message.Content, "!disable_scheduled_registration"):
		b.disableScheduledHandler(session, message)

	case startsWith(message.Content, "!start_registration"):
		b.startRegistrationHandler(session, message)

	case startsWith(message.Content, "!list"):
		b.listTeamsHandler(session, message)

	case startsWith(message.Content, "!pair"):
		b.pairHandler(session, message)

	case startsWith(message.Content, "!status"):
		b.statusHandler(session, message)

	case startsWith(message.Content, "!clear"):
		b.clearHandler(session, message)

	case startsWith(message.Content, "!help_bot"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "!team"):
		b.teamLookupHandler(session, message)

	default:
		b.candidateMessageHandler(session, message)
	}
}

// requireAdmin checks the author's administrator permission and reports the
// refusal to the channel. Returns true when the author may proceed.
func (b *Bot) requireAdmin(session DiscordSession, message *discordgo.MessageCreate) bool {
	perms, err := session.UserChannelPermissions(message.Author.ID, message.ChannelID)
	if err != nil {
		b.Log.Warn("failed to resolve permissions", zap.String("user", message.Author.ID), zap.Error(err))
	}
	if err != nil || perms&discordgo.PermissionAdministrator == 0 {
		session.ChannelMessageSend(message.ChannelID, "❌ You need administrator permissions to use this command.")
		return false
	}
	return true
}

// setRegistrationTimeHandler handles the !set_registration_time command with a DiscordSession interface
func (b *Bot) setRegistrationTimeHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if !b.requireAdmin(session, message) {
		return
	}

	args := splitArgs(message.Content)
	if len(args) < 3 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `!set_registration_time <hour> <minute> [#channel]` (24-hour format)")
		return
	}

	hour, errHour := strconv.Atoi(args[1])
	minute, errMinute := strconv.Atoi(args[2])
	if errHour != nil || errMinute != nil {
		session.ChannelMessageSend(message.ChannelID, "❌ Hour and minute must be numbers, e.g. `!set_registration_time 14 30`.")
		return
	}

	channelID := message.ChannelID
	if len(args) > 3 {
		if id, ok := parseChannelMention(args[3]); ok {
			channelID = id
		}
	}

	if err := b.Tournament.SetScheduledOpen(message.GuildID, channelID, hour, minute); err != nil {
		session.ChannelMessageSend(message.ChannelID, "❌ "+capitalise(err.Error())+".")
		return
	}

	session.ChannelMessageSendEmbed(message.ChannelID, scheduleSetEmbed(hour, minute, channelID))
}

// disableScheduledHandler handles the !disable_scheduled_registration command with a DiscordSession interface
func (b *Bot) disableScheduledHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if !b.requireAdmin(session, message) {
		return
	}

	b.Tournament.DisableScheduledOpen()
	session.ChannelMessageSendEmbed(message.ChannelID, scheduleDisabledEmbed())
}

// startRegistrationHandler handles the !start_registration command with a DiscordSession interface
func (b *Bot) startRegistrationHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if !b.requireAdmin(session, message) {
		return
	}

	err := b.Tournament.Open(message.GuildID, message.ChannelID)
	switch {
	case errors.Is(err, shared.ErrAlreadyActive):
		session.ChannelMessageSend(message.ChannelID, "⚠️ Registration is already active!")
		return
	case errors.Is(err, shared.ErrPermissionDenied):
		session.ChannelMessageSend(message.ChannelID, "❌ Bot doesn't have permission to create roles. Please grant 'Manage Roles' permission.")
		return
	case err != nil:
		b.Log.Error("failed to open registration", zap.Error(err))
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("❌ Error starting registration: %s", err))
		return
	}

	b.announceOpen(session, message.ChannelID)
}

// announceOpen posts the registration-open announcement; shared by the manual
// command and the scheduled auto-open
func (b *Bot) announceOpen(session DiscordSession, channelID string) {
	session.ChannelMessageSend(channelID, "@everyone")
	session.ChannelMessageSendEmbed(channelID, registrationOpenEmbed())
	session.ChannelMessageSend(channelID, "✅ Registration is now active! Users can register their teams.")
}

// candidateMessageHandler treats a plain message as a team registration attempt
func (b *Bot) candidateMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	result, err := b.Tournament.HandleCandidateMessage(
		message.GuildID, message.ChannelID, message.Content, mentionedParticipants(message))
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, registrationErrorMessage(err))
		return
	}
	if result == nil {
		// Not a registration attempt
		return
	}

	session.ChannelMessageSend(message.ChannelID, fmt.Sprintf(
		"✅ **%s** registered successfully!\n👥 Team members: %s\n📊 Total users: %d/%d | Total teams: %d",
		result.Team.Name, mentionList(result.Team.Members), result.TotalUsers, shared.MaxUsers, result.TeamNumber))

	if result.Full {
		session.ChannelMessageSend(message.ChannelID, "@everyone")
		session.ChannelMessageSend(message.ChannelID, "🔴 **REGISTRATION FULL FOR TODAY**")
		session.ChannelMessageSendEmbed(message.ChannelID, registrationClosedEmbed())
	}
}

// registrationErrorMessage maps a validation failure onto the channel message
func registrationErrorMessage(err error) string {
	var alreadyRegistered *shared.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		return fmt.Sprintf("❌ %s is already registered in another team!", alreadyRegistered.Participant.Mention())
	}

	var unknown *shared.UnknownParticipantError
	if errors.As(err, &unknown) {
		return fmt.Sprintf("❌ The following users are not in this server: %s", strings.Join(unknown.Usernames, ", "))
	}

	var capacity *shared.CapacityExceededError
	if errors.As(err, &capacity) {
		return fmt.Sprintf("❌ Maximum users reached (%d users). Currently have %d users. Cannot add this team.",
			shared.MaxUsers, capacity.Current)
	}

	return fmt.Sprintf("❌ %s", capitalise(err.Error()))
}

// pairHandler handles the !pair command with a DiscordSession interface
func (b *Bot) pairHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if !b.requireAdmin(session, message) {
		return
	}

	result, err := b.Tournament.RunPairing(message.GuildID)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, pairingErrorMessage(err))
		return
	}

	// Welcome each group in its private channel, then summarise here
	for _, g := range result.Created {
		session.ChannelMessageSendEmbed(g.Channel.ID, groupWelcomeEmbed(g))
	}
	session.ChannelMessageSendEmbed(message.ChannelID, pairingSummaryEmbed(result))
}

// pairingErrorMessage maps a pairing failure onto the channel message
func pairingErrorMessage(err error) string {
	var insufficient *shared.InsufficientTeamsError
	if errors.As(err, &insufficient) {
		if insufficient.Users < shared.MinUsers {
			return fmt.Sprintf("❌ Not enough users! Need at least %d users. Currently have %d users across %d team(s).",
				shared.MinUsers, insufficient.Users, insufficient.Teams)
		}
		return "❌ Need at least 2 teams to create pairs. Each group consists of 2 teams."
	}

	var tooMany *shared.TooManyUsersError
	if errors.As(err, &tooMany) {
		return fmt.Sprintf("❌ Too many users! Maximum is %d.", shared.MaxUsers)
	}

	if errors.Is(err, shared.ErrPermissionDenied) {
		return "❌ Bot doesn't have permission to create/assign roles or channels. Please grant 'Manage Roles' and 'Manage Channels' permissions."
	}

	return fmt.Sprintf("❌ Error pairing teams: %s", err)
}

// listTeamsHandler handles the !list command with a DiscordSession interface
func (b *Bot) listTeamsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	teams := b.Tournament.ListTeams()
	if len(teams) == 0 {
		session.ChannelMessageSend(message.ChannelID, "📋 No teams registered yet.")
		return
	}

	totalUsers := 0
	var teamList strings.Builder
	for _, team := range teams {
		totalUsers += len(team.Members)
		teamList.WriteString(fmt.Sprintf("**%s:** %s\n", team.Name, mentionList(team.Members)))
	}

	session.ChannelMessageSendEmbed(message.ChannelID, &discordgo.MessageEmbed{
		Title:       "📋 Registered Teams",
		Description: teamList.String(),
		Color:       colorGreen,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Total: %d team(s) | %d/%d users", len(teams), totalUsers, shared.MaxUsers),
		},
	})
}

// statusHandler handles the !status command with a DiscordSession interface
func (b *Bot) statusHandler(session DiscordSession, message *discordgo.MessageCreate) {
	session.ChannelMessageSendEmbed(message.ChannelID, statusEmbed(b.Tournament.Status()))
}

// clearHandler handles the !clear command with a DiscordSession interface
func (b *Bot) clearHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if !b.requireAdmin(session, message) {
		return
	}

	report := b.Tournament.ClearAll(message.GuildID)
	session.ChannelMessageSend(message.ChannelID, fmt.Sprintf(
		"✅ Cleared %d team(s) (%d users).\n🗑️ Deleted %d channel(s).\n🎭 Deleted %d role(s).\n📋 Registration list is now empty.",
		report.Teams, report.Users, report.ChannelsDeleted, report.RolesDeleted))
}

// teamLookupHandler handles the !team command with a DiscordSession interface.
// There is fuzzy matching on names so a close match is enough.
func (b *Bot) teamLookupHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := splitArgs(message.Content)
	if len(args) < 2 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `!team <name>` (names with spaces need to be encased in \")")
		return
	}
	query := unquote(strings.Join(args[1:], " "))

	names := b.Tournament.TeamNames()
	match, ok := bestTeamMatch(query, names)
	if !ok {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("❌ No registered team matches \"%s\".", query))
		return
	}

	team, ok := b.Tournament.FindTeam(match)
	if !ok {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("❌ No registered team matches \"%s\".", query))
		return
	}

	session.ChannelMessageSend(message.ChannelID,
		fmt.Sprintf("**%s**\n👥 Team members: %s", team.Name, mentionList(team.Members)))
}

// bestTeamMatch fuzzy matches a query against the registered team names,
// preferring an exact case-insensitive match over the best ranked one
func bestTeamMatch(query string, names []string) (string, bool) {
	results := fuzzy.RankFindNormalizedFold(query, names)
	if len(results) == 0 {
		return "", false
	}
	for _, r := range results {
		if strings.EqualFold(r.Target, query) {
			return r.Target, true
		}
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return best.Target, true
}

// helpMessageHandler handles the !help_bot command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("TeamReg Bot v1.0\n")
	res.WriteString("`!set_registration_time <hour> <minute> [#channel]`: Set automatic daily registration time (Admin only, 24-hour format)\n")
	res.WriteString("`!disable_scheduled_registration`: Disable automatic daily registration (Admin only)\n")
	res.WriteString("`!start_registration`: Start registration process manually - pings @everyone (Admin only)\n")
	res.WriteString("`Team Name @user1 @user2 @user3 @user4`: Register a team (no prefix needed, just type team name and mention 4 members)\n")
	res.WriteString("`!list`: List all registered teams and users\n")
	res.WriteString("`!team <name>`: Show a registered team. There is fuzzy matching on names; names with spaces need to be encased in \" (e.g. \"My Awesome Team\")\n")
	res.WriteString("`!pair`: Pair teams together and create private channels (Admin only, requires 2+ teams)\n")
	res.WriteString("`!status`: Check registration status and scheduled time\n")
	res.WriteString("`!clear`: Clear all team registrations, roles, and channels (Admin only)\n")
	res.WriteString("`!help_bot`: Show this help message\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// renderTickEvents announces the outcome of the background scheduler checks
func (b *Bot) renderTickEvents(session DiscordSession, events []tournament.TickEvent) {
	for _, event := range events {
		switch event.Kind {
		case tournament.TickAutoOpened:
			b.announceOpen(session, event.ChannelID)

		case tournament.TickAutoOpenFailed:
			if errors.Is(event.Err, shared.ErrPermissionDenied) {
				session.ChannelMessageSend(event.ChannelID, "❌ Bot doesn't have permission to create roles. Please grant 'Manage Roles' permission.")
			}
			b.Log.Error("scheduled registration open failed", zap.Error(event.Err))

		case tournament.TickRolesExpired:
			b.Log.Info("role grants cleared after expiry", zap.String("guild", event.GuildID))
		}
	}
}

// capitalise upper-cases the first letter of an error message for display
func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
