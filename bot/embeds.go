/* embeds.go
 * Contains the embed builders for announcements, pairing output and status
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"strings"

	"teamreg-bot/tournament"
	"teamreg-bot/tournament/grants"
	"teamreg-bot/tournament/shared"

	"github.com/bwmarrin/discordgo"
)

const (
	colorGreen  = 0x2ecc71
	colorRed    = 0xe74c3c
	colorBlue   = 0x3498db
	colorOrange = 0xe67e22
	colorPurple = 0x9b59b6
)

// registrationOpenEmbed announces an opened registration window
func registrationOpenEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎮 Tournament Registration Started!",
		Description: "Registration is now OPEN!",
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "How to Register",
				Value: "Simply type your **team name** followed by mentioning 4 team members:\n" +
					"`Team Name @member1 @member2 @member3 @member4`\n\n" +
					"Example: `My Awesome Team @user1 @user2 @user3 @user4`",
			},
			{
				Name: "Requirements",
				Value: fmt.Sprintf("• Each team must have exactly %d members\n"+
					"• Maximum %d total users (%d teams)\n"+
					"• All members must be in this server\n"+
					"• Each person can only be in one team",
					shared.UsersPerTeam, shared.MaxUsers, shared.MaxUsers/shared.UsersPerTeam),
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Registration will close when %d slots are filled", shared.MaxUsers),
		},
	}
}

// registrationClosedEmbed announces a filled registration window
func registrationClosedEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Registration Closed",
		Description: fmt.Sprintf("All %d slots have been filled!", shared.MaxUsers),
		Color:       colorRed,
	}
}

// scheduleSetEmbed confirms a stored daily open target
func scheduleSetEmbed(hour, minute int, channelID string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Registration Time Set",
		Description: fmt.Sprintf("Automatic registration will start daily at **%s**", displayTime(hour, minute)),
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: fmt.Sprintf("<#%s>", channelID)},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Registration will start automatically at this time every day",
		},
	}
}

// scheduleDisabledEmbed confirms the daily open target was cleared
func scheduleDisabledEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Scheduled Registration Disabled",
		Description: "Automatic daily registration has been disabled.",
		Color:       colorOrange,
	}
}

// groupWelcomeEmbed is posted inside a freshly created group channel
func groupWelcomeEmbed(g grants.GrantedGroup) *discordgo.MessageEmbed {
	teamA := g.Group.TeamA
	teamB := g.Group.TeamB

	teamsValue := fmt.Sprintf("**%s**\n%s", teamA.Name, mentionList(teamA.Members))
	if teamB != nil {
		teamsValue += fmt.Sprintf("\n\n**%s**\n%s", teamB.Name, mentionList(teamB.Members))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("👥 Group %d", g.Group.Index),
		Description: fmt.Sprintf("Welcome to Group %d! This is a private channel for your teams.", g.Group.Index),
		Color:       colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Teams", Value: teamsValue},
			{Name: "All Members", Value: mentionList(g.Group.Members())},
			{Name: "Role", Value: fmt.Sprintf("All members have been assigned the <@&%s> role.", g.Role.ID)},
		},
	}
}

// pairingSummaryEmbed summarises a completed pairing run
func pairingSummaryEmbed(result *tournament.PairingResult) *discordgo.MessageEmbed {
	var groupText strings.Builder
	for _, g := range result.Created {
		groupText.WriteString(fmt.Sprintf("**Group %d:** <#%s>\n", g.Group.Index, g.Channel.ID))
		groupText.WriteString(fmt.Sprintf("📋 Teams: **%s** & **%s**\n", g.Group.TeamA.Name, g.Group.TeamB.Name))
		groupText.WriteString(fmt.Sprintf("👥 Members: %s\n", mentionList(g.Group.Members())))
		groupText.WriteString(fmt.Sprintf("🎭 Role: <@&%s>\n\n", g.Role.ID))
	}

	return &discordgo.MessageEmbed{
		Title: "✅ Teams Paired Successfully!",
		Description: fmt.Sprintf("Total Users: %d | Total Teams: %d | Total Groups: %d",
			result.TotalUsers, result.TotalTeams, result.TotalGroups),
		Color: colorGreen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Created Groups", Value: groupText.String()},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Access granted to group-specific roles and administrators",
		},
	}
}

// statusEmbed renders the registration status snapshot
func statusEmbed(report tournament.StatusReport) *discordgo.MessageEmbed {
	yesNo := func(v bool) string {
		if v {
			return "✅ Yes"
		}
		return "❌ No"
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 Registration Status",
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Registration Active", Value: yesNo(report.Active), Inline: true},
			{Name: "Registered Teams", Value: fmt.Sprintf("%d", report.Teams), Inline: true},
			{Name: "Total Users", Value: fmt.Sprintf("%d/%d", report.TotalUsers, shared.MaxUsers), Inline: true},
			{Name: "Remaining Slots", Value: fmt.Sprintf("%d", report.Remaining), Inline: true},
			{Name: "Can Create Pairs", Value: yesNo(report.CanPair), Inline: true},
		},
	}

	if report.Schedule != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Scheduled Time",
			Value: fmt.Sprintf("%s daily", displayTime(report.Schedule.Hour, report.Schedule.Minute)),
		})
	}

	if report.ExpiryHoursLeft != nil && *report.ExpiryHoursLeft > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "⏰ Roles Auto-Clear",
			Value: fmt.Sprintf("Roles will be cleared in %.1f hours (8 hours after registration start)", *report.ExpiryHoursLeft),
		})
	}

	if report.TotalUsers < shared.MinUsers {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "⚠️ Notice",
			Value: fmt.Sprintf("Need %d more user(s) to start pairing.", shared.MinUsers-report.TotalUsers),
		})
	}

	return embed
}
