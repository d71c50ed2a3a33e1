/* args.go
 * Contains helpers for splitting command arguments and formatting mentions
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"strings"

	"teamreg-bot/tournament/shared"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
)

// splitArgs splits a command message into arguments. We use splitter here
// instead of go's built in splitter because now we can have arguments that
// contain spaces e.g. "My Team" recognised as one argument not two
func splitArgs(content string) []string {
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	args, _ := spaceSplitter.Split(content)
	return args
}

// unquote strips enclosing double quotes from a splitter token
func unquote(arg string) string {
	return strings.Trim(arg, "\"“”")
}

// parseChannelMention extracts the channel id from a <#id> mention token
func parseChannelMention(arg string) (string, bool) {
	if strings.HasPrefix(arg, "<#") && strings.HasSuffix(arg, ">") {
		id := arg[2 : len(arg)-1]
		if id != "" {
			return id, true
		}
	}
	return "", false
}

// mentionedParticipants converts the users mentioned in a message into
// participants, in message order
func mentionedParticipants(message *discordgo.MessageCreate) []shared.Participant {
	participants := make([]shared.Participant, 0, len(message.Mentions))
	for _, user := range message.Mentions {
		participants = append(participants, shared.Participant{ID: user.ID, Username: user.Username})
	}
	return participants
}

// mentionList formats participants as a comma separated list of mentions
func mentionList(participants []shared.Participant) string {
	mentions := make([]string, 0, len(participants))
	for _, p := range participants {
		mentions = append(mentions, p.Mention())
	}
	return strings.Join(mentions, ", ")
}

// displayTime formats an hour/minute pair as both 12 and 24 hour time,
// e.g. "2:30 PM (14:30)"
func displayTime(hour, minute int) string {
	amPM := "AM"
	if hour >= 12 {
		amPM = "PM"
	}
	displayHour := hour
	if displayHour > 12 {
		displayHour -= 12
	}
	if displayHour == 0 {
		displayHour = 12
	}
	return fmt.Sprintf("%d:%02d %s (%02d:%02d)", displayHour, minute, amPM, hour, minute)
}

// startsWith checks if a string starts with a given substring
// Preconditions: Recieves an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	if !strings.Contains(inputString, substring) {
		return false
	}
	strLength := len(substring)
	for i := range strLength {
		if inputString[i] != substring[i] {
			return false
		}
	}
	return true
}
