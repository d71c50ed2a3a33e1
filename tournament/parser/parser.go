/* parser.go
 * Contains the logic for extracting a team registration attempt from a chat
 * message. Parsing is pure; validation against the registry happens downstream
 * Authors: Zachary Bower
 */

package parser

import (
	"fmt"
	"strings"

	"teamreg-bot/tournament/shared"
)

// ParsedTeam is a candidate team extracted from a message, not yet validated
type ParsedTeam struct {
	Name    string
	Members []shared.Participant
}

// Parse extracts a team registration attempt from raw message content and the
// users mentioned in it. A message qualifies only when it mentions exactly
// UsersPerTeam distinct users; anything else is not a team message and ok is
// false. registrySize is used to synthesise a default name ("Team N+1") when
// the message is mentions only.
// Preconditions: receives the raw message content, the mentioned users in message order, and the current registry size
// Postconditions: returns the parsed team and true, or the zero value and false if the message is not a registration attempt
func Parse(content string, mentions []shared.Participant, registrySize int) (ParsedTeam, bool) {
	members := distinct(mentions)
	if len(members) != shared.UsersPerTeam {
		return ParsedTeam{}, false
	}

	name := stripMentions(content, members)
	if name == "" {
		name = fmt.Sprintf("Team %d", registrySize+1)
	}

	return ParsedTeam{Name: name, Members: members}, true
}

// distinct collapses repeated mentions of the same user, preserving first-seen order
func distinct(mentions []shared.Participant) []shared.Participant {
	seen := make(map[string]bool)
	var out []shared.Participant
	for _, m := range mentions {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}

// stripMentions removes every mention token from the content and normalises
// the remaining whitespace. Discord renders mentions as <@id> or <@!id>
// depending on whether the user has a nickname, so both forms are removed.
func stripMentions(content string, members []shared.Participant) string {
	for _, m := range members {
		content = strings.ReplaceAll(content, fmt.Sprintf("<@!%s>", m.ID), "")
		content = strings.ReplaceAll(content, fmt.Sprintf("<@%s>", m.ID), "")
	}
	return strings.Join(strings.Fields(content), " ")
}
