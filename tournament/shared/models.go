/* models.go
 * Contains common models and tournament limits shared across the application
 * Authors: Zachary Bower
 */

package shared

import (
	"fmt"
	"time"
)

// Tournament limits. A full roster is 12 teams of 4.
const (
	MaxUsers     = 48
	MinUsers     = 8
	UsersPerTeam = 4
)

const (
	// ExpiryDuration is how long role grants survive after a session opens
	ExpiryDuration = 8 * time.Hour
	// TickInterval is the cadence of the background scheduler checks
	TickInterval = time.Minute
)

// RegisteredRoleName is the shared role granted to every registered participant
const RegisteredRoleName = "Registered"

// GroupCategoryName is the category that holds the private group channels
const GroupCategoryName = "Tournament Groups"

// Participant is a platform user referenced by a team. The platform owns the
// user's lifecycle; we only hold the id and display handle.
type Participant struct {
	ID       string
	Username string
}

// Mention returns the participant formatted as a Discord mention token
func (p Participant) Mention() string {
	return fmt.Sprintf("<@%s>", p.ID)
}

// GroupRoleName returns the deterministic role name for a group index (1-based)
func GroupRoleName(idx int) string {
	return fmt.Sprintf("Grp%d", idx)
}

// GroupChannelName returns the deterministic channel name for a group index (1-based)
func GroupChannelName(idx int) string {
	return fmt.Sprintf("group-%d", idx)
}
