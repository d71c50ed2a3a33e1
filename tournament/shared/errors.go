/* errors.go
 * Contains the error taxonomy for registration and pairing failures. Validation
 * errors carry the data needed to report the failure back to the channel;
 * callers match on them with errors.Is / errors.As
 * Authors: Zachary Bower
 */

package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyActive is returned when opening a session that is already open
	ErrAlreadyActive = errors.New("registration is already active")

	// ErrPermissionDenied wraps platform refusals of privileged operations
	ErrPermissionDenied = errors.New("permission denied")

	ErrInvalidHour   = errors.New("hour must be between 0 and 23")
	ErrInvalidMinute = errors.New("minute must be between 0 and 59")
)

// UnknownParticipantError reports mentioned users that are not members of the
// serving guild. Usernames holds every offending user from the attempt.
type UnknownParticipantError struct {
	Usernames []string
}

func (e *UnknownParticipantError) Error() string {
	return fmt.Sprintf("users not in this server: %s", strings.Join(e.Usernames, ", "))
}

// AlreadyRegisteredError reports the first mentioned user that already belongs
// to a registered team
type AlreadyRegisteredError struct {
	Participant Participant
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("%s is already registered in another team", e.Participant.Username)
}

// CapacityExceededError reports a registration that would push the user total
// past MaxUsers
type CapacityExceededError struct {
	Current   int
	Attempted int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("maximum users reached (%d): currently have %d, adding this team would make %d", MaxUsers, e.Current, e.Attempted)
}

// InsufficientTeamsError reports a pairing attempt without enough registered
// users or teams
type InsufficientTeamsError struct {
	Users int
	Teams int
}

func (e *InsufficientTeamsError) Error() string {
	return fmt.Sprintf("not enough registered to pair: %d user(s) across %d team(s), need at least %d users and 2 teams", e.Users, e.Teams, MinUsers)
}

// TooManyUsersError reports a pairing attempt over the user cap
type TooManyUsersError struct {
	Users int
}

func (e *TooManyUsersError) Error() string {
	return fmt.Sprintf("too many users to pair: %d, maximum is %d", e.Users, MaxUsers)
}
