/* platform.go
 * Contains the Platform interface: the role/channel/membership primitives the
 * grant planner needs from the chat platform. This allows for mocking in tests
 * Authors: Zachary Bower
 */

package grants

// Role colors used for created roles
const (
	RoleColorGreen = 0x2ecc71
	RoleColorBlue  = 0x3498db
)

// Role is a descriptor for a role on the platform
type Role struct {
	ID   string
	Name string
}

// Channel is a descriptor for a channel or category on the platform
type Channel struct {
	ID   string
	Name string
}

// Platform defines the external platform operations the planner consumes.
// Ensure operations are idempotent lookup-or-create by name within a guild,
// since artifact names are deterministic. All operations are fallible; a
// refused privileged operation wraps shared.ErrPermissionDenied.
type Platform interface {
	// IsMember reports whether the user is currently a member of the guild
	IsMember(guildID, userID string) bool

	// EnsureRole returns the role with the given name, creating it if needed
	EnsureRole(guildID, name string, color int, mentionable bool) (Role, error)
	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
	DeleteRole(guildID, roleID string) error

	// EnsureCategory returns the category with the given name, creating it if needed
	EnsureCategory(guildID, name string) (Channel, error)
	// CreateGroupChannel creates a private text channel under the category,
	// visible only to the given role, administrative roles and the bot itself
	CreateGroupChannel(guildID, name, categoryID, roleID string) (Channel, error)
	DeleteChannel(channelID string) error
}
