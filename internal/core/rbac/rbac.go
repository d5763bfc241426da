// Package rbac holds the static role-to-permission table and its lookup
// helpers. The table is defined once at init and never reloaded; an
// unknown role has no permissions (fail closed).
package rbac

import "github.com/eventtogether/webapp/internal/core/domain"

// Permission is a named capability gating a specific UI action.
type Permission string

const (
	PermViewEvents       Permission = "view_events"
	PermViewGroups       Permission = "view_groups"
	PermCreateEvent      Permission = "create_event"
	PermCreateGroup      Permission = "create_group"
	PermJoinGroup        Permission = "join_group"
	PermEditOwnEvent     Permission = "edit_own_event"
	PermDeleteOwnEvent   Permission = "delete_own_event"
	PermEditOwnProfile   Permission = "edit_own_profile"
	PermEditEvent        Permission = "edit_event"
	PermDeleteEvent      Permission = "delete_event"
	PermViewUsers        Permission = "view_users"
	PermBanUser          Permission = "ban_user"
	PermDeleteUser       Permission = "delete_user"
	PermManageCategories Permission = "manage_categories"
	PermManageRoles      Permission = "manage_roles"
	PermAccessAdminPanel Permission = "access_admin_panel"
)

// Set is an immutable-by-convention permission set.
type Set map[Permission]struct{}

func newSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// union combines sets into a new one; inputs are not modified.
func union(sets ...Set) Set {
	out := make(Set)
	for _, s := range sets {
		for p := range s {
			out[p] = struct{}{}
		}
	}
	return out
}

// The table is composed additively from shared building blocks but the
// per-role membership is deliberately flat: there is no privilege ordering
// between roles. Note that moderator and admin lack the *_own_* entries a
// plain user has — their blanket edit/delete permissions are separate
// capabilities, not supersets.
var (
	browsing = newSet(PermViewEvents, PermViewGroups)
	creating = newSet(PermCreateEvent, PermCreateGroup, PermJoinGroup)

	userExtras = newSet(PermEditOwnEvent, PermDeleteOwnEvent, PermEditOwnProfile)
	modExtras  = newSet(PermEditEvent, PermDeleteEvent, PermViewUsers, PermBanUser, PermAccessAdminPanel)
	adminOnly  = newSet(PermDeleteUser, PermManageCategories, PermManageRoles)

	table = map[domain.Role]Set{
		domain.RoleGuest:     browsing,
		domain.RoleUser:      union(browsing, creating, userExtras),
		domain.RoleModerator: union(browsing, creating, modExtras),
		domain.RoleAdmin:     union(browsing, creating, modExtras, adminOnly),
	}
)

// HasPermission reports whether role's permission set contains perm.
// Unknown roles (including the empty role) have no permissions.
func HasPermission(role domain.Role, perm Permission) bool {
	set, ok := table[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// HasRole reports whether role is a member of the allow-list. Used for
// coarse page-level gating, distinct from fine-grained HasPermission.
func HasRole(role domain.Role, allowed ...domain.Role) bool {
	if role == "" {
		return false
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Permissions returns a copy of role's permission set, empty for unknown
// roles.
func Permissions(role domain.Role) []Permission {
	set := table[role]
	out := make([]Permission, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}

func CanCreateEvent(role domain.Role) bool { return HasPermission(role, PermCreateEvent) }
func CanCreateGroup(role domain.Role) bool { return HasPermission(role, PermCreateGroup) }
func CanJoinGroup(role domain.Role) bool   { return HasPermission(role, PermJoinGroup) }
func CanBanUser(role domain.Role) bool     { return HasPermission(role, PermBanUser) }
func CanManageRoles(role domain.Role) bool { return HasPermission(role, PermManageRoles) }

func CanAccessAdminPanel(role domain.Role) bool {
	return HasPermission(role, PermAccessAdminPanel)
}

// CanEditEvent checks edit_own_event for the owner and edit_event
// otherwise. The two capabilities are independent: ownership switches
// which one applies, it does not widen the check.
func CanEditEvent(role domain.Role, owner bool) bool {
	if owner {
		return HasPermission(role, PermEditOwnEvent)
	}
	return HasPermission(role, PermEditEvent)
}

// CanDeleteEvent mirrors CanEditEvent for deletion.
func CanDeleteEvent(role domain.Role, owner bool) bool {
	if owner {
		return HasPermission(role, PermDeleteOwnEvent)
	}
	return HasPermission(role, PermDeleteEvent)
}
