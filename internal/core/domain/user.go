package domain

// Role is the coarse-grained user category used for page gating and
// permission lookup. RoleGuest denotes the absence of a session and is
// never returned by the upstream API.
type Role string

const (
	RoleGuest     Role = "guest"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// User is the client-side projection of an account, owned by the session
// layer once fetched. It is mutated only by explicit profile-update merges
// and destroyed on logout.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	About     string `json:"about,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Merge returns a copy of u with the set fields of changes applied.
// Identity fields (ID, Email, Role) are never touched by a merge; the
// upstream API is authoritative for those.
func (u User) Merge(changes ProfileChanges) User {
	if changes.Name != nil {
		u.Name = *changes.Name
	}
	if changes.About != nil {
		u.About = *changes.About
	}
	if changes.AvatarURL != nil {
		u.AvatarURL = *changes.AvatarURL
	}
	return u
}

// ProfileChanges is a partial profile update. Nil fields are left untouched.
type ProfileChanges struct {
	Name      *string `json:"name,omitempty"`
	About     *string `json:"about,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Session is the per-browser view of "who is logged in". User is nil for
// anonymous visitors and for tokens that have not yet resolved to a profile.
type Session struct {
	ID   string
	User *User
}

// Authenticated reports whether the session resolves to a user. A stored
// token that failed to resolve does not count.
func (s Session) Authenticated() bool {
	return s.User != nil
}

// Role returns the effective role for permission checks, RoleGuest when the
// session is anonymous.
func (s Session) Role() Role {
	if s.User == nil {
		return RoleGuest
	}
	return s.User.Role
}
