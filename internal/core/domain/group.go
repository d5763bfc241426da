package domain

// Group mirrors the upstream interest-group representation.
type Group struct {
	ID                  int64  `json:"id"`
	EventID             int64  `json:"event_id,omitempty"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	MembersCount        int    `json:"members_count"`
	MaxMembers          int    `json:"max_members"`
	IsOpen              bool   `json:"is_open"`
	OrganizerName       string `json:"organizer_name,omitempty"`
	CurrentUserIsMember bool   `json:"current_user_is_member,omitempty"`
}

// Full reports whether the group has reached its member limit.
func (g Group) Full() bool {
	return g.MaxMembers > 0 && g.MembersCount >= g.MaxMembers
}
