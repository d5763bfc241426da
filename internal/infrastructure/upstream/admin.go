package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eventtogether/webapp/internal/core/domain"
)

// AdminUser is the privileged view of an account.
type AdminUser struct {
	domain.User
	IsActive bool `json:"is_active"`
}

// AdminUserUpdate is a partial privileged update; nil fields are untouched.
type AdminUserUpdate struct {
	Name     *string      `json:"name,omitempty"`
	Role     *domain.Role `json:"role,omitempty"`
	IsActive *bool        `json:"is_active,omitempty"`
}

func (c *Client) AdminUsers(ctx context.Context) ([]AdminUser, error) {
	var users []AdminUser
	if err := c.doJSON(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) AdminUser(ctx context.Context, id int64) (*AdminUser, error) {
	var user AdminUser
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/admin/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) AdminUpdateUser(ctx context.Context, id int64, in AdminUserUpdate) (*AdminUser, error) {
	var user AdminUser
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/users/%d", id), in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) AdminDeleteUser(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/users/%d", id), nil, nil)
}

func (c *Client) AdminToggleUserActive(ctx context.Context, id int64) (*AdminUser, error) {
	var user AdminUser
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%d/toggle-active", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) AdminEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.doJSON(ctx, http.MethodGet, "/admin/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) AdminUpdateEvent(ctx context.Context, id int64, in EventInput) (*domain.Event, error) {
	var event domain.Event
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/events/%d", id), in, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) AdminDeleteEvent(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/events/%d", id), nil, nil)
}

func (c *Client) AdminGroups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	if err := c.doJSON(ctx, http.MethodGet, "/admin/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) AdminUpdateGroup(ctx context.Context, id int64, in GroupInput) (*domain.Group, error) {
	var group domain.Group
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/groups/%d", id), in, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) AdminDeleteGroup(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/groups/%d", id), nil, nil)
}

func (c *Client) AdminToggleGroupStatus(ctx context.Context, id int64) (*domain.Group, error) {
	var group domain.Group
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/admin/groups/%d/toggle-status", id), nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}
