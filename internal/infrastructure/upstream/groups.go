package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eventtogether/webapp/internal/core/domain"
)

// GroupInput is the create/update payload for an interest group.
type GroupInput struct {
	EventID     int64  `json:"event_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MaxMembers  int    `json:"max_members"`
}

func (c *Client) Groups(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	if err := c.doJSON(ctx, http.MethodGet, "/groups/", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) Group(ctx context.Context, id int64) (*domain.Group, error) {
	var group domain.Group
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/groups/%d", id), nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) CreateGroup(ctx context.Context, in GroupInput) (*domain.Group, error) {
	var group domain.Group
	if err := c.doJSON(ctx, http.MethodPost, "/groups/", in, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) UpdateGroup(ctx context.Context, id int64, in GroupInput) (*domain.Group, error) {
	var group domain.Group
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/groups/%d", id), in, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) DeleteGroup(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/groups/%d", id), nil, nil)
}

func (c *Client) JoinGroup(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/groups/%d/join", id), nil, nil)
}

func (c *Client) LeaveGroup(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/groups/%d/leave", id), nil, nil)
}

// CheckMembership reports whether the authenticated user belongs to the
// group.
func (c *Client) CheckMembership(ctx context.Context, id int64) (bool, error) {
	var resp struct {
		IsMember bool `json:"is_member"`
	}
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/groups/%d/check-membership", id), nil, &resp); err != nil {
		return false, err
	}
	return resp.IsMember, nil
}
