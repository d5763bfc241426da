package upstream

import (
	"context"
	"net/http"

	"github.com/eventtogether/webapp/internal/core/domain"
)

// Profile fetches the authenticated user's own representation.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial update to the authenticated user.
func (c *Client) UpdateProfile(ctx context.Context, changes domain.ProfileChanges) (*domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, http.MethodPut, "/users/me", changes, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteProfile removes the authenticated user's account.
func (c *Client) DeleteProfile(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/users/me", nil, nil)
}
