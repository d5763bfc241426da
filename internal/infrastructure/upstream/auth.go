package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/eventtogether/webapp/internal/core/domain"
	"github.com/eventtogether/webapp/internal/core/ports"
)

// Login exchanges credentials for an access token. The endpoint takes a
// form-encoded body with the email in the username field.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	values := url.Values{}
	values.Set("username", email)
	values.Set("password", password)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.doForm(ctx, http.MethodPost, "/auth/login", values, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Register creates a new account and returns its representation. It does
// not issue a token.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Accounts adapts the client to ports.AccountAPI, binding the token per
// call: the session service owns token storage and never relies on a
// long-lived bound client.
type Accounts struct {
	c *Client
}

func NewAccounts(c *Client) Accounts {
	return Accounts{c: c}
}

func (a Accounts) Login(ctx context.Context, email, password string) (string, error) {
	return a.c.Login(ctx, email, password)
}

func (a Accounts) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return a.c.Register(ctx, in)
}

func (a Accounts) Profile(ctx context.Context, token string) (*domain.User, error) {
	return a.c.WithToken(token).Profile(ctx)
}

func (a Accounts) UpdateProfile(ctx context.Context, token string, changes domain.ProfileChanges) (*domain.User, error) {
	return a.c.WithToken(token).UpdateProfile(ctx, changes)
}
