package ports

import (
	"context"

	"github.com/eventtogether/webapp/internal/core/domain"
)

// RegisterInput carries a new-account registration to the upstream API.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	About    string `json:"about,omitempty"`
}

// AccountAPI is the slice of the upstream API the session service needs:
// credential exchange, registration, and profile reads/writes performed
// with an explicit token (the service owns token storage, so it binds the
// token per call rather than relying on ambient client state).
type AccountAPI interface {
	Login(ctx context.Context, email, password string) (token string, err error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Profile(ctx context.Context, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, token string, changes domain.ProfileChanges) (*domain.User, error)
}
