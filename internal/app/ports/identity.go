package ports

import "context"

// UserRecord is the signed-in identity as the sign-in flow stored it.
type UserRecord struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

type IdentityProvider interface {
	Current(ctx context.Context) (UserRecord, error)
	SignIn(ctx context.Context, user UserRecord) error
	SignOut(ctx context.Context) error
}
