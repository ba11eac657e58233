package auth

import (
	"context"
	"errors"
	"strings"

	"tilefarm/internal/app/ports"
)

const (
	saveKeyPrefix = "tileFarmSave_"
	GuestSaveKey  = saveKeyPrefix + "guest"
)

var (
	ErrInvalidRequest = errors.New("invalid auth request")
	ErrNotSignedIn    = errors.New("not signed in")
)

// SaveKey derives the persistence key for a signed-in user. The email is
// trusted as stored; nothing here verifies it.
func SaveKey(user ports.UserRecord) (string, error) {
	email := strings.TrimSpace(user.Email)
	if email == "" {
		return "", ErrNotSignedIn
	}
	return saveKeyPrefix + email, nil
}

type Identity struct {
	User    ports.UserRecord `json:"user"`
	SaveKey string           `json:"save_key"`
	Guest   bool             `json:"guest"`
}

type UseCase struct {
	Identity   ports.IdentityProvider
	AllowGuest bool
}

// Resolve reads the stored user record. Without one the caller is either the
// guest, when allowed, or not signed in.
func (u UseCase) Resolve(ctx context.Context) (Identity, error) {
	if u.Identity == nil {
		return u.guest()
	}
	user, err := u.Identity.Current(ctx)
	if errors.Is(err, ports.ErrNotFound) {
		return u.guest()
	}
	if err != nil {
		return Identity{}, err
	}
	key, err := SaveKey(user)
	if err != nil {
		return u.guest()
	}
	return Identity{User: user, SaveKey: key}, nil
}

func (u UseCase) guest() (Identity, error) {
	if !u.AllowGuest {
		return Identity{}, ErrNotSignedIn
	}
	return Identity{SaveKey: GuestSaveKey, Guest: true}, nil
}

func (u UseCase) SignIn(ctx context.Context, user ports.UserRecord) (Identity, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	key, err := SaveKey(user)
	if err != nil || u.Identity == nil {
		return Identity{}, ErrInvalidRequest
	}
	if user.Name == "" {
		user.Name = user.Email
	}
	if err := u.Identity.SignIn(ctx, user); err != nil {
		return Identity{}, err
	}
	return Identity{User: user, SaveKey: key}, nil
}

// SignOut forgets the signed-in user. The farm save stays where it is.
func (u UseCase) SignOut(ctx context.Context) error {
	if u.Identity == nil {
		return ErrInvalidRequest
	}
	return u.Identity.SignOut(ctx)
}
