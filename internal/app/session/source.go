package session

import (
	"context"

	"tilefarm/internal/app/ports"
)

// Source hands out the running session for a user key. Registry is the
// multi-user implementation.
type Source interface {
	Get(ctx context.Context, userKey string) (*Session, error)
}

// Fixed serves one already-running session, the single-player case.
type Fixed struct {
	Session *Session
}

func (f Fixed) Get(_ context.Context, userKey string) (*Session, error) {
	if f.Session == nil || f.Session.UserKey() != userKey {
		return nil, ports.ErrNotFound
	}
	return f.Session, nil
}
