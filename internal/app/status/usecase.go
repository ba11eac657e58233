package status

import (
	"context"
	"errors"
	"strings"

	"tilefarm/internal/app/session"
	"tilefarm/internal/app/stateview"
)

var ErrInvalidRequest = errors.New("invalid status request")

type UseCase struct {
	Sessions session.Source
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	key := strings.TrimSpace(req.UserKey)
	if key == "" {
		return Response{}, ErrInvalidRequest
	}
	sess, err := u.Sessions.Get(ctx, key)
	if err != nil {
		return Response{}, err
	}
	state, now, err := sess.Snapshot(ctx)
	if err != nil {
		return Response{}, err
	}
	return Response{State: state, View: stateview.Derive(state, sess.Catalog(), now)}, nil
}
