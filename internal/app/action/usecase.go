package action

import (
	"context"
	"errors"
	"strings"

	"tilefarm/internal/app/session"
	"tilefarm/internal/app/stateview"
	"tilefarm/internal/domain/farm"
)

var ErrInvalidRequest = errors.New("invalid action request")

type UseCase struct {
	Sessions session.Source
}

// Execute routes the intent into the user's session. A precondition failure
// comes back as a REJECTED response, not as an error.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	key := strings.TrimSpace(req.UserKey)
	in, err := intentOf(req)
	if key == "" || err != nil {
		return Response{}, ErrInvalidRequest
	}

	sess, err := u.Sessions.Get(ctx, key)
	if err != nil {
		return Response{}, err
	}
	// outcome and snapshot come from one loop turn
	res, err := sess.Execute(ctx, in)
	if err != nil {
		return Response{}, err
	}
	events := res.Outcome.Events
	if events == nil {
		events = []farm.DomainEvent{}
	}
	return Response{
		Applied:    res.Outcome.Applied,
		ResultCode: res.Outcome.Code,
		Message:    res.Outcome.Message,
		Events:     events,
		State:      res.State,
		View:       stateview.Derive(res.State, sess.Catalog(), res.Now),
	}, nil
}

func intentOf(req Request) (farm.Intent, error) {
	in := farm.Intent{
		Type:   farm.IntentType(strings.TrimSpace(string(req.Type))),
		Crop:   req.Crop,
		Amount: req.Amount,
	}
	if !farm.IsSupportedIntent(in.Type) {
		return farm.Intent{}, ErrInvalidRequest
	}
	if farm.IntentTakesLot(in.Type) {
		if req.Lot == nil {
			return farm.Intent{}, ErrInvalidRequest
		}
		in.Lot = *req.Lot
	}
	return in, nil
}
