package replay

import (
	"context"
	"errors"
	"strings"

	"tilefarm/internal/app/ports"
	"tilefarm/internal/domain/farm"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	Events ports.EventRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	key := strings.TrimSpace(req.UserKey)
	if key == "" || req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	if req.OccurredFrom > 0 && req.OccurredTo > 0 && req.OccurredFrom > req.OccurredTo {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	events, err := u.Events.ListByUser(ctx, key, limit)
	if err != nil {
		return Response{}, err
	}
	events = filterByTimeWindow(events, req.OccurredFrom, req.OccurredTo)
	return Response{Events: events, LatestState: reconstruct(events)}, nil
}

// filterByTimeWindow keeps events inside [from, to], both in unix seconds;
// a zero bound is open.
func filterByTimeWindow(events []farm.DomainEvent, from, to int64) []farm.DomainEvent {
	out := make([]farm.DomainEvent, 0, len(events))
	for _, evt := range events {
		ts := evt.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// reconstruct folds the state_after summaries; events arrive oldest first so
// the last one wins.
func reconstruct(events []farm.DomainEvent) LatestState {
	state := LatestState{Inventory: map[string]int{}}
	for _, evt := range events {
		after, ok := evt.Payload["state_after"].(map[string]any)
		if !ok {
			continue
		}
		state.Money = int(num(after["money"]))
		state.LotCount = int(num(after["lot_count"]))
		state.LotPrice = int(num(after["lot_price"]))
		inv := map[string]int{}
		switch items := after["inventory"].(type) {
		case map[string]any:
			for k, v := range items {
				inv[k] = int(num(v))
			}
		case map[string]int:
			for k, v := range items {
				inv[k] = v
			}
		}
		state.Inventory = inv
	}
	return state
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
