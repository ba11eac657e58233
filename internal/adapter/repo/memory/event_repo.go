package memory

import (
	"context"

	"tilefarm/internal/domain/farm"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, userKey string, events []farm.DomainEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events[userKey] = append(r.store.events[userKey], events...)
	return nil
}

func (r EventRepo) ListByUser(_ context.Context, userKey string, limit int) ([]farm.DomainEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := r.store.events[userKey]
	start := 0
	if limit > 0 && len(all) > limit {
		start = len(all) - limit
	}
	out := make([]farm.DomainEvent, len(all)-start)
	copy(out, all[start:])
	return out, nil
}
