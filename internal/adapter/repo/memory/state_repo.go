package memory

import (
	"context"

	"tilefarm/internal/app/ports"
	"tilefarm/internal/domain/farm"
)

type FarmStateRepo struct {
	store *Store
}

func NewFarmStateRepo(store *Store) FarmStateRepo {
	return FarmStateRepo{store: store}
}

func (r FarmStateRepo) Load(_ context.Context, userKey string) (farm.Record, error) {
	r.store.mu.RLock()
	data, ok := r.store.saves[userKey]
	r.store.mu.RUnlock()
	if !ok {
		return farm.Record{}, ports.ErrNotFound
	}
	return farm.UnmarshalRecord(data)
}

func (r FarmStateRepo) Save(_ context.Context, userKey string, rec farm.Record) error {
	data, err := farm.MarshalRecord(rec)
	if err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.saves[userKey] = data
	return nil
}
