package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"tilefarm/internal/app/ports"
	"tilefarm/internal/domain/farm"
)

// Opener restores a player's persisted farm and builds the session around it.
type Opener struct {
	Repo       ports.FarmStateRepository
	Events     ports.EventRepository
	Catalog    farm.Catalog
	Metrics    ports.FarmMetrics
	Logger     zerolog.Logger
	TickPeriod time.Duration
	Now        func() time.Time
}

// Open loads the saved record for userKey, or starts from the default state
// when there is none. An unreadable or unknown-crop record is an error; the
// save is never silently reset.
func (o Opener) Open(ctx context.Context, userKey string, renderer ports.Renderer) (*Session, error) {
	nowFn := o.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	state, err := o.load(ctx, userKey, nowFn())
	if err != nil {
		return nil, err
	}
	return New(Options{
		UserKey:    userKey,
		State:      state,
		Catalog:    o.Catalog,
		Repo:       o.Repo,
		Events:     o.Events,
		Renderer:   renderer,
		Metrics:    o.Metrics,
		Logger:     o.Logger,
		TickPeriod: o.TickPeriod,
		Now:        nowFn,
	}), nil
}

func (o Opener) load(ctx context.Context, userKey string, now time.Time) (farm.GameState, error) {
	rec, err := o.Repo.Load(ctx, userKey)
	if errors.Is(err, ports.ErrNotFound) {
		o.Logger.Info().Str("user", userKey).Msg("no saved farm, starting fresh")
		return farm.DefaultState(), nil
	}
	if err != nil {
		return farm.GameState{}, fmt.Errorf("load farm %s: %w", userKey, err)
	}
	state, err := farm.DecodeRecord(rec, o.Catalog, now)
	if err != nil {
		return farm.GameState{}, fmt.Errorf("restore farm %s: %w", userKey, err)
	}
	return state, nil
}
