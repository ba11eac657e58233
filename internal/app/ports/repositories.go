package ports

import (
	"context"

	"tilefarm/internal/domain/farm"
)

// FarmStateRepository stores one persisted record per user key. Load returns
// ErrNotFound when nothing has been saved yet.
type FarmStateRepository interface {
	Load(ctx context.Context, userKey string) (farm.Record, error)
	Save(ctx context.Context, userKey string, rec farm.Record) error
}

// EventRepository keeps the applied-action history. ListByUser returns the
// latest limit events, oldest first.
type EventRepository interface {
	Append(ctx context.Context, userKey string, events []farm.DomainEvent) error
	ListByUser(ctx context.Context, userKey string, limit int) ([]farm.DomainEvent, error)
}

type CatalogProvider interface {
	Catalog(ctx context.Context) (farm.Catalog, error)
	Raw(ctx context.Context) ([]byte, error)
}
