package repo

import (
	"context"
	"fmt"

	gormrepo "tilefarm/internal/adapter/repo/gorm"
	"tilefarm/internal/adapter/repo/memory"
	"tilefarm/internal/app/ports"
)

const DriverMemory = "memory"

type Options struct {
	Driver        string
	DSN           string
	SQLitePath    string
	MigrationsDir string
}

// Stores bundles the save and event repositories of one backend.
type Stores struct {
	Saves  ports.FarmStateRepository
	Events ports.EventRepository
	close  func() error
}

func (s Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open builds the repositories for the configured driver and brings the
// schema up to date.
func Open(ctx context.Context, opts Options) (Stores, error) {
	if opts.Driver == DriverMemory || opts.Driver == "" {
		store := memory.NewStore()
		return Stores{Saves: memory.NewFarmStateRepo(store), Events: memory.NewEventRepo(store)}, nil
	}
	dsn := opts.DSN
	if opts.Driver == gormrepo.DriverSQLite {
		dsn = opts.SQLitePath
	}
	db, err := gormrepo.Open(opts.Driver, dsn)
	if err != nil {
		return Stores{}, err
	}
	if err := gormrepo.Migrate(ctx, db, opts.MigrationsDir); err != nil {
		_ = gormrepo.Close(db)
		return Stores{}, fmt.Errorf("migrate %s: %w", opts.Driver, err)
	}
	return Stores{
		Saves:  gormrepo.NewFarmStateRepo(db),
		Events: gormrepo.NewEventRepo(db),
		close:  func() error { return gormrepo.Close(db) },
	}, nil
}
