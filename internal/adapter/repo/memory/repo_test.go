package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilefarm/internal/app/ports"
	"tilefarm/internal/domain/farm"
)

func TestFarmStateRepoLoadSave(t *testing.T) {
	ctx := context.Background()
	repo := NewFarmStateRepo(NewStore())

	_, err := repo.Load(ctx, "tileFarmSave_guest")
	require.ErrorIs(t, err, ports.ErrNotFound)

	rec := farm.EncodeRecord(farm.DefaultState())
	rec.Money = 77
	require.NoError(t, repo.Save(ctx, "tileFarmSave_guest", rec))

	got, err := repo.Load(ctx, "tileFarmSave_guest")
	require.NoError(t, err)
	assert.Equal(t, 77, got.Money)
	assert.Len(t, got.Lots, farm.DefaultLotCount)

	rec.Money = 5
	require.NoError(t, repo.Save(ctx, "tileFarmSave_guest", rec))
	got, err = repo.Load(ctx, "tileFarmSave_guest")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Money)
}

func TestFarmStateRepoLoadsLegacyRaw(t *testing.T) {
	store := NewStore()
	store.SeedRaw("u", []byte(`{"money":1,"lots":[{"type":"wheat","timeLeft":3}]}`))

	rec, err := NewFarmStateRepo(store).Load(context.Background(), "u")
	require.NoError(t, err)
	require.Len(t, rec.Lots, 1)
	assert.Equal(t, "wheat", rec.Lots[0].LegacyType)
	require.NotNil(t, rec.Lots[0].TimeLeft)
	assert.EqualValues(t, 3, *rec.Lots[0].TimeLeft)
}

func TestEventRepoListsLatestOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepo(NewStore())
	base := time.Unix(1_700_000_000, 0)
	for i := 0; i < 5; i++ {
		evt := farm.DomainEvent{Type: "crop_sold", OccurredAt: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, repo.Append(ctx, "u", []farm.DomainEvent{evt}))
	}
	require.NoError(t, repo.Append(ctx, "other", []farm.DomainEvent{{Type: "lot_bought"}}))

	got, err := repo.ListByUser(ctx, "u", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, base.Add(3*time.Second), got[0].OccurredAt)
	assert.Equal(t, base.Add(4*time.Second), got[1].OccurredAt)

	all, err := repo.ListByUser(ctx, "u", 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
