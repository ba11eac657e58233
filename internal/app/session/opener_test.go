package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilefarm/internal/adapter/repo/memory"
	"tilefarm/internal/domain/farm"
)

func newOpener(store *memory.Store, clk *clock) Opener {
	return Opener{
		Repo:       memory.NewFarmStateRepo(store),
		Events:     memory.NewEventRepo(store),
		Catalog:    testCatalog(),
		Logger:     zerolog.Nop(),
		TickPeriod: testPeriod,
		Now:        clk.Now,
	}
}

func TestOpenWithoutSaveStartsFresh(t *testing.T) {
	ctx := context.Background()
	sess, err := newOpener(memory.NewStore(), newClock()).Open(ctx, "tileFarmSave_a@b.c", nil)
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	go sess.Run(runCtx)
	defer func() { cancel(); <-sess.Done() }()

	snap, _, err := sess.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, farm.DefaultState(), snap)
}

func TestOpenMigratesLegacySave(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clk := newClock()
	store.SeedRaw("k", []byte(`{"money":12,"inventory":{"wheat":1,"hops":0},"lotPrice":15,
		"lots":[{"type":"wheat","timeLeft":4,"isReady":false},null,null,null]}`))

	sess, err := newOpener(store, clk).Open(ctx, "k", nil)
	require.NoError(t, err)
	runCtx, cancel := context.WithCancel(ctx)
	go sess.Run(runCtx)

	snap, now, err := sess.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Lots[0])
	assert.Equal(t, 4, snap.Lots[0].SecondsLeft(now))
	assert.Equal(t, 12, snap.Money)

	cancel()
	<-sess.Done()

	raw, ok := store.Raw("k")
	require.True(t, ok)
	assert.NotContains(t, string(raw), "timeLeft")
	assert.Contains(t, string(raw), `"finishTime"`)
}

func TestOpenFailsOnBadSaves(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want error
	}{
		{name: "unknown crop", raw: `{"lots":[{"cropType":"corn","finishTime":1}]}`, want: farm.ErrUnknownCrop},
		{name: "unparsable", raw: `{"money":`, want: farm.ErrCorruptState},
		{name: "negative money", raw: `{"money":-4}`, want: farm.ErrCorruptState},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewStore()
			store.SeedRaw("k", []byte(tc.raw))
			_, err := newOpener(store, newClock()).Open(context.Background(), "k", nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestRegistryReusesAndEvicts(t *testing.T) {
	store := memory.NewStore()
	opener := newOpener(store, newClock())
	var mu sync.Mutex
	opened := map[string]int{}
	open := func(ctx context.Context, key string) (*Session, error) {
		mu.Lock()
		opened[key]++
		mu.Unlock()
		return opener.Open(ctx, key, nil)
	}
	reg, err := NewRegistry(1, open, zerolog.Nop())
	require.NoError(t, err)
	defer reg.Close()

	ctx := context.Background()
	a1, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	a2, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, a1, a2)

	_, err = reg.Get(ctx, "b")
	require.NoError(t, err)
	select {
	case <-a1.Done():
	case <-time.After(time.Second):
		t.Fatal("evicted session still running")
	}
	_, ok := store.Raw("a")
	assert.True(t, ok, "eviction flushes the save")

	a3, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	assert.NotSame(t, a1, a3)
	mu.Lock()
	assert.Equal(t, 2, opened["a"])
	mu.Unlock()
}

func TestRegistryPropagatesOpenError(t *testing.T) {
	store := memory.NewStore()
	store.SeedRaw("bad", []byte(`{"money":-1}`))
	opener := newOpener(store, newClock())
	reg, err := NewRegistry(4, func(ctx context.Context, key string) (*Session, error) {
		return opener.Open(ctx, key, nil)
	}, zerolog.Nop())
	require.NoError(t, err)
	defer reg.Close()

	_, err = reg.Get(context.Background(), "bad")
	assert.ErrorIs(t, err, farm.ErrCorruptState)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistryCloseStopsSessions(t *testing.T) {
	opener := newOpener(memory.NewStore(), newClock())
	reg, err := NewRegistry(4, func(ctx context.Context, key string) (*Session, error) {
		return opener.Open(ctx, key, nil)
	}, zerolog.Nop())
	require.NoError(t, err)

	s, err := reg.Get(context.Background(), "x")
	require.NoError(t, err)
	reg.Close()
	select {
	case <-s.Done():
	default:
		t.Fatal("session still running after Close")
	}
}

// gatedRepo holds every save until release is closed.
type gatedRepo struct {
	memory.FarmStateRepo
	release chan struct{}
}

func (g gatedRepo) Save(ctx context.Context, key string, rec farm.Record) error {
	<-g.release
	return g.FarmStateRepo.Save(ctx, key, rec)
}

func TestRegistryEvictionDoesNotHoldOtherUsers(t *testing.T) {
	store := memory.NewStore()
	repo := gatedRepo{FarmStateRepo: memory.NewFarmStateRepo(store), release: make(chan struct{})}
	opener := newOpener(store, newClock())
	opener.Repo = repo
	reg, err := NewRegistry(1, func(ctx context.Context, key string) (*Session, error) {
		return opener.Open(ctx, key, nil)
	}, zerolog.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	a, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	out, err := a.Submit(ctx, farm.Intent{Type: farm.IntentPlant, Lot: 0, Crop: farm.CropWheat})
	require.NoError(t, err)
	require.True(t, out.Applied)

	gotB := make(chan error, 1)
	go func() {
		_, err := reg.Get(ctx, "b")
		gotB <- err
	}()
	select {
	case err := <-gotB:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("evicting a session blocked the next user on its save")
	}

	reopened := make(chan *Session, 1)
	go func() {
		s, err := reg.Get(ctx, "a")
		assert.NoError(t, err)
		reopened <- s
	}()
	select {
	case <-reopened:
		t.Fatal("a was reopened before its final save")
	case <-time.After(50 * time.Millisecond):
	}

	close(repo.release)
	var a2 *Session
	select {
	case a2 = <-reopened:
	case <-time.After(time.Second):
		t.Fatal("a was never reopened")
	}
	require.NotNil(t, a2)
	assert.NotSame(t, a, a2)
	snap, _, err := a2.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Lots[0], "reopened farm sees the flushed plant")

	reg.Close()
}
