package replay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilefarm/internal/domain/farm"
)

type fakeRepo struct {
	events    []farm.DomainEvent
	err       error
	lastLimit int
}

func (r *fakeRepo) Append(context.Context, string, []farm.DomainEvent) error { return nil }

func (r *fakeRepo) ListByUser(_ context.Context, _ string, limit int) ([]farm.DomainEvent, error) {
	r.lastLimit = limit
	return r.events, r.err
}

func soldEvent(at int64, money float64, wheat float64) farm.DomainEvent {
	return farm.DomainEvent{
		Type:       "crop_sold",
		OccurredAt: time.Unix(at, 0),
		Payload: map[string]any{"state_after": map[string]any{
			"money":     money,
			"lot_count": 4.0,
			"lot_price": 15.0,
			"inventory": map[string]any{"wheat": wheat, "hops": 0.0},
		}},
	}
}

func TestReconstructsLatestStateFromEvents(t *testing.T) {
	repo := &fakeRepo{events: []farm.DomainEvent{soldEvent(10, 3, 4), soldEvent(20, 7, 1)}}

	out, err := UseCase{Events: repo}.Execute(context.Background(), Request{UserKey: "u"})
	require.NoError(t, err)
	require.Len(t, out.Events, 2)
	assert.Equal(t, 7, out.LatestState.Money)
	assert.Equal(t, 4, out.LatestState.LotCount)
	assert.Equal(t, 1, out.LatestState.Inventory["wheat"])
	assert.Equal(t, DefaultLimit, repo.lastLimit)
}

func TestTimeWindowFilters(t *testing.T) {
	repo := &fakeRepo{events: []farm.DomainEvent{soldEvent(10, 1, 2), soldEvent(20, 2, 2), soldEvent(30, 3, 2)}}

	out, err := UseCase{Events: repo}.Execute(context.Background(), Request{UserKey: "u", OccurredFrom: 15, OccurredTo: 25})
	require.NoError(t, err)
	require.Len(t, out.Events, 1)
	assert.Equal(t, 2, out.LatestState.Money)
}

func TestLimitIsCapped(t *testing.T) {
	repo := &fakeRepo{}
	_, err := UseCase{Events: repo}.Execute(context.Background(), Request{UserKey: "u", Limit: 10_000})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, repo.lastLimit)
}

func TestRejectsBadRequests(t *testing.T) {
	uc := UseCase{Events: &fakeRepo{}}
	for _, req := range []Request{
		{},
		{UserKey: "u", Limit: -1},
		{UserKey: "u", OccurredFrom: 30, OccurredTo: 10},
	} {
		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidRequest, "%+v", req)
	}
}

func TestPropagatesRepoError(t *testing.T) {
	want := errors.New("db down")
	_, err := UseCase{Events: &fakeRepo{err: want}}.Execute(context.Background(), Request{UserKey: "u"})
	assert.ErrorIs(t, err, want)
}

func TestReconstructAcceptsLiveEvents(t *testing.T) {
	st := farm.DefaultState()
	st.Money = 15
	e := farm.NewEngine(&st, farm.Catalog{
		farm.CropWheat:   {ID: farm.CropWheat, Name: "Wheat", GrowTime: time.Second, Yield: 1, SellPrice: 1},
		farm.CropHops:    {ID: farm.CropHops, Name: "Hops", GrowTime: time.Second, Yield: 1, SellPrice: 1},
		farm.CropPumpkin: {ID: farm.CropPumpkin, Name: "Pumpkin", GrowTime: time.Second, Yield: 1, SellPrice: 1},
	}, nil)
	out := e.BuyLot()
	require.True(t, out.Applied)

	latest := reconstruct(out.Events)
	assert.Equal(t, 0, latest.Money)
	assert.Equal(t, 5, latest.LotCount)
	assert.Equal(t, 18, latest.LotPrice)
}
