package farm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func TestDecodeEmptyRecordGivesDefaults(t *testing.T) {
	rec, err := UnmarshalRecord([]byte(`{}`))
	require.NoError(t, err)

	st, err := DecodeRecord(rec, testCatalog(), recordNow)
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), st)
}

func TestDecodePartialRecordKeepsPresentFields(t *testing.T) {
	rec, err := UnmarshalRecord([]byte(`{"money": 42, "hopsUnlocked": true}`))
	require.NoError(t, err)

	st, err := DecodeRecord(rec, testCatalog(), recordNow)
	require.NoError(t, err)
	assert.Equal(t, 42, st.Money)
	assert.True(t, st.HopsUnlocked)
	assert.Len(t, st.Lots, DefaultLotCount)
	assert.Equal(t, DefaultLotPrice, st.LotPrice)
	assert.Equal(t, StarterWheatSeeds, st.Inventory[CropWheat])
}

func TestDecodeMigratesTimeLeft(t *testing.T) {
	raw := `{"money":3,"inventory":{"wheat":1,"hops":0},"lotPrice":18,
		"lots":[{"type":"wheat","timeLeft":5,"isReady":false},null,{"type":"hops","timeLeft":0},null,null]}`
	rec, err := UnmarshalRecord([]byte(raw))
	require.NoError(t, err)

	st, err := DecodeRecord(rec, testCatalog(), recordNow)
	require.NoError(t, err)
	require.Len(t, st.Lots, 5)

	require.NotNil(t, st.Lots[0])
	assert.Equal(t, CropWheat, st.Lots[0].CropType)
	assert.Equal(t, recordNow.Add(5*time.Second).UnixMilli(), st.Lots[0].FinishTime.UnixMilli())
	assert.False(t, st.Lots[0].Ready)

	require.NotNil(t, st.Lots[2])
	assert.True(t, st.Lots[2].Ready)
	assert.Nil(t, st.Lots[1])

	// the next encode carries finishTime only
	out := EncodeRecord(st)
	require.NotNil(t, out.Lots[0].FinishTime)
	assert.Nil(t, out.Lots[0].TimeLeft)
	assert.Empty(t, out.Lots[0].LegacyType)
}

func TestDecodeFinishTimeSetsReadiness(t *testing.T) {
	past := recordNow.Add(-time.Second).UnixMilli()
	future := recordNow.Add(time.Hour).UnixMilli()
	rec := Record{
		Lots: []*LotRecord{
			{CropType: "wheat", FinishTime: &past},
			{CropType: "pumpkin", FinishTime: &future},
		},
	}
	st, err := DecodeRecord(rec, testCatalog(), recordNow)
	require.NoError(t, err)
	assert.True(t, st.Lots[0].Ready)
	assert.False(t, st.Lots[1].Ready)
}

func TestDecodeRejectsUnknownCrop(t *testing.T) {
	fin := recordNow.UnixMilli()
	rec := Record{Lots: []*LotRecord{{CropType: "corn", FinishTime: &fin}}}
	_, err := DecodeRecord(rec, testCatalog(), recordNow)
	assert.ErrorIs(t, err, ErrUnknownCrop)

	rec = Record{Inventory: map[string]int{"corn": 1}}
	_, err = DecodeRecord(rec, testCatalog(), recordNow)
	assert.ErrorIs(t, err, ErrUnknownCrop)
}

func TestDecodeRejectsCorruptRecords(t *testing.T) {
	cases := map[string]Record{
		"negative money":     {Money: -1},
		"negative lot price": {LotPrice: -5},
		"negative stock":     {Inventory: map[string]int{"wheat": -2}},
		"lot without crop":   {Lots: []*LotRecord{{}}},
		"lot without time":   {Lots: []*LotRecord{{CropType: "wheat"}}},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRecord(rec, testCatalog(), recordNow)
			assert.ErrorIs(t, err, ErrCorruptState)
		})
	}

	_, err := UnmarshalRecord([]byte(`{"money":`))
	assert.ErrorIs(t, err, ErrCorruptState)
}

func TestRecordRoundTripPreservesState(t *testing.T) {
	e, clk := newTestEngine(DefaultState())
	e.State.Money = 500
	e.State.ScytheUnlocked = true
	clk.Advance(333 * time.Millisecond)
	require.True(t, e.Plant(0, CropWheat).Applied)
	require.True(t, e.BuyLot().Applied)

	data, err := MarshalRecord(EncodeRecord(*e.State))
	require.NoError(t, err)
	rec, err := UnmarshalRecord(data)
	require.NoError(t, err)
	st, err := DecodeRecord(rec, testCatalog(), clk.Now())
	require.NoError(t, err)

	assert.Equal(t, e.State.Money, st.Money)
	assert.Equal(t, e.State.LotPrice, st.LotPrice)
	assert.Equal(t, e.State.Inventory, st.Inventory)
	assert.Equal(t, e.State.ScytheUnlocked, st.ScytheUnlocked)
	require.Len(t, st.Lots, len(e.State.Lots))
	assert.True(t, e.State.Lots[0].FinishTime.Equal(st.Lots[0].FinishTime))
	assert.Nil(t, st.Lots[4])

	for _, at := range []time.Duration{9 * time.Second, 10 * time.Second} {
		now := clk.Now().Add(at)
		assert.Equal(t, e.State.Lots[0].IsReady(now), st.Lots[0].IsReady(now), "at +%s", at)
	}
}

func TestRecordRoundTripKeepsEmptyInventory(t *testing.T) {
	st := DefaultState()
	st.Inventory = map[CropID]int{}

	data, err := MarshalRecord(EncodeRecord(st))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"inventory":{}`)

	rec, err := UnmarshalRecord(data)
	require.NoError(t, err)
	got, err := DecodeRecord(rec, testCatalog(), recordNow)
	require.NoError(t, err)
	assert.Empty(t, got.Inventory)
	assert.Equal(t, 0, got.Inventory[CropWheat])
	assert.Len(t, got.Lots, DefaultLotCount)
}
