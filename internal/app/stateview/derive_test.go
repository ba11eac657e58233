package stateview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tilefarm/internal/domain/farm"
)

func testCatalog() farm.Catalog {
	return farm.Catalog{
		farm.CropWheat:   {ID: farm.CropWheat, Name: "Wheat", GrowTime: 10 * time.Second, Yield: 3, SellPrice: 1, GrowingColor: "#c8a24a", ReadyColor: "#f5d76e"},
		farm.CropHops:    {ID: farm.CropHops, Name: "Hops", GrowTime: 20 * time.Second, Yield: 2, SellPrice: 5},
		farm.CropPumpkin: {ID: farm.CropPumpkin, Name: "Pumpkin", GrowTime: time.Minute, Yield: 1, SellPrice: 200},
	}
}

func TestDeriveLotLabels(t *testing.T) {
	now := time.Unix(5_000, 0)
	st := farm.DefaultState()
	st.Lots[1] = &farm.Lot{CropType: farm.CropWheat, FinishTime: now.Add(4200 * time.Millisecond)}
	st.Lots[2] = &farm.Lot{CropType: farm.CropWheat, FinishTime: now.Add(-time.Second)}

	v := Derive(st, testCatalog(), now)
	require.Len(t, v.Lots, 4)

	assert.Equal(t, "Empty\n(Click to Plant)", v.Lots[0].Label)
	assert.Equal(t, "empty", v.Lots[0].Status)

	assert.Equal(t, "Wheat\n⏳ 5s", v.Lots[1].Label)
	assert.Equal(t, 5, v.Lots[1].SecondsLeft)
	assert.Equal(t, "#c8a24a", v.Lots[1].Color)

	assert.Equal(t, "Wheat\n✔️ Harvest", v.Lots[2].Label)
	assert.Equal(t, "ready", v.Lots[2].Status)
	assert.Equal(t, "#f5d76e", v.Lots[2].Color)
	assert.Equal(t, "white", v.Lots[2].BorderColor)
}

func TestDeriveButtons(t *testing.T) {
	st := farm.DefaultState()
	st.Money = 40
	v := Derive(st, testCatalog(), time.Unix(0, 0))

	assert.Equal(t, "Buy Empty Lot ($15)", v.BuyLot.Label)
	assert.True(t, v.BuyLot.Enabled)
	assert.True(t, v.UnlockHops.Visible)
	assert.True(t, v.UnlockHops.Enabled)
	assert.True(t, v.UnlockPumpkins.Visible)
	assert.False(t, v.UnlockPumpkins.Enabled)
	assert.Equal(t, "Unlock Hops ($30)", v.UnlockHops.Label)
	assert.Equal(t, "Unlock Pumpkin ($2500)", v.UnlockPumpkins.Label)
	assert.Equal(t, "Buy Scythe ($500)", v.BuyScythe.Label)
	assert.Equal(t, "Buy Planter ($1000)", v.BuyPlanter.Label)

	st.HopsUnlocked = true
	st.ScytheUnlocked = true
	v = Derive(st, testCatalog(), time.Unix(0, 0))
	assert.False(t, v.UnlockHops.Visible)
	assert.False(t, v.BuyScythe.Visible)
	assert.True(t, v.BuyPlanter.Visible)
}

func TestDeriveSellDisabledForLockedCrops(t *testing.T) {
	st := farm.DefaultState()
	st.Inventory[farm.CropHops] = 5
	st.Inventory[farm.CropWheat] = 5

	byID := func(v View) map[farm.CropID]CropView {
		out := map[farm.CropID]CropView{}
		for _, c := range v.Crops {
			out[c.ID] = c
		}
		return out
	}

	crops := byID(Derive(st, testCatalog(), time.Unix(0, 0)))
	assert.True(t, crops[farm.CropWheat].CanSell)
	assert.False(t, crops[farm.CropHops].CanSell)
	assert.False(t, crops[farm.CropPumpkin].Unlocked)

	st.HopsUnlocked = true
	crops = byID(Derive(st, testCatalog(), time.Unix(0, 0)))
	assert.True(t, crops[farm.CropHops].CanSell)
	assert.Equal(t, 5, crops[farm.CropHops].Count)
}
