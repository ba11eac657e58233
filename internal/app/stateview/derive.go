package stateview

import (
	"fmt"
	"time"

	"tilefarm/internal/domain/farm"
)

const (
	emptyLabel        = "Empty\n(Click to Plant)"
	growingBorder     = "rgba(0,0,0,0.2)"
	readyBorder       = "white"
	lotStatusEmpty    = "empty"
	lotStatusGrowing  = "growing"
	lotStatusReady    = "ready"
	buyLotLabelFormat = "Buy Empty Lot ($%d)"
)

type LotView struct {
	Index       int         `json:"index"`
	Status      string      `json:"status"`
	Crop        farm.CropID `json:"crop,omitempty"`
	Label       string      `json:"label"`
	SecondsLeft int         `json:"seconds_left"`
	Color       string      `json:"color,omitempty"`
	BorderColor string      `json:"border_color,omitempty"`
}

type CropView struct {
	ID       farm.CropID `json:"id"`
	Name     string      `json:"name"`
	Count    int         `json:"count"`
	Unlocked bool        `json:"unlocked"`
	CanSell  bool        `json:"can_sell"`
}

type Button struct {
	Visible bool   `json:"visible"`
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`
}

// View is everything a front end needs to draw one farm, derived from the
// state and the clock without touching either.
type View struct {
	Money           int        `json:"money"`
	LotPrice        int        `json:"lot_price"`
	Lots            []LotView  `json:"lots"`
	Crops           []CropView `json:"crops"`
	BuyLot          Button     `json:"buy_lot"`
	UnlockHops      Button     `json:"unlock_hops"`
	UnlockPumpkins  Button     `json:"unlock_pumpkins"`
	BuyScythe       Button     `json:"buy_scythe"`
	BuyPlanter      Button     `json:"buy_planter"`
	ServerTimeMilli int64      `json:"server_time_ms"`
}

func Derive(state farm.GameState, catalog farm.Catalog, now time.Time) View {
	v := View{
		Money:           state.Money,
		LotPrice:        state.LotPrice,
		Lots:            make([]LotView, len(state.Lots)),
		ServerTimeMilli: now.UnixMilli(),
	}
	for i, lot := range state.Lots {
		v.Lots[i] = deriveLot(i, lot, catalog, now)
	}
	v.Crops = deriveCrops(state, catalog)

	v.BuyLot = Button{Visible: true, Enabled: state.Money >= state.LotPrice, Label: fmt.Sprintf(buyLotLabelFormat, state.LotPrice)}
	v.UnlockHops = upgradeButton(state.HopsUnlocked, state.Money, farm.HopsUnlockPrice, "Unlock", catalog.Name(farm.CropHops))
	v.UnlockPumpkins = upgradeButton(state.PumpkinsUnlocked, state.Money, farm.PumpkinUnlockPrice, "Unlock", catalog.Name(farm.CropPumpkin))
	v.BuyScythe = upgradeButton(state.ScytheUnlocked, state.Money, farm.ScythePrice, "Buy", "Scythe")
	v.BuyPlanter = upgradeButton(state.PlanterUnlocked, state.Money, farm.PlanterPrice, "Buy", "Planter")
	return v
}

func deriveLot(index int, lot *farm.Lot, catalog farm.Catalog, now time.Time) LotView {
	if lot == nil {
		return LotView{Index: index, Status: lotStatusEmpty, Label: emptyLabel}
	}
	def, _ := catalog.Get(lot.CropType)
	name := catalog.Name(lot.CropType)
	if left := lot.SecondsLeft(now); left > 0 {
		return LotView{
			Index:       index,
			Status:      lotStatusGrowing,
			Crop:        lot.CropType,
			Label:       fmt.Sprintf("%s\n⏳ %ds", name, left),
			SecondsLeft: left,
			Color:       def.GrowingColor,
			BorderColor: growingBorder,
		}
	}
	return LotView{
		Index:       index,
		Status:      lotStatusReady,
		Crop:        lot.CropType,
		Label:       name + "\n✔️ Harvest",
		Color:       def.ReadyColor,
		BorderColor: readyBorder,
	}
}

func deriveCrops(state farm.GameState, catalog farm.Catalog) []CropView {
	out := make([]CropView, 0, len(catalog))
	for _, id := range catalog.IDs() {
		unlocked := cropUnlocked(state, id)
		out = append(out, CropView{
			ID:       id,
			Name:     catalog.Name(id),
			Count:    state.Inventory[id],
			Unlocked: unlocked,
			CanSell:  unlocked && state.Inventory[id] > 1,
		})
	}
	return out
}

func cropUnlocked(state farm.GameState, id farm.CropID) bool {
	switch id {
	case farm.CropHops:
		return state.HopsUnlocked
	case farm.CropPumpkin:
		return state.PumpkinsUnlocked
	default:
		return true
	}
}

// upgradeButton is shown only while the upgrade is still missing. Crops are
// unlocked, tools are bought.
func upgradeButton(owned bool, money, price int, verb, name string) Button {
	if owned {
		return Button{Label: name}
	}
	return Button{
		Visible: true,
		Enabled: money >= price,
		Label:   fmt.Sprintf("%s %s ($%d)", verb, name, price),
	}
}
