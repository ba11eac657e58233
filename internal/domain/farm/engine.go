package farm

import (
	"fmt"
	"time"
)

// Engine applies player intents to the state it owns. Every operation checks
// its preconditions before touching the state, so a rejected intent leaves no
// partial effects behind.
type Engine struct {
	State   *GameState
	Catalog Catalog
	Now     func() time.Time
}

func NewEngine(state *GameState, catalog Catalog, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{State: state, Catalog: catalog, Now: now}
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) Plant(lotIndex int, crop CropID) Outcome {
	st := e.State
	if !st.LotInRange(lotIndex) {
		return rejected("Lot %d does not exist!", lotIndex+1)
	}
	if st.Lots[lotIndex] != nil {
		return rejected("Lot %d is already planted!", lotIndex+1)
	}
	def, ok := e.Catalog.Get(crop)
	if !ok {
		return rejected("Unknown crop %q!", crop)
	}
	if st.Inventory[crop] < 1 {
		return rejected("You don't have enough %s seeds!", def.Name)
	}

	now := e.now()
	e.plantLot(lotIndex, def, now)
	return e.applied(fmt.Sprintf("Planted %s in lot %d.", def.Name, lotIndex+1), e.event("crop_planted", now, map[string]any{
		"lot":  lotIndex,
		"crop": string(crop),
	}))
}

func (e *Engine) plantLot(lotIndex int, def CropDefinition, now time.Time) {
	e.State.ConsumeItem(def.ID, 1)
	// Millisecond precision matches the persisted epoch-ms timestamp, so a
	// save/load round trip never moves readiness.
	start := time.UnixMilli(now.UnixMilli())
	e.State.Lots[lotIndex] = &Lot{
		CropType:   def.ID,
		FinishTime: start.Add(def.GrowTime),
		Ready:      false,
	}
}

func (e *Engine) Harvest(lotIndex int) Outcome {
	st := e.State
	if !st.LotInRange(lotIndex) {
		return rejected("Lot %d does not exist!", lotIndex+1)
	}
	lot := st.Lots[lotIndex]
	if lot == nil {
		return noop("Lot %d is empty.", lotIndex+1)
	}
	now := e.now()
	if !lot.IsReady(now) {
		return noop("%s is still growing (%ds left).", e.Catalog.Name(lot.CropType), lot.SecondsLeft(now))
	}
	crop, amount := e.harvestLot(lotIndex)
	return e.applied(fmt.Sprintf("Harvested %d %s.", amount, e.Catalog.Name(crop)), e.event("crop_harvested", now, map[string]any{
		"lot":    lotIndex,
		"crop":   string(crop),
		"amount": amount,
	}))
}

func (e *Engine) harvestLot(lotIndex int) (CropID, int) {
	lot := e.State.Lots[lotIndex]
	def := e.Catalog[lot.CropType]
	e.State.AddItem(lot.CropType, def.Yield)
	e.State.Lots[lotIndex] = nil
	return lot.CropType, def.Yield
}

// Click mirrors a tap on a lot: plant the selected crop into an empty lot,
// harvest a ready one, ignore a growing one.
func (e *Engine) Click(lotIndex int, selected CropID) Outcome {
	if !e.State.LotInRange(lotIndex) {
		return rejected("Lot %d does not exist!", lotIndex+1)
	}
	if e.State.Lots[lotIndex] == nil {
		if selected == "" {
			selected = CropWheat
		}
		return e.Plant(lotIndex, selected)
	}
	return e.Harvest(lotIndex)
}

func (e *Engine) HarvestAll() Outcome {
	if !e.State.ScytheUnlocked {
		return rejected("You need the Scythe to harvest everything at once!")
	}
	now := e.now()
	harvested := 0
	totals := map[string]any{}
	for i, lot := range e.State.Lots {
		if lot == nil || !lot.IsReady(now) {
			continue
		}
		crop, amount := e.harvestLot(i)
		prev, _ := totals[string(crop)].(int)
		totals[string(crop)] = prev + amount
		harvested++
	}
	if harvested == 0 {
		return noop("Nothing is ready to harvest.")
	}
	return e.applied(fmt.Sprintf("Harvested %d lots.", harvested), e.event("crops_harvested", now, map[string]any{
		"lots":   harvested,
		"totals": totals,
	}))
}

func (e *Engine) PlantAll(crop CropID) Outcome {
	if !e.State.PlanterUnlocked {
		return rejected("You need the Planter to plant everything at once!")
	}
	def, ok := e.Catalog.Get(crop)
	if !ok {
		return rejected("Unknown crop %q!", crop)
	}
	if e.State.EmptyLots() == 0 {
		return rejected("There are no empty lots to plant!")
	}
	if e.State.Inventory[crop] < 1 {
		return rejected("You don't have enough %s seeds!", def.Name)
	}

	now := e.now()
	planted := 0
	for i, lot := range e.State.Lots {
		if lot != nil {
			continue
		}
		if e.State.Inventory[crop] < 1 {
			break
		}
		e.plantLot(i, def, now)
		planted++
	}
	return e.applied(fmt.Sprintf("Planted %d %s.", planted, def.Name), e.event("crops_planted", now, map[string]any{
		"crop": string(crop),
		"lots": planted,
	}))
}

func (e *Engine) Sell(crop CropID, amount int) Outcome {
	if amount < 1 {
		return rejected("Amount must be at least 1!")
	}
	def, ok := e.Catalog.Get(crop)
	if !ok {
		return rejected("Unknown crop %q!", crop)
	}
	stock := e.State.Inventory[crop]
	switch {
	case stock == 0:
		return rejected("You don't have any %s to sell!", def.Name)
	case stock < amount:
		return rejected("You don't have enough %s to sell!", def.Name)
	case stock == amount:
		return rejected("You must keep at least 1 %s seed!", def.Name)
	}
	return e.sell(def, amount)
}

// SellAll sells everything above the one-seed reserve.
func (e *Engine) SellAll(crop CropID) Outcome {
	def, ok := e.Catalog.Get(crop)
	if !ok {
		return rejected("Unknown crop %q!", crop)
	}
	stock := e.State.Inventory[crop]
	switch {
	case stock <= 0:
		return noop("You don't have any %s to sell!", def.Name)
	case stock == 1:
		return noop("You must keep at least 1 %s seed!", def.Name)
	}
	return e.sell(def, stock-1)
}

func (e *Engine) sell(def CropDefinition, amount int) Outcome {
	earned := amount * def.SellPrice
	e.State.ConsumeItem(def.ID, amount)
	e.State.Money += earned
	return e.applied(fmt.Sprintf("Sold %d %s for $%d.", amount, def.Name, earned), e.event("crop_sold", e.now(), map[string]any{
		"crop":   string(def.ID),
		"amount": amount,
		"earned": earned,
	}))
}

func (e *Engine) BuyLot() Outcome {
	st := e.State
	price := st.LotPrice
	if st.Money < price {
		return rejected("Not enough money to buy an empty lot!")
	}
	st.Money -= price
	st.Lots = append(st.Lots, nil)
	st.LotPrice = nextLotPrice(price)
	return e.applied(fmt.Sprintf("Bought a new lot for $%d.", price), e.event("lot_bought", e.now(), map[string]any{
		"price":      price,
		"next_price": st.LotPrice,
	}))
}

type cropUnlock struct {
	crop  CropID
	price int
	flag  func(*GameState) *bool
}

var (
	hopsUnlock = cropUnlock{
		crop:  CropHops,
		price: HopsUnlockPrice,
		flag:  func(s *GameState) *bool { return &s.HopsUnlocked },
	}
	pumpkinUnlock = cropUnlock{
		crop:  CropPumpkin,
		price: PumpkinUnlockPrice,
		flag:  func(s *GameState) *bool { return &s.PumpkinsUnlocked },
	}
)

func (e *Engine) UnlockHops() Outcome     { return e.unlockCrop(hopsUnlock) }
func (e *Engine) UnlockPumpkins() Outcome { return e.unlockCrop(pumpkinUnlock) }

func (e *Engine) unlockCrop(u cropUnlock) Outcome {
	name := e.Catalog.Name(u.crop)
	flag := u.flag(e.State)
	if *flag {
		return rejected("%s already unlocked!", name)
	}
	if e.State.Money < u.price {
		return rejected("Not enough money to unlock %s!", name)
	}
	e.State.Money -= u.price
	*flag = true
	e.State.AddItem(u.crop, 1)
	return e.applied(fmt.Sprintf("%s unlocked! You received 1 starter seed.", name), e.event("crop_unlocked", e.now(), map[string]any{
		"crop":  string(u.crop),
		"price": u.price,
	}))
}

type toolPurchase struct {
	tool  string
	name  string
	price int
	flag  func(*GameState) *bool
}

var (
	scythePurchase = toolPurchase{
		tool:  "scythe",
		name:  "Scythe",
		price: ScythePrice,
		flag:  func(s *GameState) *bool { return &s.ScytheUnlocked },
	}
	planterPurchase = toolPurchase{
		tool:  "planter",
		name:  "Planter",
		price: PlanterPrice,
		flag:  func(s *GameState) *bool { return &s.PlanterUnlocked },
	}
)

func (e *Engine) BuyScythe() Outcome  { return e.buyTool(scythePurchase) }
func (e *Engine) BuyPlanter() Outcome { return e.buyTool(planterPurchase) }

func (e *Engine) buyTool(t toolPurchase) Outcome {
	flag := t.flag(e.State)
	if *flag {
		return rejected("You already own the %s!", t.name)
	}
	if e.State.Money < t.price {
		return rejected("Not enough money to buy the %s!", t.name)
	}
	e.State.Money -= t.price
	*flag = true
	return e.applied(fmt.Sprintf("%s purchased!", t.name), e.event("tool_bought", e.now(), map[string]any{
		"tool":  t.tool,
		"price": t.price,
	}))
}

func (e *Engine) applied(msg string, evt DomainEvent) Outcome {
	return Outcome{Applied: true, Code: ResultOK, Message: msg, Events: []DomainEvent{evt}}
}

func rejected(format string, args ...any) Outcome {
	return Outcome{Code: ResultRejected, Message: fmt.Sprintf(format, args...)}
}

func noop(format string, args ...any) Outcome {
	return Outcome{Code: ResultNoop, Message: fmt.Sprintf(format, args...)}
}

func (e *Engine) event(kind string, at time.Time, payload map[string]any) DomainEvent {
	payload["state_after"] = e.stateSummary()
	return DomainEvent{Type: kind, OccurredAt: at, Payload: payload}
}

func (e *Engine) stateSummary() map[string]any {
	inv := make(map[string]any, len(e.State.Inventory))
	for k, v := range e.State.Inventory {
		inv[string(k)] = v
	}
	return map[string]any{
		"money":     e.State.Money,
		"lot_count": len(e.State.Lots),
		"lot_price": e.State.LotPrice,
		"inventory": inv,
	}
}
