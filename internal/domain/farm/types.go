package farm

import "time"

type CropID string

const (
	CropWheat   CropID = "wheat"
	CropHops    CropID = "hops"
	CropPumpkin CropID = "pumpkin"
)

const (
	DefaultLotCount    = 4
	DefaultLotPrice    = 15
	StarterWheatSeeds  = 2
	HopsUnlockPrice    = 30
	PumpkinUnlockPrice = 2500
	ScythePrice        = 500
	PlanterPrice       = 1000
)

// GameState is the single persisted aggregate of one player's farm.
type GameState struct {
	Money            int            `json:"money"`
	Inventory        map[CropID]int `json:"inventory"`
	Lots             []*Lot         `json:"lots"`
	LotPrice         int            `json:"lotPrice"`
	HopsUnlocked     bool           `json:"hopsUnlocked"`
	PumpkinsUnlocked bool           `json:"pumpkinsUnlocked"`
	ScytheUnlocked   bool           `json:"scytheUnlocked"`
	PlanterUnlocked  bool           `json:"planterUnlocked"`
}

// Lot is an occupied farm slot. Ready is a render cache only; eligibility is
// always FinishTime against the current clock.
type Lot struct {
	CropType   CropID    `json:"cropType"`
	FinishTime time.Time `json:"finishTime"`
	Ready      bool      `json:"ready"`
}

func (l Lot) IsReady(now time.Time) bool {
	return !now.Before(l.FinishTime)
}

// SecondsLeft rounds up, so a lot with 200ms to go still shows 1s.
func (l Lot) SecondsLeft(now time.Time) int {
	remain := l.FinishTime.Sub(now)
	if remain <= 0 {
		return 0
	}
	secs := int(remain / time.Second)
	if remain%time.Second != 0 {
		secs++
	}
	return secs
}

type ResultCode string

const (
	ResultOK       ResultCode = "OK"
	ResultRejected ResultCode = "REJECTED"
	ResultNoop     ResultCode = "NOOP"
)

// Outcome is what every engine operation returns. Rejected and no-op outcomes
// leave the state untouched.
type Outcome struct {
	Applied bool          `json:"applied"`
	Code    ResultCode    `json:"result_code"`
	Message string        `json:"message"`
	Events  []DomainEvent `json:"events,omitempty"`
}

type DomainEvent struct {
	ID         string         `json:"id,omitempty"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

type IntentType string

const (
	IntentClick          IntentType = "click"
	IntentPlant          IntentType = "plant"
	IntentHarvest        IntentType = "harvest"
	IntentHarvestAll     IntentType = "harvest_all"
	IntentPlantAll       IntentType = "plant_all"
	IntentSell           IntentType = "sell"
	IntentSellAll        IntentType = "sell_all"
	IntentBuyLot         IntentType = "buy_lot"
	IntentUnlockHops     IntentType = "unlock_hops"
	IntentUnlockPumpkins IntentType = "unlock_pumpkins"
	IntentBuyScythe      IntentType = "buy_scythe"
	IntentBuyPlanter     IntentType = "buy_planter"
)

type Intent struct {
	Type   IntentType `json:"type"`
	Lot    int        `json:"lot,omitempty"`
	Crop   CropID     `json:"crop,omitempty"`
	Amount int        `json:"amount,omitempty"`
}
