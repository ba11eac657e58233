package replay

import "tilefarm/internal/domain/farm"

type Request struct {
	UserKey      string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
}

// LatestState is what the newest event in the window says the farm looked
// like right after it was applied.
type LatestState struct {
	Money     int            `json:"money"`
	LotCount  int            `json:"lot_count"`
	LotPrice  int            `json:"lot_price"`
	Inventory map[string]int `json:"inventory"`
}

type Response struct {
	Events      []farm.DomainEvent `json:"events"`
	LatestState LatestState        `json:"latest_state"`
}
