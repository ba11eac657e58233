package farm

import "time"

func DefaultState() GameState {
	return GameState{
		Money: 0,
		Inventory: map[CropID]int{
			CropWheat: StarterWheatSeeds,
			CropHops:  0,
		},
		Lots:     make([]*Lot, DefaultLotCount),
		LotPrice: DefaultLotPrice,
	}
}

func (s GameState) Clone() GameState {
	out := s
	out.Inventory = make(map[CropID]int, len(s.Inventory))
	for k, v := range s.Inventory {
		out.Inventory[k] = v
	}
	out.Lots = make([]*Lot, len(s.Lots))
	for i, lot := range s.Lots {
		if lot == nil {
			continue
		}
		cp := *lot
		out.Lots[i] = &cp
	}
	return out
}

func (s *GameState) AddItem(crop CropID, amount int) {
	if amount <= 0 || crop == "" {
		return
	}
	if s.Inventory == nil {
		s.Inventory = map[CropID]int{}
	}
	s.Inventory[crop] += amount
}

func (s *GameState) ConsumeItem(crop CropID, amount int) bool {
	if amount <= 0 || crop == "" || s.Inventory == nil {
		return false
	}
	current := s.Inventory[crop]
	if current < amount {
		return false
	}
	s.Inventory[crop] = current - amount
	return true
}

func (s GameState) LotInRange(index int) bool {
	return index >= 0 && index < len(s.Lots)
}

func (s GameState) EmptyLots() int {
	n := 0
	for _, lot := range s.Lots {
		if lot == nil {
			n++
		}
	}
	return n
}

// RefreshReadiness flips the cached Ready flag of lots that finished and
// reports whether anything visible changed: a lot became ready, or some lot is
// still counting down.
func (s *GameState) RefreshReadiness(now time.Time) bool {
	changed := false
	for _, lot := range s.Lots {
		if lot == nil {
			continue
		}
		if !lot.IsReady(now) {
			changed = true
			continue
		}
		if !lot.Ready {
			lot.Ready = true
			changed = true
		}
	}
	return changed
}

func nextLotPrice(price int) int {
	// floor(price * 1.2) without float rounding.
	return price * 6 / 5
}
