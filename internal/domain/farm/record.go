package farm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrCorruptState = errors.New("corrupt saved state")

// Record is the persisted layout of a GameState, one per player.
type Record struct {
	Money            int            `json:"money"`
	Inventory        map[string]int `json:"inventory"`
	Lots             []*LotRecord   `json:"lots"`
	LotPrice         int            `json:"lotPrice,omitempty"`
	HopsUnlocked     bool           `json:"hopsUnlocked"`
	PumpkinsUnlocked bool           `json:"pumpkinsUnlocked"`
	ScytheUnlocked   bool           `json:"scytheUnlocked"`
	PlanterUnlocked  bool           `json:"planterUnlocked"`
}

// LotRecord accepts the older encodings too: the crop under "type" and a
// relative "timeLeft" countdown in seconds instead of "finishTime".
type LotRecord struct {
	CropType   string `json:"cropType,omitempty"`
	LegacyType string `json:"type,omitempty"`
	FinishTime *int64 `json:"finishTime,omitempty"`
	TimeLeft   *int64 `json:"timeLeft,omitempty"`
}

func EncodeRecord(s GameState) Record {
	rec := Record{
		Money:            s.Money,
		Inventory:        make(map[string]int, len(s.Inventory)),
		Lots:             make([]*LotRecord, len(s.Lots)),
		LotPrice:         s.LotPrice,
		HopsUnlocked:     s.HopsUnlocked,
		PumpkinsUnlocked: s.PumpkinsUnlocked,
		ScytheUnlocked:   s.ScytheUnlocked,
		PlanterUnlocked:  s.PlanterUnlocked,
	}
	for k, v := range s.Inventory {
		rec.Inventory[string(k)] = v
	}
	for i, lot := range s.Lots {
		if lot == nil {
			continue
		}
		finish := lot.FinishTime.UnixMilli()
		rec.Lots[i] = &LotRecord{CropType: string(lot.CropType), FinishTime: &finish}
	}
	return rec
}

// DecodeRecord rebuilds a GameState, filling absent fields from the defaults,
// migrating legacy countdowns against now, and validating every crop id.
func DecodeRecord(rec Record, catalog Catalog, now time.Time) (GameState, error) {
	st := DefaultState()
	if rec.Money < 0 {
		return GameState{}, fmt.Errorf("%w: negative money %d", ErrCorruptState, rec.Money)
	}
	st.Money = rec.Money
	if rec.LotPrice != 0 {
		if rec.LotPrice < 0 {
			return GameState{}, fmt.Errorf("%w: negative lotPrice %d", ErrCorruptState, rec.LotPrice)
		}
		st.LotPrice = rec.LotPrice
	}
	if rec.Inventory != nil {
		st.Inventory = make(map[CropID]int, len(rec.Inventory))
		for k, v := range rec.Inventory {
			if v < 0 {
				return GameState{}, fmt.Errorf("%w: negative inventory for %q", ErrCorruptState, k)
			}
			st.Inventory[CropID(k)] = v
		}
	}
	if rec.Lots != nil {
		st.Lots = make([]*Lot, len(rec.Lots))
		for i, lr := range rec.Lots {
			if lr == nil {
				continue
			}
			lot, err := decodeLot(lr, now)
			if err != nil {
				return GameState{}, fmt.Errorf("lot %d: %w", i, err)
			}
			st.Lots[i] = lot
		}
	}
	st.HopsUnlocked = rec.HopsUnlocked
	st.PumpkinsUnlocked = rec.PumpkinsUnlocked
	st.ScytheUnlocked = rec.ScytheUnlocked
	st.PlanterUnlocked = rec.PlanterUnlocked

	if err := catalog.ValidateState(st); err != nil {
		return GameState{}, err
	}
	return st, nil
}

func decodeLot(lr *LotRecord, now time.Time) (*Lot, error) {
	crop := strings.TrimSpace(lr.CropType)
	if crop == "" {
		crop = strings.TrimSpace(lr.LegacyType)
	}
	if crop == "" {
		return nil, fmt.Errorf("%w: lot without crop", ErrCorruptState)
	}
	var finish time.Time
	switch {
	case lr.TimeLeft != nil:
		finish = time.UnixMilli(now.UnixMilli()).Add(time.Duration(*lr.TimeLeft) * time.Second)
	case lr.FinishTime != nil:
		finish = time.UnixMilli(*lr.FinishTime)
	default:
		return nil, fmt.Errorf("%w: lot without finishTime", ErrCorruptState)
	}
	return &Lot{
		CropType:   CropID(crop),
		FinishTime: finish,
		Ready:      !now.Before(finish),
	}, nil
}

func MarshalRecord(rec Record) ([]byte, error) {
	return json.Marshal(rec)
}

func UnmarshalRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return rec, nil
}
