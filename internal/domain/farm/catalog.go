package farm

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidCatalog = errors.New("invalid crop catalog")
	ErrUnknownCrop    = errors.New("unknown crop")
)

// RequiredCrops are referenced by the default state and the unlock upgrades.
var RequiredCrops = []CropID{CropWheat, CropHops, CropPumpkin}

type CropDefinition struct {
	ID           CropID        `json:"id"`
	Name         string        `json:"name"`
	GrowTime     time.Duration `json:"-"`
	Yield        int           `json:"yield"`
	SellPrice    int           `json:"sellPrice"`
	GrowingColor string        `json:"growingColor,omitempty"`
	ReadyColor   string        `json:"readyColor,omitempty"`
}

// Catalog is the immutable crop table, keyed by crop id.
type Catalog map[CropID]CropDefinition

func (c Catalog) Get(id CropID) (CropDefinition, bool) {
	def, ok := c[id]
	return def, ok
}

func (c Catalog) Name(id CropID) string {
	if def, ok := c[id]; ok && def.Name != "" {
		return def.Name
	}
	return string(id)
}

// IDs returns crop ids in a stable order.
func (c Catalog) IDs() []CropID {
	out := make([]CropID, 0, len(c))
	for id := range c {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: no crops defined", ErrInvalidCatalog)
	}
	for _, id := range c.IDs() {
		def := c[id]
		switch {
		case strings.TrimSpace(def.Name) == "":
			return fmt.Errorf("%w: crop %q has no name", ErrInvalidCatalog, id)
		case def.GrowTime <= 0:
			return fmt.Errorf("%w: crop %q needs a positive growTime", ErrInvalidCatalog, id)
		case def.Yield <= 0:
			return fmt.Errorf("%w: crop %q needs a positive yield", ErrInvalidCatalog, id)
		case def.SellPrice < 0:
			return fmt.Errorf("%w: crop %q has a negative sellPrice", ErrInvalidCatalog, id)
		}
	}
	for _, id := range RequiredCrops {
		if _, ok := c[id]; !ok {
			return fmt.Errorf("%w: missing built-in crop %q", ErrInvalidCatalog, id)
		}
	}
	return nil
}

type catalogEntry struct {
	Name         string  `json:"name"`
	GrowTime     float64 `json:"growTime"`
	Yield        int     `json:"yield"`
	SellPrice    int     `json:"sellPrice"`
	GrowingColor string  `json:"growingColor"`
	ReadyColor   string  `json:"readyColor"`
}

// ParseCatalog decodes the crops.json layout: {"wheat": {"name": ..., "growTime": seconds, ...}}.
func ParseCatalog(data []byte) (Catalog, error) {
	var raw map[string]catalogEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	out := make(Catalog, len(raw))
	for id, entry := range raw {
		key := CropID(strings.TrimSpace(id))
		out[key] = CropDefinition{
			ID:           key,
			Name:         entry.Name,
			GrowTime:     time.Duration(entry.GrowTime * float64(time.Second)).Round(time.Millisecond),
			Yield:        entry.Yield,
			SellPrice:    entry.SellPrice,
			GrowingColor: entry.GrowingColor,
			ReadyColor:   entry.ReadyColor,
		}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateState checks that every crop referenced by the state resolves.
func (c Catalog) ValidateState(s GameState) error {
	for i, lot := range s.Lots {
		if lot == nil {
			continue
		}
		if _, ok := c[lot.CropType]; !ok {
			return fmt.Errorf("%w: lot %d holds %q", ErrUnknownCrop, i, lot.CropType)
		}
	}
	for id := range s.Inventory {
		if _, ok := c[id]; !ok {
			return fmt.Errorf("%w: inventory holds %q", ErrUnknownCrop, id)
		}
	}
	return nil
}
