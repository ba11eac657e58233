package catalog

import (
	"context"

	"tilefarm/internal/app/ports"
	"tilefarm/internal/domain/farm"
)

type CropInfo struct {
	ID           farm.CropID `json:"id"`
	Name         string      `json:"name"`
	GrowSeconds  float64     `json:"grow_seconds"`
	Yield        int         `json:"yield"`
	SellPrice    int         `json:"sell_price"`
	GrowingColor string      `json:"growing_color,omitempty"`
	ReadyColor   string      `json:"ready_color,omitempty"`
}

type Response struct {
	Crops []CropInfo `json:"crops"`
}

type UseCase struct {
	Provider ports.CatalogProvider
}

func (u UseCase) Execute(ctx context.Context) (Response, error) {
	c, err := u.Provider.Catalog(ctx)
	if err != nil {
		return Response{}, err
	}
	out := Response{Crops: make([]CropInfo, 0, len(c))}
	for _, id := range c.IDs() {
		def := c[id]
		out.Crops = append(out.Crops, CropInfo{
			ID:           id,
			Name:         def.Name,
			GrowSeconds:  def.GrowTime.Seconds(),
			Yield:        def.Yield,
			SellPrice:    def.SellPrice,
			GrowingColor: def.GrowingColor,
			ReadyColor:   def.ReadyColor,
		})
	}
	return out, nil
}

func (u UseCase) Raw(ctx context.Context) ([]byte, error) {
	return u.Provider.Raw(ctx)
}
