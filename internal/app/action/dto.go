package action

import (
	"tilefarm/internal/app/stateview"
	"tilefarm/internal/domain/farm"
)

// Request carries one intent. Lot is required for intents that address a
// single lot and ignored otherwise.
type Request struct {
	UserKey string
	Type    farm.IntentType
	Lot     *int
	Crop    farm.CropID
	Amount  int
}

type Response struct {
	Applied    bool               `json:"applied"`
	ResultCode farm.ResultCode    `json:"result_code"`
	Message    string             `json:"message"`
	Events     []farm.DomainEvent `json:"events"`
	State      farm.GameState     `json:"state"`
	View       stateview.View     `json:"view"`
}
