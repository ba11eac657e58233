package status

import (
	"tilefarm/internal/app/stateview"
	"tilefarm/internal/domain/farm"
)

type Request struct {
	UserKey string
}

type Response struct {
	State farm.GameState `json:"state"`
	View  stateview.View `json:"view"`
}
