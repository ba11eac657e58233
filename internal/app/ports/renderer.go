package ports

import (
	"time"

	"tilefarm/internal/domain/farm"
)

// Renderer draws a state snapshot. Implementations must not keep the state
// past the call.
type Renderer interface {
	Render(state farm.GameState, now time.Time)
}
