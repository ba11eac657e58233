package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"tilefarm/internal/app/stateview"
	"tilefarm/internal/domain/farm"
)

// Renderer draws the farm as plain text. It is called from the session loop
// and from the input loop, so writes are serialised.
type Renderer struct {
	mu      sync.Mutex
	w       io.Writer
	catalog farm.Catalog
}

func NewRenderer(w io.Writer, catalog farm.Catalog) *Renderer {
	return &Renderer{w: w, catalog: catalog}
}

func (r *Renderer) Render(state farm.GameState, now time.Time) {
	text := Format(stateview.Derive(state, r.catalog, now))
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.w, text)
}

// Notify shows an outcome message once; it is not repeated on later draws.
func (r *Renderer) Notify(msg string) {
	if strings.TrimSpace(msg) == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, ">> %s\n", msg)
}

// Println writes free text between draws.
func (r *Renderer) Println(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, text)
}

func Format(v stateview.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nMoney: $%d\n", v.Money)
	for _, lot := range v.Lots {
		fmt.Fprintf(&b, "  [%d] %s\n", lot.Index+1, strings.ReplaceAll(lot.Label, "\n", " "))
	}
	inv := make([]string, 0, len(v.Crops))
	for _, c := range v.Crops {
		if !c.Unlocked {
			continue
		}
		inv = append(inv, fmt.Sprintf("%s: %d", c.Name, c.Count))
	}
	fmt.Fprintf(&b, "Seeds: %s\n", strings.Join(inv, ", "))

	shop := []string{buttonText(v.BuyLot)}
	for _, btn := range []stateview.Button{v.UnlockHops, v.UnlockPumpkins, v.BuyScythe, v.BuyPlanter} {
		if btn.Visible {
			shop = append(shop, buttonText(btn))
		}
	}
	fmt.Fprintf(&b, "Shop: %s\n", strings.Join(shop, " | "))
	return b.String()
}

func buttonText(btn stateview.Button) string {
	if btn.Enabled {
		return btn.Label
	}
	return btn.Label + " (can't afford)"
}
