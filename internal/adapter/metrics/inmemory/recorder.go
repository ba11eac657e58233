package inmemory

import (
	"sync"

	"tilefarm/internal/domain/farm"
)

type Snapshot struct {
	ActionTotal    uint64            `json:"action_total"`
	ActionApplied  uint64            `json:"action_applied"`
	ActionRejected uint64            `json:"action_rejected"`
	ActionNoop     uint64            `json:"action_noop"`
	ByIntent       map[string]uint64 `json:"by_intent"`
	Ticks          uint64            `json:"ticks"`
	ChangedTicks   uint64            `json:"changed_ticks"`
	SaveFailures   uint64            `json:"save_failures"`
}

type Recorder struct {
	mu           sync.Mutex
	applied      uint64
	rejected     uint64
	noop         uint64
	byIntent     map[string]uint64
	ticks        uint64
	changedTicks uint64
	saveFailures uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byIntent: map[string]uint64{},
	}
}

func (r *Recorder) RecordOutcome(intent farm.IntentType, code farm.ResultCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch code {
	case farm.ResultOK:
		r.applied++
	case farm.ResultRejected:
		r.rejected++
	default:
		r.noop++
	}
	r.byIntent[string(intent)]++
}

func (r *Recorder) RecordTick(changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
	if changed {
		r.changedTicks++
	}
}

func (r *Recorder) RecordSaveFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveFailures++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		ActionApplied:  r.applied,
		ActionRejected: r.rejected,
		ActionNoop:     r.noop,
		ActionTotal:    r.applied + r.rejected + r.noop,
		ByIntent:       make(map[string]uint64, len(r.byIntent)),
		Ticks:          r.ticks,
		ChangedTicks:   r.changedTicks,
		SaveFailures:   r.saveFailures,
	}
	for k, v := range r.byIntent {
		out.ByIntent[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
