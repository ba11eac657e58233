package fanout

import (
	"tilefarm/internal/app/ports"
	"tilefarm/internal/domain/farm"
)

// Recorder forwards every observation to each wrapped recorder.
type Recorder []ports.FarmMetrics

func (r Recorder) RecordOutcome(intent farm.IntentType, code farm.ResultCode) {
	for _, m := range r {
		m.RecordOutcome(intent, code)
	}
}

func (r Recorder) RecordTick(changed bool) {
	for _, m := range r {
		m.RecordTick(changed)
	}
}

func (r Recorder) RecordSaveFailure() {
	for _, m := range r {
		m.RecordSaveFailure()
	}
}
