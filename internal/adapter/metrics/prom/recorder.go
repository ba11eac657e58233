package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tilefarm/internal/domain/farm"
)

const (
	namespace   = "tilefarm"
	labelIntent = "intent"
	labelResult = "result"
	labelChange = "changed"
)

// Recorder exports farm counters on a prometheus registerer.
type Recorder struct {
	outcomes     *prometheus.CounterVec
	ticks        *prometheus.CounterVec
	saveFailures prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "intents_total",
				Help:      "Player intents by type and result code",
			},
			[]string{labelIntent, labelResult},
		),
		ticks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ticks_total",
				Help:      "Session ticks, split by whether anything needed a redraw",
			},
			[]string{labelChange},
		),
		saveFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "save_failures_total",
				Help:      "Farm saves that the repository refused",
			},
		),
	}
}

func (r *Recorder) RecordOutcome(intent farm.IntentType, code farm.ResultCode) {
	r.outcomes.WithLabelValues(string(intent), string(code)).Inc()
}

func (r *Recorder) RecordTick(changed bool) {
	if changed {
		r.ticks.WithLabelValues("true").Inc()
		return
	}
	r.ticks.WithLabelValues("false").Inc()
}

func (r *Recorder) RecordSaveFailure() {
	r.saveFailures.Inc()
}
