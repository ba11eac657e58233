package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tilefarm/internal/app/ports"
	"tilefarm/internal/domain/farm"
)

const (
	DefaultTickPeriod = time.Second
	saveTimeout       = 5 * time.Second
	appendTimeout     = 5 * time.Second
)

var ErrSessionClosed = errors.New("session closed")

type Options struct {
	UserKey    string
	State      farm.GameState
	Catalog    farm.Catalog
	Repo       ports.FarmStateRepository
	Events     ports.EventRepository
	Renderer   ports.Renderer
	Metrics    ports.FarmMetrics
	Logger     zerolog.Logger
	TickPeriod time.Duration
	Now        func() time.Time
	NewID      func() string
}

// Session owns one player's farm. Every engine call, tick and snapshot runs
// on the goroutine started by Run, so the state never needs a lock.
type Session struct {
	userKey  string
	engine   *farm.Engine
	repo     ports.FarmStateRepository
	events   ports.EventRepository
	renderer ports.Renderer
	metrics  ports.FarmMetrics
	log      zerolog.Logger
	period   time.Duration
	newID    func() string

	calls chan func()
	saves chan farm.Record
	done  chan struct{}
}

func New(opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.TickPeriod <= 0 {
		opts.TickPeriod = DefaultTickPeriod
	}
	state := opts.State.Clone()
	return &Session{
		userKey:  opts.UserKey,
		engine:   farm.NewEngine(&state, opts.Catalog, opts.Now),
		repo:     opts.Repo,
		events:   opts.Events,
		renderer: opts.Renderer,
		metrics:  opts.Metrics,
		log:      opts.Logger.With().Str("component", "session").Str("user", opts.UserKey).Logger(),
		period:   opts.TickPeriod,
		newID:    opts.NewID,
		calls:    make(chan func()),
		saves:    make(chan farm.Record, 1),
		done:     make(chan struct{}),
	}
}

func (s *Session) UserKey() string { return s.userKey }

// Done is closed once Run has returned and the final save was written.
func (s *Session) Done() <-chan struct{} { return s.done }

// Run drives the session until ctx is cancelled. The last state is flushed
// to the repository before it returns.
func (s *Session) Run(ctx context.Context) {
	saverDone := make(chan struct{})
	go s.saveLoop(saverDone)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	s.render()
	s.log.Debug().Dur("period", s.period).Msg("session started")
	for {
		select {
		case <-ctx.Done():
			s.queueSave()
			close(s.saves)
			<-saverDone
			close(s.done)
			s.log.Debug().Msg("session stopped")
			return
		case fn := <-s.calls:
			fn()
		case <-ticker.C:
			s.tick()
		}
	}
}

// Result is an intent's outcome with the state it left behind, both taken in
// the same loop turn.
type Result struct {
	Outcome farm.Outcome
	State   farm.GameState
	Now     time.Time
}

// Execute applies one intent and snapshots the state right after it.
// Rejections are outcomes; the error is only set when the session is gone or
// ctx ends before the intent was accepted.
func (s *Session) Execute(ctx context.Context, in farm.Intent) (Result, error) {
	var res Result
	err := s.call(ctx, func() {
		res.Outcome = s.apply(in)
		res.State, res.Now = s.snapshot()
	})
	return res, err
}

func (s *Session) Submit(ctx context.Context, in farm.Intent) (farm.Outcome, error) {
	res, err := s.Execute(ctx, in)
	return res.Outcome, err
}

// Snapshot returns a deep copy of the live state together with the clock
// reading it was taken at.
func (s *Session) Snapshot(ctx context.Context) (farm.GameState, time.Time, error) {
	var (
		st  farm.GameState
		now time.Time
	)
	err := s.call(ctx, func() { st, now = s.snapshot() })
	return st, now, err
}

func (s *Session) snapshot() (farm.GameState, time.Time) {
	now := s.engine.Now()
	st := s.engine.State.Clone()
	// the live Ready flags only flip on a tick, where the redraw happens
	st.RefreshReadiness(now)
	return st, now
}

func (s *Session) Catalog() farm.Catalog { return s.engine.Catalog }

func (s *Session) call(ctx context.Context, fn func()) error {
	reply := make(chan struct{})
	select {
	case s.calls <- func() { fn(); close(reply) }:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	// accepted calls run to completion on the loop
	<-reply
	return nil
}

func (s *Session) apply(in farm.Intent) farm.Outcome {
	out := s.engine.Apply(in)
	if s.metrics != nil {
		s.metrics.RecordOutcome(in.Type, out.Code)
	}
	s.log.Debug().
		Str("intent", string(in.Type)).
		Str("result", string(out.Code)).
		Msg(out.Message)
	if !out.Applied {
		return out
	}
	for i := range out.Events {
		out.Events[i].ID = s.newID()
		out.Events[i].Payload["user"] = s.userKey
	}
	s.appendEvents(out.Events)
	s.queueSave()
	s.render()
	return out
}

func (s *Session) tick() {
	changed := s.engine.State.RefreshReadiness(s.engine.Now())
	if s.metrics != nil {
		s.metrics.RecordTick(changed)
	}
	s.queueSave()
	if changed {
		s.render()
	}
}

func (s *Session) render() {
	if s.renderer == nil {
		return
	}
	s.renderer.Render(s.engine.State.Clone(), s.engine.Now())
}

func (s *Session) appendEvents(events []farm.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
	defer cancel()
	if err := s.events.Append(ctx, s.userKey, events); err != nil {
		s.log.Warn().Err(err).Int("events", len(events)).Msg("append events failed")
	}
}

// queueSave hands the current record to the saver. Only the newest record
// matters, so a pending one that was not picked up yet is replaced.
func (s *Session) queueSave() {
	if s.repo == nil {
		return
	}
	rec := farm.EncodeRecord(*s.engine.State)
	select {
	case s.saves <- rec:
		return
	default:
	}
	select {
	case <-s.saves:
	default:
	}
	s.saves <- rec
}

func (s *Session) saveLoop(done chan<- struct{}) {
	defer close(done)
	for rec := range s.saves {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := s.repo.Save(ctx, s.userKey, rec)
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Msg("save failed")
			if s.metrics != nil {
				s.metrics.RecordSaveFailure()
			}
		}
	}
}
