package session

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// OpenFunc builds a not-yet-running session for a user key.
type OpenFunc func(ctx context.Context, userKey string) (*Session, error)

type runningSession struct {
	sess   *Session
	cancel context.CancelFunc
}

type stoppedSession struct {
	key  string
	sess *Session
}

// Registry keeps the most recently used sessions running. Evicting a session
// cancels its loop; the final save is awaited outside the registry lock, and a
// key is not reopened until its previous session has flushed.
type Registry struct {
	mu       sync.Mutex
	cache    *lru.Cache[string, *runningSession]
	stopping map[string]*Session
	evicted  []stoppedSession
	open     OpenFunc
	log      zerolog.Logger
}

func NewRegistry(size int, open OpenFunc, logger zerolog.Logger) (*Registry, error) {
	r := &Registry{
		stopping: map[string]*Session{},
		open:     open,
		log:      logger.With().Str("component", "session_registry").Logger(),
	}
	// runs under r.mu: every cache call below holds it
	cache, err := lru.NewWithEvict[string, *runningSession](size, func(key string, rs *runningSession) {
		rs.cancel()
		r.stopping[key] = rs.sess
		r.evicted = append(r.evicted, stoppedSession{key: key, sess: rs.sess})
		r.log.Debug().Str("user", key).Msg("session evicted")
	})
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	r.cache = cache
	return r, nil
}

// Get returns the running session for userKey, opening and starting one on
// first use.
func (r *Registry) Get(ctx context.Context, userKey string) (*Session, error) {
	for {
		r.mu.Lock()
		if rs, ok := r.cache.Get(userKey); ok {
			if !isDone(rs.sess) {
				r.mu.Unlock()
				return rs.sess, nil
			}
			r.cache.Remove(userKey)
		}
		prev, ok := r.stopping[userKey]
		if !ok || isDone(prev) {
			delete(r.stopping, userKey)
			break
		}
		evicted := r.takeEvicted()
		r.mu.Unlock()
		r.reap(evicted)
		select {
		case <-prev.Done():
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	sess, err := r.open(ctx, userKey)
	if err != nil {
		evicted := r.takeEvicted()
		r.mu.Unlock()
		r.reap(evicted)
		return nil, err
	}
	runCtx, cancel := context.WithCancel(context.Background())
	go sess.Run(runCtx)
	r.cache.Add(userKey, &runningSession{sess: sess, cancel: cancel})
	evicted := r.takeEvicted()
	r.mu.Unlock()
	r.reap(evicted)
	return sess, nil
}

// Remove stops the session for userKey, if any, and waits for its final save.
func (r *Registry) Remove(userKey string) {
	r.mu.Lock()
	r.cache.Remove(userKey)
	evicted := r.takeEvicted()
	r.mu.Unlock()
	for _, e := range evicted {
		<-e.sess.Done()
		r.forget(e.key, e.sess)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len()
}

// Close stops every running session and waits for all final saves.
func (r *Registry) Close() {
	r.mu.Lock()
	r.cache.Purge()
	r.evicted = nil
	pending := make([]stoppedSession, 0, len(r.stopping))
	for k, s := range r.stopping {
		pending = append(pending, stoppedSession{key: k, sess: s})
	}
	r.mu.Unlock()
	for _, e := range pending {
		<-e.sess.Done()
		r.forget(e.key, e.sess)
	}
}

// takeEvicted hands over the sessions cancelled since the last call. Callers
// hold r.mu.
func (r *Registry) takeEvicted() []stoppedSession {
	out := r.evicted
	r.evicted = nil
	return out
}

// reap forgets each evicted session once its loop has returned, without
// holding the lock while it flushes.
func (r *Registry) reap(evicted []stoppedSession) {
	for _, e := range evicted {
		go func(e stoppedSession) {
			<-e.sess.Done()
			r.forget(e.key, e.sess)
		}(e)
	}
}

func (r *Registry) forget(key string, sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopping[key] == sess {
		delete(r.stopping, key)
	}
}

func isDone(s *Session) bool {
	select {
	case <-s.Done():
		return true
	default:
		return false
	}
}
