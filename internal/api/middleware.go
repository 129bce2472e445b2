package api

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Idle limiter entries are swept once the pool grows past the cap, so the
// map stays bounded over the process lifetime.
const (
	maxLimiterEntries = 4096
	limiterIdleAfter  = 10 * time.Minute
)

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// limiterPool keeps one token bucket per conversation so a chatty client
// cannot starve other households of classifier capacity.
type limiterPool struct {
	mu    sync.Mutex
	m     map[string]*limiterEntry
	rps   float64
	burst int
}

func newLimiterPool(rps float64, burst int) *limiterPool {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 3
	}
	return &limiterPool{m: make(map[string]*limiterEntry), rps: rps, burst: burst}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	if e, ok := p.m[key]; ok {
		e.lastSeen = now
		return e.lim
	}
	if len(p.m) >= maxLimiterEntries {
		p.sweepLocked(now)
	}
	e := &limiterEntry{lim: rate.NewLimiter(rate.Limit(p.rps), p.burst), lastSeen: now}
	p.m[key] = e
	return e.lim
}

// sweepLocked drops buckets idle past the cutoff. An idle conversation that
// comes back simply starts with a fresh (full) bucket.
func (p *limiterPool) sweepLocked(now time.Time) {
	for key, e := range p.m {
		if now.Sub(e.lastSeen) > limiterIdleAfter {
			delete(p.m, key)
		}
	}
}

func (p *limiterPool) Allow(key string) bool {
	return p.get(key).Allow()
}

type turnLock struct {
	mu   sync.Mutex
	refs int
}

// turnLocks serializes turns per conversation. The router mutates one
// transcript per turn and assumes no concurrent turn on the same
// conversation; overlapping requests queue up here instead. Entries are
// refcounted and removed as soon as no turn holds or waits on them, so the
// map only ever tracks in-flight conversations.
type turnLocks struct {
	mu sync.Mutex
	m  map[string]*turnLock
}

func newTurnLocks() *turnLocks {
	return &turnLocks{m: make(map[string]*turnLock)}
}

func (t *turnLocks) lock(key string) func() {
	t.mu.Lock()
	l, ok := t.m[key]
	if !ok {
		l = &turnLock{}
		t.m[key] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.m, key)
		}
		t.mu.Unlock()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			s.logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request")
			httpRequestsTotal.WithLabelValues(r.Method, http.StatusText(rec.status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Msg("handler panic recovered")
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
