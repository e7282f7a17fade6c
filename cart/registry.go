package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"fusion6/store"
)

const (
	DefaultIdleTimeout = 10 * time.Minute
	DefaultMaxEngines  = 1000
)

// Limits bound how many engines a Registry keeps in memory. An evicted
// profile is restored from its store on the next lookup.
type Limits struct {
	// IdleTimeout drops engines not looked up for this long.
	IdleTimeout time.Duration
	// MaxEngines caps the live engines; the least recently used goes first.
	MaxEngines  int
}

func (l Limits) withDefaults() Limits {
	if l.IdleTimeout <= 0 {
		l.IdleTimeout = DefaultIdleTimeout
	}
	if l.MaxEngines <= 0 {
		l.MaxEngines = DefaultMaxEngines
	}
	return l
}

type registryEntry struct {
	engine   *Engine
	lastUsed time.Time
}

// Registry keeps one Engine per recently active client profile.
type Registry struct {
	mu        sync.Mutex
	engines   map[string]*registryEntry
	profiles  *store.Profiles
	limits    Limits
	opts      []Option
	logger    *zap.Logger
	now       func() time.Time
	lastSweep time.Time
}

func NewRegistry(profiles *store.Profiles, logger *zap.Logger, limits Limits, opts ...Option) *Registry {
	return &Registry{
		engines:  make(map[string]*registryEntry),
		profiles: profiles,
		limits:   limits.withDefaults(),
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
}

// For returns the profile's engine, restoring it from storage when it is
// not in memory.
func (r *Registry) For(ctx context.Context, profileID string) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= r.limits.IdleTimeout/2 {
		r.evictIdle(now)
		r.lastSweep = now
	}

	if entry, ok := r.engines[profileID]; ok {
		entry.lastUsed = now
		return entry.engine
	}

	if len(r.engines) >= r.limits.MaxEngines {
		r.evictOldest()
	}

	opts := append([]Option{WithLogger(r.logger.With(zap.String("profile_id", profileID)))}, r.opts...)
	e := NewEngine(ctx, r.profiles.Local(profileID), opts...)
	r.engines[profileID] = &registryEntry{engine: e, lastUsed: now}
	return e
}

// Len reports how many engines are held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

// must be called with r.mu held
func (r *Registry) evictIdle(now time.Time) {
	evicted := 0
	for id, entry := range r.engines {
		if now.Sub(entry.lastUsed) >= r.limits.IdleTimeout {
			entry.engine.Close()
			delete(r.engines, id)
			evicted++
		}
	}
	if evicted > 0 {
		r.logger.Debug("evicted idle cart engines",
			zap.Int("evicted", evicted),
			zap.Int("remaining", len(r.engines)))
	}
}

// must be called with r.mu held
func (r *Registry) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, entry := range r.engines {
		if oldestID == "" || entry.lastUsed.Before(oldest) {
			oldestID = id
			oldest = entry.lastUsed
		}
	}
	if oldestID != "" {
		r.engines[oldestID].engine.Close()
		delete(r.engines, oldestID)
	}
}

func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, entry := range r.engines {
		entry.engine.Close()
		delete(r.engines, id)
	}
}
