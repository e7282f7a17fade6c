// Package store is the key-value persistence adapter behind carts, orders and
// sessions. Every operation is fail-soft: storage holds best-effort client
// state, so I/O and decoding failures are logged and turned into no-ops or
// fallback values instead of errors.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrNotFound = errors.New("store: key not found")

// Failure kinds reported in logs.
const (
	KindUnavailable = "StorageUnavailable"
	KindCorrupt     = "StorageCorrupt"
)

// Backend is the raw byte store underneath a Store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes value under key. A zero ttl means the key never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Touch pushes the expiry of a live key to ttl from now. Missing keys
	// are left alone.
	Touch(ctx context.Context, key string, ttl time.Duration) error
}

type Store struct {
	backend Backend
	prefix  string
	ttl     time.Duration
	logger  *zap.Logger
}

type Option func(*Store)

// WithTTL makes keys expire after d without a Save or Load.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scope returns a view of s whose keys live under the given path segments.
func (s *Store) Scope(segments ...string) *Store {
	scoped := *s
	scoped.prefix = s.prefix + strings.Join(segments, ":") + ":"
	return &scoped
}

func (s *Store) key(key string) string {
	return s.prefix + key
}

func (s *Store) Save(ctx context.Context, key string, value any) {
	s.SaveFor(ctx, key, value, s.ttl)
}

func (s *Store) SaveFor(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.fail("encode", key, KindCorrupt, err)
		return
	}
	if err := s.backend.Set(ctx, s.key(key), data, ttl); err != nil {
		s.fail("save", key, KindUnavailable, err)
	}
}

func (s *Store) Clear(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, s.key(key)); err != nil && !errors.Is(err, ErrNotFound) {
		s.fail("clear", key, KindUnavailable, err)
	}
}

// Has reports whether key is present. Backend failures count as absent.
func (s *Store) Has(ctx context.Context, key string) bool {
	_, err := s.backend.Get(ctx, s.key(key))
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.fail("lookup", key, KindUnavailable, err)
	}
	return err == nil
}

// Load decodes the value stored under key, or returns fallback when the key
// is absent, unreadable or malformed. On a store with a TTL a successful
// read restarts the key's expiry.
func Load[T any](ctx context.Context, s *Store, key string, fallback T) T {
	data, err := s.backend.Get(ctx, s.key(key))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.fail("load", key, KindUnavailable, err)
		}
		return fallback
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		s.fail("decode", key, KindCorrupt, err)
		return fallback
	}
	if s.ttl > 0 {
		if err := s.backend.Touch(ctx, s.key(key), s.ttl); err != nil {
			s.fail("touch", key, KindUnavailable, err)
		}
	}
	return value
}

func (s *Store) fail(op, key, kind string, err error) {
	s.logger.Warn("storage operation failed",
		zap.String("op", op),
		zap.String("key", s.key(key)),
		zap.String("kind", kind),
		zap.Error(err))
}

// Profiles hands out the per-profile namespaces: a durable one (the
// localStorage analogue) and a session one whose keys expire.
type Profiles struct {
	local   *Store
	session *Store
}

func NewProfiles(local, session *Store) *Profiles {
	return &Profiles{local: local, session: session}
}

func (p *Profiles) Local(profileID string) *Store {
	return p.local.Scope("profile", profileID, "local")
}

func (p *Profiles) Session(profileID string) *Store {
	return p.session.Scope("profile", profileID, "session")
}
