package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/3-lines-studio/gacha/internal/logging"
)

const (
	CookieName    = "SESSIONID"
	DefaultTTL    = time.Hour
	DefaultSweep  = time.Minute
	sessionIDSize = 16
)

var ErrNoSession = errors.New("no session")

// Session is the server-side state behind one SESSIONID cookie.
type Session struct {
	id string

	// inUse is read-locked by every request handling the session so the
	// sweeper can tell it apart from idle ones.
	inUse sync.RWMutex

	mu       sync.Mutex
	values   map[string]any
	lastSeen time.Time
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

func (s *Session) Delete(key string) {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen) >= ttl
}

// Key names a session value of type T.
type Key[T any] struct {
	name string
}

func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

func Get[T any](s *Session, k Key[T]) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	v, ok := s.Get(k.name)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

func Put[T any](s *Session, k Key[T], v T) {
	s.Set(k.name, v)
}

func Remove[T any](s *Session, k Key[T]) {
	s.Delete(k.name)
}

type Options struct {
	HashKey  []byte
	BlockKey []byte
	TTL      time.Duration
	// Insecure drops the Secure cookie attribute for plain-HTTP development.
	Insecure bool
	Logger   *logging.Logger
}

// Manager owns every live session and the cookie codec.
type Manager struct {
	codec    *securecookie.SecureCookie
	ttl      time.Duration
	insecure bool
	log      *logging.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(opts Options) (*Manager, error) {
	hashKey := opts.HashKey
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(64)
	}
	blockKey := opts.BlockKey
	if len(blockKey) == 0 {
		blockKey = securecookie.GenerateRandomKey(32)
	}
	if hashKey == nil || blockKey == nil {
		return nil, fmt.Errorf("generate session keys")
	}
	switch len(blockKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("session block key must be 16, 24 or 32 bytes, got %d", len(blockKey))
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(0)

	return &Manager{
		codec:    codec,
		ttl:      ttl,
		insecure: opts.Insecure,
		log:      opts.Logger,
		now:      time.Now,
		sessions: map[string]*Session{},
	}, nil
}

// Load returns the live session named by the request cookie.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	if s, ok := FromContext(r.Context()); ok {
		return s, nil
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	var id string
	if err := m.codec.Decode(CookieName, cookie.Value, &id); err != nil {
		return nil, ErrNoSession
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNoSession
	}

	now := m.now()
	if s.expired(now, m.ttl) {
		m.remove(id)
		return nil, ErrNoSession
	}
	s.touch(now)
	return s, nil
}

// Start returns the request's session, creating one and setting its cookie
// when none exists.
func (m *Manager) Start(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if s, err := m.Load(r); err == nil {
		return s, nil
	}
	return m.create(w)
}

// Renew drops the request's session, if any, and starts an empty one under
// a new ID.
func (m *Manager) Renew(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if s, err := m.Load(r); err == nil {
		m.remove(s.id)
	}
	return m.create(w)
}

func (m *Manager) create(w http.ResponseWriter) (*Session, error) {
	raw := securecookie.GenerateRandomKey(sessionIDSize)
	if raw == nil {
		return nil, fmt.Errorf("generate session id")
	}
	s := &Session{
		id:       hex.EncodeToString(raw),
		values:   map[string]any{},
		lastSeen: m.now(),
	}

	encoded, err := m.codec.Encode(CookieName, s.id)
	if err != nil {
		return nil, fmt.Errorf("encode session cookie: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	http.SetCookie(w, m.cookie(encoded, 0))
	m.log.Debug("session created", nil)
	return s, nil
}

// Destroy forgets the request's session and expires its cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	if s, err := m.Load(r); err == nil {
		m.remove(s.id)
	}
	http.SetCookie(w, m.cookie("", -1))
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   !m.insecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes expired sessions that no request is currently using and
// reports how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if !s.inUse.TryLock() {
			continue
		}
		if s.expired(now, m.ttl) {
			delete(m.sessions, id)
			removed++
		}
		s.inUse.Unlock()
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweep
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.log.Debug("expired sessions removed", map[string]any{"count": n, "live": m.Len()})
			}
		}
	}
}

// Middleware attaches an existing session to the request context and marks
// it in use for the duration of the request. It never creates sessions.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Load(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		s.inUse.RLock()
		defer s.inUse.RUnlock()
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

type contextKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
