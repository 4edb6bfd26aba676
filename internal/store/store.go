package store

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/3-lines-studio/gacha/internal/app"
)

const PluginName = "store"

var (
	ErrSliceExists  = errors.New("store slice already defined")
	ErrUnknownSlice = errors.New("store slice not defined")
)

// Change describes one Set call.
type Change struct {
	Slice string
	Key   string
	Value any
}

// Store holds named slices of state for a single application instance.
type Store struct {
	mu     sync.RWMutex
	slices map[string]map[string]any

	subsMu sync.Mutex
	subs   map[chan Change]struct{}
}

func New() *Store {
	return &Store{
		slices: map[string]map[string]any{},
		subs:   map[chan Change]struct{}{},
	}
}

func (s *Store) Name() string {
	return PluginName
}

func (s *Store) Install(a *app.App) error {
	a.SetState(s)
	return nil
}

func (s *Store) Define(slice string, initial map[string]any) error {
	if slice == "" {
		return fmt.Errorf("store slice name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slices[slice]; ok {
		return fmt.Errorf("%w: %s", ErrSliceExists, slice)
	}
	values := make(map[string]any, len(initial))
	maps.Copy(values, initial)
	s.slices[slice] = values
	return nil
}

func (s *Store) Get(slice, key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.slices[slice]
	if !ok {
		return nil, false
	}
	v, ok := values[key]
	return v, ok
}

func (s *Store) Set(slice, key string, value any) error {
	s.mu.Lock()
	values, ok := s.slices[slice]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownSlice, slice)
	}
	values[key] = value
	s.mu.Unlock()

	s.notify(Change{Slice: slice, Key: key, Value: value})
	return nil
}

// Subscribe returns a channel of changes and a func that cancels the
// subscription. Delivery never blocks Set; a subscriber that falls behind
// misses changes.
func (s *Store) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 16)
	s.subsMu.Lock()
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, ch)
			s.subsMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) notify(c Change) {
	s.subsMu.Lock()
	for ch := range s.subs {
		select {
		case ch <- c:
		default:
		}
	}
	s.subsMu.Unlock()
}

// Snapshot copies every slice. Values themselves are not deep-copied.
func (s *Store) Snapshot() map[string]map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]map[string]any, len(s.slices))
	for name, values := range s.slices {
		out[name] = maps.Clone(values)
	}
	return out
}
