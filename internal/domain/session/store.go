package session

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/nextmac/internal/domain/desktop"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/logging"
)

// Change describes one applied action
type Change struct {
	Seq    uint64
	Action desktop.Action
	Before desktop.State
	After  desktop.State
}

// Observer is notified after each applied action.
// Observers run under the store lock and must not call Dispatch.
type Observer interface {
	Observe(Change)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Change)

func (f ObserverFunc) Observe(c Change) { f(c) }

// Recorder receives dispatch metrics
type Recorder interface {
	RecordAction(kind string, applied bool)
	SetSessionGauges(windows, desktopFiles, trashedFiles, installedApps int)
}

// Store serializes all access to the desktop state
type Store struct {
	mu        sync.Mutex
	reducer   *desktop.Reducer
	state     desktop.State
	seq       uint64
	observers []*subscription
	nextSub   int
	log       *logging.Logger
	metrics   Recorder
}

type subscription struct {
	id       int
	observer Observer
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the store logger
func WithLogger(log *logging.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithRecorder sets the metrics sink
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.metrics = r }
}

// NewStore creates a store holding initial
func NewStore(reducer *desktop.Reducer, initial desktop.State, opts ...Option) *Store {
	s := &Store{
		reducer: reducer,
		state:   initial.Clone(),
		log:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.publishGauges()
	return s
}

// Dispatch applies an action and returns a copy of the resulting state
func (s *Store) Dispatch(a desktop.Action) desktop.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(a)
	return s.state.Clone()
}

// DispatchAll applies actions in order as one critical section
func (s *Store) DispatchAll(actions ...desktop.Action) desktop.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range actions {
		s.apply(a)
	}
	return s.state.Clone()
}

func (s *Store) apply(a desktop.Action) {
	if a == nil {
		return
	}

	before := s.state
	after := s.reducer.Reduce(before, a)
	applied := !reflect.DeepEqual(before, after)

	if s.metrics != nil {
		s.metrics.RecordAction(string(a.Kind()), applied)
	}
	if !applied {
		s.log.Debug("Action ignored", zap.String("kind", string(a.Kind())))
		return
	}

	s.state = after
	s.seq++
	s.publishGauges()

	s.log.Debug("Action applied",
		zap.String("kind", string(a.Kind())),
		zap.Uint64("seq", s.seq),
		zap.Int("windows", len(after.Windows)),
		zap.Int("last_z_index", after.LastZIndex))

	change := Change{Seq: s.seq, Action: a, Before: before, After: after.Clone()}
	for _, sub := range s.observers {
		sub.observer.Observe(change)
	}
}

// State returns a copy of the current state
func (s *Store) State() desktop.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Snapshot returns a copy of the current state with its sequence number
func (s *Store) Snapshot() (desktop.State, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone(), s.seq
}

// Seq returns the number of applied actions
func (s *Store) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reducer returns the transition function in use
func (s *Store) Reducer() *desktop.Reducer {
	return s.reducer
}

// Subscribe registers an observer and returns its cancel func
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.observers = append(s.observers, &subscription{id: id, observer: o})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) publishGauges() {
	if s.metrics == nil {
		return
	}
	s.metrics.SetSessionGauges(
		len(s.state.Windows),
		len(s.state.DesktopFiles),
		len(s.state.TrashedFiles),
		len(s.state.InstalledApps),
	)
}
