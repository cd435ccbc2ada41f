package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/nextmac/internal/domain/desktop"
	"github.com/GriffinCanCode/nextmac/internal/domain/session"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/logging"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/storage"
)

const (
	// DefaultKey is the blob key of the desktop session
	DefaultKey = "desktop"
	// DefaultTimeout bounds one save or load
	DefaultTimeout = 5 * time.Second
)

// Recorder receives persistence outcomes
type Recorder interface {
	ObservePersistence(op string, err error)
}

// Adapter loads and saves the persisted subset of the session
type Adapter struct {
	store   storage.Store
	catalog Catalog
	key     string
	timeout time.Duration
	log     *logging.Logger
	metrics Recorder

	mu   sync.Mutex
	last []byte
}

// Option configures an Adapter
type Option func(*Adapter)

// WithKey sets the blob key
func WithKey(key string) Option {
	return func(a *Adapter) { a.key = key }
}

// WithTimeout bounds each storage call made from Observe
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) { a.timeout = d }
}

// WithLogger sets the adapter logger
func WithLogger(log *logging.Logger) Option {
	return func(a *Adapter) { a.log = log }
}

// WithRecorder sets the metrics sink
func WithRecorder(r Recorder) Option {
	return func(a *Adapter) { a.metrics = r }
}

// NewAdapter creates an adapter over a blob store
func NewAdapter(store storage.Store, cat Catalog, opts ...Option) *Adapter {
	a := &Adapter{
		store:   store,
		catalog: cat,
		key:     DefaultKey,
		timeout: DefaultTimeout,
		log:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load rebuilds the session from storage on top of initial.
// A missing blob yields initial with no error. A read failure or a
// non-object blob yields initial and the error, so callers can log and go on.
func (a *Adapter) Load(ctx context.Context, initial desktop.State) (desktop.State, error) {
	data, err := a.store.Load(ctx, a.key)
	if errors.Is(err, storage.ErrNotFound) {
		a.record("load", nil)
		a.remember(initial)
		a.log.Info("No saved session, starting fresh", zap.String("key", a.key))
		return initial, nil
	}
	if err != nil {
		a.record("load", err)
		return initial, fmt.Errorf("failed to load session: %w", err)
	}

	s, report, err := Decode(data, initial, a.catalog)
	a.record("load", err)
	if err != nil {
		return initial, err
	}

	if !report.Clean() {
		a.log.Warn("Discarded malformed session entries",
			zap.Strings("malformed_fields", report.MalformedFields),
			zap.Int("discarded_files", report.DiscardedFiles),
			zap.Int("discarded_apps", report.DiscardedApps))
	}
	a.log.Info("Session restored",
		zap.Int("desktop_files", len(s.DesktopFiles)),
		zap.Int("trashed_files", len(s.TrashedFiles)),
		zap.Int("installed_apps", len(s.InstalledApps)))

	if report.Clean() {
		a.remember(s)
	}
	return s, nil
}

// Save writes the persisted subset of s when it differs from the last write
func (a *Adapter) Save(ctx context.Context, s desktop.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.last != nil && bytes.Equal(a.last, data) {
		return nil
	}

	err = a.store.Save(ctx, a.key, data)
	a.record("save", err)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	a.last = data
	return nil
}

// Observe saves after each applied change. Errors are logged, never returned.
func (a *Adapter) Observe(c session.Change) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.Save(ctx, c.After); err != nil {
		a.log.Error("Failed to persist session",
			zap.String("action", string(c.Action.Kind())),
			zap.Uint64("seq", c.Seq),
			zap.Error(err))
	}
}

func (a *Adapter) remember(s desktop.State) {
	data, err := Encode(s)
	if err != nil {
		return
	}
	a.mu.Lock()
	a.last = data
	a.mu.Unlock()
}

func (a *Adapter) record(op string, err error) {
	if a.metrics != nil {
		a.metrics.ObservePersistence(op, err)
	}
}

var _ session.Observer = (*Adapter)(nil)
