package desktop

import (
	"math/rand/v2"
	"time"

	"github.com/GriffinCanCode/nextmac/internal/shared/id"
	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

// Catalog is the app metadata the reducer consults
type Catalog interface {
	Get(id string) (types.Descriptor, bool)
	Has(id string) bool
	IsCore(id string) bool
	IsSingleton(id string) bool
	WindowSize(id string) types.Size
	AppForFile(file types.File) (string, bool)
}

// Default viewport of a headless session
var DefaultViewport = types.Viewport{
	Width:        1920,
	Height:       1080,
	TopBarHeight: 32,
	DockHeight:   80,
}

const (
	openOffsetMin  = 50
	openOffsetSpan = 200
)

// Reducer computes state transitions.
// Clock, randomness and folder ids are injected so transitions are reproducible.
type Reducer struct {
	catalog  Catalog
	viewport types.Viewport
	now      func() time.Time
	random   func() float64
	folderID func() string
}

// Option configures a Reducer
type Option func(*Reducer)

// WithViewport sets the screen geometry used for tiling
func WithViewport(vp types.Viewport) Option {
	return func(r *Reducer) { r.viewport = vp }
}

// WithClock sets the time source for window ids
func WithClock(now func() time.Time) Option {
	return func(r *Reducer) { r.now = now }
}

// WithRandom sets the [0,1) source for default window positions
func WithRandom(random func() float64) Option {
	return func(r *Reducer) { r.random = random }
}

// WithFolderIDs sets the id source for created folders
func WithFolderIDs(next func() string) Option {
	return func(r *Reducer) { r.folderID = next }
}

// NewReducer creates a reducer over the given catalog
func NewReducer(catalog Catalog, opts ...Option) *Reducer {
	r := &Reducer{
		catalog:  catalog,
		viewport: DefaultViewport,
		now:      time.Now,
		random:   rand.Float64,
		folderID: id.NewFolderID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Viewport returns the geometry used for tiling
func (r *Reducer) Viewport() types.Viewport {
	return r.viewport
}

// Reduce applies an action. Inapplicable actions return s unchanged.
func (r *Reducer) Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(r, s)
}
