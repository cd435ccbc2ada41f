package desktop

import (
	"fmt"
	"math"
	"slices"

	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

func (a Open) apply(r *Reducer, s State) State {
	if a.AppID == "" && a.File != nil {
		appID, ok := r.catalog.AppForFile(*a.File)
		if !ok {
			return s
		}
		a.AppID = appID
	}

	app, ok := r.catalog.Get(a.AppID)
	if !ok || !s.IsInstalled(a.AppID) {
		return s
	}

	if r.catalog.IsSingleton(a.AppID) {
		if i := s.windowIndexByApp(a.AppID); i >= 0 {
			return s.raise(i)
		}
	}

	w := types.Window{
		ID:     r.windowID(s, a.AppID),
		AppID:  a.AppID,
		Title:  app.Name,
		ZIndex: s.LastZIndex + 1,
		State:  types.WindowNormal,
	}

	if a.Position != nil {
		w.Position = *a.Position
	} else {
		w.Position = types.Position{
			X: r.random()*openOffsetSpan + openOffsetMin,
			Y: r.random()*openOffsetSpan + openOffsetMin,
		}
	}

	if a.Size != nil {
		w.Size = *a.Size
	} else {
		w.Size = r.catalog.WindowSize(a.AppID)
	}

	if a.File != nil {
		f := *a.File
		w.File = &f
		w.Title = f.Name + " — " + app.Name
	}

	s.Windows = append(slices.Clone(s.Windows), w)
	s.FocusedWindowID = w.ID
	s.LastZIndex = w.ZIndex
	return s
}

// windowID builds "<appId>-<unix millis>", bumping the timestamp on collision
func (r *Reducer) windowID(s State, appID string) string {
	ts := r.now().UnixMilli()
	for {
		candidate := fmt.Sprintf("%s-%d", appID, ts)
		if s.windowIndex(candidate) < 0 {
			return candidate
		}
		ts++
	}
}

func (a Close) apply(_ *Reducer, s State) State {
	i := s.windowIndex(a.WindowID)
	if i < 0 {
		return s
	}

	s.Windows = slices.Delete(slices.Clone(s.Windows), i, i+1)
	if s.FocusedWindowID == a.WindowID {
		s.FocusedWindowID = ""
	}
	return s
}

func (a Focus) apply(_ *Reducer, s State) State {
	if a.WindowID == "" || s.FocusedWindowID == a.WindowID {
		return s
	}

	i := s.windowIndex(a.WindowID)
	if i < 0 {
		return s
	}
	return s.raise(i)
}

func (a Minimize) apply(_ *Reducer, s State) State {
	i := s.windowIndex(a.WindowID)
	if i < 0 {
		return s
	}

	w := s.Windows[i]
	if w.State == types.WindowMinimized && s.FocusedWindowID != w.ID {
		return s
	}

	w.State = types.WindowMinimized
	s = s.withWindow(i, w)
	if s.FocusedWindowID == a.WindowID {
		s.FocusedWindowID = ""
	}
	return s
}

func (a ToggleMaximize) apply(_ *Reducer, s State) State {
	i := s.windowIndex(a.WindowID)
	if i < 0 {
		return s
	}

	w := s.Windows[i]
	switch w.State {
	case types.WindowNormal:
		w.State = types.WindowMaximized
	case types.WindowMaximized:
		w.State = types.WindowNormal
	default:
		return s
	}
	return s.withWindow(i, w)
}

func (a UpdateWindow) apply(_ *Reducer, s State) State {
	i := s.windowIndex(a.WindowID)
	if i < 0 {
		return s
	}
	if a.Title == nil && a.Position == nil && a.Size == nil {
		return s
	}

	w := s.Windows[i]
	if a.Title != nil {
		w.Title = *a.Title
	}
	if a.Position != nil {
		w.Position = *a.Position
	}
	if a.Size != nil {
		w.Size = *a.Size
	}
	return s.withWindow(i, w)
}

func (TileWindows) apply(r *Reducer, s State) State {
	var normal []int
	for i, w := range s.Windows {
		if w.State == types.WindowNormal {
			normal = append(normal, i)
		}
	}
	if len(normal) == 0 {
		return s
	}

	tiles := Tile(len(normal), r.viewport)
	s.Windows = slices.Clone(s.Windows)
	for n, i := range normal {
		s.Windows[i].Position = tiles[n].Position
		s.Windows[i].Size = tiles[n].Size
	}
	return s
}

// Rect is a placed tile
type Rect struct {
	Position types.Position
	Size     types.Size
}

// Tile lays out n tiles row-major in a near-square grid below the top bar.
// Columns are ceil(sqrt(n)), rows ceil(n/cols).
func Tile(n int, vp types.Viewport) []Rect {
	if n <= 0 {
		return nil
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	w := vp.Width / float64(cols)
	h := vp.AvailableHeight() / float64(rows)

	out := make([]Rect, n)
	for k := range out {
		row, col := k/cols, k%cols
		out[k] = Rect{
			Position: types.Position{X: float64(col) * w, Y: float64(row)*h + vp.TopBarHeight},
			Size:     types.Size{Width: w, Height: h},
		}
	}
	return out
}
