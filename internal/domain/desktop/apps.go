package desktop

import (
	"slices"

	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

func (a ChangePassword) apply(_ *Reducer, s State) State {
	if s.Password == a.Secret {
		return s
	}
	s.Password = a.Secret
	return s
}

func (a InstallApp) apply(r *Reducer, s State) State {
	if !r.catalog.Has(a.AppID) || s.IsInstalled(a.AppID) {
		return s
	}
	s.InstalledApps = append(slices.Clone(s.InstalledApps), a.AppID)
	return s
}

func (a UninstallApp) apply(r *Reducer, s State) State {
	if !r.catalog.Has(a.AppID) || r.catalog.IsCore(a.AppID) {
		return s
	}
	// Pins do not require installation
	if !s.IsInstalled(a.AppID) && !s.IsPinned(a.AppID) && s.windowIndexByApp(a.AppID) < 0 {
		return s
	}

	if s.IsInstalled(a.AppID) {
		s.InstalledApps = without(s.InstalledApps, a.AppID)
	}
	if s.IsPinned(a.AppID) {
		s.PinnedApps = without(s.PinnedApps, a.AppID)
	}

	if s.windowIndexByApp(a.AppID) >= 0 {
		if w, ok := s.FocusedWindow(); ok && w.AppID == a.AppID {
			s.FocusedWindowID = ""
		}
		s.Windows = slices.DeleteFunc(slices.Clone(s.Windows), func(w types.Window) bool {
			return w.AppID == a.AppID
		})
	}
	return s
}

func (a PinApp) apply(r *Reducer, s State) State {
	if !r.catalog.Has(a.AppID) || s.IsPinned(a.AppID) {
		return s
	}
	s.PinnedApps = append(slices.Clone(s.PinnedApps), a.AppID)
	return s
}

func (a UnpinApp) apply(_ *Reducer, s State) State {
	if !s.IsPinned(a.AppID) {
		return s
	}
	s.PinnedApps = without(s.PinnedApps, a.AppID)
	return s
}

func (Shutdown) apply(_ *Reducer, s State) State {
	if s.ShutdownRequested {
		return s
	}
	s.ShutdownRequested = true
	return s
}

func without(ids []string, id string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
}
