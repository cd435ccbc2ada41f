package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/GriffinCanCode/nextmac/internal/domain/desktop"
	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

// Blob is the persisted document
type Blob struct {
	Password      string       `json:"password"`
	DesktopFiles  []types.File `json:"desktopFiles"`
	TrashedFiles  []types.File `json:"trashedFiles"`
	InstalledApps []string     `json:"installedApps"`
	PinnedApps    []string     `json:"pinnedApps"`
}

// Catalog is the app metadata used to validate app ids
type Catalog interface {
	Has(id string) bool
	CoreIDs() []string
}

// Report lists what a lenient decode threw away
type Report struct {
	MalformedFields []string
	DiscardedFiles  int
	DiscardedApps   int
}

// Clean reports whether the blob decoded without discarding anything
func (r Report) Clean() bool {
	return len(r.MalformedFields) == 0 && r.DiscardedFiles == 0 && r.DiscardedApps == 0
}

// FromState extracts the persisted subset
func FromState(s desktop.State) Blob {
	c := s.Clone()
	return Blob{
		Password:      c.Password,
		DesktopFiles:  nonNil(c.DesktopFiles),
		TrashedFiles:  nonNil(c.TrashedFiles),
		InstalledApps: nonNil(c.InstalledApps),
		PinnedApps:    nonNil(c.PinnedApps),
	}
}

// Encode renders the persisted subset of s
func Encode(s desktop.State) ([]byte, error) {
	data, err := json.Marshal(FromState(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode session blob: %w", err)
	}
	return data, nil
}

// Decode merges a stored blob into initial. It only fails when data is not
// a JSON object; everything else degrades to initial values.
func Decode(data []byte, initial desktop.State, cat Catalog) (desktop.State, Report, error) {
	var report Report

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return initial, report, fmt.Errorf("session blob is not a JSON object: %w", errOrNull(err))
	}

	s := initial.Clone()

	if raw, ok := fields["password"]; ok {
		var pw string
		if err := json.Unmarshal(raw, &pw); err != nil || pw == "" {
			report.MalformedFields = append(report.MalformedFields, "password")
		} else {
			s.Password = pw
		}
	}

	seen := map[string]struct{}{}
	if raw, ok := fields["desktopFiles"]; ok {
		files, dropped, ok := decodeFiles(raw, seen)
		if ok {
			s.DesktopFiles = files
		} else {
			report.MalformedFields = append(report.MalformedFields, "desktopFiles")
		}
		report.DiscardedFiles += dropped
	}
	for _, f := range s.DesktopFiles {
		seen[f.ID] = struct{}{}
	}
	if raw, ok := fields["trashedFiles"]; ok {
		files, dropped, ok := decodeFiles(raw, seen)
		if ok {
			s.TrashedFiles = files
		} else {
			report.MalformedFields = append(report.MalformedFields, "trashedFiles")
		}
		report.DiscardedFiles += dropped
	}

	if raw, ok := fields["installedApps"]; ok {
		apps, dropped, ok := decodeApps(raw, cat)
		if ok {
			s.InstalledApps = withCore(apps, cat.CoreIDs())
		} else {
			report.MalformedFields = append(report.MalformedFields, "installedApps")
		}
		report.DiscardedApps += dropped
	}
	if raw, ok := fields["pinnedApps"]; ok {
		apps, dropped, ok := decodeApps(raw, cat)
		if ok {
			s.PinnedApps = apps
		} else {
			report.MalformedFields = append(report.MalformedFields, "pinnedApps")
		}
		report.DiscardedApps += dropped
	}

	return s, report, nil
}

// decodeFiles keeps well-formed records whose id is not in seen.
// ok is false when raw is not an array.
func decodeFiles(raw json.RawMessage, seen map[string]struct{}) (files []types.File, dropped int, ok bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, false
	}

	files = []types.File{}
	for _, item := range items {
		f, valid := decodeFile(item)
		if !valid {
			dropped++
			continue
		}
		if _, dup := seen[f.ID]; dup {
			dropped++
			continue
		}
		seen[f.ID] = struct{}{}
		files = append(files, f)
	}
	return files, dropped, true
}

func decodeFile(item json.RawMessage) (types.File, bool) {
	if !bytes.HasPrefix(bytes.TrimSpace(item), []byte("{")) {
		return types.File{}, false
	}

	var rec map[string]json.RawMessage
	if err := json.Unmarshal(item, &rec); err != nil {
		return types.File{}, false
	}

	var f types.File
	for key, dst := range map[string]*string{
		"id":      &f.ID,
		"name":    &f.Name,
		"type":    &f.Type,
		"content": &f.Content,
	} {
		raw, ok := rec[key]
		if !ok {
			return types.File{}, false
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return types.File{}, false
		}
	}
	if f.ID == "" {
		return types.File{}, false
	}
	return f, true
}

func decodeApps(raw json.RawMessage, cat Catalog) (apps []string, dropped int, ok bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0, false
	}

	apps = []string{}
	seen := map[string]struct{}{}
	for _, item := range items {
		var id string
		if err := json.Unmarshal(item, &id); err != nil || !cat.Has(id) {
			dropped++
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		apps = append(apps, id)
	}
	return apps, dropped, true
}

func withCore(apps, core []string) []string {
	have := make(map[string]struct{}, len(apps))
	for _, id := range apps {
		have[id] = struct{}{}
	}
	for _, id := range core {
		if _, ok := have[id]; !ok {
			apps = append(apps, id)
		}
	}
	return apps
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func errOrNull(err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("null document")
}
