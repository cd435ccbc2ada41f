package desktop

import (
	"fmt"
	"slices"

	"github.com/GriffinCanCode/nextmac/internal/shared/types"
)

// NewFolderName is the base name of created folders
const NewFolderName = "New Folder"

func (a AddDesktopFiles) apply(_ *Reducer, s State) State {
	seen := make(map[string]struct{}, len(s.DesktopFiles)+len(s.TrashedFiles))
	for _, f := range s.DesktopFiles {
		seen[f.ID] = struct{}{}
	}
	for _, f := range s.TrashedFiles {
		seen[f.ID] = struct{}{}
	}

	var added []types.File
	for _, f := range a.Files {
		if f.ID == "" {
			continue
		}
		if _, dup := seen[f.ID]; dup {
			continue
		}
		seen[f.ID] = struct{}{}
		added = append(added, f)
	}
	if len(added) == 0 {
		return s
	}

	s.DesktopFiles = append(slices.Clone(s.DesktopFiles), added...)
	return s
}

func (a UpdateDesktopFile) apply(_ *Reducer, s State) State {
	i := fileIndex(s.DesktopFiles, a.File.ID)
	if i < 0 {
		return s
	}

	s.DesktopFiles = slices.Clone(s.DesktopFiles)
	s.DesktopFiles[i] = a.File
	return s
}

func (CreateFolder) apply(r *Reducer, s State) State {
	folder := types.File{
		ID:   r.folderID(),
		Name: uniqueFolderName(s.DesktopFiles),
		Type: types.FolderType,
	}
	if fileIndex(s.DesktopFiles, folder.ID) >= 0 || fileIndex(s.TrashedFiles, folder.ID) >= 0 {
		return s
	}

	s.DesktopFiles = append(slices.Clone(s.DesktopFiles), folder)
	return s
}

// uniqueFolderName returns "New Folder", or "New Folder N" for the smallest free N >= 2
func uniqueFolderName(files []types.File) string {
	taken := make(map[string]struct{}, len(files))
	for _, f := range files {
		taken[f.Name] = struct{}{}
	}

	if _, ok := taken[NewFolderName]; !ok {
		return NewFolderName
	}
	for n := 2; ; n++ {
		name := fmt.Sprintf("%s %d", NewFolderName, n)
		if _, ok := taken[name]; !ok {
			return name
		}
	}
}

func (a DeleteFile) apply(_ *Reducer, s State) State {
	i := fileIndex(s.DesktopFiles, a.FileID)
	if i < 0 {
		return s
	}

	f := s.DesktopFiles[i]
	s.DesktopFiles = slices.Delete(slices.Clone(s.DesktopFiles), i, i+1)
	s.TrashedFiles = append(slices.Clone(s.TrashedFiles), f)
	return s
}

func (a RestoreFile) apply(_ *Reducer, s State) State {
	i := fileIndex(s.TrashedFiles, a.FileID)
	if i < 0 {
		return s
	}

	f := s.TrashedFiles[i]
	s.TrashedFiles = slices.Delete(slices.Clone(s.TrashedFiles), i, i+1)
	s.DesktopFiles = append(slices.Clone(s.DesktopFiles), f)
	return s
}

func (a PermanentlyDeleteFile) apply(_ *Reducer, s State) State {
	i := fileIndex(s.TrashedFiles, a.FileID)
	if i < 0 {
		return s
	}

	s.TrashedFiles = slices.Delete(slices.Clone(s.TrashedFiles), i, i+1)
	return s
}

func (EmptyTrash) apply(_ *Reducer, s State) State {
	if len(s.TrashedFiles) == 0 {
		return s
	}
	s.TrashedFiles = []types.File{}
	return s
}
