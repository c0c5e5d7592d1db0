package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/vcxscore/core/extract"
	"github.com/huangsam/vcxscore/schema"
	"github.com/spf13/afero"
)

// errFound stops the folder walk once a match is found.
var errFound = errors.New("found")

// FSWorkspace implements the Workspace interface on top of an afero filesystem.
type FSWorkspace struct {
	Fs afero.Fs
}

var _ Workspace = &FSWorkspace{} // Compile-time check

// NewFSWorkspace creates a workspace over fs.
func NewFSWorkspace(fs afero.Fs) *FSWorkspace {
	return &FSWorkspace{Fs: fs}
}

// NewOSWorkspace creates a workspace over the local disk.
func NewOSWorkspace() *FSWorkspace {
	return NewFSWorkspace(afero.NewOsFs())
}

// Locate implements the Workspace interface.
func (w *FSWorkspace) Locate(root, name string) (string, error) {
	root = filepath.Clean(root)
	var match string
	err := afero.Walk(w.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() || path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if strings.Contains(filepath.ToSlash(rel), name) {
			match = path
			return errFound
		}
		return nil
	})
	if errors.Is(err, errFound) {
		return match, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return "", fmt.Errorf("%w: %q below %s", schema.ErrFolderNotFound, name, root)
}

// ListXML implements the Workspace interface.
func (w *FSWorkspace) ListXML(folder string) ([]string, error) {
	files, err := afero.Glob(w.Fs, filepath.Join(folder, "*.xml"))
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// OpenXML implements the Workspace interface.
func (w *FSWorkspace) OpenXML(path string) (extract.Document, error) {
	return extract.ParseFile(w.Fs, path)
}
