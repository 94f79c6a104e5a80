// Package staging copies source images into the store a workflow's image
// node reads from and hands back the bare filename the node expects.
package staging

import (
	"fmt"
	"path/filepath"

	"easel/internal/fileutil"
)

// Store names which service directory a template's image node reads.
type Store string

const (
	// StoreInput is the upload directory read by file-reference nodes.
	StoreInput Store = "input"
	// StoreOutput is the service's own output directory, read by nodes
	// that reference prior results.
	StoreOutput Store = "output"
)

// ParseStore validates a configured store name.
func ParseStore(s string) (Store, error) {
	switch Store(s) {
	case StoreInput, StoreOutput:
		return Store(s), nil
	default:
		return "", fmt.Errorf("unknown staging store %q", s)
	}
}

// Stager places assets into the service's stores.
type Stager struct {
	InputDir  string
	OutputDir string
}

// Stage copies src into the given store and returns the bare filename to
// embed in the workflow payload. Copying is skipped when src already is the
// staged file, which happens on every chain step after the first.
func (s Stager) Stage(src string, store Store) (string, error) {
	dir := s.InputDir
	if store == StoreOutput {
		dir = s.OutputDir
	}
	name := filepath.Base(src)
	dst := filepath.Join(dir, name)
	if fileutil.SamePath(src, dst) {
		return name, nil
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		return "", fmt.Errorf("stage %s into %s store: %w", name, store, err)
	}
	return name, nil
}
