// Package artifacts locates the files a finished job produced and relocates
// the chosen one into the pipeline's output tree.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"easel/internal/comfy"
	"easel/internal/fileutil"
	"easel/internal/services"
)

// Resolver probes the service's output store for produced files.
type Resolver struct {
	// OutputDir is the service's canonical output store, probed first.
	OutputDir string
	// WorkDir is a fallback for services that report bare filenames
	// relative to their working directory. Empty means current directory.
	WorkDir string
}

// Candidates maps history image refs to paths that actually exist on disk,
// preserving report order. Refs with no file behind them are dropped.
func (r Resolver) Candidates(refs []comfy.ImageRef) []string {
	var paths []string
	for _, ref := range refs {
		primary := filepath.Join(r.OutputDir, ref.Subfolder, ref.Filename)
		if fileExists(primary) {
			paths = append(paths, primary)
			continue
		}
		fallback := filepath.Join(r.WorkDir, ref.Filename)
		if fileExists(fallback) {
			paths = append(paths, fallback)
		}
	}
	return paths
}

// Newest picks the most recently modified path. The service finishes
// artifacts roughly in modification order, so latest mtime is the best
// available signal for "the" output of the job just polled.
func Newest(paths []string) (string, bool) {
	var (
		best     string
		bestTime time.Time
	)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if best == "" || info.ModTime().After(bestTime) {
			best = p
			bestTime = info.ModTime()
		}
	}
	return best, best != ""
}

// Resolve combines probing and selection. A job whose history lists no
// resolvable file yields ErrNoOutput so the caller can abort the chain
// without treating it as a transport failure.
func (r Resolver) Resolve(refs []comfy.ImageRef) (string, error) {
	candidates := r.Candidates(refs)
	selected, ok := Newest(candidates)
	if !ok {
		return "", services.Wrap(services.ErrNoOutput, "resolve", "probe",
			fmt.Sprintf("no produced file found among %d reported images", len(refs)), nil)
	}
	return selected, nil
}

// Relocate moves the selected artifact to its final path, creating parent
// directories as needed.
func Relocate(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return services.Wrap(services.ErrRelocation, "relocate", "mkdir", "create destination directory", err)
	}
	if err := fileutil.MoveFile(src, dst); err != nil {
		return services.Wrap(services.ErrRelocation, "relocate", "move",
			fmt.Sprintf("move %s to %s", src, dst), err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
