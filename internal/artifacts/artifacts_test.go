package artifacts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"easel/internal/comfy"
	"easel/internal/services"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCandidates(t *testing.T) {
	root := t.TempDir()
	r := Resolver{OutputDir: filepath.Join(root, "output"), WorkDir: root}

	writeFile(t, filepath.Join(root, "output", "sub", "a.png"))
	writeFile(t, filepath.Join(root, "b.png"))

	refs := []comfy.ImageRef{
		{Filename: "a.png", Subfolder: "sub"},
		{Filename: "b.png"},
		{Filename: "missing.png"},
	}
	got := r.Candidates(refs)
	want := []string{
		filepath.Join(root, "output", "sub", "a.png"),
		filepath.Join(root, "b.png"),
	}
	if len(got) != len(want) {
		t.Fatalf("candidates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewestPrefersLatestModTime(t *testing.T) {
	root := t.TempDir()
	older := filepath.Join(root, "older.png")
	newer := filepath.Join(root, "newer.png")
	writeFile(t, older)
	writeFile(t, newer)

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, ok := Newest([]string{older, newer})
	if !ok || got != newer {
		t.Fatalf("Newest = %q, %v; want %q", got, ok, newer)
	}
}

func TestResolveNoOutput(t *testing.T) {
	r := Resolver{OutputDir: t.TempDir()}
	_, err := r.Resolve([]comfy.ImageRef{{Filename: "ghost.png"}})
	if !errors.Is(err, services.ErrNoOutput) {
		t.Fatalf("expected no-output error, got %v", err)
	}
}

func TestRelocate(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "work", "tmp_00001_.png")
	dst := filepath.Join(root, "final", "korea", "flux_korea_edit_1.png")
	writeFile(t, src)

	if err := Relocate(src, dst); err != nil {
		t.Fatalf("Relocate: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source still present: %v", err)
	}
}
