package runlock

import "testing"

func TestAcquireRelease(t *testing.T) {
	dir := t.TempDir()

	first := New(dir)
	if err := first.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	second := New(dir)
	if err := second.Acquire(); err == nil {
		t.Fatal("second Acquire succeeded while lock held")
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := second.Acquire(); err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = second.Release()
}
