package udevwatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestControlWatcherDetectsAppearanceAndDisappearance(t *testing.T) {
	runRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(runRoot, "udev"), 0o755); err != nil {
		t.Fatal(err)
	}

	events := make(chan bool, 4)
	w := NewControlWatcher(runRoot, nil)
	if err := w.Start(context.Background(), func(active bool) { events <- active }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	controlPath := filepath.Join(runRoot, "udev", "control")
	if err := os.WriteFile(controlPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case active := <-events:
		if !active {
			t.Fatalf("expected the first event to report appearance")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for appearance event")
	}

	if err := os.Remove(controlPath); err != nil {
		t.Fatal(err)
	}
	select {
	case active := <-events:
		if active {
			t.Fatalf("expected the second event to report disappearance")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for disappearance event")
	}
}

func TestHwdbWatcherDebouncesReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hwdb.bin")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloads := make(chan struct{}, 4)
	w := NewHwdbWatcher(path, 50*time.Millisecond, nil)
	if err := w.Start(context.Background(), func() { reloads <- struct{}{} }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("v2"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-reloads:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a debounced reload signal")
	}

	select {
	case <-reloads:
		t.Fatal("expected only one reload signal for a burst of writes")
	case <-time.After(200 * time.Millisecond):
	}
}
