package queue

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/udevgo/udevgo/udev"
)

func testContext(t *testing.T) *udev.Context {
	t.Helper()
	ctx := udev.NewContext()
	ctx.RunRoot = t.TempDir()
	return ctx
}

func TestIsEmptyWithoutQueueFile(t *testing.T) {
	ctx := testContext(t)
	empty, err := IsEmpty(ctx)
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if !empty {
		t.Fatalf("expected IsEmpty to report true without a queue marker")
	}
}

func TestIsEmptyWithQueueFile(t *testing.T) {
	ctx := testContext(t)
	dir := filepath.Join(ctx.RunRoot, "udev")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "queue"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	empty, err := IsEmpty(ctx)
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if empty {
		t.Fatalf("expected IsEmpty to report false when the queue marker is present")
	}
}

type fakeChecker struct {
	state string
	err   error
}

func (f fakeChecker) ActiveState(ctx context.Context, unit string) (string, error) {
	return f.state, f.err
}

func TestIsActiveFromControlFile(t *testing.T) {
	ctx := testContext(t)
	dir := filepath.Join(ctx.RunRoot, "udev")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "control"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	active, err := IsActive(context.Background(), ctx, nil)
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if !active {
		t.Fatalf("expected IsActive to report true when the control marker is present")
	}
}

func TestIsActiveFallsBackToSystemdCheck(t *testing.T) {
	ctx := testContext(t)

	active, err := IsActive(context.Background(), ctx, fakeChecker{state: "active"})
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if !active {
		t.Fatalf("expected the systemd fallback to report active")
	}

	active, err = IsActive(context.Background(), ctx, fakeChecker{state: "inactive"})
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if active {
		t.Fatalf("expected the systemd fallback to report inactive")
	}
}

func TestIsActiveWithNoControlFileAndNoChecker(t *testing.T) {
	ctx := testContext(t)
	active, err := IsActive(context.Background(), ctx, nil)
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if active {
		t.Fatalf("expected IsActive to report false with no control marker and no checker")
	}
}
