package enumerate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/udevgo/udevgo/udev"
)

// fakeSysfs builds a minimal tree under t.TempDir():
//
//	<root>/devices/usb1/uevent          (subsystem usb, DEVTYPE usb_device, BUSNUM 001)
//	<root>/devices/usb1/1-1/uevent      (subsystem usb, child of usb1)
//	<root>/class/usb/usb1 -> ../../devices/usb1
//	<root>/class/usb/1-1  -> ../../devices/usb1/1-1
func fakeSysfs(t *testing.T) (root string, ctx *udev.Context) {
	t.Helper()
	root = t.TempDir()

	usb1 := filepath.Join(root, "devices", "usb1")
	child := filepath.Join(usb1, "1-1")
	for _, dir := range []string{usb1, child} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(usb1, "uevent"), []byte("DEVTYPE=usb_device\nBUSNUM=001\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(child, "uevent"), []byte("DEVTYPE=usb_interface\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	classDir := filepath.Join(root, "class", "usb")
	if err := os.MkdirAll(classDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, target := range map[string]string{"usb1": usb1, "1-1": child} {
		rel, err := filepath.Rel(classDir, target)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Symlink(rel, filepath.Join(classDir, name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Symlink(filepath.Join("..", "..", "class", "usb"), filepath.Join(usb1, "subsystem")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join("..", "..", "..", "class", "usb"), filepath.Join(child, "subsystem")); err != nil {
		t.Fatal(err)
	}

	ctx = udev.NewContext()
	ctx.SysfsRoot = root
	ctx.RunRoot = filepath.Join(root, "run")
	return root, ctx
}

func TestScanDevicesFullWalkFindsBoth(t *testing.T) {
	_, ctx := fakeSysfs(t)
	e := New(ctx)
	if err := e.ScanDevices(); err != nil {
		t.Fatalf("ScanDevices: %v", err)
	}
	if len(e.Syspaths()) != 2 {
		t.Fatalf("Syspaths() = %v, want 2 entries", e.Syspaths())
	}
}

func TestScanDevicesSubsystemFilter(t *testing.T) {
	root, ctx := fakeSysfs(t)
	e := New(ctx)
	e.AddMatchSubsystem("block")
	if err := e.ScanDevices(); err != nil {
		t.Fatalf("ScanDevices: %v", err)
	}
	if len(e.Syspaths()) != 0 {
		t.Fatalf("expected no matches for subsystem=block, got %v", e.Syspaths())
	}

	e2 := New(ctx)
	e2.AddMatchSubsystem("usb")
	if err := e2.ScanDevices(); err != nil {
		t.Fatalf("ScanDevices: %v", err)
	}
	if len(e2.Syspaths()) != 2 {
		t.Fatalf("expected 2 matches for subsystem=usb, got %v", e2.Syspaths())
	}
	_ = root
}

func TestScanDevicesSysnameFilter(t *testing.T) {
	_, ctx := fakeSysfs(t)
	e := New(ctx)
	e.AddMatchSysname("usb*")
	if err := e.ScanDevices(); err != nil {
		t.Fatalf("ScanDevices: %v", err)
	}
	if len(e.Syspaths()) != 1 || filepath.Base(e.Syspaths()[0]) != "usb1" {
		t.Fatalf("Syspaths() = %v, want only usb1", e.Syspaths())
	}
}

func TestScanDevicesParentFilter(t *testing.T) {
	root, ctx := fakeSysfs(t)
	parent, err := udev.NewFromSyspath(ctx, filepath.Join(root, "devices", "usb1"))
	if err != nil {
		t.Fatalf("NewFromSyspath: %v", err)
	}

	e := New(ctx)
	e.AddMatchParent(parent)
	if err := e.ScanDevices(); err != nil {
		t.Fatalf("ScanDevices: %v", err)
	}
	if len(e.Syspaths()) != 2 {
		t.Fatalf("expected parent+child under usb1, got %v", e.Syspaths())
	}
}

func TestScanDevicesPropertyFilter(t *testing.T) {
	_, ctx := fakeSysfs(t)
	e := New(ctx)
	e.AddMatchProperty("BUSNUM", "001")
	if err := e.ScanDevices(); err != nil {
		t.Fatalf("ScanDevices: %v", err)
	}
	if len(e.Syspaths()) != 1 || filepath.Base(e.Syspaths()[0]) != "usb1" {
		t.Fatalf("Syspaths() = %v, want only usb1", e.Syspaths())
	}
}

func TestAddSyspathValidatesAndAppends(t *testing.T) {
	root, ctx := fakeSysfs(t)
	e := New(ctx)
	if err := e.AddSyspath(filepath.Join(root, "devices", "usb1")); err != nil {
		t.Fatalf("AddSyspath: %v", err)
	}
	if len(e.Syspaths()) != 1 {
		t.Fatalf("Syspaths() = %v", e.Syspaths())
	}
	if err := e.AddSyspath(filepath.Join(root, "devices", "does-not-exist")); err == nil {
		t.Fatalf("expected AddSyspath to reject a missing syspath")
	}
}

func TestEnumeratorFrontNext(t *testing.T) {
	_, ctx := fakeSysfs(t)
	e := New(ctx)
	if err := e.ScanDevices(); err != nil {
		t.Fatalf("ScanDevices: %v", err)
	}
	first := e.Front()
	if first == "" {
		t.Fatalf("Front() returned empty on a non-empty result list")
	}
	count := 1
	for e.Next() != "" {
		count++
	}
	if count != len(e.Syspaths()) {
		t.Fatalf("iterated %d entries, want %d", count, len(e.Syspaths()))
	}
}

func TestScanSubsystemsVisitsModuleAndBus(t *testing.T) {
	root, ctx := fakeSysfs(t)
	if err := os.MkdirAll(filepath.Join(root, "module", "usbcore"), 0o755); err != nil {
		t.Fatal(err)
	}
	driversDir := filepath.Join(root, "bus", "pci", "drivers", "ahci")
	if err := os.MkdirAll(driversDir, 0o755); err != nil {
		t.Fatal(err)
	}

	e := New(ctx)
	if err := e.ScanSubsystems(); err != nil {
		t.Fatalf("ScanSubsystems: %v", err)
	}

	var sawModule, sawBus, sawDriver bool
	for _, s := range e.Syspaths() {
		switch s {
		case filepath.Join(root, "module", "usbcore"):
			sawModule = true
		case filepath.Join(root, "bus", "pci"):
			sawBus = true
		case driversDir:
			sawDriver = true
		}
	}
	if !sawModule || !sawBus || !sawDriver {
		t.Fatalf("Syspaths() = %v, missing expected entries", e.Syspaths())
	}
}

func TestScanSubsystemsFiltersBySubsystem(t *testing.T) {
	root, ctx := fakeSysfs(t)
	if err := os.MkdirAll(filepath.Join(root, "bus", "pci"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "bus", "usb"), 0o755); err != nil {
		t.Fatal(err)
	}

	e := New(ctx)
	e.AddMatchSubsystem("usb")
	if err := e.ScanSubsystems(); err != nil {
		t.Fatalf("ScanSubsystems: %v", err)
	}
	for _, s := range e.Syspaths() {
		if filepath.Base(s) == "pci" {
			t.Fatalf("expected pci excluded by subsystem filter, got %v", e.Syspaths())
		}
	}
}
