package monitor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/udevgo/udevgo/udev"
	"github.com/udevgo/udevgo/udev/netlink"
)

func testContext(t *testing.T) *udev.Context {
	t.Helper()
	ctx := udev.NewContext()
	ctx.RunRoot = t.TempDir()
	return ctx
}

func TestNewUdevGroupDisarmedWithoutControlFile(t *testing.T) {
	ctx := testContext(t)
	m := New(ctx, GroupUdev)
	if !m.Disarmed() {
		t.Fatalf("expected a disarmed monitor when <run>/udev/control is absent")
	}
	if err := m.Bind(); err != nil {
		t.Fatalf("Bind on a disarmed monitor should succeed as a no-op: %v", err)
	}
	if _, err := m.Receive(); err == nil {
		t.Fatalf("expected Receive on a disarmed monitor to fail")
	}
}

func TestNewUdevGroupArmedWithControlFile(t *testing.T) {
	ctx := testContext(t)
	controlDir := filepath.Join(ctx.RunRoot, "udev")
	if err := os.MkdirAll(controlDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(controlDir, "control"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(ctx, GroupUdev)
	if m.Disarmed() {
		t.Fatalf("expected an armed monitor when <run>/udev/control is present")
	}
}

func TestNewKernelGroupNeverDisarmed(t *testing.T) {
	ctx := testContext(t)
	m := New(ctx, GroupKernel)
	if m.Disarmed() {
		t.Fatalf("GroupKernel should never be disarmed regardless of <run>/udev/control")
	}
}

func TestGroupNetlinkGroupBit(t *testing.T) {
	cases := map[Group]uint32{
		GroupNone:   0,
		GroupKernel: 1,
		GroupUdev:   2,
	}
	for g, want := range cases {
		if got := g.netlinkGroupBit(); got != want {
			t.Fatalf("%v.netlinkGroupBit() = %d, want %d", g, got, want)
		}
	}
}

func TestMatchesEmptyFiltersAcceptsEverything(t *testing.T) {
	ctx := testContext(t)
	d := udev.New(ctx)
	d.Subsystem = "usb"
	if !Matches(d, nil, nil) {
		t.Fatalf("expected an empty filter set to match everything")
	}
}

func TestMatchesSubsystemAndDevtype(t *testing.T) {
	ctx := testContext(t)
	d := udev.New(ctx)
	d.Subsystem = "usb"
	d.Devtype = "usb_device"

	subsystems := []netlink.SubsystemFilter{{Subsystem: "usb", Devtype: "usb_interface"}}
	if Matches(d, subsystems, nil) {
		t.Fatalf("expected a devtype mismatch to fail the match")
	}

	subsystems = []netlink.SubsystemFilter{{Subsystem: "usb"}}
	if !Matches(d, subsystems, nil) {
		t.Fatalf("expected a subsystem-only filter to match any devtype")
	}

	subsystems = []netlink.SubsystemFilter{{Subsystem: "block"}}
	if Matches(d, subsystems, nil) {
		t.Fatalf("expected a subsystem mismatch to fail the match")
	}
}

func TestMatchesRequiresAtLeastOneTag(t *testing.T) {
	ctx := testContext(t)
	d := udev.New(ctx)
	d.AddTag("seat")
	d.AddTag("uaccess")

	if !Matches(d, nil, []string{"seat"}) {
		t.Fatalf("expected a device carrying the filter tag to match")
	}
	if !Matches(d, nil, []string{"seat", "systemd"}) {
		t.Fatalf("expected a device carrying at least one filter tag to match")
	}
	if Matches(d, nil, []string{"systemd"}) {
		t.Fatalf("expected a device carrying none of the filter tags to fail the match")
	}
}

func TestAddFiltersAccumulate(t *testing.T) {
	ctx := testContext(t)
	m := New(ctx, GroupNone)
	m.AddSubsystemFilter("block")
	m.AddSubsystemDevtypeFilter("usb", "usb_device")
	m.AddTagFilter("seat")

	tags, subsystems := m.filterSnapshot()
	if len(tags) != 1 || tags[0] != "seat" {
		t.Fatalf("tags = %v", tags)
	}
	if len(subsystems) != 2 {
		t.Fatalf("subsystems = %v", subsystems)
	}
}

func TestSetTrustedSender(t *testing.T) {
	ctx := testContext(t)
	m := New(ctx, GroupNone)
	if m.hasTrustedSender {
		t.Fatalf("expected no trusted sender configured by default")
	}
	m.SetTrustedSender(42)
	if !m.hasTrustedSender || m.trustedSenderPID != 42 {
		t.Fatalf("SetTrustedSender did not take effect")
	}
}
