package hwdb_test

import (
	"testing"

	"github.com/udevgo/udevgo/udev/hwdb"
	"github.com/udevgo/udevgo/udev/hwdb/hwdbtest"
)

func buildReader(t *testing.T, b *hwdbtest.Builder) *hwdb.Reader {
	t.Helper()
	r, err := hwdb.NewReader(b.Bytes(), "")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	return r
}

func TestQueryExactVendorMatch(t *testing.T) {
	b := hwdbtest.NewBuilder().Add("pci:v00008086*", hwdbtest.Property{Key: "ID_VENDOR_FROM_DATABASE", Value: "Intel Corporation"})
	r := buildReader(t, b)

	props, err := r.Query("pci:v00008086d00001C2Dsv00001028sd0000060Ebc01sc06i01")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(props) != 1 || props[0].Key != "ID_VENDOR_FROM_DATABASE" || props[0].Value != "Intel Corporation" {
		t.Fatalf("props = %+v, want one ID_VENDOR_FROM_DATABASE entry", props)
	}
}

func TestQueryVendorAndProduct(t *testing.T) {
	b := hwdbtest.NewBuilder().
		Add("usb:v046Dp*", hwdbtest.Property{Key: "ID_VENDOR_FROM_DATABASE", Value: "Logitech, Inc."}).
		Add("usb:v046Dp0825*", hwdbtest.Property{Key: "ID_MODEL_FROM_DATABASE", Value: "Webcam C270"})
	r := buildReader(t, b)

	props, err := r.Query("usb:v046Dp0825d0101dc00dsc00dp00ic0Eisc01ip00in00")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	got := map[string]string{}
	for _, p := range props {
		got[p.Key] = p.Value
	}
	if got["ID_VENDOR_FROM_DATABASE"] != "Logitech, Inc." {
		t.Fatalf("missing or wrong vendor: %+v", got)
	}
	if got["ID_MODEL_FROM_DATABASE"] != "Webcam C270" {
		t.Fatalf("missing or wrong model: %+v", got)
	}
}

func TestQueryClassWildcard(t *testing.T) {
	b := hwdbtest.NewBuilder().Add("usb:v*p*d*dc00dsc01dp01*", hwdbtest.Property{Key: "ID_USB_CLASS_FROM_DATABASE", Value: "Audio"})
	r := buildReader(t, b)

	props, err := r.Query("usb:v1234p5678d0100dc00dsc01dp01ic01isc01ip00in00")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(props) != 1 || props[0].Value != "Audio" {
		t.Fatalf("props = %+v, want one Audio entry", props)
	}
}

func TestQueryTrailingWildcard(t *testing.T) {
	b := hwdbtest.NewBuilder().Add("acpi:PNP0303*", hwdbtest.Property{Key: "ID_INPUT_KEYBOARD", Value: "1"})
	r := buildReader(t, b)

	props, err := r.Query("acpi:PNP0303")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(props) != 1 || props[0].Key != "ID_INPUT_KEYBOARD" {
		t.Fatalf("props = %+v", props)
	}
}

func TestQueryNoMatch(t *testing.T) {
	b := hwdbtest.NewBuilder().Add("pci:v00008086*", hwdbtest.Property{Key: "ID_VENDOR_FROM_DATABASE", Value: "Intel Corporation"})
	r := buildReader(t, b)

	props, err := r.Query("pci:v000010DEd00001C03sv00001458sd00003FB1bc03sc00i00")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(props) != 0 {
		t.Fatalf("props = %+v, want none", props)
	}
}

func TestQueryPatternWithoutValuesYieldsNothing(t *testing.T) {
	b := hwdbtest.NewBuilder()
	// A pattern that matches the query but has no values attached
	// contributes no properties.
	b.Add("test:novendorspace*")
	r := buildReader(t, b)

	props, err := r.Query("test:novendorspace1234")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(props) != 0 {
		t.Fatalf("props = %+v, want none (no values attached)", props)
	}
}

func TestParseHeaderRejectsBadSignature(t *testing.T) {
	buf := make([]byte, hwdb.HeaderSize)
	copy(buf, "NOTHWDB!")
	if _, err := hwdb.ParseHeader(buf); err == nil {
		t.Fatalf("expected error for bad signature")
	}
}

func TestParseHeaderRejectsShortBuffer(t *testing.T) {
	if _, err := hwdb.ParseHeader([]byte("short")); err == nil {
		t.Fatalf("expected error for short buffer")
	}
}
