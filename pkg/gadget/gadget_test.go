// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package gadget

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestBootstrapper(t *testing.T) *Bootstrapper {
	t.Helper()
	root := t.TempDir()

	if err := os.MkdirAll(filepath.Join(root, "usb_gadget"), 0755); err != nil {
		t.Fatalf("setup configfs root: %v", err)
	}

	udcDir := filepath.Join(root, "udc", "fe980000.usb")
	if err := os.MkdirAll(udcDir, 0755); err != nil {
		t.Fatalf("setup UDC: %v", err)
	}
	if err := os.WriteFile(filepath.Join(udcDir, "state"), []byte("not attached"), 0644); err != nil {
		t.Fatalf("setup UDC state: %v", err)
	}

	return &Bootstrapper{ConfigFSRoot: root, UDCPath: filepath.Join(root, "udc")}
}

func TestBootstrapCreatesAndBindsGadget(t *testing.T) {
	b := newTestBootstrapper(t)
	cfg := &Config{Name: "hidproxy", Manufacturer: "test", Product: "test-bridge", SerialNumber: "0001"}

	if err := b.Bootstrap(cfg); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	gadgetDir := filepath.Join(b.gadgetPath(), "hidproxy")
	for _, fn := range []string{"hid.usb0", "hid.usb1", "hid.usb2"} {
		link := filepath.Join(gadgetDir, "configs/c.1", fn)
		if _, err := os.Lstat(link); err != nil {
			t.Errorf("expected function link %s: %v", fn, err)
		}
	}

	udc, err := readFile(filepath.Join(gadgetDir, "UDC"))
	if err != nil || udc == "" {
		t.Fatalf("expected gadget to be bound to a UDC, got (%q, %v)", udc, err)
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	b := newTestBootstrapper(t)
	cfg := &Config{Name: "hidproxy"}

	if err := b.Bootstrap(cfg); err != nil {
		t.Fatalf("first Bootstrap: %v", err)
	}
	if err := b.Bootstrap(cfg); err != nil {
		t.Fatalf("second Bootstrap should be a no-op, got: %v", err)
	}
}

func TestBootstrapRejectsEmptyName(t *testing.T) {
	b := newTestBootstrapper(t)
	if err := b.Bootstrap(&Config{}); err != ErrInvalidConfig {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestBootstrapRequiresConfigFS(t *testing.T) {
	b := &Bootstrapper{ConfigFSRoot: t.TempDir() + "/missing", UDCPath: "/dev/null"}
	if err := b.Bootstrap(&Config{Name: "hidproxy"}); err != ErrConfigFSNotMounted {
		t.Fatalf("expected ErrConfigFSNotMounted, got %v", err)
	}
}

func TestUnbindClearsUDC(t *testing.T) {
	b := newTestBootstrapper(t)
	cfg := &Config{Name: "hidproxy"}
	if err := b.Bootstrap(cfg); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	if err := b.Unbind("hidproxy"); err != nil {
		t.Fatalf("Unbind: %v", err)
	}

	udc, err := readFile(filepath.Join(b.gadgetPath(), "hidproxy", "UDC"))
	if err != nil {
		t.Fatalf("read UDC after unbind: %v", err)
	}
	if udc != "" {
		t.Fatalf("expected empty UDC after unbind, got %q", udc)
	}
}
