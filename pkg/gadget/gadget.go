// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

// Package gadget bootstraps a composite USB HID gadget (one boot-protocol
// keyboard function, two relative-mouse functions) via configfs and binds
// it to an available UDC.
package gadget

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

const (
	defaultConfigFSRoot = "/sys/kernel/config"
	defaultUDCPath      = "/sys/class/udc"
)

// Bootstrapper creates and binds gadgets under a configfs root. The root
// is a field, not a package constant, so tests can point it at a
// throwaway directory instead of the real /sys/kernel/config.
type Bootstrapper struct {
	ConfigFSRoot string
	UDCPath      string
}

// NewBootstrapper returns a Bootstrapper pointed at the real configfs and
// UDC sysfs paths.
func NewBootstrapper() *Bootstrapper {
	return &Bootstrapper{ConfigFSRoot: defaultConfigFSRoot, UDCPath: defaultUDCPath}
}

func (b *Bootstrapper) gadgetPath() string {
	return filepath.Join(b.ConfigFSRoot, "usb_gadget")
}

// Bootstrap creates the gadget directory tree if it does not already
// exist, then binds it to an available UDC. It is idempotent: calling it
// again against an already-created, already-bound gadget is a no-op.
func (b *Bootstrapper) Bootstrap(config *Config) error {
	if config == nil || config.Name == "" {
		return ErrInvalidConfig
	}
	cfg := config.withDefaults()

	if err := b.ensureConfigFSMounted(); err != nil {
		return err
	}

	gadgetDir := filepath.Join(b.gadgetPath(), cfg.Name)
	if _, err := os.Stat(gadgetDir); os.IsNotExist(err) {
		if err := b.create(gadgetDir, cfg); err != nil {
			os.RemoveAll(gadgetDir)
			return err
		}
	}

	return b.bind(gadgetDir)
}

// Unbind detaches the gadget from its UDC without removing it from
// configfs, so a later Bootstrap call can rebind it.
func (b *Bootstrapper) Unbind(name string) error {
	gadgetDir := filepath.Join(b.gadgetPath(), name)
	if _, err := os.Stat(gadgetDir); os.IsNotExist(err) {
		return ErrGadgetNotFound
	}
	return writeFile(filepath.Join(gadgetDir, "UDC"), "")
}

func (b *Bootstrapper) create(gadgetDir string, cfg *Config) error {
	if err := os.MkdirAll(gadgetDir, 0755); err != nil {
		if os.IsPermission(err) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("create gadget directory: %w", err)
	}

	if err := writeAttrs(gadgetDir, map[string]string{
		"bcdUSB":    "0x0200",
		"idVendor":  cfg.VendorID,
		"idProduct": cfg.ProductID,
		"bcdDevice": "0x0100",
	}); err != nil {
		return fmt.Errorf("write gadget attributes: %w", err)
	}

	stringsDir := filepath.Join(gadgetDir, "strings/0x409")
	if err := os.MkdirAll(stringsDir, 0755); err != nil {
		return fmt.Errorf("create string descriptors: %w", err)
	}
	if err := writeAttrs(stringsDir, map[string]string{
		"serialnumber": cfg.SerialNumber,
		"manufacturer": cfg.Manufacturer,
		"product":      cfg.Product,
	}); err != nil {
		return fmt.Errorf("write string descriptors: %w", err)
	}

	configDir := filepath.Join(gadgetDir, "configs/c.1")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("create configuration directory: %w", err)
	}
	if err := writeFile(filepath.Join(configDir, "MaxPower"), fmt.Sprintf("%d", cfg.MaxPower)); err != nil {
		return fmt.Errorf("write MaxPower: %w", err)
	}

	configStringsDir := filepath.Join(configDir, "strings/0x409")
	if err := os.MkdirAll(configStringsDir, 0755); err != nil {
		return fmt.Errorf("create configuration string descriptors: %w", err)
	}
	if err := writeFile(filepath.Join(configStringsDir, "configuration"), "Config 1: HID bridge"); err != nil {
		return fmt.Errorf("write configuration string: %w", err)
	}

	if err := createHIDFunction(gadgetDir, configDir, "hid.usb0", keyboardFunctionAttrs(), keyboardReportDescriptor); err != nil {
		return fmt.Errorf("create keyboard function: %w", err)
	}
	if err := createHIDFunction(gadgetDir, configDir, "hid.usb1", mouseFunctionAttrs(), mouseReportDescriptor); err != nil {
		return fmt.Errorf("create mouse function 1: %w", err)
	}
	if err := createHIDFunction(gadgetDir, configDir, "hid.usb2", mouseFunctionAttrs(), mouseReportDescriptor); err != nil {
		return fmt.Errorf("create mouse function 2: %w", err)
	}

	return nil
}

func keyboardFunctionAttrs() map[string]string {
	return map[string]string{
		"protocol":        "1",
		"subclass":        "1",
		"report_length":   "8",
		"no_out_endpoint": "0",
	}
}

func mouseFunctionAttrs() map[string]string {
	return map[string]string{
		"protocol":        "2",
		"subclass":        "0",
		"report_length":   "8",
		"no_out_endpoint": "1",
	}
}

func createHIDFunction(gadgetDir, configDir, fn string, attrs map[string]string, reportDesc []byte) error {
	functionDir := filepath.Join(gadgetDir, "functions", fn)
	if err := os.MkdirAll(functionDir, 0755); err != nil {
		return fmt.Errorf("create function directory: %w", err)
	}
	if err := writeAttrs(functionDir, attrs); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(functionDir, "report_desc"), reportDesc, 0644); err != nil {
		return fmt.Errorf("write report descriptor: %w", err)
	}

	linkPath := filepath.Join(configDir, fn)
	if _, err := os.Lstat(linkPath); err == nil {
		return nil // already linked
	}
	if err := os.Symlink(functionDir, linkPath); err != nil {
		return fmt.Errorf("link function to configuration: %w", err)
	}
	return nil
}

func (b *Bootstrapper) bind(gadgetDir string) error {
	current, err := readFile(filepath.Join(gadgetDir, "UDC"))
	if err == nil && strings.TrimSpace(current) != "" {
		return nil // already bound
	}

	udc, err := b.findAvailableUDC()
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(gadgetDir, "UDC"), udc)
}

func (b *Bootstrapper) findAvailableUDC() (string, error) {
	entries, err := os.ReadDir(b.UDCPath)
	if err != nil {
		return "", ErrUDCNotFound
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		state, err := readFile(filepath.Join(b.UDCPath, entry.Name(), "state"))
		if err == nil && strings.TrimSpace(state) == "not attached" {
			return entry.Name(), nil
		}
	}
	// Fall back to the first entry: some UDC drivers never report a
	// "state" file before the first bind.
	for _, entry := range entries {
		if entry.IsDir() {
			return entry.Name(), nil
		}
	}
	return "", ErrUDCNotFound
}

func (b *Bootstrapper) ensureConfigFSMounted() error {
	if _, err := os.Stat(b.ConfigFSRoot); os.IsNotExist(err) {
		return ErrConfigFSNotMounted
	}
	if _, err := os.Stat(b.gadgetPath()); os.IsNotExist(err) {
		return ErrConfigFSNotMounted
	}
	return nil
}

func writeAttrs(dir string, attrs map[string]string) error {
	for attr, value := range attrs {
		if err := writeFile(filepath.Join(dir, attr), value); err != nil {
			return fmt.Errorf("write %s: %w", attr, err)
		}
	}
	return nil
}

func writeFile(path, content string) error {
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		if os.IsPermission(err) {
			return ErrPermissionDenied
		}
		if pathErr, ok := err.(*os.PathError); ok && pathErr.Err == syscall.ENOENT {
			return ErrGadgetNotFound
		}
	}
	return err
}

func readFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
