// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

// Package evdev opens Linux input character devices, reads their raw kernel
// event stream, and performs exclusive capture via EVIOCGRAB.
package evdev

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"
)

// eventSize is sizeof(struct input_event) on a 64-bit Linux target: two
// 8-byte timeval fields, a uint16 type, a uint16 code, and an int32 value.
const eventSize = 24

// InputEvent is one decoded entry from the kernel's input event stream.
type InputEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// Device is an open, possibly exclusively-captured input device.
type Device struct {
	path string
	file *os.File
}

// Open opens devnode for reading. It does not grab the device; call Grab
// separately once the session is ready to capture exclusively.
func Open(devnode string) (*Device, error) {
	if !IsInputDevice(devnode) {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, devnode)
	}

	f, err := os.OpenFile(devnode, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceNotFound, err)
	}

	return &Device{path: devnode, file: f}, nil
}

// Path returns the device node path this Device was opened from.
func (d *Device) Path() string {
	return d.path
}

// Name reads the kernel-reported device name via EVIOCGNAME.
func (d *Device) Name() (string, error) {
	const maxNameSize = 256
	buf := make([]byte, maxNameSize)

	if err := ioctl(int(d.file.Fd()), eviocgname(maxNameSize), uintptr(unsafe.Pointer(&buf[0]))); err != nil {
		return "", fmt.Errorf("%w: EVIOCGNAME: %w", ErrReadFailed, err)
	}

	if idx := bytes.IndexByte(buf, 0); idx >= 0 {
		buf = buf[:idx]
	}
	return string(buf), nil
}

// Grab requests exclusive capture of the device (EVIOCGRAB). While grabbed,
// no other process on the host (console, window system) observes this
// device's events.
func (d *Device) Grab() error {
	var enable uintptr = 1
	if err := ioctl(int(d.file.Fd()), eviocgrab, enable); err != nil {
		return fmt.Errorf("%w: %w", ErrGrabFailed, err)
	}
	return nil
}

// Release relinquishes exclusive capture. It is also implicitly released by
// the kernel when the file descriptor is closed.
func (d *Device) Release() error {
	var disable uintptr = 0
	return ioctl(int(d.file.Fd()), eviocgrab, disable)
}

// ReadEvent blocks until the next input_event is available and decodes it.
// It returns io.EOF-wrapped errors unchanged so callers can distinguish
// device-gone from other I/O failures.
func (d *Device) ReadEvent() (InputEvent, error) {
	raw := make([]byte, eventSize)
	if _, err := d.file.Read(raw); err != nil {
		return InputEvent{}, err
	}

	// struct input_event{struct timeval time; __u16 type; __u16 code; __s32 value;}
	var wire struct {
		Sec, Usec int64
		Type      uint16
		Code      uint16
		Value     int32
	}
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &wire); err != nil {
		return InputEvent{}, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}

	return InputEvent{Type: wire.Type, Code: wire.Code, Value: wire.Value}, nil
}

// Close closes the underlying file descriptor. The kernel revokes any
// exclusive grab automatically at this point.
func (d *Device) Close() error {
	return d.file.Close()
}

// IsInputDevice reports whether path exists and is a character device.
func IsInputDevice(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// ListDevicePaths returns accessible input device paths matching glob
// (typically "/dev/input/event*").
func ListDevicePaths(glob string) ([]string, error) {
	paths, err := filepath.Glob(glob)
	if err != nil {
		return nil, err
	}

	devices := make([]string, 0, len(paths))
	for _, p := range paths {
		if IsInputDevice(p) {
			devices = append(devices, p)
		}
	}
	return devices, nil
}
