// SPDX-License-Identifier: BSD-3-Clause

// Package config supplies the Config object the core translation engine
// treats as a plain external input: endpoint paths, device match
// patterns, GPIO parameters, log level, and the macro email address.
package config

import (
	"encoding/json"
	"os"
	"time"
)

// GPIOConfig holds the three push-button line offsets and timing
// parameters the boundary glue's macros are driven by.
type GPIOConfig struct {
	Chip                  string        `json:"chip"`
	Button1               int           `json:"button1"`
	Button2               int           `json:"button2"`
	Button3               int           `json:"button3"`
	HoldTime              time.Duration `json:"hold_time"`
	BounceTime            time.Duration `json:"bounce_time"`
	// CombinationCheckDelay is button1's grace window, after its hold timer
	// fires, to recheck for a near-simultaneous button2/button3 hold before
	// committing to the solo remap-toggle action.
	CombinationCheckDelay time.Duration `json:"combination_check_delay"`
}

// Config is the full set of plain inputs the core accepts. It is not
// itself part of the translation engine; components read the fields they
// need and nothing else.
type Config struct {
	KeyboardEndpoint string   `json:"keyboard_endpoint"`
	MouseEndpoints   []string `json:"mouse_endpoints"`

	KeyboardPattern string `json:"keyboard_pattern"`
	MousePattern    string `json:"mouse_pattern"`

	DeviceGlob   string        `json:"device_glob"`
	ScanInterval time.Duration `json:"scan_interval"`

	LogLevel string `json:"log_level"`

	EmailAddress string `json:"email_address"`

	GPIO GPIOConfig `json:"gpio"`

	USBGadgetName string `json:"usb_gadget_name"`

	// RemapEnabled is the initial value of the shared keyboard-remap
	// toggle. At runtime the toggle lives in an atomic.Bool shared with
	// the Keyboard Translator and the GPIO macro that flips it; this
	// field only seeds its starting state.
	RemapEnabled bool `json:"remap_enabled"`
}

// Option configures a Config on top of its defaults.
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

func WithKeyboardEndpoint(path string) Option {
	return optionFunc(func(c *Config) { c.KeyboardEndpoint = path })
}

func WithMouseEndpoints(paths []string) Option {
	return optionFunc(func(c *Config) { c.MouseEndpoints = paths })
}

func WithLogLevel(level string) Option {
	return optionFunc(func(c *Config) { c.LogLevel = level })
}

func WithEmailAddress(addr string) Option {
	return optionFunc(func(c *Config) { c.EmailAddress = addr })
}

// Default returns the built-in configuration, matching the original
// proxy's defaults: one keyboard endpoint, two mouse endpoints, a 5s scan
// interval, ERROR-level logging.
func Default(opts ...Option) *Config {
	c := &Config{
		KeyboardEndpoint: "/dev/hidg0",
		MouseEndpoints:   []string{"/dev/hidg1", "/dev/hidg2"},
		KeyboardPattern:  "(?i)keyboard",
		MousePattern:     "(?i)mouse",
		DeviceGlob:       "/dev/input/event*",
		ScanInterval:     5 * time.Second,
		LogLevel:         "error",
		EmailAddress:     "test@example.com",
		GPIO: GPIOConfig{
			Chip:                  "gpiochip0",
			Button1:               6,
			Button2:               22,
			Button3:               17,
			HoldTime:              1500 * time.Millisecond,
			BounceTime:            50 * time.Millisecond,
			CombinationCheckDelay: 200 * time.Millisecond,
		},
		USBGadgetName: "hidproxy",
		RemapEnabled:  true,
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

// Load reads a JSON configuration file at path and merges it over Default,
// field by field — any key the file omits keeps its default value. A
// missing file is not an error: Default alone is returned, matching the
// original proxy's fall-back-to-defaults behavior.
func Load(path string, opts ...Option) (*Config, error) {
	c := Default(opts...)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}

	var overlay struct {
		KeyboardEndpoint *string        `json:"keyboard_endpoint"`
		MouseEndpoints   []string       `json:"mouse_endpoints"`
		KeyboardPattern  *string        `json:"keyboard_pattern"`
		MousePattern     *string        `json:"mouse_pattern"`
		DeviceGlob       *string        `json:"device_glob"`
		ScanInterval     *time.Duration `json:"scan_interval"`
		LogLevel         *string        `json:"log_level"`
		EmailAddress     *string        `json:"email_address"`
		GPIO             *GPIOConfig    `json:"gpio"`
		USBGadgetName    *string        `json:"usb_gadget_name"`
		RemapEnabled     *bool          `json:"remap_enabled"`
	}
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, err
	}

	if overlay.KeyboardEndpoint != nil {
		c.KeyboardEndpoint = *overlay.KeyboardEndpoint
	}
	if overlay.MouseEndpoints != nil {
		c.MouseEndpoints = overlay.MouseEndpoints
	}
	if overlay.KeyboardPattern != nil {
		c.KeyboardPattern = *overlay.KeyboardPattern
	}
	if overlay.MousePattern != nil {
		c.MousePattern = *overlay.MousePattern
	}
	if overlay.DeviceGlob != nil {
		c.DeviceGlob = *overlay.DeviceGlob
	}
	if overlay.ScanInterval != nil {
		c.ScanInterval = *overlay.ScanInterval
	}
	if overlay.LogLevel != nil {
		c.LogLevel = *overlay.LogLevel
	}
	if overlay.EmailAddress != nil {
		c.EmailAddress = *overlay.EmailAddress
	}
	if overlay.GPIO != nil {
		mergeGPIO(&c.GPIO, overlay.GPIO)
	}
	if overlay.USBGadgetName != nil {
		c.USBGadgetName = *overlay.USBGadgetName
	}
	if overlay.RemapEnabled != nil {
		c.RemapEnabled = *overlay.RemapEnabled
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func mergeGPIO(dst *GPIOConfig, src *GPIOConfig) {
	if src.Chip != "" {
		dst.Chip = src.Chip
	}
	if src.Button1 != 0 {
		dst.Button1 = src.Button1
	}
	if src.Button2 != 0 {
		dst.Button2 = src.Button2
	}
	if src.Button3 != 0 {
		dst.Button3 = src.Button3
	}
	if src.HoldTime != 0 {
		dst.HoldTime = src.HoldTime
	}
	if src.BounceTime != 0 {
		dst.BounceTime = src.BounceTime
	}
	if src.CombinationCheckDelay != 0 {
		dst.CombinationCheckDelay = src.CombinationCheckDelay
	}
}

// Validate checks required fields after merge.
func (c *Config) Validate() error {
	if c.KeyboardEndpoint == "" || len(c.MouseEndpoints) == 0 {
		return ErrInvalidConfiguration
	}
	if c.KeyboardPattern == "" || c.MousePattern == "" {
		return ErrInvalidConfiguration
	}
	if c.ScanInterval <= 0 {
		return ErrInvalidConfiguration
	}
	return nil
}
