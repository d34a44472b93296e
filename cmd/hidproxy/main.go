// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"sync/atomic"
	"syscall"
	"time"

	"cirello.io/oversight/v2"
	"github.com/arunsworld/nursery"

	"github.com/kiribridge/hidproxy/internal/config"
	"github.com/kiribridge/hidproxy/pkg/bridge"
	"github.com/kiribridge/hidproxy/pkg/file"
	"github.com/kiribridge/hidproxy/pkg/gadget"
	"github.com/kiribridge/hidproxy/pkg/gpio"
	"github.com/kiribridge/hidproxy/pkg/gpiomacro"
	"github.com/kiribridge/hidproxy/pkg/hidio"
	"github.com/kiribridge/hidproxy/pkg/log"
	"github.com/kiribridge/hidproxy/pkg/process"
)

func main() {
	configPath := flag.String("config", "/etc/hidproxy/config.json", "path to the JSON configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hidproxy: loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.LogLevel)
	log.RedirectStdLog(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("hidproxy exited with an error", "error", err)
		os.Exit(1)
	}
}

const lockPath = "/run/hidproxy.lock"

func run(cfg *config.Config, logger *slog.Logger) error {
	if err := file.AtomicCreateFile(lockPath, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644); err != nil {
		return fmt.Errorf("acquiring lock at %s (is another instance running?): %w", lockPath, err)
	}
	defer os.Remove(lockPath)

	gadgetCfg := &gadget.Config{Name: cfg.USBGadgetName}
	if err := gadget.NewBootstrapper().Bootstrap(gadgetCfg); err != nil {
		logger.Warn("bootstrapping USB HID gadget failed, continuing", "err", err)
	}

	keyboardPattern, err := regexp.Compile(cfg.KeyboardPattern)
	if err != nil {
		return fmt.Errorf("compiling keyboard pattern %q: %w", cfg.KeyboardPattern, err)
	}
	mousePattern, err := regexp.Compile(cfg.MousePattern)
	if err != nil {
		return fmt.Errorf("compiling mouse pattern %q: %w", cfg.MousePattern, err)
	}

	remapEnabled := &atomic.Bool{}
	remapEnabled.Store(cfg.RemapEnabled)

	keyboardPool := bridge.NewPool([]string{cfg.KeyboardEndpoint})
	mousePool := bridge.NewPool(cfg.MouseEndpoints)

	supervisor := bridge.NewSupervisor(cfg.DeviceGlob, keyboardPattern, mousePattern, keyboardPool, mousePool, remapEnabled, cfg.ScanInterval, logger)

	btn1, err := gpio.RequestButton(cfg.GPIO.Chip, cfg.GPIO.Button1, cfg.GPIO.BounceTime)
	if err != nil {
		return fmt.Errorf("requesting GPIO button1: %w", err)
	}
	btn2, err := gpio.RequestButton(cfg.GPIO.Chip, cfg.GPIO.Button2, cfg.GPIO.BounceTime)
	if err != nil {
		return fmt.Errorf("requesting GPIO button2: %w", err)
	}
	btn3, err := gpio.RequestButton(cfg.GPIO.Chip, cfg.GPIO.Button3, cfg.GPIO.BounceTime)
	if err != nil {
		return fmt.Errorf("requesting GPIO button3: %w", err)
	}

	macroWriter, err := hidio.NewWriter(cfg.KeyboardEndpoint)
	if err != nil {
		return fmt.Errorf("opening GPIO macro HID writer: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	macros := gpiomacro.New(btn1, btn2, btn3, macroWriter, cfg.GPIO.HoldTime, cfg.GPIO.CombinationCheckDelay, cfg.EmailAddress, remapEnabled, stop, logger)

	tree := oversight.New(
		oversight.NeverHalt(),
		oversight.DefaultRestartStrategy(),
		oversight.WithLogger(log.NewOversightLogger(logger)),
	)

	if err := tree.Add(process.New(runnableFunc{"bridge-supervisor", supervisor.Run}), oversight.Transient(), oversight.Timeout(10*time.Second), "bridge-supervisor"); err != nil {
		return fmt.Errorf("adding bridge supervisor to supervision tree: %w", err)
	}
	if err := tree.Add(process.New(runnableFunc{"gpio-macros", macros.Run}), oversight.Transient(), oversight.Timeout(10*time.Second), "gpio-macros"); err != nil {
		return fmt.Errorf("adding GPIO macro manager to supervision tree: %w", err)
	}

	logger.Info("hidproxy starting", "keyboard_endpoint", cfg.KeyboardEndpoint, "mouse_endpoints", cfg.MouseEndpoints, "remap_enabled", cfg.RemapEnabled)

	return nursery.RunConcurrentlyWithContext(ctx,
		func(ctx context.Context, errCh chan error) {
			errCh <- tree.Start(ctx)
		},
	)
}

// runnableFunc adapts a bare (context.Context) error function into a
// process.Runnable, tagging it with a name for panic/error reporting.
type runnableFunc struct {
	name string
	fn   func(context.Context) error
}

func (r runnableFunc) Name() string                  { return r.name }
func (r runnableFunc) Run(ctx context.Context) error { return r.fn(ctx) }
