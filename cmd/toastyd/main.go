// Package main is the entry point for the toastyd toast daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/toasty/internal/adapter/input"
	"github.com/jmylchreest/toasty/internal/audio"
	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/daemon"
	"github.com/jmylchreest/toasty/internal/dbus"
	"github.com/jmylchreest/toasty/internal/display"
	"github.com/jmylchreest/toasty/internal/event"
	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/theme"
	"github.com/jmylchreest/toasty/internal/toast"
)

const (
	appID   = "io.github.jmylchreest.toastyd"
	appName = "toastyd"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to the config file (default ~/.config/toasty/toastyd.toml)")
	readStdin := flag.Bool("stdin", false, "Read showMessage requests from stdin, one per line")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println("toastyd version", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.LoadDaemonConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *readStdin {
		cfg.Input.Stdin = true
	}

	os.Exit(run(cfg, *configPath, logger))
}

// run owns the GTK application and every component bound to the
// showMessage bus. All bus publishes happen on the GTK main loop.
func run(cfg *config.DaemonConfig, configPath string, logger *slog.Logger) int {
	logger.Info("starting toastyd", "version", version)

	app := adw.NewApplication(appID, 0)

	bus := event.NewBus[model.NotificationRequest](event.BusOptions{
		Name:   model.EventShowMessage,
		Logger: logger,
	})

	var (
		current atomic.Pointer[config.DaemonConfig]

		binding          *toast.Binding
		dbusServer       *dbus.Server
		displayManager   *display.Manager
		themeLoader      *theme.Loader
		audioManager     *audio.Manager
		configWatcher    *daemon.ConfigWatcher
		internalNotifier *daemon.InternalNotifier
		tracker          = daemon.NewTracker()
		running          atomic.Bool
	)
	current.Store(cfg)

	// publish hands a request to the GTK main loop, where the bus is dispatched.
	publish := func(req model.NotificationRequest) {
		glib.IdleAdd(func() {
			bus.Publish(req)
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
		case <-ctx.Done():
			return
		}
		cancel()
		glib.IdleAdd(func() {
			app.Quit()
		})
	}()

	stop := func() {
		if binding != nil {
			binding.Close()
		}
		if configWatcher != nil {
			configWatcher.Stop()
		}
		if themeLoader != nil {
			themeLoader.StopHotReload()
		}
		if audioManager != nil {
			audioManager.Stop()
		}
		if dbusServer != nil {
			if err := dbusServer.Stop(); err != nil {
				logger.Warn("error stopping D-Bus server", "error", err)
			}
		}
		if displayManager != nil {
			displayManager.Stop()
		}
	}

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}
		running.Store(true)

		internalNotifier = daemon.NewInternalNotifier(logger)
		internalNotifier.SetPublisher(publish)

		themeLoader = theme.NewLoader("", logger)
		if err := themeLoader.LoadTheme(cfg.Theme.Name); err != nil {
			logger.Warn("failed to load theme, using default", "error", err)
			internalNotifier.NotifyThemeError(err)
		}
		themeLoader.Apply(nil)
		themeLoader.SetErrorCallback(internalNotifier.NotifyThemeError)
		themeLoader.StartHotReload()

		audioManager = audio.NewManager(cfg, logger)
		if err := audioManager.Start(); err != nil {
			logger.Warn("failed to start audio manager", "error", err)
			internalNotifier.NotifyAudioError(err)
		}

		displayManager = display.NewManager(&app.Application, cfg, logger)
		if err := displayManager.Start(); err != nil {
			logger.Error("failed to start display manager", "error", err)
			app.Quit()
			return
		}
		displayManager.OnHide(tracker.MarkDismissed)

		// Subscription order is dispatch order: the timeout is set before
		// the binding shows the popup, and the tracker sees only shown toasts.
		bus.Subscribe(func(req model.NotificationRequest) {
			displayManager.SetTimeout(current.Load().TimeoutFor(req.Type))
		})

		var err error
		binding, err = toast.Bind(displayManager.Document(), displayManager, bus,
			toast.WithContainerID(cfg.Elements.ContainerID),
			toast.WithBodyID(cfg.Elements.BodyID),
			toast.WithLogger(logger),
		)
		if err != nil {
			logger.Error("failed to bind toast", "error", err)
			app.Quit()
			return
		}

		bus.Subscribe(tracker.Record)
		bus.Subscribe(func(req model.NotificationRequest) {
			go audioManager.Handle(req)
		})

		dbusServer = dbus.NewServer(logger)
		dbusServer.SetServerInfo(dbus.ServerInfo{Name: appName, Version: version})
		dbusServer.SetMessageHandler(publish)
		dbusServer.SetStatusFunc(tracker.Status)
		bus.Subscribe(func(req model.NotificationRequest) {
			if !dbusServer.Running() {
				return
			}
			if err := dbusServer.EmitMessageShown(req); err != nil {
				logger.Warn("failed to emit MessageShown", "id", req.ID, "error", err)
			}
		})

		if cfg.Input.DBus {
			if err := dbusServer.Start(); err != nil {
				if !cfg.Input.Stdin {
					logger.Error("failed to start D-Bus server", "error", err)
					app.Quit()
					return
				}
				logger.Warn("D-Bus server unavailable, reading stdin only", "error", err)
			}
		}

		if cfg.Input.Stdin {
			src := input.NewLineSource("stdin", os.Stdin, logger)
			go func() {
				err := src.Run(ctx, input.PublisherFunc(publish))
				if err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("stdin source stopped", "error", err)
					return
				}
				logger.Debug("stdin source finished")
			}()
		}

		configWatcher, err = daemon.NewConfigWatcher(configPath, logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else {
			configWatcher.SetReloadCallback(func(newConfig *config.DaemonConfig) {
				glib.IdleAdd(func() {
					old := current.Swap(newConfig)

					displayManager.UpdateConfig(newConfig)
					audioManager.UpdateConfig(newConfig)

					if newConfig.Theme.Name != old.Theme.Name {
						if err := themeLoader.LoadTheme(newConfig.Theme.Name); err != nil {
							logger.Warn("failed to load new theme", "theme", newConfig.Theme.Name, "error", err)
							internalNotifier.NotifyThemeError(err)
						} else {
							themeLoader.Apply(nil)
							themeLoader.StartHotReload()
							internalNotifier.NotifyThemeReloaded(newConfig.Theme.Name)
						}
					}

					internalNotifier.NotifyConfigReloaded()
				})
			})
			configWatcher.SetErrorCallback(internalNotifier.NotifyConfigError)
			if err := configWatcher.Start(cfg); err != nil {
				logger.Warn("failed to start config watcher", "error", err)
			}
		}

		// The popup window is hidden between toasts; hold keeps the
		// application alive with no visible windows.
		app.Hold()

		logger.Info("toastyd ready",
			"dbus", dbusServer.Running(),
			"stdin", cfg.Input.Stdin,
			"container", cfg.Elements.ContainerID,
		)
	})

	app.ConnectShutdown(func() {
		logger.Info("application shutting down")
		cancel()
		stop()
		running.Store(false)
	})

	status := app.Run(os.Args[:1])
	if status != 0 {
		logger.Error("application exited with error", "status", status)
		return status
	}

	logger.Info("toastyd stopped")
	return 0
}
