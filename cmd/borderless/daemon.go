package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/borderless/internal/config"
	"github.com/1broseidon/borderless/internal/daemon"
	"github.com/1broseidon/borderless/internal/hotkeys"
	"github.com/1broseidon/borderless/internal/httpapi"
	"github.com/1broseidon/borderless/internal/ipc"
	"github.com/1broseidon/borderless/internal/platform"
)

// eventLooper is implemented by backends that need an event loop for
// hotkeys, i.e. X11.
type eventLooper interface {
	EventLoop()
	QuitEventLoop()
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the borderless daemon in the foreground",
	Long: "Run the daemon: serve the IPC socket, reconcile match rules periodically and,\n" +
		"on X11, listen for the toggle hotkey. SIGHUP reloads the configuration.",
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().Bool("restore-on-exit", true, "Restore every borderless window when the daemon stops")
	daemonCmd.Flags().String("http", "", "Serve the HTTP API on host:port (overrides http_listen)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := res.Config
	if !debugEnabled() {
		logLevel.Set(cfg.Level())
	}
	logger := slog.Default()
	logger.Info("configuration loaded", "path", path, "exists", res.Exists, "refresh_interval", cfg.RefreshInterval)

	socket, err := socketPath()
	if err != nil {
		return err
	}
	if ipc.SocketInUse(socket) {
		return fmt.Errorf("%w: %s", ipc.ErrAlreadyRunning, socket)
	}

	backend, err := platform.NewNativeBackend(cfg.Display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	if closer, ok := backend.(io.Closer); ok {
		defer closer.Close()
	}

	svc := daemon.NewService(backend, platform.NewProcessResolver(), cfg, logger.With("component", "engine"))

	reconciler := daemon.NewReconciler(cfg.Interval(), svc.Reconcile, logger.With("component", "reconciler"))
	reconciler.ReconcileNow()

	hk := hotkeys.NewHandler(backend, svc, logger.With("component", "hotkeys"))
	if hk.Available() {
		if err := hk.RegisterToggle(cfg.ToggleHotkey); err != nil {
			logger.Warn("hotkey registration failed", "error", err)
		}
	} else if cfg.ToggleHotkey != "" {
		logger.Info("global hotkeys are not available on this platform", "toggle_hotkey", cfg.ToggleHotkey)
	}

	reload := func() error {
		res, err := config.LoadFromPath(path)
		if err != nil {
			return err
		}
		svc.ApplyConfig(res.Config)
		reconciler.SetInterval(res.Config.Interval())
		if !debugEnabled() {
			logLevel.Set(res.Config.Level())
		}
		if hk.Available() {
			if err := hk.SetToggle(res.Config.ToggleHotkey); err != nil {
				logger.Warn("hotkey registration failed", "error", err)
			}
		}
		return nil
	}

	super := daemon.NewSupervisor("borderless", logger)
	daemon.Add(super, ipc.NewServer(socket, svc, reload, logger.With("component", "ipc")))
	daemon.Add(super, reconciler)

	httpAddr := cfg.HTTPListen
	if flag, _ := cmd.Flags().GetString("http"); flag != "" {
		httpAddr = flag
	}
	if httpAddr != "" {
		daemon.Add(super, httpapi.NewServer(httpAddr, svc, version, logger.With("component", "http")))
	}

	if loop, ok := backend.(eventLooper); ok {
		daemon.Add(super, daemon.NewServiceFunc("x11-events", func(ctx context.Context) error {
			go func() {
				<-ctx.Done()
				loop.QuitEventLoop()
			}()
			loop.EventLoop()
			return ctx.Err()
		}))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go watchReload(ctx, reload, logger)

	logger.Info("borderless daemon started", "socket", socket)
	err = super.Serve(ctx)

	if restore, _ := cmd.Flags().GetBool("restore-on-exit"); restore {
		if n := svc.RestoreAll(); n > 0 {
			logger.Info("restored borderless windows", "count", n)
		}
	}
	logger.Info("borderless daemon stopped")

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// watchReload reloads the configuration on SIGHUP until ctx is done.
func watchReload(ctx context.Context, reload func() error, logger *slog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := reload(); err != nil {
				logger.Error("config reload failed", "error", err)
				continue
			}
			logger.Info("config reloaded")
		}
	}
}
