package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/garydev10/railwin/internal/config"
	"github.com/garydev10/railwin/internal/daemon"
	"github.com/garydev10/railwin/internal/ipc"
	"github.com/garydev10/railwin/internal/rail"
	"github.com/garydev10/railwin/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: railwin <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the railwin session daemon (foreground)")
	fmt.Fprintln(w, "  status              Show session status")
	fmt.Fprintln(w, "  windows             List synchronized windows")
	fmt.Fprintln(w, "  help                Show this help")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	// Human-readable output on a terminal, JSON when redirected.
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path (default ~/.config/railwin/config.yaml)")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	fs.Parse(args)

	logger := newLogger(*verbose)
	slog.SetDefault(logger)

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	ws, err := x11.NewWindowSystem(cfg.Display, logger)
	if err != nil {
		logger.Error("failed to connect to X server", "error", err)
		return 1
	}
	defer ws.Close()

	registry := rail.NewRegistry(ws, logger)
	icons := rail.NewIconCache(cfg.IconCache.NumCaches, cfg.IconCache.NumCacheEntries)
	channel := newLoggingChannel(logger)
	sync := rail.NewSynchronizer(registry, icons, ws, channel, rail.LaunchSpec{
		Program:    cfg.Launch.Program,
		WorkingDir: cfg.Launch.WorkingDir,
		Arguments:  cfg.Launch.Arguments,
	}, logger)

	ipcServer, err := ipc.NewServer(sync, logger)
	if err != nil {
		logger.Error("failed to create IPC server", "error", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		return 1
	}
	defer ipcServer.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: cfg.ReconcileInterval(),
		Logger:   logger,
	}, sync.Mover())
	go reconciler.Run(ctx)

	go ws.EventLoop()

	logger.Info("railwin daemon started", "program", cfg.Launch.Program)
	<-ctx.Done()
	logger.Info("railwin daemon stopping")
	return 0
}

func runStatus(args []string) int {
	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Daemon running: %v\n", status.DaemonRunning)
	fmt.Printf("Seamless mode:  %v\n", status.Seamless)
	fmt.Printf("Windows:        %d\n", status.WindowCount)
	fmt.Printf("Uptime:         %ds\n", status.UptimeSeconds)
	return 0
}

func runWindows(args []string) int {
	client := ipc.NewClient()
	data, err := client.ListWindows()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if len(data.Windows) == 0 {
		fmt.Println("No synchronized windows")
		return 0
	}
	for _, w := range data.Windows {
		fmt.Printf("%#x  %4dx%-4d at (%d,%d)  move=%s  %q\n",
			w.WindowID, w.Width, w.Height, w.X, w.Y, w.LocalMove, w.Title)
	}
	return 0
}
