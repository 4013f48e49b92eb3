package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"copyd/internal/api"
	"copyd/internal/config"
	"copyd/internal/executor"
	"copyd/internal/gatekeeper"
	"copyd/internal/queue"
	"copyd/internal/repository"
	"copyd/internal/server"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "copyd",
	Short:         "Asynchronous file copy daemon",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the copy daemon in the foreground",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the daemon version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), api.Version)
	},
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: $"+config.EnvConfigPath+" or a standard location)")
	rootCmd.AddCommand(runCmd, versionCmd)
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	path := config.ResolvePath(configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logs := &logSink{}
	if err := logs.apply(cfg.GetLogging()); err != nil {
		return err
	}
	defer logs.Close()

	slog.Info("configuration loaded", "config_path", path)

	repo, err := repository.New(cfg.GetDatabase().Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer repo.Close()

	slog.Info("database initialized", "path", cfg.GetDatabase().Path)

	if err := repo.SetConfig("daemon.started_at", strconv.FormatInt(time.Now().Unix(), 10)); err != nil {
		slog.Warn("failed to record start time", "error", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gk := gatekeeper.New(cfg)

	progress := executor.NewProgressMonitor(repo, func() time.Duration {
		return cfg.GetJobs().PersistInterval
	})
	progress.Start(ctx)

	jobQueue := queue.New(repo, cfg, gk, progress)
	jobQueue.SetJobExecutor(executor.NewCopyExecutor(cfg))

	if err := jobQueue.Start(ctx); err != nil {
		progress.Stop()
		return fmt.Errorf("failed to start job queue: %w", err)
	}

	srv := server.New(cfg, jobQueue)
	if err := srv.Listen(); err != nil {
		jobQueue.Stop()
		progress.Stop()
		return fmt.Errorf("failed to start protocol server: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve()
	}()

	var (
		handlers   *api.Handlers
		httpServer *http.Server
	)
	if apiConfig := cfg.GetAPI(); apiConfig.Enabled {
		router := mux.NewRouter()
		handlers = api.NewHandlers(jobQueue, gk, repo, cfg)
		handlers.RegisterRoutes(router)

		httpServer = &http.Server{
			Addr:         net.JoinHostPort(apiConfig.Host, strconv.Itoa(apiConfig.Port)),
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			slog.Info("starting HTTP API", "addr", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("HTTP server error", "error", err)
			}
		}()
	}

	go func() {
		configChanges := cfg.WatchForChanges()
		for {
			select {
			case <-ctx.Done():
				return
			case <-configChanges:
				slog.Info("configuration changed, updating logging")
				if err := logs.apply(cfg.GetLogging()); err != nil {
					slog.Error("failed to apply logging configuration", "error", err)
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case sig := <-sigChan:
		slog.Info("shutdown signal received, initiating graceful shutdown", "signal", sig.String())
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("protocol server failed: %w", err)
			slog.Error("protocol server failed, shutting down", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.GetDaemon().ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("protocol server shutdown error", "error", err)
	}

	if httpServer != nil {
		// Hijacked websocket connections are not tracked by Shutdown.
		handlers.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}

	// Interrupted jobs stay running in the store and resume on next start.
	if err := jobQueue.Stop(); err != nil {
		slog.Error("job queue shutdown error", "error", err)
	}
	progress.Stop()
	cancel()

	if summary, err := jobQueue.GetSummary(); err == nil && summary.RunningJobs+summary.SuspendedJobs > 0 {
		slog.Info("jobs left for the next start",
			"running_jobs", summary.RunningJobs,
			"suspended_jobs", summary.SuspendedJobs)
	}

	slog.Info("shutdown completed")
	return runErr
}
