package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/xvierd/taskpulse/internal/adapters/git"
	"github.com/xvierd/taskpulse/internal/adapters/notification"
	"github.com/xvierd/taskpulse/internal/adapters/scheduler"
	"github.com/xvierd/taskpulse/internal/adapters/storage"
	"github.com/xvierd/taskpulse/internal/config"
	"github.com/xvierd/taskpulse/internal/logging"
	"github.com/xvierd/taskpulse/internal/ports"
	"github.com/xvierd/taskpulse/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config     *config.Config
	configPath string
	logger     *slog.Logger
	logCloser  io.Closer
	store      ports.RecordStore
	stats      *services.StatsService
	tasks      *services.TaskService
	state      *services.StateService
	scheduler  *scheduler.TimerScheduler
	notifier   *notification.Notifier
	git        ports.GitDetector
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	path := configPath
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return err
		}
	}
	app.configPath = path

	cfg, cfgErr := config.LoadFrom(path)
	if cfgErr != nil && !errors.Is(cfgErr, config.ErrInvalidConfig) {
		return cfgErr
	}
	if dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}
	app.config = cfg

	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Path:   cfg.LogPath(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	app.logger, app.logCloser = logger, closer
	if cfgErr != nil {
		logger.Warn("config file ignored", "path", path, "error", cfgErr)
	}

	app.store, err = storage.Open(cfg.Storage.Backend, cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.notifier = notification.New(cfg.Notifications.Enabled, logger)
	app.git = git.NewDetector()

	app.stats = services.NewStatsService(app.store, logger)
	app.tasks = services.NewTaskService(app.store, logger)
	app.state = services.NewStateService(app.stats, app.tasks)

	logger.Debug("services initialized", "backend", cfg.Storage.Backend, "data_dir", cfg.Storage.DataDir)
	return nil
}

// newTracker creates a session tracker backed by a real-time scheduler.
func newTracker() *services.SessionTracker {
	if app.scheduler == nil {
		app.scheduler = scheduler.New()
	}
	return services.NewSessionTracker(app.scheduler, app.notifier, app.stats,
		services.WithPomodoroConfig(app.config.ToPomodoroConfig()),
		services.WithLogger(app.logger))
}

// defaultTitle names a pomodoro after the git branch of the working
// directory, or returns "" outside a repository.
func defaultTitle(ctx context.Context) string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	info, err := app.git.Detect(ctx, wd)
	if err != nil {
		app.logger.Debug("no git context", "dir", wd, "error", err)
		return ""
	}
	return git.SessionTitle(info)
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var errs []error
	if app.scheduler != nil {
		app.scheduler.Shutdown()
	}
	if app.store != nil {
		errs = append(errs, app.store.Close())
	}
	if app.logCloser != nil {
		errs = append(errs, app.logCloser.Close())
	}
	app = appDeps{}
	return errors.Join(errs...)
}

// isInteractive reports whether stdin is a terminal.
func isInteractive() bool {
	return term.IsTerminal(os.Stdin.Fd())
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
