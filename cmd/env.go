package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/bulglo/internal/app"
	"github.com/abhisek/bulglo/internal/autosave"
	"github.com/abhisek/bulglo/internal/badges"
	"github.com/abhisek/bulglo/internal/catalog"
	"github.com/abhisek/bulglo/internal/config"
	"github.com/abhisek/bulglo/internal/logging"
	"github.com/abhisek/bulglo/internal/progress"
	"github.com/abhisek/bulglo/internal/screen"
	"github.com/abhisek/bulglo/internal/store"
)

// env is everything a command needs: configuration, the open store, the
// learner's ledger with autosave attached, and the course.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	logFile io.Closer
	store   *store.Store
	saver   *autosave.Writer
	ledger  *progress.Ledger
	catalog *catalog.Catalog
	badges  *badges.Service
}

// openEnv loads config and opens every dependency. When toFile is set logs
// go to the configured log file so they do not draw over the terminal UI;
// otherwise they go to stderr.
func openEnv(cmd *cobra.Command, toFile bool) (*env, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{File: configFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	var logOut io.Writer = os.Stderr
	if toFile {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		e.logFile = f
		logOut = f
	}
	e.logger, err = logging.Setup(cfg.Log.Level, cfg.Log.Format, logOut)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("set up logging: %w", err)
	}

	if err := store.EnsureDir(cfg.DBPath); err != nil {
		e.close()
		return nil, fmt.Errorf("prepare database dir: %w", err)
	}
	e.store, err = store.Open(cfg.DBPath)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	snap, err := e.store.SnapshotRepo().Latest(ctx)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("load progress: %w", err)
	}
	var data *store.SnapshotData
	if snap != nil {
		data = &snap.Data
	}

	e.saver = autosave.New(e.store.SnapshotRepo(), autosave.Config{
		Keep:        cfg.Autosave.Keep,
		MaxAttempts: cfg.Autosave.MaxAttempts,
		Logger:      e.logger,
	})
	e.ledger = progress.NewLedger(data,
		progress.WithSink(e.saver),
		progress.WithEvents(e.store.EventRepo()),
		progress.WithLogger(e.logger),
	)

	if cfg.ContentDir != "" {
		e.catalog, err = catalog.LoadDir(cfg.ContentDir)
	} else {
		e.catalog, err = catalog.Starter()
	}
	if err != nil {
		e.close()
		return nil, fmt.Errorf("load course: %w", err)
	}
	for _, w := range e.catalog.Warnings() {
		e.logger.Warn("course content", "lesson", w.LessonID, "exercise", w.ExerciseID, "error", w.Err)
	}

	e.badges = badges.NewService(e.ledger, e.store.EventRepo(), e.logger)
	return e, nil
}

// services adapts the env for the terminal UI.
func (e *env) services() *screen.Services {
	return &screen.Services{
		Catalog: e.catalog,
		Ledger:  e.ledger,
		Badges:  e.badges,
		Events:  e.store.EventRepo(),
		Saver:   e.saver,
		Clock:   time.Now,
		Logger:  e.logger,
	}
}

// close flushes pending progress and releases resources in reverse order.
func (e *env) close() {
	if e.saver != nil {
		e.saver.Flush()
		if err := e.saver.Close(); err != nil {
			e.logger.Error("close autosave", "error", err)
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Error("close store", "error", err)
		}
	}
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// runApp opens the environment and launches the terminal UI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.close()

	e.ledger.UpdateStreak()
	return app.Run(e.services())
}
