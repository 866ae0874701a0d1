// Package app provides application lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/internal/reader"
	"github.com/azyu/bibleview/internal/search"
	"github.com/azyu/bibleview/internal/storage"
	"github.com/azyu/bibleview/pkg/types"
)

// App wires the verse store, search engine and reading session together.
type App struct {
	Config  *ConfigManager
	Logger  *slog.Logger
	Store   *storage.VerseStore
	Search  *search.Engine
	Session *reader.Session

	logFile io.Closer
}

// New creates a new application instance from the user's configuration.
func New() (*App, error) {
	configManager, err := NewConfigManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config manager: %w", err)
	}
	return NewWithConfig(configManager)
}

// NewWithConfig creates an application instance from configManager.
func NewWithConfig(configManager *ConfigManager) (*App, error) {
	globalConfig, err := configManager.LoadGlobalConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load global config: %w", err)
	}

	logFile, err := OpenLogFile(globalConfig.Logging, configManager.ConfigDir())
	if err != nil {
		return nil, err
	}
	logger, err := NewLogger(logFile, globalConfig.Logging)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	version, err := bible.ParseVersion(globalConfig.DefaultVersion)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to load global config: %w", err)
	}

	store := storage.NewVerseStore(globalConfig.DataDir, logger.With("component", "storage"))
	session := reader.NewSession(store, version, logger.With("component", "reader"))
	if err := session.SetPassage(globalConfig.Passage); err != nil {
		logger.Warn("ignoring saved passage", "error", err)
	}

	logger.Info("started", "data_dir", globalConfig.DataDir, "version", version.String())

	return &App{
		Config:  configManager,
		Logger:  logger,
		Store:   store,
		Search:  search.NewEngine(store, logger.With("component", "search")),
		Session: session,
		logFile: logFile,
	}, nil
}

// Settings returns the effective configuration.
func (a *App) Settings() *types.GlobalConfig {
	config, err := a.Config.LoadGlobalConfig()
	if err != nil {
		return types.DefaultGlobalConfig()
	}
	return config
}

// LookupTimeout returns the deadline applied to each data source call.
func (a *App) LookupTimeout() time.Duration {
	return a.Settings().Lookup.Timeout
}

// WithTimeout derives a context bounded by the lookup timeout.
func (a *App) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.LookupTimeout())
}

// SavePassage applies the passage to the session and persists it. Both ends
// must exist in the session's version; a nil range clears the passage.
func (a *App) SavePassage(ctx context.Context, r *types.ScriptureRange) error {
	if r != nil {
		if err := bible.ValidateRange(*r); err != nil {
			return err
		}
		if err := bible.ValidateRangeVerses(ctx, a.Store, a.Session.Version(), *r); err != nil {
			return err
		}
	}
	if err := a.Session.SetPassage(r); err != nil {
		return err
	}
	if err := a.Config.SetPassage(r); err != nil {
		return fmt.Errorf("failed to save passage: %w", err)
	}
	return nil
}

// SaveDisplay persists display settings, clamping the font size.
func (a *App) SaveDisplay(d types.DisplayConfig) error {
	d.FontSize = types.ClampFontSize(d.FontSize)
	if err := a.Config.SetDisplay(d); err != nil {
		return fmt.Errorf("failed to save display settings: %w", err)
	}
	return nil
}

// Close cleans up application resources.
func (a *App) Close() error {
	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}
