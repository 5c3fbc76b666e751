package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nutrition-advisor/internal/config"
	"nutrition-advisor/internal/database"
	"nutrition-advisor/internal/history"
	"nutrition-advisor/internal/llm"
	"nutrition-advisor/internal/logger"
	"nutrition-advisor/internal/meal"
	"nutrition-advisor/internal/metrics"
	"nutrition-advisor/internal/profile"
	"nutrition-advisor/internal/storage"
)

// ErrLLMUnavailable is returned by operations that need a text generator when none is configured.
var ErrLLMUnavailable = errors.New("dish estimation is not available: no LLM provider configured")

// ErrMealNotFound is returned when a dish is not in the catalog.
var ErrMealNotFound = errors.New("meal not found")

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	db           *database.DB
	meals        *meal.Repository
	history      *history.Repository
	profiles     *storage.ProfileStore
	metricsStore *metrics.Store
	textGen      llm.TextGenerator // nil when no provider is configured
	scraper      *meal.Scraper
	now          func() time.Time
}

// NewApp creates and initializes a new App instance. textGen may be nil.
func NewApp(
	cfg *config.Config,
	db *database.DB,
	profiles *storage.ProfileStore,
	textGen llm.TextGenerator,
) *App {
	return &App{
		cfg:          cfg,
		db:           db,
		meals:        meal.NewRepository(db.SQL),
		history:      history.NewRepository(db.SQL),
		profiles:     profiles,
		metricsStore: metrics.NewStore(db.SQL),
		textGen:      textGen,
		scraper:      meal.NewScraper(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Build opens the database and profile store and selects the LLM provider from cfg.
// A missing provider is not an error: estimation is simply disabled.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	profiles, err := storage.NewProfileStore(cfg.ProfileStoragePath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize profile storage: %w", err)
	}

	textGen, err := llm.New(ctx, cfg)
	switch {
	case errors.Is(err, llm.ErrNoProvider):
		logger.Info("No LLM provider configured, dish estimation disabled")
		textGen = nil
	case err != nil:
		db.Close()
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	case cfg.LLMCachePath != "":
		cached, err := llm.NewCachedTextGenerator(textGen, cfg.LLMCachePath)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize LLM cache: %w", err)
		}
		logger.Info("LLM response cache enabled",
			zap.String("path", cfg.LLMCachePath), zap.Int("entries", cached.Len()))
		textGen = cached
	}

	return NewApp(cfg, db, profiles, textGen), nil
}

// Close releases the LLM client and the database.
func (a *App) Close() error {
	if closer, ok := a.textGen.(llm.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("Failed to close LLM client", zap.Error(err))
		}
	}
	return a.db.Close()
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.Config {
	return a.cfg
}

// HasLLM reports whether dish estimation is available.
func (a *App) HasLLM() bool {
	return a.textGen != nil
}

// SaveProfile validates and stores a profile for a user.
func (a *App) SaveProfile(userID string, p profile.UserProfile) error {
	return a.profiles.Save(userID, p)
}

// LoadProfile returns the stored profile of a user or storage.ErrProfileNotFound.
func (a *App) LoadProfile(userID string) (*profile.UserProfile, error) {
	return a.profiles.Load(userID)
}

// DeleteProfile removes a user's stored profile. It reports whether one existed.
func (a *App) DeleteProfile(userID string) (bool, error) {
	if !a.profiles.Exists(userID) {
		return false, nil
	}
	if err := a.profiles.Delete(userID); err != nil {
		return false, err
	}
	return true, nil
}

// RecentHistory returns the latest recommendation sets generated for a user.
func (a *App) RecentHistory(ctx context.Context, userID string, limit int) ([]history.Entry, error) {
	return a.history.ListRecent(ctx, userID, limit)
}

// UsageReport aggregates engine runs per day.
func (a *App) UsageReport(ctx context.Context, days int) ([]metrics.DailyUsage, error) {
	return a.metricsStore.GetDailyUsage(ctx, days)
}

// CleanupMetrics removes engine runs older than the given number of days.
func (a *App) CleanupMetrics(ctx context.Context, olderThanDays int) (int64, error) {
	n, err := a.metricsStore.Cleanup(ctx, olderThanDays)
	if err != nil {
		return 0, err
	}
	logger.Info("Removed old engine runs", zap.Int64("rows", n), zap.Int("older_than_days", olderThanDays))
	return n, nil
}

// SysHealth returns a runtime snapshot with the size of each data store and the schema version.
func (a *App) SysHealth(ctx context.Context) metrics.SysHealth {
	stores := []metrics.DataStore{
		{Name: "database", Path: a.cfg.DatabasePath},
		{Name: "profiles", Path: a.cfg.ProfileStoragePath},
	}
	if a.cfg.LLMCachePath != "" {
		stores = append(stores, metrics.DataStore{Name: "llm_cache", Path: a.cfg.LLMCachePath})
	}

	h := metrics.GetSysHealth(stores...)
	version, err := a.db.SchemaVersion(ctx)
	if err != nil {
		logger.Warn("Failed to read schema version", zap.Error(err))
	}
	h.SchemaVersion = version
	return h
}

// recordRun stores a metrics entry for a non-LLM operation. Failures are logged, not returned.
func (a *App) recordRun(ctx context.Context, operation string, items int, start time.Time) {
	err := a.metricsStore.Record(ctx, metrics.Run{
		Operation: operation,
		Model:     "rules",
		Items:     items,
		LatencyMS: time.Since(start).Milliseconds(),
	})
	if err != nil {
		logger.Warn("Failed to record metrics", zap.String("operation", operation), zap.Error(err))
	}
}
