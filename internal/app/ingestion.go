package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"nutrition-advisor/internal/logger"
	"nutrition-advisor/internal/meal"
)

// ImportCSV parses an uploaded nutrition CSV and stores its rows.
func (a *App) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	start := time.Now()
	records, err := meal.ParseCSV(r)
	if err != nil {
		return 0, fmt.Errorf("failed to process CSV: %w", err)
	}
	return a.saveImported(ctx, "import_csv", records, start)
}

// ImportURL scrapes a published menu page and stores its rows.
func (a *App) ImportURL(ctx context.Context, url string) (int, error) {
	start := time.Now()
	logger.Info("Scraping menu page", zap.String("url", url))
	records, err := a.scraper.ScrapeURL(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("failed to scrape %s: %w", url, err)
	}
	return a.saveImported(ctx, "import_url", records, start)
}

// LoadSampleData seeds the catalog with the sample records. It does nothing
// when the catalog already holds data and returns the number of records added.
func (a *App) LoadSampleData(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := a.meals.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing data: %w", err)
	}
	if n > 0 {
		logger.Info("Sample data already loaded", zap.Int("existing", n))
		return 0, nil
	}
	return a.saveImported(ctx, "load_sample", meal.SampleRecords(), start)
}

func (a *App) saveImported(ctx context.Context, operation string, records []meal.Record, start time.Time) (int, error) {
	saved, err := a.meals.SaveAll(ctx, records)
	if err != nil {
		logger.Error("Failed to insert data", zap.String("operation", operation), zap.Error(err))
		return 0, fmt.Errorf("failed to insert data: %w", err)
	}
	a.recordRun(ctx, operation, len(saved), start)
	logger.Info("Imported meals", zap.String("operation", operation), zap.Int("count", len(saved)))
	return len(saved), nil
}

// EstimateMeal asks the LLM for the nutrients of a dish that is not in the
// catalog. With save set the estimate is added to the catalog.
func (a *App) EstimateMeal(ctx context.Context, req meal.EstimateRequest, save bool) (meal.Record, error) {
	if a.textGen == nil {
		return meal.Record{}, ErrLLMUnavailable
	}

	logger.Info("Estimating dish", zap.String("dish", req.DishName))
	res, err := meal.Estimate(ctx, a.textGen, req)
	if res.Meta.Operation != "" {
		if err := a.metricsStore.RecordMeta(ctx, res.Meta); err != nil {
			logger.Warn("Failed to record metrics", zap.String("operation", res.Meta.Operation), zap.Error(err))
		}
	}
	if err != nil {
		logger.Error("Failed to estimate dish", zap.String("dish", req.DishName), zap.Error(err))
		return meal.Record{}, err
	}

	if save {
		return a.SaveMeal(ctx, res.Record)
	}
	return res.Record, nil
}

// SaveMeal adds a single record, such as an estimate already shown to a user, to the catalog.
func (a *App) SaveMeal(ctx context.Context, rec meal.Record) (meal.Record, error) {
	start := time.Now()
	saved, err := a.meals.SaveAll(ctx, []meal.Record{rec})
	if err != nil {
		return meal.Record{}, fmt.Errorf("failed to save estimate: %w", err)
	}
	a.recordRun(ctx, "save_meal", 1, start)
	return saved[0], nil
}
