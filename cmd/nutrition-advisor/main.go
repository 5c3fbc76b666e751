package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nutrition-advisor/internal/api"
	"nutrition-advisor/internal/app"
	"nutrition-advisor/internal/config"
	"nutrition-advisor/internal/logger"
	"nutrition-advisor/internal/meal"
	"nutrition-advisor/internal/profile"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogEnv)
	defer logger.Sync()

	ctx := context.Background()

	application, err := app.Build(ctx, cfg)
	if err != nil {
		logger.L().Fatal("Failed to initialize application", zap.Error(err))
	}

	err = run(ctx, application, cfg, os.Args[1], os.Args[2:])
	application.Close()
	if err != nil {
		logger.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, cfg *config.Config, command string, args []string) error {
	switch command {
	case "serve":
		return serve(a, cfg)

	case "analyze":
		cmd := flag.NewFlagSet("analyze", flag.ExitOnError)
		profilePath := cmd.String("profile", "", "Path to a YAML or JSON profile (required)")
		days := cmd.Int("days", 0, "Analyze the last N days (defaults to LOOKBACK_DAYS)")
		cmd.Parse(args)

		p, err := loadProfile(*profilePath)
		if err != nil {
			return err
		}
		report, err := a.AnalyzeNutrition(ctx, *p, lastDays(*days))
		if err != nil {
			return err
		}
		return printJSON(report)

	case "score":
		cmd := flag.NewFlagSet("score", flag.ExitOnError)
		profilePath := cmd.String("profile", "", "Path to a YAML or JSON profile (optional)")
		dish := cmd.String("dish", "", "Dish name from the catalog (required)")
		cmd.Parse(args)

		if *dish == "" {
			return errors.New("-dish is required")
		}
		var p *profile.UserProfile
		if *profilePath != "" {
			loaded, err := loadProfile(*profilePath)
			if err != nil {
				return err
			}
			p = loaded
		}
		rec, score, err := a.ScoreDish(ctx, p, *dish)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"meal": rec, "score": score})

	case "recommend":
		cmd := flag.NewFlagSet("recommend", flag.ExitOnError)
		profilePath := cmd.String("profile", "", "Path to a YAML or JSON profile (required)")
		userID := cmd.String("user", "", "Store the result in this user's history")
		days := cmd.Int("days", 0, "Use the intake of the last N days (defaults to LOOKBACK_DAYS)")
		scores := cmd.String("scores", "", "Comma separated recent meal scores")
		cmd.Parse(args)

		p, err := loadProfile(*profilePath)
		if err != nil {
			return err
		}
		recentScores, err := parseScores(*scores)
		if err != nil {
			return err
		}
		report, err := a.Recommend(ctx, *userID, *p, lastDays(*days), recentScores)
		if err != nil {
			return err
		}
		return printJSON(report)

	case "import-csv":
		cmd := flag.NewFlagSet("import-csv", flag.ExitOnError)
		path := cmd.String("file", "", "CSV file to import (required)")
		cmd.Parse(args)

		f, err := os.Open(*path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", *path, err)
		}
		defer f.Close()

		n, err := a.ImportCSV(ctx, f)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d meals from %s.\n", n, *path)

	case "import-url":
		cmd := flag.NewFlagSet("import-url", flag.ExitOnError)
		url := cmd.String("url", "", "Menu page to scrape (required)")
		cmd.Parse(args)

		if *url == "" {
			return errors.New("-url is required")
		}
		n, err := a.ImportURL(ctx, *url)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d meals from %s.\n", n, *url)

	case "load-sample":
		n, err := a.LoadSampleData(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Println("Sample data already loaded.")
			return nil
		}
		fmt.Printf("Loaded %d sample meals.\n", n)

	case "estimate":
		cmd := flag.NewFlagSet("estimate", flag.ExitOnError)
		dish := cmd.String("dish", "", "Free-text dish name (required)")
		mealType := cmd.String("type", "", "Meal type: breakfast, lunch, dinner or snack")
		portion := cmd.String("portion", "", "Portion description, e.g. '2 pieces'")
		save := cmd.Bool("save", false, "Add the estimate to the catalog")
		cmd.Parse(args)

		rec, err := a.EstimateMeal(ctx, meal.EstimateRequest{DishName: *dish, MealType: *mealType, Portion: *portion}, *save)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"meal": rec, "score": a.ScoreMeal(ctx, nil, rec)})

	case "usage":
		cmd := flag.NewFlagSet("usage", flag.ExitOnError)
		days := cmd.Int("days", 7, "Report the last N days")
		cmd.Parse(args)

		usage, err := a.UsageReport(ctx, *days)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"usage": usage, "system": a.SysHealth(ctx)})

	case "metrics-cleanup":
		cmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cmd.Int("days", 30, "Keep records for the last N days")
		cmd.Parse(args)

		affected, err := a.CleanupMetrics(ctx, *days)
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)

	case "token":
		cmd := flag.NewFlagSet("token", flag.ExitOnError)
		userID := cmd.String("user", "", "Subject of the token (required)")
		ttl := cmd.Duration("ttl", 24*time.Hour, "Token lifetime")
		cmd.Parse(args)

		token, err := api.GenerateToken(cfg.JWTSecret, *userID, *ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)

	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
	return nil
}

func serve(a *app.App, cfg *config.Config) error {
	if cfg.LogEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(a),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}
	logger.Info("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exiting")
	return nil
}

func loadProfile(path string) (*profile.UserProfile, error) {
	if path == "" {
		return nil, errors.New("-profile is required")
	}
	return profile.LoadFile(path)
}

// lastDays returns the window ending now, or the default window when days <= 0.
func lastDays(days int) app.Window {
	if days <= 0 {
		return app.Window{}
	}
	end := time.Now().UTC()
	return app.Window{Start: end.AddDate(0, 0, -days), End: end}
}

func parseScores(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var scores []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid score %q: %w", part, err)
		}
		scores = append(scores, n)
	}
	return scores, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage() {
	fmt.Println("Usage: nutrition-advisor <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve              Start the HTTP API")
	fmt.Println("  analyze            Analyze recent intake against a profile")
	fmt.Println("  score              Score a catalog dish")
	fmt.Println("  recommend          Generate meal recommendations and a daily plan")
	fmt.Println("  import-csv         Import meals from a CSV file")
	fmt.Println("  import-url         Import meals from a published menu page")
	fmt.Println("  load-sample        Seed an empty catalog with sample meals")
	fmt.Println("  estimate           Estimate the nutrients of a dish with the LLM")
	fmt.Println("  usage              Show engine usage and system health")
	fmt.Println("  metrics-cleanup    Remove old metric records")
	fmt.Println("  token              Issue an API token")
}
