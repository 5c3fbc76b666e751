package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath       string
	ProfileStoragePath string
	Port               string
	JWTSecret          string
	LogEnv             string

	// Analysis
	LookbackDays int
	CatalogLimit int

	// LLM Config (optional, enables dish estimation)
	LLMProvider  string
	GeminiAPIKey string
	GroqAPIKey   string
	LLMCachePath string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

const (
	defaultProfilePath  = "data/profiles"
	defaultPort         = "8080"
	defaultLookbackDays = 7
	defaultCatalogLimit = 100
)

// NewFromEnv creates a new Config object from environment variables.
// Values from a .env file in the working directory are loaded first; variables
// already set in the environment win.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		return nil, fmt.Errorf("DATABASE_PATH environment variable not set")
	}

	lookbackDays, err := intFromEnv("LOOKBACK_DAYS", defaultLookbackDays)
	if err != nil {
		return nil, err
	}
	catalogLimit, err := intFromEnv("CATALOG_LIMIT", defaultCatalogLimit)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(os.Getenv("LLM_PROVIDER"))
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	groqAPIKey := os.Getenv("GROQ_API_KEY")
	switch provider {
	case "":
	case "gemini":
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case "groq":
		if groqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", provider)
	}

	// Telegram Config (Optional for CLI and API, required for Bot)
	allowed, err := parseIDList(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}
	var adminID int64
	if s := os.Getenv("ADMIN_TELEGRAM_ID"); s != "" {
		adminID, err = strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
	}

	return &Config{
		DatabasePath:           databasePath,
		ProfileStoragePath:     stringFromEnv("PROFILE_STORAGE_PATH", defaultProfilePath),
		Port:                   stringFromEnv("PORT", defaultPort),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		LogEnv:                 os.Getenv("LOG_ENV"),
		LookbackDays:           lookbackDays,
		CatalogLimit:           catalogLimit,
		LLMProvider:            provider,
		GeminiAPIKey:           geminiAPIKey,
		GroqAPIKey:             groqAPIKey,
		LLMCachePath:           os.Getenv("LLM_CACHE_PATH"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
	}, nil
}

// IsAllowed reports whether a Telegram user may talk to the bot.
// An empty allow list admits everyone.
func (c *Config) IsAllowed(userID int64) bool {
	if len(c.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range c.TelegramAllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func stringFromEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
