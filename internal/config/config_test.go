package config

import (
	"reflect"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(vars map[string]string) {
		t.Helper()
		for _, key := range []string{
			"DATABASE_PATH", "PROFILE_STORAGE_PATH", "PORT", "JWT_SECRET", "LOOKBACK_DAYS",
			"CATALOG_LIMIT", "LLM_PROVIDER", "GEMINI_API_KEY", "GROQ_API_KEY",
			"TELEGRAM_ALLOWED_USER_IDS", "ADMIN_TELEGRAM_ID",
		} {
			t.Setenv(key, vars[key])
		}
	}

	t.Run("Defaults", func(t *testing.T) {
		setEnv(map[string]string{"DATABASE_PATH": "data/advisor.db"})

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/advisor.db" {
			t.Errorf("Expected DatabasePath to be 'data/advisor.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.ProfileStoragePath != "data/profiles" {
			t.Errorf("Expected default profile path, got '%s'", cfg.ProfileStoragePath)
		}
		if cfg.Port != "8080" {
			t.Errorf("Expected default port 8080, got '%s'", cfg.Port)
		}
		if cfg.LookbackDays != 7 || cfg.CatalogLimit != 100 {
			t.Errorf("Expected lookback 7 and catalog limit 100, got %d and %d", cfg.LookbackDays, cfg.CatalogLimit)
		}
		if !cfg.IsAllowed(42) {
			t.Error("Expected everyone to be allowed without an allow list")
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		setEnv(map[string]string{
			"DATABASE_PATH":             "advisor.db",
			"LOOKBACK_DAYS":             "14",
			"LLM_PROVIDER":              "Gemini",
			"GEMINI_API_KEY":            "gemini_key",
			"TELEGRAM_ALLOWED_USER_IDS": "12, 34,",
			"ADMIN_TELEGRAM_ID":         "12",
		})

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.LookbackDays != 14 {
			t.Errorf("Expected lookback 14, got %d", cfg.LookbackDays)
		}
		if cfg.LLMProvider != "gemini" || cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected gemini provider with key, got '%s' '%s'", cfg.LLMProvider, cfg.GeminiAPIKey)
		}
		if !reflect.DeepEqual(cfg.TelegramAllowedUserIDs, []int64{12, 34}) {
			t.Errorf("Expected allowed IDs [12 34], got %v", cfg.TelegramAllowedUserIDs)
		}
		if cfg.AdminTelegramID != 12 {
			t.Errorf("Expected admin 12, got %d", cfg.AdminTelegramID)
		}
		if cfg.IsAllowed(99) || !cfg.IsAllowed(34) {
			t.Error("Expected the allow list to be enforced")
		}
	})

	errorCases := []struct {
		name     string
		vars     map[string]string
		expected string
	}{
		{
			name:     "MissingDatabasePath",
			vars:     map[string]string{},
			expected: "DATABASE_PATH environment variable not set",
		},
		{
			name:     "MissingGeminiAPIKey",
			vars:     map[string]string{"DATABASE_PATH": "a.db", "LLM_PROVIDER": "gemini"},
			expected: "GEMINI_API_KEY environment variable not set",
		},
		{
			name:     "MissingGroqAPIKey",
			vars:     map[string]string{"DATABASE_PATH": "a.db", "LLM_PROVIDER": "groq"},
			expected: "GROQ_API_KEY environment variable not set",
		},
		{
			name:     "UnknownProvider",
			vars:     map[string]string{"DATABASE_PATH": "a.db", "LLM_PROVIDER": "openai"},
			expected: `unsupported LLM_PROVIDER "openai"`,
		},
		{
			name:     "BadLookback",
			vars:     map[string]string{"DATABASE_PATH": "a.db", "LOOKBACK_DAYS": "-1"},
			expected: `LOOKBACK_DAYS must be a positive integer, got "-1"`,
		},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			setEnv(tc.vars)
			_, err := NewFromEnv()
			if err == nil {
				t.Fatalf("Expected error '%s', got nil", tc.expected)
			}
			if err.Error() != tc.expected {
				t.Errorf("Expected error '%s', got '%s'", tc.expected, err.Error())
			}
		})
	}

	t.Run("BadAllowList", func(t *testing.T) {
		setEnv(map[string]string{"DATABASE_PATH": "a.db", "TELEGRAM_ALLOWED_USER_IDS": "12,abc"})
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for a non-numeric user ID, got nil")
		}
	})
}
