package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nutrition-advisor/internal/app"
	"nutrition-advisor/internal/config"
	"nutrition-advisor/internal/database"
	"nutrition-advisor/internal/logger"
	"nutrition-advisor/internal/storage"
)

const testProfileJSON = `{"age": 30, "gender": "male", "weight": 70, "height": 175, "activityLevel": "moderate"}`

func newTestRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Set(zap.NewNop())

	dir := t.TempDir()
	cfg := &config.Config{
		DatabasePath:       filepath.Join(dir, "advisor.db"),
		ProfileStoragePath: filepath.Join(dir, "profiles"),
		JWTSecret:          secret,
		LookbackDays:       7,
		CatalogLimit:       100,
	}
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	profiles, err := storage.NewProfileStore(cfg.ProfileStoragePath)
	if err != nil {
		t.Fatalf("Failed to create profile store: %v", err)
	}
	a := app.NewApp(cfg, db, profiles, nil)
	t.Cleanup(func() { a.Close() })
	return NewRouter(a)
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, "")
	w := do(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if got := decode(t, w)["status"]; got != "ok" {
		t.Errorf("Expected status ok, got %v", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, "")

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/profile", nil)
			req.Header.Set("Origin", "http://localhost:3000")
			req.Header.Set("Access-Control-Request-Method", method)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusNoContent {
				t.Fatalf("Expected status 204, got %d", w.Code)
			}
			allowed := w.Header().Get("Access-Control-Allow-Methods")
			if !strings.Contains(allowed, method) {
				t.Errorf("Expected %s in allowed methods, got %q", method, allowed)
			}
		})
	}
}

func TestSampleDataAndNutritionData(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(r, http.MethodPost, "/api/load-sample-data", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["count"]; got != float64(3) {
		t.Errorf("Expected count 3, got %v", got)
	}

	w = do(r, http.MethodPost, "/api/load-sample-data", "")
	if got := decode(t, w)["message"]; got != "Sample data already loaded" {
		t.Errorf("Expected already loaded message, got %v", got)
	}

	w = do(r, http.MethodGet, "/api/nutrition-data?day=Monday", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	data, _ := decode(t, w)["data"].([]any)
	if len(data) != 2 {
		t.Errorf("Expected 2 Monday meals, got %d", len(data))
	}
}

func TestAnalyzeNutrition(t *testing.T) {
	r := newTestRouter(t, "")
	do(r, http.MethodPost, "/api/load-sample-data", "")

	t.Run("WithProfile", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/analyze-nutrition", `{"userProfile": `+testProfileJSON+`}`)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		out := decode(t, w)
		if out["mealCount"] != float64(3) {
			t.Errorf("Expected mealCount 3, got %v", out["mealCount"])
		}
		if _, ok := out["dateRange"].(map[string]any); !ok {
			t.Errorf("Expected a dateRange object, got %v", out["dateRange"])
		}
	})

	t.Run("MissingProfile", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/analyze-nutrition", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("InvalidProfile", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/analyze-nutrition", `{"userProfile": {"age": -1, "gender": "male", "weight": 70, "height": 175, "activityLevel": "moderate"}}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("StoredProfile", func(t *testing.T) {
		if w := do(r, http.MethodPut, "/api/profile", testProfileJSON); w.Code != http.StatusOK {
			t.Fatalf("Expected status 200 saving profile, got %d: %s", w.Code, w.Body.String())
		}
		w := do(r, http.MethodPost, "/api/analyze-nutrition", `{}`)
		if w.Code != http.StatusOK {
			t.Errorf("Expected stored profile to be used, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestScoreMeal(t *testing.T) {
	r := newTestRouter(t, "")

	w := do(r, http.MethodPost, "/api/score-meal", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Meal data is required" {
		t.Errorf("Expected 'Meal data is required', got %v", got)
	}

	body := `{"meal": {"dish_name": "Dal Rice + Sabzi + Roti", "meal_type": "Lunch", "calories": 485.6,
		"carbohydrates": 72.4, "protein": 18.9, "fats": 12.3, "free_sugar": 5.2, "fibre": 8.7,
		"sodium": 520.3, "calcium": 125.8, "iron": 4.2, "vitamin_c": 22.5, "folate": 145.6}}`
	w = do(r, http.MethodPost, "/api/score-meal", body)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	out := decode(t, w)
	if out["meal"] != "Dal Rice + Sabzi + Roti" {
		t.Errorf("Expected dish name echoed, got %v", out["meal"])
	}
	score, _ := out["score"].(map[string]any)
	if score["overallScore"] != float64(81) || score["grade"] != "B" {
		t.Errorf("Expected 81 B, got %v %v", score["overallScore"], score["grade"])
	}
}

func TestRecommendations(t *testing.T) {
	r := newTestRouter(t, "")
	do(r, http.MethodPost, "/api/load-sample-data", "")

	w := do(r, http.MethodPost, "/api/recommendations", `{"userProfile": `+testProfileJSON+`, "recentScores": [60, 70]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	out := decode(t, w)
	if out["availableMeals"] != float64(3) {
		t.Errorf("Expected availableMeals 3, got %v", out["availableMeals"])
	}
	set, _ := out["recommendations"].(map[string]any)
	if alts, ok := set["alternativeMeals"].([]any); !ok || len(alts) != 0 {
		t.Errorf("Expected an empty alternativeMeals list, got %v", set["alternativeMeals"])
	}

	w = do(r, http.MethodGet, "/api/history", "")
	history, _ := decode(t, w)["history"].([]any)
	if len(history) != 1 {
		t.Errorf("Expected 1 history entry, got %d", len(history))
	}
}

func TestUploadCSV(t *testing.T) {
	r := newTestRouter(t, "")

	t.Run("NoFile", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/upload-csv", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("Upload", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "menu.csv")
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		fw.Write([]byte("day,meal_type,dish_name,calories,carbohydrates,protein,fats,free_sugar,fibre,sodium,calcium,iron,vitamin_c,folate\n" +
			"Tuesday,Breakfast,Idli Sambar,280,48,9,4,2,5,410,60,2.4,12,70\n"))
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/upload-csv", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		if got := decode(t, w)["count"]; got != float64(1) {
			t.Errorf("Expected count 1, got %v", got)
		}
	})
}

func TestEstimateMealWithoutLLM(t *testing.T) {
	r := newTestRouter(t, "")
	w := do(r, http.MethodPost, "/api/estimate-meal", `{"dishName": "Upma"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}

	w = do(r, http.MethodPost, "/api/estimate-meal", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestProfileNotFound(t *testing.T) {
	r := newTestRouter(t, "")
	w := do(r, http.MethodGet, "/api/profile", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestDeleteProfile(t *testing.T) {
	r := newTestRouter(t, "")
	if w := do(r, http.MethodDelete, "/api/profile", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for a missing profile, got %d", w.Code)
	}
	if w := do(r, http.MethodPut, "/api/profile", testProfileJSON); w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on save, got %d", w.Code)
	}
	if w := do(r, http.MethodDelete, "/api/profile", ""); w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/api/profile", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret-key-for-testing-only"
	r := newTestRouter(t, secret)

	t.Run("MissingHeader", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/nutrition-data", "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", w.Code)
		}
	})

	t.Run("InvalidFormat", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/nutrition-data", nil)
		req.Header.Set("Authorization", "InvalidFormat")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", w.Code)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := GenerateToken("another-secret", "alice", time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken failed: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/nutrition-data", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", w.Code)
		}
	})

	t.Run("ValidToken", func(t *testing.T) {
		token, err := GenerateToken(secret, "alice", time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken failed: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/nutrition-data", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("HealthIsPublic", func(t *testing.T) {
		if w := do(r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})
}

func TestValidateToken(t *testing.T) {
	token, err := GenerateToken("s3cret", "telegram:42", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	sub, err := ValidateToken("s3cret", token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if sub != "telegram:42" {
		t.Errorf("Expected subject telegram:42, got %s", sub)
	}

	expired, _ := GenerateToken("s3cret", "bob", -time.Minute)
	if _, err := ValidateToken("s3cret", expired); err == nil {
		t.Error("Expected error for expired token, got nil")
	}

	if _, err := GenerateToken("", "bob", time.Hour); err == nil {
		t.Error("Expected error without a secret, got nil")
	}
}
