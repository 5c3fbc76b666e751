package meal

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"nutrition-advisor/internal/llm"
	"nutrition-advisor/internal/shared"
)

//go:embed estimator_prompt.md
var estimatorPrompt string

var estimatorTemplate = template.Must(template.New("estimator").Parse(estimatorPrompt))

// EstimateRequest describes a dish that is not in the catalog.
type EstimateRequest struct {
	DishName string `json:"dishName"`
	MealType string `json:"mealType,omitempty"`
	Portion  string `json:"portion,omitempty"`
}

// EstimatorResult is an estimated record plus the cost of producing it.
type EstimatorResult struct {
	Record Record
	Meta   shared.RunMeta
}

// Estimate asks the LLM for the nutrient content of a free-text dish.
func Estimate(ctx context.Context, textGen llm.TextGenerator, req EstimateRequest) (EstimatorResult, error) {
	req.DishName = strings.TrimSpace(req.DishName)
	if req.DishName == "" {
		return EstimatorResult{}, fmt.Errorf("dish name is required")
	}
	start := time.Now()

	prompt, err := buildEstimatorPrompt(req)
	if err != nil {
		return EstimatorResult{}, err
	}

	llmResp, err := textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return EstimatorResult{}, fmt.Errorf("failed to get LLM response: %w", err)
	}

	meta := shared.RunMeta{
		Operation: "estimate",
		Usage:     llmResp.Usage,
		Items:     1,
	}

	var rec Record
	if err := json.Unmarshal([]byte(cleanJSON(llmResp.Content)), &rec); err != nil {
		return EstimatorResult{Meta: meta}, fmt.Errorf("failed to unmarshal LLM response: %w", err)
	}

	rec.ID = ""
	rec.DishName = req.DishName
	if req.MealType != "" {
		rec.MealType = req.MealType
	}
	if t, err := ParseType(rec.MealType); err == nil {
		rec.MealType = string(t)
	}
	if err := rec.Validate(); err != nil {
		return EstimatorResult{Meta: meta}, fmt.Errorf("LLM returned an invalid estimate: %w", err)
	}

	meta.Latency = time.Since(start)
	return EstimatorResult{Record: rec, Meta: meta}, nil
}

func buildEstimatorPrompt(req EstimateRequest) (string, error) {
	var buf bytes.Buffer
	if err := estimatorTemplate.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("failed to build estimator prompt: %w", err)
	}
	return buf.String(), nil
}

// cleanJSON strips Markdown code fences some models wrap around JSON.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
