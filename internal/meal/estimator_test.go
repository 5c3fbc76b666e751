package meal

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"nutrition-advisor/internal/llm"
	"nutrition-advisor/internal/shared"
)

type mockTextGen struct {
	response string
	err      error
	prompt   string
}

func (m *mockTextGen) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.prompt = prompt
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{
		Content: m.response,
		Usage:   shared.TokenUsage{PromptTokens: 200, CompletionTokens: 80, Model: "mock"},
	}, nil
}

func TestEstimate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		gen := &mockTextGen{response: "```json\n" + `{
			"dish_name": "masala dosa", "meal_type": "Breakfast", "calories": 387,
			"carbohydrates": 52, "protein": 8, "fats": 16, "free_sugar": 1.5, "fibre": 4,
			"sodium": 620, "calcium": 60, "iron": 2.2, "vitamin_c": 9, "folate": 48
		}` + "\n```"}

		res, err := Estimate(ctx, gen, EstimateRequest{DishName: " Masala Dosa ", Portion: "1 plate"})
		if err != nil {
			t.Fatalf("Estimate failed: %v", err)
		}
		if res.Record.DishName != "Masala Dosa" || res.Record.MealType != "breakfast" {
			t.Errorf("Unexpected record identity %+v", res.Record)
		}
		if res.Record.Calories != 387 || res.Record.Sugar() != 1.5 {
			t.Errorf("Unexpected nutrients %+v", res.Record)
		}
		if res.Meta.Usage.PromptTokens != 200 || res.Meta.Operation != "estimate" {
			t.Errorf("Unexpected meta %+v", res.Meta)
		}
		if !strings.Contains(gen.prompt, "Dish: Masala Dosa") || !strings.Contains(gen.prompt, "Portion: 1 plate") {
			t.Errorf("Prompt is missing request details:\n%s", gen.prompt)
		}
	})

	t.Run("RequestMealTypeWins", func(t *testing.T) {
		gen := &mockTextGen{response: `{"meal_type": "snack", "calories": 200}`}
		res, err := Estimate(ctx, gen, EstimateRequest{DishName: "Upma", MealType: "Dinner"})
		if err != nil {
			t.Fatalf("Estimate failed: %v", err)
		}
		if res.Record.MealType != "dinner" {
			t.Errorf("Expected meal type dinner, got %s", res.Record.MealType)
		}
	})

	t.Run("EmptyDish", func(t *testing.T) {
		if _, err := Estimate(ctx, &mockTextGen{}, EstimateRequest{DishName: "  "}); err == nil {
			t.Fatal("Expected an error for an empty dish name")
		}
	})

	t.Run("LLMError", func(t *testing.T) {
		_, err := Estimate(ctx, &mockTextGen{err: fmt.Errorf("quota")}, EstimateRequest{DishName: "Poha"})
		if err == nil || !strings.Contains(err.Error(), "quota") {
			t.Fatalf("Expected wrapped LLM error, got %v", err)
		}
	})

	t.Run("BadJSON", func(t *testing.T) {
		res, err := Estimate(ctx, &mockTextGen{response: "not json"}, EstimateRequest{DishName: "Poha"})
		if err == nil {
			t.Fatal("Expected an unmarshal error")
		}
		if res.Meta.Usage.PromptTokens != 200 {
			t.Errorf("Expected usage to be reported on failure, got %+v", res.Meta)
		}
	})

	t.Run("NegativeValues", func(t *testing.T) {
		_, err := Estimate(ctx, &mockTextGen{response: `{"calories": -5}`}, EstimateRequest{DishName: "Poha"})
		if err == nil {
			t.Fatal("Expected a validation error")
		}
	})
}
