package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"nutrition-advisor/internal/app"
	"nutrition-advisor/internal/meal"
	"nutrition-advisor/internal/metrics"
	"nutrition-advisor/internal/nutrient"
	"nutrition-advisor/internal/profile"
	"nutrition-advisor/internal/recommend"
	"nutrition-advisor/internal/scoring"
)

const helpText = `🥗 *Nutrition Advisor*

/profile key=value ... - set or show your profile
/profile reset - delete your profile
/gaps - nutrition report for the last days
/plan - daily meal plan and advice
/score <dish> - score a dish from the menu

Send any dish name to get it scored.`

const profileUsage = "Usage: `/profile age=30 gender=male weight=70 height=175 activity=moderate goals=heart_health restrictions=low_sodium`"

var priorityIcons = map[nutrient.Priority]string{
	nutrient.PriorityHigh:   "🔴",
	nutrient.PriorityMedium: "🟠",
	nutrient.PriorityLow:    "🟡",
}

// parseProfileArgs applies key=value pairs on top of base (which may be nil) and validates the result.
func parseProfileArgs(args string, base *profile.UserProfile) (profile.UserProfile, error) {
	var p profile.UserProfile
	if base != nil {
		p = *base
	}

	for _, field := range strings.Fields(args) {
		key, value, ok := strings.Cut(field, "=")
		if !ok || value == "" {
			return profile.UserProfile{}, fmt.Errorf("expected key=value, got %q", field)
		}

		var err error
		switch strings.ToLower(key) {
		case "age":
			p.Age, err = strconv.Atoi(value)
		case "gender":
			p.Gender = profile.Gender(strings.ToLower(value))
		case "weight":
			p.Weight, err = strconv.ParseFloat(value, 64)
		case "height":
			p.Height, err = strconv.ParseFloat(value, 64)
		case "activity", "activitylevel":
			p.ActivityLevel = profile.ActivityLevel(strings.ToLower(value))
		case "goals":
			p.HealthGoals = splitTags(value)
		case "restrictions":
			p.DietaryRestrictions = splitTags(value)
		default:
			return profile.UserProfile{}, fmt.Errorf("unknown profile field %q", key)
		}
		if err != nil {
			return profile.UserProfile{}, fmt.Errorf("invalid value for %s: %q", key, value)
		}
	}

	if err := p.Validate(); err != nil {
		return profile.UserProfile{}, err
	}
	return p, nil
}

// splitTags parses a comma list; "none" clears it.
func splitTags(value string) []string {
	if strings.EqualFold(value, "none") {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(value, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, strings.ToLower(t))
		}
	}
	return tags
}

func formatProfile(p profile.UserProfile) string {
	var sb strings.Builder
	sb.WriteString("👤 *Your Profile*\n\n")
	sb.WriteString(fmt.Sprintf("• Age: %d\n", p.Age))
	sb.WriteString(fmt.Sprintf("• Gender: %s\n", p.Gender))
	sb.WriteString(fmt.Sprintf("• Weight: %g kg\n", p.Weight))
	sb.WriteString(fmt.Sprintf("• Height: %g cm\n", p.Height))
	sb.WriteString(fmt.Sprintf("• Activity: %s\n", escape(string(p.ActivityLevel))))
	if len(p.HealthGoals) > 0 {
		sb.WriteString(fmt.Sprintf("• Goals: %s\n", escape(strings.Join(p.HealthGoals, ", "))))
	}
	if len(p.DietaryRestrictions) > 0 {
		sb.WriteString(fmt.Sprintf("• Restrictions: %s\n", escape(strings.Join(p.DietaryRestrictions, ", "))))
	}
	return sb.String()
}

func formatAnalysis(r app.NutritionReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Nutrition Report* (%d meals)\n\n", r.MealCount))
	sb.WriteString(fmt.Sprintf("*Score:* %d (%s, %s)\n\n", r.Analysis.OverallScore, r.Grade.Grade, r.Grade.Description))

	for _, pct := range r.Analysis.Percentages {
		mark := ""
		switch {
		case r.Analysis.IsDeficient(pct.Nutrient):
			mark = " ⬇️"
		case r.Analysis.IsExcessive(pct.Nutrient):
			mark = " ⬆️"
		}
		sb.WriteString(fmt.Sprintf("• %s: %d%%%s\n", pct.Nutrient, pct.Value, mark))
	}

	if len(r.Analysis.Recommendations) > 0 {
		sb.WriteString("\n")
		for _, rec := range r.Analysis.Recommendations {
			sb.WriteString(fmt.Sprintf("💡 %s\n", rec))
		}
	}
	return sb.String()
}

func formatGaps(gaps []nutrient.Gap) string {
	if len(gaps) == 0 {
		return "✅ *No nutritional gaps found.*"
	}

	var sb strings.Builder
	sb.WriteString("🧩 *Nutritional Gaps*\n\n")
	for _, g := range gaps {
		unit := ""
		if d, ok := g.Descriptor(); ok {
			unit = d.Unit
		}
		sb.WriteString(fmt.Sprintf("%s *%s*: %.0f/%.0f %s (%.0f%% short)\n",
			priorityIcons[g.Priority], g.Nutrient, g.CurrentIntake, g.RecommendedIntake, unit, g.DeficitPercentage))
		if len(g.FoodSources) > 0 {
			sb.WriteString(fmt.Sprintf("_Try: %s_\n", strings.Join(g.FoodSources, ", ")))
		}
	}
	return sb.String()
}

// formatPlanMarkdownParts renders the daily plan and the advice as two messages.
func formatPlanMarkdownParts(set recommend.RecommendationSet) (string, string) {
	var pb strings.Builder
	pb.WriteString("📅 *Daily Meal Plan*\n\n")

	if plan := set.DailyMealPlan; plan != nil {
		writeSlot(&pb, "Breakfast", plan.Breakfast)
		writeSlot(&pb, "Lunch", plan.Lunch)
		writeSlot(&pb, "Dinner", plan.Dinner)
		if plan.Snack != nil {
			writeSlot(&pb, "Snack", *plan.Snack)
		}
		pb.WriteString(fmt.Sprintf("⭐ *Plan Score:* %d\n", plan.PlanScore))
		pb.WriteString(fmt.Sprintf("🔥 *Total:* %.0f kcal\n", plan.TotalNutrition.Calories))
		pb.WriteString(fmt.Sprintf("_%s_\n", plan.BalanceAnalysis))
	} else {
		pb.WriteString("_The menu needs breakfast, lunch and dinner dishes to build a plan._\n")
		for _, r := range set.MealRecommendations {
			pb.WriteString(fmt.Sprintf("• %s (%d)\n", escape(r.Meal.DishName), r.Score))
		}
	}

	var ab strings.Builder
	ab.WriteString("💡 *Advice*\n\n")
	for _, a := range set.GeneralAdvice {
		ab.WriteString(fmt.Sprintf("• %s\n", a))
	}
	if len(set.WeeklyGoals) > 0 {
		ab.WriteString("\n🎯 *Weekly Goals*\n\n")
		for _, g := range set.WeeklyGoals {
			ab.WriteString(fmt.Sprintf("• %s\n", g))
		}
	}

	return pb.String(), ab.String()
}

func writeSlot(sb *strings.Builder, slot string, r recommend.MealRecommendation) {
	sb.WriteString(fmt.Sprintf("*%s*: %s (%d)\n", slot, escape(r.Meal.DishName), r.Score))
	if r.Reason != "" {
		sb.WriteString(fmt.Sprintf("_%s_\n", r.Reason))
	}
	sb.WriteString("\n")
}

func formatScore(rec meal.Record, score scoring.MealScore, estimated bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🍽 *%s*\n", escape(rec.DishName)))
	if estimated {
		sb.WriteString("_Estimated nutrients_\n")
	}
	sb.WriteString(fmt.Sprintf("\n*Score:* %d (%s, %s)\n", score.OverallScore, score.Grade, score.HealthImpact))
	sb.WriteString(fmt.Sprintf("%.0f kcal • P %.1fg • C %.1fg • F %.1fg\n\n", rec.Calories, rec.Protein, rec.Carbohydrates, rec.Fats))

	for _, s := range score.Strengths {
		sb.WriteString(fmt.Sprintf("✅ %s\n", s))
	}
	for _, i := range score.Improvements {
		sb.WriteString(fmt.Sprintf("⚠️ %s\n", i))
	}
	sb.WriteString(fmt.Sprintf("\n%s", score.Recommendation))
	return sb.String()
}

func formatMetrics(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d runs, %d items)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalRuns, d.TotalItems))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", health.Uptime))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	for _, s := range health.Stores {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", escape(s.Name), s.Size))
	}
	return sb.String()
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escape neutralises legacy Markdown control characters in user-provided text.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}
