package bot

import (
	"fmt"
	"strconv"
	"strings"

	"adaptcoach/internal/i18n"
	"adaptcoach/internal/models"
)

func formatLoad(kg float64, lang i18n.Language) string {
	if kg <= 0 {
		return i18n.T("bot.bodyweight", lang)
	}
	return strconv.FormatFloat(kg, 'f', -1, 64) + " kg"
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// formatPlan renders prescriptions as a numbered list.
func formatPlan(prescriptions []models.Prescription, lang i18n.Language) string {
	var sb strings.Builder
	sb.WriteString(i18n.T("bot.plan_header", lang))
	for i, p := range prescriptions {
		final := p.Result.Final
		sb.WriteString("\n\n")
		sb.WriteString(i18n.Tf("bot.plan_line", lang, i+1, p.Exercise, final.Series, final.Reps, formatLoad(final.Load, lang)))
		if p.Result.WasCapped.Load || p.Result.WasCapped.Series {
			sb.WriteString(" (" + i18n.T("bot.capped", lang) + ")")
		}
	}
	return sb.String()
}

// formatNutrition renders the day's target and, when present, the adjusted ingredients grouped by meal.
func formatNutrition(plan *models.NutritionPlan, lang i18n.Language) string {
	var sb strings.Builder
	t := plan.Target
	sb.WriteString(i18n.Tf("bot.nutrition_header", lang, plan.Factors.Intensity, plan.Factors.TargetPercent))
	sb.WriteString("\n")
	sb.WriteString(i18n.Tf("bot.nutrition_line", lang, t.Kcal, t.ProteinG, t.CarbsG, t.FatsG))

	if len(plan.Ingredients) == 0 {
		return sb.String()
	}
	sb.WriteString("\n\n")
	sb.WriteString(i18n.T("bot.ingredients_header", lang))

	meal := ""
	for _, in := range plan.Ingredients {
		if in.Meal != meal {
			meal = in.Meal
			fmt.Fprintf(&sb, "\n%s:", meal)
		}
		fmt.Fprintf(&sb, "\n- %s: %s %s", in.Name, formatQuantity(in.Adjusted.Cantidad), in.Adjusted.Unidad)
	}
	return sb.String()
}
