package models

import "adaptcoach/internal/adaptive"

// NutritionTarget is the athlete's unadjusted daily target.
type NutritionTarget struct {
	AthleteID int     `json:"athlete_id"`
	Kcal      float64 `json:"kcal"`
	ProteinG  float64 `json:"protein_g"`
	CarbsG    float64 `json:"carbs_g"`
	FatsG     float64 `json:"fats_g"`
}

// Dominant macros an ingredient line can follow.
const (
	MacroKcal    = "kcal"
	MacroProtein = "protein"
	MacroCarbs   = "carbs"
	MacroFats    = "fats"
)

// MealIngredient is one line of the athlete's meal plan. Cantidad is kept as
// text because coaches type "1/2" or "1,5" as often as plain numbers.
type MealIngredient struct {
	ID        int    `json:"id"`
	AthleteID int    `json:"athlete_id"`
	Meal      string `json:"meal"`
	Name      string `json:"name"`
	Cantidad  string `json:"cantidad"`
	Unidad    string `json:"unidad"`
	Macro     string `json:"macro"`
}

// AdjustedIngredient is an ingredient line after personalization.
type AdjustedIngredient struct {
	MealIngredient
	Adjusted adaptive.IngredientQuantity `json:"adjusted"`
}

// NutritionPlan is a personalized daily target with its ingredient lines.
type NutritionPlan struct {
	AthleteID   int                       `json:"athlete_id"`
	Factors     adaptive.NutritionFactors `json:"factors"`
	Target      NutritionTarget           `json:"target"`
	Ingredients []AdjustedIngredient      `json:"ingredients"`
}
