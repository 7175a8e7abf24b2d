package service

import (
	"context"
	"math"
	"strings"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/models"
)

// NutritionReader loads targets and meal plans.
type NutritionReader interface {
	GetTarget(ctx context.Context, athleteID int) (*models.NutritionTarget, error)
	ListIngredients(ctx context.Context, athleteID int) ([]models.MealIngredient, error)
}

// NutritionService personalizes daily targets and meal plan quantities.
type NutritionService struct {
	engines   EngineSource
	athletes  AthleteReader
	nutrition NutritionReader
}

// NewNutritionService wires the service.
func NewNutritionService(engines EngineSource, athletes AthleteReader, nutrition NutritionReader) *NutritionService {
	return &NutritionService{engines: engines, athletes: athletes, nutrition: nutrition}
}

// Preview computes nutrition factors without touching storage.
func (s *NutritionService) Preview(profile adaptive.AthleteProfile, intensity adaptive.Intensity) (adaptive.NutritionFactors, error) {
	if err := ValidateProfile(profile); err != nil {
		return adaptive.NutritionFactors{}, err
	}
	return s.engines.Engine().ReconstructNutrition(profile, intensity), nil
}

// AdjustIngredient scales one free-standing quantity.
func (s *NutritionService) AdjustIngredient(cantidad any, unidad string, factorTotal float64, intensity adaptive.Intensity) adaptive.IngredientQuantity {
	return s.engines.Engine().AdjustIngredientManual(cantidad, unidad, factorTotal, intensity)
}

// Plan personalizes the athlete's stored target and every ingredient line.
//
// Ingredients follow the raw (pre-intensity) factor of their dominant macro,
// because AdjustIngredientManual applies the intensity itself.
func (s *NutritionService) Plan(ctx context.Context, athleteID int, intensity adaptive.Intensity) (*models.NutritionPlan, error) {
	athlete, err := s.athletes.GetByID(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	target, err := s.nutrition.GetTarget(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.nutrition.ListIngredients(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	engine := s.engines.Engine()
	factors := engine.ReconstructNutrition(athlete.Profile(), intensity)

	plan := &models.NutritionPlan{
		AthleteID: athleteID,
		Factors:   factors,
		Target: models.NutritionTarget{
			AthleteID: athleteID,
			Kcal:      math.Round(target.Kcal * factors.Kcal),
			ProteinG:  math.Round(target.ProteinG * factors.Protein),
			CarbsG:    math.Round(target.CarbsG * factors.Carbs),
			FatsG:     math.Round(target.FatsG * factors.Fats),
		},
		Ingredients: make([]models.AdjustedIngredient, 0, len(ingredients)),
	}
	for _, in := range ingredients {
		plan.Ingredients = append(plan.Ingredients, models.AdjustedIngredient{
			MealIngredient: in,
			Adjusted:       engine.AdjustIngredientManual(in.Cantidad, in.Unidad, macroFactor(factors.Raw, in.Macro), factors.Intensity),
		})
	}
	return plan, nil
}

func macroFactor(m adaptive.Macros, macro string) float64 {
	switch strings.ToLower(strings.TrimSpace(macro)) {
	case models.MacroProtein:
		return m.Protein
	case models.MacroCarbs:
		return m.Carbs
	case models.MacroFats:
		return m.Fats
	}
	return m.Kcal
}
