// Package adaptive personalizes baseline exercise prescriptions and nutrition
// targets for one athlete from static lookup tables.
//
// Every function here is pure: no I/O, no shared mutable state. An Engine only
// reads its Tables, so one Engine may serve any number of goroutines.
package adaptive

import "math"

// Engine evaluates the pipelines against one set of tables.
type Engine struct {
	tables *Tables
}

// NewEngine returns an engine over t. A nil t uses DefaultTables.
func NewEngine(t *Tables) *Engine {
	if t == nil {
		t = DefaultTables()
	}
	return &Engine{tables: t}
}

// Tables returns the engine's tables. They must be treated as read-only.
func (e *Engine) Tables() *Tables {
	return e.tables
}

var defaultEngine = NewEngine(nil)

// ReconstructPrescription runs the exercise pipeline with the built-in tables.
func ReconstructPrescription(base Baseline, profile AthleteProfile, ruleIDs ...int) AdaptiveResult {
	return defaultEngine.ReconstructPrescription(base, profile, ruleIDs...)
}

// ReconstructNutrition runs the nutrition pipeline with the built-in tables.
func ReconstructNutrition(profile AthleteProfile, intensity Intensity) NutritionFactors {
	return defaultEngine.ReconstructNutrition(profile, intensity)
}

// AdjustIngredientManual adjusts one ingredient line with the built-in tables.
func AdjustIngredientManual(cantidad any, unidad string, factorTotal float64, intensity Intensity) IngredientQuantity {
	return defaultEngine.AdjustIngredientManual(cantidad, unidad, factorTotal, intensity)
}

// intensityScale returns how strongly deviations from 1.0 are applied.
func (e *Engine) intensityScale(i Intensity) float64 {
	if s, ok := e.tables.Intensity[i.normalize()]; ok {
		return s
	}
	return 1
}

// scaleDeviation re-expresses factor as its distance from 1.0 scaled by s.
func scaleDeviation(factor, s float64) float64 {
	return 1 - (1-factor)*s
}

// roundToStep rounds v to the nearest multiple of step.
func roundToStep(v, step float64) float64 {
	return math.Round(v/step) * step
}

// round2 rounds to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// tidy drops binary noise left by step rounding (9.3000000000000007 -> 9.3).
func tidy(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// finite replaces NaN and infinities with def.
func finite(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
