package adaptive

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ParseQuantity reads a quantity given as a number or a numeric string.
// Decimal commas ("1,5") and simple fractions ("1/2", "1 1/2") are accepted.
func ParseQuantity(v any) (float64, bool) {
	var f float64
	switch q := v.(type) {
	case float64:
		f = q
	case float32:
		f = float64(q)
	case int:
		f = float64(q)
	case int64:
		f = float64(q)
	case int32:
		f = float64(q)
	case json.Number:
		parsed, err := q.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, ok := parseQuantityString(q)
		if !ok {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseQuantityString(s string) (float64, bool) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}

	// "1 1/2" or "1/2"
	whole := 0.0
	frac := s
	if parts := strings.Fields(s); len(parts) == 2 {
		w, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, false
		}
		whole, frac = w, parts[1]
	}
	num, den, ok := strings.Cut(frac, "/")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return whole + n/d, true
}

// unitStep returns the rounding granularity for a unit.
func (u *UnitTables) unitStep(unit string) float64 {
	key := strings.ToLower(strings.TrimSpace(unit))
	switch {
	case slices.Contains(u.Mass, key):
		return u.MassStep
	case slices.Contains(u.Count, key):
		return u.CountStep
	}
	return u.OtherStep
}

// AdjustIngredientManual scales one ingredient quantity by an aggregate nutrition
// factor whose deviation from 1.0 is first scaled by intensity. The result is
// rounded per unit family: grams/ml to 5, unit counts to 0.25, others to 0.1.
// Unparseable quantities yield 0 with the unit unchanged.
func (e *Engine) AdjustIngredientManual(cantidad any, unidad string, factorTotal float64, intensity Intensity) IngredientQuantity {
	qty, ok := ParseQuantity(cantidad)
	if !ok {
		return IngredientQuantity{Cantidad: 0, Unidad: unidad}
	}

	factor := scaleDeviation(finite(factorTotal, 1), e.intensityScale(intensity))
	adjusted := math.Max(0, qty*factor)

	return IngredientQuantity{
		Cantidad: tidy(roundToStep(adjusted, e.tables.Units.unitStep(unidad))),
		Unidad:   unidad,
	}
}
