package adaptive

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustIngredientManual(t *testing.T) {
	tests := []struct {
		name      string
		cantidad  any
		unidad    string
		factor    float64
		intensity Intensity
		want      IngredientQuantity
	}{
		{"grams round to 5", 103, "g", 0.9, Intermedio, IngredientQuantity{95, "g"}},
		{"unit counts round to quarter", 2, "unidad", 0.9, Intermedio, IngredientQuantity{1.75, "unidad"}},
		{"ml with light intensity", "200", "ml", 0.9, Leve, IngredientQuantity{195, "ml"}},
		{"decimal comma, other unit to tenth", "1,5", "taza", 0.8, Intermedio, IngredientQuantity{1.2, "taza"}},
		{"fraction and high intensity", "1/2", "un", 1.2, Alto, IngredientQuantity{0.75, "un"}},
		{"mixed fraction", "1 1/2", "u", 1, Intermedio, IngredientQuantity{1.5, "u"}},
		{"unit match is case-insensitive", 100, " G ", 1.1, Intermedio, IngredientQuantity{110, " G "}},
		{"invalid quantity is zero", "mucho", "g", 0.9, Intermedio, IngredientQuantity{0, "g"}},
		{"nil quantity is zero", nil, "cda", 0.9, Alto, IngredientQuantity{0, "cda"}},
		{"nan factor is neutral", 40, "g", math.NaN(), Alto, IngredientQuantity{40, "g"}},
		{"never negative", 100, "g", 0.1, Alto, IngredientQuantity{0, "g"}},
		{"json number", json.Number("250"), "gramos", 1.2, Leve, IngredientQuantity{265, "gramos"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustIngredientManual(tt.cantidad, tt.unidad, tt.factor, tt.intensity)
			assert.Equal(t, tt.want.Unidad, got.Unidad)
			assert.InDelta(t, tt.want.Cantidad, got.Cantidad, 1e-9)
		})
	}
}

func TestAdjustIngredientManual_StepsAreExact(t *testing.T) {
	for q := 1; q <= 500; q += 7 {
		grams := AdjustIngredientManual(q, "g", 0.87, Alto)
		assert.Zero(t, math.Mod(grams.Cantidad, 5), "grams %v", grams.Cantidad)

		units := AdjustIngredientManual(float64(q)/10, "unidades", 0.87, Alto)
		assert.Zero(t, math.Mod(units.Cantidad, 0.25), "units %v", units.Cantidad)
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{12.5, 12.5, true},
		{float32(2), 2, true},
		{int64(7), 7, true},
		{" 3.25 ", 3.25, true},
		{"0,5", 0.5, true},
		{"3/4", 0.75, true},
		{"2 1/4", 2.25, true},
		{"1/0", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{math.Inf(1), 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseQuantity(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %v", tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, "input %v", tt.in)
	}
}
