package adaptive

import (
	"math"
	"slices"
)

// ReconstructNutrition personalizes calorie and macronutrient factors.
//
// Activity, age, gender and BMI factors are multiplied together, their distance
// from 1.0 is scaled by the intensity, and each factor is clamped to its bounds.
func (e *Engine) ReconstructNutrition(profile AthleteProfile, intensity Intensity) NutritionFactors {
	n := &e.tables.Nutrition
	intensity = intensity.normalize()

	f := NeutralMacros()
	if a, ok := n.Activity[profile.ActivityLevel.normalize()]; ok {
		f = f.Mul(a)
	}

	// Only the first age and BMI count here.
	age := n.DefaultAge
	if len(profile.Ages) > 0 {
		age = profile.Ages[0]
	}
	switch {
	case age < n.Youth.Age:
		f = f.Mul(n.Youth.Factors)
	case age > n.Senior.Age:
		f = f.Mul(n.Senior.Factors)
	}

	genders := make([]Gender, 0, len(profile.Genders))
	for _, g := range profile.Genders {
		genders = append(genders, g.normalize())
	}
	if slices.Contains(genders, Male) {
		f = f.Mul(n.Genders[Male])
	}
	if slices.Contains(genders, Female) {
		f = f.Mul(n.Genders[Female])
	}

	bmi := n.DefaultBMI
	if len(profile.BMIs) > 0 && profile.BMIs[0] > 0 {
		bmi = profile.BMIs[0]
	}
	switch {
	case bmi < n.Underweight.Threshold:
		f = f.Mul(n.Underweight.Factors)
	case bmi >= n.Obese.Threshold:
		f = f.Mul(n.Obese.Factors)
	}

	s := e.intensityScale(intensity)
	kcal, _ := n.Clamp.Kcal.Clamp(scaleDeviation(f.Kcal, s))
	protein, _ := n.Clamp.Protein.Clamp(scaleDeviation(f.Protein, s))
	carbs, _ := n.Clamp.Carbs.Clamp(scaleDeviation(f.Carbs, s))
	fats, _ := n.Clamp.Fats.Clamp(scaleDeviation(f.Fats, s))

	return NutritionFactors{
		Kcal:          kcal,
		Protein:       protein,
		Carbs:         carbs,
		Fats:          fats,
		TargetPercent: int(math.Round(kcal * 100)),
		Intensity:     intensity,
		Raw:           f,
	}
}
