package adaptive

import (
	"errors"
	"fmt"
	"math"
)

// Multiplier is a load/series/reps factor triple. 1.0 means no change.
type Multiplier struct {
	Load   float64 `yaml:"load" json:"peso"`
	Series float64 `yaml:"series" json:"series"`
	Reps   float64 `yaml:"reps" json:"reps"`
}

// Identity returns the neutral multiplier.
func Identity() Multiplier {
	return Multiplier{Load: 1, Series: 1, Reps: 1}
}

// Mul multiplies component-wise.
func (m Multiplier) Mul(o Multiplier) Multiplier {
	return Multiplier{Load: m.Load * o.Load, Series: m.Series * o.Series, Reps: m.Reps * o.Reps}
}

func (m Multiplier) positive() bool {
	return m.Load > 0 && m.Series > 0 && m.Reps > 0
}

// Macros is a calories/protein/carbs/fats factor set.
type Macros struct {
	Kcal    float64 `yaml:"kcal" json:"kcal"`
	Protein float64 `yaml:"protein" json:"protein"`
	Carbs   float64 `yaml:"carbs" json:"carbs"`
	Fats    float64 `yaml:"fats" json:"fats"`
}

// NeutralMacros returns the no-change macro set.
func NeutralMacros() Macros {
	return Macros{Kcal: 1, Protein: 1, Carbs: 1, Fats: 1}
}

// Mul multiplies component-wise.
func (m Macros) Mul(o Macros) Macros {
	return Macros{
		Kcal:    m.Kcal * o.Kcal,
		Protein: m.Protein * o.Protein,
		Carbs:   m.Carbs * o.Carbs,
		Fats:    m.Fats * o.Fats,
	}
}

func (m Macros) positive() bool {
	return m.Kcal > 0 && m.Protein > 0 && m.Carbs > 0 && m.Fats > 0
}

// Bounds is an inclusive clamp range.
type Bounds struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Clamp restricts v to the range and reports whether it had to.
func (b Bounds) Clamp(v float64) (float64, bool) {
	switch {
	case v < b.Min:
		return b.Min, true
	case v > b.Max:
		return b.Max, true
	}
	return v, false
}

func (b Bounds) valid() bool {
	return b.Min > 0 && b.Min <= b.Max
}

// AgeBracket covers ages below Under. Under == 0 marks the open-ended last bracket.
type AgeBracket struct {
	Label      string     `yaml:"label"`
	Under      int        `yaml:"under"`
	Multiplier Multiplier `yaml:"multiplier"`
}

// WeightBracket covers body weights (kg) below Under. Under == 0 marks the last bracket.
type WeightBracket struct {
	Label      string     `yaml:"label"`
	Under      float64    `yaml:"under"`
	Multiplier Multiplier `yaml:"multiplier"`
}

// InjuryRule is one canonical injury with its medium-severity multiplier.
// Synonyms are folded substrings matched against the injury name.
type InjuryRule struct {
	Name     string     `yaml:"name"`
	Synonyms []string   `yaml:"synonyms"`
	Base     Multiplier `yaml:"base"`
}

// HighSeverityScale further scales an injury's base load and series on high severity.
type HighSeverityScale struct {
	Load   float64 `yaml:"load"`
	Series float64 `yaml:"series"`
}

// ExerciseTables holds every constant of the exercise pipeline.
type ExerciseTables struct {
	Levels         map[TrainingLevel]Multiplier `yaml:"levels"`
	DefaultAge     int                          `yaml:"default_age"`
	AgeBrackets    []AgeBracket                 `yaml:"age_brackets"`
	WeightBrackets []WeightBracket              `yaml:"weight_brackets"`
	Genders        map[Gender]Multiplier        `yaml:"genders"`
	Injuries       []InjuryRule                 `yaml:"injuries"`
	GenericInjury  Multiplier                   `yaml:"generic_injury"`
	LowSeverity    Multiplier                   `yaml:"low_severity"`
	HighSeverity   HighSeverityScale            `yaml:"high_severity"`
	LoadClamp      Bounds                       `yaml:"load_clamp"`
	SeriesClamp    Bounds                       `yaml:"series_clamp"`
	LoadStep       float64                      `yaml:"load_step"`
}

// AgeAdjustment applies to ages strictly below (youth) or above (senior) Age.
type AgeAdjustment struct {
	Age     int    `yaml:"age"`
	Factors Macros `yaml:"factors"`
}

// BMIAdjustment applies below (underweight) or at-or-above (obese) Threshold.
type BMIAdjustment struct {
	Threshold float64 `yaml:"threshold"`
	Factors   Macros  `yaml:"factors"`
}

// MacroBounds clamps each nutrition factor independently.
type MacroBounds struct {
	Kcal    Bounds `yaml:"kcal"`
	Protein Bounds `yaml:"protein"`
	Carbs   Bounds `yaml:"carbs"`
	Fats    Bounds `yaml:"fats"`
}

// NutritionTables holds every constant of the nutrition pipeline.
type NutritionTables struct {
	Activity    map[ActivityLevel]Macros `yaml:"activity"`
	DefaultAge  int                      `yaml:"default_age"`
	Youth       AgeAdjustment            `yaml:"youth"`
	Senior      AgeAdjustment            `yaml:"senior"`
	Genders     map[Gender]Macros        `yaml:"genders"`
	DefaultBMI  float64                  `yaml:"default_bmi"`
	Underweight BMIAdjustment            `yaml:"underweight"`
	Obese       BMIAdjustment            `yaml:"obese"`
	Clamp       MacroBounds              `yaml:"clamp"`
}

// UnitTables controls ingredient rounding per unit family.
type UnitTables struct {
	Mass      []string `yaml:"mass"`
	Count     []string `yaml:"count"`
	MassStep  float64  `yaml:"mass_step"`
	CountStep float64  `yaml:"count_step"`
	OtherStep float64  `yaml:"other_step"`
}

// Tables is the complete, read-only configuration of the engine.
// Callers must not mutate a Tables value once an Engine uses it.
type Tables struct {
	Exercise  ExerciseTables        `yaml:"exercise"`
	Nutrition NutritionTables       `yaml:"nutrition"`
	Intensity map[Intensity]float64 `yaml:"intensity"`
	Units     UnitTables            `yaml:"units"`
}

func triple(load, series, reps float64) Multiplier {
	return Multiplier{Load: load, Series: series, Reps: reps}
}

func macros(kcal, protein, carbs, fats float64) Macros {
	return Macros{Kcal: kcal, Protein: protein, Carbs: carbs, Fats: fats}
}

// DefaultTables returns a fresh copy of the built-in lookup tables.
func DefaultTables() *Tables {
	return &Tables{
		Exercise: ExerciseTables{
			Levels: map[TrainingLevel]Multiplier{
				Beginner:     triple(0.85, 0.80, 0.80),
				Intermediate: triple(1.00, 1.00, 1.00),
				Advanced:     triple(1.10, 1.20, 1.20),
			},
			DefaultAge: 30,
			AgeBrackets: []AgeBracket{
				{Label: "<18", Under: 18, Multiplier: triple(0.85, 0.90, 1.00)},
				{Label: "18-25", Under: 26, Multiplier: triple(1.00, 1.00, 1.00)},
				{Label: "26-35", Under: 36, Multiplier: triple(1.00, 1.00, 1.00)},
				{Label: "36-45", Under: 46, Multiplier: triple(1.00, 1.00, 1.00)},
				{Label: "46-55", Under: 56, Multiplier: triple(0.95, 0.95, 1.00)},
				{Label: "56-65", Under: 66, Multiplier: triple(0.90, 0.90, 0.95)},
				{Label: ">65", Multiplier: triple(0.80, 0.85, 0.90)},
			},
			WeightBrackets: []WeightBracket{
				{Label: "<50", Under: 50, Multiplier: triple(0.85, 0.95, 1.00)},
				{Label: "50-65", Under: 66, Multiplier: triple(0.95, 1.00, 1.00)},
				{Label: "66-80", Under: 81, Multiplier: triple(1.00, 1.00, 1.00)},
				{Label: "81-95", Under: 96, Multiplier: triple(1.05, 1.00, 1.00)},
				{Label: "96-110", Under: 111, Multiplier: triple(1.05, 1.00, 0.95)},
				{Label: ">110", Multiplier: triple(1.00, 0.95, 0.90)},
			},
			Genders: map[Gender]Multiplier{
				Male:   triple(1.00, 1.00, 1.00),
				Female: triple(0.90, 1.00, 1.00),
			},
			Injuries: []InjuryRule{
				{Name: "Lumbalgia", Synonyms: []string{"lumbalgia", "lumbar", "espalda baja", "lower back", "low back"}, Base: triple(0.75, 0.85, 0.90)},
				{Name: "Rodilla", Synonyms: []string{"rodilla", "knee", "menisco", "ligamento cruzado", "acl"}, Base: triple(0.85, 0.90, 0.90)},
				{Name: "Hombro", Synonyms: []string{"hombro", "shoulder", "manguito", "rotator"}, Base: triple(0.80, 0.85, 0.90)},
				{Name: "Cervical", Synonyms: []string{"cervical", "cuello", "neck"}, Base: triple(0.80, 0.85, 0.90)},
				{Name: "Cadera", Synonyms: []string{"cadera", "hip"}, Base: triple(0.80, 0.85, 0.90)},
				{Name: "Tobillo", Synonyms: []string{"tobillo", "ankle"}, Base: triple(0.85, 0.90, 0.90)},
				{Name: "Muneca", Synonyms: []string{"muneca", "wrist"}, Base: triple(0.85, 0.90, 0.95)},
				{Name: "Codo", Synonyms: []string{"codo", "elbow", "epicondil"}, Base: triple(0.85, 0.90, 0.95)},
			},
			GenericInjury: triple(0.85, 0.90, 0.90),
			LowSeverity:   triple(0.90, 0.95, 0.95),
			HighSeverity:  HighSeverityScale{Load: 0.80, Series: 0.85},
			LoadClamp:     Bounds{Min: 0.50, Max: 1.45},
			SeriesClamp:   Bounds{Min: 0.60, Max: 1.70},
			LoadStep:      2.5,
		},
		Nutrition: NutritionTables{
			Activity: map[ActivityLevel]Macros{
				Sedentary:        macros(0.90, 1.00, 0.85, 0.95),
				LightlyActive:    macros(0.95, 1.00, 0.95, 1.00),
				ModeratelyActive: macros(1.00, 1.00, 1.00, 1.00),
				Active:           macros(1.10, 1.05, 1.10, 1.00),
				VeryActive:       macros(1.20, 1.10, 1.25, 1.05),
			},
			DefaultAge: 30,
			Youth:      AgeAdjustment{Age: 18, Factors: macros(1.10, 1.05, 1.10, 1.05)},
			Senior:     AgeAdjustment{Age: 50, Factors: macros(0.95, 1.05, 0.95, 1.00)},
			Genders: map[Gender]Macros{
				Male:   macros(1.05, 1.00, 1.05, 1.00),
				Female: macros(0.90, 1.00, 0.90, 1.00),
			},
			DefaultBMI:  24,
			Underweight: BMIAdjustment{Threshold: 18.5, Factors: macros(1.15, 1.05, 1.15, 1.05)},
			Obese:       BMIAdjustment{Threshold: 30, Factors: macros(0.90, 1.05, 0.85, 0.95)},
			Clamp: MacroBounds{
				Kcal:    Bounds{Min: 0.75, Max: 1.30},
				Protein: Bounds{Min: 0.85, Max: 1.20},
				Carbs:   Bounds{Min: 0.70, Max: 1.30},
				Fats:    Bounds{Min: 0.75, Max: 1.25},
			},
		},
		Intensity: map[Intensity]float64{
			Leve:       0.3,
			Intermedio: 1.0,
			Alto:       1.5,
		},
		Units: UnitTables{
			Mass: []string{
				"g", "gr", "grs", "gramo", "gramos", "gram", "grams",
				"ml", "mililitro", "mililitros", "milliliter", "milliliters",
			},
			Count:     []string{"un", "u", "unidad", "unidades", "unit", "units"},
			MassStep:  5,
			CountStep: 0.25,
			OtherStep: 0.1,
		},
	}
}

// Validate checks the invariants every table must hold before an engine may use it.
func (t *Tables) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	ex := t.Exercise
	for _, lvl := range []TrainingLevel{Beginner, Intermediate, Advanced} {
		if mult, ok := ex.Levels[lvl]; !ok || !mult.positive() {
			add("exercise.levels[%s]: missing or non-positive", lvl)
		}
	}
	if len(ex.AgeBrackets) == 0 {
		add("exercise.age_brackets: empty")
	}
	for i, b := range ex.AgeBrackets {
		if !b.Multiplier.positive() {
			add("exercise.age_brackets[%d]: non-positive multiplier", i)
		}
		last := i == len(ex.AgeBrackets)-1
		if !last && i > 0 && b.Under <= ex.AgeBrackets[i-1].Under {
			add("exercise.age_brackets[%d]: bounds not ascending", i)
		}
		if !last && b.Under == 0 {
			add("exercise.age_brackets[%d]: only the last bracket may be open", i)
		}
	}
	if len(ex.WeightBrackets) == 0 {
		add("exercise.weight_brackets: empty")
	}
	for i, b := range ex.WeightBrackets {
		if !b.Multiplier.positive() {
			add("exercise.weight_brackets[%d]: non-positive multiplier", i)
		}
		last := i == len(ex.WeightBrackets)-1
		if !last && i > 0 && b.Under <= ex.WeightBrackets[i-1].Under {
			add("exercise.weight_brackets[%d]: bounds not ascending", i)
		}
		if !last && b.Under == 0 {
			add("exercise.weight_brackets[%d]: only the last bracket may be open", i)
		}
	}
	for _, g := range []Gender{Male, Female} {
		if mult, ok := ex.Genders[g]; !ok || !mult.positive() {
			add("exercise.genders[%s]: missing or non-positive", g)
		}
	}
	for i, rule := range ex.Injuries {
		if rule.Name == "" || len(rule.Synonyms) == 0 {
			add("exercise.injuries[%d]: name and synonyms are required", i)
		}
		if !rule.Base.positive() {
			add("exercise.injuries[%d]: non-positive base", i)
		}
	}
	if !ex.GenericInjury.positive() {
		add("exercise.generic_injury: non-positive")
	}
	if !ex.LowSeverity.positive() {
		add("exercise.low_severity: non-positive")
	}
	if ex.HighSeverity.Load <= 0 || ex.HighSeverity.Series <= 0 {
		add("exercise.high_severity: non-positive")
	}
	if !ex.LoadClamp.valid() {
		add("exercise.load_clamp: need 0 < min <= max")
	}
	if !ex.SeriesClamp.valid() {
		add("exercise.series_clamp: need 0 < min <= max")
	}
	if ex.LoadStep <= 0 {
		add("exercise.load_step: must be positive")
	}

	n := t.Nutrition
	for _, lvl := range []ActivityLevel{Sedentary, LightlyActive, ModeratelyActive, Active, VeryActive} {
		if f, ok := n.Activity[lvl]; !ok || !f.positive() {
			add("nutrition.activity[%s]: missing or non-positive", lvl)
		}
	}
	if !n.Youth.Factors.positive() || !n.Senior.Factors.positive() {
		add("nutrition.youth/senior: non-positive factors")
	}
	for _, g := range []Gender{Male, Female} {
		if f, ok := n.Genders[g]; !ok || !f.positive() {
			add("nutrition.genders[%s]: missing or non-positive", g)
		}
	}
	if !n.Underweight.Factors.positive() || !n.Obese.Factors.positive() {
		add("nutrition.underweight/obese: non-positive factors")
	}
	if n.Underweight.Threshold >= n.Obese.Threshold {
		add("nutrition: underweight threshold must be below obese threshold")
	}
	for name, b := range map[string]Bounds{
		"kcal": n.Clamp.Kcal, "protein": n.Clamp.Protein, "carbs": n.Clamp.Carbs, "fats": n.Clamp.Fats,
	} {
		if !b.valid() {
			add("nutrition.clamp.%s: need 0 < min <= max", name)
		}
	}

	for _, i := range []Intensity{Leve, Intermedio, Alto} {
		if s, ok := t.Intensity[i]; !ok || s < 0 || math.IsNaN(s) {
			add("intensity[%s]: missing or negative", i)
		}
	}

	u := t.Units
	if u.MassStep <= 0 || u.CountStep <= 0 || u.OtherStep <= 0 {
		add("units: steps must be positive")
	}

	return errors.Join(errs...)
}
