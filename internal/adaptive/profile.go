package adaptive

// AthleteProfile is the normalized input of both pipelines. It is read, never modified.
type AthleteProfile struct {
	TrainingLevel TrainingLevel `json:"trainingLevel" yaml:"trainingLevel"`
	ActivityLevel ActivityLevel `json:"activityLevel" yaml:"activityLevel"`
	Ages          []int         `json:"ages" yaml:"ages"`
	Genders       []Gender      `json:"genders" yaml:"genders"`
	BMIs          []float64     `json:"bmis" yaml:"bmis"`
	Weight        *float64      `json:"weight,omitempty" yaml:"weight,omitempty"`
	Injuries      []Injury      `json:"injuries" yaml:"injuries"`
}

// RawProfile is the free-text form profiles are stored and edited in.
type RawProfile struct {
	TrainingLevel string
	ActivityLevel string
	Ages          []int
	Genders       []string
	BMIs          []float64
	Weight        *float64
	Injuries      []string
}

// NewProfile normalizes a RawProfile. Unrecognized values fall back to their defaults.
func NewProfile(raw RawProfile) AthleteProfile {
	p := AthleteProfile{
		TrainingLevel: ParseTrainingLevel(raw.TrainingLevel),
		ActivityLevel: ParseActivityLevel(raw.ActivityLevel),
		Ages:          append([]int(nil), raw.Ages...),
		BMIs:          append([]float64(nil), raw.BMIs...),
	}
	if raw.Weight != nil {
		w := *raw.Weight
		p.Weight = &w
	}
	for _, g := range raw.Genders {
		p.Genders = append(p.Genders, ParseGender(g))
	}
	for _, inj := range raw.Injuries {
		p.Injuries = append(p.Injuries, ParseInjury(inj))
	}
	return p
}

// Baseline is the unadjusted prescription of one exercise.
// Series falls back to Sets when nil.
type Baseline struct {
	Sets   int     `json:"sets" yaml:"sets"`
	Series *int    `json:"series,omitempty" yaml:"series,omitempty"`
	Reps   int     `json:"reps" yaml:"reps"`
	LoadKg float64 `json:"load_kg" yaml:"load_kg"`
}

func (b Baseline) series() int {
	if b.Series != nil {
		return *b.Series
	}
	return b.Sets
}

// Prescription is the rounded, clamped outcome.
type Prescription struct {
	Sets   int     `json:"sets"`
	Series int     `json:"series"`
	Reps   int     `json:"reps"`
	Load   float64 `json:"load"`
}

// Phase orders the rule categories. Factors are multiplied in phase order.
type Phase int

const (
	PhaseTrainingLevel   Phase = 1
	PhaseCharacteristics Phase = 2
	PhaseInjury          Phase = 3
)

// Category names the lookup table a factor came from.
type Category string

const (
	CategoryTrainingLevel Category = "training_level"
	CategoryAge           Category = "age"
	CategoryWeight        Category = "weight"
	CategoryGender        Category = "gender"
	CategoryInjury        Category = "injury"
)

// FactorDetail is the audit record of one contributing rule.
type FactorDetail struct {
	Phase    Phase    `json:"phase"`
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Input    string   `json:"input,omitempty"`
	Peso     float64  `json:"peso"`
	Series   float64  `json:"series"`
	Reps     float64  `json:"reps"`
	IsActive bool     `json:"isActive"`
}

// Multiplier returns the detail's factors as a triple.
func (d FactorDetail) Multiplier() Multiplier {
	return Multiplier{Load: d.Peso, Series: d.Series, Reps: d.Reps}
}

// Trail is an append-only, immutable sequence of FactorDetail.
// Append never writes into a backing array another Trail can see.
type Trail struct {
	details []FactorDetail
}

// Append returns a new Trail with d at the end.
func (t Trail) Append(d FactorDetail) Trail {
	n := len(t.details)
	return Trail{details: append(t.details[:n:n], d)}
}

// Len returns the number of entries.
func (t Trail) Len() int {
	return len(t.details)
}

// Details returns a copy of the entries in append order.
func (t Trail) Details() []FactorDetail {
	out := make([]FactorDetail, len(t.details))
	copy(out, t.details)
	return out
}

// Capped reports, per dimension, whether the cumulative factor hit a clamp bound.
type Capped struct {
	Load   bool `json:"peso"`
	Series bool `json:"series"`
	Reps   bool `json:"reps"`
}

// AdaptiveResult is the output of ReconstructPrescription.
type AdaptiveResult struct {
	Base         Baseline       `json:"base"`
	RuleIDs      []int          `json:"ruleIds,omitempty"`
	Factors      []FactorDetail `json:"factors"`
	LoadFactor   float64        `json:"factor_peso_total"`
	SeriesFactor float64        `json:"factor_series_total"`
	RepsFactor   float64        `json:"factor_reps_total"`
	WasCapped    Capped         `json:"wasCapped"`
	Final        Prescription   `json:"final"`
}

// NutritionFactors is the output of ReconstructNutrition.
// Raw holds the cumulative factors before intensity scaling and clamping.
type NutritionFactors struct {
	Kcal          float64   `json:"kcal"`
	Protein       float64   `json:"protein"`
	Carbs         float64   `json:"carbs"`
	Fats          float64   `json:"fats"`
	TargetPercent int       `json:"targetPercent"`
	Intensity     Intensity `json:"intensity"`
	Raw           Macros    `json:"raw"`
}

// Macros returns the final factors as a Macros value.
func (n NutritionFactors) Macros() Macros {
	return Macros{Kcal: n.Kcal, Protein: n.Protein, Carbs: n.Carbs, Fats: n.Fats}
}

// IngredientQuantity is the output of AdjustIngredientManual.
type IngredientQuantity struct {
	Cantidad float64 `json:"cantidad"`
	Unidad   string  `json:"unidad"`
}
