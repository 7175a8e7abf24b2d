package adaptive

import (
	"math"
	"strconv"
	"strings"
)

// MasterRule selects every rule.
const MasterRule = 0

// RuleSet is the caller's selection of rule categories.
type RuleSet []int

// active reports whether the rule contributes. Selection is recorded but not
// enforced yet: every rule is active whatever the ids say.
func (r RuleSet) active(Phase, Category) bool {
	return true
}

// accumulator folds factors into running totals and the audit trail.
type accumulator struct {
	total Multiplier
	trail Trail
	rules RuleSet
}

func (a accumulator) apply(phase Phase, category Category, name, input string, m Multiplier) accumulator {
	d := FactorDetail{
		Phase:    phase,
		Category: category,
		Name:     name,
		Input:    input,
		Peso:     m.Load,
		Series:   m.Series,
		Reps:     m.Reps,
		IsActive: a.rules.active(phase, category),
	}
	if d.IsActive {
		a.total = a.total.Mul(m)
	}
	a.trail = a.trail.Append(d)
	return a
}

// ReconstructPrescription personalizes one exercise baseline.
//
// Factors from the training level, the athlete's characteristics and injuries
// are multiplied into load/series/reps totals. Load and series totals are then
// clamped; the reps total is left unclamped. Final integer quantities are at
// least 1 and the final load is a multiple of the load step.
func (e *Engine) ReconstructPrescription(base Baseline, profile AthleteProfile, ruleIDs ...int) AdaptiveResult {
	ex := &e.tables.Exercise
	acc := accumulator{total: Identity(), rules: RuleSet(ruleIDs)}

	level := profile.TrainingLevel.normalize()
	acc = acc.apply(PhaseTrainingLevel, CategoryTrainingLevel, string(level), "", ex.level(level))

	for _, age := range ex.ages(profile.Ages) {
		b := ex.ageBracket(age)
		acc = acc.apply(PhaseCharacteristics, CategoryAge, b.Label, strconv.Itoa(age), b.Multiplier)
	}
	if profile.Weight != nil && *profile.Weight > 0 && !math.IsInf(*profile.Weight, 0) {
		w := *profile.Weight
		b := ex.weightBracket(w)
		acc = acc.apply(PhaseCharacteristics, CategoryWeight, b.Label, strconv.FormatFloat(w, 'f', -1, 64), b.Multiplier)
	}
	for _, g := range profile.Genders {
		g = g.normalize()
		acc = acc.apply(PhaseCharacteristics, CategoryGender, string(g), "", ex.gender(g))
	}

	for _, inj := range profile.Injuries {
		name, mult := ex.injury(inj)
		acc = acc.apply(PhaseInjury, CategoryInjury, name, inj.String(), mult)
	}

	load, loadCapped := ex.LoadClamp.Clamp(acc.total.Load)
	series, seriesCapped := ex.SeriesClamp.Clamp(acc.total.Series)
	reps := acc.total.Reps

	baseLoad := finite(base.LoadKg, 0)
	if baseLoad < 0 {
		baseLoad = 0
	}

	return AdaptiveResult{
		Base:         base,
		RuleIDs:      append([]int(nil), ruleIDs...),
		Factors:      acc.trail.Details(),
		LoadFactor:   load,
		SeriesFactor: series,
		RepsFactor:   reps,
		WasCapped:    Capped{Load: loadCapped, Series: seriesCapped},
		Final: Prescription{
			Sets:   scaleCount(base.Sets, series),
			Series: scaleCount(base.series(), series),
			Reps:   scaleCount(base.Reps, reps),
			Load:   roundToStep(baseLoad*load, ex.LoadStep),
		},
	}
}

// scaleCount rounds n*f to an integer no smaller than 1.
func scaleCount(n int, f float64) int {
	return max(1, int(math.Round(float64(n)*f)))
}

func (ex *ExerciseTables) level(l TrainingLevel) Multiplier {
	if m, ok := ex.Levels[l]; ok {
		return m
	}
	return Identity()
}

// ages returns the ages that contribute. A lone default age means "not given".
func (ex *ExerciseTables) ages(ages []int) []int {
	if len(ages) == 1 && ages[0] == ex.DefaultAge {
		return nil
	}
	return ages
}

func (ex *ExerciseTables) ageBracket(age int) AgeBracket {
	for _, b := range ex.AgeBrackets {
		if b.Under == 0 || age < b.Under {
			return b
		}
	}
	if n := len(ex.AgeBrackets); n > 0 {
		return ex.AgeBrackets[n-1]
	}
	return AgeBracket{Label: "?", Multiplier: Identity()}
}

func (ex *ExerciseTables) weightBracket(kg float64) WeightBracket {
	for _, b := range ex.WeightBrackets {
		if b.Under == 0 || kg < b.Under {
			return b
		}
	}
	if n := len(ex.WeightBrackets); n > 0 {
		return ex.WeightBrackets[n-1]
	}
	return WeightBracket{Label: "?", Multiplier: Identity()}
}

func (ex *ExerciseTables) gender(g Gender) Multiplier {
	if m, ok := ex.Genders[g]; ok {
		return m
	}
	return Identity()
}

// MatchInjury returns the canonical rule whose synonyms occur in name.
func (ex *ExerciseTables) MatchInjury(name string) (InjuryRule, bool) {
	f := strings.ReplaceAll(fold(name), "_", " ")
	if f == "" {
		return InjuryRule{}, false
	}
	for _, rule := range ex.Injuries {
		for _, syn := range rule.Synonyms {
			if s := fold(syn); s != "" && strings.Contains(f, s) {
				return rule, true
			}
		}
	}
	return InjuryRule{}, false
}

// injury returns the audit name and severity-specific multiplier for inj.
func (ex *ExerciseTables) injury(inj Injury) (string, Multiplier) {
	name := inj.Name
	base := ex.GenericInjury
	if rule, ok := ex.MatchInjury(inj.Name); ok {
		name, base = rule.Name, rule.Base
	}
	if name == "" {
		name = "generic"
	}

	switch inj.Severity.normalize() {
	case SeverityLow:
		return name, ex.LowSeverity
	case SeverityHigh:
		load := round2(base.Load * ex.HighSeverity.Load)
		series := round2(base.Series * ex.HighSeverity.Series)
		return name, Multiplier{Load: load, Series: series, Reps: series}
	default:
		return name, base
	}
}
