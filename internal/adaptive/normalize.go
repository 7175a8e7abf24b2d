package adaptive

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lower-cases s and strips diacritics, so "Muñeca" and "muneca" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// containsAny reports whether the folded text contains any of the keywords.
// Keywords are expected to be folded already.
func containsAny(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// TrainingLevel is the athlete's lifting experience.
type TrainingLevel string

const (
	Beginner     TrainingLevel = "Beginner"
	Intermediate TrainingLevel = "Intermediate"
	Advanced     TrainingLevel = "Advanced"
)

var levelSynonyms = []struct {
	level TrainingLevel
	words []string
}{
	{Beginner, []string{"beginner", "principiante", "novato", "inicial", "basico", "novice"}},
	{Advanced, []string{"advanced", "avanzado", "experto", "expert", "elite", "competidor"}},
	{Intermediate, []string{"intermediate", "intermedio", "medio"}},
}

// ParseTrainingLevel normalizes free text (Spanish or English) into a TrainingLevel.
// Unrecognized input is Intermediate.
func ParseTrainingLevel(s string) TrainingLevel {
	f := fold(s)
	for _, syn := range levelSynonyms {
		if containsAny(f, syn.words) {
			return syn.level
		}
	}
	return Intermediate
}

func (l TrainingLevel) normalize() TrainingLevel {
	switch l {
	case Beginner, Intermediate, Advanced:
		return l
	}
	return ParseTrainingLevel(string(l))
}

// UnmarshalText lets profiles decoded from JSON or YAML carry free text.
func (l *TrainingLevel) UnmarshalText(text []byte) error {
	*l = ParseTrainingLevel(string(text))
	return nil
}

// ActivityLevel drives the nutrition pipeline only.
type ActivityLevel string

const (
	Sedentary        ActivityLevel = "Sedentary"
	LightlyActive    ActivityLevel = "Lightly Active"
	ModeratelyActive ActivityLevel = "Moderately Active"
	Active           ActivityLevel = "Active"
	VeryActive       ActivityLevel = "Very Active"
)

// Order matters: "muy activo" must win over "activo", "inactivo" over "activo".
var activitySynonyms = []struct {
	level ActivityLevel
	words []string
}{
	{LightlyActive, []string{"lightly", "light", "ligera", "ligero", "poco activ", "leve"}},
	{VeryActive, []string{"very active", "very", "muy activ", "extra", "atleta"}},
	{ModeratelyActive, []string{"moderate", "moderad"}},
	{Sedentary, []string{"sedentar", "inactiv"}},
	{Active, []string{"activ"}},
}

// ParseActivityLevel normalizes free text into an ActivityLevel.
// Unrecognized input is ModeratelyActive, which carries no adjustment.
func ParseActivityLevel(s string) ActivityLevel {
	f := fold(s)
	for _, syn := range activitySynonyms {
		if containsAny(f, syn.words) {
			return syn.level
		}
	}
	return ModeratelyActive
}

func (a ActivityLevel) normalize() ActivityLevel {
	switch a {
	case Sedentary, LightlyActive, ModeratelyActive, Active, VeryActive:
		return a
	}
	return ParseActivityLevel(string(a))
}

// UnmarshalText normalizes free text.
func (a *ActivityLevel) UnmarshalText(text []byte) error {
	*a = ParseActivityLevel(string(text))
	return nil
}

// Gender as used by the factor tables.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

var (
	femaleWords = []string{"female", "femenin", "mujer", "woman", "dama", "fem"}
	maleWords   = []string{"male", "masculin", "hombre", "man", "varon", "caballero", "masc"}
)

// ParseGender normalizes free text into a Gender. Unrecognized input is Male.
func ParseGender(s string) Gender {
	f := fold(s)
	switch f {
	case "f", "w":
		return Female
	case "m", "h", "v":
		return Male
	}
	// "female" and "woman" contain "male" and "man"; female is checked first.
	if containsAny(f, femaleWords) {
		return Female
	}
	if containsAny(f, maleWords) {
		return Male
	}
	return Male
}

func (g Gender) normalize() Gender {
	switch g {
	case Male, Female:
		return g
	}
	return ParseGender(string(g))
}

// UnmarshalText normalizes free text.
func (g *Gender) UnmarshalText(text []byte) error {
	*g = ParseGender(string(text))
	return nil
}

// Intensity controls how strongly nutrition deviations from 1.0 are applied.
type Intensity string

const (
	Leve       Intensity = "Leve"
	Intermedio Intensity = "Intermedio"
	Alto       Intensity = "Alto"
)

// ParseIntensity normalizes free text into an Intensity. Default Intermedio.
func ParseIntensity(s string) Intensity {
	f := fold(s)
	switch {
	case containsAny(f, []string{"intermed", "medi", "moderad"}):
		return Intermedio
	case containsAny(f, []string{"leve", "low", "light", "baj", "suave"}):
		return Leve
	case containsAny(f, []string{"alto", "alta", "high", "intens", "fuerte"}):
		return Alto
	}
	return Intermedio
}

func (i Intensity) normalize() Intensity {
	switch i {
	case Leve, Intermedio, Alto:
		return i
	}
	return ParseIntensity(string(i))
}

// UnmarshalText normalizes free text.
func (i *Intensity) UnmarshalText(text []byte) error {
	*i = ParseIntensity(string(text))
	return nil
}
