package adaptive

import "strings"

// Severity of an injury. Medium is the default.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// parseSeverity returns the severity named by s and whether s named one at all.
// Words that also describe body regions ("baja", "alta", "media") are not
// severities, so "espalda_baja" stays one injury name.
func parseSeverity(s string) (Severity, bool) {
	switch fold(s) {
	case "low", "leve":
		return SeverityLow, true
	case "medium", "moderada", "moderado":
		return SeverityMedium, true
	case "high", "grave", "severa", "severo":
		return SeverityHigh, true
	}
	return SeverityMedium, false
}

func (s Severity) normalize() Severity {
	sev, _ := parseSeverity(string(s))
	return sev
}

// Injury is a parsed "<name>_<severity>" entry.
// Name is the free-text name as given; canonical matching happens against the tables.
type Injury struct {
	Name     string
	Severity Severity
}

// ParseInjury splits "Rodilla_high" into name and severity. When the text after the
// last underscore is not a severity the whole string is the name and severity is medium.
func ParseInjury(s string) Injury {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "_"); i >= 0 {
		if sev, ok := parseSeverity(s[i+1:]); ok {
			return Injury{Name: strings.TrimSpace(s[:i]), Severity: sev}
		}
	}
	return Injury{Name: s, Severity: SeverityMedium}
}

// String renders the injury back into its "<name>_<severity>" form.
func (i Injury) String() string {
	return i.Name + "_" + string(i.Severity.normalize())
}

// MarshalText implements encoding.TextMarshaler.
func (i Injury) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Injury) UnmarshalText(text []byte) error {
	*i = ParseInjury(string(text))
	return nil
}
