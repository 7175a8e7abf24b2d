package service

import (
	"fmt"
	"strconv"
	"strings"

	"adaptcoach/internal/adaptive"
)

// ValidationError reports bad caller input. Field names the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidateBaseline checks a baseline before it reaches the engine.
func ValidateBaseline(b adaptive.Baseline) error {
	if b.Sets < 0 || b.Sets > 20 {
		return ValidationError{Field: "sets", Message: "must be between 0 and 20"}
	}
	if b.Series != nil && (*b.Series < 0 || *b.Series > 20) {
		return ValidationError{Field: "series", Message: "must be between 0 and 20"}
	}
	if b.Reps < 0 || b.Reps > 100 {
		return ValidationError{Field: "reps", Message: "must be between 0 and 100"}
	}
	if b.LoadKg < 0 || b.LoadKg > 600 {
		return ValidationError{Field: "load_kg", Message: "must be between 0 and 600"}
	}
	return nil
}

// ValidateProfile checks the numeric parts of a profile.
func ValidateProfile(p adaptive.AthleteProfile) error {
	for _, age := range p.Ages {
		if age < 0 || age > 120 {
			return ValidationError{Field: "ages", Message: fmt.Sprintf("age %d out of range 0-120", age)}
		}
	}
	for _, bmi := range p.BMIs {
		if bmi < 0 || bmi > 100 {
			return ValidationError{Field: "bmis", Message: fmt.Sprintf("bmi %v out of range 0-100", bmi)}
		}
	}
	if p.Weight != nil && (*p.Weight < 0 || *p.Weight > 500) {
		return ValidationError{Field: "weight", Message: "must be between 0 and 500 kg"}
	}
	return nil
}

// ValidateAthleteID checks a path or flag athlete id.
func ValidateAthleteID(id int) error {
	if id <= 0 {
		return ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return nil
}

// ParseRuleIDs reads a comma separated rule list such as "0,3,4". Empty means none.
func ParseRuleIDs(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id < 0 {
			return nil, ValidationError{Field: "rules", Message: fmt.Sprintf("invalid rule id %q", part)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
