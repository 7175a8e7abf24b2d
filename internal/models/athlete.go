package models

import (
	"time"

	"adaptcoach/internal/adaptive"
)

// Athlete is a marketplace client as stored. Profile fields are free text
// edited by coaches; Profile() normalizes them for the engine.
type Athlete struct {
	ID            int       `json:"id"`
	TelegramID    int64     `json:"telegram_id,omitempty"`
	Name          string    `json:"name"`
	TrainingLevel string    `json:"training_level"`
	ActivityLevel string    `json:"activity_level"`
	Ages          []int     `json:"ages"`
	Genders       []string  `json:"genders"`
	BMIs          []float64 `json:"bmis"`
	WeightKg      *float64  `json:"weight_kg,omitempty"`
	Injuries      []string  `json:"injuries"`
	Lang          string    `json:"lang"`
	CreatedAt     time.Time `json:"created_at"`
}

// Profile converts the stored free text into an engine profile.
func (a *Athlete) Profile() adaptive.AthleteProfile {
	return adaptive.NewProfile(adaptive.RawProfile{
		TrainingLevel: a.TrainingLevel,
		ActivityLevel: a.ActivityLevel,
		Ages:          a.Ages,
		Genders:       a.Genders,
		BMIs:          a.BMIs,
		Weight:        a.WeightKg,
		Injuries:      a.Injuries,
	})
}

// ExerciseBaseline is the coach's unadjusted prescription for one exercise.
type ExerciseBaseline struct {
	ID        int       `json:"id"`
	AthleteID int       `json:"athlete_id"`
	Exercise  string    `json:"exercise"`
	Sets      int       `json:"sets"`
	Series    *int      `json:"series,omitempty"`
	Reps      int       `json:"reps"`
	LoadKg    float64   `json:"load_kg"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Baseline converts to the engine input.
func (b *ExerciseBaseline) Baseline() adaptive.Baseline {
	base := adaptive.Baseline{Sets: b.Sets, Reps: b.Reps, LoadKg: b.LoadKg}
	if b.Series != nil {
		s := *b.Series
		base.Series = &s
	}
	return base
}
