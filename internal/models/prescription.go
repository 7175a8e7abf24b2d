package models

import (
	"time"

	"github.com/google/uuid"

	"adaptcoach/internal/adaptive"
)

// Prescription is one persisted engine run for one exercise baseline.
type Prescription struct {
	ID         uuid.UUID               `json:"id"`
	AthleteID  int                     `json:"athlete_id"`
	BaselineID int                     `json:"baseline_id"`
	Exercise   string                  `json:"exercise"`
	RuleIDs    []int                   `json:"rule_ids,omitempty"`
	Result     adaptive.AdaptiveResult `json:"result"`
	ComputedAt time.Time               `json:"computed_at"`
}
