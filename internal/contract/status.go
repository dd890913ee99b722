package contract

import (
	"time"

	"github.com/planweave/planweave/internal/domain"
)

// StatusSnapshot reports generation progress for a plan at a point in time.
type StatusSnapshot struct {
	PlanID            string            `json:"plan_id"`
	Status            domain.PlanStatus `json:"status"`
	TotalSections     int               `json:"total_sections"`
	CompletedSections int               `json:"completed_sections"`
	CompletionPct     float64           `json:"completion_pct"`

	QuestionnaireCompletedAt *time.Time `json:"questionnaire_completed_at,omitempty"`
	GenerationStartedAt      *time.Time `json:"generation_started_at,omitempty"`
	GenerationCompletedAt    *time.Time `json:"generation_completed_at,omitempty"`
}
