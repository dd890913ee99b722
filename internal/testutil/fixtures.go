package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planweave/planweave/internal/domain"
)

// TestOwner is the actor id used by fixture plans.
const TestOwner = "user-owner"

// PlanOption customizes a fixture plan.
type PlanOption func(*domain.Plan)

func WithCategory(c domain.PlanCategory) PlanOption {
	return func(p *domain.Plan) {
		p.Category = c
	}
}

func WithStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.Plan) {
		p.Status = s
	}
}

func WithLanguage(lang string) PlanOption {
	return func(p *domain.Plan) {
		p.Language = lang
	}
}

func WithOwner(owner string) PlanOption {
	return func(p *domain.Plan) {
		p.OwnerID = owner
	}
}

func WithRequiredAnswers(n int) PlanOption {
	return func(p *domain.Plan) {
		p.RequiredAnswers = n
	}
}

// WithQuestionnaireDone marks the plan questionnaire_complete at 100%.
func WithQuestionnaireDone() PlanOption {
	return func(p *domain.Plan) {
		now := time.Now().UTC()
		p.Status = domain.StatusQuestionnaireComplete
		p.AnsweredAnswers = p.RequiredAnswers
		p.CompletionPct = 100
		p.QuestionnaireCompletedAt = &now
	}
}

// NewTestPlan builds a draft standard-category plan with sensible defaults.
func NewTestPlan(title string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC()
	p := &domain.Plan{
		ID:              uuid.New().String(),
		OwnerID:         TestOwner,
		Title:           title,
		Category:        domain.CategoryStandard,
		Status:          domain.StatusDraft,
		Language:        "en",
		RequiredAnswers: 20,
		Sections:        map[domain.Section]string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestAnswers builds n answered required questions for a plan.
func NewTestAnswers(planID string, n int) []*domain.Answer {
	now := time.Now().UTC()
	answers := make([]*domain.Answer, 0, n)
	for i := 0; i < n; i++ {
		answers = append(answers, &domain.Answer{
			PlanID:     planID,
			QuestionID: fmt.Sprintf("q%02d", i+1),
			Question:   fmt.Sprintf("Question %d", i+1),
			Answer:     fmt.Sprintf("Answer %d", i+1),
			Required:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return answers
}
