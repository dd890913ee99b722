package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/planweave/planweave/internal/contract"
	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/progress"
	"github.com/planweave/planweave/internal/repository"
)

type planService struct {
	plans   repository.PlanRepo
	answers repository.AnswerRepo
}

func NewPlanService(plans repository.PlanRepo, answers repository.AnswerRepo) PlanService {
	return &planService{plans: plans, answers: answers}
}

func (s *planService) Create(ctx context.Context, actorID, title string, category domain.PlanCategory, language string, requiredAnswers int) (*domain.Plan, error) {
	if actorID == "" {
		return nil, contract.InvalidArgumentf("actor id is required")
	}
	if title == "" {
		return nil, contract.InvalidArgumentf("plan title is required")
	}
	if !domain.ValidCategories[category] {
		return nil, contract.InvalidArgumentf("unsupported plan category %q", category)
	}
	if !domain.SupportedLanguages[language] {
		return nil, contract.InvalidArgumentf("unsupported language %q", language)
	}
	if requiredAnswers < 0 {
		return nil, contract.InvalidArgumentf("required answer count cannot be negative")
	}

	now := time.Now().UTC()
	p := &domain.Plan{
		ID:              uuid.New().String(),
		OwnerID:         actorID,
		Title:           title,
		Category:        category,
		Status:          domain.StatusDraft,
		Language:        language,
		RequiredAnswers: requiredAnswers,
		Sections:        map[domain.Section]string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.plans.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *planService) Get(ctx context.Context, planID string) (*domain.Plan, error) {
	return loadPlan(ctx, s.plans, planID)
}

func (s *planService) Delete(ctx context.Context, actorID, planID string) error {
	if actorID == "" {
		return contract.InvalidArgumentf("actor id is required")
	}
	p, err := loadPlan(ctx, s.plans, planID)
	if err != nil {
		return err
	}
	if p.OwnerID != actorID {
		return contract.PreconditionFailedf("only the plan owner may delete it")
	}
	// Snapshots, share grants, answers, and section rows cascade.
	if err := s.plans.Delete(ctx, planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return contract.NotFoundf("plan %s not found", planID)
		}
		return err
	}
	return nil
}

func (s *planService) SubmitAnswer(ctx context.Context, actorID, planID, questionID, question, answer string, required bool) (*domain.Plan, error) {
	if actorID == "" {
		return nil, contract.InvalidArgumentf("actor id is required")
	}
	if questionID == "" {
		return nil, contract.InvalidArgumentf("question id is required")
	}

	p, err := loadPlan(ctx, s.plans, planID)
	if err != nil {
		return nil, err
	}
	if p.Status == domain.StatusGenerating {
		return nil, contract.PreconditionFailedf("answers cannot be modified while generation is running")
	}

	now := time.Now().UTC()
	if err := s.answers.Upsert(ctx, &domain.Answer{
		PlanID:     planID,
		QuestionID: questionID,
		Question:   question,
		Answer:     answer,
		Required:   required,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		return nil, err
	}

	answered, err := s.answers.CountAnswered(ctx, planID)
	if err != nil {
		return nil, err
	}
	pct := progress.Questionnaire(answered, p.RequiredAnswers)
	if err := s.plans.UpdateQuestionnaireProgress(ctx, planID, answered, pct, now); err != nil {
		return nil, err
	}

	// The draft → questionnaire_complete transition fires automatically
	// when the last required answer lands. The CAS keeps a concurrent
	// submission from firing it twice.
	if p.RequiredAnswers > 0 && answered >= p.RequiredAnswers && p.Status == domain.StatusDraft {
		if _, err := s.plans.MarkQuestionnaireComplete(ctx, planID, now); err != nil {
			return nil, err
		}
	}

	// Blanking a required answer reopens a completed questionnaire:
	// generation must never start below 100% completion.
	if answered < p.RequiredAnswers && p.Status == domain.StatusQuestionnaireComplete {
		if _, err := s.plans.TransitionStatus(ctx, planID, domain.StatusQuestionnaireComplete, domain.StatusDraft, now); err != nil {
			return nil, err
		}
	}

	return loadPlan(ctx, s.plans, planID)
}

func (s *planService) Transition(ctx context.Context, actorID, planID string, to domain.PlanStatus) (*domain.Plan, error) {
	if actorID == "" {
		return nil, contract.InvalidArgumentf("actor id is required")
	}
	p, err := loadPlan(ctx, s.plans, planID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionManually(p.Status, to) {
		return nil, contract.PreconditionFailedf("cannot move plan from %s to %s", p.Status, to)
	}

	ok, err := s.plans.TransitionStatus(ctx, planID, p.Status, to, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, contract.ConcurrencyConflictf("plan status changed concurrently; reload and retry")
	}
	return loadPlan(ctx, s.plans, planID)
}

// loadPlan translates the repository's not-found sentinel into the
// caller-facing error kind.
func loadPlan(ctx context.Context, plans repository.PlanRepo, planID string) (*domain.Plan, error) {
	p, err := plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, contract.NotFoundf("plan %s not found", planID)
		}
		return nil, err
	}
	return p, nil
}
