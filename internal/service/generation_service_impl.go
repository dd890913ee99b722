package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/planweave/planweave/internal/contract"
	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/llm"
	"github.com/planweave/planweave/internal/progress"
	"github.com/planweave/planweave/internal/repository"
)

// SectionGenerator is the slice of the generation stack the orchestrator
// needs; satisfied by *llm.RetryingGenerator.
type SectionGenerator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error)
}

type generationService struct {
	plans   repository.PlanRepo
	answers repository.AnswerRepo
	gen     SectionGenerator
	cfg     llm.Config
	log     zerolog.Logger
}

func NewGenerationService(plans repository.PlanRepo, answers repository.AnswerRepo, gen SectionGenerator, cfg llm.Config, log zerolog.Logger) GenerationService {
	return &generationService{plans: plans, answers: answers, gen: gen, cfg: cfg, log: log}
}

func (s *generationService) GenerateAll(ctx context.Context, actorID, planID, language string) (*domain.Plan, error) {
	if actorID == "" {
		return nil, contract.InvalidArgumentf("actor id is required")
	}
	if !domain.SupportedLanguages[language] {
		return nil, contract.InvalidArgumentf("unsupported language %q", language)
	}

	p, err := loadPlan(ctx, s.plans, planID)
	if err != nil {
		return nil, err
	}

	if !p.QuestionnaireComplete() {
		return nil, contract.PreconditionFailedf("business plan questionnaire must be complete before generation (%d/%d answers)", p.AnsweredAnswers, p.RequiredAnswers)
	}

	sections, err := domain.SectionsFor(p.Category)
	if err != nil {
		return nil, contract.InvalidArgumentf("unsupported plan category %q", p.Category)
	}

	now := time.Now().UTC()

	// Exactly one run may be active per plan: the guard is an atomic
	// compare-and-set on the status column.
	ok, err := s.plans.TransitionStatus(ctx, planID, domain.StatusQuestionnaireComplete, domain.StatusGenerating, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := loadPlan(ctx, s.plans, planID)
		if err != nil {
			return nil, err
		}
		switch current.Status {
		case domain.StatusGenerating:
			return nil, contract.PreconditionFailedf("a generation run is already in progress for this plan")
		case domain.StatusQuestionnaireComplete:
			return nil, contract.ConcurrencyConflictf("plan status changed concurrently; retry generation")
		default:
			return nil, contract.PreconditionFailedf("business plan questionnaire must be complete before generation (status: %s)", current.Status)
		}
	}

	if err := s.plans.MarkGenerationStarted(ctx, planID, now); err != nil {
		return nil, err
	}

	answers, err := s.answers.ListByPlan(ctx, planID)
	if err != nil {
		s.rollback(ctx, planID)
		return nil, err
	}

	s.log.Info().
		Str("plan_id", planID).
		Str("category", string(p.Category)).
		Int("sections", len(sections)).
		Msg("starting full plan generation")

	for i, section := range sections {
		// Cancellation stops before the next un-started section;
		// already-persisted sections stay.
		if ctx.Err() != nil {
			s.rollback(ctx, planID)
			return nil, contract.GenerationFailed("Failed to generate business plan: run cancelled", ctx.Err())
		}

		systemPrompt, userPrompt := llm.BuildSectionPrompt(p, section, answers, language)
		resp, err := s.gen.Generate(ctx, llm.GenerateRequest{
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			MaxTokens:    s.cfg.MaxTokens,
			Temperature:  s.cfg.Temperature,
		})
		if err != nil {
			s.log.Warn().
				Str("plan_id", planID).
				Str("section", string(section)).
				Int("completed", i).
				Err(err).
				Msg("plan generation aborted")
			s.rollback(ctx, planID)
			return nil, contract.GenerationFailed("Failed to generate business plan: section "+string(section)+" could not be generated", err)
		}

		// Persist immediately so partial progress survives a later abort.
		if err := s.plans.UpsertSection(ctx, planID, section, resp.Text, time.Now().UTC()); err != nil {
			s.rollback(ctx, planID)
			return nil, err
		}
	}

	// Stamp completion while the run still holds generating, so a late
	// write failure can roll the plan back to a resumable state instead of
	// stranding it.
	done := time.Now().UTC()
	if err := s.plans.MarkGenerationCompleted(ctx, planID, done); err != nil {
		s.rollback(ctx, planID)
		return nil, err
	}
	ok, err = s.plans.TransitionStatus(ctx, planID, domain.StatusGenerating, domain.StatusGenerated, done)
	if err != nil {
		s.rollback(ctx, planID)
		return nil, err
	}
	if !ok {
		return nil, contract.ConcurrencyConflictf("plan status changed during generation")
	}

	s.log.Info().Str("plan_id", planID).Int("sections", len(sections)).Msg("plan generation complete")
	return loadPlan(ctx, s.plans, planID)
}

// rollback returns an aborted run to questionnaire_complete so it can be
// resumed with another GenerateAll call. Sections written so far are kept.
// Runs on a cancellation-free context so a caller timeout cannot strand the
// plan in the generating state.
func (s *generationService) rollback(ctx context.Context, planID string) {
	ctx = context.WithoutCancel(ctx)
	ok, err := s.plans.TransitionStatus(ctx, planID, domain.StatusGenerating, domain.StatusQuestionnaireComplete, time.Now().UTC())
	if err != nil || !ok {
		s.log.Error().Str("plan_id", planID).Err(err).Bool("transitioned", ok).Msg("rollback to questionnaire_complete failed")
	}
}

func (s *generationService) RegenerateSection(ctx context.Context, actorID, planID string, section domain.Section, language string) (*domain.Plan, error) {
	if actorID == "" {
		return nil, contract.InvalidArgumentf("actor id is required")
	}
	if !domain.SupportedLanguages[language] {
		return nil, contract.InvalidArgumentf("unsupported language %q", language)
	}

	p, err := loadPlan(ctx, s.plans, planID)
	if err != nil {
		return nil, err
	}
	if !domain.IsValidSection(p.Category, section) {
		return nil, contract.InvalidArgumentf("unknown section %q for category %q", section, p.Category)
	}

	answers, err := s.answers.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	systemPrompt, userPrompt := llm.BuildSectionPrompt(p, section, answers, language)
	resp, err := s.gen.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    s.cfg.MaxTokens,
		Temperature:  s.cfg.Temperature,
	})
	if err != nil {
		return nil, contract.GenerationFailed("Failed to generate business plan: section "+string(section)+" could not be regenerated", err)
	}

	// Only the targeted section row and the plan's last-modified stamp
	// change; status and all other sections stay untouched.
	if err := s.plans.UpsertSection(ctx, planID, section, resp.Text, time.Now().UTC()); err != nil {
		return nil, err
	}

	s.log.Info().Str("plan_id", planID).Str("section", string(section)).Msg("section regenerated")
	return loadPlan(ctx, s.plans, planID)
}

func (s *generationService) GetStatus(ctx context.Context, planID string) (*contract.StatusSnapshot, error) {
	p, err := loadPlan(ctx, s.plans, planID)
	if err != nil {
		return nil, err
	}
	sections, err := domain.SectionsFor(p.Category)
	if err != nil {
		return nil, contract.InvalidArgumentf("unsupported plan category %q", p.Category)
	}

	completed := p.CompletedSections(sections)
	return &contract.StatusSnapshot{
		PlanID:                   p.ID,
		Status:                   p.Status,
		TotalSections:            len(sections),
		CompletedSections:        completed,
		CompletionPct:            progress.Generation(completed, len(sections)),
		QuestionnaireCompletedAt: p.QuestionnaireCompletedAt,
		GenerationStartedAt:      p.GenerationStartedAt,
		GenerationCompletedAt:    p.GenerationCompletedAt,
	}, nil
}

func (s *generationService) AvailableSections(category domain.PlanCategory) ([]string, error) {
	sections, err := domain.SectionsFor(category)
	if err != nil {
		return nil, contract.InvalidArgumentf("unsupported plan category %q", category)
	}
	out := make([]string, len(sections))
	for i, sec := range sections {
		out[i] = string(sec)
	}
	return out, nil
}
