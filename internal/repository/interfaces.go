package repository

import (
	"context"
	"errors"
	"time"

	"github.com/planweave/planweave/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	Delete(ctx context.Context, id string) error

	// TransitionStatus performs a compare-and-set on the status column.
	// It reports false when the plan was not in the expected from status,
	// leaving the row untouched.
	TransitionStatus(ctx context.Context, id string, from, to domain.PlanStatus, at time.Time) (bool, error)

	// MarkQuestionnaireComplete moves a draft plan to
	// questionnaire_complete, setting completion to 100 and recording the
	// completion timestamp only if it was never set. Compare-and-set on
	// the draft status.
	MarkQuestionnaireComplete(ctx context.Context, id string, at time.Time) (bool, error)

	UpdateQuestionnaireProgress(ctx context.Context, id string, answered int, pct float64, at time.Time) error

	// MarkGenerationStarted records the start of a full generation run and
	// clears any previous completion timestamp.
	MarkGenerationStarted(ctx context.Context, id string, at time.Time) error
	MarkGenerationCompleted(ctx context.Context, id string, at time.Time) error

	// UpsertSection writes a single section's content. Each call touches
	// only that section's row, so concurrent writes to different sections
	// never interfere.
	UpsertSection(ctx context.Context, planID string, section domain.Section, content string, at time.Time) error

	// AllocateVersion atomically bumps and returns the plan's snapshot
	// version counter.
	AllocateVersion(ctx context.Context, planID string, at time.Time) (int, error)
}

type AnswerRepo interface {
	Upsert(ctx context.Context, a *domain.Answer) error
	ListByPlan(ctx context.Context, planID string) ([]*domain.Answer, error)

	// CountAnswered counts required questions that carry a non-empty
	// answer.
	CountAnswered(ctx context.Context, planID string) (int, error)
}

type SnapshotRepo interface {
	// Insert persists a snapshot together with its section copies.
	Insert(ctx context.Context, s *domain.VersionSnapshot) error
	GetByVersion(ctx context.Context, planID string, version int) (*domain.VersionSnapshot, error)

	// ListByPlan returns snapshot metadata ordered by version; section
	// content is loaded only by GetByVersion.
	ListByPlan(ctx context.Context, planID string) ([]*domain.VersionSnapshot, error)
	MaxVersion(ctx context.Context, planID string) (int, error)
}

type ShareRepo interface {
	Create(ctx context.Context, g *domain.ShareGrant) error
	GetByID(ctx context.Context, id string) (*domain.ShareGrant, error)
	GetByToken(ctx context.Context, token string) (*domain.ShareGrant, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.ShareGrant, error)
	TokenExists(ctx context.Context, token string) (bool, error)
	SetActive(ctx context.Context, id string, active bool) error
	UpdatePermission(ctx context.Context, id string, p domain.SharePermission) error

	// RecordAccess bumps the access counter and stamps last-accessed in a
	// single statement so concurrent touches never lose updates.
	RecordAccess(ctx context.Context, id string, at time.Time) error
}
