package service

import (
	"context"
	"time"

	"github.com/planweave/planweave/internal/contract"
	"github.com/planweave/planweave/internal/domain"
)

// Every mutating operation takes the acting user's id explicitly; there is
// no ambient fallback identity.

type PlanService interface {
	Create(ctx context.Context, actorID, title string, category domain.PlanCategory, language string, requiredAnswers int) (*domain.Plan, error)
	Get(ctx context.Context, planID string) (*domain.Plan, error)
	Delete(ctx context.Context, actorID, planID string) error

	// SubmitAnswer upserts one questionnaire answer and recomputes the
	// completion percentage. When the answered count reaches the required
	// count the plan moves from draft to questionnaire_complete
	// automatically.
	SubmitAnswer(ctx context.Context, actorID, planID, questionID, question, answer string, required bool) (*domain.Plan, error)

	// Transition performs a manual, user-driven status move
	// (generated ↔ in_review → finalized → archived).
	Transition(ctx context.Context, actorID, planID string, to domain.PlanStatus) (*domain.Plan, error)
}

type GenerationService interface {
	// GenerateAll runs the full-document generation state machine:
	// questionnaire_complete → generating → generated, persisting each
	// section as it is produced. On any terminal section failure the plan
	// rolls back to questionnaire_complete with completed sections kept.
	GenerateAll(ctx context.Context, actorID, planID, language string) (*domain.Plan, error)

	// RegenerateSection regenerates exactly one section without touching
	// the plan's status or any other section.
	RegenerateSection(ctx context.Context, actorID, planID string, section domain.Section, language string) (*domain.Plan, error)

	GetStatus(ctx context.Context, planID string) (*contract.StatusSnapshot, error)
	AvailableSections(category domain.PlanCategory) ([]string, error)
}

type SnapshotService interface {
	// CreateSnapshot copies the plan's current content into an immutable,
	// per-plan-versioned snapshot. Version numbering is serialized per
	// plan.
	CreateSnapshot(ctx context.Context, actorID, planID, comment string) (*domain.VersionSnapshot, error)
	GetSnapshot(ctx context.Context, planID string, version int) (*domain.VersionSnapshot, error)
	ListSnapshots(ctx context.Context, planID string) ([]*domain.VersionSnapshot, error)
}

type ShareService interface {
	CreateShare(ctx context.Context, actorID, planID string, permission domain.SharePermission, targetUserID *string, isPublic bool, expiresAt *time.Time) (*domain.ShareGrant, error)
	Revoke(ctx context.Context, actorID, shareID string) (*domain.ShareGrant, error)
	Reactivate(ctx context.Context, actorID, shareID string) (*domain.ShareGrant, error)
	UpdatePermission(ctx context.Context, actorID, shareID string, permission domain.SharePermission) (*domain.ShareGrant, error)

	// RecordAccess bumps the grant's access counter; it never changes
	// whether the grant can be used.
	RecordAccess(ctx context.Context, shareID string) (*domain.ShareGrant, error)

	// ResolvePublicToken returns the grant for a public token only while
	// the grant currently permits access.
	ResolvePublicToken(ctx context.Context, token string) (*domain.ShareGrant, error)
}
