package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planweave/planweave/internal/contract"
	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/repository"
)

// tokenAttempts bounds how often a colliding public token is regenerated
// before giving up. Collisions on 128 random bits are not expected outside
// of tests that force them.
const tokenAttempts = 5

type shareService struct {
	plans  repository.PlanRepo
	shares repository.ShareRepo
}

func NewShareService(plans repository.PlanRepo, shares repository.ShareRepo) ShareService {
	return &shareService{plans: plans, shares: shares}
}

func (s *shareService) CreateShare(ctx context.Context, actorID, planID string, permission domain.SharePermission, targetUserID *string, isPublic bool, expiresAt *time.Time) (*domain.ShareGrant, error) {
	if actorID == "" {
		return nil, contract.InvalidArgumentf("actor id is required")
	}
	if !domain.ValidPermissions[permission] {
		return nil, contract.InvalidArgumentf("unsupported permission %q", permission)
	}
	if isPublic && targetUserID != nil {
		return nil, contract.InvalidArgumentf("a share grant cannot be both public and user-targeted")
	}
	if !isPublic && (targetUserID == nil || *targetUserID == "") {
		return nil, contract.InvalidArgumentf("a share grant requires a target user or the public flag")
	}

	if _, err := loadPlan(ctx, s.plans, planID); err != nil {
		return nil, err
	}

	g := &domain.ShareGrant{
		ID:           uuid.New().String(),
		PlanID:       planID,
		TargetUserID: targetUserID,
		IsPublic:     isPublic,
		Permission:   permission,
		Active:       true,
		ExpiresAt:    expiresAt,
		CreatedBy:    actorID,
		CreatedAt:    time.Now().UTC(),
	}

	if isPublic {
		token, err := s.uniqueToken(ctx)
		if err != nil {
			return nil, err
		}
		g.Token = token
	}

	if err := s.shares.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// uniqueToken draws fresh random tokens until one is unused, bounded by
// tokenAttempts. The UNIQUE index on the token column backstops the check
// against a concurrent insert of the same value.
func (s *shareService) uniqueToken(ctx context.Context) (string, error) {
	for i := 0; i < tokenAttempts; i++ {
		token, err := newShareToken()
		if err != nil {
			return "", err
		}
		exists, err := s.shares.TokenExists(ctx, token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique share token after %d attempts", tokenAttempts)
}

// newShareToken encodes 128 fresh random bits as unpadded URL-safe base64,
// yielding a fixed-length token of domain.TokenLength characters.
func newShareToken() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func (s *shareService) Revoke(ctx context.Context, actorID, shareID string) (*domain.ShareGrant, error) {
	return s.setActive(ctx, actorID, shareID, false)
}

func (s *shareService) Reactivate(ctx context.Context, actorID, shareID string) (*domain.ShareGrant, error) {
	return s.setActive(ctx, actorID, shareID, true)
}

func (s *shareService) setActive(ctx context.Context, actorID, shareID string, active bool) (*domain.ShareGrant, error) {
	if actorID == "" {
		return nil, contract.InvalidArgumentf("actor id is required")
	}
	// Revoking keeps the access history; only the active flag moves.
	if err := s.shares.SetActive(ctx, shareID, active); err != nil {
		return nil, mapShareErr(err, shareID)
	}
	return s.getShare(ctx, shareID)
}

func (s *shareService) UpdatePermission(ctx context.Context, actorID, shareID string, permission domain.SharePermission) (*domain.ShareGrant, error) {
	if actorID == "" {
		return nil, contract.InvalidArgumentf("actor id is required")
	}
	if !domain.ValidPermissions[permission] {
		return nil, contract.InvalidArgumentf("unsupported permission %q", permission)
	}
	if err := s.shares.UpdatePermission(ctx, shareID, permission); err != nil {
		return nil, mapShareErr(err, shareID)
	}
	return s.getShare(ctx, shareID)
}

func (s *shareService) RecordAccess(ctx context.Context, shareID string) (*domain.ShareGrant, error) {
	if err := s.shares.RecordAccess(ctx, shareID, time.Now().UTC()); err != nil {
		return nil, mapShareErr(err, shareID)
	}
	return s.getShare(ctx, shareID)
}

func (s *shareService) ResolvePublicToken(ctx context.Context, token string) (*domain.ShareGrant, error) {
	if token == "" {
		return nil, contract.InvalidArgumentf("share token is required")
	}
	g, err := s.shares.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, contract.NotFoundf("no share grant for this token")
		}
		return nil, err
	}
	// Recomputed on every check; never cached.
	if !g.CanAccess(time.Now().UTC()) {
		return nil, contract.PreconditionFailedf("this share link is no longer active")
	}
	return g, nil
}

func (s *shareService) getShare(ctx context.Context, shareID string) (*domain.ShareGrant, error) {
	g, err := s.shares.GetByID(ctx, shareID)
	if err != nil {
		return nil, mapShareErr(err, shareID)
	}
	return g, nil
}

func mapShareErr(err error, shareID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return contract.NotFoundf("share grant %s not found", shareID)
	}
	return err
}
