package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/planweave/planweave/internal/contract"
	"github.com/planweave/planweave/internal/db"
	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/repository"
)

type snapshotService struct {
	plans     repository.PlanRepo
	snapshots repository.SnapshotRepo
	uow       db.UnitOfWork
}

func NewSnapshotService(plans repository.PlanRepo, snapshots repository.SnapshotRepo, uow db.UnitOfWork) SnapshotService {
	return &snapshotService{plans: plans, snapshots: snapshots, uow: uow}
}

func (s *snapshotService) CreateSnapshot(ctx context.Context, actorID, planID, comment string) (*domain.VersionSnapshot, error) {
	if actorID == "" {
		return nil, contract.InvalidArgumentf("actor id is required")
	}
	if _, err := loadPlan(ctx, s.plans, planID); err != nil {
		return nil, err
	}

	var snap *domain.VersionSnapshot

	// Version allocation and the snapshot insert share one transaction so
	// concurrent snapshot requests for the same plan serialize on the
	// plan row and never produce duplicate version numbers.
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		planRepo := repository.NewSQLitePlanRepo(tx)
		snapRepo := repository.NewSQLiteSnapshotRepo(tx)

		version, err := planRepo.AllocateVersion(ctx, planID, time.Now().UTC())
		if err != nil {
			return err
		}

		p, err := planRepo.GetByID(ctx, planID)
		if err != nil {
			return err
		}

		// Copy section content by value: later plan edits must never
		// reach a stored snapshot.
		sections := make(map[domain.Section]string, len(p.Sections))
		for section, content := range p.Sections {
			sections[section] = content
		}

		snap = &domain.VersionSnapshot{
			ID:        uuid.New().String(),
			PlanID:    planID,
			Version:   version,
			Title:     p.Title,
			Category:  p.Category,
			Status:    p.Status,
			Comment:   comment,
			Sections:  sections,
			CreatedBy: actorID,
			CreatedAt: time.Now().UTC(),
		}
		return snapRepo.Insert(ctx, snap)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, contract.NotFoundf("plan %s not found", planID)
		}
		return nil, err
	}
	return snap, nil
}

func (s *snapshotService) GetSnapshot(ctx context.Context, planID string, version int) (*domain.VersionSnapshot, error) {
	snap, err := s.snapshots.GetByVersion(ctx, planID, version)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, contract.NotFoundf("snapshot version %d of plan %s not found", version, planID)
		}
		return nil, err
	}
	return snap, nil
}

func (s *snapshotService) ListSnapshots(ctx context.Context, planID string) ([]*domain.VersionSnapshot, error) {
	if _, err := loadPlan(ctx, s.plans, planID); err != nil {
		return nil, err
	}
	return s.snapshots.ListByPlan(ctx, planID)
}
