package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/testutil"
)

func newTestSnapshot(planID string, version int) *domain.VersionSnapshot {
	return &domain.VersionSnapshot{
		ID:       uuid.New().String(),
		PlanID:   planID,
		Version:  version,
		Title:    "Snapshotted plan",
		Category: domain.CategoryStandard,
		Status:   domain.StatusGenerated,
		Comment:  "before edits",
		Sections: map[domain.Section]string{
			domain.SectionExecutiveSummary: "summary at snapshot time",
			domain.SectionMarketAnalysis:   "analysis at snapshot time",
		},
		CreatedBy: testutil.TestOwner,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLiteSnapshotRepo_InsertAndGetByVersion(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	snapshots := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("Snapshotted plan")
	require.NoError(t, plans.Create(ctx, p))

	snap := newTestSnapshot(p.ID, 1)
	require.NoError(t, snapshots.Insert(ctx, snap))

	got, err := snapshots.GetByVersion(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, "before edits", got.Comment)
	assert.Equal(t, domain.StatusGenerated, got.Status)
	assert.Equal(t, snap.Sections, got.Sections)
}

func TestSQLiteSnapshotRepo_GetByVersion_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	snapshots := NewSQLiteSnapshotRepo(database)

	_, err := snapshots.GetByVersion(context.Background(), "no-such-plan", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteSnapshotRepo_ListByPlan_MetadataOnly(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	snapshots := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("Listed plan")
	require.NoError(t, plans.Create(ctx, p))

	require.NoError(t, snapshots.Insert(ctx, newTestSnapshot(p.ID, 2)))
	require.NoError(t, snapshots.Insert(ctx, newTestSnapshot(p.ID, 1)))
	require.NoError(t, snapshots.Insert(ctx, newTestSnapshot(p.ID, 3)))

	list, err := snapshots.ListByPlan(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, s := range list {
		assert.Equal(t, i+1, s.Version)
		assert.Nil(t, s.Sections, "listing returns metadata without section content")
	}
}

func TestSQLiteSnapshotRepo_MaxVersion(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	snapshots := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("Max version")
	require.NoError(t, plans.Create(ctx, p))

	max, err := snapshots.MaxVersion(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, max)

	require.NoError(t, snapshots.Insert(ctx, newTestSnapshot(p.ID, 1)))
	require.NoError(t, snapshots.Insert(ctx, newTestSnapshot(p.ID, 2)))

	max, err = snapshots.MaxVersion(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, max)
}

func TestSQLiteSnapshotRepo_DuplicateVersionRejected(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	snapshots := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("Unique versions")
	require.NoError(t, plans.Create(ctx, p))

	require.NoError(t, snapshots.Insert(ctx, newTestSnapshot(p.ID, 1)))
	assert.Error(t, snapshots.Insert(ctx, newTestSnapshot(p.ID, 1)),
		"the UNIQUE(plan_id, version) index must reject duplicate versions")
}
