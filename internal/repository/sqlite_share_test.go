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

func newPublicGrant(planID, token string) *domain.ShareGrant {
	return &domain.ShareGrant{
		ID:         uuid.New().String(),
		PlanID:     planID,
		IsPublic:   true,
		Token:      token,
		Permission: domain.PermissionReadOnly,
		Active:     true,
		CreatedBy:  testutil.TestOwner,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLiteShareRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	shares := NewSQLiteShareRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("Shared plan")
	require.NoError(t, plans.Create(ctx, p))

	target := "user-reader"
	expires := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	g := &domain.ShareGrant{
		ID:           uuid.New().String(),
		PlanID:       p.ID,
		TargetUserID: &target,
		Permission:   domain.PermissionEdit,
		Active:       true,
		ExpiresAt:    &expires,
		CreatedBy:    testutil.TestOwner,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, shares.Create(ctx, g))

	got, err := shares.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.PlanID)
	require.NotNil(t, got.TargetUserID)
	assert.Equal(t, target, *got.TargetUserID)
	assert.False(t, got.IsPublic)
	assert.Empty(t, got.Token)
	assert.Equal(t, domain.PermissionEdit, got.Permission)
	assert.True(t, got.Active)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, got.ExpiresAt.Equal(expires))
	assert.Equal(t, 0, got.AccessCount)
	assert.Nil(t, got.LastAccessedAt)
}

func TestSQLiteShareRepo_GetByToken(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	shares := NewSQLiteShareRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("Token lookup")
	require.NoError(t, plans.Create(ctx, p))

	g := newPublicGrant(p.ID, "AAAAAAAAAAAAAAAAAAAAAA")
	require.NoError(t, shares.Create(ctx, g))

	got, err := shares.GetByToken(ctx, g.Token)
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)
	assert.True(t, got.IsPublic)

	_, err = shares.GetByToken(ctx, "BBBBBBBBBBBBBBBBBBBBBB")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteShareRepo_TokenExists(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	shares := NewSQLiteShareRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("Token uniqueness")
	require.NoError(t, plans.Create(ctx, p))
	require.NoError(t, shares.Create(ctx, newPublicGrant(p.ID, "CCCCCCCCCCCCCCCCCCCCCC")))

	exists, err := shares.TokenExists(ctx, "CCCCCCCCCCCCCCCCCCCCCC")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = shares.TokenExists(ctx, "DDDDDDDDDDDDDDDDDDDDDD")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLiteShareRepo_SetActiveAndUpdatePermission(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	shares := NewSQLiteShareRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("Mutable grant")
	require.NoError(t, plans.Create(ctx, p))

	g := newPublicGrant(p.ID, "EEEEEEEEEEEEEEEEEEEEEE")
	require.NoError(t, shares.Create(ctx, g))

	require.NoError(t, shares.SetActive(ctx, g.ID, false))
	require.NoError(t, shares.UpdatePermission(ctx, g.ID, domain.PermissionFullAccess))

	got, err := shares.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, domain.PermissionFullAccess, got.Permission)

	assert.ErrorIs(t, shares.SetActive(ctx, "no-such-grant", true), ErrNotFound)
	assert.ErrorIs(t, shares.UpdatePermission(ctx, "no-such-grant", domain.PermissionEdit), ErrNotFound)
}

func TestSQLiteShareRepo_RecordAccess(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	shares := NewSQLiteShareRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("Access counting")
	require.NoError(t, plans.Create(ctx, p))

	g := newPublicGrant(p.ID, "FFFFFFFFFFFFFFFFFFFFFF")
	require.NoError(t, shares.Create(ctx, g))

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, shares.RecordAccess(ctx, g.ID, at))
	require.NoError(t, shares.RecordAccess(ctx, g.ID, at.Add(time.Minute)))

	got, err := shares.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AccessCount)
	require.NotNil(t, got.LastAccessedAt)
	assert.True(t, got.LastAccessedAt.Equal(at.Add(time.Minute)))

	assert.ErrorIs(t, shares.RecordAccess(ctx, "no-such-grant", at), ErrNotFound)
}

func TestSQLiteShareRepo_ListByPlan(t *testing.T) {
	database := testutil.NewTestDB(t)
	plans := NewSQLitePlanRepo(database)
	shares := NewSQLiteShareRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("Many grants")
	require.NoError(t, plans.Create(ctx, p))

	target := "user-reader"
	require.NoError(t, shares.Create(ctx, newPublicGrant(p.ID, "GGGGGGGGGGGGGGGGGGGGGG")))
	require.NoError(t, shares.Create(ctx, &domain.ShareGrant{
		ID: uuid.New().String(), PlanID: p.ID, TargetUserID: &target,
		Permission: domain.PermissionReadOnly, Active: true,
		CreatedBy: testutil.TestOwner, CreatedAt: time.Now().UTC(),
	}))

	list, err := shares.ListByPlan(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
