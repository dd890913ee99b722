package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/testutil"
)

func TestSQLitePlanRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	completedAt := time.Now().UTC().Truncate(time.Second)
	p := testutil.NewTestPlan("Coffee Roastery",
		testutil.WithCategory(domain.CategoryNonProfit),
		testutil.WithLanguage("es"),
	)
	p.QuestionnaireCompletedAt = &completedAt

	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, testutil.TestOwner, got.OwnerID)
	assert.Equal(t, "Coffee Roastery", got.Title)
	assert.Equal(t, domain.CategoryNonProfit, got.Category)
	assert.Equal(t, domain.StatusDraft, got.Status)
	assert.Equal(t, "es", got.Language)
	assert.Equal(t, 20, got.RequiredAnswers)
	assert.Equal(t, 0, got.Version)
	require.NotNil(t, got.QuestionnaireCompletedAt)
	assert.True(t, got.QuestionnaireCompletedAt.Equal(completedAt))
	assert.Nil(t, got.GenerationStartedAt)
	assert.Empty(t, got.Sections)
}

func TestSQLitePlanRepo_GetByID_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)

	_, err := repo.GetByID(context.Background(), "no-such-plan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLitePlanRepo_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("Short-lived")
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err := repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrNotFound)
}

func TestSQLitePlanRepo_TransitionStatus(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()
	now := time.Now().UTC()

	p := testutil.NewTestPlan("State machine", testutil.WithStatus(domain.StatusQuestionnaireComplete))
	require.NoError(t, repo.Create(ctx, p))

	ok, err := repo.TransitionStatus(ctx, p.ID, domain.StatusQuestionnaireComplete, domain.StatusGenerating, now)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second identical transition misses: the row is no longer in the
	// expected from status.
	ok, err = repo.TransitionStatus(ctx, p.ID, domain.StatusQuestionnaireComplete, domain.StatusGenerating, now)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusGenerating, got.Status)
}

func TestSQLitePlanRepo_MarkQuestionnaireComplete(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()

	p := testutil.NewTestPlan("Questionnaire")
	require.NoError(t, repo.Create(ctx, p))

	first := time.Now().UTC().Truncate(time.Second)
	ok, err := repo.MarkQuestionnaireComplete(ctx, p.ID, first)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQuestionnaireComplete, got.Status)
	assert.Equal(t, 100.0, got.CompletionPct)
	require.NotNil(t, got.QuestionnaireCompletedAt)
	assert.True(t, got.QuestionnaireCompletedAt.Equal(first))

	// Not in draft anymore, so the CAS misses and the timestamp is kept.
	ok, err = repo.MarkQuestionnaireComplete(ctx, p.ID, first.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLitePlanRepo_UpsertSection(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()
	now := time.Now().UTC()

	p := testutil.NewTestPlan("Sections")
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.UpsertSection(ctx, p.ID, domain.SectionExecutiveSummary, "first draft", now))
	require.NoError(t, repo.UpsertSection(ctx, p.ID, domain.SectionMarketAnalysis, "analysis", now))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "first draft", got.SectionContent(domain.SectionExecutiveSummary))
	assert.Equal(t, "analysis", got.SectionContent(domain.SectionMarketAnalysis))

	// Rewriting a section replaces the content without adding a row.
	require.NoError(t, repo.UpsertSection(ctx, p.ID, domain.SectionExecutiveSummary, "second draft", now))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "second draft", got.SectionContent(domain.SectionExecutiveSummary))
	assert.Len(t, got.Sections, 2)
}

func TestSQLitePlanRepo_MarkGenerationStarted_ClearsCompletion(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()
	now := time.Now().UTC()

	p := testutil.NewTestPlan("Rerun")
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.MarkGenerationStarted(ctx, p.ID, now))
	require.NoError(t, repo.MarkGenerationCompleted(ctx, p.ID, now))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GenerationCompletedAt)

	// A fresh run clears the previous completion stamp.
	require.NoError(t, repo.MarkGenerationStarted(ctx, p.ID, now.Add(time.Minute)))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.GenerationStartedAt)
	assert.Nil(t, got.GenerationCompletedAt)
}

func TestSQLitePlanRepo_AllocateVersion(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLitePlanRepo(database)
	ctx := context.Background()
	now := time.Now().UTC()

	p := testutil.NewTestPlan("Versioned")
	require.NoError(t, repo.Create(ctx, p))

	for want := 1; want <= 3; want++ {
		v, err := repo.AllocateVersion(ctx, p.ID, now)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Version)

	_, err = repo.AllocateVersion(ctx, "no-such-plan", now)
	assert.ErrorIs(t, err, ErrNotFound)
}
