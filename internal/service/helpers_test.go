package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/llm"
	"github.com/planweave/planweave/internal/repository"
	"github.com/planweave/planweave/internal/testutil"
)

// fixture wires the full service stack over a test database with a
// scripted generator.
type fixture struct {
	db        *sql.DB
	planRepo  *repository.SQLitePlanRepo
	stub      *llm.StubGenerator
	plans     PlanService
	gen       GenerationService
	snapshots SnapshotService
	shares    ShareService
}

func newFixture(t *testing.T, database *sql.DB) *fixture {
	t.Helper()

	planRepo := repository.NewSQLitePlanRepo(database)
	answerRepo := repository.NewSQLiteAnswerRepo(database)
	snapshotRepo := repository.NewSQLiteSnapshotRepo(database)
	shareRepo := repository.NewSQLiteShareRepo(database)
	uow := testutil.NewTestUoW(database)

	stub := &llm.StubGenerator{}
	retrying := llm.NewRetryingGenerator(stub, 0, time.Millisecond)

	return &fixture{
		db:        database,
		planRepo:  planRepo,
		stub:      stub,
		plans:     NewPlanService(planRepo, answerRepo),
		gen:       NewGenerationService(planRepo, answerRepo, retrying, llm.DefaultConfig(), zerolog.Nop()),
		snapshots: NewSnapshotService(planRepo, snapshotRepo, uow),
		shares:    NewShareService(planRepo, shareRepo),
	}
}

func newTestFixture(t *testing.T) *fixture {
	return newFixture(t, testutil.NewTestDB(t))
}

// seedPlan inserts a plan directly through the repository, bypassing
// service-level validation.
func (f *fixture) seedPlan(t *testing.T, opts ...testutil.PlanOption) *domain.Plan {
	t.Helper()
	p := testutil.NewTestPlan("Fixture plan", opts...)
	require.NoError(t, f.planRepo.Create(context.Background(), p))
	return p
}

// seedReadyPlan inserts a questionnaire_complete plan whose required
// answers are all present, ready for GenerateAll.
func (f *fixture) seedReadyPlan(t *testing.T, opts ...testutil.PlanOption) *domain.Plan {
	t.Helper()
	opts = append([]testutil.PlanOption{testutil.WithQuestionnaireDone()}, opts...)
	p := f.seedPlan(t, opts...)

	answerRepo := repository.NewSQLiteAnswerRepo(f.db)
	for _, a := range testutil.NewTestAnswers(p.ID, p.RequiredAnswers) {
		require.NoError(t, answerRepo.Upsert(context.Background(), a))
	}
	return p
}

// withGenerator swaps the orchestrator's generator, keeping the rest of
// the fixture wiring.
func (f *fixture) withGenerator(gen SectionGenerator) GenerationService {
	answerRepo := repository.NewSQLiteAnswerRepo(f.db)
	return NewGenerationService(f.planRepo, answerRepo, gen, llm.DefaultConfig(), zerolog.Nop())
}
