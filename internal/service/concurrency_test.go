package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planweave/planweave/internal/contract"
	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/llm"
	"github.com/planweave/planweave/internal/testutil"
)

func TestCreateSnapshot_ConcurrentRequestsGetUniqueVersions(t *testing.T) {
	f := newFixture(t, testutil.NewFileTestDB(t))
	ctx := context.Background()
	p := f.seedPlan(t)

	const workers = 10
	versions := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := f.snapshots.CreateSnapshot(ctx, testutil.TestOwner, p.ID, "concurrent")
			if assert.NoError(t, err) {
				versions <- snap.Version
			}
		}()
	}
	wg.Wait()
	close(versions)

	seen := map[int]bool{}
	for v := range versions {
		assert.False(t, seen[v], "version %d allocated twice", v)
		seen[v] = true
	}
	require.Len(t, seen, workers)
	for v := 1; v <= workers; v++ {
		assert.True(t, seen[v], "version %d missing from the sequence", v)
	}
}

// gatedGenerator blocks every Generate call until released, holding a
// generation run open so a competing run can be observed.
type gatedGenerator struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
		return &llm.GenerateResponse{Text: "OK"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestGenerateAll_ConcurrentStartsHaveOneWinner(t *testing.T) {
	f := newFixture(t, testutil.NewFileTestDB(t))
	p := f.seedReadyPlan(t)

	gated := &gatedGenerator{entered: make(chan struct{}), release: make(chan struct{})}
	gen := f.withGenerator(gated)

	firstDone := make(chan error, 1)
	go func() {
		_, err := gen.GenerateAll(context.Background(), testutil.TestOwner, p.ID, "en")
		firstDone <- err
	}()

	// Wait until the first run holds the generating status, then race it.
	<-gated.entered
	_, err := gen.GenerateAll(context.Background(), testutil.TestOwner, p.ID, "en")
	require.Error(t, err, "the second start must lose while a run is active")
	kind := contract.KindOf(err)
	assert.Contains(t, []contract.Kind{contract.KindPreconditionFailed, contract.KindConcurrencyConflict}, kind)

	close(gated.release)
	require.NoError(t, <-firstDone)

	got, err := f.plans.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusGenerated, got.Status)
}
