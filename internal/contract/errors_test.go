package contract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFoundf("plan %s not found", "p1")))
	assert.Equal(t, KindPreconditionFailed, KindOf(PreconditionFailedf("not ready")))
	assert.Equal(t, KindInvalidArgument, KindOf(InvalidArgumentf("bad input")))
	assert.Equal(t, KindConcurrencyConflict, KindOf(ConcurrencyConflictf("raced")))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain error")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestKindOf_SeesThroughWrapping(t *testing.T) {
	inner := NotFoundf("plan p1 not found")
	wrapped := fmt.Errorf("handling request: %w", inner)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindInvalidArgument))
}

func TestGenerationFailed_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := GenerationFailed("Failed to generate business plan: section market_analysis could not be generated", cause)

	assert.True(t, IsKind(err, KindGenerationFailed))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Failed to generate business plan")
	assert.Contains(t, err.Error(), "connection refused")
}
