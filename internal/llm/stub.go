package llm

import (
	"context"
	"fmt"
	"sync"
)

// StubGenerator is a scripted ContentGenerator for tests and dry runs.
// The zero value succeeds on every call and returns "OK".
type StubGenerator struct {
	// Response is the text returned on success. Defaults to "OK".
	Response string

	// FailFirst makes the first N calls fail with a transient error.
	FailFirst int

	// FailFrom, when > 0, makes every call numbered >= FailFrom fail
	// (1-based). Used to simulate a generator dying partway through a run.
	FailFrom int

	// Unavailable makes Available report false.
	Unavailable bool

	mu    sync.Mutex
	calls int
}

func (s *StubGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()

	if call <= s.FailFirst || (s.FailFrom > 0 && call >= s.FailFrom) {
		return nil, fmt.Errorf("%w: stub failure on call %d", ErrTransient, call)
	}

	text := s.Response
	if text == "" {
		text = "OK"
	}
	return &GenerateResponse{Text: text, Model: "stub"}, nil
}

func (s *StubGenerator) Available(ctx context.Context) bool {
	return !s.Unavailable
}

// Calls returns how many Generate calls the stub has received.
func (s *StubGenerator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
