package llm

import "context"

// GenerateRequest holds the parameters for a single content generation call.
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// GenerateResponse holds the result of a content generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// ContentGenerator produces text from a prompt pair. Implementations make
// exactly one attempt per Generate call; retry policy lives in
// RetryingGenerator.
type ContentGenerator interface {
	// Generate sends the prompts and returns the raw text response.
	// Transient failures are wrapped with ErrTransient.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the backing model server is reachable.
	Available(ctx context.Context) bool
}
