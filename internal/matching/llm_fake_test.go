package matching

import (
	"context"

	"github.com/jonathan/resume-matcher/internal/llm"
)

// fakeClient implements llm.Client for tests. The generate function can
// inspect the prompt to decide its answer, which lets one fake serve both
// model calls of an analysis.
type fakeClient struct {
	generate func(prompt string, tier llm.ModelTier, temperature float32) (string, error)

	calls []fakeCall
}

type fakeCall struct {
	prompt      string
	tier        llm.ModelTier
	temperature float32
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier, temperature float32) (string, error) {
	f.calls = append(f.calls, fakeCall{prompt: prompt, tier: tier, temperature: temperature})
	return f.generate(prompt, tier, temperature)
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }
