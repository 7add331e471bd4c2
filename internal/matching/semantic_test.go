package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticScoreRescalesRating(t *testing.T) {
	client := &fakeClient{
		generate: func(prompt string, tier llm.ModelTier, temperature float32) (string, error) {
			return "7", nil
		},
	}
	scorer := NewSemanticScorer(client, Degrade)

	score, err := scorer.Score(context.Background(), "resume", "jd")
	require.NoError(t, err)
	assert.Equal(t, 70.0, score)

	require.Len(t, client.calls, 1)
	assert.Equal(t, llm.TierLite, client.calls[0].tier)
	assert.Equal(t, float32(0), client.calls[0].temperature)
}

func TestSemanticScoreTrimsWhitespace(t *testing.T) {
	client := &fakeClient{
		generate: func(prompt string, tier llm.ModelTier, temperature float32) (string, error) {
			return "  8.5\n", nil
		},
	}
	scorer := NewSemanticScorer(client, Degrade)

	score, err := scorer.Score(context.Background(), "resume", "jd")
	require.NoError(t, err)
	assert.Equal(t, 85.0, score)
}

func TestSemanticScoreClampsRating(t *testing.T) {
	client := &fakeClient{
		generate: func(prompt string, tier llm.ModelTier, temperature float32) (string, error) {
			return "15", nil
		},
	}
	scorer := NewSemanticScorer(client, Degrade)

	score, err := scorer.Score(context.Background(), "resume", "jd")
	require.NoError(t, err)
	assert.Equal(t, 100.0, score)
}

func TestSemanticScoreDegradesOnUnparsableRating(t *testing.T) {
	client := &fakeClient{
		generate: func(prompt string, tier llm.ModelTier, temperature float32) (string, error) {
			return "N/A", nil
		},
	}
	scorer := NewSemanticScorer(client, Degrade)

	score, err := scorer.Score(context.Background(), "resume", "jd")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestSemanticScoreDegradesOnCallError(t *testing.T) {
	client := &fakeClient{
		generate: func(prompt string, tier llm.ModelTier, temperature float32) (string, error) {
			return "", errors.New("model unavailable")
		},
	}
	scorer := NewSemanticScorer(client, Degrade)

	score, err := scorer.Score(context.Background(), "resume", "jd")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestSemanticScorePropagatesCallError(t *testing.T) {
	client := &fakeClient{
		generate: func(prompt string, tier llm.ModelTier, temperature float32) (string, error) {
			return "", errors.New("model unavailable")
		},
	}
	scorer := NewSemanticScorer(client, Propagate)

	_, err := scorer.Score(context.Background(), "resume", "jd")
	assert.Error(t, err)
}

func TestSemanticScorePromptContainsBothTexts(t *testing.T) {
	client := &fakeClient{
		generate: func(prompt string, tier llm.ModelTier, temperature float32) (string, error) {
			return "5", nil
		},
	}
	scorer := NewSemanticScorer(client, Degrade)

	_, err := scorer.Score(context.Background(), "my unique resume text", "my unique jd text")
	require.NoError(t, err)

	require.Len(t, client.calls, 1)
	assert.Contains(t, client.calls[0].prompt, "my unique resume text")
	assert.Contains(t, client.calls[0].prompt, "my unique jd text")
}
