package matching

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-matcher/internal/llm"
)

// promptTextLimit bounds each text block embedded in a model prompt.
const promptTextLimit = 3000

const semanticPromptTemplate = `Rate how relevant this resume is to the job description from 0 to 10.

Return ONLY a number.

Resume:
%s

Job Description:
%s
`

// SemanticScorer rates resume/job-description relevance with an LLM.
type SemanticScorer struct {
	client llm.Client
	policy FailurePolicy
}

// NewSemanticScorer creates a scorer with the given failure policy.
func NewSemanticScorer(client llm.Client, policy FailurePolicy) *SemanticScorer {
	return &SemanticScorer{client: client, policy: policy}
}

// Score returns the model's relevance rating rescaled to a 0-100 percentage,
// rounded to two decimals. Sampling is deterministic (temperature 0). Under
// the Degrade policy any call or parse failure yields 0 with a nil error, so
// a single failing model call cannot abort a whole analysis.
func (s *SemanticScorer) Score(ctx context.Context, resumeText, jdText string) (float64, error) {
	prompt := fmt.Sprintf(semanticPromptTemplate,
		TruncateRunes(resumeText, promptTextLimit),
		TruncateRunes(jdText, promptTextLimit),
	)

	raw, err := s.client.GenerateContent(ctx, prompt, llm.TierLite, 0)
	if err != nil {
		if s.policy == Degrade {
			return 0, nil
		}
		return 0, fmt.Errorf("semantic score: %w", err)
	}

	rating, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		if s.policy == Degrade {
			return 0, nil
		}
		return 0, fmt.Errorf("semantic score: unparsable rating %q", strings.TrimSpace(raw))
	}

	// The model is asked for [0,10] but not trusted to stay there.
	if rating < 0 {
		rating = 0
	}
	if rating > 10 {
		rating = 10
	}
	return Round2(rating * 10), nil
}
