package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-matcher/internal/llm"
)

// rewriteSkillCap bounds how many missing skills go into the prompt; the
// full missing set is still persisted with the match record.
const rewriteSkillCap = 5

// rewriteTemperature allows lexical variety across rewrites.
const rewriteTemperature = 0.3

const rewritePromptTemplate = `You are a resume coach.

Rewrite 3 resume bullet points to better match this job description.

Rules:
- Do NOT invent experience.
- Reframe existing experience.
- Focus on these missing or weak skills: %s
- Use quantified impact where possible.
- Keep bullets concise.

Resume:
%s

Job Description:
%s

Return ONLY bullet points.`

// RewriteGenerator produces reworded resume bullets targeting missing
// skills.
type RewriteGenerator struct {
	client llm.Client
	policy FailurePolicy
}

// NewRewriteGenerator creates a generator with the given failure policy.
func NewRewriteGenerator(client llm.Client, policy FailurePolicy) *RewriteGenerator {
	return &RewriteGenerator{client: client, policy: policy}
}

// Generate returns free-form suggestion text. Callers treat the output as
// opaque; it is never parsed into discrete bullets. Under the Propagate
// policy a model failure is returned as an error.
func (g *RewriteGenerator) Generate(ctx context.Context, resumeText, jdText string, missingSkills []string) (string, error) {
	if len(missingSkills) > rewriteSkillCap {
		missingSkills = missingSkills[:rewriteSkillCap]
	}

	prompt := fmt.Sprintf(rewritePromptTemplate,
		strings.Join(missingSkills, ", "),
		TruncateRunes(resumeText, promptTextLimit),
		TruncateRunes(jdText, promptTextLimit),
	)

	text, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard, rewriteTemperature)
	if err != nil {
		if g.policy == Degrade {
			return "", nil
		}
		return "", fmt.Errorf("rewrite suggestions: %w", err)
	}
	return strings.TrimSpace(text), nil
}
