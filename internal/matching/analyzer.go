package matching

import (
	"context"
	"time"

	"github.com/jonathan/resume-matcher/internal/llm"
	"golang.org/x/sync/errgroup"
)

// AnalysisTextLimit bounds resume and job-description text before any
// scoring runs.
const AnalysisTextLimit = 8000

// llmCallTimeout bounds each external model call so a hung request cannot
// block a handler indefinitely.
const llmCallTimeout = 60 * time.Second

// Result holds every output of one analysis run.
type Result struct {
	RuleScore          float64
	SemanticScore      float64
	FinalScore         float64
	ATSScore           float64
	MatchedSkills      []string
	MissingSkills      []string
	ATSMissingKeywords []string
	RewriteSuggestions string
}

// Analyzer runs the full scoring pipeline for one resume/job-description
// pair. It holds no mutable state; concurrent Analyze calls are independent.
type Analyzer struct {
	semantic *SemanticScorer
	rewrite  *RewriteGenerator
}

// NewAnalyzer wires the standard failure policies: semantic scoring
// degrades to zero, rewrite generation propagates.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{
		semantic: NewSemanticScorer(client, Degrade),
		rewrite:  NewRewriteGenerator(client, Propagate),
	}
}

// Analyze scores the resume against the job description and produces
// rewrite suggestions. The two model calls carry no data dependency on each
// other and run concurrently; both complete (or fail per their policy)
// before scores are fused.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jdText string) (*Result, error) {
	resumeText = TruncateRunes(resumeText, AnalysisTextLimit)
	jdText = TruncateRunes(jdText, AnalysisTextLimit)

	jdSkills := ExtractSkills(jdText)
	resumeSkills := ExtractSkills(resumeText)
	matched, missing := PartitionSkills(jdSkills, resumeSkills)

	var semanticPercent float64
	var rewriteText string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		callCtx, cancel := context.WithTimeout(gctx, llmCallTimeout)
		defer cancel()
		percent, err := a.semantic.Score(callCtx, resumeText, jdText)
		if err != nil {
			return err
		}
		semanticPercent = percent
		return nil
	})
	g.Go(func() error {
		callCtx, cancel := context.WithTimeout(gctx, llmCallTimeout)
		defer cancel()
		text, err := a.rewrite.Generate(callCtx, resumeText, jdText, missing)
		if err != nil {
			return err
		}
		rewriteText = text
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ruleScore := RuleScore(len(matched), len(jdSkills))
	ats := ATSKeywordScore(resumeText, jdText)

	return &Result{
		RuleScore:          ruleScore,
		SemanticScore:      semanticPercent,
		FinalScore:         FinalScore(ruleScore, semanticPercent),
		ATSScore:           ats.Score,
		MatchedSkills:      matched,
		MissingSkills:      missing,
		ATSMissingKeywords: ats.Misses,
		RewriteSuggestions: rewriteText,
	}, nil
}
