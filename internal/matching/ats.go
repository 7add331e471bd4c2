package matching

import (
	"regexp"
	"strings"
)

// jdTokenPattern selects the broad ATS vocabulary: lowercase alphabetic
// words of length >= 3. This is intentionally wider than the skill
// vocabulary and uses substring containment rather than word boundaries.
var jdTokenPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// atsListCap bounds the hit/miss lists returned to callers.
const atsListCap = 20

// ATSResult is the outcome of an ATS keyword coverage check.
type ATSResult struct {
	Score  float64
	Hits   []string
	Misses []string
}

// ATSKeywordScore measures how much of the job description's vocabulary the
// resume covers. Tokens are deduplicated preserving first-encounter order
// and tested for substring presence in the lowercased resume text. The score
// is hits/total as a percentage rounded to two decimals, and 0 when the job
// description yields no qualifying tokens.
func ATSKeywordScore(resumeText, jdText string) ATSResult {
	tokens := jdTokenPattern.FindAllString(strings.ToLower(jdText), -1)

	seen := make(map[string]bool, len(tokens))
	important := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		important = append(important, tok)
	}

	resume := strings.ToLower(resumeText)
	hits := []string{}
	misses := []string{}
	for _, word := range important {
		if strings.Contains(resume, word) {
			hits = append(hits, word)
		} else {
			misses = append(misses, word)
		}
	}

	result := ATSResult{
		Hits:   capList(hits, atsListCap),
		Misses: capList(misses, atsListCap),
	}
	if len(important) > 0 {
		result.Score = Round2(float64(len(hits)) / float64(len(important)) * 100)
	}
	return result
}

func capList(list []string, limit int) []string {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}
