package matching

import "math"

// Fixed fusion weights: keyword overlap dominates, the model score refines.
const (
	ruleWeight     = 0.6
	semanticWeight = 0.4
)

// Round2 rounds to two decimal places. Every score leaving this package is
// rounded this way.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// RuleScore is the percentage of job-description skills matched by the
// resume, rounded to two decimals. A job description with zero detected
// skills scores 0: an empty requirement set counts as unsatisfied, not
// undefined.
func RuleScore(matched, jdSkills int) float64 {
	if jdSkills == 0 {
		return 0
	}
	return Round2(float64(matched) / float64(jdSkills) * 100)
}

// FinalScore fuses the rule score and the semantic percentage with fixed
// weights. There is no configuration surface for the weights.
func FinalScore(ruleScore, semanticPercent float64) float64 {
	return Round2(ruleWeight*ruleScore + semanticWeight*semanticPercent)
}

// PartitionSkills splits the job-description skills into those present in
// the resume skill set and those missing from it. The two slices are
// disjoint and their union is jdSkills, preserving jdSkills order.
func PartitionSkills(jdSkills, resumeSkills []string) (matched, missing []string) {
	have := make(map[string]bool, len(resumeSkills))
	for _, s := range resumeSkills {
		have[s] = true
	}

	matched = []string{}
	missing = []string{}
	for _, s := range jdSkills {
		if have[s] {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}
	return matched, missing
}
