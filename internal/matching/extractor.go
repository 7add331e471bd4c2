package matching

import "strings"

// ExtractSkills returns the vocabulary skills that occur as whole words in
// the given text, in vocabulary order. Duplicate occurrences collapse to a
// single entry. Empty or skill-free text yields an empty slice; there are no
// error conditions.
func ExtractSkills(text string) []string {
	found := []string{}
	if text == "" {
		return found
	}

	lowered := strings.ToLower(text)
	for _, sp := range skillPatterns {
		if sp.pattern.MatchString(lowered) {
			found = append(found, sp.name)
		}
	}
	return found
}

// NormalizeSkill lower-cases and trims a skill string. Stored and aggregated
// skills are always compared in this form.
func NormalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TruncateRunes cuts s to at most limit runes. Analysis inputs are bounded
// before any scoring to keep model cost and latency predictable.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
