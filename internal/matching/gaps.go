package matching

import (
	"encoding/json"
	"sort"
	"strings"
)

// topSkillGaps bounds the aggregated gap list.
const topSkillGaps = 10

// SkillGap is one aggregated missing-skill frequency entry.
type SkillGap struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// AggregateSkillGaps tallies how often each normalized skill appears in the
// stored missing-skills values and returns the top 10 by descending count.
// Ties keep first-encounter order over the scanned values (stable sort).
// Values that cannot be parsed are skipped; one malformed row never fails
// the aggregation.
func AggregateSkillGaps(stored []string) []SkillGap {
	counts := make(map[string]int)
	order := []string{}

	for _, raw := range stored {
		skills, ok := ParseStoredSkills(raw)
		if !ok {
			continue
		}
		for _, skill := range skills {
			norm := NormalizeSkill(skill)
			if norm == "" {
				continue
			}
			if _, seen := counts[norm]; !seen {
				order = append(order, norm)
			}
			counts[norm]++
		}
	}

	gaps := make([]SkillGap, 0, len(order))
	for _, skill := range order {
		gaps = append(gaps, SkillGap{Skill: skill, Count: counts[skill]})
	}
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Count > gaps[j].Count
	})

	if len(gaps) > topSkillGaps {
		gaps = gaps[:topSkillGaps]
	}
	return gaps
}

// ParseStoredSkills decodes a stored missing_skills value. The canonical
// form is a JSON array of strings. Two legacy textual forms written by
// earlier backends are tolerated as a compatibility shim: a single-quoted
// list serialization and a bare comma-joined string. Returns ok=false when
// the value is empty or unparsable.
func ParseStoredSkills(raw string) ([]string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, false
	}

	var skills []string
	if err := json.Unmarshal([]byte(raw), &skills); err == nil {
		return skills, true
	}

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		// Legacy list serialization, e.g. ['kafka', 'airflow'].
		quoted := strings.ReplaceAll(raw, "'", `"`)
		if err := json.Unmarshal([]byte(quoted), &skills); err == nil {
			return skills, true
		}
		return nil, false
	}

	if strings.ContainsAny(raw, "{}[]") {
		return nil, false
	}

	// Bare comma-joined string.
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
