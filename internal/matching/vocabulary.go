// Package matching implements the resume/job-description scoring pipeline:
// rule-based skill extraction, ATS keyword coverage, LLM semantic scoring,
// rewrite suggestion generation, and weighted score fusion.
package matching

import "regexp"

// commonSkills is the fixed vocabulary of detectable skill keywords.
// Detection is whole-word and case-insensitive; multi-word entries match as
// literal phrases.
var commonSkills = []string{
	"python", "sql", "aws", "airflow", "kafka", "spark", "dbt", "snowflake",
	"etl", "data warehousing", "docker", "kubernetes", "pandas", "numpy",
	"git", "terraform", "bigquery", "redshift", "hive", "emr", "scala",
}

type skillPattern struct {
	name    string
	pattern *regexp.Regexp
}

// skillPatterns is built once at init; extraction iterates it in vocabulary
// order so results are deterministic.
var skillPatterns = buildSkillPatterns()

func buildSkillPatterns() []skillPattern {
	patterns := make([]skillPattern, 0, len(commonSkills))
	for _, skill := range commonSkills {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(skill) + `\b`)
		patterns = append(patterns, skillPattern{name: skill, pattern: re})
	}
	return patterns
}

// Vocabulary returns a copy of the skill vocabulary.
func Vocabulary() []string {
	out := make([]string, len(commonSkills))
	copy(out, commonSkills)
	return out
}
