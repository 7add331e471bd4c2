package matching

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestATSKeywordScore(t *testing.T) {
	jd := "Build data pipelines with kafka and airflow"
	resume := "I build pipelines using kafka"

	result := ATSKeywordScore(resume, jd)

	// JD tokens: build, data, pipelines, with, kafka, and, airflow (7 unique).
	// The resume covers build, pipelines, and kafka.
	assert.Equal(t, []string{"build", "pipelines", "kafka"}, result.Hits)
	assert.Contains(t, result.Misses, "airflow")
	assert.InDelta(t, 3.0/7*100, result.Score, 0.01)
}

func TestATSKeywordScoreSubstringContainment(t *testing.T) {
	// "etl" is contained in "metlife"; ATS matching is substring based.
	result := ATSKeywordScore("worked at metlife", "etl experience required")
	assert.Contains(t, result.Hits, "etl")
}

func TestATSKeywordScoreEmptyJobDescription(t *testing.T) {
	result := ATSKeywordScore("some resume", "a b 12 34")
	assert.Equal(t, float64(0), result.Score)
	assert.Empty(t, result.Hits)
	assert.Empty(t, result.Misses)
	assert.NotNil(t, result.Hits)
	assert.NotNil(t, result.Misses)
}

func TestATSKeywordScoreDeduplicates(t *testing.T) {
	result := ATSKeywordScore("kafka", "kafka kafka kafka")
	assert.Equal(t, []string{"kafka"}, result.Hits)
	assert.Equal(t, float64(100), result.Score)
}

func TestATSKeywordScoreCapsLists(t *testing.T) {
	var words []string
	for i := 0; i < 30; i++ {
		words = append(words, fmt.Sprintf("keyword%c%c", 'a'+i/26, 'a'+i%26))
	}
	jd := strings.Join(words, " ")

	result := ATSKeywordScore("nothing relevant here", jd)
	assert.Len(t, result.Misses, 20)
	// The score still reflects all 30 misses plus tokens from the resume
	// check, not just the capped list.
	assert.Equal(t, float64(0), result.Score)
}
