package server

import (
	"net/http"
	"time"

	"github.com/jonathan/resume-matcher/internal/matching"
	"github.com/jonathan/resume-matcher/internal/server/middleware"
)

// historyLimit caps how many match records the history endpoint returns.
const historyLimit = 50

// HistoryEntry is one match record in the history response.
type HistoryEntry struct {
	ID                 string   `json:"id"`
	JobDescription     string   `json:"job_description"`
	RuleScore          float64  `json:"rule_score"`
	SemanticScore      float64  `json:"semantic_score"`
	FinalScore         float64  `json:"final_score"`
	ATSScore           float64  `json:"ats_score"`
	MatchedSkills      []string `json:"matched_skills"`
	MissingSkills      []string `json:"missing_skills"`
	RewriteSuggestions string   `json:"rewrite_suggestions"`
	CreatedAt          string   `json:"created_at"`
}

// handleHistory returns the user's analysis history, most recent first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matches, err := s.store.ListMatches(r.Context(), userID, historyLimit)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	entries := make([]HistoryEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, HistoryEntry{
			ID:                 m.ID.String(),
			JobDescription:     m.JobDescription,
			RuleScore:          m.RuleScore,
			SemanticScore:      m.SemanticScore,
			FinalScore:         m.FinalScore,
			ATSScore:           m.ATSScore,
			MatchedSkills:      m.MatchedSkills,
			MissingSkills:      m.MissingSkills,
			RewriteSuggestions: m.RewriteSuggestions,
			CreatedAt:          m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"matches": entries,
		"count":   len(entries),
	})
}

// handleSkillGaps returns the user's most frequently missing skills
// aggregated across all their analyses.
func (s *Server) handleSkillGaps(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stored, err := s.store.ListMissingSkills(r.Context(), userID)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to load skill gaps")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"top_missing_skills": matching.AggregateSkillGaps(stored),
	})
}
