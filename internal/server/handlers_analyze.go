package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/matching"
	"github.com/jonathan/resume-matcher/internal/server/middleware"
)

// AnalyzeRequest is the payload for POST /analyze.
type AnalyzeRequest struct {
	JobDescription string `json:"job_description" validate:"required,min=1"`
}

// AnalyzeResponse is the result of one analysis run.
type AnalyzeResponse struct {
	RuleScore          float64  `json:"rule_score"`
	SemanticScore      float64  `json:"semantic_score"`
	FinalScore         float64  `json:"final_score"`
	ATSScore           float64  `json:"ats_score"`
	MatchedSkills      []string `json:"matched_skills"`
	MissingSkills      []string `json:"missing_skills"`
	ATSMissingKeywords []string `json:"ats_missing_keywords"`
	RewriteSuggestions string   `json:"rewrite_suggestions"`
}

// handleAnalyze scores the user's latest resume against a job
// description, persists the result, and returns it. Enforces the daily
// quota before doing any LLM work.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	// Quota window starts at UTC midnight.
	cutoff := time.Now().UTC().Truncate(24 * time.Hour)
	count, err := s.store.CountMatchesSince(r.Context(), userID, cutoff)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to check quota")
		return
	}
	if count >= s.config.DailyAnalysisLimit {
		errorResponse(w, http.StatusTooManyRequests, "quota_exceeded")
		return
	}

	resumeText, found, err := s.store.LatestResumeText(r.Context(), userID)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to load resume")
		return
	}
	if !found {
		errorResponse(w, http.StatusNotFound, "no resume on file")
		return
	}

	jd := matching.TruncateRunes(req.JobDescription, matching.AnalysisTextLimit)
	resumeText = matching.TruncateRunes(resumeText, matching.AnalysisTextLimit)

	result, err := s.analyzer.Analyze(r.Context(), resumeText, jd)
	if err != nil {
		errorResponse(w, http.StatusBadGateway, "Analysis failed, try again later")
		return
	}

	match := &db.JobMatch{
		UserID:             userID,
		JobDescription:     jd,
		RuleScore:          result.RuleScore,
		SemanticScore:      result.SemanticScore,
		FinalScore:         result.FinalScore,
		ATSScore:           result.ATSScore,
		MatchedSkills:      result.MatchedSkills,
		MissingSkills:      result.MissingSkills,
		RewriteSuggestions: result.RewriteSuggestions,
	}
	if _, err := s.store.InsertJobMatch(r.Context(), match); err != nil {
		errorResponse(w, http.StatusInternalServerError, "Failed to save analysis")
		return
	}

	jsonResponse(w, http.StatusOK, AnalyzeResponse{
		RuleScore:          result.RuleScore,
		SemanticScore:      result.SemanticScore,
		FinalScore:         result.FinalScore,
		ATSScore:           result.ATSScore,
		MatchedSkills:      result.MatchedSkills,
		MissingSkills:      result.MissingSkills,
		ATSMissingKeywords: result.ATSMissingKeywords,
		RewriteSuggestions: result.RewriteSuggestions,
	})
}
