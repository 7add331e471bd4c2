package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PasswordSet  bool      `json:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Resume represents one uploaded resume's extracted text. The most recent
// record per user is authoritative.
type Resume struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	ResumeText string    `json:"resume_text"`
	CreatedAt  time.Time `json:"created_at"`
}

// JobMatch is one persisted analysis result. Records are immutable: only
// inserted, later read for history and skill-gap aggregation.
type JobMatch struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	JobDescription     string    `json:"job_description"`
	RuleScore          float64   `json:"rule_score"`
	SemanticScore      float64   `json:"semantic_score"`
	FinalScore         float64   `json:"final_score"`
	ATSScore           float64   `json:"ats_score"`
	MatchedSkills      []string  `json:"matched_skills"`
	MissingSkills      []string  `json:"missing_skills"`
	RewriteSuggestions string    `json:"rewrite_suggestions"`
	CreatedAt          time.Time `json:"created_at"`
}
