package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/matching"
)

// InsertJobMatch persists one completed analysis and returns the new
// record's ID. Skill lists are stored as JSONB string arrays, the canonical
// representation.
func (db *DB) InsertJobMatch(ctx context.Context, m *JobMatch) (uuid.UUID, error) {
	matchedJSON, err := marshalSkills(m.MatchedSkills)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal matched skills: %w", err)
	}
	missingJSON, err := marshalSkills(m.MissingSkills)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal missing skills: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO job_matches
		     (user_id, job_description, rule_score, semantic_score, final_score,
		      ats_score, matched_skills, missing_skills, rewrite_suggestions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9)
		 RETURNING id`,
		m.UserID, m.JobDescription, m.RuleScore, m.SemanticScore, m.FinalScore,
		m.ATSScore, matchedJSON, missingJSON, m.RewriteSuggestions,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert job match: %w", err)
	}
	return id, nil
}

// CountMatchesSince returns how many match records the user created at or
// after the cutoff. Used for the daily analysis quota.
func (db *DB) CountMatchesSince(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM job_matches
		 WHERE user_id = $1 AND created_at >= $2`,
		userID, cutoff,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

// ListMatches returns the user's match records, most recent first.
func (db *DB) ListMatches(ctx context.Context, userID uuid.UUID, limit int) ([]JobMatch, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, job_description, rule_score, semantic_score,
		        final_score, ats_score, matched_skills::text, missing_skills::text,
		        rewrite_suggestions, created_at
		 FROM job_matches
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []JobMatch
	for rows.Next() {
		var m JobMatch
		var matchedRaw, missingRaw string
		if err := rows.Scan(&m.ID, &m.UserID, &m.JobDescription, &m.RuleScore,
			&m.SemanticScore, &m.FinalScore, &m.ATSScore, &matchedRaw, &missingRaw,
			&m.RewriteSuggestions, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		// Skill lists pass through the legacy-tolerant parser so one
		// old-format row cannot break the whole listing.
		if skills, ok := matching.ParseStoredSkills(matchedRaw); ok {
			m.MatchedSkills = skills
		} else {
			m.MatchedSkills = []string{}
		}
		if skills, ok := matching.ParseStoredSkills(missingRaw); ok {
			m.MissingSkills = skills
		} else {
			m.MissingSkills = []string{}
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// ListMissingSkills returns the raw stored missing_skills values for every
// match record of the user. Values are returned as text so the caller can
// apply the legacy-tolerant parse.
func (db *DB) ListMissingSkills(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT missing_skills::text FROM job_matches WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list missing skills: %w", err)
	}
	defer rows.Close()

	var stored []string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan missing skills: %w", err)
		}
		stored = append(stored, raw)
	}
	return stored, nil
}

// marshalSkills encodes a skill list, normalizing nil to an empty array.
func marshalSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	data, err := json.Marshal(skills)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
