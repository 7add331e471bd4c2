package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertResume stores extracted resume text for a user and returns the new
// record's ID
func (db *DB) InsertResume(ctx context.Context, userID uuid.UUID, text string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, resume_text) VALUES ($1, $2) RETURNING id`,
		userID, text,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert resume: %w", err)
	}
	return id, nil
}

// LatestResumeText returns the most recently uploaded resume text for the
// user. found is false when the user has no resume on file.
func (db *DB) LatestResumeText(ctx context.Context, userID uuid.UUID) (text string, found bool, err error) {
	err = db.pool.QueryRow(ctx,
		`SELECT resume_text FROM resumes
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&text)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get latest resume: %w", err)
	}
	return text, true, nil
}
