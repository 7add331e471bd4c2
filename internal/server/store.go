package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/db"
)

// UserStore is the persistence surface the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, name, email string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Store is the full persistence surface the server needs. *db.DB
// satisfies it; tests substitute fakes.
type Store interface {
	UserStore

	InsertResume(ctx context.Context, userID uuid.UUID, text string) (uuid.UUID, error)
	LatestResumeText(ctx context.Context, userID uuid.UUID) (text string, found bool, err error)

	InsertJobMatch(ctx context.Context, m *db.JobMatch) (uuid.UUID, error)
	CountMatchesSince(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int, error)
	ListMatches(ctx context.Context, userID uuid.UUID, limit int) ([]db.JobMatch, error)
	ListMissingSkills(ctx context.Context, userID uuid.UUID) ([]string, error)

	Close()
}
