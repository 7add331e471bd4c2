package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/llm"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	mu sync.Mutex

	users   map[uuid.UUID]*db.User
	resumes []db.Resume
	matches []db.JobMatch

	// missingSkillsRaw, when set, overrides the stored missing_skills
	// values returned by ListMissingSkills.
	missingSkillsRaw []string

	// err, when set, is returned by every method.
	err error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[uuid.UUID]*db.User)}
}

func (f *fakeStore) CreateUser(ctx context.Context, name, email string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return uuid.Nil, f.err
	}
	id := uuid.New()
	now := time.Now()
	f.users[id] = &db.User{ID: id, Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (f *fakeStore) GetUser(ctx context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user not found: %s", id)
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) InsertResume(ctx context.Context, userID uuid.UUID, text string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return uuid.Nil, f.err
	}
	r := db.Resume{ID: uuid.New(), UserID: userID, ResumeText: text, CreatedAt: time.Now()}
	f.resumes = append(f.resumes, r)
	return r.ID, nil
}

func (f *fakeStore) LatestResumeText(ctx context.Context, userID uuid.UUID) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", false, f.err
	}
	for i := len(f.resumes) - 1; i >= 0; i-- {
		if f.resumes[i].UserID == userID {
			return f.resumes[i].ResumeText, true, nil
		}
	}
	return "", false, nil
}

func (f *fakeStore) InsertJobMatch(ctx context.Context, m *db.JobMatch) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return uuid.Nil, f.err
	}
	stored := *m
	stored.ID = uuid.New()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	f.matches = append(f.matches, stored)
	return stored.ID, nil
}

func (f *fakeStore) CountMatchesSince(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, m := range f.matches {
		if m.UserID == userID && !m.CreatedAt.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) ListMatches(ctx context.Context, userID uuid.UUID, limit int) ([]db.JobMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []db.JobMatch
	for i := len(f.matches) - 1; i >= 0 && len(out) < limit; i-- {
		if f.matches[i].UserID == userID {
			out = append(out, f.matches[i])
		}
	}
	return out, nil
}

func (f *fakeStore) ListMissingSkills(ctx context.Context, userID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.missingSkillsRaw != nil {
		return f.missingSkillsRaw, nil
	}
	var out []string
	for _, m := range f.matches {
		if m.UserID == userID {
			skills := m.MissingSkills
			if skills == nil {
				skills = []string{}
			}
			data, err := json.Marshal(skills)
			if err != nil {
				return nil, err
			}
			out = append(out, string(data))
		}
	}
	return out, nil
}

func (f *fakeStore) Close() {}

// fakeLLM implements llm.Client for handler tests. Answers the rating
// prompt with rating, any other prompt with bullets.
type fakeLLM struct {
	rating  string
	bullets string
	err     error
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier, temperature float32) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if strings.Contains(prompt, "Rate how relevant") {
		return f.rating, nil
	}
	return f.bullets, nil
}

func (f *fakeLLM) GetModel(tier llm.ModelTier) string { return "fake-model" }

func (f *fakeLLM) Close() error { return nil }

// newTestServer wires a server around fakes with a known JWT secret.
func newTestServer(store Store, client llm.Client) *Server {
	cfg := &Config{Port: 0, DailyAnalysisLimit: 5}
	jwtConfig := &config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          config.DefaultIssuer,
		ExpirationHours: 1,
	}
	passwordConfig := &config.PasswordConfig{BcryptCost: 10}
	return newWithDeps(cfg, store, client, jwtConfig, passwordConfig)
}
