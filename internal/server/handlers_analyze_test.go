package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupServer returns a wired test server plus a registered user's ID
// and bearer token.
func setupServer(t *testing.T, store *fakeStore, client *fakeLLM) (*Server, uuid.UUID, string) {
	t.Helper()

	srv := newTestServer(store, client)
	t.Cleanup(func() { srv.rateLimiter.Stop() })

	user, err := srv.userService.Register(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	token, err := srv.jwtService.GenerateToken(user.ID)
	require.NoError(t, err)

	return srv, user.ID, token
}

func doAnalyze(t *testing.T, srv *Server, token, jd string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"job_description": jd})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleAnalyze(t *testing.T) {
	store := newFakeStore()
	srv, userID, token := setupServer(t, store, &fakeLLM{rating: "7", bullets: "- better bullet"})

	_, err := store.InsertResume(context.Background(), userID, "Data engineer with python and sql experience")
	require.NoError(t, err)

	rec := doAnalyze(t, srv, token, "Looking for python, airflow and kafka skills")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 33.33, resp.RuleScore)
	assert.Equal(t, 70.0, resp.SemanticScore)
	assert.Equal(t, 48.0, resp.FinalScore)
	assert.Equal(t, []string{"python"}, resp.MatchedSkills)
	assert.Equal(t, []string{"airflow", "kafka"}, resp.MissingSkills)
	assert.Equal(t, "- better bullet", resp.RewriteSuggestions)

	// The analysis was persisted.
	require.Len(t, store.matches, 1)
	assert.Equal(t, userID, store.matches[0].UserID)
	assert.Equal(t, resp.FinalScore, store.matches[0].FinalScore)
}

func TestHandleAnalyzeNoResume(t *testing.T) {
	srv, _, token := setupServer(t, newFakeStore(), &fakeLLM{rating: "7", bullets: "b"})

	rec := doAnalyze(t, srv, token, "python job")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAnalyzeQuotaExceeded(t *testing.T) {
	store := newFakeStore()
	srv, userID, token := setupServer(t, store, &fakeLLM{rating: "7", bullets: "b"})

	_, err := store.InsertResume(context.Background(), userID, "python resume")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := store.InsertJobMatch(context.Background(), &db.JobMatch{UserID: userID, CreatedAt: time.Now()})
		require.NoError(t, err)
	}

	rec := doAnalyze(t, srv, token, "python job")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "quota_exceeded", resp["error"])
}

func TestHandleAnalyzeQuotaResetsAtUTCMidnight(t *testing.T) {
	store := newFakeStore()
	srv, userID, token := setupServer(t, store, &fakeLLM{rating: "7", bullets: "b"})

	_, err := store.InsertResume(context.Background(), userID, "python resume")
	require.NoError(t, err)

	// Five analyses from before today's UTC midnight do not count.
	yesterday := time.Now().UTC().Truncate(24 * time.Hour).Add(-time.Hour)
	for i := 0; i < 5; i++ {
		_, err := store.InsertJobMatch(context.Background(), &db.JobMatch{UserID: userID, CreatedAt: yesterday})
		require.NoError(t, err)
	}

	rec := doAnalyze(t, srv, token, "python job")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHandleAnalyzeRewriteFailure(t *testing.T) {
	store := newFakeStore()
	srv, userID, token := setupServer(t, store, &fakeLLM{err: assert.AnError})

	_, err := store.InsertResume(context.Background(), userID, "python resume")
	require.NoError(t, err)

	rec := doAnalyze(t, srv, token, "python job")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	// Nothing was persisted.
	assert.Empty(t, store.matches)
}

func TestHandleAnalyzeUnauthorized(t *testing.T) {
	srv, _, _ := setupServer(t, newFakeStore(), &fakeLLM{rating: "7", bullets: "b"})

	body := bytes.NewReader([]byte(`{"job_description": "python"}`))
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleAnalyzeInvalidBody(t *testing.T) {
	srv, _, token := setupServer(t, newFakeStore(), &fakeLLM{rating: "7", bullets: "b"})

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader([]byte("not json")))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doAnalyze(t, srv, token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
