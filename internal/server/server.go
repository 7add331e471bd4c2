package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-matcher/internal/config"
	"github.com/jonathan/resume-matcher/internal/db"
	"github.com/jonathan/resume-matcher/internal/llm"
	"github.com/jonathan/resume-matcher/internal/matching"
	"github.com/jonathan/resume-matcher/internal/server/middleware"
	"github.com/jonathan/resume-matcher/internal/server/ratelimit"
)

// defaultDailyAnalysisLimit is how many analyses a user may run per UTC day.
const defaultDailyAnalysisLimit = 5

// Config holds server configuration.
type Config struct {
	Port               int
	DatabaseURL        string
	GeminiAPIKey       string
	DailyAnalysisLimit int
}

// LoadConfigFromEnv builds a server Config from the environment.
// DATABASE_URL and GEMINI_API_KEY are required.
func LoadConfigFromEnv(port int) (*Config, error) {
	cfg := &Config{
		Port:               port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		DailyAnalysisLimit: defaultDailyAnalysisLimit,
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if v := os.Getenv("DAILY_ANALYSIS_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid DAILY_ANALYSIS_LIMIT: %q", v)
		}
		cfg.DailyAnalysisLimit = n
	}
	return cfg, nil
}

// Server is the HTTP API server.
type Server struct {
	config      *Config
	store       Store
	llmClient   llm.Client
	analyzer    *matching.Analyzer
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	rateLimiter *ratelimit.Limiter
	validate    *validator.Validate
	httpServer  *http.Server
}

// New creates a server: connects to the database, runs migrations, and
// initializes the LLM client.
func New(ctx context.Context, cfg *Config) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	llmClient, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		llmClient.Close()
		database.Close()
		return nil, err
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		llmClient.Close()
		database.Close()
		return nil, err
	}

	return newWithDeps(cfg, database, llmClient, jwtConfig, passwordConfig), nil
}

// newWithDeps wires a server from already-constructed dependencies.
// Tests call this directly with fakes.
func newWithDeps(cfg *Config, store Store, llmClient llm.Client, jwtConfig *config.JWTConfig, passwordConfig *config.PasswordConfig) *Server {
	if cfg.DailyAnalysisLimit <= 0 {
		cfg.DailyAnalysisLimit = defaultDailyAnalysisLimit
	}

	jwtService := NewJWTService(jwtConfig)
	userService := NewUserService(store, passwordConfig)

	return &Server{
		config:      cfg,
		store:       store,
		llmClient:   llmClient,
		analyzer:    matching.NewAnalyzer(llmClient),
		jwtService:  jwtService,
		userService: userService,
		authHandler: NewAuthHandler(userService, jwtService),
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validate:    validator.New(),
	}
}

// Handler builds the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	authed := middleware.Auth(s.jwtService.AsTokenValidator())

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("PUT /auth/password", authed(http.HandlerFunc(s.handleUpdatePassword)))

	mux.Handle("POST /upload-resume", authed(http.HandlerFunc(s.handleUploadResume)))
	mux.Handle("POST /analyze", authed(http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("GET /skill-gaps", authed(http.HandlerFunc(s.handleSkillGaps)))
	mux.Handle("GET /my-history", authed(http.HandlerFunc(s.handleHistory)))

	return s.withLogging(s.withCORS(s.withRateLimit(mux)))
}

// Start runs the HTTP server until SIGINT or SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		s.cleanup()
		return err
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err := s.httpServer.Shutdown(ctx)
	s.cleanup()
	return err
}

func (s *Server) cleanup() {
	s.rateLimiter.Stop()
	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("error closing LLM client: %v", err)
		}
	}
	if s.store != nil {
		s.store.Close()
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// withCORS adds permissive CORS headers and answers preflight requests.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit applies the per-client token bucket. The client key is
// the remote IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID)

		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		}
		if !allowed {
			retry := int(info.RetryAfter.Seconds())
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// extractClientID returns the remote IP, falling back to the raw
// RemoteAddr when it cannot be split.
func extractClientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// jsonResponse writes v as a JSON body with the given status.
func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}

// errorResponse writes a JSON error body with the given status.
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}
