// Package server provides the CoverME HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/coverme/internal/config"
	"github.com/jonathan/coverme/internal/ingestion"
	"github.com/jonathan/coverme/internal/parsing"
	"github.com/jonathan/coverme/internal/server/middleware"
	"github.com/jonathan/coverme/internal/server/ratelimit"
	"github.com/jonathan/coverme/internal/types"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 30 * time.Second
	healthTimeout   = 2 * time.Second

	// DraftIDHeader carries the id of the draft a parse or generate call
	// stored or should update.
	DraftIDHeader   = "X-Draft-ID"
	requestIDHeader = "X-Request-ID"
)

// JobParser turns raw job text into an extraction result
type JobParser interface {
	Parse(ctx context.Context, raw string) (*parsing.Outcome, error)
}

// LetterGenerator writes cover letters
type LetterGenerator interface {
	Generate(ctx context.Context, parsed types.ExtractionResult, cfg types.GenerationConfig, profile json.RawMessage) (*types.GenerateLetterResponse, error)
}

// JobFetcher retrieves job postings by URL
type JobFetcher interface {
	Fetch(ctx context.Context, url string) (*ingestion.Posting, error)
}

// Deps are the collaborators a Server is built from
type Deps struct {
	Store     Store
	Parser    JobParser
	Generator LetterGenerator
	Fetcher   JobFetcher
	Logger    *logrus.Logger
}

// Server is the HTTP API server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	parser      JobParser
	generator   LetterGenerator
	fetcher     JobFetcher
	logger      *logrus.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	validate    *validator.Validate
	corsOrigins []string
}

// New creates a server with every route registered.
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{
		store:       deps.Store,
		parser:      deps.Parser,
		generator:   deps.Generator,
		fetcher:     deps.Fetcher,
		logger:      logger,
		rateLimiter: ratelimit.NewLimiter(ratelimit.FromConfig(cfg.RateLimit)),
		jwtService:  NewJWTService(cfg.JWT),
		validate:    newValidator(),
		corsOrigins: cfg.CORS.AllowedOrigins,
	}
	s.userService = NewUserService(deps.Store, cfg.Password)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, s.validate)

	mux := http.NewServeMux()
	s.routes(mux)
	s.handler = s.withRequestID(s.withLogging(s.withCORS(s.withRateLimit(mux))))

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("GET /auth/me", s.requireAuth(s.handleMe))
	mux.Handle("PUT /auth/password", s.requireAuth(s.handleUpdatePassword))

	// Profile
	mux.Handle("GET /profile", s.requireAuth(s.handleGetProfile))
	mux.Handle("PUT /profile", s.requireAuth(s.handleUpdatePersonalInfo))
	s.profileSectionRoutes(mux)

	// Cover letters
	mux.Handle("POST /cover-letters/parse", s.requireAuth(s.handleParse))
	mux.Handle("POST /cover-letters/generate", s.requireAuth(s.handleGenerate))
	mux.Handle("GET /cover-letters", s.requireAuth(s.handleListDrafts))
	mux.Handle("GET /cover-letters/{id}", s.requireAuth(s.handleGetDraft))
	mux.Handle("PUT /cover-letters/{id}", s.requireAuth(s.handleUpdateDraft))
	mux.Handle("DELETE /cover-letters/{id}", s.requireAuth(s.handleDeleteDraft))

	mux.Handle("POST /job-descriptions/fetch", s.requireAuth(s.handleFetchJob))
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources. The store is owned by the caller.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

func (s *Server) requireAuth(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

// withRequestID tags every request with an id, reusing a caller-supplied one
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		r.Header.Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// withCORS allows the configured origins. "*" allows any origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowAll := slices.Contains(s.corsOrigins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowAll || slices.Contains(s.corsOrigins, origin)) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+DraftIDHeader)
			h.Set("Access-Control-Expose-Headers", DraftIDHeader+", "+requestIDHeader+", Retry-After")
			h.Set("Access-Control-Max-Age", "600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit applies per-client limits keyed on the remote IP
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		entry := s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     status,
			"bytes":      rec.bytes,
			"duration":   time.Since(start).String(),
			"remote":     clientID(r),
			"request_id": r.Header.Get(requestIDHeader),
		})
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			s.logger.WithError(err).Warn("health check: database unreachable")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clientID returns the remote IP of the request
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	retryAfter := int((info.RetryAfter + time.Second - 1) / time.Second)
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

	s.logger.WithFields(logrus.Fields{
		"client": clientID(r),
		"path":   r.URL.Path,
		"limit":  info.Limit,
	}).Warn("rate limit exceeded")

	writeJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Rate limit exceeded. Please try again later.",
		"limit":       info.Limit,
		"retry_after": retryAfter,
	})
}

// writeJSON writes data as a JSON response. Encoding errors are ignored
// since the status line is already sent.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes {"error": message}
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// respondError maps err to a status. Server errors are logged and their
// text is not sent to the client.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= 500 {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"path":       r.URL.Path,
			"request_id": r.Header.Get(requestIDHeader),
		}).Error("request error")
		writeError(w, status, http.StatusText(status))
		return
	}
	writeError(w, status, err.Error())
}

// decodeJSON reads a JSON body into dst, capped at maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrValidation{Message: "request body too large"}
		}
		return &ErrValidation{Message: "invalid request body"}
	}
	return nil
}

// newValidator reports field errors under their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs struct validation and returns the first failure as
// an *ErrValidation.
func validateStruct(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ErrValidation{Field: verrs[0].Field(), Message: verrs[0].Tag()}
	}
	return &ErrValidation{Message: "invalid request"}
}

// userID returns the authenticated user. Only called behind requireAuth.
func userID(r *http.Request) uuid.UUID {
	id, _ := middleware.GetUserID(r)
	return id
}

// pathID parses the {id} path value
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}
