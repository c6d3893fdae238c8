// Package server provides the HTTP API for rezoom: authentication, the chat
// assistant, resume upload and resume documents.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/rezoom/internal/agent"
	"github.com/jonathan/rezoom/internal/config"
	"github.com/jonathan/rezoom/internal/db"
	"github.com/jonathan/rezoom/internal/extraction"
	"github.com/jonathan/rezoom/internal/llm"
	"github.com/jonathan/rezoom/internal/logging"
	"github.com/jonathan/rezoom/internal/pdfservice"
	"github.com/jonathan/rezoom/internal/server/middleware"
	"github.com/jonathan/rezoom/internal/server/ratelimit"
)

// Deps are the collaborators the server is built from
type Deps struct {
	Store db.Store
	// LLM may be nil; chat and upload then report the model as unavailable
	LLM llm.Client
	// PDF may be nil; PDF export then fails as a PDF generation error
	PDF pdfservice.Renderer
	// RateLimit defaults to ratelimit.LoadConfig(os.Getenv)
	RateLimit *ratelimit.Config
	Logger    *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	cfg         *config.Config
	store       db.Store
	agent       *agent.Agent
	extractor   *extraction.Extractor
	persister   *extraction.Persister
	pdf         pdfservice.Renderer
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	logger      *zap.Logger
}

// New wires the server. cfg must have passed config.Load.
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if cfg == nil || cfg.JWT == nil || cfg.Password == nil {
		return nil, fmt.Errorf("server config is incomplete")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("server needs a store")
	}
	policy, err := extraction.ParseDuplicatePolicy(cfg.ExtractionDuplicates)
	if err != nil {
		return nil, err
	}

	logger := logging.OrNop(deps.Logger)
	s := &Server{
		cfg:    cfg,
		store:  deps.Store,
		pdf:    deps.PDF,
		logger: logger.Named("http"),
	}

	s.agent = agent.New(deps.LLM, deps.Store, &agent.Config{MaxSteps: cfg.ChatMaxSteps, Tier: llm.TierStandard}, logger)
	s.extractor = extraction.NewExtractor(deps.LLM, logger.Named("extraction"))
	s.persister = extraction.NewPersister(deps.Store, policy, logger.Named("extraction"))

	rlConfig := deps.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig(os.Getenv)
	}
	s.rateLimiter = ratelimit.NewLimiter(rlConfig)

	s.jwtService = NewJWTService(cfg.JWT)
	s.userService = NewUserService(deps.Store, cfg.Password)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)

	mux.Handle("GET /me", s.authed(s.handleGetMe))
	mux.Handle("PUT /me", s.authed(s.handleUpdateMe))
	mux.Handle("PUT /me/password", s.authed(s.authHandler.UpdatePasswordWithUserID))
	mux.Handle("GET /profile", s.authed(s.handleGetProfile))

	mux.Handle("POST /chat", s.authed(s.handleChat))
	mux.Handle("POST /chat/upload-resume", s.authed(s.handleUploadResume))

	mux.Handle("GET /resumes", s.authed(s.handleListResumes))
	mux.Handle("POST /resumes", s.authed(s.handleCreateResume))
	mux.Handle("GET /resumes/{id}", s.authed(s.handleGetResume))
	mux.Handle("DELETE /resumes/{id}", s.authed(s.handleDeleteResume))
	mux.Handle("GET /resumes/{id}/tex", s.authed(s.handleResumeTex))
	mux.Handle("GET /resumes/{id}/pdf", s.authed(s.handleResumePDF))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		// A chat turn can take several model round trips
		WriteTimeout: time.Duration(cfg.ChatMaxSteps+1)*cfg.ModelTimeout() + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the full middleware-wrapped router
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// authed wraps a handler that needs the authenticated user id
func (s *Server) authed(fn func(w http.ResponseWriter, r *http.Request, userID uuid.UUID)) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.GetUserID(r)
		if err != nil {
			s.errorResponse(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}
		fn(w, r, userID)
	})
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(inner)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(s.cfg.AllowedOrigins))
	for _, o := range s.cfg.AllowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(allowed) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for the access log
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging writes one access log line per request
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", s.extractClientID(r)),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn("request", fields...)
			return
		}
		s.logger.Info("request", fields...)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// pinger is implemented by stores backed by a remote database
type pinger interface {
	Ping(ctx context.Context) error
}

// handleHealth reports ok, or 503 when the database does not answer
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			s.logger.Warn("health check: store unreachable", zap.Error(err))
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, s.logger, status, data)
}

// errorResponse writes the {error, message} body used by every failure
func (s *Server) errorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, s.logger, status, map[string]string{"error": code, "message": message})
}

// failure logs err and answers with its public classification
func (s *Server) failure(w http.ResponseWriter, r *http.Request, err error) {
	e := classify(err)
	fields := []zap.Field{zap.String("path", r.URL.Path), zap.String("code", e.Code), zap.Error(err)}
	if e.Status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Debug("request rejected", fields...)
	}
	s.errorResponse(w, e.Status, e.Code, e.Message)
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// decodeJSON reads a bounded JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// extractClientID uses the peer IP from RemoteAddr
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(r.PathValue(name)))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a valid UUID"}
	}
	return id, nil
}
