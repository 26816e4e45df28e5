// Package server exposes the relay's HTTP surface.
//
// Endpoints:
//   - POST /api/chat    - relay one message to the model gateway
//   - GET  /health      - liveness check
//   - GET  /api/dataset - the grounding dataset, for the stats view
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kiyotox/starbridge/internal/config"
	"github.com/kiyotox/starbridge/internal/gateway"
	"github.com/kiyotox/starbridge/internal/history"
	"github.com/kiyotox/starbridge/internal/knowledge"
	"github.com/kiyotox/starbridge/internal/logger"
)

// MaxRequestBodySize bounds the chat request body; oversized payloads are
// rejected before parsing.
const MaxRequestBodySize = 64 << 10

// upstreamFailureMessage is the only text a client sees for any gateway
// failure; it never carries credentials or vendor detail.
const upstreamFailureMessage = "The assistant is unreachable right now. Please try again in a moment."

// Gateway is the slice of the model gateway the relay needs.
type Gateway interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// Server is the only network-facing component.
type Server struct {
	cfg     config.ServerConfig
	gateway Gateway
	store   *history.Store
	base    knowledge.Base
	mux     *http.ServeMux
	server  *http.Server
}

// New wires the relay routes. store may be nil when conversation
// persistence is disabled.
func New(cfg config.ServerConfig, gw Gateway, store *history.Store, base knowledge.Base) *Server {
	s := &Server{
		cfg:     cfg,
		gateway: gw,
		store:   store,
		base:    base,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/chat", s.handleChat)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/dataset", s.handleDataset)
	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		LoggingMiddleware(),
		CORSMiddleware(&CORSConfig{AllowedOrigins: s.cfg.AllowedOrigins}),
		RateLimitMiddleware(newIPLimiter(5, 10)),
	)(s.mux)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req chatRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		logger.L.Warn("invalid chat request body", "error", err)
		writeError(w, http.StatusBadRequest, "message required (string)")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message required (string)")
		return
	}

	logger.L.Info("chat message received", "chars", len(req.Message), "session", req.SessionID != "")

	s.recordTurn(r.Context(), req.SessionID, history.RoleUser, req.Message)

	reply, err := s.gateway.Send(r.Context(), req.Message)
	if err != nil {
		s.recordTurn(r.Context(), req.SessionID, history.RoleAssistant, upstreamFailureMessage)
		switch {
		case errors.Is(err, gateway.ErrEmptyPrompt):
			writeError(w, http.StatusBadRequest, "message required (string)")
		case errors.Is(err, gateway.ErrMissingCredential),
			errors.Is(err, gateway.ErrUnavailable),
			errors.Is(err, gateway.ErrUnexpectedShape):
			writeError(w, http.StatusBadGateway, upstreamFailureMessage)
		default:
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	s.recordTurn(r.Context(), req.SessionID, history.RoleAssistant, reply)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// recordTurn appends a turn to the named conversation. The session id is
// optional and opaque; unknown ids are ignored rather than failing the
// chat request.
func (s *Server) recordTurn(ctx context.Context, sessionID string, role history.Role, text string) {
	if s.store == nil || sessionID == "" {
		return
	}
	if _, err := s.store.Append(ctx, sessionID, role, text); err != nil {
		logger.L.Debug("turn not recorded", "session", sessionID, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.base)
}

// Start blocks serving HTTP until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	logger.L.Info("starting relay server", "address", addr)
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	logger.L.Info("shutting down relay server")
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
