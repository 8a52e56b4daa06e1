// Package api serves the credential store as a local JSON API over a Unix
// socket, with an optional TCP listener.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/benaskins/locksmith/internal/credential"
	"github.com/benaskins/locksmith/internal/generator"
)

// Mask replaces passwords in responses unless the caller asks to reveal them.
const Mask = "••••••••"

// GenerateDefaults fills fields omitted from a generate request.
type GenerateDefaults struct {
	Length  int
	Numbers bool
	Symbols bool
}

// Server serves the locksmith REST API.
type Server struct {
	store    *credential.Store
	gen      *generator.Generator
	defaults GenerateDefaults
	limiter  *rate.Limiter
	listener net.Listener
	server   *http.Server
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit admits at most rps requests per second across all clients.
// Zero disables limiting.
func WithRateLimit(rps float64) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
}

// WithGenerateDefaults sets the values used for omitted generate fields.
func WithGenerateDefaults(d GenerateDefaults) Option {
	return func(s *Server) { s.defaults = d }
}

// NewServer creates an API server backed by the given store and generator.
func NewServer(store *credential.Store, gen *generator.Generator, opts ...Option) *Server {
	s := &Server{
		store:    store,
		gen:      gen,
		defaults: GenerateDefaults{Length: generator.DefaultLength, Numbers: true},
		limiter:  rate.NewLimiter(rate.Inf, 0),
		logger:   slog.With("component", "api"),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/credentials", s.listCredentials)
	mux.HandleFunc("GET /v1/credentials/{id}", s.getCredential)
	mux.HandleFunc("POST /v1/credentials", s.addCredential)
	mux.HandleFunc("DELETE /v1/credentials/{id}", s.removeCredential)
	mux.HandleFunc("POST /v1/generate", s.generate)
	mux.HandleFunc("GET /v1/health", s.health)

	s.server = &http.Server{
		Handler:           s.rateLimit(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ListenUnix starts the server on a Unix socket.
func (s *Server) ListenUnix(path string) error {
	ln, err := net.Listen("unix", path)
	if err != nil {
		return err
	}
	s.listener = ln
	s.logger.Info("API listening", "socket", path)
	return s.server.Serve(ln)
}

// ListenTCP starts the server on a TCP address.
func (s *Server) ListenTCP(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.logger.Info("API listening", "addr", addr)
	return s.server.Serve(ln)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CredentialResponse is the wire form of a credential.Record.
type CredentialResponse struct {
	ID        int64     `json:"id"`
	Website   string    `json:"website"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCredentialResponse converts r, masking the password unless reveal is set.
func NewCredentialResponse(r credential.Record, reveal bool) CredentialResponse {
	pw := Mask
	if reveal {
		pw = r.Password
	}
	return CredentialResponse{
		ID:        r.ID,
		Website:   r.Website,
		Username:  r.Username,
		Password:  pw,
		CreatedAt: r.CreatedAt,
	}
}

// AddRequest is the body of POST /v1/credentials.
type AddRequest struct {
	Website  string `json:"website"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// GenerateRequest is the body of POST /v1/generate. Omitted fields take the
// server defaults.
type GenerateRequest struct {
	Length  *int  `json:"length,omitempty"`
	Numbers *bool `json:"numbers,omitempty"`
	Symbols *bool `json:"symbols,omitempty"`
}

func reveal(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("reveal"))
	return v
}

func (s *Server) listCredentials(w http.ResponseWriter, r *http.Request) {
	records := s.store.List()
	show := reveal(r)
	resp := make([]CredentialResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, NewCredentialResponse(rec, show))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, found := s.store.Find(id)
	if !found {
		writeError(w, &credential.NotFoundError{ID: id})
		return
	}
	writeJSON(w, http.StatusOK, NewCredentialResponse(rec, reveal(r)))
}

func (s *Server) addCredential(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	rec, err := s.store.Add(req.Website, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, credential.ErrPersistence) {
			s.logger.Error("credential added but not saved", "id", rec.ID, "error", err)
		}
		writeError(w, err)
		return
	}
	s.logger.Info("credential added", "id", rec.ID, "website", rec.Website)
	writeJSON(w, http.StatusCreated, NewCredentialResponse(rec, false))
}

func (s *Server) removeCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := s.store.Remove(id)
	if err != nil {
		if errors.Is(err, credential.ErrPersistence) {
			s.logger.Error("credential removed but not saved", "id", id, "error", err)
		}
		writeError(w, err)
		return
	}
	s.logger.Info("credential removed", "id", rec.ID, "website", rec.Website)
	writeJSON(w, http.StatusOK, NewCredentialResponse(rec, false))
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	length, numbers, symbols := s.defaults.Length, s.defaults.Numbers, s.defaults.Symbols
	if req.Length != nil {
		length = *req.Length
	}
	if req.Numbers != nil {
		numbers = *req.Numbers
	}
	if req.Symbols != nil {
		symbols = *req.Symbols
	}
	if length > generator.MaxLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "length exceeds " + strconv.Itoa(generator.MaxLength)})
		return
	}

	pw, err := s.gen.Generate(length, numbers, symbols)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"password": pw})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "count": s.store.Len()})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid credential id"})
		return 0, false
	}
	return id, true
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, credential.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, credential.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, credential.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
