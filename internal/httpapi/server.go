// Package httpapi maps the HTTP surface onto the service layer. It is a thin
// transport: every handler parses input, calls one service operation, and
// writes the result.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ovoronin/daynotes/internal/auth"
	"github.com/ovoronin/daynotes/internal/service"
	"github.com/ovoronin/daynotes/internal/storage"
)

// Server holds the handlers for the REST surface.
type Server struct {
	auth  *service.AuthService
	notes *service.NoteService
}

// New creates a Server backed by the given services.
func New(authSvc *service.AuthService, noteSvc *service.NoteService) *Server {
	return &Server{auth: authSvc, notes: noteSvc}
}

// Handler builds the route table with logging and CORS middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)

	mux.Handle("GET /me", s.requireAuth(s.handleMe))
	mux.Handle("POST /notes", s.requireAuth(s.handleCreateNote))
	mux.Handle("PUT /notes", s.requireAuth(s.handleUpdateNote))
	mux.Handle("GET /notes/days", s.requireAuth(s.handleListDays))
	mux.Handle("GET /notes/{date}", s.requireAuth(s.handleGetNote))
	mux.Handle("DELETE /notes/{date}", s.requireAuth(s.handleDeleteNote))

	mux.Handle("GET /named-notes", s.requireAuth(s.handleListNamed))
	mux.Handle("POST /named-notes", s.requireAuth(s.handleCreateNamed))
	mux.Handle("GET /named-notes/{name}", s.requireAuth(s.handleGetNamed))
	mux.Handle("PUT /named-notes/{name}", s.requireAuth(s.handleUpdateNamed))
	mux.Handle("DELETE /named-notes/{name}", s.requireAuth(s.handleDeleteNamed))

	mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(corsMiddleware(mux))
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type noteRequest struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

type namedNoteRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": user.ID, "username": user.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	writeJSON(w, http.StatusOK, user.Public())
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	user := userFrom(r.Context())
	if err := s.notes.Create(r.Context(), user.ID, req.Date, req.Content); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	user := userFrom(r.Context())
	if err := s.notes.Update(r.Context(), user.ID, req.Date, req.Content); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	note, err := s.notes.Get(r.Context(), user.ID, r.PathValue("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"date": note.Date, "content": note.Content})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if err := s.notes.Delete(r.Context(), user.ID, r.PathValue("date")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	dates, err := s.notes.ListDates(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

func (s *Server) handleCreateNamed(w http.ResponseWriter, r *http.Request) {
	var req namedNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	user := userFrom(r.Context())
	if err := s.notes.CreateNamed(r.Context(), user.ID, req.Name, req.Content); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (s *Server) handleGetNamed(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	note, err := s.notes.GetNamed(r.Context(), user.ID, r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": note.Name, "content": note.Content})
}

func (s *Server) handleUpdateNamed(w http.ResponseWriter, r *http.Request) {
	var req namedNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	user := userFrom(r.Context())
	if err := s.notes.UpdateNamed(r.Context(), user.ID, r.PathValue("name"), req.Content); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteNamed(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if err := s.notes.DeleteNamed(r.Context(), user.ID, r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP status codes. Anything
// unrecognized is an internal failure: logged with detail here, surfaced
// generically to the caller.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrBadDate), errors.Is(err, service.ErrBadName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, auth.ErrUsernameTaken), errors.Is(err, storage.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		slog.Error("Internal error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
