package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"curator/internal/domain"
)

const (
	maxBodyBytes  = 1 << 20
	sessionCookie = "curator_session"
)

type ingestRequest struct {
	URL    string `json:"url"`
	UserID string `json:"user_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type resourcesResponse struct {
	Resources []domain.Resource `json:"resources"`
}

type libraryResponse struct {
	Groups []domain.TopicGroup `json:"groups"`
}

type sessionResponse struct {
	UserID  string `json:"user_id"`
	Created bool   `json:"created"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIngest answers every failure with 400 and a uniform error envelope.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	if _, err := s.ingest.Ingest(r.Context(), req.URL, req.UserID); err != nil {
		s.log.WithError(err).WithField("url", req.URL).Warn("Ingestion failed")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// handleSession returns the caller's anonymous session, creating one when
// the request carries none.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			writeJSON(w, http.StatusOK, sessionResponse{UserID: id.String()})
			return
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.WithField("user_id", id).Info("Anonymous session created")
	writeJSON(w, http.StatusOK, sessionResponse{UserID: id, Created: true})
}

func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := s.repo.List(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.log.WithError(err).Error("Failed to list resources")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resourcesResponse{Resources: resources})
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	resources, err := s.repo.List(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.log.WithError(err).Error("Failed to load library")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, libraryResponse{Groups: domain.GroupByTopic(resources)})
}

// handleDeleteResource is idempotent: unknown ids still answer success.
func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.repo.Delete(r.Context(), id); err != nil {
		s.log.WithError(err).WithField("id", id).Error("Failed to delete resource")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
