package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/interview-agent/internal/interview"
	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/types"
)

// handleStartInterview creates a session and returns the opening question.
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	var req types.StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "jobTitle and company are required")
		return
	}

	ownerID, _ := s.resolver.Resolve(r)

	result, err := s.orchestrator.Start(r.Context(), ownerID, req.JobTitle, req.Company, req.Questions())
	if err != nil {
		s.generationError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, result)
}

// handleNextTurn appends a candidate answer and returns the next question
// or, for a finished session, the full transcript.
func (s *Server) handleNextTurn(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	var req types.NextTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "answer is required")
		return
	}

	result, err := s.orchestrator.NextTurn(r.Context(), sessionID, req.Answer)
	if err != nil {
		s.generationError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleGetTranscript returns the session state without mutating it.
func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	session, err := s.orchestrator.Transcript(sessionID)
	if err != nil {
		s.generationError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sessionId":      session.ID,
		"jobTitle":       session.JobTitle,
		"company":        session.Company,
		"totalQuestions": session.TotalQuestions,
		"transcript":     session.Transcript,
		"createdAt":      session.CreatedAt,
		"updatedAt":      session.UpdatedAt,
	})
}

// handleEndInterview runs the analysis pass and removes the session. The
// analysis object is always present, possibly the documented default.
func (s *Server) handleEndInterview(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	analysis, err := s.orchestrator.End(r.Context(), sessionID)
	if err != nil {
		s.generationError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"analysis": analysis})
}

// sessionID parses the {id} path value; a malformed id is a client error.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

// generationError maps orchestrator errors onto HTTP statuses. Fallback
// exhaustion surfaces the ordered per-provider failure list so callers can
// see which backend is down.
func (s *Server) generationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		s.errorResponse(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, interview.ErrInvalidInput):
		s.errorResponse(w, http.StatusBadRequest, err.Error())
	default:
		var fbErr *llm.FallbackError
		if errors.As(err, &fbErr) {
			s.jsonResponse(w, http.StatusBadGateway, map[string]any{
				"error":     "generation failed",
				"providers": fbErr.Attempts,
			})
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}
