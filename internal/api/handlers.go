package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mindloom/theraflow/internal/genai"
	"github.com/mindloom/theraflow/internal/models"
	"github.com/mindloom/theraflow/internal/protocol"
)

// createSessionRequest is the optional body for POST /sessions.
type createSessionRequest struct {
	ScenarioID string `json:"scenario_id,omitempty"`
}

// turnRequest is the body for POST /sessions/{id}/turns.
type turnRequest struct {
	Utterance string `json:"utterance"`
}

// turnResult is the payload returned for a processed turn.
type turnResult struct {
	Session   *models.SessionState `json:"session"`
	Directive *models.Directive    `json:"directive"`
	Reply     string               `json:"reply,omitempty"`
}

// createSessionHandler creates a fresh session at the initial stage.
func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil {
		// An empty body is fine; the scenario id is optional.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	session := protocol.NewSessionWithScenario(req.ScenarioID)
	if err := s.store.SaveSession(*session); err != nil {
		slog.Error("api.createSessionHandler: failed to save session", "error", err, "sessionID", session.ID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("failed to persist session"))
		return
	}
	slog.Info("api.createSessionHandler: session created", "sessionID", session.ID, "scenarioID", req.ScenarioID)
	writeJSONResponse(w, http.StatusCreated, models.Success(session))
}

// getSessionHandler returns the current state of a session.
func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, err := s.store.GetSession(id)
	if err != nil {
		slog.Error("api.getSessionHandler: store error", "error", err, "sessionID", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("failed to load session"))
		return
	}
	if session == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("session not found"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(session))
}

// turnHandler processes one client utterance: it advances the session
// state machine, persists the advanced state, and only then calls the
// generator. A generation failure therefore never loses the committed
// turn; the directive can be recomputed from the stored state.
func (s *Server) turnHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("invalid request body"))
		return
	}

	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.store.GetSession(id)
	if err != nil {
		slog.Error("api.turnHandler: store error", "error", err, "sessionID", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("failed to load session"))
		return
	}
	if session == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("session not found"))
		return
	}

	directive, err := protocol.AdvanceTurn(session, req.Utterance)
	if err != nil {
		if errors.Is(err, models.ErrEmptyUtterance) || errors.Is(err, models.ErrUtteranceTooLong) {
			writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
			return
		}
		slog.Error("api.turnHandler: turn failed", "error", err, "sessionID", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("failed to process turn"))
		return
	}

	if err := s.store.SaveSession(*session); err != nil {
		slog.Error("api.turnHandler: failed to save session", "error", err, "sessionID", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("failed to persist session"))
		return
	}

	result := turnResult{Session: session, Directive: directive}
	if s.genai != nil {
		messages := genai.BuildMessages(directive.Render(), session.History)
		reply, genErr := s.genai.GenerateWithMessages(r.Context(), messages)
		if genErr != nil {
			// State is already durable; the caller can recompute the
			// directive and retry generation without losing the turn.
			slog.Error("api.turnHandler: generation failed", "error", genErr, "sessionID", id)
			writeJSONResponse(w, http.StatusBadGateway, models.Error("generation failed; session state saved"))
			return
		}
		protocol.RecordReply(session, reply)
		if err := s.store.SaveSession(*session); err != nil {
			slog.Error("api.turnHandler: failed to save reply", "error", err, "sessionID", id)
			// The reply was generated; return it even if history persistence lagged.
		}
		result.Reply = reply
	}

	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

// stagesHandler returns the ordered stage catalog for UI introspection.
func (s *Server) stagesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.Success(protocol.StageCatalog()))
}
