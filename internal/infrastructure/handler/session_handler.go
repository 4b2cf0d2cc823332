package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/cambio-quoter/internal/application/service"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// SessionHandler handles HTTP requests for quote sessions
type SessionHandler struct {
	service *service.SessionService
	logger  logger.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service *service.SessionService, log logger.Logger) *SessionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &SessionHandler{
		service: service,
		logger:  log,
	}
}

// CreateSession starts a new quote session
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.service.Create(r.Context())
	sendJSON(w, h.logger, http.StatusCreated, newQuoteResponse(session.ID, session.Conversion.View()))
}

// GetSession returns the current view of a session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	view, err := h.service.View(r.Context(), id)
	if err != nil {
		h.handleError(w, r, id, err)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, newQuoteResponse(id, view))
}

// SetAmount records the amount being sent
func (h *SessionHandler) SetAmount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	var req SetAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"session_id": id,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	view, err := h.service.SetAmount(r.Context(), id, string(req.Amount))
	if err != nil {
		h.handleError(w, r, id, err)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, newQuoteResponse(id, view))
}

// SetDirection selects the direction by name or by tab
func (h *SessionHandler) SetDirection(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	var req SetDirectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"session_id": id,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	if req.Direction == "" && req.Tab == "" {
		sendErrorResponse(w, h.logger, "Missing direction",
			"Either 'direction' or 'tab' is required", http.StatusBadRequest, requestID)
		return
	}

	direction, err := directionFromParams(req.Direction, req.Tab)
	if err != nil {
		h.logger.Warn("Invalid direction", map[string]interface{}{
			"request_id": requestID,
			"session_id": id,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid direction",
			"direction must be USD_TO_PEN or PEN_TO_USD, tab must be buy or sell", http.StatusBadRequest, requestID)
		return
	}

	view, err := h.service.SetDirection(r.Context(), id, direction)
	if err != nil {
		h.handleError(w, r, id, err)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, newQuoteResponse(id, view))
}

// ToggleDirection swaps the currencies, keeping the amount
func (h *SessionHandler) ToggleDirection(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	view, err := h.service.Toggle(r.Context(), id)
	if err != nil {
		h.handleError(w, r, id, err)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, newQuoteResponse(id, view))
}

// DeleteSession ends a session
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, id, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers the session handler routes
func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sessions", h.CreateSession).Methods(http.MethodPost)
	router.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet)
	router.HandleFunc("/sessions/{id}", h.DeleteSession).Methods(http.MethodDelete)
	router.HandleFunc("/sessions/{id}/amount", h.SetAmount).Methods(http.MethodPut)
	router.HandleFunc("/sessions/{id}/direction", h.SetDirection).Methods(http.MethodPut)
	router.HandleFunc("/sessions/{id}/toggle", h.ToggleDirection).Methods(http.MethodPost)

	h.logger.Info("Session routes registered", map[string]interface{}{
		"routes": []string{
			"POST /sessions",
			"GET /sessions/{id}",
			"DELETE /sessions/{id}",
			"PUT /sessions/{id}/amount",
			"PUT /sessions/{id}/direction",
			"POST /sessions/{id}/toggle",
		},
	})
}

func (h *SessionHandler) handleError(w http.ResponseWriter, r *http.Request, id string, err error) {
	requestID := middleware.GetRequestID(r.Context())

	if errors.Is(err, service.ErrSessionNotFound) {
		h.logger.Warn("Session not found", map[string]interface{}{
			"request_id": requestID,
			"session_id": id,
		})
		sendErrorResponse(w, h.logger, "Session not found",
			"The session does not exist or has expired", http.StatusNotFound, requestID)
		return
	}

	h.logger.Error("Unexpected error in session handler", map[string]interface{}{
		"request_id": requestID,
		"session_id": id,
		"error":      err.Error(),
	})
	sendErrorResponse(w, h.logger, "Internal server error",
		"An unexpected error occurred. Please try again later.", http.StatusInternalServerError, requestID)
}
