// Package handler internal/infrastructure/handler/rates_handler.go
package handler

import (
	"net/http"

	"github.com/damon-houk/cambio-quoter/internal/application/service"
	"github.com/damon-houk/cambio-quoter/internal/domain/entity"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// RatesHandler serves the current rates and stateless quotes
type RatesHandler struct {
	service *service.ConversionService
	logger  logger.Logger
}

// NewRatesHandler creates a new rates handler
func NewRatesHandler(service *service.ConversionService, log logger.Logger) *RatesHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RatesHandler{
		service: service,
		logger:  log,
	}
}

// GetRates returns the last known rates
func (h *RatesHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, h.logger, http.StatusOK, newRatesResponse(h.service.Rates()))
}

// GetQuote converts ?amount= in ?direction= (or ?tab=) without a session
func (h *RatesHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	direction, err := directionFromParams(query.Get("direction"), query.Get("tab"))
	if err != nil {
		h.logger.Warn("Invalid quote direction", map[string]interface{}{
			"request_id": requestID,
			"direction":  query.Get("direction"),
			"tab":        query.Get("tab"),
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid direction",
			"direction must be USD_TO_PEN or PEN_TO_USD, tab must be buy or sell", http.StatusBadRequest, requestID)
		return
	}

	view := h.service.Quote(r.Context(), query.Get("amount"), direction)
	sendJSON(w, h.logger, http.StatusOK, newQuoteResponse("", view))
}

// RegisterRoutes registers the rates handler routes
func (h *RatesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/rates", h.GetRates).Methods(http.MethodGet)
	router.HandleFunc("/quote", h.GetQuote).Methods(http.MethodGet)

	h.logger.Info("Rates routes registered", map[string]interface{}{
		"routes": []string{
			"GET /rates",
			"GET /quote",
		},
	})
}

// directionFromParams resolves a direction from either a direction name or a
// tab name; both empty means UsdToPen
func directionFromParams(direction, tab string) (entity.Direction, error) {
	switch {
	case direction != "":
		return entity.ParseDirection(direction)
	case tab != "":
		parsed, err := entity.ParseTab(tab)
		if err != nil {
			return "", err
		}
		return parsed.Direction(), nil
	default:
		return entity.UsdToPen, nil
	}
}
