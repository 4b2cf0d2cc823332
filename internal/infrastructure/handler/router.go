package handler

import (
	"net/http"

	"github.com/damon-houk/cambio-quoter/internal/infrastructure/logger"
	"github.com/damon-houk/cambio-quoter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires the handlers behind request ID, logging and CORS middleware
func NewRouter(rates *RatesHandler, sessions *SessionHandler, allowedOrigins []string, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware(log))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	rates.RegisterRoutes(router)
	sessions.RegisterRoutes(router)

	return middleware.CORS(allowedOrigins)(router)
}
