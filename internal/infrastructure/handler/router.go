package handler

import (
	"net/http"

	"github.com/damon-houk/country-currency-service/internal/application/service"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// NewRouter builds the HTTP surface with its middleware chain
func NewRouter(refresh *service.RefreshService, countries *service.CountryService, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	router := mux.NewRouter()
	NewCountryHandler(refresh, countries, log).RegisterRoutes(router)
	NewStatusHandler(countries, log).RegisterRoutes(router)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendErrorResponse(w, log, "Not found", "", http.StatusNotFound, middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendErrorResponse(w, log, "Method not allowed", "", http.StatusMethodNotAllowed, middleware.GetRequestID(r.Context()))
	})

	var h http.Handler = router
	h = middleware.LoggingMiddleware(log)(h)
	h = middleware.RecoveryMiddleware(log)(h)
	h = middleware.RequestIDMiddleware(h)
	return h
}
