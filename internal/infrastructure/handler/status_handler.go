package handler

import (
	"net/http"

	"github.com/damon-houk/country-currency-service/internal/application/service"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// StatusHandler reports the state of the stored dataset
type StatusHandler struct {
	countries *service.CountryService
	logger    logger.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(countries *service.CountryService, log logger.Logger) *StatusHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &StatusHandler{
		countries: countries,
		logger:    log,
	}
}

// Status handles the aggregate status request
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	status, err := h.countries.Status(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, err, "", requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, StatusResponse{
		TotalCountries:  status.TotalCountries,
		LastRefreshedAt: status.LastRefreshedAt,
	})
}

// RegisterRoutes registers the status route
func (h *StatusHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/status", h.Status).Methods("GET")
}
