// Package handler internal/infrastructure/handler/country_handler.go
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/damon-houk/country-currency-service/internal/application/service"
	"github.com/damon-houk/country-currency-service/internal/domain/entity"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// SortGDPDesc is the sort query value ordering countries by estimated GDP
const SortGDPDesc = "gdp_desc"

// CountryHandler handles HTTP requests for countries
type CountryHandler struct {
	refresh   *service.RefreshService
	countries *service.CountryService
	logger    logger.Logger
}

// NewCountryHandler creates a new country handler
func NewCountryHandler(refresh *service.RefreshService, countries *service.CountryService, log logger.Logger) *CountryHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &CountryHandler{
		refresh:   refresh,
		countries: countries,
		logger:    log,
	}
}

// Refresh handles running one reconciliation cycle
func (h *CountryHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling refresh request", logger.Fields{
		"request_id": requestID,
	})

	result, err := h.refresh.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			h.logger.Warn("Client stopped waiting for refresh", logger.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			})
			return
		}
		sendServiceError(w, h.logger, err, "", requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, newRefreshResponse(result))
}

// ListCountries handles listing countries with optional filters
func (h *CountryHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	filter := entity.CountryFilter{
		Region:    query.Get("region"),
		Currency:  query.Get("currency"),
		SortByGDP: strings.EqualFold(query.Get("sort"), SortGDPDesc),
	}

	h.logger.Debug("Handling list countries request", logger.Fields{
		"request_id": requestID,
		"region":     filter.Region,
		"currency":   filter.Currency,
		"sort_gdp":   filter.SortByGDP,
	})

	countries, err := h.countries.List(r.Context(), filter)
	if err != nil {
		sendServiceError(w, h.logger, err, "", requestID)
		return
	}

	resp := make([]CountryResponse, 0, len(countries))
	for i := range countries {
		resp = append(resp, newCountryResponse(&countries[i]))
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// GetCountry handles retrieving a country by name
func (h *CountryHandler) GetCountry(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	name := mux.Vars(r)["name"]

	country, err := h.countries.Get(r.Context(), name)
	if err != nil {
		sendServiceError(w, h.logger, err, "Country not found", requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, newCountryResponse(country))
}

// DeleteCountry handles deleting a country by name
func (h *CountryHandler) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	name := mux.Vars(r)["name"]

	if err := h.countries.Delete(r.Context(), name); err != nil {
		sendServiceError(w, h.logger, err, "Country not found", requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, MessageResponse{Message: "Country deleted successfully"})
}

// SummaryImage handles serving the summary image of the last refresh
func (h *CountryHandler) SummaryImage(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	path, err := h.countries.SummaryImagePath()
	if err != nil {
		sendServiceError(w, h.logger, err, "Summary image not found", requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, path)
}

// RegisterRoutes registers the country handler routes
func (h *CountryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/countries/refresh", h.Refresh).Methods("POST")
	router.HandleFunc("/countries", h.ListCountries).Methods("GET")
	// must precede /countries/{name}
	router.HandleFunc("/countries/image", h.SummaryImage).Methods("GET")
	router.HandleFunc("/countries/{name}", h.GetCountry).Methods("GET")
	router.HandleFunc("/countries/{name}", h.DeleteCountry).Methods("DELETE")

	h.logger.Info("Country routes registered", logger.Fields{
		"routes": []string{
			"POST /countries/refresh",
			"GET /countries",
			"GET /countries/image",
			"GET /countries/{name}",
			"DELETE /countries/{name}",
		},
	})
}
