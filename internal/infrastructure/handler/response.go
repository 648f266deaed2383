package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/damon-houk/country-currency-service/internal/domain/apperror"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
)

// writeJSON sends body with the given status code
func writeJSON(w http.ResponseWriter, log logger.Logger, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", logger.Fields{
			"status_code": statusCode,
			"error":       err.Error(),
		})
	}
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, details string, statusCode int, requestID string) {
	log.Debug("Sending error response", logger.Fields{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	writeJSON(w, log, statusCode, ErrorResponse{
		Error:     message,
		Details:   details,
		Status:    statusCode,
		RequestID: requestID,
	})
}

// sendServiceError maps a service error onto the error taxonomy. notFound is
// the message used when err wraps apperror.ErrNotFound.
func sendServiceError(w http.ResponseWriter, log logger.Logger, err error, notFound, requestID string) {
	if errors.Is(err, apperror.ErrNotFound) {
		log.Warn(notFound, logger.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, log, notFound, "", http.StatusNotFound, requestID)
		return
	}

	if upstream, ok := apperror.IsUpstreamUnavailable(err); ok {
		log.Error("Upstream unavailable", logger.Fields{
			"request_id": requestID,
			"source":     upstream.Source,
			"error":      err.Error(),
		})
		sendErrorResponse(w, log, "External data source unavailable",
			fmt.Sprintf("Could not fetch data from %s", upstream.Location()),
			http.StatusServiceUnavailable, requestID)
		return
	}

	log.Error("Unexpected service error", logger.Fields{
		"request_id": requestID,
		"error":      err.Error(),
	})
	sendErrorResponse(w, log, "Internal server error", "", http.StatusInternalServerError, requestID)
}
