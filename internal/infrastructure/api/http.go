package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/damon-houk/country-currency-service/internal/domain/apperror"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
)

// DefaultTimeout bounds a single upstream request
const DefaultTimeout = 15 * time.Second

// maxBodyBytes caps how much of an upstream body is read
const maxBodyBytes = 32 << 20

// jsonGetter performs a single GET and decodes the JSON body. Every failure
// comes back as an UpstreamUnavailableError tagged with source.
type jsonGetter struct {
	source     string
	httpClient *http.Client
	timeout    time.Duration
	logger     logger.Logger
}

func newJSONGetter(source string, httpClient *http.Client, timeout time.Duration, log logger.Logger) jsonGetter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return jsonGetter{
		source:     source,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     log.WithField("source", source),
	}
}

func (g jsonGetter) get(ctx context.Context, reqURL string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	fail := func(err error) error {
		g.logger.Error("Upstream request failed", logger.Fields{
			"url":   reqURL,
			"error": err.Error(),
		})
		return apperror.NewUpstreamUnavailable(g.source, reqURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("failed to execute request: %w", err))
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			g.logger.Warn("Error closing response body", logger.Fields{"error": closeErr.Error()})
		}
	}()

	g.logger.Debug("Upstream responded", logger.Fields{
		"url":         reqURL,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fail(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(fmt.Errorf("API returned error status: %d", resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fail(fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}
