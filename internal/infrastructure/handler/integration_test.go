// internal/infrastructure/handler/integration_test.go
package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/damon-houk/country-currency-service/internal/application/service"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/api"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/db"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/handler"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/logger"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/middleware"
	"github.com/damon-houk/country-currency-service/internal/infrastructure/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testlandCountries = `[
	{"name": "Testland", "capital": "Test City", "region": "Testregion", "population": 1000,
	 "flag": "https://flagcdn.com/tl.svg", "currencies": [{"code": "USD", "name": "US dollar", "symbol": "$"}]}
]`

const testlandRates = `{"result": "success", "base_code": "USD", "rates": {"USD": 1, "EUR": 0.92}}`

// upstream is a fake provider whose response can be swapped between requests
type upstream struct {
	server *httptest.Server
	status atomic.Int32
	body   atomic.Value
	hits   atomic.Int32
}

func newUpstream(t *testing.T, body string) *upstream {
	u := &upstream{}
	u.set(http.StatusOK, body)
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(u.status.Load()))
		fmt.Fprint(w, u.body.Load().(string))
	}))
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) set(status int, body string) {
	u.status.Store(int32(status))
	u.body.Store(body)
}

type testStack struct {
	server    *httptest.Server
	countries *upstream
	rates     *upstream
	store     *db.Store
}

// setupTestServer wires the full stack against fake upstreams and a temporary store
func setupTestServer(t *testing.T, driver string) *testStack {
	t.Helper()

	dir := t.TempDir()
	log := logger.Nop()
	ctx := context.Background()

	store, err := db.OpenStore(ctx, db.StoreConfig{
		Driver:      driver,
		DatabaseURL: "file:" + filepath.Join(dir, "countries.db"),
		BadgerPath:  filepath.Join(dir, "badger"),
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	countriesUpstream := newUpstream(t, testlandCountries)
	ratesUpstream := newUpstream(t, testlandRates)

	imagePath := filepath.Join(dir, "cache", "summary.png")
	renderer, err := summary.NewPNGRenderer(imagePath, log)
	require.NoError(t, err)

	refreshService := service.NewRefreshService(
		api.NewCountriesClient(countriesUpstream.server.URL, nil, 0, log),
		api.NewExchangeRateClient(ratesUpstream.server.URL, nil, 0, log),
		store.Countries,
		store.Metadata,
		renderer,
		nil,
		log,
	)
	countryService := service.NewCountryService(store.Countries, store.Metadata, imagePath, log)

	server := httptest.NewServer(handler.NewRouter(refreshService, countryService, log))
	t.Cleanup(server.Close)

	return &testStack{
		server:    server,
		countries: countriesUpstream,
		rates:     ratesUpstream,
		store:     store,
	}
}

func (s *testStack) do(t *testing.T, method, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.server.URL+path, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRefreshQueryDeleteFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, driver := range []string{db.DriverSQL, db.DriverBadger} {
		t.Run(driver, func(t *testing.T) {
			stack := setupTestServer(t, driver)

			// Step 1: nothing stored yet
			resp := stack.do(t, http.MethodGet, "/status")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			var status handler.StatusResponse
			decode(t, resp, &status)
			assert.Equal(t, 0, status.TotalCountries)
			assert.Nil(t, status.LastRefreshedAt)

			resp = stack.do(t, http.MethodGet, "/countries/image")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			var errResp handler.ErrorResponse
			decode(t, resp, &errResp)
			assert.Equal(t, "Summary image not found", errResp.Error)

			// Step 2: refresh
			resp = stack.do(t, http.MethodPost, "/countries/refresh")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var refreshResp handler.RefreshResponse
			decode(t, resp, &refreshResp)
			assert.Equal(t, "Data refreshed successfully", refreshResp.Message)
			assert.Equal(t, 1, refreshResp.Processed)
			assert.True(t, refreshResp.SummaryGenerated)

			// Step 3: status reflects the cycle
			resp = stack.do(t, http.MethodGet, "/status")
			decode(t, resp, &status)
			assert.Equal(t, 1, status.TotalCountries)
			require.NotNil(t, status.LastRefreshedAt)
			assert.Equal(t, refreshResp.RefreshedAt, *status.LastRefreshedAt)

			// Step 4: the summary image is served
			resp = stack.do(t, http.MethodGet, "/countries/image")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
			img, err := png.Decode(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, summary.Width, img.Bounds().Dx())
			assert.Equal(t, summary.Height, img.Bounds().Dy())

			// Step 5: lookups ignore case
			resp = stack.do(t, http.MethodGet, "/countries/testland")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var country handler.CountryResponse
			decode(t, resp, &country)
			assert.Equal(t, "Testland", country.Name)
			assert.Equal(t, "Test City", *country.Capital)
			assert.Equal(t, "USD", *country.CurrencyCode)
			assert.Equal(t, 1.0, *country.ExchangeRate)
			require.NotNil(t, country.EstimatedGDP)
			assert.GreaterOrEqual(t, *country.EstimatedGDP, 1000000.0)
			assert.LessOrEqual(t, *country.EstimatedGDP, 2000000.0)
			assert.Equal(t, refreshResp.RefreshedAt, country.LastRefreshedAt)

			// Step 6: a second refresh updates in place
			resp = stack.do(t, http.MethodPost, "/countries/refresh")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			resp = stack.do(t, http.MethodGet, "/countries")
			var list []handler.CountryResponse
			decode(t, resp, &list)
			require.Len(t, list, 1)
			assert.Equal(t, country.ID, list[0].ID)

			// Step 7: delete, then the name is gone
			resp = stack.do(t, http.MethodDelete, "/countries/TESTLAND")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var msg handler.MessageResponse
			decode(t, resp, &msg)
			assert.Equal(t, "Country deleted successfully", msg.Message)

			resp = stack.do(t, http.MethodGet, "/countries/Testland")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			decode(t, resp, &errResp)
			assert.Equal(t, "Country not found", errResp.Error)
			assert.Equal(t, http.StatusNotFound, errResp.Status)
			assert.NotEmpty(t, errResp.RequestID)

			resp = stack.do(t, http.MethodDelete, "/countries/Testland")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestUpstreamFailureLeavesStoreUntouched(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	stack := setupTestServer(t, db.DriverSQL)

	resp := stack.do(t, http.MethodPost, "/countries/refresh")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var before handler.StatusResponse
	decode(t, stack.do(t, http.MethodGet, "/status"), &before)

	tests := []struct {
		name    string
		breakIt func()
		target  *upstream
	}{
		{
			name:    "Countries provider error",
			breakIt: func() { stack.countries.set(http.StatusInternalServerError, `{"message":"boom"}`) },
			target:  stack.countries,
		},
		{
			name: "Rates provider reports error",
			breakIt: func() {
				stack.countries.set(http.StatusOK, testlandCountries)
				stack.rates.set(http.StatusOK, `{"result":"error","error-type":"unsupported-code"}`)
			},
			target: stack.rates,
		},
		{
			name: "Malformed countries body",
			breakIt: func() {
				stack.rates.set(http.StatusOK, testlandRates)
				stack.countries.set(http.StatusOK, `{not json`)
			},
			target: stack.countries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.breakIt()

			resp := stack.do(t, http.MethodPost, "/countries/refresh")
			assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

			var errResp handler.ErrorResponse
			decode(t, resp, &errResp)
			assert.Equal(t, "External data source unavailable", errResp.Error)
			assert.True(t, strings.HasPrefix(errResp.Details, "Could not fetch data from "+tt.target.server.URL),
				"details %q", errResp.Details)

			var after handler.StatusResponse
			decode(t, stack.do(t, http.MethodGet, "/status"), &after)
			assert.Equal(t, before, after)
		})
	}
}

func TestListFiltersAndSort(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	stack := setupTestServer(t, db.DriverSQL)
	stack.countries.set(http.StatusOK, `[
		{"name": "France", "region": "Europe", "population": 1000, "currencies": [{"code": "EUR"}]},
		{"name": "Germany", "region": "Europe", "population": 5000, "currencies": [{"code": "EUR"}]},
		{"name": "Antarctica", "region": "Polar", "population": 0},
		{"name": "Nigeria", "region": "Africa", "population": 9000, "currencies": [{"code": "NGN"}]},
		{"name": "Nameless", "population": 10},
		{"name": "", "population": 10}
	]`)
	stack.rates.set(http.StatusOK, `{"result": "success", "rates": {"EUR": 1, "NGN": 1000}}`)

	resp := stack.do(t, http.MethodPost, "/countries/refresh")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var refreshResp handler.RefreshResponse
	decode(t, resp, &refreshResp)
	assert.Equal(t, 5, refreshResp.Processed)
	assert.Equal(t, 1, refreshResp.Skipped)

	names := func(path string) []string {
		var list []handler.CountryResponse
		decode(t, stack.do(t, http.MethodGet, path), &list)
		out := make([]string, 0, len(list))
		for _, c := range list {
			out = append(out, c.Name)
		}
		return out
	}

	assert.Equal(t, []string{"France", "Germany", "Antarctica", "Nigeria", "Nameless"}, names("/countries"))
	assert.Equal(t, []string{"France", "Germany"}, names("/countries?region=Europe"))
	assert.Equal(t, []string{"Nigeria"}, names("/countries?currency=NGN"))
	assert.Empty(t, names("/countries?region=Atlantis"))

	// GDP of Germany is always above France; Nigeria's rate keeps it below both
	sorted := names("/countries?sort=gdp_desc")
	require.Len(t, sorted, 5)
	assert.Equal(t, []string{"Germany", "France", "Nigeria"}, sorted[:3])
	assert.ElementsMatch(t, []string{"Antarctica", "Nameless"}, sorted[3:])
}

func TestRequestIDAndUnknownRoutes(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	stack := setupTestServer(t, db.DriverSQL)

	req, err := http.NewRequest(http.MethodGet, stack.server.URL+"/countries/nowhere", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.RequestIDHeader, "req-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get(middleware.RequestIDHeader))
	var errResp handler.ErrorResponse
	decode(t, resp, &errResp)
	assert.Equal(t, "req-123", errResp.RequestID)

	resp = stack.do(t, http.MethodGet, "/no-such-route")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = stack.do(t, http.MethodPut, "/countries/refresh")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
