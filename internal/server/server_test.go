package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocklens/internal/analytics"
	"stocklens/internal/config"
	"stocklens/internal/series"
)

func testSeries(n int) *series.PriceSeries {
	bars := make([]series.Bar, n)
	for i := 0; i < n; i++ {
		c := 100 + float64(i%10)
		bars[i] = series.Bar{
			Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open: c, High: c + 1, Low: c - 1,
			Close: c, AdjClose: c, Volume: 1000,
		}
	}
	return &series.PriceSeries{Bars: bars}
}

func testServer(t *testing.T, rows int) *Server {
	t.Helper()
	cfg := config.Default()
	s := New(cfg, nil)
	res := analytics.NewRunner(cfg.Analytics, nil).
		Run(context.Background(), testSeries(rows))
	s.SetResults(res)
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t, 60)
	rec := get(t, s.Routes(), "/api/health")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["run_id"])
}

func TestAnalyticsEndpointListsAllModules(t *testing.T) {
	// 210 rows clears every window, the 200-day regime SMA included.
	s := testServer(t, 210)
	rec := get(t, s.Routes(), "/api/analytics")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		RunID   string                     `json:"run_id"`
		Modules map[string]json.RawMessage `json:"modules"`
		Errors  map[string]string          `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.RunID)
	assert.Empty(t, body.Errors)
	for _, module := range analytics.ConsoleOrder {
		assert.Contains(t, body.Modules, module)
	}
}

func TestAnalyticsEndpointReportsFailedModules(t *testing.T) {
	s := testServer(t, 5)
	rec := get(t, s.Routes(), "/api/analytics")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Modules map[string]json.RawMessage `json:"modules"`
		Errors  map[string]string          `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, analytics.ModuleVolatility)
	assert.NotContains(t, body.Modules, analytics.ModuleVolatility)
}

func TestModuleEndpoint(t *testing.T) {
	s := testServer(t, 60)
	rec := get(t, s.Routes(), "/api/analytics/performance")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "total_return")
	assert.Contains(t, body, "annualized_volatility")
}

func TestModuleEndpointSentiment(t *testing.T) {
	s := testServer(t, 60)
	rec := get(t, s.Routes(), "/api/analytics/sentiment")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "up_down_volume_ratio")
	assert.Contains(t, body, "signal")
}

func TestModuleEndpointRegimeNeedsLongHistory(t *testing.T) {
	// 60 rows cannot fill the 200-day SMA, so the regime module fails.
	s := testServer(t, 60)
	rec := get(t, s.Routes(), "/api/analytics/regime")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestModuleEndpointUnknownModule(t *testing.T) {
	s := testServer(t, 60)
	rec := get(t, s.Routes(), "/api/analytics/astrology")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestModuleEndpointFailedModule(t *testing.T) {
	s := testServer(t, 5)
	rec := get(t, s.Routes(), "/api/analytics/volatility")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNoResultsLoaded(t *testing.T) {
	s := New(config.Default(), nil)
	rec := get(t, s.Routes(), "/api/analytics")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestModulePayloadEncodesUndefinedAsNull(t *testing.T) {
	// 30 rows leaves the 50 and 200 day moving averages undefined; the
	// JSON view must encode them as null rather than erroring on NaN.
	s := testServer(t, 30)
	rec := get(t, s.Routes(), "/api/analytics/technical")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		CurrentMA map[string]*float64 `json:"current_ma"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.CurrentMA, "50")
	assert.Nil(t, body.CurrentMA["50"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(t, 60)
	h := s.Routes()
	get(t, h, "/api/health")
	rec := get(t, h, "/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stocklens_http_requests_total")
}

func TestGracefulShutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	s := New(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
