package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbprobe/internal/api"
	"dbprobe/internal/probe"
	"dbprobe/internal/security"
	"dbprobe/internal/storage"
	"dbprobe/internal/storage/factory"
	"dbprobe/internal/testutil"
)

func newServer(t *testing.T, cfg storage.Config) *httptest.Server {
	t.Helper()

	reg := prometheus.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	prober := probe.New(probe.Options{
		Config:    cfg,
		Secondary: probe.DefaultSecondary,
		Open:      factory.Open,
		Logger:    logger,
		Metrics:   storage.NewMetrics(reg),
	})

	router, err := api.NewRouter(api.NewHandler(prober, logger), reg, reg, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestProbe(t *testing.T) {
	cfg := testutil.NewSQLiteDB(t, "users", "categories")
	srv := newServer(t, cfg)

	resp, err := http.Get(srv.URL + "/probe")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var report probe.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "SQLite", report.Engine)
	assert.NotEmpty(t, report.Version)
	require.NotNil(t, report.Primary)
	assert.Equal(t, []string{"categories", "users"}, report.Primary.Tables)
	assert.Empty(t, report.Error)
}

func TestProbeFailure(t *testing.T) {
	cfg := testutil.NewSQLiteDB(t)
	cfg.Database += ".missing"
	srv := newServer(t, cfg)

	resp, err := http.Get(srv.URL + "/probe")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "operational", body["kind"])
	assert.NotEmpty(t, body["error"])
	assert.NotContains(t, body, "password")
}

func TestHealthzAndMetrics(t *testing.T) {
	srv := newServer(t, testutil.NewSQLiteDB(t))

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(srv.URL + "/probe")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Contains(t, string(body), "dbprobe_last_run_success 1")
	assert.Contains(t, string(body), `dbprobe_http_requests_total{method="GET",path="/healthz",status="200"} 1`)
}

func TestAllowlistGuardsProbe(t *testing.T) {
	reg := prometheus.NewRegistry()
	prober := probe.New(probe.Options{Config: testutil.NewSQLiteDB(t), Open: factory.Open})
	allow, err := security.NewAllowlist([]string{"192.0.2.0/24"})
	require.NoError(t, err)

	router, err := api.NewRouter(api.NewHandler(prober, nil), reg, reg, allow)
	require.NoError(t, err)

	for path, want := range map[string]int{
		"/probe":   http.StatusForbidden,
		"/metrics": http.StatusForbidden,
		"/graphql": http.StatusForbidden,
		"/healthz": http.StatusOK,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "198.51.100.7:40000"
		router.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestGraphQLEndpoint(t *testing.T) {
	srv := newServer(t, testutil.NewSQLiteDB(t, "users"))

	body := bytes.NewBufferString(`{"query": "{ probe { engine succeeded primary { tables } error } }"}`)
	resp, err := http.Post(srv.URL+"/graphql", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Probe struct {
				Engine    string  `json:"engine"`
				Succeeded bool    `json:"succeeded"`
				Error     *string `json:"error"`
				Primary   struct {
					Tables []string `json:"tables"`
				} `json:"primary"`
			} `json:"probe"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Empty(t, result.Errors)
	assert.Equal(t, "SQLite", result.Data.Probe.Engine)
	assert.True(t, result.Data.Probe.Succeeded)
	assert.Nil(t, result.Data.Probe.Error)
	assert.Equal(t, []string{"users"}, result.Data.Probe.Primary.Tables)
}
