package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeplanner/core/internal/adapters/repository"
	"github.com/forgeplanner/core/internal/adapters/storage"
	"github.com/forgeplanner/core/internal/application/services"
	"github.com/forgeplanner/core/internal/infrastructure/clock"
	"github.com/forgeplanner/core/internal/infrastructure/config"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

var now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "Forge Planner", Version: "2.4.0", Environment: "test"},
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: "*",
			RequestTimeout:     5 * time.Second,
		},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

func testDeps(jwtSecret string, store ports.Pinger) Dependencies {
	kv := storage.NewMemoryStore()
	log := logger.NewNop()
	clk := clock.NewFake(now)

	tasks := services.NewTaskService(repository.NewTaskRepository(kv, log), clk, log)
	tasks.Load(context.Background())

	return Dependencies{
		Tasks:    tasks,
		Brain:    services.NewBrainHealthService(repository.NewBrainHealthRepository(kv, log), clk, log),
		Money:    services.NewMoneyService(repository.NewMoneyRepository(kv, log), clk, log),
		Focus:    services.NewFocusService(repository.NewFocusStatsRepository(kv, log), log),
		Auth:     services.NewAuthService(config.JWTConfig{Secret: jwtSecret, ExpiresIn: time.Hour, Issuer: "forge-planner"}, clk, log),
		Clock:    clk,
		Store:    store,
		Registry: prometheus.NewRegistry(),
	}
}

func newTestServer(t *testing.T, deps Dependencies) http.Handler {
	t.Helper()
	srv, err := New(testConfig(), deps, logger.NewNop())
	require.NoError(t, err)
	return srv.Handler()
}

func serve(h http.Handler, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresServices(t *testing.T) {
	deps := testDeps("", nil)
	deps.Money = nil

	_, err := New(testConfig(), deps, logger.NewNop())
	assert.Error(t, err)
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestServer(t, testDeps("", storage.NewMemoryStore()))

	rec := serve(h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","time":"2024-05-01T09:00:00Z"}`, rec.Body.String())
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = serve(h, http.MethodGet, "/health/detailed", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"driver":"memory"`)

	rec = serve(h, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoints_StorageDown(t *testing.T) {
	h := newTestServer(t, testDeps("", downStore{}))

	rec := serve(h, http.MethodGet, "/health/detailed", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")

	rec = serve(h, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"not_ready","reason":"storage_not_ready"}`, rec.Body.String())
}

func TestAPI_Unauthenticated(t *testing.T) {
	h := newTestServer(t, testDeps("", nil))

	rec := serve(h, http.MethodPost, "/api/v1/tasks", `{"title":"Write report","date":"2024-05-01"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(h, http.MethodGet, "/api/v1/tasks/day/2024-05-01", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Write report")
	assert.Contains(t, rec.Body.String(), `"total":1`)
}

func TestAPI_BearerAuth(t *testing.T) {
	deps := testDeps("test-secret", nil)
	h := newTestServer(t, deps)

	rec := serve(h, http.MethodGet, "/api/v1/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Missing authorization header"}`, rec.Body.String())

	rec = serve(h, http.MethodGet, "/api/v1/tasks", "", http.Header{"Authorization": {"Token abc"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, http.MethodGet, "/api/v1/tasks", "", http.Header{"Authorization": {"Bearer not-a-jwt"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := deps.Auth.IssueToken("cli")
	require.NoError(t, err)
	rec = serve(h, http.MethodGet, "/api/v1/tasks", "", http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorsAreJSON(t *testing.T) {
	h := newTestServer(t, testDeps("", nil))

	rec := serve(h, http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())

	rec = serve(h, http.MethodPost, "/api/v1/money/import", `{"transactions":"nope"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid file format"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	deps := testDeps("", nil)
	h := newTestServer(t, deps)

	serve(h, http.MethodGet, "/health", "", nil)
	serve(h, http.MethodGet, "/api/v1/focus/30", "", nil)

	count, err := testutil.GatherAndCount(deps.Registry, "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rec := serve(h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestSwaggerDoc(t *testing.T) {
	h := newTestServer(t, testDeps("", nil))

	rec := serve(h, http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Forge Planner API")
	assert.Contains(t, rec.Body.String(), "/tasks/day/{date}")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitRequests = 2
	cfg.Security.RateLimitWindow = time.Hour

	srv, err := New(cfg, testDeps("", nil), logger.NewNop())
	require.NoError(t, err)
	h := srv.Handler()

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/health", "", nil).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodGet, "/health", "", nil).Code)
}
