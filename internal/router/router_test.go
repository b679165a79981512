package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-api/internal/config"
	"portfolio-api/internal/handler"
	"portfolio-api/internal/metrics"
	"portfolio-api/internal/repository"
	"portfolio-api/internal/scheduler"
	"portfolio-api/internal/service"
)

func newRouter(t *testing.T, origins []string) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	svc := service.NewContactService(repository.NewMemoryRepository(), nil, m, config.PortfolioConfig{})
	sched := scheduler.NewScheduler(&config.SchedulerConfig{StatsInterval: time.Minute}, svc, m)
	return SetupRouter(handler.NewHandlers(svc, sched), config.CORSConfig{AllowedOrigins: origins}, m), reg
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	r, _ := newRouter(t, []string{"*"})

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://portfolio.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://portfolio.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")

	// Credentialed requests take "*" literally, so headers are listed by name.
	allowHeaders := w.Header().Get("Access-Control-Allow-Headers")
	assert.NotContains(t, allowHeaders, "*")
	assert.Contains(t, allowHeaders, "Content-Type")
	assert.Contains(t, allowHeaders, "Authorization")
}

func TestCORSRestrictedOrigins(t *testing.T) {
	r, _ := newRouter(t, []string{"https://allowed.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://allowed.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://allowed.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestDurationRecorded(t *testing.T) {
	r, reg := newRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "portfolio_http_request_duration_seconds" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["route"] == "/api/health" && labels["method"] == "GET" && labels["status"] == "200" {
				found = true
				assert.Equal(t, uint64(1), metric.GetHistogram().GetSampleCount())
			}
		}
	}
	assert.True(t, found, "request duration should be observed for /api/health")
}
