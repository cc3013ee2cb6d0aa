package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bidcompare/internal/services"
	"bidcompare/internal/shared/testutil"
)

func newTestHealthHandler(t *testing.T) (*HealthHandler, *services.HealthService) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewHealthService("1.2.3", "2026-01-01T00:00:00Z", "abc", logger)
	return NewHealthHandler(svc, logger), svc
}

func TestHealthHandler_Endpoints(t *testing.T) {
	tests := []struct {
		name       string
		handler    func(h *HealthHandler) http.HandlerFunc
		wantStatus string
	}{
		{"status", func(h *HealthHandler) http.HandlerFunc { return h.Status }, services.StatusHealthy},
		{"health", func(h *HealthHandler) http.HandlerFunc { return h.HealthCheck }, services.StatusHealthy},
		{"ready", func(h *HealthHandler) http.HandlerFunc { return h.ReadinessCheck }, services.StatusReady},
		{"live", func(h *HealthHandler) http.HandlerFunc { return h.LivenessCheck }, services.StatusAlive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHealthHandler(t)
			rec := httptest.NewRecorder()
			tt.handler(h)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body["status"])
		})
	}
}

func TestHealthHandler_StatusBody(t *testing.T) {
	h, _ := newTestHealthHandler(t)
	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestHealthHandler_NotReady(t *testing.T) {
	h, svc := newTestHealthHandler(t)
	svc.RegisterCheck("comparison", func(ctx context.Context) services.ServiceHealth {
		return services.ServiceHealth{Status: services.StatusNotReady, Message: "starting"}
	})

	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, services.StatusNotReady, body.Status)
	assert.Equal(t, "starting", body.Services["comparison"].Message)
}

func TestHealthHandler_Version(t *testing.T) {
	h, _ := newTestHealthHandler(t)
	rec := httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1.2.3", body["version"])
	assert.Equal(t, "abc", body["build_id"])
}

func TestMetricsHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "bidcompare_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	h := NewMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bidcompare_test_total 1")
}
