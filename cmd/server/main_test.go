package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"feexpay-checkout/internal/config"
	"feexpay-checkout/internal/logger"
	"feexpay-checkout/internal/middleware"
	"feexpay-checkout/internal/transport"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSetupRouter(t *testing.T) {
	logger.Set(zap.NewNop())

	shopAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/get_shop") {
			w.Write([]byte(`{"name":"Boutique","reference":"REF"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer shopAPI.Close()

	cfg := &config.Config{
		SandboxBaseURL: shopAPI.URL,
		LiveBaseURL:    shopAPI.URL,
		HTTPTimeout:    time.Second,
		APIRateLimit:   100,
		APIRateBurst:   100,
		SessionSecret:  "test-secret",
		SessionTTL:     time.Minute,
	}
	router := setupRouter(cfg, newCheckout(cfg), transport.NewRegistry(cfg.SessionTTL), middleware.NewRateLimiter())

	t.Run("Health Check", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"ok"`)
	})

	t.Run("Open Session", func(t *testing.T) {
		rr := httptest.NewRecorder()
		body := strings.NewReader(`{"id":"shop-1","amount":1000,"mode":"LIVE"}`)
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/sessions", body))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), `"Boutique"`)
	})

	t.Run("Protected Route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/sessions/attempt", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
