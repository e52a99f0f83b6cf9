package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feexpay-checkout/internal/auth"
	"feexpay-checkout/internal/logger"
	"feexpay-checkout/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAuth(t *testing.T) {
	issuer := auth.NewIssuer("test-secret", time.Hour)

	t.Run("Missing Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/sessions/attempt", nil)
		w := httptest.NewRecorder()

		SessionAuth(issuer)(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/sessions/attempt", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		SessionAuth(issuer)(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid Token", func(t *testing.T) {
		token, _, err := issuer.Issue("sess-1", "shop-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/sessions/attempt", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := utils.GetSessionIDFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, "sess-1", id)
			assert.Equal(t, "sess-1", logger.SessionIDFrom(r.Context()))
			w.WriteHeader(http.StatusOK)
		})

		SessionAuth(issuer)(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Strict tier for payment submission", func(t *testing.T) {
		handler := NewRateLimiter().Middleware(ok)

		codes := make([]int, 0, burstStrict+1)
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions/pay", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}

		assert.Equal(t, http.StatusOK, codes[0])
		assert.Equal(t, http.StatusTooManyRequests, codes[burstStrict])
	})

	t.Run("Separate buckets per client", func(t *testing.T) {
		handler := NewRateLimiter().Middleware(ok)

		for i := 0; i < burstStrict; i++ {
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions/otp", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/otp", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Session identity", func(t *testing.T) {
		handler := NewRateLimiter().Middleware(ok)

		send := func(session string) int {
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions/pay", nil)
			req = req.WithContext(utils.WithSessionID(req.Context(), session))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			return w.Code
		}

		for i := 0; i < burstStrict; i++ {
			send("a")
		}
		assert.Equal(t, http.StatusTooManyRequests, send("a"))
		assert.Equal(t, http.StatusOK, send("b"))
	})
}

func TestResolveRateTier(t *testing.T) {
	_, _, tier := resolveRateTier(httptest.NewRequest(http.MethodPost, "/v1/sessions/pay", nil))
	assert.Equal(t, "strict", tier)

	_, _, tier = resolveRateTier(httptest.NewRequest(http.MethodGet, "/v1/sessions/attempt", nil))
	assert.Equal(t, "general", tier)

	_, _, tier = resolveRateTier(httptest.NewRequest(http.MethodPost, "/v1/sessions/quote", nil))
	assert.Equal(t, "general", tier)
}

func TestRateLimiter_Evict(t *testing.T) {
	l := NewRateLimiter()
	l.getVisitor("ip:1:general", limitGeneral, burstGeneral)
	l.getVisitor("ip:2:general", limitGeneral, burstGeneral)
	l.visitors["ip:1:general"].lastSeen = time.Now().Add(-time.Hour)

	l.evict(time.Now())

	assert.NotContains(t, l.visitors, "ip:1:general")
	assert.Contains(t, l.visitors, "ip:2:general")
}
