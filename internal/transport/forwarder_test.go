package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feexpay-checkout/internal/checkout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackForwarder_Forward(t *testing.T) {
	t.Run("Posts the payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "sess-1", r.Header.Get("X-Checkout-Session"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "shop-1", body["shop"])
			assert.Equal(t, "FAILED", body["status"])
			assert.Equal(t, float64(1000), body["amount"])
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		f := NewCallbackForwarder(srv.URL, time.Second)
		err := f.Forward(context.Background(), "sess-1", "shop-1", checkout.CallbackPayload{
			Status: checkout.StatusFailed,
			Amount: 1000,
		})
		assert.NoError(t, err)
	})

	t.Run("Merchant error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := NewCallbackForwarder(srv.URL, time.Second).
			Forward(context.Background(), "sess-1", "shop-1", checkout.CallbackPayload{})
		assert.ErrorContains(t, err, "status 500")
	})

	t.Run("Unreachable", func(t *testing.T) {
		err := NewCallbackForwarder("http://127.0.0.1:1", 100*time.Millisecond).
			Forward(context.Background(), "sess-1", "shop-1", checkout.CallbackPayload{})
		assert.Error(t, err)
	})
}
