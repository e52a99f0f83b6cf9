package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"feexpay-checkout/internal/checkout"
	"feexpay-checkout/internal/logger"

	"go.uber.org/zap"
)

// CallbackForwarder posts terminal payment results to the integrator's
// backend, for widgets that cannot run a callback themselves.
type CallbackForwarder struct {
	url        string
	httpClient *http.Client
}

func NewCallbackForwarder(url string, timeout time.Duration) *CallbackForwarder {
	return &CallbackForwarder{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type forwardedCallback struct {
	SessionID string `json:"session_id"`
	Shop      string `json:"shop"`
	checkout.CallbackPayload
}

func (f *CallbackForwarder) Forward(ctx context.Context, sessionID, shopID string, p checkout.CallbackPayload) error {
	body, err := json.Marshal(forwardedCallback{SessionID: sessionID, Shop: shopID, CallbackPayload: p})
	if err != nil {
		return fmt.Errorf("marshal callback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Checkout-Session", sessionID)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("forward callback: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("forward callback: status %d", resp.StatusCode)
	}
	return nil
}

// callbackFor builds the session callback. Delivery runs in the background
// so a slow merchant endpoint never holds up the payer.
func (f *CallbackForwarder) callbackFor(ctx context.Context, sessionID func() string, shopID string) checkout.CallbackFunc {
	log := logger.FromCtx(ctx)
	base := context.WithoutCancel(ctx)
	return func(p checkout.CallbackPayload) {
		id := sessionID()
		go func() {
			if err := f.Forward(base, id, shopID, p); err != nil {
				log.Error("callback forwarding failed",
					zap.String("session_id", id),
					zap.String("reference", p.Reference),
					zap.Error(err),
				)
				return
			}
			log.Info("callback forwarded", zap.String("session_id", id), zap.String("status", string(p.Status)))
		}()
	}
}
