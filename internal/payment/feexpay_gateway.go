package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"feexpay-checkout/internal/logger"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	shopPath          = "/api/shop/%s/get_shop"
	detailsPath       = "/api/transactions/details"
	requestToPayPath  = "/api/transactions/requesttopay/integration"
	requestStatusPath = "/api/transactions/getrequesttopay/integration/%s"
	initCardPath      = "/api/transactions/public/initcard"

	breakerTripAfter = 5
)

var ErrShopNotFound = errors.New("shop not found")

type GatewayConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

type feexpayGateway struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

type apiResponse struct {
	status int
	body   []byte
}

// ----------------- Constructor -----------------

func NewFeexPayGateway(cfg GatewayConfig) Gateway {
	if cfg.BaseURL == "" {
		logger.L().Warn("FeexPay base URL is empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &feexpayGateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "feexpay-api",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerTripAfter
			},
			// a payer walking away is not an API outage
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.L().Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
	}
}

// ----------------- GetShop -----------------

func (f *feexpayGateway) GetShop(ctx context.Context, shopID string) (*Shop, error) {
	log := logger.FromCtx(ctx).With(zap.String("shop", shopID))

	resp, err := f.send(ctx, http.MethodGet, fmt.Sprintf(shopPath, url.PathEscape(shopID)), "", nil)
	if err != nil {
		logCallError(ctx, log, "Shop lookup failed", err)
		return nil, err
	}

	if resp.status != http.StatusOK {
		log.Warn("FeexPay rejected shop",
			zap.Int("status", resp.status),
			zap.ByteString("response", resp.body),
		)
		return nil, fmt.Errorf("%w: status %d", ErrShopNotFound, resp.status)
	}

	var shop Shop
	if err := json.Unmarshal(resp.body, &shop); err != nil {
		log.Error("Failed decoding shop", zap.Error(err))
		return nil, err
	}

	return &shop, nil
}

// ----------------- TransactionDetails -----------------

func (f *feexpayGateway) TransactionDetails(ctx context.Context, req DetailsRequest) (*DetailsResponse, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("shop", req.Shop),
		zap.String("reseau", req.Reseau),
		zap.Int64("amount", req.Amount),
	)

	resp, err := f.send(ctx, http.MethodPost, detailsPath, "", req)
	if err != nil {
		logCallError(ctx, log, "Fee details request failed", err)
		return nil, err
	}

	if resp.status != http.StatusOK {
		log.Error("FeexPay returned non-success status",
			zap.Int("status", resp.status),
			zap.ByteString("response", resp.body),
		)
		return nil, fmt.Errorf("feexpay error: %s", string(resp.body))
	}

	var details DetailsResponse
	if err := json.Unmarshal(resp.body, &details); err != nil {
		log.Error("Failed decoding fee details", zap.Error(err))
		return nil, err
	}

	return &details, nil
}

// ----------------- RequestToPay -----------------

// RequestToPay returns the decoded body for every HTTP status; the caller
// decides what 200/201/202/4xx mean for its provider.
func (f *feexpayGateway) RequestToPay(ctx context.Context, token string, req RequestToPay) (*RequestToPayResponse, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("shop", req.Shop),
		zap.String("reseau", req.Reseau),
		zap.Int64("amount", req.Amount),
		zap.String("phone", req.PhoneNumber),
		zap.Bool("with_otp", req.Otp != ""),
	)

	log.Info("Sending payment request to FeexPay")

	resp, err := f.send(ctx, http.MethodPost, requestToPayPath, token, req)
	if err != nil {
		logCallError(ctx, log, "FeexPay request failed", err)
		return nil, err
	}

	var res RequestToPayResponse
	if err := json.Unmarshal(resp.body, &res); err != nil {
		log.Error("Failed decoding FeexPay response",
			zap.Int("status", resp.status),
			zap.Error(err),
		)
		return nil, fmt.Errorf("feexpay error: status %d: %w", resp.status, err)
	}
	res.HTTPStatus = resp.status

	log.Info("FeexPay payment request answered",
		zap.Int("http_status", resp.status),
		zap.String("reference", res.Reference),
		zap.String("status", string(res.Status)),
		zap.String("status_code", string(res.StatusCode)),
	)

	return &res, nil
}

// ----------------- GetRequestToPay -----------------

func (f *feexpayGateway) GetRequestToPay(ctx context.Context, token, reference string) (*TransactionStatus, error) {
	log := logger.FromCtx(ctx).With(zap.String("reference", reference))

	resp, err := f.send(ctx, http.MethodGet, fmt.Sprintf(requestStatusPath, url.PathEscape(reference)), token, nil)
	if err != nil {
		logCallError(ctx, log, "Request to FeexPay failed", err)
		return nil, err
	}

	var status TransactionStatus
	if err := json.Unmarshal(resp.body, &status); err != nil {
		log.Error("Failed decoding transaction status",
			zap.Int("http_status", resp.status),
			zap.Error(err),
		)
		return nil, fmt.Errorf("feexpay error: status %d: %w", resp.status, err)
	}

	log.Debug("Transaction status fetched",
		zap.String("status", string(status.Status)),
		zap.String("reason", status.Reason),
	)

	return &status, nil
}

// ----------------- InitCard -----------------

func (f *feexpayGateway) InitCard(ctx context.Context, token string, req CardRequest) (*CardResponse, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("shop", req.Shop),
		zap.String("type_card", req.TypeCard),
		zap.Int64("amount", req.Amount),
	)

	resp, err := f.send(ctx, http.MethodPost, initCardPath, token, req)
	if err != nil {
		logCallError(ctx, log, "Card initiation failed", err)
		return nil, err
	}

	var res CardResponse
	if err := json.Unmarshal(resp.body, &res); err != nil {
		log.Error("Failed decoding card response",
			zap.Int("http_status", resp.status),
			zap.Error(err),
		)
		return nil, fmt.Errorf("feexpay error: status %d: %w", resp.status, err)
	}

	log.Info("Card payment initiated",
		zap.String("status", string(res.Status)),
		zap.Bool("redirect", res.URL != ""),
	)

	return &res, nil
}

// ----------------- transport -----------------

// logCallError keeps calls abandoned by their caller out of the error log.
func logCallError(ctx context.Context, log *zap.Logger, msg string, err error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		log.Debug(msg, zap.Error(err))
		return
	}
	log.Error(msg, zap.Error(err))
}

func (f *feexpayGateway) send(ctx context.Context, method, path, token string, payload interface{}) (*apiResponse, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("feexpay rate limit: %w", err)
	}

	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal feexpay request: %w", err)
		}
		body = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	out, err := f.breaker.Execute(func() (interface{}, error) {
		resp, err := f.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read feexpay response: %w", err)
		}
		return &apiResponse{status: resp.StatusCode, body: bodyBytes}, nil
	})
	if err != nil {
		return nil, err
	}

	return out.(*apiResponse), nil
}
