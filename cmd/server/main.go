package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feexpay-checkout/internal/auth"
	"feexpay-checkout/internal/checkout"
	"feexpay-checkout/internal/config"
	"feexpay-checkout/internal/logger"
	"feexpay-checkout/internal/middleware"
	"feexpay-checkout/internal/payment"
	"feexpay-checkout/internal/transport"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()
	log := logger.L()

	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET not set in environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := transport.NewRegistry(cfg.SessionTTL)
	limiter := middleware.NewRateLimiter()
	go sessions.Run(ctx, time.Minute)
	go limiter.Cleanup(ctx, time.Minute)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           setupRouter(cfg, newCheckout(cfg), sessions, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Info("checkout server running",
		zap.String("port", cfg.AppPort),
		zap.String("sandbox_url", cfg.SandboxBaseURL),
		zap.String("live_url", cfg.LiveBaseURL),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newCheckout(cfg *config.Config) *checkout.Service {
	gateway := func(mode checkout.Mode) payment.Gateway {
		return payment.NewFeexPayGateway(payment.GatewayConfig{
			BaseURL:   cfg.BaseURL(string(mode)),
			Timeout:   cfg.HTTPTimeout,
			RateLimit: cfg.APIRateLimit,
			RateBurst: cfg.APIRateBurst,
		})
	}

	return checkout.NewService(gateway(checkout.ModeSandbox),
		checkout.WithModeGateway(checkout.ModeLive, gateway(checkout.ModeLive)),
	)
}

func setupRouter(cfg *config.Config, svc transport.Checkout, sessions *transport.Registry, limiter *middleware.RateLimiter) http.Handler {
	var forwarder *transport.CallbackForwarder
	if cfg.CallbackForwardURL != "" {
		forwarder = transport.NewCallbackForwarder(cfg.CallbackForwardURL, cfg.HTTPTimeout)
	}

	issuer := auth.NewIssuer(cfg.SessionSecret, cfg.SessionTTL)
	return transport.NewHandler(svc, issuer, sessions, forwarder, limiter).Routes()
}
