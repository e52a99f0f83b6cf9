package checkout

import (
	"context"
	"fmt"

	"feexpay-checkout/internal/fee"
	"feexpay-checkout/internal/logger"
	"feexpay-checkout/internal/metrics"
	"feexpay-checkout/internal/payment"
	"feexpay-checkout/internal/shop"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Service starts checkout sessions against the FeexPay API.
type Service struct {
	gateways map[Mode]payment.Gateway
	policies map[PollFamily]PollPolicy
	registry *prometheus.Registry
	stats    *metrics.Checkout
}

type Option func(*Service)

// WithModeGateway routes sessions of one mode to their own gateway.
func WithModeGateway(mode Mode, gw payment.Gateway) Option {
	return func(s *Service) {
		s.gateways[mode] = gw
	}
}

func WithPollPolicy(family PollFamily, p PollPolicy) Option {
	return func(s *Service) {
		if p.Interval > 0 && p.MaxPolls > 0 {
			s.policies[family] = p
		}
	}
}

// NewService serves both modes through gw unless WithModeGateway says otherwise.
func NewService(gw payment.Gateway, opts ...Option) *Service {
	reg := prometheus.NewRegistry()
	s := &Service{
		gateways: map[Mode]payment.Gateway{ModeSandbox: gw, ModeLive: gw},
		policies: make(map[PollFamily]PollPolicy, len(defaultPollPolicies)),
		registry: reg,
		stats:    metrics.NewCheckout(reg),
	}
	for family, p := range defaultPollPolicies {
		s.policies[family] = p
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Stats() metrics.Snapshot {
	return s.stats.Snapshot()
}

// Gatherer exposes this service's own metrics registry.
func (s *Service) Gatherer() prometheus.Gatherer {
	return s.registry
}

func (s *Service) policy(family PollFamily) PollPolicy {
	if p, ok := s.policies[family]; ok {
		return p
	}
	return defaultPollPolicies[PollStandard]
}

// Init validates the merchant before anything is shown to the payer. A shop
// the API does not know yields ErrInvalidShop and no session.
func (s *Service) Init(ctx context.Context, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	gw, ok := s.gateways[opts.Mode]
	if !ok || gw == nil {
		return nil, fmt.Errorf("%w: no gateway for mode %s", ErrInvalidOptions, opts.Mode)
	}

	res := shop.NewValidator(gw).Validate(ctx, opts.ShopID)
	if !res.Valid {
		s.stats.InvalidShops.Inc()
		logger.FromCtx(ctx).Warn("checkout refused, invalid shop",
			zap.String("shop", opts.ShopID),
			zap.String("mode", string(opts.Mode)),
		)
		return nil, ErrInvalidShop
	}

	id := uuid.New().String()
	sess := &Session{
		ID:       id,
		svc:      s,
		opts:     opts.clone(),
		merchant: res.Merchant,
		gateway:  gw,
		fees:     fee.NewCalculator(gw),
		log:      logger.FromCtx(logger.WithSessionID(ctx, id)),
	}
	s.stats.Sessions.Inc()

	sess.log.Info("checkout session started",
		zap.String("shop", opts.ShopID),
		zap.String("merchant", res.Merchant.Name),
		zap.Int64("amount", opts.Amount),
		zap.String("mode", string(opts.Mode)),
		zap.String("case", string(opts.Case)),
	)
	return sess, nil
}
