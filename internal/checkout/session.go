package checkout

import (
	"context"
	"sync"

	"feexpay-checkout/internal/fee"
	"feexpay-checkout/internal/payment"
	"feexpay-checkout/internal/shop"
	"go.uber.org/zap"
)

// Session is one opened checkout for a validated shop. At most one attempt
// runs at a time; a finished attempt can be followed by a new one.
type Session struct {
	ID string

	svc      *Service
	opts     Options
	merchant shop.Merchant
	gateway  payment.Gateway
	fees     *fee.Calculator
	log      *zap.Logger

	mu     sync.Mutex
	active *Attempt
	closed bool
}

// Options returns the effective options, defaults applied.
func (s *Session) Options() Options {
	return s.opts.clone()
}

func (s *Session) Merchant() shop.Merchant {
	return s.merchant
}

// Quote prices the current selection. It is recomputed on every call.
func (s *Session) Quote(ctx context.Context, sel Selection) (fee.Quote, error) {
	if !s.opts.Allows(sel.Method) {
		return fee.Quote{}, ErrMethodNotAllowed
	}
	return s.fees.Quote(ctx, s.opts.ShopID, s.opts.Amount, sel), nil
}

// Pay starts an attempt and returns after the provider answered the
// initiation. Form problems do not surface as errors: they end the attempt
// FAILED with a payer-facing message.
func (s *Session) Pay(ctx context.Context, req PayRequest) (*Attempt, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.active != nil && !s.active.finished.Load() {
		s.mu.Unlock()
		return nil, ErrAttemptInProgress
	}
	a := newAttempt(ctx, s, req)
	s.active = a
	s.mu.Unlock()

	a.run()
	return a, nil
}

// Active returns the latest attempt, finished or not.
func (s *Session) Active() (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil, ErrNoActiveAttempt
	}
	return s.active, nil
}

// Close ends the session. A running attempt finishes FAILED and its callback
// fires.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	a := s.active
	s.mu.Unlock()

	if a != nil && a.finish(failed(msgSessionClosed, ""), StatusFailed) {
		s.log.Info("checkout session closed with a running attempt")
	}
}
