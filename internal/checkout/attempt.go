package checkout

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"feexpay-checkout/internal/payment"
	"feexpay-checkout/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Attempt is one submission of the payment form. It reaches TERMINAL exactly
// once, and the merchant callback fires at that moment and never again.
type Attempt struct {
	session   *Session
	strategy  strategy
	// rejection is set when no strategy serves the selection
	rejection string
	req       PayRequest
	policy    PollPolicy
	timer     *prometheus.Timer
	log       *zap.Logger

	// ctx outlives the request that started the attempt; finishing cancels it
	// so in-flight API calls and the poll loop stop.
	ctx      context.Context
	cancel   context.CancelFunc
	finished atomic.Bool
	done     chan struct{}

	mu        sync.Mutex
	state     State
	reference string
	pollCount int
	otpReq    payment.RequestToPay
	result    *Result
}

func newAttempt(ctx context.Context, s *Session, req PayRequest) *Attempt {
	actx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a := &Attempt{
		session: s,
		req:     req,
		timer:   s.svc.stats.StartAttempt(),
		log:     s.log.With(zap.String("method", string(req.Method)), zap.String("network", req.Network)),
		ctx:     actx,
		cancel:  cancel,
		done:    make(chan struct{}),
		state:   StateIdle,
	}

	a.strategy, a.rejection = resolveStrategy(req.Selection)
	if a.strategy != nil {
		a.policy = s.svc.policy(a.strategy.pollFamily())
		a.log = a.log.With(zap.String("provider", a.strategy.name()))
	}
	return a
}

// run validates the form and submits it. It returns once the provider has
// answered the initiation; polling carries on in the background.
func (a *Attempt) run() {
	a.session.svc.stats.AttemptsStarted.Inc()

	if !a.session.opts.Allows(a.req.Method) {
		a.finish(failed(msgMethodNotAllowed, ""), StatusFailed)
		return
	}

	st := a.strategy
	if st == nil {
		a.finish(failed(a.rejection, ""), StatusFailed)
		return
	}

	if msg := st.validate(a.session.opts, a.req); msg != "" {
		a.log.Info("payment form rejected", zap.String("reason", msg))
		a.finish(failed(msg, ""), StatusFailed)
		return
	}

	if !a.transition(StateIdle, StateSubmitting) {
		return
	}
	a.log.Info("submitting payment")
	a.apply(st.submit(a.ctx, a))
}

// transition moves between non-terminal states. It fails once the attempt
// has finished, e.g. when the payer cancelled meanwhile.
func (a *Attempt) transition(from, to State) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.finished.Load() || a.state != from {
		return false
	}
	a.state = to
	return true
}

func (a *Attempt) apply(o outcome) {
	switch o.kind {
	case outcomeSuccess, outcomeRedirect:
		a.finish(o, StatusSuccessful)
	case outcomeFail:
		a.finish(o, StatusFailed)
	case outcomeOTP:
		a.mu.Lock()
		if !a.finished.Load() {
			a.state = StateAwaitingOTP
			a.reference = o.reference
		}
		a.mu.Unlock()
		a.session.svc.stats.OTPPrompts.Inc()
		a.log.Info("waiting for otp", zap.String("reference", o.reference))
	case outcomePoll:
		a.mu.Lock()
		if a.finished.Load() {
			a.mu.Unlock()
			return
		}
		a.state = StatePolling
		a.reference = o.reference
		a.mu.Unlock()
		a.log.Info("payment pending, polling",
			zap.String("reference", o.reference),
			zap.Duration("interval", a.policy.Interval),
			zap.Int("max_polls", a.policy.MaxPolls),
		)
		go a.poll(o.reference)
	}
}

func (a *Attempt) setOTPRequest(req payment.RequestToPay) {
	a.mu.Lock()
	a.otpReq = req
	a.mu.Unlock()
}

func (a *Attempt) poll(reference string) {
	ticker := time.NewTicker(a.policy.Interval)
	defer ticker.Stop()

	gw := a.session.gateway
	token := a.session.opts.Token

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
		}

		a.mu.Lock()
		a.pollCount++
		count := a.pollCount
		a.mu.Unlock()
		a.session.svc.stats.Polls.Inc()

		st, err := gw.GetRequestToPay(a.ctx, token, reference)
		if err != nil {
			if a.ctx.Err() != nil {
				return
			}
			a.log.Warn("status check failed", zap.Int("poll", count), zap.Error(err))
			a.finish(failed(msgPollError, reference), StatusFailed)
			return
		}

		if o, ok := classifyPoll(st, reference); ok {
			a.apply(o)
			return
		}
		if count >= a.policy.MaxPolls {
			a.finish(failed(msgPollTimeout, reference), StatusFailed)
			return
		}
	}
}

// finish is the single way into TERMINAL. Only its first caller wins; it
// reports whether that was this call.
func (a *Attempt) finish(o outcome, status Status) bool {
	if !a.finished.CompareAndSwap(false, true) {
		return false
	}

	a.mu.Lock()
	reference := utils.FirstNonEmpty(o.reference, a.reference)
	res := Result{
		Status:        status,
		Message:       o.message,
		Reference:     reference,
		TransactionID: utils.FirstNonEmpty(o.transactionID, reference),
	}
	if res.TransactionID == "" {
		res.TransactionID = utils.GenerateTransactionID()
	}
	if o.kind == outcomeRedirect {
		res.Redirected = true
		res.RedirectURL = o.redirectURL
	} else {
		res.RedirectURL = a.session.opts.RedirectFor(status)
	}
	a.state = StateTerminal
	a.reference = reference
	a.result = &res
	a.mu.Unlock()

	a.cancel()

	stats := a.session.svc.stats
	if status == StatusSuccessful {
		stats.AttemptsSucceeded.Inc()
	} else {
		stats.AttemptsFailed.Inc()
	}
	a.timer.ObserveDuration()

	a.log.Info("payment finished",
		zap.String("status", string(res.Status)),
		zap.String("reference", res.Reference),
		zap.Bool("redirected", res.Redirected),
	)

	// Card redirects hand the payer over to the hosted page; the merchant
	// hears about those from FeexPay, not from us.
	if !res.Redirected {
		a.session.svc.notify(a, res)
	}

	close(a.done)
	return true
}

func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Attempt) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		State:     a.state,
		Status:    StatusPending,
		Reference: a.reference,
		PollCount: a.pollCount,
	}
	if a.strategy != nil {
		snap.Provider = a.strategy.name()
	}
	if a.result != nil {
		res := *a.result
		snap.Result = &res
		snap.Status = res.Status
	}
	return snap
}

// Done is closed after the attempt finished and its callback returned.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

func (a *Attempt) Wait(ctx context.Context) (Result, error) {
	select {
	case <-a.done:
		a.mu.Lock()
		defer a.mu.Unlock()
		return *a.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// SubmitOTP sends the code the payer received for a CORIS payment. An empty
// code is refused and the attempt keeps waiting.
func (a *Attempt) SubmitOTP(ctx context.Context, otp string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	otp = strings.TrimSpace(otp)

	a.mu.Lock()
	if a.finished.Load() {
		a.mu.Unlock()
		return ErrAttemptFinished
	}
	if a.state != StateAwaitingOTP {
		a.mu.Unlock()
		return ErrNotAwaitingOTP
	}
	if otp == "" {
		a.mu.Unlock()
		return ErrOTPRequired
	}
	req := a.otpReq
	req.Otp = otp
	a.state = StateSubmitting
	a.mu.Unlock()

	a.log.Info("submitting otp", zap.String("reference", req.Reference))
	a.apply(confirmOTP(a.ctx, a, req))
	return nil
}

// Cancel ends the attempt on the payer's behalf.
func (a *Attempt) Cancel() error {
	if !a.finish(failed(msgCancelled, ""), StatusFailed) {
		return ErrAttemptFinished
	}
	return nil
}

func (a *Attempt) phoneNumber() string {
	if a.strategy == nil {
		return utils.DigitsOnly(a.req.Phone)
	}
	return a.strategy.phoneNumber(a.req)
}
