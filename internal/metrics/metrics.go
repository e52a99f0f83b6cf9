package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "feexpay_checkout"

// Checkout counts what the payment flows did since the process started.
type Checkout struct {
	Sessions          prometheus.Counter
	InvalidShops      prometheus.Counter
	AttemptsStarted   prometheus.Counter
	AttemptsSucceeded prometheus.Counter
	AttemptsFailed    prometheus.Counter
	OTPPrompts        prometheus.Counter
	Polls             prometheus.Counter
	CallbacksFired    prometheus.Counter

	// AttemptDuration is observed once per attempt, submit to terminal.
	AttemptDuration prometheus.Histogram
}

// NewCheckout registers the checkout metrics on reg.
func NewCheckout(reg prometheus.Registerer) *Checkout {
	f := promauto.With(reg)
	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}

	return &Checkout{
		Sessions:          counter("sessions_total", "Checkout sessions opened"),
		InvalidShops:      counter("invalid_shops_total", "Session openings refused because the shop is unknown"),
		AttemptsStarted:   counter("attempts_started_total", "Payment attempts submitted by payers"),
		AttemptsSucceeded: counter("attempts_succeeded_total", "Payment attempts that ended SUCCESSFUL"),
		AttemptsFailed:    counter("attempts_failed_total", "Payment attempts that ended FAILED"),
		OTPPrompts:        counter("otp_prompts_total", "Attempts that waited for a wallet OTP"),
		Polls:             counter("polls_total", "Status checks sent to FeexPay"),
		CallbacksFired:    counter("callbacks_fired_total", "Merchant callbacks that returned normally"),
		AttemptDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempt_duration_seconds",
			Help:      "Time from submission to the terminal state",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 180},
		}),
	}
}

// StartAttempt returns a timer that feeds AttemptDuration.
func (c *Checkout) StartAttempt() *prometheus.Timer {
	return prometheus.NewTimer(c.AttemptDuration)
}

type Snapshot struct {
	Sessions          uint64  `json:"sessions"`
	InvalidShops      uint64  `json:"invalid_shops"`
	AttemptsStarted   uint64  `json:"attempts_started"`
	AttemptsSucceeded uint64  `json:"attempts_succeeded"`
	AttemptsFailed    uint64  `json:"attempts_failed"`
	OTPPrompts        uint64  `json:"otp_prompts"`
	Polls             uint64  `json:"polls"`
	CallbacksFired    uint64  `json:"callbacks_fired"`
	AvgAttemptMillis  float64 `json:"avg_attempt_ms"`
}

// Snapshot reads the current values back for the health endpoint.
func (c *Checkout) Snapshot() Snapshot {
	s := Snapshot{
		Sessions:          counterValue(c.Sessions),
		InvalidShops:      counterValue(c.InvalidShops),
		AttemptsStarted:   counterValue(c.AttemptsStarted),
		AttemptsSucceeded: counterValue(c.AttemptsSucceeded),
		AttemptsFailed:    counterValue(c.AttemptsFailed),
		OTPPrompts:        counterValue(c.OTPPrompts),
		Polls:             counterValue(c.Polls),
		CallbacksFired:    counterValue(c.CallbacksFired),
	}

	var m dto.Metric
	if err := c.AttemptDuration.Write(&m); err == nil {
		h := m.GetHistogram()
		if n := h.GetSampleCount(); n > 0 {
			s.AvgAttemptMillis = h.GetSampleSum() * 1000 / float64(n)
		}
	}
	return s
}

func counterValue(c prometheus.Counter) uint64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return uint64(m.GetCounter().GetValue())
}
