package checkout

import "errors"

var (
	ErrInvalidOptions    = errors.New("invalid checkout options")
	ErrInvalidShop       = errors.New("invalid shop credentials")
	ErrMethodNotAllowed  = errors.New("payment method not allowed for this checkout")
	ErrAttemptInProgress = errors.New("a payment attempt is already in progress")
	ErrNoActiveAttempt   = errors.New("no active payment attempt")
	ErrNotAwaitingOTP    = errors.New("payment attempt is not waiting for an OTP")
	ErrOTPRequired       = errors.New("otp is required")
	ErrAttemptFinished   = errors.New("payment attempt already finished")
	ErrSessionClosed     = errors.New("checkout session closed")
)
