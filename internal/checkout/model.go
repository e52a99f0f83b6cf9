package checkout

import (
	"feexpay-checkout/internal/catalog"
	"feexpay-checkout/internal/payment"
)

type State string

const (
	StateIdle        State = "IDLE"
	StateSubmitting  State = "SUBMITTING"
	StateAwaitingOTP State = "AWAITING_OTP"
	StatePolling     State = "POLLING"
	StateTerminal    State = "TERMINAL"
)

type Status string

const (
	StatusPending    Status = payment.StatusPending
	StatusSuccessful Status = payment.StatusSuccessful
	StatusFailed     Status = payment.StatusFailed
	StatusCancelled  Status = payment.StatusCancelled
)

// Selection is the country, network and method the payer picked.
type Selection = catalog.Selection

// PayRequest carries what the payer typed. Card payments use FirstName,
// LastName and CardType; the other rails use FullName.
type PayRequest struct {
	catalog.Selection
	Phone     string `json:"phone"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	OTP       string `json:"otp"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CardType  string `json:"card_type"`
}

type Result struct {
	Status        Status `json:"status"`
	Message       string `json:"message"`
	Reference     string `json:"reference,omitempty"`
	TransactionID string `json:"transaction_id"`
	// RedirectURL is either the merchant URL matching Status or, when
	// Redirected is set, the hosted card payment page.
	RedirectURL string `json:"redirect_url,omitempty"`
	Redirected  bool   `json:"redirected"`
}

// CallbackPayload is what the merchant callback receives.
type CallbackPayload struct {
	Status        Status      `json:"status"`
	Message       string      `json:"message,omitempty"`
	Reference     string      `json:"reference"`
	TransactionID string      `json:"transaction_id"`
	Amount        int64       `json:"amount"`
	CustomID      string      `json:"custom_id"`
	Description   string      `json:"description"`
	Network       string      `json:"reseau"`
	Method        string      `json:"method"`
	Provider      string      `json:"provider"`
	CallbackInfo  interface{} `json:"callback_info"`
	FullName      string      `json:"fullName"`
	Email         string      `json:"email"`
	PhoneNumber   string      `json:"phoneNumber"`
}

// Snapshot is a point-in-time view of an attempt.
type Snapshot struct {
	State     State   `json:"state"`
	Status    Status  `json:"status"`
	Provider  string  `json:"provider"`
	Reference string  `json:"reference,omitempty"`
	PollCount int     `json:"poll_count"`
	Result    *Result `json:"result,omitempty"`
}
