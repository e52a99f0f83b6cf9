package checkout

import (
	"fmt"
	"strings"

	"feexpay-checkout/internal/catalog"
)

type Mode string

const (
	ModeSandbox Mode = "SANDBOX"
	ModeLive    Mode = "LIVE"
)

// Case restricts the payment methods a checkout offers.
type Case string

const (
	CaseAll    Case = "ALL"
	CaseMobile Case = "MOBILE"
	CaseCard   Case = "CARD"
	CaseWallet Case = "WALLET"
)

const (
	FieldName  = "name"
	FieldEmail = "email"
)

const defaultCurrency = "XOF"

// CallbackFunc receives the terminal payload of a payment attempt.
type CallbackFunc func(CallbackPayload)

// Options configures one checkout session. A session keeps its own copy, so
// changing the value after Init has no effect.
type Options struct {
	ShopID           string
	Amount           int64
	Currency         string
	Token            string
	Callback         CallbackFunc
	CallbackURL      string
	ErrorCallbackURL string
	Mode             Mode
	CustomButton     bool
	CustomButtonID   string
	CustomID         string
	Description      string
	Case             Case
	FieldsToHide     []string
	CallbackInfo     interface{}
}

func (o Options) withDefaults() Options {
	o.ShopID = strings.TrimSpace(o.ShopID)
	if o.Currency == "" {
		o.Currency = defaultCurrency
	}

	o.Mode = Mode(strings.ToUpper(string(o.Mode)))
	if o.Mode != ModeLive {
		o.Mode = ModeSandbox
	}

	o.Case = Case(strings.ToUpper(string(o.Case)))
	switch o.Case {
	case CaseMobile, CaseCard, CaseWallet:
	default:
		o.Case = CaseAll
	}

	hidden := make([]string, 0, len(o.FieldsToHide))
	for _, f := range o.FieldsToHide {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == FieldName || f == FieldEmail {
			hidden = append(hidden, f)
		}
	}
	o.FieldsToHide = hidden

	return o
}

func (o Options) validate() error {
	if o.ShopID == "" {
		return fmt.Errorf("%w: shop id is required", ErrInvalidOptions)
	}
	if o.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidOptions)
	}
	return nil
}

// Hides reports whether a personal-information field is hidden from the payer.
func (o Options) Hides(field string) bool {
	for _, f := range o.FieldsToHide {
		if f == field {
			return true
		}
	}
	return false
}

func (o Options) Allows(m catalog.Method) bool {
	switch o.Case {
	case CaseMobile:
		return m == catalog.MethodMobile
	case CaseCard:
		return m == catalog.MethodCard
	case CaseWallet:
		return m == catalog.MethodWallet
	default:
		return m.Valid()
	}
}

// RedirectFor picks at most one merchant URL for a terminal status.
func (o Options) RedirectFor(status Status) string {
	switch status {
	case StatusSuccessful:
		return o.CallbackURL
	case StatusFailed:
		return o.ErrorCallbackURL
	}
	return ""
}

func (o Options) clone() Options {
	c := o
	c.FieldsToHide = append([]string(nil), o.FieldsToHide...)
	return c
}
