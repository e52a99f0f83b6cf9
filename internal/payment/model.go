package payment

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Code is a status field the API sends either as a string ("SUCCESSFUL",
// "92") or as a bare number (200, 202).
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Code(n.String())
	return nil
}

// Is compares case-insensitively, so "successful" and "SUCCESSFUL" match.
func (c Code) Is(values ...string) bool {
	for _, v := range values {
		if strings.EqualFold(string(c), v) {
			return true
		}
	}
	return false
}

const (
	StatusPending    = "PENDING"
	StatusSuccessful = "SUCCESSFUL"
	StatusFailed     = "FAILED"
	StatusCancelled  = "CANCELLED"
)

const (
	CodeUSSDExpired         = "92"
	CodeInsufficientBalance = "10"
)

const (
	ReasonLowBalance    = "LOW_BALANCE_OR_PAYEE_LIMIT_REACHED_OR_NOT_ALLOWED"
	ReasonPayerNotFound = "PAYER_NOT_FOUND"
)

type Shop struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
}

type DetailsRequest struct {
	Amount int64  `json:"amount"`
	Reseau string `json:"reseau"`
	Shop   string `json:"shop"`
}

type DetailsResponse struct {
	IfFees bool `json:"iffees"`
}

type CallbackInfo struct {
	CustomID    string `json:"custom_id"`
	Description string `json:"description"`
}

// RequestToPay is the body of the payment-initiation endpoint, shared by
// mobile money and wallets. The OTP round of a CORIS payment resends it with
// Otp and Reference filled in.
type RequestToPay struct {
	Amount           int64         `json:"amount"`
	PhoneNumber      string        `json:"phoneNumber"`
	Shop             string        `json:"shop"`
	Country          string        `json:"country"`
	PhoneNumberRight string        `json:"phoneNumberRight"`
	Currency         string        `json:"currency"`
	Description      string        `json:"description"`
	Email            string        `json:"email"`
	FirstName        string        `json:"first_name"`
	Otp              string        `json:"otp"`
	Reseau           string        `json:"reseau"`
	Token            string        `json:"token"`
	CallbackInfo     *CallbackInfo `json:"callback_info,omitempty"`
	Reference        string        `json:"reference,omitempty"`
}

type RequestToPayResponse struct {
	// HTTPStatus is not part of the body; CORIS signals "OTP needed" with 201.
	HTTPStatus    int    `json:"-"`
	Reference     string `json:"reference"`
	Status        Code   `json:"status"`
	StatusCode    Code   `json:"statusCode"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}

type TransactionStatus struct {
	Status        Code   `json:"status"`
	Reason        string `json:"reason"`
	Reference     string `json:"reference"`
	TransactionID string `json:"transactionId"`
}

type CardRequest struct {
	Amount    int64  `json:"amount"`
	Phone     string `json:"phone"`
	Shop      string `json:"shop"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	TypeCard  string `json:"type_card"`
	Currency  string `json:"currency"`
}

type CardResponse struct {
	Status    Code   `json:"status"`
	URL       string `json:"url"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
}
