package checkout

import (
	"context"
	"net/http"
	"strings"
	"time"

	"feexpay-checkout/internal/catalog"
	"feexpay-checkout/internal/payment"
	"feexpay-checkout/internal/utils"
)

// PollFamily groups providers sharing a polling cadence.
type PollFamily string

const (
	PollStandard PollFamily = "standard"
	PollWave     PollFamily = "wave"
)

type PollPolicy struct {
	Interval time.Duration
	MaxPolls int
}

// Both families give up after two minutes.
var defaultPollPolicies = map[PollFamily]PollPolicy{
	PollStandard: {Interval: 20 * time.Second, MaxPolls: 6},
	PollWave:     {Interval: 5 * time.Second, MaxPolls: 24},
}

type outcomeKind int

const (
	outcomeFail outcomeKind = iota
	outcomeSuccess
	outcomePoll
	outcomeOTP
	outcomeRedirect
)

type outcome struct {
	kind          outcomeKind
	message       string
	reference     string
	transactionID string
	redirectURL   string
}

func failed(message, reference string) outcome {
	return outcome{kind: outcomeFail, message: message, reference: reference}
}

func succeeded(message, reference, transactionID string) outcome {
	return outcome{kind: outcomeSuccess, message: message, reference: reference, transactionID: transactionID}
}

// strategy is one provider-specific way of submitting a payment.
type strategy interface {
	name() string
	pollFamily() PollFamily
	// validate returns the payer-facing message for the first missing field.
	validate(opts Options, req PayRequest) string
	phoneNumber(req PayRequest) string
	submit(ctx context.Context, a *Attempt) outcome
}

type providerKey struct {
	country string
	network string
}

// providers overrides the per-method default for (country, network) pairs
// with their own flow, whichever method the payer picked them under.
var providers = map[providerKey]func() strategy{
	{catalog.Benin, catalog.NetworkCoris}:      func() strategy { return corisStrategy{} },
	{catalog.CoteDIvoire, catalog.NetworkWave}: func() strategy { return waveStrategy{} },
}

func resolveStrategy(sel catalog.Selection) (strategy, string) {
	if sel.Method == catalog.MethodCard {
		return cardStrategy{}, ""
	}

	country, ok := catalog.LookupCountry(sel.Country)
	if !ok {
		if sel.Method == catalog.MethodWallet {
			return nil, msgWalletUnsupported
		}
		return nil, msgCountryUnsupported
	}

	if build, ok := providers[providerKey{country.Name, strings.ToUpper(sel.Network)}]; ok {
		return build(), ""
	}

	switch sel.Method {
	case catalog.MethodWallet:
		return nil, msgWalletUnsupported
	case catalog.MethodMobile:
		network, ok := country.Network(sel.Network)
		if !ok {
			return nil, msgNetworkUnsupported
		}
		return mobileStrategy{country: country, network: network}, ""
	}
	return nil, msgMethodNotAllowed
}

func validatePersonal(opts Options, req PayRequest) string {
	if strings.TrimSpace(req.Phone) == "" {
		return msgPhoneRequired
	}
	if !opts.Hides(FieldEmail) && strings.TrimSpace(req.Email) == "" {
		return msgEmailRequired
	}
	if !opts.Hides(FieldName) && strings.TrimSpace(req.FullName) == "" {
		return msgNameRequired
	}
	return ""
}

// personal returns name and email, blanked when the merchant hides them.
func personal(opts Options, req PayRequest) (name, email string) {
	if !opts.Hides(FieldName) {
		name = strings.TrimSpace(req.FullName)
	}
	if !opts.Hides(FieldEmail) {
		email = strings.TrimSpace(req.Email)
	}
	return name, email
}

// classifyInitiation maps a mobile-money or WAVE initiation response.
func classifyInitiation(resp *payment.RequestToPayResponse, fallback string) outcome {
	switch {
	case resp.Reference != "" && (resp.Status == "" || resp.Status.Is(payment.StatusPending, "202")):
		return outcome{kind: outcomePoll, reference: resp.Reference}
	case resp.Status.Is(payment.StatusSuccessful):
		return succeeded(msgPaymentSuccess, resp.Reference, resp.TransactionID)
	case resp.StatusCode.Is(payment.CodeUSSDExpired):
		return failed(msgUSSDExpired, resp.Reference)
	case resp.StatusCode.Is(payment.CodeInsufficientBalance):
		return failed(msgInsufficientBalance, resp.Reference)
	default:
		return failed(utils.FirstNonEmpty(resp.Message, fallback), resp.Reference)
	}
}

// classifyPoll reports the terminal outcome of a status check, if any.
func classifyPoll(st *payment.TransactionStatus, reference string) (outcome, bool) {
	switch {
	case st.Status.Is(payment.StatusSuccessful):
		return succeeded(msgPaymentSuccess, utils.FirstNonEmpty(st.Reference, reference), st.TransactionID), true
	case st.Reason == payment.ReasonLowBalance:
		return failed(msgInsufficientBalance, reference), true
	case st.Reason == payment.ReasonPayerNotFound:
		return failed(msgPayerNotFound, reference), true
	case st.Status.Is(payment.StatusFailed, payment.StatusCancelled):
		return failed(msgPaymentFailed, reference), true
	}
	return outcome{}, false
}

// ----------------- mobile money -----------------

type mobileStrategy struct {
	country catalog.Country
	network catalog.Network
}

func (s mobileStrategy) name() string           { return "mobile:" + strings.ToLower(s.network.Name) }
func (s mobileStrategy) pollFamily() PollFamily { return PollStandard }

func (s mobileStrategy) validate(opts Options, req PayRequest) string {
	if msg := validatePersonal(opts, req); msg != "" {
		return msg
	}
	if catalog.RequiresUpfrontOTP(req.Selection) && strings.TrimSpace(req.OTP) == "" {
		return msgOrangeOTPRequired
	}
	return ""
}

func (s mobileStrategy) phoneNumber(req PayRequest) string {
	return utils.NormalizePhone(s.country.DialCode, req.Phone)
}

func (s mobileStrategy) submit(ctx context.Context, a *Attempt) outcome {
	opts := a.session.opts
	name, email := personal(opts, a.req)

	otp := ""
	if catalog.RequiresUpfrontOTP(a.req.Selection) {
		otp = strings.TrimSpace(a.req.OTP)
	}

	resp, err := a.session.gateway.RequestToPay(ctx, opts.Token, payment.RequestToPay{
		Amount:           opts.Amount,
		PhoneNumber:      s.phoneNumber(a.req),
		Shop:             opts.ShopID,
		Country:          s.country.DialCode,
		PhoneNumberRight: a.req.Phone,
		Currency:         opts.Currency,
		Description:      opts.Description,
		Email:            email,
		FirstName:        name,
		Otp:              otp,
		Reseau:           strings.ToUpper(s.network.APIID),
		Token:            opts.Token,
		CallbackInfo: &payment.CallbackInfo{
			CustomID:    opts.CustomID,
			Description: opts.Description,
		},
	})
	if err != nil {
		return failed(msgGenericFailure, "")
	}

	return classifyInitiation(resp, msgGenericFailure)
}

// ----------------- CORIS wallet (Benin) -----------------

type corisStrategy struct{}

const corisDialCode = "229"

func (corisStrategy) name() string           { return "wallet:coris" }
func (corisStrategy) pollFamily() PollFamily { return PollStandard }

func (corisStrategy) validate(opts Options, req PayRequest) string {
	return validatePersonal(opts, req)
}

func (corisStrategy) phoneNumber(req PayRequest) string {
	return utils.NormalizePhone(corisDialCode, req.Phone)
}

func (s corisStrategy) submit(ctx context.Context, a *Attempt) outcome {
	opts := a.session.opts
	name, email := personal(opts, a.req)
	national := utils.NationalNumber(corisDialCode, a.req.Phone)

	req := payment.RequestToPay{
		Amount:           opts.Amount,
		PhoneNumber:      corisDialCode + national,
		Shop:             opts.ShopID,
		Country:          corisDialCode,
		PhoneNumberRight: utils.LocalPhone(national),
		Currency:         opts.Currency,
		Description:      utils.FirstNonEmpty(opts.Description, defaultPaymentDescription),
		Email:            email,
		FirstName:        name,
		Reseau:           catalog.NetworkCoris,
		Token:            opts.Token,
	}

	resp, err := a.session.gateway.RequestToPay(ctx, opts.Token, req)
	if err != nil {
		return failed(msgCorisFailure, "")
	}

	switch {
	case resp.HTTPStatus == http.StatusCreated:
		req.Reference = resp.Reference
		a.setOTPRequest(req)
		return outcome{kind: outcomeOTP, reference: resp.Reference}
	case resp.HTTPStatus == http.StatusOK || resp.Status.Is(payment.StatusSuccessful):
		return succeeded(utils.FirstNonEmpty(resp.Message, msgPaymentSuccess), resp.Reference, resp.TransactionID)
	default:
		return failed(utils.FirstNonEmpty(resp.Message, msgCorisFailure), resp.Reference)
	}
}

// confirmOTP replays the CORIS initiation with the payer's code.
func confirmOTP(ctx context.Context, a *Attempt, req payment.RequestToPay) outcome {
	resp, err := a.session.gateway.RequestToPay(ctx, a.session.opts.Token, req)
	if err != nil {
		return failed(msgOTPFailure, req.Reference)
	}

	reference := utils.FirstNonEmpty(resp.Reference, req.Reference)
	if resp.Status.Is(payment.StatusSuccessful) || strings.Contains(strings.ToLower(resp.Message), "succ") {
		return succeeded(utils.FirstNonEmpty(resp.Message, msgPaymentSuccess), reference, resp.TransactionID)
	}
	return failed(utils.FirstNonEmpty(resp.Message, msgOTPFailure), reference)
}

// ----------------- WAVE (Côte d'Ivoire) -----------------

type waveStrategy struct{}

const waveDialCode = "225"

func (waveStrategy) name() string           { return "wallet:wave_ci" }
func (waveStrategy) pollFamily() PollFamily { return PollWave }

func (waveStrategy) validate(opts Options, req PayRequest) string {
	return validatePersonal(opts, req)
}

func (waveStrategy) national(req PayRequest) string {
	return strings.TrimPrefix(utils.NationalNumber(waveDialCode, req.Phone), "0")
}

func (s waveStrategy) phoneNumber(req PayRequest) string {
	return waveDialCode + s.national(req)
}

func (s waveStrategy) submit(ctx context.Context, a *Attempt) outcome {
	opts := a.session.opts
	name, email := personal(opts, a.req)
	national := s.national(a.req)
	description := utils.FirstNonEmpty(opts.Description, defaultPaymentDescription)

	resp, err := a.session.gateway.RequestToPay(ctx, opts.Token, payment.RequestToPay{
		Amount:           opts.Amount,
		PhoneNumber:      waveDialCode + national,
		Shop:             opts.ShopID,
		Country:          waveDialCode,
		PhoneNumberRight: utils.LocalPhone(national),
		Currency:         opts.Currency,
		Description:      description,
		Email:            email,
		FirstName:        name,
		Reseau:           "WAVE_CI",
		Token:            opts.Token,
		CallbackInfo: &payment.CallbackInfo{
			CustomID:    opts.CustomID,
			Description: description,
		},
	})
	if err != nil {
		return failed(msgWaveFailure, "")
	}

	// No reference means WAVE did not find the payer's account.
	if resp.Reference == "" {
		return failed(msgPayerNotFound, "")
	}
	if resp.Status.Is(payment.StatusSuccessful) {
		return succeeded(msgPaymentSuccess, resp.Reference, resp.TransactionID)
	}
	return outcome{kind: outcomePoll, reference: resp.Reference}
}

// ----------------- card -----------------

type cardStrategy struct{}

var cardTypes = []string{"VISA", "MASTERCARD"}

func (cardStrategy) name() string           { return "card" }
func (cardStrategy) pollFamily() PollFamily { return PollStandard }

func (cardStrategy) validate(opts Options, req PayRequest) string {
	switch {
	case strings.TrimSpace(req.FirstName) == "":
		return msgFirstNameRequired
	case strings.TrimSpace(req.LastName) == "":
		return msgNameRequired
	case strings.TrimSpace(req.Email) == "":
		return msgEmailRequired
	case strings.TrimSpace(req.Phone) == "":
		return msgPhoneRequired
	}

	if req.CardType != "" {
		for _, t := range cardTypes {
			if strings.EqualFold(t, req.CardType) {
				return ""
			}
		}
		return msgCardTypeUnsupported
	}
	return ""
}

func (cardStrategy) phoneNumber(req PayRequest) string {
	return utils.DigitsOnly(req.Phone)
}

func (s cardStrategy) submit(ctx context.Context, a *Attempt) outcome {
	opts := a.session.opts
	cardType := strings.ToUpper(utils.FirstNonEmpty(a.req.CardType, cardTypes[0]))

	resp, err := a.session.gateway.InitCard(ctx, opts.Token, payment.CardRequest{
		Amount:    opts.Amount,
		Phone:     s.phoneNumber(a.req),
		Shop:      opts.ShopID,
		FirstName: strings.TrimSpace(a.req.FirstName),
		LastName:  strings.TrimSpace(a.req.LastName),
		Email:     strings.TrimSpace(a.req.Email),
		TypeCard:  cardType,
		Currency:  opts.Currency,
	})
	if err != nil {
		return failed(msgCardFailure, "")
	}

	if !resp.Status.Is(payment.StatusSuccessful, "200") {
		return failed(utils.FirstNonEmpty(resp.Message, msgCardFailure), resp.Reference)
	}
	if resp.URL != "" {
		return outcome{kind: outcomeRedirect, message: msgCardInitiated, reference: resp.Reference, redirectURL: resp.URL}
	}
	return succeeded(utils.FirstNonEmpty(resp.Message, msgCardInitiated), resp.Reference, "")
}
