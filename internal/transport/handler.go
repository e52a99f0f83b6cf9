package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"feexpay-checkout/internal/auth"
	"feexpay-checkout/internal/catalog"
	"feexpay-checkout/internal/checkout"
	"feexpay-checkout/internal/logger"
	"feexpay-checkout/internal/metrics"
	"feexpay-checkout/internal/middleware"
	"feexpay-checkout/internal/payment"
	"feexpay-checkout/internal/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Checkout is the part of checkout.Service the HTTP layer needs.
type Checkout interface {
	Init(ctx context.Context, opts checkout.Options) (*checkout.Session, error)
	Stats() metrics.Snapshot
	Gatherer() prometheus.Gatherer
}

type Handler struct {
	checkout  Checkout
	issuer    *auth.Issuer
	sessions  *Registry
	forwarder *CallbackForwarder
	limiter   *middleware.RateLimiter
}

func NewHandler(c Checkout, issuer *auth.Issuer, sessions *Registry, forwarder *CallbackForwarder, limiter *middleware.RateLimiter) *Handler {
	return &Handler{
		checkout:  c,
		issuer:    issuer,
		sessions:  sessions,
		forwarder: forwarder,
		limiter:   limiter,
	}
}

// Routes wires the widget API:
//
//	POST   /v1/sessions          open a checkout for a shop
//	GET    /v1/catalog           countries and networks
//	POST   /v1/sessions/quote    fees for a selection
//	POST   /v1/sessions/pay      submit the payment form
//	POST   /v1/sessions/otp      confirm a CORIS payment
//	POST   /v1/sessions/cancel   abandon the running attempt
//	GET    /v1/sessions/attempt  attempt status
//	DELETE /v1/sessions          close the checkout
//	GET    /metrics              prometheus exposition
func (h *Handler) Routes() http.Handler {
	authed := middleware.SessionAuth(h.issuer)
	public := func(f http.HandlerFunc) http.Handler { return h.limit(f) }
	private := func(f http.HandlerFunc) http.Handler { return authed(h.limit(f)) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.checkout.Gatherer(), promhttp.HandlerOpts{}))
	mux.Handle("GET /v1/catalog", public(h.catalog))
	mux.Handle("POST /v1/sessions", public(h.openSession))
	mux.Handle("POST /v1/sessions/quote", private(h.quote))
	mux.Handle("POST /v1/sessions/pay", private(h.pay))
	mux.Handle("POST /v1/sessions/otp", private(h.submitOTP))
	mux.Handle("POST /v1/sessions/cancel", private(h.cancel))
	mux.Handle("GET /v1/sessions/attempt", private(h.attempt))
	mux.Handle("DELETE /v1/sessions", private(h.closeSession))

	return logger.RequestIDMiddleware(logger.LoggingMiddleware(mux))
}

// limit sits behind SessionAuth so authenticated callers are counted per
// session rather than per IP.
func (h *Handler) limit(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}
	return h.limiter.Middleware(next)
}

// openSessionRequest mirrors the widget's init options.
type openSessionRequest struct {
	ShopID           string       `json:"id"`
	Amount           payment.Code `json:"amount"`
	Currency         string       `json:"currency"`
	Token            string       `json:"token"`
	CallbackURL      string       `json:"callback_url"`
	ErrorCallbackURL string       `json:"error_callback_url"`
	Mode             string       `json:"mode"`
	CustomButton     bool         `json:"custom_button"`
	CustomButtonID   string       `json:"id_custom_button"`
	CustomID         string       `json:"custom_id"`
	Description      string       `json:"description"`
	Case             string       `json:"case"`
	FieldsToHide     []string     `json:"fields_to_hide"`
	CallbackInfo     interface{}  `json:"callback_info"`
}

type openSessionResponse struct {
	SessionID    string            `json:"session_id"`
	Token        string            `json:"token"`
	ExpiresAt    time.Time         `json:"expires_at"`
	Merchant     merchantResponse  `json:"merchant"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Mode         checkout.Mode     `json:"mode"`
	Case         checkout.Case     `json:"case"`
	FieldsToHide []string          `json:"fields_to_hide"`
	Countries    []countryResponse `json:"countries"`
}

type merchantResponse struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
}

type countryResponse struct {
	Name     string   `json:"name"`
	DialCode string   `json:"dial_code"`
	Networks []string `json:"networks"`
	Wallets  []string `json:"wallets,omitempty"`
}

type otpRequest struct {
	OTP string `json:"otp"`
}

// parseAmount accepts 1000, "1000" or "1000.75"; fractions are dropped.
func parseAmount(c payment.Code) (int64, error) {
	f, err := strconv.ParseFloat(string(c), 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		utils.WriteJSONError(w, "amount must be a number", http.StatusBadRequest)
		return
	}

	opts := checkout.Options{
		ShopID:           req.ShopID,
		Amount:           amount,
		Currency:         req.Currency,
		Token:            req.Token,
		CallbackURL:      req.CallbackURL,
		ErrorCallbackURL: req.ErrorCallbackURL,
		Mode:             checkout.Mode(req.Mode),
		CustomButton:     req.CustomButton,
		CustomButtonID:   req.CustomButtonID,
		CustomID:         req.CustomID,
		Description:      req.Description,
		Case:             checkout.Case(req.Case),
		FieldsToHide:     req.FieldsToHide,
		CallbackInfo:     req.CallbackInfo,
	}

	var sessionID string
	if h.forwarder != nil {
		opts.Callback = h.forwarder.callbackFor(ctx, func() string { return sessionID }, req.ShopID)
	}

	sess, err := h.checkout.Init(ctx, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	sessionID = sess.ID

	token, _, err := h.issuer.Issue(sess.ID, req.ShopID)
	if err != nil {
		logger.FromCtx(ctx).Error("issue session token", zap.Error(err))
		sess.Close()
		utils.WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}
	expires := h.sessions.Put(sess)

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/v1/sessions",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	eff := sess.Options()
	utils.WriteJSON(w, http.StatusCreated, openSessionResponse{
		SessionID:    sess.ID,
		Token:        token,
		ExpiresAt:    expires,
		Merchant:     merchantResponse{Name: sess.Merchant().Name, Reference: sess.Merchant().Reference},
		Amount:       eff.Amount,
		Currency:     eff.Currency,
		Mode:         eff.Mode,
		Case:         eff.Case,
		FieldsToHide: eff.FieldsToHide,
		Countries:    countries(),
	})
}

func countries() []countryResponse {
	list := catalog.Countries()
	out := make([]countryResponse, 0, len(list))
	for _, c := range list {
		cr := countryResponse{Name: c.Name, DialCode: c.DialCode}
		for _, n := range c.Networks {
			cr.Networks = append(cr.Networks, n.Name)
		}
		for _, n := range c.Wallets {
			cr.Wallets = append(cr.Wallets, n.Name)
		}
		out = append(out, cr)
	}
	return out
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"countries": countries()})
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var sel catalog.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	q, err := sess.Quote(r.Context(), sel)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req checkout.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	a, err := sess.Pay(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSnapshot(w, a.Snapshot())
}

func (h *Handler) submitOTP(w http.ResponseWriter, r *http.Request) {
	a, ok := h.activeAttempt(w, r)
	if !ok {
		return
	}

	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := a.SubmitOTP(r.Context(), req.OTP); err != nil {
		writeError(w, err)
		return
	}
	writeSnapshot(w, a.Snapshot())
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	a, ok := h.activeAttempt(w, r)
	if !ok {
		return
	}

	if err := a.Cancel(); err != nil {
		writeError(w, err)
		return
	}
	writeSnapshot(w, a.Snapshot())
}

func (h *Handler) attempt(w http.ResponseWriter, r *http.Request) {
	a, ok := h.activeAttempt(w, r)
	if !ok {
		return
	}
	writeSnapshot(w, a.Snapshot())
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	id, _ := utils.GetSessionIDFromContext(r.Context())
	h.sessions.Remove(id)

	http.SetCookie(w, &http.Cookie{Name: auth.SessionCookie, Path: "/v1/sessions", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": h.sessions.Len(),
		"stats":    h.checkout.Stats(),
	})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	id, _ := utils.GetSessionIDFromContext(r.Context())
	sess, ok := h.sessions.Get(id)
	if !ok {
		utils.WriteJSONError(w, "checkout session not found or expired", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (h *Handler) activeAttempt(w http.ResponseWriter, r *http.Request) (*checkout.Attempt, bool) {
	sess, ok := h.session(w, r)
	if !ok {
		return nil, false
	}
	a, err := sess.Active()
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return a, true
}

// writeSnapshot answers 202 while the attempt still runs.
func writeSnapshot(w http.ResponseWriter, snap checkout.Snapshot) {
	code := http.StatusOK
	if snap.State != checkout.StateTerminal {
		code = http.StatusAccepted
	}
	utils.WriteJSON(w, code, snap)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrInvalidShop):
		utils.WriteJSONError(w, checkout.CredentialErrorMessage, http.StatusForbidden)
	case errors.Is(err, checkout.ErrInvalidOptions),
		errors.Is(err, checkout.ErrOTPRequired):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, checkout.ErrMethodNotAllowed):
		utils.WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, checkout.ErrNoActiveAttempt):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, checkout.ErrAttemptInProgress),
		errors.Is(err, checkout.ErrNotAwaitingOTP),
		errors.Is(err, checkout.ErrAttemptFinished),
		errors.Is(err, checkout.ErrSessionClosed):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
	default:
		utils.WriteJSONError(w, "internal error", http.StatusInternalServerError)
	}
}
