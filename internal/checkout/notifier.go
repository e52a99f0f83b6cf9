package checkout

import (
	"fmt"

	"go.uber.org/zap"
)

func (s *Service) notify(a *Attempt, res Result) {
	opts := a.session.opts
	if opts.Callback == nil {
		return
	}

	payload := CallbackPayload{
		Status:        res.Status,
		Message:       res.Message,
		Reference:     res.Reference,
		TransactionID: res.TransactionID,
		Amount:        opts.Amount,
		CustomID:      opts.CustomID,
		Description:   opts.Description,
		Network:       a.req.Network,
		Method:        string(a.req.Method),
		CallbackInfo:  opts.CallbackInfo,
		PhoneNumber:   a.phoneNumber(),
	}
	if a.strategy != nil {
		payload.Provider = a.strategy.name()
	}
	if !opts.Hides(FieldName) {
		payload.FullName = a.req.FullName
		if payload.FullName == "" {
			payload.FullName = joinName(a.req.FirstName, a.req.LastName)
		}
	}
	if !opts.Hides(FieldEmail) {
		payload.Email = a.req.Email
	}

	if err := s.invoke(opts.Callback, payload); err != nil {
		a.log.Error("merchant callback failed", zap.Error(err))
		return
	}
	s.stats.CallbacksFired.Inc()
}

// invoke shields the attempt from a panicking merchant callback.
func (s *Service) invoke(cb CallbackFunc, payload CallbackPayload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panicked: %v", r)
		}
	}()
	cb(payload)
	return nil
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
