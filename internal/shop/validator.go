package shop

import (
	"context"
	"strings"

	"feexpay-checkout/internal/logger"
	"feexpay-checkout/internal/payment"

	"go.uber.org/zap"
)

type Merchant struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
}

type Result struct {
	Valid    bool
	Merchant Merchant
}

// Validator checks merchant credentials before any checkout UI is offered.
type Validator struct {
	gateway payment.Gateway
}

func NewValidator(gateway payment.Gateway) *Validator {
	return &Validator{gateway: gateway}
}

// Validate never fails: any lookup problem means the shop is invalid.
func (v *Validator) Validate(ctx context.Context, shopID string) Result {
	if strings.TrimSpace(shopID) == "" {
		return Result{}
	}

	s, err := v.gateway.GetShop(ctx, shopID)
	if err != nil {
		logger.FromCtx(ctx).Warn("shop validation failed", zap.String("shop", shopID), zap.Error(err))
		return Result{}
	}

	return Result{
		Valid:    true,
		Merchant: Merchant{Name: s.Name, Reference: s.Reference},
	}
}
