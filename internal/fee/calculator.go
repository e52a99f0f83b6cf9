package fee

import (
	"context"

	"feexpay-checkout/internal/catalog"
	"feexpay-checkout/internal/logger"
	"feexpay-checkout/internal/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Quote is always derived from the current selection; nothing is cached.
type Quote struct {
	BaseAmount  int64           `json:"base_amount"`
	FeeRate     decimal.Decimal `json:"fee_rate"`
	FeeApplies  bool            `json:"fee_applies"`
	FeeAmount   int64           `json:"fee_amount"`
	TotalAmount int64           `json:"total_amount"`
}

// Compute rounds the fee up to the next whole unit: fee = ceil(amount × rate).
func Compute(amount int64, rate decimal.Decimal, applies bool) Quote {
	q := Quote{
		BaseAmount:  amount,
		FeeRate:     rate,
		FeeApplies:  applies,
		TotalAmount: amount,
	}
	if !applies {
		return q
	}

	q.FeeAmount = decimal.NewFromInt(amount).Mul(rate).Ceil().IntPart()
	q.TotalAmount = amount + q.FeeAmount
	return q
}

type Calculator struct {
	gateway payment.Gateway
}

func NewCalculator(gateway payment.Gateway) *Calculator {
	return &Calculator{gateway: gateway}
}

// Quote asks the API whether the shop passes fees on to the payer. When the
// lookup fails the payer is shown the base amount: fees are assumed off.
func (c *Calculator) Quote(ctx context.Context, shopID string, amount int64, sel catalog.Selection) Quote {
	rate := catalog.FeeRate(sel)

	details, err := c.gateway.TransactionDetails(ctx, payment.DetailsRequest{
		Amount: amount,
		Reseau: catalog.FeeNetwork(sel),
		Shop:   shopID,
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("fee lookup failed, showing amount without fees",
			zap.String("country", sel.Country),
			zap.String("network", sel.Network),
			zap.Error(err),
		)
		return Compute(amount, rate, false)
	}

	return Compute(amount, rate, details.IfFees)
}
