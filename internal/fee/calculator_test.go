package fee

import (
	"context"
	"errors"
	"testing"

	"feexpay-checkout/internal/catalog"
	"feexpay-checkout/internal/payment"
	"feexpay-checkout/internal/payment/paymenttest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		rate    string
		applies bool
		fee     int64
		total   int64
	}{
		{"Benin MTN 1000", 1000, "0.017", true, 17, 1017},
		{"Rounds up fractions", 1001, "0.017", true, 18, 1019},
		{"Card 4.5%", 5000, "0.045", true, 225, 5225},
		{"Card rounds up", 333, "0.045", true, 15, 348},
		{"Burkina Orange", 2500, "0.039", true, 98, 2598},
		{"Tiny amount still pays one unit", 1, "0.017", true, 1, 2},
		{"Fees off", 1000, "0.017", false, 0, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Compute(tt.amount, decimal.RequireFromString(tt.rate), tt.applies)
			assert.Equal(t, tt.amount, q.BaseAmount)
			assert.Equal(t, tt.fee, q.FeeAmount)
			assert.Equal(t, tt.total, q.TotalAmount)
			assert.Equal(t, tt.applies, q.FeeApplies)
		})
	}
}

func TestCompute_CeilProperty(t *testing.T) {
	rates := []string{"0.017", "0.019", "0.022", "0.029", "0.03", "0.032", "0.039", "0.045"}
	for _, r := range rates {
		rate := decimal.RequireFromString(r)
		for amount := int64(1); amount <= 5000; amount += 7 {
			q := Compute(amount, rate, true)

			exact := decimal.NewFromInt(amount).Mul(rate)
			fee := decimal.NewFromInt(q.FeeAmount)
			assert.True(t, fee.GreaterThanOrEqual(exact), "rate %s amount %d", r, amount)
			assert.True(t, fee.Sub(exact).LessThan(decimal.NewFromInt(1)), "rate %s amount %d", r, amount)
			assert.Equal(t, amount+q.FeeAmount, q.TotalAmount)
		}
	}
}

func TestCalculator_Quote(t *testing.T) {
	ctx := context.Background()
	sel := catalog.Selection{Country: catalog.Benin, Network: catalog.NetworkMTN, Method: catalog.MethodMobile}

	t.Run("Fees apply", func(t *testing.T) {
		gw := new(paymenttest.MockGateway)
		gw.On("TransactionDetails", mock.Anything, payment.DetailsRequest{Amount: 1000, Reseau: "MTN", Shop: "shop-1"}).
			Return(&payment.DetailsResponse{IfFees: true}, nil)

		q := NewCalculator(gw).Quote(ctx, "shop-1", 1000, sel)

		assert.True(t, q.FeeApplies)
		assert.Equal(t, int64(17), q.FeeAmount)
		assert.Equal(t, int64(1017), q.TotalAmount)
		gw.AssertExpectations(t)
	})

	t.Run("Fees absorbed by merchant", func(t *testing.T) {
		gw := new(paymenttest.MockGateway)
		gw.On("TransactionDetails", mock.Anything, mock.Anything).Return(&payment.DetailsResponse{IfFees: false}, nil)

		q := NewCalculator(gw).Quote(ctx, "shop-1", 1000, sel)

		assert.False(t, q.FeeApplies)
		assert.Equal(t, int64(1000), q.TotalAmount)
	})

	t.Run("Lookup failure shows base amount", func(t *testing.T) {
		gw := new(paymenttest.MockGateway)
		gw.On("TransactionDetails", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

		q := NewCalculator(gw).Quote(ctx, "shop-1", 1000, sel)

		assert.False(t, q.FeeApplies)
		assert.Equal(t, int64(0), q.FeeAmount)
		assert.Equal(t, int64(1000), q.TotalAmount)
	})

	t.Run("Card uses CARD reseau", func(t *testing.T) {
		gw := new(paymenttest.MockGateway)
		gw.On("TransactionDetails", mock.Anything, payment.DetailsRequest{Amount: 5000, Reseau: "CARD", Shop: "shop-1"}).
			Return(&payment.DetailsResponse{IfFees: true}, nil)

		q := NewCalculator(gw).Quote(ctx, "shop-1", 5000, catalog.Selection{Method: catalog.MethodCard})

		assert.Equal(t, int64(225), q.FeeAmount)
		gw.AssertExpectations(t)
	})
}
