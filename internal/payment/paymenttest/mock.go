// Package paymenttest holds a testify mock of payment.Gateway shared by the
// packages that sit on top of the FeexPay client.
package paymenttest

import (
	"context"

	"feexpay-checkout/internal/payment"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetShop(ctx context.Context, shopID string) (*payment.Shop, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Shop), args.Error(1)
}

func (m *MockGateway) TransactionDetails(ctx context.Context, req payment.DetailsRequest) (*payment.DetailsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.DetailsResponse), args.Error(1)
}

func (m *MockGateway) RequestToPay(ctx context.Context, token string, req payment.RequestToPay) (*payment.RequestToPayResponse, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.RequestToPayResponse), args.Error(1)
}

func (m *MockGateway) GetRequestToPay(ctx context.Context, token, reference string) (*payment.TransactionStatus, error) {
	args := m.Called(ctx, token, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.TransactionStatus), args.Error(1)
}

func (m *MockGateway) InitCard(ctx context.Context, token string, req payment.CardRequest) (*payment.CardResponse, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CardResponse), args.Error(1)
}
