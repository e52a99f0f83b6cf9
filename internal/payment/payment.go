// internal/payment/payment.go
package payment

import (
	"context"
)

// Gateway is the FeexPay REST API as seen by the checkout.
type Gateway interface {
	GetShop(ctx context.Context, shopID string) (*Shop, error)
	TransactionDetails(ctx context.Context, req DetailsRequest) (*DetailsResponse, error)
	RequestToPay(ctx context.Context, token string, req RequestToPay) (*RequestToPayResponse, error)
	GetRequestToPay(ctx context.Context, token, reference string) (*TransactionStatus, error)
	InitCard(ctx context.Context, token string, req CardRequest) (*CardResponse, error)
}
