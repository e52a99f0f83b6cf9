package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"feexpay-checkout/internal/config"
	"feexpay-checkout/internal/logger"
	"feexpay-checkout/internal/payment"
	"feexpay-checkout/internal/payment/paymenttest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func withGateway(t *testing.T, gw payment.Gateway) {
	t.Helper()
	logger.Set(zap.NewNop())
	orig := newGateway
	newGateway = func(*config.Config, string) payment.Gateway { return gw }
	t.Cleanup(func() { newGateway = orig })
}

func run(t *testing.T, stdin string, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	root := &cobra.Command{Use: "feexpay", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String("mode", "SANDBOX", "")
	root.AddCommand(cmd)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestShopCmd(t *testing.T) {
	t.Run("Known shop", func(t *testing.T) {
		gw := new(paymenttest.MockGateway)
		gw.On("GetShop", mock.Anything, "shop-1").Return(&payment.Shop{Name: "Boutique", Reference: "REF"}, nil)
		withGateway(t, gw)

		out, _, err := run(t, "", shopCmd(&config.Config{}), "shop", "shop-1")

		require.NoError(t, err)
		assert.Contains(t, out, `"name": "Boutique"`)
	})

	t.Run("Unknown shop", func(t *testing.T) {
		gw := new(paymenttest.MockGateway)
		gw.On("GetShop", mock.Anything, "nope").Return(nil, payment.ErrShopNotFound)
		withGateway(t, gw)

		_, _, err := run(t, "", shopCmd(&config.Config{}), "shop", "nope")

		assert.EqualError(t, err, "Vos identifiants d'intégration sont incorrects. Merci d'utiliser la clé adéquate à votre environnement (live ou sandbox) actuel")
	})
}

func TestQuoteCmd(t *testing.T) {
	gw := new(paymenttest.MockGateway)
	gw.On("GetShop", mock.Anything, "shop-1").Return(&payment.Shop{Name: "Boutique"}, nil)
	gw.On("TransactionDetails", mock.Anything, payment.DetailsRequest{Amount: 1000, Reseau: "MTN", Shop: "shop-1"}).
		Return(&payment.DetailsResponse{IfFees: true}, nil)
	withGateway(t, gw)

	out, _, err := run(t, "", quoteCmd(&config.Config{}), "quote", "shop-1", "1000", "--country", "Benin", "--network", "MTN")

	require.NoError(t, err)
	var q map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Equal(t, float64(1017), q["total_amount"])
}

func TestPayCmd_CorisOTPFromStdin(t *testing.T) {
	gw := new(paymenttest.MockGateway)
	gw.On("GetShop", mock.Anything, "shop-1").Return(&payment.Shop{Name: "Boutique"}, nil)
	gw.On("RequestToPay", mock.Anything, "tok", mock.MatchedBy(func(r payment.RequestToPay) bool { return r.Otp == "" })).
		Return(&payment.RequestToPayResponse{HTTPStatus: http.StatusCreated, Reference: "C-1"}, nil).Once()
	gw.On("RequestToPay", mock.Anything, "tok", mock.MatchedBy(func(r payment.RequestToPay) bool { return r.Otp == "9876" })).
		Return(&payment.RequestToPayResponse{Status: "SUCCESSFUL"}, nil).Once()
	withGateway(t, gw)

	out, errOut, err := run(t, "\n9876\n", payCmd(&config.Config{}),
		"pay", "shop-1", "5000",
		"--token", "tok",
		"--country", "Benin", "--network", "CORIS", "--method", "wallet",
		"--phone", "97000000", "--name", "Ama Koffi", "--email", "ama@koffi.bj",
	)

	require.NoError(t, err)
	assert.Contains(t, out, `"status": "SUCCESSFUL"`)
	assert.Contains(t, errOut, "OTP: OTP: ")
	assert.Contains(t, errOut, "merchant callback:")
	gw.AssertExpectations(t)
}

func TestPayCmd_FormError(t *testing.T) {
	gw := new(paymenttest.MockGateway)
	gw.On("GetShop", mock.Anything, "shop-1").Return(&payment.Shop{Name: "Boutique"}, nil)
	withGateway(t, gw)

	out, _, err := run(t, "", payCmd(&config.Config{}), "pay", "shop-1", "5000", "--country", "Benin", "--network", "MTN")

	require.NoError(t, err)
	assert.Contains(t, out, `"status": "FAILED"`)
	assert.Contains(t, out, "Veuillez entrer votre numéro de téléphone")
	gw.AssertNotCalled(t, "RequestToPay", mock.Anything, mock.Anything, mock.Anything)
}

func TestParseAmount(t *testing.T) {
	n, err := parseAmount("1500.5")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), n)

	_, err = parseAmount("0")
	assert.Error(t, err)
	_, err = parseAmount("ten")
	assert.Error(t, err)
}
