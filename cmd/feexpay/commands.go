package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"feexpay-checkout/internal/catalog"
	"feexpay-checkout/internal/checkout"
	"feexpay-checkout/internal/config"
	"feexpay-checkout/internal/payment"

	"github.com/spf13/cobra"
)

// newGateway is swapped in tests.
var newGateway = func(cfg *config.Config, mode string) payment.Gateway {
	return payment.NewFeexPayGateway(payment.GatewayConfig{
		BaseURL:   cfg.BaseURL(strings.ToUpper(mode)),
		Timeout:   cfg.HTTPTimeout,
		RateLimit: cfg.APIRateLimit,
		RateBurst: cfg.APIRateBurst,
	})
}

func openSession(cmd *cobra.Command, cfg *config.Config, opts checkout.Options) (*checkout.Session, error) {
	mode, _ := cmd.Flags().GetString("mode")
	opts.Mode = checkout.Mode(mode)

	sess, err := checkout.NewService(newGateway(cfg, mode)).Init(cmd.Context(), opts)
	if errors.Is(err, checkout.ErrInvalidShop) {
		return nil, errors.New(checkout.CredentialErrorMessage)
	}
	return sess, err
}

func selectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("country", catalog.Benin, "Payer country")
	cmd.Flags().String("network", catalog.NetworkMTN, "Network or wallet provider")
	cmd.Flags().String("method", string(catalog.MethodMobile), "mobile, wallet or card")
}

func selection(cmd *cobra.Command) catalog.Selection {
	country, _ := cmd.Flags().GetString("country")
	network, _ := cmd.Flags().GetString("network")
	method, _ := cmd.Flags().GetString("method")
	return catalog.Selection{Country: country, Network: network, Method: catalog.Method(strings.ToLower(method))}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shopCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "shop [shop-id]",
		Short: "Check merchant credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, cfg, checkout.Options{ShopID: args[0], Amount: 1})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sess.Merchant())
		},
	}
}

func quoteCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote [shop-id] [amount]",
		Short: "Show the fee the payer would be charged",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			sess, err := openSession(cmd, cfg, checkout.Options{ShopID: args[0], Amount: amount})
			if err != nil {
				return err
			}

			q, err := sess.Quote(cmd.Context(), selection(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), q)
		},
	}
	selectionFlags(cmd)
	return cmd
}

func payCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay [shop-id] [amount]",
		Short: "Run a payment and wait for its outcome",
		Long: `Submit a payment and wait until it succeeds or fails.

CORIS payments ask for the OTP sent to the payer; it is read from stdin.
The merchant callback payload is printed once the payment is final.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			token, _ := flags.GetString("token")
			customID, _ := flags.GetString("custom-id")
			description, _ := flags.GetString("description")
			timeout, _ := flags.GetDuration("timeout")

			out := cmd.OutOrStdout()
			opts := checkout.Options{
				ShopID:      args[0],
				Amount:      amount,
				Token:       token,
				CustomID:    customID,
				Description: description,
				Callback: func(p checkout.CallbackPayload) {
					fmt.Fprintln(cmd.ErrOrStderr(), "merchant callback:")
					_ = printJSON(cmd.ErrOrStderr(), p)
				},
			}

			sess, err := openSession(cmd, cfg, opts)
			if err != nil {
				return err
			}
			defer sess.Close()

			req := checkout.PayRequest{Selection: selection(cmd)}
			req.Phone, _ = flags.GetString("phone")
			req.FullName, _ = flags.GetString("name")
			req.Email, _ = flags.GetString("email")
			req.OTP, _ = flags.GetString("otp")
			req.FirstName, _ = flags.GetString("first-name")
			req.LastName, _ = flags.GetString("last-name")
			req.CardType, _ = flags.GetString("card-type")

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			a, err := sess.Pay(ctx, req)
			if err != nil {
				return err
			}

			if a.State() == checkout.StateAwaitingOTP {
				if err := promptOTP(ctx, cmd, a); err != nil {
					_ = a.Cancel()
					return err
				}
			}

			res, err := a.Wait(ctx)
			if err != nil {
				_ = a.Cancel()
				return fmt.Errorf("payment still pending: %w", err)
			}
			return printJSON(out, res)
		},
	}

	selectionFlags(cmd)
	cmd.Flags().String("token", "", "Merchant API token")
	cmd.Flags().String("phone", "", "Payer phone number")
	cmd.Flags().String("name", "", "Payer full name")
	cmd.Flags().String("email", "", "Payer email")
	cmd.Flags().String("otp", "", "Orange Senegal OTP (#144#391#)")
	cmd.Flags().String("first-name", "", "Card holder first name")
	cmd.Flags().String("last-name", "", "Card holder last name")
	cmd.Flags().String("card-type", "VISA", "VISA or MASTERCARD")
	cmd.Flags().String("custom-id", "", "Merchant order id")
	cmd.Flags().String("description", "", "Payment description")
	cmd.Flags().Duration("timeout", 3*time.Minute, "Give up waiting after this long")

	return cmd
}

// promptOTP keeps asking until the attempt accepts a code.
func promptOTP(ctx context.Context, cmd *cobra.Command, a *checkout.Attempt) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(cmd.ErrOrStderr(), "OTP: ")
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return err
			}
			return errors.New("no OTP entered")
		}

		err := a.SubmitOTP(ctx, in.Text())
		if errors.Is(err, checkout.ErrOTPRequired) {
			continue
		}
		return err
	}
}

func countriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List supported countries and networks",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, c := range catalog.Countries() {
				names := make([]string, 0, len(c.Networks))
				for _, n := range c.Networks {
					names = append(names, n.Name)
				}
				fmt.Fprintf(w, "%-18s +%s  %s\n", c.Name, c.DialCode, strings.Join(names, ", "))
			}
			return nil
		},
	}
}

func parseAmount(s string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 1 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return int64(f), nil
}
