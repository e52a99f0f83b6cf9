package main

import (
	"fmt"
	"os"

	"feexpay-checkout/internal/config"
	"feexpay-checkout/internal/logger"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()

	rootCmd := &cobra.Command{
		Use:          "feexpay",
		Short:        "Run FeexPay checkouts from the terminal",
		Version:      Version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("mode", "SANDBOX", "API environment (SANDBOX or LIVE)")

	rootCmd.AddCommand(shopCmd(cfg))
	rootCmd.AddCommand(quoteCmd(cfg))
	rootCmd.AddCommand(payCmd(cfg))
	rootCmd.AddCommand(countriesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
