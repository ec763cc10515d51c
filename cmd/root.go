package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zilpool/go-zil-wallet/cmd/account"
	"github.com/zilpool/go-zil-wallet/cmd/balance"
	"github.com/zilpool/go-zil-wallet/cmd/send"
	"github.com/zilpool/go-zil-wallet/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zil-wallet",
	Short: config.ModuleName,
	Long: fmt.Sprintf(`%v

A command line wallet for Schnorr-signed transactions over JSON-RPC.
Requires configuration through ENV (ZIL_*).`, config.ModuleName),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// attach the subcommands
	rootCmd.AddCommand(
		account.New(),
		balance.New(),
		send.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
