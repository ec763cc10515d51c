// Package balance implements the balance query subcommand.
package balance

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zilpool/go-zil-wallet/internal/chain/address"
	"github.com/zilpool/go-zil-wallet/internal/chain/provider"
	"github.com/zilpool/go-zil-wallet/internal/config"
	"github.com/zilpool/go-zil-wallet/internal/util"
	"github.com/zilpool/go-zil-wallet/internal/util/command"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Query the balance and nonce of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return command.WithClient(func(ctx context.Context, _ config.Config, client *provider.Provider) error {
				return runBalance(ctx, client, args[0])
			})
		},
	}
}

func runBalance(ctx context.Context, client *provider.Provider, input string) error {
	addr, err := address.FromString(input)
	if err != nil {
		return err
	}

	balance, err := client.GetBalance(ctx, addr)
	if err != nil {
		return err
	}

	fmt.Printf("Address: %s\n", addr.Checksum())
	fmt.Printf("Balance: %s (%s Qa)\n", util.FormatAmount(balance.Balance), balance.Balance)
	fmt.Printf("Nonce:   %d\n", balance.Nonce)

	return nil
}
