// Package send implements the transfer subcommand: build, sign, submit,
// and wait for confirmation.
package send

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zilpool/go-zil-wallet/internal/chain/address"
	"github.com/zilpool/go-zil-wallet/internal/chain/provider"
	"github.com/zilpool/go-zil-wallet/internal/chain/tracker"
	"github.com/zilpool/go-zil-wallet/internal/chain/transaction"
	"github.com/zilpool/go-zil-wallet/internal/config"
	"github.com/zilpool/go-zil-wallet/internal/util"
	"github.com/zilpool/go-zil-wallet/internal/util/command"
	"github.com/zilpool/go-zil-wallet/internal/wallet"
	"github.com/zilpool/go-zil-wallet/internal/wallet/account"
	"github.com/zilpool/go-zil-wallet/internal/wallet/keystore"
)

const (
	keystoreFlag = "keystore"
	toFlag       = "to"
	amountFlag   = "amount"
	gasPriceFlag = "gas-price"
	gasLimitFlag = "gas-limit"
	nonceFlag    = "nonce"
	noWaitFlag   = "no-wait"
)

type sendArgs struct {
	keystorePath string
	to           string
	amount       string
	gasPrice     string
	gasLimit     uint64
	nonce        uint64
	noWait       bool
}

func New() *cobra.Command {
	var args sendArgs

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Sign a payment transaction, submit it, and wait for its receipt",
		RunE: func(_ *cobra.Command, _ []string) error {
			return command.WithClient(func(ctx context.Context, cfg config.Config, client *provider.Provider) error {
				return runSend(ctx, cfg, client, args)
			})
		},
	}

	cmd.Flags().StringVar(&args.keystorePath, keystoreFlag, "", "Keystore file of the sending account (default: $ZIL_KEYSTORE)")
	cmd.Flags().StringVar(&args.to, toFlag, "", "Recipient address (bech32, checksum hex, or plain hex)")
	cmd.Flags().StringVar(&args.amount, amountFlag, "", "Amount to send in whole coins, e.g. 1.5")
	cmd.Flags().StringVar(&args.gasPrice, gasPriceFlag, "", "Gas price in Qa (default: the node's minimum)")
	cmd.Flags().Uint64Var(&args.gasLimit, gasLimitFlag, 50, "Gas limit in units")
	cmd.Flags().Uint64Var(&args.nonce, nonceFlag, 0, "Explicit nonce (default: current on-chain nonce + 1)")
	cmd.Flags().BoolVar(&args.noWait, noWaitFlag, false, "Submit without waiting for the receipt")

	_ = cmd.MarkFlagRequired(toFlag)
	_ = cmd.MarkFlagRequired(amountFlag)

	return cmd
}

func runSend(ctx context.Context, cfg config.Config, client *provider.Provider, args sendArgs) error {
	to, err := address.FromString(args.to)
	if err != nil {
		return err
	}

	amount, err := util.ParseAmount(args.amount)
	if err != nil {
		return err
	}

	gasPrice, err := resolveGasPrice(ctx, client, args.gasPrice)
	if err != nil {
		return err
	}

	if err := checkNetwork(ctx, client, cfg.Network); err != nil {
		return err
	}

	acct, err := unlockAccount(cfg, args.keystorePath)
	if err != nil {
		return err
	}
	defer acct.Zero()

	w := wallet.NewWithAccounts([]*account.Account{acct}, client)

	signed, err := w.SignTransaction(ctx, transaction.Params{
		Version:  cfg.Network.Version(),
		Nonce:    args.nonce,
		To:       to,
		Amount:   amount,
		GasPrice: gasPrice,
		GasLimit: args.gasLimit,
	})
	if err != nil {
		return err
	}

	result, err := client.CreateTransaction(ctx, signed)
	if err != nil {
		return err
	}

	log.Info().Str("tx", result.TranID).Str("info", result.Info).Msg("Transaction submitted")
	fmt.Printf("Transaction ID: %s\n", result.TranID)

	if args.noWait {
		return nil
	}

	outcome, err := tracker.Track(ctx, client, result.TranID, tracker.Options{
		Timeout:      cfg.Tracker.Timeout,
		PollInterval: cfg.Tracker.PollInterval,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Outcome: %s after %d polls\n", outcome.State, outcome.Attempts)
	if outcome.State == tracker.Failed && outcome.Receipt != nil {
		for _, exc := range outcome.Receipt.Exceptions {
			fmt.Printf("  node: %s\n", exc.Message)
		}
	}

	if outcome.State != tracker.Confirmed {
		return errors.Errorf("transaction not confirmed: %s", outcome.State)
	}
	return nil
}

func resolveGasPrice(ctx context.Context, client *provider.Provider, flag string) (*big.Int, error) {
	if flag == "" {
		return client.GetMinimumGasPrice(ctx)
	}

	gasPrice, ok := new(big.Int).SetString(flag, 10)
	if !ok {
		return nil, errors.Errorf("malformed gas price %q", flag)
	}
	return gasPrice, nil
}

// checkNetwork guards against signing with a version word for one chain
// and submitting to a node on another.
func checkNetwork(ctx context.Context, client *provider.Provider, network config.Network) error {
	id, err := client.GetNetworkID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to query network id")
	}

	if id != network.ChainID {
		return errors.Errorf("node reports chain id %d but the %s profile expects %d", id, network.Name, network.ChainID)
	}
	return nil
}

func unlockAccount(cfg config.Config, path string) (*account.Account, error) {
	if path == "" {
		path = cfg.Keystore
	}
	if path == "" {
		return nil, errors.New("no keystore file given; set --keystore or ZIL_KEYSTORE")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keystore file")
	}

	fmt.Fprint(os.Stderr, "Passphrase: ")
	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read passphrase")
	}

	return keystore.Decrypt(data, passphrase)
}
