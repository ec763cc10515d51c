package account

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/zilpool/go-zil-wallet/internal/config"
	"github.com/zilpool/go-zil-wallet/internal/util/command"
	"github.com/zilpool/go-zil-wallet/internal/wallet/keystore"
)

func newInspect() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <keystore-file>",
		Short: "Decrypt a keystore file and print its account details",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return command.WithConfig(func(_ config.Config) error {
				return runInspect(args[0])
			})
		},
	}
}

func runInspect(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read keystore file")
	}

	passphrase, err := readPassphrase(false)
	if err != nil {
		return err
	}

	acct, err := keystore.Decrypt(data, passphrase)
	if err != nil {
		return err
	}
	defer acct.Zero()

	bech, err := acct.Address().Bech32()
	if err != nil {
		return err
	}

	fmt.Printf("Address:    %s\n", acct.Address().Checksum())
	fmt.Printf("Bech32:     %s\n", bech)
	fmt.Printf("Public key: %s\n", acct.PubKeyHex())

	return nil
}
