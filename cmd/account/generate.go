package account

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zilpool/go-zil-wallet/internal/config"
	"github.com/zilpool/go-zil-wallet/internal/util/command"
	walletaccount "github.com/zilpool/go-zil-wallet/internal/wallet/account"
	"github.com/zilpool/go-zil-wallet/internal/wallet/keystore"
)

const (
	outFlag        = "out"
	privateKeyFlag = "private-key"
)

func newGenerate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an account and write a passphrase-encrypted keystore file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := cmd.Flags().GetString(outFlag)
			if err != nil {
				return err
			}
			privHex, err := cmd.Flags().GetString(privateKeyFlag)
			if err != nil {
				return err
			}

			return command.WithConfig(func(cfg config.Config) error {
				return runGenerate(cfg, out, privHex)
			})
		},
	}

	cmd.Flags().String(outFlag, "", "Keystore output path (default: keystore.json or $ZIL_KEYSTORE)")
	cmd.Flags().String(privateKeyFlag, "", "Import this hex private key instead of generating one")

	return cmd
}

func runGenerate(cfg config.Config, out, privHex string) error {
	if out == "" {
		out = cfg.Keystore
	}
	if out == "" {
		out = "keystore.json"
	}

	if _, err := os.Stat(out); err == nil {
		return errors.Errorf("refusing to overwrite existing keystore %s", out)
	}

	var (
		acct *walletaccount.Account
		err  error
	)
	if privHex != "" {
		acct, err = walletaccount.FromHex(privHex)
	} else {
		acct, err = walletaccount.New()
	}
	if err != nil {
		return err
	}
	defer acct.Zero()

	passphrase, err := readPassphrase(true)
	if err != nil {
		return err
	}

	file, err := keystore.Encrypt(acct, passphrase)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal keystore file")
	}

	if err := os.WriteFile(out, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write keystore file")
	}

	bech, err := acct.Address().Bech32()
	if err != nil {
		return err
	}

	log.Info().Str("path", out).Msg("Wrote keystore file")
	fmt.Printf("Address:  %s\n", acct.Address().Checksum())
	fmt.Printf("Bech32:   %s\n", bech)
	fmt.Printf("Keystore: %s\n", out)

	return nil
}
