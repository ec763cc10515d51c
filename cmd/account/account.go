// Package account holds the account management subcommands: generating
// keystore-backed accounts and inspecting existing keystore files.
package account

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zilpool/go-zil-wallet/internal/util/command"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("account",
		newGenerate(),
		newInspect(),
	)
}

// readPassphrase prompts on stderr and reads without echo. With confirm
// set, the passphrase is read twice and must match.
func readPassphrase(confirm bool) ([]byte, error) {
	fmt.Fprint(os.Stderr, "Passphrase: ")
	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read passphrase")
	}

	if len(passphrase) == 0 {
		return nil, errors.New("empty passphrase")
	}

	if confirm {
		fmt.Fprint(os.Stderr, "Repeat passphrase: ")
		again, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read passphrase confirmation")
		}

		if string(passphrase) != string(again) {
			return nil, errors.New("passphrases do not match")
		}
	}

	return passphrase, nil
}
