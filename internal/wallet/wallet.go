// Package wallet keeps a session's accounts and drives the signing
// pipeline: pick the right account for a draft, fill in the nonce from the
// chain when the caller left it unset, build, and sign.
package wallet

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/zilpool/go-zil-wallet/internal/chain/address"
	"github.com/zilpool/go-zil-wallet/internal/chain/provider"
	"github.com/zilpool/go-zil-wallet/internal/chain/transaction"
	"github.com/zilpool/go-zil-wallet/internal/wallet/account"
)

// ErrAccountNotFound is returned when no registered account matches the
// requested address or sender public key.
var ErrAccountNotFound = errors.New("account not found in wallet")

// ErrNoDefaultAccount is returned when a draft names no sender and the
// wallet has no default account to fall back on.
var ErrNoDefaultAccount = errors.New("wallet has no default account")

// NonceSource is the slice of the provider the wallet needs for nonce
// auto-fill.
type NonceSource interface {
	GetBalance(ctx context.Context, addr address.Address) (*provider.Balance, error)
}

// Wallet is an in-memory account registry with a default account. Safe for
// concurrent use. Accounts live for the session; nothing is persisted.
type Wallet struct {
	mu       sync.RWMutex
	accounts map[address.Address]*account.Account
	def      *account.Account
	client   NonceSource
}

// New creates an empty wallet backed by the given nonce source.
func New(client NonceSource) *Wallet {
	return &Wallet{
		accounts: make(map[address.Address]*account.Account),
		client:   client,
	}
}

// NewWithAccounts creates a wallet pre-populated with accounts; the first
// one becomes the default.
func NewWithAccounts(accounts []*account.Account, client NonceSource) *Wallet {
	w := New(client)
	for _, acct := range accounts {
		w.add(acct)
	}
	return w
}

// Create generates a fresh account, registers it, and returns it.
func (w *Wallet) Create() (*account.Account, error) {
	acct, err := account.New()
	if err != nil {
		return nil, err
	}

	w.add(acct)
	log.Debug().Stringer("address", acct.Address()).Msg("Created wallet account")
	return acct, nil
}

// AddPrivateKey registers an account built from a hex private key and
// returns its address.
func (w *Wallet) AddPrivateKey(privHex string) (address.Address, error) {
	acct, err := account.FromHex(privHex)
	if err != nil {
		return address.Address{}, err
	}

	w.add(acct)
	return acct.Address(), nil
}

// Add registers an existing account.
func (w *Wallet) Add(acct *account.Account) {
	w.add(acct)
}

func (w *Wallet) add(acct *account.Account) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.accounts[acct.Address()] = acct
	if w.def == nil {
		w.def = acct
	}
}

// Remove deregisters the account at addr and returns it, or nil when
// absent. Removing the default clears it.
func (w *Wallet) Remove(addr address.Address) *account.Account {
	w.mu.Lock()
	defer w.mu.Unlock()

	acct, ok := w.accounts[addr]
	if !ok {
		return nil
	}

	delete(w.accounts, addr)
	if w.def == acct {
		w.def = nil
	}
	return acct
}

// SetDefault marks the account at addr as the default signer.
func (w *Wallet) SetDefault(addr address.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	acct, ok := w.accounts[addr]
	if !ok {
		return errors.Wrapf(ErrAccountNotFound, "address %s", addr)
	}

	w.def = acct
	return nil
}

// Default returns the default account, or nil.
func (w *Wallet) Default() *account.Account {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.def
}

// Get returns the account registered at addr, or nil.
func (w *Wallet) Get(addr address.Address) *account.Account {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.accounts[addr]
}

// SignTransaction selects the signing account, fills in the sender public
// key and, when the caller left it at zero, the nonce (current on-chain
// nonce + 1), then builds and signs the draft.
func (w *Wallet) SignTransaction(ctx context.Context, params transaction.Params) (*transaction.SignedTransaction, error) {
	acct, err := w.signerFor(params)
	if err != nil {
		return nil, err
	}

	params.SenderPubKey = acct.PubKey()

	if params.Nonce == 0 {
		if w.client == nil {
			return nil, errors.New("cannot auto-fill nonce without a provider")
		}

		balance, err := w.client.GetBalance(ctx, acct.Address())
		if err != nil {
			return nil, errors.Wrap(err, "failed to fetch current nonce")
		}

		params.Nonce = balance.Nonce + 1
		params.PriorNonce = balance.Nonce
	}

	tx, err := transaction.New(params)
	if err != nil {
		return nil, err
	}

	return tx.Sign(acct)
}

// signerFor resolves the account a draft should be signed with: the one
// matching the draft's sender public key when set, the default otherwise.
func (w *Wallet) signerFor(params transaction.Params) (*account.Account, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(params.SenderPubKey) > 0 {
		addr := address.FromPublicKey(params.SenderPubKey)
		acct, ok := w.accounts[addr]
		if !ok {
			return nil, errors.Wrapf(ErrAccountNotFound, "address %s", addr)
		}
		return acct, nil
	}

	if w.def == nil {
		return nil, ErrNoDefaultAccount
	}
	return w.def, nil
}
