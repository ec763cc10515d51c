// Package account models a key pair with exclusive ownership of its private
// scalar. Key material is read-only after construction, so one Account may
// sign concurrently without locking; Zero releases it.
package account

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"

	"github.com/zilpool/go-zil-wallet/internal/chain/address"
	"github.com/zilpool/go-zil-wallet/internal/crypto/schnorr"
)

// PrivateKeySize is the byte length of a private key scalar.
const PrivateKeySize = 32

// Account owns a private key and its derived public key and address.
type Account struct {
	priv *secp256k1.PrivateKey
	pub  []byte
	addr address.Address
}

// New creates an account with a freshly generated private key.
func New() (*Account, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate private key")
	}
	return fromKey(priv), nil
}

// FromPrivateKey builds an account from raw 32-byte key material. Zero and
// out-of-order scalars are rejected as malformed key material.
func FromPrivateKey(raw []byte) (*Account, error) {
	if len(raw) != PrivateKeySize {
		return nil, &schnorr.SigningError{Reason: "private key must be 32 bytes"}
	}

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(raw); overflow {
		return nil, &schnorr.SigningError{Reason: "private key scalar exceeds group order"}
	}
	if scalar.IsZero() {
		return nil, &schnorr.SigningError{Reason: "private key scalar is zero"}
	}

	priv := secp256k1.NewPrivateKey(&scalar)
	scalar.Zero()

	return fromKey(priv), nil
}

// FromHex builds an account from a hex private key, case-insensitive, with
// an optional 0x prefix.
func FromHex(s string) (*Account, error) {
	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))

	raw, err := hex.DecodeString(normalized)
	if err != nil {
		return nil, &schnorr.SigningError{Reason: "private key is not valid hex"}
	}
	defer zeroize(raw)

	return FromPrivateKey(raw)
}

func fromKey(priv *secp256k1.PrivateKey) *Account {
	pub := priv.PubKey().SerializeCompressed()
	return &Account{
		priv: priv,
		pub:  pub,
		addr: address.FromPublicKey(pub),
	}
}

// PubKey returns a copy of the compressed public key.
func (a *Account) PubKey() []byte {
	out := make([]byte, len(a.pub))
	copy(out, a.pub)
	return out
}

// PubKeyHex returns the compressed public key as lowercase hex.
func (a *Account) PubKeyHex() string {
	return hex.EncodeToString(a.pub)
}

// Address returns the account's address.
func (a *Account) Address() address.Address {
	return a.addr
}

// SignMessage signs raw message bytes with the account's key. Satisfies
// transaction.Signer.
func (a *Account) SignMessage(msg []byte) (*schnorr.Signature, error) {
	if a.priv == nil {
		return nil, &schnorr.SigningError{Reason: "account key material has been released"}
	}
	return schnorr.Sign(a.priv, msg)
}

// PrivateKeyBytes returns a copy of the private scalar for keystore export.
// The caller must zeroize the copy after use.
func (a *Account) PrivateKeyBytes() ([]byte, error) {
	if a.priv == nil {
		return nil, &schnorr.SigningError{Reason: "account key material has been released"}
	}
	return a.priv.Serialize(), nil
}

// Zero wipes the private scalar. The account can no longer sign afterwards.
func (a *Account) Zero() {
	if a.priv != nil {
		a.priv.Zero()
		a.priv = nil
	}
}

// String renders the account's address. The private key is deliberately
// unreachable through any printable representation.
func (a *Account) String() string {
	return a.addr.Checksum()
}

// Format implements fmt.Formatter so that %v, %+v, %#v and friends never
// leak key material through struct reflection.
func (a *Account) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte(a.String()))
}

func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
