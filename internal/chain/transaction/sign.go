package transaction

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"

	"github.com/zilpool/go-zil-wallet/internal/crypto/schnorr"
)

// Signer produces Schnorr signatures for a single key pair. Implemented by
// account.Account.
type Signer interface {
	// PubKey returns the compressed public key of the signing key.
	PubKey() []byte

	// SignMessage signs the raw message bytes.
	SignMessage(msg []byte) (*schnorr.Signature, error)
}

// Sign encodes the draft canonically, signs it, and verifies the signature
// locally before accepting it. The self-check catches encoding divergence
// before the transaction ever reaches the node.
func (t *Transaction) Sign(signer Signer) (*SignedTransaction, error) {
	if !bytes.Equal(signer.PubKey(), t.senderPubKey) {
		return nil, &InvalidFieldError{Field: "pubKey", Reason: "signer key does not match the draft's sender public key"}
	}

	msg := t.CanonicalBytes()

	sig, err := signer.SignMessage(msg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign canonical encoding")
	}

	pub, err := secp256k1.ParsePubKey(t.senderPubKey)
	if err != nil {
		return nil, &InvalidFieldError{Field: "pubKey", Reason: "not a valid curve point"}
	}
	if !schnorr.Verify(pub, msg, sig) {
		return nil, errors.New("signature failed local verification against the canonical encoding")
	}

	digest := sha256.Sum256(msg)

	return &SignedTransaction{
		tx:  t,
		sig: sig,
		id:  hex.EncodeToString(digest[:]),
	}, nil
}
