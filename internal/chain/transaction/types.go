// Package transaction builds, canonically encodes, and signs transactions.
//
// A Transaction is an immutable draft produced by New after field
// validation. Signing appends a Schnorr signature computed over the draft's
// canonical byte encoding and yields an immutable SignedTransaction.
package transaction

import (
	"encoding/hex"
	"math/big"

	"github.com/zilpool/go-zil-wallet/internal/chain/address"
	"github.com/zilpool/go-zil-wallet/internal/crypto/schnorr"
)

// PubKeySize is the length of a compressed sender public key.
const PubKeySize = 33

// Params carries the named fields a caller supplies to New. Amount and
// GasPrice are denominated in the network's smallest unit.
type Params struct {
	// Version packs the chain id and message version: chainID<<16 | msgVersion.
	Version uint32

	// Nonce is the per-account counter; the node requires exactly the
	// current on-chain nonce + 1 at submission time.
	Nonce uint64

	// PriorNonce, when non-zero, is the last nonce known to the caller.
	// The builder rejects drafts whose nonce decreases relative to it.
	PriorNonce uint64

	To       address.Address
	Amount   *big.Int
	GasPrice *big.Int
	GasLimit uint64

	// Code holds contract source for deployments; Data holds the JSON call
	// or init payload. Both must be absent for plain transfers.
	Code string
	Data []byte

	// SenderPubKey is the compressed public key of the signing account.
	SenderPubKey []byte

	// Priority requests priority processing from the node. It is carried in
	// the submission payload only and is not part of the signed encoding.
	Priority bool
}

// Transaction is a validated, immutable draft.
type Transaction struct {
	version      uint32
	nonce        uint64
	to           address.Address
	amount       *big.Int
	gasPrice     *big.Int
	gasLimit     uint64
	code         string
	data         []byte
	senderPubKey []byte
	priority     bool
}

// Version returns the packed chain id / message version pair.
func (t *Transaction) Version() uint32 { return t.version }

// Nonce returns the account nonce the draft was built with.
func (t *Transaction) Nonce() uint64 { return t.nonce }

// To returns the recipient address.
func (t *Transaction) To() address.Address { return t.to }

// Amount returns a copy of the transferred amount.
func (t *Transaction) Amount() *big.Int { return new(big.Int).Set(t.amount) }

// GasPrice returns a copy of the gas price.
func (t *Transaction) GasPrice() *big.Int { return new(big.Int).Set(t.gasPrice) }

// GasLimit returns the gas limit.
func (t *Transaction) GasLimit() uint64 { return t.gasLimit }

// Code returns the contract source, empty for non-deployments.
func (t *Transaction) Code() string { return t.code }

// Data returns a copy of the payload data, nil when absent.
func (t *Transaction) Data() []byte {
	if len(t.data) == 0 {
		return nil
	}
	out := make([]byte, len(t.data))
	copy(out, t.data)
	return out
}

// SenderPubKey returns a copy of the compressed sender public key.
func (t *Transaction) SenderPubKey() []byte {
	out := make([]byte, len(t.senderPubKey))
	copy(out, t.senderPubKey)
	return out
}

// IsDeployment reports whether the draft deploys a contract.
func (t *Transaction) IsDeployment() bool { return t.code != "" }

// SignedTransaction is a draft plus its Schnorr signature. Immutable.
type SignedTransaction struct {
	tx  *Transaction
	sig *schnorr.Signature
	id  string
}

// Transaction returns the underlying draft.
func (s *SignedTransaction) Transaction() *Transaction { return s.tx }

// Signature returns the Schnorr signature over the canonical encoding.
func (s *SignedTransaction) Signature() *schnorr.Signature { return s.sig }

// ID returns the local transaction identifier: the hex SHA256 digest of the
// canonical encoding. The node reports the same value on submission.
func (s *SignedTransaction) ID() string { return s.id }

// Payload is the JSON parameter object the node expects for submission.
// Numeric amounts travel as decimal strings per the node API.
type Payload struct {
	Version   uint32 `json:"version"`
	Nonce     uint64 `json:"nonce"`
	ToAddr    string `json:"toAddr"`
	Amount    string `json:"amount"`
	PubKey    string `json:"pubKey"`
	GasPrice  string `json:"gasPrice"`
	GasLimit  string `json:"gasLimit"`
	Code      string `json:"code,omitempty"`
	Data      string `json:"data,omitempty"`
	Signature string `json:"signature"`
	Priority  bool   `json:"priority"`
}

// Payload assembles the submission parameters for the signed transaction.
func (s *SignedTransaction) Payload() *Payload {
	t := s.tx
	p := &Payload{
		Version:   t.version,
		Nonce:     t.nonce,
		ToAddr:    t.to.Checksum(),
		Amount:    t.amount.String(),
		PubKey:    hex.EncodeToString(t.senderPubKey),
		GasPrice:  t.gasPrice.String(),
		GasLimit:  formatUint(t.gasLimit),
		Code:      t.code,
		Signature: hex.EncodeToString(s.sig.Bytes()),
		Priority:  t.priority,
	}
	if len(t.data) > 0 {
		p.Data = string(t.data)
	}
	return p
}

func formatUint(v uint64) string {
	return new(big.Int).SetUint64(v).String()
}
