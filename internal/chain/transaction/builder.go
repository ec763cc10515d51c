package transaction

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// maxValueBits is the integer width the network allows for amounts and gas
// prices.
const maxValueBits = 128

// New validates the supplied fields and produces an immutable draft. All
// validation is local; no network access happens here. Failures carry the
// offending field name and reason in an InvalidFieldError.
func New(p Params) (*Transaction, error) {
	if p.Version == 0 {
		return nil, &InvalidFieldError{Field: "version", Reason: "must encode a chain id and message version"}
	}

	if p.Nonce == 0 {
		return nil, &InvalidFieldError{Field: "nonce", Reason: "must be a positive integer"}
	}
	if p.PriorNonce != 0 && p.Nonce < p.PriorNonce {
		return nil, &InvalidFieldError{Field: "nonce", Reason: "must not decrease relative to the last known nonce"}
	}

	if len(p.SenderPubKey) != PubKeySize {
		return nil, &InvalidFieldError{Field: "pubKey", Reason: "must be a 33-byte compressed public key"}
	}
	if _, err := secp256k1.ParsePubKey(p.SenderPubKey); err != nil {
		return nil, &InvalidFieldError{Field: "pubKey", Reason: "not a valid curve point"}
	}

	amount, err := checkValue("amount", p.Amount)
	if err != nil {
		return nil, err
	}
	gasPrice, err := checkValue("gasPrice", p.GasPrice)
	if err != nil {
		return nil, err
	}
	if p.GasLimit == 0 {
		return nil, &InvalidFieldError{Field: "gasLimit", Reason: "must be a positive integer"}
	}

	if err := checkRecipient(p); err != nil {
		return nil, err
	}

	pub := make([]byte, PubKeySize)
	copy(pub, p.SenderPubKey)

	var data []byte
	if len(p.Data) > 0 {
		data = make([]byte, len(p.Data))
		copy(data, p.Data)
	}

	return &Transaction{
		version:      p.Version,
		nonce:        p.Nonce,
		to:           p.To,
		amount:       amount,
		gasPrice:     gasPrice,
		gasLimit:     p.GasLimit,
		code:         p.Code,
		data:         data,
		senderPubKey: pub,
		priority:     p.Priority,
	}, nil
}

// checkValue rejects nil, negative, and wider-than-128-bit values and
// returns a copy of the value.
func checkValue(field string, v *big.Int) (*big.Int, error) {
	if v == nil {
		return nil, &InvalidFieldError{Field: field, Reason: "must be set"}
	}
	if v.Sign() < 0 {
		return nil, &InvalidFieldError{Field: field, Reason: "must not be negative"}
	}
	if v.BitLen() > maxValueBits {
		return nil, &InvalidFieldError{Field: field, Reason: "exceeds 128-bit integer width"}
	}
	return new(big.Int).Set(v), nil
}

// checkRecipient enforces the payload/recipient pairing rules: deployments
// target the zero address and carry code, contract calls carry data and a
// contract recipient, plain transfers carry neither.
func checkRecipient(p Params) error {
	switch {
	case p.Code != "":
		if !p.To.IsZero() {
			return &InvalidFieldError{Field: "toAddr", Reason: "contract deployments must target the zero address"}
		}
	case len(p.Data) > 0:
		if p.To.IsZero() {
			return &InvalidFieldError{Field: "toAddr", Reason: "contract calls must target a contract address"}
		}
	default:
		if p.To.IsZero() {
			return &InvalidFieldError{Field: "toAddr", Reason: "transfers must target a non-zero address"}
		}
	}
	return nil
}
