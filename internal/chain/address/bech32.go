package address

import (
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/pkg/errors"
)

// HRP is the human-readable part of bech32-encoded addresses.
const HRP = "zil"

// Bech32 returns the bech32 form of the address.
func (a Address) Bech32() (string, error) {
	converted, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "failed to regroup address bits")
	}

	encoded, err := bech32.Encode(HRP, converted)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode bech32 address")
	}

	return encoded, nil
}

// FromBech32 parses a bech32 address. A wrong human-readable part or a bad
// bech32 checksum yields a FormatError.
func FromBech32(s string) (Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return Address{}, &FormatError{Input: s, Reason: err.Error()}
	}

	if hrp != HRP {
		return Address{}, &FormatError{Input: s, Reason: "unexpected prefix " + hrp}
	}

	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, &FormatError{Input: s, Reason: err.Error()}
	}

	return FromBytes(raw)
}
