// Package address implements the network's 20-byte account address and its
// textual encodings: plain hex, the SHA256-derived mixed-case checksum form,
// and bech32.
package address

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Length is the size of a raw address in bytes.
const Length = 20

// HexLength is the number of hex characters in a textual address, without prefix.
const HexLength = Length * 2

// Address is a raw 20-byte account identifier.
type Address [Length]byte

// Zero is the all-zero address used as the recipient of contract deployments.
var Zero Address

// FromPublicKey derives the address for a compressed public key:
// SHA256 over the key bytes, keeping the trailing 20 bytes of the digest.
func FromPublicKey(pub []byte) Address {
	digest := sha256.Sum256(pub)

	var addr Address
	copy(addr[:], digest[len(digest)-Length:])
	return addr
}

// FromBytes converts a raw 20-byte slice into an Address.
func FromBytes(b []byte) (Address, error) {
	if len(b) != Length {
		return Address{}, &FormatError{Input: hex.EncodeToString(b), Reason: "must be exactly 20 bytes"}
	}

	var addr Address
	copy(addr[:], b)
	return addr, nil
}

// FromHex parses a 40-character hex address, case-insensitive, with an
// optional 0x prefix. No checksum validation is performed.
func FromHex(s string) (Address, error) {
	stripped := strip0x(s)
	if len(stripped) != HexLength {
		return Address{}, &FormatError{Input: s, Reason: "must be 40 hex characters"}
	}

	raw, err := hex.DecodeString(stripped)
	if err != nil {
		return Address{}, &FormatError{Input: s, Reason: "invalid hex"}
	}

	var addr Address
	copy(addr[:], raw)
	return addr, nil
}

// FromChecksum parses a mixed-case checksum address. A string that is not a
// syntactically valid address yields a FormatError; a valid address whose
// casing does not match its checksum yields ErrChecksumMismatch.
func FromChecksum(s string) (Address, error) {
	addr, err := FromHex(s)
	if err != nil {
		return Address{}, err
	}

	if addr.Checksum() != ensure0x(s) {
		return Address{}, ErrChecksumMismatch
	}

	return addr, nil
}

// FromString parses any supported textual encoding: bech32, mixed-case
// checksum hex, or plain single-case hex. Strings containing an uppercase
// hex letter are held to the checksum rule.
func FromString(s string) (Address, error) {
	if strings.HasPrefix(strings.ToLower(s), HRP+"1") {
		return FromBech32(s)
	}

	if strings.ContainsAny(strip0x(s), "ABCDEF") {
		return FromChecksum(s)
	}

	return FromHex(s)
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, Length)
	copy(out, a[:])
	return out
}

// Hex returns the lowercase hex form without prefix, as expected by node
// RPC request parameters.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// Checksum returns the 0x-prefixed mixed-case checksum form. Casing for the
// hex digit at position i follows bit 255-6i of SHA256 over the raw address
// bytes, read as a big-endian 256-bit integer; decimal digits are unaffected.
func (a Address) Checksum() string {
	digest := sha256.Sum256(a[:])
	lower := hex.EncodeToString(a[:])

	var sb strings.Builder
	sb.Grow(2 + HexLength)
	sb.WriteString("0x")

	for i := 0; i < HexLength; i++ {
		c := lower[i]
		if c >= 'a' && c <= 'f' && checksumBit(digest, i) {
			c -= 'a' - 'A'
		}
		sb.WriteByte(c)
	}

	return sb.String()
}

// String renders the checksum form.
func (a Address) String() string {
	return a.Checksum()
}

// IsZero reports whether the address is the all-zero deployment address.
func (a Address) IsZero() bool {
	return a == Zero
}

// checksumBit extracts bit 255-6i of the digest. Bit 255 is the most
// significant bit of the first byte.
func checksumBit(digest [sha256.Size]byte, i int) bool {
	return digest[(6*i)/8]&(0x80>>((6*i)%8)) != 0
}

func strip0x(s string) string {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}

func ensure0x(s string) string {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return "0x" + s[2:]
	}
	return "0x" + s
}
