package transaction

import (
	"math/big"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the network's transaction protobuf. The pre-image signed
// and verified on-chain is this message with fields emitted in ascending
// field order; any deviation invalidates signatures.
const (
	fieldVersion      = 1
	fieldNonce        = 2
	fieldToAddr       = 3
	fieldSenderPubKey = 4
	fieldAmount       = 5
	fieldGasPrice     = 6
	fieldGasLimit     = 7
	fieldCode         = 8
	fieldData         = 9
)

// uint128Size is the fixed width of amount and gas price on the wire.
const uint128Size = 16

// CanonicalBytes produces the deterministic signing pre-image: the
// network's protobuf wire layout with fixed field order, 16-byte big-endian
// amount and gas price, length-delimited ByteArray wrappers for byte
// fields, and code/data omitted when empty. Pure: repeated calls on the
// same draft return byte-identical output.
func (t *Transaction) CanonicalBytes() []byte {
	buf := protowire.AppendTag(nil, fieldVersion, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(t.version))

	buf = protowire.AppendTag(buf, fieldNonce, protowire.VarintType)
	buf = protowire.AppendVarint(buf, t.nonce)

	buf = protowire.AppendTag(buf, fieldToAddr, protowire.BytesType)
	buf = protowire.AppendBytes(buf, t.to[:])

	buf = appendByteArray(buf, fieldSenderPubKey, t.senderPubKey)
	buf = appendByteArray(buf, fieldAmount, uint128Bytes(t.amount))
	buf = appendByteArray(buf, fieldGasPrice, uint128Bytes(t.gasPrice))

	buf = protowire.AppendTag(buf, fieldGasLimit, protowire.VarintType)
	buf = protowire.AppendVarint(buf, t.gasLimit)

	if t.code != "" {
		buf = protowire.AppendTag(buf, fieldCode, protowire.BytesType)
		buf = protowire.AppendBytes(buf, []byte(t.code))
	}
	if len(t.data) > 0 {
		buf = protowire.AppendTag(buf, fieldData, protowire.BytesType)
		buf = protowire.AppendBytes(buf, t.data)
	}

	return buf
}

// appendByteArray emits the ByteArray wrapper message the reference
// serialization uses for byte fields: a nested message whose field 1 holds
// the raw bytes.
func appendByteArray(buf []byte, field protowire.Number, data []byte) []byte {
	inner := protowire.AppendTag(nil, 1, protowire.BytesType)
	inner = protowire.AppendBytes(inner, data)

	buf = protowire.AppendTag(buf, field, protowire.BytesType)
	return protowire.AppendBytes(buf, inner)
}

// uint128Bytes renders v as a fixed 16-byte big-endian value. The builder
// guarantees v fits.
func uint128Bytes(v *big.Int) []byte {
	out := make([]byte, uint128Size)
	v.FillBytes(out)
	return out
}
