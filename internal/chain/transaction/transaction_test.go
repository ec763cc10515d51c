package transaction_test

import (
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/zilpool/go-zil-wallet/internal/chain/address"
	"github.com/zilpool/go-zil-wallet/internal/chain/transaction"
	"github.com/zilpool/go-zil-wallet/internal/crypto/schnorr"
)

type keySigner struct {
	priv *secp256k1.PrivateKey
}

func (k keySigner) PubKey() []byte {
	return k.priv.PubKey().SerializeCompressed()
}

func (k keySigner) SignMessage(msg []byte) (*schnorr.Signature, error) {
	return schnorr.Sign(k.priv, msg)
}

func newSigner(t *testing.T) keySigner {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	return keySigner{priv: priv}
}

func validParams(t *testing.T, signer keySigner) transaction.Params {
	t.Helper()
	to, err := address.FromHex("381f4008505e940ad7681ec3468a719060caf796")
	require.NoError(t, err)

	return transaction.Params{
		Version:      65537, // mainnet chain id 1, message version 1
		Nonce:        7,
		To:           to,
		Amount:       big.NewInt(1_000_000_000_000),
		GasPrice:     big.NewInt(2_000_000_000),
		GasLimit:     50,
		SenderPubKey: signer.PubKey(),
	}
}

func TestNewRejectsInvalidFields(t *testing.T) {
	signer := newSigner(t)

	over128 := new(big.Int).Lsh(big.NewInt(1), 129)

	tests := []struct {
		name   string
		mutate func(*transaction.Params)
		field  string
	}{
		{"zero version", func(p *transaction.Params) { p.Version = 0 }, "version"},
		{"zero nonce", func(p *transaction.Params) { p.Nonce = 0 }, "nonce"},
		{"decreasing nonce", func(p *transaction.Params) { p.Nonce = 3; p.PriorNonce = 5 }, "nonce"},
		{"nil amount", func(p *transaction.Params) { p.Amount = nil }, "amount"},
		{"negative amount", func(p *transaction.Params) { p.Amount = big.NewInt(-1) }, "amount"},
		{"amount over 128 bits", func(p *transaction.Params) { p.Amount = over128 }, "amount"},
		{"negative gas price", func(p *transaction.Params) { p.GasPrice = big.NewInt(-5) }, "gasPrice"},
		{"gas price over 128 bits", func(p *transaction.Params) { p.GasPrice = over128 }, "gasPrice"},
		{"zero gas limit", func(p *transaction.Params) { p.GasLimit = 0 }, "gasLimit"},
		{"short pub key", func(p *transaction.Params) { p.SenderPubKey = p.SenderPubKey[:32] }, "pubKey"},
		{"pub key off curve", func(p *transaction.Params) {
			bad := make([]byte, transaction.PubKeySize)
			bad[0] = 0x02
			p.SenderPubKey = bad
		}, "pubKey"},
		{"transfer to zero address", func(p *transaction.Params) { p.To = address.Zero }, "toAddr"},
		{"deployment to non-zero address", func(p *transaction.Params) { p.Code = "scilla_version 0" }, "toAddr"},
		{"call to zero address", func(p *transaction.Params) { p.To = address.Zero; p.Data = []byte(`{}`) }, "toAddr"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams(t, signer)
			tc.mutate(&params)

			_, err := transaction.New(params)
			require.Error(t, err)

			ife := transaction.AsInvalidField(err)
			require.NotNil(t, ife, "expected InvalidFieldError, got %v", err)
			assert.Equal(t, tc.field, ife.Field)
			assert.NotEmpty(t, ife.Reason)
		})
	}
}

func TestNewAllowsDeploymentAndNonDecreasingNonce(t *testing.T) {
	signer := newSigner(t)

	params := validParams(t, signer)
	params.To = address.Zero
	params.Code = "scilla_version 0"
	params.Data = []byte(`[{"vname":"_scilla_version","type":"Uint32","value":"0"}]`)
	params.Nonce = 5
	params.PriorNonce = 5

	tx, err := transaction.New(params)
	require.NoError(t, err)
	assert.True(t, tx.IsDeployment())
}

func TestCanonicalBytesDeterministic(t *testing.T) {
	signer := newSigner(t)

	params := validParams(t, signer)
	params.Data = []byte(`{"_tag":"Transfer","params":[]}`)

	first, err := transaction.New(params)
	require.NoError(t, err)
	second, err := transaction.New(params)
	require.NoError(t, err)

	assert.Equal(t, first.CanonicalBytes(), second.CanonicalBytes())
	assert.Equal(t, first.CanonicalBytes(), first.CanonicalBytes())
}

// TestCanonicalBytesLayout walks the emitted bytes with protowire and checks
// field order, wire types, and the fixed 16-byte width of amount and gas
// price.
func TestCanonicalBytesLayout(t *testing.T) {
	signer := newSigner(t)

	tx, err := transaction.New(validParams(t, signer))
	require.NoError(t, err)

	buf := tx.CanonicalBytes()

	var fields []protowire.Number
	byteFields := map[protowire.Number][]byte{}
	varintFields := map[protowire.Number]uint64{}

	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		require.Greater(t, n, 0)
		buf = buf[n:]

		fields = append(fields, num)

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(buf)
			require.Greater(t, n, 0)
			varintFields[num] = v
			buf = buf[n:]
		case protowire.BytesType:
			b, n := protowire.ConsumeBytes(buf)
			require.Greater(t, n, 0)
			byteFields[num] = b
			buf = buf[n:]
		default:
			t.Fatalf("unexpected wire type %v for field %d", typ, num)
		}
	}

	assert.Equal(t, []protowire.Number{1, 2, 3, 4, 5, 6, 7}, fields, "field order")
	assert.Equal(t, uint64(65537), varintFields[1])
	assert.Equal(t, uint64(7), varintFields[2])
	assert.Equal(t, uint64(50), varintFields[7])
	assert.Len(t, byteFields[3], 20, "toaddr is raw 20 bytes")

	// ByteArray wrappers: nested message with the raw bytes at field 1.
	for num, wantLen := range map[protowire.Number]int{4: 33, 5: 16, 6: 16} {
		inner := byteFields[num]
		innerNum, innerTyp, n := protowire.ConsumeTag(inner)
		require.Greater(t, n, 0)
		require.Equal(t, protowire.Number(1), innerNum)
		require.Equal(t, protowire.BytesType, innerTyp)

		raw, n2 := protowire.ConsumeBytes(inner[n:])
		require.Greater(t, n2, 0)
		assert.Len(t, raw, wantLen, "field %d payload width", num)
	}

	// Amount 1_000_000_000_000 big-endian in 16 bytes.
	inner := byteFields[5]
	_, _, n := protowire.ConsumeTag(inner)
	raw, _ := protowire.ConsumeBytes(inner[n:])
	assert.Equal(t, big.NewInt(1_000_000_000_000), new(big.Int).SetBytes(raw))
}

func TestCanonicalBytesOmitsEmptyPayload(t *testing.T) {
	signer := newSigner(t)

	plain, err := transaction.New(validParams(t, signer))
	require.NoError(t, err)

	params := validParams(t, signer)
	params.Data = []byte(`{"_tag":"Transfer","params":[]}`)
	withData, err := transaction.New(params)
	require.NoError(t, err)

	assert.NotContains(t, string(plain.CanonicalBytes()), `"_tag"`)
	assert.Contains(t, string(withData.CanonicalBytes()), `"_tag"`)
}

func TestSignProducesVerifiableTransaction(t *testing.T) {
	signer := newSigner(t)

	tx, err := transaction.New(validParams(t, signer))
	require.NoError(t, err)

	signed, err := tx.Sign(signer)
	require.NoError(t, err)

	pub, err := secp256k1.ParsePubKey(tx.SenderPubKey())
	require.NoError(t, err)
	assert.True(t, schnorr.Verify(pub, tx.CanonicalBytes(), signed.Signature()))
	assert.Len(t, signed.ID(), 64)
}

func TestSignRejectsMismatchedSigner(t *testing.T) {
	signer := newSigner(t)
	other := newSigner(t)

	tx, err := transaction.New(validParams(t, signer))
	require.NoError(t, err)

	_, err = tx.Sign(other)
	require.Error(t, err)
	assert.NotNil(t, transaction.AsInvalidField(err))
}

func TestPayloadShape(t *testing.T) {
	signer := newSigner(t)

	tx, err := transaction.New(validParams(t, signer))
	require.NoError(t, err)

	signed, err := tx.Sign(signer)
	require.NoError(t, err)

	payload := signed.Payload()
	assert.Equal(t, uint32(65537), payload.Version)
	assert.Equal(t, uint64(7), payload.Nonce)
	assert.Equal(t, "0x381f4008505e940AD7681EC3468a719060caF796", payload.ToAddr)
	assert.Equal(t, "1000000000000", payload.Amount)
	assert.Equal(t, "2000000000", payload.GasPrice)
	assert.Equal(t, "50", payload.GasLimit)
	assert.Empty(t, payload.Code)
	assert.Empty(t, payload.Data)
	assert.Len(t, payload.Signature, 128)
}
