package contract_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zilpool/go-zil-wallet/internal/chain/address"
	"github.com/zilpool/go-zil-wallet/internal/chain/contract"
)

func tokenSchema() *contract.Schema {
	return &contract.Schema{
		Name: "FungibleToken",
		Transitions: []contract.Transition{
			{
				Name: "Transfer",
				Params: []contract.Param{
					{VName: "to", Type: "ByStr20"},
					{VName: "amount", Type: "Uint128"},
					{VName: "memo", Type: "String"},
				},
			},
			{
				Name: "SetPaused",
				Params: []contract.Param{
					{VName: "paused", Type: "Bool"},
				},
			},
		},
		Events: []contract.Event{
			{
				Name: "TransferSuccess",
				Params: []contract.Param{
					{VName: "sender", Type: "ByStr20"},
					{VName: "recipient", Type: "ByStr20"},
					{VName: "amount", Type: "Uint128"},
				},
			},
		},
	}
}

func TestEncodeCall(t *testing.T) {
	to, err := address.FromHex("381f4008505e940ad7681ec3468a719060caf796")
	require.NoError(t, err)

	data, err := contract.EncodeCall(tokenSchema(), "Transfer", []any{to, big.NewInt(500), "rent"})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"_tag": "Transfer",
		"params": [
			{"vname":"to","type":"ByStr20","value":"0x381f4008505e940ad7681ec3468a719060caf796"},
			{"vname":"amount","type":"Uint128","value":"500"},
			{"vname":"memo","type":"String","value":"rent"}
		]
	}`, string(data))
}

func TestEncodeCallDeterministicOrdering(t *testing.T) {
	to, err := address.FromHex("381f4008505e940ad7681ec3468a719060caf796")
	require.NoError(t, err)
	args := []any{to, "500", "rent"}

	first, err := contract.EncodeCall(tokenSchema(), "Transfer", args)
	require.NoError(t, err)
	second, err := contract.EncodeCall(tokenSchema(), "Transfer", args)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEncodeCallBool(t *testing.T) {
	data, err := contract.EncodeCall(tokenSchema(), "SetPaused", []any{true})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"_tag": "SetPaused",
		"params": [
			{"vname":"paused","type":"Bool","value":{"constructor":"True","argtypes":[],"arguments":[]}}
		]
	}`, string(data))
}

// Three declared parameters, two supplied arguments: must fail with the
// mismatch located, never silently pad.
func TestEncodeCallArityMismatch(t *testing.T) {
	to, err := address.FromHex("381f4008505e940ad7681ec3468a719060caf796")
	require.NoError(t, err)

	_, err = contract.EncodeCall(tokenSchema(), "Transfer", []any{to, big.NewInt(500)})
	require.Error(t, err)

	ee := contract.AsEncodingError(err)
	require.NotNil(t, ee)
	assert.Equal(t, 2, ee.Position)
	assert.Equal(t, "3 arguments", ee.Expected)
	assert.Equal(t, "2 arguments", ee.Got)
}

func TestEncodeCallTypeMismatches(t *testing.T) {
	to, err := address.FromHex("381f4008505e940ad7681ec3468a719060caf796")
	require.NoError(t, err)

	tests := []struct {
		name     string
		args     []any
		position int
		expected string
	}{
		{"non-address for ByStr20", []any{42, big.NewInt(1), "m"}, 0, "ByStr20"},
		{"short hex for ByStr20", []any{"0x1122", big.NewInt(1), "m"}, 0, "ByStr20"},
		{"negative for Uint128", []any{to, big.NewInt(-1), "m"}, 1, "Uint128"},
		{"overflow for Uint128", []any{to, new(big.Int).Lsh(big.NewInt(1), 129), "m"}, 1, "Uint128"},
		{"non-numeric string for Uint128", []any{to, "lots", "m"}, 1, "Uint128"},
		{"non-string for String", []any{to, big.NewInt(1), 99}, 2, "String"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := contract.EncodeCall(tokenSchema(), "Transfer", tc.args)
			require.Error(t, err)

			ee := contract.AsEncodingError(err)
			require.NotNil(t, ee, "expected EncodingError, got %v", err)
			assert.Equal(t, tc.position, ee.Position)
			assert.Equal(t, tc.expected, ee.Expected)
			assert.NotEmpty(t, ee.Got)
		})
	}
}

func TestEncodeCallUnknownTransition(t *testing.T) {
	_, err := contract.EncodeCall(tokenSchema(), "Burn", nil)
	require.Error(t, err)
	assert.Nil(t, contract.AsEncodingError(err))
}

func TestInitDataPrependsScillaVersion(t *testing.T) {
	owner, err := contract.NewValue("owner", "ByStr20", "0x381f4008505e940ad7681ec3468a719060caf796")
	require.NoError(t, err)

	data, err := contract.InitData(0, []contract.Value{owner})
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"vname":"_scilla_version","type":"Uint32","value":"0"},
		{"vname":"owner","type":"ByStr20","value":"0x381f4008505e940ad7681ec3468a719060caf796"}
	]`, string(data))
}

func TestDecodeEventLog(t *testing.T) {
	raw := json.RawMessage(`{
		"_eventname": "TransferSuccess",
		"address": "0x1122334455667788990011223344556677889900",
		"params": [
			{"vname":"sender","type":"ByStr20","value":"0xAABB334455667788990011223344556677889900"},
			{"vname":"recipient","type":"ByStr20","value":"0x381f4008505e940ad7681ec3468a719060caf796"},
			{"vname":"amount","type":"Uint128","value":"500"}
		]
	}`)

	decoded, err := contract.DecodeEventLog(tokenSchema(), raw)
	require.NoError(t, err)

	assert.Equal(t, "TransferSuccess", decoded.Name)
	assert.Equal(t, "0xaabb334455667788990011223344556677889900", decoded.Fields["sender"])
	assert.Equal(t, big.NewInt(500), decoded.Fields["amount"])
}

func TestDecodeEventLogRejectsTypeDrift(t *testing.T) {
	raw := json.RawMessage(`{
		"_eventname": "TransferSuccess",
		"address": "0x1122334455667788990011223344556677889900",
		"params": [
			{"vname":"sender","type":"String","value":"nope"},
			{"vname":"recipient","type":"ByStr20","value":"0x381f4008505e940ad7681ec3468a719060caf796"},
			{"vname":"amount","type":"Uint128","value":"500"}
		]
	}`)

	_, err := contract.DecodeEventLog(tokenSchema(), raw)
	require.Error(t, err)

	ee := contract.AsEncodingError(err)
	require.NotNil(t, ee)
	assert.Equal(t, 0, ee.Position)
}

func TestDecodeEventLogRejectsMissingParams(t *testing.T) {
	raw := json.RawMessage(`{
		"_eventname": "TransferSuccess",
		"address": "0x1122334455667788990011223344556677889900",
		"params": [
			{"vname":"sender","type":"ByStr20","value":"0xaabb334455667788990011223344556677889900"}
		]
	}`)

	_, err := contract.DecodeEventLog(tokenSchema(), raw)
	require.Error(t, err)

	ee := contract.AsEncodingError(err)
	require.NotNil(t, ee)
	assert.Equal(t, "3 parameters", ee.Expected)
	assert.Equal(t, "1 parameter", ee.Got)
}
