package contract

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/zilpool/go-zil-wallet/internal/chain/address"
)

// ScillaVersionParam is the init parameter every deployment must carry.
const ScillaVersionParam = "_scilla_version"

// EncodeCall validates args against the transition's declared parameters
// and serializes the node's JSON call payload. Arity and per-position type
// mismatches yield an EncodingError; arguments are never padded or
// truncated.
func EncodeCall(schema *Schema, transitionName string, args []any) ([]byte, error) {
	transition, ok := schema.Transition(transitionName)
	if !ok {
		return nil, errors.Errorf("transition %q is not declared by contract %q", transitionName, schema.Name)
	}

	if len(args) != len(transition.Params) {
		pos := len(args)
		if len(transition.Params) < pos {
			pos = len(transition.Params)
		}
		return nil, &EncodingError{
			Position: pos,
			Expected: fmt.Sprintf("%d arguments", len(transition.Params)),
			Got:      fmt.Sprintf("%d arguments", len(args)),
		}
	}

	params := make([]Value, len(args))
	for i, param := range transition.Params {
		value, err := coerce(param, i, args[i])
		if err != nil {
			return nil, err
		}
		params[i] = value
	}

	data, err := json.Marshal(callData{Tag: transitionName, Params: params})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal call data")
	}
	return data, nil
}

// NewValue encodes a single named value, for callers assembling init
// parameters by hand.
func NewValue(vname, typ string, arg any) (Value, error) {
	return coerce(Param{VName: vname, Type: typ}, 0, arg)
}

// InitData serializes contract deployment init parameters, prepending the
// mandatory scilla version entry when absent.
func InitData(scillaVersion uint32, values []Value) ([]byte, error) {
	hasVersion := false
	for _, v := range values {
		if v.VName == ScillaVersionParam {
			hasVersion = true
			break
		}
	}

	if !hasVersion {
		version, err := NewValue(ScillaVersionParam, "Uint32", uint64(scillaVersion))
		if err != nil {
			return nil, err
		}
		values = append([]Value{version}, values...)
	}

	data, err := json.Marshal(values)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal init data")
	}
	return data, nil
}

// coerce converts a caller-supplied argument into the declared type's JSON
// value form.
func coerce(param Param, pos int, arg any) (Value, error) {
	var raw json.RawMessage
	var err error

	switch {
	case strings.HasPrefix(param.Type, "Uint") || strings.HasPrefix(param.Type, "Int"):
		raw, err = coerceInteger(param, pos, arg)
	case param.Type == "BNum":
		raw, err = coerceBNum(param, pos, arg)
	case strings.HasPrefix(param.Type, "ByStr"):
		raw, err = coerceByStr(param, pos, arg)
	case param.Type == "String":
		raw, err = coerceString(param, pos, arg)
	case param.Type == "Bool":
		raw, err = coerceBool(param, pos, arg)
	default:
		return Value{}, &EncodingError{Position: pos, Expected: "a supported type", Got: param.Type}
	}

	if err != nil {
		return Value{}, err
	}

	return Value{VName: param.VName, Type: param.Type, Value: raw}, nil
}

func coerceInteger(param Param, pos int, arg any) (json.RawMessage, error) {
	v, ok := toBig(arg)
	if !ok {
		return nil, &EncodingError{Position: pos, Expected: param.Type, Got: describe(arg)}
	}

	signed := strings.HasPrefix(param.Type, "Int")
	widthStr := strings.TrimPrefix(strings.TrimPrefix(param.Type, "Uint"), "Int")
	width, err := strconv.Atoi(widthStr)
	if err != nil {
		return nil, &EncodingError{Position: pos, Expected: "a supported type", Got: param.Type}
	}

	if !fitsWidth(v, width, signed) {
		return nil, &EncodingError{Position: pos, Expected: param.Type, Got: "out-of-range value " + v.String()}
	}

	return json.Marshal(v.String())
}

func coerceBNum(param Param, pos int, arg any) (json.RawMessage, error) {
	v, ok := toBig(arg)
	if !ok || v.Sign() < 0 {
		return nil, &EncodingError{Position: pos, Expected: param.Type, Got: describe(arg)}
	}
	return json.Marshal(v.String())
}

func coerceByStr(param Param, pos int, arg any) (json.RawMessage, error) {
	var hexStr string

	switch v := arg.(type) {
	case address.Address:
		hexStr = v.Hex()
	case []byte:
		hexStr = hex.EncodeToString(v)
	case string:
		hexStr = strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X"))
		if _, err := hex.DecodeString(hexStr); err != nil {
			return nil, &EncodingError{Position: pos, Expected: param.Type, Got: "non-hex string"}
		}
	default:
		return nil, &EncodingError{Position: pos, Expected: param.Type, Got: describe(arg)}
	}

	if widthStr := strings.TrimPrefix(param.Type, "ByStr"); widthStr != "" {
		width, err := strconv.Atoi(widthStr)
		if err != nil {
			return nil, &EncodingError{Position: pos, Expected: "a supported type", Got: param.Type}
		}
		if len(hexStr) != 2*width {
			return nil, &EncodingError{
				Position: pos,
				Expected: param.Type,
				Got:      fmt.Sprintf("%d-byte value", len(hexStr)/2),
			}
		}
	}

	return json.Marshal("0x" + hexStr)
}

func coerceString(param Param, pos int, arg any) (json.RawMessage, error) {
	s, ok := arg.(string)
	if !ok {
		return nil, &EncodingError{Position: pos, Expected: param.Type, Got: describe(arg)}
	}
	return json.Marshal(s)
}

// coerceBool renders the network's algebraic Bool representation.
func coerceBool(param Param, pos int, arg any) (json.RawMessage, error) {
	b, ok := arg.(bool)
	if !ok {
		return nil, &EncodingError{Position: pos, Expected: param.Type, Got: describe(arg)}
	}

	constructor := "False"
	if b {
		constructor = "True"
	}

	return json.Marshal(map[string]any{
		"constructor": constructor,
		"argtypes":    []string{},
		"arguments":   []string{},
	})
}

func toBig(arg any) (*big.Int, bool) {
	switch v := arg.(type) {
	case *big.Int:
		return new(big.Int).Set(v), true
	case int:
		return big.NewInt(int64(v)), true
	case int64:
		return big.NewInt(v), true
	case uint64:
		return new(big.Int).SetUint64(v), true
	case string:
		b, ok := new(big.Int).SetString(v, 10)
		return b, ok
	default:
		return nil, false
	}
}

func fitsWidth(v *big.Int, width int, signed bool) bool {
	if signed {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
		lower := new(big.Int).Neg(limit)
		return v.Cmp(lower) >= 0 && v.Cmp(limit) < 0
	}
	if v.Sign() < 0 {
		return false
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return v.Cmp(limit) < 0
}

func describe(arg any) string {
	if arg == nil {
		return "nil"
	}
	return fmt.Sprintf("%T value %v", arg, arg)
}
