package contract

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// DecodedEvent is an event log interpreted against the contract schema.
type DecodedEvent struct {
	Name    string
	Address string
	Fields  map[string]any
}

// DecodeEventLog interprets a raw emitted event against the schema's
// declaration. Field values are converted by declared type: integers and
// BNum to *big.Int, ByStrN to 0x-prefixed hex strings, String to string,
// Bool to bool. A log whose parameters do not line up with the declaration
// yields an EncodingError.
func DecodeEventLog(schema *Schema, raw json.RawMessage) (*DecodedEvent, error) {
	var log EventLog
	if err := json.Unmarshal(raw, &log); err != nil {
		return nil, errors.Wrap(err, "failed to parse event log")
	}

	event, ok := schema.Event(log.EventName)
	if !ok {
		return nil, errors.Errorf("event %q is not declared by contract %q", log.EventName, schema.Name)
	}

	if len(log.Params) != len(event.Params) {
		pos := len(log.Params)
		if len(event.Params) < pos {
			pos = len(event.Params)
		}
		return nil, &EncodingError{
			Position: pos,
			Expected: formatCount(len(event.Params)),
			Got:      formatCount(len(log.Params)),
		}
	}

	fields := make(map[string]any, len(event.Params))
	for i, declared := range event.Params {
		got := log.Params[i]
		if got.VName != declared.VName || got.Type != declared.Type {
			return nil, &EncodingError{
				Position: i,
				Expected: declared.VName + " " + declared.Type,
				Got:      got.VName + " " + got.Type,
			}
		}

		value, err := decodeValue(declared, i, got.Value)
		if err != nil {
			return nil, err
		}
		fields[declared.VName] = value
	}

	return &DecodedEvent{Name: log.EventName, Address: log.Address, Fields: fields}, nil
}

func decodeValue(param Param, pos int, raw json.RawMessage) (any, error) {
	switch {
	case strings.HasPrefix(param.Type, "Uint") || strings.HasPrefix(param.Type, "Int") || param.Type == "BNum":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &EncodingError{Position: pos, Expected: param.Type, Got: string(raw)}
		}
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, &EncodingError{Position: pos, Expected: param.Type, Got: s}
		}
		return v, nil

	case strings.HasPrefix(param.Type, "ByStr"):
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &EncodingError{Position: pos, Expected: param.Type, Got: string(raw)}
		}
		return strings.ToLower(s), nil

	case param.Type == "String":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &EncodingError{Position: pos, Expected: param.Type, Got: string(raw)}
		}
		return s, nil

	case param.Type == "Bool":
		var adt struct {
			Constructor string `json:"constructor"`
		}
		if err := json.Unmarshal(raw, &adt); err != nil {
			return nil, &EncodingError{Position: pos, Expected: param.Type, Got: string(raw)}
		}
		switch adt.Constructor {
		case "True":
			return true, nil
		case "False":
			return false, nil
		default:
			return nil, &EncodingError{Position: pos, Expected: param.Type, Got: adt.Constructor}
		}

	default:
		return nil, &EncodingError{Position: pos, Expected: "a supported type", Got: param.Type}
	}
}

func formatCount(n int) string {
	if n == 1 {
		return "1 parameter"
	}
	return big.NewInt(int64(n)).String() + " parameters"
}
