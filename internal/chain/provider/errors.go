package provider

import (
	"fmt"

	"github.com/pkg/errors"
)

// RPC error codes the node is known to report.
const (
	// ErrCodeTxHashNotPresent is returned by GetTransaction for a hash the
	// node has not (yet) included in a block.
	ErrCodeTxHashNotPresent = -20
)

// TransportError wraps a transport-layer failure: refused connections,
// timeouts, TLS failures, or non-2xx HTTP responses. The request may or may
// not have reached the node.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransportError reports whether err is a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// RPCError is a well-formed protocol-level error object returned by the
// node: unknown method, invalid params, or a node-reported fault.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// AsRPCError unwraps err into an RPCError, or returns nil.
func AsRPCError(err error) *RPCError {
	var re *RPCError
	if errors.As(err, &re) {
		return re
	}
	return nil
}

// HasRPCErrorCode reports whether err is an RPCError with the given code.
func HasRPCErrorCode(err error, code int) bool {
	re := AsRPCError(err)
	return re != nil && re.Code == code
}

// DecodeError indicates a response whose shape did not match the protocol:
// unparseable JSON, a missing result, or a result of an unexpected type.
type DecodeError struct {
	Method string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v", e.Method, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err is a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
