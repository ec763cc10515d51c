// Package provider exposes typed JSON-RPC operations against a node
// endpoint. Each operation is a single round trip; it performs no retries
// and maps failures into a typed error set: TransportError for
// transport-layer faults, RPCError for node-reported protocol errors, and
// DecodeError for responses of unexpected shape.
package provider

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/zilpool/go-zil-wallet/internal/chain/address"
	"github.com/zilpool/go-zil-wallet/internal/chain/transaction"
)

// Provider is a client for one node endpoint. Safe for concurrent use.
type Provider struct {
	transport Transport
	nextID    atomic.Uint64
}

// Option customizes a Provider.
type Option func(*options)

type options struct {
	transport  Transport
	httpClient *http.Client
}

// WithTransport replaces the default HTTP transport, e.g. with a fake for
// tests or an alternative carrier.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithHTTPClient supplies the http.Client used by the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// New creates a provider for the given endpoint URL.
func New(endpoint string, opts ...Option) *Provider {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	t := o.transport
	if t == nil {
		t = NewHTTPTransport(endpoint, o.httpClient)
	}

	return &Provider{transport: t}
}

// call performs one request and decodes the result into out.
func (p *Provider) call(ctx context.Context, method string, params []any, out any) error {
	req := &Request{
		JSONRPC: "2.0",
		ID:      p.nextID.Add(1),
		Method:  method,
		Params:  params,
	}

	resp, err := p.transport.Do(ctx, req)
	if err != nil {
		return err
	}

	if resp.Error != nil {
		log.Debug().Str("method", method).Int("code", resp.Error.Code).Msg("Node returned rpc error")
		return resp.Error
	}

	if resp.Result == nil {
		return &DecodeError{Method: method, Err: errors.New("response carries neither result nor error")}
	}

	if out != nil {
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return &DecodeError{Method: method, Err: err}
		}
	}

	return nil
}

// GetBalance returns the balance and current on-chain nonce of an account.
func (p *Provider) GetBalance(ctx context.Context, addr address.Address) (*Balance, error) {
	var raw balanceResponse
	if err := p.call(ctx, MethodGetBalance, []any{addr.Hex()}, &raw); err != nil {
		return nil, err
	}

	balance, ok := new(big.Int).SetString(raw.Balance, 10)
	if !ok {
		return nil, &DecodeError{Method: MethodGetBalance, Err: errors.Errorf("balance %q is not a decimal string", raw.Balance)}
	}

	return &Balance{Balance: balance, Nonce: raw.Nonce}, nil
}

// GetCurrentNonce returns the account's current on-chain nonce.
func (p *Provider) GetCurrentNonce(ctx context.Context, addr address.Address) (uint64, error) {
	balance, err := p.GetBalance(ctx, addr)
	if err != nil {
		return 0, err
	}
	return balance.Nonce, nil
}

// CreateTransaction submits a signed transaction and returns the node's
// transaction id. Submission is fire-and-forget; confirmation is the
// tracker's concern.
func (p *Provider) CreateTransaction(ctx context.Context, signed *transaction.SignedTransaction) (*CreateTransactionResult, error) {
	var result CreateTransactionResult
	if err := p.call(ctx, MethodCreateTransaction, []any{signed.Payload()}, &result); err != nil {
		return nil, err
	}

	log.Debug().Str("tran_id", result.TranID).Msg("Transaction accepted by node")
	return &result, nil
}

// GetTransaction fetches a transaction and its receipt by id. An unmined
// hash surfaces as an RPCError with code ErrCodeTxHashNotPresent.
func (p *Provider) GetTransaction(ctx context.Context, txID string) (*TransactionResult, error) {
	var result TransactionResult
	if err := p.call(ctx, MethodGetTransaction, []any{txID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMinimumGasPrice returns the minimum gas price for the current epoch.
func (p *Provider) GetMinimumGasPrice(ctx context.Context) (*big.Int, error) {
	var raw string
	if err := p.call(ctx, MethodGetMinimumGasPrice, []any{}, &raw); err != nil {
		return nil, err
	}

	price, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, &DecodeError{Method: MethodGetMinimumGasPrice, Err: errors.Errorf("gas price %q is not a decimal string", raw)}
	}
	return price, nil
}

// GetNetworkID returns the node's chain id.
func (p *Provider) GetNetworkID(ctx context.Context) (uint32, error) {
	var raw string
	if err := p.call(ctx, MethodGetNetworkID, []any{}, &raw); err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, &DecodeError{Method: MethodGetNetworkID, Err: err}
	}
	return uint32(id), nil
}

// GetSmartContractState returns the full mutable state of a contract as raw
// JSON; interpretation is the caller's concern.
func (p *Provider) GetSmartContractState(ctx context.Context, addr address.Address) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := p.call(ctx, MethodGetSmartContractState, []any{addr.Hex()}, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetSmartContractSubState returns one state variable, optionally drilled
// into by map indices.
func (p *Provider) GetSmartContractSubState(ctx context.Context, addr address.Address, vname string, indices []string) (json.RawMessage, error) {
	if indices == nil {
		indices = []string{}
	}

	var raw json.RawMessage
	if err := p.call(ctx, MethodGetSmartContractSubState, []any{addr.Hex(), vname, indices}, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetSmartContractCode returns the deployed source of a contract.
func (p *Provider) GetSmartContractCode(ctx context.Context, addr address.Address) (string, error) {
	var raw contractCodeResponse
	if err := p.call(ctx, MethodGetSmartContractCode, []any{addr.Hex()}, &raw); err != nil {
		return "", err
	}
	return raw.Code, nil
}
