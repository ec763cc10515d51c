package contract

import (
	"context"
	"encoding/json"

	"github.com/zilpool/go-zil-wallet/internal/chain/address"
	"github.com/zilpool/go-zil-wallet/internal/chain/provider"
)

// Contract joins a deployed contract's schema, address, and a provider for
// state queries. Transition calls produced by CallData feed the ordinary
// transaction pipeline; the handle itself never submits anything.
type Contract struct {
	schema   *Schema
	addr     address.Address
	provider *provider.Provider
}

// New creates a handle for a deployed contract.
func New(schema *Schema, addr address.Address, p *provider.Provider) *Contract {
	return &Contract{schema: schema, addr: addr, provider: p}
}

// Address returns the contract's address.
func (c *Contract) Address() address.Address { return c.addr }

// Schema returns the declared interface.
func (c *Contract) Schema() *Schema { return c.schema }

// CallData encodes a transition call for use as a transaction data payload.
func (c *Contract) CallData(transition string, args ...any) ([]byte, error) {
	return EncodeCall(c.schema, transition, args)
}

// DecodeEvent interprets a receipt event log against the schema.
func (c *Contract) DecodeEvent(raw json.RawMessage) (*DecodedEvent, error) {
	return DecodeEventLog(c.schema, raw)
}

// State fetches the contract's full mutable state.
func (c *Contract) State(ctx context.Context) (json.RawMessage, error) {
	return c.provider.GetSmartContractState(ctx, c.addr)
}

// SubState fetches one state variable, optionally indexed into nested maps.
func (c *Contract) SubState(ctx context.Context, vname string, indices ...string) (json.RawMessage, error) {
	return c.provider.GetSmartContractSubState(ctx, c.addr, vname, indices)
}

// Code fetches the deployed contract source.
func (c *Contract) Code(ctx context.Context) (string, error) {
	return c.provider.GetSmartContractCode(ctx, c.addr)
}
