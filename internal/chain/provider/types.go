package provider

import (
	"encoding/json"
	"math/big"
)

// Method names fixed by the node API contract.
const (
	MethodGetBalance               = "GetBalance"
	MethodCreateTransaction        = "CreateTransaction"
	MethodGetTransaction           = "GetTransaction"
	MethodGetMinimumGasPrice       = "GetMinimumGasPrice"
	MethodGetNetworkID             = "GetNetworkId"
	MethodGetSmartContractState    = "GetSmartContractState"
	MethodGetSmartContractSubState = "GetSmartContractSubState"
	MethodGetSmartContractCode     = "GetSmartContractCode"
)

// Balance is the node's account view: funds in the smallest unit plus the
// current on-chain nonce.
type Balance struct {
	Balance *big.Int
	Nonce   uint64
}

// balanceResponse is the raw GetBalance result; the balance travels as a
// decimal string.
type balanceResponse struct {
	Balance string `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

// CreateTransactionResult is the node's acknowledgement of a submission.
type CreateTransactionResult struct {
	TranID string `json:"TranID"`
	Info   string `json:"Info"`
}

// TransactionResult is the node's record of a transaction, including its
// authoritative receipt once mined.
type TransactionResult struct {
	ID           string   `json:"ID"`
	Version      string   `json:"version"`
	Nonce        string   `json:"nonce"`
	ToAddr       string   `json:"toAddr"`
	SenderPubKey string   `json:"senderPubKey"`
	Amount       string   `json:"amount"`
	GasPrice     string   `json:"gasPrice"`
	GasLimit     string   `json:"gasLimit"`
	Signature    string   `json:"signature"`
	Receipt      *Receipt `json:"receipt"`
}

// Receipt is the node-issued outcome of a mined transaction. The client
// never fabricates one.
type Receipt struct {
	Success       bool            `json:"success"`
	CumulativeGas string          `json:"cumulative_gas"`
	EpochNum      string          `json:"epoch_num"`
	EventLogs     []EventLog      `json:"event_logs,omitempty"`
	Errors        json.RawMessage `json:"errors,omitempty"`
	Exceptions    []Exception     `json:"exceptions,omitempty"`
}

// EventLog is one emitted contract event as reported in a receipt.
type EventLog struct {
	EventName string          `json:"_eventname"`
	Address   string          `json:"address"`
	Params    json.RawMessage `json:"params"`
}

// Exception is a contract-level exception recorded in a receipt.
type Exception struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// contractCodeResponse is the raw GetSmartContractCode result.
type contractCodeResponse struct {
	Code string `json:"code"`
}
