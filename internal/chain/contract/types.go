// Package contract encodes transition calls and decodes emitted events
// against a contract's declared parameter schema. Call payloads use the
// node's JSON data format and feed the same transaction pipeline as plain
// transfers.
package contract

import "encoding/json"

// Param is one named, typed parameter of a transition or event. Types use
// the network's type names: Uint32/64/128/256, Int32/64/128/256, ByStr20
// (and other ByStrN), String, Bool, BNum.
type Param struct {
	VName string `json:"vname"`
	Type  string `json:"type"`
}

// Transition is one callable entry point of a contract.
type Transition struct {
	Name   string  `json:"name"`
	Params []Param `json:"params"`
}

// Event is one event a contract may emit.
type Event struct {
	Name   string  `json:"name"`
	Params []Param `json:"params"`
}

// Schema is the declared interface of a contract: its transitions and
// events, each with an ordered parameter list. Used for encoding and
// decoding only; never persisted.
type Schema struct {
	Name        string       `json:"name"`
	Transitions []Transition `json:"transitions"`
	Events      []Event      `json:"events"`
}

// Transition looks up a transition by name.
func (s *Schema) Transition(name string) (*Transition, bool) {
	for i := range s.Transitions {
		if s.Transitions[i].Name == name {
			return &s.Transitions[i], true
		}
	}
	return nil, false
}

// Event looks up an event by name.
func (s *Schema) Event(name string) (*Event, bool) {
	for i := range s.Events {
		if s.Events[i].Name == name {
			return &s.Events[i], true
		}
	}
	return nil, false
}

// Value is one encoded parameter value in the node's JSON shape.
type Value struct {
	VName string          `json:"vname"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// callData is the JSON payload attached to a transition-call transaction.
type callData struct {
	Tag    string  `json:"_tag"`
	Params []Value `json:"params"`
}

// EventLog is an emitted event as it appears in a receipt.
type EventLog struct {
	EventName string  `json:"_eventname"`
	Address   string  `json:"address"`
	Params    []Value `json:"params"`
}
