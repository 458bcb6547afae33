// Package memstate is an in-memory contract-state store. It backs tests and
// the command line tools, which read contract state dumps written in YAML.
//
// It performs no consensus validation: whatever is loaded is served as is.
package memstate

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/strict"
)

// State holds contract state per slot name. The zero value is an empty
// store; slices are served in order.
type State struct {
	Globals  map[string][]strict.Value
	Fungible map[string][]iface.FungibleAllocation
	Rights   map[string][]iface.RightsAllocation
	History  map[string][]iface.FungibleHistoryEntry
}

var _ iface.ContractState = (*State)(nil)

func New() *State {
	return &State{
		Globals:  map[string][]strict.Value{},
		Fungible: map[string][]iface.FungibleAllocation{},
		Rights:   map[string][]iface.RightsAllocation{},
		History:  map[string][]iface.FungibleHistoryEntry{},
	}
}

func (s *State) GlobalState(name string) []strict.Value { return s.Globals[name] }

func (s *State) FungibleState(name string) iter.Seq[iface.FungibleAllocation] {
	return slices.Values(s.Fungible[name])
}

func (s *State) RightsState(name string) iter.Seq[iface.RightsAllocation] {
	return slices.Values(s.Rights[name])
}

func (s *State) FungibleHistory(name string) iter.Seq[iface.FungibleHistoryEntry] {
	return slices.Values(s.History[name])
}

// AddGlobal appends values to a global slot.
func (s *State) AddGlobal(name string, vals ...strict.Value) *State {
	if s.Globals == nil {
		s.Globals = map[string][]strict.Value{}
	}
	s.Globals[name] = append(s.Globals[name], vals...)
	return s
}

// AddFungible appends allocations to a fungible slot.
func (s *State) AddFungible(name string, allocs ...iface.FungibleAllocation) *State {
	if s.Fungible == nil {
		s.Fungible = map[string][]iface.FungibleAllocation{}
	}
	s.Fungible[name] = append(s.Fungible[name], allocs...)
	return s
}

// AddRights appends rights to a rights slot.
func (s *State) AddRights(name string, rights ...iface.RightsAllocation) *State {
	if s.Rights == nil {
		s.Rights = map[string][]iface.RightsAllocation{}
	}
	s.Rights[name] = append(s.Rights[name], rights...)
	return s
}

// AddHistory appends operations to the history of a fungible slot.
func (s *State) AddHistory(name string, entries ...iface.FungibleHistoryEntry) *State {
	if s.History == nil {
		s.History = map[string][]iface.FungibleHistoryEntry{}
	}
	s.History[name] = append(s.History[name], entries...)
	return s
}

// Document is the YAML form of a contract state dump.
//
//	contract: rgb:<hex>
//	iface: bafkrei...          # optional interface id
//	global:
//	  issuedSupply: [1000000]
//	fungible:
//	  assetOwner:
//	    - {seal: "bc:<txid>:0", amount: 100, witness: "bc:<txid>", opout: "<opid>/0/0"}
//	rights:
//	  updateRight:
//	    - {seal: "bc:<txid>:1"}
//	history:
//	  assetOwner:
//	    - witness: "bc:<txid>"
//	      opid: <hex>
//	      inputs: [{seal: ..., amount: ...}]
//	      outputs: [{seal: ..., amount: ...}]
type Document struct {
	Contract iface.ContractId           `yaml:"contract"`
	Iface    *iface.IfaceId             `yaml:"iface,omitempty"`
	Global   map[string][]strict.Value  `yaml:"global,omitempty"`
	Fungible map[string][]allocationDoc `yaml:"fungible,omitempty"`
	Rights   map[string][]allocationDoc `yaml:"rights,omitempty"`
	History  map[string][]historyDoc    `yaml:"history,omitempty"`
}

type allocationDoc struct {
	Opout   *iface.Opout      `yaml:"opout,omitempty"`
	Seal    iface.XOutpoint   `yaml:"seal"`
	Witness *iface.XWitnessId `yaml:"witness,omitempty"`
	Amount  *iface.Amount     `yaml:"amount,omitempty"`
}

type historyDoc struct {
	Witness iface.XWitnessId `yaml:"witness"`
	Opid    *iface.Opid      `yaml:"opid,omitempty"`
	Inputs  []allocationDoc  `yaml:"inputs,omitempty"`
	Outputs []allocationDoc  `yaml:"outputs,omitempty"`
}

func (a allocationDoc) fungible(slot string, i int) (iface.FungibleAllocation, error) {
	if a.Amount == nil {
		return iface.FungibleAllocation{}, fmt.Errorf("fungible %s[%d]: missing amount", slot, i)
	}
	out := iface.FungibleAllocation{Seal: a.Seal, State: *a.Amount}
	if a.Opout != nil {
		out.Opout = *a.Opout
	}
	if a.Witness != nil {
		out.Witness = *a.Witness
	}
	return out, nil
}

func (a allocationDoc) rights() iface.RightsAllocation {
	out := iface.RightsAllocation{Seal: a.Seal}
	if a.Opout != nil {
		out.Opout = *a.Opout
	}
	if a.Witness != nil {
		out.Witness = *a.Witness
	}
	return out
}

func (a allocationDoc) output(slot string, i int) (iface.FungibleOutput, error) {
	if a.Amount == nil {
		return iface.FungibleOutput{}, fmt.Errorf("history %s[%d]: missing amount", slot, i)
	}
	out := iface.FungibleOutput{Seal: a.Seal, Amount: *a.Amount}
	if a.Opout != nil {
		out.Opout = *a.Opout
	}
	return out, nil
}

// State builds the store described by the document.
func (d Document) State() (*State, error) {
	s := New()
	for name, vals := range d.Global {
		s.AddGlobal(name, vals...)
	}
	for name, docs := range d.Fungible {
		for i, a := range docs {
			alloc, err := a.fungible(name, i)
			if err != nil {
				return nil, err
			}
			s.AddFungible(name, alloc)
		}
	}
	for name, docs := range d.Rights {
		for _, a := range docs {
			s.AddRights(name, a.rights())
		}
	}
	for name, docs := range d.History {
		for i, h := range docs {
			e := iface.FungibleHistoryEntry{Witness: h.Witness}
			if h.Opid != nil {
				e.Opid = *h.Opid
			}
			for _, in := range h.Inputs {
				o, err := in.output(name, i)
				if err != nil {
					return nil, err
				}
				e.Inputs = append(e.Inputs, o)
			}
			for _, out := range h.Outputs {
				o, err := out.output(name, i)
				if err != nil {
					return nil, err
				}
				e.Outputs = append(e.Outputs, o)
			}
			s.AddHistory(name, e)
		}
	}
	return s, nil
}

// Decode reads a YAML state dump. Unknown keys are rejected.
func Decode(r io.Reader) (Document, error) {
	var d Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decode contract state: %w", err)
	}
	return d, nil
}

// Parse is Decode over a byte slice.
func Parse(b []byte) (Document, error) { return Decode(bytes.NewReader(b)) }

// Load reads a YAML state dump from a file.
func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	d, err := Decode(f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
