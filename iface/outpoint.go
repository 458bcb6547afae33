package iface

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Layer is the settlement layer a seal or witness lives on.
type Layer uint8

const (
	LayerBitcoin Layer = iota
	LayerLiquid
)

func (l Layer) Prefix() string {
	switch l {
	case LayerBitcoin:
		return "bc"
	case LayerLiquid:
		return "lq"
	}
	return fmt.Sprintf("layer%d", uint8(l))
}

func (l Layer) String() string { return l.Prefix() }

func parseLayer(s string) (Layer, bool) {
	switch s {
	case "bc":
		return LayerBitcoin, true
	case "lq":
		return LayerLiquid, true
	}
	return 0, false
}

// Hash32 is a 32-byte hash written as lowercase hex.
type Hash32 [32]byte

func parseHash32(s string) (Hash32, bool) {
	var h Hash32
	if len(s) != 64 {
		return h, false
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, false
	}
	return h, true
}

func (h Hash32) String() string { return hex.EncodeToString(h[:]) }

func (h Hash32) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hash32) UnmarshalText(b []byte) error {
	p, ok := parseHash32(string(b))
	if !ok {
		return newError(KindParse, "IFACE-SEAL-003", fmt.Sprintf("invalid hash %q", b))
	}
	*h = p
	return nil
}

// Txid identifies a witness transaction.
type Txid = Hash32

// XWitnessId is a witness transaction id on a given layer, written
// "bc:<txid>". The zero value means "no witness" (genesis state).
type XWitnessId struct {
	Layer Layer
	Txid  Txid
}

func (w XWitnessId) IsZero() bool { return w == XWitnessId{} }

func (w XWitnessId) String() string {
	if w.IsZero() {
		return "~"
	}
	return w.Layer.Prefix() + ":" + w.Txid.String()
}

// ParseXWitnessId parses "<layer>:<txid>".
func ParseXWitnessId(s string) (XWitnessId, error) {
	l, rest, ok := strings.Cut(s, ":")
	layer, lok := parseLayer(l)
	txid, tok := parseHash32(rest)
	if !ok || !lok || !tok {
		return XWitnessId{}, newError(KindParse, "IFACE-SEAL-001", fmt.Sprintf("invalid witness id %q", s))
	}
	return XWitnessId{Layer: layer, Txid: txid}, nil
}

func (w XWitnessId) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *XWitnessId) UnmarshalText(b []byte) error {
	if string(b) == "~" {
		*w = XWitnessId{}
		return nil
	}
	p, err := ParseXWitnessId(string(b))
	if err != nil {
		return err
	}
	*w = p
	return nil
}

// XOutpoint is a transaction output on a given layer, written
// "bc:<txid>:<vout>".
type XOutpoint struct {
	Layer Layer
	Txid  Txid
	Vout  uint32
}

func (o XOutpoint) String() string {
	return fmt.Sprintf("%s:%s:%d", o.Layer.Prefix(), o.Txid, o.Vout)
}

// ParseXOutpoint parses "<layer>:<txid>:<vout>".
func ParseXOutpoint(s string) (XOutpoint, error) {
	parts := strings.Split(s, ":")
	if len(parts) == 3 {
		layer, lok := parseLayer(parts[0])
		txid, tok := parseHash32(parts[1])
		vout, err := strconv.ParseUint(parts[2], 10, 32)
		if lok && tok && err == nil {
			return XOutpoint{Layer: layer, Txid: txid, Vout: uint32(vout)}, nil
		}
	}
	return XOutpoint{}, newError(KindParse, "IFACE-SEAL-002", fmt.Sprintf("invalid outpoint %q", s))
}

func (o XOutpoint) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *XOutpoint) UnmarshalText(b []byte) error {
	p, err := ParseXOutpoint(string(b))
	if err != nil {
		return err
	}
	*o = p
	return nil
}

// Opid identifies a contract operation.
type Opid = Hash32

// ParseOpid parses a 64-character hex operation id.
func ParseOpid(s string) (Opid, error) {
	h, ok := parseHash32(s)
	if !ok {
		return Opid{}, newError(KindParse, "IFACE-SEAL-003", fmt.Sprintf("invalid operation id %q", s))
	}
	return h, nil
}

// Opout addresses one assigned state: operation, assignment type and index,
// written "<opid>/<type>/<no>".
type Opout struct {
	Op Opid
	Ty uint16
	No uint16
}

func (o Opout) String() string { return fmt.Sprintf("%s/%d/%d", o.Op, o.Ty, o.No) }

// ParseOpout parses "<opid>/<type>/<no>".
func ParseOpout(s string) (Opout, error) {
	parts := strings.Split(s, "/")
	if len(parts) == 3 {
		op, ok := parseHash32(parts[0])
		ty, err1 := strconv.ParseUint(parts[1], 10, 16)
		no, err2 := strconv.ParseUint(parts[2], 10, 16)
		if ok && err1 == nil && err2 == nil {
			return Opout{Op: op, Ty: uint16(ty), No: uint16(no)}, nil
		}
	}
	return Opout{}, newError(KindParse, "IFACE-SEAL-004", fmt.Sprintf("invalid opout %q", s))
}

func (o Opout) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Opout) UnmarshalText(b []byte) error {
	p, err := ParseOpout(string(b))
	if err != nil {
		return err
	}
	*o = p
	return nil
}

// ContractId identifies a contract, written "rgb:<hex>".
type ContractId Hash32

func (c ContractId) String() string { return "rgb:" + Hash32(c).String() }

// ParseContractId parses "rgb:<hex>".
func ParseContractId(s string) (ContractId, error) {
	h, ok := parseHash32(strings.TrimPrefix(s, "rgb:"))
	if !ok || !strings.HasPrefix(s, "rgb:") {
		return ContractId{}, newError(KindParse, "IFACE-SEAL-005", fmt.Sprintf("invalid contract id %q", s))
	}
	return ContractId(h), nil
}

func (c ContractId) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ContractId) UnmarshalText(b []byte) error {
	p, err := ParseContractId(string(b))
	if err != nil {
		return err
	}
	*c = p
	return nil
}
