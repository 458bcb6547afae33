// Package strict holds decoded strict-typed state values as an opaque tree.
//
// The binary strict encoding is handled by the contract-state store; values
// reach this module already decoded and are only inspected, never encoded.
// Values can also be written in YAML for fixtures and offline state dumps.
package strict

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind is the shape of a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindNumber
	KindString
	KindBytes
	KindList
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindStruct:
		return "struct"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Field is a named member of a struct value. Struct fields keep declaration
// order.
type Field struct {
	Name  string
	Value Value
}

// Value is an immutable decoded strict value. The zero Value is None.
type Value struct {
	kind   Kind
	num    *big.Int
	str    string
	bytes  []byte
	items  []Value
	fields []Field
}

func None() Value { return Value{} }

func Uint(n uint64) Value { return Value{kind: KindNumber, num: new(big.Int).SetUint64(n)} }

// Number copies n.
func Number(n *big.Int) Value { return Value{kind: KindNumber, num: new(big.Int).Set(n)} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Bytes(b []byte) Value { return Value{kind: KindBytes, bytes: append([]byte(nil), b...)} }

func List(items ...Value) Value {
	return Value{kind: KindList, items: append([]Value(nil), items...)}
}

func Struct(fields ...Field) Value {
	return Value{kind: KindStruct, fields: append([]Field(nil), fields...)}
}

// F is shorthand for building struct fields.
func F(name string, v Value) Field { return Field{Name: name, Value: v} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNone() bool { return v.kind == KindNone }

// Big returns a copy of a number value.
func (v Value) Big() (*big.Int, bool) {
	if v.kind != KindNumber {
		return nil, false
	}
	return new(big.Int).Set(v.num), true
}

// Uint64 returns a number value that fits in uint64.
func (v Value) Uint64() (uint64, bool) {
	if v.kind != KindNumber || v.num.Sign() < 0 || !v.num.IsUint64() {
		return 0, false
	}
	return v.num.Uint64(), true
}

func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) Bytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return append([]byte(nil), v.bytes...), true
}

func (v Value) Items() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]Value(nil), v.items...), true
}

func (v Value) Fields() ([]Field, bool) {
	if v.kind != KindStruct {
		return nil, false
	}
	return append([]Field(nil), v.fields...), true
}

// Field looks up a struct member. A missing member of a struct reads as
// None with ok set to false.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindStruct {
		return Value{}, false
	}
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Equal reports deep equality.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindNumber:
		return v.num.Cmp(o.num) == 0
	case KindString:
		return v.str == o.str
	case KindBytes:
		return string(v.bytes) == string(o.bytes)
	case KindList:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i].Name != o.fields[i].Name || !v.fields[i].Value.Equal(o.fields[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindNone:
		sb.WriteString("~")
	case KindNumber:
		sb.WriteString(v.num.String())
	case KindString:
		fmt.Fprintf(sb, "%q", v.str)
	case KindBytes:
		fmt.Fprintf(sb, "0x%x", v.bytes)
	case KindList:
		sb.WriteString("[")
		for i, it := range v.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			it.write(sb)
		}
		sb.WriteString("]")
	case KindStruct:
		sb.WriteString("{")
		for i, f := range v.fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			f.Value.write(sb)
		}
		sb.WriteString("}")
	}
}
