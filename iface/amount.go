package iface

import (
	"fmt"
	"math/big"
)

// Amount is a non-negative token quantity of arbitrary precision. The zero
// value is zero. Amounts are immutable; arithmetic returns new values.
type Amount struct {
	v *big.Int
}

func NewAmount(n uint64) Amount { return Amount{v: new(big.Int).SetUint64(n)} }

// AmountFromBig copies n, rejecting negative values.
func AmountFromBig(n *big.Int) (Amount, error) {
	if n == nil || n.Sign() < 0 {
		return Amount{}, newError(KindParse, "IFACE-AMOUNT-001", fmt.Sprintf("amount must be non-negative, got %v", n))
	}
	return Amount{v: new(big.Int).Set(n)}, nil
}

// ParseAmount parses a decimal amount.
func ParseAmount(s string) (Amount, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, newError(KindParse, "IFACE-AMOUNT-002", fmt.Sprintf("invalid amount %q", s))
	}
	return AmountFromBig(n)
}

func (a Amount) big() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return a.v
}

// Big returns a copy of the amount.
func (a Amount) Big() *big.Int { return new(big.Int).Set(a.big()) }

func (a Amount) IsZero() bool { return a.v == nil || a.v.Sign() == 0 }

func (a Amount) Cmp(b Amount) int { return a.big().Cmp(b.big()) }

func (a Amount) Equal(b Amount) bool { return a.Cmp(b) == 0 }

// Uint64 returns the amount if it fits.
func (a Amount) Uint64() (uint64, bool) {
	if !a.big().IsUint64() {
		return 0, false
	}
	return a.big().Uint64(), true
}

func (a Amount) Add(b Amount) Amount {
	return Amount{v: new(big.Int).Add(a.big(), b.big())}
}

// CheckedSub returns a - b, or false if the result would be negative.
func (a Amount) CheckedSub(b Amount) (Amount, bool) {
	if a.Cmp(b) < 0 {
		return Amount{}, false
	}
	return Amount{v: new(big.Int).Sub(a.big(), b.big())}, true
}

// MustSub returns a - b and panics on underflow.
func (a Amount) MustSub(b Amount) Amount {
	out, ok := a.CheckedSub(b)
	if !ok {
		panic(fmt.Sprintf("amount underflow: %s - %s", a, b))
	}
	return out
}

// SumAmounts adds amounts.
func SumAmounts(amounts ...Amount) Amount {
	sum := new(big.Int)
	for _, a := range amounts {
		sum.Add(sum, a.big())
	}
	return Amount{v: sum}
}

func (a Amount) String() string { return a.big().String() }

func (a Amount) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Amount) UnmarshalText(b []byte) error {
	p, err := ParseAmount(string(b))
	if err != nil {
		return err
	}
	*a = p
	return nil
}

// ChangeSign is the direction of an AmountChange.
type ChangeSign int8

const (
	ChangeDec  ChangeSign = -1
	ChangeZero ChangeSign = 0
	ChangeInc  ChangeSign = 1
)

func (s ChangeSign) String() string {
	switch s {
	case ChangeDec:
		return "dec"
	case ChangeInc:
		return "inc"
	}
	return "zero"
}

// AmountChange is the net effect of an operation on the owner's balance.
type AmountChange struct {
	Sign   ChangeSign
	Amount Amount
}

// NewAmountChange computes received - spent as a signed change.
func NewAmountChange(spent, received Amount) AmountChange {
	switch c := received.Cmp(spent); {
	case c > 0:
		return AmountChange{Sign: ChangeInc, Amount: received.MustSub(spent)}
	case c < 0:
		return AmountChange{Sign: ChangeDec, Amount: spent.MustSub(received)}
	}
	return AmountChange{Sign: ChangeZero}
}

func (c AmountChange) String() string {
	switch c.Sign {
	case ChangeInc:
		return "+" + c.Amount.String()
	case ChangeDec:
		return "-" + c.Amount.String()
	}
	return "0"
}
