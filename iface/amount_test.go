package iface

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountArithmetic(t *testing.T) {
	issued := NewAmount(1_000_000)
	burned := NewAmount(250_000)

	left, ok := issued.CheckedSub(burned)
	require.True(t, ok)
	assert.Equal(t, "750000", left.String())

	_, ok = burned.CheckedSub(issued)
	assert.False(t, ok)
	assert.Panics(t, func() { burned.MustSub(issued) })

	var zero Amount
	assert.True(t, zero.IsZero())
	assert.True(t, zero.Add(NewAmount(5)).Equal(NewAmount(5)))
	assert.Equal(t, "1000", SumAmounts(NewAmount(100), NewAmount(250), NewAmount(650)).String())
}

func TestAmountDoesNotOverflow(t *testing.T) {
	top := NewAmount(^uint64(0))
	sum := top.Add(NewAmount(1))
	_, fits := sum.Uint64()
	assert.False(t, fits)
	assert.Equal(t, "18446744073709551616", sum.String())
}

func TestAmountParsing(t *testing.T) {
	a, err := ParseAmount("42")
	require.NoError(t, err)
	assert.Equal(t, "42", a.String())

	_, err = ParseAmount("-1")
	assert.True(t, IsKind(err, KindParse))

	_, err = ParseAmount("abc")
	assert.Equal(t, "IFACE-AMOUNT-002", RuleID(err))

	_, err = AmountFromBig(big.NewInt(-5))
	assert.Equal(t, "IFACE-AMOUNT-001", RuleID(err))

	var b Amount
	require.NoError(t, b.UnmarshalText([]byte("7")))
	assert.Equal(t, "7", b.String())
}

func TestNewAmountChange(t *testing.T) {
	assert.Equal(t, "+5", NewAmountChange(NewAmount(5), NewAmount(10)).String())
	assert.Equal(t, "-5", NewAmountChange(NewAmount(10), NewAmount(5)).String())
	assert.Equal(t, ChangeZero, NewAmountChange(NewAmount(3), NewAmount(3)).Sign)
}
