package iface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoot() Iface {
	return Iface{
		Name:      "Root",
		Developer: "example.org",
		Globals: map[string]GlobalIface{
			"supply": {SemID: "Test.Amount", Required: true},
		},
		Assignments: map[string]AssignIface{
			"owner": {Kind: StateFungible, Multiple: true},
		},
		Genesis: GenesisIface{
			Globals:     Args{"supply": Once},
			Assignments: Args{"owner": NoneOrMore},
		},
		Transitions: map[string]TransitionIface{
			"transfer": {
				Inputs:            Args{"owner": OneOrMore},
				Assignments:       Args{"owner": OneOrMore},
				DefaultAssignment: "owner",
			},
		},
		Errors:           map[string]string{"MISMATCH": "amounts mismatch"},
		DefaultOperation: "transfer",
	}
}

func testMint() Iface {
	return Iface{
		Name:     "Mint",
		Requires: []string{"global:supply", "assign:owner"},
		Globals: map[string]GlobalIface{
			"supply": {SemID: "Test.Amount", Required: true, Multiple: true},
		},
		Assignments: map[string]AssignIface{
			"allowance": {Kind: StateFungible, Public: true, Multiple: true},
		},
		Transitions: map[string]TransitionIface{
			"issue": {
				Globals:     Args{"supply": Once},
				Inputs:      Args{"allowance": OneOrMore},
				Assignments: Args{"owner": NoneOrMore},
				Errors:      []string{"MISMATCH"},
			},
		},
		Errors: map[string]string{"MISMATCH": "amounts mismatch"},
	}
}

func TestExtendedMergesAndKeepsInputs(t *testing.T) {
	root := testRoot()
	mint := testMint()
	rootID := root.ID()
	mintBytes, err := Render(mint)
	require.NoError(t, err)

	out, err := root.Extended(mint, "RootMint")
	require.NoError(t, err)

	assert.Equal(t, "RootMint", out.Name)
	assert.Equal(t, []string{"Root", "Mint"}, out.Inherits)
	assert.Equal(t, "example.org", out.Developer)
	assert.True(t, out.Globals["supply"].Multiple)
	assert.True(t, out.HasAssignment("allowance"))
	assert.True(t, out.HasTransition("issue"))
	assert.True(t, out.HasTransition("transfer"))
	assert.Empty(t, out.Requires)

	// inputs untouched
	assert.Equal(t, rootID, root.ID())
	again, err := Render(mint)
	require.NoError(t, err)
	assert.Equal(t, mintBytes, again)
	assert.Empty(t, root.Inherits)
}

func TestExtendedIsDeterministic(t *testing.T) {
	a, err := testRoot().Extended(testMint(), "RootMint")
	require.NoError(t, err)
	b, err := testRoot().Extended(testMint(), "RootMint")
	require.NoError(t, err)
	assert.Equal(t, a.ID(), b.ID())
}

func TestExtendedOrderChangesID(t *testing.T) {
	tag := Iface{
		Name:        "Tag",
		Assignments: map[string]AssignIface{"tag": {Kind: StateRights, Public: true}},
	}
	root := testRoot()

	ab := root.ExpectExtended(testMint(), "Step1").ExpectExtended(tag, "Final")
	ba := root.ExpectExtended(tag, "Step1").ExpectExtended(testMint(), "Final")

	assert.Equal(t, []string{"Root", "Mint", "Tag"}, ab.Inherits)
	assert.Equal(t, []string{"Root", "Tag", "Mint"}, ba.Inherits)
	assert.NotEqual(t, ab.ID(), ba.ID())
}

func TestExtendedFailures(t *testing.T) {
	cases := []struct {
		name   string
		base   Iface
		ext    func() Iface
		ruleID string
	}{
		{
			name: "incomplete fragment",
			base: testRoot(),
			ext: func() Iface {
				m := testMint()
				m.Incomplete = true
				return m
			},
			ruleID: "IFACE-SCHEMA-001",
		},
		{
			name: "missing requirement",
			base: testRoot(),
			ext: func() Iface {
				m := testMint()
				m.Requires = append(m.Requires, "transition:burn")
				return m
			},
			ruleID: "IFACE-SCHEMA-002",
		},
		{
			name: "global type conflict",
			base: testRoot(),
			ext: func() Iface {
				m := testMint()
				m.Globals["supply"] = GlobalIface{SemID: "Other.Amount", Required: true, Multiple: true}
				return m
			},
			ruleID: "IFACE-SCHEMA-003",
		},
		{
			name: "weakened required global",
			base: testRoot(),
			ext: func() Iface {
				m := testMint()
				m.Globals["supply"] = GlobalIface{SemID: "Test.Amount", Multiple: true}
				return m
			},
			ruleID: "IFACE-SCHEMA-003",
		},
		{
			name: "assignment kind conflict",
			base: testRoot(),
			ext: func() Iface {
				m := testMint()
				m.Assignments["owner"] = AssignIface{Kind: StateRights, Multiple: true}
				return m
			},
			ruleID: "IFACE-SCHEMA-003",
		},
		{
			name: "relaxed transition argument",
			base: testRoot(),
			ext: func() Iface {
				m := testMint()
				m.Transitions["transfer"] = TransitionIface{Inputs: Args{"owner": NoneOrMore}}
				return m
			},
			ruleID: "IFACE-SCHEMA-004",
		},
		{
			name: "dangling reference",
			base: testRoot(),
			ext: func() Iface {
				m := testMint()
				m.Transitions["issue"] = TransitionIface{Inputs: Args{"ghost": Once}}
				return m
			},
			ruleID: "IFACE-SCHEMA-006",
		},
		{
			name:   "invalid name",
			base:   testRoot(),
			ext:    testMint,
			ruleID: "IFACE-SCHEMA-005",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			name := "Composed"
			if tc.ruleID == "IFACE-SCHEMA-005" {
				name = "bad name"
			}
			out, err := tc.base.Extended(tc.ext(), name)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindSchema), "kind: %v", err)
			assert.Equal(t, tc.ruleID, RuleID(err))
			assert.Empty(t, out.Name, "no partial result")
		})
	}
}

func TestExpectExtendedPanics(t *testing.T) {
	m := testMint()
	m.Incomplete = true
	assert.Panics(t, func() { testRoot().ExpectExtended(m, "X") })
}

func TestCloneIsDeep(t *testing.T) {
	a := testRoot()
	b := a.Clone()
	b.Globals["extra"] = GlobalIface{SemID: "Test.Extra"}
	b.Transitions["transfer"].Inputs["owner"] = Once
	b.Genesis.Globals["supply"] = NoneOrOnce

	assert.False(t, a.HasGlobal("extra"))
	assert.Equal(t, OneOrMore, a.Transitions["transfer"].Inputs["owner"])
	assert.Equal(t, Once, a.Genesis.Globals["supply"])
}

func TestValidateDanglingReferences(t *testing.T) {
	i := testRoot()
	i.DefaultOperation = "missing"
	err := i.Validate()
	require.Error(t, err)
	assert.Equal(t, "IFACE-SCHEMA-006", RuleID(err))

	i = testRoot()
	i.Genesis.Errors = []string{"UNKNOWN"}
	assert.Equal(t, "IFACE-SCHEMA-006", RuleID(i.Validate()))
}

func TestCanonicalIDReportsDanglingReference(t *testing.T) {
	id, err := testRoot().CanonicalID()
	require.NoError(t, err)
	assert.Equal(t, testRoot().ID(), id)

	i := testRoot()
	tr := i.Transitions["transfer"]
	tr.Errors = []string{"UNDECLARED"}
	i.Transitions["transfer"] = tr
	_, err = i.CanonicalID()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindSchema))
	assert.Equal(t, "IFACE-SCHEMA-006", RuleID(err))
	assert.Panics(t, func() { i.ID() })
}
