// Package fragment is the library of standard interface fragments that the
// RGB20 and RGB25 composers layer onto their bases.
//
// Every constructor returns a fresh value, so callers may not observe each
// other's modifications.
package fragment

import "lnp-bp.org/rgbiface/iface"

// LNPBPIdentity is the developer identity of the standard fragments.
const LNPBPIdentity = "lnp-bp.org"

// Fragment names as recorded in an interface's inherits chain.
const (
	NameNamedAsset    = "NamedAsset"
	NameNamedContract = "NamedContract"
	NameFungible      = "Fungible"
	NameRenameable    = "Renameable"
	NameFixed         = "Fixed"
	NameInflatable    = "Inflatable"
	NameBurnable      = "Burnable"
	NameReplaceable   = "Replaceable"
	NameReservable    = "Reservable"
)

// Transition names probed by feature extraction.
const (
	TransitionTransfer  = "transfer"
	TransitionRename    = "rename"
	TransitionIssue     = "issue"
	TransitionBurn      = "burn"
	TransitionOpenEpoch = "openEpoch"
	TransitionReplace   = "replace"
)

// Global state slots.
const (
	GlobalSpec           = "spec"
	GlobalTerms          = "terms"
	GlobalName           = "name"
	GlobalDetails        = "details"
	GlobalPrecision      = "precision"
	GlobalIssuedSupply   = "issuedSupply"
	GlobalBurnedSupply   = "burnedSupply"
	GlobalReplacedSupply = "replacedSupply"
	GlobalReserves       = "reserves"
)

// Owned state slots.
const (
	AssignAssetOwner         = "assetOwner"
	AssignInflationAllowance = "inflationAllowance"
	AssignUpdateRight        = "updateRight"
	AssignBurnRight          = "burnRight"
	AssignBurnEpoch          = "burnEpoch"
)

const (
	semAmount    = "RGBContract.Amount"
	semAssetSpec = "RGBContract.AssetSpec"
	semTerms     = "RGBContract.ContractTerms"
	semName      = "RGBContract.Name"
	semDetails   = "RGBContract.Details"
	semPrecision = "RGBContract.Precision"
	semBurnMeta  = "RGBContract.BurnMeta"
	semRename    = "RGBContract.AssetNaming"
	semReserves  = "RGBContract.ProofOfReserves"
)

var errorMessages = map[string]string{
	"SUPPLY_MISMATCH":         "supply specified as a global parameter doesn't match the issued supply allocated to the asset owners",
	"NON_EQUAL_AMOUNTS":       "the sum of spent assets doesn't equal to the sum of assets in outputs",
	"ISSUE_EXCEEDS_ALLOWANCE": "you try to issue more assets than allowed by the contract terms",
	"INVALID_PROOF":           "the provided proof is invalid",
	"INSUFFICIENT_COVERAGE":   "the claimed amount of burned assets is larger than the amount of assets covered by the proofs",
}

func errs(names ...string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		out[n] = errorMessages[n]
	}
	return out
}

func base(name string) iface.Iface {
	return iface.Iface{
		Name:        name,
		Developer:   LNPBPIdentity,
		Globals:     map[string]iface.GlobalIface{},
		Assignments: map[string]iface.AssignIface{},
		Genesis: iface.GenesisIface{
			Globals:     iface.Args{},
			Assignments: iface.Args{},
		},
		Transitions: map[string]iface.TransitionIface{},
		Errors:      map[string]string{},
	}
}

func requiredGlobal(sem string) iface.GlobalIface {
	return iface.GlobalIface{SemID: sem, Required: true}
}

// NamedAsset declares the asset specification and terms of a fungible asset.
func NamedAsset() iface.Iface {
	f := base(NameNamedAsset)
	f.Globals[GlobalSpec] = requiredGlobal(semAssetSpec)
	f.Globals[GlobalTerms] = requiredGlobal(semTerms)
	f.Genesis.Globals[GlobalSpec] = iface.Once
	f.Genesis.Globals[GlobalTerms] = iface.Once
	return f
}

// NamedContract declares the naming, precision and terms of a collectible
// contract.
func NamedContract() iface.Iface {
	f := base(NameNamedContract)
	f.Globals[GlobalName] = requiredGlobal(semName)
	f.Globals[GlobalDetails] = iface.GlobalIface{SemID: semDetails}
	f.Globals[GlobalPrecision] = requiredGlobal(semPrecision)
	f.Globals[GlobalTerms] = requiredGlobal(semTerms)
	f.Genesis.Globals[GlobalName] = iface.Once
	f.Genesis.Globals[GlobalDetails] = iface.NoneOrOnce
	f.Genesis.Globals[GlobalPrecision] = iface.Once
	f.Genesis.Globals[GlobalTerms] = iface.Once
	return f
}

// Fungible declares issued supply, asset ownership and transfers.
func Fungible() iface.Iface {
	f := base(NameFungible)
	f.Globals[GlobalIssuedSupply] = requiredGlobal(semAmount)
	f.Assignments[AssignAssetOwner] = iface.AssignIface{Kind: iface.StateFungible, Multiple: true}
	f.Genesis.Globals[GlobalIssuedSupply] = iface.Once
	f.Genesis.Assignments[AssignAssetOwner] = iface.NoneOrMore
	f.Genesis.Errors = []string{"SUPPLY_MISMATCH"}
	f.Transitions[TransitionTransfer] = iface.TransitionIface{
		Inputs:            iface.Args{AssignAssetOwner: iface.OneOrMore},
		Assignments:       iface.Args{AssignAssetOwner: iface.OneOrMore},
		Errors:            []string{"NON_EQUAL_AMOUNTS"},
		DefaultAssignment: AssignAssetOwner,
	}
	f.Errors = errs("SUPPLY_MISMATCH", "NON_EQUAL_AMOUNTS")
	f.DefaultOperation = TransitionTransfer
	return f
}

// Renameable lets the holder of the update right change the asset naming.
func Renameable() iface.Iface {
	f := base(NameRenameable)
	f.Assignments[AssignUpdateRight] = iface.AssignIface{Kind: iface.StateRights, Public: true}
	f.Genesis.Assignments[AssignUpdateRight] = iface.Once
	f.Transitions[TransitionRename] = iface.TransitionIface{
		Metadata:          semRename,
		Inputs:            iface.Args{AssignUpdateRight: iface.Once},
		Assignments:       iface.Args{AssignUpdateRight: iface.NoneOrOnce},
		DefaultAssignment: AssignUpdateRight,
	}
	return f
}

// Fixed pins the supply to what genesis allocates.
func Fixed() iface.Iface {
	f := base(NameFixed)
	f.Requires = []string{"global:" + GlobalIssuedSupply, "assign:" + AssignAssetOwner}
	f.Globals[GlobalIssuedSupply] = requiredGlobal(semAmount)
	f.Assignments[AssignAssetOwner] = iface.AssignIface{Kind: iface.StateFungible, Multiple: true}
	f.Genesis.Assignments[AssignAssetOwner] = iface.OneOrMore
	return f
}

// Inflatable allows secondary issuance against an inflation allowance.
func Inflatable() iface.Iface {
	f := base(NameInflatable)
	f.Requires = []string{"global:" + GlobalIssuedSupply, "assign:" + AssignAssetOwner}
	f.Globals[GlobalIssuedSupply] = iface.GlobalIface{SemID: semAmount, Required: true, Multiple: true}
	f.Assignments[AssignInflationAllowance] = iface.AssignIface{Kind: iface.StateFungible, Public: true, Multiple: true}
	f.Genesis.Assignments[AssignInflationAllowance] = iface.OneOrMore
	f.Transitions[TransitionIssue] = iface.TransitionIface{
		Globals: iface.Args{GlobalIssuedSupply: iface.Once},
		Inputs:  iface.Args{AssignInflationAllowance: iface.OneOrMore},
		Assignments: iface.Args{
			AssignAssetOwner:         iface.NoneOrMore,
			AssignInflationAllowance: iface.NoneOrMore,
		},
		Errors:            []string{"SUPPLY_MISMATCH", "ISSUE_EXCEEDS_ALLOWANCE"},
		DefaultAssignment: AssignAssetOwner,
	}
	f.Errors = errs("SUPPLY_MISMATCH", "ISSUE_EXCEEDS_ALLOWANCE")
	return f
}

// Burnable lets burn right holders destroy assets.
func Burnable() iface.Iface {
	f := base(NameBurnable)
	f.Globals[GlobalBurnedSupply] = iface.GlobalIface{SemID: semAmount, Multiple: true}
	f.Assignments[AssignBurnRight] = iface.AssignIface{Kind: iface.StateRights, Public: true, Multiple: true}
	f.Genesis.Assignments[AssignBurnRight] = iface.OneOrMore
	f.Transitions[TransitionBurn] = iface.TransitionIface{
		Metadata:          semBurnMeta,
		Globals:           iface.Args{GlobalBurnedSupply: iface.Once},
		Inputs:            iface.Args{AssignBurnRight: iface.Once},
		Assignments:       iface.Args{AssignBurnRight: iface.NoneOrMore},
		Errors:            []string{"SUPPLY_MISMATCH", "INVALID_PROOF", "INSUFFICIENT_COVERAGE"},
		DefaultAssignment: AssignBurnRight,
	}
	f.Errors = errs("SUPPLY_MISMATCH", "INVALID_PROOF", "INSUFFICIENT_COVERAGE")
	return f
}

// Replaceable organizes burns into epochs and lets burned assets be
// reissued. It needs both issuance and burning in the base.
func Replaceable() iface.Iface {
	f := base(NameReplaceable)
	f.Requires = []string{
		"transition:" + TransitionIssue,
		"transition:" + TransitionBurn,
		"assign:" + AssignAssetOwner,
		"assign:" + AssignBurnRight,
	}
	f.Globals[GlobalReplacedSupply] = iface.GlobalIface{SemID: semAmount, Multiple: true}
	f.Assignments[AssignBurnEpoch] = iface.AssignIface{Kind: iface.StateRights, Public: true}
	f.Genesis.Assignments[AssignBurnEpoch] = iface.Once
	f.Transitions[TransitionOpenEpoch] = iface.TransitionIface{
		Inputs: iface.Args{AssignBurnEpoch: iface.Once},
		Assignments: iface.Args{
			AssignBurnEpoch: iface.NoneOrOnce,
			AssignBurnRight: iface.Once,
		},
		DefaultAssignment: AssignBurnRight,
	}
	f.Transitions[TransitionReplace] = iface.TransitionIface{
		Metadata: semBurnMeta,
		Globals:  iface.Args{GlobalReplacedSupply: iface.Once},
		Inputs:   iface.Args{AssignBurnRight: iface.Once},
		Assignments: iface.Args{
			AssignAssetOwner: iface.NoneOrMore,
			AssignBurnRight:  iface.NoneOrOnce,
		},
		Errors:            []string{"NON_EQUAL_AMOUNTS", "INVALID_PROOF", "INSUFFICIENT_COVERAGE"},
		DefaultAssignment: AssignAssetOwner,
	}
	f.Errors = errs("NON_EQUAL_AMOUNTS", "INVALID_PROOF", "INSUFFICIENT_COVERAGE")
	return f
}

// Reservable would attach proofs of reserves to issuance. Its structural
// contract is not settled, so it is marked incomplete and every composition
// rejects it.
func Reservable() iface.Iface {
	f := base(NameReservable)
	f.Requires = []string{"transition:" + TransitionIssue}
	f.Globals[GlobalReserves] = iface.GlobalIface{SemID: semReserves, Multiple: true}
	f.Incomplete = true
	return f
}

// All returns every fragment of the library in a stable order.
func All() []iface.Iface {
	return []iface.Iface{
		NamedAsset(), NamedContract(), Fungible(), Renameable(),
		Fixed(), Inflatable(), Burnable(), Replaceable(), Reservable(),
	}
}
