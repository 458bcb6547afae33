package rgb20

import (
	"fmt"
	"iter"

	log "github.com/sirupsen/logrus"

	"lnp-bp.org/rgbiface/compliance"
	"lnp-bp.org/rgbiface/fragment"
	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/internal/accessor"
	"lnp-bp.org/rgbiface/stl"
)

var logger = log.WithFields(log.Fields{"prefix": "rgb20"})

// Options control Wrap.
type Options struct {
	Mode compliance.ComplianceMode
}

// Rgb20 is the typed view of a contract bound to an RGB20 interface.
//
// Getters for mandatory state panic when the bound interface does not
// declare it or the store holds an undecodable value; use Wrap with
// compliance.Strict to catch the first case up front.
type Rgb20 struct {
	c iface.ContractIface
}

// slots read by the mandatory getters.
var requiredSlots = []accessor.Slot{
	{Name: fragment.GlobalSpec, Global: true},
	{Name: fragment.GlobalTerms, Global: true},
	{Name: fragment.GlobalIssuedSupply, Global: true},
	{Name: fragment.AssignAssetOwner, Kind: iface.StateFungible},
}

// Wrap binds c as an RGB20 contract.
func Wrap(c iface.ContractIface, opts Options) (Rgb20, error) {
	if opts.Mode == compliance.Strict {
		if err := Check(c.Iface); err != nil {
			logger.WithFields(log.Fields{"iface": c.Iface.Name, "contract": c.Info.ID}).Debugf("rejecting interface: %v", err)
			return Rgb20{}, err
		}
	}
	return Rgb20{c: c}, nil
}

// Check is the structural conformance test run by strict wrapping: the
// interface declares every slot the getters read, its capability markers
// are consistent and it is exactly the composition of the features it
// exhibits.
func Check(i iface.Iface) error {
	if err := accessor.CheckSlots(i, IfaceName, requiredSlots); err != nil {
		return err
	}
	f, err := ExtractFeatures(i)
	if err != nil {
		return err
	}
	got, err := i.CanonicalID()
	if err != nil {
		return err
	}
	if want := IfaceID(f); want != got {
		return iface.NewError(iface.KindSchema, "RGB20-WRAP-001",
			fmt.Sprintf("interface %s (%s) is not the RGB20 composition for %s (%s)", i.Name, got, f, want))
	}
	return nil
}

// Contract returns the underlying binding.
func (r Rgb20) Contract() iface.ContractIface { return r.c }

// Features recovers the capability selection of the bound interface.
func (r Rgb20) Features() (Features, error) {
	f, err := ExtractFeatures(r.c.Iface)
	if err != nil {
		logger.WithField("iface", r.c.Iface.Name).Debugf("inconsistent capabilities: %v", err)
	}
	return f, err
}

// Spec decodes the first `spec` global. It panics if the slot is absent.
func (r Rgb20) Spec() stl.AssetSpec {
	v := accessor.MustFirst(r.c, IfaceName, fragment.GlobalSpec)
	return accessor.MustDecode(IfaceName, fragment.GlobalSpec, v, stl.AssetSpecFromStrict)
}

// ContractTerms decodes the first `terms` global. It panics if the slot is absent.
func (r Rgb20) ContractTerms() stl.ContractTerms {
	v := accessor.MustFirst(r.c, IfaceName, fragment.GlobalTerms)
	return accessor.MustDecode(IfaceName, fragment.GlobalTerms, v, stl.ContractTermsFromStrict)
}

// TotalIssuedSupply sums every issuedSupply entry (genesis plus secondary
// issues).
func (r Rgb20) TotalIssuedSupply() iface.Amount {
	return accessor.MustSum(IfaceName, fragment.GlobalIssuedSupply,
		accessor.MustGlobal(r.c, IfaceName, fragment.GlobalIssuedSupply))
}

// TotalBurnedSupply is zero for interfaces without burning.
func (r Rgb20) TotalBurnedSupply() iface.Amount {
	return accessor.MustSum(IfaceName, fragment.GlobalBurnedSupply,
		accessor.OptionalGlobal(r.c, fragment.GlobalBurnedSupply))
}

// TotalReplacedSupply is zero for interfaces without replacement.
func (r Rgb20) TotalReplacedSupply() iface.Amount {
	return accessor.MustSum(IfaceName, fragment.GlobalReplacedSupply,
		accessor.OptionalGlobal(r.c, fragment.GlobalReplacedSupply))
}

// TotalSupply is issued minus burned supply. It panics if more was burned
// than issued, which only a corrupt state can report.
func (r Rgb20) TotalSupply() iface.Amount {
	issued, burned := r.TotalIssuedSupply(), r.TotalBurnedSupply()
	left, ok := issued.CheckedSub(burned)
	if !ok {
		panic(fmt.Sprintf("RGB20 contract %s burned %s out of %s issued", r.c.Info.ID, burned, issued))
	}
	return left
}

// Balance sums the `assetOwner` allocations passing filter.
func (r Rgb20) Balance(filter iface.OutpointFilter) iface.Amount {
	return accessor.Balance(r.Allocations(filter))
}

// Allocations enumerates `assetOwner` allocations passing filter.
func (r Rgb20) Allocations(filter iface.OutpointFilter) iter.Seq[iface.FungibleAllocation] {
	return accessor.MustFungible(r.c, IfaceName, fragment.AssignAssetOwner, filter)
}

// InflationAllowanceAllocations enumerates `inflationAllowance`; it panics
// unless the interface is inflatable.
func (r Rgb20) InflationAllowanceAllocations(filter iface.OutpointFilter) iter.Seq[iface.FungibleAllocation] {
	return accessor.MustFungible(r.c, IfaceName, fragment.AssignInflationAllowance, filter)
}

// UpdateRight enumerates `updateRight`; it panics unless the interface is
// renameable.
func (r Rgb20) UpdateRight(filter iface.OutpointFilter) iter.Seq[iface.RightsAllocation] {
	return accessor.MustRights(r.c, IfaceName, fragment.AssignUpdateRight, filter)
}

// BurnEpoch enumerates `burnEpoch`; it panics unless the interface is
// replaceable.
func (r Rgb20) BurnEpoch(filter iface.OutpointFilter) iter.Seq[iface.RightsAllocation] {
	return accessor.MustRights(r.c, IfaceName, fragment.AssignBurnEpoch, filter)
}

// BurnRight enumerates `burnRight`; it panics unless the interface is
// burnable.
func (r Rgb20) BurnRight(filter iface.OutpointFilter) iter.Seq[iface.RightsAllocation] {
	return accessor.MustRights(r.c, IfaceName, fragment.AssignBurnRight, filter)
}

// TransferHistory maps each witness to its net effect on the owner's
// balance, where ownership is given by outpoints.
func (r Rgb20) TransferHistory(witnesses iface.WitnessFilter, outpoints iface.OutpointFilter) map[iface.XWitnessId]iface.IfaceOp[iface.AmountChange] {
	return accessor.MustHistory(r.c, IfaceName, fragment.AssignAssetOwner, witnesses, outpoints)
}

// Info aggregates the asset description.
type Info struct {
	Contract   iface.ContractInfo `json:"contract" yaml:"contract"`
	Ticker     string             `json:"ticker" yaml:"ticker"`
	Name       string             `json:"name" yaml:"name"`
	Details    *string            `json:"details,omitempty" yaml:"details,omitempty"`
	Terms      string             `json:"terms" yaml:"terms"`
	Attachment *stl.Attachment    `json:"attachment,omitempty" yaml:"attachment,omitempty"`
	Precision  stl.Precision      `json:"precision" yaml:"precision"`
	Features   Features           `json:"features" yaml:"features"`
	Issued     iface.Amount       `json:"issued" yaml:"issued"`
	Burned     iface.Amount       `json:"burned" yaml:"burned"`
	Replaced   iface.Amount       `json:"replaced" yaml:"replaced"`
}

// Info collects the description. It fails only when the interface markers
// are inconsistent and panics like the getters it calls.
func (r Rgb20) Info() (Info, error) {
	features, err := r.Features()
	if err != nil {
		return Info{}, err
	}
	spec := r.Spec()
	terms := r.ContractTerms()
	info := Info{
		Contract:   r.c.Info,
		Ticker:     spec.Ticker.String(),
		Name:       spec.Name.String(),
		Terms:      terms.Text,
		Attachment: terms.Media,
		Precision:  spec.Precision,
		Features:   features,
		Issued:     r.TotalIssuedSupply(),
		Burned:     r.TotalBurnedSupply(),
		Replaced:   r.TotalReplacedSupply(),
	}
	if spec.Details != nil {
		d := spec.Details.String()
		info.Details = &d
	}
	return info, nil
}
