package rgb25

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

var logger = log.WithFields(log.Fields{"prefix": "rgb25"})

// known maps every RGB25 composition id to its selection.
var known = func() map[iface.IfaceId]Features {
	out := make(map[iface.IfaceId]Features)
	for _, f := range AllFeatures() {
		out[IfaceID(f)] = f
	}
	return out
}()

// Options control Wrap.
type Options struct {
	Mode compliance.ComplianceMode
}

// Rgb25 is the typed view of a contract bound to an RGB25 interface.
type Rgb25 struct {
	c iface.ContractIface
}

var requiredSlots = []accessor.Slot{
	{Name: fragment.GlobalName, Global: true},
	{Name: fragment.GlobalDetails, Global: true},
	{Name: fragment.GlobalPrecision, Global: true},
	{Name: fragment.GlobalTerms, Global: true},
	{Name: fragment.GlobalIssuedSupply, Global: true},
	{Name: fragment.AssignAssetOwner, Kind: iface.StateFungible},
}

// Wrap binds c as an RGB25 contract. The interface must be one of the RGB25
// compositions in every mode; strict mode also checks the declared slots
// and capability markers.
func Wrap(c iface.ContractIface, opts Options) (Rgb25, error) {
	id, err := c.Iface.CanonicalID()
	if err != nil {
		logger.WithField("iface", c.Iface.Name).Debugf("rejecting interface: %v", err)
		return Rgb25{}, err
	}
	if _, ok := known[id]; !ok {
		logger.WithFields(log.Fields{"iface": c.Iface.Name, "id": id}).Debug("not an RGB25 interface")
		return Rgb25{}, iface.NewError(iface.KindSchema, "RGB25-WRAP-001",
			fmt.Sprintf("interface %s (%s) is not an RGB25 interface", c.Iface.Name, id))
	}
	if opts.Mode == compliance.Strict {
		if err := Check(c.Iface); err != nil {
			return Rgb25{}, err
		}
	}
	return Rgb25{c: c}, nil
}

// Check verifies the slots the getters read are declared and the capability
// markers agree with the composition the interface claims to be.
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
		return iface.NewError(iface.KindSchema, "RGB25-WRAP-002",
			fmt.Sprintf("interface %s (%s) is not the RGB25 composition for %s (%s)", i.Name, got, f, want))
	}
	return nil
}

// Contract returns the underlying binding.
func (r Rgb25) Contract() iface.ContractIface { return r.c }

// Features recovers the capability selection of the bound interface.
func (r Rgb25) Features() (Features, error) {
	f, err := ExtractFeatures(r.c.Iface)
	if err != nil {
		logger.WithField("iface", r.c.Iface.Name).Debugf("inconsistent capabilities: %v", err)
	}
	return f, err
}

// Name decodes the first `name` global. It panics if the slot is absent.
func (r Rgb25) Name() stl.Name {
	v := accessor.MustFirst(r.c, IfaceName, fragment.GlobalName)
	return accessor.MustDecode(IfaceName, fragment.GlobalName, v, stl.NameFromStrict)
}

// Details is nil when the contract carries none.
func (r Rgb25) Details() *stl.Details {
	vals := accessor.MustGlobal(r.c, IfaceName, fragment.GlobalDetails)
	if len(vals) == 0 || vals[0].IsNone() {
		return nil
	}
	d := accessor.MustDecode(IfaceName, fragment.GlobalDetails, vals[0], stl.DetailsFromStrict)
	return &d
}

// Precision decodes the first `precision` global.
func (r Rgb25) Precision() stl.Precision {
	v := accessor.MustFirst(r.c, IfaceName, fragment.GlobalPrecision)
	return accessor.MustDecode(IfaceName, fragment.GlobalPrecision, v, stl.PrecisionFromStrict)
}

// ContractTerms decodes the first `terms` global.
func (r Rgb25) ContractTerms() stl.ContractTerms {
	v := accessor.MustFirst(r.c, IfaceName, fragment.GlobalTerms)
	return accessor.MustDecode(IfaceName, fragment.GlobalTerms, v, stl.ContractTermsFromStrict)
}

// TotalIssuedSupply sums every `issuedSupply` entry.
func (r Rgb25) TotalIssuedSupply() iface.Amount {
	return accessor.MustSum(IfaceName, fragment.GlobalIssuedSupply,
		accessor.MustGlobal(r.c, IfaceName, fragment.GlobalIssuedSupply))
}

// TotalBurnedSupply is zero for non-burnable contracts.
func (r Rgb25) TotalBurnedSupply() iface.Amount {
	return accessor.MustSum(IfaceName, fragment.GlobalBurnedSupply,
		accessor.OptionalGlobal(r.c, fragment.GlobalBurnedSupply))
}

// TotalSupply is issued minus burned supply; it panics on underflow.
func (r Rgb25) TotalSupply() iface.Amount {
	issued, burned := r.TotalIssuedSupply(), r.TotalBurnedSupply()
	left, ok := issued.CheckedSub(burned)
	if !ok {
		panic(fmt.Sprintf("RGB25 contract %s burned %s out of %s issued", r.c.Info.ID, burned, issued))
	}
	return left
}

// Allocations enumerates `assetOwner` allocations passing filter.
func (r Rgb25) Allocations(filter iface.OutpointFilter) iter.Seq[iface.FungibleAllocation] {
	return accessor.MustFungible(r.c, IfaceName, fragment.AssignAssetOwner, filter)
}

// Balance sums the `assetOwner` allocations passing filter.
func (r Rgb25) Balance(filter iface.OutpointFilter) iface.Amount {
	return accessor.Balance(r.Allocations(filter))
}

// BurnRight enumerates `burnRight`; it panics unless the interface is
// burnable.
func (r Rgb25) BurnRight(filter iface.OutpointFilter) iter.Seq[iface.RightsAllocation] {
	return accessor.MustRights(r.c, IfaceName, fragment.AssignBurnRight, filter)
}

// UpdateRight enumerates `updateRight`; it panics unless the interface is
// renameable.
func (r Rgb25) UpdateRight(filter iface.OutpointFilter) iter.Seq[iface.RightsAllocation] {
	return accessor.MustRights(r.c, IfaceName, fragment.AssignUpdateRight, filter)
}

// TransferHistory maps each witness to its net effect on the owner's
// `assetOwner` balance.
func (r Rgb25) TransferHistory(witnesses iface.WitnessFilter, outpoints iface.OutpointFilter) map[iface.XWitnessId]iface.IfaceOp[iface.AmountChange] {
	return accessor.MustHistory(r.c, IfaceName, fragment.AssignAssetOwner, witnesses, outpoints)
}

// Info aggregates the collectible description.
type Info struct {
	Contract   iface.ContractInfo `json:"contract" yaml:"contract"`
	Name       string             `json:"name" yaml:"name"`
	Details    *string            `json:"details,omitempty" yaml:"details,omitempty"`
	Terms      string             `json:"terms" yaml:"terms"`
	Attachment *stl.Attachment    `json:"attachment,omitempty" yaml:"attachment,omitempty"`
	Precision  stl.Precision      `json:"precision" yaml:"precision"`
	Features   Features           `json:"features" yaml:"features"`
	Issued     iface.Amount       `json:"issued" yaml:"issued"`
	Burned     iface.Amount       `json:"burned" yaml:"burned"`
}

// Info collects the description; see Rgb20.Info for the failure modes.
func (r Rgb25) Info() (Info, error) {
	features, err := r.Features()
	if err != nil {
		return Info{}, err
	}
	terms := r.ContractTerms()
	info := Info{
		Contract:   r.c.Info,
		Name:       r.Name().String(),
		Terms:      terms.Text,
		Attachment: terms.Media,
		Precision:  r.Precision(),
		Features:   features,
		Issued:     r.TotalIssuedSupply(),
		Burned:     r.TotalBurnedSupply(),
	}
	if d := r.Details(); d != nil {
		s := d.String()
		info.Details = &s
	}
	return info, nil
}
