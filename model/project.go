package model

import (
	"fmt"

	"lnp-bp.org/rgbiface/compliance"
	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/memstate"
	"lnp-bp.org/rgbiface/registry"
	"lnp-bp.org/rgbiface/rgb20"
	"lnp-bp.org/rgbiface/rgb25"
)

// Project binds a contract-state document to an interface and returns the
// typed family view. Missing mandatory state is reported as MISSING_STATE.
func Project(req ProjectRequest, opts Options) (resp *ProjectResponse, err error) {
	doc, err := memstate.Parse(req.State)
	if err != nil {
		return nil, NewError(ErrInvalidState, err.Error())
	}
	state, err := doc.State()
	if err != nil {
		return nil, NewError(ErrInvalidState, err.Error())
	}
	mode, err := compliance.ParseMode(string(req.Compliance))
	if err != nil {
		return nil, NewError(ErrInvalidRequest, err.Error())
	}

	var i iface.Iface
	switch {
	case len(req.Iface.Bytes) > 0 || req.Iface.ID != "":
		if i, err = resolveIface(req.Iface, opts.Library); err != nil {
			return nil, err
		}
		if doc.Iface != nil && *doc.Iface != i.ID() {
			return nil, NewError(ErrIDMismatch, fmt.Sprintf("state is bound to %s, not %s", *doc.Iface, i.ID()))
		}
	case doc.Iface != nil:
		if i, err = fetchIface(*doc.Iface, opts.Library); err != nil {
			return nil, err
		}
	default:
		return nil, NewError(ErrInvalidRequest, "no interface given and the state names none")
	}

	e, err := registry.Classify(i)
	if err != nil {
		return nil, mapErr(err)
	}
	c := iface.ContractIface{State: state, Iface: i, Info: iface.ContractInfo{ID: doc.Contract}}

	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, NewError(ErrMissingState, fmt.Sprint(r))
		}
	}()

	resp = &ProjectResponse{Iface: Summarize(e, opts.Registry)}
	switch e.Family {
	case iface.FamilyFungibleToken:
		w, err := rgb20.Wrap(c, rgb20.Options{Mode: mode})
		if err != nil {
			return nil, mapErr(err)
		}
		info, err := w.Info()
		if err != nil {
			return nil, mapErr(err)
		}
		resp.RGB20 = &info
	case iface.FamilyNamedCollectible:
		w, err := rgb25.Wrap(c, rgb25.Options{Mode: mode})
		if err != nil {
			return nil, mapErr(err)
		}
		info, err := w.Info()
		if err != nil {
			return nil, mapErr(err)
		}
		resp.RGB25 = &info
	}
	return resp, nil
}
