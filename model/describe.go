package model

import (
	"fmt"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/registry"
	"lnp-bp.org/rgbiface/rgb20"
	"lnp-bp.org/rgbiface/rgb25"
	"lnp-bp.org/rgbiface/storage"
)

type Options struct {
	// Library resolves interfaces referenced by id.
	Library storage.Library
	// Registry, when set, supplies certification status.
	Registry *registry.Registry
}

// Describe classifies an interface and summarizes it.
func Describe(req DescribeRequest, opts Options) (*DescribeResponse, error) {
	i, err := resolveIface(req.Iface, opts.Library)
	if err != nil {
		return nil, err
	}
	e, err := registry.Classify(i)
	if err != nil {
		return nil, mapErr(err)
	}
	return &DescribeResponse{Iface: Summarize(e, opts.Registry)}, nil
}

func resolveIface(ref BlobRef, lib storage.Library) (iface.Iface, error) {
	if len(ref.Bytes) > 0 && ref.ID != "" {
		return iface.Iface{}, NewError(ErrInvalidRequest, "blob ref has both bytes and id")
	}
	if len(ref.Bytes) > 0 {
		i, err := iface.Parse(ref.Bytes)
		if err != nil {
			return iface.Iface{}, mapErr(err)
		}
		return i, nil
	}
	if ref.ID == "" {
		return iface.Iface{}, NewError(ErrInvalidRequest, "blob ref missing bytes/id")
	}
	id, err := iface.ParseIfaceId(ref.ID)
	if err != nil {
		return iface.Iface{}, &CodedError{Code: ErrInvalidID, RuleID: iface.RuleID(err), Message: err.Error()}
	}
	return fetchIface(id, lib)
}

func fetchIface(id iface.IfaceId, lib storage.Library) (iface.Iface, error) {
	if lib == nil {
		return iface.Iface{}, NewError(ErrMissingLibrary, "interface referenced by id but no library configured")
	}
	b, err := lib.Get(id)
	if err != nil {
		return iface.Iface{}, mapErr(err)
	}
	i, err := iface.Parse(b)
	if err != nil {
		return iface.Iface{}, mapErr(err)
	}
	if i.ID() != id {
		return iface.Iface{}, NewError(ErrIDMismatch, fmt.Sprintf("library returned %s for %s", i.ID(), id))
	}
	return i, nil
}

// Summarize projects a registry entry; reg may be nil.
func Summarize(e registry.Entry, reg *registry.Registry) IfaceSummary {
	s := IfaceSummary{
		ID:        e.ID.String(),
		Name:      e.Iface.Name,
		Class:     e.Family.ClassName(),
		Family:    e.Family.String(),
		Developer: e.Iface.Developer,
		Inherits:  append([]string{}, e.Iface.Inherits...),
		Features: FeatureSummary{
			Labels: append([]string{}, e.Features.Labels()...),
		},
	}
	switch f := e.Features.(type) {
	case rgb20.Features:
		s.Features.Text = f.String()
		s.Features.RGB20 = &f
	case rgb25.Features:
		s.Features.Text = f.String()
		s.Features.RGB25 = &f
	}
	if reg != nil {
		s.Certified, _ = reg.Verify(e.ID)
	}
	return s
}
