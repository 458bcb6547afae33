package model

import (
	"lnp-bp.org/rgbiface/rgb20"
	"lnp-bp.org/rgbiface/rgb25"
)

// BlobRef refers to an interface by its canonical bytes or by id.
// Exactly one of ID or Bytes MUST be set.
//
// JSON note: Bytes are encoded as base64 by encoding/json.
type BlobRef struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Bytes []byte `json:"bytes,omitempty" yaml:"bytes,omitempty"`
}

type ComplianceMode string

const (
	CompliancePermissive ComplianceMode = "permissive"
	ComplianceStrict     ComplianceMode = "strict"
)

// FeatureSummary is the capability selection of a standard interface.
// Exactly one of RGB20 or RGB25 is set.
type FeatureSummary struct {
	Text   string          `json:"text" yaml:"text"`
	Labels []string        `json:"labels" yaml:"labels"`
	RGB20  *rgb20.Features `json:"rgb20,omitempty" yaml:"rgb20,omitempty"`
	RGB25  *rgb25.Features `json:"rgb25,omitempty" yaml:"rgb25,omitempty"`
}

type IfaceSummary struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Class     string         `json:"class" yaml:"class"`
	Family    string         `json:"family" yaml:"family"`
	Developer string         `json:"developer" yaml:"developer"`
	Inherits  []string       `json:"inherits" yaml:"inherits"`
	Features  FeatureSummary `json:"features" yaml:"features"`
	Certified bool           `json:"certified" yaml:"certified"`
}

type DescribeRequest struct {
	Iface BlobRef `json:"iface" yaml:"iface"`
}

type DescribeResponse struct {
	Iface IfaceSummary `json:"iface" yaml:"iface"`
}

// ProjectRequest asks for the typed view of a contract. State is a YAML
// contract-state document. Iface may be omitted when the document names
// its interface.
type ProjectRequest struct {
	Iface      BlobRef        `json:"iface" yaml:"iface"`
	State      []byte         `json:"state" yaml:"state"`
	Compliance ComplianceMode `json:"compliance" yaml:"compliance"`
}

// ProjectResponse carries the family-specific info. Exactly one of RGB20 or
// RGB25 is set.
type ProjectResponse struct {
	Iface IfaceSummary `json:"iface" yaml:"iface"`
	RGB20 *rgb20.Info  `json:"rgb20,omitempty" yaml:"rgb20,omitempty"`
	RGB25 *rgb25.Info  `json:"rgb25,omitempty" yaml:"rgb25,omitempty"`
}
