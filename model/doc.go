// Package model defines stable boundary types for API layers (CLI output,
// daemons, embedding applications).
//
// Interface identity (canonical bytes and IfaceIds) is unaffected by any
// projection. These structs are the only types intended for direct JSON/YAML
// serialization by consumers.
package model
