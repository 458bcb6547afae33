// Package stl defines the typed contract values shared by the standard
// interfaces (tickers, names, precision, asset specs and terms) and decodes
// them from strict values.
package stl

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/strict"
)

func invalid(rule, msg string) error { return iface.NewError(iface.KindParse, rule, msg) }

// Ticker is 1..8 characters: an uppercase letter then uppercase letters or
// digits.
type Ticker string

func NewTicker(s string) (Ticker, error) {
	if len(s) < 1 || len(s) > 8 {
		return "", invalid("STL-TICKER-001", fmt.Sprintf("ticker %q must have 1 to 8 characters", s))
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		upper := c >= 'A' && c <= 'Z'
		digit := c >= '0' && c <= '9'
		if !upper && !(digit && i > 0) {
			return "", invalid("STL-TICKER-002", fmt.Sprintf("ticker %q has invalid character %q", s, c))
		}
	}
	return Ticker(s), nil
}

func (t Ticker) String() string { return string(t) }

// Name is 1..40 printable ASCII characters without surrounding spaces.
type Name string

func NewName(s string) (Name, error) {
	if len(s) < 1 || len(s) > 40 {
		return "", invalid("STL-NAME-001", fmt.Sprintf("name %q must have 1 to 40 characters", s))
	}
	if strings.TrimSpace(s) != s {
		return "", invalid("STL-NAME-002", fmt.Sprintf("name %q has surrounding spaces", s))
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return "", invalid("STL-NAME-002", fmt.Sprintf("name %q is not printable ASCII", s))
		}
	}
	return Name(s), nil
}

func (n Name) String() string { return string(n) }

// Details is a free-form description of 1..255 bytes without control
// characters.
type Details string

func NewDetails(s string) (Details, error) {
	if len(s) < 1 || len(s) > 255 || !utf8.ValidString(s) {
		return "", invalid("STL-DETAILS-001", "details must be 1 to 255 bytes of UTF-8")
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "", invalid("STL-DETAILS-002", "details must not contain control characters")
		}
	}
	return Details(s), nil
}

func (d Details) String() string { return string(d) }

// Precision is the number of decimal digits of the smallest unit, 0..18.
type Precision uint8

const MaxPrecision Precision = 18

var precisionNames = [...]string{
	"indivisible", "deci", "centi", "milli", "deciMilli", "centiMilli",
	"micro", "deciMicro", "centiMicro", "nano", "deciNano", "centiNano",
	"pico", "deciPico", "centiPico", "femto", "deciFemto", "centiFemto", "atto",
}

func NewPrecision(digits uint64) (Precision, error) {
	if digits > uint64(MaxPrecision) {
		return 0, invalid("STL-PRECISION-001", fmt.Sprintf("precision %d exceeds %d", digits, MaxPrecision))
	}
	return Precision(digits), nil
}

// ParsePrecision accepts the digit count or the unit name ("centi").
func ParsePrecision(s string) (Precision, error) {
	for i, n := range precisionNames {
		if strings.EqualFold(n, s) {
			return Precision(i), nil
		}
	}
	d, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, invalid("STL-PRECISION-002", fmt.Sprintf("invalid precision %q", s))
	}
	return NewPrecision(d)
}

func (p Precision) Decimals() uint8 { return uint8(p) }

func (p Precision) String() string {
	if p <= MaxPrecision {
		return precisionNames[p]
	}
	return fmt.Sprintf("Precision(%d)", uint8(p))
}

// AssetSpec describes a fungible asset.
type AssetSpec struct {
	Ticker    Ticker    `json:"ticker" yaml:"ticker"`
	Name      Name      `json:"name" yaml:"name"`
	Details   *Details  `json:"details,omitempty" yaml:"details,omitempty"`
	Precision Precision `json:"precision" yaml:"precision"`
}

// Attachment references off-chain media by type and sha256 digest.
type Attachment struct {
	Type   string   `json:"type" yaml:"type"`
	Digest [32]byte `json:"-" yaml:"-"`
}

func (a Attachment) DigestHex() string { return hex.EncodeToString(a.Digest[:]) }

// ContractTerms are the legal terms of a contract plus optional media.
type ContractTerms struct {
	Text  string      `json:"text" yaml:"text"`
	Media *Attachment `json:"media,omitempty" yaml:"media,omitempty"`
}

func field(v strict.Value, name string) (strict.Value, error) {
	f, ok := v.Field(name)
	if !ok {
		return strict.Value{}, invalid("STL-DECODE-001", fmt.Sprintf("missing field %q", name))
	}
	return f, nil
}

func str(v strict.Value, what string) (string, error) {
	s, ok := v.Str()
	if !ok {
		return "", invalid("STL-DECODE-002", fmt.Sprintf("%s must be a string, got %s", what, v.Kind()))
	}
	return s, nil
}

// TickerFromStrict decodes a ticker.
func TickerFromStrict(v strict.Value) (Ticker, error) {
	s, err := str(v, "ticker")
	if err != nil {
		return "", err
	}
	return NewTicker(s)
}

// NameFromStrict decodes a name.
func NameFromStrict(v strict.Value) (Name, error) {
	s, err := str(v, "name")
	if err != nil {
		return "", err
	}
	return NewName(s)
}

// DetailsFromStrict decodes details.
func DetailsFromStrict(v strict.Value) (Details, error) {
	s, err := str(v, "details")
	if err != nil {
		return "", err
	}
	return NewDetails(s)
}

// PrecisionFromStrict decodes a precision given as a digit count or unit name.
func PrecisionFromStrict(v strict.Value) (Precision, error) {
	if n, ok := v.Uint64(); ok {
		return NewPrecision(n)
	}
	if s, ok := v.Str(); ok {
		return ParsePrecision(s)
	}
	return 0, invalid("STL-DECODE-002", fmt.Sprintf("precision must be a number or unit name, got %s", v.Kind()))
}

// AmountFromStrict decodes a non-negative amount.
func AmountFromStrict(v strict.Value) (iface.Amount, error) {
	n, ok := v.Big()
	if !ok {
		return iface.Amount{}, invalid("STL-DECODE-002", fmt.Sprintf("amount must be a number, got %s", v.Kind()))
	}
	return iface.AmountFromBig(n)
}

// AssetSpecFromStrict decodes {ticker, name, details?, precision}.
func AssetSpecFromStrict(v strict.Value) (AssetSpec, error) {
	var spec AssetSpec
	f, err := field(v, "ticker")
	if err != nil {
		return spec, err
	}
	if spec.Ticker, err = TickerFromStrict(f); err != nil {
		return spec, err
	}
	if f, err = field(v, "name"); err != nil {
		return spec, err
	}
	if spec.Name, err = NameFromStrict(f); err != nil {
		return spec, err
	}
	if d, ok := v.Field("details"); ok && !d.IsNone() {
		details, err := DetailsFromStrict(d)
		if err != nil {
			return spec, err
		}
		spec.Details = &details
	}
	if f, err = field(v, "precision"); err != nil {
		return spec, err
	}
	if spec.Precision, err = PrecisionFromStrict(f); err != nil {
		return spec, err
	}
	return spec, nil
}

// ContractTermsFromStrict decodes {text, media?: {type, digest}}. The digest
// is 32 bytes given as binary or hex.
func ContractTermsFromStrict(v strict.Value) (ContractTerms, error) {
	var terms ContractTerms
	f, err := field(v, "text")
	if err != nil {
		return terms, err
	}
	if terms.Text, err = str(f, "terms text"); err != nil {
		return terms, err
	}
	m, ok := v.Field("media")
	if !ok || m.IsNone() {
		return terms, nil
	}
	var att Attachment
	if f, err = field(m, "type"); err != nil {
		return terms, err
	}
	if att.Type, err = str(f, "media type"); err != nil {
		return terms, err
	}
	if f, err = field(m, "digest"); err != nil {
		return terms, err
	}
	digest, ok := f.Bytes()
	if !ok {
		s, isStr := f.Str()
		if !isStr {
			return terms, invalid("STL-DECODE-002", "media digest must be bytes or hex")
		}
		if digest, err = hex.DecodeString(s); err != nil {
			return terms, invalid("STL-DECODE-003", "media digest is not valid hex")
		}
	}
	if len(digest) != len(att.Digest) {
		return terms, invalid("STL-DECODE-003", fmt.Sprintf("media digest must be %d bytes", len(att.Digest)))
	}
	copy(att.Digest[:], digest)
	terms.Media = &att
	return terms, nil
}
