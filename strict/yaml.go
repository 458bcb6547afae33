package strict

import (
	"encoding/base64"
	"fmt"
	"math/big"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a YAML node: integers become numbers, strings
// strings, !!binary bytes, null None, sequences lists and mappings structs
// with fields in document order.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	out, err := fromNode(node)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func fromNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) != 1 {
			return Value{}, fmt.Errorf("line %d: empty document", n.Line)
		}
		return fromNode(n.Content[0])
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return None(), nil
		case "!!int", "!!float":
			// integers wider than 64 bits resolve as floats
			num, ok := new(big.Int).SetString(n.Value, 0)
			if !ok {
				return Value{}, fmt.Errorf("line %d: invalid integer %q", n.Line, n.Value)
			}
			return Value{kind: KindNumber, num: num}, nil
		case "!!str":
			return String(n.Value), nil
		case "!!binary":
			b, err := base64.StdEncoding.DecodeString(n.Value)
			if err != nil {
				return Value{}, fmt.Errorf("line %d: invalid binary: %w", n.Line, err)
			}
			return Value{kind: KindBytes, bytes: b}, nil
		}
		return Value{}, fmt.Errorf("line %d: unsupported scalar %s", n.Line, n.ShortTag())
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			it, err := fromNode(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, it)
		}
		return Value{kind: KindList, items: items}, nil
	case yaml.MappingNode:
		fields := make([]Field, 0, len(n.Content)/2)
		seen := make(map[string]struct{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: struct field names must be scalars", k.Line)
			}
			if _, dup := seen[k.Value]; dup {
				return Value{}, fmt.Errorf("line %d: duplicate field %q", k.Line, k.Value)
			}
			seen[k.Value] = struct{}{}
			fv, err := fromNode(n.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, Field{Name: k.Value, Value: fv})
		}
		return Value{kind: KindStruct, fields: fields}, nil
	}
	return Value{}, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

// MarshalYAML is the inverse of UnmarshalYAML.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.node(), nil
}

func (v Value) node() *yaml.Node {
	switch v.kind {
	case KindNumber:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: v.num.String()}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.str}
	case KindBytes:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!binary", Value: base64.StdEncoding.EncodeToString(v.bytes)}
	case KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range v.items {
			n.Content = append(n.Content, it.node())
		}
		return n
	case KindStruct:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range v.fields {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
				f.Value.node())
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
