package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FieldList is the ordered field descriptor sequence of a table schema. On
// the wire it is a list of mappings `[{key: options}, ...]`; decoding keeps
// the key order inside each mapping, so a mapping with several keys yields
// several descriptors in source order.
type FieldList []FieldDescriptor

// Keys returns the descriptor keys in order.
func (l FieldList) Keys() []string {
	keys := make([]string, 0, len(l))
	for _, field := range l {
		keys = append(keys, field.Key)
	}
	return keys
}

// UnmarshalJSON walks the token stream so mapping key order survives.
func (l *FieldList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("model: decode fields: %w", err)
	}

	var out FieldList
	switch tok {
	case json.Delim('['):
		for dec.More() {
			open, err := dec.Token()
			if err != nil {
				return fmt.Errorf("model: decode fields: %w", err)
			}
			if open != json.Delim('{') {
				return fmt.Errorf("model: decode fields: expected object, got %v", open)
			}
			if out, err = decodeJSONMapping(dec, out); err != nil {
				return err
			}
		}
		if _, err := dec.Token(); err != nil {
			return fmt.Errorf("model: decode fields: %w", err)
		}
	case json.Delim('{'):
		if out, err = decodeJSONMapping(dec, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("model: decode fields: expected list or object, got %v", tok)
	}

	*l = out
	return nil
}

// decodeJSONMapping consumes the members of an object whose opening brace
// was already read, including the closing brace.
func decodeJSONMapping(dec *json.Decoder, out FieldList) (FieldList, error) {
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("model: decode field key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("model: decode field key: unexpected token %v", keyTok)
		}
		var opts FieldOptions
		if err := dec.Decode(&opts); err != nil {
			return nil, fmt.Errorf("model: decode field %q: %w", key, err)
		}
		out = append(out, FieldDescriptor{Key: key, Options: opts})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("model: decode fields: %w", err)
	}
	return out, nil
}

// MarshalJSON emits one single-key object per descriptor.
func (l FieldList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	for idx, field := range l {
		if idx > 0 {
			buf.WriteByte(',')
		}
		entry, err := json.Marshal(map[string]FieldOptions{field.Key: field.Options})
		if err != nil {
			return nil, err
		}
		buf.Write(entry)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalYAML reads the node tree directly; yaml mappings are ordered
// there, unlike in decoded Go maps.
func (l *FieldList) UnmarshalYAML(node *yaml.Node) error {
	var out FieldList
	switch node.Kind {
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind != yaml.MappingNode {
				return fmt.Errorf("model: decode fields: line %d: expected mapping", item.Line)
			}
			var err error
			if out, err = decodeYAMLMapping(item, out); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		var err error
		if out, err = decodeYAMLMapping(node, out); err != nil {
			return err
		}
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
		return fmt.Errorf("model: decode fields: line %d: expected list or mapping", node.Line)
	default:
		return fmt.Errorf("model: decode fields: line %d: expected list or mapping", node.Line)
	}
	*l = out
	return nil
}

func decodeYAMLMapping(node *yaml.Node, out FieldList) (FieldList, error) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		var opts FieldOptions
		if err := valueNode.Decode(&opts); err != nil {
			return nil, fmt.Errorf("model: decode field %q: %w", keyNode.Value, err)
		}
		out = append(out, FieldDescriptor{Key: keyNode.Value, Options: opts})
	}
	return out, nil
}

// MarshalYAML emits one single-key mapping per descriptor.
func (l FieldList) MarshalYAML() (any, error) {
	out := make([]map[string]FieldOptions, 0, len(l))
	for _, field := range l {
		out = append(out, map[string]FieldOptions{field.Key: field.Options})
	}
	return out, nil
}
