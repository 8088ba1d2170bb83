// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data model shared across the pipeline stages:
// the normalized Requirement record produced by the ReqIF parser and the
// per-stage configuration structs.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// AttributeKind is the declared value kind of a ReqIF attribute definition.
type AttributeKind string

const (
	KindString      AttributeKind = "string"
	KindXHTML       AttributeKind = "xhtml"
	KindEnumeration AttributeKind = "enumeration"
	KindInteger     AttributeKind = "integer"
	KindBoolean     AttributeKind = "boolean"
	KindDate        AttributeKind = "date"
	KindReal        AttributeKind = "real"
)

// AttributeValue is a tagged union holding one extracted attribute value.
// Exactly one payload field is meaningful for a given Kind: Str for
// string/xhtml (and for date text that did not parse), Int for integer,
// Real for real, Bool for boolean, Date for parsed dates, List for
// multi-valued enumerations. Single-valued enumerations use Str.
type AttributeValue struct {
	Kind AttributeKind

	Str  string
	Int  int64
	Real float64
	Bool bool
	Date time.Time
	List []string
}

// StringValue returns a string-kinded value.
func StringValue(s string) AttributeValue {
	return AttributeValue{Kind: KindString, Str: s}
}

// TextValue returns an xhtml-kinded value holding flattened plain text.
func TextValue(s string) AttributeValue {
	return AttributeValue{Kind: KindXHTML, Str: s}
}

// EnumValue returns an enumeration value: a scalar when one label
// resolved, a list when more than one did.
func EnumValue(labels []string) AttributeValue {
	if len(labels) == 1 {
		return AttributeValue{Kind: KindEnumeration, Str: labels[0]}
	}
	return AttributeValue{Kind: KindEnumeration, List: labels}
}

// IntValue returns an integer-kinded value.
func IntValue(n int64) AttributeValue {
	return AttributeValue{Kind: KindInteger, Int: n}
}

// RealValue returns a real-kinded value.
func RealValue(f float64) AttributeValue {
	return AttributeValue{Kind: KindReal, Real: f}
}

// BoolValue returns a boolean-kinded value.
func BoolValue(b bool) AttributeValue {
	return AttributeValue{Kind: KindBoolean, Bool: b}
}

// DateValue returns a date-kinded value holding a parsed timestamp.
func DateValue(t time.Time) AttributeValue {
	return AttributeValue{Kind: KindDate, Date: t}
}

// RawDateValue returns a date-kinded value whose text did not parse as
// ISO-8601. The literal text is preserved verbatim.
func RawDateValue(s string) AttributeValue {
	return AttributeValue{Kind: KindDate, Str: s}
}

// Value returns the native Go payload: string, int64, float64, bool,
// time.Time, or []string.
func (v AttributeValue) Value() any {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindReal:
		return v.Real
	case KindBoolean:
		return v.Bool
	case KindDate:
		if v.Str != "" {
			return v.Str
		}
		return v.Date
	case KindEnumeration:
		if v.List != nil {
			return v.List
		}
		return v.Str
	default:
		return v.Str
	}
}

// String renders the payload for display.
func (v AttributeValue) String() string {
	switch val := v.Value().(type) {
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case []string:
		return strings.Join(val, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// MarshalJSON emits the native payload, not the union wrapper.
func (v AttributeValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Value())
}

// MarshalYAML emits the native payload, not the union wrapper.
func (v AttributeValue) MarshalYAML() (any, error) {
	if t, ok := v.Value().(time.Time); ok {
		return t.Format(time.RFC3339), nil
	}
	return v.Value(), nil
}

// AttributeMap is an insertion-ordered name→value map. ReqIF declares
// attributes in a meaningful order per type, so the map preserves the
// order in which names were first set.
type AttributeMap struct {
	keys   []string
	values map[string]AttributeValue
}

// Set stores value under name, appending name to the key order on first
// insertion. Setting an existing name overwrites in place.
func (m *AttributeMap) Set(name string, value AttributeValue) {
	if m.values == nil {
		m.values = make(map[string]AttributeValue)
	}
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = value
}

// Get returns the value stored under name.
func (m *AttributeMap) Get(name string) (AttributeValue, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Has reports whether name is present.
func (m *AttributeMap) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Len returns the number of stored attributes.
func (m *AttributeMap) Len() int { return len(m.keys) }

// Keys returns the attribute names in insertion order.
func (m *AttributeMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// MarshalJSON emits an object with keys in insertion order.
func (m AttributeMap) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// MarshalYAML emits a mapping node with keys in insertion order.
func (m AttributeMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range m.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: k}
		valNode := &yaml.Node{}
		payload, err := m.values[k].MarshalYAML()
		if err != nil {
			return nil, err
		}
		if err := valNode.Encode(payload); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// Relation is a typed traceability edge between two requirements. One
// end may be empty when the source document only resolved the other.
type Relation struct {
	// Source is the identifier of the relation's origin requirement.
	Source string `json:"source" yaml:"source"`

	// Target is the identifier of the relation's destination requirement.
	Target string `json:"target" yaml:"target"`

	// Type is the human-readable relation type label.
	Type string `json:"type" yaml:"type"`
}

// Attachment is a binary payload embedded in a requirement, decoded
// from base64 where possible and kept as raw bytes otherwise.
type Attachment struct {
	// Name identifies the attachment (object name or MIME type hint).
	Name string `json:"name" yaml:"name"`

	// Data is the decoded payload.
	Data []byte `json:"data" yaml:"data"`
}

// Requirement is one normalized ReqIF artifact. IDs are unique within a
// parsed collection; duplicates in the source are merged during assembly.
type Requirement struct {
	// ID is the requirement identifier (e.g. "REQ-001").
	ID string `json:"id" yaml:"id"`

	// Title is the requirement title, inferred when no attribute matches.
	Title string `json:"title" yaml:"title"`

	// Description is the requirement body text.
	Description string `json:"description" yaml:"description"`

	// Attributes holds the resolved custom fields in declaration order.
	Attributes AttributeMap `json:"attributes" yaml:"attributes"`

	// Children lists identifiers of direct hierarchy children.
	Children []string `json:"children,omitempty" yaml:"children,omitempty"`

	// Parent is the identifier of the hierarchy parent, empty for roots.
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`

	// Links lists relations in which this requirement participates.
	Links []Relation `json:"links,omitempty" yaml:"links,omitempty"`

	// Extensions preserves unrecognized vendor XML verbatim for audit.
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// Attachments holds decoded binary payloads.
	Attachments []Attachment `json:"attachments,omitempty" yaml:"attachments,omitempty"`
}
