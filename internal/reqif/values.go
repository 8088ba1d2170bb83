// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reqif

import (
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/reqif-engine/pkg/types"
)

// valuePrefix is the shared prefix of attribute value elements.
const valuePrefix = "ATTRIBUTE-VALUE-"

// valueElementKinds maps ATTRIBUTE-VALUE-* element names to the value
// kind implied by the tag itself, used both to pick an extraction
// routine when the definition is unknown and for the final tag-kind
// heuristic.
var valueElementKinds = map[string]types.AttributeKind{
	"ATTRIBUTE-VALUE-STRING":      types.KindString,
	"ATTRIBUTE-VALUE-XHTML":       types.KindXHTML,
	"ATTRIBUTE-VALUE-ENUMERATION": types.KindEnumeration,
	"ATTRIBUTE-VALUE-INTEGER":     types.KindInteger,
	"ATTRIBUTE-VALUE-BOOLEAN":     types.KindBoolean,
	"ATTRIBUTE-VALUE-DATE":        types.KindDate,
	"ATTRIBUTE-VALUE-REAL":        types.KindReal,
}

// extractor resolves attribute values against the document's immutable
// catalogs. It holds no per-object state; objectContext carries that.
type extractor struct {
	doc   *Document
	defs  *DefinitionCatalog
	enums *EnumCatalog
}

// objectContext tracks resolution state for one SPEC-OBJECT: its
// declared type and the definition ids already consumed, which
// type-based inference must not reuse.
type objectContext struct {
	typeID   string
	consumed map[string]bool
}

func newObjectContext(typeID string) *objectContext {
	return &objectContext{typeID: typeID, consumed: make(map[string]bool)}
}

// defStrategy is one named step of the definition-resolution fallback
// chain. Strategies run in declaration order; the first id returned
// wins. Keeping them as an explicit list makes the chain auditable and
// each step independently testable.
type defStrategy struct {
	name    string
	resolve func(x *extractor, val *Node, obj *objectContext) string
}

var defStrategies = []defStrategy{
	{"direct-attribute", resolveDirectAttribute},
	{"nested-ref-text", resolveNestedRefText},
	{"nested-ref-attribute", resolveNestedRefAttribute},
	{"fuzzy-id-match", resolveFuzzyIDMatch},
	{"type-inference", resolveTypeInference},
}

// resolveDefinition runs the fallback chain and returns the governing
// definition id, or "" when every strategy fails.
func (x *extractor) resolveDefinition(val *Node, obj *objectContext) string {
	for _, s := range defStrategies {
		if id := s.resolve(x, val, obj); id != "" {
			return id
		}
	}
	return ""
}

// resolveDirectAttribute reads a definition reference carried as an XML
// attribute on the value element itself.
func resolveDirectAttribute(_ *extractor, val *Node, _ *objectContext) string {
	return val.Attr("ATTRIBUTE-DEFINITION", "DEFINITION", "definition")
}

// resolveNestedRefText reads the text of a nested DEFINITION reference
// child (e.g. DEFINITION/ATTRIBUTE-DEFINITION-STRING-REF).
func resolveNestedRefText(_ *extractor, val *Node, _ *objectContext) string {
	def := val.Child("DEFINITION")
	if def == nil {
		return ""
	}
	for _, ref := range def.Children {
		if text := ref.TrimmedText(); text != "" {
			return text
		}
	}
	return def.TrimmedText()
}

// resolveNestedRefAttribute reads a REF/REFID attribute on the nested
// reference child.
func resolveNestedRefAttribute(_ *extractor, val *Node, _ *objectContext) string {
	def := val.Child("DEFINITION")
	if def == nil {
		return ""
	}
	if ref := def.Attr("REF", "REFID"); ref != "" {
		return ref
	}
	for _, child := range def.Children {
		if ref := child.Attr("REF", "REFID"); ref != "" {
			return ref
		}
	}
	return ""
}

// resolveFuzzyIDMatch scans all descendant text for a substring equal
// to a known definition id.
func resolveFuzzyIDMatch(x *extractor, val *Node, _ *objectContext) string {
	if def, ok := x.defs.MatchIDInText(val.DeepText()); ok {
		return def.ID
	}
	return ""
}

// resolveTypeInference walks the owning object's declared type
// attribute list in order and picks the first catalogued id not yet
// consumed for this object.
func resolveTypeInference(x *extractor, _ *Node, obj *objectContext) string {
	if obj == nil || obj.typeID == "" {
		return ""
	}
	for _, id := range x.defs.TypeAttributes(obj.typeID) {
		if obj.consumed[id] {
			continue
		}
		if _, ok := x.defs.Get(id); ok {
			return id
		}
	}
	return ""
}

// extractValue produces a typed value from a value element according to
// the declared kind. Extraction is best-effort: unparsable numeric or
// boolean text degrades to a string value, unparsable dates keep their
// literal text, and nothing raises.
func (x *extractor) extractValue(val *Node, kind types.AttributeKind) types.AttributeValue {
	switch kind {
	case types.KindXHTML:
		return types.TextValue(x.flattenValue(val))
	case types.KindEnumeration:
		return types.EnumValue(x.enumLabels(val))
	case types.KindInteger:
		return parseInteger(valueText(val))
	case types.KindReal:
		return parseReal(valueText(val))
	case types.KindBoolean:
		return parseBoolean(valueText(val))
	case types.KindDate:
		return parseDate(valueText(val))
	default:
		return types.StringValue(valueText(val))
	}
}

// valueText reads the value payload of a value element: a THE-VALUE
// attribute, a THE-VALUE child's text, or the element's own text. Both
// attribute and child encodings occur in the wild.
func valueText(val *Node) string {
	if v := val.Attr("THE-VALUE", "the-value", "the_value"); v != "" {
		return strings.TrimSpace(v)
	}
	if tv := val.Find("THE-VALUE"); tv != nil {
		return tv.TrimmedText()
	}
	return val.TrimmedText()
}

// flattenValue renders an XHTML value as plain text. The markup root is
// the THE-VALUE child when present, else the value element itself; the
// verbatim source slice goes through the flattener so namespace
// prefixes and nesting are handled by a real markup parser.
func (x *extractor) flattenValue(val *Node) string {
	root := val.Find("THE-VALUE")
	if root == nil {
		root = val
	}
	if raw := x.doc.Raw(root); raw != "" {
		return flattenXHTML(raw)
	}
	return normalizeFlattened(root.DeepText())
}

// enumLabels resolves an enumeration value's ids to labels. Values may
// be multi-valued (ENUM-VALUE-REF children under a VALUES container) or
// single-valued (one embedded reference or raw label text). Unknown ids
// keep the raw id as their label.
func (x *extractor) enumLabels(val *Node) []string {
	var ids []string
	for _, ref := range val.FindAll("ENUM-VALUE-REF") {
		if text := ref.TrimmedText(); text != "" {
			ids = append(ids, text)
		}
	}
	if len(ids) == 0 {
		if container := val.Child("VALUES"); container != nil {
			for _, child := range container.Children {
				if text := child.TrimmedText(); text != "" {
					ids = append(ids, text)
				}
			}
		}
	}
	if len(ids) == 0 {
		if text := valueText(val); text != "" {
			ids = append(ids, text)
		}
	}

	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		labels = append(labels, x.enums.Label(id))
	}
	return labels
}

// parseInteger parses text as a base-10 integer, degrading to a string
// value when it does not parse.
func parseInteger(text string) types.AttributeValue {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return types.IntValue(n)
	}
	return types.StringValue(text)
}

// parseReal parses text as a number. Text without a decimal point stays
// an integer; text with one becomes a float. Unparsable text degrades
// to a string value.
func parseReal(text string) types.AttributeValue {
	if !strings.Contains(text, ".") {
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return types.IntValue(n)
		}
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return types.RealValue(f)
	}
	return types.StringValue(text)
}

// parseBoolean accepts true/false/yes/no/1/0 case-insensitively,
// degrading to a string value otherwise.
func parseBoolean(text string) types.AttributeValue {
	switch strings.ToLower(text) {
	case "true", "yes", "1":
		return types.BoolValue(true)
	case "false", "no", "0":
		return types.BoolValue(false)
	}
	return types.StringValue(text)
}

// parseDate parses ISO-8601 text, normalizing a trailing Z to +00:00.
// Unparsable text is kept verbatim; date parsing never fails the parse.
func parseDate(text string) types.AttributeValue {
	normalized := text
	if strings.HasSuffix(normalized, "Z") {
		normalized = strings.TrimSuffix(normalized, "Z") + "+00:00"
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05-07:00",
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, normalized); err == nil {
			return types.DateValue(t)
		}
	}
	return types.RawDateValue(text)
}

// attributeValueNodes collects every ATTRIBUTE-VALUE-* element under
// obj in document order.
func attributeValueNodes(obj *Node) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if strings.HasPrefix(c.Local, valuePrefix) {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(obj)
	return out
}
