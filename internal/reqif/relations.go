// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reqif

import (
	"github.com/pdiddy/reqif-engine/pkg/types"
)

// relationElements lists the element names exporters use for
// traceability edges.
var relationElements = []string{"SPEC-RELATION", "SPEC-RELATIONSHIP"}

// buildRelations scans every relation element, resolving source and
// target object references and a type label. Relations with both ends
// unresolved are dropped; one-ended relations are kept so partial
// traceability survives.
func buildRelations(doc *Document, defs *DefinitionCatalog) []types.Relation {
	var out []types.Relation

	for _, element := range relationElements {
		for _, rel := range doc.ElementsByLocal(element) {
			source := endpointRef(rel, "SOURCE", 0)
			target := endpointRef(rel, "TARGET", 1)
			if source == "" && target == "" {
				continue
			}
			out = append(out, types.Relation{
				Source: source,
				Target: target,
				Type:   relationTypeLabel(rel, defs),
			})
		}
	}

	return out
}

// endpointRef resolves one end of a relation: a nested SPEC-OBJECT-REF
// under the named child first, then the child's own text, then an
// attribute of the same name, and as a last resort the nth
// SPEC-OBJECT-REF found anywhere under the relation element.
func endpointRef(rel *Node, name string, ordinal int) string {
	if end := rel.Find(name); end != nil {
		if ref := end.Find("SPEC-OBJECT-REF"); ref != nil && ref.TrimmedText() != "" {
			return ref.TrimmedText()
		}
		if text := end.TrimmedText(); text != "" {
			return text
		}
	}
	if ref := rel.Attr(name); ref != "" {
		return ref
	}

	// Sibling scan: some exporters emit bare SPEC-OBJECT-REF elements in
	// source, target order outside any SOURCE/TARGET wrapper.
	var bare []*Node
	for _, ref := range rel.FindAll("SPEC-OBJECT-REF") {
		if !underEndpoint(ref, rel) {
			bare = append(bare, ref)
		}
	}
	if ordinal < len(bare) {
		return bare[ordinal].TrimmedText()
	}
	return ""
}

// underEndpoint reports whether ref sits below a SOURCE or TARGET
// element within rel.
func underEndpoint(ref, rel *Node) bool {
	for n := ref.Parent; n != nil && n != rel; n = n.Parent {
		if n.Local == "SOURCE" || n.Local == "TARGET" {
			return true
		}
	}
	return false
}

// relationTypeLabel resolves the relation's type label: the referenced
// type id through the definition catalog, then the reference id itself,
// then the element's LONG-NAME, then its tag name.
func relationTypeLabel(rel *Node, defs *DefinitionCatalog) string {
	var refID string
	if typeEl := rel.Find("TYPE"); typeEl != nil {
		for _, child := range typeEl.Children {
			if text := child.TrimmedText(); text != "" {
				refID = text
				break
			}
		}
		if refID == "" {
			refID = typeEl.TrimmedText()
		}
	}
	if refID != "" {
		if def, ok := defs.Get(refID); ok {
			return def.LongName
		}
		return refID
	}
	if name := rel.Attr("LONG-NAME", "long-name"); name != "" {
		return name
	}
	return rel.Local
}
