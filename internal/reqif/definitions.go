// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reqif

import (
	"strings"

	"github.com/pdiddy/reqif-engine/pkg/types"
)

// identifierAttrs lists the attribute names exporters use for element
// identifiers.
var identifierAttrs = []string{"IDENTIFIER", "id", "identifier"}

// definitionKinds maps the seven ATTRIBUTE-DEFINITION-* element names to
// their declared value kinds, in a fixed scan order so catalog builds
// are deterministic.
var definitionKinds = []struct {
	element string
	kind    types.AttributeKind
}{
	{"ATTRIBUTE-DEFINITION-STRING", types.KindString},
	{"ATTRIBUTE-DEFINITION-XHTML", types.KindXHTML},
	{"ATTRIBUTE-DEFINITION-ENUMERATION", types.KindEnumeration},
	{"ATTRIBUTE-DEFINITION-INTEGER", types.KindInteger},
	{"ATTRIBUTE-DEFINITION-BOOLEAN", types.KindBoolean},
	{"ATTRIBUTE-DEFINITION-DATE", types.KindDate},
	{"ATTRIBUTE-DEFINITION-REAL", types.KindReal},
}

// Definition is one attribute definition from the document's catalog.
type Definition struct {
	ID       string
	LongName string
	Kind     types.AttributeKind
}

// DefinitionCatalog indexes attribute definitions by identifier and by
// long name, and records each SPEC-OBJECT-TYPE's attribute ids in
// declared order for type-based inference. Built once per document and
// read-only afterwards.
type DefinitionCatalog struct {
	ids        []string
	byID       map[string]Definition
	byLongName map[string]Definition
	typeAttrs  map[string][]string
}

// buildDefinitionCatalog scans every known definition element kind in
// the document.
func buildDefinitionCatalog(doc *Document) *DefinitionCatalog {
	c := &DefinitionCatalog{
		byID:       make(map[string]Definition),
		byLongName: make(map[string]Definition),
		typeAttrs:  make(map[string][]string),
	}

	for _, dk := range definitionKinds {
		for _, n := range doc.ElementsByLocal(dk.element) {
			id := n.Attr(identifierAttrs...)
			if id == "" {
				continue
			}
			def := Definition{
				ID:       id,
				LongName: definitionName(n, id),
				Kind:     dk.kind,
			}
			// Type blocks often inline a bare copy of a definition
			// declared elsewhere; never let a nameless duplicate shadow
			// a named entry.
			if prev, dup := c.byID[id]; dup {
				if prev.LongName != prev.ID || def.LongName == def.ID {
					continue
				}
			} else {
				c.ids = append(c.ids, id)
			}
			c.byID[id] = def
			c.byLongName[def.LongName] = def
		}
	}

	// SPEC-OBJECT-TYPE → ordered attribute-definition ids, used later
	// when a value's definition reference cannot be resolved directly.
	for _, st := range doc.ElementsByLocal("SPEC-OBJECT-TYPE") {
		typeID := st.Attr(identifierAttrs...)
		if typeID == "" {
			continue
		}
		specAttrs := st.Child("SPEC-ATTRIBUTES")
		if specAttrs == nil {
			continue
		}
		var ordered []string
		for _, child := range specAttrs.Children {
			if !isDefinitionElement(child.Local) {
				continue
			}
			if id := child.Attr(identifierAttrs...); id != "" {
				ordered = append(ordered, id)
			}
		}
		if len(ordered) > 0 {
			c.typeAttrs[typeID] = ordered
		}
	}

	return c
}

// definitionName resolves a definition's human name: LONG-NAME
// attribute, then an ALTERNATIVE-ID child, then the identifier itself.
func definitionName(n *Node, id string) string {
	if name := n.Attr("LONG-NAME", "long-name"); name != "" {
		return name
	}
	if alt := n.Find("ALTERNATIVE-ID"); alt != nil {
		if name := alt.Attr(identifierAttrs...); name != "" {
			return name
		}
		if text := alt.TrimmedText(); text != "" {
			return text
		}
	}
	return id
}

// isDefinitionElement reports whether local names an
// ATTRIBUTE-DEFINITION-* element.
func isDefinitionElement(local string) bool {
	return strings.HasPrefix(local, "ATTRIBUTE-DEFINITION-")
}

// Get returns the definition for id.
func (c *DefinitionCatalog) Get(id string) (Definition, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// GetByLongName returns the definition whose long name equals name.
func (c *DefinitionCatalog) GetByLongName(name string) (Definition, bool) {
	def, ok := c.byLongName[name]
	return def, ok
}

// MatchIDInText returns the first known definition whose id appears as
// a substring of text. Ids are checked in catalog order so the match is
// deterministic.
func (c *DefinitionCatalog) MatchIDInText(text string) (Definition, bool) {
	if text == "" {
		return Definition{}, false
	}
	for _, id := range c.ids {
		if strings.Contains(text, id) {
			return c.byID[id], true
		}
	}
	return Definition{}, false
}

// TypeAttributes returns the ordered attribute-definition ids declared
// by the SPEC-OBJECT-TYPE with the given id.
func (c *DefinitionCatalog) TypeAttributes(typeID string) []string {
	return c.typeAttrs[typeID]
}

// Len returns the number of indexed definitions.
func (c *DefinitionCatalog) Len() int { return len(c.byID) }
