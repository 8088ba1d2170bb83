// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reqif

// EnumCatalog maps enumeration value identifiers to human-readable
// labels. Unknown ids resolve to the raw id string so enumeration
// values never vanish from the output.
type EnumCatalog struct {
	labels map[string]string
}

// buildEnumCatalog scans both vendor shapes for enumeration values:
// standalone SPEC-ENUMERATION-VALUE elements, and SPECIFIED-VALUES
// children of DATATYPE-DEFINITION-ENUMERATION.
func buildEnumCatalog(doc *Document) *EnumCatalog {
	c := &EnumCatalog{labels: make(map[string]string)}

	for _, n := range doc.ElementsByLocal("SPEC-ENUMERATION-VALUE") {
		c.add(n)
	}

	for _, dt := range doc.ElementsByLocal("DATATYPE-DEFINITION-ENUMERATION") {
		for _, sv := range dt.FindAll("SPECIFIED-VALUES") {
			for _, child := range sv.Children {
				c.add(child)
			}
		}
	}

	return c
}

// add records one enumeration value element: label from LONG-NAME,
// falling back to THE-VALUE text.
func (c *EnumCatalog) add(n *Node) {
	id := n.Attr(identifierAttrs...)
	if id == "" {
		return
	}
	label := n.Attr("LONG-NAME", "long-name")
	if label == "" {
		if tv := n.Find("THE-VALUE"); tv != nil {
			label = tv.TrimmedText()
		}
	}
	if label == "" {
		label = id
	}
	c.labels[id] = label
}

// Label resolves id to its label, or returns id itself when the catalog
// has no entry.
func (c *EnumCatalog) Label(id string) string {
	if label, ok := c.labels[id]; ok {
		return label
	}
	return id
}

// Len returns the number of catalogued enumeration values.
func (c *EnumCatalog) Len() int { return len(c.labels) }
