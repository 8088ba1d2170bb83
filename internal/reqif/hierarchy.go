// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reqif

// Hierarchy holds the parent→children and child→parent maps built from
// the document's SPEC-HIERARCHY trees. Objects without a parent entry
// are implicit roots.
type Hierarchy struct {
	children map[string][]string
	parent   map[string]string
}

// buildHierarchy walks every SPEC-HIERARCHY node in document order,
// resolving the node's object reference and registering each direct
// CHILDREN entry under it.
func buildHierarchy(doc *Document) *Hierarchy {
	h := &Hierarchy{
		children: make(map[string][]string),
		parent:   make(map[string]string),
	}

	for _, node := range doc.ElementsByLocal("SPEC-HIERARCHY") {
		parentID := hierarchyObjectRef(node)
		if parentID == "" {
			continue
		}
		childrenEl := node.Child("CHILDREN")
		if childrenEl == nil {
			continue
		}
		for _, childNode := range childrenEl.ChildrenNamed("SPEC-HIERARCHY") {
			childID := hierarchyObjectRef(childNode)
			if childID == "" || childID == parentID {
				continue
			}
			h.children[parentID] = append(h.children[parentID], childID)
			h.parent[childID] = parentID
		}
	}

	return h
}

// hierarchyObjectRef resolves the SPEC-OBJECT a hierarchy node points
// at: an OBJECT attribute, then a nested OBJECT/SPEC-OBJECT-REF, then a
// direct SPEC-OBJECT-REF child. The CHILDREN subtree is never searched
// so nested nodes cannot shadow their parent's reference.
func hierarchyObjectRef(n *Node) string {
	if ref := n.Attr("OBJECT", "object"); ref != "" {
		return ref
	}
	if obj := n.Child("OBJECT"); obj != nil {
		if ref := obj.Find("SPEC-OBJECT-REF"); ref != nil && ref.TrimmedText() != "" {
			return ref.TrimmedText()
		}
		if text := obj.TrimmedText(); text != "" {
			return text
		}
	}
	if ref := n.Child("SPEC-OBJECT-REF"); ref != nil {
		return ref.TrimmedText()
	}
	return ""
}

// ChildrenOf returns the direct children of id in registration order.
func (h *Hierarchy) ChildrenOf(id string) []string {
	return h.children[id]
}

// ParentOf returns the registered parent of id.
func (h *Hierarchy) ParentOf(id string) (string, bool) {
	p, ok := h.parent[id]
	return p, ok
}
