// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reqif

import (
	"github.com/pdiddy/reqif-engine/pkg/types"
)

// Parse loads the document at path and returns its deduplicated
// Requirement collection. The transform is a pure function of the file
// bytes: parsing the same unchanged file twice yields identical output,
// and nothing in the returned records aliases parser state.
func Parse(path string, cfg types.ParserConfig) ([]types.Requirement, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(doc, cfg), nil
}

// ParseDocument converts an already loaded document. A document without
// a REQ-IF-CONTENT element yields an empty collection rather than an
// error, so callers can decide the follow-up.
//
// The conversion is two-phase. Catalogs (definitions, enumerations,
// hierarchy, relations) may be declared anywhere in the document,
// including after the objects that use them, so phase one builds them
// all from full-document scans; phase two resolves each object's
// attributes against the completed catalogs.
func ParseDocument(doc *Document, cfg types.ParserConfig) []types.Requirement {
	if doc.Root == nil || len(doc.ElementsByLocal("REQ-IF-CONTENT")) == 0 {
		return []types.Requirement{}
	}

	defs := buildDefinitionCatalog(doc)
	x := &extractor{
		doc:   doc,
		defs:  defs,
		enums: buildEnumCatalog(doc),
	}
	hierarchy := buildHierarchy(doc)
	relations := buildRelations(doc, defs)

	// Assemble and deduplicate in first-seen order.
	var order []string
	byID := make(map[string]*types.Requirement)
	for _, obj := range doc.ElementsByLocal("SPEC-OBJECT") {
		req := x.assembleObject(obj, cfg)
		existing, seen := byID[req.ID]
		if !seen {
			order = append(order, req.ID)
			r := req
			byID[req.ID] = &r
			continue
		}
		if richerThan(&req, existing) {
			r := req
			byID[req.ID] = &r
		}
	}

	out := make([]types.Requirement, 0, len(order))
	for _, id := range order {
		req := byID[id]
		req.Children = hierarchy.ChildrenOf(id)
		if parent, ok := hierarchy.ParentOf(id); ok {
			req.Parent = parent
		}
		req.Links = linksFor(id, relations)
		out = append(out, *req)
	}
	return out
}

// linksFor filters the document's relations down to those naming id on
// either end.
func linksFor(id string, relations []types.Relation) []types.Relation {
	var out []types.Relation
	for _, rel := range relations {
		if rel.Source == id || rel.Target == id {
			out = append(out, rel)
		}
	}
	return out
}
