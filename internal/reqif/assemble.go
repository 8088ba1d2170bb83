// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reqif

import (
	"encoding/base64"
	"strings"

	"github.com/pdiddy/reqif-engine/pkg/types"
)

// titleCandidates and descriptionCandidates are the ordered,
// case-insensitive substring candidates for inferring title and
// description when no attribute name matches directly.
var (
	titleCandidates       = []string{"Title", "Name", "Req Title", "Requirement"}
	descriptionCandidates = []string{"Description", "Desc", "Text", "Body", "Content"}
)

// titleCap bounds titles derived from description text.
const titleCap = 80

// recognizedObjectChildren are the SPEC-OBJECT children the assembler
// consumes structurally; anything else is vendor extension material.
var recognizedObjectChildren = map[string]bool{
	"VALUES":         true,
	"TYPE":           true,
	"ALTERNATIVE-ID": true,
	"CHILDREN":       true,
}

// assembleObject builds one Requirement from a SPEC-OBJECT element:
// resolves every attribute value through the fallback chain, infers
// title and description, and optionally captures vendor extensions and
// attachments.
func (x *extractor) assembleObject(obj *Node, cfg types.ParserConfig) types.Requirement {
	id := obj.Attr(identifierAttrs...)
	if id == "" {
		id = "NoID"
	}

	req := types.Requirement{ID: strings.TrimSpace(id)}
	ctx := newObjectContext(objectTypeRef(obj))

	for _, val := range attributeValueNodes(obj) {
		name, kind := x.resolveAttribute(val, ctx, &req.Attributes)
		req.Attributes.Set(name, x.extractValue(val, kind))
	}

	req.Title = matchCandidate(&req.Attributes, titleCandidates)
	req.Description = matchCandidate(&req.Attributes, descriptionCandidates)
	if req.Title == "" && req.Description != "" {
		req.Title = deriveTitle(req.Description)
	}

	if cfg.KeepExtensions {
		req.Extensions = x.collectExtensions(obj)
	}
	if cfg.DecodeAttachments {
		req.Attachments = collectAttachments(obj)
	}

	return req
}

// resolveAttribute resolves a value element to an attribute name and
// kind. When the fallback chain fails the element's own tag kind
// decides: an unresolved string/XHTML value lands on Description if
// that key is still empty, else on Title; any other kind keeps its raw
// tag name so the value is stored rather than dropped.
func (x *extractor) resolveAttribute(val *Node, ctx *objectContext, attrs *types.AttributeMap) (string, types.AttributeKind) {
	if defID := x.resolveDefinition(val, ctx); defID != "" {
		ctx.consumed[defID] = true
		if def, ok := x.defs.Get(defID); ok {
			return def.LongName, def.Kind
		}
		// A reference that matches no catalogued definition still names
		// the attribute; the tag supplies the kind.
		return defID, tagKind(val)
	}

	kind := tagKind(val)
	if kind == types.KindString || kind == types.KindXHTML {
		if !attrs.Has("Description") {
			return "Description", kind
		}
		return "Title", kind
	}
	return val.Local, kind
}

// tagKind classifies a value element by its own tag name.
func tagKind(val *Node) types.AttributeKind {
	if kind, ok := valueElementKinds[val.Local]; ok {
		return kind
	}
	return types.KindString
}

// objectTypeRef resolves the SPEC-OBJECT-TYPE a SPEC-OBJECT declares.
func objectTypeRef(obj *Node) string {
	if ref := obj.Attr("TYPE", "type"); ref != "" {
		return ref
	}
	typeEl := obj.Child("TYPE")
	if typeEl == nil {
		return ""
	}
	for _, child := range typeEl.Children {
		if text := child.TrimmedText(); text != "" {
			return text
		}
	}
	return typeEl.TrimmedText()
}

// matchCandidate returns the value of the first attribute whose name
// contains a candidate, walking candidates in priority order and
// attribute names in insertion order, case-insensitively.
func matchCandidate(attrs *types.AttributeMap, candidates []string) string {
	for _, candidate := range candidates {
		lc := strings.ToLower(candidate)
		for _, key := range attrs.Keys() {
			if strings.Contains(strings.ToLower(key), lc) {
				if v, ok := attrs.Get(key); ok {
					if s := v.String(); s != "" {
						return s
					}
				}
			}
		}
	}
	return ""
}

// deriveTitle takes the first sentence of description, or its first
// line, capped near titleCap characters.
func deriveTitle(description string) string {
	text := strings.TrimSpace(description)
	if idx := strings.IndexAny(text, ".?!"); idx > 0 {
		text = text[:idx+1]
	} else if idx := strings.IndexByte(text, '\n'); idx > 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)
	// Truncate by runes so multi-byte text cannot be split mid-sequence.
	if runes := []rune(text); len(runes) > titleCap {
		text = strings.TrimSpace(string(runes[:titleCap-3])) + "..."
	}
	return text
}

// collectExtensions preserves unrecognized SPEC-OBJECT children as
// verbatim source slices for audit.
func (x *extractor) collectExtensions(obj *Node) []string {
	var out []string
	for _, child := range obj.Children {
		if recognizedObjectChildren[child.Local] || strings.HasPrefix(child.Local, valuePrefix) {
			continue
		}
		if raw := x.doc.Raw(child); raw != "" {
			out = append(out, raw)
		}
	}
	return out
}

// collectAttachments decodes embedded binary payloads. Payload text is
// treated as base64; malformed payloads fall back to the raw bytes so
// a broken export still carries its data through.
func collectAttachments(obj *Node) []types.Attachment {
	var out []types.Attachment
	for _, n := range obj.FindAll("ATTACHMENT") {
		payload := strings.TrimSpace(n.DeepText())
		if payload == "" {
			continue
		}
		name := n.Attr("LONG-NAME", "NAME", "FILENAME", "name")
		if name == "" {
			name = n.Local
		}

		compact := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)

		data, err := base64.StdEncoding.DecodeString(compact)
		if err != nil {
			data = []byte(payload)
		}
		out = append(out, types.Attachment{Name: name, Data: data})
	}
	return out
}

// richerThan reports whether candidate should replace existing when the
// same identifier appears twice: strictly more resolved attributes
// wins; on equal counts a non-empty title or description beats an empty
// one; remaining ties keep the first-seen record. Some exporters emit a
// placeholder stub alongside the fully populated object.
func richerThan(candidate, existing *types.Requirement) bool {
	if candidate.Attributes.Len() != existing.Attributes.Len() {
		return candidate.Attributes.Len() > existing.Attributes.Len()
	}
	if existing.Title == "" && candidate.Title != "" {
		return true
	}
	if existing.Description == "" && candidate.Description != "" {
		return true
	}
	return false
}
