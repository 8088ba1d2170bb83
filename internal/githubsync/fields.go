// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package githubsync

import (
	"strings"

	"github.com/pdiddy/reqif-engine/pkg/types"
)

// BoardFields projects requirement attributes onto the configured
// project-board field names. A field matches the attribute whose name
// equals it case-insensitively, or failing that the first attribute
// whose name contains it. Fields with no matching attribute are
// omitted.
func BoardFields(req *types.Requirement, fields []string) map[string]string {
	if len(fields) == 0 || req.Attributes.Len() == 0 {
		return nil
	}

	out := make(map[string]string)
	for _, field := range fields {
		if val, ok := matchField(req, field); ok {
			out[field] = val
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func matchField(req *types.Requirement, field string) (string, bool) {
	lower := strings.ToLower(field)

	for _, key := range req.Attributes.Keys() {
		if strings.ToLower(key) == lower {
			val, _ := req.Attributes.Get(key)
			return val.String(), true
		}
	}
	for _, key := range req.Attributes.Keys() {
		if strings.Contains(strings.ToLower(key), lower) {
			val, _ := req.Attributes.Get(key)
			return val.String(), true
		}
	}
	return "", false
}
