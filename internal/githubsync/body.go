// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package githubsync

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/reqif-engine/pkg/types"
)

const (
	titleSummaryLen = 72
	bodyFooter      = "_Imported from ReqIF_"
)

// Issue-text id markers. Titles look like "REQ-001: short summary";
// bodies carry a "**Requirement ID:** REQ-001" line.
var (
	titleIDPattern = regexp.MustCompile(`^\s*(REQ[-_0-9A-Za-z]+)[:\s-]`)
	bodyIDPattern  = regexp.MustCompile(`\*\*Requirement ID:\*\*\s*(REQ[-_0-9A-Za-z]+)`)
)

// FormatTitle renders the issue title: the requirement id, a colon, and
// the first 72 characters of its summary text.
func FormatTitle(req *types.Requirement) string {
	text := req.Title
	if text == "" {
		text = req.Description
	}
	short := strings.TrimRight(truncate(strings.TrimSpace(text), titleSummaryLen), " ")
	if short == "" {
		return req.ID
	}
	return fmt.Sprintf("%s: %s", req.ID, short)
}

// FormatBody renders the issue body. The leading requirement-id marker
// is what makes an issue discoverable on later runs, so its exact shape
// matters more than the rest.
func FormatBody(req *types.Requirement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Requirement ID:** %s\n\n", req.ID)

	if req.Description != "" {
		b.WriteString(req.Description)
		b.WriteString("\n\n")
	} else if req.Title != "" {
		b.WriteString(req.Title)
		b.WriteString("\n\n")
	}

	if req.Attributes.Len() > 0 {
		b.WriteString("**Attributes:**\n")
		for _, key := range req.Attributes.Keys() {
			val, _ := req.Attributes.Get(key)
			fmt.Fprintf(&b, "- %s: %s\n", key, val.String())
		}
		b.WriteString("\n")
	}

	if len(req.Links) > 0 {
		b.WriteString("**Links:**\n")
		for _, link := range req.Links {
			fmt.Fprintf(&b, "- %s %s %s\n", link.Source, link.Type, link.Target)
		}
		b.WriteString("\n")
	}

	b.WriteString(bodyFooter)
	return b.String()
}

// ContentHash fingerprints the rendered issue so unchanged requirements
// can be skipped without comparing full bodies.
func ContentHash(req *types.Requirement) string {
	h := sha256.New()
	h.Write([]byte(FormatTitle(req)))
	h.Write([]byte{0})
	h.Write([]byte(FormatBody(req)))
	return hex.EncodeToString(h.Sum(nil))
}

// ParseRequirementID recovers the requirement id from an existing
// issue's title or body, or returns empty when neither carries one.
func ParseRequirementID(title, body string) string {
	if m := titleIDPattern.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := bodyIDPattern.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
