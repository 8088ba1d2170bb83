// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reqif

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdiddy/reqif-engine/pkg/types"
)

// fullDoc is a small but complete export exercising definitions,
// enumerations, hierarchy, relations, duplicates, and typed values.
const fullDoc = `<?xml version="1.0" encoding="UTF-8"?>
<REQ-IF xmlns="http://www.omg.org/spec/ReqIF/20110401/reqif.xsd">
 <CORE-CONTENT>
  <REQ-IF-CONTENT>
   <DATATYPES>
    <DATATYPE-DEFINITION-ENUMERATION IDENTIFIER="DT-PRIO">
     <SPECIFIED-VALUES>
      <ENUM-VALUE IDENTIFIER="EV-HIGH" LONG-NAME="High"/>
      <ENUM-VALUE IDENTIFIER="EV-URGENT" LONG-NAME="Urgent"/>
      <ENUM-VALUE IDENTIFIER="EV-MED"><THE-VALUE>Medium</THE-VALUE></ENUM-VALUE>
     </SPECIFIED-VALUES>
    </DATATYPE-DEFINITION-ENUMERATION>
   </DATATYPES>
   <SPEC-TYPES>
    <SPEC-OBJECT-TYPE IDENTIFIER="SOT-REQ" LONG-NAME="Software Requirement">
     <SPEC-ATTRIBUTES>
      <ATTRIBUTE-DEFINITION-STRING IDENTIFIER="AD-TITLE" LONG-NAME="Req Title"/>
      <ATTRIBUTE-DEFINITION-XHTML IDENTIFIER="AD-DESC" LONG-NAME="Description"/>
      <ATTRIBUTE-DEFINITION-ENUMERATION IDENTIFIER="AD-PRIO" LONG-NAME="Priority"/>
      <ATTRIBUTE-DEFINITION-INTEGER IDENTIFIER="AD-SP" LONG-NAME="Story Points"/>
      <ATTRIBUTE-DEFINITION-DATE IDENTIFIER="AD-DUE" LONG-NAME="Due Date"/>
     </SPEC-ATTRIBUTES>
    </SPEC-OBJECT-TYPE>
   </SPEC-TYPES>
   <SPEC-OBJECTS>
    <SPEC-OBJECT IDENTIFIER="REQ-1">
     <TYPE><SPEC-OBJECT-TYPE-REF>SOT-REQ</SPEC-OBJECT-TYPE-REF></TYPE>
     <VALUES>
      <ATTRIBUTE-VALUE-STRING THE-VALUE="User login">
       <DEFINITION><ATTRIBUTE-DEFINITION-STRING-REF>AD-TITLE</ATTRIBUTE-DEFINITION-STRING-REF></DEFINITION>
      </ATTRIBUTE-VALUE-STRING>
      <ATTRIBUTE-VALUE-XHTML>
       <DEFINITION><ATTRIBUTE-DEFINITION-XHTML-REF>AD-DESC</ATTRIBUTE-DEFINITION-XHTML-REF></DEFINITION>
       <THE-VALUE><div xmlns="http://www.w3.org/1999/xhtml"><p>A</p><p>B</p></div></THE-VALUE>
      </ATTRIBUTE-VALUE-XHTML>
      <ATTRIBUTE-VALUE-ENUMERATION>
       <DEFINITION><ATTRIBUTE-DEFINITION-ENUMERATION-REF>AD-PRIO</ATTRIBUTE-DEFINITION-ENUMERATION-REF></DEFINITION>
       <VALUES>
        <ENUM-VALUE-REF>EV-HIGH</ENUM-VALUE-REF>
        <ENUM-VALUE-REF>EV-URGENT</ENUM-VALUE-REF>
       </VALUES>
      </ATTRIBUTE-VALUE-ENUMERATION>
      <ATTRIBUTE-VALUE-INTEGER THE-VALUE="8">
       <DEFINITION><ATTRIBUTE-DEFINITION-INTEGER-REF>AD-SP</ATTRIBUTE-DEFINITION-INTEGER-REF></DEFINITION>
      </ATTRIBUTE-VALUE-INTEGER>
     </VALUES>
    </SPEC-OBJECT>
    <SPEC-OBJECT IDENTIFIER="REQ-1"/>
    <SPEC-OBJECT IDENTIFIER="REQ-2">
     <TYPE><SPEC-OBJECT-TYPE-REF>SOT-REQ</SPEC-OBJECT-TYPE-REF></TYPE>
     <VALUES>
      <ATTRIBUTE-VALUE-STRING THE-VALUE="Password reset">
       <DEFINITION><ATTRIBUTE-DEFINITION-STRING-REF>AD-TITLE</ATTRIBUTE-DEFINITION-STRING-REF></DEFINITION>
      </ATTRIBUTE-VALUE-STRING>
      <ATTRIBUTE-VALUE-ENUMERATION>
       <DEFINITION><ATTRIBUTE-DEFINITION-ENUMERATION-REF>AD-PRIO</ATTRIBUTE-DEFINITION-ENUMERATION-REF></DEFINITION>
       <VALUES><ENUM-VALUE-REF>EV-MED</ENUM-VALUE-REF></VALUES>
      </ATTRIBUTE-VALUE-ENUMERATION>
      <ATTRIBUTE-VALUE-DATE THE-VALUE="N/A">
       <DEFINITION><ATTRIBUTE-DEFINITION-DATE-REF>AD-DUE</ATTRIBUTE-DEFINITION-DATE-REF></DEFINITION>
      </ATTRIBUTE-VALUE-DATE>
     </VALUES>
    </SPEC-OBJECT>
    <SPEC-OBJECT IDENTIFIER="REQ-3">
     <VALUES>
      <ATTRIBUTE-VALUE-STRING THE-VALUE="The system shall log out idle sessions. Idle means no input for 15 minutes."/>
     </VALUES>
    </SPEC-OBJECT>
   </SPEC-OBJECTS>
   <SPEC-RELATIONS>
    <SPEC-RELATION IDENTIFIER="REL-1" LONG-NAME="derives">
     <SOURCE><SPEC-OBJECT-REF>REQ-2</SPEC-OBJECT-REF></SOURCE>
     <TARGET><SPEC-OBJECT-REF>REQ-1</SPEC-OBJECT-REF></TARGET>
    </SPEC-RELATION>
   </SPEC-RELATIONS>
   <SPECIFICATIONS>
    <SPECIFICATION IDENTIFIER="SPEC-1">
     <CHILDREN>
      <SPEC-HIERARCHY IDENTIFIER="SH-1">
       <OBJECT><SPEC-OBJECT-REF>REQ-1</SPEC-OBJECT-REF></OBJECT>
       <CHILDREN>
        <SPEC-HIERARCHY IDENTIFIER="SH-2">
         <OBJECT><SPEC-OBJECT-REF>REQ-2</SPEC-OBJECT-REF></OBJECT>
        </SPEC-HIERARCHY>
        <SPEC-HIERARCHY IDENTIFIER="SH-3">
         <OBJECT><SPEC-OBJECT-REF>REQ-3</SPEC-OBJECT-REF></OBJECT>
        </SPEC-HIERARCHY>
       </CHILDREN>
      </SPEC-HIERARCHY>
     </CHILDREN>
    </SPECIFICATION>
   </SPECIFICATIONS>
  </REQ-IF-CONTENT>
 </CORE-CONTENT>
</REQ-IF>`

func parseFull(t *testing.T) []types.Requirement {
	t.Helper()
	doc := mustParse(t, fullDoc)
	return ParseDocument(doc, types.ParserConfig{})
}

func byID(t *testing.T, reqs []types.Requirement, id string) types.Requirement {
	t.Helper()
	for _, r := range reqs {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("requirement %s not in collection", id)
	return types.Requirement{}
}

func TestParseDocumentIDsUnique(t *testing.T) {
	reqs := parseFull(t)
	seen := make(map[string]bool)
	for _, r := range reqs {
		if seen[r.ID] {
			t.Errorf("duplicate id %s in output", r.ID)
		}
		seen[r.ID] = true
	}
	if len(reqs) != 3 {
		t.Errorf("got %d requirements, want 3", len(reqs))
	}
}

func TestParseDocumentDeterministic(t *testing.T) {
	first := parseFull(t)
	second := parseFull(t)
	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same document twice produced different collections")
	}
}

func TestParseDocumentXHTMLFlattened(t *testing.T) {
	req := byID(t, parseFull(t), "REQ-1")
	if req.Description != "A\nB" {
		t.Errorf("description = %q, want %q", req.Description, "A\nB")
	}
	if strings.Contains(req.Description, "<") {
		t.Errorf("tags leaked into description: %q", req.Description)
	}
}

func TestParseDocumentEnumValues(t *testing.T) {
	reqs := parseFull(t)

	r1 := byID(t, reqs, "REQ-1")
	multi, ok := r1.Attributes.Get("Priority")
	if !ok {
		t.Fatal("REQ-1 missing Priority")
	}
	if !reflect.DeepEqual(multi.List, []string{"High", "Urgent"}) {
		t.Errorf("multi-valued priority = %v, want [High Urgent]", multi.List)
	}

	r2 := byID(t, reqs, "REQ-2")
	single, ok := r2.Attributes.Get("Priority")
	if !ok {
		t.Fatal("REQ-2 missing Priority")
	}
	if single.List != nil || single.Str != "Medium" {
		t.Errorf("single-valued priority = %+v, want scalar Medium", single)
	}
}

func TestParseDocumentDedupKeepsRicherRecord(t *testing.T) {
	req := byID(t, parseFull(t), "REQ-1")
	if req.Title != "User login" {
		t.Errorf("title = %q; the placeholder stub replaced the populated record", req.Title)
	}
	if req.Attributes.Len() < 4 {
		t.Errorf("attributes = %d, want the richer record's 4", req.Attributes.Len())
	}
}

func TestParseDocumentDedupStubFirst(t *testing.T) {
	// The stub preceding the populated record must still lose.
	swapped := strings.Replace(fullDoc,
		`<SPEC-OBJECT IDENTIFIER="REQ-1">`,
		`<SPEC-OBJECT IDENTIFIER="REQ-1"/><SPEC-OBJECT IDENTIFIER="REQ-1-UNUSED-MARKER">`, 1)
	swapped = strings.Replace(swapped, `REQ-1-UNUSED-MARKER`, `REQ-1`, 1)

	doc := mustParse(t, swapped)
	req := byID(t, ParseDocument(doc, types.ParserConfig{}), "REQ-1")
	if req.Title != "User login" {
		t.Errorf("title = %q, want the populated record to win over the earlier stub", req.Title)
	}
}

func TestParseDocumentHierarchy(t *testing.T) {
	reqs := parseFull(t)

	parent := byID(t, reqs, "REQ-1")
	if !reflect.DeepEqual(parent.Children, []string{"REQ-2", "REQ-3"}) {
		t.Errorf("REQ-1 children = %v, want [REQ-2 REQ-3]", parent.Children)
	}
	if parent.Parent != "" {
		t.Errorf("REQ-1 parent = %q, want implicit root", parent.Parent)
	}

	child := byID(t, reqs, "REQ-2")
	if child.Parent != "REQ-1" {
		t.Errorf("REQ-2 parent = %q, want REQ-1", child.Parent)
	}
}

func TestParseDocumentLinks(t *testing.T) {
	reqs := parseFull(t)

	want := types.Relation{Source: "REQ-2", Target: "REQ-1", Type: "derives"}
	for _, id := range []string{"REQ-1", "REQ-2"} {
		links := byID(t, reqs, id).Links
		if len(links) != 1 || links[0] != want {
			t.Errorf("%s links = %+v, want [%+v]", id, links, want)
		}
	}
	if links := byID(t, reqs, "REQ-3").Links; len(links) != 0 {
		t.Errorf("REQ-3 links = %+v, want none", links)
	}
}

func TestParseDocumentUnresolvedValueLandsOnDescription(t *testing.T) {
	req := byID(t, parseFull(t), "REQ-3")

	desc, ok := req.Attributes.Get("Description")
	if !ok {
		t.Fatal("unresolved string value was not stored under Description")
	}
	if !strings.Contains(desc.Str, "idle sessions") {
		t.Errorf("Description = %q", desc.Str)
	}
}

func TestParseDocumentDerivedTitleFirstSentence(t *testing.T) {
	req := byID(t, parseFull(t), "REQ-3")
	if req.Title != "The system shall log out idle sessions." {
		t.Errorf("derived title = %q", req.Title)
	}
}

func TestParseDocumentUnparsableDateKeptVerbatim(t *testing.T) {
	req := byID(t, parseFull(t), "REQ-2")
	due, ok := req.Attributes.Get("Due Date")
	if !ok {
		t.Fatal("REQ-2 missing Due Date")
	}
	if due.Value() != "N/A" {
		t.Errorf("due date = %v, want literal N/A", due.Value())
	}
}

func TestParseDocumentMissingContentRoot(t *testing.T) {
	doc := mustParse(t, `<REQ-IF><CORE-CONTENT/></REQ-IF>`)
	reqs := ParseDocument(doc, types.ParserConfig{})
	if len(reqs) != 0 {
		t.Errorf("got %d requirements without REQ-IF-CONTENT, want 0", len(reqs))
	}
}

func TestParseDocumentKeepsExtensions(t *testing.T) {
	doc := mustParse(t, `<REQ-IF><REQ-IF-CONTENT>
		<SPEC-OBJECT IDENTIFIER="REQ-1">
			<VENDOR-DATA custom="true"><PAYLOAD>opaque</PAYLOAD></VENDOR-DATA>
		</SPEC-OBJECT>
	</REQ-IF-CONTENT></REQ-IF>`)

	req := byID(t, ParseDocument(doc, types.ParserConfig{KeepExtensions: true}), "REQ-1")
	if len(req.Extensions) != 1 {
		t.Fatalf("extensions = %v, want one blob", req.Extensions)
	}
	want := `<VENDOR-DATA custom="true"><PAYLOAD>opaque</PAYLOAD></VENDOR-DATA>`
	if req.Extensions[0] != want {
		t.Errorf("extension = %q, want verbatim %q", req.Extensions[0], want)
	}
}

func TestParseDocumentDecodesAttachments(t *testing.T) {
	doc := mustParse(t, `<REQ-IF><REQ-IF-CONTENT>
		<SPEC-OBJECT IDENTIFIER="REQ-1">
			<ATTACHMENT FILENAME="note.txt">aGVsbG8=</ATTACHMENT>
			<ATTACHMENT FILENAME="broken.bin">%%%not-base64%%%</ATTACHMENT>
		</SPEC-OBJECT>
	</REQ-IF-CONTENT></REQ-IF>`)

	req := byID(t, ParseDocument(doc, types.ParserConfig{DecodeAttachments: true}), "REQ-1")
	if len(req.Attachments) != 2 {
		t.Fatalf("attachments = %d, want 2", len(req.Attachments))
	}
	if string(req.Attachments[0].Data) != "hello" {
		t.Errorf("decoded payload = %q, want hello", req.Attachments[0].Data)
	}
	if string(req.Attachments[1].Data) != "%%%not-base64%%%" {
		t.Errorf("malformed payload = %q, want raw bytes", req.Attachments[1].Data)
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want string
	}{
		{"first sentence", "Short sentence. More text follows.", "Short sentence."},
		{"question", "Is this required? Yes.", "Is this required?"},
		{"first line", "line one no terminator\nline two", "line one no terminator"},
		{"cap near eighty", strings.Repeat("x", 200), strings.Repeat("x", 77) + "..."},
		{"cap on rune boundary", strings.Repeat("é", 120), strings.Repeat("é", 77) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveTitle(tt.desc)
			if got != tt.want {
				t.Errorf("deriveTitle = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("deriveTitle produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestRicherThan(t *testing.T) {
	rich := types.Requirement{ID: "R", Title: "t", Description: "d"}
	rich.Attributes.Set("a", types.StringValue("1"))
	rich.Attributes.Set("b", types.StringValue("2"))

	stub := types.Requirement{ID: "R"}

	if !richerThan(&rich, &stub) {
		t.Error("record with more attributes should win")
	}
	if richerThan(&stub, &rich) {
		t.Error("stub should not replace richer record")
	}

	titled := types.Requirement{ID: "R", Title: "t"}
	untitled := types.Requirement{ID: "R"}
	if !richerThan(&titled, &untitled) {
		t.Error("equal counts: non-empty title should win")
	}
	if richerThan(&untitled, &titled) {
		t.Error("equal counts: empty title should lose")
	}

	same := types.Requirement{ID: "R", Title: "t"}
	if richerThan(&same, &titled) {
		t.Error("full tie should keep first-seen record")
	}
}
