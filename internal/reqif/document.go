// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reqif

import (
	"encoding/xml"
	"io"
	"strings"
)

// Node is one element of the parsed document tree. Text holds the
// character data directly under the element; namespace-qualified names
// are split into Space (URI) and Local.
type Node struct {
	Space    string
	Local    string
	Attrs    []xml.Attr
	Text     string
	Children []*Node
	Parent   *Node

	// start/end are byte offsets into the source document covering the
	// element from its opening '<' to its closing '>'.
	start int64
	end   int64
}

// Document is an eagerly parsed XML tree with a local-name element
// index. ReqIF exporters vary namespace usage, so every lookup goes
// through bare local names; the index is built once at parse time
// instead of concatenating namespace URIs per call.
type Document struct {
	Root *Node

	// Namespace is the root element's namespace URI, empty when the
	// document declares none.
	Namespace string

	src     []byte
	byLocal map[string][]*Node
}

// parseDocument reads an XML document from src into a Document.
func parseDocument(src []byte) (*Document, error) {
	dec := xml.NewDecoder(strings.NewReader(string(src)))

	doc := &Document{
		src:     src,
		byLocal: make(map[string][]*Node),
	}

	var stack []*Node
	offset := dec.InputOffset()
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Space: t.Name.Space,
				Local: t.Name.Local,
				Attrs: append([]xml.Attr(nil), t.Attr...),
				start: offset,
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				n.Parent = parent
				parent.Children = append(parent.Children, n)
			} else if doc.Root == nil {
				doc.Root = n
			}
			doc.byLocal[n.Local] = append(doc.byLocal[n.Local], n)
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) > 0 {
				stack[len(stack)-1].end = dec.InputOffset()
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}

		offset = dec.InputOffset()
	}

	if doc.Root != nil {
		doc.Namespace = doc.Root.Space
	}
	return doc, nil
}

// ElementsByLocal returns every element in the document with the given
// local name, in document order.
func (d *Document) ElementsByLocal(name string) []*Node {
	return d.byLocal[name]
}

// Raw returns the verbatim source text of the element, including its
// tags, exactly as it appeared in the input.
func (d *Document) Raw(n *Node) string {
	if n == nil || n.start < 0 || n.end > int64(len(d.src)) || n.end <= n.start {
		return ""
	}
	return string(d.src[n.start:n.end])
}

// Child returns the first direct child with the given local name.
func (n *Node) Child(local string) *Node {
	for _, c := range n.Children {
		if c.Local == local {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children with the given local name.
func (n *Node) ChildrenNamed(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant (depth-first, document order) with
// the given local name, or nil.
func (n *Node) Find(local string) *Node {
	for _, c := range n.Children {
		if c.Local == local {
			return c
		}
		if found := c.Find(local); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns all descendants with the given local name in
// document order.
func (n *Node) FindAll(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Local == local {
			out = append(out, c)
		}
		out = append(out, c.FindAll(local)...)
	}
	return out
}

// Attr returns the first attribute whose local name matches any of the
// given names, compared case-sensitively first and case-insensitively
// as a fallback. Exporters disagree on attribute casing.
func (n *Node) Attr(names ...string) string {
	for _, want := range names {
		for _, a := range n.Attrs {
			if a.Name.Local == want {
				return a.Value
			}
		}
	}
	for _, want := range names {
		for _, a := range n.Attrs {
			if strings.EqualFold(a.Name.Local, want) {
				return a.Value
			}
		}
	}
	return ""
}

// TrimmedText returns the element's own character data with surrounding
// whitespace removed.
func (n *Node) TrimmedText() string {
	return strings.TrimSpace(n.Text)
}

// DeepText returns the concatenated character data of the element and
// all descendants, in document order.
func (n *Node) DeepText() string {
	var b strings.Builder
	var walk func(*Node)
	walk = func(node *Node) {
		b.WriteString(node.Text)
		for _, c := range node.Children {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
