package eventful

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Node is one node of a parsed response. Element nodes carry a Name, text
// nodes have an empty Name and carry Data. The node returned by Parse is the
// document itself; its children are the top-level nodes of the body.
type Node struct {
	Name     string
	Attr     map[string]string
	Children []*Node
	Data     string
}

// Parse reads an XML document into a node tree. Character data consisting
// only of whitespace is dropped.
func Parse(r io.Reader) (*Node, error) {
	doc := &Node{}
	stack := []*Node{doc}

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}

		parent := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			if parent == doc && doc.Root() != nil {
				return nil, fmt.Errorf("%w: more than one document element", ErrMalformedResponse)
			}
			n := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attr = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attr[a.Name.Local] = a.Value
				}
			}
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if strings.TrimSpace(string(t)) == "" {
				continue
			}
			parent.Children = append(parent.Children, &Node{Data: string(t)})
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: unexpected end of document", ErrMalformedResponse)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: no document element", ErrMalformedResponse)
	}
	return doc, nil
}

// IsText reports whether n is a text node
func (n *Node) IsText() bool {
	return n.Name == ""
}

// Root returns the document element, or nil if there is none.
func (n *Node) Root() *Node {
	if n == nil {
		return nil
	}
	if n.Name != "" {
		return n
	}
	for _, c := range n.Children {
		if !c.IsText() {
			return c
		}
	}
	return nil
}

// Child returns the first element child named name
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Elements returns the element children of n
func (n *Node) Elements() []*Node {
	var elems []*Node
	for _, c := range n.Children {
		if !c.IsText() {
			elems = append(elems, c)
		}
	}
	return elems
}

// Find descends through successive children matching each tag in path.
func (n *Node) Find(path ...string) (*Node, error) {
	cur := n
	for _, seg := range path {
		next := cur.Child(seg)
		if next == nil {
			return nil, &NotFoundError{Path: path, Segment: seg}
		}
		cur = next
	}
	return cur, nil
}

// Text returns the text children of the node at path joined with a single space.
func (n *Node) Text(path ...string) (string, error) {
	target, err := n.Find(path...)
	if err != nil {
		return "", err
	}
	return target.InnerText(), nil
}

// InnerText joins the direct text children of n with a single space
func (n *Node) InnerText() string {
	var parts []string
	for _, c := range n.Children {
		if c.IsText() {
			parts = append(parts, c.Data)
		}
	}
	return strings.Join(parts, " ")
}

// Records returns the element children of the node at path. A list response
// such as <events><event/>...</events> yields one record per <event>.
func (n *Node) Records(path ...string) ([]*Node, error) {
	target, err := n.Find(path...)
	if err != nil {
		return nil, err
	}
	return target.Elements(), nil
}

// Fields flattens a record into attribute values plus the text of its leaf
// element children. Nested containers are left out; the first occurrence of
// a repeated tag wins.
func (n *Node) Fields() map[string]any {
	fields := make(map[string]any, len(n.Attr)+len(n.Children))
	for k, v := range n.Attr {
		fields[k] = v
	}
	for _, c := range n.Children {
		if c.IsText() || !c.isLeaf() {
			continue
		}
		if _, seen := fields[c.Name]; !seen {
			fields[c.Name] = c.InnerText()
		}
	}
	return fields
}

func (n *Node) isLeaf() bool {
	for _, c := range n.Children {
		if !c.IsText() {
			return false
		}
	}
	return true
}

// XML renders the node back to indented XML.
func (n *Node) XML() string {
	var sb strings.Builder
	n.writeXML(&sb, 0)
	return sb.String()
}

func (n *Node) writeXML(sb *strings.Builder, depth int) {
	if n.Name == "" && n.Data == "" {
		for _, c := range n.Children {
			c.writeXML(sb, depth)
		}
		return
	}

	indent := strings.Repeat("  ", depth)
	if n.IsText() {
		sb.WriteString(indent)
		xml.EscapeText(sb, []byte(n.Data))
		sb.WriteByte('\n')
		return
	}

	sb.WriteString(indent + "<" + n.Name)
	for _, k := range slices.Sorted(maps.Keys(n.Attr)) {
		sb.WriteString(" " + k + `="`)
		xml.EscapeText(sb, []byte(n.Attr[k]))
		sb.WriteByte('"')
	}
	if len(n.Children) == 0 {
		sb.WriteString("/>\n")
		return
	}
	if n.isLeaf() {
		sb.WriteByte('>')
		xml.EscapeText(sb, []byte(n.InnerText()))
		sb.WriteString("</" + n.Name + ">\n")
		return
	}
	sb.WriteString(">\n")
	for _, c := range n.Children {
		c.writeXML(sb, depth+1)
	}
	sb.WriteString(indent + "</" + n.Name + ">\n")
}
