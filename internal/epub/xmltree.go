package epub

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// xmlNode is a minimal element tree used for container.xml and the OPF.
// Names are local names; namespace prefixes are ignored.
type xmlNode struct {
	Name     string
	Attrs    []xml.Attr
	Children []*xmlNode
	text     strings.Builder
}

// parseXML builds an element tree from data.
func parseXML(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	root := &xmlNode{}
	stack := []*xmlNode{root}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{Name: t.Name.Local, Attrs: t.Attr}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			stack[len(stack)-1].text.Write(t)
		}
	}
	if len(root.Children) == 0 {
		return nil, errors.New("document has no root element")
	}
	return root, nil
}

// Attr returns the value of the attribute with the given local name.
// Attributes without a namespace take precedence.
func (n *xmlNode) Attr(name string) (string, bool) {
	var (
		value string
		found bool
	)
	for _, a := range n.Attrs {
		if a.Name.Local != name {
			continue
		}
		if a.Name.Space == "" {
			return a.Value, true
		}
		if !found {
			value, found = a.Value, true
		}
	}
	return value, found
}

// Text returns the element's own character data, trimmed.
func (n *xmlNode) Text() string {
	return strings.TrimSpace(n.text.String())
}

// First returns the first descendant named name in document order.
func (n *xmlNode) First(name string) *xmlNode {
	var found *xmlNode
	n.walk(func(c *xmlNode) bool {
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// FirstWith returns the first descendant named name for which match is true.
func (n *xmlNode) FirstWith(name string, match func(*xmlNode) bool) *xmlNode {
	var found *xmlNode
	n.walk(func(c *xmlNode) bool {
		if c.Name == name && match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// All returns every descendant named name in document order.
func (n *xmlNode) All(name string) []*xmlNode {
	var out []*xmlNode
	n.walk(func(c *xmlNode) bool {
		if c.Name == name {
			out = append(out, c)
		}
		return true
	})
	return out
}

// walk visits descendants depth-first until visit returns false.
func (n *xmlNode) walk(visit func(*xmlNode) bool) bool {
	for _, c := range n.Children {
		if !visit(c) || !c.walk(visit) {
			return false
		}
	}
	return true
}
