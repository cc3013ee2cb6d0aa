package dataprocessing

import (
	"errors"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

var errEmptyDocument = errors.New("no element found")

// parseXMLTree reads data into an element tree and returns its root.
// Declared encodings other than UTF-8 are converted.
func parseXMLTree(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.ValidateInput = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, errEmptyDocument
	}
	return root, nil
}

// xmlScope matches element names within the namespace of the document root
type xmlScope struct {
	space string
}

func newXMLScope(root *etree.Element) xmlScope {
	return xmlScope{space: root.NamespaceURI()}
}

func (s xmlScope) is(e *etree.Element, local string) bool {
	return e.Tag == local && e.NamespaceURI() == s.space
}

// child returns the first direct child with the given local name
func (s xmlScope) child(e *etree.Element, local string) *etree.Element {
	if e == nil {
		return nil
	}
	for _, c := range e.ChildElements() {
		if s.is(c, local) {
			return c
		}
	}
	return nil
}

// find follows a path of direct children
func (s xmlScope) find(e *etree.Element, path ...string) *etree.Element {
	for _, local := range path {
		e = s.child(e, local)
		if e == nil {
			return nil
		}
	}
	return e
}

// findAll returns every element reached by the path, in document order
func (s xmlScope) findAll(e *etree.Element, path ...string) []*etree.Element {
	if e == nil {
		return nil
	}
	current := []*etree.Element{e}
	for _, local := range path {
		var next []*etree.Element
		for _, el := range current {
			for _, c := range el.ChildElements() {
				if s.is(c, local) {
					next = append(next, c)
				}
			}
		}
		current = next
	}
	return current
}

// text returns the leading text of the element at path, or "" when absent
func (s xmlScope) text(e *etree.Element, path ...string) string {
	found := s.find(e, path...)
	if found == nil {
		return ""
	}
	return found.Text()
}

// descendants returns every element below e with the given local name, in
// document order, excluding e itself
func (s xmlScope) descendants(e *etree.Element, local string) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, found := range e.FindElements(".//" + local) {
		if s.is(found, local) {
			out = append(out, found)
		}
	}
	return out
}

// attr returns the value of an unqualified attribute
func attr(e *etree.Element, key string) string {
	for _, a := range e.Attr {
		if a.Key == key && a.Space == "" {
			return a.Value
		}
	}
	return ""
}
