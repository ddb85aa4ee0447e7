package soapenc

import (
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
)

// A Writer writes a single element of an outbound message. All the
// Writers of a message share one table of namespace prefixes, which
// are declared on the root element.
type Writer struct {
	el *etree.Element
	ns *nsTable
}

type nsTable struct {
	root     *etree.Element
	prefixes map[string]string
	used     map[string]bool
	n        int
}

// NewWriter creates the root element of doc, with the given name,
// and returns a Writer for it.
func NewWriter(doc *etree.Document, name xml.Name) *Writer {
	ns := &nsTable{
		prefixes: make(map[string]string),
		used:     map[string]bool{"xml": true, "xmlns": true},
	}
	ns.root = doc.CreateElement(name.Local)
	w := &Writer{el: ns.root, ns: ns}
	w.el.Space = w.PrefixFor(name.Space, "")
	return w
}

// Element returns the underlying element.
func (w *Writer) Element() *etree.Element { return w.el }

// PrefixFor returns the prefix bound to a namespace, declaring it on
// the root element if necessary. hint is used as the prefix of a new
// declaration if it is not taken. The empty namespace has no prefix.
func (w *Writer) PrefixFor(space, hint string) string {
	if space == "" {
		return ""
	}
	t := w.ns
	if p, ok := t.prefixes[space]; ok {
		return p
	}
	p := hint
	if p == "" || t.used[p] {
		p = wellKnownPrefix[space]
	}
	for p == "" || t.used[p] {
		t.n++
		p = fmt.Sprintf("ns%d", t.n)
	}
	t.used[p] = true
	t.prefixes[space] = p
	t.root.CreateAttr("xmlns:"+p, space)
	return p
}

// QName returns the prefixed form of name.
func (w *Writer) QName(name xml.Name) string {
	if p := w.PrefixFor(name.Space, ""); p != "" {
		return p + ":" + name.Local
	}
	return name.Local
}

// ElementWriter adds a child element and returns a Writer for it.
// An empty Space writes an unqualified element.
func (w *Writer) ElementWriter(name xml.Name) *Writer {
	return &Writer{el: w.el.CreateElement(w.QName(name)), ns: w.ns}
}

// WriteAttr sets an attribute of the element.
func (w *Writer) WriteAttr(name xml.Name, value string) {
	w.el.CreateAttr(w.QName(name), value)
}

// WriteValue sets the character data of the element.
func (w *Writer) WriteValue(s string) {
	w.el.SetText(s)
}

// WriteXsiNil marks the element as nil.
func (w *Writer) WriteXsiNil() {
	w.WriteAttr(attrXsiNil, "true")
}

// WriteXsiType sets the xsi:type attribute of the element.
func (w *Writer) WriteXsiType(name xml.Name) {
	w.WriteAttr(attrXsiType, w.QName(name))
}

func writeRef(w *Writer, id string) {
	w.WriteAttr(attrHref, "#"+id)
}

func writeID(w *Writer, id string) {
	w.WriteAttr(attrID, id)
}
