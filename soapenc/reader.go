package soapenc

import (
	"encoding/xml"
	"strings"

	"github.com/CognitoIQ/go-soapenc/xmltree"
)

// A Reader reads a single element of an inbound message. Child
// elements are consumed in document order with
// NextElementReader.
type Reader struct {
	el   *xmltree.Element
	next int
}

// NewReader returns a Reader for el.
func NewReader(el *xmltree.Element) *Reader {
	return &Reader{el: el}
}

// Name returns the resolved name of the element.
func (r *Reader) Name() xml.Name { return r.el.Name }

// Element returns the underlying element.
func (r *Reader) Element() *xmltree.Element { return r.el }

// HasMoreElementReaders reports whether there are child
// elements that have not been consumed.
func (r *Reader) HasMoreElementReaders() bool {
	return r.next < len(r.el.Children)
}

// NextElementReader consumes the next child element and returns a
// Reader for it. It returns nil if there are no more children.
func (r *Reader) NextElementReader() *Reader {
	if !r.HasMoreElementReaders() {
		return nil
	}
	c := &r.el.Children[r.next]
	r.next++
	return NewReader(c)
}

// ReadToEnd skips the remaining children of the element.
func (r *Reader) ReadToEnd() {
	r.next = len(r.el.Children)
}

// Attr returns the value of the attribute with the given name. An
// empty Space matches only unqualified attributes.
func (r *Reader) Attr(name xml.Name) (string, bool) {
	return r.el.LookupAttr(name)
}

// Value returns the character data of the element.
func (r *Reader) Value() string {
	return r.el.Text()
}

// IsXsiNil reports whether the element carries xsi:nil="true".
func (r *Reader) IsXsiNil() bool {
	v, ok := r.Attr(attrXsiNil)
	if !ok {
		return false
	}
	v = strings.TrimSpace(v)
	return v == "true" || v == "1"
}

// XsiType returns the resolved value of the xsi:type attribute of
// the element, if present.
func (r *Reader) XsiType() (xml.Name, bool) {
	v, ok := r.Attr(attrXsiType)
	if !ok {
		return xml.Name{}, false
	}
	return r.el.Resolve(strings.TrimSpace(v)), true
}

// ResolveNS resolves a QName using the namespace declarations in
// scope at the element.
func (r *Reader) ResolveNS(qname string) (xml.Name, bool) {
	return r.el.ResolveNS(qname)
}

// refID returns the id a reference element points to. The SOAP 1.2
// enc:ref attribute is preferred over the SOAP 1.1 href attribute.
func refID(r *Reader) (string, bool) {
	if v, ok := r.Attr(attrRef12); ok {
		return strings.TrimPrefix(strings.TrimSpace(v), "#"), true
	}
	if v, ok := r.Attr(attrHref); ok {
		return strings.TrimPrefix(strings.TrimSpace(v), "#"), true
	}
	return "", false
}

// soapID returns the id an element is addressable by. The SOAP 1.2
// enc:id attribute is preferred over the unqualified SOAP 1.1 id.
func soapID(r *Reader) (string, bool) {
	if v, ok := r.Attr(attrID12); ok {
		return strings.TrimSpace(v), true
	}
	if v, ok := r.Attr(attrID); ok {
		return strings.TrimSpace(v), true
	}
	return "", false
}
