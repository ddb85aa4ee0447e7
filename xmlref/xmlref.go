// Package xmlref simplifies XML documents with references.
//
// The xmlref package allows for processing of multi-reference
// SOAP objects in XML documents as if they were single reference,
// as expected by the encoding/xml package. Documents such as
//
//	<response href="#id0"/>
//	<multiRef id="id0">
//	  <anyMoreRec href="#id1"/>
//	</multiRef>
//	<multiRef id="id1">false</multiRef>
//
// when flattened, will appear as
//
//	<response>
//	  <anyMoreRec>false</anyMoreRec>
//	</response>
//
// Both the SOAP 1.1 href/id attributes and the SOAP 1.2 enc:ref/enc:id
// attributes are understood. An element that is referred to is copied
// to every place it is referenced from. Referenced elements at the top
// level of the document, or of a SOAP Body, are removed; other
// referenced elements stay where they are.
package xmlref

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/CognitoIQ/go-soapenc/xmltree"
)

const (
	encodingNS11 = "http://schemas.xmlsoap.org/soap/encoding/"
	encodingNS12 = "http://www.w3.org/2003/05/soap-encoding"
	envelopeNS11 = "http://schemas.xmlsoap.org/soap/envelope/"
	envelopeNS12 = "http://www.w3.org/2003/05/soap-envelope"
)

var (
	attrHref  = xml.Name{Local: "href"}
	attrID    = xml.Name{Local: "id"}
	attrRef12 = xml.Name{Space: encodingNS12, Local: "ref"}
	attrID12  = xml.Name{Space: encodingNS12, Local: "id"}
	attrRoot  = xml.Name{Space: encodingNS11, Local: "root"}
)

// Copies of referenced elements may nest no deeper than this.
const maxDepth = 1000

func parseURIRef(ref string) (id string, local bool) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "#") {
		return "", false
	}
	return ref[1:], true
}

// refOf returns the id an element refers to. Only same-document
// references are recognized.
func refOf(el *xmltree.Element) (string, bool) {
	if v, ok := el.LookupAttr(attrRef12); ok {
		return strings.TrimPrefix(strings.TrimSpace(v), "#"), true
	}
	if v, ok := el.LookupAttr(attrHref); ok {
		return parseURIRef(v)
	}
	return "", false
}

func idOf(el *xmltree.Element) (string, bool) {
	if v, ok := el.LookupAttr(attrID12); ok {
		return strings.TrimSpace(v), true
	}
	if v, ok := el.LookupAttr(attrID); ok {
		return strings.TrimSpace(v), true
	}
	return "", false
}

// A Reader reads a flattened copy of an XML document. The whole
// document is read, parsed and flattened by NewReader.
type Reader struct {
	buf *bytes.Reader
}

// Read reads up to len(p) bytes of the flattened document into p.
func (r *Reader) Read(p []byte) (int, error) {
	return r.buf.Read(p)
}

// NewReader creates a new Reader for the document in r. Any I/O,
// XML parsing, or reference errors are returned.
func NewReader(r io.Reader) (*Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	out, err := Flatten(data)
	if err != nil {
		return nil, err
	}
	return &Reader{buf: bytes.NewReader(out)}, nil
}

// Flatten reads an XML document and returns a new XML document
// where all references have been replaced with copies of the
// referenced elements. A document whose references form a cycle
// cannot be flattened, and Flatten returns an error. References to
// ids that are not defined in the document are left unchanged.
func Flatten(data []byte) ([]byte, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, err
	}
	if err := FlattenTree(root); err != nil {
		return nil, err
	}
	return xmltree.Marshal(root), nil
}

// FlattenTree is like Flatten, but modifies a parsed document in
// place.
func FlattenTree(root *xmltree.Element) error {
	f := flattener{
		targets: make(map[string]*xmltree.Element),
		active:  make(map[string]bool),
	}
	referenced := make(map[string]bool)
	if id, ok := idOf(root); ok {
		f.targets[id] = copyElement(root)
	}
	for _, el := range root.Flatten() {
		if id, ok := idOf(el); ok {
			if _, dup := f.targets[id]; dup {
				return fmt.Errorf("xmlref: id %q is defined more than once", id)
			}
			f.targets[id] = copyElement(el)
		}
		if id, ok := refOf(el); ok {
			referenced[id] = true
		}
	}

	prune(root, referenced)
	if body := soapBody(root); body != nil {
		prune(body, referenced)
	}
	return f.expand(root, 0)
}

// soapBody returns the Body of a SOAP envelope.
func soapBody(root *xmltree.Element) *xmltree.Element {
	if root.Name.Local != "Envelope" {
		return nil
	}
	if root.Name.Space != envelopeNS11 && root.Name.Space != envelopeNS12 {
		return nil
	}
	for i := range root.Children {
		if c := &root.Children[i]; c.Name == (xml.Name{Space: root.Name.Space, Local: "Body"}) {
			return c
		}
	}
	return nil
}

// prune removes the children of el that are referred to.
func prune(el *xmltree.Element, referenced map[string]bool) {
	children := el.Children[:0]
	for _, c := range el.Children {
		if id, ok := idOf(&c); ok && referenced[id] {
			continue
		}
		children = append(children, c)
	}
	el.Children = children
}

type flattener struct {
	targets map[string]*xmltree.Element
	// ids being expanded, from the root to the current element
	active map[string]bool
}

func (f *flattener) expand(el *xmltree.Element, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("xmlref: references nested more than %d deep", maxDepth)
	}
	if id, ok := refOf(el); ok {
		if target, ok := f.targets[id]; ok {
			if f.active[id] {
				return fmt.Errorf("xmlref: reference cycle through id %q", id)
			}
			f.active[id] = true
			defer delete(f.active, id)
			replace(el, target)
		}
	}
	for i := range el.Children {
		if err := f.expand(&el.Children[i], depth+1); err != nil {
			return err
		}
	}
	return nil
}

// replace gives a reference element the content and attributes of
// the element it refers to. The attributes of the target take
// precedence, except for its id.
func replace(el, target *xmltree.Element) {
	skip := func(name xml.Name) bool {
		switch name {
		case attrHref, attrRef12, attrID, attrID12, attrRoot:
			return true
		}
		return name.Space == "xmlns" || (name.Space == "" && name.Local == "xmlns")
	}
	attrs := make([]xml.Attr, 0, len(el.StartElement.Attr)+len(target.StartElement.Attr))
	for _, a := range target.StartElement.Attr {
		if !skip(a.Name) {
			attrs = append(attrs, a)
		}
	}
	for _, a := range el.StartElement.Attr {
		if skip(a.Name) {
			continue
		}
		if _, ok := target.LookupAttr(a.Name); !ok {
			attrs = append(attrs, a)
		}
	}
	el.StartElement.Attr = attrs
	el.Scope = el.Scope.JoinScope(&target.Scope)
	el.Content = target.Content
	el.CharData = target.CharData
	el.Children = copyElement(target).Children
}

// copyElement returns a deep copy of el, so that expanding one copy
// of a referenced element does not change the others. Content is
// shared.
func copyElement(el *xmltree.Element) *xmltree.Element {
	c := *el
	c.StartElement.Attr = append([]xml.Attr(nil), el.StartElement.Attr...)
	if el.Children != nil {
		c.Children = make([]xmltree.Element, len(el.Children))
		for i := range el.Children {
			c.Children[i] = *copyElement(&el.Children[i])
		}
	}
	return &c
}
