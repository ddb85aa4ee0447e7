// Package xmltree converts XML documents as a tree of Go structs.
//
// The xmltree package provides routines for accessing an XML document
// as a tree, along with functionality to resolve namespace-prefixed
// strings at any point in the tree. SOAP-encoded messages carry QNames
// in attribute values (xsi:type, soapenc:arrayType), so every Element
// remembers the namespace bindings that were in scope where it was
// parsed.
package xmltree // import "github.com/CognitoIQ/go-soapenc/xmltree"

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

const recursionLimit = 3000

var errDeepXML = errors.New("xmltree: xml document too deeply nested")

// An Element represents a single element in an XML document. Elements
// may have zero or more children. The byte array used by the Content
// field is shared among all elements in the document, and should not
// be modified. An Element also captures xml namespace prefixes, so
// that arbitrary QNames in attribute values can be resolved.
type Element struct {
	Scope
	xml.StartElement
	// The raw XML between the start and end tags.
	Content []byte
	// Character data directly inside the element, with entities
	// decoded. Character data of child elements is not included.
	CharData []byte
	Children []Element
}

// A Scope represents the xml namespace scope at a given position in
// the document. Bindings are recorded from least specific to most
// specific; the Space field of each binding is the canonical xml
// namespace, and the Local field is the prefix.
type Scope struct {
	ns []xml.Name
}

// Attr gets the value of the first attribute whose name matches the
// space and local arguments. If space is the empty string, only
// attributes' local names are considered when looking for a match.
// If an attribute could not be found, the empty string is returned.
func (el *Element) Attr(space, local string) string {
	for _, v := range el.StartElement.Attr {
		if v.Name.Local != local {
			continue
		}
		if space == "" || space == v.Name.Space {
			return v.Value
		}
	}
	return ""
}

// LookupAttr is like Attr, but matches the attribute namespace
// exactly; an empty Space only matches unqualified attributes.
// The second return value reports whether the attribute is present.
func (el *Element) LookupAttr(name xml.Name) (string, bool) {
	for _, v := range el.StartElement.Attr {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// SetAttr adds an XML attribute to an Element's existing Attributes.
// If the attribute already exists, it is replaced.
func (el *Element) SetAttr(space, local, value string) {
	for i, a := range el.StartElement.Attr {
		if a.Name.Local != local {
			continue
		}
		if space == "" || a.Name.Space == space {
			el.StartElement.Attr[i].Value = value
			return
		}
	}
	el.StartElement.Attr = append(el.StartElement.Attr, xml.Attr{
		Name:  xml.Name{Space: space, Local: local},
		Value: value,
	})
}

// RemoveAttr removes every attribute whose name matches exactly.
func (el *Element) RemoveAttr(name xml.Name) {
	attrs := el.StartElement.Attr[:0]
	for _, a := range el.StartElement.Attr {
		if a.Name != name {
			attrs = append(attrs, a)
		}
	}
	el.StartElement.Attr = attrs
}

// Text returns the character data directly inside the element.
func (el *Element) Text() string {
	return string(el.CharData)
}

// Unmarshal parses the XML encoding of the Element and stores the result
// in the value pointed to by v. Unmarshal follows the same rules as
// xml.Unmarshal, but only parses the portion of the XML document
// contained by the Element.
func Unmarshal(el *Element, v interface{}) error {
	return xml.Unmarshal(Marshal(el), v)
}

// Resolve translates an XML QName (namespace-prefixed string) to an
// xml.Name with a canonicalized namespace in its Space field.  This can
// be used when working with SOAP documents, which put QNames in attribute
// values. If qname does not have a prefix, the default namespace is used.
// If a namespace prefix cannot be resolved, the returned value's Space
// field will be the unresolved prefix. Use the ResolveNS function to detect
// when a namespace prefix cannot be resolved.
func (scope *Scope) Resolve(qname string) xml.Name {
	name, _ := scope.ResolveNS(qname)
	return name
}

// The ResolveNS method is like Resolve, but returns false for its second
// return value if a namespace prefix cannot be resolved.
func (scope *Scope) ResolveNS(qname string) (xml.Name, bool) {
	var prefix, local string
	parts := strings.SplitN(qname, ":", 2)
	if len(parts) == 2 {
		prefix, local = parts[0], parts[1]
	} else {
		prefix, local = "", parts[0]
	}
	if prefix == "xml" {
		return xml.Name{Space: xmlNS, Local: local}, true
	}
	for i := len(scope.ns) - 1; i >= 0; i-- {
		if scope.ns[i].Local == prefix {
			return xml.Name{Space: scope.ns[i].Space, Local: local}, true
		}
	}
	if prefix == "" {
		return xml.Name{Local: local}, true
	}
	return xml.Name{Space: prefix, Local: local}, false
}

// ResolveDefault is like Resolve, but allows for the default namespace to
// be overridden. The namespace of strings without a namespace prefix
// (known as an NCName in XML terminology) will be defaultns.
func (scope *Scope) ResolveDefault(qname, defaultns string) xml.Name {
	if defaultns == "" || strings.Contains(qname, ":") {
		return scope.Resolve(qname)
	}
	return xml.Name{Space: defaultns, Local: qname}
}

// Prefix is the inverse of Resolve. It uses the closest prefix
// defined for a namespace to create a string of the form
// prefix:local. If the namespace cannot be found, an empty string
// is returned.
func (scope *Scope) Prefix(name xml.Name) (qname string) {
	if name.Space == "" {
		return name.Local
	}
	for i := len(scope.ns) - 1; i >= 0; i-- {
		if scope.ns[i].Space != name.Space {
			continue
		}
		if !scope.shadowed(i) {
			if scope.ns[i].Local == "" {
				return name.Local
			}
			return scope.ns[i].Local + ":" + name.Local
		}
	}
	return ""
}

// LookupPrefix returns the most specific prefix bound to a namespace.
// The empty prefix is the default namespace.
func (scope *Scope) LookupPrefix(space string) (string, bool) {
	for i := len(scope.ns) - 1; i >= 0; i-- {
		if scope.ns[i].Space == space && !scope.shadowed(i) {
			return scope.ns[i].Local, true
		}
	}
	return "", false
}

// Bindings returns the namespace bindings in scope, from least specific
// to most specific.
func (scope *Scope) Bindings() []xml.Name {
	return scope.ns[:len(scope.ns):len(scope.ns)]
}

// JoinScope returns a Scope holding the bindings of scope followed by
// those of other. Where both bind a prefix, the binding of other is in
// effect.
func (scope *Scope) JoinScope(other *Scope) Scope {
	ns := make([]xml.Name, 0, len(scope.ns)+len(other.ns))
	ns = append(ns, scope.ns...)
	ns = append(ns, other.ns...)
	return Scope{ns: ns}
}

// a binding is shadowed if its prefix is rebound later in the scope.
func (scope *Scope) shadowed(i int) bool {
	for j := i + 1; j < len(scope.ns); j++ {
		if scope.ns[j].Local == scope.ns[i].Local {
			return true
		}
	}
	return false
}

func (scope *Scope) pushNS(tag xml.StartElement) {
	var ns []xml.Name
	for _, attr := range tag.Attr {
		if attr.Name.Space == "xmlns" {
			ns = append(ns, xml.Name{Space: attr.Value, Local: attr.Name.Local})
		} else if attr.Name.Local == "xmlns" && attr.Name.Space == "" {
			ns = append(ns, xml.Name{Space: attr.Value, Local: ""})
		}
	}
	if len(ns) > 0 {
		scope.ns = append(scope.ns, ns...)
		// Ensure that future additions to the scope create
		// a new backing array. This prevents the scope from
		// being clobbered during parsing.
		scope.ns = scope.ns[:len(scope.ns):len(scope.ns)]
	}
}

const xmlNS = "http://www.w3.org/XML/1998/namespace"

// Save some typing when scanning xml
type scanner struct {
	*xml.Decoder
	tok xml.Token
	err error
}

func (s *scanner) scan() bool {
	if s.err != nil {
		return false
	}
	s.tok, s.err = s.Token()
	return s.err == nil
}

var encodingDecl = regexp.MustCompile(`^\s*<\?xml[^>]*encoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// utf8Document converts a document declaring a non-UTF-8 encoding
// to UTF-8, so that byte offsets reported by the decoder index into
// the returned slice.
func utf8Document(doc []byte) ([]byte, bool, error) {
	m := encodingDecl.FindSubmatch(doc)
	if m == nil {
		return doc, false, nil
	}
	label := string(m[1])
	if strings.EqualFold(label, "utf-8") || strings.EqualFold(label, "utf8") {
		return doc, false, nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(doc))
	if err != nil {
		return nil, false, fmt.Errorf("xmltree: %v", err)
	}
	out, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// Parse builds a tree of Elements by reading an XML document.  The
// byte slice passed to Parse is expected to be a valid XML document
// with a single root element. Documents declaring an encoding other
// than UTF-8 are converted before parsing; the Content of the
// returned Elements then refers to the converted document.
func Parse(doc []byte) (*Element, error) {
	doc, converted, err := utf8Document(doc)
	if err != nil {
		return nil, err
	}
	d := xml.NewDecoder(bytes.NewReader(doc))
	if converted {
		d.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) {
			return r, nil
		}
	}
	scanner := scanner{Decoder: d}
	root := new(Element)

	for scanner.scan() {
		if start, ok := scanner.tok.(xml.StartElement); ok {
			root.StartElement = start.Copy()
			break
		}
	}
	if scanner.err != nil {
		return nil, scanner.err
	}
	if err := root.parse(&scanner, doc, 0); err != nil {
		return nil, err
	}
	return root, nil
}

// ParseReader is like Parse, but reads the document from r.
func ParseReader(r io.Reader) (*Element, error) {
	doc, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(doc)
}

func (el *Element) parse(scanner *scanner, data []byte, depth int) error {
	if depth > recursionLimit {
		return errDeepXML
	}
	el.pushNS(el.StartElement)

	begin := scanner.InputOffset()
	end := begin
walk:
	for scanner.scan() {
		switch tok := scanner.tok.(type) {
		case xml.StartElement:
			child := Element{StartElement: tok.Copy(), Scope: el.Scope}
			if err := child.parse(scanner, data, depth+1); err != nil {
				return err
			}
			el.Children = append(el.Children, child)
		case xml.CharData:
			el.CharData = append(el.CharData, tok...)
		case xml.EndElement:
			if tok.Name != el.Name {
				return fmt.Errorf("Expecting </%s>, got </%s>", el.Prefix(el.Name), el.Prefix(tok.Name))
			}
			el.Content = data[int(begin):int(end)]
			break walk
		}
		end = scanner.InputOffset()
	}
	if scanner.err == io.EOF {
		return fmt.Errorf("xmltree: unexpected end of document inside <%s>", el.Name.Local)
	}
	return scanner.err
}

// The walk method calls the walkFunc for each of the Element's children.
func (el *Element) walk(fn walkFunc) {
	for i := 0; i < len(el.Children); i++ {
		fn(&el.Children[i])
	}
}

// walkFunc is the type of the function called for each of an Element's
// children.
type walkFunc func(*Element)

// SearchFunc traverses the Element tree in depth-first order and returns
// a slice of Elements for which the function fn returns true. The
// children of matching Elements are searched as well.
func (root *Element) SearchFunc(fn func(*Element) bool) []*Element {
	var results []*Element
	var search func(el *Element)

	search = func(el *Element) {
		if fn(el) {
			results = append(results, el)
		}
		el.walk(search)
	}
	root.walk(search)
	return results
}

// Search searches the Element tree for Elements with an xml tag
// matching the name and xml namespace. If space is the empty string,
// any namespace is matched.
func (root *Element) Search(space, local string) []*Element {
	return root.SearchFunc(func(el *Element) bool {
		if local != el.Name.Local {
			return false
		}
		return space == "" || space == el.Name.Space
	})
}

// Flatten produces a slice of Element pointers referring to
// the children of el, and their children, in depth-first order.
func (el *Element) Flatten() []*Element {
	return el.SearchFunc(func(*Element) bool { return true })
}
