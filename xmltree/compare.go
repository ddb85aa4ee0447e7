package xmltree

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strings"
)

const (
	xsiNS = "http://www.w3.org/2001/XMLSchema-instance"
	encNS = "http://schemas.xmlsoap.org/soap/encoding/"
)

// Attributes whose values are QNames, optionally followed by array
// dimensions. They are compared by the names they resolve to.
var qnameAttrs = map[xml.Name]bool{
	{Space: xsiNS, Local: "type"}:     true,
	{Space: encNS, Local: "arrayType"}: true,
	{Space: encNS, Local: "itemType"}:  true,
}

// Equal returns true if two xmltree.Elements are equal, ignoring
// differences in white space, sub-element order, and namespace
// prefixes, including the prefixes of QNames in xsi:type and
// soapenc:arrayType attributes. Neither tree is modified.
func Equal(a, b *Element) bool {
	return equal(a, b, 0)
}

// sortedChildren returns pointers to the children of el, ordered by
// name. Children with the same name keep their document order.
func sortedChildren(el *Element) []*Element {
	list := make([]*Element, len(el.Children))
	for i := range el.Children {
		list[i] = &el.Children[i]
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Name, list[j].Name
		if a.Space != b.Space {
			return a.Space < b.Space
		}
		return a.Local < b.Local
	})
	return list
}

func equal(a, b *Element, depth int) bool {
	if depth > recursionLimit {
		return false
	}
	if a.Name != b.Name || len(a.Children) != len(b.Children) {
		return false
	}
	if !equalAttrs(a, b) {
		return false
	}
	if len(a.Children) == 0 {
		return bytes.Equal(bytes.TrimSpace(a.CharData), bytes.TrimSpace(b.CharData))
	}
	ac, bc := sortedChildren(a), sortedChildren(b)
	for i := range ac {
		if !equal(ac[i], bc[i], depth+1) {
			return false
		}
	}
	return true
}

func isNamespaceDecl(name xml.Name) bool {
	return name.Space == "xmlns" || (name.Space == "" && name.Local == "xmlns")
}

// attrValues returns the attributes of el other than namespace
// declarations, with QName values in canonical form.
func attrValues(el *Element) map[xml.Name]string {
	m := make(map[xml.Name]string, len(el.StartElement.Attr))
	for _, attr := range el.StartElement.Attr {
		if isNamespaceDecl(attr.Name) {
			continue
		}
		m[attr.Name] = attr.Value
		if qnameAttrs[attr.Name] {
			m[attr.Name] = canonicalQName(el, attr.Value)
		}
	}
	return m
}

// canonicalQName replaces the prefix of a QName at the start of
// value with its namespace in braces. Values with an unbound prefix
// are returned unchanged.
func canonicalQName(el *Element, value string) string {
	value = strings.TrimSpace(value)
	qname, rest := value, ""
	if i := strings.IndexByte(value, '['); i >= 0 {
		qname, rest = value[:i], value[i:]
	}
	name, ok := el.ResolveNS(qname)
	if !ok {
		return value
	}
	return "{" + name.Space + "}" + name.Local + rest
}

func equalAttrs(a, b *Element) bool {
	av, bv := attrValues(a), attrValues(b)
	if len(av) != len(bv) {
		return false
	}
	for name, v := range av {
		if w, ok := bv[name]; !ok || v != w {
			return false
		}
	}
	return true
}
