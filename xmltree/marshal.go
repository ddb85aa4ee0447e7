package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Marshal produces the XML encoding of an Element
// as a self-contained document. The xmltree package
// may adjust the declarations of XML namespaces if
// the Element has been modified, or is part of a larger
// scope, such that the document produced by Marshal
// is a valid XML document.
func Marshal(el *Element) []byte {
	var buf bytes.Buffer
	if err := Encode(&buf, el); err != nil {
		// bytes.Buffer.Write should never return an error
		panic(err)
	}
	return buf.Bytes()
}

// Encode writes the XML encoding of the Element to w.
// Encode returns any errors encountered writing to w.
func Encode(w io.Writer, el *Element) error {
	enc := encoder{w: w}
	return enc.encode(el, nil, 0)
}

// String returns the XML encoding of an Element
// and its children as a string.
func (el *Element) String() string {
	return string(Marshal(el))
}

type encoder struct {
	w io.Writer
}

// Elements may be moved around a tree (xmlref does this when it
// replaces a reference with the element it points to). Each element
// carries the scope it was parsed in, so on output we declare every
// binding of that scope that the enclosing output does not already
// provide.
func (e *encoder) encode(el *Element, outer []xml.Name, depth int) error {
	if depth > recursionLimit {
		return errDeepXML
	}
	decls := missingBindings(outer, el.Scope.ns)
	inScope := append(outer[:len(outer):len(outer)], decls...)

	if _, err := fmt.Fprintf(e.w, "<%s", e.qname(el.Name, el.Scope)); err != nil {
		return err
	}
	for _, attr := range el.StartElement.Attr {
		if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") {
			continue
		}
		if _, err := fmt.Fprintf(e.w, " %s=\"", e.attrName(attr.Name, el.Scope)); err != nil {
			return err
		}
		if err := xml.EscapeText(e.w, []byte(attr.Value)); err != nil {
			return err
		}
		if _, err := io.WriteString(e.w, `"`); err != nil {
			return err
		}
	}
	for _, ns := range decls {
		var err error
		if ns.Local == "" {
			_, err = fmt.Fprintf(e.w, ` xmlns="%s"`, ns.Space)
		} else {
			_, err = fmt.Fprintf(e.w, ` xmlns:%s="%s"`, ns.Local, ns.Space)
		}
		if err != nil {
			return err
		}
	}
	if _, err := io.WriteString(e.w, ">"); err != nil {
		return err
	}
	if len(el.Children) == 0 && len(el.Content) > 0 {
		if _, err := e.w.Write(el.Content); err != nil {
			return err
		}
	}
	for i := range el.Children {
		if err := e.encode(&el.Children[i], inScope, depth+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(e.w, "</%s>", e.qname(el.Name, el.Scope))
	return err
}

func (e *encoder) qname(name xml.Name, scope Scope) string {
	if name.Space == "" {
		return name.Local
	}
	if s := scope.Prefix(name); s != "" {
		return s
	}
	// unbound namespace; encoding/xml leaves the prefix in Space
	return name.Space + ":" + name.Local
}

// Unprefixed attributes have no namespace, so a namespaced attribute
// can never be written using the default namespace.
func (e *encoder) attrName(name xml.Name, scope Scope) string {
	if name.Space == "" {
		return name.Local
	}
	if name.Space == xmlNS {
		return "xml:" + name.Local
	}
	for i := len(scope.ns) - 1; i >= 0; i-- {
		if scope.ns[i].Space == name.Space && scope.ns[i].Local != "" && !scope.shadowed(i) {
			return scope.ns[i].Local + ":" + name.Local
		}
	}
	return name.Space + ":" + name.Local
}

// missingBindings returns the bindings in want that are not in effect
// in have, most specific binding per prefix only.
func missingBindings(have, want []xml.Name) []xml.Name {
	effective := func(list []xml.Name) map[string]string {
		m := make(map[string]string, len(list))
		for _, ns := range list {
			m[ns.Local] = ns.Space
		}
		return m
	}
	had := effective(have)
	wanted := effective(want)

	var result []xml.Name
	seen := make(map[string]bool)
	for i := len(want) - 1; i >= 0; i-- {
		prefix := want[i].Local
		if seen[prefix] {
			continue
		}
		seen[prefix] = true
		space := wanted[prefix]
		if cur, ok := had[prefix]; ok && cur == space {
			continue
		}
		if _, ok := had[prefix]; !ok && prefix == "" && space == "" {
			continue
		}
		result = append(result, xml.Name{Space: space, Local: prefix})
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}
