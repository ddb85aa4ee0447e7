package soapenc

import (
	"encoding/xml"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/CognitoIQ/go-soapenc/xmltree"
	"github.com/CognitoIQ/go-soapenc/xsd"
)

var defaultConfig = NewConfig()

// Marshal returns an RPC/encoded SOAP message whose Body holds an
// element with the given name, containing the properties of v, which
// must be a struct, a pointer to a struct, or a string-keyed map.
// Values referenced from v are written as trailing blocks that follow
// the element.
func Marshal(name xml.Name, v interface{}) ([]byte, error) {
	return defaultConfig.Marshal(name, v)
}

// Unmarshal reads an RPC/encoded SOAP message, of either SOAP
// version, and stores the first element of its Body in the value
// pointed to by v. References to the other elements of the Body are
// resolved. If the Body holds a SOAP fault, Unmarshal returns a
// *Fault.
func Unmarshal(data []byte, v interface{}) error {
	return defaultConfig.Unmarshal(data, v)
}

func (cfg *Config) soapVersion() Version {
	if cfg.version == 0 {
		return SOAP11
	}
	return cfg.version
}

// Marshal is like the top-level Marshal function, but uses the
// settings of cfg.
func (cfg *Config) Marshal(name xml.Name, v interface{}) ([]byte, error) {
	doc, err := cfg.Encode(name, v)
	if err != nil {
		return nil, err
	}
	return doc.WriteToBytes()
}

// Encode is like Marshal, but returns the message as a document
// tree.
func (cfg *Config) Encode(name xml.Name, v interface{}) (*etree.Document, error) {
	version := cfg.soapVersion()
	ctx := NewContext(cfg, version)
	typ, err := ctx.typeOfValue(v)
	if err != nil {
		return nil, err
	}
	switch typ.(type) {
	case *StructType, *MapType:
	default:
		return nil, errorf("the body of a message must be a struct or map, not %T", v)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	envNS := version.EnvelopeNS()
	env := NewWriter(doc, xml.Name{Space: envNS, Local: "Envelope"})
	for _, ns := range []string{version.EncodingNS(), xsd.SchemaNS, xsd.SchemaInstanceNS} {
		env.PrefixFor(ns, "")
	}
	body := env.ElementWriter(xml.Name{Space: envNS, Local: "Body"})
	call := body.ElementWriter(name)
	call.WriteAttr(xml.Name{Space: envNS, Local: "encodingStyle"}, version.EncodingNS())

	if err := typ.WriteObject(v, call, ctx); err != nil {
		return nil, at(name.Local, err)
	}
	if err := WriteBlocks(body, ctx); err != nil {
		return nil, at("Body", err)
	}
	if err := ctx.checkWrites(); err != nil {
		return nil, at(name.Local, err)
	}
	if cfg.indent > 0 {
		doc.Indent(cfg.indent)
	}
	return doc, nil
}

// Unmarshal is like the top-level Unmarshal function, but uses the
// settings of cfg.
func (cfg *Config) Unmarshal(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errorf("Unmarshal requires a non-nil pointer, not %T", v)
	}
	root, err := xmltree.Parse(data)
	if err != nil {
		return wrapf(err, "cannot parse message")
	}
	return cfg.Decode(root, v)
}

// Decode is like Unmarshal, but reads a message that has already
// been parsed.
func (cfg *Config) Decode(root *xmltree.Element, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errorf("Decode requires a non-nil pointer, not %T", v)
	}
	version, ok := envelopeVersion(root.Name)
	if !ok {
		return errorf("<%s> is not a SOAP envelope", root.Name.Local)
	}
	body := child(root, xml.Name{Space: version.EnvelopeNS(), Local: "Body"})
	if body == nil {
		return errorf("SOAP envelope has no Body")
	}
	main, rest := splitBody(body)
	if main == nil {
		return errorf("SOAP Body is empty")
	}
	if main.Name == (xml.Name{Space: version.EnvelopeNS(), Local: "Fault"}) {
		return readFault(main, version)
	}

	ctx := NewContext(cfg, version)
	typ, err := ctx.typeOf(rv.Elem().Type())
	if err != nil {
		return err
	}
	ctx.mapping.registerDependencies(typ)
	val, err := readValue(typ, NewReader(main), ctx)
	if err != nil {
		return at("Body", err)
	}
	blocks := &xmltree.Element{Scope: body.Scope, StartElement: body.StartElement, Children: rest}
	if err := ReadBlocks(NewReader(blocks), ctx); err != nil {
		return at("Body", err)
	}
	if ids := ctx.RefRegistry().Unresolved(); len(ids) > 0 {
		quoted := make([]string, len(ids))
		for i, id := range ids {
			quoted[i] = strconv.Quote(id)
		}
		if cfg.strictRefs {
			return errorf("unresolved references to SOAP ids %s", strings.Join(quoted, ", "))
		}
		ctx.logf("unresolved references to SOAP ids %s", strings.Join(quoted, ", "))
	}
	if err := ctx.Finish(); err != nil {
		return at("Body", err)
	}
	return assign(rv.Elem(), val)
}

func envelopeVersion(name xml.Name) (Version, bool) {
	if name.Local != "Envelope" {
		return 0, false
	}
	switch name.Space {
	case EnvelopeNS11:
		return SOAP11, true
	case EnvelopeNS12:
		return SOAP12, true
	}
	return 0, false
}

func child(el *xmltree.Element, name xml.Name) *xmltree.Element {
	for i := range el.Children {
		if el.Children[i].Name == name {
			return &el.Children[i]
		}
	}
	return nil
}

// splitBody separates the element of the Body that holds the message
// from the trailing blocks. Blocks marked soapenc:root="0" may also
// precede it.
func splitBody(body *xmltree.Element) (main *xmltree.Element, rest []xmltree.Element) {
	for i := range body.Children {
		c := &body.Children[i]
		if main == nil {
			if v, _ := c.LookupAttr(attrRoot); strings.TrimSpace(v) != "0" {
				main = c
				continue
			}
		}
		rest = append(rest, *c)
	}
	return main, rest
}
