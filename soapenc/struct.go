package soapenc

import (
	"encoding/xml"
	"reflect"
	"strings"
)

// A StructType reads and writes Go structs as SOAP-encoded structs.
//
// Every exported field is a property. Fields are named with the
// conventions of encoding/xml struct tags:
//
//	Name string `xml:"name"`          // element <name>
//	ID   int    `xml:"id,attr"`       // attribute id="..."
//	Note string `xml:"urn:x note"`    // element in namespace urn:x
//	Skip int    `xml:"-"`             // ignored
//	Opt  *int   `xml:"opt,omitempty"` // not written when zero
//
// An embedded struct is the super type of the struct. Its properties
// are written first, and unqualified elements are matched against the
// properties of the struct, then those of its super types.
//
// Property elements are written unqualified. Struct, array, and map
// values are always written by reference, and may be read inline or
// by reference.
type StructType struct {
	baseType
	super      *StructType
	superIndex []int
	props      []*property
}

type property struct {
	name      xml.Name
	index     []int
	typ       reflect.Type
	attr      bool
	omitempty bool
}

func newStructType(m *TypeMapping, t reflect.Type) (*StructType, error) {
	st := &StructType{
		baseType: baseType{name: m.nameOf(t, t.Name()), typ: t, nillable: true, mapping: m},
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" || f.Name == "XMLName" {
			continue
		}
		tag := f.Tag.Get("xml")
		if tag == "-" {
			continue
		}
		if f.Anonymous && tag == "" && f.Type.Kind() == reflect.Struct && st.super == nil {
			super, err := m.TypeOf(f.Type)
			if err != nil {
				return nil, err
			}
			if s, ok := super.(*StructType); ok {
				st.super, st.superIndex = s, f.Index
				continue
			}
		}
		p, ok := parseField(f, tag)
		if !ok {
			continue
		}
		if !p.attr && p.name.Space == "" {
			p.name.Space = st.name.Space
		}
		st.props = append(st.props, p)
	}
	return st, nil
}

func parseField(f reflect.StructField, tag string) (*property, bool) {
	p := &property{index: f.Index, typ: f.Type}
	name := tag
	if i := strings.IndexByte(tag, ','); i >= 0 {
		name = tag[:i]
		for _, opt := range strings.Split(tag[i+1:], ",") {
			switch opt {
			case "attr":
				p.attr = true
			case "omitempty":
				p.omitempty = true
			case "chardata", "cdata", "innerxml", "comment", "any":
				return nil, false
			}
		}
	}
	if i := strings.IndexByte(name, ' '); i >= 0 {
		p.name.Space, name = name[:i], name[i+1:]
	}
	if name == "" {
		name = f.Name
	}
	p.name.Local = name
	return p, true
}

func (t *StructType) IsComplex() bool { return true }

// SuperType returns the Type of the struct embedded in t, if any.
func (t *StructType) SuperType() *StructType { return t.super }

func (t *StructType) Dependencies() []Type {
	var deps []Type
	if t.super != nil {
		deps = append(deps, t.super)
	}
	for _, p := range t.props {
		if typ, err := t.mapping.TypeOf(p.typ); err == nil {
			deps = append(deps, typ)
		}
	}
	return deps
}

// lookup finds the property for an element, and the field of v
// that holds it. The struct is searched before its super types.
func (t *StructType) lookup(name xml.Name, v reflect.Value) (*property, reflect.Value) {
	match := func(p *property, level *StructType) bool {
		if name.Space == "" {
			return p.name == xml.Name{Space: level.name.Space, Local: name.Local}
		}
		return p.name == name
	}
	byLocal := func(p *property, _ *StructType) bool {
		return p.name.Local == name.Local
	}
	for _, fn := range []func(*property, *StructType) bool{match, byLocal} {
		level, lv := t, v
		for level != nil {
			for _, p := range level.props {
				if !p.attr && fn(p, level) {
					return p, lv.FieldByIndex(p.index)
				}
			}
			if level.super == nil {
				break
			}
			level, lv = level.super, lv.FieldByIndex(level.superIndex)
		}
	}
	return nil, reflect.Value{}
}

func (t *StructType) ReadObject(r *Reader, ctx *Context) (interface{}, error) {
	pv := reflect.New(t.typ)
	if err := t.readAttributes(r, pv.Elem(), ctx); err != nil {
		return nil, err
	}
	for r.HasMoreElementReaders() {
		c := r.NextElementReader()
		p, field := t.lookup(c.Name(), pv.Elem())
		if p == nil {
			ctx.logf("skipping unknown property <%s> of %s", c.Name().Local, t.name.Local)
			continue
		}
		if c.IsXsiNil() {
			field.Set(reflect.Zero(field.Type()))
			continue
		}
		if err := t.readProperty(c, ctx, pv.Interface(), p, field); err != nil {
			return nil, err
		}
	}
	return pv.Interface(), nil
}

func (t *StructType) readAttributes(r *Reader, v reflect.Value, ctx *Context) error {
	if t.super != nil {
		if err := t.super.readAttributes(r, v.FieldByIndex(t.superIndex), ctx); err != nil {
			return err
		}
	}
	for _, p := range t.props {
		if !p.attr {
			continue
		}
		s, ok := r.Attr(p.name)
		if !ok {
			continue
		}
		typ, err := ctx.typeOf(p.typ)
		if err != nil {
			return err
		}
		field := v.FieldByIndex(p.index)
		st, ok := simpleOf(typ)
		if !ok {
			return errorf("attribute %s of %s is not a simple type", p.name.Local, t.name.Local)
		}
		val, err := st.parse(s, st.typ)
		if err != nil {
			return at("@"+p.name.Local, err)
		}
		if err := assign(field, val.Interface()); err != nil {
			return at("@"+p.name.Local, err)
		}
	}
	return nil
}

// readProperty reads the property p of owner into field, once its
// value is known.
func (t *StructType) readProperty(c *Reader, ctx *Context, owner interface{}, p *property, field reflect.Value) error {
	typ, err := ctx.typeOf(p.typ)
	if err != nil {
		return err
	}
	v, err := readValue(NewRefType(readType(c, ctx, typ)), c, ctx)
	if err != nil {
		return err
	}
	ref := v.(*Ref)
	if p.typ == refPtrType {
		field.Set(reflect.ValueOf(ref))
		return nil
	}
	name := c.Name().Local
	return ref.SetAction(func(ref *Ref) error {
		val, _ := ref.Get()
		return ctx.store(owner, name, field, val, nil)
	})
}

func (t *StructType) WriteObject(v interface{}, w *Writer, ctx *Context) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		w.WriteXsiNil()
		return nil
	}
	if rv.Type() != t.typ {
		return internalf("%s cannot write a %s", t.name.Local, rv.Type())
	}
	if err := t.writeAttributes(rv, w, ctx); err != nil {
		return err
	}
	return t.writeProperties(rv, w, ctx)
}

func (t *StructType) writeAttributes(v reflect.Value, w *Writer, ctx *Context) error {
	if t.super != nil {
		if err := t.super.writeAttributes(v.FieldByIndex(t.superIndex), w, ctx); err != nil {
			return err
		}
	}
	for _, p := range t.props {
		if !p.attr {
			continue
		}
		field := v.FieldByIndex(p.index)
		if (p.omitempty && field.IsZero()) || isNil(field.Interface()) {
			continue
		}
		typ, err := ctx.typeOf(p.typ)
		if err != nil {
			return err
		}
		st, ok := simpleOf(typ)
		if !ok {
			return errorf("attribute %s of %s is not a simple type", p.name.Local, t.name.Local)
		}
		s, err := st.format(reflect.Indirect(field))
		if err != nil {
			return at("@"+p.name.Local, err)
		}
		w.WriteAttr(p.name, s)
	}
	return nil
}

func (t *StructType) writeProperties(v reflect.Value, w *Writer, ctx *Context) error {
	if t.super != nil {
		if err := t.super.writeProperties(v.FieldByIndex(t.superIndex), w, ctx); err != nil {
			return err
		}
	}
	for _, p := range t.props {
		if p.attr {
			continue
		}
		field := v.FieldByIndex(p.index)
		if p.omitempty && field.IsZero() {
			continue
		}
		name := p.name.Local
		declared, err := ctx.typeOf(p.typ)
		if err != nil {
			return err
		}
		val := field.Interface()
		if ref, ok := val.(*Ref); ok && ref != nil {
			// written when the value is known
			if !ref.Resolved() {
				ctx.deferWrite(ref, name)
			}
			err = ref.SetAction(func(ref *Ref) error {
				delete(ctx.pending, ref)
				v, _ := ref.Get()
				return writeProperty(w, name, v, declared, ctx)
			})
		} else {
			err = writeProperty(w, name, val, declared, ctx)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// writeProperty writes v as an unqualified child element of w.
func writeProperty(w *Writer, local string, v interface{}, declared Type, ctx *Context) error {
	typ, err := writeType(ctx, v, declared)
	if err != nil {
		return at(local, err)
	}
	return at(local, writeElement(w.ElementWriter(xml.Name{Local: local}), v, declared, typ, ctx))
}

// simpleOf returns the simple type of typ, looking through pointers.
func simpleOf(typ Type) (*simpleType, bool) {
	for {
		switch t := typ.(type) {
		case *simpleType:
			return t, true
		case *pointerType:
			typ = t.Type
		default:
			return nil, false
		}
	}
}
