package soapenc

import (
	"encoding/xml"
	"reflect"

	"github.com/CognitoIQ/go-soapenc/internal/ordered"
)

// AnyType reads and writes values of type interface{}, as
// xsd:anyType.
//
// An element is read with the Type named by its xsi:type attribute.
// Without one, an element with a soapenc:arrayType attribute is read
// as a slice of the array's member type, an element with child
// elements is read as a map[string]interface{}, and any other element
// is read as its character data. Values are written with the Type of
// their dynamic type, and an xsi:type attribute.
type AnyType struct {
	baseType
}

func (t *AnyType) ReadObject(r *Reader, ctx *Context) (interface{}, error) {
	if r.IsXsiNil() {
		r.ReadToEnd()
		return nil, nil
	}
	if name, ok := r.XsiType(); ok && name != soapArray {
		typ, found := ctx.Mapping().TypeByName(name)
		switch {
		case !found:
			ctx.debugf("unknown xsi:type %s on <%s>", name.Local, r.Name().Local)
		case typ != Type(t):
			return typ.ReadObject(r, ctx)
		}
	}
	if _, ok := r.Attr(attrArrayType); ok {
		return readGenericArray(r, ctx)
	}
	if _, ok := r.Attr(attrArrayType12); ok {
		return readGenericArray(r, ctx)
	}
	if r.HasMoreElementReaders() {
		typ, ok := ctx.Mapping().TypeByName(soapStruct)
		if !ok {
			return nil, internalf("soapenc:Struct is not registered")
		}
		return typ.ReadObject(r, ctx)
	}
	r.ReadToEnd()
	return r.Value(), nil
}

// readGenericArray reads an array whose Go type is not known, as
// nested slices of the member type given by its arrayType.
func readGenericArray(r *Reader, ctx *Context) (interface{}, error) {
	info, err := readArrayTypeInfo(r, ctx)
	if err != nil {
		return nil, err
	}
	t := info.Type().GoType()
	for range info.Dimensions {
		t = reflect.SliceOf(t)
	}
	typ, err := ctx.typeOf(t)
	if err != nil {
		return nil, err
	}
	return typ.ReadObject(r, ctx)
}

func (t *AnyType) WriteObject(v interface{}, w *Writer, ctx *Context) error {
	if isNil(v) {
		w.WriteXsiNil()
		return nil
	}
	typ, err := ctx.typeOfValue(v)
	if err != nil {
		return err
	}
	if _, ok := typ.(*AnyType); ok {
		return internalf("no type for %T", v)
	}
	w.WriteXsiType(xsiTypeName(typ))
	return typ.WriteObject(v, w, ctx)
}

// xsiTypeName returns the name used in xsi:type attributes for
// values of typ. Arrays are soapenc:Array, as their member type is
// given by the arrayType attribute.
func xsiTypeName(typ Type) xml.Name {
	if _, ok := typ.(*ArrayType); ok {
		return soapArray
	}
	return typ.SchemaType()
}

// A MapType reads and writes string-keyed maps as structs whose
// property names are the keys of the map, sorted on output. The Type
// for map[string]interface{} is soapenc:Struct.
type MapType struct {
	baseType
}

func newMapType(m *TypeMapping, t reflect.Type) (*MapType, error) {
	name, ok := m.bound(t)
	if !ok {
		elem, err := m.TypeOf(t.Elem())
		if err != nil {
			return nil, err
		}
		name = m.nameOf(t, "MapOf"+upperFirst(elem.SchemaType().Local))
	}
	return &MapType{baseType{name: name, typ: t, nillable: true, mapping: m}}, nil
}

func (t *MapType) IsComplex() bool { return true }

func (t *MapType) ReadObject(r *Reader, ctx *Context) (interface{}, error) {
	elemType := t.typ.Elem()
	declared, err := ctx.typeOf(elemType)
	if err != nil {
		return nil, err
	}
	m := reflect.MakeMap(t.typ)
	seen := make(map[string]bool)
	for r.HasMoreElementReaders() {
		c := r.NextElementReader()
		name := c.Name().Local
		if seen[name] {
			return nil, errorf("duplicate property <%s> in %s", name, t.name.Local)
		}
		seen[name] = true
		key := reflect.ValueOf(name).Convert(t.typ.Key())
		if c.IsXsiNil() {
			c.ReadToEnd()
			m.SetMapIndex(key, reflect.Zero(elemType))
			continue
		}
		v, err := readValue(NewRefType(readType(c, ctx, declared)), c, ctx)
		if err != nil {
			return nil, err
		}
		owner := m.Interface()
		err = v.(*Ref).SetAction(func(ref *Ref) error {
			val := reflect.New(elemType).Elem()
			v, _ := ref.Get()
			return ctx.store(owner, name, val, v, func() { m.SetMapIndex(key, val) })
		})
		if err != nil {
			return nil, err
		}
	}
	return m.Interface(), nil
}

func (t *MapType) WriteObject(v interface{}, w *Writer, ctx *Context) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if !rv.IsValid() || rv.IsNil() {
		w.WriteXsiNil()
		return nil
	}
	declared, err := ctx.typeOf(t.typ.Elem())
	if err != nil {
		return err
	}
	keyType := rv.Type().Key()
	return ordered.RangeStrings(rv.Interface(), func(k string) error {
		val := rv.MapIndex(reflect.ValueOf(k).Convert(keyType)).Interface()
		return writeProperty(w, k, val, declared, ctx)
	})
}
