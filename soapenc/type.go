package soapenc

import (
	"encoding/xml"
	"reflect"
)

// A Type converts between the SOAP encoding of one schema type and
// the Go values of one Go type.
//
// ReadObject reads the element of r and returns the value it
// encodes. Complex types return a pointer to a new value, so that
// references to it can be resolved later; callers assign the result
// with the conversions of the Go type they hold. WriteObject writes
// v as the content and attributes of the element of w.
type Type interface {
	SchemaType() xml.Name
	GoType() reflect.Type
	IsNillable() bool
	IsAbstract() bool
	// Complex types are written by reference.
	IsComplex() bool
	Dependencies() []Type
	TypeMapping() *TypeMapping

	ReadObject(r *Reader, ctx *Context) (interface{}, error)
	WriteObject(v interface{}, w *Writer, ctx *Context) error
}

// baseType provides the metadata of a Type.
type baseType struct {
	name     xml.Name
	typ      reflect.Type
	nillable bool
	mapping  *TypeMapping
}

func (t *baseType) SchemaType() xml.Name      { return t.name }
func (t *baseType) GoType() reflect.Type      { return t.typ }
func (t *baseType) IsNillable() bool          { return t.nillable }
func (t *baseType) IsAbstract() bool          { return false }
func (t *baseType) IsComplex() bool           { return false }
func (t *baseType) Dependencies() []Type      { return nil }
func (t *baseType) TypeMapping() *TypeMapping { return t.mapping }

// readValue reads an element with t, recording the element's name
// in any error.
func readValue(t Type, r *Reader, ctx *Context) (interface{}, error) {
	v, err := t.ReadObject(r, ctx)
	if err != nil {
		return nil, at(r.Name().Local, err)
	}
	return v, nil
}

// readType returns the Type of an element whose declared Type is
// declared, taking an xsi:type attribute into account. An xsi:type
// that names an unknown type, or a type whose values cannot be held
// by the declared Go type, is ignored.
func readType(r *Reader, ctx *Context, declared Type) Type {
	name, ok := r.XsiType()
	if !ok || name == declared.SchemaType() {
		return declared
	}
	typ, ok := ctx.Mapping().TypeByName(name)
	if !ok {
		ctx.debugf("ignoring unknown xsi:type %s on <%s>", name.Local, r.Name().Local)
		return declared
	}
	want, got := declared.GoType(), typ.GoType()
	if got.AssignableTo(want) || reflect.PointerTo(got).AssignableTo(want) {
		return typ
	}
	ctx.debugf("ignoring xsi:type %s on <%s>: %s is not assignable to %s",
		name.Local, r.Name().Local, got, want)
	return declared
}

// writeType returns the Type to write v with, if its declared Type
// is declared.
func writeType(ctx *Context, v interface{}, declared Type) (Type, error) {
	if v == nil || reflect.TypeOf(v) == declared.GoType() {
		return declared, nil
	}
	if declared.GoType().Kind() != reflect.Interface && !declared.IsComplex() {
		return declared, nil
	}
	return ctx.typeOfValue(v)
}

// writeElement writes v, declared as the type declared, as the
// content of w. Complex values are written as a reference to a
// trailing block. The arrayType grammar has no zero length, so empty
// arrays are written as nil.
func writeElement(w *Writer, v interface{}, declared, typ Type, ctx *Context) error {
	if isNil(v) || isEmptyArray(v) {
		w.WriteXsiNil()
		return nil
	}
	if typ.IsComplex() {
		writeRef(w, ctx.MarshalRegistry().InstanceID(v))
		return nil
	}
	if declared.GoType().Kind() == reflect.Interface {
		w.WriteXsiType(xsiTypeName(typ))
	}
	return typ.WriteObject(v, w, ctx)
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func isEmptyArray(v interface{}) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Slice && isArray(rv.Type()) && rv.Len() == 0
}
