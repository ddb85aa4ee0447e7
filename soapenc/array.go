package soapenc

import (
	"encoding/xml"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// An ArrayType reads and writes SOAP-encoded arrays as Go slices.
// Nested slices are multi-dimensional arrays: a [][]int has two
// dimensions. Byte slices are not arrays; they are encoded as
// xsd:base64Binary.
//
// Arrays may be partially transmitted, with a soapenc:offset
// attribute, or sparse, with a soapenc:position attribute on every
// member. Members missing from the message are left as zero values.
type ArrayType struct {
	baseType
	dims int
}

func newArrayType(m *TypeMapping, t reflect.Type) (*ArrayType, error) {
	name, ok := m.bound(t)
	if !ok {
		if t.Name() != "" {
			name = xml.Name{Space: m.namespace, Local: t.Name()}
		} else {
			elem, err := m.TypeOf(t.Elem())
			if err != nil {
				return nil, err
			}
			name = xml.Name{Space: m.namespace, Local: "ArrayOf" + upperFirst(elem.SchemaType().Local)}
		}
	}
	dims := 0
	for e := t; isArray(e); e = e.Elem() {
		dims++
	}
	return &ArrayType{
		baseType: baseType{name: name, typ: t, nillable: true, mapping: m},
		dims:     dims,
	}, nil
}

func isArray(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8
}

func upperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

// Dimensions returns the number of dimensions of the array.
func (t *ArrayType) Dimensions() int { return t.dims }

// IsComplex returns true. Arrays are always written by reference.
func (t *ArrayType) IsComplex() bool { return true }

// ComponentType returns the Type of the members of the array.
func (t *ArrayType) ComponentType() (Type, error) {
	return t.mapping.TypeOf(t.typ.Elem())
}

// RootType returns the name of the innermost member type, which is
// not an array.
func (t *ArrayType) RootType() (xml.Name, error) {
	comp, err := t.ComponentType()
	if err != nil {
		return xml.Name{}, err
	}
	if arr, ok := comp.(*ArrayType); ok {
		return arr.RootType()
	}
	return comp.SchemaType(), nil
}

func (t *ArrayType) Dependencies() []Type {
	comp, err := t.ComponentType()
	if err != nil {
		return nil
	}
	return []Type{comp}
}

// WriteSchema always fails. SOAP-encoded arrays have no schema
// representation.
func (t *ArrayType) WriteSchema() error {
	return errorf("cannot write a schema for SOAP-encoded array %s", t.name.Local)
}

func (t *ArrayType) ReadObject(r *Reader, ctx *Context) (interface{}, error) {
	// registers the member types, so they can be found by name
	if _, err := t.RootType(); err != nil {
		return nil, err
	}
	info, err := readArrayTypeInfo(r, ctx)
	if err != nil {
		return nil, err
	}
	if t.dims != info.TotalDimensions() {
		return nil, errorf("in %s expected array with %d dimensions, but arrayType has %d dimensions: %s",
			t.name.Local, t.dims, info.TotalDimensions(), info.text)
	}

	maxSize := info.Size()
	if info.Offset >= maxSize {
		return nil, errorf("the array offset %d in %s exceeds the expected size of %d",
			info.Offset, t.name.Local, maxSize)
	}

	values, err := t.readCollection(r, ctx, info, maxSize-info.Offset)
	if err != nil {
		return nil, err
	}
	if info.Offset > 0 {
		values = append(make([]*Ref, info.Offset), values...)
	}
	if len(values) > maxSize {
		return nil, errorf("the number of elements %d in %s exceeds the expected size of %d",
			len(values), t.name.Local, maxSize)
	}
	if len(values) < maxSize {
		values = append(values, make([]*Ref, maxSize-len(values))...)
	}
	if len(values) != maxSize {
		return nil, internalf("expected %d array values, have %d", maxSize, len(values))
	}

	arr, err := makeArray(ctx, nil, values, info.Dimensions, t.typ)
	if err != nil {
		return nil, err
	}
	return arr.Interface(), nil
}

// readCollection reads the members of an array. The first member
// decides whether the array is sparse; a sparse array has a
// position attribute on every member. Missing members are nil.
func (t *ArrayType) readCollection(r *Reader, ctx *Context, info *ArrayTypeInfo, maxSize int) ([]*Ref, error) {
	var values []*Ref
	var assigned []bool
	var sparse, decided bool
	for r.HasMoreElementReaders() {
		c := r.NextElementReader()
		position, hasPosition := c.Attr(attrPosition)
		if !decided {
			sparse, decided = hasPosition, true
		}

		comp, ok := ctx.Mapping().TypeByName(c.Name())
		if !ok {
			comp = info.Type()
		}
		comp = readType(c, ctx, comp)

		var value *Ref
		if c.IsXsiNil() {
			c.ReadToEnd()
		} else {
			v, err := readValue(NewRefType(comp), c, ctx)
			if err != nil {
				return nil, err
			}
			value = v.(*Ref)
		}

		if !sparse {
			if len(values)+1 > maxSize {
				return nil, errorf("the number of elements in %s exceeds the maximum size of %d",
					t.name.Local, maxSize)
			}
			values = append(values, value)
			continue
		}
		if !hasPosition {
			return nil, at(c.Name().Local, errorf("sparse array entry does not contain a position attribute"))
		}
		pos, err := parsePosition(position, info.Dimensions)
		if err != nil {
			return nil, at(c.Name().Local, err)
		}
		if pos >= maxSize {
			return nil, errorf("array position %d in %s exceeds the maximum size of %d",
				pos, t.name.Local, maxSize)
		}
		for len(values) <= pos {
			values = append(values, nil)
			assigned = append(assigned, false)
		}
		// nil members count as assigned
		if assigned[pos] {
			return nil, errorf("array position %s in %s is assigned more than once",
				strings.TrimSpace(position), t.name.Local)
		}
		values[pos], assigned[pos] = value, true
	}
	return values, nil
}

// makeArray builds a slice of type t from the row-major values of an
// array with the given dimensions. Each member is stored once its
// reference resolves. The members of the sub-arrays of a
// multi-dimensional array belong to the outermost array, owner.
func makeArray(ctx *Context, owner interface{}, values []*Ref, dims []int, t reflect.Type) (reflect.Value, error) {
	arr := reflect.MakeSlice(t, dims[0], dims[0])
	if owner == nil {
		owner = arr.Interface()
	}
	if isArray(t.Elem()) && len(dims) > 1 {
		chunk := 1
		for _, d := range dims[1:] {
			chunk *= d
		}
		for i := 0; i < dims[0]; i++ {
			sub, err := makeArray(ctx, owner, values[i*chunk:(i+1)*chunk], dims[1:], t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			arr.Index(i).Set(sub)
		}
		return arr, nil
	}
	for i, ref := range values {
		if ref == nil {
			continue
		}
		slot, elem := arr.Index(i), "["+strconv.Itoa(i)+"]"
		err := ref.SetAction(func(ref *Ref) error {
			v, _ := ref.Get()
			return ctx.store(owner, elem, slot, v, nil)
		})
		if err != nil {
			return reflect.Value{}, err
		}
	}
	return arr, nil
}

func (t *ArrayType) WriteObject(v interface{}, w *Writer, ctx *Context) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if !rv.IsValid() || rv.IsNil() {
		return nil
	}
	if rv.Len() == 0 {
		return errorf("cannot encode empty array %s", t.name.Local)
	}
	comp, err := t.ComponentType()
	if err != nil {
		return err
	}
	root, err := t.RootType()
	if err != nil {
		return err
	}
	info := NewArrayTypeInfo(root, t.dims-1, rv.Len())
	if err := info.WriteAttributes(w); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := writeMember(rv.Index(i).Interface(), w, ctx, comp); err != nil {
			return at(t.name.Local, err)
		}
	}
	return nil
}

// writeMember writes a member of an array as an element named after
// its type.
func writeMember(v interface{}, w *Writer, ctx *Context, declared Type) error {
	typ, err := writeType(ctx, v, declared)
	if err != nil {
		return err
	}
	c := w.ElementWriter(xml.Name{Local: typ.SchemaType().Local})
	return writeElement(c, v, declared, typ, ctx)
}
