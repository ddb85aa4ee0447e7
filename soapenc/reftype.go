package soapenc

// A RefType wraps a Type so that values may be read by reference,
// and are always written by reference.
//
// ReadObject returns a *Ref. If the element refers to another
// element with an href or enc:ref attribute, the Ref is resolved
// when the element with that id is read. Otherwise the element is
// read inline with the wrapped Type, and the Ref is already resolved.
// An inline element that carries an id can be referred to by other
// elements.
//
// WriteObject writes only a reference to v, and queues v to be
// written as a trailing block.
type RefType struct {
	Type
}

// NewRefType returns a RefType that wraps t.
func NewRefType(t Type) *RefType {
	return &RefType{Type: t}
}

func (t *RefType) ReadObject(r *Reader, ctx *Context) (interface{}, error) {
	if id, ok := refID(r); ok {
		ref := NewRef()
		if err := ctx.RefRegistry().AddRef(id, ref); err != nil {
			return nil, err
		}
		r.ReadToEnd()
		return ref, nil
	}
	v, err := t.Type.ReadObject(r, ctx)
	if err != nil {
		return nil, err
	}
	if id, ok := soapID(r); ok && v != nil {
		if err := ctx.RefRegistry().AddInstance(id, v); err != nil {
			return nil, err
		}
	}
	return ResolvedRef(v), nil
}

func (t *RefType) WriteObject(v interface{}, w *Writer, ctx *Context) error {
	if isNil(v) {
		w.WriteXsiNil()
		return nil
	}
	writeRef(w, ctx.MarshalRegistry().InstanceID(v))
	return nil
}
