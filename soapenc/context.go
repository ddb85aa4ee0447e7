package soapenc

import (
	"reflect"
	"sort"
	"strings"
	"unsafe"
)

// A Context holds the state of a single message while it is
// encoded or decoded. It is passed to every Type that reads or
// writes part of the message. A Context must not be shared between
// messages, or used by more than one goroutine.
type Context struct {
	cfg     *Config
	mapping *TypeMapping
	version Version

	refs    *RefRegistry
	marshal *MarshalRegistry

	copies  []valueCopy
	pending map[*Ref]string
}

// A valueCopy stores v in dst once the message is read. dst belongs
// to the value identified by owner; src identifies v if v may still
// be filled in by other copies.
type valueCopy struct {
	owner, src unsafe.Pointer
	elem       string
	dst        reflect.Value
	v          interface{}
	done       func()
}

// NewContext returns a Context for a message of the given SOAP
// version. A nil cfg uses the default configuration.
func NewContext(cfg *Config, version Version) *Context {
	if cfg == nil {
		cfg = defaultConfig
	}
	return &Context{cfg: cfg, mapping: cfg.TypeMapping(), version: version}
}

// Mapping returns the TypeMapping used to find the Type of values in
// the message.
func (ctx *Context) Mapping() *TypeMapping { return ctx.mapping }

// Version returns the SOAP version of the message.
func (ctx *Context) Version() Version { return ctx.version }

// RefRegistry returns the registry of ids and references read from
// the message.
func (ctx *Context) RefRegistry() *RefRegistry {
	if ctx.refs == nil {
		ctx.refs = NewRefRegistry()
	}
	return ctx.refs
}

// MarshalRegistry returns the registry of instances written by
// reference to the message.
func (ctx *Context) MarshalRegistry() *MarshalRegistry {
	if ctx.marshal == nil {
		ctx.marshal = NewMarshalRegistry()
	}
	return ctx.marshal
}

func (ctx *Context) typeOf(t reflect.Type) (Type, error) {
	typ, created, err := ctx.mapping.lookupOrCreate(t)
	if created {
		ctx.cfg.debugf("created %T %s for Go type %s", typ, typ.SchemaType().Local, t)
	}
	return typ, err
}

// typeOfValue returns the Type of the dynamic type of v.
func (ctx *Context) typeOfValue(v interface{}) (Type, error) {
	return ctx.typeOf(reflect.TypeOf(v))
}

func (ctx *Context) logf(format string, v ...interface{})   { ctx.cfg.logf(format, v...) }
func (ctx *Context) debugf(format string, v ...interface{}) { ctx.cfg.debugf(format, v...) }

// instanceKey returns the address of the pointer, map or slice v, or
// nil for other values.
func instanceKey(v interface{}) unsafe.Pointer {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map:
		if !rv.IsNil() {
			return rv.UnsafePointer()
		}
	case reflect.Slice:
		if rv.Len() > 0 {
			return rv.UnsafePointer()
		}
	}
	return nil
}

// copies reports whether storing v in a location of type t copies
// the memory of v rather than sharing it.
func copies(t reflect.Type, v interface{}) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		return !rv.Type().AssignableTo(t)
	}
	return false
}

// store assigns v, read as the element elem of owner, to dst, then
// calls done if it is not nil. A value that would be copied may not
// be complete until every reference in the message is resolved, so
// the copy is made by Finish.
func (ctx *Context) store(owner interface{}, elem string, dst reflect.Value, v interface{}, done func()) error {
	if !copies(dst.Type(), v) {
		if err := assign(dst, v); err != nil {
			return at(elem, err)
		}
		if done != nil {
			done()
		}
		return nil
	}
	ctx.copies = append(ctx.copies, valueCopy{
		owner: instanceKey(owner),
		src:   instanceKey(v),
		elem:  elem,
		dst:   dst,
		v:     v,
		done:  done,
	})
	return nil
}

// Finish completes the values read with ctx, storing copies of the
// values referred to by struct fields, array members and map entries
// that are not pointers. A value is copied after the copies into it
// are made. Finish is called by Decode once the trailing blocks are
// read.
func (ctx *Context) Finish() error {
	pending := ctx.copies
	ctx.copies = nil

	byOwner := make(map[unsafe.Pointer][]int)
	for i, c := range pending {
		if c.owner != nil {
			byOwner[c.owner] = append(byOwner[c.owner], i)
		}
	}
	done := make([]bool, len(pending))
	var run func(i int) error
	run = func(i int) error {
		if done[i] {
			return nil
		}
		done[i] = true
		c := pending[i]
		if c.src != nil {
			for _, j := range byOwner[c.src] {
				if err := run(j); err != nil {
					return err
				}
			}
		}
		if err := assign(c.dst, c.v); err != nil {
			return at(c.elem, err)
		}
		if c.done != nil {
			c.done()
		}
		return nil
	}
	for i := range pending {
		if err := run(i); err != nil {
			return err
		}
	}
	if len(pending) > 0 {
		ctx.debugf("copied %d values", len(pending))
	}
	return nil
}

// deferWrite records that the property name is written once ref is
// resolved.
func (ctx *Context) deferWrite(ref *Ref, name string) {
	if ctx.pending == nil {
		ctx.pending = make(map[*Ref]string)
	}
	ctx.pending[ref] = name
}

// checkWrites returns an error naming the properties whose
// references were never resolved, and detaches their writes.
func (ctx *Context) checkWrites() error {
	if len(ctx.pending) == 0 {
		return nil
	}
	names := make([]string, 0, len(ctx.pending))
	for ref, name := range ctx.pending {
		names = append(names, name)
		ref.action = nil
	}
	ctx.pending = nil
	sort.Strings(names)
	return errorf("unresolved references in properties %s", strings.Join(names, ", "))
}
