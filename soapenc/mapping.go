package soapenc

import (
	"encoding/xml"
	"reflect"
	"sync"

	"github.com/CognitoIQ/go-soapenc/xsd"
)

// A TypeMapping holds the Types used to read and write messages,
// indexed by schema type name and by Go type. Types for Go types
// that are not registered are created on first use. A TypeMapping is
// safe for concurrent use.
type TypeMapping struct {
	namespace string

	mu     sync.RWMutex
	byName map[xml.Name]Type
	byGo   map[reflect.Type]Type
	names  map[reflect.Type]xml.Name
}

// NewTypeMapping returns a TypeMapping that holds the built-in
// types. Types derived from Go types are named in the namespace ns,
// or DefaultNamespace if ns is empty.
func NewTypeMapping(ns string) *TypeMapping {
	if ns == "" {
		ns = DefaultNamespace
	}
	m := &TypeMapping{
		namespace: ns,
		byName:    make(map[xml.Name]Type),
		byGo:      make(map[reflect.Type]Type),
		names:     make(map[reflect.Type]xml.Name),
	}
	m.registerBuiltins()
	return m
}

// Namespace returns the namespace of the schema types derived from
// Go types.
func (m *TypeMapping) Namespace() string { return m.namespace }

// TypeByName returns the Type registered for a schema type. Names in
// the namespaces of XML Schema drafts are treated as their XML Schema
// 1.0 equivalents.
func (m *TypeMapping) TypeByName(name xml.Name) (Type, bool) {
	name = xsd.Canonical(name)
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.byName[name]
	return t, ok
}

// TypeOf returns the Type for values of the Go type t, creating and
// registering it if needed.
func (m *TypeMapping) TypeOf(t reflect.Type) (Type, error) {
	typ, _, err := m.lookupOrCreate(t)
	return typ, err
}

// Register adds typ to the mapping. If a Type is already registered
// for the Go type of typ, that Type is kept and returned. The schema
// type name of typ is registered if it is not taken.
func (m *TypeMapping) Register(typ Type) Type {
	return m.register(typ.GoType(), typ)
}

// Bind sets the schema type name used for the Go type t. It must be
// called before the Type for t is created.
func (m *TypeMapping) Bind(t reflect.Type, name xml.Name) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byGo[t]; ok {
		return errorf("cannot bind %s to %s: type already in use", t, name.Local)
	}
	m.names[t] = name
	return nil
}

func (m *TypeMapping) register(key reflect.Type, typ Type) Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.byGo[key]; ok {
		return prev
	}
	m.byGo[key] = typ
	if _, ok := m.byName[typ.SchemaType()]; !ok {
		m.byName[typ.SchemaType()] = typ
	}
	return typ
}

// registerName adds typ only under its schema type name. Several
// schema types share a Go type.
func (m *TypeMapping) registerName(name xml.Name, typ Type) {
	if _, ok := m.byName[name]; !ok {
		m.byName[name] = typ
	}
}

func (m *TypeMapping) lookupOrCreate(t reflect.Type) (typ Type, created bool, err error) {
	if t == nil {
		return nil, false, errorf("no type for a nil interface value")
	}
	m.mu.RLock()
	typ, ok := m.byGo[t]
	m.mu.RUnlock()
	if ok {
		return typ, false, nil
	}

	typ, err = m.create(t)
	if err != nil {
		return nil, false, err
	}
	reg := m.register(t, typ)
	return reg, reg == typ, nil
}

// nameOf returns the schema type name of the Go type t.
func (m *TypeMapping) nameOf(t reflect.Type, local string) xml.Name {
	if name, ok := m.bound(t); ok {
		return name
	}
	if t.Name() != "" {
		local = t.Name()
	}
	return xml.Name{Space: m.namespace, Local: local}
}

func (m *TypeMapping) bound(t reflect.Type) (xml.Name, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.names[t]
	return name, ok
}

var refPtrType = reflect.TypeOf((*Ref)(nil))

func (m *TypeMapping) create(t reflect.Type) (Type, error) {
	if t == refPtrType {
		return m.anyType(), nil
	}
	switch t.Kind() {
	case reflect.Interface:
		return m.anyType(), nil
	case reflect.Ptr:
		elem, _, err := m.lookupOrCreate(t.Elem())
		if err != nil {
			return nil, err
		}
		if elem.IsComplex() {
			return elem, nil
		}
		return newPointerType(elem, t), nil
	case reflect.Struct:
		if t.Name() == "" {
			return nil, errorf("cannot encode unnamed struct type %s", t)
		}
		st, err := newStructType(m, t)
		if err != nil {
			return nil, err
		}
		return st, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return m.derive(t, reflect.TypeOf([]byte(nil)))
		}
		arr, err := newArrayType(m, t)
		if err != nil {
			return nil, err
		}
		return arr, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, errorf("cannot encode map type %s: keys must be strings", t)
		}
		mt, err := newMapType(m, t)
		if err != nil {
			return nil, err
		}
		return mt, nil
	}
	if basic, ok := basicKinds[t.Kind()]; ok {
		return m.derive(t, basic)
	}
	return nil, errorf("cannot encode Go type %s", t)
}

// derive returns a copy of the simple type of basic, for the Go type
// t with the same underlying type.
func (m *TypeMapping) derive(t, basic reflect.Type) (Type, error) {
	m.mu.RLock()
	base, ok := m.byGo[basic].(*simpleType)
	m.mu.RUnlock()
	if !ok {
		return nil, internalf("no simple type for %s", basic)
	}
	st := *base
	st.typ = t
	if name, ok := m.bound(t); ok {
		st.name = name
	}
	return &st, nil
}

func (m *TypeMapping) anyType() Type {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byName[xsd.AnyType.Name()]
}

// registerDependencies creates the Types that typ depends on, and
// theirs in turn, so that the elements of a message can be found by
// name in any order.
func (m *TypeMapping) registerDependencies(typ Type) {
	seen := map[Type]bool{typ: true}
	stack := []Type{typ}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range t.Dependencies() {
			if !seen[dep] {
				seen[dep] = true
				stack = append(stack, dep)
			}
		}
	}
}
