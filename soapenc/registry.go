package soapenc

import "github.com/CognitoIQ/go-soapenc/internal/ordered"

// A RefRegistry holds the instances read from a message, by SOAP
// id, and the references to ids that have not been defined yet.
// References may precede the definition of the id they point to;
// they are resolved when the instance is added.
type RefRegistry struct {
	instances map[string]interface{}
	ids       []string
	pending   map[string][]*Ref
}

// NewRefRegistry returns an empty RefRegistry.
func NewRefRegistry() *RefRegistry {
	return &RefRegistry{
		instances: make(map[string]interface{}),
		pending:   make(map[string][]*Ref),
	}
}

// AddInstance binds id to v, and resolves every pending reference to
// id. It is an error to bind an id twice.
func (reg *RefRegistry) AddInstance(id string, v interface{}) error {
	if _, ok := reg.instances[id]; ok {
		return errorf("duplicate SOAP id %q", id)
	}
	if v == nil {
		return errorf("nil instance for SOAP id %q", id)
	}
	reg.instances[id] = v
	reg.ids = append(reg.ids, id)

	refs := reg.pending[id]
	delete(reg.pending, id)
	for _, ref := range refs {
		if err := ref.Set(v); err != nil {
			return err
		}
	}
	return nil
}

// AddRef resolves ref to the instance bound to id. If id is not
// bound yet, ref is resolved when it is.
func (reg *RefRegistry) AddRef(id string, ref *Ref) error {
	if v, ok := reg.instances[id]; ok {
		return ref.Set(v)
	}
	reg.pending[id] = append(reg.pending[id], ref)
	return nil
}

// Instance returns the instance bound to id.
func (reg *RefRegistry) Instance(id string) (interface{}, bool) {
	v, ok := reg.instances[id]
	return v, ok
}

// IDs returns the bound ids, in the order they were added.
func (reg *RefRegistry) IDs() []string {
	return append([]string(nil), reg.ids...)
}

// Unresolved returns the sorted ids that are referenced, but not
// bound.
func (reg *RefRegistry) Unresolved() []string {
	return ordered.Keys(reg.pending)
}
