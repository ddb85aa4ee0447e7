package soapenc

// An Action is called once the value of a Ref is known.
type Action func(*Ref) error

// A Ref stands in for a value that may be defined later in a
// message. A Ref is resolved at most once. An Action attached to the
// Ref is called exactly once, as soon as both the Action and the
// value are present, within the call to Set or SetAction that
// completes the pair.
type Ref struct {
	resolved bool
	value    interface{}
	action   Action
}

// NewRef returns an unresolved Ref.
func NewRef() *Ref { return new(Ref) }

// ResolvedRef returns a Ref whose value is v.
func ResolvedRef(v interface{}) *Ref {
	return &Ref{resolved: true, value: v}
}

// Get returns the value of the Ref, and whether it is resolved.
func (ref *Ref) Get() (interface{}, bool) {
	return ref.value, ref.resolved
}

// Resolved reports whether the value of the Ref is known.
func (ref *Ref) Resolved() bool { return ref.resolved }

// Set resolves the Ref to v, and calls the pending Action, if any,
// returning its error. It is an error to resolve a Ref twice, or to
// resolve it to nil.
func (ref *Ref) Set(v interface{}) error {
	if v == nil {
		return errorf("cannot resolve a reference to nil")
	}
	if ref.resolved {
		return errorf("reference is already resolved to a %T", ref.value)
	}
	ref.value, ref.resolved = v, true
	if fn := ref.action; fn != nil {
		ref.action = nil
		return fn(ref)
	}
	return nil
}

// SetAction attaches fn to the Ref. If the Ref is resolved, fn is
// called immediately. It is an error to attach a second Action
// while the first has not been called.
func (ref *Ref) SetAction(fn Action) error {
	if fn == nil {
		return errorf("nil reference action")
	}
	if ref.resolved {
		return fn(ref)
	}
	if ref.action != nil {
		return errorf("reference already has a pending action")
	}
	ref.action = fn
	return nil
}
