package soapenc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefSet(t *testing.T) {
	ref := NewRef()
	_, ok := ref.Get()
	assert.False(t, ok)
	assert.Error(t, ref.Set(nil), "resolved a Ref to nil")
	assert.False(t, ref.Resolved())

	require.NoError(t, ref.Set("value"))
	v, ok := ref.Get()
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	assert.Error(t, ref.Set("other"), "resolved a Ref twice")
	v, _ = ref.Get()
	assert.Equal(t, "value", v, "second Set replaced the value")
}

func TestRefAction(t *testing.T) {
	var calls []interface{}
	record := func(ref *Ref) error {
		v, _ := ref.Get()
		calls = append(calls, v)
		return nil
	}

	ref := NewRef()
	assert.Error(t, ref.SetAction(nil))
	require.NoError(t, ref.SetAction(record))
	assert.Empty(t, calls, "action ran before the Ref was resolved")
	assert.Error(t, ref.SetAction(record), "attached a second pending action")

	require.NoError(t, ref.Set(1))
	assert.Equal(t, []interface{}{1}, calls)

	// actions attached after resolution run immediately, each once
	require.NoError(t, ref.SetAction(record))
	require.NoError(t, ref.SetAction(record))
	assert.Equal(t, []interface{}{1, 1, 1}, calls)

	calls = nil
	require.NoError(t, ResolvedRef("x").SetAction(record))
	assert.Equal(t, []interface{}{"x"}, calls)
}

func TestRefActionError(t *testing.T) {
	boom := errors.New("boom")
	fail := func(*Ref) error { return boom }

	ref := NewRef()
	require.NoError(t, ref.SetAction(fail))
	assert.ErrorIs(t, ref.Set(1), boom)
	assert.True(t, ref.Resolved())

	assert.ErrorIs(t, ResolvedRef(1).SetAction(fail), boom)
}

func TestRefRegistryForward(t *testing.T) {
	reg := NewRefRegistry()
	early, late := NewRef(), NewRef()

	require.NoError(t, reg.AddRef("a", early))
	assert.False(t, early.Resolved())
	assert.Equal(t, []string{"a"}, reg.Unresolved())

	v := &struct{ N int }{1}
	require.NoError(t, reg.AddInstance("a", v))
	require.NoError(t, reg.AddRef("a", late))
	for i, ref := range []*Ref{early, late} {
		got, ok := ref.Get()
		if assert.True(t, ok, "test %d", i) {
			assert.Same(t, v, got, "test %d", i)
		}
	}
	assert.Empty(t, reg.Unresolved())

	got, ok := reg.Instance("a")
	assert.True(t, ok)
	assert.Same(t, v, got)
	_, ok = reg.Instance("b")
	assert.False(t, ok)
}

func TestRefRegistryErrors(t *testing.T) {
	reg := NewRefRegistry()
	require.NoError(t, reg.AddInstance("x", 1))
	err := reg.AddInstance("x", 2)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), `duplicate SOAP id "x"`)
	}
	v, _ := reg.Instance("x")
	assert.Equal(t, 1, v)

	assert.Error(t, reg.AddInstance("y", nil))
	_, ok := reg.Instance("y")
	assert.False(t, ok)

	require.NoError(t, reg.AddRef("z", NewRef()))
	require.NoError(t, reg.AddRef("w", NewRef()))
	assert.Equal(t, []string{"w", "z"}, reg.Unresolved())
	assert.Equal(t, []string{"x"}, reg.IDs())
}

func TestMarshalRegistryIdentity(t *testing.T) {
	type node struct{ V int }
	p, q := &node{1}, &node{1}
	s := []int{1, 2, 3}
	m := map[string]int{"a": 1}

	mr := NewMarshalRegistry()
	cases := []struct {
		v    interface{}
		want string
	}{
		{p, "0"},
		{p, "0"},
		{q, "1"},
		{s, "2"},
		{s, "2"},
		{s[:2], "3"},
		{m, "4"},
		{m, "4"},
		// values without identity are always new instances
		{node{1}, "5"},
		{node{1}, "6"},
		{"text", "7"},
		{[]int{}, "8"},
	}
	for i, tc := range cases {
		assert.Equal(t, tc.want, mr.InstanceID(tc.v), "test %d: %#v", i, tc.v)
	}
	assert.Equal(t, 9, mr.Len())
}

func TestMarshalRegistryDrain(t *testing.T) {
	type node struct{ Next *node }
	a := &node{}
	b := &node{Next: a}
	a.Next = b

	mr := NewMarshalRegistry()
	mr.InstanceID(a)

	var seen []string
	for id, v, ok := mr.Next(); ok; id, v, ok = mr.Next() {
		seen = append(seen, id)
		// writing a block discovers the instances it refers to
		mr.InstanceID(v.(*node).Next)
	}
	assert.Equal(t, []string{"0", "1"}, seen)
	assert.Zero(t, mr.Len())
	_, _, ok := mr.Next()
	assert.False(t, ok)
}
