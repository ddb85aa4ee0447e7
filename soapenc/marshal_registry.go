package soapenc

import (
	"reflect"
	"strconv"
	"unsafe"
)

// A MarshalRegistry assigns ids to the instances that are written by
// reference, and queues them to be written as trailing blocks.
//
// Instances are told apart by identity. A pointer, map, or non-empty
// slice is the same instance as another value of the same type that
// refers to the same memory (and, for slices, has the same length).
// Any other value is a new instance each time it is seen.
type MarshalRegistry struct {
	ids   map[identity]string
	next  int
	queue []block
}

type identity struct {
	p unsafe.Pointer
	t reflect.Type
	n int
}

type block struct {
	id string
	v  interface{}
}

// NewMarshalRegistry returns an empty MarshalRegistry.
func NewMarshalRegistry() *MarshalRegistry {
	return &MarshalRegistry{ids: make(map[identity]string)}
}

func identityOf(v interface{}) (identity, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map:
		if rv.IsNil() {
			return identity{}, false
		}
		return identity{p: rv.UnsafePointer(), t: rv.Type()}, true
	case reflect.Slice:
		if rv.Len() == 0 {
			return identity{}, false
		}
		return identity{p: rv.UnsafePointer(), t: rv.Type(), n: rv.Len()}, true
	}
	return identity{}, false
}

// InstanceID returns the id of v. The first time an instance is
// seen, it is assigned the next id, starting at "0", and queued.
func (mr *MarshalRegistry) InstanceID(v interface{}) string {
	key, ok := identityOf(v)
	if ok {
		if id, seen := mr.ids[key]; seen {
			return id
		}
	}
	id := strconv.Itoa(mr.next)
	mr.next++
	if ok {
		mr.ids[key] = id
	}
	mr.queue = append(mr.queue, block{id: id, v: v})
	return id
}

// Next removes the oldest instance from the queue. Instances queued
// while the queue is drained are returned by later calls, so
//
//	for id, v, ok := mr.Next(); ok; id, v, ok = mr.Next() {
//		...
//	}
//
// visits every instance exactly once.
func (mr *MarshalRegistry) Next() (id string, v interface{}, ok bool) {
	if len(mr.queue) == 0 {
		return "", nil, false
	}
	b := mr.queue[0]
	mr.queue[0] = block{}
	mr.queue = mr.queue[1:]
	return b.id, b.v, true
}

// Len returns the number of queued instances.
func (mr *MarshalRegistry) Len() int { return len(mr.queue) }
