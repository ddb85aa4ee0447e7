// Package ordered provides ordered, deterministic traversal of maps.
package ordered

import (
	"reflect"
	"sort"
)

// Keys returns the string keys of the map v in sorted order. If v is
// not a map with a string key type, Keys panics.
func Keys(v interface{}) []string {
	val := reflect.ValueOf(v)
	keys := make([]string, 0, val.Len())
	for _, k := range val.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

// RangeStrings calls fn on each string key in v in deterministic order. If
// v is not a map with a string for a key type, RangeStrings panics. If fn
// returns a non-nil error, iteration stops and the error is returned.
func RangeStrings(v interface{}, fn func(string) error) error {
	for _, k := range Keys(v) {
		if err := fn(k); err != nil {
			return err
		}
	}
	return nil
}
