package soapenc

import "reflect"

// assign stores v in dst, which must be settable. Besides plain
// assignment, it takes and dereferences pointers, converts between
// numeric kinds, parses strings into simple values, and converts
// slices element by element. A nil v stores the zero value.
func assign(dst reflect.Value, v interface{}) error {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	if ref, ok := v.(*Ref); ok && dst.Type() != refPtrType {
		if val, resolved := ref.Get(); resolved {
			return assign(dst, val)
		}
		return internalf("assigning an unresolved reference to %s", dst.Type())
	}
	return assignValue(dst, reflect.ValueOf(v))
}

func assignValue(dst, src reflect.Value) error {
	dt, st := dst.Type(), src.Type()
	switch {
	case st.AssignableTo(dt):
		dst.Set(src)
		return nil
	case src.Kind() == reflect.Interface:
		if src.IsNil() {
			dst.Set(reflect.Zero(dt))
			return nil
		}
		return assignValue(dst, src.Elem())
	case src.Kind() == reflect.Ptr && dst.Kind() != reflect.Ptr:
		if src.IsNil() {
			dst.Set(reflect.Zero(dt))
			return nil
		}
		return assignValue(dst, src.Elem())
	case dst.Kind() == reflect.Ptr && src.Kind() != reflect.Ptr:
		p := reflect.New(dt.Elem())
		if err := assignValue(p.Elem(), src); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	case isNumber(src.Kind()) && isNumber(dst.Kind()),
		src.Kind() == reflect.String && dst.Kind() == reflect.String,
		src.Kind() == reflect.Bool && dst.Kind() == reflect.Bool:
		if st.ConvertibleTo(dt) {
			dst.Set(src.Convert(dt))
			return nil
		}
	case src.Kind() == reflect.String:
		if _, ok := basicKinds[dst.Kind()]; ok {
			v, err := parseScalar(src.String(), dt)
			if err != nil {
				return err
			}
			dst.Set(v)
			return nil
		}
	case src.Kind() == reflect.Slice && dst.Kind() == reflect.Slice:
		if src.IsNil() {
			dst.Set(reflect.Zero(dt))
			return nil
		}
		out := reflect.MakeSlice(dt, src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			if err := assignValue(out.Index(i), src.Index(i)); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil
	case src.Kind() == reflect.Map && dst.Kind() == reflect.Map &&
		st.Key().Kind() == reflect.String && dt.Key().Kind() == reflect.String:
		if src.IsNil() {
			dst.Set(reflect.Zero(dt))
			return nil
		}
		out := reflect.MakeMapWithSize(dt, src.Len())
		iter := src.MapRange()
		for iter.Next() {
			val := reflect.New(dt.Elem()).Elem()
			if err := assignValue(val, iter.Value()); err != nil {
				return err
			}
			out.SetMapIndex(iter.Key().Convert(dt.Key()), val)
		}
		dst.Set(out)
		return nil
	}
	return errorf("cannot assign %s to %s", st, dt)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
