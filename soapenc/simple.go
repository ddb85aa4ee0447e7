package soapenc

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/xml"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/CognitoIQ/go-soapenc/xsd"
)

// A simpleType reads and writes character data.
type simpleType struct {
	baseType
	parse  func(s string, t reflect.Type) (reflect.Value, error)
	format func(v reflect.Value) (string, error)
}

func (t *simpleType) ReadObject(r *Reader, ctx *Context) (interface{}, error) {
	r.ReadToEnd()
	v, err := t.parse(r.Value(), t.typ)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (t *simpleType) WriteObject(v interface{}, w *Writer, ctx *Context) error {
	s, err := t.format(reflect.ValueOf(v))
	if err != nil {
		return err
	}
	w.WriteValue(s)
	return nil
}

var basicKinds = map[reflect.Kind]reflect.Type{
	reflect.String:  reflect.TypeOf(""),
	reflect.Bool:    reflect.TypeOf(false),
	reflect.Int:     reflect.TypeOf(int(0)),
	reflect.Int8:    reflect.TypeOf(int8(0)),
	reflect.Int16:   reflect.TypeOf(int16(0)),
	reflect.Int32:   reflect.TypeOf(int32(0)),
	reflect.Int64:   reflect.TypeOf(int64(0)),
	reflect.Uint:    reflect.TypeOf(uint(0)),
	reflect.Uint8:   reflect.TypeOf(uint8(0)),
	reflect.Uint16:  reflect.TypeOf(uint16(0)),
	reflect.Uint32:  reflect.TypeOf(uint32(0)),
	reflect.Uint64:  reflect.TypeOf(uint64(0)),
	reflect.Float32: reflect.TypeOf(float32(0)),
	reflect.Float64: reflect.TypeOf(float64(0)),
}

var timeType = reflect.TypeOf(time.Time{})

// The order of builtins matters: the first entry for a schema type,
// and the first entry for a Go type, win.
var builtins = []struct {
	b      xsd.Builtin
	sample interface{}
	layout []string
}{
	{b: xsd.String, sample: ""},
	{b: xsd.Boolean, sample: false},
	{b: xsd.Int, sample: int32(0)},
	{b: xsd.Long, sample: int64(0)},
	{b: xsd.Short, sample: int16(0)},
	{b: xsd.Byte, sample: int8(0)},
	{b: xsd.UnsignedByte, sample: uint8(0)},
	{b: xsd.UnsignedShort, sample: uint16(0)},
	{b: xsd.UnsignedInt, sample: uint32(0)},
	{b: xsd.UnsignedLong, sample: uint64(0)},
	{b: xsd.Float, sample: float32(0)},
	{b: xsd.Double, sample: float64(0)},
	{b: xsd.Base64Binary, sample: []byte(nil)},
	{b: xsd.DateTime, sample: time.Time{}, layout: []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"}},
	{b: xsd.Long, sample: int(0)},
	{b: xsd.UnsignedLong, sample: uint(0)},

	{b: xsd.Integer, sample: int64(0)},
	{b: xsd.NonNegativeInteger, sample: uint64(0)},
	{b: xsd.PositiveInteger, sample: uint64(0)},
	{b: xsd.NonPositiveInteger, sample: int64(0)},
	{b: xsd.NegativeInteger, sample: int64(0)},
	{b: xsd.HexBinary, sample: []byte(nil)},
	{b: xsd.Date, sample: time.Time{}, layout: []string{"2006-01-02", "2006-01-02Z07:00"}},
	{b: xsd.Time, sample: time.Time{}, layout: []string{"15:04:05.999999999Z07:00", "15:04:05.999999999"}},
	{b: xsd.Decimal, sample: ""},
	{b: xsd.AnySimpleType, sample: ""},
	{b: xsd.NormalizedString, sample: ""},
	{b: xsd.Token, sample: ""},
	{b: xsd.Language, sample: ""},
	{b: xsd.Name, sample: ""},
	{b: xsd.NCName, sample: ""},
	{b: xsd.NMTOKEN, sample: ""},
	{b: xsd.NMTOKENS, sample: ""},
	{b: xsd.ID, sample: ""},
	{b: xsd.IDREF, sample: ""},
	{b: xsd.IDREFS, sample: ""},
	{b: xsd.ENTITY, sample: ""},
	{b: xsd.ENTITIES, sample: ""},
	{b: xsd.QName, sample: ""},
	{b: xsd.NOTATION, sample: ""},
	{b: xsd.AnyURI, sample: ""},
	{b: xsd.Duration, sample: ""},
	{b: xsd.GDay, sample: ""},
	{b: xsd.GMonth, sample: ""},
	{b: xsd.GMonthDay, sample: ""},
	{b: xsd.GYear, sample: ""},
	{b: xsd.GYearMonth, sample: ""},
}

func (m *TypeMapping) registerBuiltins() {
	for _, entry := range builtins {
		t := &simpleType{
			baseType: baseType{name: entry.b.Name(), typ: reflect.TypeOf(entry.sample), mapping: m},
			parse:    parseScalar,
			format:   formatScalar,
		}
		switch {
		case entry.b == xsd.Base64Binary:
			t.parse, t.format = parseBase64, formatBase64
		case entry.b == xsd.HexBinary:
			t.parse, t.format = parseHex, formatHex
		case entry.layout != nil:
			t.parse, t.format = timeCodec(entry.layout)
		}
		m.registerBuiltin(t)
	}
	m.registerBuiltin(&AnyType{baseType{
		name:     xsd.AnyType.Name(),
		typ:      reflect.TypeOf((*interface{})(nil)).Elem(),
		nillable: true,
		mapping:  m,
	}})
	m.registerBuiltin(&MapType{
		baseType: baseType{
			name:     soapStruct,
			typ:      reflect.TypeOf(map[string]interface{}(nil)),
			nillable: true,
			mapping:  m,
		},
	})
}

// registerBuiltin adds t, and registers its name in the SOAP 1.1
// encoding namespace as well. soapenc:string and friends are
// accepted in xsi:type attributes.
func (m *TypeMapping) registerBuiltin(t Type) {
	m.register(t.GoType(), t)
	m.registerName(t.SchemaType(), t)
	name := t.SchemaType()
	if name.Space == xsd.SchemaNS {
		m.registerName(xml.Name{Space: EncodingNS11, Local: name.Local}, t)
	}
}

// parseScalar parses the lexical form of a value of a basic kind.
func parseScalar(s string, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	if t.Kind() != reflect.String {
		s = strings.TrimSpace(s)
	}
	switch t.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		switch s {
		case "true", "1":
			v.SetBool(true)
		case "false", "0":
			v.SetBool(false)
		default:
			return v, errorf("invalid boolean %q", s)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return v, wrapf(err, "invalid %s", t)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return v, wrapf(err, "invalid %s", t)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := parseFloat(s, t.Bits())
		if err != nil {
			return v, wrapf(err, "invalid %s", t)
		}
		v.SetFloat(f)
	default:
		return v, internalf("%s is not a simple type", t)
	}
	return v, nil
}

func parseFloat(s string, bits int) (float64, error) {
	switch s {
	case "INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, bits)
}

func formatScalar(v reflect.Value) (string, error) {
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		switch {
		case math.IsInf(f, 1):
			return "INF", nil
		case math.IsInf(f, -1):
			return "-INF", nil
		case math.IsNaN(f):
			return "NaN", nil
		}
		return strconv.FormatFloat(f, 'g', -1, v.Type().Bits()), nil
	}
	return "", internalf("cannot format %s as a simple type", v.Type())
}

func parseBase64(s string, t reflect.Type) (reflect.Value, error) {
	b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return reflect.Value{}, wrapf(err, "invalid base64Binary")
	}
	return reflect.ValueOf(b).Convert(t), nil
}

func formatBase64(v reflect.Value) (string, error) {
	return base64.StdEncoding.EncodeToString(v.Bytes()), nil
}

func parseHex(s string, t reflect.Type) (reflect.Value, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return reflect.Value{}, wrapf(err, "invalid hexBinary")
	}
	return reflect.ValueOf(b).Convert(t), nil
}

func formatHex(v reflect.Value) (string, error) {
	return strings.ToUpper(hex.EncodeToString(v.Bytes())), nil
}

// timeCodec parses times in any of the layouts, and formats them
// with the first.
func timeCodec(layouts []string) (
	func(string, reflect.Type) (reflect.Value, error),
	func(reflect.Value) (string, error),
) {
	parse := func(s string, t reflect.Type) (reflect.Value, error) {
		s = strings.TrimSpace(s)
		var err error
		for _, layout := range layouts {
			var tm time.Time
			if tm, err = time.Parse(layout, s); err == nil {
				return reflect.ValueOf(tm).Convert(t), nil
			}
		}
		return reflect.Value{}, wrapf(err, "invalid time %q", s)
	}
	format := func(v reflect.Value) (string, error) {
		tm := v.Convert(timeType).Interface().(time.Time)
		return tm.Format(layouts[0]), nil
	}
	return parse, format
}

// A pointerType makes a simple type nillable.
type pointerType struct {
	Type
	typ reflect.Type
}

func newPointerType(elem Type, t reflect.Type) *pointerType {
	return &pointerType{Type: elem, typ: t}
}

func (t *pointerType) GoType() reflect.Type { return t.typ }
func (t *pointerType) IsNillable() bool     { return true }

func (t *pointerType) ReadObject(r *Reader, ctx *Context) (interface{}, error) {
	if r.IsXsiNil() {
		r.ReadToEnd()
		return reflect.Zero(t.typ).Interface(), nil
	}
	v, err := t.Type.ReadObject(r, ctx)
	if err != nil {
		return nil, err
	}
	p := reflect.New(t.typ.Elem())
	if err := assign(p.Elem(), v); err != nil {
		return nil, err
	}
	return p.Interface(), nil
}

func (t *pointerType) WriteObject(v interface{}, w *Writer, ctx *Context) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			w.WriteXsiNil()
			return nil
		}
		v = rv.Elem().Interface()
	}
	return t.Type.WriteObject(v, w, ctx)
}
