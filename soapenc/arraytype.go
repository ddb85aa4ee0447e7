package soapenc

import (
	"encoding/xml"
	"reflect"
	"strconv"
	"strings"

	"github.com/CognitoIQ/go-soapenc/xsd"
)

// A NamespaceResolver resolves prefixed names found in attribute
// values. It is implemented by *xmltree.Element and *Reader.
type NamespaceResolver interface {
	ResolveNS(qname string) (xml.Name, bool)
}

// ArrayTypeInfo describes the soapenc:arrayType and soapenc:offset
// attributes of an encoded array:
//
//	arrayType = QName [ "[" {","} "]" ] "[" length {"," length} "]"
//	offset    = "[" length "]"
//
// Rank counts the unsized dimensions of the optional first group,
// whose members are themselves arrays. Dimensions holds the sizes of
// the final group.
type ArrayTypeInfo struct {
	TypeName xml.Name
	// Prefix is the namespace prefix used for TypeName on the
	// wire. It is required to format a qualified TypeName.
	Prefix     string
	Rank       int
	Dimensions []int
	Offset     int

	typ  Type
	text string
}

// NewArrayTypeInfo returns an ArrayTypeInfo for an array of the
// named type.
func NewArrayTypeInfo(name xml.Name, rank int, dims ...int) *ArrayTypeInfo {
	return &ArrayTypeInfo{TypeName: name, Rank: rank, Dimensions: dims}
}

// Type returns the Type of the array's members, if the ArrayTypeInfo
// was read from a message.
func (info *ArrayTypeInfo) Type() Type { return info.typ }

// TotalDimensions returns the number of dimensions of the array,
// counting the members' own dimensions.
func (info *ArrayTypeInfo) TotalDimensions() int {
	return info.Rank + len(info.Dimensions)
}

// Size returns the number of members of the array.
func (info *ArrayTypeInfo) Size() int {
	n := 1
	for _, d := range info.Dimensions {
		n *= d
	}
	return n
}

// ParseArrayType parses the value of a soapenc:arrayType attribute,
// and the value of a soapenc:offset attribute if it is not empty.
// The namespace prefix of the array type is resolved with ns. An
// unprefixed array type is in the empty namespace.
func ParseArrayType(ns NamespaceResolver, arrayType, offset string) (*ArrayTypeInfo, error) {
	text := strings.TrimSpace(arrayType)
	bad := func(msg string) error {
		return errorf("invalid arrayType %q: %s", arrayType, msg)
	}
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return nil, bad("missing dimensions")
	}
	qname := text[:start]
	if qname == "" || strings.HasSuffix(qname, ":") || strings.HasPrefix(qname, ":") {
		return nil, bad("missing type name")
	}

	var groups []string
	for rest := text[start:]; rest != ""; {
		if rest[0] != '[' {
			return nil, bad("unexpected " + strconv.Quote(rest))
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, bad("unterminated dimensions")
		}
		groups = append(groups, rest[1:end])
		rest = rest[end+1:]
	}
	if len(groups) > 2 {
		return nil, bad("too many dimension groups")
	}

	info := &ArrayTypeInfo{text: text}
	if len(groups) == 2 {
		if strings.Trim(groups[0], ",") != "" {
			return nil, bad("rank group may only contain commas")
		}
		info.Rank = len(groups[0]) + 1
	}
	last := groups[len(groups)-1]
	if last == "" {
		return nil, bad("no dimensions")
	}
	for _, s := range strings.Split(last, ",") {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return nil, bad("invalid length " + strconv.Quote(s))
		}
		info.Dimensions = append(info.Dimensions, n)
	}

	// an unprefixed type name is in no namespace, whatever the
	// default namespace of the element
	info.TypeName = xml.Name{Local: qname}
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		name, ok := ns.ResolveNS(qname)
		if !ok {
			return nil, bad("unknown namespace prefix " + strconv.Quote(qname[:i]))
		}
		info.TypeName = name
		info.Prefix = qname[:i]
	}

	if offset != "" {
		n, err := ParseOffset(offset)
		if err != nil {
			return nil, err
		}
		info.Offset = n
	}
	return info, nil
}

// ParseOffset parses the value of a soapenc:offset attribute.
func ParseOffset(text string) (int, error) {
	s := strings.TrimSpace(text)
	if len(s) < 3 || s[0] != '[' || s[len(s)-1] != ']' {
		return 0, errorf("invalid offset %q", text)
	}
	digits := s[1 : len(s)-1]
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, errorf("invalid offset %q", text)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, wrapf(err, "invalid offset %q", text)
	}
	return n, nil
}

// parsePosition converts the value of a soapenc:position attribute to
// an index into the row-major flattening of an array with the given
// dimensions.
func parsePosition(text string, dims []int) (int, error) {
	s := strings.TrimSpace(text)
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		fields := strings.Split(s[1:len(s)-1], ",")
		if len(fields) == len(dims) {
			pos, mult := 0, 1
			i := len(fields) - 1
			for ; i >= 0; i-- {
				n, err := strconv.Atoi(fields[i])
				if err != nil || n < 0 || n >= dims[i] {
					break
				}
				pos += n * mult
				mult *= dims[i]
			}
			if i < 0 {
				return pos, nil
			}
		}
	}
	format := "[x" + strings.Repeat(",x", len(dims)-1) + "]"
	return 0, errorf("expected sparse array position value in format %s, but was %q", format, text)
}

// Format returns the arrayType attribute value described by info.
func (info *ArrayTypeInfo) Format() (string, error) {
	var buf strings.Builder
	if info.TypeName.Space != "" {
		if info.Prefix == "" {
			return "", internalf("no prefix for namespace %s of array type %s",
				info.TypeName.Space, info.TypeName.Local)
		}
		buf.WriteString(info.Prefix)
		buf.WriteByte(':')
	}
	buf.WriteString(info.TypeName.Local)
	if info.Rank > 0 {
		buf.WriteByte('[')
		buf.WriteString(strings.Repeat(",", info.Rank-1))
		buf.WriteByte(']')
	}
	buf.WriteByte('[')
	for i, d := range info.Dimensions {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Itoa(d))
	}
	buf.WriteByte(']')
	return buf.String(), nil
}

// String is like Format, but panics if TypeName is qualified and
// Prefix is empty.
func (info *ArrayTypeInfo) String() string {
	s, err := info.Format()
	if err != nil {
		panic(err)
	}
	return s
}

// WriteAttributes writes the soapenc:arrayType attribute, and the
// soapenc:offset attribute if Offset is positive, to w. The prefix
// of TypeName is declared with w if needed.
func (info *ArrayTypeInfo) WriteAttributes(w *Writer) error {
	out := *info
	out.Prefix = w.PrefixFor(info.TypeName.Space, info.Prefix)
	s, err := out.Format()
	if err != nil {
		return err
	}
	w.WriteAttr(attrArrayType, s)
	if info.Offset > 0 {
		w.WriteAttr(attrOffset, "["+strconv.Itoa(info.Offset)+"]")
	}
	return nil
}

// readArrayTypeInfo reads the array attributes of an element and
// looks up the Type of the array's members. Members of an array with
// a positive Rank are arrays themselves.
func readArrayTypeInfo(r *Reader, ctx *Context) (*ArrayTypeInfo, error) {
	text, ok := r.Attr(attrArrayType)
	if !ok {
		if text, ok = r.Attr(attrArrayType12); !ok {
			return nil, errorf("encoded array has no arrayType attribute")
		}
	}
	offset, _ := r.Attr(attrOffset)
	info, err := ParseArrayType(r, text, offset)
	if err != nil {
		return nil, err
	}
	info.TypeName = xsd.Canonical(info.TypeName)
	typ, ok := ctx.Mapping().TypeByName(info.TypeName)
	if !ok {
		return nil, errorf("unknown array member type %s", info.TypeName.Local)
	}
	if info.Rank > 0 {
		t := typ.GoType()
		for i := 0; i < info.Rank; i++ {
			t = reflect.SliceOf(t)
		}
		if typ, err = ctx.typeOf(t); err != nil {
			return nil, err
		}
	}
	info.typ = typ
	return info, nil
}
