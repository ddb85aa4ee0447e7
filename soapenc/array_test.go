package soapenc

import (
	"encoding/xml"
	"reflect"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readArray(t *testing.T, goType interface{}, doc string) (interface{}, error) {
	t.Helper()
	ctx := NewContext(testConfig(t), SOAP11)
	typ, err := ctx.typeOf(reflect.TypeOf(goType))
	require.NoError(t, err)
	require.IsType(t, &ArrayType{}, typ)
	v, err := typ.ReadObject(elementReader(t, doc), ctx)
	if err != nil {
		return nil, err
	}
	return v, ctx.Finish()
}

func TestReadArray(t *testing.T) {
	cases := []struct {
		goType interface{}
		doc    string
		want   interface{}
	}{
		{
			[]int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[3]"><item>1</item><item>2</item><item>3</item></a>`,
			[]int{1, 2, 3},
		},
		{
			// missing trailing members are zero
			[]int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[3]"><item>1</item><item>2</item></a>`,
			[]int{1, 2, 0},
		},
		{
			[]interface{}(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:string[5]" soapenc:offset="[2]">` +
				`<item>v0</item><item>v1</item><item>v2</item></a>`,
			[]interface{}{nil, nil, "v0", "v1", "v2"},
		},
		{
			[][]interface{}(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[2,3]">` +
				`<item soapenc:position="[0,0]">1</item>` +
				`<item soapenc:position="[1,2]">6</item></a>`,
			[][]interface{}{{int32(1), nil, nil}, {nil, nil, int32(6)}},
		},
		{
			[][]string(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:string[][2]">` +
				`<item soapenc:arrayType="xsd:string[2]"><item>a</item><item>b</item></item>` +
				`<item soapenc:arrayType="xsd:string[1]"><item>c</item></item></a>`,
			[][]string{{"a", "b"}, {"c"}},
		},
		{
			[]interface{}(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:anyType[3]">` +
				`<item xsi:type="xsd:boolean">true</item>` +
				`<item xsi:nil="true"/>` +
				`<item xsi:type="xsd:double">2.5</item></a>`,
			[]interface{}{true, nil, 2.5},
		},
		{
			// 1999 schema namespace, SOAP 1.2 arrayType attribute
			[]string(nil),
			`<a xmlns:enc="http://www.w3.org/2003/05/soap-encoding" xmlns:xsd="http://www.w3.org/1999/XMLSchema" ` +
				`enc:arrayType="xsd:string[2]"><item>x</item><item>y</item></a>`,
			[]string{"x", "y"},
		},
		{
			[]*int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[2]"><item xsi:nil="true"/><item>4</item></a>`,
			[]*int{nil, intPtr(4)},
		},
	}
	for i, tc := range cases {
		got, err := readArray(t, tc.goType, tc.doc)
		if assert.NoError(t, err, "test %d", i) {
			assert.Equal(t, tc.want, got, "test %d", i)
		}
	}
}

func intPtr(n int) *int { return &n }

func TestReadArrayErrors(t *testing.T) {
	cases := []struct {
		goType interface{}
		doc    string
		msg    string
	}{
		{
			[]int(nil),
			`<a ` + encodedNS + `><item>1</item></a>`,
			"no arrayType",
		},
		{
			[]int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="ns1:Nope[1]"><item>1</item></a>`,
			"unknown array member type",
		},
		{
			[]int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[2,2]"><item>1</item></a>`,
			"dimensions",
		},
		{
			[]int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[2]"><item>1</item><item>2</item><item>3</item></a>`,
			"exceeds",
		},
		{
			[]int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[2]" soapenc:offset="[2]"><item>1</item></a>`,
			"offset",
		},
		{
			[]int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[3]" soapenc:offset="[2]"><item>1</item><item>2</item></a>`,
			"exceeds",
		},
		{
			[]int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[3]">` +
				`<item soapenc:position="[1]">1</item><item soapenc:position="[1]">2</item></a>`,
			"more than once",
		},
		{
			[]*int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[3]">` +
				`<item soapenc:position="[1]" xsi:nil="true"/><item soapenc:position="[1]">2</item></a>`,
			"more than once",
		},
		{
			[]int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[3]">` +
				`<item soapenc:position="[0]">1</item><item>2</item></a>`,
			"position attribute",
		},
		{
			[][]int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[2,2]">` +
				`<item soapenc:position="[2,0]">1</item></a>`,
			"[x,x]",
		},
		{
			[]int(nil),
			`<a ` + encodedNS + ` soapenc:arrayType="xsd:int[2]"><item>one</item></a>`,
			"item",
		},
	}
	for i, tc := range cases {
		got, err := readArray(t, tc.goType, tc.doc)
		if assert.Error(t, err, "test %d: decoded %#v", i, got) {
			assert.Contains(t, err.Error(), tc.msg, "test %d", i)
		}
	}
}

func TestWriteArray(t *testing.T) {
	ctx := NewContext(testConfig(t), SOAP11)
	doc := etree.NewDocument()
	w := NewWriter(doc, xml.Name{Space: "urn:test", Local: "list"})

	typ, err := ctx.typeOf(reflect.TypeOf([]int(nil)))
	require.NoError(t, err)
	assert.Equal(t, xml.Name{Space: "urn:test", Local: "ArrayOfLong"}, typ.SchemaType())
	require.NoError(t, typ.WriteObject([]int{1, 2, 3}, w, ctx))

	el := w.Element()
	assert.Equal(t, "xsd:long[3]", el.SelectAttrValue("soapenc:arrayType", ""))
	var values []string
	for _, c := range el.ChildElements() {
		assert.Equal(t, "long", c.Tag)
		values = append(values, c.Text())
	}
	assert.Equal(t, []string{"1", "2", "3"}, values)

	assert.Error(t, typ.WriteObject([]int{}, w, ctx), "wrote an empty array")
}

func TestWriteArrayMembers(t *testing.T) {
	ctx := NewContext(testConfig(t), SOAP11)
	doc := etree.NewDocument()
	w := NewWriter(doc, xml.Name{Local: "list"})

	typ, err := ctx.typeOf(reflect.TypeOf([]interface{}(nil)))
	require.NoError(t, err)
	require.NoError(t, typ.WriteObject([]interface{}{int32(1), "a", nil}, w, ctx))

	el := w.Element()
	assert.Equal(t, "xsd:anyType[3]", el.SelectAttrValue("soapenc:arrayType", ""))
	children := el.ChildElements()
	require.Len(t, children, 3)
	assert.Equal(t, "xsd:int", children[0].SelectAttrValue("xsi:type", ""))
	assert.Equal(t, "1", children[0].Text())
	assert.Equal(t, "xsd:string", children[1].SelectAttrValue("xsi:type", ""))
	assert.Equal(t, "true", children[2].SelectAttrValue("xsi:nil", ""))

	// multi-dimensional arrays are arrays of arrays, written by
	// reference
	typ, err = ctx.typeOf(reflect.TypeOf([][]string(nil)))
	require.NoError(t, err)
	assert.Equal(t, 2, typ.(*ArrayType).Dimensions())
	w = NewWriter(doc, xml.Name{Local: "grid"})
	require.NoError(t, typ.WriteObject([][]string{{"a"}, {"b", "c"}}, w, ctx))
	assert.Equal(t, "xsd:string[][2]", w.Element().SelectAttrValue("soapenc:arrayType", ""))
	for i, c := range w.Element().ChildElements() {
		assert.Equal(t, "#"+string(rune('0'+i)), c.SelectAttrValue("href", ""), "member %d", i)
	}
	assert.Equal(t, 2, ctx.MarshalRegistry().Len())
}
