package xmlref

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"github.com/CognitoIQ/go-soapenc/xmltree"
)

var uglyXML = []byte(`<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
   <soapenv:Body>
      <ns1:getLocationsResponse soapenv:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/" xmlns:ns1="http://ivr.gws">
         <getLocationsReturn href="#id0"/>
      </ns1:getLocationsResponse>
      <multiRef id="id0" soapenc:root="0" soapenv:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/" xsi:type="ns2:IVROutputLocationMap" xmlns:soapenc="http://schemas.xmlsoap.org/soap/encoding/" xmlns:ns2="http://location.model.ivr.gws">
         <anyMoreRec href="#id1"/>
         <errors xsi:type="soapenc:Array" xsi:nil="true"/>
         <markers href="#id2"/>
         <sessionID xsi:type="soapenc:string" xsi:nil="true"/>
      </multiRef>
      <multiRef id="id2" soapenc:root="0" soapenv:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/" soapenc:arrayType="xsd:anyType[240]" xsi:type="soapenc:Array" xmlns:soapenc="http://schemas.xmlsoap.org/soap/encoding/">
         <multiRef href="#id3"/>
         <multiRef href="#id4"/>
      </multiRef>
      <multiRef id="id4" soapenc:root="0" soapenv:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/" xsi:type="ns11:IVRGoogleMapsMarker" xmlns:ns11="http://location.model.ivr.gws" xmlns:soapenc="http://schemas.xmlsoap.org/soap/encoding/">
         <id xsi:type="soapenc:string">location-2-id</id>
         <type xsi:type="soapenc:string">location-2-type</type>
         <title xsi:type="soapenc:string">Location 2</title>
         <address xsi:type="soapenc:string">Address of location 2</address>
         <information xsi:type="soapenc:string">Some informations for location 2</information>
         <locLat xsi:type="soapenc:string">2.22222</locLat>
         <locLng xsi:type="soapenc:string">2.22222</locLng>
         <showGPS href="#id269"/>
      </multiRef>
      <multiRef id="id3" soapenc:root="0" soapenv:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/" xsi:type="ns11:IVRGoogleMapsMarker" xmlns:ns11="http://location.model.ivr.gws" xmlns:soapenc="http://schemas.xmlsoap.org/soap/encoding/">
         <id xsi:type="soapenc:string">location-1-id</id>
         <type xsi:type="soapenc:string">location-1-type</type>
         <title xsi:type="soapenc:string">Location 1</title>
         <address xsi:type="soapenc:string">Address of location 1</address>
         <information xsi:type="soapenc:string">Some informations for location 1</information>
         <locLat xsi:type="soapenc:string">1.11111</locLat>
         <locLng xsi:type="soapenc:string">1.11111</locLng>
         <showGPS href="#id269"/>
      </multiRef>
      <multiRef id="id1" soapenc:root="0" soapenv:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/" xsi:type="xsd:boolean" xmlns:soapenc="http://schemas.xmlsoap.org/soap/encoding/">false</multiRef>
      <multiRef id="id269" soapenc:root="0" soapenv:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/" xsi:type="xsd:boolean" xmlns:soapenc="http://schemas.xmlsoap.org/soap/encoding/">true</multiRef>
   </soapenv:Body>
</soapenv:Envelope>`)

type marker struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	ShowGPS bool   `xml:"showGPS"`
}

type locationMap struct {
	AnyMoreRec bool     `xml:"anyMoreRec"`
	Markers    []marker `xml:"markers>multiRef"`
	SessionID  string   `xml:"sessionID"`
}

type envelope struct {
	XMLName xml.Name
	Return  locationMap `xml:"Body>getLocationsResponse>getLocationsReturn"`
}

func TestDecoder(t *testing.T) {
	r, err := NewReader(bytes.NewReader(uglyXML))
	if err != nil {
		t.Fatal(err)
	}
	env := new(envelope)
	if err := xml.NewDecoder(r).Decode(env); err != nil {
		t.Fatal(err)
	}
	want := locationMap{
		Markers: []marker{
			{ID: "location-1-id", Title: "Location 1", ShowGPS: true},
			{ID: "location-2-id", Title: "Location 2", ShowGPS: true},
		},
	}
	if diff := pretty.Diff(want, env.Return); len(diff) > 0 {
		t.Errorf("decoded %# v\n%s", pretty.Formatter(env.Return), strings.Join(diff, "\n"))
	}
}

func TestFlattenRemovesTargets(t *testing.T) {
	data, err := Flatten(uglyXML)
	if err != nil {
		t.Fatal(err)
	}
	root, err := xmltree.Parse(data)
	if err != nil {
		t.Fatalf("%v\n%s", err, data)
	}
	body := root.Search("http://schemas.xmlsoap.org/soap/envelope/", "Body")
	if len(body) != 1 {
		t.Fatalf("expected one Body, got %d", len(body))
	}
	if n := len(body[0].Children); n != 1 {
		t.Errorf("Body has %d children after flattening, want 1\n%s", n, data)
	}
	refs := root.SearchFunc(func(el *xmltree.Element) bool {
		_, ok := el.LookupAttr(attrHref)
		return ok
	})
	if len(refs) > 0 {
		t.Errorf("%d references left after flattening", len(refs))
	}
	// xsi:type of the referenced element is carried over, with
	// the prefix declared on it
	ret := root.Search("", "getLocationsReturn")[0]
	typ := ret.Resolve(ret.Attr("http://www.w3.org/2001/XMLSchema-instance", "type"))
	if typ != (xml.Name{Space: "http://location.model.ivr.gws", Local: "IVROutputLocationMap"}) {
		t.Errorf("xsi:type of flattened element resolved to %v", typ)
	}
}

func TestFlatten(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{
			`<r><a href="#x"/><b href="#x"/><v id="x" k="1">text</v></r>`,
			`<r><a k="1">text</a><b k="1">text</b></r>`,
		},
		{
			// nested references, defined in any order
			`<r><a href="#1"/><n id="2">leaf</n><n id="1"><c href="#2"/></n></r>`,
			`<r><a><c>leaf</c></a></r>`,
		},
		{
			// inline targets are left in place
			`<r xmlns:enc="http://www.w3.org/2003/05/soap-encoding"><w><a enc:id="x"><v>1</v></a><b enc:ref="x"/></w></r>`,
			`<r xmlns:enc="http://www.w3.org/2003/05/soap-encoding"><w><a enc:id="x"><v>1</v></a><b><v>1</v></b></w></r>`,
		},
		{
			// undefined and external references are untouched
			`<r><a href="#nope"/><b href="http://example.com/#x"/><x id="x"/></r>`,
			`<r><a href="#nope"/><b href="http://example.com/#x"/><x id="x"/></r>`,
		},
		{
			// attributes of the referenced element take precedence
			`<r><a href="#x" k="mine" j="2"/><v id="x" k="theirs"/></r>`,
			`<r><a k="theirs" j="2"/></r>`,
		},
	}
	for i, tc := range cases {
		got, err := Flatten([]byte(tc.in))
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		a, err := xmltree.Parse(got)
		if err != nil {
			t.Errorf("test %d: %v\n%s", i, err, got)
			continue
		}
		b, err := xmltree.Parse([]byte(tc.want))
		if err != nil {
			t.Fatal(err)
		}
		if !xmltree.Equal(a, b) {
			t.Errorf("test %d: Flatten(%s) = %s, want %s", i, tc.in, got, tc.want)
		}
	}
}

func TestFlattenErrors(t *testing.T) {
	for i, doc := range []string{
		`<r><a href="#x"/><n id="x"><b href="#x"/></n></r>`,
		`<r><a href="#1"/><n id="1"><b href="#2"/></n><n id="2"><c href="#1"/></n></r>`,
		`<r><n id="dup"/><n id="dup"/></r>`,
		`<r><unterminated></r>`,
	} {
		if out, err := Flatten([]byte(doc)); err == nil {
			t.Errorf("test %d: expected an error flattening %s, got %s", i, doc, out)
		}
	}
}

func TestReader(t *testing.T) {
	want, err := Flatten(uglyXML)
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewReader(bytes.NewReader(uglyXML))
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Reader produced\n%s\nwant\n%s", got, want)
	}
}
