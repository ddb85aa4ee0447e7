package xmltree_test

import (
	"encoding/xml"
	"testing"

	"github.com/CognitoIQ/go-soapenc/xmltree"
)

// Check for proper XML escape quoting inside attributes and
// character data when a parsed tree is written back out.

func TestMarshalEscaping(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`<module name='&lt;'></module>`, `<module name="&lt;"></module>`},
		{`<module>&lt;&gt;</module>`, `<module>&lt;&gt;</module>`},
		{`<module a="x&amp;y" b='"q"'/>`, `<module a="x&amp;y" b="&#34;q&#34;"></module>`},
	}
	for i, tc := range cases {
		root, err := xmltree.Parse([]byte(tc.in))
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if have := string(xmltree.Marshal(root)); have != tc.want {
			t.Errorf("test %d: !Match : want : have :\n-----\n%v\n-----\n%v\n-----", i, tc.want, have)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	type Module struct {
		XMLName xml.Name `xml:"urn:mod module"`
		Name    string   `xml:"name,attr"`
		Value   string   `xml:"urn:mod value"`
	}
	doc := []byte(`<m:module xmlns:m="urn:mod" name="&lt;x&gt;"><m:value>a &amp; b</m:value></m:module>`)

	root, err := xmltree.Parse(doc)
	if err != nil {
		t.Fatal(err)
	}
	var v Module
	if err := xml.Unmarshal(xmltree.Marshal(root), &v); err != nil {
		t.Fatal(err)
	}
	if v.Name != "<x>" || v.Value != "a & b" {
		t.Errorf("round trip produced %+v", v)
	}
}
