package xmltree

import (
	"encoding/xml"
	"strings"
	"testing"
)

var googleSOAP = []byte(`<soap11:Envelope
  xmlns="urn:GoogleSearch"
  xmlns:google="urn:GoogleSearch"
  xmlns:soapenc="http://schemas.xmlsoap.org/soap/encoding/"
  xmlns:soap11="http://schemas.xmlsoap.org/soap/envelope/">
  <soap11:Body>
    <doGoogleSearchResponse>
      <return>
        <documentFiltering>false</documentFiltering>
        <estimatedTotalResultsCount>3</estimatedTotalResultsCount>
        <directoryCategories soapenc:arrayType="google:DirectoryCategory[0]"></directoryCategories>
        <searchTime>0.194871</searchTime>
        <resultElements soapenc:arrayType="google:ResultElement[2]">
          <item>
            <cachedSize>12k</cachedSize>
            <snippet> <b>...</b> on a simple dialog (via <b>teletype</b>) with a user</snippet>
            <URL>http://hci.stanford.edu/cs147/examples/shrdlu/</URL>
            <title>SHRDLU</title>
          </item>
          <item>
            <cachedSize>32k</cachedSize>
            <snippet>Terry <b>Winograd&apos;s</b> <b>SHRDLU</b></snippet>
            <URL>http://www.trentu.ca/csd/newsarchives/trentu/csp/cr350/79</URL>
            <title>Winograd &amp; co</title>
          </item>
        </resultElements>
        <searchQuery>shrdlu winograd maclisp teletype</searchQuery>
      </return>
    </doGoogleSearchResponse>
  </soap11:Body>
</soap11:Envelope>`)

var scopedDoc = []byte(`<collection xmlns:ns="http://ns1.net/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <record xmlns:ns="http://ns2.net/" xsi:type="ns:Record">
    <name>Old Town</name>
    <artist xmlns:ns="http://ns3.net/" xsi:type="ns:Artist">
      <name>Mustafa Grits</name>
    </artist>
  </record>
  <record xsi:type="ns:Record">
    <name>New Town</name>
  </record>
</collection>`)

func parseDoc(t *testing.T, document []byte) *Element {
	root, err := Parse(document)
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestParse(t *testing.T) {
	root := parseDoc(t, googleSOAP)
	if root.Name.Local != "Envelope" || root.Name.Space != "http://schemas.xmlsoap.org/soap/envelope/" {
		t.Errorf("root element is %v", root.Name)
	}
	titles := root.Search("urn:GoogleSearch", "title")
	if len(titles) != 2 {
		t.Fatalf("expected 2 <title> elements, got %d", len(titles))
	}
	if s := titles[1].Text(); s != "Winograd & co" {
		t.Errorf("character data of <title> is %q", s)
	}
	if s := string(titles[1].Content); s != "Winograd &amp; co" {
		t.Errorf("raw content of <title> is %q", s)
	}
}

func TestSearch(t *testing.T) {
	root := parseDoc(t, googleSOAP)

	arrays := root.SearchFunc(func(el *Element) bool {
		return el.Attr("http://schemas.xmlsoap.org/soap/encoding/", "arrayType") != ""
	})
	if len(arrays) != 2 {
		t.Errorf("expected 2 encoded arrays, got %d", len(arrays))
	}
	if n := len(root.Search("", "item")); n != 2 {
		t.Errorf("expected 2 <item> elements, got %d", n)
	}
	if n := len(root.Flatten()); n < 10 {
		t.Errorf("Flatten returned only %d elements", n)
	}
}

func TestNSResolution(t *testing.T) {
	root := parseDoc(t, scopedDoc)

	cases := []struct {
		el   *Element
		attr string
		want xml.Name
	}{
		{&root.Children[0], "ns:Record", xml.Name{Space: "http://ns2.net/", Local: "Record"}},
		{&root.Children[0].Children[1], "ns:Artist", xml.Name{Space: "http://ns3.net/", Local: "Artist"}},
		{&root.Children[1], "ns:Record", xml.Name{Space: "http://ns1.net/", Local: "Record"}},
	}
	for i, tc := range cases {
		typ := tc.el.Attr("http://www.w3.org/2001/XMLSchema-instance", "type")
		if typ != tc.attr {
			t.Errorf("test %d: xsi:type is %q, want %q", i, typ, tc.attr)
			continue
		}
		name, ok := tc.el.ResolveNS(typ)
		if !ok {
			t.Errorf("test %d: could not resolve %q at <%s>", i, typ, tc.el.Name.Local)
			continue
		}
		if name != tc.want {
			t.Errorf("test %d: resolved %q to %v, want %v", i, typ, name, tc.want)
		}
	}

	if _, ok := root.ResolveNS("nope:foo"); ok {
		t.Error("resolved an undeclared prefix")
	}
	if name, ok := root.ResolveNS("foo"); !ok || name.Space != "" {
		t.Errorf("unprefixed name without default namespace resolved to %v", name)
	}

	google := parseDoc(t, googleSOAP)
	if name := google.Resolve("foo"); name.Space != "urn:GoogleSearch" {
		t.Errorf("default namespace resolved to %q", name.Space)
	}
	if p, ok := google.LookupPrefix("http://schemas.xmlsoap.org/soap/encoding/"); !ok || p != "soapenc" {
		t.Errorf("LookupPrefix(soapenc) = %q, %v", p, ok)
	}
}

func TestJoinScope(t *testing.T) {
	a := parseDoc(t, []byte(`<a xmlns:p="urn:a" xmlns:q="urn:q"/>`))
	b := parseDoc(t, []byte(`<b xmlns:p="urn:b" xmlns:r="urn:r"/>`))
	joined := a.JoinScope(&b.Scope)

	cases := []struct {
		qname string
		want  string
	}{
		{"p:x", "urn:b"},
		{"q:x", "urn:q"},
		{"r:x", "urn:r"},
	}
	for i, tc := range cases {
		name, ok := joined.ResolveNS(tc.qname)
		if !ok || name.Space != tc.want {
			t.Errorf("test %d: %s resolved to %q, want %q", i, tc.qname, name.Space, tc.want)
		}
	}
	if name, _ := a.ResolveNS("p:x"); name.Space != "urn:a" {
		t.Errorf("JoinScope modified its receiver, p resolves to %q", name.Space)
	}
}

func TestLookupAttr(t *testing.T) {
	root := parseDoc(t, []byte(`<a xmlns:enc="http://www.w3.org/2003/05/soap-encoding" id="one" enc:id="two"/>`))

	if v, ok := root.LookupAttr(xml.Name{Local: "id"}); !ok || v != "one" {
		t.Errorf("unqualified id = %q, %v", v, ok)
	}
	if v, ok := root.LookupAttr(xml.Name{Space: "http://www.w3.org/2003/05/soap-encoding", Local: "id"}); !ok || v != "two" {
		t.Errorf("qualified id = %q, %v", v, ok)
	}
	if _, ok := root.LookupAttr(xml.Name{Local: "href"}); ok {
		t.Error("found missing href attribute")
	}
	root.RemoveAttr(xml.Name{Local: "id"})
	if _, ok := root.LookupAttr(xml.Name{Local: "id"}); ok {
		t.Error("RemoveAttr did not remove id")
	}
}

func TestCharset(t *testing.T) {
	doc := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<name>Jos\xe9</name>")
	root := parseDoc(t, doc)
	if s := root.Text(); s != "José" {
		t.Errorf("latin-1 character data decoded as %q", s)
	}
}

func TestDeepDocument(t *testing.T) {
	doc := strings.Repeat("<a>", recursionLimit+2) + strings.Repeat("</a>", recursionLimit+2)
	if _, err := Parse([]byte(doc)); err == nil {
		t.Error("expected an error for a deeply nested document")
	}
}

func TestTruncated(t *testing.T) {
	if _, err := Parse([]byte(`<a><b>text</b>`)); err == nil {
		t.Error("expected an error for a truncated document")
	}
}

func TestModification(t *testing.T) {
	from := []byte(`<ul><li>1</li><em>bad</em><li>2</li></ul>`)
	to := `<ul><li>1</li><li>2</li></ul>`
	root := parseDoc(t, from)
	// Remove any non-<li> children from all <ul> elements
	// in the document.
	valid := make([]Element, 0, len(root.Children))
	for _, p := range root.Search("", "li") {
		valid = append(valid, *p)
	}
	root.Children = valid
	if s := root.String(); s != to {
		t.Errorf("%s -> %s, expected %s", from, s, to)
	}
}

func TestMarshalPreservesNS(t *testing.T) {
	root := parseDoc(t, scopedDoc)
	artist := root.Children[0].Children[1]

	// move the artist to the top of the tree, away from the
	// declarations it was parsed under.
	root.Children = append(root.Children, artist)
	doc := Marshal(root)

	reparsed := parseDoc(t, doc)
	moved := reparsed.Children[len(reparsed.Children)-1]
	typ := moved.Attr("http://www.w3.org/2001/XMLSchema-instance", "type")
	if name := moved.Resolve(typ); name.Space != "http://ns3.net/" {
		t.Errorf("moved element lost its scope, resolved %q to %v\n%s", typ, name, doc)
	}
	if !Equal(root, reparsed) {
		t.Errorf("round trip changed the document:\n%s", doc)
	}
}

func TestEqual(t *testing.T) {
	a := parseDoc(t, []byte(`<r xmlns:p="urn:x"><p:b>1</p:b><c k="v"> 2 </c></r>`))
	b := parseDoc(t, []byte(`<r xmlns:q="urn:x"><c k="v">2</c><q:b>1</q:b></r>`))
	c := parseDoc(t, []byte(`<r xmlns:q="urn:x"><c k="w">2</c><q:b>1</q:b></r>`))
	if !Equal(a, b) {
		t.Error("documents differing in prefix and order should be equal")
	}
	if Equal(a, c) {
		t.Error("documents differing in attribute values should not be equal")
	}
	if a.Children[0].Name.Local != "b" {
		t.Error("Equal reordered the children of its argument")
	}
}

func TestEqualQNameValues(t *testing.T) {
	const decl = `xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:enc="http://schemas.xmlsoap.org/soap/encoding/"`
	cases := []struct {
		a, b  string
		equal bool
	}{
		{
			`<v ` + decl + ` xmlns:p="urn:x" xsi:type="p:T"/>`,
			`<v ` + decl + ` xmlns:q="urn:x" xsi:type="q:T"/>`,
			true,
		},
		{
			`<v ` + decl + ` xmlns:p="urn:x" enc:arrayType="p:T[2]"/>`,
			`<v ` + decl + ` xmlns:q="urn:x" enc:arrayType="q:T[2]"/>`,
			true,
		},
		{
			`<v ` + decl + ` xmlns:p="urn:x" enc:arrayType="p:T[2]"/>`,
			`<v ` + decl + ` xmlns:q="urn:x" enc:arrayType="q:T[3]"/>`,
			false,
		},
		{
			`<v ` + decl + ` xmlns:p="urn:x" xsi:type="p:T"/>`,
			`<v ` + decl + ` xmlns:p="urn:y" xsi:type="p:T"/>`,
			false,
		},
		{
			`<v xmlns:p="urn:x" label="p:T"/>`,
			`<v xmlns:q="urn:x" label="q:T"/>`,
			false,
		},
	}
	for i, tc := range cases {
		a := parseDoc(t, []byte(tc.a))
		b := parseDoc(t, []byte(tc.b))
		if got := Equal(a, b); got != tc.equal {
			t.Errorf("test %d: Equal = %v, want %v", i, got, tc.equal)
		}
	}
}

func TestUnmarshal(t *testing.T) {
	root := parseDoc(t, googleSOAP)
	type searchItem struct {
		CachedSize string `xml:"urn:GoogleSearch cachedSize"`
		Title      string `xml:"urn:GoogleSearch title"`
		URL        string `xml:"urn:GoogleSearch URL"`
	}
	var v searchItem
	const changedURL = "http://i-changed-this/"
	item := root.Search("", "item")[0]
	for i, c := range item.Children {
		if c.Name.Local == "URL" {
			item.Children[i].Content = []byte(changedURL)
		}
	}
	if err := Unmarshal(item, &v); err != nil {
		t.Fatal(err)
	}
	if len(v.CachedSize) == 0 || len(v.Title) == 0 {
		t.Errorf("failed to unmarshal <item>; empty <title> or <cachedSize>")
	}
	if v.URL != changedURL {
		t.Errorf("modification to <item> URL field was not respected: %s != %s", v.URL, changedURL)
	}
}
