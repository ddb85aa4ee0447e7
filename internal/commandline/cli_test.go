package commandline

import (
	"encoding/xml"
	"testing"
)

func TestBindingList(t *testing.T) {
	var l BindingList
	for _, s := range []string{"x=urn:bar", " y = urn:y ", "x=urn:baz", "=urn:default"} {
		if err := l.Set(s); err != nil {
			t.Fatalf("Set(%q): %v", s, err)
		}
	}
	cases := []struct {
		qname string
		want  xml.Name
		ok    bool
	}{
		{"x:foo", xml.Name{Space: "urn:baz", Local: "foo"}, true},
		{"y:foo", xml.Name{Space: "urn:y", Local: "foo"}, true},
		{"foo", xml.Name{Space: "urn:default", Local: "foo"}, true},
		{"z:foo", xml.Name{Space: "z", Local: "foo"}, false},
	}
	for i, tc := range cases {
		name, ok := l.ResolveNS(tc.qname)
		if name != tc.want || ok != tc.ok {
			t.Errorf("test %d: ResolveNS(%q) = %v, %v; want %v, %v", i, tc.qname, name, ok, tc.want, tc.ok)
		}
	}
	if s := l.String(); s != "x=urn:bar,y=urn:y,x=urn:baz,=urn:default" {
		t.Errorf("String() = %q", s)
	}
}

func TestBindingListErrors(t *testing.T) {
	for i, s := range []string{"", "x", "x=", "a:b=urn:x", "a b=urn:x"} {
		var l BindingList
		if err := l.Set(s); err == nil {
			t.Errorf("test %d: Set(%q) accepted %v", i, s, l)
		}
	}
}
