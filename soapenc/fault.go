package soapenc

import (
	"fmt"
	"strings"

	"github.com/CognitoIQ/go-soapenc/xmltree"
)

// A Fault is a SOAP fault received in place of a response.
type Fault struct {
	Version Version
	Code    string
	String  string
	Actor   string
	// Detail is the raw XML content of the fault detail, if any.
	Detail string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("soap fault %s: %s", f.Code, f.String)
}

func readFault(el *xmltree.Element, version Version) *Fault {
	f := &Fault{Version: version}
	text := func(local string) string {
		for i := range el.Children {
			if el.Children[i].Name.Local == local {
				return strings.TrimSpace(el.Children[i].Text())
			}
		}
		return ""
	}
	sub := func(local, inner string) string {
		for i := range el.Children {
			c := &el.Children[i]
			if c.Name.Local != local {
				continue
			}
			for j := range c.Children {
				if c.Children[j].Name.Local == inner {
					return strings.TrimSpace(c.Children[j].Text())
				}
			}
		}
		return ""
	}
	detail := func(local string) string {
		for i := range el.Children {
			if el.Children[i].Name.Local == local {
				return strings.TrimSpace(string(el.Children[i].Content))
			}
		}
		return ""
	}
	if version == SOAP12 {
		f.Code = sub("Code", "Value")
		f.String = sub("Reason", "Text")
		f.Actor = text("Role")
		f.Detail = detail("Detail")
	} else {
		f.Code = text("faultcode")
		f.String = text("faultstring")
		f.Actor = text("faultactor")
		f.Detail = detail("detail")
	}
	return f
}
