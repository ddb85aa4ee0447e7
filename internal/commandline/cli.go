// Package commandline contains helper types for collecting
// command-line arguments.
package commandline // import "github.com/CognitoIQ/go-soapenc/internal/commandline"

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// A Binding maps a namespace prefix to a namespace URI. On the
// command line, Bindings are provided as strings of the form
// "prefix=uri".
type Binding struct {
	Prefix string
	Space  string
}

// A BindingList is used to collect namespace bindings from the
// command line. It satisfies the pflag.Value interface. A
// BindingList resolves the prefixes of QNames; later bindings of a
// prefix take precedence.
type BindingList []Binding

func (l *BindingList) String() string {
	parts := make([]string, len(*l))
	for i, b := range *l {
		parts[i] = b.Prefix + "=" + b.Space
	}
	return strings.Join(parts, ",")
}

// Set adds a binding to the BindingList, in the order provided on
// the command line.
func (l *BindingList) Set(s string) error {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid namespace binding %q. must be \"prefix=uri\"", s)
	}
	prefix, space := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if strings.ContainsAny(prefix, ": ") || space == "" {
		return fmt.Errorf("invalid namespace binding %q", s)
	}
	*l = append(*l, Binding{Prefix: prefix, Space: space})
	return nil
}

// Type names the syntax of a binding in help output.
func (l *BindingList) Type() string { return "prefix=uri" }

// ResolveNS resolves the prefix of qname. A name without a prefix
// is in the namespace bound to the empty prefix, if any.
func (l BindingList) ResolveNS(qname string) (xml.Name, bool) {
	prefix, local := "", qname
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		prefix, local = qname[:i], qname[i+1:]
	}
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].Prefix == prefix {
			return xml.Name{Space: l[i].Space, Local: local}, true
		}
	}
	if prefix == "" {
		return xml.Name{Local: local}, true
	}
	return xml.Name{Space: prefix, Local: local}, false
}
