package soapenc

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CognitoIQ/go-soapenc/xmltree"
)

type testLogger struct {
	t *testing.T
}

func (l testLogger) Printf(format string, v ...interface{}) {
	l.t.Helper()
	l.t.Logf(format, v...)
}

func testConfig(t *testing.T, opts ...Option) *Config {
	base := []Option{LogOutput(testLogger{t}), LogLevel(5), Namespace("urn:test")}
	return NewConfig(append(base, opts...)...)
}

// nsMap resolves prefixes from a fixed table.
type nsMap map[string]string

func (m nsMap) ResolveNS(qname string) (name xml.Name, ok bool) {
	i := strings.IndexByte(qname, ':')
	if i < 0 {
		return xml.Name{Local: qname}, true
	}
	space, ok := m[qname[:i]]
	if !ok {
		return xml.Name{Space: qname[:i], Local: qname[i+1:]}, false
	}
	return xml.Name{Space: space, Local: qname[i+1:]}, true
}

const encodedNS = `xmlns:soapenc="http://schemas.xmlsoap.org/soap/encoding/" ` +
	`xmlns:xsd="http://www.w3.org/2001/XMLSchema" ` +
	`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" ` +
	`xmlns:ns1="urn:test"`

func elementReader(t *testing.T, doc string) *Reader {
	t.Helper()
	root, err := xmltree.Parse([]byte(doc))
	require.NoError(t, err)
	return NewReader(root)
}

func envelope11(body string) []byte {
	return []byte(`<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" ` +
		encodedNS + `><soapenv:Body>` + body + `</soapenv:Body></soapenv:Envelope>`)
}
