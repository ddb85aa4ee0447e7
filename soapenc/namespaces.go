package soapenc

import (
	"encoding/xml"

	"github.com/CognitoIQ/go-soapenc/xsd"
)

// XML namespaces of the SOAP envelope and encoding.
const (
	EnvelopeNS11 = "http://schemas.xmlsoap.org/soap/envelope/"
	EncodingNS11 = "http://schemas.xmlsoap.org/soap/encoding/"
	EnvelopeNS12 = "http://www.w3.org/2003/05/soap-envelope"
	EncodingNS12 = "http://www.w3.org/2003/05/soap-encoding"
)

// DefaultNamespace is the namespace of the schema types
// that a TypeMapping derives from Go types, unless configured
// otherwise.
const DefaultNamespace = "urn:go-soapenc:types"

// A Version selects a revision of the SOAP protocol.
type Version int

const (
	SOAP11 Version = 1 + iota
	SOAP12
)

func (v Version) String() string {
	if v == SOAP12 {
		return "SOAP 1.2"
	}
	return "SOAP 1.1"
}

// EnvelopeNS returns the namespace of the SOAP envelope.
func (v Version) EnvelopeNS() string {
	if v == SOAP12 {
		return EnvelopeNS12
	}
	return EnvelopeNS11
}

// EncodingNS returns the URI that identifies the SOAP encoding
// style.
func (v Version) EncodingNS() string {
	if v == SOAP12 {
		return EncodingNS12
	}
	return EncodingNS11
}

var (
	attrArrayType   = xml.Name{Space: EncodingNS11, Local: "arrayType"}
	attrArrayType12 = xml.Name{Space: EncodingNS12, Local: "arrayType"}
	attrOffset      = xml.Name{Space: EncodingNS11, Local: "offset"}
	attrPosition    = xml.Name{Space: EncodingNS11, Local: "position"}
	attrRoot        = xml.Name{Space: EncodingNS11, Local: "root"}

	attrID    = xml.Name{Local: "id"}
	attrHref  = xml.Name{Local: "href"}
	attrID12  = xml.Name{Space: EncodingNS12, Local: "id"}
	attrRef12 = xml.Name{Space: EncodingNS12, Local: "ref"}

	attrXsiType = xml.Name{Space: xsd.SchemaInstanceNS, Local: "type"}
	attrXsiNil  = xml.Name{Space: xsd.SchemaInstanceNS, Local: "nil"}

	soapStruct = xml.Name{Space: EncodingNS11, Local: "Struct"}
	soapArray  = xml.Name{Space: EncodingNS11, Local: "Array"}
)

var wellKnownPrefix = map[string]string{
	EnvelopeNS11:         "soapenv",
	EncodingNS11:         "soapenc",
	EnvelopeNS12:         "env",
	EncodingNS12:         "enc",
	xsd.SchemaNS:         "xsd",
	xsd.SchemaInstanceNS: "xsi",
}
