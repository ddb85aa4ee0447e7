// Package xsd names the built-in datatypes of XML Schema.
//
// SOAP encoding reuses the XML Schema datatypes for the values of
// simple elements, and for the xsi:type and soapenc:arrayType
// attributes that describe them. The xsd package maps between the
// canonical names of those datatypes and a compact enumeration.
package xsd // import "github.com/CognitoIQ/go-soapenc/xsd"

import (
	"encoding/xml"
	"fmt"
)

// Namespaces of XML Schema documents and instances.
const (
	SchemaNS         = "http://www.w3.org/2001/XMLSchema"
	SchemaInstanceNS = "http://www.w3.org/2001/XMLSchema-instance"
)

// Namespaces of the drafts of XML Schema that preceded the 2001
// recommendation. Older SOAP stacks still declare them.
const (
	SchemaNS1999 = "http://www.w3.org/1999/XMLSchema"
	SchemaNS2000 = "http://www.w3.org/2000/10/XMLSchema"
)

// Canonical translates names in an XML Schema draft namespace to
// SchemaNS, and the ur-type to anyType. Other names are returned
// unchanged.
func Canonical(name xml.Name) xml.Name {
	switch name.Space {
	case SchemaNS1999, SchemaNS2000:
		name.Space = SchemaNS
	}
	if name == UrType {
		return AnyType.Name()
	}
	return name
}

// UrType is the XML Schema 1999 name for the root of the type
// hierarchy. It is still found in the arrayType attributes written by
// older SOAP stacks, and is equivalent to AnyType.
var UrType = xml.Name{Space: SchemaNS, Local: "ur-type"}

// A built-in represents one of the built-in xml schema types, as
// defined in the W3C specification, "XML Schema Part 2: Datatypes".
//
// http://www.w3.org/TR/xmlschema-2/#built-in-datatypes
type Builtin int

const (
	AnyType Builtin = iota
	ENTITIES
	ENTITY
	ID
	IDREF
	IDREFS
	NCName
	NMTOKEN
	NMTOKENS
	NOTATION
	Name
	QName
	AnyURI
	Base64Binary
	Boolean
	Byte
	Date
	DateTime
	Decimal
	Double
	Duration
	Float
	GDay
	GMonth
	GMonthDay // ISO 8601 format: --MM-DD
	GYear
	GYearMonth
	HexBinary
	Int
	Integer
	Language
	Long
	NegativeInteger
	NonNegativeInteger
	NonPositiveInteger
	NormalizedString
	PositiveInteger
	Short
	String
	Time
	Token
	UnsignedByte
	UnsignedInt
	UnsignedLong
	UnsignedShort
	AnySimpleType
)

var builtinNames = [...]string{
	AnyType:            "anyType",
	ENTITIES:           "ENTITIES",
	ENTITY:             "ENTITY",
	ID:                 "ID",
	IDREF:              "IDREF",
	IDREFS:             "IDREFS",
	NCName:             "NCName",
	NMTOKEN:            "NMTOKEN",
	NMTOKENS:           "NMTOKENS",
	NOTATION:           "NOTATION",
	Name:               "Name",
	QName:              "QName",
	AnyURI:             "anyURI",
	Base64Binary:       "base64Binary",
	Boolean:            "boolean",
	Byte:               "byte",
	Date:               "date",
	DateTime:           "dateTime",
	Decimal:            "decimal",
	Double:             "double",
	Duration:           "duration",
	Float:              "float",
	GDay:               "gDay",
	GMonth:             "gMonth",
	GMonthDay:          "gMonthDay",
	GYear:              "gYear",
	GYearMonth:         "gYearMonth",
	HexBinary:          "hexBinary",
	Int:                "int",
	Integer:            "integer",
	Language:           "language",
	Long:               "long",
	NegativeInteger:    "negativeInteger",
	NonNegativeInteger: "nonNegativeInteger",
	NonPositiveInteger: "nonPositiveInteger",
	NormalizedString:   "normalizedString",
	PositiveInteger:    "positiveInteger",
	Short:              "short",
	String:             "string",
	Time:               "time",
	Token:              "token",
	UnsignedByte:       "unsignedByte",
	UnsignedInt:        "unsignedInt",
	UnsignedLong:       "unsignedLong",
	UnsignedShort:      "unsignedShort",
	AnySimpleType:      "anySimpleType",
}

// String returns the local name of the built-in type.
func (b Builtin) String() string {
	if b < 0 || int(b) >= len(builtinNames) {
		return fmt.Sprintf("Builtin(%d)", int(b))
	}
	return builtinNames[b]
}

// Name returns the canonical name of the built-in type. All
// built-in types are in the standard XML schema namespace,
// http://www.w3.org/2001/XMLSchema.
func (b Builtin) Name() xml.Name {
	return xml.Name{Space: SchemaNS, Local: b.String()}
}

// ParseBuiltin looks up a Builtin by name. If qname
// does not name a built-in type, ParseBuiltin returns
// a non-nil error. qname is translated with Canonical first.
func ParseBuiltin(qname xml.Name) (Builtin, error) {
	qname = Canonical(qname)
	if qname.Space == SchemaNS {
		for i := AnyType; i <= AnySimpleType; i++ {
			if builtinNames[i] == qname.Local {
				return i, nil
			}
		}
	}
	return -1, fmt.Errorf("xsd:%s is not a built-in", qname.Local)
}
