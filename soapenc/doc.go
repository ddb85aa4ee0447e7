// Package soapenc converts between Go values and the SOAP encoding
// of RPC/encoded messages.
//
// The SOAP encoding can represent graphs of values. A value that is
// referenced from several places, or from itself, is written once, as
// a trailing block that follows the element of the message in the
// SOAP Body, and every place that holds it refers to the block's id:
//
//	<soapenv:Body>
//	  <ns1:addOrder soapenv:encodingStyle="...">
//	    <order href="#0"/>
//	  </ns1:addOrder>
//	  <ns1:Order id="0" soapenc:root="0">
//	    <customer href="#1"/>
//	    ...
//
// Encoded arrays carry a soapenc:arrayType attribute naming their
// member type and dimensions. They may be multi-dimensional, sparse,
// or partially transmitted.
//
// Messages of both SOAP 1.1 and SOAP 1.2 are read; references may use
// the href attribute of SOAP 1.1 or the enc:ref attribute of SOAP 1.2.
// Messages are written with the SOAP 1.1 id and href attributes.
//
// The state of a message is held in a Context, which holds the
// RefRegistry that resolves references while the message is read,
// and the MarshalRegistry that assigns ids to the values written by
// reference. Each Type of a TypeMapping reads and writes one kind of
// value using the Context.
package soapenc // import "github.com/CognitoIQ/go-soapenc/soapenc"
