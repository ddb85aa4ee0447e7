/*
soapenc is a tool for inspecting and producing SOAP-encoded
(RPC/encoded) messages.

Usage:

	soapenc [-v] arraytype [-n prefix=uri] [--offset [n]] value
	soapenc [-v] decode [--strict] [--flatten] [file]
	soapenc [-v] encode --name local [--namespace uri] [--soap12] [file]
	soapenc [-v] flatten [-o dir] [pattern ...]

The arraytype command parses the value of a soapenc:arrayType
attribute and prints its parts as YAML. Namespace prefixes in the
value are resolved with the -n flag, which may be used more than
once; the xsd and soapenc prefixes are bound by default.

The decode command reads a SOAP message of either version and prints
the first element of its Body as YAML, with every reference resolved.
A value that refers to one of its own ancestors is printed as the
string "<cycle>". With --strict, references to undefined ids are an
error.

The encode command reads a YAML mapping and writes it as the element
named by --name in the Body of a SOAP message. Sequences are written
as encoded arrays, and nested mappings as trailing blocks.

The flatten command replaces every reference in the files matching
each pattern with a copy of the element it refers to, so that the
result can be read by decoders that do not understand href and id
attributes. Patterns may use ** to match any number of directories.
Without -o, the flattened documents are written to standard output.
Without patterns, standard input is flattened.

Each -v flag increases the verbosity of the log written to standard
error.
*/
package main
