package soapenc

import "strconv"

// WriteBlocks writes every instance queued in the MarshalRegistry of
// ctx as a child of w, until the queue is empty. Each block is named
// after the schema type of the instance, and carries the instance's
// id. Instances referenced while a block is written are queued and
// written as well; every instance is written once.
func WriteBlocks(w *Writer, ctx *Context) error {
	mr := ctx.MarshalRegistry()
	n := 0
	for id, v, ok := mr.Next(); ok; id, v, ok = mr.Next() {
		typ, err := ctx.typeOfValue(v)
		if err != nil {
			return err
		}
		c := w.ElementWriter(typ.SchemaType())
		writeID(c, id)
		if ctx.Version() != SOAP12 {
			c.WriteAttr(attrRoot, "0")
		}
		if ctx.cfg.xsiTypes {
			c.WriteXsiType(xsiTypeName(typ))
		}
		if err := typ.WriteObject(v, c, ctx); err != nil {
			return at(typ.SchemaType().Local+"#"+id, err)
		}
		n++
	}
	ctx.debugf("wrote %d trailing blocks", n)
	return nil
}

// ReadBlocks reads the remaining children of r as trailing blocks,
// and adds each to the RefRegistry of ctx under its id, resolving
// the references to it. A block's Type is found by its element name,
// then its xsi:type attribute; blocks of unknown type are read as
// xsd:anyType.
func ReadBlocks(r *Reader, ctx *Context) error {
	n := 0
	for r.HasMoreElementReaders() {
		c := r.NextElementReader()
		id, ok := soapID(c)
		if !ok {
			return at(c.Name().Local, errorf("trailing block does not contain a SOAP id"))
		}
		typ, ok := ctx.Mapping().TypeByName(c.Name())
		if !ok {
			typ = ctx.Mapping().anyType()
		}
		var v interface{}
		if !c.IsXsiNil() {
			var err error
			if v, err = readValue(readType(c, ctx, typ), c, ctx); err != nil {
				return err
			}
		}
		if isNil(v) {
			ctx.debugf("trailing block %s is nil", strconv.Quote(id))
			continue
		}
		if err := ctx.RefRegistry().AddInstance(id, v); err != nil {
			return at(c.Name().Local, err)
		}
		n++
	}
	ctx.debugf("read %d trailing blocks", n)
	return nil
}
