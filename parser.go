package sajson

import "math"

// parseDocument drives the push-down automaton described in §4.5: a
// value grammar recursively invoked for array elements, object values,
// and the document root, backed by the arena's temp stack for
// not-yet-reified container contents. It returns the root cell (valid
// only when perr is nil).
func parseDocument(a arena, buf []byte) (cell, *ParseError) {
	c := newCursor(buf)
	c.skipWhitespace()
	if c.eof() {
		return 0, c.errorAt(MISSING_ROOT_ELEMENT, 0)
	}
	if c.peek() != '[' && c.peek() != '{' {
		return 0, c.errorAt(BAD_ROOT, 0)
	}

	root, err := parseAnyValue(a, c)
	if err != nil {
		return 0, err
	}

	c.skipWhitespace()
	if !c.eof() {
		return 0, c.errorAt(EXPECTED_END_OF_INPUT, 0)
	}
	return root, nil
}

// parseAnyValue parses one JSON value at the cursor's current
// position, dispatching on its leading byte (§4.2's value grammar).
// It is used both for the document root and recursively for every
// array element and object value.
func parseAnyValue(a arena, c *cursor) (cell, *ParseError) {
	c.skipWhitespace()
	if c.eof() {
		return 0, c.errorAt(UNEXPECTED_END, 0)
	}

	switch c.peek() {
	case '{':
		c.advance()
		return parseObjectBody(a, c)

	case '[':
		c.advance()
		return parseArrayBody(a, c)

	case '"':
		start, end, serr := lexString(c)
		if serr != nil {
			return 0, serr
		}
		addr := a.allocAST(2)
		a.setASTWord(addr, uint32(start))
		a.setASTWord(addr+1, uint32(end))
		return packCell(addr, TypeString), nil

	case 't':
		if err := matchLiteral(c, "true", EXPECTED_TRUE); err != nil {
			return 0, err
		}
		return packCell(0, TypeTrue), nil

	case 'f':
		if err := matchLiteral(c, "false", EXPECTED_FALSE); err != nil {
			return 0, err
		}
		return packCell(0, TypeFalse), nil

	case 'n':
		if err := matchLiteral(c, "null", EXPECTED_NULL); err != nil {
			return 0, err
		}
		return packCell(0, TypeNull), nil

	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		tag, ival, dval, nerr := lexNumber(c)
		if nerr != nil {
			return 0, nerr
		}
		if tag == TypeInteger {
			addr := a.allocAST(1)
			a.setASTWord(addr, uint32(ival))
			return packCell(addr, TypeInteger), nil
		}
		addr := a.allocAST(2)
		bits := math.Float64bits(dval)
		a.setASTWord(addr, uint32(bits))
		a.setASTWord(addr+1, uint32(bits>>32))
		return packCell(addr, TypeDouble), nil

	case ',':
		// A comma found where a value was expected — either the first
		// element/member slot ("[,1]") or directly after another comma
		// ("[1,,2]") — is UNEXPECTED_COMMA, distinct from the generic
		// EXPECTED_VALUE given to any other wrong-looking byte.
		return 0, c.errorAt(UNEXPECTED_COMMA, 0)

	default:
		return 0, c.errorAt(EXPECTED_VALUE, 0)
	}
}

// matchLiteral consumes lit starting at the cursor if it matches, and
// reports failCode at the point of mismatch, or UNEXPECTED_END if the
// buffer runs out mid-literal — consistent with how lexNumber and
// lexString prioritize "ran out of input" over a grammar-specific code.
func matchLiteral(c *cursor, lit string, failCode ErrorCode) *ParseError {
	for i := 0; i < len(lit); i++ {
		if c.pos+i >= len(c.buf) {
			c.pos = len(c.buf)
			return c.errorAt(UNEXPECTED_END, 0)
		}
		if c.buf[c.pos+i] != lit[i] {
			c.pos = c.pos + i
			return c.errorAt(failCode, 0)
		}
	}
	c.pos += len(lit)
	return nil
}

// parseArrayBody parses the element list following a consumed '[',
// leaving the cursor just past the matching ']'. Elements are pushed
// onto the temp stack as absolute-address cells and reified into a
// contiguous AST payload on close (§3.3, §4.1).
func parseArrayBody(a arena, c *cursor) (cell, *ParseError) {
	markerBase := a.stackLen()
	count := int32(0)

	c.skipWhitespace()
	if !c.eof() && c.peek() == ']' {
		c.advance()
	} else {
		for {
			val, err := parseAnyValue(a, c)
			if err != nil {
				return 0, err
			}
			a.pushWord(uint32(val))
			count++

			c.skipWhitespace()
			if c.eof() {
				return 0, c.errorAt(UNEXPECTED_END, 0)
			}
			switch c.peek() {
			case ']':
				c.advance()
				goto closeArray
			case ',':
				c.advance()
				c.skipWhitespace()
				if !c.eof() && c.peek() == ']' {
					return 0, c.errorAt(EXPECTED_VALUE, 0)
				}
			default:
				return 0, c.errorAt(EXPECTED_COMMA, 0)
			}
		}
	}

closeArray:
	payloadBase := a.allocAST(1 + count)
	a.setASTWord(payloadBase, uint32(count))
	for k := int32(0); k < count; k++ {
		child := cell(a.stackWord(markerBase + k))
		a.setASTWord(payloadBase+1+k, uint32(relativize(child, payloadBase)))
	}
	a.truncateStack(markerBase)
	return packCell(payloadBase, TypeArray), nil
}

// parseObjectBody parses the member list following a consumed '{',
// leaving the cursor just past the matching '}'. Each member pushes a
// (key_start, key_end, value_cell) triple onto the temp stack; on
// close the triples are sorted length-then-lexicographically in place
// (§3.4) before being copied into the AST payload.
func parseObjectBody(a arena, c *cursor) (cell, *ParseError) {
	markerBase := a.stackLen()
	count := int32(0)

	c.skipWhitespace()
	if !c.eof() && c.peek() == '}' {
		c.advance()
	} else {
		for {
			c.skipWhitespace()
			if c.eof() {
				return 0, c.errorAt(UNEXPECTED_END, 0)
			}
			if c.peek() != '"' {
				return 0, c.errorAt(MISSING_OBJECT_KEY, 0)
			}
			ks, ke, serr := lexString(c)
			if serr != nil {
				return 0, serr
			}

			c.skipWhitespace()
			if c.eof() {
				return 0, c.errorAt(UNEXPECTED_END, 0)
			}
			if c.peek() != ':' {
				return 0, c.errorAt(EXPECTED_COLON, 0)
			}
			c.advance()

			val, verr := parseAnyValue(a, c)
			if verr != nil {
				return 0, verr
			}
			a.pushWord(uint32(ks))
			a.pushWord(uint32(ke))
			a.pushWord(uint32(val))
			count++

			c.skipWhitespace()
			if c.eof() {
				return 0, c.errorAt(UNEXPECTED_END, 0)
			}
			switch c.peek() {
			case '}':
				c.advance()
				goto closeObject
			case ',':
				c.advance()
				c.skipWhitespace()
				if !c.eof() && c.peek() == '}' {
					return 0, c.errorAt(MISSING_OBJECT_KEY, 0)
				}
			default:
				return 0, c.errorAt(EXPECTED_COMMA, 0)
			}
		}
	}

closeObject:
	sortObjectEntries(a, markerBase, count, c.buf)

	payloadBase := a.allocAST(1 + 3*count)
	a.setASTWord(payloadBase, uint32(count))
	for k := int32(0); k < count; k++ {
		srcBase := markerBase + 3*k
		dstBase := payloadBase + 1 + 3*k
		ks := a.stackWord(srcBase)
		ke := a.stackWord(srcBase + 1)
		val := cell(a.stackWord(srcBase + 2))
		a.setASTWord(dstBase, ks)
		a.setASTWord(dstBase+1, ke)
		a.setASTWord(dstBase+2, uint32(relativize(val, payloadBase)))
	}
	a.truncateStack(markerBase)
	return packCell(payloadBase, TypeObject), nil
}

// relativize rewrites an absolute-address child cell (as pushed onto
// the temp stack during parsing) into one relative to its container's
// payload base, the final encoding stored in the AST (§3.2). Cells
// without a payload (null/false/true) carry no address and pass
// through unchanged.
func relativize(child cell, base int32) cell {
	tag := child.tag()
	if !tag.hasPayload() {
		return packCell(0, tag)
	}
	return packCell(child.offset()-base, tag)
}
