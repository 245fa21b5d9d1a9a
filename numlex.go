package sajson

import "strconv"

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// parseInt32 parses an ASCII decimal literal (optional leading '-')
// into an int32, reporting ok=false on overflow. Used so numbers that
// fit the 32-bit integer encoding (§4.3) never round-trip through
// strconv.ParseFloat.
func parseInt32(text []byte) (int32, bool) {
	i := 0
	neg := false
	if i < len(text) && text[i] == '-' {
		neg = true
		i++
	}
	if i >= len(text) {
		return 0, false
	}
	var n int64
	for ; i < len(text); i++ {
		d := text[i]
		if d < '0' || d > '9' {
			return 0, false
		}
		n = n*10 + int64(d-'0')
		if n > 1<<32 {
			// well past int32 range either way, bail early
			return 0, false
		}
	}
	if neg {
		n = -n
	}
	if n < -2147483648 || n > 2147483647 {
		return 0, false
	}
	return int32(n), true
}

// lexNumber consumes a JSON number at the cursor's current position
// per the grammar in §4.3 and returns either an integer or a double
// encoding. The cursor must be positioned on '-' or a digit.
func lexNumber(c *cursor) (Type, int32, float64, *ParseError) {
	start := c.pos

	if !c.eof() && c.peek() == '-' {
		c.advance()
	}
	if c.eof() {
		return 0, 0, 0, c.errorAt(UNEXPECTED_END, 0)
	}
	if !isDigit(c.peek()) {
		return 0, 0, 0, c.errorAt(EXPECTED_VALUE, 0)
	}

	first := c.advance()
	if first == '0' {
		// Leading-zero rejection (§4.3): '0' followed directly by
		// another digit, with no '.'/'e' in between, is an error.
		// The state machine's perspective is that it just finished a
		// complete number and expected a comma/terminator next.
		if !c.eof() && isDigit(c.peek()) {
			return 0, 0, 0, c.errorAt(EXPECTED_COMMA, 0)
		}
	} else {
		for !c.eof() && isDigit(c.peek()) {
			c.advance()
		}
	}

	isFloat := false
	if !c.eof() && c.peek() == '.' {
		isFloat = true
		c.advance()
		if c.eof() {
			return 0, 0, 0, c.errorAt(UNEXPECTED_END, 0)
		}
		if !isDigit(c.peek()) {
			return 0, 0, 0, c.errorAt(EXPECTED_VALUE, 0)
		}
		for !c.eof() && isDigit(c.peek()) {
			c.advance()
		}
	}

	hasExponent := false
	if !c.eof() && (c.peek() == 'e' || c.peek() == 'E') {
		hasExponent = true
		c.advance()
		if !c.eof() && (c.peek() == '+' || c.peek() == '-') {
			c.advance()
		}
		if c.eof() {
			return 0, 0, 0, c.errorAt(UNEXPECTED_END, 0)
		}
		if !isDigit(c.peek()) {
			return 0, 0, 0, c.errorAt(MISSING_EXPONENT, 0)
		}
		for !c.eof() && isDigit(c.peek()) {
			c.advance()
		}
	}

	text := c.buf[start:c.pos]

	if !isFloat && !hasExponent {
		if iv, ok := parseInt32(text); ok {
			return TypeInteger, iv, 0, nil
		}
	}

	dv, _ := strconv.ParseFloat(GetString(text), 64)
	return TypeDouble, 0, dv, nil
}
