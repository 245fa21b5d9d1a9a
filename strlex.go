package sajson

// lexString decodes the JSON string literal starting at the cursor's
// current '"' byte, writing the decoded bytes back into the input
// buffer starting at the literal's own start (§4.4). It returns the
// byte range of the decoded content. Every rule shrinks-or-holds the
// byte count (an escape never expands past its own source span), so
// the in-place write pointer never overtakes the read pointer.
func lexString(c *cursor) (int32, int32, *ParseError) {
	buf := c.buf
	n := len(buf)
	openPos := c.pos
	p := openPos + 1
	w := p

	for {
		if p >= n {
			c.pos = p
			return 0, 0, c.errorAt(UNEXPECTED_END, 0)
		}

		b := buf[p]
		switch {
		case b == '"':
			c.pos = p + 1
			return int32(openPos + 1), int32(w), nil

		case b == '\\':
			p++
			if p >= n {
				c.pos = p
				return 0, 0, c.errorAt(UNEXPECTED_END, 0)
			}
			switch buf[p] {
			case '"':
				buf[w] = '"'
				w++
				p++
			case '\\':
				buf[w] = '\\'
				w++
				p++
			case '/':
				buf[w] = '/'
				w++
				p++
			case 'b':
				buf[w] = '\b'
				w++
				p++
			case 'f':
				buf[w] = '\f'
				w++
				p++
			case 'n':
				buf[w] = '\n'
				w++
				p++
			case 'r':
				buf[w] = '\r'
				w++
				p++
			case 't':
				buf[w] = '\t'
				w++
				p++
			case 'u':
				p++
				cp, np, perr := decodeHex4(buf, p, n, c)
				if perr != nil {
					return 0, 0, perr
				}
				p = np

				switch {
				case cp >= 0xD800 && cp <= 0xDBFF:
					if p+1 >= n {
						c.pos = p
						return 0, 0, c.errorAt(UNEXPECTED_END_OF_UTF16, 0)
					}
					if buf[p] != '\\' {
						c.pos = p
						return 0, 0, c.errorAt(UNEXPECTED_END_OF_UTF16, 0)
					}
					if buf[p+1] != 'u' {
						c.pos = p + 1
						return 0, 0, c.errorAt(EXPECTED_U, 0)
					}
					p += 2
					lo, np2, perr2 := decodeHex4(buf, p, n, c)
					if perr2 != nil {
						return 0, 0, perr2
					}
					p = np2
					if lo < 0xDC00 || lo > 0xDFFF {
						c.pos = p
						return 0, 0, c.errorAt(INVALID_UTF16_TRAIL_SURROGATE, 0)
					}
					combined := 0x10000 + (cp-0xD800)<<10 + (lo - 0xDC00)
					w += encodeUTF8(buf, w, combined)
				case cp >= 0xDC00 && cp <= 0xDFFF:
					c.pos = p
					return 0, 0, c.errorAt(INVALID_UTF16_TRAIL_SURROGATE, 0)
				default:
					w += encodeUTF8(buf, w, cp)
				}
			default:
				c.pos = p
				return 0, 0, c.errorAt(UNKNOWN_ESCAPE, 0)
			}

		case b < 0x20:
			c.pos = p
			return 0, 0, c.errorAt(ILLEGAL_CODEPOINT, int(b))

		case b < 0x80:
			buf[w] = b
			w++
			p++

		default:
			seqLen, cp, ok := utf8SeqLen(buf, p, n)
			if !ok || (cp >= 0xD800 && cp <= 0xDFFF) || cp > 0x10FFFF {
				c.pos = p
				return 0, 0, c.errorAt(INVALID_UTF8, 0)
			}
			copy(buf[w:w+seqLen], buf[p:p+seqLen])
			w += seqLen
			p += seqLen
		}
	}
}

func decodeHex4(buf []byte, p, n int, c *cursor) (int, int, *ParseError) {
	if p+4 > n {
		c.pos = n
		return 0, 0, c.errorAt(UNEXPECTED_END, 0)
	}
	cp := 0
	for i := 0; i < 4; i++ {
		d := buf[p+i]
		var v int
		switch {
		case d >= '0' && d <= '9':
			v = int(d - '0')
		case d >= 'a' && d <= 'f':
			v = int(d-'a') + 10
		case d >= 'A' && d <= 'F':
			v = int(d-'A') + 10
		default:
			c.pos = p + i
			return 0, 0, c.errorAt(INVALID_UNICODE_ESCAPE, 0)
		}
		cp = cp*16 + v
	}
	return cp, p + 4, nil
}

// encodeUTF8 writes cp's UTF-8 encoding into buf starting at w and
// returns the number of bytes written. Callers guarantee w never
// exceeds the source read position, so this never clobbers unread
// input.
func encodeUTF8(buf []byte, w int, cp int) int {
	switch {
	case cp < 0x80:
		buf[w] = byte(cp)
		return 1
	case cp < 0x800:
		buf[w] = byte(0xC0 | (cp >> 6))
		buf[w+1] = byte(0x80 | (cp & 0x3F))
		return 2
	case cp < 0x10000:
		buf[w] = byte(0xE0 | (cp >> 12))
		buf[w+1] = byte(0x80 | ((cp >> 6) & 0x3F))
		buf[w+2] = byte(0x80 | (cp & 0x3F))
		return 3
	default:
		buf[w] = byte(0xF0 | (cp >> 18))
		buf[w+1] = byte(0x80 | ((cp >> 12) & 0x3F))
		buf[w+2] = byte(0x80 | ((cp >> 6) & 0x3F))
		buf[w+3] = byte(0x80 | (cp & 0x3F))
		return 4
	}
}

// utf8SeqLen validates a multi-byte UTF-8 sequence starting at p,
// rejecting overlong encodings by requiring the minimum byte count
// for the decoded codepoint (§4.4). Surrogate-range and >U+10FFFF
// codepoints are rejected by the caller, which has the fuller error
// context.
func utf8SeqLen(buf []byte, p, n int) (int, int, bool) {
	b0 := buf[p]
	switch {
	case b0&0xE0 == 0xC0:
		if p+1 >= n {
			return 0, 0, false
		}
		b1 := buf[p+1]
		if b1&0xC0 != 0x80 {
			return 0, 0, false
		}
		cp := int(b0&0x1F)<<6 | int(b1&0x3F)
		if cp < 0x80 {
			return 0, 0, false
		}
		return 2, cp, true

	case b0&0xF0 == 0xE0:
		if p+2 >= n {
			return 0, 0, false
		}
		b1, b2 := buf[p+1], buf[p+2]
		if b1&0xC0 != 0x80 || b2&0xC0 != 0x80 {
			return 0, 0, false
		}
		cp := int(b0&0x0F)<<12 | int(b1&0x3F)<<6 | int(b2&0x3F)
		if cp < 0x800 {
			return 0, 0, false
		}
		return 3, cp, true

	case b0&0xF8 == 0xF0:
		if p+3 >= n {
			return 0, 0, false
		}
		b1, b2, b3 := buf[p+1], buf[p+2], buf[p+3]
		if b1&0xC0 != 0x80 || b2&0xC0 != 0x80 || b3&0xC0 != 0x80 {
			return 0, 0, false
		}
		cp := int(b0&0x07)<<18 | int(b1&0x3F)<<12 | int(b2&0x3F)<<6 | int(b3&0x3F)
		if cp < 0x10000 || cp > 0x10FFFF {
			return 0, 0, false
		}
		return 4, cp, true

	default:
		return 0, 0, false
	}
}
