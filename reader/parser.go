package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var errUnterminated = errors.New("reader: unterminated object")

// lexer reads PDF objects and operators from a byte slice.
type lexer struct {
	buf []byte
	off int
	// length resolves an indirect stream /Length.
	length func(Object) (int, bool)
}

func newLexer(buf []byte) *lexer {
	return &lexer{buf: buf}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isDelim(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// skip advances past whitespace and comments.
func (lx *lexer) skip() {
	for lx.off < len(lx.buf) {
		switch b := lx.buf[lx.off]; {
		case isSpace(b):
			lx.off++
		case b == '%':
			for lx.off < len(lx.buf) && lx.buf[lx.off] != '\n' && lx.buf[lx.off] != '\r' {
				lx.off++
			}
		default:
			return
		}
	}
}

// word reads a run of regular characters.
func (lx *lexer) word() string {
	lx.skip()
	start := lx.off
	for lx.off < len(lx.buf) && !isSpace(lx.buf[lx.off]) && !isDelim(lx.buf[lx.off]) {
		lx.off++
	}
	return string(lx.buf[start:lx.off])
}

func (lx *lexer) hasPrefix(s string) bool {
	return bytes.HasPrefix(lx.buf[lx.off:], []byte(s))
}

// object reads the next object. Keywords other than true, false and null
// are an error.
func (lx *lexer) object() (Object, error) {
	obj, op, err := lx.token()
	if err != nil {
		return nil, err
	}
	if op != "" {
		return nil, fmt.Errorf("reader: unexpected keyword %q at offset %d", op, lx.off)
	}
	return obj, nil
}

// token reads either an object or an operator keyword.
func (lx *lexer) token() (Object, string, error) {
	lx.skip()
	if lx.off >= len(lx.buf) {
		return nil, "", io.ErrUnexpectedEOF
	}
	switch b := lx.buf[lx.off]; {
	case lx.hasPrefix("<<"):
		d, err := lx.dict()
		return d, "", err
	case b == '<':
		s, err := lx.hexString()
		return s, "", err
	case b == '(':
		s, err := lx.literal()
		return s, "", err
	case b == '/':
		return lx.name(), "", nil
	case b == '[':
		a, err := lx.array()
		return a, "", err
	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		n, err := lx.number()
		return n, "", err
	case b == ']' || b == '>' || b == ')' || b == '{' || b == '}':
		return nil, "", fmt.Errorf("reader: unexpected %q at offset %d", b, lx.off)
	}
	switch w := lx.word(); w {
	case "true":
		return Boolean(true), "", nil
	case "false":
		return Boolean(false), "", nil
	case "null":
		return Null{}, "", nil
	case "":
		return nil, "", fmt.Errorf("reader: unexpected %q at offset %d", lx.buf[lx.off], lx.off)
	default:
		return nil, w, nil
	}
}

func (lx *lexer) name() Name {
	lx.off++ // '/'
	var out []byte
	for lx.off < len(lx.buf) {
		b := lx.buf[lx.off]
		if isSpace(b) || isDelim(b) {
			break
		}
		if b == '#' && lx.off+2 < len(lx.buf) {
			if v, err := strconv.ParseUint(string(lx.buf[lx.off+1:lx.off+3]), 16, 8); err == nil {
				out = append(out, byte(v))
				lx.off += 3
				continue
			}
		}
		out = append(out, b)
		lx.off++
	}
	return Name(out)
}

// number reads an integer, a real or an "N G R" reference.
func (lx *lexer) number() (Object, error) {
	start := lx.off
	w := lx.word()
	i, err := strconv.ParseInt(w, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(w, 64)
		if ferr != nil {
			return nil, fmt.Errorf("reader: invalid number %q at offset %d", w, start)
		}
		return Real(f), nil
	}
	if i < 0 {
		return Integer(i), nil
	}
	save := lx.off
	if gen, ok := lx.unsigned(); ok {
		lx.skip()
		if lx.off < len(lx.buf) && lx.buf[lx.off] == 'R' &&
			(lx.off+1 == len(lx.buf) || isSpace(lx.buf[lx.off+1]) || isDelim(lx.buf[lx.off+1])) {
			lx.off++
			return Reference{Number: int(i), Generation: gen}, nil
		}
	}
	lx.off = save
	return Integer(i), nil
}

func (lx *lexer) unsigned() (int, bool) {
	lx.skip()
	start := lx.off
	for lx.off < len(lx.buf) && lx.buf[lx.off] >= '0' && lx.buf[lx.off] <= '9' {
		lx.off++
	}
	if lx.off == start || (lx.off < len(lx.buf) && !isSpace(lx.buf[lx.off]) && !isDelim(lx.buf[lx.off])) {
		return 0, false
	}
	n, err := strconv.Atoi(string(lx.buf[start:lx.off]))
	return n, err == nil
}

func (lx *lexer) literal() (String, error) {
	lx.off++ // '('
	var out []byte
	depth := 1
	for lx.off < len(lx.buf) {
		b := lx.buf[lx.off]
		lx.off++
		switch b {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return String{Value: out}, nil
			}
		case '\\':
			if lx.off >= len(lx.buf) {
				return String{}, errUnterminated
			}
			e := lx.buf[lx.off]
			lx.off++
			switch e {
			case 'n':
				b = '\n'
			case 'r':
				b = '\r'
			case 't':
				b = '\t'
			case 'b':
				b = '\b'
			case 'f':
				b = '\f'
			case '\r':
				if lx.off < len(lx.buf) && lx.buf[lx.off] == '\n' {
					lx.off++
				}
				continue
			case '\n':
				continue
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for k := 0; k < 2 && lx.off < len(lx.buf) && lx.buf[lx.off] >= '0' && lx.buf[lx.off] <= '7'; k++ {
						v = v*8 + int(lx.buf[lx.off]-'0')
						lx.off++
					}
					b = byte(v)
				} else {
					b = e
				}
			}
		}
		out = append(out, b)
	}
	return String{}, errUnterminated
}

func (lx *lexer) hexString() (String, error) {
	lx.off++ // '<'
	var digits []byte
	for lx.off < len(lx.buf) {
		b := lx.buf[lx.off]
		lx.off++
		if b == '>' {
			if len(digits)%2 == 1 {
				digits = append(digits, '0')
			}
			out := make([]byte, len(digits)/2)
			for i := range out {
				v, err := strconv.ParseUint(string(digits[2*i:2*i+2]), 16, 8)
				if err != nil {
					return String{}, fmt.Errorf("reader: invalid hex string: %w", err)
				}
				out[i] = byte(v)
			}
			return String{Value: out, Hex: true}, nil
		}
		if !isSpace(b) {
			digits = append(digits, b)
		}
	}
	return String{}, errUnterminated
}

func (lx *lexer) array() (Array, error) {
	lx.off++ // '['
	arr := Array{}
	for {
		lx.skip()
		if lx.off >= len(lx.buf) {
			return nil, errUnterminated
		}
		if lx.buf[lx.off] == ']' {
			lx.off++
			return arr, nil
		}
		obj, err := lx.object()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (lx *lexer) dict() (Dict, error) {
	lx.off += 2 // '<<'
	d := Dict{}
	for {
		lx.skip()
		if lx.off >= len(lx.buf) {
			return nil, errUnterminated
		}
		if lx.hasPrefix(">>") {
			lx.off += 2
			return d, nil
		}
		if lx.buf[lx.off] != '/' {
			return nil, fmt.Errorf("reader: dictionary key must be a name at offset %d", lx.off)
		}
		key := lx.name()
		val, err := lx.object()
		if err != nil {
			return nil, fmt.Errorf("reader: value of /%s: %w", key, err)
		}
		d[key] = val
	}
}

// indirect reads "N G obj ... endobj", including stream data.
func (lx *lexer) indirect() (Reference, Object, error) {
	var ref Reference
	num, ok := lx.unsigned()
	if !ok {
		return ref, nil, fmt.Errorf("reader: expected object number at offset %d", lx.off)
	}
	gen, ok := lx.unsigned()
	if !ok {
		return ref, nil, fmt.Errorf("reader: expected generation number at offset %d", lx.off)
	}
	ref = Reference{Number: num, Generation: gen}
	if w := lx.word(); w != "obj" {
		return ref, nil, fmt.Errorf("reader: expected obj after %v, got %q", ref, w)
	}
	val, err := lx.object()
	if err != nil {
		return ref, nil, fmt.Errorf("reader: object %d %d: %w", num, gen, err)
	}
	lx.skip()
	if !lx.hasPrefix("stream") {
		return ref, val, nil
	}
	d, ok := val.(Dict)
	if !ok {
		return ref, nil, fmt.Errorf("reader: stream %d %d has no dictionary", num, gen)
	}
	lx.off += len("stream")
	if lx.hasPrefix("\r\n") {
		lx.off += 2
	} else if lx.off < len(lx.buf) && (lx.buf[lx.off] == '\n' || lx.buf[lx.off] == '\r') {
		lx.off++
	}
	n, ok := d.Int("Length")
	if !ok && lx.length != nil {
		var ln int
		ln, ok = lx.length(d["Length"])
		n = int64(ln)
	}
	if !ok || n < 0 || lx.off+int(n) > len(lx.buf) {
		return ref, nil, fmt.Errorf("reader: stream %d %d has an invalid length", num, gen)
	}
	data := lx.buf[lx.off : lx.off+int(n)]
	lx.off += int(n)
	return ref, Stream{Dict: d, Data: data}, nil
}
