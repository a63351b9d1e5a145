package reader

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// TextString decodes a PDF text string: UTF-16BE when it starts with a byte
// order mark, Latin-1 otherwise.
func TextString(b []byte) string {
	if bytes.HasPrefix(b, []byte{0xFE, 0xFF}) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if s, err := dec.Bytes(b); err == nil {
			return string(s)
		}
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// ExtractText returns the text shown on the page. Strings shown with the
// Tj, TJ, ' and " operators are decoded as Windows-1252, the encoding of the
// standard fonts; text blocks and line moves are separated by spaces.
func (p *Page) ExtractText() (string, error) {
	data, err := p.ContentStream()
	if err != nil {
		return "", err
	}
	return extractText(data)
}

// TextLines returns the page text split at each text block and line move,
// with empty pieces dropped.
func (p *Page) TextLines() ([]string, error) {
	data, err := p.ContentStream()
	if err != nil {
		return nil, err
	}
	var lines []string
	err = walkText(data, func(s string, brk bool) {
		if brk || len(lines) == 0 {
			lines = append(lines, "")
		}
		lines[len(lines)-1] += s
	})
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out, err
}

func extractText(data []byte) (string, error) {
	var b strings.Builder
	err := walkText(data, func(s string, brk bool) {
		if brk && b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	})
	return strings.Join(strings.Fields(b.String()), " "), err
}

// walkText calls fn for every shown string; brk is true when the string
// starts a new text block or line.
func walkText(data []byte, fn func(s string, brk bool)) error {
	dec := charmap.Windows1252.NewDecoder()
	show := func(b []byte, brk bool) {
		s, err := dec.Bytes(b)
		if err != nil {
			s = b
		}
		fn(string(s), brk)
	}
	lx := newLexer(data)
	var operands []Object
	inText, brk := false, false
	for {
		obj, op, err := lx.token()
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if op == "" {
			operands = append(operands, obj)
			continue
		}
		switch op {
		case "BT":
			inText, brk = true, true
		case "ET":
			inText = false
		case "Td", "TD", "T*", "Tm":
			brk = true
		case "Tj", "'", "\"":
			if inText && len(operands) > 0 {
				if s, ok := operands[len(operands)-1].(String); ok {
					show(s.Value, brk || op != "Tj")
					brk = false
				}
			}
		case "TJ":
			if inText && len(operands) > 0 {
				if arr, ok := operands[len(operands)-1].(Array); ok {
					for _, item := range arr {
						if s, ok := item.(String); ok {
							show(s.Value, brk)
							brk = false
						}
					}
				}
			}
		case "BI":
			// Inline image data is not tokenizable; skip to EI.
			if i := bytes.Index(lx.buf[lx.off:], []byte("EI")); i >= 0 {
				lx.off += i + 2
			} else {
				return nil
			}
		}
		operands = operands[:0]
	}
}
