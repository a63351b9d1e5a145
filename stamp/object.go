package stamp

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/text/encoding/unicode"

	"github.com/lvillar/casereport/reader"
)

// writeObject serializes obj in PDF syntax. Dictionary keys are written in
// sorted order so output is deterministic.
func writeObject(b *bytes.Buffer, obj reader.Object) error {
	switch v := obj.(type) {
	case nil, reader.Null:
		b.WriteString("null")
	case reader.Boolean:
		b.WriteString(strconv.FormatBool(bool(v)))
	case reader.Integer:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case reader.Real:
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 64))
	case reader.Name:
		writeName(b, v)
	case reader.String:
		writeString(b, v)
	case reader.Reference:
		fmt.Fprintf(b, "%d %d R", v.Number, v.Generation)
	case reader.Array:
		b.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				b.WriteByte(' ')
			}
			if err := writeObject(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case reader.Dict:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, string(k))
		}
		sort.Strings(keys)
		b.WriteString("<<")
		for _, k := range keys {
			b.WriteByte(' ')
			writeName(b, reader.Name(k))
			b.WriteByte(' ')
			if err := writeObject(b, v[reader.Name(k)]); err != nil {
				return err
			}
		}
		b.WriteString(" >>")
	case reader.Stream:
		d := v.Dict.Clone()
		d["Length"] = reader.Integer(len(v.Data))
		if err := writeObject(b, d); err != nil {
			return err
		}
		b.WriteString("\nstream\n")
		b.Write(v.Data)
		b.WriteString("\nendstream")
	default:
		return fmt.Errorf("stamp: cannot serialize %T", obj)
	}
	return nil
}

func writeName(b *bytes.Buffer, n reader.Name) {
	b.WriteByte('/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		if c < '!' || c > '~' || c == '#' || bytes.IndexByte([]byte("()<>[]{}/%"), c) >= 0 {
			fmt.Fprintf(b, "#%02X", c)
			continue
		}
		b.WriteByte(c)
	}
}

func writeString(b *bytes.Buffer, s reader.String) {
	if s.Hex {
		fmt.Fprintf(b, "<%X>", s.Value)
		return
	}
	b.WriteByte('(')
	for _, c := range s.Value {
		switch c {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(')')
}

// TextString encodes s as a PDF text string: literal bytes for printable
// ASCII, UTF-16BE with a byte order mark otherwise.
func TextString(s string) reader.String {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			ascii = false
			break
		}
	}
	if ascii {
		return reader.String{Value: []byte(s)}
	}
	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		return reader.String{Value: []byte(s)}
	}
	return reader.String{Value: out}
}
