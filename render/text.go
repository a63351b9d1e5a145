package render

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Translator returns a function converting UTF-8 text to Windows-1252, the
// encoding gofpdf uses for its core fonts. Text is first composed (NFC) so
// decomposed accents still map; runes outside the code page become '?'.
func Translator() func(string) string {
	return func(s string) string {
		s = norm.NFC.String(s)
		var b strings.Builder
		b.Grow(len(s))
		for _, r := range s {
			if r < 0x80 {
				b.WriteByte(byte(r))
				continue
			}
			if c, ok := charmap.Windows1252.EncodeRune(r); ok {
				b.WriteByte(c)
				continue
			}
			b.WriteByte('?')
		}
		return b.String()
	}
}

var coreFamilies = map[string]string{
	"helvetica":       "Helvetica",
	"arial":           "Helvetica",
	"calibri":         "Helvetica",
	"times":           "Times",
	"times new roman": "Times",
	"cambria":         "Times",
	"courier":         "Courier",
	"courier new":     "Courier",
	"symbol":          "Symbol",
	"zapfdingbats":    "ZapfDingbats",
}

// CoreFont maps a font face name to one of the standard PDF font families.
// The second result is false when face is unknown and Helvetica was
// substituted.
func CoreFont(face string) (string, bool) {
	if f, ok := coreFamilies[strings.ToLower(strings.TrimSpace(face))]; ok {
		return f, true
	}
	return "Helvetica", false
}
