package reader

import (
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

// Document represents a parsed PDF document.
type Document struct {
	Version   string // PDF version from file header (e.g., "1.4")
	data      []byte
	xref      map[int]xrefEntry
	trailer   Dict
	startXRef int64
	pages     []*Page
	cache     map[int]Object
}

// Open opens and parses a PDF file from disk.
func Open(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reader: opening %s: %w", filename, err)
	}
	return Parse(data)
}

// ReadFrom parses a PDF document from a reader.
func ReadFrom(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reader: reading input: %w", err)
	}
	return Parse(data)
}

// Parse builds a Document from raw PDF bytes. The document keeps a
// reference to data.
func Parse(data []byte) (*Document, error) {
	d := &Document{data: data, Version: parseVersion(data), cache: map[int]Object{}}
	start, err := findStartXRef(data)
	if err != nil {
		return nil, err
	}
	d.startXRef = start
	d.xref, d.trailer, err = readXRef(data, start)
	if err != nil {
		return nil, err
	}
	if _, ok := d.trailer["Encrypt"]; ok {
		return nil, fmt.Errorf("%w: encrypted document", ErrUnsupported)
	}
	if err := d.buildPageList(); err != nil {
		return nil, err
	}
	return d, nil
}

// parseVersion extracts the PDF version from the file header.
func parseVersion(data []byte) string {
	header := string(data[:min(20, len(data))])
	idx := strings.Index(header, "%PDF-")
	if idx < 0 {
		return ""
	}
	v := header[idx+5:]
	if end := strings.IndexAny(v, "\r\n "); end >= 0 {
		v = v[:end]
	}
	return v
}

// Data returns the raw bytes the document was parsed from.
func (d *Document) Data() []byte { return d.data }

// Trailer returns the newest trailer dictionary.
func (d *Document) Trailer() Dict { return d.trailer }

// StartXRef returns the offset of the newest cross-reference section.
func (d *Document) StartXRef() int64 { return d.startXRef }

// Size returns the trailer /Size: one more than the highest object number.
func (d *Document) Size() int {
	n, _ := d.trailer.Int("Size")
	return int(n)
}

// Catalog returns the document catalog and its reference.
func (d *Document) Catalog() (Reference, Dict, error) {
	ref, ok := d.trailer.Ref("Root")
	if !ok {
		return Reference{}, nil, fmt.Errorf("reader: missing /Root in trailer")
	}
	obj, err := d.Object(ref)
	if err != nil {
		return ref, nil, fmt.Errorf("reader: resolving root: %w", err)
	}
	cat, ok := obj.(Dict)
	if !ok {
		return ref, nil, fmt.Errorf("reader: /Root is not a dictionary")
	}
	return ref, cat, nil
}

// Object loads the indirect object ref. Free or missing objects are Null.
func (d *Document) Object(ref Reference) (Object, error) {
	if obj, ok := d.cache[ref.Number]; ok {
		return obj, nil
	}
	e, ok := d.xref[ref.Number]
	if !ok || !e.InUse {
		return Null{}, nil
	}
	if e.Offset < 0 || e.Offset >= int64(len(d.data)) {
		return nil, fmt.Errorf("reader: object %d offset %d out of bounds", ref.Number, e.Offset)
	}
	lx := newLexer(d.data[e.Offset:])
	lx.length = func(o Object) (int, bool) {
		r, ok := o.(Reference)
		if !ok || r.Number == ref.Number {
			return 0, false
		}
		v, err := d.Object(r)
		if err != nil {
			return 0, false
		}
		n, ok := v.(Integer)
		return int(n), ok
	}
	got, obj, err := lx.indirect()
	if err != nil {
		return nil, err
	}
	if got.Number != ref.Number {
		return nil, fmt.Errorf("reader: xref for object %d points at object %d", ref.Number, got.Number)
	}
	d.cache[ref.Number] = obj
	return obj, nil
}

// Resolve follows obj if it is a reference and returns it unchanged
// otherwise.
func (d *Document) Resolve(obj Object) (Object, error) {
	if ref, ok := obj.(Reference); ok {
		return d.Object(ref)
	}
	return obj, nil
}

func (d *Document) resolveDict(obj Object) (Dict, error) {
	v, err := d.Resolve(obj)
	if err != nil {
		return nil, err
	}
	dict, _ := v.(Dict)
	return dict, nil
}

// NumPages returns the total number of pages in the document.
func (d *Document) NumPages() int {
	return len(d.pages)
}

// Page returns the page at the given 1-based index.
func (d *Document) Page(n int) (*Page, error) {
	if n < 1 || n > len(d.pages) {
		return nil, fmt.Errorf("reader: page %d out of range [1, %d]", n, len(d.pages))
	}
	return d.pages[n-1], nil
}

// Pages returns an iterator over all pages. Index is 1-based.
func (d *Document) Pages() iter.Seq2[int, *Page] {
	return func(yield func(int, *Page) bool) {
		for i, page := range d.pages {
			if !yield(i+1, page) {
				return
			}
		}
	}
}

// Metadata returns the text entries of the /Info dictionary.
func (d *Document) Metadata() map[string]string {
	meta := map[string]string{}
	info, err := d.resolveDict(d.trailer["Info"])
	if err != nil || info == nil {
		return meta
	}
	for _, key := range []Name{"Title", "Author", "Subject", "Keywords", "Creator", "Producer"} {
		if s, ok := info[key].(String); ok {
			meta[string(key)] = TextString(s.Value)
		}
	}
	return meta
}
