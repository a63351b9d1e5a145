package reader

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnsupported is returned for documents that use cross-reference streams.
var ErrUnsupported = errors.New("reader: unsupported document structure")

type xrefEntry struct {
	Offset     int64
	Generation int
	InUse      bool
}

// findStartXRef returns the offset recorded after the last "startxref".
func findStartXRef(data []byte) (int64, error) {
	from := max(0, len(data)-1024)
	idx := bytes.LastIndex(data[from:], []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("reader: startxref not found")
	}
	lx := newLexer(data[from+idx+len("startxref"):])
	w := lx.word()
	off, err := strconv.ParseInt(w, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("reader: invalid startxref offset %q: %w", w, err)
	}
	return off, nil
}

// readXRef reads the cross-reference section at offset and every earlier
// section reachable through /Prev. Entries of newer sections shadow older
// ones. The returned trailer is the newest one.
func readXRef(data []byte, offset int64) (map[int]xrefEntry, Dict, error) {
	table := map[int]xrefEntry{}
	var newest Dict
	seen := map[int64]bool{}
	for {
		if seen[offset] {
			return nil, nil, fmt.Errorf("reader: cross-reference loop at offset %d", offset)
		}
		seen[offset] = true
		trailer, err := readXRefSection(data, offset, table)
		if err != nil {
			return nil, nil, err
		}
		if newest == nil {
			newest = trailer
		}
		prev, ok := trailer.Int("Prev")
		if !ok {
			return table, newest, nil
		}
		offset = prev
	}
}

// readXRefSection adds the entries of one section to table unless an entry
// for the object is already present.
func readXRefSection(data []byte, offset int64, table map[int]xrefEntry) (Dict, error) {
	if offset < 0 || offset >= int64(len(data)) {
		return nil, fmt.Errorf("reader: xref offset %d out of bounds", offset)
	}
	lx := newLexer(data[offset:])
	if w := lx.word(); w != "xref" {
		return nil, fmt.Errorf("%w: no xref table at offset %d", ErrUnsupported, offset)
	}
	for {
		save := lx.off
		if w := lx.word(); w == "trailer" {
			break
		}
		lx.off = save
		first, ok1 := lx.unsigned()
		count, ok2 := lx.unsigned()
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("reader: malformed xref subsection at offset %d", offset+int64(lx.off))
		}
		for i := 0; i < count; i++ {
			off, err := strconv.ParseInt(lx.word(), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("reader: xref entry offset: %w", err)
			}
			gen, err := strconv.Atoi(lx.word())
			if err != nil {
				return nil, fmt.Errorf("reader: xref entry generation: %w", err)
			}
			kind := lx.word()
			if _, ok := table[first+i]; !ok {
				table[first+i] = xrefEntry{Offset: off, Generation: gen, InUse: kind == "n"}
			}
		}
	}
	obj, err := lx.object()
	if err != nil {
		return nil, fmt.Errorf("reader: trailer: %w", err)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("reader: trailer is not a dictionary")
	}
	return trailer, nil
}
