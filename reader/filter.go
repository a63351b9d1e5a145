package reader

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Decode applies the stream's /Filter chain. Only FlateDecode is supported,
// which covers everything the generator writes.
func Decode(s Stream) ([]byte, error) {
	var filters []Name
	switch f := s.Dict["Filter"].(type) {
	case nil:
		return s.Data, nil
	case Name:
		filters = []Name{f}
	case Array:
		for _, item := range f {
			n, ok := item.(Name)
			if !ok {
				return nil, fmt.Errorf("reader: filter array contains %T", item)
			}
			filters = append(filters, n)
		}
	default:
		return nil, fmt.Errorf("reader: unexpected filter type %T", f)
	}
	data := s.Data
	for _, f := range filters {
		if f != "FlateDecode" {
			return nil, fmt.Errorf("%w: filter %s", ErrUnsupported, f)
		}
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("reader: flate: %w", err)
		}
		data, err = io.ReadAll(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("reader: flate: %w", err)
		}
	}
	return data, nil
}
