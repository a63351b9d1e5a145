// Package reader parses the PDF files the report generator produces.
//
// It reads documents with classic cross-reference tables, including the
// incremental updates appended to them, and exposes the object graph, the
// page list, link annotations, embedded files and page text. Cross-reference
// streams and encrypted documents are not supported.
package reader

import (
	"fmt"
	"strconv"
)

// Object is the interface satisfied by all PDF object types.
type Object interface {
	pdfObject()
}

// Null represents the PDF null object.
type Null struct{}

// Boolean represents a PDF boolean value.
type Boolean bool

// Integer represents a PDF integer value.
type Integer int64

// Real represents a PDF real number.
type Real float64

// Name represents a PDF name object without the leading slash.
type Name string

// String represents a PDF string; Hex records the source notation.
type String struct {
	Value []byte
	Hex   bool
}

// Array represents a PDF array of objects.
type Array []Object

// Dict represents a PDF dictionary.
type Dict map[Name]Object

// Stream represents a PDF stream: its dictionary and raw (encoded) data.
type Stream struct {
	Dict Dict
	Data []byte
}

// Reference represents an indirect object reference such as "10 0 R".
type Reference struct {
	Number     int
	Generation int
}

func (Null) pdfObject()      {}
func (Boolean) pdfObject()   {}
func (Integer) pdfObject()   {}
func (Real) pdfObject()      {}
func (Name) pdfObject()      {}
func (String) pdfObject()    {}
func (Array) pdfObject()     {}
func (Dict) pdfObject()      {}
func (Stream) pdfObject()    {}
func (Reference) pdfObject() {}

func (r Reference) String() string {
	return strconv.Itoa(r.Number) + " " + strconv.Itoa(r.Generation) + " R"
}

// Name returns the name stored under key, or "".
func (d Dict) Name(key Name) Name {
	n, _ := d[key].(Name)
	return n
}

// Int returns the number stored under key truncated to an integer.
func (d Dict) Int(key Name) (int64, bool) {
	switch n := d[key].(type) {
	case Integer:
		return int64(n), true
	case Real:
		return int64(n), true
	}
	return 0, false
}

// Dict returns the direct sub-dictionary stored under key, or nil.
func (d Dict) Dict(key Name) Dict {
	sub, _ := d[key].(Dict)
	return sub
}

// Array returns the direct array stored under key, or nil.
func (d Dict) Array(key Name) Array {
	a, _ := d[key].(Array)
	return a
}

// Ref returns the reference stored under key.
func (d Dict) Ref(key Name) (Reference, bool) {
	r, ok := d[key].(Reference)
	return r, ok
}

// Clone returns a shallow copy of d.
func (d Dict) Clone() Dict {
	out := make(Dict, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Number converts an Integer or Real to float64.
func Number(obj Object) (float64, error) {
	switch n := obj.(type) {
	case Integer:
		return float64(n), nil
	case Real:
		return float64(n), nil
	}
	return 0, fmt.Errorf("reader: %T is not a number", obj)
}

// Rectangle represents a PDF rectangle [llx lly urx ury].
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Width returns the width of the rectangle.
func (r Rectangle) Width() float64 { return r.URX - r.LLX }

// Height returns the height of the rectangle.
func (r Rectangle) Height() float64 { return r.URY - r.LLY }

func parseRectangle(obj Object) (Rectangle, error) {
	arr, ok := obj.(Array)
	if !ok || len(arr) != 4 {
		return Rectangle{}, fmt.Errorf("reader: rectangle must be a 4-element array")
	}
	var v [4]float64
	for i, item := range arr {
		n, err := Number(item)
		if err != nil {
			return Rectangle{}, fmt.Errorf("reader: rectangle element %d: %w", i, err)
		}
		v[i] = n
	}
	return Rectangle{LLX: v[0], LLY: v[1], URX: v[2], URY: v[3]}, nil
}
