package reader

import (
	"fmt"
)

// Page represents a single page in a PDF document.
type Page struct {
	Number   int
	Ref      Reference // indirect object holding the page dictionary
	MediaBox Rectangle
	Dict     Dict // page dictionary as stored in the file
	doc      *Document
}

// Annotation is a page annotation. For link annotations with a JavaScript
// action, JavaScript holds the script.
type Annotation struct {
	Subtype    Name
	Rect       Rectangle
	Border     []float64
	Highlight  Name
	Action     Name // action /S, e.g. "JavaScript" or "URI"
	JavaScript string
	URI        string
}

// ContentStream returns the decoded content of the page. Multiple content
// streams are joined with newlines.
func (p *Page) ContentStream() ([]byte, error) {
	obj, err := p.doc.Resolve(p.Dict["Contents"])
	if err != nil {
		return nil, fmt.Errorf("reader: page %d contents: %w", p.Number, err)
	}
	var streams []Stream
	switch c := obj.(type) {
	case Stream:
		streams = []Stream{c}
	case Array:
		for _, item := range c {
			s, err := p.doc.Resolve(item)
			if err != nil {
				return nil, fmt.Errorf("reader: page %d contents: %w", p.Number, err)
			}
			if s, ok := s.(Stream); ok {
				streams = append(streams, s)
			}
		}
	}
	var out []byte
	for _, s := range streams {
		decoded, err := Decode(s)
		if err != nil {
			return nil, fmt.Errorf("reader: decoding page %d content: %w", p.Number, err)
		}
		out = append(out, decoded...)
		out = append(out, '\n')
	}
	return out, nil
}

// Annotations returns the annotations listed in the page's /Annots array.
func (p *Page) Annotations() ([]Annotation, error) {
	obj, err := p.doc.Resolve(p.Dict["Annots"])
	if err != nil {
		return nil, fmt.Errorf("reader: page %d annotations: %w", p.Number, err)
	}
	arr, _ := obj.(Array)
	out := make([]Annotation, 0, len(arr))
	for _, item := range arr {
		d, err := p.doc.resolveDict(item)
		if err != nil {
			return nil, fmt.Errorf("reader: page %d annotation: %w", p.Number, err)
		}
		if d == nil {
			continue
		}
		a := Annotation{Subtype: d.Name("Subtype"), Highlight: d.Name("H")}
		if r, err := p.doc.Resolve(d["Rect"]); err == nil {
			a.Rect, _ = parseRectangle(r)
		}
		for _, v := range d.Array("Border") {
			if n, err := Number(v); err == nil {
				a.Border = append(a.Border, n)
			}
		}
		action, err := p.doc.resolveDict(d["A"])
		if err != nil {
			return nil, err
		}
		if action != nil {
			a.Action = action.Name("S")
			a.JavaScript, err = p.doc.scriptText(action["JS"])
			if err != nil {
				return nil, err
			}
			if s, ok := action["URI"].(String); ok {
				a.URI = string(s.Value)
			}
		}
		out = append(out, a)
	}
	return out, nil
}

// scriptText reads a /JS entry, which is either a text string or a stream.
func (d *Document) scriptText(obj Object) (string, error) {
	v, err := d.Resolve(obj)
	if err != nil {
		return "", err
	}
	switch js := v.(type) {
	case String:
		return TextString(js.Value), nil
	case Stream:
		data, err := Decode(js)
		if err != nil {
			return "", err
		}
		return TextString(data), nil
	}
	return "", nil
}

// buildPageList walks the page tree in document order.
func (d *Document) buildPageList() error {
	_, catalog, err := d.Catalog()
	if err != nil {
		return err
	}
	root, ok := catalog.Ref("Pages")
	if !ok {
		return fmt.Errorf("reader: /Pages is not a reference")
	}
	d.pages = nil
	return d.walkPages(root, nil, map[int]bool{})
}

func (d *Document) walkPages(ref Reference, inheritedBox Object, seen map[int]bool) error {
	if seen[ref.Number] {
		return fmt.Errorf("reader: page tree loop at object %d", ref.Number)
	}
	seen[ref.Number] = true
	node, err := d.resolveDict(ref)
	if err != nil {
		return fmt.Errorf("reader: page tree node %v: %w", ref, err)
	}
	if node == nil {
		return fmt.Errorf("reader: page tree node %v is not a dictionary", ref)
	}
	box := inheritedBox
	if mb, ok := node["MediaBox"]; ok {
		box = mb
	}
	if node.Name("Type") == "Page" {
		page := &Page{Number: len(d.pages) + 1, Ref: ref, Dict: node, doc: d}
		if box != nil {
			if r, err := d.Resolve(box); err == nil {
				page.MediaBox, _ = parseRectangle(r)
			}
		}
		d.pages = append(d.pages, page)
		return nil
	}
	kids, err := d.Resolve(node["Kids"])
	if err != nil {
		return fmt.Errorf("reader: resolving /Kids: %w", err)
	}
	arr, _ := kids.(Array)
	for _, kid := range arr {
		kref, ok := kid.(Reference)
		if !ok {
			continue
		}
		if err := d.walkPages(kref, box, seen); err != nil {
			return err
		}
	}
	return nil
}
