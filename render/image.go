package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/lvillar/casereport/table"
)

// Image loads the image at path, registers it with the document and returns
// the cell content that draws it. Repeated paths are registered once.
func (w *Writer) Image(path string) (table.ImageContent, error) {
	if w.closed {
		return table.ImageContent{}, ErrClosed
	}
	if c, ok := w.images[path]; ok {
		return c, nil
	}
	img, err := w.loader.Load(path)
	if err != nil {
		return table.ImageContent{}, fmt.Errorf("render: %w", err)
	}
	name := fmt.Sprintf("img%d:%s", len(w.images)+1, path)
	w.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: img.Type}, bytes.NewReader(img.Data))
	if err := w.pdf.Error(); err != nil {
		return table.ImageContent{}, fmt.Errorf("render: registering %s: %w", path, err)
	}
	c := table.ImageContent{Name: name, Type: img.Type, Width: img.Width, Height: img.Height}
	w.images[path] = c
	return c, nil
}
