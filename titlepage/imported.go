package titlepage

import (
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf/contrib/gofpdi"

	"github.com/lvillar/casereport/render"
)

// Imported places page 1 of an existing PDF, scaled to the page size, as
// the title page.
type Imported struct {
	Path string
}

// Render imports the page. Failures inside the importer, which panics on
// malformed input, are returned as errors.
func (im Imported) Render(w *render.Writer) (err error) {
	if _, err := os.Stat(im.Path); err != nil {
		return fmt.Errorf("titlepage: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("titlepage: importing %s: %v", im.Path, r)
		}
	}()

	pdf := w.PDF()
	imp := gofpdi.NewImporter()
	tpl := imp.ImportPage(pdf, im.Path, 1, "/MediaBox")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("titlepage: importing %s: %w", im.Path, err)
	}
	if err := w.NewPage(); err != nil {
		return fmt.Errorf("titlepage: %w", err)
	}
	size := w.Size()
	imp.UseImportedTemplate(pdf, tpl, 0, 0, size.W, size.H)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("titlepage: placing %s: %w", im.Path, err)
	}
	w.MarkContent()
	return nil
}
