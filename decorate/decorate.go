// Package decorate draws the per-page decorations of a report: the case
// report footer band and the workflow summary header and footer bands.
//
// Decorators run from the document's page callback, once per finished page.
package decorate

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/lvillar/casereport/render"
	"github.com/lvillar/casereport/table"
)

// Decorator draws on every finished page.
type Decorator interface {
	Decorate(p render.Page)
}

// Func adapts a function to Decorator.
type Func func(p render.Page)

// Decorate calls f(p).
func (f Func) Decorate(p render.Page) { f(p) }

// Register installs d as a page callback of w. A nil d is ignored.
func Register(w *render.Writer, d Decorator) {
	if d == nil {
		return
	}
	w.RegisterPageCallback(d.Decorate)
}

// DefaultFooterFont is the footer band font.
var DefaultFooterFont = table.FontSpec{Family: "Helvetica", Size: 8}

const footerPadding = 2

// Footer is a full-width band across the bottom margin with three equal
// cells: the footer text, the page number and an optional image.
type Footer struct {
	FirstPageText string // shown on page 1 instead of Text
	Text          string
	ImagePath     string
	Font          *table.FontSpec
}

// Decorate draws the footer band.
func (f Footer) Decorate(p render.Page) {
	h := p.Margins.Bottom
	if h <= 0 {
		return
	}
	font := DefaultFooterFont
	if f.Font != nil {
		font = *f.Font
	}
	t := table.New(3).SetWidth(p.Size.W)
	t.SetStyle(table.TableStyle{
		CellPadding: table.UniformPadding(footerPadding),
		CellFont:    &font,
		CellStyle:   &table.CellStyle{Borders: "0", Align: "C", VAlign: "M"},
	})
	t.SetTranslator(p.Writer.Translator())

	text := f.Text
	if p.Number == 1 {
		text = f.FirstPageText
	}
	t.AddText(text).SetFixedHeight(h)
	t.AddTextf("Page %d", p.Number).SetFixedHeight(h)
	if f.ImagePath != "" {
		img, err := p.Writer.Image(f.ImagePath)
		if err != nil {
			p.Writer.Fail(fmt.Errorf("decorate: footer image: %w", err))
			return
		}
		img.MaxHeight = h - 2*footerPadding
		t.AddCell(img).SetFixedHeight(h)
	} else {
		t.AddEmpty().SetFixedHeight(h)
	}
	p.Writer.Fail(t.WriteAt(p.PDF, 0, p.Size.H-h))
}

// HeaderColor is the band color of the workflow summary.
var HeaderColor = table.RGBColor{R: 65, G: 177, B: 225}

// HeaderFooter fills the top and bottom margins with a solid band and puts
// an optional logo at the left margin of the top band, vertically centered.
type HeaderFooter struct {
	Color    *table.RGBColor
	LogoPath string
}

// Decorate draws both bands.
func (d HeaderFooter) Decorate(p render.Page) {
	c := HeaderColor
	if d.Color != nil {
		c = *d.Color
	}
	pdf := p.PDF
	pdf.SetFillColor(c.R, c.G, c.B)
	if p.Margins.Top > 0 {
		pdf.Rect(0, 0, p.Size.W, p.Margins.Top, "F")
	}
	if p.Margins.Bottom > 0 {
		pdf.Rect(0, p.Size.H-p.Margins.Bottom, p.Size.W, p.Margins.Bottom, "F")
	}
	pdf.SetFillColor(255, 255, 255)

	if d.LogoPath == "" || p.Margins.Top <= 0 {
		return
	}
	img, err := p.Writer.Image(d.LogoPath)
	if err != nil {
		p.Writer.Fail(fmt.Errorf("decorate: header logo: %w", err))
		return
	}
	w, h := logoSize(img, p.Margins.Top)
	if w == 0 {
		return
	}
	pdf.ImageOptions(img.Name, p.Margins.Left, (p.Margins.Top-h)/2, w, h, false, gofpdf.ImageOptions{ImageType: img.Type}, 0, "")
	p.Writer.Fail(pdf.Error())
}

// logoSize returns the logo size in points: one point per pixel, shrunk to
// fit the band height.
func logoSize(img table.ImageContent, band float64) (float64, float64) {
	if img.Width <= 0 || img.Height <= 0 {
		return 0, 0
	}
	w, h := float64(img.Width), float64(img.Height)
	if h > band {
		w, h = w*band/h, band
	}
	return w, h
}
