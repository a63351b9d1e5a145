// Package titlepage renders the first page of a report, either laid out
// from the report settings or imported from an existing PDF.
package titlepage

import (
	"fmt"

	"github.com/lvillar/casereport/render"
	"github.com/lvillar/casereport/settings"
	"github.com/lvillar/casereport/table"
)

// Renderer draws a title page into a document.
type Renderer interface {
	Render(w *render.Writer) error
}

// Fonts and colors of the synthesized title page.
var (
	RuleColor  = table.RGBColor{R: 51, G: 153, B: 102}
	CaseFont   = table.FontSpec{Family: "Times", Size: 16}
	TitleFont  = table.FontSpec{Family: "Helvetica", Size: 20}
	DetailFont = table.FontSpec{Family: "Helvetica", Size: 14}
)

const (
	ruleThickness    = 6
	caseNumberHeight = 20
	titleHeight      = 40
)

// Case is the synthesized title page of a case report: an empty left
// column and, on the right, the case number, report title, agency block,
// and signer block separated by green rules.
type Case struct {
	CaseNumber      string
	ReportTitle     string
	Agency          string
	AgencyInfo      string
	UnitName        string
	Signer          string // name, title and pin
	AdditionalNames string
	AdditionalInfo  string
	Date            string // long form
	Barcode         string // settings.BarcodeQR, BarcodeCode128 or BarcodePDF417; empty for none
}

// FromSettings fills a Case from case report settings.
func FromSettings(s *settings.CaseReport) Case {
	return Case{
		CaseNumber:      s.CaseNumber,
		ReportTitle:     s.ReportTitle,
		Agency:          s.Agency,
		AgencyInfo:      s.AgencyInfo,
		UnitName:        s.UnitName,
		Signer:          s.NameTitlePin(),
		AdditionalNames: s.AdditionalNamesLine(),
		AdditionalInfo:  s.AdditionalInfo,
		Date:            s.Date.Long(),
		Barcode:         s.CaseBarcode,
	}
}

// Table builds the title page table. w supplies the barcode image when one
// is requested.
func (c Case) Table(w *render.Writer) (*table.Table, error) {
	t := table.New(2)
	detail := DetailFont
	t.SetStyle(table.TableStyle{
		CellPadding: table.UniformPadding(2),
		CellFont:    &detail,
		CellStyle:   &table.CellStyle{Borders: "0"},
	})

	right := func(content table.CellContent) *table.Cell {
		t.AddEmpty()
		return t.AddCell(content)
	}
	rule := func() {
		right(table.RuleContent{Thickness: ruleThickness, Color: RuleColor}).SetVAlign("M")
	}
	text := func(s string, f table.FontSpec) *table.Cell {
		return right(table.TextContent{Text: s, Font: &f})
	}

	rule()
	text(c.CaseNumber, CaseFont).SetAlign("C").SetVAlign("M").SetFixedHeight(caseNumberHeight)
	rule()
	text(c.ReportTitle, TitleFont).SetAlign("C").SetVAlign("M").SetFixedHeight(titleHeight)
	rule()
	text(c.Agency, DetailFont)
	text(c.AgencyInfo, DetailFont)
	text(c.UnitName, DetailFont)
	rule()
	text(c.Signer, DetailFont)
	text(c.AdditionalNames, DetailFont)
	text(c.AdditionalInfo, DetailFont)
	text(c.Date, DetailFont)

	if c.Barcode != "" && c.CaseNumber != "" {
		bc, err := newBarcode(w.PDF(), c.Barcode, c.CaseNumber)
		if err != nil {
			return nil, err
		}
		right(bc.content()).SetAlign("C")
	}
	return t, nil
}

// Render starts a page and places the title table vertically centered in
// the printable area. A table taller than the page flows from the top.
func (c Case) Render(w *render.Writer) error {
	if err := w.NewPage(); err != nil {
		return fmt.Errorf("titlepage: %w", err)
	}
	t, err := c.Table(w)
	if err != nil {
		return err
	}
	t.SetTranslator(w.Translator())
	area := w.Printable()
	if h := t.Height(w.PDF()); h < area.H {
		t.SetPosition(area.X, area.Y+(area.H-h)/2)
	}
	if err := w.AddBlock(t); err != nil {
		return fmt.Errorf("titlepage: %w", err)
	}
	return nil
}
