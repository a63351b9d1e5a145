package titlepage

import (
	"fmt"
	"math"

	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/barcode"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/settings"
	"github.com/lvillar/casereport/table"
)

// Barcode sizes in points.
const (
	squareSide   = 72
	linearWidth  = 216
	linearHeight = 40
	pdf417Height = 60
)

type caseBarcode struct {
	pdf    *gofpdf.Fpdf
	key    string
	square bool
	height float64
}

// newBarcode registers a barcode of code with pdf.
func newBarcode(pdf *gofpdf.Fpdf, kind, code string) (*caseBarcode, error) {
	bc := &caseBarcode{pdf: pdf}
	switch kind {
	case settings.BarcodeQR:
		bc.key = barcode.RegisterQR(pdf, code, qr.M, qr.Auto)
		bc.square, bc.height = true, squareSide
	case settings.BarcodeCode128:
		bc.key = barcode.RegisterCode128(pdf, code)
		bc.height = linearHeight
	case settings.BarcodePDF417:
		bc.key = barcode.RegisterPdf417(pdf, code, 4, 2)
		bc.height = pdf417Height
	default:
		return nil, fmt.Errorf("titlepage: unknown barcode %q", kind)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("titlepage: %s barcode: %w", kind, err)
	}
	return bc, nil
}

func (bc *caseBarcode) content() table.DrawContent {
	return table.DrawContent{Height: bc.height, Draw: bc.draw}
}

// draw centers the barcode in r.
func (bc *caseBarcode) draw(r casereport.Rect) {
	w := math.Min(r.W, linearWidth)
	h := r.H
	if bc.square {
		w = math.Min(r.W, r.H)
		h = w
	}
	barcode.Barcode(bc.pdf, bc.key, r.X+(r.W-w)/2, r.Y+(r.H-h)/2, w, h, false)
}
