// Package table lays out flowing multi-column blocks of cells on a PDF page.
//
// Cells are added one after another and fill rows left to right; a cell may
// span several columns. Column widths are relative weights of the table
// width. Render places the rows at the cursor and starts a new page whenever
// the next row would cross the bottom margin. WriteAt places rows at a fixed
// position without page breaks, which is what page decorations need.
//
// Cells can carry layout callbacks that receive the final page and rectangle
// of the cell once it has been placed.
package table

// RGBColor represents an RGB color value.
type RGBColor struct {
	R, G, B int
}

// FontSpec defines font properties for text rendering.
type FontSpec struct {
	Family string
	Style  string  // "", "B", "I", "BI"
	Size   float64 // in points
}

// Padding defines spacing inside a cell.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding creates a Padding with the same value on all sides.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// BorderStyle defines the appearance of cell borders.
type BorderStyle struct {
	Width float64
	Color RGBColor
}

// CellStyle defines the visual appearance of a cell. Nil and empty fields
// inherit from the table.
type CellStyle struct {
	FillColor   *RGBColor
	TextColor   *RGBColor
	BorderColor *RGBColor
	Font        *FontSpec
	Align       string // "L", "C", "R"
	VAlign      string // "T", "M", "B"
	Padding     *Padding
	// Borders lists the sides to stroke: any of "LTRB", or "1" for all.
	// "0" clears borders inherited from the table.
	Borders string
}

// TableStyle defines the overall appearance of a table.
type TableStyle struct {
	Border      *BorderStyle
	CellPadding Padding
	CellFont    *FontSpec
	// CellStyle is merged into every cell before the cell's own style.
	CellStyle *CellStyle
	// LineSpacing multiplies the font size to get the text line height.
	// Zero means DefaultLineSpacing.
	LineSpacing float64
}

// DefaultLineSpacing is the line height factor used when the table style
// leaves LineSpacing unset.
const DefaultLineSpacing = 1.5

// Borderless is a cell style with every border cleared.
var Borderless = CellStyle{Borders: "0"}
