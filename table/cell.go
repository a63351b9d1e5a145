package table

import (
	"github.com/lvillar/casereport"
)

// CellContent represents the content of a table cell.
type CellContent interface {
	cellContent()
}

// TextContent is wrapped text. A nil Font uses the cell font.
type TextContent struct {
	Text string
	Font *FontSpec
}

func (TextContent) cellContent() {}

// ImageContent is an image previously registered with the document under
// Name. The image is scaled to the cell width keeping its aspect ratio and
// shrunk further when it would be taller than MaxHeight or the printable page
// height.
type ImageContent struct {
	Name      string
	Type      string // registered image type, e.g. "PNG"
	Width     int    // intrinsic size in pixels
	Height    int
	MaxHeight float64 // points; zero means the printable page height
}

func (ImageContent) cellContent() {}

// RuleContent is a solid horizontal bar across the content width.
type RuleContent struct {
	Thickness float64
	Color     RGBColor
}

func (RuleContent) cellContent() {}

// DrawContent reserves Height points and calls Draw with the rectangle it
// was given once placed.
type DrawContent struct {
	Height float64
	Draw   func(r casereport.Rect)
}

func (DrawContent) cellContent() {}

// StackContent places its parts one below the other.
type StackContent []CellContent

func (StackContent) cellContent() {}

// EmptyContent occupies space without drawing anything.
type EmptyContent struct{}

func (EmptyContent) cellContent() {}

// LayoutFunc receives the placed geometry of a cell.
type LayoutFunc func(g casereport.Geometry)

// Cell represents a single cell in a table.
type Cell struct {
	content  CellContent
	colspan  int
	style    *CellStyle
	fixedH   float64
	minH     float64
	onLayout []LayoutFunc
}

// SetColspan sets the number of columns this cell spans.
func (c *Cell) SetColspan(n int) *Cell {
	if n > 0 {
		c.colspan = n
	}
	return c
}

// Colspan returns the number of columns the cell spans.
func (c *Cell) Colspan() int { return c.colspan }

// Content returns the cell content.
func (c *Cell) Content() CellContent { return c.content }

// SetStyle sets the style for this cell, overriding table defaults.
func (c *Cell) SetStyle(s CellStyle) *Cell {
	c.style = &s
	return c
}

func (c *Cell) ensureStyle() *CellStyle {
	if c.style == nil {
		c.style = &CellStyle{}
	}
	return c.style
}

// SetAlign sets the horizontal alignment for this cell.
func (c *Cell) SetAlign(align string) *Cell {
	c.ensureStyle().Align = align
	return c
}

// SetVAlign sets the vertical alignment for this cell.
func (c *Cell) SetVAlign(align string) *Cell {
	c.ensureStyle().VAlign = align
	return c
}

// SetPadding sets the padding for this cell.
func (c *Cell) SetPadding(p Padding) *Cell {
	c.ensureStyle().Padding = &p
	return c
}

// SetBorders sets the stroked sides of this cell.
func (c *Cell) SetBorders(sides string) *Cell {
	c.ensureStyle().Borders = sides
	return c
}

// SetFont sets the font for text in this cell.
func (c *Cell) SetFont(f FontSpec) *Cell {
	c.ensureStyle().Font = &f
	return c
}

// SetFillColor sets the background color for this cell.
func (c *Cell) SetFillColor(r, g, b int) *Cell {
	c.ensureStyle().FillColor = &RGBColor{r, g, b}
	return c
}

// SetFixedHeight forces the cell height, ignoring its content.
func (c *Cell) SetFixedHeight(h float64) *Cell {
	c.fixedH = h
	return c
}

// SetMinHeight sets the minimum height for this cell.
func (c *Cell) SetMinHeight(h float64) *Cell {
	c.minH = h
	return c
}

// OnLayout registers fn to run once the cell has been placed.
func (c *Cell) OnLayout(fn LayoutFunc) *Cell {
	if fn != nil {
		c.onLayout = append(c.onLayout, fn)
	}
	return c
}
