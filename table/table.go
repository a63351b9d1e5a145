package table

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/lvillar/casereport"
)

// PDF is the subset of *gofpdf.Fpdf the table draws with.
type PDF interface {
	GetPageSize() (width, height float64)
	GetMargins() (left, top, right, bottom float64)
	GetXY() (float64, float64)
	SetXY(x, y float64)
	AddPage()
	PageNo() int
	SetFont(familyStr, styleStr string, size float64)
	GetFontSize() (ptSize, unitSize float64)
	SplitLines(txt []byte, w float64) [][]byte
	CellFormat(w, h float64, txtStr, borderStr string, ln int, alignStr string, fill bool, link int, linkStr string)
	SetFillColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetTextColor(r, g, b int)
	SetLineWidth(width float64)
	Rect(x, y, w, h float64, styleStr string)
	Line(x1, y1, x2, y2 float64)
	ImageOptions(imageNameStr string, x, y, w, h float64, flow bool, options gofpdf.ImageOptions, link int, linkStr string)
	Err() bool
	Error() error
}

var _ PDF = (*gofpdf.Fpdf)(nil)

// ColumnDef defines the properties of a table column.
type ColumnDef struct {
	Weight float64 // relative width; zero counts as 1
	Align  string  // default alignment for cells starting in this column
}

// Table is a flowing block of cells.
type Table struct {
	columns    []ColumnDef
	cells      []*Cell
	style      TableStyle
	x, y       float64
	positioned bool
	tableWidth float64 // zero means page width minus margins
	translate  func(string) string
}

// New creates a table with the given number of equally wide columns.
func New(columns int) *Table {
	if columns < 1 {
		columns = 1
	}
	return &Table{
		columns: make([]ColumnDef, columns),
		style: TableStyle{
			CellPadding: UniformPadding(2),
		},
	}
}

// SetColumns sets column definitions for the table.
func (t *Table) SetColumns(cols ...ColumnDef) *Table {
	if len(cols) > 0 {
		t.columns = cols
	}
	return t
}

// SetColumnWeights sets relative column widths. The number of weights
// becomes the number of columns.
func (t *Table) SetColumnWeights(weights ...float64) *Table {
	if len(weights) == 0 {
		return t
	}
	t.columns = make([]ColumnDef, len(weights))
	for i, w := range weights {
		t.columns[i] = ColumnDef{Weight: w}
	}
	return t
}

// Columns returns the number of columns.
func (t *Table) Columns() int { return len(t.columns) }

// SetStyle sets the table-wide style.
func (t *Table) SetStyle(s TableStyle) *Table {
	t.style = s
	return t
}

// Style returns the table-wide style.
func (t *Table) Style() TableStyle { return t.style }

// SetPosition fixes the top-left corner of the table. Without it Render
// starts at the left margin and the current cursor row.
func (t *Table) SetPosition(x, y float64) *Table {
	t.x, t.y = x, y
	t.positioned = true
	return t
}

// SetWidth sets the total table width.
func (t *Table) SetWidth(w float64) *Table {
	t.tableWidth = w
	return t
}

// SetTranslator sets the function applied to text before it is measured and
// drawn, typically a conversion to the font's code page.
func (t *Table) SetTranslator(fn func(string) string) *Table {
	t.translate = fn
	return t
}

// AddCell appends a cell with the given content.
func (t *Table) AddCell(content CellContent) *Cell {
	if content == nil {
		content = EmptyContent{}
	}
	c := &Cell{content: content, colspan: 1}
	t.cells = append(t.cells, c)
	return c
}

// AddText appends a text cell.
func (t *Table) AddText(text string) *Cell {
	return t.AddCell(TextContent{Text: text})
}

// AddTextf appends a formatted text cell.
func (t *Table) AddTextf(format string, args ...any) *Cell {
	return t.AddText(fmt.Sprintf(format, args...))
}

// AddEmpty appends an empty cell.
func (t *Table) AddEmpty() *Cell {
	return t.AddCell(EmptyContent{})
}

// Len returns the number of cells added.
func (t *Table) Len() int { return len(t.cells) }

// Complete reports whether every row is filled; a table whose last row still
// has free columns is not complete.
func (t *Table) Complete() bool {
	rows := t.layoutRows()
	return len(rows) == 0 || rows[len(rows)-1].filled == len(t.columns)
}

// Rows returns the cells grouped into rows.
func (t *Table) Rows() [][]*Cell {
	rows := t.layoutRows()
	out := make([][]*Cell, len(rows))
	for i, r := range rows {
		out[i] = r.cells
	}
	return out
}

type row struct {
	cells  []*Cell
	start  []int // first column of each cell
	spans  []int
	filled int
}

// layoutRows groups cells into rows. A cell whose span does not fit in the
// current row closes that row and starts the next one; spans wider than the
// table are clamped.
func (t *Table) layoutRows() []row {
	n := len(t.columns)
	var rows []row
	cur := row{}
	for _, c := range t.cells {
		span := c.colspan
		if span > n {
			span = n
		}
		if cur.filled+span > n {
			rows = append(rows, cur)
			cur = row{}
		}
		cur.cells = append(cur.cells, c)
		cur.start = append(cur.start, cur.filled)
		cur.spans = append(cur.spans, span)
		cur.filled += span
		if cur.filled == n {
			rows = append(rows, cur)
			cur = row{}
		}
	}
	if len(cur.cells) > 0 {
		rows = append(rows, cur)
	}
	return rows
}

type layoutCtx struct {
	pdf       PDF
	widths    []float64
	lineSpace float64
	maxImageH float64
	tr        func(string) string
}

func (t *Table) context(pdf PDF) *layoutCtx {
	ctx := &layoutCtx{
		pdf:       pdf,
		widths:    t.calculateWidths(pdf),
		lineSpace: t.style.LineSpacing,
		tr:        t.translate,
	}
	if ctx.lineSpace <= 0 {
		ctx.lineSpace = DefaultLineSpacing
	}
	if ctx.tr == nil {
		ctx.tr = func(s string) string { return s }
	}
	_, pageH := pdf.GetPageSize()
	_, top, _, bottom := pdf.GetMargins()
	ctx.maxImageH = pageH - top - bottom
	return ctx
}

// calculateWidths distributes the table width over the columns by weight.
func (t *Table) calculateWidths(pdf PDF) []float64 {
	total := t.tableWidth
	if total <= 0 {
		pageW, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		total = pageW - left - right
	}
	sum := 0.0
	for _, c := range t.columns {
		sum += weight(c)
	}
	widths := make([]float64, len(t.columns))
	for i, c := range t.columns {
		widths[i] = total * weight(c) / sum
	}
	return widths
}

func weight(c ColumnDef) float64 {
	if c.Weight <= 0 {
		return 1
	}
	return c.Weight
}

// Width returns the table width it would be rendered with on pdf.
func (t *Table) Width(pdf PDF) float64 {
	w := 0.0
	for _, cw := range t.calculateWidths(pdf) {
		w += cw
	}
	return w
}

// Height returns the total height of all rows.
func (t *Table) Height(pdf PDF) float64 {
	ctx := t.context(pdf)
	h := 0.0
	for _, r := range t.layoutRows() {
		h += t.rowHeight(ctx, r)
	}
	return h
}

// Render draws the table at the cursor, breaking pages as needed, and
// leaves the cursor at the left margin below the table.
func (t *Table) Render(pdf PDF) error {
	if pdf.Err() {
		return pdf.Error()
	}
	ctx := t.context(pdf)
	_, pageH := pdf.GetPageSize()
	left, top, _, bottom := pdf.GetMargins()

	startX := left
	_, y := pdf.GetXY()
	if t.positioned {
		startX, y = t.x, t.y
	}

	for _, r := range t.layoutRows() {
		rowH := t.rowHeight(ctx, r)
		// A row taller than the page is placed anyway once it starts at
		// the top margin.
		if y+rowH > pageH-bottom && y > top+0.01 {
			pdf.AddPage()
			y = top
		}
		t.renderRow(ctx, r, startX, y, rowH)
		y += rowH
		if pdf.Err() {
			return pdf.Error()
		}
	}
	pdf.SetXY(left, y)
	return pdf.Error()
}

// WriteAt draws the table with its top-left corner at x, y without page
// breaks and restores the cursor afterwards.
func (t *Table) WriteAt(pdf PDF, x, y float64) error {
	if pdf.Err() {
		return pdf.Error()
	}
	cx, cy := pdf.GetXY()
	ctx := t.context(pdf)
	for _, r := range t.layoutRows() {
		rowH := t.rowHeight(ctx, r)
		t.renderRow(ctx, r, x, y, rowH)
		y += rowH
	}
	pdf.SetXY(cx, cy)
	return pdf.Error()
}

func (t *Table) cellWidth(ctx *layoutCtx, start, span int) float64 {
	w := 0.0
	for i := start; i < start+span && i < len(ctx.widths); i++ {
		w += ctx.widths[i]
	}
	return w
}

func (t *Table) rowHeight(ctx *layoutCtx, r row) float64 {
	h := 0.0
	for i, c := range r.cells {
		ch := t.cellHeight(ctx, c, r.start[i], t.cellWidth(ctx, r.start[i], r.spans[i]))
		if ch > h {
			h = ch
		}
	}
	return h
}

func (t *Table) cellHeight(ctx *layoutCtx, c *Cell, col int, w float64) float64 {
	if c.fixedH > 0 {
		return c.fixedH
	}
	style := t.resolveCellStyle(c, col)
	pad := t.padding(style)
	h := contentHeight(ctx, c.content, style, contentWidth(w, pad)) + pad.Top + pad.Bottom
	if h < c.minH {
		h = c.minH
	}
	return h
}

func contentWidth(w float64, pad Padding) float64 {
	cw := w - pad.Left - pad.Right
	if cw < 1 {
		cw = 1
	}
	return cw
}

func (t *Table) padding(style CellStyle) Padding {
	if style.Padding != nil {
		return *style.Padding
	}
	return t.style.CellPadding
}

func applyFont(pdf PDF, f *FontSpec) {
	if f != nil {
		pdf.SetFont(f.Family, f.Style, f.Size)
	}
}

func textLines(ctx *layoutCtx, text string, font *FontSpec, w float64) ([][]byte, float64) {
	applyFont(ctx.pdf, font)
	_, size := ctx.pdf.GetFontSize()
	lineH := size * ctx.lineSpace
	if text == "" {
		return nil, lineH
	}
	return ctx.pdf.SplitLines([]byte(ctx.tr(text)), w), lineH
}

func textFont(c TextContent, style CellStyle) *FontSpec {
	if c.Font != nil {
		return c.Font
	}
	return style.Font
}

func contentHeight(ctx *layoutCtx, content CellContent, style CellStyle, w float64) float64 {
	switch c := content.(type) {
	case TextContent:
		lines, lineH := textLines(ctx, c.Text, textFont(c, style), w)
		return float64(len(lines)) * lineH
	case ImageContent:
		_, h := imageSize(ctx, c, w)
		return h
	case RuleContent:
		return c.Thickness
	case DrawContent:
		return c.Height
	case StackContent:
		h := 0.0
		for _, part := range c {
			h += contentHeight(ctx, part, style, w)
		}
		return h
	}
	return 0
}

// imageSize fits an image to width w, then to the height limit.
func imageSize(ctx *layoutCtx, c ImageContent, w float64) (float64, float64) {
	aspect := 1.0
	if c.Width > 0 && c.Height > 0 {
		aspect = float64(c.Height) / float64(c.Width)
	}
	h := w * aspect
	limit := c.MaxHeight
	if limit <= 0 {
		limit = ctx.maxImageH
	}
	if limit > 0 && h > limit {
		h = limit
		w = h / aspect
	}
	return w, h
}

// renderRow draws every cell of r with its top at y.
func (t *Table) renderRow(ctx *layoutCtx, r row, startX, y, rowH float64) {
	pdf := ctx.pdf
	for i, cell := range r.cells {
		x := startX + t.cellWidth(ctx, 0, r.start[i])
		w := t.cellWidth(ctx, r.start[i], r.spans[i])
		style := t.resolveCellStyle(cell, r.start[i])
		pad := t.padding(style)

		if style.FillColor != nil {
			pdf.SetFillColor(style.FillColor.R, style.FillColor.G, style.FillColor.B)
			pdf.Rect(x, y, w, rowH, "F")
		}

		cw := contentWidth(w, pad)
		avail := rowH - pad.Top - pad.Bottom
		ch := contentHeight(ctx, cell.content, style, cw)
		cy := y + pad.Top
		switch style.VAlign {
		case "M":
			cy += (avail - ch) / 2
		case "B":
			cy += avail - ch
		}
		if style.TextColor != nil {
			pdf.SetTextColor(style.TextColor.R, style.TextColor.G, style.TextColor.B)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		t.drawContent(ctx, cell.content, style, x+pad.Left, cy, cw)
		t.drawBorders(pdf, style, x, y, w, rowH)

		g := casereport.Geometry{Page: pdf.PageNo(), Rect: casereport.Rect{X: x, Y: y, W: w, H: rowH}}
		for _, fn := range cell.onLayout {
			fn(g)
		}
	}

	// Restore colors to defaults
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(0, 0, 0)
	pdf.SetTextColor(0, 0, 0)
}

func (t *Table) drawContent(ctx *layoutCtx, content CellContent, style CellStyle, x, y, w float64) {
	pdf := ctx.pdf
	align := style.Align
	if align == "" {
		align = "L"
	}
	switch c := content.(type) {
	case TextContent:
		lines, lineH := textLines(ctx, c.Text, textFont(c, style), w)
		for _, line := range lines {
			pdf.SetXY(x, y)
			pdf.CellFormat(w, lineH, string(line), "", 0, align, false, 0, "")
			y += lineH
		}
	case ImageContent:
		iw, ih := imageSize(ctx, c, w)
		// Images are centered unless the cell asks otherwise.
		ix := x + (w-iw)/2
		switch style.Align {
		case "L":
			ix = x
		case "R":
			ix = x + w - iw
		}
		pdf.ImageOptions(c.Name, ix, y, iw, ih, false, gofpdf.ImageOptions{ImageType: c.Type}, 0, "")
	case RuleContent:
		pdf.SetFillColor(c.Color.R, c.Color.G, c.Color.B)
		pdf.Rect(x, y, w, c.Thickness, "F")
	case DrawContent:
		if c.Draw != nil {
			c.Draw(casereport.Rect{X: x, Y: y, W: w, H: c.Height})
		}
	case StackContent:
		for _, part := range c {
			t.drawContent(ctx, part, style, x, y, w)
			y += contentHeight(ctx, part, style, w)
		}
	}
}

// drawBorders strokes the sides named by style.Borders.
func (t *Table) drawBorders(pdf PDF, style CellStyle, x, y, w, h float64) {
	sides := style.Borders
	if sides == "" || sides == "0" {
		return
	}
	if sides == "1" {
		sides = "LTRB"
	}
	width := 0.5
	color := RGBColor{}
	if t.style.Border != nil {
		if t.style.Border.Width > 0 {
			width = t.style.Border.Width
		}
		color = t.style.Border.Color
	}
	if style.BorderColor != nil {
		color = *style.BorderColor
	}
	pdf.SetDrawColor(color.R, color.G, color.B)
	pdf.SetLineWidth(width)
	if strings.Contains(sides, "L") {
		pdf.Line(x, y, x, y+h)
	}
	if strings.Contains(sides, "T") {
		pdf.Line(x, y, x+w, y)
	}
	if strings.Contains(sides, "R") {
		pdf.Line(x+w, y, x+w, y+h)
	}
	if strings.Contains(sides, "B") {
		pdf.Line(x, y+h, x+w, y+h)
	}
}

// resolveCellStyle determines the effective style for a cell by merging
// table, column and cell-level styles.
func (t *Table) resolveCellStyle(cell *Cell, col int) CellStyle {
	var result CellStyle

	// Table-level font
	if t.style.CellFont != nil {
		result.Font = t.style.CellFont
	}
	if t.style.Border != nil {
		result.Borders = "1"
	}
	if t.style.CellStyle != nil {
		mergeStyle(&result, t.style.CellStyle)
	}
	if col < len(t.columns) && t.columns[col].Align != "" {
		result.Align = t.columns[col].Align
	}

	// Cell-level style (highest priority)
	if cell.style != nil {
		mergeStyle(&result, cell.style)
	}

	return result
}

// mergeStyle copies non-nil fields from src to dst.
func mergeStyle(dst, src *CellStyle) {
	if src.FillColor != nil {
		dst.FillColor = src.FillColor
	}
	if src.TextColor != nil {
		dst.TextColor = src.TextColor
	}
	if src.BorderColor != nil {
		dst.BorderColor = src.BorderColor
	}
	if src.Font != nil {
		dst.Font = src.Font
	}
	if src.Align != "" {
		dst.Align = src.Align
	}
	if src.VAlign != "" {
		dst.VAlign = src.VAlign
	}
	if src.Padding != nil {
		dst.Padding = src.Padding
	}
	if src.Borders != "" {
		dst.Borders = src.Borders
	}
}
