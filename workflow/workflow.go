// Package workflow renders the body of a workflow summary report: the input
// files, the operations applied to them and the output files, each as a
// two-column table separated by blue rules.
package workflow

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/lvillar/casereport/render"
	"github.com/lvillar/casereport/settings"
	"github.com/lvillar/casereport/table"
)

// Layout constants.
const (
	TopSpacing    = 40
	CellPadding   = 15
	RuleThickness = 6
)

var (
	RuleColor   = table.RGBColor{R: 65, G: 177, B: 225}
	BorderColor = table.RGBColor{R: 192, G: 192, B: 192}
)

// Body is the workflow summary body.
type Body struct {
	Settings *settings.WorkflowSummary
	Log      *zap.Logger
}

// Stats counts the rendered entries.
type Stats struct {
	InputFiles  int
	Operations  int
	OutputFiles int
}

// Render places the body at the cursor of w.
func (b Body) Render(w *render.Writer) (Stats, error) {
	log := b.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := b.Settings
	header, body := b.fonts(log)

	blocks := []*table.Table{
		spacer(TopSpacing),
		FileTable("Input", s.InputFiles, header, body),
		rule(),
		OperationTable(s.Operations, header, body),
		rule(),
		FileTable("Output", s.OutputFiles, header, body),
	}
	for _, t := range blocks {
		if err := w.AddBlock(t); err != nil {
			return Stats{}, fmt.Errorf("workflow: %w", err)
		}
	}
	return Stats{InputFiles: len(s.InputFiles), Operations: len(s.Operations), OutputFiles: len(s.OutputFiles)}, nil
}

func (b Body) fonts(log *zap.Logger) (table.FontSpec, table.FontSpec) {
	hf, hs := b.Settings.HeaderFont()
	bf, bs := b.Settings.BodyFont()
	header, ok := render.CoreFont(hf)
	if !ok {
		log.Warn("header font substituted", zap.String("face", hf), zap.String("family", header))
	}
	text, ok := render.CoreFont(bf)
	if !ok {
		log.Warn("body font substituted", zap.String("face", bf), zap.String("family", text))
	}
	return table.FontSpec{Family: header, Style: "B", Size: hs}, table.FontSpec{Family: text, Size: bs}
}

// FileLines returns the lines describing file n (1-based) of a list
// labelled label, e.g. "Input".
func FileLines(label string, n int, f settings.FileEntry) []string {
	return []string{
		label + " #" + strconv.Itoa(n) + " Name: " + f.Name,
		"MD5 Hash: " + f.Hash,
		"Video Streams: " + strconv.Itoa(f.VideoStreams),
		"Audio Streams: " + strconv.Itoa(f.AudioStreams),
		"Format: " + f.Codec,
		"File Size: " + HumanSize(f.Size),
		"Pixel Format: " + f.PixelFormat,
		"Frame Rate: " + f.FrameRate.String(),
		"SAR: " + f.SAR,
	}
}

// OperationLines returns the name of op followed by one
// "Description: Settings" line per detail.
func OperationLines(op settings.Operation) []string {
	lines := []string{op.Name}
	for _, d := range op.Details {
		lines = append(lines, d.Description+": "+d.Settings)
	}
	return lines
}

// FileTable lists files two per row.
func FileTable(label string, files []settings.FileEntry, header, body table.FontSpec) *table.Table {
	cells := make([]table.CellContent, len(files))
	for i, f := range files {
		cells[i] = paragraph(FileLines(label, i+1, f), header, body)
	}
	return summaryTable(cells)
}

// OperationTable lists operations two per row.
func OperationTable(ops []settings.Operation, header, body table.FontSpec) *table.Table {
	cells := make([]table.CellContent, len(ops))
	for i, op := range ops {
		cells[i] = paragraph(OperationLines(op), header, body)
	}
	return summaryTable(cells)
}

// paragraph sets the first line in the header font and the rest in the
// body font.
func paragraph(lines []string, header, body table.FontSpec) table.StackContent {
	out := make(table.StackContent, len(lines))
	for i, l := range lines {
		f := body
		if i == 0 {
			f = header
		}
		out[i] = table.TextContent{Text: l, Font: &f}
	}
	return out
}

// summaryTable lays cells out in two columns. Every row but the last has a
// light gray bottom rule and the first column a right rule. There is always
// at least one row.
func summaryTable(cells []table.CellContent) *table.Table {
	for len(cells) < 2 || len(cells)%2 != 0 {
		cells = append(cells, table.EmptyContent{})
	}
	border := BorderColor
	t := table.New(2)
	t.SetStyle(table.TableStyle{
		Border:      &table.BorderStyle{Width: 0.5, Color: border},
		CellPadding: table.Padding{Top: CellPadding, Right: 2, Bottom: CellPadding, Left: CellPadding},
	})
	rows := len(cells) / 2
	for i, c := range cells {
		row, col := i/2, i%2
		sides := ""
		if col == 0 {
			sides = "R"
		}
		if row < rows-1 {
			sides += "B"
		}
		if sides == "" {
			sides = "0"
		}
		cell := t.AddCell(c).SetBorders(sides)
		if row == 0 {
			cell.SetPadding(table.Padding{Top: 2, Right: 2, Bottom: CellPadding, Left: CellPadding})
		}
	}
	return t
}

func spacer(h float64) *table.Table {
	t := table.New(1).SetStyle(table.TableStyle{CellStyle: &table.CellStyle{Borders: "0"}})
	t.AddEmpty().SetFixedHeight(h)
	return t
}

func rule() *table.Table {
	t := table.New(1).SetStyle(table.TableStyle{CellStyle: &table.CellStyle{Borders: "0"}})
	t.AddCell(table.RuleContent{Thickness: RuleThickness, Color: RuleColor})
	return t
}
