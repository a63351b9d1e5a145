// Package paginate turns an ordered list of attachment entries into
// two-column blocks of section headers, thumbnails and descriptions, and
// hands them to a document.
package paginate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lvillar/casereport/render"
	"github.com/lvillar/casereport/settings"
	"github.com/lvillar/casereport/table"
)

// Column weights of an attachment block.
const (
	ThumbnailWeight   = 5.5
	DescriptionWeight = 4.5
)

// BottomPadding separates consecutive rows of an attachment block.
const BottomPadding = 20

var (
	SectionFont = table.FontSpec{Family: "Times", Style: "B", Size: 16}
	TextFont    = table.FontSpec{Family: "Times", Size: 10}
)

// Document is what the paginator writes to. *render.Writer implements it.
type Document interface {
	EmbedPath(path string) (render.FileRef, error)
	Image(path string) (table.ImageContent, error)
	LinkTo(ref render.FileRef) table.LayoutFunc
	AddBlock(t *table.Table) error
	NewPage() error
}

var _ Document = (*render.Writer)(nil)

// Stats counts what Paginate produced.
type Stats struct {
	Blocks      int
	Sections    int
	Attachments int
	Thumbnails  int
	Links       int
}

// Paginator lays out attachment entries.
type Paginator struct {
	doc Document
	log *zap.Logger
}

// New returns a paginator writing to doc. A nil logger discards output.
func New(doc Document, log *zap.Logger) *Paginator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Paginator{doc: doc, log: log.Named("paginate")}
}

// NewBlock returns an empty attachment block: two columns weighted 5.5 to
// 4.5, borderless cells with 20pt of bottom padding.
func NewBlock() *table.Table {
	t := table.New(2).SetColumnWeights(ThumbnailWeight, DescriptionWeight)
	font, cells := TextFont, table.Borderless
	t.SetStyle(table.TableStyle{
		CellPadding: table.Padding{Top: 2, Right: 2, Bottom: BottomPadding, Left: 2},
		CellFont:    &font,
		CellStyle:   &cells,
	})
	return t
}

// Paginate lays out entries in order. A section header starts a new page
// when the block being filled holds at least one data cell and has no
// partial row; otherwise the header joins the current block. The last block is flushed at the end.
func (p *Paginator) Paginate(entries []settings.AttachmentEntry) (Stats, error) {
	var st Stats
	block := NewBlock()
	// Header rows alone never complete a block.
	dataCells := 0

	flush := func() error {
		if block.Len() == 0 {
			return nil
		}
		if err := p.doc.AddBlock(block); err != nil {
			return err
		}
		st.Blocks++
		p.log.Debug("block placed", zap.Int("cells", block.Len()), zap.Int("rows", len(block.Rows())))
		return nil
	}

	for i, e := range entries {
		if e.IsEmpty() {
			continue
		}
		if e.IsSection() {
			if dataCells > 0 && block.Complete() {
				if err := flush(); err != nil {
					return st, fmt.Errorf("paginate: entry %d: %w", i+1, err)
				}
				if err := p.doc.NewPage(); err != nil {
					return st, fmt.Errorf("paginate: entry %d: %w", i+1, err)
				}
				block = NewBlock()
				dataCells = 0
			}
			font := SectionFont
			block.AddCell(table.TextContent{Text: e.SectionHeader, Font: &font}).SetColspan(2)
			st.Sections++
		}

		var link table.LayoutFunc
		if e.HasAttachment() {
			ref, err := p.doc.EmbedPath(e.AttachmentPath)
			if err != nil {
				return st, fmt.Errorf("paginate: entry %d: %w", i+1, err)
			}
			st.Attachments++
			if e.HasThumbnail() {
				link = p.doc.LinkTo(ref)
			}
		}

		if e.HasThumbnail() {
			img, err := p.doc.Image(e.ThumbnailPath)
			if err != nil {
				return st, fmt.Errorf("paginate: entry %d: %w", i+1, err)
			}
			cell := block.AddCell(img).SetAlign("C").SetVAlign("M")
			if link != nil {
				cell.OnLayout(link)
				st.Links++
			}
			if !e.HasDescriptiveText() {
				cell.SetColspan(2)
			}
			dataCells++
			st.Thumbnails++
		}

		if e.HasDescriptiveText() {
			cell := block.AddText(e.DescriptiveText).SetVAlign("M")
			if !e.HasThumbnail() {
				cell.SetColspan(2)
			}
			dataCells++
		}
	}

	if err := flush(); err != nil {
		return st, fmt.Errorf("paginate: %w", err)
	}
	return st, nil
}
