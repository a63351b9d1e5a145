package paginate_test

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/paginate"
	"github.com/lvillar/casereport/reader"
	"github.com/lvillar/casereport/render"
	"github.com/lvillar/casereport/settings"
	"github.com/lvillar/casereport/table"
)

type fakeDoc struct {
	ops      []string
	blocks   []*table.Table
	embedErr error
}

func (d *fakeDoc) EmbedPath(path string) (render.FileRef, error) {
	if d.embedErr != nil {
		return render.FileRef{}, d.embedErr
	}
	d.ops = append(d.ops, "embed "+filepath.Base(path))
	return render.FileRef{Name: filepath.Base(path)}, nil
}

func (d *fakeDoc) Image(path string) (table.ImageContent, error) {
	d.ops = append(d.ops, "image "+filepath.Base(path))
	return table.ImageContent{Name: path, Type: "PNG", Width: 100, Height: 50}, nil
}

func (d *fakeDoc) LinkTo(ref render.FileRef) table.LayoutFunc {
	d.ops = append(d.ops, "link "+ref.Name)
	return func(casereport.Geometry) {}
}

func (d *fakeDoc) AddBlock(t *table.Table) error {
	d.ops = append(d.ops, "block")
	d.blocks = append(d.blocks, t)
	return nil
}

func (d *fakeDoc) NewPage() error {
	d.ops = append(d.ops, "page")
	return nil
}

func TestSectionsStartPages(t *testing.T) {
	entries := []settings.AttachmentEntry{
		{SectionHeader: "Video"},
		{ThumbnailPath: "/t/cam1.png", AttachmentPath: "/a/cam1.mp4", DescriptiveText: "Camera 1"},
		{SectionHeader: "Statements"},
		{DescriptiveText: "No statement was taken."},
		{},
		{SectionHeader: "Photos"},
	}
	doc := &fakeDoc{}
	st, err := paginate.New(doc, nil).Paginate(entries)
	if err != nil {
		t.Fatal(err)
	}

	want := "embed cam1.mp4,link cam1.mp4,image cam1.png,block,page,block,page,block"
	if got := strings.Join(doc.ops, ","); got != want {
		t.Errorf("ops:\n got %s\nwant %s", got, want)
	}
	if st.Blocks != 3 || st.Sections != 3 || st.Attachments != 1 || st.Links != 1 || st.Thumbnails != 1 {
		t.Errorf("stats = %+v", st)
	}

	rows := doc.blocks[0].Rows()
	if len(rows) != 2 {
		t.Fatalf("first block rows = %d, want 2", len(rows))
	}
	if len(rows[0]) != 1 || rows[0][0].Colspan() != 2 {
		t.Errorf("header row = %d cells", len(rows[0]))
	}
	if len(rows[1]) != 2 {
		t.Fatalf("attachment row = %d cells", len(rows[1]))
	}
	if _, ok := rows[1][0].Content().(table.ImageContent); !ok {
		t.Errorf("left cell = %T, want image", rows[1][0].Content())
	}
	if tc, ok := rows[1][1].Content().(table.TextContent); !ok || tc.Text != "Camera 1" {
		t.Errorf("right cell = %#v", rows[1][1].Content())
	}
}

func TestFirstSectionDoesNotBreak(t *testing.T) {
	doc := &fakeDoc{}
	_, err := paginate.New(doc, nil).Paginate([]settings.AttachmentEntry{
		{SectionHeader: "Only"},
		{DescriptiveText: "text"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(doc.ops, ","); got != "block" {
		t.Errorf("ops = %s", got)
	}
}

func TestAdjacentSectionsShareBlock(t *testing.T) {
	doc := &fakeDoc{}
	st, err := paginate.New(doc, nil).Paginate([]settings.AttachmentEntry{
		{SectionHeader: "A"},
		{SectionHeader: "B"},
		{DescriptiveText: "x"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(doc.ops, ","); got != "block" {
		t.Errorf("ops = %s, want block", got)
	}
	if st.Blocks != 1 || st.Sections != 2 {
		t.Errorf("stats = %+v", st)
	}
	if rows := doc.blocks[0].Rows(); len(rows) != 3 {
		t.Errorf("rows = %d, want 3", len(rows))
	}
}

func TestColspans(t *testing.T) {
	doc := &fakeDoc{}
	_, err := paginate.New(doc, nil).Paginate([]settings.AttachmentEntry{
		{ThumbnailPath: "/t/a.png"},
		{DescriptiveText: "alone"},
		{ThumbnailPath: "/t/b.png", DescriptiveText: "pair"},
	})
	if err != nil {
		t.Fatal(err)
	}
	rows := doc.blocks[0].Rows()
	spans := []int{}
	for _, r := range rows {
		for _, c := range r {
			spans = append(spans, c.Colspan())
		}
	}
	if len(rows) != 3 || len(spans) != 4 || spans[0] != 2 || spans[1] != 2 || spans[2] != 1 || spans[3] != 1 {
		t.Errorf("rows %d, spans %v", len(rows), spans)
	}
	// A thumbnail without an attachment has no link.
	for _, op := range doc.ops {
		if strings.HasPrefix(op, "link") || strings.HasPrefix(op, "embed") {
			t.Errorf("unexpected %s", op)
		}
	}
}

func TestAttachmentWithoutThumbnail(t *testing.T) {
	doc := &fakeDoc{}
	st, err := paginate.New(doc, nil).Paginate([]settings.AttachmentEntry{
		{AttachmentPath: "/a/report.pdf"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if st.Attachments != 1 || st.Links != 0 || st.Blocks != 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestEmbedFailure(t *testing.T) {
	boom := errors.New("boom")
	doc := &fakeDoc{embedErr: boom}
	_, err := paginate.New(doc, nil).Paginate([]settings.AttachmentEntry{
		{DescriptiveText: "first"},
		{AttachmentPath: "/a/x.bin"},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "entry 2") {
		t.Errorf("error does not name the entry: %v", err)
	}
}

func TestPaginateIntoWriter(t *testing.T) {
	dir := t.TempDir()
	thumb := filepath.Join(dir, "cam1.png")
	f, err := os.Create(thumb)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 64, 48))); err != nil {
		t.Fatal(err)
	}
	f.Close()
	clip := filepath.Join(dir, "cam1.mp4")
	if err := os.WriteFile(clip, []byte("not really a video"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := render.Open(casereport.Letter, casereport.DefaultMargins())
	if err != nil {
		t.Fatal(err)
	}
	st, err := paginate.New(w, nil).Paginate([]settings.AttachmentEntry{
		{SectionHeader: "Video"},
		{ThumbnailPath: thumb, AttachmentPath: clip, DescriptiveText: "Front door"},
		{SectionHeader: "Other"},
		{AttachmentPath: clip, DescriptiveText: "Same clip again"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if st.Blocks != 2 {
		t.Errorf("blocks = %d", st.Blocks)
	}
	var buf bytes.Buffer
	if _, err := w.Close(&buf); err != nil {
		t.Fatal(err)
	}

	doc, err := reader.Parse(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if doc.NumPages() != 2 {
		t.Errorf("pages = %d, want 2", doc.NumPages())
	}
	files, _ := doc.EmbeddedFiles()
	if len(files) != 2 || files[0].Name != "cam1 (2).mp4" || files[1].Name != "cam1.mp4" {
		t.Errorf("files = %+v", files)
	}
	p1, _ := doc.Page(1)
	annots, _ := p1.Annotations()
	if len(annots) != 1 || annots[0].JavaScript != "this.exportDataObject({ cName: 'cam1.mp4', nLaunch: 2 });" {
		t.Errorf("annotations = %+v", annots)
	}
	text, _ := p1.ExtractText()
	if !strings.Contains(text, "Video") || !strings.Contains(text, "Front door") {
		t.Errorf("page 1 text = %q", text)
	}
}
