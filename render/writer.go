// Package render wraps gofpdf with the operations the report generator
// needs: page callbacks, block placement, embedded files and link
// annotations.
//
// gofpdf output is produced first; embedded files and link annotations are
// queued while the document is built and written by package stamp as an
// incremental update when the Writer is closed.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/imaging"
	"github.com/lvillar/casereport/stamp"
	"github.com/lvillar/casereport/table"
)

// ErrClosed is returned by operations on a closed or aborted Writer.
var ErrClosed = errors.New("render: writer is closed")

// Page describes the page a PageFunc decorates.
type Page struct {
	Number  int
	Size    casereport.PageSize
	Margins casereport.Margins
	PDF     table.PDF
	Writer  *Writer
}

// PageFunc is called once for every finished page, after its content has
// been placed.
type PageFunc func(p Page)

// Metadata is the document information dictionary.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Keywords string
}

// Option configures a Writer.
type Option func(*config)

type config struct {
	logger    *zap.Logger
	compress  bool
	meta      Metadata
	created   time.Time
	maxPixels int
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCompression toggles compression of page content and embedded files.
func WithCompression(on bool) Option {
	return func(c *config) {
		c.compress = on
	}
}

// WithMetadata sets the document information.
func WithMetadata(m Metadata) Option {
	return func(c *config) {
		c.meta = m
	}
}

// WithCreationDate fixes the creation date, which also makes the catalog
// output deterministic.
func WithCreationDate(t time.Time) Option {
	return func(c *config) {
		c.created = t
	}
}

// WithMaxImageDimension sets the pixel limit above which images are
// downscaled before embedding. Negative disables downscaling.
func WithMaxImageDimension(px int) Option {
	return func(c *config) {
		c.maxPixels = px
	}
}

// Writer builds one PDF document.
type Writer struct {
	pdf     *gofpdf.Fpdf
	size    casereport.PageSize
	margins casereport.Margins
	log     *zap.Logger
	cfg     config

	callbacks []PageFunc
	dirty     bool
	closed    bool
	translate func(string) string

	images map[string]table.ImageContent
	loader imaging.Loader
	files  []stamp.File
	names  map[string]int
	links  []stamp.Link
}

// Open starts a document with the given page size and margins, in points.
// Automatic page breaks are off; blocks break pages themselves.
func Open(size casereport.PageSize, margins casereport.Margins, opts ...Option) (*Writer, error) {
	cfg := config{logger: zap.NewNop(), compress: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if size.W <= 0 || size.H <= 0 {
		return nil, fmt.Errorf("render: invalid page size %vx%v", size.W, size.H)
	}
	if margins.Left+margins.Right >= size.W || margins.Top+margins.Bottom >= size.H {
		return nil, fmt.Errorf("render: margins leave no printable area")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: size.W, Ht: size.H},
	})
	pdf.SetMargins(margins.Left, margins.Top, margins.Right)
	pdf.SetAutoPageBreak(false, margins.Bottom)
	pdf.SetCompression(cfg.compress)
	pdf.SetFont("Helvetica", "", 10)

	w := &Writer{
		pdf:       pdf,
		size:      size,
		margins:   margins,
		log:       cfg.logger.Named("render"),
		cfg:       cfg,
		translate: Translator(),
		images:    map[string]table.ImageContent{},
		loader:    imaging.Loader{MaxDimension: cfg.maxPixels},
		names:     map[string]int{},
	}
	w.setMetadata(cfg.meta)
	if !cfg.created.IsZero() {
		pdf.SetCreationDate(cfg.created)
		pdf.SetCatalogSort(true)
	}
	pdf.SetHeaderFunc(func() { w.dirty = false })
	pdf.SetFooterFunc(w.finishPage)
	return w, nil
}

func (w *Writer) setMetadata(m Metadata) {
	if m.Title != "" {
		w.pdf.SetTitle(m.Title, true)
	}
	if m.Author != "" {
		w.pdf.SetAuthor(m.Author, true)
	}
	if m.Subject != "" {
		w.pdf.SetSubject(m.Subject, true)
	}
	if m.Creator != "" {
		w.pdf.SetCreator(m.Creator, true)
	}
	if m.Keywords != "" {
		w.pdf.SetKeywords(m.Keywords, true)
	}
}

// finishPage runs the page callbacks for the current page.
func (w *Writer) finishPage() {
	p := Page{
		Number:  w.pdf.PageNo(),
		Size:    w.size,
		Margins: w.margins,
		PDF:     w.pdf,
		Writer:  w,
	}
	for _, fn := range w.callbacks {
		fn(p)
	}
}

// PDF returns the underlying gofpdf document.
func (w *Writer) PDF() *gofpdf.Fpdf { return w.pdf }

// Size returns the page size.
func (w *Writer) Size() casereport.PageSize { return w.size }

// Margins returns the page margins.
func (w *Writer) Margins() casereport.Margins { return w.margins }

// Printable returns the area inside the margins.
func (w *Writer) Printable() casereport.Rect { return w.size.Printable(w.margins) }

// Translator returns the function that maps UTF-8 text to the code page of
// the core fonts.
func (w *Writer) Translator() func(string) string { return w.translate }

// RegisterPageCallback adds fn to the functions run for every finished page.
// Callbacks run in registration order.
func (w *Writer) RegisterPageCallback(fn PageFunc) {
	if fn != nil {
		w.callbacks = append(w.callbacks, fn)
	}
}

// PageNo returns the current page number, zero before the first page.
func (w *Writer) PageNo() int { return w.pdf.PageNo() }

// HasContent reports whether anything was placed on the current page.
func (w *Writer) HasContent() bool { return w.pdf.PageNo() > 0 && w.dirty }

// MarkContent flags the current page as holding content.
func (w *Writer) MarkContent() { w.dirty = true }

// AddPage unconditionally starts a new page.
func (w *Writer) AddPage() error {
	if w.closed {
		return ErrClosed
	}
	w.pdf.AddPage()
	return w.pdf.Error()
}

// NewPage starts a new page unless the current one is still empty.
func (w *Writer) NewPage() error {
	if w.closed {
		return ErrClosed
	}
	if w.pdf.PageNo() > 0 && !w.dirty {
		return nil
	}
	return w.AddPage()
}

// AddBlock places t at the cursor, breaking pages as needed. Text in the
// table is translated for the core fonts.
func (w *Writer) AddBlock(t *table.Table) error {
	if w.closed {
		return ErrClosed
	}
	if t == nil || t.Len() == 0 {
		return nil
	}
	if w.pdf.PageNo() == 0 {
		w.pdf.AddPage()
	}
	t.SetTranslator(w.translate)
	if err := t.Render(w.pdf); err != nil {
		return fmt.Errorf("render: placing block: %w", err)
	}
	w.dirty = true
	return nil
}

// Fail records err on the document. gofpdf stops drawing after the first
// error and Close reports it. Page callbacks use this since they cannot
// return errors.
func (w *Writer) Fail(err error) {
	if err != nil {
		w.pdf.SetError(err)
	}
}

// Err returns the first error recorded by the underlying document.
func (w *Writer) Err() error { return w.pdf.Error() }

// Closed reports whether Close or Abort was called.
func (w *Writer) Closed() bool { return w.closed }

// Stats summarizes a closed document.
type Stats struct {
	Pages         int
	EmbeddedFiles int
	Links         int
	Bytes         int64
}

// Close finishes the document and writes it to out. Page callbacks for the
// last page run before the queued files and links are written.
func (w *Writer) Close(out io.Writer) (Stats, error) {
	if w.closed {
		return Stats{}, ErrClosed
	}
	if w.pdf.PageNo() == 0 {
		w.pdf.AddPage()
	}
	var buf bytes.Buffer
	err := w.pdf.Output(&buf)
	pages := w.pdf.PageNo()
	w.closed = true
	if err != nil {
		return Stats{}, fmt.Errorf("render: writing document: %w", err)
	}

	data, err := stamp.ApplyWithOptions(buf.Bytes(), w.files, w.links, stamp.Options{Store: !w.cfg.compress})
	if err != nil {
		return Stats{}, fmt.Errorf("render: %w", err)
	}
	n, err := out.Write(data)
	st := Stats{Pages: pages, EmbeddedFiles: len(w.files), Links: len(w.links), Bytes: int64(n)}
	if err != nil {
		return st, fmt.Errorf("render: writing output: %w", err)
	}
	w.log.Debug("document closed",
		zap.Int("pages", st.Pages),
		zap.Int("embedded_files", st.EmbeddedFiles),
		zap.Int("links", st.Links),
		zap.Int64("bytes", st.Bytes),
	)
	w.files, w.links = nil, nil
	return st, nil
}

// Abort discards the document. Later callbacks become no-ops.
func (w *Writer) Abort() {
	if w.closed {
		return
	}
	w.closed = true
	w.files, w.links = nil, nil
	w.log.Debug("document aborted")
}
