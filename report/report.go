// Package report assembles complete report documents from settings: it
// validates them, opens the output, draws the title page, the body and the
// page decorations, and writes the finished PDF.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/decorate"
	"github.com/lvillar/casereport/paginate"
	"github.com/lvillar/casereport/render"
	"github.com/lvillar/casereport/settings"
	"github.com/lvillar/casereport/titlepage"
	"github.com/lvillar/casereport/workflow"
)

// Result describes one Generate call.
type Result struct {
	RunID         string
	Kind          settings.Kind
	Path          string
	Pages         int
	EmbeddedFiles int
	Links         int
	Bytes         int64
	State         State
	States        []State
	Duration      time.Duration

	Attachments *paginate.Stats // case reports
	Workflow    *workflow.Stats // workflow summaries
}

func (r *Result) enter(s State) {
	if !CanTransition(r.State, s) {
		panic(fmt.Sprintf("report: invalid transition %s -> %s", r.State, s))
	}
	r.State = s
	r.States = append(r.States, s)
}

// Option is a functional option for configuring an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.log = l
		}
	}
}

// WithCompression toggles compression of the output.
func WithCompression(on bool) Option {
	return func(a *Assembler) { a.compress = on }
}

// WithCreator sets the creator recorded in the document information.
func WithCreator(creator string) Option {
	return func(a *Assembler) { a.creator = creator }
}

// WithClock replaces time.Now, which dates the document.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithMaxImageDimension limits embedded image sizes in pixels.
func WithMaxImageDimension(px int) Option {
	return func(a *Assembler) { a.maxImage = px }
}

// Assembler generates reports. It holds no per-document state and may be
// reused, but not concurrently.
type Assembler struct {
	log      *zap.Logger
	compress bool
	creator  string
	now      func() time.Time
	maxImage int
}

// New returns an Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		log:      zap.NewNop(),
		compress: true,
		creator:  "casereport",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate writes the report described by s to the file named by its
// Filename.
func (a *Assembler) Generate(s settings.Settings) (*Result, error) {
	return a.GenerateTo(s, "")
}

// GenerateTo is Generate with the output path overridden by path when
// non-empty. Settings are validated before anything touches the file
// system. A partially written file is left in place on failure.
func (a *Assembler) GenerateTo(s settings.Settings, path string) (res *Result, err error) {
	start := a.now()
	res = &Result{RunID: uuid.NewString()}
	res.enter(StateCreated)
	defer func() {
		if res.State != StateClosed {
			res.enter(StateClosed)
		}
		res.Duration = a.now().Sub(start)
	}()

	if err := settings.Validate(s); err != nil {
		return res, err
	}
	variant, ok := VariantOf(s.Kind())
	if !ok {
		return res, casereport.NewError("Generate", casereport.ErrValidation, fmt.Errorf("unknown report %q", s.Kind()))
	}
	base := s.Common()
	res.Kind = s.Kind()
	res.Path = base.Filename
	if path != "" {
		res.Path = path
	}
	log := a.log.Named("report").With(
		zap.String("run_id", res.RunID),
		zap.String("report", string(res.Kind)),
	)
	log.Info("generating report", zap.String("path", res.Path))

	f, err := os.Create(res.Path)
	if err != nil {
		return res, casereport.NewError("Generate", casereport.ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = casereport.NewError("Generate", casereport.ErrIO, cerr)
		}
	}()

	w, err := render.Open(casereport.Letter, base.Margins(),
		render.WithLogger(log),
		render.WithCompression(a.compress),
		render.WithCreationDate(start),
		render.WithMaxImageDimension(a.maxImage),
		render.WithMetadata(render.Metadata{
			Title:    base.ReportTitle,
			Author:   base.Author,
			Subject:  base.Subject,
			Creator:  a.creator,
			Keywords: "run:" + res.RunID,
		}),
	)
	if err != nil {
		return res, casereport.NewError("Generate", casereport.ErrRender, err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = casereport.NewError("Generate", casereport.ErrRender, fmt.Errorf("panic: %v", r))
		}
		if !w.Closed() {
			w.Abort()
		}
		if err != nil {
			log.Error("report failed", zap.String("state", string(res.State)), zap.Error(err))
		}
	}()
	res.enter(StateOpened)

	if variant.Decorator != nil {
		decorate.Register(w, variant.Decorator(s))
	}

	if err := a.titlePage(w, variant, s, res); err != nil {
		return res, err
	}

	if err := w.NewPage(); err != nil {
		return res, casereport.NewError("Generate", casereport.ErrRender, err)
	}
	res.enter(StatePaginating)
	if err := variant.Body(w, s, log, res); err != nil {
		return res, bodyError(err)
	}

	var buf bytes.Buffer
	st, err := w.Close(&buf)
	if err != nil {
		return res, casereport.NewError("Close", casereport.ErrRender, err)
	}
	n, err := f.Write(buf.Bytes())
	res.Bytes = int64(n)
	if err != nil {
		return res, casereport.NewError("Close", casereport.ErrIO, err)
	}
	res.Pages, res.EmbeddedFiles, res.Links = st.Pages, st.EmbeddedFiles, st.Links
	res.enter(StateClosed)

	log.Info("report generated",
		zap.Int("pages", res.Pages),
		zap.Int("embedded_files", res.EmbeddedFiles),
		zap.Int("links", res.Links),
		zap.Int64("bytes", res.Bytes),
	)
	return res, nil
}

func (a *Assembler) titlePage(w *render.Writer, v Variant, s settings.Settings, res *Result) error {
	base := s.Common()
	var r titlepage.Renderer
	next := StateTitleSkipped
	switch {
	case base.TitlePageFilename != "":
		r = titlepage.Imported{Path: base.TitlePageFilename}
	case v.TitlePage != nil:
		r = v.TitlePage(s)
		next = StateTitleRendered
	}
	if r != nil {
		if err := r.Render(w); err != nil {
			return casereport.NewError("TitlePage", casereport.ErrRender, err)
		}
	}
	res.enter(next)
	return nil
}

// bodyError keeps errors that already carry a kind and files the rest as
// rendering failures, unreadable input files included. ErrIO is reserved
// for the output file.
func bodyError(err error) error {
	var ce *casereport.Error
	if errors.As(err, &ce) {
		return err
	}
	return casereport.NewError("Body", casereport.ErrRender, err)
}
