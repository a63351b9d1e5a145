package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/stamp"
	"github.com/lvillar/casereport/table"
)

// FileRef identifies an embedded file by the unique name viewers show and
// link scripts refer to.
type FileRef struct {
	Name string
	Size int
}

// EmbedFile queues data for embedding under name. When name is already
// taken the file becomes "name (2).ext", "name (3).ext" and so on.
func (w *Writer) EmbedFile(data []byte, name string) (FileRef, error) {
	return w.embed(data, name, time.Time{})
}

// EmbedPath reads the file at path and embeds it under its base name.
func (w *Writer) EmbedPath(path string) (FileRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileRef{}, fmt.Errorf("render: reading attachment: %w", err)
	}
	var mod time.Time
	if info, err := os.Stat(path); err == nil {
		mod = info.ModTime()
	}
	return w.embed(data, filepath.Base(path), mod)
}

func (w *Writer) embed(data []byte, name string, mod time.Time) (FileRef, error) {
	if w.closed {
		return FileRef{}, ErrClosed
	}
	if name == "" {
		return FileRef{}, fmt.Errorf("render: embedded file needs a name")
	}
	unique := w.uniqueName(name)
	w.files = append(w.files, stamp.File{
		Name:        unique,
		Data:        data,
		Description: unique,
		ModTime:     mod,
	})
	w.log.Debug("file embedded", zap.String("name", unique), zap.Int("size", len(data)))
	return FileRef{Name: unique, Size: len(data)}, nil
}

func (w *Writer) uniqueName(name string) string {
	n := w.names[name]
	w.names[name] = n + 1
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := n + 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, i, ext)
		if w.names[candidate] == 0 {
			w.names[candidate] = 1
			return candidate
		}
	}
}

// EmbeddedFiles returns the files queued so far.
func (w *Writer) EmbeddedFiles() []FileRef {
	out := make([]FileRef, len(w.files))
	for i, f := range w.files {
		out[i] = FileRef{Name: f.Name, Size: len(f.Data)}
	}
	return out
}

// AddLinkAnnotation queues a clickable area with the given action.
func (w *Writer) AddLinkAnnotation(g casereport.Geometry, action stamp.Action) error {
	if w.closed {
		return ErrClosed
	}
	if g.Page < 1 {
		return fmt.Errorf("render: link on page %d", g.Page)
	}
	w.links = append(w.links, stamp.Link{Geometry: g, Action: action})
	return nil
}

// Links returns the number of queued link annotations.
func (w *Writer) Links() int { return len(w.links) }

// LinkTo returns a layout callback that turns the placed cell into a link
// opening the embedded file ref. The callback does nothing once the Writer
// is closed.
func (w *Writer) LinkTo(ref FileRef) table.LayoutFunc {
	return func(g casereport.Geometry) {
		if w.closed {
			return
		}
		if err := w.AddLinkAnnotation(g, stamp.ExportDataObject(ref.Name)); err != nil {
			w.log.Warn("link annotation dropped", zap.String("name", ref.Name), zap.Error(err))
		}
	}
}
