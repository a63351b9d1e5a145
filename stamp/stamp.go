// Package stamp appends embedded files and link annotations to a finished
// PDF as an incremental update.
//
// The update adds one EmbeddedFile stream and file specification per file,
// replaces the catalog's /EmbeddedFiles name tree and the /Annots arrays of
// the linked pages, and ends with a cross-reference section chained to the
// original one through /Prev. The original bytes are left untouched.
package stamp

import (
	"bytes"
	"compress/zlib"
	"crypto/md5"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/reader"
)

// File is a file to embed.
type File struct {
	Name        string // name tree key and file name shown by viewers
	Data        []byte
	Description string
	ModTime     time.Time
}

// Action is what a link annotation does when clicked.
type Action struct {
	JavaScript string
}

// JavaScript returns an action that runs script.
func JavaScript(script string) Action {
	return Action{JavaScript: script}
}

// ExportDataObject returns an action that opens the embedded file name in
// its default application.
func ExportDataObject(name string) Action {
	return JavaScript(ExportDataObjectScript(name))
}

// ExportDataObjectScript returns the viewer script that launches the
// embedded file name.
func ExportDataObjectScript(name string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(name)
	return "this.exportDataObject({ cName: '" + escaped + "', nLaunch: 2 });"
}

// Link is a clickable area on a page. Geometry uses top-left page
// coordinates in points.
type Link struct {
	Geometry casereport.Geometry
	Action   Action
}

// Options tune the update. The zero value compresses embedded files.
type Options struct {
	// Store leaves embedded file data uncompressed.
	Store bool
}

// Apply returns data with files and links appended as an incremental update.
// With nothing to add it returns data unchanged.
func Apply(data []byte, files []File, links []Link) ([]byte, error) {
	return ApplyWithOptions(data, files, links, Options{})
}

// ApplyWithOptions is Apply with explicit options.
func ApplyWithOptions(data []byte, files []File, links []Link, opts Options) ([]byte, error) {
	if len(files) == 0 && len(links) == 0 {
		return data, nil
	}
	doc, err := reader.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("stamp: %w", err)
	}
	u := &update{doc: doc, next: doc.Size(), opts: opts}
	if err := u.embed(files); err != nil {
		return nil, err
	}
	if err := u.link(links); err != nil {
		return nil, err
	}
	return u.write(data)
}

type object struct {
	ref reader.Reference
	obj reader.Object
}

type update struct {
	doc     *reader.Document
	next    int
	opts    Options
	objects []object
}

func (u *update) add(obj reader.Object) reader.Reference {
	ref := reader.Reference{Number: u.next}
	u.next++
	u.objects = append(u.objects, object{ref: ref, obj: obj})
	return ref
}

func (u *update) replace(ref reader.Reference, obj reader.Object) {
	u.objects = append(u.objects, object{ref: ref, obj: obj})
}

func (u *update) embed(files []File) error {
	if len(files) == 0 {
		return nil
	}
	rootRef, catalog, err := u.doc.Catalog()
	if err != nil {
		return fmt.Errorf("stamp: %w", err)
	}
	names := reader.Dict{}
	if obj, err := u.doc.Resolve(catalog["Names"]); err == nil {
		if d, ok := obj.(reader.Dict); ok {
			names = d.Clone()
		}
	}

	type entry struct {
		key reader.String
		ref reader.Reference
	}
	var entries []entry
	existing, err := u.existingEntries(names["EmbeddedFiles"])
	if err != nil {
		return err
	}
	for i := 0; i+1 < len(existing); i += 2 {
		key, _ := existing[i].(reader.String)
		ref, ok := existing[i+1].(reader.Reference)
		if ok {
			entries = append(entries, entry{key: key, ref: ref})
		}
	}

	for _, f := range files {
		stream, err := u.fileStream(f)
		if err != nil {
			return err
		}
		streamRef := u.add(stream)
		spec := reader.Dict{
			"Type": reader.Name("Filespec"),
			"F":    TextString(f.Name),
			"UF":   TextString(f.Name),
			"EF":   reader.Dict{"F": streamRef, "UF": streamRef},
		}
		if f.Description != "" {
			spec["Desc"] = TextString(f.Description)
		}
		entries = append(entries, entry{key: TextString(f.Name), ref: u.add(spec)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].key.Value, entries[j].key.Value) < 0
	})
	pairs := make(reader.Array, 0, 2*len(entries))
	for _, e := range entries {
		pairs = append(pairs, e.key, e.ref)
	}
	names["EmbeddedFiles"] = u.add(reader.Dict{"Names": pairs})

	cat := catalog.Clone()
	cat["Names"] = names
	u.replace(rootRef, cat)
	return nil
}

// existingEntries returns the flat key/value list of a name tree that has
// no intermediate nodes.
func (u *update) existingEntries(tree reader.Object) (reader.Array, error) {
	if tree == nil {
		return nil, nil
	}
	obj, err := u.doc.Resolve(tree)
	if err != nil {
		return nil, fmt.Errorf("stamp: existing embedded files: %w", err)
	}
	d, ok := obj.(reader.Dict)
	if !ok {
		return nil, nil
	}
	if _, ok := d["Kids"]; ok {
		return nil, fmt.Errorf("stamp: existing embedded file tree has intermediate nodes")
	}
	arr, err := u.doc.Resolve(d["Names"])
	if err != nil {
		return nil, err
	}
	pairs, _ := arr.(reader.Array)
	return pairs, nil
}

func (u *update) fileStream(f File) (reader.Stream, error) {
	sum := md5.Sum(f.Data)
	params := reader.Dict{
		"Size":     reader.Integer(len(f.Data)),
		"CheckSum": reader.String{Value: sum[:], Hex: true},
	}
	if !f.ModTime.IsZero() {
		params["ModDate"] = reader.String{Value: []byte(pdfDate(f.ModTime))}
	}
	d := reader.Dict{
		"Type":    reader.Name("EmbeddedFile"),
		"Subtype": reader.Name(mediaType(f.Data)),
		"Params":  params,
	}
	data := f.Data
	if !u.opts.Store {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(f.Data); err != nil {
			return reader.Stream{}, fmt.Errorf("stamp: compressing %s: %w", f.Name, err)
		}
		if err := zw.Close(); err != nil {
			return reader.Stream{}, fmt.Errorf("stamp: compressing %s: %w", f.Name, err)
		}
		data = buf.Bytes()
		d["Filter"] = reader.Name("FlateDecode")
	}
	return reader.Stream{Dict: d, Data: data}, nil
}

// mediaType returns the detected MIME type without parameters.
func mediaType(data []byte) string {
	t, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return strings.TrimSpace(t)
}

func pdfDate(t time.Time) string {
	return "D:" + t.UTC().Format("20060102150405") + "Z"
}

func (u *update) link(links []Link) error {
	if len(links) == 0 {
		return nil
	}
	byPage := map[int][]reader.Reference{}
	var order []int
	for _, l := range links {
		page, err := u.doc.Page(l.Geometry.Page)
		if err != nil {
			return fmt.Errorf("stamp: link target: %w", err)
		}
		r := l.Geometry.Rect.PDF(page.MediaBox.Height())
		annot := reader.Dict{
			"Type":    reader.Name("Annot"),
			"Subtype": reader.Name("Link"),
			"Rect":    reader.Array{coord(r[0]), coord(r[1]), coord(r[2]), coord(r[3])},
			"Border":  reader.Array{reader.Integer(0), reader.Integer(0), reader.Integer(0)},
			"H":       reader.Name("N"),
			"F":       reader.Integer(4),
			"P":       page.Ref,
			"A": reader.Dict{
				"S":  reader.Name("JavaScript"),
				"JS": TextString(l.Action.JavaScript),
			},
		}
		if _, ok := byPage[page.Number]; !ok {
			order = append(order, page.Number)
		}
		byPage[page.Number] = append(byPage[page.Number], u.add(annot))
	}
	for _, n := range order {
		page, _ := u.doc.Page(n)
		var annots reader.Array
		if obj, err := u.doc.Resolve(page.Dict["Annots"]); err == nil {
			if arr, ok := obj.(reader.Array); ok {
				annots = append(annots, arr...)
			}
		}
		for _, ref := range byPage[n] {
			annots = append(annots, ref)
		}
		d := page.Dict.Clone()
		d["Annots"] = annots
		u.replace(page.Ref, d)
	}
	return nil
}

// coord rounds to hundredths of a point.
func coord(v float64) reader.Real {
	return reader.Real(math.Round(v*100) / 100)
}

func (u *update) write(data []byte) ([]byte, error) {
	var b bytes.Buffer
	b.Grow(len(data) + 4096)
	b.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		b.WriteByte('\n')
	}

	offsets := map[int]int{}
	gens := map[int]int{}
	for _, o := range u.objects {
		offsets[o.ref.Number] = b.Len()
		gens[o.ref.Number] = o.ref.Generation
		fmt.Fprintf(&b, "%d %d obj\n", o.ref.Number, o.ref.Generation)
		if err := writeObject(&b, o.obj); err != nil {
			return nil, err
		}
		b.WriteString("\nendobj\n")
	}

	nums := make([]int, 0, len(offsets))
	for n := range offsets {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	xref := b.Len()
	b.WriteString("xref\n")
	for i := 0; i < len(nums); {
		j := i
		for j+1 < len(nums) && nums[j+1] == nums[j]+1 {
			j++
		}
		fmt.Fprintf(&b, "%d %d\n", nums[i], j-i+1)
		for k := i; k <= j; k++ {
			fmt.Fprintf(&b, "%010d %05d n \n", offsets[nums[k]], gens[nums[k]])
		}
		i = j + 1
	}

	old := u.doc.Trailer()
	trailer := reader.Dict{
		"Size": reader.Integer(u.next),
		"Prev": reader.Integer(u.doc.StartXRef()),
	}
	for _, k := range []reader.Name{"Root", "Info", "ID"} {
		if v, ok := old[k]; ok {
			trailer[k] = v
		}
	}
	b.WriteString("trailer\n")
	if err := writeObject(&b, trailer); err != nil {
		return nil, err
	}
	fmt.Fprintf(&b, "\nstartxref\n%d\n%%%%EOF\n", xref)
	return b.Bytes(), nil
}
