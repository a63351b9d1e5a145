package decorate_test

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/decorate"
	"github.com/lvillar/casereport/reader"
	"github.com/lvillar/casereport/render"
	"github.com/lvillar/casereport/table"
)

func build(t *testing.T, d decorate.Decorator, pages int) ([]byte, error) {
	t.Helper()
	w, err := render.Open(casereport.Letter, casereport.DefaultMargins())
	if err != nil {
		t.Fatal(err)
	}
	decorate.Register(w, d)
	for i := 0; i < pages; i++ {
		if err := w.NewPage(); err != nil {
			t.Fatal(err)
		}
		body := table.New(1)
		body.AddTextf("body %d", i+1)
		if err := w.AddBlock(body); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	_, err = w.Close(&buf)
	return buf.Bytes(), err
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFooterText(t *testing.T) {
	data, err := build(t, decorate.Footer{FirstPageText: "2024-0001", Text: "Jane Roe, Detective, 4411"}, 3)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	doc, err := reader.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if doc.NumPages() != 3 {
		t.Fatalf("pages = %d", doc.NumPages())
	}
	for n, p := range doc.Pages() {
		text, err := p.ExtractText()
		if err != nil {
			t.Fatal(err)
		}
		want := "Jane Roe, Detective, 4411"
		if n == 1 {
			want = "2024-0001"
		}
		if !strings.Contains(text, want) {
			t.Errorf("page %d text %q lacks %q", n, text, want)
		}
		if !strings.Contains(text, fmt.Sprintf("Page %d", n)) {
			t.Errorf("page %d text %q lacks page number", n, text)
		}
		if n != 1 && strings.Contains(text, "2024-0001") {
			t.Errorf("page %d shows first-page text", n)
		}
	}
}

func TestFooterImage(t *testing.T) {
	logo := writePNG(t, 120, 60)
	data, err := build(t, decorate.Footer{Text: "x", ImagePath: logo}, 2)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	doc, err := reader.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := doc.Page(2)
	content, _ := p.ContentStream()
	if !bytes.Contains(content, []byte(" Do")) {
		t.Error("footer image not drawn")
	}
}

func TestFooterMissingImage(t *testing.T) {
	_, err := build(t, decorate.Footer{ImagePath: filepath.Join(t.TempDir(), "nope.png")}, 1)
	if err == nil || !strings.Contains(err.Error(), "footer image") {
		t.Fatalf("err = %v", err)
	}
}

func TestHeaderFooterBands(t *testing.T) {
	data, err := build(t, decorate.HeaderFooter{LogoPath: writePNG(t, 200, 100)}, 1)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	doc, err := reader.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := doc.Page(1)
	content, err := p.ContentStream()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"0.255 0.694 0.882 rg",
		"0.00 792.00 612.00 -36.00 re f",
		"0.00 36.00 612.00 -36.00 re f",
		" Do",
	} {
		if !bytes.Contains(content, []byte(want)) {
			t.Errorf("content lacks %q", want)
		}
	}
	if text, _ := p.ExtractText(); strings.Contains(text, "Page") {
		t.Errorf("header/footer bands carry text: %q", text)
	}
}

func TestFuncAndNil(t *testing.T) {
	calls := 0
	if _, err := build(t, decorate.Func(func(render.Page) { calls++ }), 2); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if _, err := build(t, nil, 1); err != nil {
		t.Fatal(err)
	}
}
