package report_test

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/reader"
	"github.com/lvillar/casereport/report"
	"github.com/lvillar/casereport/settings"
)

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 80, 60))); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func caseSettings(t *testing.T) *settings.CaseReport {
	dir := t.TempDir()
	thumb := writePNG(t, dir, "cam1.png")
	clip := writeFile(t, dir, "cam1.mp4", "not really a video")
	return &settings.CaseReport{
		Base: settings.Base{
			Filename:    filepath.Join(dir, "report.pdf"),
			ReportTitle: "Incident Report",
			CaseNumber:  "2024-0042",
			Agency:      "Metro Police",
			Name:        "Jane Roe",
			Title:       "Detective",
			Pin:         "1234",
			Date:        settings.NewDate(2024, time.March, 5),
			Author:      "Jane Roe",
		},
		Attachments: []settings.AttachmentEntry{
			{SectionHeader: "Cameras"},
			{ThumbnailPath: thumb, AttachmentPath: clip, DescriptiveText: "Front door camera"},
			{DescriptiveText: "No video was recovered from the rear camera."},
		},
	}
}

func fixedClock() time.Time { return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC) }

func parse(t *testing.T, path string) *reader.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := reader.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func pageText(t *testing.T, doc *reader.Document, n int) string {
	t.Helper()
	p, err := doc.Page(n)
	if err != nil {
		t.Fatal(err)
	}
	text, err := p.ExtractText()
	if err != nil {
		t.Fatal(err)
	}
	return text
}

func TestGenerateCaseReport(t *testing.T) {
	s := caseSettings(t)
	res, err := report.New(report.WithCompression(false), report.WithClock(fixedClock)).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Kind != settings.KindCase || res.Path != s.Filename {
		t.Fatalf("result = %+v", res)
	}
	if res.Pages != 2 {
		t.Fatalf("pages = %d, want 2 (title, attachments)", res.Pages)
	}
	if res.EmbeddedFiles != 1 || res.Links != 1 {
		t.Fatalf("embedded = %d links = %d, want 1 and 1", res.EmbeddedFiles, res.Links)
	}
	if res.Attachments == nil || res.Attachments.Thumbnails != 1 {
		t.Fatalf("attachment stats = %+v", res.Attachments)
	}
	want := []report.State{report.StateCreated, report.StateOpened, report.StateTitleRendered, report.StatePaginating, report.StateClosed}
	if !slices.Equal(res.States, want) {
		t.Fatalf("states = %v, want %v", res.States, want)
	}
	if res.RunID == "" {
		t.Fatal("missing run id")
	}

	doc := parse(t, s.Filename)
	if doc.NumPages() != 2 {
		t.Fatalf("document pages = %d", doc.NumPages())
	}
	if text := pageText(t, doc, 1); !strings.Contains(text, "Incident Report") || !strings.Contains(text, "2024-0042") {
		t.Fatalf("title page text = %q", text)
	}
	if text := pageText(t, doc, 2); !strings.Contains(text, "Cameras") || !strings.Contains(text, "Front door camera") || !strings.Contains(text, "Jane Roe, Detective, 1234") {
		t.Fatalf("section page text = %q", text)
	}
	files, err := doc.EmbeddedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Name != "cam1.mp4" || string(files[0].Data) != "not really a video" {
		t.Fatalf("embedded files = %+v", files)
	}
	meta := doc.Metadata()
	if meta["Title"] != "Incident Report" || !strings.Contains(meta["Keywords"], res.RunID) {
		t.Fatalf("metadata = %v", meta)
	}
}

func TestGenerateMixedEntries(t *testing.T) {
	dir := t.TempDir()
	thumb := writePNG(t, dir, "door.png")
	still := writePNG(t, dir, "still.png")
	clip := writeFile(t, dir, "door.mp4", "video")
	s := &settings.CaseReport{
		Base: settings.Base{Filename: filepath.Join(dir, "mixed.pdf"), CaseNumber: "7"},
		Attachments: []settings.AttachmentEntry{
			{SectionHeader: "Evidence", ThumbnailPath: thumb, AttachmentPath: clip, DescriptiveText: "Door camera"},
			{ThumbnailPath: still},
			{DescriptiveText: "Notes"},
		},
	}
	res, err := report.New().Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !slices.Contains(res.States, report.StateTitleRendered) || res.Pages < 2 {
		t.Fatalf("states = %v pages = %d", res.States, res.Pages)
	}

	doc := parse(t, s.Filename)
	files, err := doc.EmbeddedFiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Name != "door.mp4" {
		t.Fatalf("embedded files = %+v", files)
	}
	links := 0
	for _, p := range doc.Pages() {
		annots, err := p.Annotations()
		if err != nil {
			t.Fatal(err)
		}
		for _, a := range annots {
			if a.Subtype == "Link" {
				links++
			}
		}
	}
	if links != 1 || res.Links != 1 || res.EmbeddedFiles != 1 {
		t.Fatalf("links = %d, result = %+v", links, res)
	}
	if res.Attachments.Thumbnails != 2 || res.Attachments.Blocks != 1 {
		t.Fatalf("attachment stats = %+v", res.Attachments)
	}
}

func TestMissingAttachmentIsRenderError(t *testing.T) {
	s := caseSettings(t)
	s.Attachments[1].AttachmentPath = filepath.Join(t.TempDir(), "gone.mp4")
	_, err := report.New().Generate(s)
	if !errors.Is(err, casereport.ErrRender) || errors.Is(err, casereport.ErrIO) {
		t.Fatalf("err = %v, want render error only", err)
	}
}

func TestGenerateWorkflowSummary(t *testing.T) {
	dir := t.TempDir()
	s := &settings.WorkflowSummary{
		Base: settings.Base{Filename: filepath.Join(dir, "summary.pdf")},
		InputFiles: []settings.FileEntry{
			{Name: "raw.avi", Size: 1536, Codec: "h264"},
		},
		Operations: []settings.Operation{
			{Name: "Trim", Details: []settings.OperationDetail{{Description: "Start", Settings: "00:01"}}},
		},
		OutputFiles: []settings.FileEntry{
			{Name: "clip.mp4"},
		},
	}
	res, err := report.New(report.WithCompression(false)).Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := []report.State{report.StateCreated, report.StateOpened, report.StateTitleSkipped, report.StatePaginating, report.StateClosed}
	if !slices.Equal(res.States, want) {
		t.Fatalf("states = %v, want %v", res.States, want)
	}
	if res.Workflow == nil || res.Workflow.InputFiles != 1 || res.Workflow.Operations != 1 || res.Workflow.OutputFiles != 1 {
		t.Fatalf("workflow stats = %+v", res.Workflow)
	}
	text := pageText(t, parse(t, s.Filename), 1)
	for _, want := range []string{"raw.avi", "1.5 KB", "Trim", "clip.mp4"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary text missing %q", want)
		}
	}
}

func TestValidationFailsBeforeCreatingFile(t *testing.T) {
	s := caseSettings(t)
	s.Attachments = nil
	res, err := report.New().Generate(s)
	if !errors.Is(err, casereport.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if _, statErr := os.Stat(s.Filename); !os.IsNotExist(statErr) {
		t.Fatalf("output file was created: %v", statErr)
	}
	if res.State != report.StateClosed {
		t.Fatalf("state = %s", res.State)
	}
}

func TestGenerateToOverridesPath(t *testing.T) {
	s := caseSettings(t)
	out := filepath.Join(t.TempDir(), "override.pdf")
	res, err := report.New().GenerateTo(s, out)
	if err != nil {
		t.Fatal(err)
	}
	if res.Path != out {
		t.Fatalf("path = %s", res.Path)
	}
	if _, err := os.Stat(s.Filename); !os.IsNotExist(err) {
		t.Fatal("settings filename should not be written")
	}
	if info, err := os.Stat(out); err != nil || info.Size() != res.Bytes {
		t.Fatalf("stat = %v, %v; bytes = %d", info, err, res.Bytes)
	}
}

func TestImportedTitlePage(t *testing.T) {
	// A workflow summary has no attachments, so it is plain gofpdf output.
	cover := &settings.WorkflowSummary{
		Base:        settings.Base{Filename: filepath.Join(t.TempDir(), "cover.pdf")},
		InputFiles:  []settings.FileEntry{{Name: "in.avi"}},
		OutputFiles: []settings.FileEntry{{Name: "out.mp4"}},
	}
	if _, err := report.New().Generate(cover); err != nil {
		t.Fatal(err)
	}
	s := caseSettings(t)
	s.TitlePageFilename = cover.Filename
	res, err := report.New().Generate(s)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !slices.Contains(res.States, report.StateTitleSkipped) || slices.Contains(res.States, report.StateTitleRendered) {
		t.Fatalf("states = %v", res.States)
	}
	if res.Pages != 2 {
		t.Fatalf("pages = %d", res.Pages)
	}
}

func TestRenderFailure(t *testing.T) {
	s := caseSettings(t)
	s.FooterImagePath = filepath.Join(t.TempDir(), "missing.png")
	res, err := report.New().Generate(s)
	if !errors.Is(err, casereport.ErrRender) {
		t.Fatalf("err = %v, want render error", err)
	}
	if res.State != report.StateClosed {
		t.Fatalf("state = %s", res.State)
	}
}

func TestUnwritableOutput(t *testing.T) {
	s := caseSettings(t)
	s.Filename = filepath.Join(t.TempDir(), "no", "such", "dir", "report.pdf")
	_, err := report.New().Generate(s)
	if !errors.Is(err, casereport.ErrIO) {
		t.Fatalf("err = %v, want I/O error", err)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"casereport", " WorkflowSummaryReport "} {
		if _, err := report.Lookup(name); err != nil {
			t.Errorf("Lookup(%q): %v", name, err)
		}
	}
	_, err := report.Lookup("invoice")
	if !errors.Is(err, casereport.ErrValidation) || !strings.Contains(err.Error(), "CaseReport, WorkflowSummaryReport") {
		t.Fatalf("err = %v", err)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, next report.State
		want       bool
	}{
		{report.StateNone, report.StateCreated, true},
		{report.StateNone, report.StateOpened, false},
		{report.StateCreated, report.StateOpened, true},
		{report.StateCreated, report.StatePaginating, false},
		{report.StateOpened, report.StateTitleSkipped, true},
		{report.StateTitleRendered, report.StatePaginating, true},
		{report.StatePaginating, report.StateOpened, false},
		{report.StateCreated, report.StateClosed, true},
		{report.StateClosed, report.StateClosed, false},
	}
	for _, tt := range tests {
		if got := report.CanTransition(tt.from, tt.next); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.next, got, tt.want)
		}
	}
}
