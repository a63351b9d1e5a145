package workflow_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/reader"
	"github.com/lvillar/casereport/render"
	"github.com/lvillar/casereport/settings"
	"github.com/lvillar/casereport/table"
	"github.com/lvillar/casereport/workflow"
)

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1 KB"},
		{1100, "1.1 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1 MB"},
		{3 << 19, "1.5 MB"},
		{1 << 30, "1 GB"},
		{1 << 40, "1 TB"},
		{5 << 50, "5120 TB"},
	}
	for _, tt := range tests {
		if got := workflow.HumanSize(tt.n); got != tt.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFileLines(t *testing.T) {
	f := settings.FileEntry{
		Name:         "in.mp4",
		Hash:         "d41d8cd98f00b204e9800998ecf8427e",
		Size:         1536,
		VideoStreams: 1,
		AudioStreams: 2,
		Codec:        "h264",
		PixelFormat:  "yuv420p",
		FrameRate:    decimal.RequireFromString("29.97"),
		SAR:          "1:1",
	}
	got := workflow.FileLines("Input", 3, f)
	want := []string{
		"Input #3 Name: in.mp4",
		"MD5 Hash: d41d8cd98f00b204e9800998ecf8427e",
		"Video Streams: 1",
		"Audio Streams: 2",
		"Format: h264",
		"File Size: 1.5 KB",
		"Pixel Format: yuv420p",
		"Frame Rate: 29.97",
		"SAR: 1:1",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("FileLines:\n%s", strings.Join(got, "\n"))
	}
}

func TestOperationLines(t *testing.T) {
	got := workflow.OperationLines(settings.Operation{
		Name: "Trim",
		Details: []settings.OperationDetail{
			{Description: "Start", Settings: "00:01:00"},
			{Description: "End", Settings: "00:02:30"},
		},
	})
	if strings.Join(got, "|") != "Trim|Start: 00:01:00|End: 00:02:30" {
		t.Errorf("OperationLines = %q", got)
	}
}

func TestSummaryTableShape(t *testing.T) {
	font := table.FontSpec{Family: "Helvetica", Size: 10}
	files := []settings.FileEntry{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	tbl := workflow.FileTable("Input", files, font, font)
	if tbl.Len() != 4 || len(tbl.Rows()) != 2 {
		t.Errorf("cells %d, rows %d", tbl.Len(), len(tbl.Rows()))
	}
	empty := workflow.OperationTable(nil, font, font)
	if empty.Len() != 2 || len(empty.Rows()) != 1 {
		t.Errorf("empty table: cells %d, rows %d", empty.Len(), len(empty.Rows()))
	}
}

func TestBodyRender(t *testing.T) {
	s := &settings.WorkflowSummary{
		HeaderFontFace: "Calibri",
		InputFiles:     []settings.FileEntry{{Name: "in1.mp4", Size: 2048}, {Name: "in2.mp4"}},
		Operations: []settings.Operation{
			{Name: "Trim", Details: []settings.OperationDetail{{Description: "Start", Settings: "00:01"}}},
		},
		OutputFiles: []settings.FileEntry{{Name: "out.mp4"}},
	}
	w, err := render.Open(casereport.Letter, casereport.DefaultMargins())
	if err != nil {
		t.Fatal(err)
	}
	st, err := workflow.Body{Settings: s}.Render(w)
	if err != nil {
		t.Fatal(err)
	}
	if st.InputFiles != 2 || st.Operations != 1 || st.OutputFiles != 1 {
		t.Errorf("stats = %+v", st)
	}
	var buf bytes.Buffer
	if _, err := w.Close(&buf); err != nil {
		t.Fatal(err)
	}
	doc, err := reader.Parse(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	p, _ := doc.Page(1)
	text, _ := p.ExtractText()
	for _, want := range []string{
		"Input #1 Name: in1.mp4", "File Size: 2 KB", "Input #2 Name: in2.mp4",
		"Trim", "Start: 00:01", "Output #1 Name: out.mp4",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("page lacks %q", want)
		}
	}
	content, _ := p.ContentStream()
	if got := bytes.Count(content, []byte("re f")); got != 2 {
		t.Errorf("rules = %d, want 2", got)
	}
}
