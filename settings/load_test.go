package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/casereport"
)

const caseJSON = `{
  "Filename": "out.pdf",
  "ReportTitle": "Video Evidence",
  "CaseNumber": "2024-0117",
  "Name": "Jane Doe",
  "Pin": "4411",
  "PageLeftMargin": 54,
  "Date": "2024-03-05T00:00:00",
  "Attachments": [
    {"SectionHeader": "Camera 1"},
    {"ThumbnailPath": "thumb.png", "AttachmentPath": "clip.mp4", "DescriptiveText": "Front door"}
  ]
}`

const caseYAML = `
Filename: out.pdf
CaseNumber: 2024-0117
CaseBarcode: qr
Attachments:
  - SectionHeader: Camera 1
  - ThumbnailPath: thumb.png
    AttachmentPath: clip.mp4
`

const workflowJSON = `{
  "Filename": "summary.pdf",
  "InputFiles": [{"Name": "in.avi", "Size": 1536, "FrameRate": 29.97}],
  "Operations": [{"Name": "Transcode", "Details": [{"Description": "codec", "Settings": "h264"}]}],
  "OutputFiles": [{"Name": "out.mp4", "FrameRate": "30000"}]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	s, err := Load(writeFile(t, "case.json", caseJSON), KindCase)
	require.NoError(t, err)

	c, ok := s.(*CaseReport)
	require.True(t, ok)
	assert.Equal(t, "out.pdf", c.Filename)
	assert.Equal(t, "Jane Doe, 4411", c.NameTitlePin())
	assert.Equal(t, 54.0, c.Margins().Left)
	assert.Equal(t, "Tuesday, March 5, 2024", c.Date.Long())
	require.Len(t, c.Attachments, 2)
	assert.True(t, c.Attachments[0].IsSection())
	assert.True(t, c.Attachments[1].Linked())
}

func TestLoadYAML(t *testing.T) {
	s, err := Load(writeFile(t, "case.yaml", caseYAML), KindCase)
	require.NoError(t, err)

	c := s.(*CaseReport)
	assert.Equal(t, "2024-0117", c.CaseNumber)
	assert.Equal(t, BarcodeQR, c.CaseBarcode)
	assert.Len(t, c.Attachments, 2)
}

func TestLoadWorkflow(t *testing.T) {
	s, err := Load(writeFile(t, "wf.json", workflowJSON), KindWorkflow)
	require.NoError(t, err)

	w := s.(*WorkflowSummary)
	require.Len(t, w.InputFiles, 1)
	assert.Equal(t, "29.97", w.InputFiles[0].FrameRate.String())
	assert.Equal(t, int64(1536), w.InputFiles[0].Size)
	assert.Equal(t, "codec", w.Operations[0].Details[0].Description)
	assert.NoError(t, Validate(w))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), KindCase)
	require.Error(t, err)
	assert.True(t, errors.Is(err, casereport.ErrConfigNotFound))
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"Filename":"a.pdf","Atachments":[]}`), FormatJSON, KindCase)
	require.Error(t, err)
	assert.True(t, errors.Is(err, casereport.ErrConfigParse))

	_, err = Decode(strings.NewReader("Filename: a.pdf\nColour: red\n"), FormatYAML, KindCase)
	require.Error(t, err)
	assert.True(t, errors.Is(err, casereport.ErrConfigParse))
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"Filename":`), FormatJSON, KindCase)
	assert.True(t, errors.Is(err, casereport.ErrConfigParse))

	_, err = Decode(strings.NewReader(`{} {}`), FormatJSON, KindCase)
	assert.True(t, errors.Is(err, casereport.ErrConfigParse))
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("a.YML"))
	assert.Equal(t, FormatYAML, FormatOf("dir/a.yaml"))
	assert.Equal(t, FormatJSON, FormatOf("a.json"))
	assert.Equal(t, FormatJSON, FormatOf("settings"))
}
