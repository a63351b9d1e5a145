package mcp

import (
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// toolText returns the text of the first content block of a tools/call
// response and whether the call reported an error.
func toolText(t *testing.T, resp jsonrpcResponse) (string, bool) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	data, _ := json.Marshal(resp.Result)
	var res ToolResult
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decoding tool result: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	return res.Content[0].Text, res.IsError
}

func caseSettings(t *testing.T) (map[string]interface{}, string) {
	t.Helper()
	dir := t.TempDir()
	clip := filepath.Join(dir, "statement.txt")
	if err := os.WriteFile(clip, []byte("statement"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "report.pdf")
	return map[string]interface{}{
		"Filename":    out,
		"ReportTitle": "MCP Report",
		"CaseNumber":  "24-7",
		"Attachments": []interface{}{
			map[string]interface{}{"SectionHeader": "Statements"},
			map[string]interface{}{"AttachmentPath": clip, "DescriptiveText": "Witness statement"},
		},
	}, out
}

func TestGenerateAndInspectReport(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)
	RegisterDefaultResources(s)

	doc, out := caseSettings(t)
	text, isErr := toolText(t, sendRequest(t, s, "tools/call", 1, map[string]interface{}{
		"name":      "generate_report",
		"arguments": map[string]interface{}{"settings": doc},
	}))
	if isErr {
		t.Fatalf("generate_report failed: %s", text)
	}
	var sum generateSummary
	if err := json.Unmarshal([]byte(text), &sum); err != nil {
		t.Fatalf("summary %q: %v", text, err)
	}
	if sum.Path != out || sum.EmbeddedFiles != 1 || sum.Links != 0 || sum.Report != "CaseReport" {
		t.Fatalf("summary = %+v", sum)
	}

	text, isErr = toolText(t, sendRequest(t, s, "tools/call", 2, map[string]interface{}{
		"name":      "inspect_report",
		"arguments": map[string]interface{}{"path": out},
	}))
	if isErr {
		t.Fatalf("inspect_report failed: %s", text)
	}
	var ins Inspection
	if err := json.Unmarshal([]byte(text), &ins); err != nil {
		t.Fatal(err)
	}
	if ins.Pages != sum.Pages || len(ins.EmbeddedFiles) != 1 || ins.EmbeddedFiles[0].Name != "statement.txt" {
		t.Fatalf("inspection = %+v", ins)
	}
	if ins.Metadata["Title"] != "MCP Report" {
		t.Fatalf("metadata = %v", ins.Metadata)
	}

	resp := sendRequest(t, s, "resources/read", 3, map[string]interface{}{
		"uri": "report://summary?path=" + out,
	})
	if resp.Error != nil {
		t.Fatalf("resources/read: %v", resp.Error.Data)
	}
	data, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(data), "statement.txt (9 B)") {
		t.Fatalf("summary resource = %s", data)
	}
}

func TestGenerateReportLinksThumbnails(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(clip, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	thumb := filepath.Join(dir, "clip.png")
	f, err := os.Create(thumb)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 40, 30))); err != nil {
		t.Fatal(err)
	}
	f.Close()
	out := filepath.Join(dir, "linked.pdf")

	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)
	text, isErr := toolText(t, sendRequest(t, s, "tools/call", 1, map[string]interface{}{
		"name": "generate_report",
		"arguments": map[string]interface{}{
			"settings": map[string]interface{}{
				"Filename": filepath.Join(dir, "ignored.pdf"),
				"Attachments": []interface{}{
					map[string]interface{}{"ThumbnailPath": thumb, "AttachmentPath": clip},
				},
			},
			"outputPath": out,
		},
	}))
	if isErr {
		t.Fatalf("generate_report failed: %s", text)
	}

	ins, err := Inspect(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(ins.Links) != 1 {
		t.Fatalf("links = %+v", ins.Links)
	}
	if want := "this.exportDataObject({ cName: 'clip.mp4', nLaunch: 2 });"; ins.Links[0].Script != want {
		t.Fatalf("script = %q, want %q", ins.Links[0].Script, want)
	}
}

func TestValidateSettings(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	text, _ := toolText(t, sendRequest(t, s, "tools/call", 1, map[string]interface{}{
		"name": "validate_settings",
		"arguments": map[string]interface{}{
			"report":   "WorkflowSummaryReport",
			"settings": map[string]interface{}{"Filename": "out.pdf"},
		},
	}))
	var res struct {
		Valid    bool     `json:"valid"`
		Report   string   `json:"report"`
		Failures []string `json:"failures"`
	}
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		t.Fatal(err)
	}
	if res.Valid || res.Report != "WorkflowSummaryReport" || len(res.Failures) == 0 {
		t.Fatalf("result = %+v", res)
	}

	doc, _ := caseSettings(t)
	text, _ = toolText(t, sendRequest(t, s, "tools/call", 2, map[string]interface{}{
		"name":      "validate_settings",
		"arguments": map[string]interface{}{"settings": doc},
	}))
	if !strings.Contains(text, `"valid": true`) {
		t.Fatalf("result = %s", text)
	}
}

func TestToolArgumentErrors(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	tests := []struct {
		tool string
		args map[string]interface{}
		want string
	}{
		{"generate_report", map[string]interface{}{}, "missing 'settings'"},
		{"generate_report", map[string]interface{}{"report": "Invoice", "settings": map[string]interface{}{}}, "unknown report"},
		{"validate_settings", map[string]interface{}{"settings": map[string]interface{}{"Bogus": 1}}, "Bogus"},
		{"inspect_report", map[string]interface{}{}, "missing 'path'"},
		{"inspect_report", map[string]interface{}{"path": "/no/such/report.pdf"}, "opening PDF"},
	}
	for i, tt := range tests {
		text, isErr := toolText(t, sendRequest(t, s, "tools/call", i+1, map[string]interface{}{
			"name":      tt.tool,
			"arguments": tt.args,
		}))
		if !isErr || !strings.Contains(text, tt.want) {
			t.Errorf("%s %v: text = %q, isError = %v", tt.tool, tt.args, text, isErr)
		}
	}
}

func TestToolErrorsNameKind(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	tests := []struct {
		args map[string]interface{}
		want string
	}{
		{map[string]interface{}{}, "Error (arguments):"},
		{map[string]interface{}{"settings": map[string]interface{}{"Filename": "x.pdf"}}, "Error (validation):"},
		{map[string]interface{}{"settingsPath": "/no/such/settings.json"}, "Error (not_found):"},
		{map[string]interface{}{"settings": map[string]interface{}{"Bogus": 1}}, "Error (parse):"},
	}
	for i, tt := range tests {
		text, isErr := toolText(t, sendRequest(t, s, "tools/call", i+1, map[string]interface{}{
			"name":      "generate_report",
			"arguments": tt.args,
		}))
		if !isErr || !strings.HasPrefix(text, tt.want) {
			t.Errorf("args %v: text = %q, want prefix %q", tt.args, text, tt.want)
		}
	}
}

func TestSummaryResourceUnreadable(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultResources(s)

	resp := sendRequest(t, s, "resources/read", 1, map[string]interface{}{
		"uri": "report://summary?path=/no/such/report.pdf",
	})
	if resp.Error == nil || resp.Error.Code != codeReportUnreadable {
		t.Fatalf("error = %+v, want code %d", resp.Error, codeReportUnreadable)
	}
}
