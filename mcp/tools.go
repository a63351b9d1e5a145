package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/report"
	"github.com/lvillar/casereport/settings"
)

// RegisterDefaultTools adds the report tools to the server.
func RegisterDefaultTools(s *Server) {
	s.AddTool(generateReportTool(s))
	s.AddTool(validateSettingsTool())
	s.AddTool(inspectReportTool())
}

var settingsProperties = map[string]interface{}{
	"report": map[string]interface{}{
		"type":        "string",
		"description": "Report name: CaseReport (default) or WorkflowSummaryReport",
	},
	"settings": map[string]interface{}{
		"type":        "object",
		"description": "Report settings document",
	},
	"settingsPath": map[string]interface{}{
		"type":        "string",
		"description": "Path to a JSON or YAML settings file, used when settings is omitted",
	},
}

func generateReportTool(s *Server) Tool {
	props := map[string]interface{}{
		"outputPath": map[string]interface{}{
			"type":        "string",
			"description": "Optional output path overriding the Filename setting",
		},
	}
	for k, v := range settingsProperties {
		props[k] = v
	}
	return Tool{
		Name:        "generate_report",
		Description: "Generate a case report or workflow summary PDF from report settings. Attachments are embedded in the PDF and linked from their thumbnails. Returns the generation summary as JSON.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": props,
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			return handleGenerateReport(s.assembler, args)
		},
	}
}

// loadSettings decodes the settings named by the tool arguments.
func loadSettings(args map[string]interface{}) (settings.Settings, error) {
	name, _ := args["report"].(string)
	if name == "" {
		name = string(settings.KindCase)
	}
	kind, err := report.Lookup(name)
	if err != nil {
		return nil, err
	}
	if doc, ok := args["settings"]; ok && doc != nil {
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding settings: %w", err)
		}
		return settings.Decode(bytes.NewReader(data), settings.FormatJSON, kind)
	}
	if path, ok := args["settingsPath"].(string); ok && path != "" {
		return settings.Load(path, kind)
	}
	return nil, fmt.Errorf("missing 'settings' or 'settingsPath' argument")
}

type generateSummary struct {
	RunID         string   `json:"runId"`
	Report        string   `json:"report"`
	Path          string   `json:"path"`
	Pages         int      `json:"pages"`
	EmbeddedFiles int      `json:"embeddedFiles"`
	Links         int      `json:"links"`
	Bytes         int64    `json:"bytes"`
	States        []string `json:"states"`
	DurationMS    int64    `json:"durationMs"`
}

func handleGenerateReport(a *report.Assembler, args map[string]interface{}) (ToolResult, error) {
	s, err := loadSettings(args)
	if err != nil {
		return ToolResult{}, err
	}
	out, _ := args["outputPath"].(string)
	res, err := a.GenerateTo(s, out)
	if err != nil {
		return ToolResult{}, err
	}
	sum := generateSummary{
		RunID:         res.RunID,
		Report:        string(res.Kind),
		Path:          res.Path,
		Pages:         res.Pages,
		EmbeddedFiles: res.EmbeddedFiles,
		Links:         res.Links,
		Bytes:         res.Bytes,
		DurationMS:    res.Duration.Milliseconds(),
	}
	for _, st := range res.States {
		sum.States = append(sum.States, string(st))
	}
	return jsonResult(sum)
}

func validateSettingsTool() Tool {
	return Tool{
		Name:        "validate_settings",
		Description: "Decode and validate report settings without rendering. Returns whether they are valid and the list of failures.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": settingsProperties,
		},
		Handler: handleValidateSettings,
	}
}

func handleValidateSettings(args map[string]interface{}) (ToolResult, error) {
	s, err := loadSettings(args)
	if err != nil {
		return ToolResult{}, err
	}
	result := struct {
		Valid    bool     `json:"valid"`
		Report   string   `json:"report"`
		Failures []string `json:"failures,omitempty"`
	}{Valid: true, Report: string(s.Kind())}

	if err := settings.Validate(s); err != nil {
		result.Valid = false
		var ve *settings.ValidationError
		if errors.As(err, &ve) {
			result.Failures = ve.Failures
		} else {
			result.Failures = []string{err.Error()}
		}
	}
	return jsonResult(result)
}

func inspectReportTool() Tool {
	return Tool{
		Name:        "inspect_report",
		Description: "Inspect a generated report: page count, metadata, embedded files and the link annotations with their scripts.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the PDF file",
				},
			},
			"required": []string{"path"},
		},
		Handler: handleInspectReport,
	}
}

func handleInspectReport(args map[string]interface{}) (ToolResult, error) {
	path, ok := args["path"].(string)
	if !ok || strings.TrimSpace(path) == "" {
		return ToolResult{}, fmt.Errorf("missing 'path' argument")
	}
	ins, err := Inspect(path)
	if err != nil {
		return ToolResult{}, err
	}
	return jsonResult(ins)
}

func jsonResult(v interface{}) (ToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, casereport.NewError("mcp", casereport.ErrIO, err)
	}
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(data)}},
	}, nil
}
