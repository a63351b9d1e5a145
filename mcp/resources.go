package mcp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/lvillar/casereport/reader"
	"github.com/lvillar/casereport/workflow"
)

// RegisterDefaultResources adds the report resources to the server.
func RegisterDefaultResources(s *Server) {
	s.AddResource(Resource{
		URI:         "report://summary",
		Name:        "Report Summary",
		Description: "Plain text summary of a generated report: pages, embedded files and links. Pass the file path as a query parameter: report://summary?path=/path/to/report.pdf",
		MIMEType:    "text/plain",
		Handler:     handleSummaryResource,
	})
}

// Inspection describes a generated report.
type Inspection struct {
	Path          string            `json:"path"`
	Version       string            `json:"version"`
	Pages         int               `json:"pages"`
	Metadata      map[string]string `json:"metadata"`
	EmbeddedFiles []InspectedFile   `json:"embeddedFiles"`
	Links         []InspectedLink   `json:"links"`
}

// InspectedFile is one embedded file.
type InspectedFile struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Size        int64  `json:"size"`
}

// InspectedLink is one link annotation.
type InspectedLink struct {
	Page   int        `json:"page"`
	Rect   [4]float64 `json:"rect"`
	Action string     `json:"action"`
	Script string     `json:"script,omitempty"`
	URI    string     `json:"uri,omitempty"`
}

// Inspect reads the report at path.
func Inspect(path string) (*Inspection, error) {
	doc, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	ins := &Inspection{
		Path:          path,
		Version:       doc.Version,
		Pages:         doc.NumPages(),
		Metadata:      doc.Metadata(),
		EmbeddedFiles: []InspectedFile{},
		Links:         []InspectedLink{},
	}
	files, err := doc.EmbeddedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading embedded files: %w", err)
	}
	for _, f := range files {
		size := f.Size
		if size == 0 {
			size = int64(len(f.Data))
		}
		ins.EmbeddedFiles = append(ins.EmbeddedFiles, InspectedFile{Name: f.Name, Description: f.Description, Size: size})
	}
	for n, page := range doc.Pages() {
		annots, err := page.Annotations()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		for _, a := range annots {
			if a.Subtype != "Link" {
				continue
			}
			ins.Links = append(ins.Links, InspectedLink{
				Page:   n,
				Rect:   [4]float64{a.Rect.LLX, a.Rect.LLY, a.Rect.URX, a.Rect.URY},
				Action: string(a.Action),
				Script: a.JavaScript,
				URI:    a.URI,
			})
		}
	}
	return ins, nil
}

// Summary renders ins as text.
func (ins *Inspection) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", ins.Path)
	if t := ins.Metadata["Title"]; t != "" {
		fmt.Fprintf(&b, "Title: %s\n", t)
	}
	fmt.Fprintf(&b, "Pages: %d\n", ins.Pages)
	fmt.Fprintf(&b, "Embedded files: %d\n", len(ins.EmbeddedFiles))
	for _, f := range ins.EmbeddedFiles {
		fmt.Fprintf(&b, "  %s (%s)\n", f.Name, workflow.HumanSize(f.Size))
	}
	fmt.Fprintf(&b, "Links: %d\n", len(ins.Links))
	for _, l := range ins.Links {
		target := l.Script
		if target == "" {
			target = l.URI
		}
		fmt.Fprintf(&b, "  page %d: %s\n", l.Page, target)
	}
	return b.String()
}

func pathFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Query().Get("path")
}

func handleSummaryResource(uri string) ([]ResourceContent, error) {
	path := pathFromURI(uri)
	if path == "" {
		return nil, fmt.Errorf("missing 'path' parameter in URI")
	}
	ins, err := Inspect(path)
	if err != nil {
		return nil, err
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "text/plain",
		Text:     ins.Summary(),
	}}, nil
}
