// Package settings defines the typed report descriptions read from JSON or
// YAML settings documents.
//
// A document describes one report: its identity fields (case number, agency,
// signer), branding images, page margins and the report body. The case report
// body is an ordered list of attachment entries; the workflow summary body is
// a list of input files, operations and output files.
package settings

import (
	"strings"

	"github.com/lvillar/casereport"
)

// Kind names a report variant.
type Kind string

const (
	KindCase     Kind = "CaseReport"
	KindWorkflow Kind = "WorkflowSummaryReport"
)

// Kinds lists every supported report variant.
func Kinds() []Kind { return []Kind{KindCase, KindWorkflow} }

// ParseKind resolves a report name case-insensitively.
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds() {
		if strings.EqualFold(name, string(k)) {
			return k, true
		}
	}
	return "", false
}

// Settings is implemented by every report description.
type Settings interface {
	Common() *Base
	Kind() Kind
}

// Base holds the fields shared by every report variant. Zero-valued optional
// fields are omitted from the rendered report.
type Base struct {
	// Margins in points; nil means casereport.DefaultMargin.
	PageLeftMargin   *float64 `json:"PageLeftMargin,omitempty" yaml:"PageLeftMargin,omitempty" validate:"omitempty,gte=0"`
	PageRightMargin  *float64 `json:"PageRightMargin,omitempty" yaml:"PageRightMargin,omitempty" validate:"omitempty,gte=0"`
	PageTopMargin    *float64 `json:"PageTopMargin,omitempty" yaml:"PageTopMargin,omitempty" validate:"omitempty,gte=0"`
	PageBottomMargin *float64 `json:"PageBottomMargin,omitempty" yaml:"PageBottomMargin,omitempty" validate:"omitempty,gte=0"`

	TitlePageFilename string `json:"TitlePageFilename,omitempty" yaml:"TitlePageFilename,omitempty"`
	ReportTitle       string `json:"ReportTitle,omitempty" yaml:"ReportTitle,omitempty"`
	Filename          string `json:"Filename" yaml:"Filename" validate:"required"`

	CaseNumber string `json:"CaseNumber,omitempty" yaml:"CaseNumber,omitempty"`
	Agency     string `json:"Agency,omitempty" yaml:"Agency,omitempty"`
	AgencyInfo string `json:"AgencyInfo,omitempty" yaml:"AgencyInfo,omitempty"`
	UnitName   string `json:"UnitName,omitempty" yaml:"UnitName,omitempty"`

	Name  string `json:"Name,omitempty" yaml:"Name,omitempty"`
	Title string `json:"Title,omitempty" yaml:"Title,omitempty"`
	Pin   string `json:"Pin,omitempty" yaml:"Pin,omitempty"`

	AdditionalNames []string `json:"AdditionalNames,omitempty" yaml:"AdditionalNames,omitempty"`
	AdditionalInfo  string   `json:"AdditionalInfo,omitempty" yaml:"AdditionalInfo,omitempty"`
	Date            Date     `json:"Date,omitempty" yaml:"Date,omitempty"`

	HeaderImagePath string `json:"HeaderImagePath,omitempty" yaml:"HeaderImagePath,omitempty"`
	FooterImagePath string `json:"FooterImagePath,omitempty" yaml:"FooterImagePath,omitempty"`

	// Document metadata.
	Author  string `json:"Author,omitempty" yaml:"Author,omitempty"`
	Subject string `json:"Subject,omitempty" yaml:"Subject,omitempty"`
}

// Common returns b itself so embedding types satisfy Settings.
func (b *Base) Common() *Base { return b }

// NameTitlePin joins name, title and pin with ", ", skipping empty parts.
func (b *Base) NameTitlePin() string {
	return SignerLine(b.Name, b.Title, b.Pin)
}

// AdditionalNamesLine joins the additional names with ", ".
func (b *Base) AdditionalNamesLine() string {
	return strings.Join(b.AdditionalNames, ", ")
}

// Margins returns the page margins with defaults applied.
func (b *Base) Margins() casereport.Margins {
	m := casereport.DefaultMargins()
	if b.PageLeftMargin != nil {
		m.Left = *b.PageLeftMargin
	}
	if b.PageRightMargin != nil {
		m.Right = *b.PageRightMargin
	}
	if b.PageTopMargin != nil {
		m.Top = *b.PageTopMargin
	}
	if b.PageBottomMargin != nil {
		m.Bottom = *b.PageBottomMargin
	}
	return m
}

// SignerLine formats the signer as "name, title, pin". Empty components and
// their separators are dropped.
func SignerLine(name, title, pin string) string {
	return JoinNonEmpty(name, title, pin)
}

// JoinNonEmpty joins the non-empty parts with ", ".
func JoinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
