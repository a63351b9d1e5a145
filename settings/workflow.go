package settings

import "github.com/shopspring/decimal"

// Default fonts for the workflow summary.
const (
	DefaultHeaderFontFace = "Helvetica"
	DefaultHeaderFontSize = 12.0
	DefaultFontFace       = "Helvetica"
	DefaultFontSize       = 10.0
)

// WorkflowSummary describes the processing summary of a media workflow:
// the files that went in, the operations applied and the files produced.
type WorkflowSummary struct {
	Base `yaml:",inline"`

	HeaderFontFace string  `json:"HeaderFontFace,omitempty" yaml:"HeaderFontFace,omitempty"`
	HeaderFontSize float64 `json:"HeaderFontSize,omitempty" yaml:"HeaderFontSize,omitempty" validate:"gte=0"`
	FontFace       string  `json:"FontFace,omitempty" yaml:"FontFace,omitempty"`
	FontSize       float64 `json:"FontSize,omitempty" yaml:"FontSize,omitempty" validate:"gte=0"`

	InputFiles  []FileEntry `json:"InputFiles" yaml:"InputFiles" validate:"min=1,dive"`
	Operations  []Operation `json:"Operations,omitempty" yaml:"Operations,omitempty" validate:"dive"`
	OutputFiles []FileEntry `json:"OutputFiles" yaml:"OutputFiles" validate:"min=1,dive"`
}

// Kind implements Settings.
func (*WorkflowSummary) Kind() Kind { return KindWorkflow }

// HeaderFont returns the header font face and size with defaults applied.
func (w *WorkflowSummary) HeaderFont() (string, float64) {
	return orDefault(w.HeaderFontFace, DefaultHeaderFontFace), orDefaultSize(w.HeaderFontSize, DefaultHeaderFontSize)
}

// BodyFont returns the body font face and size with defaults applied.
func (w *WorkflowSummary) BodyFont() (string, float64) {
	return orDefault(w.FontFace, DefaultFontFace), orDefaultSize(w.FontSize, DefaultFontSize)
}

// FileEntry describes one media file.
type FileEntry struct {
	Name         string          `json:"Name" yaml:"Name" validate:"required"`
	Path         string          `json:"Path,omitempty" yaml:"Path,omitempty"`
	Hash         string          `json:"Hash,omitempty" yaml:"Hash,omitempty"`
	Size         int64           `json:"Size,omitempty" yaml:"Size,omitempty" validate:"gte=0"`
	VideoStreams int             `json:"VideoStreams,omitempty" yaml:"VideoStreams,omitempty" validate:"gte=0"`
	AudioStreams int             `json:"AudioStreams,omitempty" yaml:"AudioStreams,omitempty" validate:"gte=0"`
	Codec        string          `json:"Codec,omitempty" yaml:"Codec,omitempty"`
	PixelFormat  string          `json:"PixelFormat,omitempty" yaml:"PixelFormat,omitempty"`
	FrameRate    decimal.Decimal `json:"FrameRate,omitempty" yaml:"FrameRate,omitempty"`
	SAR          string          `json:"SAR,omitempty" yaml:"SAR,omitempty"`
}

// Operation is one processing step with its parameter details.
type Operation struct {
	Name    string            `json:"Name" yaml:"Name" validate:"required"`
	Details []OperationDetail `json:"Details,omitempty" yaml:"Details,omitempty" validate:"dive"`
}

// OperationDetail is a single described setting of an operation.
type OperationDetail struct {
	Description string `json:"Description" yaml:"Description" validate:"required"`
	Settings    string `json:"Settings,omitempty" yaml:"Settings,omitempty"`
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orDefaultSize(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
