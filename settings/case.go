package settings

// Barcode symbologies the case title page can carry.
const (
	BarcodeQR      = "qr"
	BarcodeCode128 = "code128"
	BarcodePDF417  = "pdf417"
)

// CaseReport describes a case report: a title page followed by the
// attachment pages.
type CaseReport struct {
	Base `yaml:",inline"`

	// CaseBarcode adds a barcode of the case number to the title page.
	CaseBarcode string `json:"CaseBarcode,omitempty" yaml:"CaseBarcode,omitempty" validate:"omitempty,oneof=qr code128 pdf417"`

	Attachments []AttachmentEntry `json:"Attachments" yaml:"Attachments" validate:"min=1"`
}

// Kind implements Settings.
func (*CaseReport) Kind() Kind { return KindCase }

// AttachmentEntry is one item of the attachment list. Every field is
// optional; an entry with no field set contributes nothing.
type AttachmentEntry struct {
	SectionHeader   string `json:"SectionHeader,omitempty" yaml:"SectionHeader,omitempty"`
	ThumbnailPath   string `json:"ThumbnailPath,omitempty" yaml:"ThumbnailPath,omitempty"`
	AttachmentPath  string `json:"AttachmentPath,omitempty" yaml:"AttachmentPath,omitempty"`
	DescriptiveText string `json:"DescriptiveText,omitempty" yaml:"DescriptiveText,omitempty"`
}

func (e AttachmentEntry) IsSection() bool          { return e.SectionHeader != "" }
func (e AttachmentEntry) HasThumbnail() bool       { return e.ThumbnailPath != "" }
func (e AttachmentEntry) HasAttachment() bool      { return e.AttachmentPath != "" }
func (e AttachmentEntry) HasDescriptiveText() bool { return e.DescriptiveText != "" }

// IsEmpty reports whether the entry has no field set.
func (e AttachmentEntry) IsEmpty() bool {
	return !e.IsSection() && !e.HasThumbnail() && !e.HasAttachment() && !e.HasDescriptiveText()
}

// Linked reports whether the entry's thumbnail opens its attachment.
func (e AttachmentEntry) Linked() bool {
	return e.HasThumbnail() && e.HasAttachment()
}
