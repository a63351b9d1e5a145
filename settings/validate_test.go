package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/casereport"
)

func failures(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, casereport.ErrValidation))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	return ve.Failures
}

func TestValidateCaseReport(t *testing.T) {
	c := &CaseReport{
		Base:        Base{Filename: "out.pdf"},
		Attachments: []AttachmentEntry{{DescriptiveText: "note"}},
	}
	assert.NoError(t, Validate(c))
}

func TestValidateMissingFilename(t *testing.T) {
	c := &CaseReport{Attachments: []AttachmentEntry{{DescriptiveText: "note"}}}
	assert.Equal(t, []string{"Filename: is required"}, failures(t, Validate(c)))
}

func TestValidateEmptyAttachments(t *testing.T) {
	c := &CaseReport{Base: Base{Filename: "out.pdf"}}
	assert.Equal(t, []string{"Attachments: must contain at least 1 entry"}, failures(t, Validate(c)))
}

func TestValidateCollectsAllFailures(t *testing.T) {
	c := &CaseReport{CaseBarcode: "ean13"}
	got := failures(t, Validate(c))
	assert.Len(t, got, 3)
	assert.Contains(t, got, "CaseBarcode: must be one of: qr code128 pdf417")
}

func TestValidateMargins(t *testing.T) {
	wide, negative := 400.0, -1.0
	c := &CaseReport{
		Base:        Base{Filename: "out.pdf", PageLeftMargin: &wide, PageRightMargin: &wide},
		Attachments: []AttachmentEntry{{DescriptiveText: "note"}},
	}
	assert.Contains(t, failures(t, Validate(c)), "PageLeftMargin: left and right margins leave no printable width")

	c.PageLeftMargin, c.PageRightMargin = &negative, nil
	got := failures(t, Validate(c))
	assert.Contains(t, got, "PageLeftMargin: must be greater than or equal to 0")
}

func TestValidateWorkflow(t *testing.T) {
	w := &WorkflowSummary{
		Base:       Base{Filename: "summary.pdf"},
		InputFiles: []FileEntry{{Name: ""}},
		Operations: []Operation{{Name: "Crop", Details: []OperationDetail{{Settings: "x"}}}},
	}
	got := failures(t, Validate(w))
	assert.ElementsMatch(t, []string{
		"InputFiles[0].Name: is required",
		"Operations[0].Details[0].Description: is required",
		"OutputFiles: must contain at least 1 entry",
	}, got)
}

func TestValidateNil(t *testing.T) {
	assert.True(t, errors.Is(Validate(nil), casereport.ErrValidation))
}
