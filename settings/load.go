package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lvillar/casereport"
)

// Format is the encoding of a settings document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf picks the format from a file extension: .yaml and .yml are YAML,
// anything else is JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// New returns empty settings of the given kind.
func New(kind Kind) (Settings, error) {
	switch kind {
	case KindCase:
		return &CaseReport{}, nil
	case KindWorkflow:
		return &WorkflowSummary{}, nil
	}
	return nil, casereport.NewError("New", casereport.ErrValidation, fmt.Errorf("unknown report %q", kind))
}

// Load reads and decodes the settings document at path. A missing file is
// reported as casereport.ErrConfigNotFound, a malformed one as
// casereport.ErrConfigParse. Load does not validate.
func Load(path string, kind Kind) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, casereport.NewError("Load", casereport.ErrConfigNotFound, err)
		}
		return nil, casereport.NewError("Load", casereport.ErrIO, err)
	}
	s, err := Decode(bytes.NewReader(data), FormatOf(path), kind)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Decode reads a settings document of the given format. Unknown fields are
// rejected.
func Decode(r io.Reader, format Format, kind Kind) (Settings, error) {
	s, err := New(kind)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
			return nil, casereport.NewError("Decode", casereport.ErrConfigParse, err)
		}
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(s); err != nil {
			return nil, casereport.NewError("Decode", casereport.ErrConfigParse, err)
		}
		if dec.More() {
			return nil, casereport.NewError("Decode", casereport.ErrConfigParse, errors.New("trailing data after settings object"))
		}
	}
	return s, nil
}
