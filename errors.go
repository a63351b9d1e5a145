package casereport

import (
	"errors"
	"fmt"
)

// Error kinds shared by every stage of report generation. Match them with
// errors.Is.
var (
	ErrConfigNotFound = errors.New("casereport: settings file not found")
	ErrConfigParse    = errors.New("casereport: settings file could not be parsed")
	ErrValidation     = errors.New("casereport: settings are invalid")
	ErrRender         = errors.New("casereport: document rendering failed")
	ErrIO             = errors.New("casereport: output could not be written")
)

// Error represents a failure in a specific generation step. Kind is one of
// the sentinel errors above and Err is the underlying cause.
type Error struct {
	Op   string // step name, e.g. "Load", "Generate", "Close"
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("casereport.%s: %v: %v", e.Op, kindText(e.Kind), e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("casereport.%s: %v", e.Op, kindText(e.Kind))
	}
	return fmt.Sprintf("casereport.%s: unknown error", e.Op)
}

// Unwrap exposes both the kind and the cause so errors.Is and errors.As see
// through the wrapper.
func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewError wraps err with an operation name and error kind.
func NewError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the sentinel kind of err, or nil if err carries none.
func KindOf(err error) error {
	for _, k := range []error{ErrConfigNotFound, ErrConfigParse, ErrValidation, ErrRender, ErrIO} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

func kindText(kind error) string {
	if kind == nil {
		return "error"
	}
	const prefix = "casereport: "
	s := kind.Error()
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}
