package settings

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/lvillar/casereport"
)

// ValidationError lists every rule a settings document breaks. It matches
// casereport.ErrValidation with errors.Is.
type ValidationError struct {
	Failures []string
}

func (e *ValidationError) Error() string {
	return "settings: " + strings.Join(e.Failures, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == casereport.ErrValidation
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// Report JSON field names in failures.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterStructValidation(validateMargins, Base{})
		validate = v
	})
	return validate
}

// validateMargins rejects margins that leave no printable area.
func validateMargins(sl validator.StructLevel) {
	b := sl.Current().Interface().(Base)
	m := b.Margins()
	if m.Left+m.Right >= casereport.LetterWidth {
		sl.ReportError(m.Left, "PageLeftMargin", "PageLeftMargin", "printable_width", "")
	}
	if m.Top+m.Bottom >= casereport.LetterHeight {
		sl.ReportError(m.Top, "PageTopMargin", "PageTopMargin", "printable_height", "")
	}
}

// Validate checks s against the rules of its report kind. The returned error
// is a *ValidationError wrapped in a *casereport.Error.
func Validate(s Settings) error {
	if s == nil {
		return casereport.NewError("Validate", casereport.ErrValidation, errors.New("no settings"))
	}
	err := engine().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return casereport.NewError("Validate", casereport.ErrValidation, err)
	}
	ve := &ValidationError{}
	for _, fe := range fieldErrs {
		ve.Failures = append(ve.Failures, fmt.Sprintf("%s: %s", fieldPath(fe), message(fe)))
	}
	return casereport.NewError("Validate", casereport.ErrValidation, ve)
}

// fieldPath drops the top-level struct name and the embedded Base from the
// namespace: "CaseReport.Base.Filename" becomes "Filename".
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	kept := parts[:0]
	for _, p := range parts {
		if p != "Base" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ".")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if k := fe.Kind(); k == reflect.Slice || k == reflect.Array {
			return "must contain at least " + fe.Param() + " entry"
		}
		return "must be at least " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "printable_width":
		return "left and right margins leave no printable width"
	case "printable_height":
		return "top and bottom margins leave no printable height"
	default:
		return "is invalid"
	}
}
