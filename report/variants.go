package report

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/decorate"
	"github.com/lvillar/casereport/paginate"
	"github.com/lvillar/casereport/render"
	"github.com/lvillar/casereport/settings"
	"github.com/lvillar/casereport/titlepage"
	"github.com/lvillar/casereport/workflow"
)

// Variant is a report type: its title page, page decoration and body.
type Variant struct {
	Kind settings.Kind
	// TitlePage returns the synthesized title page; nil when the report has
	// none.
	TitlePage func(s settings.Settings) titlepage.Renderer
	Decorator func(s settings.Settings) decorate.Decorator
	Body      func(w *render.Writer, s settings.Settings, log *zap.Logger, res *Result) error
}

var variants = map[settings.Kind]Variant{
	settings.KindCase: {
		Kind: settings.KindCase,
		TitlePage: func(s settings.Settings) titlepage.Renderer {
			return titlepage.FromSettings(s.(*settings.CaseReport))
		},
		Decorator: func(s settings.Settings) decorate.Decorator {
			b := s.Common()
			return decorate.Footer{
				FirstPageText: b.CaseNumber,
				Text:          b.NameTitlePin(),
				ImagePath:     b.FooterImagePath,
			}
		},
		Body: func(w *render.Writer, s settings.Settings, log *zap.Logger, res *Result) error {
			st, err := paginate.New(w, log).Paginate(s.(*settings.CaseReport).Attachments)
			res.Attachments = &st
			return err
		},
	},
	settings.KindWorkflow: {
		Kind: settings.KindWorkflow,
		Decorator: func(s settings.Settings) decorate.Decorator {
			return decorate.HeaderFooter{LogoPath: s.Common().HeaderImagePath}
		},
		Body: func(w *render.Writer, s settings.Settings, log *zap.Logger, res *Result) error {
			st, err := workflow.Body{Settings: s.(*settings.WorkflowSummary), Log: log}.Render(w)
			res.Workflow = &st
			return err
		},
	},
}

// Lookup resolves a report name, case-insensitively, to its settings kind.
func Lookup(name string) (settings.Kind, error) {
	if kind, ok := settings.ParseKind(strings.TrimSpace(name)); ok {
		if _, ok := variants[kind]; ok {
			return kind, nil
		}
	}
	return "", casereport.NewError("Lookup", casereport.ErrValidation,
		fmt.Errorf("unknown report %q (known: %s)", name, strings.Join(Names(), ", ")))
}

// VariantOf returns the variant registered for kind.
func VariantOf(kind settings.Kind) (Variant, bool) {
	v, ok := variants[kind]
	return v, ok
}

// Names lists the registered report names in sorted order.
func Names() []string {
	names := make([]string, 0, len(variants))
	for k := range variants {
		names = append(names, string(k))
	}
	slices.Sort(names)
	return names
}
