// Package casereport holds the types shared by the report packages: page
// geometry and the error kinds returned by every generation step.
//
// Reports are produced by the report package from settings loaded by the
// settings package:
//
//	s, err := settings.Load("case.json", settings.KindCase)
//	if err != nil {
//		return err
//	}
//	res, err := report.New().Generate(s)
//
// The generated PDF contains an optional title page, attachment pages laid
// out in two columns, embedded copies of every attachment and clickable
// thumbnails that open them in the viewer.
package casereport
