package casereport

// Page dimensions in points. Reports are always US Letter portrait.
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0

	// DefaultMargin is applied to any margin the settings leave unset.
	DefaultMargin = 36.0
)

// PageSize is a page width and height in points.
type PageSize struct {
	W, H float64
}

// Letter is the only page size reports use.
var Letter = PageSize{W: LetterWidth, H: LetterHeight}

// Margins holds the four page margins in points.
type Margins struct {
	Left, Right, Top, Bottom float64
}

// DefaultMargins returns DefaultMargin on every side.
func DefaultMargins() Margins {
	return Margins{Left: DefaultMargin, Right: DefaultMargin, Top: DefaultMargin, Bottom: DefaultMargin}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner
// of the page, y growing downward, in points.
type Rect struct {
	X, Y, W, H float64
}

// PDF converts r into PDF user-space corners (origin bottom-left) for a page
// of height pageH: llx, lly, urx, ury.
func (r Rect) PDF(pageH float64) [4]float64 {
	return [4]float64{r.X, pageH - r.Y - r.H, r.X + r.W, pageH - r.Y}
}

// Geometry is a placed rectangle together with the 1-based page it is on.
type Geometry struct {
	Page int
	Rect Rect
}

// Printable returns the area of size inside m.
func (s PageSize) Printable(m Margins) Rect {
	return Rect{X: m.Left, Y: m.Top, W: s.W - m.Left - m.Right, H: s.H - m.Top - m.Bottom}
}
