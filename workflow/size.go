package workflow

import (
	"github.com/shopspring/decimal"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// HumanSize formats n bytes with 1024-based units and at most one decimal,
// e.g. "512 B", "1.5 KB", "1 MB". Sizes beyond terabytes stay in TB.
func HumanSize(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	v := decimal.NewFromInt(n)
	k := decimal.NewFromInt(1024)
	unit := 0
	for unit < len(sizeUnits)-1 && v.GreaterThanOrEqual(k) {
		v = v.Div(k)
		unit++
	}
	return v.Round(1).String() + " " + sizeUnits[unit]
}
