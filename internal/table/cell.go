package table

import (
	"strconv"
	"time"

	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/duration"
)

// Cell is the content of one table field: display text plus an optional
// numeric sort key. Cells without a key sort by their text.
type Cell struct {
	Text string
	key  *float64
}

// Extractor derives one column's cell from a listed item. Returning false
// leaves the cell empty; the row itself is always kept.
type Extractor[T any] func(item *T) (Cell, bool)

// Text returns a cell that sorts lexically.
func Text(s string) Cell {
	return Cell{Text: s}
}

// Number returns a cell displayed as text and sorted by key.
func Number(text string, key float64) Cell {
	return Cell{Text: text, key: &key}
}

// Int returns a cell for an integer count.
func Int(n int64) Cell {
	return Number(strconv.FormatInt(n, 10), float64(n))
}

// Quantity returns a cell for a resource quantity such as "10Gi" or "250m",
// sorted by its numeric value.
func Quantity(q resource.Quantity) Cell {
	return Number(q.String(), q.AsApproximateFloat64())
}

// Age returns a cell showing how long ago t was, in kubectl's compact form
// ("5m", "3d"). It sorts by the elapsed seconds, so younger objects sort first.
func Age(t, now time.Time) Cell {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	return Number(duration.HumanDuration(d), d.Seconds())
}

// Key returns the numeric sort key, if any.
func (c Cell) Key() (float64, bool) {
	if c.key == nil {
		return 0, false
	}
	return *c.key, true
}

// Less orders two cells of the same column: numerically when both carry a
// key, by display text when neither does. A cell without a key sorts before
// one with a key, so empty cells in a numeric column come first.
func Less(a, b Cell) bool {
	ak, aok := a.Key()
	bk, bok := b.Key()
	switch {
	case aok && bok:
		return ak < bk
	case aok != bok:
		return !aok
	default:
		return a.Text < b.Text
	}
}
