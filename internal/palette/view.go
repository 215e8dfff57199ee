package palette

// View reads a stored palette/data pair without validating it. Legacy block
// storage always uses at least 4 bits per entry, so callers pass minBits.
type View[T any] struct {
	palette []T
	data    []int64
	bits    int
	mask    uint64
	perWord int
}

func NewView[T any](palette []T, data []int64, minBits int) *View[T] {
	width := max(minBits, CeilLog2(len(palette)))
	if width <= 0 {
		width = 1
	}
	return &View[T]{
		palette: palette,
		data:    data,
		bits:    width,
		mask:    1<<width - 1,
		perWord: 64 / width,
	}
}

// At returns the value at position i. It reports false for an empty palette
// or when the data is too short or references a missing palette entry.
func (v *View[T]) At(i int) (T, bool) {
	var zero T
	switch len(v.palette) {
	case 0:
		return zero, false
	case 1:
		return v.palette[0], true
	}
	word := i / v.perWord
	if i < 0 || word >= len(v.data) {
		return zero, false
	}
	shift := (i - word*v.perWord) * v.bits
	idx := int(uint64(v.data[word]) >> shift & v.mask)
	if idx >= len(v.palette) {
		return zero, false
	}
	return v.palette[idx], true
}
