// Package palette packs per-position values into palette-compressed,
// bit-packed containers. Indices are stored low-to-high in 64-bit words,
// floor(64/w) per word, and never straddle a word boundary.
package palette

import (
	"math/bits"

	"github.com/Tnze/go-mc/level"
	"github.com/pkg/errors"
)

// Container is a palette of distinct values plus optional packed indices.
// A nil Data means every position holds Palette[0].
type Container[T any] struct {
	Palette []T
	Data    []int64
}

// Uniform reports whether the container holds a single value everywhere.
func (c Container[T]) Uniform() bool {
	return c.Data == nil
}

// CeilLog2 returns ceil(log2(n)), with CeilLog2(0) == CeilLog2(1) == 0.
func CeilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// WordCount is the number of 64-bit words needed to hold positions fields of
// width bits.
func WordCount(width, positions int) int {
	if width == 0 {
		return 0
	}
	perWord := 64 / width
	return (positions + perWord - 1) / perWord
}

// Build deduplicates at(0..positions-1) in first-seen order and packs the
// palette index of every position at the minimal width.
func Build[T comparable](positions int, at func(int) T) Container[T] {
	index := make(map[T]int)
	values := make([]T, positions)
	var pal []T
	for i := 0; i < positions; i++ {
		v := at(i)
		values[i] = v
		if _, ok := index[v]; !ok {
			index[v] = len(pal)
			pal = append(pal, v)
		}
	}

	width := CeilLog2(len(pal))
	if width == 0 {
		return Container[T]{Palette: pal}
	}

	storage := level.NewBitStorage(width, positions, nil)
	for i, v := range values {
		storage.Set(i, index[v])
	}
	return Container[T]{Palette: pal, Data: toSigned(storage.Raw())}
}

// Decode expands the container back to one value per position.
func (c Container[T]) Decode(positions int) ([]T, error) {
	if len(c.Palette) == 0 {
		return nil, errors.New("empty palette")
	}
	out := make([]T, positions)
	if c.Data == nil {
		for i := range out {
			out[i] = c.Palette[0]
		}
		return out, nil
	}

	width := CeilLog2(len(c.Palette))
	if want := WordCount(width, positions); want != len(c.Data) {
		return nil, errors.Errorf("packed data has %d words, want %d for %d-bit fields", len(c.Data), want, width)
	}
	storage := level.NewBitStorage(width, positions, toUnsigned(c.Data))
	for i := range out {
		idx := storage.Get(i)
		if idx >= len(c.Palette) {
			return nil, errors.Errorf("position %d references palette index %d of %d", i, idx, len(c.Palette))
		}
		out[i] = c.Palette[idx]
	}
	return out, nil
}

// MaxLegacyBits is the widest field legacy block storage ever used; it
// covers the global block state registry.
const MaxLegacyBits = 16

// PaddedLength applies the legacy width rule: when the packed data implies a
// wider field than the palette needs, the palette must grow to
// 2^(observed-1)+1 entries so readers derive the observed width again.
// Data implying more than MaxLegacyBits per entry is rejected.
func PaddedLength(paletteLen, dataLen, positions int) (int, error) {
	if positions <= 0 {
		return paletteLen, nil
	}
	observed := int64(dataLen) * 64 / int64(positions)
	if observed > MaxLegacyBits {
		return 0, errors.Errorf("%d words imply %d-bit fields for %d positions, max %d",
			dataLen, observed, positions, MaxLegacyBits)
	}
	if int(observed) <= CeilLog2(paletteLen) {
		return paletteLen, nil
	}
	return 1<<(int(observed)-1) + 1, nil
}

func toSigned(words []uint64) []int64 {
	out := make([]int64, len(words))
	for i, w := range words {
		out[i] = int64(w)
	}
	return out
}

func toUnsigned(words []int64) []uint64 {
	out := make([]uint64, len(words))
	for i, w := range words {
		out[i] = uint64(w)
	}
	return out
}
