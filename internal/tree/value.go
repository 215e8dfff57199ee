// Package tree implements the immutable record tree that every fix reads and
// writes. A Value is a closed tagged variant mirroring the NBT tag set; all
// edits return a new Value and never alias the receiver's storage.
package tree

// Kind enumerates the variants a Value can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindByteArray
	KindIntArray
	KindLongArray
	KindList
	KindMap
)

var kindNames = [...]string{
	KindNull:      "null",
	KindByte:      "byte",
	KindShort:     "short",
	KindInt:       "int",
	KindLong:      "long",
	KindFloat:     "float",
	KindDouble:    "double",
	KindString:    "string",
	KindByteArray: "byte_array",
	KindIntArray:  "int_array",
	KindLongArray: "long_array",
	KindList:      "list",
	KindMap:       "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Entry is one key/value binding of a map Value.
type Entry struct {
	Key   string
	Value Value
}

// Value is the semi-structured tree node. The zero Value is Null.
type Value struct {
	kind Kind
	num  int64
	fnum float64
	ref  any // string, []int8, []int32, []int64, []Value or []Entry depending on kind
}

// Null returns the absent value.
func Null() Value { return Value{} }

func Byte(v int8) Value { return Value{kind: KindByte, num: int64(v)} }
func Short(v int16) Value { return Value{kind: KindShort, num: int64(v)} }
func Int(v int32) Value { return Value{kind: KindInt, num: int64(v)} }
func Long(v int64) Value { return Value{kind: KindLong, num: v} }
func Float(v float32) Value { return Value{kind: KindFloat, fnum: float64(v)} }
func Double(v float64) Value { return Value{kind: KindDouble, fnum: v} }
func String(v string) Value { return Value{kind: KindString, ref: v} }

// Bool encodes a boolean the way NBT does, as a byte of 0 or 1.
func Bool(v bool) Value {
	if v {
		return Byte(1)
	}
	return Byte(0)
}

func ByteArray(v []int8) Value {
	return Value{kind: KindByteArray, ref: append([]int8{}, v...)}
}

func IntArray(v []int32) Value {
	return Value{kind: KindIntArray, ref: append([]int32{}, v...)}
}

func LongArray(v []int64) Value {
	return Value{kind: KindLongArray, ref: append([]int64{}, v...)}
}

// List builds an ordered sequence.
func List(items ...Value) Value {
	return Value{kind: KindList, ref: append([]Value{}, items...)}
}

// Map builds a map from entries in order. Later duplicates replace earlier
// bindings in place.
func Map(entries ...Entry) Value {
	out := Value{kind: KindMap, ref: []Entry{}}
	for _, e := range entries {
		out = out.Set(e.Key, e.Value)
	}
	return out
}

// EmptyMap and EmptyList are the type-appropriate empty values.
func EmptyMap() Value { return Value{kind: KindMap, ref: []Entry{}} }
func EmptyList() Value { return Value{kind: KindList, ref: []Value{}} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsMap() bool { return v.kind == KindMap }
func (v Value) IsList() bool { return v.kind == KindList }
func (v Value) IsNumber() bool { return v.kind >= KindByte && v.kind <= KindDouble }

func (v Value) entries() []Entry {
	if v.kind != KindMap {
		return nil
	}
	e, _ := v.ref.([]Entry)
	return e
}

func (v Value) items() []Value {
	if v.kind != KindList {
		return nil
	}
	i, _ := v.ref.([]Value)
	return i
}

// Len reports the number of children of a list or map, the element count of
// an array, and zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items())
	case KindMap:
		return len(v.entries())
	case KindByteArray:
		return len(v.ref.([]int8))
	case KindIntArray:
		return len(v.ref.([]int32))
	case KindLongArray:
		return len(v.ref.([]int64))
	}
	return 0
}

// Equal reports deep equality of kind and content. Map comparison is
// insensitive to entry order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindByte, KindShort, KindInt, KindLong:
		return a.num == b.num
	case KindFloat, KindDouble:
		return a.fnum == b.fnum
	case KindString:
		return a.ref.(string) == b.ref.(string)
	case KindByteArray:
		return equalSlices(a.ref.([]int8), b.ref.([]int8))
	case KindIntArray:
		return equalSlices(a.ref.([]int32), b.ref.([]int32))
	case KindLongArray:
		return equalSlices(a.ref.([]int64), b.ref.([]int64))
	case KindList:
		ai, bi := a.items(), b.items()
		if len(ai) != len(bi) {
			return false
		}
		for i := range ai {
			if !Equal(ai[i], bi[i]) {
				return false
			}
		}
		return true
	case KindMap:
		ae, be := a.entries(), b.entries()
		if len(ae) != len(be) {
			return false
		}
		for _, e := range ae {
			other, ok := b.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

func equalSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
