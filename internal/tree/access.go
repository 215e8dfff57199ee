package tree

// Get returns the value bound to key. Absent keys and non-map receivers
// report false.
func (v Value) Get(key string) (Value, bool) {
	for _, e := range v.entries() {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// At returns the value at a nested path of map keys.
func (v Value) At(keys ...string) (Value, bool) {
	cur := v
	for _, k := range keys {
		next, ok := cur.Get(k)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Has reports whether key is bound.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Set returns a map with key bound to val. Existing bindings keep their
// position; new keys are appended. A non-map receiver is treated as an empty
// map.
func (v Value) Set(key string, val Value) Value {
	src := v.entries()
	out := make([]Entry, 0, len(src)+1)
	replaced := false
	for _, e := range src {
		if e.Key == key {
			out = append(out, Entry{Key: key, Value: val})
			replaced = true
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, Entry{Key: key, Value: val})
	}
	return Value{kind: KindMap, ref: out}
}

// Remove returns the map without key. Non-map receivers are returned as is.
func (v Value) Remove(key string) Value {
	if v.kind != KindMap || !v.Has(key) {
		return v
	}
	src := v.entries()
	out := make([]Entry, 0, len(src)-1)
	for _, e := range src {
		if e.Key != key {
			out = append(out, e)
		}
	}
	return Value{kind: KindMap, ref: out}
}

// Update binds key to f applied to the current value, or to Null when the
// key is absent. Callers that need an empty container use OrEmptyMap or
// OrEmptyList on the argument.
func (v Value) Update(key string, f func(Value) Value) Value {
	cur, _ := v.Get(key)
	return v.Set(key, f(cur))
}

// UpdateIfPresent applies f only when key is bound.
func (v Value) UpdateIfPresent(key string, f func(Value) Value) Value {
	cur, ok := v.Get(key)
	if !ok {
		return v
	}
	return v.Set(key, f(cur))
}

// Entries returns a copy of the map bindings in insertion order.
func (v Value) Entries() []Entry {
	return append([]Entry(nil), v.entries()...)
}

// Items returns a copy of the list elements.
func (v Value) Items() []Value {
	return append([]Value(nil), v.items()...)
}

// Index returns the i-th list element.
func (v Value) Index(i int) (Value, bool) {
	items := v.items()
	if i < 0 || i >= len(items) {
		return Value{}, false
	}
	return items[i], true
}

// Append returns the list with vals added at the end.
func (v Value) Append(vals ...Value) Value {
	src := v.items()
	out := make([]Value, 0, len(src)+len(vals))
	out = append(out, src...)
	out = append(out, vals...)
	return Value{kind: KindList, ref: out}
}

// Prepend returns the list with vals added at the front.
func (v Value) Prepend(vals ...Value) Value {
	src := v.items()
	out := make([]Value, 0, len(src)+len(vals))
	out = append(out, vals...)
	out = append(out, src...)
	return Value{kind: KindList, ref: out}
}

func (v Value) OrEmptyMap() Value {
	if v.kind == KindMap {
		return v
	}
	return EmptyMap()
}

func (v Value) OrEmptyList() Value {
	if v.kind == KindList {
		return v
	}
	return EmptyList()
}

func (v Value) numeric() (int64, bool) {
	switch v.kind {
	case KindByte, KindShort, KindInt, KindLong:
		return v.num, true
	case KindFloat, KindDouble:
		return int64(v.fnum), true
	}
	return 0, false
}

// AsInt returns the numeric value truncated to int, or def.
func (v Value) AsInt(def int) int {
	if n, ok := v.numeric(); ok {
		return int(n)
	}
	return def
}

func (v Value) AsLong(def int64) int64 {
	if n, ok := v.numeric(); ok {
		return n
	}
	return def
}

func (v Value) AsDouble(def float64) float64 {
	switch v.kind {
	case KindFloat, KindDouble:
		return v.fnum
	case KindByte, KindShort, KindInt, KindLong:
		return float64(v.num)
	}
	return def
}

func (v Value) AsBool(def bool) bool {
	if n, ok := v.numeric(); ok {
		return n != 0
	}
	return def
}

func (v Value) AsString(def string) string {
	if v.kind == KindString {
		return v.ref.(string)
	}
	return def
}

// AsLongs returns a copy of the elements of a long array, or of a numeric
// array or list widened to int64. Anything else yields an empty slice.
func (v Value) AsLongs() []int64 {
	switch v.kind {
	case KindLongArray:
		return append([]int64{}, v.ref.([]int64)...)
	case KindIntArray:
		src := v.ref.([]int32)
		out := make([]int64, len(src))
		for i, n := range src {
			out[i] = int64(n)
		}
		return out
	case KindByteArray:
		src := v.ref.([]int8)
		out := make([]int64, len(src))
		for i, n := range src {
			out[i] = int64(n)
		}
		return out
	case KindList:
		out := make([]int64, 0, v.Len())
		for _, item := range v.items() {
			n, ok := item.numeric()
			if !ok {
				return []int64{}
			}
			out = append(out, n)
		}
		return out
	}
	return []int64{}
}

// AsInts returns the int32 elements of an int array or numeric sequence.
// The second result is false when v is not a numeric sequence at all.
func (v Value) AsInts() ([]int32, bool) {
	switch v.kind {
	case KindIntArray:
		return append([]int32{}, v.ref.([]int32)...), true
	case KindLongArray, KindByteArray, KindList:
		longs := v.AsLongs()
		if v.kind == KindList && len(longs) != v.Len() {
			return nil, false
		}
		out := make([]int32, len(longs))
		for i, n := range longs {
			out[i] = int32(n)
		}
		return out, true
	}
	return nil, false
}

// AsBytes returns a copy of a byte array, or nil.
func (v Value) AsBytes() []int8 {
	if v.kind == KindByteArray {
		return append([]int8{}, v.ref.([]int8)...)
	}
	return nil
}
