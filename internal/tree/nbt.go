package tree

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"reflect"
	"sort"

	"github.com/Tnze/go-mc/nbt"
	"github.com/pkg/errors"
)

// DecodeNBT decodes an uncompressed NBT document. Compound entries are
// ordered by key since the decoder does not preserve on-disk order.
func DecodeNBT(data []byte) (Value, error) {
	var raw any
	if err := nbt.Unmarshal(data, &raw); err != nil {
		return Value{}, errors.Wrap(err, "decode nbt")
	}
	v, err := FromNative(raw)
	if err != nil {
		return Value{}, errors.Wrap(err, "decode nbt")
	}
	return v, nil
}

// EncodeNBT encodes v as an unnamed root tag.
func EncodeNBT(v Value) ([]byte, error) {
	if v.kind == KindNull {
		return nil, errors.New("encode nbt: null root")
	}
	var buf bytes.Buffer
	if err := nbt.NewEncoder(&buf).Encode(v, ""); err != nil {
		return nil, errors.Wrap(err, "encode nbt")
	}
	return buf.Bytes(), nil
}

// FromNative lifts the dynamic values produced by the nbt decoder.
func FromNative(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int8:
		return Byte(t), nil
	case uint8:
		return Byte(int8(t)), nil
	case int16:
		return Short(t), nil
	case int32:
		return Int(t), nil
	case int64:
		return Long(t), nil
	case float32:
		return Float(t), nil
	case float64:
		return Double(t), nil
	case string:
		return String(t), nil
	case []byte:
		out := make([]int8, len(t))
		for i, b := range t {
			out[i] = int8(b)
		}
		return Value{kind: KindByteArray, ref: out}, nil
	case []int8:
		return ByteArray(t), nil
	case []int32:
		return IntArray(t), nil
	case []int64:
		return LongArray(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromNative(item)
			if err != nil {
				return Value{}, errors.Wrapf(err, "list index %d", i)
			}
			items[i] = v
		}
		return Value{kind: KindList, ref: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]Entry, 0, len(keys))
		for _, k := range keys {
			v, err := FromNative(t[k])
			if err != nil {
				return Value{}, errors.Wrapf(err, "key %q", k)
			}
			entries = append(entries, Entry{Key: k, Value: v})
		}
		return Value{kind: KindMap, ref: entries}, nil
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return FromNative(items)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return FromNative(m)
	}
	return Value{}, errors.Errorf("unsupported native type %T", rv.Interface())
}

// TagType implements nbt.Marshaler.
func (v Value) TagType() byte {
	switch v.kind {
	case KindByte:
		return nbt.TagByte
	case KindShort:
		return nbt.TagShort
	case KindInt:
		return nbt.TagInt
	case KindLong:
		return nbt.TagLong
	case KindFloat:
		return nbt.TagFloat
	case KindDouble:
		return nbt.TagDouble
	case KindString:
		return nbt.TagString
	case KindByteArray:
		return nbt.TagByteArray
	case KindIntArray:
		return nbt.TagIntArray
	case KindLongArray:
		return nbt.TagLongArray
	case KindList:
		return nbt.TagList
	case KindMap:
		return nbt.TagCompound
	}
	return nbt.TagEnd
}

// MarshalNBT implements nbt.Marshaler by writing the tag payload.
func (v Value) MarshalNBT(w io.Writer) error {
	pw := payloadWriter{w: w}
	pw.value(v)
	return pw.err
}

type payloadWriter struct {
	w   io.Writer
	err error
	buf [8]byte
}

func (p *payloadWriter) write(b []byte) {
	if p.err != nil {
		return
	}
	_, p.err = p.w.Write(b)
}

func (p *payloadWriter) u8(n uint8) {
	p.buf[0] = n
	p.write(p.buf[:1])
}

func (p *payloadWriter) u16(n uint16) {
	binary.BigEndian.PutUint16(p.buf[:2], n)
	p.write(p.buf[:2])
}

func (p *payloadWriter) u32(n uint32) {
	binary.BigEndian.PutUint32(p.buf[:4], n)
	p.write(p.buf[:4])
}

func (p *payloadWriter) u64(n uint64) {
	binary.BigEndian.PutUint64(p.buf[:8], n)
	p.write(p.buf[:8])
}

func (p *payloadWriter) str(s string) {
	if len(s) > math.MaxUint16 {
		p.fail(errors.Errorf("string of %d bytes exceeds tag limit", len(s)))
		return
	}
	p.u16(uint16(len(s)))
	p.write([]byte(s))
}

func (p *payloadWriter) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *payloadWriter) value(v Value) {
	switch v.kind {
	case KindByte:
		p.u8(uint8(v.num))
	case KindShort:
		p.u16(uint16(v.num))
	case KindInt:
		p.u32(uint32(v.num))
	case KindLong:
		p.u64(uint64(v.num))
	case KindFloat:
		p.u32(math.Float32bits(float32(v.fnum)))
	case KindDouble:
		p.u64(math.Float64bits(v.fnum))
	case KindString:
		p.str(v.ref.(string))
	case KindByteArray:
		arr := v.ref.([]int8)
		p.u32(uint32(len(arr)))
		raw := make([]byte, len(arr))
		for i, b := range arr {
			raw[i] = byte(b)
		}
		p.write(raw)
	case KindIntArray:
		arr := v.ref.([]int32)
		p.u32(uint32(len(arr)))
		for _, n := range arr {
			p.u32(uint32(n))
		}
	case KindLongArray:
		arr := v.ref.([]int64)
		p.u32(uint32(len(arr)))
		for _, n := range arr {
			p.u64(uint64(n))
		}
	case KindList:
		items := v.items()
		elem := byte(nbt.TagEnd)
		if len(items) > 0 {
			elem = items[0].TagType()
		}
		for i, item := range items {
			if item.TagType() != elem {
				p.fail(errors.Errorf("list element %d is %s, want tag %d", i, item.kind, elem))
				return
			}
		}
		if len(items) > 0 && elem == nbt.TagEnd {
			p.fail(errors.New("list of null values"))
			return
		}
		p.u8(elem)
		p.u32(uint32(len(items)))
		for _, item := range items {
			p.value(item)
		}
	case KindMap:
		for _, e := range v.entries() {
			if e.Value.kind == KindNull {
				continue
			}
			p.u8(e.Value.TagType())
			p.str(e.Key)
			p.value(e.Value)
		}
		p.u8(nbt.TagEnd)
	default:
		p.fail(errors.New("cannot encode null value"))
	}
}
