package nbt

import (
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/St4ndd/NodeStack/internal/testutil/testlog"
)

// enc is a minimal reference encoder used to produce test fixtures. It only
// exists in tests; the production package never encodes.
type enc struct {
	b []byte
}

func (e *enc) u8(v byte)     { e.b = append(e.b, v) }
func (e *enc) i16(v int16)   { e.b = binary.BigEndian.AppendUint16(e.b, uint16(v)) }
func (e *enc) i32(v int32)   { e.b = binary.BigEndian.AppendUint32(e.b, uint32(v)) }
func (e *enc) i64(v int64)   { e.b = binary.BigEndian.AppendUint64(e.b, uint64(v)) }
func (e *enc) f32(v float32) { e.b = binary.BigEndian.AppendUint32(e.b, math.Float32bits(v)) }
func (e *enc) f64(v float64) { e.b = binary.BigEndian.AppendUint64(e.b, math.Float64bits(v)) }

func (e *enc) str(s string) {
	e.i16(int16(len(s)))
	e.b = append(e.b, s...)
}

func (e *enc) named(tag TagID, name string) {
	e.u8(byte(tag))
	e.str(name)
}

func (e *enc) value(v Value) {
	switch t := v.(type) {
	case int8:
		e.u8(byte(t))
	case int16:
		e.i16(t)
	case int32:
		e.i32(t)
	case int64:
		e.i64(t)
	case float32:
		e.f32(t)
	case float64:
		e.f64(t)
	case []byte:
		e.i32(int32(len(t)))
		e.b = append(e.b, t...)
	case string:
		e.str(t)
	case List:
		e.u8(byte(t.Elem))
		e.i32(int32(len(t.Items)))
		for _, item := range t.Items {
			e.value(item)
		}
	case *Compound:
		for _, name := range t.Names() {
			item, _ := t.Get(name)
			e.named(tagOf(item), name)
			e.value(item)
		}
		e.u8(byte(TagEnd))
	case []int32:
		e.i32(int32(len(t)))
		for _, n := range t {
			e.i32(n)
		}
	case []int64:
		e.i32(int32(len(t)))
		for _, n := range t {
			e.i64(n)
		}
	default:
		panic("enc: unsupported value")
	}
}

func tagOf(v Value) TagID {
	switch v.(type) {
	case int8:
		return TagByte
	case int16:
		return TagShort
	case int32:
		return TagInt
	case int64:
		return TagLong
	case float32:
		return TagFloat
	case float64:
		return TagDouble
	case []byte:
		return TagByteArray
	case string:
		return TagString
	case List:
		return TagList
	case *Compound:
		return TagCompound
	case []int32:
		return TagIntArray
	case []int64:
		return TagLongArray
	}
	panic("enc: unsupported value")
}

func encodeRoot(rootName string, root *Compound) []byte {
	e := &enc{}
	e.named(TagCompound, rootName)
	e.value(root)
	return e.b
}

func compound(pairs ...any) *Compound {
	c := NewCompound()
	for i := 0; i < len(pairs); i += 2 {
		c.Set(pairs[i].(string), pairs[i+1])
	}
	return c
}

// referenceTree covers every tag kind with three levels of nesting.
func referenceTree() *Compound {
	return compound(
		"byte", int8(-7),
		"short", int16(-30000),
		"int", int32(123456789),
		"long", int64(math.MaxInt64),
		"float", float32(20.0),
		"double", -2.25,
		"bytes", []byte{0x00, 0x7f, 0xff},
		"name", "minecraft:stone",
		"ints", []int32{1, -2, 3},
		"longs", []int64{math.MinInt64, 0, math.MaxInt64},
		"doubles", List{Elem: TagDouble, Items: []Value{1.5, 64.0, -2.25}},
		"empty", List{Elem: TagEnd},
		"inventory", List{Elem: TagCompound, Items: []Value{
			compound(
				"Slot", int8(0),
				"id", "minecraft:stone",
				"tag", compound("Damage", int16(3)),
			),
			compound(
				"Slot", int8(1),
				"positions", List{Elem: TagIntArray, Items: []Value{
					[]int32{1, 2, 3},
					[]int32{},
				}},
			),
		}},
	)
}

func valuesEqual(t *testing.T, path string, want, got Value) {
	t.Helper()
	switch w := want.(type) {
	case *Compound:
		g, ok := got.(*Compound)
		if !ok {
			t.Fatalf("%s: want compound, got %T", path, got)
		}
		if !reflect.DeepEqual(w.Names(), g.Names()) {
			t.Fatalf("%s: key order want %v got %v", path, w.Names(), g.Names())
		}
		for _, name := range w.Names() {
			wv, _ := w.Get(name)
			gv, _ := g.Get(name)
			valuesEqual(t, path+"."+name, wv, gv)
		}
	case List:
		g, ok := got.(List)
		if !ok {
			t.Fatalf("%s: want list, got %T", path, got)
		}
		if g.Elem != w.Elem || len(g.Items) != len(w.Items) {
			t.Fatalf("%s: list shape want (%s,%d) got (%s,%d)",
				path, w.Elem, len(w.Items), g.Elem, len(g.Items))
		}
		for i := range w.Items {
			valuesEqual(t, path+"[]", w.Items[i], g.Items[i])
		}
	default:
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("%s: want %#v got %#v", path, want, got)
		}
	}
}

func TestDecodeRoundTripAllTagKinds(t *testing.T) {
	testlog.Start(t)
	want := referenceTree()
	got, err := Decode(encodeRoot("root", want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	valuesEqual(t, "root", want, got)
}

func TestDecodeRootNameDiscarded(t *testing.T) {
	testlog.Start(t)
	buf := encodeRoot("some long root name", compound("k", int8(1)))
	got, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("unexpected compound size: %d", got.Len())
	}
}

func TestDecodeRootMustBeCompound(t *testing.T) {
	testlog.Start(t)
	e := &enc{}
	e.named(TagByte, "x")
	e.u8(9)
	if _, err := Decode(e.b); !errors.Is(err, ErrRootTag) {
		t.Fatalf("expected ErrRootTag, got %v", err)
	}
}

func TestDecodeTruncatedAtEveryBoundary(t *testing.T) {
	testlog.Start(t)
	buf := encodeRoot("root", referenceTree())
	for n := 0; n < len(buf); n++ {
		if _, err := Decode(buf[:n]); !errors.Is(err, ErrMalformed) {
			t.Fatalf("truncation at %d: expected ErrMalformed, got %v", n, err)
		}
	}
}

func TestDecodeUnknownTagID(t *testing.T) {
	testlog.Start(t)
	e := &enc{}
	e.named(TagCompound, "")
	e.named(TagID(99), "bad")
	e.u8(0)
	if _, err := Decode(e.b); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeNegativeLength(t *testing.T) {
	testlog.Start(t)
	e := &enc{}
	e.named(TagCompound, "")
	e.named(TagIntArray, "xs")
	e.i32(-1)
	e.u8(0)
	if _, err := Decode(e.b); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeOversizedCountRejectedBeforeAllocation(t *testing.T) {
	testlog.Start(t)
	e := &enc{}
	e.named(TagCompound, "")
	e.named(TagLongArray, "xs")
	e.i32(math.MaxInt32)
	e.u8(0)
	if _, err := Decode(e.b); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeEndTaggedListMustBeEmpty(t *testing.T) {
	testlog.Start(t)
	e := &enc{}
	e.named(TagCompound, "")
	e.named(TagList, "xs")
	e.u8(byte(TagEnd))
	e.i32(2)
	e.u8(0)
	if _, err := Decode(e.b); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeConcurrentCallsIndependent(t *testing.T) {
	testlog.Start(t)
	buf := encodeRoot("root", referenceTree())
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := Decode(buf)
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent decode: %v", err)
		}
	}
}
