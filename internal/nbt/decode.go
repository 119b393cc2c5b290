package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Decode parses one complete binary tag tree from buf. The root tag must be
// a compound; its name is read and discarded. Decode is a pure function:
// each call owns its own cursor and buf is never written to, so concurrent
// calls over independent buffers need no synchronization.
func Decode(buf []byte) (*Compound, error) {
	c := &cursor{buf: buf}
	rootTag, err := c.u8()
	if err != nil {
		return nil, err
	}
	if TagID(rootTag) != TagCompound {
		return nil, fmt.Errorf("%w (got tag %s)", ErrRootTag, TagID(rootTag))
	}
	if _, err := c.str(); err != nil {
		return nil, err
	}
	return decodeCompound(c)
}

// cursor is an offset into an immutable byte buffer. Every read either
// advances by exactly the bytes consumed or fails without advancing.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) require(n int) error {
	if n < 0 || len(c.buf)-c.off < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrMalformed, n, c.off, len(c.buf)-c.off)
	}
	return nil
}

func (c *cursor) take(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) u8() (byte, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) i16() (int16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

func (c *cursor) i32() (int32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (c *cursor) i64() (int64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (c *cursor) f32() (float32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

func (c *cursor) f64() (float64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// str reads a 16-bit length prefix followed by exactly that many UTF-8
// bytes. Not null-terminated.
func (c *cursor) str() (string, error) {
	n, err := c.take(2)
	if err != nil {
		return "", err
	}
	b, err := c.take(int(binary.BigEndian.Uint16(n)))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// count reads a 32-bit element count and rejects counts the remaining
// buffer cannot possibly satisfy at minWidth bytes per element.
func (c *cursor) count(minWidth int) (int, error) {
	n, err := c.i32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative count %d at offset %d", ErrMalformed, n, c.off)
	}
	if minWidth > 0 && int(n) > (len(c.buf)-c.off)/minWidth {
		return 0, fmt.Errorf("%w: count %d exceeds remaining input at offset %d", ErrMalformed, n, c.off)
	}
	return int(n), nil
}

func decodeValue(c *cursor, tag TagID) (Value, error) {
	switch tag {
	case TagByte:
		v, err := c.u8()
		return int8(v), err
	case TagShort:
		return c.i16()
	case TagInt:
		return c.i32()
	case TagLong:
		return c.i64()
	case TagFloat:
		return c.f32()
	case TagDouble:
		return c.f64()
	case TagByteArray:
		n, err := c.count(1)
		if err != nil {
			return nil, err
		}
		b, err := c.take(n)
		if err != nil {
			return nil, err
		}
		out := make([]byte, n)
		copy(out, b)
		return out, nil
	case TagString:
		return c.str()
	case TagList:
		return decodeList(c)
	case TagCompound:
		return decodeCompound(c)
	case TagIntArray:
		n, err := c.count(4)
		if err != nil {
			return nil, err
		}
		out := make([]int32, n)
		for i := range out {
			v, err := c.i32()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case TagLongArray:
		n, err := c.count(8)
		if err != nil {
			return nil, err
		}
		out := make([]int64, n)
		for i := range out {
			v, err := c.i64()
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag id %d at offset %d", ErrMalformed, tag, c.off)
	}
}

// decodeCompound reads repeated (tag, name, value) triples until the end
// sentinel byte.
func decodeCompound(c *cursor) (*Compound, error) {
	out := NewCompound()
	for {
		tag, err := c.u8()
		if err != nil {
			return nil, err
		}
		if TagID(tag) == TagEnd {
			return out, nil
		}
		name, err := c.str()
		if err != nil {
			return nil, err
		}
		v, err := decodeValue(c, TagID(tag))
		if err != nil {
			return nil, err
		}
		out.Set(name, v)
	}
}

// decodeList reads one element tag and a 32-bit count, then that many
// unnamed elements of the declared tag. An end-tagged list is legal only
// when empty.
func decodeList(c *cursor) (List, error) {
	elem, err := c.u8()
	if err != nil {
		return List{}, err
	}
	n, err := c.count(1)
	if err != nil {
		return List{}, err
	}
	et := TagID(elem)
	if et == TagEnd {
		if n != 0 {
			return List{}, fmt.Errorf("%w: end-tagged list with count %d", ErrMalformed, n)
		}
		return List{Elem: TagEnd}, nil
	}
	if !et.valid() {
		return List{}, fmt.Errorf("%w: unknown list element tag id %d at offset %d", ErrMalformed, elem, c.off)
	}
	items := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := decodeValue(c, et)
		if err != nil {
			return List{}, err
		}
		items = append(items, v)
	}
	return List{Elem: et, Items: items}, nil
}
