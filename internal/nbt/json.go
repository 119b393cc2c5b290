package nbt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// EncodeJSON renders a decoded tag tree as JSON. Compound keys keep their
// insertion order. Signed 64-bit values (longs and long-array elements) are
// rendered as decimal strings so consumers limited to 53-bit-safe number
// types never lose precision.
func EncodeJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendJSON(buf *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case int8:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int16:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
	case int64:
		buf.WriteByte('"')
		buf.WriteString(strconv.FormatInt(t, 10))
		buf.WriteByte('"')
	case float32:
		return appendJSONFloat(buf, float64(t), 32)
	case float64:
		return appendJSONFloat(buf, t, 64)
	case string:
		return appendJSONString(buf, t)
	case []byte:
		buf.WriteByte('[')
		for i, b := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.FormatInt(int64(int8(b)), 10))
		}
		buf.WriteByte(']')
	case []int32:
		buf.WriteByte('[')
		for i, n := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.FormatInt(int64(n), 10))
		}
		buf.WriteByte(']')
	case []int64:
		buf.WriteByte('[')
		for i, n := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strconv.FormatInt(n, 10))
			buf.WriteByte('"')
		}
		buf.WriteByte(']')
	case List:
		buf.WriteByte('[')
		for i, item := range t.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Compound:
		buf.WriteByte('{')
		for i, name := range t.names {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSONString(buf, name); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := appendJSON(buf, t.values[name]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: %T", ErrUnknownJSON, v)
	}
	return nil
}

func appendJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// appendJSONFloat renders NaN and infinities as null since JSON has no
// spelling for them.
func appendJSONFloat(buf *bytes.Buffer, f float64, bits int) error {
	b, err := json.Marshal(json.Number(strconv.FormatFloat(f, 'g', -1, bits)))
	if err != nil {
		buf.WriteString("null")
		return nil
	}
	buf.Write(b)
	return nil
}
