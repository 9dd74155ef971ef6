package nested

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrNonFiniteFloat is returned when NaN or Inf would be written to JSON.
	ErrNonFiniteFloat = errors.New("nested: non-finite float is not representable in JSON")

	// ErrNotSerializable is returned for host handles, which have no data form.
	ErrNotSerializable = errors.New("nested: value is not serializable")
)

// Marshal is json.Marshal without HTML escaping: <, > and & are written as
// themselves.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (i Int) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(i), 10), nil
}

// MarshalJSON keeps the fractional marker so that 1.0 survives as a float.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNonFiniteFloat, v)
	}
	return []byte(formatFloat(v)), nil
}

func (s Str) MarshalJSON() ([]byte, error) {
	return Marshal(string(s))
}

func (h Handle) MarshalJSON() ([]byte, error) {
	return nil, fmt.Errorf("%w: %T", ErrNotSerializable, h.V)
}

func (l List) MarshalJSON() ([]byte, error) {
	return marshalSeq(l)
}

func (t Tuple) MarshalJSON() ([]byte, error) {
	return marshalSeq(t)
}

// MarshalJSON writes the block as nested arrays following its shape.
func (b *Block) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.writeJSON(&buf, b.data, b.shape); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Block) writeJSON(buf *bytes.Buffer, data []float64, shape []int) error {
	buf.WriteByte('[')
	defer buf.WriteByte(']')
	if len(shape) == 1 {
		for i, f := range data {
			if i > 0 {
				buf.WriteByte(',')
			}
			enc, err := Float(f).MarshalJSON()
			if err != nil {
				return err
			}
			buf.Write(enc)
		}
		return nil
	}
	if shape[0] == 0 {
		return nil
	}
	stride := len(data) / shape[0]
	for i := 0; i < shape[0]; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := b.writeJSON(buf, data[i*stride:(i+1)*stride], shape[1:]); err != nil {
			return err
		}
	}
	return nil
}

func marshalSeq(items []Value) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if it == nil {
			buf.WriteString("null")
			continue
		}
		enc, err := Marshal(it)
		if err != nil {
			return nil, err
		}
		buf.Write(enc)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes arrays into Lists, integral literals into Int and
// other numbers into Float.
func (l *List) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		*l = List{}
		return nil
	}
	v, err := FromAny(raw)
	if err != nil {
		return err
	}
	out, ok := v.(List)
	if !ok {
		out = List{v}
	}
	*l = out
	return nil
}
