package dtype

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
)

const pad = byte(' ')

// asciiCodec stores text one byte per character (latin-1), right-padded
// with spaces. Characters above U+00FF are not encodable.
type asciiCodec struct{}

func (asciiCodec) Name() string { return "ascii" }

func (asciiCodec) Length(v any) (int, error) {
	s, err := asString(v)
	if err != nil {
		return 0, err
	}
	n := 0
	for range s {
		n++
	}
	return n, nil
}

func (asciiCodec) Encode(v any, width int) ([]byte, error) {
	s, err := asString(v)
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, width)
	for _, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("%w: character %q is not latin-1", ErrBadValue, r)
		}
		b = append(b, byte(r))
	}
	return padded(b, width)
}

func (asciiCodec) Decode(b []byte) (any, error) {
	b = trimPadding(b)
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String(), nil
}

func (asciiCodec) Compare(a, b any) (int, error) { return compareStrings(a, b) }

// utf8Codec stores text utf-8 encoded, right-padded with spaces.
type utf8Codec struct{}

func (utf8Codec) Name() string { return "utf-8" }

func (utf8Codec) Length(v any) (int, error) {
	s, err := asString(v)
	if err != nil {
		return 0, err
	}
	return len(s), nil
}

func (utf8Codec) Encode(v any, width int) ([]byte, error) {
	s, err := asString(v)
	if err != nil {
		return nil, err
	}
	return padded([]byte(s), width)
}

func (utf8Codec) Decode(b []byte) (any, error) {
	return string(trimPadding(b)), nil
}

func (utf8Codec) Compare(a, b any) (int, error) { return compareStrings(a, b) }

// uintCodec stores non-negative integers big-endian. The minimal width of a
// value is (bitlen+7)/8, so zero occupies zero bytes.
type uintCodec struct{}

func (uintCodec) Name() string { return "int" }

func (uintCodec) Length(v any) (int, error) {
	u, err := asUint64(v)
	if err != nil {
		return 0, err
	}
	return (bits.Len64(u) + 7) / 8, nil
}

func (c uintCodec) Encode(v any, width int) ([]byte, error) {
	u, err := asUint64(v)
	if err != nil {
		return nil, err
	}
	need, _ := c.Length(u)
	if need > width {
		return nil, fmt.Errorf("%w: %d does not fit in %d bytes", ErrBadValue, u, width)
	}
	b := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		b[i] = byte(u)
		u >>= 8
	}
	return b, nil
}

func (uintCodec) Decode(b []byte) (any, error) {
	if len(b) > 8 {
		for _, c := range b[:len(b)-8] {
			if c != 0 {
				return nil, fmt.Errorf("%w: unsigned value wider than 64 bits", ErrBadValue)
			}
		}
		b = b[len(b)-8:]
	}
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	return u, nil
}

func (uintCodec) Compare(a, b any) (int, error) {
	ua, err := asUint64(a)
	if err != nil {
		return 0, err
	}
	ub, err := asUint64(b)
	if err != nil {
		return 0, err
	}
	switch {
	case ua < ub:
		return -1, nil
	case ua > ub:
		return 1, nil
	}
	return 0, nil
}

// intCodec stores signed integers big-endian in two's complement. The width
// heuristic is the byte length of twice the absolute value, which always
// leaves room for the sign bit but is one byte over-wide at exact powers of
// two such as -128.
type intCodec struct{}

func (intCodec) Name() string { return "signedint" }

func (intCodec) Length(v any) (int, error) {
	i, err := asInt64(v)
	if err != nil {
		return 0, err
	}
	av := absUint64(i)
	if av == 0 {
		return 0, nil
	}
	// bitlen(2*av) == bitlen(av)+1, avoiding overflow near MinInt64
	return (bits.Len64(av) + 1 + 7) / 8, nil
}

func (intCodec) Encode(v any, width int) ([]byte, error) {
	i, err := asInt64(v)
	if err != nil {
		return nil, err
	}
	switch {
	case width == 0:
		if i != 0 {
			return nil, fmt.Errorf("%w: %d does not fit in 0 bytes", ErrBadValue, i)
		}
	case width < 8:
		limit := int64(1) << (8*width - 1)
		if i >= limit || i < -limit {
			return nil, fmt.Errorf("%w: %d does not fit in %d bytes", ErrBadValue, i, width)
		}
	}
	b := make([]byte, width)
	w := i
	for j := width - 1; j >= 0; j-- {
		b[j] = byte(w)
		w >>= 8 // arithmetic shift keeps sign fill for wide fields
	}
	return b, nil
}

func (intCodec) Decode(b []byte) (any, error) {
	if len(b) == 0 {
		return int64(0), nil
	}
	fill := byte(0x00)
	if b[0]&0x80 != 0 {
		fill = 0xFF
	}
	if len(b) > 8 {
		for _, c := range b[:len(b)-8] {
			if c != fill {
				return nil, fmt.Errorf("%w: signed value wider than 64 bits", ErrBadValue)
			}
		}
		b = b[len(b)-8:]
		if (b[0]&0x80 != 0) != (fill == 0xFF) {
			return nil, fmt.Errorf("%w: signed value wider than 64 bits", ErrBadValue)
		}
	}
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	if b[0]&0x80 != 0 && len(b) < 8 {
		u |= ^uint64(0) << (8 * len(b))
	}
	return int64(u), nil
}

func (intCodec) Compare(a, b any) (int, error) {
	ia, err := asInt64(a)
	if err != nil {
		return 0, err
	}
	ib, err := asInt64(b)
	if err != nil {
		return 0, err
	}
	switch {
	case ia < ib:
		return -1, nil
	case ia > ib:
		return 1, nil
	}
	return 0, nil
}

func padded(b []byte, width int) ([]byte, error) {
	if len(b) > width {
		return nil, fmt.Errorf("%w: %d bytes exceed field width %d", ErrBadValue, len(b), width)
	}
	for len(b) < width {
		b = append(b, pad)
	}
	return b, nil
}

func trimPadding(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == pad {
		b = b[:len(b)-1]
	}
	return b
}

func compareStrings(a, b any) (int, error) {
	sa, err := asString(a)
	if err != nil {
		return 0, err
	}
	sb, err := asString(b)
	if err != nil {
		return 0, err
	}
	return strings.Compare(sa, sb), nil
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", ErrBadValue, v)
	}
	return s, nil
}

func asUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("%w: negative value %d for unsigned field", ErrBadValue, n)
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("%w: negative value %d for unsigned field", ErrBadValue, n)
		}
		return uint64(n), nil
	case int32:
		if n < 0 {
			return 0, fmt.Errorf("%w: negative value %d for unsigned field", ErrBadValue, n)
		}
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("%w: expected unsigned integer, got %T", ErrBadValue, v)
	}
}

func asInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows signed field", ErrBadValue, n)
		}
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows signed field", ErrBadValue, n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("%w: expected integer, got %T", ErrBadValue, v)
	}
}

func absUint64(i int64) uint64 {
	if i >= 0 {
		return uint64(i)
	}
	return uint64(-(i + 1)) + 1
}
