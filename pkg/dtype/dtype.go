package dtype

import (
	"errors"
	"fmt"
)

// Well-known field type codes. Codes below 128 are reserved for built-in
// codecs; file formats may register additional codes in their own registry.
const (
	ASCII     uint8 = 0  // single-byte (latin-1) text, space padded
	UTF8      uint8 = 1  // utf-8 text, space padded
	Uint      uint8 = 10 // big-endian unsigned integer
	SignedInt uint8 = 11 // big-endian two's-complement integer
)

// Errors
var (
	ErrNoCodec  = errors.New("no codec registered for type code")
	ErrBadValue = errors.New("value not encodable by codec")
)

// Codec encodes and decodes one record field to and from a fixed-width
// byte window.
type Codec interface {
	// Name returns the codec's identifier used in schemas and diagnostics.
	Name() string

	// Length returns the minimal encoded width in bytes for value v.
	// Fixed-width codecs ignore v and return a constant.
	Length(v any) (int, error)

	// Encode serializes v into exactly width bytes.
	Encode(v any, width int) ([]byte, error)

	// Decode parses a field window back into a value.
	Decode(b []byte) (any, error)

	// Compare orders two values of this codec's type. It returns a negative
	// number, zero, or a positive number when a sorts before, equal to, or
	// after b.
	Compare(a, b any) (int, error)
}

// Registry maps a field type code to its codec. A registry is fixed for the
// lifetime of a file handle; decoding a type code with no registry entry is
// a hard failure.
type Registry map[uint8]Codec

// Builtin returns a fresh registry holding the four built-in codecs.
func Builtin() Registry {
	return Registry{
		ASCII:     asciiCodec{},
		UTF8:      utf8Codec{},
		Uint:      uintCodec{},
		SignedInt: intCodec{},
	}
}

// Clone returns a copy of the registry that can be extended without
// affecting the original.
func (r Registry) Clone() Registry {
	c := make(Registry, len(r))
	for code, codec := range r {
		c[code] = codec
	}
	return c
}

// Lookup returns the codec for code, or ErrNoCodec if none is registered.
func (r Registry) Lookup(code uint8) (Codec, error) {
	codec, ok := r[code]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoCodec, code)
	}
	return codec, nil
}

// CodeByName resolves a codec name to its type code within the registry.
// It is used by callers that accept textual schemas, such as the CLI.
func (r Registry) CodeByName(name string) (uint8, bool) {
	for code, codec := range r {
		if codec.Name() == name {
			return code, true
		}
	}
	return 0, false
}
