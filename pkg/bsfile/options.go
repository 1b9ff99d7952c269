package bsfile

import (
	"errors"
	"log/slog"

	"github.com/strideio/stridefile/pkg/dtype"
	"github.com/strideio/stridefile/pkg/header"
)

// Errors
var (
	// ErrKeyNotFound reports that a searched key is not present in the
	// file. Callers are expected to handle it.
	ErrKeyNotFound = errors.New("key not present in index")

	// ErrUnsupportedIndex reports an index or slice that the format cannot
	// serve, such as an out-of-range record number or a slice step other
	// than 1 or -1.
	ErrUnsupportedIndex = errors.New("unsupported index")

	// ErrNoSchema reports a write attempted without a configured schema.
	ErrNoSchema = errors.New("no record schema configured")
)

// DefaultMagic is the magic prefix of the base format. Byte 0 identifies
// the base format, byte 1 the derived format, bytes 2 and 3 carry their
// versions. Derived formats must only change bytes 1 and 3.
var DefaultMagic = [header.MagicLen]byte{0xFE, 0xFE, 0x01, 0x01}

// Options is the configuration surface of a concrete file format. A format
// variant is a plain Options value, not a type of its own.
type Options struct {
	// Magic is the 4-byte format identifier. Zero means DefaultMagic.
	Magic [header.MagicLen]byte

	// HeaderPrefix is prepended to any caller-supplied header bytes on
	// write, typically a format identifier string.
	HeaderPrefix []byte

	// Schema lists the field type code of each record field. The sorted
	// variant derives field widths from the data at write time; an existing
	// file always supplies its own schema on open.
	Schema []uint8

	// Widths fixes the field widths up front. Required by the sequential
	// variant, ignored by the sorted variant.
	Widths []uint16

	// Types is the codec registry resolving schema type codes. Nil means
	// dtype.Builtin().
	Types dtype.Registry

	// Derived marks a derived format. Opens then validate the first two
	// magic bytes instead of only the first.
	Derived bool

	// Logger receives recoverable format warnings, such as foreign magic
	// bytes or an inconsistent file size. Nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Magic == ([header.MagicLen]byte{}) {
		o.Magic = DefaultMagic
	}
	if o.Types == nil {
		o.Types = dtype.Builtin()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// magicMatchLen is how many magic bytes an open validates: base formats
// check only the base identifier, derived formats also their own.
func (o Options) magicMatchLen() int {
	if o.Derived {
		return 2
	}
	return 1
}

// CheckMagic reports whether the first n magic bytes of the file at path
// match this format. It reads nothing beyond the magic prefix and reports
// false for unreadable files.
func (o Options) CheckMagic(path string, n int) bool {
	o = o.withDefaults()
	return header.CheckMagic(path, o.Magic, n)
}
