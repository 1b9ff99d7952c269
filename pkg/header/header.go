// Package header reads and writes the fixed preamble shared by the sorted
// and sequential file variants.
//
// # Layout
//
// All multi-byte integers are big-endian and unsigned.
//
//	offset  size       field
//	0       4          magic [base-id, derived-id, base-version, derived-version]
//	4       2          metaoffset N, absolute offset of the field count
//	6       2          dataoffset M, absolute offset of the first record
//	8       N-8        free-text header blob
//	N       2          field count R
//	N+2     3 each     R x (uint8 type code, uint16 field width)
//	M       stride     data records, contiguous until EOF
//
// Derived formats must only change magic bytes 2 and 4 (indices 1 and 3) so
// that base-format readers keep recognizing their files.
package header

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// MagicLen is the length of the magic prefix.
const MagicLen = 4

// preambleLen is magic plus the two offset words.
const preambleLen = MagicLen + 4

// ErrCorrupt reports a file whose header cannot be interpreted. It is fatal:
// continuing would misread arbitrary bytes as schema.
var ErrCorrupt = errors.New("corrupt header")

// Field describes one record field: its codec type code and its fixed width.
type Field struct {
	Type  uint8
	Width uint16
}

// Header is the parsed preamble of a record file.
type Header struct {
	Magic      [MagicLen]byte
	MetaOffset int // absolute offset of the field count word
	DataOffset int // absolute offset of the first record
	Blob       []byte
	Fields     []Field
}

// Stride returns the byte width of one record, the sum of all field widths.
func (h *Header) Stride() int {
	n := 0
	for _, f := range h.Fields {
		n += int(f.Width)
	}
	return n
}

// Count derives the record count from the total file size. A zero stride
// means no data region layout is defined and the count is zero.
func (h *Header) Count(totalSize int64) int {
	stride := h.Stride()
	if stride == 0 {
		return 0
	}
	return int((totalSize - int64(h.DataOffset)) / int64(stride))
}

// SizeConsistent reports whether the data region is an exact multiple of the
// stride, i.e. dataoffset + count*stride == totalSize.
func (h *Header) SizeConsistent(totalSize int64) bool {
	return int64(h.DataOffset)+int64(h.Count(totalSize))*int64(h.Stride()) == totalSize
}

// MagicMatches compares the first n bytes of the header magic against want.
func (h *Header) MagicMatches(want [MagicLen]byte, n int) bool {
	for i := 0; i < n && i < MagicLen; i++ {
		if h.Magic[i] != want[i] {
			return false
		}
	}
	return true
}

// Read parses a header from the start of r. The reader must be positioned at
// offset zero; after a successful read it is positioned at the data offset.
// Magic validation and the size-consistency check are left to the caller,
// which knows the expected format and the total file size.
func Read(r io.Reader) (*Header, error) {
	var pre [preambleLen]byte
	if _, err := io.ReadFull(r, pre[:]); err != nil {
		return nil, fmt.Errorf("%w: short preamble: %v", ErrCorrupt, err)
	}
	h := &Header{
		MetaOffset: int(binary.BigEndian.Uint16(pre[4:6])),
		DataOffset: int(binary.BigEndian.Uint16(pre[6:8])),
	}
	copy(h.Magic[:], pre[:MagicLen])

	// The blob spans from the preamble to the metadata table. Cursor and
	// metaoffset agreeing afterwards is the internal consistency invariant.
	if h.MetaOffset < preambleLen {
		return nil, fmt.Errorf("%w: metaoffset %d inside preamble", ErrCorrupt, h.MetaOffset)
	}
	h.Blob = make([]byte, h.MetaOffset-preambleLen)
	if _, err := io.ReadFull(r, h.Blob); err != nil {
		return nil, fmt.Errorf("%w: short header blob: %v", ErrCorrupt, err)
	}

	var countBuf [2]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: short field count: %v", ErrCorrupt, err)
	}
	count := int(binary.BigEndian.Uint16(countBuf[:]))
	h.Fields = make([]Field, count)
	for i := range h.Fields {
		var fb [3]byte
		if _, err := io.ReadFull(r, fb[:]); err != nil {
			return nil, fmt.Errorf("%w: short field table: %v", ErrCorrupt, err)
		}
		h.Fields[i] = Field{Type: fb[0], Width: binary.BigEndian.Uint16(fb[1:])}
	}

	if end := h.MetaOffset + 2 + 3*count; end != h.DataOffset {
		return nil, fmt.Errorf("%w: field table ends at %d, dataoffset says %d", ErrCorrupt, end, h.DataOffset)
	}
	return h, nil
}

// Write serializes a header to w, which must be positioned at offset zero.
// The two offset words are backfilled once the blob and field table lengths
// are known; on return the writer is positioned at the data offset and the
// assembled header is returned.
func Write(w io.WriteSeeker, magic [MagicLen]byte, blob []byte, fields []Field) (*Header, error) {
	if _, err := w.Write(magic[:]); err != nil {
		return nil, err
	}
	// reserve the two offset words
	if _, err := w.Write([]byte("    ")); err != nil {
		return nil, err
	}
	if _, err := w.Write(blob); err != nil {
		return nil, err
	}

	metaOffset := preambleLen + len(blob)
	dataOffset := metaOffset + 2 + 3*len(fields)
	if dataOffset > math.MaxUint16 {
		return nil, fmt.Errorf("header of %d bytes exceeds the 16-bit offset range", dataOffset)
	}

	var buf [3]byte
	binary.BigEndian.PutUint16(buf[:2], uint16(len(fields)))
	if _, err := w.Write(buf[:2]); err != nil {
		return nil, err
	}
	for _, f := range fields {
		buf[0] = f.Type
		binary.BigEndian.PutUint16(buf[1:], f.Width)
		if _, err := w.Write(buf[:]); err != nil {
			return nil, err
		}
	}

	if _, err := w.Seek(MagicLen, io.SeekStart); err != nil {
		return nil, err
	}
	binary.BigEndian.PutUint16(buf[:2], uint16(metaOffset))
	if _, err := w.Write(buf[:2]); err != nil {
		return nil, err
	}
	binary.BigEndian.PutUint16(buf[:2], uint16(dataOffset))
	if _, err := w.Write(buf[:2]); err != nil {
		return nil, err
	}
	if _, err := w.Seek(int64(dataOffset), io.SeekStart); err != nil {
		return nil, err
	}

	h := &Header{
		Magic:      magic,
		MetaOffset: metaOffset,
		DataOffset: dataOffset,
		Blob:       append([]byte(nil), blob...),
		Fields:     append([]Field(nil), fields...),
	}
	return h, nil
}

// CheckMagic reports whether the first n magic bytes of the file at path
// match want. It reads only the magic prefix and reports false, not an
// error, for unreadable or short files. It is the format sniffing probe used
// before committing to a full open.
func CheckMagic(path string, want [MagicLen]byte, n int) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	var magic [MagicLen]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return false
	}
	for i := 0; i < n && i < MagicLen; i++ {
		if magic[i] != want[i] {
			return false
		}
	}
	return true
}
