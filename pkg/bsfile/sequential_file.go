package bsfile

import (
	"fmt"
	"io"
	"os"

	"github.com/strideio/stridefile/pkg/header"
)

// SequentialFile is the position-oriented file variant. It shares the
// header and field encoding with SearchFile but keeps no sort order:
// records are read and written by explicit index, or at the current cursor.
//
// The underlying handle stays open for the lifetime of the value and must
// be released with Close.
type SequentialFile struct {
	path string
	opts Options
	f    *os.File
	hdr  *header.Header
	fcs  []fieldCodec
}

// OpenSequentialFile opens the sequential file at path. If the file does
// not exist it is created and the header is written immediately, fixing the
// schema and widths from opts; headerBytes are appended to the format's
// header prefix. If it exists, the header is parsed and its schema adopted,
// and headerBytes are ignored.
func OpenSequentialFile(path string, opts Options, headerBytes []byte) (*SequentialFile, error) {
	opts = opts.withDefaults()
	_, statErr := os.Stat(path)
	exists := statErr == nil

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}
	q := &SequentialFile{path: path, opts: opts, f: f}
	if exists {
		q.hdr, q.fcs, err = parseHeader(f, path, opts)
	} else {
		err = q.writeHeader(headerBytes)
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return q, nil
}

func (q *SequentialFile) writeHeader(headerBytes []byte) error {
	if len(q.opts.Schema) == 0 {
		return fmt.Errorf("%w for %s", ErrNoSchema, q.path)
	}
	if len(q.opts.Widths) != len(q.opts.Schema) {
		return fmt.Errorf("schema has %d fields but %d widths are configured",
			len(q.opts.Schema), len(q.opts.Widths))
	}
	fields := make([]header.Field, len(q.opts.Schema))
	for i, code := range q.opts.Schema {
		fields[i] = header.Field{Type: code, Width: q.opts.Widths[i]}
	}
	blob := append(append([]byte(nil), q.opts.HeaderPrefix...), headerBytes...)
	h, err := header.Write(q.f, q.opts.Magic, blob, fields)
	if err != nil {
		return fmt.Errorf("write %s: %w", q.path, err)
	}
	fcs, err := bindFields(q.opts.Types, h.Fields)
	if err != nil {
		return err
	}
	q.hdr, q.fcs = h, fcs
	return nil
}

// Close releases the file handle.
func (q *SequentialFile) Close() error { return q.f.Close() }

// Path returns the file path.
func (q *SequentialFile) Path() string { return q.path }

// Header returns the free-text header blob, including the format prefix.
func (q *SequentialFile) Header() []byte {
	return append([]byte(nil), q.hdr.Blob...)
}

// Schema returns the field descriptors persisted in the file.
func (q *SequentialFile) Schema() []header.Field {
	return append([]header.Field(nil), q.hdr.Fields...)
}

// Len returns the number of records, derived from the file size.
func (q *SequentialFile) Len() (int, error) {
	st, err := q.f.Stat()
	if err != nil {
		return 0, err
	}
	return q.hdr.Count(st.Size()), nil
}

// Stat returns a summary of the file.
func (q *SequentialFile) Stat() (Stat, error) {
	st, err := q.f.Stat()
	if err != nil {
		return Stat{}, err
	}
	return statOf(q.path, q.hdr, st.Size()), nil
}

func (q *SequentialFile) String() string {
	st, err := q.Stat()
	if err != nil {
		return fmt.Sprintf("SequentialFile %s: %v", q.path, err)
	}
	return "SequentialFile\n" + st.String()
}

func (q *SequentialFile) recordOffset(i int) int64 {
	return int64(q.hdr.DataOffset) + int64(i)*int64(q.hdr.Stride())
}

// ReadAll returns all records in file order.
func (q *SequentialFile) ReadAll() ([][]any, error) {
	n, err := q.Len()
	if err != nil {
		return nil, err
	}
	return q.readFrom(0, n)
}

// ReadAt returns the record at index i.
func (q *SequentialFile) ReadAt(i int) ([]any, error) {
	n, err := q.Len()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= n {
		return nil, fmt.Errorf("%w: record %d out of range [0, %d)", ErrUnsupportedIndex, i, n)
	}
	if _, err := q.f.Seek(q.recordOffset(i), io.SeekStart); err != nil {
		return nil, err
	}
	return readRecord(q.f, q.fcs)
}

// ReadSlice returns the records in the half-open window [start, end), in
// reverse when step is -1. Negative bounds count from the end of the file;
// out-of-range bounds are clamped. Steps other than 1 and -1 are not
// supported by the format.
func (q *SequentialFile) ReadSlice(start, end, step int) ([][]any, error) {
	if step != 1 && step != -1 {
		return nil, fmt.Errorf("%w: slice step must be 1 or -1, got %d", ErrUnsupportedIndex, step)
	}
	n, err := q.Len()
	if err != nil {
		return nil, err
	}
	start = clampIndex(start, n)
	end = clampIndex(end, n)
	if start >= end {
		return [][]any{}, nil
	}
	out, err := q.readFrom(start, end)
	if err != nil {
		return nil, err
	}
	if step == -1 {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

func (q *SequentialFile) readFrom(i, j int) ([][]any, error) {
	if _, err := q.f.Seek(q.recordOffset(i), io.SeekStart); err != nil {
		return nil, err
	}
	out := make([][]any, 0, j-i)
	for ; i < j; i++ {
		rec, err := readRecord(q.f, q.fcs)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Write encodes one record at the current cursor position. With the cursor
// at end of file this appends; after a positioned read it overwrites in
// place. The schema and widths are fixed; a value that does not fit its
// field width is rejected before anything is written.
func (q *SequentialFile) Write(rec []any) error {
	b, err := encodeRecord(q.fcs, rec)
	if err != nil {
		return err
	}
	_, err = q.f.Write(b)
	return err
}

// WriteAt encodes one record over the record slot at index i, leaving the
// cursor after the written record.
func (q *SequentialFile) WriteAt(rec []any, i int) error {
	if i < 0 {
		return fmt.Errorf("%w: record index %d", ErrUnsupportedIndex, i)
	}
	if _, err := q.f.Seek(q.recordOffset(i), io.SeekStart); err != nil {
		return err
	}
	return q.Write(rec)
}
