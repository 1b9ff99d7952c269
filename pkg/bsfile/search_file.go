package bsfile

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/strideio/stridefile/pkg/bsearch"
	"github.com/strideio/stridefile/pkg/dtype"
	"github.com/strideio/stridefile/pkg/header"
)

// SearchFile is the sorted, binary-searchable file variant. Records are
// kept in ascending lexicographic order over the full field tuple; lookups
// binary-search the key field (field 0).
//
// The file is opened lazily and only for the duration of an operation;
// nested calls from the same operation reuse the already-open handle. A
// SearchFile therefore has no Close and holds no resources between calls.
type SearchFile struct {
	path string
	opts Options
	f    *os.File
	hdr  *header.Header
	fcs  []fieldCodec
}

// NewSearchFile returns a handle for the sorted file at path. The file is
// not touched until the first operation.
func NewSearchFile(path string, opts Options) *SearchFile {
	return &SearchFile{path: path, opts: opts.withDefaults()}
}

// Path returns the file path.
func (s *SearchFile) Path() string { return s.path }

// acquire opens the file unless an enclosing operation already has it open.
// The returned release func closes the handle exactly once per top-level
// acquisition.
func (s *SearchFile) acquire() (func(), error) {
	if s.f != nil {
		return func() {}, nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	s.f = f
	return func() {
		s.f.Close()
		s.f = nil
	}, nil
}

// readHeader parses and caches the header. The caller must hold the file
// open via acquire.
func (s *SearchFile) readHeader() error {
	if s.hdr != nil {
		return nil
	}
	h, fcs, err := parseHeader(s.f, s.path, s.opts)
	if err != nil {
		return err
	}
	s.hdr, s.fcs = h, fcs
	return nil
}

func (s *SearchFile) ensureHeader() error {
	if s.hdr != nil {
		return nil
	}
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()
	return s.readHeader()
}

// Header returns the free-text header blob, including the format prefix.
func (s *SearchFile) Header() ([]byte, error) {
	if err := s.ensureHeader(); err != nil {
		return nil, err
	}
	return append([]byte(nil), s.hdr.Blob...), nil
}

// Schema returns the field descriptors persisted in the file.
func (s *SearchFile) Schema() ([]header.Field, error) {
	if err := s.ensureHeader(); err != nil {
		return nil, err
	}
	return append([]header.Field(nil), s.hdr.Fields...), nil
}

// Len returns the number of records, derived from the file size.
func (s *SearchFile) Len() (int, error) {
	if err := s.ensureHeader(); err != nil {
		return 0, err
	}
	st, err := os.Stat(s.path)
	if err != nil {
		return 0, err
	}
	return s.hdr.Count(st.Size()), nil
}

// Stat returns a summary of the file.
func (s *SearchFile) Stat() (Stat, error) {
	if err := s.ensureHeader(); err != nil {
		return Stat{}, err
	}
	st, err := os.Stat(s.path)
	if err != nil {
		return Stat{}, err
	}
	return statOf(s.path, s.hdr, st.Size()), nil
}

func (s *SearchFile) String() string {
	st, err := s.Stat()
	if err != nil {
		return fmt.Sprintf("SearchFile %s: %v", s.path, err)
	}
	return "SearchFile\n" + st.String()
}

func (s *SearchFile) recordOffset(i int) int64 {
	return int64(s.hdr.DataOffset) + int64(i)*int64(s.hdr.Stride())
}

// keyAt reads and decodes the key field of record i.
func (s *SearchFile) keyAt(i int) (any, error) {
	if _, err := s.f.Seek(s.recordOffset(i), io.SeekStart); err != nil {
		return nil, err
	}
	kc := s.fcs[0]
	buf := make([]byte, kc.width)
	if _, err := io.ReadFull(s.f, buf); err != nil {
		return nil, fmt.Errorf("read key of record %d: %w", i, err)
	}
	return kc.codec.Decode(buf)
}

func (s *SearchFile) recordAt(i int) ([]any, error) {
	if _, err := s.f.Seek(s.recordOffset(i), io.SeekStart); err != nil {
		return nil, err
	}
	return readRecord(s.f, s.fcs)
}

// Search locates key in the key field and returns its record number. With
// first true it resolves the first occurrence, otherwise the last. A key
// that is not present yields ErrKeyNotFound.
func (s *SearchFile) Search(key any, first bool) (int, error) {
	release, err := s.acquire()
	if err != nil {
		return 0, err
	}
	defer release()
	if err := s.readHeader(); err != nil {
		return 0, err
	}
	n, err := s.Len()
	if err != nil {
		return 0, err
	}

	dir := bsearch.Leftmost
	if !first {
		dir = bsearch.Rightmost
	}
	cmp := s.fcs[0].codec.Compare
	i, err := bsearch.Boundary(n, key, s.keyAt, cmp, dir)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %v in %s", ErrKeyNotFound, key, s.path)
	}
	k, err := s.keyAt(i)
	if err != nil {
		return 0, err
	}
	c, err := cmp(k, key)
	if err != nil {
		return 0, err
	}
	if c != 0 {
		return 0, fmt.Errorf("%w: %v in %s", ErrKeyNotFound, key, s.path)
	}
	return i, nil
}

// Get searches for key and returns the full record at the first (or last)
// occurrence.
func (s *SearchFile) Get(key any, first bool) ([]any, error) {
	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	i, err := s.Search(key, first)
	if err != nil {
		return nil, err
	}
	return s.recordAt(i)
}

// GetAll returns every record whose key equals key, in order. The records
// are contiguous and sorted by their remaining fields.
func (s *SearchFile) GetAll(key any) ([][]any, error) {
	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	i, err := s.Search(key, true)
	if err != nil {
		return nil, err
	}
	n, err := s.Len()
	if err != nil {
		return nil, err
	}

	// scan forward from the leftmost match while the key still matches
	if _, err := s.f.Seek(s.recordOffset(i), io.SeekStart); err != nil {
		return nil, err
	}
	var out [][]any
	for ; i < n; i++ {
		rec, err := readRecord(s.f, s.fcs)
		if err != nil {
			return nil, err
		}
		c, err := s.fcs[0].codec.Compare(rec[0], key)
		if err != nil {
			return nil, err
		}
		if c != 0 {
			break
		}
		out = append(out, rec)
	}
	return out, nil
}

// Read returns all records in file order.
func (s *SearchFile) Read() ([][]any, error) {
	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	if err := s.readHeader(); err != nil {
		return nil, err
	}
	n, err := s.Len()
	if err != nil {
		return nil, err
	}
	return s.readRange(0, n)
}

// ReadAt returns the record at index i.
func (s *SearchFile) ReadAt(i int) ([]any, error) {
	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	if err := s.readHeader(); err != nil {
		return nil, err
	}
	n, err := s.Len()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= n {
		return nil, fmt.Errorf("%w: record %d out of range [0, %d)", ErrUnsupportedIndex, i, n)
	}
	return s.recordAt(i)
}

// ReadRange returns the records in the half-open range [i, j).
func (s *SearchFile) ReadRange(i, j int) ([][]any, error) {
	release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	if err := s.readHeader(); err != nil {
		return nil, err
	}
	n, err := s.Len()
	if err != nil {
		return nil, err
	}
	if i < 0 || j < i || j > n {
		return nil, fmt.Errorf("%w: range [%d, %d) out of range [0, %d)", ErrUnsupportedIndex, i, j, n)
	}
	return s.readRange(i, j)
}

func (s *SearchFile) readRange(i, j int) ([][]any, error) {
	if _, err := s.f.Seek(s.recordOffset(i), io.SeekStart); err != nil {
		return nil, err
	}
	out := make([][]any, 0, j-i)
	for ; i < j; i++ {
		rec, err := readRecord(s.f, s.fcs)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Write sorts records and recreates the file from scratch: header, field
// metadata with widths derived from the data, then the sorted records.
// headerBytes are appended to the format's header prefix.
func (s *SearchFile) Write(records [][]any, headerBytes []byte) error {
	if len(s.opts.Schema) == 0 {
		return fmt.Errorf("%w for %s", ErrNoSchema, s.path)
	}
	codecs := make([]dtype.Codec, len(s.opts.Schema))
	for i, code := range s.opts.Schema {
		codec, err := s.opts.Types.Lookup(code)
		if err != nil {
			return fmt.Errorf("schema field %d: %w", i, err)
		}
		codecs[i] = codec
	}

	// Each field is as wide as its widest value; fixed-length codecs report
	// a constant and ignore the data.
	widths := make([]int, len(codecs))
	for _, rec := range records {
		if len(rec) != len(codecs) {
			return fmt.Errorf("record has %d fields, schema has %d", len(rec), len(codecs))
		}
		for i, v := range rec {
			l, err := codecs[i].Length(v)
			if err != nil {
				return fmt.Errorf("field %d: %w", i, err)
			}
			if l > widths[i] {
				widths[i] = l
			}
		}
	}

	fields := make([]header.Field, len(codecs))
	fcs := make([]fieldCodec, len(codecs))
	for i, w := range widths {
		if w > math.MaxUint16 {
			return fmt.Errorf("field %d needs %d bytes, exceeding the 16-bit width range", i, w)
		}
		fields[i] = header.Field{Type: s.opts.Schema[i], Width: uint16(w)}
		fcs[i] = fieldCodec{codec: codecs[i], width: w}
	}

	sorted := append([][]any(nil), records...)
	var sortErr error
	sort.Slice(sorted, func(a, b int) bool {
		c, err := compareRecords(codecs, sorted[a], sorted[b])
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return c < 0
	})
	if sortErr != nil {
		return sortErr
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	blob := append(append([]byte(nil), s.opts.HeaderPrefix...), headerBytes...)
	if _, err := header.Write(f, s.opts.Magic, blob, fields); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	for _, rec := range sorted {
		b, err := encodeRecord(fcs, rec)
		if err != nil {
			f.Close()
			return err
		}
		if _, err := f.Write(b); err != nil {
			f.Close()
			return err
		}
	}
	if err := f.Close(); err != nil {
		return err
	}

	// cached schema and offsets no longer describe the file
	s.hdr, s.fcs = nil, nil
	return nil
}

// Update reads all existing records, appends records, and rewrites the file
// as a whole, re-establishing the sort order from scratch. A nil headerBytes
// keeps the current header blob; otherwise the blob is rebuilt from the
// format prefix and the given bytes.
func (s *SearchFile) Update(records [][]any, headerBytes []byte) error {
	old, err := s.Read()
	if err != nil {
		return err
	}
	if headerBytes == nil {
		blob, err := s.Header()
		if err != nil {
			return err
		}
		headerBytes = bytes.TrimPrefix(blob, s.opts.HeaderPrefix)
	}
	return s.Write(append(old, records...), headerBytes)
}
