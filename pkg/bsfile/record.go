package bsfile

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/strideio/stridefile/pkg/dtype"
	"github.com/strideio/stridefile/pkg/header"
)

// fieldCodec pairs a field's codec with its fixed width.
type fieldCodec struct {
	codec dtype.Codec
	width int
}

// bindFields resolves every field of a parsed header against the registry.
// An unresolvable type code is a hard failure.
func bindFields(types dtype.Registry, fields []header.Field) ([]fieldCodec, error) {
	fcs := make([]fieldCodec, len(fields))
	for i, f := range fields {
		codec, err := types.Lookup(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		fcs[i] = fieldCodec{codec: codec, width: int(f.Width)}
	}
	return fcs, nil
}

// readRecord decodes one record from the current position of r.
func readRecord(r io.Reader, fcs []fieldCodec) ([]any, error) {
	rec := make([]any, len(fcs))
	for i, fc := range fcs {
		buf := make([]byte, fc.width)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read field %d: %w", i, err)
		}
		v, err := fc.codec.Decode(buf)
		if err != nil {
			return nil, fmt.Errorf("decode field %d: %w", i, err)
		}
		rec[i] = v
	}
	return rec, nil
}

// encodeRecord serializes one record into its fixed-stride byte form.
func encodeRecord(fcs []fieldCodec, rec []any) ([]byte, error) {
	if len(rec) != len(fcs) {
		return nil, fmt.Errorf("record has %d fields, schema has %d", len(rec), len(fcs))
	}
	var out []byte
	for i, fc := range fcs {
		b, err := fc.codec.Encode(rec[i], fc.width)
		if err != nil {
			return nil, fmt.Errorf("encode field %d: %w", i, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// compareRecords orders two records field by field, left to right.
func compareRecords(codecs []dtype.Codec, a, b []any) (int, error) {
	for i, codec := range codecs {
		c, err := codec.Compare(a[i], b[i])
		if err != nil {
			return 0, fmt.Errorf("compare field %d: %w", i, err)
		}
		if c != 0 {
			return c, nil
		}
	}
	return 0, nil
}

// parseHeader reads and validates the header of an open file. Foreign magic
// bytes and an inconsistent file size are recoverable: they are logged as
// warnings and the parse proceeds.
func parseHeader(f *os.File, path string, opts Options) (*header.Header, []fieldCodec, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, err
	}
	h, err := header.Read(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if !h.MagicMatches(opts.Magic, opts.magicMatchLen()) {
		opts.Logger.Warn("wrong magic bytes in file", slog.String("path", path))
	}
	fcs, err := bindFields(opts.Types, h.Fields)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if !h.SizeConsistent(st.Size()) {
		opts.Logger.Warn("file size is inconsistent", slog.String("path", path),
			slog.Int64("size", st.Size()), slog.Int("stride", h.Stride()))
	}
	return h, fcs, nil
}

// Stat is the human-readable summary of a record file.
type Stat struct {
	Path      string
	Records   int
	TotalSize int64
	Stride    int
	Widths    []int
}

func (s Stat) String() string {
	return fmt.Sprintf("     fname: %s\n   records: %d\n      size: %s\n   recsize: %d Byte  %v\n",
		s.Path, s.Records, humanBytes(s.TotalSize), s.Stride, s.Widths)
}

// humanBytes formats a byte count with a 1024-based k/M/G/T suffix.
func humanBytes(size int64) string {
	suffixes := []string{"", "k", "M", "G", "T"}
	v := float64(size)
	i := 0
	for v > 1024 && i < len(suffixes)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %sByte", v, suffixes[i])
}

func statOf(path string, h *header.Header, totalSize int64) Stat {
	widths := make([]int, len(h.Fields))
	for i, f := range h.Fields {
		widths[i] = int(f.Width)
	}
	return Stat{
		Path:      path,
		Records:   h.Count(totalSize),
		TotalSize: totalSize,
		Stride:    h.Stride(),
		Widths:    widths,
	}
}
