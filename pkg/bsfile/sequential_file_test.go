package bsfile

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/strideio/stridefile/pkg/dtype"
)

func newTestSequentialFile(t *testing.T) *SequentialFile {
	t.Helper()
	q, err := OpenSequentialFile(filepath.Join(t.TempDir(), "test.bsq"), SequentialOptions(), nil)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { q.Close() })
	return q
}

func seqRecords() [][]any {
	return [][]any{
		{"alpha", uint64(1)},
		{"bravo", uint64(2)},
		{"charlie", uint64(3)},
		{"delta", uint64(4)},
	}
}

func fillSequential(t *testing.T, q *SequentialFile) {
	t.Helper()
	for _, rec := range seqRecords() {
		if err := q.Write(rec); err != nil {
			t.Fatalf("Write(%v) failed: %v", rec, err)
		}
	}
}

func TestSequentialFile_WriteReadAll(t *testing.T) {
	q := newTestSequentialFile(t)
	fillSequential(t, q)

	n, err := q.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Len = %d, want 4", n)
	}

	got, err := q.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !reflect.DeepEqual(got, seqRecords()) {
		t.Errorf("ReadAll = %v, want insertion order preserved", got)
	}
}

func TestSequentialFile_ReadAt(t *testing.T) {
	q := newTestSequentialFile(t)
	fillSequential(t, q)

	rec, err := q.ReadAt(2)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if !reflect.DeepEqual(rec, []any{"charlie", uint64(3)}) {
		t.Errorf("ReadAt(2) = %v", rec)
	}

	if _, err := q.ReadAt(4); !errors.Is(err, ErrUnsupportedIndex) {
		t.Errorf("ReadAt(4) = %v, want ErrUnsupportedIndex", err)
	}
	if _, err := q.ReadAt(-1); !errors.Is(err, ErrUnsupportedIndex) {
		t.Errorf("ReadAt(-1) = %v, want ErrUnsupportedIndex", err)
	}
}

func TestSequentialFile_ReadSlice(t *testing.T) {
	q := newTestSequentialFile(t)
	fillSequential(t, q)
	all := seqRecords()

	tests := []struct {
		name             string
		start, end, step int
		want             [][]any
	}{
		{"forward window", 1, 3, 1, all[1:3]},
		{"full forward", 0, 4, 1, all},
		{"reverse window", 1, 3, -1, [][]any{all[2], all[1]}},
		{"negative start", -2, 4, 1, all[2:]},
		{"negative end", 0, -1, 1, all[:3]},
		{"clamped end", 2, 99, 1, all[2:]},
		{"empty window", 3, 1, 1, [][]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := q.ReadSlice(tt.start, tt.end, tt.step)
			if err != nil {
				t.Fatalf("ReadSlice(%d, %d, %d) failed: %v", tt.start, tt.end, tt.step, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadSlice(%d, %d, %d) = %v, want %v", tt.start, tt.end, tt.step, got, tt.want)
			}
		})
	}

	if _, err := q.ReadSlice(0, 4, 2); !errors.Is(err, ErrUnsupportedIndex) {
		t.Errorf("ReadSlice step 2 = %v, want ErrUnsupportedIndex", err)
	}
	if _, err := q.ReadSlice(0, 4, 0); !errors.Is(err, ErrUnsupportedIndex) {
		t.Errorf("ReadSlice step 0 = %v, want ErrUnsupportedIndex", err)
	}
}

func TestSequentialFile_WriteAt(t *testing.T) {
	q := newTestSequentialFile(t)
	fillSequential(t, q)

	if err := q.WriteAt([]any{"replaced", uint64(99)}, 1); err != nil {
		t.Fatalf("WriteAt failed: %v", err)
	}
	rec, err := q.ReadAt(1)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if !reflect.DeepEqual(rec, []any{"replaced", uint64(99)}) {
		t.Errorf("ReadAt(1) after overwrite = %v", rec)
	}

	// neighbours untouched
	rec, err = q.ReadAt(2)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if !reflect.DeepEqual(rec, []any{"charlie", uint64(3)}) {
		t.Errorf("ReadAt(2) = %v, want charlie untouched", rec)
	}

	// the cursor sits after the overwritten slot, so a plain Write lands at
	// the next index
	if err := q.WriteAt([]any{"seq", uint64(7)}, 2); err != nil {
		t.Fatalf("WriteAt failed: %v", err)
	}
	if err := q.Write([]any{"next", uint64(8)}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	rec, err = q.ReadAt(3)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if !reflect.DeepEqual(rec, []any{"next", uint64(8)}) {
		t.Errorf("ReadAt(3) after cursor write = %v", rec)
	}

	if err := q.WriteAt([]any{"x", uint64(0)}, -1); !errors.Is(err, ErrUnsupportedIndex) {
		t.Errorf("WriteAt(-1) = %v, want ErrUnsupportedIndex", err)
	}
}

func TestSequentialFile_ValueTooWide(t *testing.T) {
	q := newTestSequentialFile(t)
	fillSequential(t, q)

	// schema fixes the text field at 20 bytes and the int field at 2
	if err := q.Write([]any{"this key is far too long for a twenty byte field", uint64(1)}); err == nil {
		t.Error("Write of oversized text succeeded, want error")
	}
	if err := q.Write([]any{"ok", uint64(70000)}); err == nil {
		t.Error("Write of oversized int succeeded, want error")
	}

	// a failed write must not grow the file
	n, err := q.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Len after rejected writes = %d, want 4", n)
	}
}

func TestSequentialFile_ReopenAdoptsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.bsq")

	q, err := OpenSequentialFile(path, SequentialOptions(), []byte(" notes"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	fillSequential(t, q)
	if err := q.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// reopen with empty schema options; the file's own header wins
	q, err = OpenSequentialFile(path, Options{Magic: DefaultMagic}, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer q.Close()

	if string(q.Header()) != "BinarySequentialFile notes" {
		t.Errorf("Header = %q", q.Header())
	}
	fields := q.Schema()
	if len(fields) != 2 || fields[0].Width != 20 || fields[1].Width != 2 {
		t.Errorf("Schema = %v, want widths 20 and 2", fields)
	}
	got, err := q.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !reflect.DeepEqual(got, seqRecords()) {
		t.Errorf("ReadAll after reopen = %v", got)
	}
}

func TestSequentialFile_CreateRequiresSchema(t *testing.T) {
	dir := t.TempDir()

	if _, err := OpenSequentialFile(filepath.Join(dir, "a.bsq"), Options{}, nil); !errors.Is(err, ErrNoSchema) {
		t.Errorf("create without schema = %v, want ErrNoSchema", err)
	}

	opts := Options{Schema: []uint8{dtype.ASCII, dtype.Uint}, Widths: []uint16{8}}
	if _, err := OpenSequentialFile(filepath.Join(dir, "b.bsq"), opts, nil); err == nil {
		t.Error("create with mismatched widths succeeded, want error")
	}
}

func TestSequentialFile_EmptyFileLen(t *testing.T) {
	q := newTestSequentialFile(t)
	n, err := q.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Len of fresh file = %d, want 0", n)
	}
	got, err := q.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ReadAll of fresh file = %v", got)
	}
}
