package bsfile

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strideio/stridefile/pkg/header"
)

// newLogCapture returns a logger writing plain text into buf.
func newLogCapture(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func writeCorruptible(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corrupt.bsf")
	file := NewSearchFile(path, SearchOptions())
	if err := file.Write(testRecords(), nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return path
}

func TestSearchFile_TruncatedFileWarns(t *testing.T) {
	path := writeCorruptible(t)

	// chop off half of the last record
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0600); err != nil {
		t.Fatalf("truncate failed: %v", err)
	}

	var buf bytes.Buffer
	opts := SearchOptions()
	opts.Logger = newLogCapture(&buf)
	file := NewSearchFile(path, opts)

	// the torn record is not counted; the intact ones stay readable
	n, err := file.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Len of truncated file = %d, want 4", n)
	}
	if _, err := file.Get("test1", true); err != nil {
		t.Errorf("Get on truncated file failed: %v", err)
	}
	if !strings.Contains(buf.String(), "inconsistent") {
		t.Errorf("expected a size warning, log was: %s", buf.String())
	}
}

func TestSearchFile_ForeignMagicWarns(t *testing.T) {
	path := writeCorruptible(t)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	data[0] = 0xAB
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}

	var buf bytes.Buffer
	opts := SearchOptions()
	opts.Logger = newLogCapture(&buf)
	file := NewSearchFile(path, opts)

	// foreign magic is only a warning; the data stays readable
	rec, err := file.Get("test2", true)
	if err != nil {
		t.Fatalf("Get after magic flip failed: %v", err)
	}
	if rec[1] != uint64(1) {
		t.Errorf("Get(test2) = %v", rec)
	}
	if !strings.Contains(buf.String(), "magic") {
		t.Errorf("expected a magic warning, log was: %s", buf.String())
	}
}

func TestSearchFile_CorruptHeaderFatal(t *testing.T) {
	path := writeCorruptible(t)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	// point the metaoffset inside the preamble
	data[4], data[5] = 0x00, 0x02
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}

	file := NewSearchFile(path, SearchOptions())
	if _, err := file.Read(); !errors.Is(err, header.ErrCorrupt) {
		t.Errorf("Read with corrupt metaoffset = %v, want ErrCorrupt", err)
	}
}

func TestSniff(t *testing.T) {
	path := writeCorruptible(t)

	name, ok := Sniff(path)
	if !ok || name != "search" {
		t.Errorf("Sniff = %q, %v; want search, true", name, ok)
	}

	// a derived variant with its own second magic byte wins over the base
	derived := SearchOptions()
	derived.Magic = [header.MagicLen]byte{0xFE, 0xD1, 0x01, 0x01}
	derived.Derived = true
	RegisterVariant("derived-test", derived)
	t.Cleanup(func() {
		variantMu.Lock()
		delete(variants, "derived-test")
		variantMu.Unlock()
	})

	dpath := filepath.Join(t.TempDir(), "derived.bsf")
	if err := NewSearchFile(dpath, derived).Write(testRecords(), nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	name, ok = Sniff(dpath)
	if !ok || name != "derived-test" {
		t.Errorf("Sniff of derived file = %q, %v; want derived-test, true", name, ok)
	}

	// base sniffing still accepts the derived file as family member
	if !SearchOptions().CheckMagic(dpath, 1) {
		t.Error("base CheckMagic rejected a derived file")
	}

	if _, ok := Sniff(filepath.Join(t.TempDir(), "missing.bsf")); ok {
		t.Error("Sniff of missing file reported a match")
	}
}

func TestVariantRegistry(t *testing.T) {
	names := VariantNames()
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["search"] || !seen["sequential"] {
		t.Errorf("VariantNames = %v, want search and sequential registered", names)
	}

	opts, ok := Variant("sequential")
	if !ok {
		t.Fatal("sequential variant missing")
	}
	if string(opts.HeaderPrefix) != "BinarySequentialFile" {
		t.Errorf("sequential prefix = %q", opts.HeaderPrefix)
	}

	if _, ok := Variant("nope"); ok {
		t.Error("unknown variant reported as registered")
	}
}
