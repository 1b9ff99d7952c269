package bsfile

import (
	"sort"
	"sync"

	"github.com/strideio/stridefile/pkg/dtype"
)

// SearchOptions returns the options of the base sorted format: an ascii key
// field followed by an unsigned integer field.
func SearchOptions() Options {
	return Options{
		HeaderPrefix: []byte("BinarySearchFile"),
		Schema:       []uint8{dtype.ASCII, dtype.Uint},
	}
}

// SequentialOptions returns the options of the base sequential format with
// its default fixed widths.
func SequentialOptions() Options {
	return Options{
		HeaderPrefix: []byte("BinarySequentialFile"),
		Schema:       []uint8{dtype.ASCII, dtype.Uint},
		Widths:       []uint16{20, 2},
	}
}

var (
	variantMu sync.RWMutex
	variants  = map[string]Options{}
)

func init() {
	RegisterVariant("search", SearchOptions())
	RegisterVariant("sequential", SequentialOptions())
}

// RegisterVariant records a named format variant. Registered variants are
// available to Sniff and to callers that configure formats by name, such as
// the CLI.
func RegisterVariant(name string, opts Options) {
	variantMu.Lock()
	defer variantMu.Unlock()
	variants[name] = opts
}

// Variant returns the options registered under name.
func Variant(name string) (Options, bool) {
	variantMu.RLock()
	defer variantMu.RUnlock()
	opts, ok := variants[name]
	return opts, ok
}

// VariantNames lists the registered variant names in sorted order.
func VariantNames() []string {
	variantMu.RLock()
	defer variantMu.RUnlock()
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sniff probes the magic bytes of the file at path against every registered
// variant and returns the name of the first match. Derived variants are
// matched before base variants since they validate more magic bytes.
func Sniff(path string) (string, bool) {
	for _, derived := range []bool{true, false} {
		for _, name := range VariantNames() {
			opts, _ := Variant(name)
			if opts.Derived != derived {
				continue
			}
			if opts.CheckMagic(path, opts.magicMatchLen()) {
				return name, true
			}
		}
	}
	return "", false
}
