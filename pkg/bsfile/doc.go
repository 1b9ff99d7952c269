// Package bsfile implements a compact, self-describing binary file format
// for fixed-stride, field-typed records, in two variants.
//
// SearchFile keeps its records globally sorted in ascending lexicographic
// order over the full field tuple and answers exact and range lookups by
// binary search over the key field. Every write replaces the file as a
// whole; that is the deliberate update strategy of the format, not an
// optimization gap.
//
// SequentialFile shares the same header and field encoding but makes no
// ordering promise: records are read and written by explicit position, the
// schema is fixed up front, and the file handle stays open for the life of
// the value.
//
// Both variants persist their schema in the file header (see package
// header), so opening an existing file needs no external schema. Field
// values are encoded by the codec registry in package dtype; formats can
// carry their own magic bytes, header prefix, schema, and extended codec
// registry through Options, and register themselves by name for sniffing.
//
// Text fields are space padded to their fixed width, so values with
// trailing spaces do not round-trip unchanged. This is a known limitation
// of the format.
package bsfile
