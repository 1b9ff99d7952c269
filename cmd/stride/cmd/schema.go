package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/strideio/stridefile/pkg/dtype"
	"github.com/strideio/stridefile/pkg/header"
)

// parseSchema turns a comma-separated list of codec names into type codes.
func parseSchema(spec string, types dtype.Registry) ([]uint8, error) {
	parts := strings.Split(spec, ",")
	codes := make([]uint8, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		code, ok := types.CodeByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown field type %q", name)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// parseValue converts CLI text into the value kind a field's codec expects.
func parseValue(code uint8, s string) (any, error) {
	switch code {
	case dtype.Uint:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unsigned integer field: %w", err)
		}
		return u, nil
	case dtype.SignedInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("signed integer field: %w", err)
		}
		return i, nil
	default:
		return s, nil
	}
}

// parseRecord splits one tab-separated line into typed field values.
func parseRecord(line string, schema []uint8) ([]any, error) {
	parts := strings.Split(line, "\t")
	if len(parts) != len(schema) {
		return nil, fmt.Errorf("line has %d fields, schema has %d", len(parts), len(schema))
	}
	rec := make([]any, len(parts))
	for i, part := range parts {
		v, err := parseValue(schema[i], part)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		rec[i] = v
	}
	return rec, nil
}

// parseKey converts the CLI key argument to the kind of the file's key field.
func parseKey(fields []header.Field, raw string) (any, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("file has no fields")
	}
	return parseValue(fields[0].Type, raw)
}

// formatRecord renders a record as one tab-separated line.
func formatRecord(rec []any) string {
	parts := make([]string, len(rec))
	for i, v := range rec {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, "\t")
}
