package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// StorageError reports a document that could not be read or written.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// CorruptError reports a document that exists but does not parse.
type CorruptError struct {
	Path  string
	Diags hcl.Diagnostics
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("config %s is corrupt: %s", e.Path, e.Diags.Error())
}

// NotFoundError reports a key unknown to both the document and the schema.
type NotFoundError struct {
	Section string
	Key     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config key %s.%s not found", e.Section, e.Key)
}

// InvalidIndexError reports a list index that is not a non-negative integer.
type InvalidIndexError struct {
	Index string
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("invalid list index %q", e.Index)
}

// OutOfRangeError reports a list index past the end of the value.
type OutOfRangeError struct {
	Section string
	Key     string
	Index   int
	Len     int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for %s.%s (%d items)", e.Index, e.Section, e.Key, e.Len)
}
