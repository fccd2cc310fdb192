package targets

import (
	"path/filepath"
	"strings"
	"time"
)

// File is a resolved target executable.
type File struct {
	// Path is absolute and cleaned.
	Path   string
	Name   string
	Stem   string
	Suffix string
	// Created is the file's creation time, or its change time where the
	// filesystem does not record one.
	Created time.Time
}

// NewFile derives the name parts of path.
func NewFile(path string) File {
	name := filepath.Base(path)
	stem, suffix := SplitName(name)
	return File{Path: path, Name: name, Stem: stem, Suffix: suffix}
}

// SplitName splits a base name into stem and suffix. The suffix is the final
// dot and what follows it. A dot in first or last position does not start a
// suffix, so ".profile" and "name." have none.
func SplitName(name string) (stem, suffix string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i:]
}
