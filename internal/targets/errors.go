package targets

import "fmt"

// PathNotFoundError reports a path that does not exist or cannot be read.
type PathNotFoundError struct {
	Path string
	// Err is the underlying filesystem error, if any.
	Err error
}

func (e *PathNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("path %q is not accessible: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("path %q does not exist", e.Path)
}

func (e *PathNotFoundError) Unwrap() error { return e.Err }

// InvalidPathKindError reports a path that is neither a regular file nor a
// directory (a device, socket or pipe).
type InvalidPathKindError struct {
	Path string
}

func (e *InvalidPathKindError) Error() string {
	return fmt.Sprintf("path %q is not a file or directory", e.Path)
}

// FileTypeRejectedError reports a single file excluded by the policy.
type FileTypeRejectedError struct {
	Path   string
	Name   string
	Suffix string
	// Blacklisted is set when the stem, not the suffix, caused the rejection.
	Blacklisted bool
}

func (e *FileTypeRejectedError) Error() string {
	if e.Blacklisted {
		return fmt.Sprintf("file %q is blacklisted", e.Name)
	}
	return fmt.Sprintf("suffix %q of file %q is not an accepted type", e.Suffix, e.Name)
}

// NoAcceptedFiletypesError reports a directory with no eligible files.
type NoAcceptedFiletypesError struct {
	Path string
	// Scanned is the number of regular files considered.
	Scanned int
}

func (e *NoAcceptedFiletypesError) Error() string {
	return fmt.Sprintf("no accepted file types in %q (%d files scanned)", e.Path, e.Scanned)
}
