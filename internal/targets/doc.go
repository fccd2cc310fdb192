// Package targets turns a user-supplied path into the list of executables a
// firewall rule should be created or removed for.
//
// A file path yields at most that file. A directory yields its children
// (and, when [Policy.Recursive] is set, all descendants) that pass the
// policy's suffix and stem filters, ordered by creation time, oldest first.
// Hidden entries are skipped during directory enumeration.
//
// Every failure is one of the typed errors in this package so the caller can
// tell "path missing" apart from "nothing eligible":
//
//   - [PathNotFoundError]
//   - [InvalidPathKindError]
//   - [FileTypeRejectedError]
//   - [NoAcceptedFiletypesError]
package targets
