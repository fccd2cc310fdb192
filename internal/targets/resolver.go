package targets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"grimm.is/pywall/internal/logging"
)

// Resolver expands a path into target files.
type Resolver struct {
	logger  *logging.Logger
	created func(path string, fi fs.FileInfo) time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCreationTime replaces the platform creation-time lookup.
func WithCreationTime(fn func(path string, fi fs.FileInfo) time.Time) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.created = fn
		}
	}
}

// NewResolver creates a resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		logger:  logging.WithComponent("targets"),
		created: creationTime,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the files under path that the policy accepts. The result
// is never empty when err is nil.
func (r *Resolver) Resolve(path string, p Policy) ([]File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &PathNotFoundError{Path: path}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		r.logger.Event("path not found", "path", abs)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PathNotFoundError{Path: abs}
		}
		return nil, &PathNotFoundError{Path: abs, Err: err}
	}

	switch {
	case fi.Mode().IsRegular():
		r.logger.Debug("file detected", "path", abs)
		f := NewFile(abs)
		f.Created = r.created(abs, fi)
		if p.Blacklisted(f.Stem) {
			r.logger.Event("file is blacklisted", "path", abs)
			return nil, &FileTypeRejectedError{Path: abs, Name: f.Name, Suffix: f.Suffix, Blacklisted: true}
		}
		if !p.SuffixAccepted(f.Suffix) {
			r.logger.Event("file type not accepted", "path", abs, "suffix", f.Suffix)
			return nil, &FileTypeRejectedError{Path: abs, Name: f.Name, Suffix: f.Suffix}
		}
		return []File{f}, nil

	case fi.IsDir():
		r.logger.Debug("folder detected", "path", abs, "recursive", p.Recursive)
		return r.scanDir(abs, p)

	default:
		r.logger.Event("path is not a file or directory", "path", abs, "mode", fi.Mode().String())
		return nil, &InvalidPathKindError{Path: abs}
	}
}

func (r *Resolver) scanDir(dir string, p Policy) ([]File, error) {
	var (
		files   []File
		scanned int
		seen    = make(map[string]bool)
	)

	consider := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			return
		}
		scanned++
		f := NewFile(path)
		if !p.Accepts(f) {
			return
		}
		f.Created = r.created(path, fi)
		files = append(files, f)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		r.logger.Exception(err, "cannot read directory", "path", dir)
		return nil, &PathNotFoundError{Path: dir, Err: err}
	}
	for _, e := range entries {
		if hidden(e.Name()) {
			continue
		}
		consider(filepath.Join(dir, e.Name()))
	}

	if p.Recursive {
		walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if path == dir {
				return err
			}
			if err != nil {
				r.logger.Warn("skipping unreadable entry", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if hidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() {
				consider(path)
			}
			return nil
		})
		if walkErr != nil {
			r.logger.Exception(walkErr, "directory walk failed", "path", dir)
		}
	}

	if len(files) == 0 {
		r.logger.Event("no accepted files found", "path", dir, "scanned", scanned)
		return nil, &NoAcceptedFiletypesError{Path: dir, Scanned: scanned}
	}

	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].Created.Equal(files[j].Created) {
			return files[i].Created.Before(files[j].Created)
		}
		return files[i].Path < files[j].Path
	})
	r.logger.Event("target files found", "path", dir, "count", len(files))
	return files, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
