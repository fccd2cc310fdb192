package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"grimm.is/pywall/internal/brand"
	"grimm.is/pywall/internal/clock"
	"grimm.is/pywall/internal/logging"
)

// Store provides typed access to the settings document. Every exported
// method performs its own read-modify-write under the store lock, so a
// watcher-triggered validation and a foreground Set never interleave.
type Store struct {
	path   string
	schema Schema
	logger *logging.Logger
	clock  clock.Clock

	onReload func(Report)
	// rename moves the temporary file over the document.
	rename func(oldpath, newpath string) error

	mu sync.Mutex
	// writes counts successful document writes.
	writes int
}

// Option configures a Store.
type Option func(*Store)

// WithSchema replaces the compiled-in schema.
func WithSchema(s Schema) Option {
	return func(st *Store) { st.schema = s }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(st *Store) {
		if l != nil {
			st.logger = l
		}
	}
}

// WithClock sets the clock used to name preserved corrupt files.
func WithClock(c clock.Clock) Option {
	return func(st *Store) {
		if c != nil {
			st.clock = c
		}
	}
}

// WithReloadHook registers a callback run after the watcher re-validates
// the document.
func WithReloadHook(fn func(Report)) Option {
	return func(st *Store) { st.onReload = fn }
}

// DefaultPath returns the per-user location of the settings document.
func DefaultPath() string {
	return brand.GetConfigPath()
}

// New creates a store for the document at path.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		schema: DefaultSchema(),
		logger: logging.WithComponent("config"),
		clock:  clock.RealClock{},
		rename: os.Rename,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Schema returns the schema the store validates against.
func (s *Store) Schema() Schema {
	return s.schema
}

// Logger returns the store's logger.
func (s *Store) Logger() *logging.Logger {
	return s.logger
}

// Exists reports whether the document is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// EnsureDefault writes the default document if none exists yet.
func (s *Store) EnsureDefault() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &StorageError{Op: "stat", Path: s.path, Err: err}
	}

	if err := s.write(newDocument(s.schema)); err != nil {
		return err
	}
	s.logger.Event("default configuration created", "path", s.path)
	return nil
}

// Get returns section.key. A value missing on disk triggers one validation
// pass; if the key is still absent the schema default is returned. Keys
// unknown to the schema yield a *NotFoundError.
func (s *Store) Get(section, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, _, err := s.load()
	if err == nil {
		if v, ok := doc.get(section, key); ok {
			return v, nil
		}
		s.logger.Event("config key missing, validating", "section", section, "key", key)
	} else {
		s.logger.Exception(err, "config read failed, validating", "section", section, "key", key)
	}

	if _, verr := s.validate(); verr != nil {
		s.logger.Exception(verr, "on-demand validation failed")
	} else if doc, _, err = s.load(); err == nil {
		if v, ok := doc.get(section, key); ok {
			return v, nil
		}
	}

	if def, ok := s.schema.Default(section, key); ok {
		s.logger.Warn("using built-in default", "section", section, "key", key)
		return def, nil
	}
	return "", &NotFoundError{Section: section, Key: key}
}

// GetBool parses section.key as a boolean. Anything strconv.ParseBool
// rejects is reported as an error.
func (s *Store) GetBool(section, key string) (bool, error) {
	v, err := s.Get(section, key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s.%s: %w", section, key, err)
	}
	return b, nil
}

// GetList decodes section.key with the List codec.
func (s *Store) GetList(section, key string) (List, error) {
	v, err := s.Get(section, key)
	if err != nil {
		return nil, err
	}
	return ParseList(v), nil
}

// GetIndexed returns one element of a list-valued key.
func (s *Store) GetIndexed(section, key string, index int) (string, error) {
	if index < 0 {
		return "", &InvalidIndexError{Index: strconv.Itoa(index)}
	}
	list, err := s.GetList(section, key)
	if err != nil {
		return "", err
	}
	if index >= len(list) {
		return "", &OutOfRangeError{Section: section, Key: key, Index: index, Len: len(list)}
	}
	return list[index], nil
}

// ParseIndex converts user input into a list index.
func ParseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, &InvalidIndexError{Index: s}
	}
	return i, nil
}

// Set stores value under section.key, creating the section if needed.
func (s *Store) Set(section, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadForUpdate()
	if err != nil {
		return err
	}
	if doc.set(section, key, value) {
		s.logger.Event("section added", "section", section)
	}
	if err := s.write(doc); err != nil {
		return err
	}
	s.logger.Event("config value modified", "section", section, "key", key, "value", value)
	return nil
}

// AppendUnique adds values to a list-valued key and returns how many were
// new. Nothing is written when every value was already present.
func (s *Store) AppendUnique(section, key string, values ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadForUpdate()
	if err != nil {
		return 0, err
	}
	current, _ := doc.get(section, key)
	list, added := ParseList(current).Add(values...)
	if added == 0 {
		s.logger.Event("no new values appended", "section", section, "key", key)
		return 0, nil
	}
	if doc.set(section, key, list.String()) {
		s.logger.Event("section added", "section", section)
	}
	if err := s.write(doc); err != nil {
		return 0, err
	}
	s.logger.Event("config values appended", "section", section, "key", key, "count", added)
	return added, nil
}

// RemoveValues drops values from a list-valued key and returns how many
// were removed. Nothing is written when none were present.
func (s *Store) RemoveValues(section, key string, values ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadForUpdate()
	if err != nil {
		return 0, err
	}
	current, ok := doc.get(section, key)
	if !ok {
		s.logger.Event("nothing to remove, key absent", "section", section, "key", key)
		return 0, nil
	}
	list, removed := ParseList(current).Remove(values...)
	if removed == 0 {
		s.logger.Event("no values removed", "section", section, "key", key)
		return 0, nil
	}
	doc.set(section, key, list.String())
	if err := s.write(doc); err != nil {
		return 0, err
	}
	s.logger.Event("config values removed", "section", section, "key", key, "count", removed)
	return removed, nil
}

// load reads and parses the document. A missing file is reported as a
// *StorageError wrapping fs.ErrNotExist.
func (s *Store) load() (*document, []byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, &StorageError{Op: "read", Path: s.path, Err: err}
	}
	doc, err := parseDocument(data, s.path)
	if err != nil {
		return nil, data, err
	}
	return doc, data, nil
}

// loadForUpdate returns a parsed document, repairing it first if it is
// missing or unreadable.
func (s *Store) loadForUpdate() (*document, error) {
	doc, _, err := s.load()
	if err == nil {
		return doc, nil
	}
	if _, verr := s.validate(); verr != nil {
		return nil, verr
	}
	doc, _, err = s.load()
	return doc, err
}

// write replaces the document atomically: the new content goes to a
// temporary file in the same directory which is then renamed over the
// original.
func (s *Store) write(doc *document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StorageError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(doc.bytes()); err != nil {
		tmp.Close()
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	if err := s.rename(tmpName, s.path); err != nil {
		return &StorageError{Op: "write", Path: s.path, Err: err}
	}
	s.writes++
	return nil
}
