package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pmezard/go-difflib/difflib"
)

// Report describes what a validation pass did.
type Report struct {
	// Created is set when the document did not exist.
	Created bool
	// Recovered is set when an unreadable document was replaced.
	Recovered bool
	// PreservedAs names the copy of a corrupt document, if one was kept.
	PreservedAs string
	// Added lists "SECTION.key" entries filled in from the schema.
	Added []string
	// VersionUpdated is set when DEBUG.version was rewritten.
	VersionUpdated bool
	// Written is set when the document was written back.
	Written bool
}

// Changed reports whether the pass modified the document.
func (r Report) Changed() bool {
	return r.Written
}

// Validate repairs the document in place. Missing sections and keys are
// added with their defaults and the version key is brought up to date;
// existing values and user additions are never removed. The document is
// written only when something changed. An error means the document could
// not be made readable and writable, which callers must treat as fatal.
func (s *Store) Validate() (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validate()
}

func (s *Store) validate() (Report, error) {
	var rep Report

	doc, before, err := s.load()
	if err != nil {
		var corrupt *CorruptError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			s.logger.Event("config missing, creating defaults", "path", s.path)
			rep.Created = true
		case errors.As(err, &corrupt):
			s.logger.Exception(err, "config corrupt, recreating defaults", "path", s.path)
			rep.Recovered = true
			rep.PreservedAs = s.preserveCorrupt()
		default:
			s.logger.Exception(err, "config unreadable, recreating defaults", "path", s.path)
			rep.Recovered = true
			if _, serr := os.Lstat(s.path); serr == nil {
				rep.PreservedAs = s.preserveCorrupt()
				if rep.PreservedAs == "" {
					// Never overwrite content that could not be kept aside.
					return rep, err
				}
			}
		}
		return rep, s.recreate(&rep)
	}

	dirty := false
	for _, sec := range s.schema.Sections {
		if !doc.hasSection(sec.Name) {
			s.logger.Event("missing section, adding defaults", "section", sec.Name)
		}
		for _, k := range sec.Keys {
			if _, ok := doc.get(sec.Name, k.Name); ok {
				continue
			}
			def, _ := s.schema.Default(sec.Name, k.Name)
			doc.set(sec.Name, k.Name, def)
			rep.Added = append(rep.Added, sec.Name+"."+k.Name)
			dirty = true
		}
	}
	if len(rep.Added) > 0 {
		s.logger.Event("config updated with missing keys", "added", rep.Added)
	}

	if s.schema.Version != "" {
		current, _ := doc.get(SectionDebug, KeyVersion)
		if current != s.schema.Version {
			doc.set(SectionDebug, KeyVersion, s.schema.Version)
			rep.VersionUpdated = true
			dirty = true
			s.logger.Event("config version updated", "from", current, "to", s.schema.Version)
		}
	}

	if !dirty {
		return rep, nil
	}

	after := doc.bytes()
	s.logDiff(before, after)
	if err := s.write(doc); err != nil {
		s.logger.Exception(err, "failed to save repaired config")
		return rep, err
	}
	rep.Written = true
	return rep, nil
}

// recreate writes the default document and checks it reads back.
func (s *Store) recreate(rep *Report) error {
	if err := s.write(newDocument(s.schema)); err != nil {
		s.logger.Exception(err, "failed to create default config", "path", s.path)
		return err
	}
	rep.Written = true
	if _, _, err := s.load(); err != nil {
		s.logger.Exception(err, "config unreadable after recreating defaults", "path", s.path)
		return err
	}
	s.logger.Event("default configuration created", "path", s.path)
	return nil
}

// preserveCorrupt moves a corrupt or unreadable document aside so the user's content is
// not lost when defaults replace it. Failure to move it is logged only.
func (s *Store) preserveCorrupt() string {
	dest := s.path + ".corrupt-" + s.clock.Now().Format("20060102-150405")
	if err := s.rename(s.path, dest); err != nil {
		s.logger.Exception(err, "could not preserve corrupt config", "path", s.path)
		return ""
	}
	s.logger.Event("corrupt config preserved", "path", dest)
	return dest
}

func (s *Store) logDiff(before, after []byte) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "on-disk",
		ToFile:   "repaired",
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil || text == "" {
		return
	}
	s.logger.Debug("config repair diff", "diff", text)
}
