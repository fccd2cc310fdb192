package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// Render formats.
const (
	FormatHCL  = "hcl"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Snapshot returns every section and key currently in the document,
// including entries the schema does not know about.
func (s *Store) Snapshot() (map[string]map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadForUpdate()
	if err != nil {
		return nil, err
	}
	return doc.sections(), nil
}

// Render returns the document in the requested format. HCL output is the
// document as stored, comments included.
func (s *Store) Render(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatHCL:
		s.mu.Lock()
		defer s.mu.Unlock()
		doc, err := s.loadForUpdate()
		if err != nil {
			return nil, err
		}
		return doc.bytes(), nil
	case FormatJSON:
		snap, err := s.Snapshot()
		if err != nil {
			return nil, err
		}
		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case FormatYAML:
		snap, err := s.Snapshot()
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(orderedSnapshot(snap))
	default:
		return nil, fmt.Errorf("unknown format %q (want hcl, json or yaml)", format)
	}
}

// orderedSnapshot sorts sections and keys so YAML output is stable.
func orderedSnapshot(snap map[string]map[string]string) yaml.MapSlice {
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(yaml.MapSlice, 0, len(names))
	for _, name := range names {
		keys := make([]string, 0, len(snap[name]))
		for k := range snap[name] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sec := make(yaml.MapSlice, 0, len(keys))
		for _, k := range keys {
			sec = append(sec, yaml.MapItem{Key: k, Value: snap[name][k]})
		}
		out = append(out, yaml.MapItem{Key: name, Value: sec})
	}
	return out
}
