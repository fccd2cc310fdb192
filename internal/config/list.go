package config

import "strings"

// List is an ordered set of strings stored as a comma-separated value.
// Parsing accepts "a,b" as well as "a, b"; serialization always uses ", ".
type List []string

// ParseList decodes a list value. Items are trimmed, empty items dropped
// and later duplicates discarded.
func ParseList(s string) List {
	var out List
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" || out.Contains(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// String encodes the list.
func (l List) String() string {
	return strings.Join(l, ", ")
}

// Contains reports whether v is in the list.
func (l List) Contains(v string) bool {
	for _, item := range l {
		if item == v {
			return true
		}
	}
	return false
}

// items decodes each value with the list codec, so "a, b" counts as two
// items.
func items(values []string) List {
	return ParseList(strings.Join(values, ","))
}

// Add appends the values not yet present and reports how many were added.
// A value holding commas is split into its items.
func (l List) Add(values ...string) (List, int) {
	out := append(List(nil), l...)
	added := 0
	for _, v := range items(values) {
		if out.Contains(v) {
			continue
		}
		out = append(out, v)
		added++
	}
	return out, added
}

// Remove drops the given values and reports how many were present. A value
// holding commas is split into its items.
func (l List) Remove(values ...string) (List, int) {
	drop := make(map[string]bool, len(values))
	for _, v := range items(values) {
		drop[v] = true
	}
	out := make(List, 0, len(l))
	removed := 0
	for _, item := range l {
		if drop[item] {
			removed++
			continue
		}
		out = append(out, item)
	}
	return out, removed
}
