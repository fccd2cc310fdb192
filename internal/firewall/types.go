package firewall

import (
	"fmt"
	"strings"

	"grimm.is/pywall/internal/brand"
	"grimm.is/pywall/internal/targets"
)

// Action is what to do with a program's network access.
type Action string

const (
	Allow Action = "allow"
	Deny  Action = "deny"
)

// ActionFromAllow maps the CLI's boolean allow flag to an action.
func ActionFromAllow(allow bool) Action {
	if allow {
		return Allow
	}
	return Deny
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	return a == Allow || a == Deny
}

// Direction is a single traffic direction.
type Direction string

const (
	In  Direction = "in"
	Out Direction = "out"
)

// RuleType is the direction selection a user asks for.
type RuleType string

const (
	RuleIn   RuleType = "in"
	RuleOut  RuleType = "out"
	RuleBoth RuleType = "both"
)

// ParseRuleType normalizes s. Unknown values are returned unchanged and
// reported as invalid.
func ParseRuleType(s string) (RuleType, bool) {
	t := RuleType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Valid reports whether t is in, out or both.
func (t RuleType) Valid() bool {
	switch t {
	case RuleIn, RuleOut, RuleBoth:
		return true
	}
	return false
}

// Directions expands t into the directions to act on, in then out.
func (t RuleType) Directions() []Direction {
	switch t {
	case RuleIn:
		return []Direction{In}
	case RuleOut:
		return []Direction{Out}
	case RuleBoth:
		return []Direction{In, Out}
	}
	return nil
}

// RuleSpec is one rule change for one file and direction.
type RuleSpec struct {
	Action    Action
	Direction Direction
	File      targets.File
}

// RuleName returns the rule name used for a file stem.
func RuleName(stem string) string {
	return brand.RulePrefix + " " + stem
}

func (s RuleSpec) String() string {
	return fmt.Sprintf("%s %s %s", s.Action, s.Direction, s.File.Path)
}
