package firewall

import (
	"fmt"
	"strings"

	"grimm.is/pywall/internal/targets"
)

// DefaultProgram is the firewall management tool.
const DefaultProgram = "netsh"

// Command is a ready-to-run firewall invocation.
type Command struct {
	Name string
	Args []string
	// TolerateMissing marks a delete whose failure because no rule matched
	// counts as success.
	TolerateMissing bool
	Spec            RuleSpec
}

// String renders the command the way it would be typed in a shell.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		if k, v, ok := strings.Cut(a, "="); ok && strings.ContainsAny(v, " \t") {
			a = k + `="` + v + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Builder translates rule specs into commands. It holds no state beyond the
// program name, so Build is deterministic.
type Builder struct {
	Program string
}

// NewBuilder returns a builder for the default firewall tool.
func NewBuilder() Builder {
	return Builder{Program: DefaultProgram}
}

// Build returns the command for one action, direction and file. Denying adds
// a block rule; allowing deletes it and tolerates its absence.
func (b Builder) Build(action Action, dir Direction, file targets.File) (Command, error) {
	if dir != In && dir != Out {
		return Command{}, fmt.Errorf("invalid direction %q", dir)
	}
	program := b.Program
	if program == "" {
		program = DefaultProgram
	}

	spec := RuleSpec{Action: action, Direction: dir, File: file}
	name := "name=" + RuleName(file.Stem)
	prog := "program=" + file.Path

	switch action {
	case Deny:
		return Command{
			Name: program,
			Args: []string{"advfirewall", "firewall", "add", "rule", name, "dir=" + string(dir), prog, "action=block"},
			Spec: spec,
		}, nil
	case Allow:
		return Command{
			Name:            program,
			Args:            []string{"advfirewall", "firewall", "delete", "rule", name, "dir=" + string(dir), prog},
			TolerateMissing: true,
			Spec:            spec,
		}, nil
	default:
		return Command{}, fmt.Errorf("invalid action %q", action)
	}
}

// BuildAll returns one command per direction of t.
func (b Builder) BuildAll(action Action, t RuleType, file targets.File) ([]Command, error) {
	dirs := t.Directions()
	if len(dirs) == 0 {
		return nil, fmt.Errorf("invalid rule type %q", t)
	}
	cmds := make([]Command, 0, len(dirs))
	for _, d := range dirs {
		c, err := b.Build(action, d, file)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}
