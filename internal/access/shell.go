package access

import (
	"fmt"
	"strings"

	"grimm.is/pywall/internal/firewall"
)

// Shell-menu command verbs.
const (
	ShellAllow = "allowAccess"
	ShellDeny  = "denyAccess"
)

// ShellCommandError reports a context-menu command that cannot be parsed.
type ShellCommandError struct {
	Raw    string
	Reason string
}

func (e *ShellCommandError) Error() string {
	return fmt.Sprintf("shell command %q: %s", e.Raw, e.Reason)
}

// ParseShellCommand turns a context-menu invocation,
// "<allowAccess|denyAccess>[,<ruleType>]" plus the selected path as the
// first extra argument, into a request. The rule type defaults to both. An
// unrecognized rule type is kept so Access rejects it with the usual
// message.
func ParseShellCommand(raw string, args []string) (Request, error) {
	verb, ruleType, hasType := strings.Cut(strings.TrimSpace(raw), ",")

	var req Request
	switch {
	case strings.Contains(verb, ShellAllow):
		req.Action = firewall.Allow
	case strings.Contains(verb, ShellDeny):
		req.Action = firewall.Deny
	default:
		return Request{}, &ShellCommandError{Raw: raw, Reason: "unknown action " + verb}
	}

	req.RuleType = firewall.RuleBoth
	if hasType && strings.TrimSpace(ruleType) != "" {
		req.RuleType, _ = firewall.ParseRuleType(ruleType)
	}

	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return Request{}, &ShellCommandError{Raw: raw, Reason: "missing file path"}
	}
	req.Path = strings.TrimSpace(args[0])
	return req, nil
}

// ShellCommand renders the "-c" argument for a request, the inverse of
// ParseShellCommand.
func ShellCommand(action firewall.Action, rt firewall.RuleType) string {
	verb := ShellDeny
	if action == firewall.Allow {
		verb = ShellAllow
	}
	if rt == "" {
		return verb
	}
	return verb + "," + string(rt)
}
