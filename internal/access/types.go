package access

import (
	"errors"
	"fmt"

	"grimm.is/pywall/internal/firewall"
	"grimm.is/pywall/internal/targets"
)

// State is a step of an orchestration call.
type State string

const (
	StateValidatingRuleType State = "validating-rule-type"
	StateResolvingTargets   State = "resolving-targets"
	StateAborted            State = "aborted"
	StateCheckingPrivilege  State = "checking-privilege"
	StateElevating          State = "elevating"
	StateExecuting          State = "executing"
	StateAggregating        State = "aggregating"
	StateDone               State = "done"
)

// Outcome summarizes how a call ended.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomePartialFailure Outcome = "partial-failure"
	OutcomeAborted        Outcome = "aborted"
	// OutcomeElevated means the request was handed to an elevated process.
	OutcomeElevated Outcome = "elevated"
	// OutcomePlanned means a dry run built the commands without running them.
	OutcomePlanned Outcome = "planned"
)

// ErrPartialFailure is returned when at least one file failed.
var ErrPartialFailure = errors.New("one or more firewall commands failed")

// InvalidRuleTypeError reports a rule type other than in, out or both.
type InvalidRuleTypeError struct {
	RuleType string
}

func (e *InvalidRuleTypeError) Error() string {
	return fmt.Sprintf("invalid rule type %q (want in, out or both)", e.RuleType)
}

// InvalidActionError reports an action other than allow or deny.
type InvalidActionError struct {
	Action string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action %q (want allow or deny)", e.Action)
}

// Request is one access change.
type Request struct {
	Path     string
	Action   firewall.Action
	RuleType firewall.RuleType
	// DryRun builds the commands without checking privilege or running them.
	DryRun bool
}

// FileResult is what happened to one target file.
type FileResult struct {
	File       targets.File
	Directions []firewall.Direction
	Commands   []firewall.Command
	// Failures holds the error for each direction that failed.
	Failures  map[firewall.Direction]error
	Succeeded bool
}

// Result is the outcome of one call. It is never persisted.
type Result struct {
	ID      string
	Request Request
	State   State
	Outcome Outcome
	Files   []FileResult
	// Title and Body are the message shown to the user.
	Title string
	Body  string
}

// Failed returns the files that did not fully succeed.
func (r *Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if !f.Succeeded {
			out = append(out, f)
		}
	}
	return out
}

// Commands returns every command built, in execution order.
func (r *Result) Commands() []firewall.Command {
	var out []firewall.Command
	for _, f := range r.Files {
		out = append(out, f.Commands...)
	}
	return out
}
