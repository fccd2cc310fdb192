package access

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"grimm.is/pywall/internal/firewall"
	"grimm.is/pywall/internal/logging"
	"grimm.is/pywall/internal/notification"
	"grimm.is/pywall/internal/targets"
)

// Resolver expands a path into target files.
type Resolver interface {
	Resolve(path string, p targets.Policy) ([]targets.File, error)
}

// Gate checks and obtains administrative rights.
type Gate interface {
	IsElevated() bool
	ElevateAndRestart() error
}

// Executor runs firewall commands.
type Executor interface {
	Execute(ctx context.Context, cmds []firewall.Command) []firewall.Outcome
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	// Policy returns the current target policy; it is called once per
	// request so edits to the config apply to the next call.
	Policy   func() (targets.Policy, error)
	Resolver Resolver
	Builder  firewall.Builder
	Gate     Gate
	Executor Executor
	Notifier notification.Notifier
	Logger   *logging.Logger
}

// Orchestrator runs access requests.
type Orchestrator struct {
	policy   func() (targets.Policy, error)
	resolver Resolver
	builder  firewall.Builder
	gate     Gate
	executor Executor
	notifier notification.Notifier
	logger   *logging.Logger
	newID    func() string
}

// New creates an orchestrator. Resolver, Gate and Executor are required.
func New(d Deps) *Orchestrator {
	o := &Orchestrator{
		policy:   d.Policy,
		resolver: d.Resolver,
		builder:  d.Builder,
		gate:     d.Gate,
		executor: d.Executor,
		notifier: d.Notifier,
		logger:   d.Logger,
		newID:    uuid.NewString,
	}
	if o.builder.Program == "" {
		o.builder = firewall.NewBuilder()
	}
	if o.logger == nil {
		o.logger = logging.WithComponent("access")
	}
	if o.notifier == nil {
		o.notifier = discard{}
	}
	if o.policy == nil {
		o.policy = func() (targets.Policy, error) {
			return targets.Policy{AcceptedSuffixes: []string{".exe"}, Recursive: true}, nil
		}
	}
	return o
}

// Access carries out req. The returned error is nil on success and on a
// completed dry run or elevation handoff; ErrPartialFailure when some file
// failed; otherwise the typed error that aborted the call. The result is
// always non-nil.
func (o *Orchestrator) Access(ctx context.Context, req Request) (*Result, error) {
	res := &Result{ID: o.newID(), Request: req}
	log := o.logger.WithFields(map[string]any{"op": res.ID})
	log.Event("access requested",
		"path", req.Path, "action", string(req.Action), "rule_type", string(req.RuleType), "dry_run", req.DryRun)

	res.State = StateValidatingRuleType
	if !req.RuleType.Valid() {
		err := &InvalidRuleTypeError{RuleType: string(req.RuleType)}
		return o.abort(log, res, err, "Rule type is invalid",
			fmt.Sprintf("The selected rule type (%q) is not valid, please try again.", string(req.RuleType)))
	}
	if !req.Action.Valid() {
		err := &InvalidActionError{Action: string(req.Action)}
		return o.abort(log, res, err, "Action is invalid",
			fmt.Sprintf("The selected action (%q) is not valid, please try again.", string(req.Action)))
	}

	res.State = StateResolvingTargets
	policy, err := o.policy()
	if err != nil {
		return o.abort(log, res, err, "Configuration error",
			"The file type settings could not be read. Check the logs.")
	}
	files, err := o.resolver.Resolve(req.Path, policy)
	if err != nil {
		title, body := describeResolveError(req.Path, err)
		return o.abort(log, res, err, title, body)
	}

	res.Files = make([]FileResult, len(files))
	for i, f := range files {
		cmds, err := o.builder.BuildAll(req.Action, req.RuleType, f)
		if err != nil {
			return o.abort(log, res, err, "Error", "Firewall commands could not be built.")
		}
		res.Files[i] = FileResult{
			File:       f,
			Directions: req.RuleType.Directions(),
			Commands:   cmds,
		}
	}

	if req.DryRun {
		res.State = StateDone
		res.Outcome = OutcomePlanned
		res.Title = "Dry run"
		res.Body = fmt.Sprintf("%d command(s) for %d file(s) in %q.", len(res.Commands()), len(files), req.Path)
		log.Event("dry run complete", "files", len(files), "commands", len(res.Commands()))
		return res, nil
	}

	res.State = StateCheckingPrivilege
	if !o.gate.IsElevated() {
		res.State = StateElevating
		log.Event("admin privileges required, relaunching elevated")
		o.notifier.Notify("Admin Required", "This task requires elevation. Attempting to elevate.")
		if err := o.gate.ElevateAndRestart(); err != nil {
			return o.abort(log, res, err, "Elevation Failed",
				"Could not acquire admin privileges for firewall changes.")
		}
		res.Outcome = OutcomeElevated
		return res, nil
	}

	res.State = StateExecuting
	for i := range res.Files {
		o.executeFile(ctx, log, req.Action, &res.Files[i])
	}

	res.State = StateAggregating
	failed := res.Failed()
	display := displayName(req.Path)
	res.State = StateDone
	if len(failed) == 0 {
		res.Outcome = OutcomeSuccess
		res.Title = "Success"
		verb := "allowing"
		if req.Action == firewall.Deny {
			verb = "denying"
		}
		res.Body = fmt.Sprintf("Internet access rules updated for %s\n%q", verb, display)
		log.Event("access change complete", "files", len(res.Files))
		o.notifier.Notify(res.Title, res.Body)
		return res, nil
	}

	res.Outcome = OutcomePartialFailure
	res.Title = "Operation Partly Failed"
	res.Body = fmt.Sprintf("Some rules for %q may not have been applied (%d of %d files failed). Check logs.",
		display, len(failed), len(res.Files))
	log.Event("access change partly failed", "failed", len(failed), "files", len(res.Files))
	o.notifier.Notify(res.Title, res.Body)
	return res, ErrPartialFailure
}

func (o *Orchestrator) executeFile(ctx context.Context, log *logging.Logger, action firewall.Action, fr *FileResult) {
	fr.Failures = make(map[firewall.Direction]error)
	if err := ctx.Err(); err != nil {
		for _, d := range fr.Directions {
			fr.Failures[d] = err
		}
		return
	}

	for _, out := range o.executor.Execute(ctx, fr.Commands) {
		if !out.OK() {
			fr.Failures[out.Command.Spec.Direction] = out.Err
		}
	}
	fr.Succeeded = len(fr.Failures) == 0

	past := "allowed"
	if action == firewall.Deny {
		past = "blocked"
	}
	if fr.Succeeded {
		log.Event("successfully "+past, "file", fr.File.Stem, "path", fr.File.Path)
		return
	}
	for d, err := range fr.Failures {
		log.Exception(err, "firewall command failed", "file", fr.File.Stem, "direction", string(d))
	}
}

func (o *Orchestrator) abort(log *logging.Logger, res *Result, err error, title, body string) (*Result, error) {
	log.Event("operation aborted", "state", string(res.State), "reason", err.Error())
	res.State = StateAborted
	res.Outcome = OutcomeAborted
	res.Title = title
	res.Body = body
	o.notifier.Notify(title, body)
	return res, err
}

// describeResolveError maps a resolver error to a user message. Each error
// kind has its own title so "missing" and "nothing eligible" read
// differently.
func describeResolveError(path string, err error) (string, string) {
	var (
		notFound *targets.PathNotFoundError
		kind     *targets.InvalidPathKindError
		rejected *targets.FileTypeRejectedError
		none     *targets.NoAcceptedFiletypesError
	)
	switch {
	case errors.As(err, &notFound):
		return "Path doesn't exist",
			fmt.Sprintf("%q doesn't exist or is not a valid target, please try again.", displayName(path))
	case errors.As(err, &kind):
		return "Invalid path",
			fmt.Sprintf("%q is not a file or folder, please try again.", kind.Path)
	case errors.As(err, &rejected) && rejected.Blacklisted:
		return "File is blacklisted",
			fmt.Sprintf("%q is in the blacklisted names, remove it from the config to change its access.", rejected.Name)
	case errors.As(err, &rejected):
		return "Filetype not accepted",
			fmt.Sprintf("Suffix %q in file %q is not a valid target, please try again.", rejected.Suffix, rejected.Name)
	case errors.As(err, &none):
		return "No accepted filetypes",
			fmt.Sprintf("No file in\n%q\nis a valid target, please try again.", none.Path)
	default:
		return "Error", "The path could not be processed. Check the logs."
	}
}

// displayName is the last element of the user's path, as shown in messages.
func displayName(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return path
	}
	return filepath.Base(path)
}

type discard struct{}

func (discard) Notify(string, string)              {}
func (discard) NotifyBlocking(string, string) bool { return false }
