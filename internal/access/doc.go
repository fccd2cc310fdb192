// Package access grants or revokes network access for the executables
// under a path.
//
// One call to [Orchestrator.Access] walks a fixed sequence of states:
//
//	ValidatingRuleType → ResolvingTargets → CheckingPrivilege → Executing → Aggregating → Done
//
// with two early exits. An invalid request or a path that yields no targets
// ends in Aborted before anything is built or run. A missing privilege ends
// in Elevating, where the process hands the whole request to an elevated
// copy of itself and exits.
//
// Files are processed one at a time and, for rule type "both", each
// direction is attempted even if the other failed. A file counts as failed
// when any of its directions failed; the call as a whole is a partial
// failure when any file failed.
package access
