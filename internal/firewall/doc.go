// Package firewall builds and runs the per-program firewall commands.
//
// # Overview
//
// A rule is identified by name alone: "<prefix> <stem>". Denying access adds a
// block rule with that name for one direction and program path; allowing
// access deletes it again. Because the name does not depend on the action,
// an allow always removes exactly what a deny created.
//
//	RuleSpec → Builder → Command → Executor → Outcome
//
// # Key Types
//
//   - [Builder]: pure translation of a [RuleSpec] into a [Command]
//   - [Executor]: runs commands sequentially through a host.Runner
//   - [Outcome]: per-command result, classified as [CommandFailedError] or
//     [UnexpectedError] on failure
//
// [RuleType] "both" never reaches the builder; callers expand it with
// [RuleType.Directions] so each direction succeeds or fails on its own.
package firewall
