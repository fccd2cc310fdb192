// Package config implements the self-healing settings store.
//
// # Overview
//
// Settings live in a single HCL document, one unlabeled block per section
// and one string attribute per key:
//
//	FILETYPE {
//	  accepted_types    = ".exe"
//	  blacklisted_names = ""
//	  recursive         = "true"
//	}
//
// The compiled-in [Schema] lists every section and key the tool relies on.
// [Store.Validate] repairs the document additively: missing keys are filled
// in from the schema, the version key is bumped, and everything else the
// user wrote (extra blocks, extra keys, comments, customized values) is kept
// as-is because edits go through hclwrite rather than a re-serialization.
// An unparseable document is moved aside and replaced by the defaults.
//
// # Key Types
//
//   - [Store]: read/modify/write access to the document, one lock per call
//   - [Schema]: compiled defaults
//   - [List]: ordered, duplicate-free codec for comma-separated values
//   - [Report]: what a validation pass changed
//   - [Watcher]: background poller that re-validates after external edits
package config
