// Package runner wraps command execution for operations that change state on
// the network, such as depositing cycles.
//
// With dry-run enabled the wrapped commands are only printed, using the same
// "+ cmd args" form as CYCLEKIT_DEBUG, and an empty output is returned.
package runner
