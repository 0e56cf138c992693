// Package ciutil detects continuous-integration environments and exposes
// the pipeline metadata they provide.
//
// The logging layer uses this to decide whether log records should be
// enriched with build identifiers, so failures in CI runs can be traced
// back to the exact pipeline, commit and branch that produced them.
package ciutil
