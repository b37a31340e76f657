// Package weirdness detects in-progress rebase, merge, cherry-pick, and
// revert operations by probing marker entries in the repository metadata
// directory.
package weirdness
