// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with zap logging via ShellExecutor and exposes
// OSCommandRunner for default process execution, so the repository status
// queries can be exercised in tests without spawning git.
package execshell
