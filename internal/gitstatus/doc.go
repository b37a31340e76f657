// Package gitstatus interprets the branch-aware porcelain v2 output of
// git status into a RepositoryState suitable for prompt rendering.
package gitstatus
