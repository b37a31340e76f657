// Package filesystem exposes the operating system filesystem behind the
// narrow interfaces used to probe repository metadata.
package filesystem
