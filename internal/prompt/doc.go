// Package prompt renders a repository state into one of the supported
// prompt presentations: the machine line, the legacy escape-coded line, and
// the colorized segment.
//
// Renderers are selected by Options and never influence how the state is
// collected; the same state always yields the same truth values in every
// presentation.
package prompt
