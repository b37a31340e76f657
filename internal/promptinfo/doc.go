// Package promptinfo sequences the repository status query, the metadata
// directory query, and weirdness detection into an Outcome, then hands the
// Outcome to a prompt renderer.
package promptinfo
