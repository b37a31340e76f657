package gitstatus

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	headerMarkerConstant             = "#"
	branchOIDHeaderKeyConstant       = "branch.oid"
	branchHeadHeaderKeyConstant      = "branch.head"
	lineSeparatorConstant            = "\n"
	carriageReturnConstant           = "\r"
	abbreviatedCommitLengthConstant  = 8
	headerValueMinimumFieldsConstant = 3
	malformedStatusMessageConstant   = "status output is not valid UTF-8 text"
)

// ErrMalformedStatus indicates the status output could not be interpreted as text.
var ErrMalformedStatus = errors.New(malformedStatusMessageConstant)

// Parse extracts the commit, head, and dirtiness from porcelain v2 output
// produced with --branch. Missing headers leave UnknownPlaceholder in place.
// IsWeird is never set here.
func Parse(rawStatus string) (RepositoryState, error) {
	if !utf8.ValidString(rawStatus) {
		return RepositoryState{}, ErrMalformedStatus
	}

	state := NewRepositoryState()
	for _, line := range splitLines(rawStatus) {
		if !strings.HasPrefix(line, headerMarkerConstant) {
			state.IsDirty = true
			break
		}

		headerKey, headerValue, hasValue := parseHeader(line)
		if !hasValue {
			continue
		}

		switch headerKey {
		case branchOIDHeaderKeyConstant:
			state.AbbreviatedCommit = abbreviateCommit(headerValue)
		case branchHeadHeaderKeyConstant:
			state.HeadDescriptor = headerValue
		}
	}

	return state, nil
}

// splitLines follows line-oriented semantics: a trailing newline does not
// introduce an empty final line and CRLF endings are tolerated.
func splitLines(rawStatus string) []string {
	if len(rawStatus) == 0 {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(rawStatus, lineSeparatorConstant), lineSeparatorConstant)
	for lineIndex, line := range lines {
		lines[lineIndex] = strings.TrimSuffix(line, carriageReturnConstant)
	}
	return lines
}

func parseHeader(line string) (string, string, bool) {
	fields := strings.Fields(line)
	if len(fields) < headerValueMinimumFieldsConstant || fields[0] != headerMarkerConstant {
		return "", "", false
	}
	return fields[1], fields[len(fields)-1], true
}

func abbreviateCommit(commit string) string {
	if len(commit) <= abbreviatedCommitLengthConstant {
		return commit
	}
	return commit[:abbreviatedCommitLengthConstant]
}
