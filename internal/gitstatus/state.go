package gitstatus

const (
	// UnknownPlaceholder stands in for commit or head values missing from the status output.
	UnknownPlaceholder = "??"
	// DetachedHeadSentinel is the branch.head value git reports when HEAD is detached.
	DetachedHeadSentinel = "(detached)"

	prepositionOnConstant = "on"
	prepositionAtConstant = "at"
)

// Operation names an in-progress operation detected in the metadata directory.
type Operation string

// Known in-progress operations.
const (
	OperationNone        Operation = ""
	OperationRebaseApply Operation = "rebase-apply"
	OperationRebaseMerge Operation = "rebase-merge"
	OperationMerge       Operation = "merge"
	OperationCherryPick  Operation = "cherry-pick"
	OperationRevert      Operation = "revert"
)

// RepositoryState is the normalized view of a repository for a single prompt draw.
type RepositoryState struct {
	AbbreviatedCommit string
	HeadDescriptor    string
	IsDirty           bool
	IsWeird           bool
	Operation         Operation
}

// NewRepositoryState returns a state with unknown commit and head.
func NewRepositoryState() RepositoryState {
	return RepositoryState{
		AbbreviatedCommit: UnknownPlaceholder,
		HeadDescriptor:    UnknownPlaceholder,
	}
}

// IsDetached reports whether HEAD is detached.
func (state RepositoryState) IsDetached() bool {
	return state.HeadDescriptor == DetachedHeadSentinel
}

// Preposition returns "at" for a detached HEAD and "on" otherwise.
func (state RepositoryState) Preposition() string {
	if state.IsDetached() {
		return prepositionAtConstant
	}
	return prepositionOnConstant
}

// DisplayName returns the branch name, or the abbreviated commit when HEAD is detached.
func (state RepositoryState) DisplayName() string {
	if state.IsDetached() {
		return state.AbbreviatedCommit
	}
	return state.HeadDescriptor
}

// WithOperation records the detected in-progress operation and sets IsWeird accordingly.
func (state RepositoryState) WithOperation(operation Operation) RepositoryState {
	state.Operation = operation
	state.IsWeird = operation != OperationNone
	return state
}
