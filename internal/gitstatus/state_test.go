package gitstatus_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/git-prompt-info/internal/gitstatus"
)

func TestRepositoryStatePresentation(testInstance *testing.T) {
	testCases := []struct {
		name                string
		state               gitstatus.RepositoryState
		expectedPreposition string
		expectedDisplayName string
		expectedDetached    bool
	}{
		{
			name:                "branch",
			state:               gitstatus.RepositoryState{AbbreviatedCommit: "abc123de", HeadDescriptor: "main"},
			expectedPreposition: "on",
			expectedDisplayName: "main",
		},
		{
			name:                "detached",
			state:               gitstatus.RepositoryState{AbbreviatedCommit: "abc123de", HeadDescriptor: gitstatus.DetachedHeadSentinel},
			expectedPreposition: "at",
			expectedDisplayName: "abc123de",
			expectedDetached:    true,
		},
		{
			name:                "unknown",
			state:               gitstatus.NewRepositoryState(),
			expectedPreposition: "on",
			expectedDisplayName: gitstatus.UnknownPlaceholder,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPreposition, testCase.state.Preposition())
			require.Equal(testInstance, testCase.expectedDisplayName, testCase.state.DisplayName())
			require.Equal(testInstance, testCase.expectedDetached, testCase.state.IsDetached())
		})
	}
}

func TestRepositoryStateWithOperation(testInstance *testing.T) {
	state := gitstatus.NewRepositoryState().WithOperation(gitstatus.OperationCherryPick)
	require.True(testInstance, state.IsWeird)
	require.Equal(testInstance, gitstatus.OperationCherryPick, state.Operation)

	cleared := state.WithOperation(gitstatus.OperationNone)
	require.False(testInstance, cleared.IsWeird)
}
