package promptinfo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/git-prompt-info/internal/execshell"
	"github.com/temirov/git-prompt-info/internal/filesystem"
	"github.com/temirov/git-prompt-info/internal/gitstatus"
	"github.com/temirov/git-prompt-info/internal/prompt"
)

const (
	cleanStatusOutputConstant    = "# branch.oid abc123deadbeef\n# branch.head main\n"
	detachedStatusOutputConstant = "# branch.oid abc123deadbeef\n# branch.head (detached)\n1 .M N... file.txt\n"
)

type stubGitResponse struct {
	result execshell.ExecutionResult
	err    error
}

type stubGitExecutor struct {
	statusResponse   stubGitResponse
	metadataResponse stubGitResponse
	recorded         []execshell.CommandDetails
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recorded = append(executor.recorded, details)
	response := executor.metadataResponse
	for _, argument := range details.Arguments {
		if argument == gitStatusSubcommandConstant {
			response = executor.statusResponse
		}
	}
	if response.err != nil {
		return execshell.ExecutionResult{}, response.err
	}
	return response.result, nil
}

func newMetadataDirectory(testInstance *testing.T, markers ...string) string {
	testInstance.Helper()
	metadataDirectory := filepath.Join(testInstance.TempDir(), ".git")
	require.NoError(testInstance, os.Mkdir(metadataDirectory, 0o755))
	for _, marker := range markers {
		require.NoError(testInstance, os.Mkdir(filepath.Join(metadataDirectory, marker), 0o755))
	}
	return metadataDirectory
}

func succeed(output string) stubGitResponse {
	return stubGitResponse{result: execshell.ExecutionResult{StandardOutput: output}}
}

func notARepository() stubGitResponse {
	return stubGitResponse{err: execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 128}}}
}

func renderMachineLine(testInstance *testing.T, executor *stubGitExecutor) string {
	testInstance.Helper()
	service, creationError := NewService(ServiceDependencies{GitExecutor: executor, FileSystem: filesystem.OSFileSystem{}})
	require.NoError(testInstance, creationError)

	outputBuffer := &bytes.Buffer{}
	require.NoError(testInstance, service.Run(context.Background(), "", prompt.MachineRenderer{Protocol: prompt.ProtocolV2}, outputBuffer))
	return outputBuffer.String()
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	_, creationError := NewService(ServiceDependencies{FileSystem: filesystem.OSFileSystem{}})
	require.ErrorIs(testInstance, creationError, ErrGitExecutorNotConfigured)

	_, creationError = NewService(ServiceDependencies{GitExecutor: &stubGitExecutor{}})
	require.ErrorIs(testInstance, creationError, ErrFileSystemNotConfigured)
}

func TestRunScenarios(testInstance *testing.T) {
	testCases := []struct {
		name             string
		statusResponse   stubGitResponse
		metadataMarkers  []string
		metadataResponse func(metadataDirectory string) stubGitResponse
		expectedOutput   string
		expectedCommands int
	}{
		{
			name:           "clean_branch",
			statusResponse: succeed(cleanStatusOutputConstant),
			expectedOutput: "1 on main 0 0\n",
		},
		{
			name:           "dirty_detached",
			statusResponse: succeed(detachedStatusOutputConstant),
			expectedOutput: "1 at abc123de 1 0\n",
		},
		{
			name:            "rebase_in_progress",
			statusResponse:  succeed(cleanStatusOutputConstant),
			metadataMarkers: []string{"rebase-merge"},
			expectedOutput:  "1 on main 0 1\n",
		},
		{
			name:             "status_query_fails",
			statusResponse:   notARepository(),
			expectedOutput:   "0\n",
			expectedCommands: 1,
		},
		{
			name:           "metadata_query_fails",
			statusResponse: succeed(cleanStatusOutputConstant),
			metadataResponse: func(string) stubGitResponse {
				return notARepository()
			},
			expectedOutput: "0\n",
		},
		{
			name:           "metadata_query_launch_failure",
			statusResponse: succeed(cleanStatusOutputConstant),
			metadataResponse: func(string) stubGitResponse {
				return stubGitResponse{err: execshell.CommandExecutionError{Cause: errors.New("executable file not found")}}
			},
			expectedOutput: "0\n",
		},
		{
			name:           "metadata_query_empty",
			statusResponse: succeed(cleanStatusOutputConstant),
			metadataResponse: func(string) stubGitResponse {
				return succeed("")
			},
			expectedOutput: "0\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			metadataDirectory := newMetadataDirectory(testInstance, testCase.metadataMarkers...)
			metadataResponse := succeed(metadataDirectory + "\n")
			if testCase.metadataResponse != nil {
				metadataResponse = testCase.metadataResponse(metadataDirectory)
			}

			executor := &stubGitExecutor{statusResponse: testCase.statusResponse, metadataResponse: metadataResponse}
			require.Equal(testInstance, testCase.expectedOutput, renderMachineLine(testInstance, executor))

			expectedCommands := testCase.expectedCommands
			if expectedCommands == 0 {
				expectedCommands = 2
			}
			require.Len(testInstance, executor.recorded, expectedCommands)
		})
	}
}

func TestCollectIssuesExpectedQueries(testInstance *testing.T) {
	metadataDirectory := newMetadataDirectory(testInstance)
	executor := &stubGitExecutor{statusResponse: succeed(cleanStatusOutputConstant), metadataResponse: succeed(metadataDirectory + "\n")}
	service, creationError := NewService(ServiceDependencies{GitExecutor: executor, FileSystem: filesystem.OSFileSystem{}})
	require.NoError(testInstance, creationError)

	_, collectError := service.Collect(context.Background(), "/workspace/repo")
	require.NoError(testInstance, collectError)

	require.Len(testInstance, executor.recorded, 2)
	require.Equal(testInstance, []string{"--no-optional-locks", "status", "--branch", "--porcelain=v2"}, executor.recorded[0].Arguments)
	require.Equal(testInstance, []string{"rev-parse", "--git-dir"}, executor.recorded[1].Arguments)
	for _, details := range executor.recorded {
		require.Equal(testInstance, "/workspace/repo", details.WorkingDirectory)
		require.Equal(testInstance, "0", details.EnvironmentVariables["GIT_OPTIONAL_LOCKS"])
	}
}

func TestCollectResolvesRelativeMetadataDirectory(testInstance *testing.T) {
	metadataDirectory := newMetadataDirectory(testInstance, "CHERRY_PICK_HEAD")
	executor := &stubGitExecutor{statusResponse: succeed(cleanStatusOutputConstant), metadataResponse: succeed(".git\n")}
	service, creationError := NewService(ServiceDependencies{GitExecutor: executor, FileSystem: filesystem.OSFileSystem{}})
	require.NoError(testInstance, creationError)

	outcome, collectError := service.Collect(context.Background(), filepath.Dir(metadataDirectory))
	require.NoError(testInstance, collectError)
	require.True(testInstance, outcome.Available)
	require.True(testInstance, outcome.State.IsWeird)
	require.Equal(testInstance, gitstatus.OperationCherryPick, outcome.State.Operation)
}

func TestCollectRejectsMalformedStatus(testInstance *testing.T) {
	executor := &stubGitExecutor{statusResponse: succeed("# branch.oid \xff\n")}
	service, creationError := NewService(ServiceDependencies{GitExecutor: executor, FileSystem: filesystem.OSFileSystem{}})
	require.NoError(testInstance, creationError)

	outputBuffer := &bytes.Buffer{}
	runError := service.Run(context.Background(), "", prompt.MachineRenderer{}, outputBuffer)
	require.ErrorIs(testInstance, runError, gitstatus.ErrMalformedStatus)
	require.Empty(testInstance, outputBuffer.String())
	require.Len(testInstance, executor.recorded, 1)
}

func TestRunIsIdempotent(testInstance *testing.T) {
	metadataDirectory := newMetadataDirectory(testInstance, "MERGE_HEAD")
	executor := &stubGitExecutor{statusResponse: succeed(detachedStatusOutputConstant), metadataResponse: succeed(metadataDirectory + "\n")}

	firstOutput := renderMachineLine(testInstance, executor)
	secondOutput := renderMachineLine(testInstance, executor)
	require.Equal(testInstance, "1 at abc123de 1 1\n", firstOutput)
	require.Equal(testInstance, firstOutput, secondOutput)
}

func TestRunRequiresRenderer(testInstance *testing.T) {
	service, creationError := NewService(ServiceDependencies{GitExecutor: &stubGitExecutor{}, FileSystem: filesystem.OSFileSystem{}})
	require.NoError(testInstance, creationError)
	require.ErrorIs(testInstance, service.Run(context.Background(), "", nil, &bytes.Buffer{}), ErrRendererNotConfigured)
}

func TestRunLogsStateTransitions(testInstance *testing.T) {
	observerCore, observerLogs := observer.New(zap.DebugLevel)
	executor := &stubGitExecutor{statusResponse: notARepository()}
	service, creationError := NewService(ServiceDependencies{GitExecutor: executor, FileSystem: filesystem.OSFileSystem{}, Logger: zap.New(observerCore)})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Run(context.Background(), "", prompt.LegacyRenderer{}, &bytes.Buffer{}))

	var loggedStates []string
	for _, entry := range observerLogs.All() {
		loggedStates = append(loggedStates, entry.ContextMap()[logFieldStateConstant].(string))
	}
	require.Equal(testInstance, []string{"QUERY_STATUS", "BAIL", "RENDER", "DONE"}, loggedStates)
}
