package execshell_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/git-prompt-info/internal/execshell"
)

const (
	testShellExecutableConstant   = "sh"
	testShellCommandFlagConstant  = "-c"
	testMissingExecutableConstant = "git-prompt-info-missing-executable"
)

func requireShell(testInstance *testing.T) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(testShellExecutableConstant); lookupError != nil {
		testInstance.Skip("sh not available")
	}
}

func TestOSCommandRunnerCapturesOutput(testInstance *testing.T) {
	requireShell(testInstance)

	runner := execshell.NewOSCommandRunner()
	executionResult, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandName(testShellExecutableConstant),
		Details: execshell.CommandDetails{
			Arguments:            []string{testShellCommandFlagConstant, "printf '%s' \"$PROMPT_TEST_VALUE\"; printf 'warn' 1>&2"},
			EnvironmentVariables: map[string]string{"PROMPT_TEST_VALUE": "captured"},
		},
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, 0, executionResult.ExitCode)
	require.Equal(testInstance, "captured", executionResult.StandardOutput)
	require.Equal(testInstance, "warn", executionResult.StandardError)
}

func TestOSCommandRunnerReportsExitCode(testInstance *testing.T) {
	requireShell(testInstance)

	runner := execshell.NewOSCommandRunner()
	executionResult, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    execshell.CommandName(testShellExecutableConstant),
		Details: execshell.CommandDetails{Arguments: []string{testShellCommandFlagConstant, "exit 3"}},
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, 3, executionResult.ExitCode)
}

func TestOSCommandRunnerRunsInWorkingDirectory(testInstance *testing.T) {
	requireShell(testInstance)

	workingDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(workingDirectory, "MERGE_HEAD"), []byte("abc\n"), 0o600))

	runner := execshell.NewOSCommandRunner()
	executionResult, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandName(testShellExecutableConstant),
		Details: execshell.CommandDetails{
			Arguments:        []string{testShellCommandFlagConstant, "ls"},
			WorkingDirectory: workingDirectory,
		},
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, "MERGE_HEAD\n", executionResult.StandardOutput)
}

func TestOSCommandRunnerReportsLaunchFailure(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()
	_, runError := runner.Run(context.Background(), execshell.ShellCommand{Name: execshell.CommandName(testMissingExecutableConstant)})
	require.Error(testInstance, runError)
}
